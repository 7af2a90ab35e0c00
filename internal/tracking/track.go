package tracking

import (
	"context"
	"fmt"
	"strings"
	"time"

	"desicargo-backend/internal/apperr"
	"desicargo-backend/internal/models"
)

type Service struct {
	store Store
}

func NewService(store Store) *Service {
	return &Service{store: store}
}

type TimelineEntry struct {
	EventType   string    `json:"event_type"`
	Status      string    `json:"status"`
	Description string    `json:"description"`
	Location    string    `json:"location"`
	EventTime   time.Time `json:"event_time"`
}

// Shipment is the public view of one consignment. It carries no charges
// or party contact details.
type Shipment struct {
	LRNumber   string               `json:"lr_number"`
	Status     models.BookingStatus `json:"status"`
	FromBranch string               `json:"from_branch"`
	ToBranch   string               `json:"to_branch"`
	Quantity   int                  `json:"quantity"`
	UOM        string               `json:"uom"`
	BookedAt   time.Time            `json:"booked_at"`
	Expected   *time.Time           `json:"expected_delivery_date,omitempty"`
	Timeline   []TimelineEntry      `json:"timeline"`
}

func (s *Service) Track(ctx context.Context, lr string) (*Shipment, error) {
	lr = strings.TrimSpace(lr)
	if lr == "" {
		return nil, apperr.Validation("LR number is required")
	}

	b, err := s.store.FindBookingByLR(ctx, lr)
	if err != nil {
		if apperr.IsReason(err, apperr.ReasonNotFound) {
			return nil, apperr.NotFound(fmt.Sprintf("no shipment found for LR %s", lr))
		}
		return nil, err
	}

	events, err := s.store.ListTrackingEvents(ctx, b.ID)
	if err != nil {
		return nil, err
	}

	out := &Shipment{
		LRNumber: b.LRNumber,
		Status:   b.Status,
		Quantity: b.Quantity,
		UOM:      b.UOM,
		BookedAt: b.CreatedAt,
		Expected: b.ExpectedDeliveryDate,
		Timeline: make([]TimelineEntry, 0, len(events)),
	}
	if b.FromBranch != nil {
		out.FromBranch = b.FromBranch.Name
	}
	if b.ToBranch != nil {
		out.ToBranch = b.ToBranch.Name
	}
	for _, e := range events {
		out.Timeline = append(out.Timeline, TimelineEntry{
			EventType:   e.EventType,
			Status:      e.Status,
			Description: e.Description,
			Location:    e.Location,
			EventTime:   e.EventTime,
		})
	}
	return out, nil
}
