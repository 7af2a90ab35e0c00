package tracking

import (
	"context"
	"fmt"

	"desicargo-backend/internal/broker/messages"
	"desicargo-backend/internal/models"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
)

type Store interface {
	AppendTrackingEvent(ctx context.Context, e *models.TrackingEvent) error
	FindBookingByLR(ctx context.Context, lr string) (*models.Booking, error)
	ListTrackingEvents(ctx context.Context, bookingID uuid.UUID) ([]models.TrackingEvent, error)
}

// Recorder turns booking lifecycle events into timeline entries.
type Recorder struct {
	store Store
	log   logrus.FieldLogger
}

func NewRecorder(store Store, log logrus.FieldLogger) *Recorder {
	return &Recorder{store: store, log: log.WithField("component", "tracking")}
}

// Record appends one timeline entry. Events that can never be stored are
// logged and dropped so they do not block the stream.
func (r *Recorder) Record(ctx context.Context, ev messages.BookingEvent) error {
	bookingID, err := uuid.Parse(ev.BookingID)
	if err != nil {
		r.log.WithField("booking_id", ev.BookingID).Warn("tracking event dropped: bad booking id")
		return nil
	}

	entry := &models.TrackingEvent{
		BookingID:   bookingID,
		LRNumber:    ev.LRNumber,
		EventType:   string(ev.Type),
		Status:      ev.Status,
		Description: describe(ev),
		Location:    ev.Location,
		EventTime:   ev.OccurredAt,
	}
	if err := r.store.AppendTrackingEvent(ctx, entry); err != nil {
		return err
	}
	r.log.WithFields(logrus.Fields{
		"lr_number": ev.LRNumber,
		"type":      ev.Type,
	}).Debug("tracking event recorded")
	return nil
}

func describe(ev messages.BookingEvent) string {
	switch ev.Type {
	case messages.BookingCreated:
		return "Consignment booked"
	case messages.BookingStatusChanged:
		return fmt.Sprintf("Status changed to %s", ev.Status)
	case messages.BookingDeleted:
		return "Booking removed"
	case messages.BookingLoaded:
		return fmt.Sprintf("Loaded on manifest %s", ev.OGPLNumber)
	case messages.BookingUnloaded:
		if ev.Condition != "" && ev.Condition != string(models.ConditionGood) {
			return fmt.Sprintf("Unloaded from manifest %s, goods %s: %s", ev.OGPLNumber, ev.Condition, ev.Remarks)
		}
		return fmt.Sprintf("Unloaded from manifest %s", ev.OGPLNumber)
	}
	return string(ev.Type)
}
