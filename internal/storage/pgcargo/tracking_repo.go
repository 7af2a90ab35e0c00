package pgcargo

import (
	"context"

	"desicargo-backend/internal/models"

	"github.com/google/uuid"
)

func (s *Store) AppendTrackingEvent(ctx context.Context, e *models.TrackingEvent) error {
	return s.translate(s.conn(ctx).Create(e).Error, "append tracking event")
}

func (s *Store) ListTrackingEvents(ctx context.Context, bookingID uuid.UUID) ([]models.TrackingEvent, error) {
	var out []models.TrackingEvent
	if err := s.conn(ctx).
		Where("booking_id = ?", bookingID).
		Order("event_time ASC").
		Find(&out).Error; err != nil {
		return nil, s.translate(err, "list tracking events")
	}
	return out, nil
}
