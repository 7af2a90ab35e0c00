package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// TrackingEvent is one line of the public shipment timeline.
type TrackingEvent struct {
	ID          uuid.UUID `gorm:"type:uuid;primaryKey" json:"id"`
	BookingID   uuid.UUID `gorm:"type:uuid;not null;index" json:"booking_id"`
	LRNumber    string    `gorm:"size:40;not null;index" json:"lr_number"`
	EventType   string    `gorm:"size:40;not null" json:"event_type"`
	Status      string    `gorm:"size:20" json:"status"`
	Description string    `gorm:"size:255" json:"description"`
	Location    string    `gorm:"size:100" json:"location"`
	EventTime   time.Time `gorm:"index" json:"event_time"`
	CreatedAt   time.Time `json:"created_at"`
}

func (e *TrackingEvent) BeforeCreate(tx *gorm.DB) error {
	ensureID(&e.ID)
	return nil
}
