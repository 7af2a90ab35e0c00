package messages

import "time"

type BookingEventType string

const (
	BookingCreated       BookingEventType = "booking.created"
	BookingStatusChanged BookingEventType = "booking.status_changed"
	BookingDeleted       BookingEventType = "booking.deleted"
	BookingLoaded        BookingEventType = "booking.loaded"
	BookingUnloaded      BookingEventType = "booking.unloaded"
)

// BookingEvent is published on every booking lifecycle change.
type BookingEvent struct {
	Type       BookingEventType `json:"type"`
	BookingID  string           `json:"booking_id"`
	LRNumber   string           `json:"lr_number"`
	Status     string           `json:"status,omitempty"`
	BranchID   string           `json:"branch_id,omitempty"`
	Location   string           `json:"location,omitempty"`
	OGPLNumber string           `json:"ogpl_number,omitempty"`
	Condition  string           `json:"condition,omitempty"`
	Remarks    string           `json:"remarks,omitempty"`
	ActorID    string           `json:"actor_id,omitempty"`
	OccurredAt time.Time        `json:"occurred_at"`
}
