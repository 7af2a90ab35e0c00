package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

type TransitMode string

const (
	TransitDirect TransitMode = "direct"
	TransitHub    TransitMode = "hub"
	TransitLocal  TransitMode = "local"
)

func (m TransitMode) Valid() bool {
	switch m {
	case TransitDirect, TransitHub, TransitLocal:
		return true
	}
	return false
}

type OGPLStatus string

const (
	OGPLInTransit OGPLStatus = "in_transit"
	OGPLCompleted OGPLStatus = "completed"
)

// OGPL is a goods manifest moving bookings between two branches on one vehicle.
type OGPL struct {
	ID          uuid.UUID   `gorm:"type:uuid;primaryKey" json:"id"`
	OGPLNumber  string      `gorm:"column:ogpl_number;size:40;not null;uniqueIndex" json:"ogpl_number"`
	VehicleID   uuid.UUID   `gorm:"type:uuid;not null;index" json:"vehicle_id"`
	Vehicle     *Vehicle    `gorm:"foreignKey:VehicleID" json:"vehicle,omitempty"`
	TransitMode TransitMode `gorm:"size:10;not null" json:"transit_mode"`
	TransitDate time.Time   `json:"transit_date"`

	FromStationID uuid.UUID `gorm:"type:uuid;not null;index" json:"from_station"`
	FromStation   *Branch   `gorm:"foreignKey:FromStationID" json:"from_station_details,omitempty"`
	ToStationID   uuid.UUID `gorm:"type:uuid;not null;index" json:"to_station"`
	ToStation     *Branch   `gorm:"foreignKey:ToStationID" json:"to_station_details,omitempty"`

	DepartureTime *time.Time `json:"departure_time"`
	ArrivalTime   *time.Time `json:"arrival_time"`

	SupervisorName   string `gorm:"size:100" json:"supervisor_name"`
	SupervisorMobile string `gorm:"size:20" json:"supervisor_mobile"`
	PrimaryDriver    string `gorm:"size:100" json:"primary_driver_name"`
	PrimaryMobile    string `gorm:"size:20" json:"primary_driver_mobile"`
	SecondaryDriver  string `gorm:"size:100" json:"secondary_driver_name"`
	SecondaryMobile  string `gorm:"size:20" json:"secondary_driver_mobile"`
	SealNumber       string `gorm:"size:50" json:"seal_number"`
	Remarks          string `gorm:"size:255" json:"remarks"`

	Status         OGPLStatus      `gorm:"size:20;not null;index" json:"status"`
	CreatedBy      *uuid.UUID      `gorm:"type:uuid" json:"created_by"`
	LoadingRecords []LoadingRecord `gorm:"foreignKey:OGPLID" json:"loading_records"`
	CreatedAt      time.Time       `json:"created_at"`
	UpdatedAt      time.Time       `json:"updated_at"`
}

func (OGPL) TableName() string { return "ogpls" }

func (o *OGPL) BeforeCreate(tx *gorm.DB) error {
	ensureID(&o.ID)
	return nil
}

type LoadingRecord struct {
	ID        uuid.UUID  `gorm:"type:uuid;primaryKey" json:"id"`
	OGPLID    uuid.UUID  `gorm:"column:ogpl_id;type:uuid;not null;index" json:"ogpl_id"`
	BookingID uuid.UUID  `gorm:"type:uuid;not null;index" json:"booking_id"`
	Booking   *Booking   `gorm:"foreignKey:BookingID" json:"booking,omitempty"`
	Position  int        `gorm:"not null" json:"position"`
	LoadedAt  time.Time  `json:"loaded_at"`
	LoadedBy  *uuid.UUID `gorm:"type:uuid" json:"loaded_by"`
	Remarks   string     `gorm:"size:255" json:"remarks"`
}

func (l *LoadingRecord) BeforeCreate(tx *gorm.DB) error {
	ensureID(&l.ID)
	return nil
}

type ConditionStatus string

const (
	ConditionGood    ConditionStatus = "good"
	ConditionDamaged ConditionStatus = "damaged"
	ConditionMissing ConditionStatus = "missing"
)

func (s ConditionStatus) Valid() bool {
	switch s {
	case ConditionGood, ConditionDamaged, ConditionMissing:
		return true
	}
	return false
}

type Condition struct {
	Status  ConditionStatus `json:"status"`
	Remarks string          `json:"remarks,omitempty"`
	Photo   string          `json:"photo,omitempty"`
}

// Conditions is keyed by booking id.
type Conditions map[string]Condition

type UnloadingRecord struct {
	ID         uuid.UUID                      `gorm:"type:uuid;primaryKey" json:"id"`
	OGPLID     uuid.UUID                      `gorm:"column:ogpl_id;type:uuid;not null;uniqueIndex" json:"ogpl_id"`
	OGPL       *OGPL                          `gorm:"foreignKey:OGPLID" json:"ogpl,omitempty"`
	UnloadedAt time.Time                      `json:"unloaded_at"`
	UnloadedBy *uuid.UUID                     `gorm:"type:uuid" json:"unloaded_by"`
	Conditions datatypes.JSONType[Conditions] `gorm:"type:jsonb;not null" json:"conditions"`
	CreatedAt  time.Time                      `json:"created_at"`
}

func (u *UnloadingRecord) BeforeCreate(tx *gorm.DB) error {
	ensureID(&u.ID)
	return nil
}
