package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type OwnershipType string

const (
	OwnershipOwn      OwnershipType = "own"
	OwnershipHired    OwnershipType = "hired"
	OwnershipAttached OwnershipType = "attached"
)

func (o OwnershipType) Valid() bool {
	switch o {
	case OwnershipOwn, OwnershipHired, OwnershipAttached:
		return true
	}
	return false
}

// VehicleStatus shares its values with BranchStatus.
type VehicleStatus = BranchStatus

const (
	VehicleStatusActive      = BranchStatusActive
	VehicleStatusMaintenance = BranchStatusMaintenance
	VehicleStatusInactive    = BranchStatusInactive
)

type Vehicle struct {
	ID                  uuid.UUID     `gorm:"type:uuid;primaryKey" json:"id"`
	BranchID            *uuid.UUID    `gorm:"type:uuid;index" json:"branch_id"`
	Branch              *Branch       `json:"branch,omitempty"`
	VehicleNumber       string        `gorm:"size:20;not null;uniqueIndex" json:"vehicle_number"`
	Type                string        `gorm:"size:30" json:"type"`
	OwnershipType       OwnershipType `gorm:"size:20;not null" json:"ownership_type"`
	Make                string        `gorm:"size:50" json:"make"`
	Model               string        `gorm:"size:50" json:"model"`
	Year                int           `json:"year"`
	Capacity            string        `gorm:"size:30" json:"capacity"`
	Status              VehicleStatus `gorm:"size:20;not null;default:active" json:"status"`
	LastMaintenanceDate *time.Time    `json:"last_maintenance_date"`
	NextMaintenanceDate *time.Time    `json:"next_maintenance_date"`
	CreatedAt           time.Time     `json:"created_at"`
	UpdatedAt           time.Time     `json:"updated_at"`
}

func (v *Vehicle) BeforeCreate(tx *gorm.DB) error {
	ensureID(&v.ID)
	return nil
}
