package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type BranchStatus string

const (
	BranchStatusActive      BranchStatus = "active"
	BranchStatusMaintenance BranchStatus = "maintenance"
	BranchStatusInactive    BranchStatus = "inactive"
)

func (s BranchStatus) Valid() bool {
	switch s {
	case BranchStatusActive, BranchStatusMaintenance, BranchStatusInactive:
		return true
	}
	return false
}

type Branch struct {
	ID           uuid.UUID    `gorm:"type:uuid;primaryKey" json:"id"`
	Name         string       `gorm:"size:100;not null;unique" json:"name"`
	Code         string       `gorm:"size:20" json:"code"`
	Address      string       `gorm:"size:255" json:"address"`
	City         string       `gorm:"size:100;not null" json:"city"`
	State        string       `gorm:"size:100;not null" json:"state"`
	Pincode      string       `gorm:"size:10" json:"pincode"`
	Phone        string       `gorm:"size:50" json:"phone"`
	Email        string       `gorm:"size:100" json:"email"`
	IsHeadOffice bool         `gorm:"not null;default:false" json:"is_head_office"`
	Status       BranchStatus `gorm:"size:20;not null;default:active" json:"status"`
	CreatedAt    time.Time    `json:"created_at"`
	UpdatedAt    time.Time    `json:"updated_at"`
}

func (b *Branch) BeforeCreate(tx *gorm.DB) error {
	ensureID(&b.ID)
	return nil
}
