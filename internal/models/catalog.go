package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

type PartyType string

const (
	PartyIndividual PartyType = "individual"
	PartyCompany    PartyType = "company"
)

// Party is a consignor or consignee.
type Party struct {
	ID        uuid.UUID  `gorm:"type:uuid;primaryKey" json:"id"`
	BranchID  *uuid.UUID `gorm:"type:uuid;index" json:"branch_id"`
	Name      string     `gorm:"size:150;not null" json:"name"`
	Type      PartyType  `gorm:"size:20;not null;default:individual" json:"type"`
	Mobile    string     `gorm:"size:20" json:"mobile"`
	GSTNumber string     `gorm:"size:20" json:"gst_number"`
	Address   string     `gorm:"size:255" json:"address"`
	CreatedAt time.Time  `json:"created_at"`
	UpdatedAt time.Time  `json:"updated_at"`
}

func (p *Party) BeforeCreate(tx *gorm.DB) error {
	ensureID(&p.ID)
	return nil
}

type Article struct {
	ID          uuid.UUID       `gorm:"type:uuid;primaryKey" json:"id"`
	BranchID    *uuid.UUID      `gorm:"type:uuid;index" json:"branch_id"`
	Name        string          `gorm:"size:100;not null" json:"name"`
	Description string          `gorm:"size:255" json:"description"`
	BaseRate    decimal.Decimal `gorm:"type:numeric(12,2);not null;default:0" json:"base_rate"`
	HSNCode     string          `gorm:"size:20" json:"hsn_code"`
	CreatedAt   time.Time       `json:"created_at"`
	UpdatedAt   time.Time       `json:"updated_at"`
}

func (a *Article) BeforeCreate(tx *gorm.DB) error {
	ensureID(&a.ID)
	return nil
}
