package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

type BookingStatus string

const (
	BookingBooked    BookingStatus = "booked"
	BookingInTransit BookingStatus = "in_transit"
	BookingDelivered BookingStatus = "delivered"
	BookingCancelled BookingStatus = "cancelled"
)

// BookingStatuses is the fixed display order used by every distribution.
var BookingStatuses = []BookingStatus{BookingBooked, BookingInTransit, BookingDelivered, BookingCancelled}

func (s BookingStatus) Valid() bool {
	switch s {
	case BookingBooked, BookingInTransit, BookingDelivered, BookingCancelled:
		return true
	}
	return false
}

type PaymentType string

const (
	PaymentPaid      PaymentType = "Paid"
	PaymentToPay     PaymentType = "To Pay"
	PaymentQuotation PaymentType = "Quotation"
)

func (p PaymentType) Valid() bool {
	switch p {
	case PaymentPaid, PaymentToPay, PaymentQuotation:
		return true
	}
	return false
}

type LRType string

const (
	LRSystem LRType = "system"
	LRManual LRType = "manual"
)

type Booking struct {
	ID             uuid.UUID  `gorm:"type:uuid;primaryKey" json:"id"`
	BranchID       *uuid.UUID `gorm:"type:uuid;index" json:"branch_id"`
	LRNumber       string     `gorm:"size:40;not null;uniqueIndex" json:"lr_number"`
	LRType         LRType     `gorm:"size:10;not null;default:system" json:"lr_type"`
	ManualLRNumber string     `gorm:"size:40" json:"manual_lr_number,omitempty"`

	FromBranchID uuid.UUID `gorm:"type:uuid;not null;index" json:"from_branch"`
	FromBranch   *Branch   `gorm:"foreignKey:FromBranchID" json:"from_branch_details,omitempty"`
	ToBranchID   uuid.UUID `gorm:"type:uuid;not null;index" json:"to_branch"`
	ToBranch     *Branch   `gorm:"foreignKey:ToBranchID" json:"to_branch_details,omitempty"`

	SenderID   uuid.UUID  `gorm:"type:uuid;not null;index" json:"sender_id"`
	Sender     *Party     `gorm:"foreignKey:SenderID" json:"sender,omitempty"`
	ReceiverID uuid.UUID  `gorm:"type:uuid;not null;index" json:"receiver_id"`
	Receiver   *Party     `gorm:"foreignKey:ReceiverID" json:"receiver,omitempty"`
	ArticleID  *uuid.UUID `gorm:"type:uuid" json:"article_id"`
	Article    *Article   `gorm:"foreignKey:ArticleID" json:"article,omitempty"`

	Description  string          `gorm:"size:255" json:"description"`
	Quantity     int             `gorm:"not null" json:"quantity"`
	UOM          string          `gorm:"size:20;not null;default:Nos" json:"uom"`
	ActualWeight decimal.Decimal `gorm:"type:numeric(12,2);not null;default:0" json:"actual_weight"`

	FreightPerQty    decimal.Decimal `gorm:"type:numeric(12,2);not null" json:"freight_per_qty"`
	LoadingCharges   decimal.Decimal `gorm:"type:numeric(12,2);not null;default:0" json:"loading_charges"`
	UnloadingCharges decimal.Decimal `gorm:"type:numeric(12,2);not null;default:0" json:"unloading_charges"`
	InsuranceCharge  decimal.Decimal `gorm:"type:numeric(12,2);not null;default:0" json:"insurance_charge"`
	PackagingCharge  decimal.Decimal `gorm:"type:numeric(12,2);not null;default:0" json:"packaging_charge"`
	TotalAmount      decimal.Decimal `gorm:"type:numeric(14,2);not null" json:"total_amount"`

	PaymentType PaymentType   `gorm:"size:20;not null" json:"payment_type"`
	Status      BookingStatus `gorm:"size:20;not null;index" json:"status"`

	PrivateMarkNumber    string          `gorm:"size:50" json:"private_mark_number"`
	Remarks              string          `gorm:"size:255" json:"remarks"`
	InvoiceNumber        string          `gorm:"size:50" json:"invoice_number"`
	InvoiceAmount        decimal.Decimal `gorm:"type:numeric(14,2);not null;default:0" json:"invoice_amount"`
	InvoiceDate          *time.Time      `json:"invoice_date"`
	EwayBillNumber       string          `gorm:"size:30" json:"eway_bill_number"`
	DeliveryType         string          `gorm:"size:20;default:Standard" json:"delivery_type"`
	HasInsurance         bool            `gorm:"not null;default:false" json:"has_insurance"`
	InsuranceValue       decimal.Decimal `gorm:"type:numeric(14,2);not null;default:0" json:"insurance_value"`
	PackagingType        string          `gorm:"size:30" json:"packaging_type"`
	ExpectedDeliveryDate *time.Time      `json:"expected_delivery_date"`
	ReferenceNumber      string          `gorm:"size:50" json:"reference_number"`

	CreatedBy *uuid.UUID `gorm:"type:uuid" json:"created_by"`
	CreatedAt time.Time  `gorm:"index" json:"created_at"`
	UpdatedAt time.Time  `json:"updated_at"`
}

func (b *Booking) BeforeCreate(tx *gorm.DB) error {
	ensureID(&b.ID)
	return nil
}

// ComputeTotal returns quantity x freight plus every flat charge.
func ComputeTotal(quantity int, freightPerQty, loading, unloading, insurance, packaging decimal.Decimal) decimal.Decimal {
	return decimal.NewFromInt(int64(quantity)).
		Mul(freightPerQty).
		Add(loading).
		Add(unloading).
		Add(insurance).
		Add(packaging)
}

func (b *Booking) Recalculate() {
	b.TotalAmount = ComputeTotal(b.Quantity, b.FreightPerQty, b.LoadingCharges, b.UnloadingCharges, b.InsuranceCharge, b.PackagingCharge)
}

func (b *Booking) SenderName() string {
	if b.Sender == nil {
		return ""
	}
	return b.Sender.Name
}

func (b *Booking) ReceiverName() string {
	if b.Receiver == nil {
		return ""
	}
	return b.Receiver.Name
}
