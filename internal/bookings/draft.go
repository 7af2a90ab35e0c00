package bookings

import (
	"strings"
	"time"

	"desicargo-backend/internal/apperr"
	"desicargo-backend/internal/ident"
	"desicargo-backend/internal/models"

	"github.com/shopspring/decimal"
)

// Draft is the client payload for a new booking. There is no total field:
// the total is always computed server side.
type Draft struct {
	BranchID       string `json:"branch_id"`
	LRType         string `json:"lr_type"`
	ManualLRNumber string `json:"manual_lr_number"`

	FromBranch string `json:"from_branch"`
	ToBranch   string `json:"to_branch"`
	SenderID   string `json:"sender_id"`
	ReceiverID string `json:"receiver_id"`
	ArticleID  string `json:"article_id"`

	Description  string          `json:"description"`
	Quantity     int             `json:"quantity"`
	UOM          string          `json:"uom"`
	ActualWeight decimal.Decimal `json:"actual_weight"`

	FreightPerQty    decimal.Decimal `json:"freight_per_qty"`
	LoadingCharges   decimal.Decimal `json:"loading_charges"`
	UnloadingCharges decimal.Decimal `json:"unloading_charges"`
	InsuranceCharge  decimal.Decimal `json:"insurance_charge"`
	PackagingCharge  decimal.Decimal `json:"packaging_charge"`

	PaymentType models.PaymentType `json:"payment_type"`

	PrivateMarkNumber    string          `json:"private_mark_number"`
	Remarks              string          `json:"remarks"`
	InvoiceNumber        string          `json:"invoice_number"`
	InvoiceAmount        decimal.Decimal `json:"invoice_amount"`
	InvoiceDate          *time.Time      `json:"invoice_date"`
	EwayBillNumber       string          `json:"eway_bill_number"`
	DeliveryType         string          `json:"delivery_type"`
	HasInsurance         bool            `json:"has_insurance"`
	InsuranceValue       decimal.Decimal `json:"insurance_value"`
	PackagingType        string          `json:"packaging_type"`
	ExpectedDeliveryDate *time.Time      `json:"expected_delivery_date"`
	ReferenceNumber      string          `json:"reference_number"`
}

func (d Draft) toBooking() (*models.Booking, error) {
	branchID, err := ident.ParseOptional(d.BranchID)
	if err != nil {
		return nil, err
	}
	from, err := ident.Parse(d.FromBranch)
	if err != nil {
		return nil, err
	}
	to, err := ident.Parse(d.ToBranch)
	if err != nil {
		return nil, err
	}
	sender, err := ident.Parse(d.SenderID)
	if err != nil {
		return nil, err
	}
	receiver, err := ident.Parse(d.ReceiverID)
	if err != nil {
		return nil, err
	}
	article, err := ident.ParseOptional(d.ArticleID)
	if err != nil {
		return nil, err
	}

	if from == to {
		return nil, apperr.Validation("origin and destination branch must differ")
	}
	if d.Quantity <= 0 {
		return nil, apperr.Validation("quantity must be greater than zero")
	}
	if !d.PaymentType.Valid() {
		return nil, apperr.Validation("payment type must be Paid, To Pay or Quotation")
	}
	for name, v := range map[string]decimal.Decimal{
		"freight_per_qty":   d.FreightPerQty,
		"loading_charges":   d.LoadingCharges,
		"unloading_charges": d.UnloadingCharges,
		"insurance_charge":  d.InsuranceCharge,
		"packaging_charge":  d.PackagingCharge,
		"actual_weight":     d.ActualWeight,
	} {
		if v.IsNegative() {
			return nil, apperr.Validation("%s cannot be negative", name)
		}
	}

	lrType := models.LRType(strings.TrimSpace(d.LRType))
	manual := strings.TrimSpace(d.ManualLRNumber)
	switch lrType {
	case "", models.LRSystem:
		lrType = models.LRSystem
		if manual != "" {
			return nil, apperr.Validation("manual LR number is only accepted with lr_type manual")
		}
	case models.LRManual:
		if manual == "" {
			return nil, apperr.Validation("manual LR number is required")
		}
	default:
		return nil, apperr.Validation("lr_type must be system or manual")
	}

	uom := strings.TrimSpace(d.UOM)
	if uom == "" {
		uom = "Nos"
	}
	deliveryType := strings.TrimSpace(d.DeliveryType)
	if deliveryType == "" {
		deliveryType = "Standard"
	}

	return &models.Booking{
		BranchID:             branchID,
		LRType:               lrType,
		ManualLRNumber:       manual,
		FromBranchID:         from,
		ToBranchID:           to,
		SenderID:             sender,
		ReceiverID:           receiver,
		ArticleID:            article,
		Description:          strings.TrimSpace(d.Description),
		Quantity:             d.Quantity,
		UOM:                  uom,
		ActualWeight:         d.ActualWeight,
		FreightPerQty:        d.FreightPerQty,
		LoadingCharges:       d.LoadingCharges,
		UnloadingCharges:     d.UnloadingCharges,
		InsuranceCharge:      d.InsuranceCharge,
		PackagingCharge:      d.PackagingCharge,
		PaymentType:          d.PaymentType,
		PrivateMarkNumber:    d.PrivateMarkNumber,
		Remarks:              d.Remarks,
		InvoiceNumber:        d.InvoiceNumber,
		InvoiceAmount:        d.InvoiceAmount,
		InvoiceDate:          d.InvoiceDate,
		EwayBillNumber:       d.EwayBillNumber,
		DeliveryType:         deliveryType,
		HasInsurance:         d.HasInsurance,
		InsuranceValue:       d.InsuranceValue,
		PackagingType:        d.PackagingType,
		ExpectedDeliveryDate: d.ExpectedDeliveryDate,
		ReferenceNumber:      d.ReferenceNumber,
	}, nil
}
