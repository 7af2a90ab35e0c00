package dashboard

import (
	"context"
	"time"

	"desicargo-backend/internal/ident"
	"desicargo-backend/internal/models"
	"desicargo-backend/internal/session"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// BookingSource lists bookings visible to the actor, usually through the
// shared list cache.
type BookingSource interface {
	List(ctx context.Context, actor *session.User, branchID string) ([]models.Booking, error)
}

type Repository interface {
	GetBranch(ctx context.Context, id uuid.UUID) (*models.Branch, error)
	CountActiveVehicles(ctx context.Context, branchID *uuid.UUID) (int64, error)
}

type Service struct {
	bookings BookingSource
	repo     Repository
	now      func() time.Time
}

func NewService(bookings BookingSource, repo Repository) *Service {
	return &Service{bookings: bookings, repo: repo, now: time.Now}
}

type Query struct {
	BranchID string
	Filter   Filter
}

type StatsReport struct {
	Stats               Stats            `json:"stats"`
	ActiveVehicles      int64            `json:"active_vehicles"`
	DailyTrend          []DailyPoint     `json:"daily_trend"`
	MonthlyRevenue      []MonthlyPoint   `json:"monthly_revenue"`
	StatusDistribution  []NamedCount     `json:"status_distribution"`
	PaymentDistribution []NamedAmount    `json:"payment_distribution"`
	BranchRevenue       []NamedAmount    `json:"branch_revenue"`
	TopCustomers        []Customer       `json:"top_customers"`
	Recent              []models.Booking `json:"recent_bookings"`
}

func (s *Service) Stats(ctx context.Context, actor *session.User, q Query) (*StatsReport, error) {
	scope, err := session.Scope(actor, q.BranchID)
	if err != nil {
		return nil, err
	}
	all, err := s.bookings.List(ctx, actor, q.BranchID)
	if err != nil {
		return nil, err
	}
	now := s.now()
	filtered, err := q.Filter.Apply(all, now)
	if err != nil {
		return nil, err
	}
	active, err := s.repo.CountActiveVehicles(ctx, scope)
	if err != nil {
		return nil, err
	}

	recent := filtered
	if len(recent) > 5 {
		recent = recent[:5]
	}
	return &StatsReport{
		Stats:               ComputeStats(filtered),
		ActiveVehicles:      active,
		DailyTrend:          DailyTrend(filtered, now),
		MonthlyRevenue:      MonthlyRevenue(all, now),
		StatusDistribution:  StatusDistribution(filtered),
		PaymentDistribution: PaymentDistribution(filtered),
		BranchRevenue:       BranchRevenue(filtered),
		TopCustomers:        TopCustomers(filtered),
		Recent:              recent,
	}, nil
}

type BranchSummary struct {
	Branch *models.Branch `json:"branch"`
	BranchCounts
	ActiveVehicles     int64         `json:"active_vehicles"`
	Trend              []BranchPoint `json:"trend"`
	StatusDistribution []NamedCount  `json:"status_distribution"`
	TopCustomers       []Customer    `json:"top_customers"`
}

func (s *Service) BranchSummary(ctx context.Context, actor *session.User, id string) (*BranchSummary, error) {
	branchID, err := ident.Parse(id)
	if err != nil {
		return nil, err
	}
	branch, err := s.repo.GetBranch(ctx, branchID)
	if err != nil {
		return nil, err
	}
	list, err := s.bookings.List(ctx, actor, branchID.String())
	if err != nil {
		return nil, err
	}
	active, err := s.repo.CountActiveVehicles(ctx, &branchID)
	if err != nil {
		return nil, err
	}

	return &BranchSummary{
		Branch:             branch,
		BranchCounts:       CountBranch(list, branchID),
		ActiveVehicles:     active,
		Trend:              BranchTrend(list, branchID, s.now()),
		StatusDistribution: StatusDistribution(list),
		TopCustomers:       TopCustomers(list),
	}, nil
}

type FinanceSummary struct {
	Revenue             decimal.Decimal `json:"revenue"`
	Bookings            int             `json:"bookings"`
	AverageValue        decimal.Decimal `json:"average_value"`
	PaymentDistribution []NamedAmount   `json:"payment_distribution"`
	BranchRevenue       []NamedAmount   `json:"branch_revenue"`
	MonthlyRevenue      []MonthlyPoint  `json:"monthly_revenue"`
}

func (s *Service) FinanceSummary(ctx context.Context, actor *session.User, q Query) (*FinanceSummary, error) {
	all, err := s.bookings.List(ctx, actor, q.BranchID)
	if err != nil {
		return nil, err
	}
	now := s.now()
	filtered, err := q.Filter.Apply(all, now)
	if err != nil {
		return nil, err
	}
	stats := ComputeStats(filtered)
	return &FinanceSummary{
		Revenue:             stats.Revenue,
		Bookings:            stats.Total,
		AverageValue:        stats.AverageValue,
		PaymentDistribution: PaymentDistribution(filtered),
		BranchRevenue:       BranchRevenue(filtered),
		MonthlyRevenue:      MonthlyRevenue(all, now),
	}, nil
}
