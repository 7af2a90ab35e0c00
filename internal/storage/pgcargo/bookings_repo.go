package pgcargo

import (
	"context"

	"desicargo-backend/internal/apperr"
	"desicargo-backend/internal/models"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

func withBookingRelations(q *gorm.DB) *gorm.DB {
	return q.Preload("FromBranch").
		Preload("ToBranch").
		Preload("Sender").
		Preload("Receiver").
		Preload("Article")
}

// ListBookings returns bookings touching branchID as origin or destination,
// or every booking when branchID is nil, newest first.
func (s *Store) ListBookings(ctx context.Context, branchID *uuid.UUID) ([]models.Booking, error) {
	q := withBookingRelations(s.conn(ctx).Model(&models.Booking{}))
	if branchID != nil {
		q = q.Where("from_branch_id = ? OR to_branch_id = ?", *branchID, *branchID)
	}

	var out []models.Booking
	if err := q.Order("created_at DESC").Find(&out).Error; err != nil {
		return nil, s.translate(err, "list bookings")
	}
	return out, nil
}

func (s *Store) ListBookingsByIDs(ctx context.Context, ids []uuid.UUID) ([]models.Booking, error) {
	var out []models.Booking
	if len(ids) == 0 {
		return out, nil
	}
	if err := withBookingRelations(s.conn(ctx)).Where("id IN ?", ids).Find(&out).Error; err != nil {
		return nil, s.translate(err, "list bookings")
	}
	return out, nil
}

func (s *Store) GetBooking(ctx context.Context, id uuid.UUID) (*models.Booking, error) {
	var b models.Booking
	if err := withBookingRelations(s.conn(ctx)).First(&b, "id = ?", id).Error; err != nil {
		return nil, s.translate(err, "get booking")
	}
	return &b, nil
}

func (s *Store) FindBookingByLR(ctx context.Context, lr string) (*models.Booking, error) {
	var b models.Booking
	if err := withBookingRelations(s.conn(ctx)).First(&b, "lr_number = ?", lr).Error; err != nil {
		return nil, s.translate(err, "find booking")
	}
	return &b, nil
}

func (s *Store) CreateBooking(ctx context.Context, b *models.Booking) (*models.Booking, error) {
	if err := s.conn(ctx).Omit("FromBranch", "ToBranch", "Sender", "Receiver", "Article").Create(b).Error; err != nil {
		return nil, s.translate(err, "create booking")
	}
	return s.GetBooking(ctx, b.ID)
}

// UpdateBookingStatus applies fields only while the row still has status
// from, so two concurrent transitions cannot both win.
func (s *Store) UpdateBookingStatus(ctx context.Context, id uuid.UUID, from models.BookingStatus, fields map[string]any) (*models.Booking, error) {
	res := s.conn(ctx).Model(&models.Booking{}).
		Where("id = ? AND status = ?", id, from).
		Updates(fields)
	if res.Error != nil {
		return nil, s.translate(res.Error, "update booking")
	}
	if res.RowsAffected == 0 {
		return nil, apperr.Conflict(nil, "booking was changed by someone else, reload and retry")
	}
	return s.GetBooking(ctx, id)
}

func (s *Store) DeleteBooking(ctx context.Context, id uuid.UUID, status models.BookingStatus) error {
	res := s.conn(ctx).Where("id = ? AND status = ?", id, status).Delete(&models.Booking{})
	if res.Error != nil {
		return s.translate(res.Error, "delete booking")
	}
	if res.RowsAffected == 0 {
		return apperr.Conflict(nil, "booking was changed by someone else, reload and retry")
	}
	return nil
}
