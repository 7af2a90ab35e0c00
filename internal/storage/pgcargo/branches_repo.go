package pgcargo

import (
	"context"

	"desicargo-backend/internal/apperr"
	"desicargo-backend/internal/models"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

func (s *Store) ListBranches(ctx context.Context) ([]models.Branch, error) {
	var out []models.Branch
	if err := s.conn(ctx).Order("name ASC").Find(&out).Error; err != nil {
		return nil, s.translate(err, "list branches")
	}
	return out, nil
}

func (s *Store) GetBranch(ctx context.Context, id uuid.UUID) (*models.Branch, error) {
	var b models.Branch
	if err := s.conn(ctx).First(&b, "id = ?", id).Error; err != nil {
		return nil, s.translate(err, "get branch")
	}
	return &b, nil
}

func (s *Store) CreateBranch(ctx context.Context, b *models.Branch) error {
	return s.translate(s.conn(ctx).Create(b).Error, "create branch")
}

func (s *Store) SaveBranch(ctx context.Context, b *models.Branch) error {
	return s.translate(s.conn(ctx).Save(b).Error, "update branch")
}

// CountHeadOffices counts head-office branches other than exclude.
func (s *Store) CountHeadOffices(ctx context.Context, exclude *uuid.UUID) (int64, error) {
	q := s.conn(ctx).Model(&models.Branch{}).Where("is_head_office = ?", true)
	if exclude != nil {
		q = q.Where("id <> ?", *exclude)
	}
	var n int64
	if err := q.Count(&n).Error; err != nil {
		return 0, s.translate(err, "count head offices")
	}
	return n, nil
}

// DeleteBranch refuses while bookings or users still point at the branch.
func (s *Store) DeleteBranch(ctx context.Context, id uuid.UUID) error {
	err := s.conn(ctx).Transaction(func(tx *gorm.DB) error {
		var bookings int64
		if err := tx.Model(&models.Booking{}).
			Where("from_branch_id = ? OR to_branch_id = ? OR branch_id = ?", id, id, id).
			Count(&bookings).Error; err != nil {
			return err
		}
		if bookings > 0 {
			return apperr.Referential(nil, "Cannot delete branch with existing bookings")
		}

		var users int64
		if err := tx.Model(&models.User{}).Where("branch_id = ?", id).Count(&users).Error; err != nil {
			return err
		}
		if users > 0 {
			return apperr.Referential(nil, "Cannot delete branch with assigned users")
		}

		res := tx.Delete(&models.Branch{}, "id = ?", id)
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return gorm.ErrRecordNotFound
		}
		return nil
	})
	return s.translate(err, "delete branch")
}
