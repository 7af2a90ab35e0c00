package pgcargo

import (
	"context"

	"desicargo-backend/internal/apperr"
	"desicargo-backend/internal/models"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

func (s *Store) ListVehicles(ctx context.Context, branchID *uuid.UUID) ([]models.Vehicle, error) {
	q := s.conn(ctx).Preload("Branch")
	if branchID != nil {
		q = q.Where("branch_id = ?", *branchID)
	}
	var out []models.Vehicle
	if err := q.Order("vehicle_number ASC").Find(&out).Error; err != nil {
		return nil, s.translate(err, "list vehicles")
	}
	return out, nil
}

func (s *Store) GetVehicle(ctx context.Context, id uuid.UUID) (*models.Vehicle, error) {
	var v models.Vehicle
	if err := s.conn(ctx).Preload("Branch").First(&v, "id = ?", id).Error; err != nil {
		return nil, s.translate(err, "get vehicle")
	}
	return &v, nil
}

func (s *Store) CreateVehicle(ctx context.Context, v *models.Vehicle) error {
	return s.translate(s.conn(ctx).Omit("Branch").Create(v).Error, "create vehicle")
}

func (s *Store) SaveVehicle(ctx context.Context, v *models.Vehicle) error {
	return s.translate(s.conn(ctx).Omit("Branch").Save(v).Error, "update vehicle")
}

func (s *Store) UpdateVehicleStatus(ctx context.Context, id uuid.UUID, status models.VehicleStatus) (*models.Vehicle, error) {
	res := s.conn(ctx).Model(&models.Vehicle{}).Where("id = ?", id).Update("status", status)
	if res.Error != nil {
		return nil, s.translate(res.Error, "update vehicle status")
	}
	if res.RowsAffected == 0 {
		return nil, apperr.NotFound("update vehicle status: not found")
	}
	return s.GetVehicle(ctx, id)
}

func (s *Store) CountActiveVehicles(ctx context.Context, branchID *uuid.UUID) (int64, error) {
	q := s.conn(ctx).Model(&models.Vehicle{}).Where("status = ?", models.VehicleStatusActive)
	if branchID != nil {
		q = q.Where("branch_id = ?", *branchID)
	}
	var n int64
	if err := q.Count(&n).Error; err != nil {
		return 0, s.translate(err, "count vehicles")
	}
	return n, nil
}

// DeleteVehicle refuses while an open manifest uses the vehicle. Completed
// manifests still hold a foreign key, which surfaces as a referential error.
func (s *Store) DeleteVehicle(ctx context.Context, id uuid.UUID) error {
	err := s.conn(ctx).Transaction(func(tx *gorm.DB) error {
		var open int64
		if err := tx.Model(&models.OGPL{}).
			Where("vehicle_id = ? AND status = ?", id, models.OGPLInTransit).
			Count(&open).Error; err != nil {
			return err
		}
		if open > 0 {
			return apperr.Referential(nil, "Cannot delete vehicle assigned to an open OGPL")
		}
		res := tx.Delete(&models.Vehicle{}, "id = ?", id)
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return gorm.ErrRecordNotFound
		}
		return nil
	})
	return s.translate(err, "delete vehicle")
}
