package pgcargo

import (
	"context"

	"desicargo-backend/internal/apperr"
	"desicargo-backend/internal/models"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

func withOGPLRelations(q *gorm.DB) *gorm.DB {
	return q.Preload("Vehicle").
		Preload("FromStation").
		Preload("ToStation").
		Preload("LoadingRecords", func(db *gorm.DB) *gorm.DB { return db.Order("position ASC") }).
		Preload("LoadingRecords.Booking").
		Preload("LoadingRecords.Booking.Sender").
		Preload("LoadingRecords.Booking.Receiver")
}

func (s *Store) CreateOGPL(ctx context.Context, o *models.OGPL) error {
	err := s.conn(ctx).
		Omit("Vehicle", "FromStation", "ToStation", "LoadingRecords").
		Create(o).Error
	return s.translate(err, "create ogpl")
}

func (s *Store) GetOGPL(ctx context.Context, id uuid.UUID) (*models.OGPL, error) {
	var o models.OGPL
	if err := withOGPLRelations(s.conn(ctx)).First(&o, "id = ?", id).Error; err != nil {
		return nil, s.translate(err, "get ogpl")
	}
	return &o, nil
}

// LoadBookings appends loading records and moves every booking from booked
// to in_transit. Either all bookings load or none do.
func (s *Store) LoadBookings(ctx context.Context, ogplID uuid.UUID, records []models.LoadingRecord) error {
	err := s.conn(ctx).Transaction(func(tx *gorm.DB) error {
		var o models.OGPL
		if err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).First(&o, "id = ?", ogplID).Error; err != nil {
			return err
		}
		if o.Status != models.OGPLInTransit {
			return apperr.Validation("OGPL %s is already completed", o.OGPLNumber)
		}

		ids := make([]uuid.UUID, 0, len(records))
		for _, r := range records {
			ids = append(ids, r.BookingID)
		}
		res := tx.Model(&models.Booking{}).
			Where("id IN ? AND status = ?", ids, models.BookingBooked).
			Update("status", models.BookingInTransit)
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected != int64(len(ids)) {
			return apperr.Validation("only bookings in booked status can be loaded")
		}

		var existing int64
		if err := tx.Model(&models.LoadingRecord{}).Where("ogpl_id = ?", ogplID).Count(&existing).Error; err != nil {
			return err
		}
		for i := range records {
			records[i].OGPLID = ogplID
			records[i].Position = int(existing) + i + 1
		}
		return tx.Omit("Booking").Create(&records).Error
	})
	return s.translate(err, "load bookings")
}

// ListIncomingOGPLs returns manifests still in transit towards branchID.
func (s *Store) ListIncomingOGPLs(ctx context.Context, branchID *uuid.UUID) ([]models.OGPL, error) {
	q := withOGPLRelations(s.conn(ctx)).Where("status = ?", models.OGPLInTransit)
	if branchID != nil {
		q = q.Where("to_station_id = ?", *branchID)
	}
	var out []models.OGPL
	if err := q.Order("created_at DESC").Find(&out).Error; err != nil {
		return nil, s.translate(err, "list incoming ogpls")
	}
	return out, nil
}

// CompleteUnload writes the unloading record, completes the manifest and
// delivers the listed bookings in one transaction.
func (s *Store) CompleteUnload(ctx context.Context, rec *models.UnloadingRecord, delivered []uuid.UUID) error {
	err := s.conn(ctx).Transaction(func(tx *gorm.DB) error {
		res := tx.Model(&models.OGPL{}).
			Where("id = ? AND status = ?", rec.OGPLID, models.OGPLInTransit).
			Update("status", models.OGPLCompleted)
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return apperr.Validation("OGPL is not in transit")
		}

		if err := tx.Omit("OGPL").Create(rec).Error; err != nil {
			return err
		}

		if len(delivered) > 0 {
			if err := tx.Model(&models.Booking{}).
				Where("id IN ? AND status = ?", delivered, models.BookingInTransit).
				Update("status", models.BookingDelivered).Error; err != nil {
				return err
			}
		}
		return nil
	})
	return s.translate(err, "unload ogpl")
}

// ListUnloadings returns completed unloadings at branchID, newest first.
func (s *Store) ListUnloadings(ctx context.Context, branchID *uuid.UUID) ([]models.UnloadingRecord, error) {
	q := s.conn(ctx).
		Preload("OGPL").
		Preload("OGPL.Vehicle").
		Preload("OGPL.FromStation").
		Preload("OGPL.ToStation")
	if branchID != nil {
		q = q.Select("unloading_records.*").
			Joins("JOIN ogpls ON ogpls.id = unloading_records.ogpl_id").
			Where("ogpls.to_station_id = ?", *branchID)
	}
	var out []models.UnloadingRecord
	if err := q.Order("unloading_records.unloaded_at DESC").Find(&out).Error; err != nil {
		return nil, s.translate(err, "list unloadings")
	}
	return out, nil
}
