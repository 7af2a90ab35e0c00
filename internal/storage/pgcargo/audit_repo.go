package pgcargo

import (
	"context"

	"desicargo-backend/internal/models"

	"github.com/google/uuid"
)

type AuditFilter struct {
	BranchID   *uuid.UUID
	UserID     *uuid.UUID
	EntityType string
	EntityID   string
	Limit      int
}

func (s *Store) CreateAuditLog(ctx context.Context, l *models.AuditLog) error {
	return s.translate(s.conn(ctx).Create(l).Error, "write audit log")
}

func (s *Store) ListAuditLogs(ctx context.Context, f AuditFilter) ([]models.AuditLog, error) {
	q := s.conn(ctx).Model(&models.AuditLog{})
	if f.BranchID != nil {
		q = q.Where("branch_id = ?", *f.BranchID)
	}
	if f.UserID != nil {
		q = q.Where("user_id = ?", *f.UserID)
	}
	if f.EntityType != "" {
		q = q.Where("entity_type = ?", f.EntityType)
	}
	if f.EntityID != "" {
		q = q.Where("entity_id = ?", f.EntityID)
	}
	if f.Limit > 0 {
		q = q.Limit(f.Limit)
	}

	var out []models.AuditLog
	if err := q.Order("created_at DESC").Find(&out).Error; err != nil {
		return nil, s.translate(err, "list audit logs")
	}
	return out, nil
}
