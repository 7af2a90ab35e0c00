package audit

import (
	"context"
	"encoding/json"

	"desicargo-backend/internal/models"
	"desicargo-backend/internal/session"
	"desicargo-backend/internal/storage/pgcargo"

	"github.com/google/uuid"
	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"
)

type Repository interface {
	CreateAuditLog(ctx context.Context, l *models.AuditLog) error
	ListAuditLogs(ctx context.Context, f pgcargo.AuditFilter) ([]models.AuditLog, error)
}

type LogOptions struct {
	Actor       *session.User
	BranchID    *uuid.UUID
	EntityType  string
	EntityID    string
	Action      models.AuditAction
	Description string
	Before      any
	After       any
}

type Service struct {
	repo Repository
	log  logrus.FieldLogger
}

func NewService(repo Repository, log logrus.FieldLogger) *Service {
	return &Service{repo: repo, log: log.WithField("component", "audit")}
}

func (s *Service) WriteLog(ctx context.Context, opts LogOptions) error {
	// jsonb needs the literal "null" rather than an empty string.
	beforeStr := "null"
	afterStr := "null"

	if opts.Before != nil {
		if b, err := json.Marshal(opts.Before); err == nil {
			beforeStr = string(b)
		}
	}
	if opts.After != nil {
		if b, err := json.Marshal(opts.After); err == nil {
			afterStr = string(b)
		}
	}

	entry := models.AuditLog{
		BranchID:    opts.BranchID,
		EntityType:  opts.EntityType,
		EntityID:    opts.EntityID,
		Action:      opts.Action,
		Description: opts.Description,
		BeforeData:  beforeStr,
		AfterData:   afterStr,
	}
	if opts.Actor != nil {
		entry.UserID = &opts.Actor.ID
		entry.UserName = opts.Actor.Name
		if entry.BranchID == nil {
			entry.BranchID = opts.Actor.BranchID
		}
	}

	if err := s.repo.CreateAuditLog(ctx, &entry); err != nil {
		return errors.Wrap(err, "write audit log")
	}
	return nil
}

// Record writes an entry and only logs a failure; an audit miss never
// fails the business operation.
func (s *Service) Record(ctx context.Context, opts LogOptions) {
	if err := s.WriteLog(ctx, opts); err != nil {
		s.log.WithError(err).WithFields(logrus.Fields{
			"entity_type": opts.EntityType,
			"entity_id":   opts.EntityID,
			"action":      opts.Action,
		}).Warn("audit entry dropped")
	}
}

func (s *Service) List(ctx context.Context, f pgcargo.AuditFilter) ([]models.AuditLog, error) {
	if f.Limit <= 0 || f.Limit > 500 {
		f.Limit = 200
	}
	return s.repo.ListAuditLogs(ctx, f)
}
