// Package pgcargo is the Postgres store behind every service.
package pgcargo

import (
	"context"

	"desicargo-backend/internal/apperr"

	"github.com/jackc/pgx/v5/pgconn"
	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"
	"gorm.io/gorm"
)

const (
	PgErrForeignKeyViolation = "23503"
	PgErrUniqueViolation     = "23505"
	PgErrCheckViolation      = "23514"
)

type Store struct {
	db  *gorm.DB
	log logrus.FieldLogger
}

func New(db *gorm.DB, log logrus.FieldLogger) *Store {
	return &Store{db: db, log: log.WithField("component", "pgcargo")}
}

func (s *Store) DB() *gorm.DB { return s.db }

func (s *Store) conn(ctx context.Context) *gorm.DB {
	return s.db.WithContext(ctx)
}

// translate turns a driver error into the typed error callers expect.
func (s *Store) translate(err error, msg string) error {
	if err == nil {
		return nil
	}
	if _, ok := apperr.As(err); ok {
		return err
	}
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return apperr.NotFound(msg + ": not found")
	}

	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		switch pgErr.Code {
		case PgErrForeignKeyViolation:
			return apperr.Referential(err, msg+": referenced record is missing or still in use")
		case PgErrUniqueViolation:
			return apperr.Conflict(err, msg+": duplicate value")
		case PgErrCheckViolation:
			return apperr.Validation("%s: %s", msg, pgErr.Message)
		}
	}

	s.log.WithError(err).WithField("op", msg).Error("store operation failed")
	return apperr.Persistence(err, msg)
}
