package audit

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http/httptest"
	"testing"

	"desicargo-backend/internal/apperr"
	"desicargo-backend/internal/models"
	"desicargo-backend/internal/session"
	"desicargo-backend/internal/storage/pgcargo"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/require"
)

type fakeRepo struct {
	created []models.AuditLog
	filter  pgcargo.AuditFilter
	err     error
}

func (f *fakeRepo) CreateAuditLog(ctx context.Context, l *models.AuditLog) error {
	if f.err != nil {
		return f.err
	}
	f.created = append(f.created, *l)
	return nil
}

func (f *fakeRepo) ListAuditLogs(ctx context.Context, flt pgcargo.AuditFilter) ([]models.AuditLog, error) {
	f.filter = flt
	return f.created, f.err
}

func quietLogger() *logrus.Logger {
	l := logrus.New()
	l.SetOutput(io.Discard)
	return l
}

func TestWriteLog_SerializesSnapshots(t *testing.T) {
	repo := &fakeRepo{}
	svc := NewService(repo, quietLogger())
	branchID := uuid.New()
	actor := &session.User{ID: uuid.New(), Name: "Asha", BranchID: &branchID}

	err := svc.WriteLog(context.Background(), LogOptions{
		Actor:      actor,
		EntityType: "booking",
		EntityID:   "b1",
		Action:     models.AuditActionUpdate,
		Before:     map[string]string{"status": "booked"},
		After:      map[string]string{"status": "in_transit"},
	})
	require.NoError(t, err)
	require.Len(t, repo.created, 1)

	got := repo.created[0]
	require.Equal(t, `{"status":"booked"}`, got.BeforeData)
	require.Equal(t, `{"status":"in_transit"}`, got.AfterData)
	require.Equal(t, "Asha", got.UserName)
	require.Equal(t, branchID, *got.BranchID)
}

func TestWriteLog_NilSnapshotsAreJSONNull(t *testing.T) {
	repo := &fakeRepo{}
	svc := NewService(repo, quietLogger())

	require.NoError(t, svc.WriteLog(context.Background(), LogOptions{EntityType: "branch", Action: models.AuditActionDelete}))
	require.Equal(t, "null", repo.created[0].BeforeData)
	require.Equal(t, "null", repo.created[0].AfterData)
	require.Nil(t, repo.created[0].UserID)
}

func TestRecord_SwallowsErrors(t *testing.T) {
	repo := &fakeRepo{err: errors.New("db down")}
	svc := NewService(repo, quietLogger())
	require.NotPanics(t, func() {
		svc.Record(context.Background(), LogOptions{EntityType: "vehicle"})
	})
}

func TestListAuditLogsHandler(t *testing.T) {
	repo := &fakeRepo{created: []models.AuditLog{{ID: uuid.New(), EntityType: "booking", Action: models.AuditActionCreate}}}
	svc := NewService(repo, quietLogger())

	app := fiber.New(fiber.Config{ErrorHandler: apperr.FiberErrorHandler(quietLogger())})
	app.Get("/audit", ListAuditLogsHandler(svc))

	resp, err := app.Test(httptest.NewRequest("GET", "/audit?entity_type=booking&limit=5000", nil))
	require.NoError(t, err)
	require.Equal(t, fiber.StatusOK, resp.StatusCode)
	var body []AuditLogResponse
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&body))
	require.Len(t, body, 1)
	require.Equal(t, "booking", repo.filter.EntityType)
	require.Equal(t, 200, repo.filter.Limit)

	resp, err = app.Test(httptest.NewRequest("GET", "/audit?branch_id=nope", nil))
	require.NoError(t, err)
	require.Equal(t, fiber.StatusBadRequest, resp.StatusCode)
}
