package users

import (
	"context"
	"encoding/json"
	"io"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"desicargo-backend/internal/apperr"
	"desicargo-backend/internal/audit"
	"desicargo-backend/internal/models"
	"desicargo-backend/internal/session"
	"desicargo-backend/internal/storage/pgcargo"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type memRepo struct {
	users      map[uuid.UUID]*models.User
	lastFilter pgcargo.UserFilter
}

func (m *memRepo) ListUsers(ctx context.Context, f pgcargo.UserFilter) ([]models.User, int64, error) {
	m.lastFilter = f
	var out []models.User
	for _, u := range m.users {
		if f.Role != "" && u.Role != f.Role {
			continue
		}
		out = append(out, *u)
	}
	return out, int64(len(out)), nil
}

func (m *memRepo) GetUser(ctx context.Context, id uuid.UUID) (*models.User, error) {
	u, ok := m.users[id]
	if !ok {
		return nil, apperr.NotFound("get user: not found")
	}
	cp := *u
	return &cp, nil
}

func (m *memRepo) GetUserByEmail(ctx context.Context, email string) (*models.User, error) {
	for _, u := range m.users {
		if u.Email == email {
			cp := *u
			return &cp, nil
		}
	}
	return nil, apperr.NotFound("get user: not found")
}

func (m *memRepo) CreateUser(ctx context.Context, u *models.User) error {
	u.ID = uuid.New()
	cp := *u
	m.users[u.ID] = &cp
	return nil
}

func (m *memRepo) UpdateUser(ctx context.Context, id uuid.UUID, fields map[string]any) (*models.User, error) {
	u, ok := m.users[id]
	if !ok {
		return nil, apperr.NotFound("update user: not found")
	}
	if r, ok := fields["role"]; ok {
		u.Role = r.(models.UserRole)
	}
	if b, ok := fields["branch_id"]; ok {
		if b == nil {
			u.BranchID = nil
		} else {
			id := b.(uuid.UUID)
			u.BranchID = &id
		}
	}
	cp := *u
	return &cp, nil
}

type recorder struct {
	resets      map[uuid.UUID]time.Duration
	links       []string
	invalidated []uuid.UUID
	audits      []audit.LogOptions
}

func (r *recorder) IssueReset(ctx context.Context, userID uuid.UUID, ttl time.Duration) (string, error) {
	r.resets[userID] = ttl
	return "tok-" + userID.String(), nil
}

func (r *recorder) SendInvite(ctx context.Context, u *models.User, link string) error {
	r.links = append(r.links, link)
	return nil
}

func (r *recorder) Invalidate(id uuid.UUID) { r.invalidated = append(r.invalidated, id) }

func (r *recorder) Record(ctx context.Context, opts audit.LogOptions) {
	r.audits = append(r.audits, opts)
}

func newTestService() (*Service, *memRepo, *recorder, *session.User) {
	log := logrus.New()
	log.SetOutput(io.Discard)
	repo := &memRepo{users: map[uuid.UUID]*models.User{}}
	rec := &recorder{resets: map[uuid.UUID]time.Duration{}}
	svc := NewService(repo, rec, rec, rec, rec, "https://app.example.com/", log)
	admin := &session.User{ID: uuid.New(), Name: "Admin", Role: models.RoleAdmin}
	return svc, repo, rec, admin
}

func TestInvite(t *testing.T) {
	svc, repo, rec, admin := newTestService()
	branch := uuid.New()

	u, err := svc.Invite(context.Background(), admin, InviteRequest{
		Name:     "Ravi",
		Email:    "Ravi@Example.com",
		Role:     models.RoleStaff,
		BranchID: branch.String(),
	})
	require.NoError(t, err)
	assert.Equal(t, "ravi@example.com", u.Email)
	assert.Empty(t, u.PasswordHash)
	assert.False(t, u.EmailVerified)
	require.NotNil(t, u.BranchID)
	assert.Equal(t, branch, *u.BranchID)

	assert.Equal(t, inviteTTL, rec.resets[u.ID])
	require.Len(t, rec.links, 1)
	assert.Equal(t, "https://app.example.com/reset-password?token=tok-"+u.ID.String(), rec.links[0])
	require.Len(t, rec.audits, 1)
	assert.Equal(t, models.AuditActionCreate, rec.audits[0].Action)
	assert.Len(t, repo.users, 1)

	_, err = svc.Invite(context.Background(), admin, InviteRequest{Name: "Ravi", Email: "ravi@example.com", Role: models.RoleStaff, BranchID: branch.String()})
	assert.True(t, apperr.IsValidation(err))
}

func TestInvite_Validation(t *testing.T) {
	svc, repo, _, admin := newTestService()
	ctx := context.Background()

	_, err := svc.Invite(ctx, admin, InviteRequest{Name: "A", Email: "a@example.com", Role: "driver"})
	assert.True(t, apperr.IsValidation(err))
	_, err = svc.Invite(ctx, admin, InviteRequest{Name: "A", Email: "a@example.com", Role: models.RoleBranchManager})
	assert.True(t, apperr.IsValidation(err), "branch roles need a branch")
	_, err = svc.Invite(ctx, admin, InviteRequest{Name: "A", Email: "a@example.com", Role: models.RoleStaff, BranchID: "12"})
	assert.True(t, apperr.IsInvalidIdentifier(err))

	_, err = svc.Invite(ctx, admin, InviteRequest{Name: "Acc", Email: "acc@example.com", Role: models.RoleAccountant})
	require.NoError(t, err)
	assert.Len(t, repo.users, 1)
}

func TestUpdateRoleAndBranch(t *testing.T) {
	svc, repo, rec, admin := newTestService()
	ctx := context.Background()
	u := &models.User{Name: "S", Email: "s@example.com", Role: models.RoleStaff}
	require.NoError(t, repo.CreateUser(ctx, u))

	got, err := svc.UpdateRole(ctx, admin, u.ID.String(), models.RoleBranchManager)
	require.NoError(t, err)
	assert.Equal(t, models.RoleBranchManager, got.Role)

	branch := uuid.New()
	got, err = svc.UpdateBranch(ctx, admin, u.ID.String(), branch.String())
	require.NoError(t, err)
	require.NotNil(t, got.BranchID)
	assert.Equal(t, branch, *got.BranchID)

	got, err = svc.UpdateBranch(ctx, admin, u.ID.String(), "")
	require.NoError(t, err)
	assert.Nil(t, got.BranchID)

	assert.Equal(t, []uuid.UUID{u.ID, u.ID, u.ID}, rec.invalidated)
	assert.Len(t, rec.audits, 3)

	_, err = svc.UpdateRole(ctx, admin, admin.ID.String(), models.RoleStaff)
	assert.True(t, apperr.IsValidation(err))
	_, err = svc.UpdateRole(ctx, admin, uuid.NewString(), models.RoleStaff)
	assert.True(t, apperr.IsReason(err, apperr.ReasonNotFound))
	_, err = svc.UpdateRole(ctx, admin, u.ID.String(), "owner")
	assert.True(t, apperr.IsValidation(err))
}

func TestList_ClampsPaging(t *testing.T) {
	svc, repo, _, _ := newTestService()

	res, err := svc.List(context.Background(), ListQuery{Page: 0, PerPage: 1000})
	require.NoError(t, err)
	assert.Equal(t, 1, repo.lastFilter.Page)
	assert.Equal(t, maxPerPage, repo.lastFilter.PerPage)
	assert.NotNil(t, res.Data)
	assert.Zero(t, res.Count)

	_, err = svc.List(context.Background(), ListQuery{Role: "owner"})
	assert.True(t, apperr.IsValidation(err))
}

func TestUserHandlers(t *testing.T) {
	svc, _, _, admin := newTestService()
	app := fiber.New(fiber.Config{ErrorHandler: apperr.FiberErrorHandler(logrus.New())})
	app.Use(func(c *fiber.Ctx) error {
		session.SetCtx(c, admin)
		return c.Next()
	})
	app.Get("/users", ListUsersHandler(svc))
	app.Post("/users", InviteUserHandler(svc))
	app.Put("/users/:id/role", UpdateUserRoleHandler(svc))

	req := httptest.NewRequest("POST", "/users", strings.NewReader(`{"name":"Acc","email":"acc@example.com","role":"accountant"}`))
	req.Header.Set("Content-Type", "application/json")
	resp, err := app.Test(req)
	require.NoError(t, err)
	require.Equal(t, fiber.StatusCreated, resp.StatusCode)
	var created models.User
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&created))

	resp, err = app.Test(httptest.NewRequest("GET", "/users?role=accountant&per_page=5", nil))
	require.NoError(t, err)
	require.Equal(t, fiber.StatusOK, resp.StatusCode)
	var list ListResult
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&list))
	assert.EqualValues(t, 1, list.Count)
	require.Len(t, list.Data, 1)
	assert.Equal(t, created.ID, list.Data[0].ID)

	req = httptest.NewRequest("PUT", "/users/not-a-uuid/role", strings.NewReader(`{"role":"staff"}`))
	req.Header.Set("Content-Type", "application/json")
	resp, err = app.Test(req)
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusBadRequest, resp.StatusCode)
}
