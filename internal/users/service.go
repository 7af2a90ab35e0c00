package users

import (
	"context"
	"fmt"
	"net/mail"
	"net/url"
	"strings"
	"time"

	"desicargo-backend/internal/apperr"
	"desicargo-backend/internal/audit"
	"desicargo-backend/internal/ident"
	"desicargo-backend/internal/models"
	"desicargo-backend/internal/session"
	"desicargo-backend/internal/storage/pgcargo"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
)

const (
	defaultPerPage = 20
	maxPerPage     = 100
	inviteTTL      = 72 * time.Hour
)

type Repository interface {
	ListUsers(ctx context.Context, f pgcargo.UserFilter) ([]models.User, int64, error)
	GetUser(ctx context.Context, id uuid.UUID) (*models.User, error)
	GetUserByEmail(ctx context.Context, email string) (*models.User, error)
	CreateUser(ctx context.Context, u *models.User) error
	UpdateUser(ctx context.Context, id uuid.UUID, fields map[string]any) (*models.User, error)
}

// ResetIssuer hands out the single-use token an invited user sets a
// password with.
type ResetIssuer interface {
	IssueReset(ctx context.Context, userID uuid.UUID, ttl time.Duration) (string, error)
}

type Inviter interface {
	SendInvite(ctx context.Context, u *models.User, link string) error
}

type SessionInvalidator interface {
	Invalidate(id uuid.UUID)
}

type Auditor interface {
	Record(ctx context.Context, opts audit.LogOptions)
}

type Service struct {
	repo       Repository
	tokens     ResetIssuer
	inviter    Inviter
	sessions   SessionInvalidator
	auditor    Auditor
	appBaseURL string
	log        logrus.FieldLogger
}

func NewService(repo Repository, tokens ResetIssuer, inviter Inviter, sessions SessionInvalidator, auditor Auditor, appBaseURL string, log logrus.FieldLogger) *Service {
	return &Service{
		repo:       repo,
		tokens:     tokens,
		inviter:    inviter,
		sessions:   sessions,
		auditor:    auditor,
		appBaseURL: strings.TrimRight(appBaseURL, "/"),
		log:        log.WithField("component", "users"),
	}
}

type ListQuery struct {
	Search   string
	Role     string
	BranchID string
	Page     int
	PerPage  int
}

type ListResult struct {
	Data  []models.User `json:"data"`
	Count int64         `json:"count"`
}

type InviteRequest struct {
	Name     string          `json:"name"`
	Email    string          `json:"email"`
	Phone    string          `json:"phone"`
	Role     models.UserRole `json:"role"`
	BranchID string          `json:"branch_id"`
}

func (s *Service) List(ctx context.Context, q ListQuery) (*ListResult, error) {
	f := pgcargo.UserFilter{
		Search:  strings.TrimSpace(q.Search),
		Page:    q.Page,
		PerPage: q.PerPage,
	}
	if q.Role != "" {
		role := models.UserRole(q.Role)
		if !role.Valid() {
			return nil, apperr.Validation("role %q is not valid", q.Role)
		}
		f.Role = role
	}
	branchID, err := ident.ParseOptional(q.BranchID)
	if err != nil {
		return nil, err
	}
	f.BranchID = branchID

	if f.Page < 1 {
		f.Page = 1
	}
	if f.PerPage < 1 {
		f.PerPage = defaultPerPage
	}
	if f.PerPage > maxPerPage {
		f.PerPage = maxPerPage
	}

	list, total, err := s.repo.ListUsers(ctx, f)
	if err != nil {
		return nil, err
	}
	if list == nil {
		list = []models.User{}
	}
	return &ListResult{Data: list, Count: total}, nil
}

// Invite creates a pending account without a password and sends the
// invitee a link to set one.
func (s *Service) Invite(ctx context.Context, actor *session.User, req InviteRequest) (*models.User, error) {
	name := strings.TrimSpace(req.Name)
	email := strings.ToLower(strings.TrimSpace(req.Email))
	if name == "" {
		return nil, apperr.Validation("name is required")
	}
	if _, err := mail.ParseAddress(email); err != nil {
		return nil, apperr.Validation("email %q is not valid", req.Email)
	}
	if !req.Role.Valid() {
		return nil, apperr.Validation("role %q is not valid", req.Role)
	}
	branchID, err := ident.ParseOptional(req.BranchID)
	if err != nil {
		return nil, err
	}
	if branchID == nil && req.Role != models.RoleAdmin && req.Role != models.RoleAccountant {
		return nil, apperr.Validation("role %s requires a branch", req.Role)
	}

	if _, err := s.repo.GetUserByEmail(ctx, email); err == nil {
		return nil, apperr.Validation("a user with email %s already exists", email)
	} else if !apperr.IsReason(err, apperr.ReasonNotFound) {
		return nil, err
	}

	u := &models.User{
		Name:     name,
		Email:    email,
		Phone:    strings.TrimSpace(req.Phone),
		Role:     req.Role,
		BranchID: branchID,
	}
	if err := s.repo.CreateUser(ctx, u); err != nil {
		return nil, err
	}

	token, err := s.tokens.IssueReset(ctx, u.ID, inviteTTL)
	if err != nil {
		s.log.WithError(err).WithField("user_id", u.ID).Warn("invite token not issued")
	} else {
		link := s.appBaseURL + "/reset-password?token=" + url.QueryEscape(token)
		if err := s.inviter.SendInvite(ctx, u, link); err != nil {
			s.log.WithError(err).WithField("user_id", u.ID).Warn("invite not sent")
		}
	}

	s.record(ctx, actor, u, models.AuditActionCreate, nil, u, fmt.Sprintf("user %s invited as %s", u.Email, u.Role))
	return u, nil
}

func (s *Service) UpdateRole(ctx context.Context, actor *session.User, id string, role models.UserRole) (*models.User, error) {
	userID, err := ident.Parse(id)
	if err != nil {
		return nil, err
	}
	if !role.Valid() {
		return nil, apperr.Validation("role %q is not valid", role)
	}
	if actor != nil && actor.ID == userID {
		return nil, apperr.Validation("you cannot change your own role")
	}

	before, err := s.repo.GetUser(ctx, userID)
	if err != nil {
		return nil, err
	}
	after, err := s.repo.UpdateUser(ctx, userID, map[string]any{"role": role})
	if err != nil {
		return nil, err
	}
	s.sessions.Invalidate(userID)
	s.record(ctx, actor, after, models.AuditActionUpdate, before, after,
		fmt.Sprintf("user %s role changed from %s to %s", after.Email, before.Role, after.Role))
	return after, nil
}

// UpdateBranch assigns the user to a branch; an empty id clears it.
func (s *Service) UpdateBranch(ctx context.Context, actor *session.User, id, branchID string) (*models.User, error) {
	userID, err := ident.Parse(id)
	if err != nil {
		return nil, err
	}
	branch, err := ident.ParseOptional(branchID)
	if err != nil {
		return nil, err
	}

	before, err := s.repo.GetUser(ctx, userID)
	if err != nil {
		return nil, err
	}
	fields := map[string]any{"branch_id": nil}
	if branch != nil {
		fields["branch_id"] = *branch
	}
	after, err := s.repo.UpdateUser(ctx, userID, fields)
	if err != nil {
		return nil, err
	}
	s.sessions.Invalidate(userID)
	s.record(ctx, actor, after, models.AuditActionUpdate, before, after,
		fmt.Sprintf("user %s branch updated", after.Email))
	return after, nil
}

func (s *Service) record(ctx context.Context, actor *session.User, u *models.User, action models.AuditAction, before, after any, desc string) {
	s.auditor.Record(ctx, audit.LogOptions{
		Actor:       actor,
		BranchID:    u.BranchID,
		EntityType:  "user",
		EntityID:    u.ID.String(),
		Action:      action,
		Description: desc,
		Before:      before,
		After:       after,
	})
}
