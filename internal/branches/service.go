package branches

import (
	"context"
	"net/mail"
	"strings"

	"desicargo-backend/internal/apperr"
	"desicargo-backend/internal/audit"
	"desicargo-backend/internal/ident"
	"desicargo-backend/internal/models"
	"desicargo-backend/internal/session"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
)

type Repository interface {
	ListBranches(ctx context.Context) ([]models.Branch, error)
	GetBranch(ctx context.Context, id uuid.UUID) (*models.Branch, error)
	CreateBranch(ctx context.Context, b *models.Branch) error
	SaveBranch(ctx context.Context, b *models.Branch) error
	CountHeadOffices(ctx context.Context, exclude *uuid.UUID) (int64, error)
	DeleteBranch(ctx context.Context, id uuid.UUID) error
}

type Auditor interface {
	Record(ctx context.Context, opts audit.LogOptions)
}

type Service struct {
	repo    Repository
	auditor Auditor
	log     logrus.FieldLogger
}

func NewService(repo Repository, auditor Auditor, log logrus.FieldLogger) *Service {
	return &Service{repo: repo, auditor: auditor, log: log.WithField("component", "branches")}
}

type CreateBranchRequest struct {
	Name         string              `json:"name"`
	Code         string              `json:"code"`
	Address      string              `json:"address"`
	City         string              `json:"city"`
	State        string              `json:"state"`
	Pincode      string              `json:"pincode"`
	Phone        string              `json:"phone"`
	Email        string              `json:"email"`
	IsHeadOffice bool                `json:"is_head_office"`
	Status       models.BranchStatus `json:"status"`
}

// UpdateBranchRequest only touches the fields that are present.
type UpdateBranchRequest struct {
	Name         *string              `json:"name"`
	Code         *string              `json:"code"`
	Address      *string              `json:"address"`
	City         *string              `json:"city"`
	State        *string              `json:"state"`
	Pincode      *string              `json:"pincode"`
	Phone        *string              `json:"phone"`
	Email        *string              `json:"email"`
	IsHeadOffice *bool                `json:"is_head_office"`
	Status       *models.BranchStatus `json:"status"`
}

func (s *Service) List(ctx context.Context) ([]models.Branch, error) {
	out, err := s.repo.ListBranches(ctx)
	if err != nil {
		return nil, err
	}
	if out == nil {
		out = []models.Branch{}
	}
	return out, nil
}

func (s *Service) Get(ctx context.Context, id string) (*models.Branch, error) {
	branchID, err := ident.Parse(id)
	if err != nil {
		return nil, err
	}
	return s.repo.GetBranch(ctx, branchID)
}

func (s *Service) Create(ctx context.Context, actor *session.User, req CreateBranchRequest) (*models.Branch, error) {
	b := models.Branch{
		Name:         strings.TrimSpace(req.Name),
		Code:         strings.ToUpper(strings.TrimSpace(req.Code)),
		Address:      strings.TrimSpace(req.Address),
		City:         strings.TrimSpace(req.City),
		State:        strings.TrimSpace(req.State),
		Pincode:      strings.TrimSpace(req.Pincode),
		Phone:        strings.TrimSpace(req.Phone),
		Email:        strings.ToLower(strings.TrimSpace(req.Email)),
		IsHeadOffice: req.IsHeadOffice,
		Status:       req.Status,
	}
	if b.Status == "" {
		b.Status = models.BranchStatusActive
	}
	if err := validate(&b); err != nil {
		return nil, err
	}
	if err := s.checkHeadOffice(ctx, &b); err != nil {
		return nil, err
	}

	if err := s.repo.CreateBranch(ctx, &b); err != nil {
		return nil, err
	}

	s.auditor.Record(ctx, audit.LogOptions{
		Actor:       actor,
		BranchID:    &b.ID,
		EntityType:  "branch",
		EntityID:    b.ID.String(),
		Action:      models.AuditActionCreate,
		Description: "branch " + b.Name + " created",
		After:       b,
	})
	return &b, nil
}

func (s *Service) Update(ctx context.Context, actor *session.User, id string, req UpdateBranchRequest) (*models.Branch, error) {
	branchID, err := ident.Parse(id)
	if err != nil {
		return nil, err
	}
	b, err := s.repo.GetBranch(ctx, branchID)
	if err != nil {
		return nil, err
	}
	before := *b

	if req.Name != nil {
		b.Name = strings.TrimSpace(*req.Name)
	}
	if req.Code != nil {
		b.Code = strings.ToUpper(strings.TrimSpace(*req.Code))
	}
	if req.Address != nil {
		b.Address = strings.TrimSpace(*req.Address)
	}
	if req.City != nil {
		b.City = strings.TrimSpace(*req.City)
	}
	if req.State != nil {
		b.State = strings.TrimSpace(*req.State)
	}
	if req.Pincode != nil {
		b.Pincode = strings.TrimSpace(*req.Pincode)
	}
	if req.Phone != nil {
		b.Phone = strings.TrimSpace(*req.Phone)
	}
	if req.Email != nil {
		b.Email = strings.ToLower(strings.TrimSpace(*req.Email))
	}
	if req.IsHeadOffice != nil {
		b.IsHeadOffice = *req.IsHeadOffice
	}
	if req.Status != nil {
		b.Status = *req.Status
	}

	if err := validate(b); err != nil {
		return nil, err
	}
	if err := s.checkHeadOffice(ctx, b); err != nil {
		return nil, err
	}
	if err := s.repo.SaveBranch(ctx, b); err != nil {
		return nil, err
	}

	s.auditor.Record(ctx, audit.LogOptions{
		Actor:       actor,
		BranchID:    &b.ID,
		EntityType:  "branch",
		EntityID:    b.ID.String(),
		Action:      models.AuditActionUpdate,
		Description: "branch " + b.Name + " updated",
		Before:      before,
		After:       b,
	})
	return b, nil
}

// Delete removes a branch. The store rejects it while bookings or users
// still reference the branch, leaving the row untouched.
func (s *Service) Delete(ctx context.Context, actor *session.User, id string) error {
	branchID, err := ident.Parse(id)
	if err != nil {
		return err
	}
	b, err := s.repo.GetBranch(ctx, branchID)
	if err != nil {
		return err
	}
	if err := s.repo.DeleteBranch(ctx, branchID); err != nil {
		return err
	}

	s.auditor.Record(ctx, audit.LogOptions{
		Actor:       actor,
		EntityType:  "branch",
		EntityID:    b.ID.String(),
		Action:      models.AuditActionDelete,
		Description: "branch " + b.Name + " deleted",
		Before:      b,
	})
	return nil
}

func (s *Service) checkHeadOffice(ctx context.Context, b *models.Branch) error {
	if !b.IsHeadOffice {
		return nil
	}
	var exclude *uuid.UUID
	if b.ID != uuid.Nil {
		exclude = &b.ID
	}
	n, err := s.repo.CountHeadOffices(ctx, exclude)
	if err != nil {
		return err
	}
	if n > 0 {
		return apperr.Validation("a head office already exists")
	}
	return nil
}

func validate(b *models.Branch) error {
	switch {
	case b.Name == "":
		return apperr.Validation("branch name is required")
	case b.City == "":
		return apperr.Validation("branch city is required")
	case b.State == "":
		return apperr.Validation("branch state is required")
	case !b.Status.Valid():
		return apperr.Validation("unknown branch status %q", b.Status)
	}
	if b.Email != "" {
		if _, err := mail.ParseAddress(b.Email); err != nil {
			return apperr.Validation("branch email %q is not valid", b.Email)
		}
	}
	return nil
}
