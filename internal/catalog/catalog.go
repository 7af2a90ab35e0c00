// Package catalog holds the parties and articles bookings refer to.
package catalog

import (
	"context"
	"regexp"
	"strings"

	"desicargo-backend/internal/apperr"
	"desicargo-backend/internal/models"
	"desicargo-backend/internal/session"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

type Repository interface {
	ListParties(ctx context.Context, branchID *uuid.UUID, search string) ([]models.Party, error)
	CreateParty(ctx context.Context, p *models.Party) error
	ListArticles(ctx context.Context, branchID *uuid.UUID) ([]models.Article, error)
	CreateArticle(ctx context.Context, a *models.Article) error
}

type Service struct {
	repo Repository
}

func NewService(repo Repository) *Service {
	return &Service{repo: repo}
}

var (
	mobileRe = regexp.MustCompile(`^[0-9+ -]{7,15}$`)
	gstRe    = regexp.MustCompile(`^[0-9]{2}[A-Z0-9]{13}$`)
)

type PartyRequest struct {
	BranchID  string           `json:"branch_id"`
	Name      string           `json:"name"`
	Type      models.PartyType `json:"type"`
	Mobile    string           `json:"mobile"`
	GSTNumber string           `json:"gst_number"`
	Address   string           `json:"address"`
}

type ArticleRequest struct {
	BranchID    string          `json:"branch_id"`
	Name        string          `json:"name"`
	Description string          `json:"description"`
	BaseRate    decimal.Decimal `json:"base_rate"`
	HSNCode     string          `json:"hsn_code"`
}

func (s *Service) ListParties(ctx context.Context, actor *session.User, branchID, search string) ([]models.Party, error) {
	scope, err := session.Scope(actor, branchID)
	if err != nil {
		return nil, err
	}
	out, err := s.repo.ListParties(ctx, scope, search)
	if err != nil {
		return nil, err
	}
	if out == nil {
		out = []models.Party{}
	}
	return out, nil
}

func (s *Service) CreateParty(ctx context.Context, actor *session.User, req PartyRequest) (*models.Party, error) {
	scope, err := session.Scope(actor, req.BranchID)
	if err != nil {
		return nil, err
	}
	p := &models.Party{
		BranchID:  scope,
		Name:      strings.TrimSpace(req.Name),
		Type:      req.Type,
		Mobile:    strings.TrimSpace(req.Mobile),
		GSTNumber: strings.ToUpper(strings.TrimSpace(req.GSTNumber)),
		Address:   strings.TrimSpace(req.Address),
	}
	if p.Type == "" {
		p.Type = models.PartyIndividual
	}

	switch {
	case p.Name == "":
		return nil, apperr.Validation("party name is required")
	case p.Type != models.PartyIndividual && p.Type != models.PartyCompany:
		return nil, apperr.Validation("party type must be individual or company")
	case p.Mobile != "" && !mobileRe.MatchString(p.Mobile):
		return nil, apperr.Validation("mobile number %q is not valid", p.Mobile)
	case p.GSTNumber != "" && !gstRe.MatchString(p.GSTNumber):
		return nil, apperr.Validation("GST number %q is not valid", p.GSTNumber)
	}

	if err := s.repo.CreateParty(ctx, p); err != nil {
		return nil, err
	}
	return p, nil
}

func (s *Service) ListArticles(ctx context.Context, actor *session.User, branchID string) ([]models.Article, error) {
	scope, err := session.Scope(actor, branchID)
	if err != nil {
		return nil, err
	}
	out, err := s.repo.ListArticles(ctx, scope)
	if err != nil {
		return nil, err
	}
	if out == nil {
		out = []models.Article{}
	}
	return out, nil
}

func (s *Service) CreateArticle(ctx context.Context, actor *session.User, req ArticleRequest) (*models.Article, error) {
	scope, err := session.Scope(actor, req.BranchID)
	if err != nil {
		return nil, err
	}
	a := &models.Article{
		BranchID:    scope,
		Name:        strings.TrimSpace(req.Name),
		Description: strings.TrimSpace(req.Description),
		BaseRate:    req.BaseRate,
		HSNCode:     strings.TrimSpace(req.HSNCode),
	}
	if a.Name == "" {
		return nil, apperr.Validation("article name is required")
	}
	if a.BaseRate.IsNegative() {
		return nil, apperr.Validation("base rate cannot be negative")
	}

	if err := s.repo.CreateArticle(ctx, a); err != nil {
		return nil, err
	}
	return a, nil
}
