package pgcargo

import (
	"context"
	"strings"

	"desicargo-backend/internal/models"

	"github.com/google/uuid"
)

func (s *Store) ListParties(ctx context.Context, branchID *uuid.UUID, search string) ([]models.Party, error) {
	q := s.conn(ctx).Model(&models.Party{})
	if branchID != nil {
		q = q.Where("branch_id = ? OR branch_id IS NULL", *branchID)
	}
	if term := strings.TrimSpace(search); term != "" {
		like := "%" + term + "%"
		q = q.Where("name ILIKE ? OR mobile ILIKE ?", like, like)
	}
	var out []models.Party
	if err := q.Order("name ASC").Find(&out).Error; err != nil {
		return nil, s.translate(err, "list parties")
	}
	return out, nil
}

func (s *Store) CreateParty(ctx context.Context, p *models.Party) error {
	return s.translate(s.conn(ctx).Create(p).Error, "create party")
}

func (s *Store) ListArticles(ctx context.Context, branchID *uuid.UUID) ([]models.Article, error) {
	q := s.conn(ctx).Model(&models.Article{})
	if branchID != nil {
		q = q.Where("branch_id = ? OR branch_id IS NULL", *branchID)
	}
	var out []models.Article
	if err := q.Order("name ASC").Find(&out).Error; err != nil {
		return nil, s.translate(err, "list articles")
	}
	return out, nil
}

func (s *Store) CreateArticle(ctx context.Context, a *models.Article) error {
	return s.translate(s.conn(ctx).Create(a).Error, "create article")
}
