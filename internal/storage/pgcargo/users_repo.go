package pgcargo

import (
	"context"
	"strings"

	"desicargo-backend/internal/apperr"
	"desicargo-backend/internal/models"

	"github.com/google/uuid"
)

type UserFilter struct {
	Search   string
	Role     models.UserRole
	BranchID *uuid.UUID
	Page     int
	PerPage  int
}

func (s *Store) GetUser(ctx context.Context, id uuid.UUID) (*models.User, error) {
	var u models.User
	if err := s.conn(ctx).Preload("Branch").First(&u, "id = ?", id).Error; err != nil {
		return nil, s.translate(err, "get user")
	}
	return &u, nil
}

func (s *Store) GetUserByEmail(ctx context.Context, email string) (*models.User, error) {
	var u models.User
	if err := s.conn(ctx).Preload("Branch").First(&u, "email = ?", strings.ToLower(email)).Error; err != nil {
		return nil, s.translate(err, "get user")
	}
	return &u, nil
}

func (s *Store) GetUserByVerificationToken(ctx context.Context, token string) (*models.User, error) {
	var u models.User
	if err := s.conn(ctx).First(&u, "verification_token = ? AND verification_token <> ''", token).Error; err != nil {
		return nil, s.translate(err, "verify email")
	}
	return &u, nil
}

func (s *Store) CreateUser(ctx context.Context, u *models.User) error {
	return s.translate(s.conn(ctx).Omit("Branch").Create(u).Error, "create user")
}

func (s *Store) UpdateUser(ctx context.Context, id uuid.UUID, fields map[string]any) (*models.User, error) {
	res := s.conn(ctx).Model(&models.User{}).Where("id = ?", id).Updates(fields)
	if res.Error != nil {
		return nil, s.translate(res.Error, "update user")
	}
	if res.RowsAffected == 0 {
		return nil, apperr.NotFound("update user: not found")
	}
	return s.GetUser(ctx, id)
}

// ListUsers returns one page of users plus the total matching count.
func (s *Store) ListUsers(ctx context.Context, f UserFilter) ([]models.User, int64, error) {
	q := s.conn(ctx).Model(&models.User{})
	if term := strings.TrimSpace(f.Search); term != "" {
		like := "%" + term + "%"
		q = q.Where("name ILIKE ? OR email ILIKE ?", like, like)
	}
	if f.Role != "" {
		q = q.Where("role = ?", f.Role)
	}
	if f.BranchID != nil {
		q = q.Where("branch_id = ?", *f.BranchID)
	}

	var total int64
	if err := q.Count(&total).Error; err != nil {
		return nil, 0, s.translate(err, "count users")
	}

	var out []models.User
	if err := q.Preload("Branch").
		Order("created_at DESC").
		Offset((f.Page - 1) * f.PerPage).
		Limit(f.PerPage).
		Find(&out).Error; err != nil {
		return nil, 0, s.translate(err, "list users")
	}
	return out, total, nil
}
