package session

import (
	"desicargo-backend/internal/apperr"
	"desicargo-backend/internal/models"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
)

const (
	CtxUserKey  = "session_user"
	CtxTokenKey = "session_token"
)

// User is the application identity a request acts as.
type User struct {
	ID         uuid.UUID       `json:"id"`
	Name       string          `json:"name"`
	Email      string          `json:"email"`
	Role       models.UserRole `json:"role"`
	BranchID   *uuid.UUID      `json:"branch_id"`
	BranchName string          `json:"branch_name,omitempty"`
}

func (u *User) IsAdmin() bool {
	return u != nil && u.Role == models.RoleAdmin
}

func FromModel(m *models.User) *User {
	u := &User{
		ID:       m.ID,
		Name:     m.Name,
		Email:    m.Email,
		Role:     m.Role,
		BranchID: m.BranchID,
	}
	if m.Branch != nil {
		u.BranchName = m.Branch.Name
	}
	return u
}

func SetCtx(c *fiber.Ctx, u *User) {
	c.Locals(CtxUserKey, u)
}

func FromCtx(c *fiber.Ctx) (*User, bool) {
	u, ok := c.Locals(CtxUserKey).(*User)
	return u, ok && u != nil
}

// Current returns the request user or an AuthError.
func Current(c *fiber.Ctx) (*User, error) {
	u, ok := FromCtx(c)
	if !ok {
		return nil, apperr.Auth("sign-in required")
	}
	return u, nil
}
