package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type UserRole string

const (
	RoleAdmin         UserRole = "admin"
	RoleBranchManager UserRole = "branch_manager"
	RoleStaff         UserRole = "staff"
	RoleAccountant    UserRole = "accountant"
)

func (r UserRole) Valid() bool {
	switch r {
	case RoleAdmin, RoleBranchManager, RoleStaff, RoleAccountant:
		return true
	}
	return false
}

type User struct {
	ID       uuid.UUID  `gorm:"type:uuid;primaryKey" json:"id"`
	BranchID *uuid.UUID `gorm:"type:uuid;index" json:"branch_id"`
	Branch   *Branch    `json:"branch,omitempty"`
	Name     string     `gorm:"size:100;not null" json:"name"`
	Email    string     `gorm:"size:100;uniqueIndex;not null" json:"email"`
	Phone    string     `gorm:"size:50" json:"phone"`
	// Empty until an invited user sets a password.
	PasswordHash      string    `gorm:"size:255" json:"-"`
	Role              UserRole  `gorm:"size:20;not null" json:"role"`
	EmailVerified     bool      `gorm:"not null;default:false" json:"email_verified"`
	VerificationToken string    `gorm:"size:64;index" json:"-"`
	CreatedAt         time.Time `json:"created_at"`
	UpdatedAt         time.Time `json:"updated_at"`
}

func (u *User) BeforeCreate(tx *gorm.DB) error {
	ensureID(&u.ID)
	return nil
}
