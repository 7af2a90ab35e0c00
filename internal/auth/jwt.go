package auth

import (
	"time"

	"desicargo-backend/internal/apperr"
	"desicargo-backend/internal/models"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/pkg/errors"
)

type JWTCustomClaims struct {
	UserID   uuid.UUID       `json:"user_id"`
	Email    string          `json:"email"`
	Role     models.UserRole `json:"role"`
	BranchID *uuid.UUID      `json:"branch_id"`
	jwt.RegisteredClaims
}

// GenerateToken signs an HS256 access token. The jti lets a signed-out
// token be revoked before it expires.
func GenerateToken(secret string, user *models.User, ttl time.Duration, now time.Time) (string, *JWTCustomClaims, error) {
	claims := &JWTCustomClaims{
		UserID:   user.ID,
		Email:    user.Email,
		Role:     user.Role,
		BranchID: user.BranchID,
		RegisteredClaims: jwt.RegisteredClaims{
			ID:        uuid.NewString(),
			Subject:   user.ID.String(),
			ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
			IssuedAt:  jwt.NewNumericDate(now),
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString([]byte(secret))
	if err != nil {
		return "", nil, errors.Wrap(err, "sign token")
	}
	return signed, claims, nil
}

func ParseToken(secret, tokenStr string) (*JWTCustomClaims, error) {
	token, err := jwt.ParseWithClaims(tokenStr, &JWTCustomClaims{}, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, errors.New("unexpected signing method")
		}
		return []byte(secret), nil
	})
	if err != nil || !token.Valid {
		return nil, apperr.Auth("invalid or expired token")
	}

	claims, ok := token.Claims.(*JWTCustomClaims)
	if !ok || claims.UserID == uuid.Nil || claims.ID == "" || claims.ExpiresAt == nil {
		return nil, apperr.Auth("token could not be read")
	}
	return claims, nil
}
