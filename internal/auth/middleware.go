package auth

import (
	"strings"

	"desicargo-backend/internal/apperr"
	"desicargo-backend/internal/models"
	"desicargo-backend/internal/session"

	"github.com/gofiber/fiber/v2"
)

const CtxClaimsKey = "jwt_claims"

// JWTMiddleware validates the bearer token, rejects revoked tokens and
// binds the resolved user to the request for its whole lifetime.
func JWTMiddleware(secret string, tokens *TokenStore, hub *session.Hub) fiber.Handler {
	return func(c *fiber.Ctx) error {
		authHeader := c.Get("Authorization")
		if authHeader == "" {
			return apperr.Auth("authorization header is missing")
		}

		parts := strings.SplitN(authHeader, " ", 2)
		if len(parts) != 2 || strings.ToLower(parts[0]) != "bearer" {
			return apperr.Auth("authorization header must be 'Bearer <token>'")
		}

		claims, err := ParseToken(secret, parts[1])
		if err != nil {
			return err
		}

		revoked, err := tokens.IsRevoked(c.UserContext(), claims.ID)
		if err != nil {
			return apperr.Persistence(err, "could not check session")
		}
		if revoked {
			return apperr.Auth("session has been signed out")
		}

		user, release, err := hub.Acquire(c.UserContext(), claims.UserID)
		if err != nil {
			if apperr.IsReason(err, apperr.ReasonNotFound) {
				return apperr.Auth("account no longer exists")
			}
			return err
		}
		defer release()

		session.SetCtx(c, user)
		c.Locals(CtxClaimsKey, claims)
		return c.Next()
	}
}

func RequireRole(allowedRoles ...models.UserRole) fiber.Handler {
	return func(c *fiber.Ctx) error {
		user, _ := session.FromCtx(c)
		if err := session.Authorize(user, allowedRoles...); err != nil {
			return err
		}
		return c.Next()
	}
}

func claimsFromCtx(c *fiber.Ctx) *JWTCustomClaims {
	claims, _ := c.Locals(CtxClaimsKey).(*JWTCustomClaims)
	return claims
}
