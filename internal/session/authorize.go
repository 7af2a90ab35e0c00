package session

import (
	"desicargo-backend/internal/apperr"
	"desicargo-backend/internal/models"
)

// Authorize applies the route guard: no user means sign-in is required,
// an empty allow-list admits any signed-in user.
func Authorize(u *User, allowed ...models.UserRole) error {
	if u == nil {
		return apperr.Auth("sign-in required")
	}
	if len(allowed) == 0 {
		return nil
	}
	for _, r := range allowed {
		if u.Role == r {
			return nil
		}
	}
	return apperr.Forbidden("you are not authorized to access this resource")
}
