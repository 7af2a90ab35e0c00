package session

import (
	"desicargo-backend/internal/ident"

	"github.com/google/uuid"
)

// Scope picks the requested branch, else the user's own branch, else nil
// meaning every branch.
func Scope(u *User, requested string) (*uuid.UUID, error) {
	id, err := ident.ParseOptional(requested)
	if err != nil {
		return nil, err
	}
	if id != nil {
		return id, nil
	}
	if u != nil && u.BranchID != nil {
		b := *u.BranchID
		return &b, nil
	}
	return nil, nil
}
