// Package ident validates the UUID identifiers used by every entity.
package ident

import (
	"regexp"
	"strings"

	"desicargo-backend/internal/apperr"

	"github.com/google/uuid"
)

var uuidPattern = regexp.MustCompile(`^[0-9a-fA-F]{8}-[0-9a-fA-F]{4}-[0-9a-fA-F]{4}-[0-9a-fA-F]{4}-[0-9a-fA-F]{12}$`)

// Valid reports whether s is in canonical 8-4-4-4-12 hex form.
func Valid(s string) bool {
	return uuidPattern.MatchString(s)
}

// Parse rejects anything but the canonical form, so brace and urn
// variants accepted by uuid.Parse never reach the store.
func Parse(s string) (uuid.UUID, error) {
	s = strings.TrimSpace(s)
	if !Valid(s) {
		return uuid.Nil, apperr.InvalidIdentifier(s)
	}
	id, err := uuid.Parse(s)
	if err != nil {
		return uuid.Nil, apperr.InvalidIdentifier(s)
	}
	return id, nil
}

// ParseOptional returns nil for an empty string.
func ParseOptional(s string) (*uuid.UUID, error) {
	if strings.TrimSpace(s) == "" {
		return nil, nil
	}
	id, err := Parse(s)
	if err != nil {
		return nil, err
	}
	return &id, nil
}
