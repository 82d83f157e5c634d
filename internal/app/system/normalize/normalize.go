// Package normalize canonicalizes user-entered directory values.
package normalize

import (
	"strings"

	"github.com/keatonhoyle/anesthesia-whiteboard/internal/domain/models"
)

// Email trims and lowercases an address.
func Email(s string) string {
	return strings.ToLower(strings.TrimSpace(s))
}

// Name trims surrounding whitespace and collapses internal runs of spaces.
func Name(s string) string {
	return strings.Join(strings.Fields(s), " ")
}

// Role lowercases a role; anything unrecognized becomes staff.
func Role(s string) string {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case models.RoleAdmin:
		return models.RoleAdmin
	default:
		return models.RoleStaff
	}
}

// Status lowercases a status; empty means active.
func Status(s string) string {
	s = strings.ToLower(strings.TrimSpace(s))
	if s == "" {
		return models.StatusActive
	}
	return s
}
