// internal/domain/models/user.go
package models

import "time"

// User roles.
const (
	RoleAdmin = "admin"
	RoleStaff = "staff"
)

// User statuses.
const (
	StatusActive   = "active"
	StatusDisabled = "disabled"
)

// User is an authenticated whiteboard user. Divisions are assigned by an
// administrator; hospitals are reached through their division.
type User struct {
	ID                  string    `bson:"_id" json:"id"`
	Email               string    `bson:"email" json:"email"`
	FullName            string    `bson:"full_name" json:"full_name"`
	Role                string    `bson:"role" json:"role"` // admin | staff
	Status              string    `bson:"status,omitempty" json:"status,omitempty"`
	PasswordHash        *string   `bson:"password_hash,omitempty" json:"-"`
	AssignedDivisionIDs []string  `bson:"assigned_division_ids" json:"assigned_division_ids"`
	CreatedAt           time.Time `bson:"created_at" json:"created_at"`
	UpdatedAt           time.Time `bson:"updated_at" json:"updated_at"`
}

// IsAdmin reports whether the user administers the directory.
func (u User) IsAdmin() bool {
	return u.Role == RoleAdmin
}
