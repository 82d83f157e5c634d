// Package identity verifies credentials and maps the verified subject onto a
// directory user. Providers differ only in how the password is checked.
package identity

import (
	"context"
	"errors"

	"github.com/keatonhoyle/anesthesia-whiteboard/internal/app/system/auth"
	"github.com/keatonhoyle/anesthesia-whiteboard/internal/app/system/normalize"
	"github.com/keatonhoyle/anesthesia-whiteboard/internal/domain/models"
	"go.mongodb.org/mongo-driver/mongo"
)

var (
	// ErrInvalidCredentials covers unknown emails and wrong passwords alike.
	ErrInvalidCredentials = errors.New("invalid email or password")
	ErrDisabled           = errors.New("account disabled")
	// ErrUnknownUser is returned when an upstream provider accepts the
	// credentials but the directory has no matching user.
	ErrUnknownUser = errors.New("user not in directory")
)

type Credentials struct {
	Email    string
	Password string
}

// Authenticator checks credentials and returns the signed-in user.
type Authenticator interface {
	Authenticate(ctx context.Context, c Credentials) (*auth.SessionUser, error)
	// Method names the provider in logs and metrics.
	Method() string
}

// UserLookup is the slice of the user store identity needs.
// GetByEmail returns mongo.ErrNoDocuments when absent.
type UserLookup interface {
	GetByEmail(ctx context.Context, email string) (*models.User, error)
}

// resolve loads the directory user for email and rejects disabled accounts.
func resolve(ctx context.Context, users UserLookup, email string, missing error) (*models.User, error) {
	u, err := users.GetByEmail(ctx, normalize.Email(email))
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, missing
	}
	if err != nil {
		return nil, err
	}
	if u.Status == models.StatusDisabled {
		return nil, ErrDisabled
	}
	return u, nil
}

// SessionUser converts a directory user into the session form.
func SessionUser(u *models.User) *auth.SessionUser {
	return &auth.SessionUser{
		ID:          u.ID,
		Name:        u.FullName,
		Email:       u.Email,
		Role:        u.Role,
		DivisionIDs: append([]string(nil), u.AssignedDivisionIDs...),
	}
}

// Connect maps an email already verified by an upstream provider (Google)
// onto the directory. Unknown emails are refused; accounts are never created here.
func Connect(ctx context.Context, users UserLookup, email string) (*auth.SessionUser, error) {
	if normalize.Email(email) == "" {
		return nil, ErrUnknownUser
	}
	u, err := resolve(ctx, users, email, ErrUnknownUser)
	if err != nil {
		return nil, err
	}
	return SessionUser(u), nil
}
