package identity

import (
	"context"

	"github.com/keatonhoyle/anesthesia-whiteboard/internal/app/system/auth"
	"github.com/keatonhoyle/anesthesia-whiteboard/internal/app/system/authutil"
)

// Local checks passwords against the bcrypt hashes in the directory.
type Local struct {
	users UserLookup
}

func NewLocal(users UserLookup) *Local {
	return &Local{users: users}
}

func (l *Local) Method() string { return "local" }

func (l *Local) Authenticate(ctx context.Context, c Credentials) (*auth.SessionUser, error) {
	if c.Email == "" || c.Password == "" {
		return nil, ErrInvalidCredentials
	}
	u, err := resolve(ctx, l.users, c.Email, ErrInvalidCredentials)
	if err != nil {
		return nil, err
	}
	if u.PasswordHash == nil || !authutil.CheckPassword(*u.PasswordHash, c.Password) {
		return nil, ErrInvalidCredentials
	}
	return SessionUser(u), nil
}
