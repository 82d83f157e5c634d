// internal/app/features/authgoogle/handler.go
package authgoogle

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/dalemusser/waffle/pantry/query"
	"github.com/dalemusser/waffle/pantry/urlutil"
	"github.com/keatonhoyle/anesthesia-whiteboard/internal/app/system/auth"
	"github.com/keatonhoyle/anesthesia-whiteboard/internal/app/system/authutil"
	"github.com/keatonhoyle/anesthesia-whiteboard/internal/app/system/identity"
	"github.com/keatonhoyle/anesthesia-whiteboard/internal/app/system/metrics"
	"github.com/keatonhoyle/anesthesia-whiteboard/internal/app/system/selection"
	"github.com/keatonhoyle/anesthesia-whiteboard/internal/app/system/timeouts"
	"go.uber.org/zap"
	"golang.org/x/oauth2"
	"golang.org/x/oauth2/google"
)

const stateTTL = 10 * time.Minute

// StateStore keeps one-time OAuth state tokens. Validate consumes the token.
type StateStore interface {
	Save(ctx context.Context, state, returnURL string, expiresAt time.Time) error
	Validate(ctx context.Context, state string) (returnURL string, valid bool, err error)
}

// Profile is the subset of the Google userinfo response we use.
type Profile struct {
	ID            string `json:"id"`
	Email         string `json:"email"`
	EmailVerified bool   `json:"verified_email"`
	Name          string `json:"name"`
}

// Provider talks to the OAuth server.
type Provider interface {
	AuthCodeURL(state string) string
	Profile(ctx context.Context, code string) (*Profile, error)
}

// Handler handles Google OAuth sign-in.
type Handler struct {
	States     StateStore
	Users      identity.UserLookup
	SessionMgr *auth.SessionManager
	Metrics    *metrics.Metrics
	Provider   Provider // nil when Google sign-in is not configured
	AdminURL   string
	Log        *zap.Logger
}

// NewHandler builds the handler. Google is enabled only when both client
// credentials are set.
func NewHandler(
	states StateStore,
	users identity.UserLookup,
	sessionMgr *auth.SessionManager,
	m *metrics.Metrics,
	clientID, clientSecret, baseURL, adminURL string,
	logger *zap.Logger,
) *Handler {
	h := &Handler{
		States:     states,
		Users:      users,
		SessionMgr: sessionMgr,
		Metrics:    m,
		AdminURL:   adminURL,
		Log:        logger,
	}
	if clientID != "" && clientSecret != "" {
		h.Provider = &googleProvider{cfg: &oauth2.Config{
			ClientID:     clientID,
			ClientSecret: clientSecret,
			RedirectURL:  baseURL + "/auth/google/callback",
			Scopes: []string{
				"openid",
				"https://www.googleapis.com/auth/userinfo.email",
				"https://www.googleapis.com/auth/userinfo.profile",
			},
			Endpoint: google.Endpoint,
		}}
	}
	return h
}

// IsConfigured reports whether Google sign-in is available.
func (h *Handler) IsConfigured() bool {
	return h.Provider != nil
}

/*─────────────────────────────────────────────────────────────────────────────*
| GET /auth/google                                                             |
*─────────────────────────────────────────────────────────────────────────────*/

func (h *Handler) ServeLogin(w http.ResponseWriter, r *http.Request) {
	if !h.IsConfigured() {
		h.Log.Warn("Google OAuth not configured")
		fail(w, r, "google_not_configured")
		return
	}

	state, err := authutil.RandomToken(32)
	if err != nil {
		h.Log.Error("failed to generate OAuth state", zap.Error(err))
		fail(w, r, "internal")
		return
	}
	returnURL := query.Get(r, "return")

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Short())
	defer cancel()

	if err := h.States.Save(ctx, state, returnURL, time.Now().UTC().Add(stateTTL)); err != nil {
		h.Log.Error("failed to save OAuth state", zap.Error(err))
		fail(w, r, "internal")
		return
	}

	http.Redirect(w, r, h.Provider.AuthCodeURL(state), http.StatusTemporaryRedirect)
}

/*─────────────────────────────────────────────────────────────────────────────*
| GET /auth/google/callback                                                    |
*─────────────────────────────────────────────────────────────────────────────*/

func (h *Handler) ServeCallback(w http.ResponseWriter, r *http.Request) {
	if !h.IsConfigured() {
		fail(w, r, "google_not_configured")
		return
	}
	if errParam := query.Get(r, "error"); errParam != "" {
		h.Log.Warn("Google OAuth error",
			zap.String("error", errParam),
			zap.String("description", query.Get(r, "error_description")))
		fail(w, r, "google_denied")
		return
	}

	state := query.Get(r, "state")
	if state == "" {
		fail(w, r, "invalid_state")
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Medium())
	defer cancel()

	returnURL, valid, err := h.States.Validate(ctx, state)
	if err != nil {
		h.Log.Error("failed to validate OAuth state", zap.Error(err))
		fail(w, r, "internal")
		return
	}
	if !valid {
		h.Log.Warn("invalid or expired OAuth state")
		fail(w, r, "invalid_state")
		return
	}

	code := query.Get(r, "code")
	if code == "" {
		fail(w, r, "invalid_state")
		return
	}

	profile, err := h.Provider.Profile(ctx, code)
	if err != nil {
		h.Log.Error("failed to fetch Google profile", zap.Error(err))
		h.Metrics.AuthAttempt("google", false)
		fail(w, r, "internal")
		return
	}
	if !profile.EmailVerified {
		h.Log.Info("Google OAuth: email not verified", zap.String("email", profile.Email))
		h.Metrics.AuthAttempt("google", false)
		fail(w, r, "no_account")
		return
	}

	u, err := identity.Connect(ctx, h.Users, profile.Email)
	h.Metrics.AuthAttempt("google", err == nil)
	switch {
	case errors.Is(err, identity.ErrUnknownUser):
		h.Log.Info("Google OAuth: user not found", zap.String("email", profile.Email))
		fail(w, r, "no_account")
		return
	case errors.Is(err, identity.ErrDisabled):
		h.Log.Info("Google OAuth: user disabled", zap.String("email", profile.Email))
		fail(w, r, "account_disabled")
		return
	case err != nil:
		h.Log.Error("failed to look up user", zap.Error(err))
		fail(w, r, "internal")
		return
	}

	if err := h.SessionMgr.SignIn(w, r, u); err != nil {
		h.Log.Error("save session failed", zap.Error(err), zap.String("user_id", u.ID))
		fail(w, r, "internal")
		return
	}

	h.Log.Info("user signed in", zap.String("user_id", u.ID), zap.String("method", "google"))

	landing := selection.Path(
		selection.AfterLogin(selection.Subject{Authenticated: true, Admin: u.IsAdmin()}),
		h.AdminURL,
	)
	http.Redirect(w, r, urlutil.SafeReturn(returnURL, "", landing), http.StatusSeeOther)
}

func fail(w http.ResponseWriter, r *http.Request, code string) {
	http.Redirect(w, r, "/login?error="+code, http.StatusSeeOther)
}

/*─────────────────────────────────────────────────────────────────────────────*
| Google provider                                                              |
*─────────────────────────────────────────────────────────────────────────────*/

const userInfoURL = "https://www.googleapis.com/oauth2/v2/userinfo"

type googleProvider struct {
	cfg *oauth2.Config
}

func (p *googleProvider) AuthCodeURL(state string) string {
	return p.cfg.AuthCodeURL(state, oauth2.AccessTypeOnline)
}

func (p *googleProvider) Profile(ctx context.Context, code string) (*Profile, error) {
	token, err := p.cfg.Exchange(ctx, code)
	if err != nil {
		return nil, fmt.Errorf("exchange code: %w", err)
	}

	resp, err := p.cfg.Client(ctx, token).Get(userInfoURL)
	if err != nil {
		return nil, fmt.Errorf("fetch user info: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("user info: unexpected status %d", resp.StatusCode)
	}

	var prof Profile
	if err := json.NewDecoder(resp.Body).Decode(&prof); err != nil {
		return nil, fmt.Errorf("decode user info: %w", err)
	}
	return &prof, nil
}
