// internal/app/features/login/handler.go
package login

import (
	"errors"
	"net/http"
	"strings"

	"github.com/dalemusser/waffle/pantry/query"
	"github.com/dalemusser/waffle/pantry/templates"
	uierrors "github.com/keatonhoyle/anesthesia-whiteboard/internal/app/features/errors"
	"github.com/keatonhoyle/anesthesia-whiteboard/internal/app/system/auth"
	"github.com/keatonhoyle/anesthesia-whiteboard/internal/app/system/identity"
	"github.com/keatonhoyle/anesthesia-whiteboard/internal/app/system/metrics"
	"github.com/keatonhoyle/anesthesia-whiteboard/internal/app/system/normalize"
	"github.com/keatonhoyle/anesthesia-whiteboard/internal/app/system/ratelimit"
	"github.com/keatonhoyle/anesthesia-whiteboard/internal/app/system/selection"
	"github.com/keatonhoyle/anesthesia-whiteboard/internal/app/system/timeouts"
	"github.com/keatonhoyle/anesthesia-whiteboard/internal/app/system/viewdata"
	"go.uber.org/zap"
)

type Handler struct {
	Auth          identity.Authenticator
	SessionMgr    *auth.SessionManager
	Metrics       *metrics.Metrics
	Limiter       *ratelimit.SignInLimiter
	ErrLog        *uierrors.ErrorLogger
	Log           *zap.Logger
	Render        uierrors.RenderFunc
	AdminURL      string // where administrators land after sign-in
	GoogleEnabled bool   // True if Google OAuth is configured
}

func NewHandler(
	authn identity.Authenticator,
	sessionMgr *auth.SessionManager,
	m *metrics.Metrics,
	errLog *uierrors.ErrorLogger,
	adminURL string,
	googleEnabled bool,
	logger *zap.Logger,
) *Handler {
	return &Handler{
		Auth:          authn,
		SessionMgr:    sessionMgr,
		Metrics:       m,
		Limiter:       ratelimit.NewSignInLimiter(),
		ErrLog:        errLog,
		Log:           logger,
		Render:        templates.Render,
		AdminURL:      adminURL,
		GoogleEnabled: googleEnabled,
	}
}

/*─────────────────────────────────────────────────────────────────────────────*
| Template-data                                                               |
*─────────────────────────────────────────────────────────────────────────────*/

type loginFormData struct {
	viewdata.BaseVM
	Error         string
	Email         string
	GoogleEnabled bool
}

// callbackErrors maps the error codes other sign-in flows redirect back with.
var callbackErrors = map[string]string{
	"google_not_configured": "Google sign-in is not configured.",
	"google_denied":         "Google sign-in was cancelled.",
	"invalid_state":         "Your sign-in attempt expired. Please try again.",
	"no_account":            "There is no whiteboard account for that Google address.",
	"account_disabled":      "Your account is currently disabled. Please contact an administrator.",
	"internal":              "Sign-in is unavailable right now. Please try again.",
}

/*─────────────────────────────────────────────────────────────────────────────*
| GET /login                                                                  |
*─────────────────────────────────────────────────────────────────────────────*/

func (h *Handler) ServeLogin(w http.ResponseWriter, r *http.Request) {
	if u, ok := auth.CurrentUser(r); ok {
		http.Redirect(w, r, h.landing(u), http.StatusSeeOther)
		return
	}
	msg := ""
	if code := query.Get(r, "error"); code != "" {
		msg = callbackErrors[code]
		if msg == "" {
			msg = callbackErrors["internal"]
		}
	}
	h.render(w, r, loginFormData{Error: msg})
}

/*─────────────────────────────────────────────────────────────────────────────*
| POST /login                                                                 |
*─────────────────────────────────────────────────────────────────────────────*/

func (h *Handler) HandleLoginPost(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		h.ErrLog.LogBadRequest(w, r, "parse form failed", err, "Invalid form data.", "/login")
		return
	}

	email := normalize.Email(r.PostFormValue("email"))
	password := r.PostFormValue("password")
	if email == "" || strings.TrimSpace(password) == "" {
		h.render(w, r, loginFormData{Error: "Please enter your email and password.", Email: email})
		return
	}

	if ok, msg := h.Limiter.Check(r, email); !ok {
		h.Log.Warn("sign-in rate limited",
			zap.String("email", email),
			zap.String("ip", ratelimit.ClientIP(r)))
		w.WriteHeader(http.StatusTooManyRequests)
		h.render(w, r, loginFormData{Error: msg, Email: email})
		return
	}

	ctx, cancel := timeouts.WithTimeout(r.Context(), timeouts.Medium(), h.Log, "authenticate")
	defer cancel()

	u, err := h.Auth.Authenticate(ctx, identity.Credentials{Email: email, Password: password})
	h.Metrics.AuthAttempt(h.Auth.Method(), err == nil)
	if err != nil {
		h.Log.Info("sign-in failed",
			zap.String("email", email),
			zap.String("method", h.Auth.Method()),
			zap.Error(err))
		h.render(w, r, loginFormData{Error: failureMessage(err), Email: email})
		return
	}

	h.Limiter.Succeeded(email)

	// SignIn replaces the session, so every login starts the wizard afresh.
	if err := h.SessionMgr.SignIn(w, r, u); err != nil {
		h.Log.Error("save session failed", zap.Error(err), zap.String("user_id", u.ID))
		h.render(w, r, loginFormData{Error: "Unable to create session. Please try again.", Email: email})
		return
	}

	h.Log.Info("user signed in",
		zap.String("user_id", u.ID),
		zap.String("method", h.Auth.Method()))
	http.Redirect(w, r, h.landing(u), http.StatusSeeOther)
}

// landing is the first page after sign-in: the admin surface for
// administrators, the division step for everyone else.
func (h *Handler) landing(u *auth.SessionUser) string {
	state := selection.AfterLogin(selection.Subject{Authenticated: true, Admin: u.IsAdmin()})
	return selection.Path(state, h.AdminURL)
}

func failureMessage(err error) string {
	switch {
	case errors.Is(err, identity.ErrInvalidCredentials):
		return "Invalid email or password."
	case errors.Is(err, identity.ErrDisabled):
		return "Your account is currently disabled. Please contact an administrator."
	case errors.Is(err, identity.ErrUnknownUser):
		return "Your sign-in worked, but you do not have a whiteboard account. Please contact an administrator."
	case errors.Is(err, identity.ErrChallenge):
		return "Your account needs an additional sign-in step. Please contact an administrator."
	default:
		return "Sign-in is unavailable right now. Please try again."
	}
}

func (h *Handler) render(w http.ResponseWriter, r *http.Request, data loginFormData) {
	data.BaseVM = viewdata.NewBaseVM(r, "Sign in", "/")
	data.GoogleEnabled = h.GoogleEnabled
	h.Render(w, r, "login", data)
}
