package authgoogle_test

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/keatonhoyle/anesthesia-whiteboard/internal/app/features/authgoogle"
	"github.com/keatonhoyle/anesthesia-whiteboard/internal/domain/models"
	"github.com/keatonhoyle/anesthesia-whiteboard/internal/testutil"
	"go.mongodb.org/mongo-driver/mongo"
	"go.uber.org/zap"
)

type memStates struct {
	saved map[string]string
	err   error
}

func (m *memStates) Save(_ context.Context, state, returnURL string, _ time.Time) error {
	if m.err != nil {
		return m.err
	}
	m.saved[state] = returnURL
	return nil
}

func (m *memStates) Validate(_ context.Context, state string) (string, bool, error) {
	ret, ok := m.saved[state]
	delete(m.saved, state)
	return ret, ok, nil
}

type fakeUsers map[string]*models.User

func (f fakeUsers) GetByEmail(_ context.Context, email string) (*models.User, error) {
	if u, ok := f[email]; ok {
		return u, nil
	}
	return nil, mongo.ErrNoDocuments
}

type fakeProvider struct {
	profile *authgoogle.Profile
	err     error
}

func (p fakeProvider) AuthCodeURL(state string) string {
	return "https://accounts.example.test/auth?state=" + state
}

func (p fakeProvider) Profile(context.Context, string) (*authgoogle.Profile, error) {
	return p.profile, p.err
}

var directory = fakeUsers{
	"nurse@example.org": {ID: "u1", Email: "nurse@example.org", FullName: "Nora Nurse", Role: models.RoleStaff, Status: models.StatusActive},
	"admin@example.org": {ID: "u2", Email: "admin@example.org", FullName: "Ada Admin", Role: models.RoleAdmin, Status: models.StatusActive},
	"gone@example.org":  {ID: "u3", Email: "gone@example.org", Role: models.RoleStaff, Status: models.StatusDisabled},
}

func newHandler(t *testing.T, p authgoogle.Provider) (*authgoogle.Handler, *memStates) {
	t.Helper()
	states := &memStates{saved: map[string]string{"good-state": ""}}
	h := authgoogle.NewHandler(states, directory, testutil.SessionManager(t), nil, "", "", "http://localhost:8080", "/admin", zap.NewNop())
	h.Provider = p
	return h, states
}

func callback(h *authgoogle.Handler, query string) *httptest.ResponseRecorder {
	rec := httptest.NewRecorder()
	h.ServeCallback(rec, httptest.NewRequest("GET", "/auth/google/callback?"+query, nil))
	return rec
}

func TestNewHandler_UnconfiguredWithoutCredentials(t *testing.T) {
	h := authgoogle.NewHandler(&memStates{}, directory, testutil.SessionManager(t), nil, "id", "", "http://x", "/admin", zap.NewNop())
	if h.IsConfigured() {
		t.Error("handler without client secret should not be configured")
	}
	h = authgoogle.NewHandler(&memStates{}, directory, testutil.SessionManager(t), nil, "id", "secret", "http://x", "/admin", zap.NewNop())
	if !h.IsConfigured() {
		t.Error("handler with credentials should be configured")
	}
}

func TestServeLogin_NotConfigured(t *testing.T) {
	h, _ := newHandler(t, nil)

	rec := httptest.NewRecorder()
	h.ServeLogin(rec, httptest.NewRequest("GET", "/auth/google", nil))

	if loc := rec.Header().Get("Location"); loc != "/login?error=google_not_configured" {
		t.Errorf("Location = %q", loc)
	}
}

func TestServeLogin_SavesStateAndRedirects(t *testing.T) {
	h, states := newHandler(t, fakeProvider{})

	rec := httptest.NewRecorder()
	h.ServeLogin(rec, httptest.NewRequest("GET", "/auth/google", nil))

	if rec.Code != http.StatusTemporaryRedirect {
		t.Fatalf("status = %d", rec.Code)
	}
	if !strings.HasPrefix(rec.Header().Get("Location"), "https://accounts.example.test/auth?state=") {
		t.Errorf("Location = %q", rec.Header().Get("Location"))
	}
	if len(states.saved) != 2 {
		t.Errorf("saved states = %d, want 2", len(states.saved))
	}
}

func TestServeLogin_StateStoreFailure(t *testing.T) {
	h, states := newHandler(t, fakeProvider{})
	states.err = errors.New("mongo down")

	rec := httptest.NewRecorder()
	h.ServeLogin(rec, httptest.NewRequest("GET", "/auth/google", nil))

	if loc := rec.Header().Get("Location"); loc != "/login?error=internal" {
		t.Errorf("Location = %q", loc)
	}
}

func TestServeCallback_Errors(t *testing.T) {
	verified := func(email string) authgoogle.Provider {
		return fakeProvider{profile: &authgoogle.Profile{Email: email, EmailVerified: true}}
	}
	tests := []struct {
		name     string
		provider authgoogle.Provider
		query    string
		want     string
	}{
		{"denied", verified("nurse@example.org"), "error=access_denied", "google_denied"},
		{"missing state", verified("nurse@example.org"), "code=abc", "invalid_state"},
		{"unknown state", verified("nurse@example.org"), "state=nope&code=abc", "invalid_state"},
		{"exchange fails", fakeProvider{err: errors.New("bad code")}, "state=good-state&code=abc", "internal"},
		{"unverified email", fakeProvider{profile: &authgoogle.Profile{Email: "nurse@example.org"}}, "state=good-state&code=abc", "no_account"},
		{"not in directory", verified("stranger@example.org"), "state=good-state&code=abc", "no_account"},
		{"disabled", verified("gone@example.org"), "state=good-state&code=abc", "account_disabled"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			h, _ := newHandler(t, tt.provider)
			rec := callback(h, tt.query)
			if loc := rec.Header().Get("Location"); loc != "/login?error="+tt.want {
				t.Errorf("Location = %q, want error %q", loc, tt.want)
			}
		})
	}
}

func TestServeCallback_StateIsSingleUse(t *testing.T) {
	h, _ := newHandler(t, fakeProvider{profile: &authgoogle.Profile{Email: "nurse@example.org", EmailVerified: true}})

	if loc := callback(h, "state=good-state&code=abc").Header().Get("Location"); loc != "/select-division" {
		t.Fatalf("first callback Location = %q", loc)
	}
	if loc := callback(h, "state=good-state&code=abc").Header().Get("Location"); loc != "/login?error=invalid_state" {
		t.Errorf("replayed callback Location = %q", loc)
	}
}

func TestServeCallback_SignsInStaff(t *testing.T) {
	h, _ := newHandler(t, fakeProvider{profile: &authgoogle.Profile{Email: "Nurse@Example.org", EmailVerified: true}})

	rec := callback(h, "state=good-state&code=abc")

	if rec.Code != http.StatusSeeOther {
		t.Fatalf("status = %d", rec.Code)
	}
	if loc := rec.Header().Get("Location"); loc != "/select-division" {
		t.Errorf("Location = %q, want /select-division", loc)
	}
	sess := testutil.ReadSession(t, h.SessionMgr, rec)
	if sess.Values["user_id"] != "u1" {
		t.Errorf("session user_id = %v", sess.Values["user_id"])
	}
}

func TestServeCallback_AdminLandsOnAdmin(t *testing.T) {
	h, _ := newHandler(t, fakeProvider{profile: &authgoogle.Profile{Email: "admin@example.org", EmailVerified: true}})

	if loc := callback(h, "state=good-state&code=abc").Header().Get("Location"); loc != "/admin" {
		t.Errorf("Location = %q, want /admin", loc)
	}
}
