package login_test

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"

	"github.com/gorilla/sessions"
	uierrors "github.com/keatonhoyle/anesthesia-whiteboard/internal/app/features/errors"
	"github.com/keatonhoyle/anesthesia-whiteboard/internal/app/features/login"
	"github.com/keatonhoyle/anesthesia-whiteboard/internal/app/system/auth"
	"github.com/keatonhoyle/anesthesia-whiteboard/internal/app/system/identity"
	"github.com/keatonhoyle/anesthesia-whiteboard/internal/app/system/selection"
	"github.com/keatonhoyle/anesthesia-whiteboard/internal/testutil"
	"go.uber.org/zap"
)

type fakeAuth struct {
	users map[string]*auth.SessionUser
	err   error
}

func (f fakeAuth) Method() string { return "fake" }

func (f fakeAuth) Authenticate(_ context.Context, c identity.Credentials) (*auth.SessionUser, error) {
	if f.err != nil {
		return nil, f.err
	}
	u, ok := f.users[c.Email]
	if !ok || c.Password != "pw" {
		return nil, identity.ErrInvalidCredentials
	}
	return u, nil
}

var people = map[string]*auth.SessionUser{
	"nurse@example.org": {ID: "u1", Name: "Nora Nurse", Role: "staff", DivisionIDs: []string{"1"}},
	"admin@example.org": {ID: "u2", Name: "Ada Admin", Role: "admin"},
}

type rendered struct {
	name string
	data any
}

func newTestHandler(t *testing.T, a identity.Authenticator) (*login.Handler, *rendered) {
	t.Helper()
	logger := zap.NewNop()
	got := &rendered{}
	h := login.NewHandler(a, testutil.SessionManager(t), nil, uierrors.NewErrorLogger(logger), "/admin", false, logger)
	h.Render = func(w http.ResponseWriter, r *http.Request, name string, data any) {
		got.name, got.data = name, data
	}
	return h, got
}

func post(form url.Values) *http.Request {
	req := httptest.NewRequest("POST", "/login", strings.NewReader(form.Encode()))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	return req
}

func TestServeLogin_RendersForm(t *testing.T) {
	h, got := newTestHandler(t, fakeAuth{users: people})

	rec := httptest.NewRecorder()
	h.ServeLogin(rec, httptest.NewRequest("GET", "/login?error=no_account", nil))

	if got.name != "login" {
		t.Fatalf("template = %q", got.name)
	}
}

func TestServeLogin_SignedInRedirects(t *testing.T) {
	h, _ := newTestHandler(t, fakeAuth{users: people})

	req := auth.WithTestUser(httptest.NewRequest("GET", "/login", nil), people["nurse@example.org"])
	rec := httptest.NewRecorder()
	h.ServeLogin(rec, req)

	if rec.Header().Get("Location") != "/select-division" {
		t.Errorf("Location = %q", rec.Header().Get("Location"))
	}
}

func TestHandleLoginPost_StaffStartsWizard(t *testing.T) {
	h, _ := newTestHandler(t, fakeAuth{users: people})

	// A selection left over from an earlier login must not survive.
	cookies := testutil.SessionCookies(t, h.SessionMgr, func(s *sessions.Session) {
		selection.SetDivision(s, selection.Option{ID: "9", Name: "Old"})
		selection.SetHospital(s, selection.Option{ID: "9", Name: "Old"})
	})
	req := testutil.WithCookies(post(url.Values{"email": {" Nurse@Example.org "}, "password": {"pw"}}), cookies)
	rec := httptest.NewRecorder()
	h.HandleLoginPost(rec, req)

	if rec.Code != http.StatusSeeOther || rec.Header().Get("Location") != "/select-division" {
		t.Fatalf("got %d %q", rec.Code, rec.Header().Get("Location"))
	}
	sess := testutil.ReadSession(t, h.SessionMgr, rec)
	if sess.Values["user_id"] != "u1" {
		t.Errorf("user_id = %v", sess.Values["user_id"])
	}
	if sel := selection.Load(sess); sel != (selection.Selection{}) {
		t.Errorf("selection survived login: %+v", sel)
	}
}

func TestHandleLoginPost_AdminBypassesWizard(t *testing.T) {
	h, _ := newTestHandler(t, fakeAuth{users: people})

	rec := httptest.NewRecorder()
	h.HandleLoginPost(rec, post(url.Values{"email": {"admin@example.org"}, "password": {"pw"}}))

	if rec.Header().Get("Location") != "/admin" {
		t.Errorf("Location = %q, want /admin", rec.Header().Get("Location"))
	}
}

func TestHandleLoginPost_Failures(t *testing.T) {
	cases := []struct {
		name string
		a    fakeAuth
		form url.Values
	}{
		{"blank", fakeAuth{users: people}, url.Values{"email": {""}, "password": {""}}},
		{"wrong password", fakeAuth{users: people}, url.Values{"email": {"nurse@example.org"}, "password": {"no"}}},
		{"disabled", fakeAuth{err: identity.ErrDisabled}, url.Values{"email": {"nurse@example.org"}, "password": {"pw"}}},
		{"provider down", fakeAuth{err: errors.New("timeout")}, url.Values{"email": {"nurse@example.org"}, "password": {"pw"}}},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			h, got := newTestHandler(t, tc.a)
			rec := httptest.NewRecorder()
			h.HandleLoginPost(rec, post(tc.form))

			if rec.Code == http.StatusSeeOther {
				t.Fatalf("failed login redirected to %q", rec.Header().Get("Location"))
			}
			if got.name != "login" {
				t.Fatalf("template = %q", got.name)
			}
			if rec.Header().Get("Set-Cookie") != "" {
				t.Error("failed login must not set a session")
			}
		})
	}
}

func TestHandleLoginPost_RateLimitedPerAccount(t *testing.T) {
	h, _ := newTestHandler(t, fakeAuth{users: people})
	form := url.Values{"email": {"nurse@example.org"}, "password": {"no"}}

	for i := 0; i < 5; i++ {
		h.HandleLoginPost(httptest.NewRecorder(), post(form))
	}

	rec := httptest.NewRecorder()
	h.HandleLoginPost(rec, post(url.Values{"email": {"nurse@example.org"}, "password": {"pw"}}))

	if rec.Code != http.StatusTooManyRequests {
		t.Errorf("status = %d, want %d", rec.Code, http.StatusTooManyRequests)
	}
}
