package testutil

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gorilla/sessions"
	"github.com/keatonhoyle/anesthesia-whiteboard/internal/app/system/auth"
	"go.uber.org/zap"
)

// SessionManager returns a cookie session manager for handler tests.
func SessionManager(t *testing.T) *auth.SessionManager {
	t.Helper()
	sm, err := auth.NewSessionManager("test-session-key-for-testing-only", "test-session", "", time.Hour, false, zap.NewNop())
	if err != nil {
		t.Fatalf("NewSessionManager failed: %v", err)
	}
	return sm
}

// SessionCookies saves a session prepared by fill and returns the cookies a
// browser would send back.
func SessionCookies(t *testing.T, sm *auth.SessionManager, fill func(*sessions.Session)) []*http.Cookie {
	t.Helper()
	req := httptest.NewRequest("GET", "/", nil)
	rec := httptest.NewRecorder()
	sess, err := sm.GetSession(req)
	if err != nil {
		t.Fatalf("GetSession failed: %v", err)
	}
	if fill != nil {
		fill(sess)
	}
	if err := sess.Save(req, rec); err != nil {
		t.Fatalf("session save failed: %v", err)
	}
	return rec.Result().Cookies()
}

// WithCookies adds cookies to r and returns it.
func WithCookies(r *http.Request, cookies []*http.Cookie) *http.Request {
	for _, c := range cookies {
		r.AddCookie(c)
	}
	return r
}

// ReadSession decodes the session written to rec.
func ReadSession(t *testing.T, sm *auth.SessionManager, rec *httptest.ResponseRecorder) *sessions.Session {
	t.Helper()
	req := WithCookies(httptest.NewRequest("GET", "/", nil), rec.Result().Cookies())
	sess, err := sm.GetSession(req)
	if err != nil {
		t.Fatalf("GetSession failed: %v", err)
	}
	return sess
}
