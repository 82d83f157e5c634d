package errors_test

import (
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	uierrors "github.com/keatonhoyle/anesthesia-whiteboard/internal/app/features/errors"
	"go.uber.org/zap"
)

type rendered struct {
	name string
	data any
}

func capture(dst *rendered) uierrors.RenderFunc {
	return func(w http.ResponseWriter, r *http.Request, name string, data any) {
		dst.name, dst.data = name, data
	}
}

func TestForbidden(t *testing.T) {
	var got rendered
	h := uierrors.NewHandler()
	h.Render = capture(&got)

	rec := httptest.NewRecorder()
	h.Forbidden(rec, httptest.NewRequest("GET", "/forbidden", nil))

	if rec.Code != http.StatusForbidden {
		t.Errorf("status = %d, want 403", rec.Code)
	}
	if got.name != "error_forbidden" {
		t.Errorf("template = %q", got.name)
	}
}

func TestErrorLogger(t *testing.T) {
	var got rendered
	el := uierrors.NewErrorLogger(zap.NewNop())
	el.Render = capture(&got)

	rec := httptest.NewRecorder()
	el.LogServerError(rec, httptest.NewRequest("POST", "/add", nil), "insert failed", errors.New("boom"), "Could not save.", "/")
	if rec.Code != http.StatusInternalServerError || got.name != "error_page" {
		t.Errorf("server error: status %d template %q", rec.Code, got.name)
	}

	rec = httptest.NewRecorder()
	req := httptest.NewRequest("POST", "/add", nil)
	req.Header.Set("HX-Request", "true")
	el.LogBadRequest(rec, req, "parse form failed", errors.New("bad"), "Invalid form data.", "")
	if rec.Code != http.StatusBadRequest {
		t.Errorf("htmx bad request status = %d", rec.Code)
	}
}
