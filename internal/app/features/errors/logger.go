// internal/app/features/errors/logger.go
package errors

import (
	"net/http"

	"github.com/dalemusser/waffle/pantry/templates"
	"github.com/keatonhoyle/anesthesia-whiteboard/internal/app/system/viewdata"
	"go.uber.org/zap"
)

// ErrorLogger logs a request-level fault and renders a friendly page.
type ErrorLogger struct {
	Log    *zap.Logger
	Render RenderFunc
}

func NewErrorLogger(logger *zap.Logger) *ErrorLogger {
	return &ErrorLogger{Log: logger, Render: templates.Render}
}

// LogServerError logs err at Error and responds 500 with userMsg.
func (e *ErrorLogger) LogServerError(w http.ResponseWriter, r *http.Request, msg string, err error, userMsg, backURL string) {
	e.Log.Error(msg, zap.Error(err), zap.String("path", r.URL.Path), zap.String("method", r.Method))
	e.write(w, r, http.StatusInternalServerError, "Something went wrong", userMsg, backURL)
}

// LogBadRequest logs err at Warn and responds 400 with userMsg.
func (e *ErrorLogger) LogBadRequest(w http.ResponseWriter, r *http.Request, msg string, err error, userMsg, backURL string) {
	e.Log.Warn(msg, zap.Error(err), zap.String("path", r.URL.Path))
	e.write(w, r, http.StatusBadRequest, "Bad request", userMsg, backURL)
}

func (e *ErrorLogger) write(w http.ResponseWriter, r *http.Request, status int, title, userMsg, backURL string) {
	if backURL == "" {
		backURL = "/"
	}
	if r.Header.Get("HX-Request") == "true" {
		http.Error(w, userMsg, status)
		return
	}
	vm := viewdata.NewBaseVM(r, title, backURL)
	w.WriteHeader(status)
	e.Render(w, r, "error_page", pageData{BaseVM: vm, Message: userMsg})
}
