// internal/app/features/errors/errors.go
package errors

import (
	"net/http"

	"github.com/dalemusser/waffle/pantry/templates"
	"github.com/keatonhoyle/anesthesia-whiteboard/internal/app/system/viewdata"
)

// RenderFunc renders a named template. Tests swap it out.
type RenderFunc func(w http.ResponseWriter, r *http.Request, name string, data any)

// pageData is the view model for error pages.
type pageData struct {
	viewdata.BaseVM
	Message string
}

// Handler is the errors feature handler.
// No DB needed; it just renders templates.
type Handler struct {
	Render RenderFunc
}

func NewHandler() *Handler {
	return &Handler{Render: templates.Render}
}

// Forbidden renders a friendly "access denied" page.
// GET /forbidden
func (h *Handler) Forbidden(w http.ResponseWriter, r *http.Request) {
	w.WriteHeader(http.StatusForbidden)
	h.Render(w, r, "error_forbidden", pageData{
		BaseVM:  viewdata.NewBaseVM(r, "Access denied", "/"),
		Message: "You don't have permission to view this page.",
	})
}

// NotFound renders the shared error page with a 404.
func (h *Handler) NotFound(w http.ResponseWriter, r *http.Request) {
	w.WriteHeader(http.StatusNotFound)
	h.Render(w, r, "error_page", pageData{
		BaseVM:  viewdata.NewBaseVM(r, "Not found", "/"),
		Message: "That page does not exist.",
	})
}
