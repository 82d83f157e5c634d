// internal/app/features/whiteboard/routes.go
package whiteboard

import (
	"github.com/go-chi/chi/v5"
	"github.com/keatonhoyle/anesthesia-whiteboard/internal/app/system/auth"
)

func Routes(h *Handler, sm *auth.SessionManager) chi.Router {
	r := chi.NewRouter()
	r.Use(sm.RequireSignedIn)
	r.Get("/", h.ServeBoard)
	r.Get("/add", h.ServeAdd)
	r.Post("/add", h.HandleAdd)
	r.Get("/edit/{room}", h.ServeEdit)
	r.Post("/edit/{room}", h.HandleEdit)
	return r
}
