// internal/app/features/wizard/routes.go
package wizard

import (
	"github.com/go-chi/chi/v5"
	"github.com/keatonhoyle/anesthesia-whiteboard/internal/app/system/auth"
)

// DivisionRoutes is mounted at /select-division.
func DivisionRoutes(h *Handler, sm *auth.SessionManager) chi.Router {
	r := chi.NewRouter()
	r.Use(sm.RequireSignedIn)
	r.Get("/", h.ServeDivision)
	r.Post("/", h.HandleDivision)
	return r
}

// HospitalRoutes is mounted at /select-hospital.
func HospitalRoutes(h *Handler, sm *auth.SessionManager) chi.Router {
	r := chi.NewRouter()
	r.Use(sm.RequireSignedIn)
	r.Get("/", h.ServeHospital)
	r.Post("/", h.HandleHospital)
	return r
}
