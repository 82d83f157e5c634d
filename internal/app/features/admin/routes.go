// internal/app/features/admin/routes.go
package admin

import (
	"github.com/go-chi/chi/v5"
	"github.com/keatonhoyle/anesthesia-whiteboard/internal/app/system/auth"
	"github.com/keatonhoyle/anesthesia-whiteboard/internal/domain/models"
)

// Routes mounts the admin surface. Only administrators may reach it.
func Routes(h *Handler, sm *auth.SessionManager) chi.Router {
	r := chi.NewRouter()
	r.Use(sm.RequireRole(models.RoleAdmin))
	r.Get("/", h.ServeOverview)
	return r
}
