// internal/app/features/login/routes.go
package login

import "github.com/go-chi/chi/v5"

// Routes serves the password sign-in form. Google sign-in is mounted
// separately under /auth/google.
func Routes(h *Handler) chi.Router {
	r := chi.NewRouter()
	r.Get("/", h.ServeLogin)
	r.Post("/", h.HandleLoginPost)
	return r
}
