// internal/app/features/authgoogle/routes.go
package authgoogle

import "github.com/go-chi/chi/v5"

// Routes is mounted at /auth/google and is public.
//
//	GET /auth/google           redirect to Google's consent screen
//	GET /auth/google/callback  finish sign-in
func Routes(h *Handler) chi.Router {
	r := chi.NewRouter()
	r.Get("/", h.ServeLogin)
	r.Get("/callback", h.ServeCallback)
	return r
}
