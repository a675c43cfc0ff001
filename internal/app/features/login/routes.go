// internal/app/features/login/routes.go
package login

import (
	"github.com/go-chi/chi/v5"

	"github.com/clubworks/clubhub/internal/app/system/auth"
)

// Routes mounts the password-login routes.
// Typically: r.Mount("/auth", login.Routes(handler)) alongside the
// Google and password-reset features.
func Routes(h *Handler) chi.Router {
	r := chi.NewRouter()
	r.Post("/login", h.HandleLogin)

	r.Group(func(pr chi.Router) {
		pr.Use(auth.RequireAuth(h.Log))
		pr.Get("/me", h.HandleMe)
	})
	return r
}
