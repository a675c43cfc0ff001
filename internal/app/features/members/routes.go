// internal/app/features/members/routes.go
package members

import (
	"github.com/go-chi/chi/v5"

	"github.com/clubworks/clubhub/internal/app/system/auth"
	"github.com/clubworks/clubhub/internal/app/system/authz"
)

// Routes mounts all member routes under the path where the caller mounts it.
// Typically: r.Mount("/members", members.Routes(handler))
func Routes(h *Handler) chi.Router {
	r := chi.NewRouter()

	// Any signed-in member can browse the directory.
	r.Group(func(pr chi.Router) {
		pr.Use(auth.RequireAuth(h.Log))
		pr.Get("/", h.HandleList)
		pr.Get("/{memberID}", h.HandleGet)
	})

	// Record changes are for office bearers.
	r.Group(func(pr chi.Router) {
		pr.Use(auth.RequireRole(h.Log, authz.ManageRoles()...))
		pr.Post("/", h.HandleCreate)
		pr.Put("/{memberID}", h.HandleUpdate)
	})

	// Deletion stays with the admin.
	r.Group(func(pr chi.Router) {
		pr.Use(auth.RequireRole(h.Log, authz.AdminOnly()...))
		pr.Delete("/{memberID}", h.HandleDelete)
	})

	return r
}
