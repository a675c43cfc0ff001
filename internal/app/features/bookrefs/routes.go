// internal/app/features/bookrefs/routes.go
package bookrefs

import (
	"github.com/go-chi/chi/v5"

	"github.com/clubworks/clubhub/internal/app/system/auth"
	"github.com/clubworks/clubhub/internal/app/system/authz"
)

// Routes mounts the book-reference routes.
// Typically: r.Mount("/book-references", bookrefs.Routes(handler))
func Routes(h *Handler) chi.Router {
	r := chi.NewRouter()

	r.Group(func(pr chi.Router) {
		pr.Use(auth.RequireAuth(h.Log))
		pr.Get("/", h.HandleList)
		pr.Get("/{type}/{bookNo}", h.HandleGet)
	})

	r.Group(func(pr chi.Router) {
		pr.Use(auth.RequireRole(h.Log, authz.LedgerRoles()...))
		pr.Post("/", h.HandleCreate)
		pr.Delete("/{type}/{bookNo}", h.HandleDelete)
	})

	return r
}
