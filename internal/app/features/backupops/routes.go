// internal/app/features/backupops/routes.go
package backupops

import (
	"github.com/go-chi/chi/v5"

	"github.com/clubworks/clubhub/internal/app/system/auth"
	"github.com/clubworks/clubhub/internal/app/system/authz"
)

// Routes mounts the backup routes.
// Typically: r.Mount("/backup", backupops.Routes(handler))
func Routes(h *Handler) chi.Router {
	r := chi.NewRouter()

	r.Group(func(pr chi.Router) {
		pr.Use(auth.RequireRole(h.Log, authz.AdminOnly()...))
		pr.Post("/now", h.HandleRunNow)
	})

	return r
}
