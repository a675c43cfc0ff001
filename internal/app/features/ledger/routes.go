// internal/app/features/ledger/routes.go
package ledger

import (
	"github.com/go-chi/chi/v5"

	"github.com/clubworks/clubhub/internal/app/system/auth"
	"github.com/clubworks/clubhub/internal/app/system/authz"
)

// Routes mounts the ledger routes; all of them are for the treasury.
// Typically: r.Mount("/ledger", ledger.Routes(handler))
func Routes(h *Handler) chi.Router {
	r := chi.NewRouter()

	r.Group(func(pr chi.Router) {
		pr.Use(auth.RequireRole(h.Log, authz.LedgerRoles()...))
		pr.Post("/", h.HandleCreate)
		pr.Get("/", h.HandleList)
		pr.Get("/{transactionID}", h.HandleGet)
		pr.Put("/{transactionID}", h.HandleUpdate)
		pr.Delete("/{transactionID}", h.HandleDelete)
		pr.Get("/accounts/{accountID}/balance", h.HandleBalance)
	})

	return r
}
