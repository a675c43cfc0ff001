// internal/app/features/authgoogle/routes.go
package authgoogle

import "github.com/go-chi/chi/v5"

// Routes mounts the Google-federated auth routes.
// Typically: r.Mount("/auth/google", authgoogle.Routes(handler))
func Routes(h *Handler) chi.Router {
	r := chi.NewRouter()
	r.Post("/login-federated", h.HandleLoginFederated)
	r.Post("/register-federated", h.HandleRegisterFederated)
	return r
}
