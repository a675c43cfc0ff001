// internal/app/features/passwordreset/routes.go
package passwordreset

import "github.com/go-chi/chi/v5"

// Routes mounts the password-reset routes.
// Typically: r.Mount("/auth/password", passwordreset.Routes(handler))
func Routes(h *Handler) chi.Router {
	r := chi.NewRouter()
	r.Post("/otp", h.HandleRequestOTP)
	r.Post("/reset-password", h.HandleResetPassword)
	return r
}
