// internal/app/features/payments/routes.go
package payments

import "github.com/go-chi/chi/v5"

// Routes wires the member-facing payment pages. Mount behind RequireSignedIn.
func Routes(h *Handler) chi.Router {
	r := chi.NewRouter()
	r.Get("/", h.ServeMine)
	r.Post("/", h.HandleSubmit)
	r.Post("/{id}/cancel", h.HandleCancel)
	return r
}

// AdminRoutes wires the verification queue. Mount behind RequireRole("admin").
func AdminRoutes(h *Handler) chi.Router {
	r := chi.NewRouter()
	r.Get("/", h.ServeAdminList)
	r.Post("/{id}/verify", h.HandleVerify)
	return r
}
