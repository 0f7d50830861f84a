// internal/app/features/moderation/routes.go
package moderation

import "github.com/go-chi/chi/v5"

// Routes returns the admin moderation router. The caller mounts it
// behind RequireRole("admin").
func Routes(h *Handler) chi.Router {
	r := chi.NewRouter()

	r.Get("/", h.ServeQueue)
	r.Get("/{id}", h.ServeReview)
	r.Post("/{id}/approve", h.HandleApprove)
	r.Post("/{id}/reject", h.HandleReject)
	r.Post("/{id}/publish", h.HandleTogglePublish)

	return r
}
