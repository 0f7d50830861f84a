// internal/app/features/myprofile/routes.go
package myprofile

import "github.com/go-chi/chi/v5"

// Routes returns the signed-in profile management router. The caller
// mounts it behind RequireSignedIn.
func Routes(h *Handler) chi.Router {
	r := chi.NewRouter()

	r.Get("/", h.ServeMine)
	r.Get("/new", h.ServeNewForm)
	r.Post("/new", h.HandleCreate)
	r.Get("/edit", h.ServeEditForm)
	r.Post("/edit", h.HandleEdit)
	r.Post("/photos/remove", h.HandleRemovePhoto)
	r.Post("/photos/primary", h.HandleSetPrimaryPhoto)

	return r
}
