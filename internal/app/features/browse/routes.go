// internal/app/features/browse/routes.go
package browse

import "github.com/go-chi/chi/v5"

// Routes returns the public browse router.
func Routes(h *Handler) chi.Router {
	r := chi.NewRouter()
	r.Get("/", h.ServeList)
	r.Get("/{id}", h.ServeDetail)
	return r
}
