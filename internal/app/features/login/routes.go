package login

import "github.com/go-chi/chi/v5"

// Routes mounts the sign-in routes (typically under "/login").
func Routes(h *Handler) chi.Router {
	r := chi.NewRouter()
	r.Get("/", h.ServeForm)
	r.Post("/", h.HandleSubmit)
	r.Get("/google", h.ServeGoogle)
	r.Get("/google/callback", h.HandleGoogleCallback)
	return r
}
