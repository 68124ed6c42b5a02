package customers

import (
	"github.com/go-chi/chi/v5"
	"github.com/merchdesk/merchdesk/internal/app/system/auth"
)

func Routes(h *Handler, sm *auth.SessionManager) chi.Router {
	r := chi.NewRouter()
	r.Group(func(pr chi.Router) {
		pr.Use(sm.RequireSignedIn)
		pr.Get("/", h.ServeList)
		pr.Get("/{id}", h.ServeView)
		pr.Post("/{id}/status", h.HandleSetStatus)
	})
	return r
}
