package settings

import (
	"github.com/go-chi/chi/v5"
	"github.com/merchdesk/merchdesk/internal/app/system/auth"
)

func Routes(h *Handler, sm *auth.SessionManager) chi.Router {
	r := chi.NewRouter()
	r.Group(func(pr chi.Router) {
		pr.Use(sm.RequireSignedIn)
		pr.Get("/", h.ServeView)
		pr.Post("/store", h.HandleUpdateStore)
		pr.Post("/fees", h.HandleAddFee)
		pr.Post("/fees/{id}/delete", h.HandleRemoveFee)
	})
	return r
}
