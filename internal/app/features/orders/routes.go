package orders

import (
	"github.com/go-chi/chi/v5"
	"github.com/merchdesk/merchdesk/internal/app/system/auth"
)

// Routes mounts the orders routes (typically under "/orders").
func Routes(h *Handler, sm *auth.SessionManager) chi.Router {
	r := chi.NewRouter()

	r.Group(func(pr chi.Router) {
		pr.Use(sm.RequireSignedIn)

		pr.Get("/", h.ServeList)
		pr.Get("/table", h.ServeTable)
		pr.Get("/export.csv", h.ServeExportCSV)
		pr.Get("/export.json", h.ServeExportJSON)

		pr.Get("/{id}", h.ServeView)
		pr.Post("/{id}/status", h.HandleStatusUpdate)
		pr.Post("/{id}/cancel", h.HandleCancel)
	})

	return r
}
