package home

import (
	"net/http"

	"github.com/merchdesk/merchdesk/internal/app/system/auth"
	"go.uber.org/zap"
)

// Handler serves the root path.
type Handler struct {
	Log *zap.Logger
}

func NewHandler(logger *zap.Logger) *Handler {
	return &Handler{Log: logger}
}

// ServeRoot handles GET /. The dashboard has no public landing page:
// signed-in operators go to /dashboard, everyone else to /login.
func (h *Handler) ServeRoot(w http.ResponseWriter, r *http.Request) {
	if _, ok := auth.CurrentUser(r); ok {
		http.Redirect(w, r, "/dashboard", http.StatusSeeOther)
		return
	}
	http.Redirect(w, r, "/login", http.StatusSeeOther)
}
