package logout

import (
	"context"
	"net/http"

	sessionstore "github.com/merchdesk/merchdesk/internal/app/store/sessions"
	"github.com/merchdesk/merchdesk/internal/app/system/auditlog"
	"github.com/merchdesk/merchdesk/internal/app/system/auth"
	"github.com/merchdesk/merchdesk/internal/app/system/timeouts"
	"go.uber.org/zap"
)

type Handler struct {
	SessionMgr *auth.SessionManager
	Tokens     *auth.TokenCodec
	AuditLog   *auditlog.Logger
	Sessions   *sessionstore.Store
	Log        *zap.Logger
}

func NewHandler(sm *auth.SessionManager, tokens *auth.TokenCodec, audit *auditlog.Logger, sessStore *sessionstore.Store, logger *zap.Logger) *Handler {
	return &Handler{
		SessionMgr: sm,
		Tokens:     tokens,
		AuditLog:   audit,
		Sessions:   sessStore,
		Log:        logger,
	}
}

// HandleLogout clears the session and the backend token cookie, closes
// the sign-in session record, and sends the operator back to /login.
// POST /logout
func (h *Handler) HandleLogout(w http.ResponseWriter, r *http.Request) {
	u, signed := auth.CurrentUser(r)

	if err := h.SessionMgr.SignOut(w, r); err != nil {
		h.Log.Warn("session sign-out failed", zap.Error(err))
	}
	h.Tokens.Clear(w)

	if signed && u != nil {
		ctx, cancel := context.WithTimeout(context.Background(), timeouts.Short())
		defer cancel()
		if err := h.Sessions.Close(ctx, u.ID, sessionstore.EndLogout); err != nil {
			h.Log.Warn("close sign-in session failed", zap.Error(err))
		}
		h.AuditLog.Logout(ctx, r, u.ID, u.Name)
	}

	http.Redirect(w, r, "/login", http.StatusSeeOther)
}
