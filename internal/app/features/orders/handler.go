// Package orders is the order management screen: the stats row, the
// searchable/sortable order table with the date-filter bar, CSV/JSON
// export, the order detail view, and the status update and cancel
// actions.
package orders

import (
	"net/http"

	"github.com/merchdesk/merchdesk/internal/app/backend"
	uierrors "github.com/merchdesk/merchdesk/internal/app/features/errors"
	"github.com/merchdesk/merchdesk/internal/app/system/auditlog"
	"github.com/merchdesk/merchdesk/internal/app/system/auth"
	"go.uber.org/zap"
)

type Handler struct {
	Backend  *backend.Client
	Tokens   *auth.TokenCodec
	ErrLog   *uierrors.ErrorLogger
	AuditLog *auditlog.Logger
	Log      *zap.Logger
}

// NewHandler constructs an orders feature handler.
func NewHandler(api *backend.Client, tokens *auth.TokenCodec, errLog *uierrors.ErrorLogger, audit *auditlog.Logger, logger *zap.Logger) *Handler {
	return &Handler{
		Backend:  api,
		Tokens:   tokens,
		ErrLog:   errLog,
		AuditLog: audit,
		Log:      logger,
	}
}

// api binds the backend client to the request's bearer token.
func (h *Handler) api(r *http.Request) *backend.Caller {
	return h.Backend.WithToken(h.Tokens.Get(r))
}
