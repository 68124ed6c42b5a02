// Package products is the catalog screen: list with stock and category
// filters, create/edit/delete, CSV export, and bulk CSV upload with a
// per-row partial-success report.
package products

import (
	"net/http"

	"github.com/merchdesk/merchdesk/internal/app/backend"
	uierrors "github.com/merchdesk/merchdesk/internal/app/features/errors"
	"github.com/merchdesk/merchdesk/internal/app/system/auditlog"
	"github.com/merchdesk/merchdesk/internal/app/system/auth"
	"github.com/microcosm-cc/bluemonday"
	"go.uber.org/zap"
)

type Handler struct {
	Backend  *backend.Client
	Tokens   *auth.TokenCodec
	ErrLog   *uierrors.ErrorLogger
	AuditLog *auditlog.Logger
	Log      *zap.Logger

	sanitizer *bluemonday.Policy
}

// NewHandler constructs a products feature handler.
func NewHandler(api *backend.Client, tokens *auth.TokenCodec, errLog *uierrors.ErrorLogger, audit *auditlog.Logger, logger *zap.Logger) *Handler {
	return &Handler{
		Backend:   api,
		Tokens:    tokens,
		ErrLog:    errLog,
		AuditLog:  audit,
		Log:       logger,
		sanitizer: bluemonday.UGCPolicy(),
	}
}

func (h *Handler) api(r *http.Request) *backend.Caller {
	return h.Backend.WithToken(h.Tokens.Get(r))
}
