// Package settings edits the store profile and the shipping fee table.
package settings

import (
	"context"
	"net/http"
	"strconv"
	"strings"

	"github.com/dalemusser/waffle/pantry/templates"
	"github.com/go-chi/chi/v5"
	"github.com/merchdesk/merchdesk/internal/app/backend"
	uierrors "github.com/merchdesk/merchdesk/internal/app/features/errors"
	"github.com/merchdesk/merchdesk/internal/app/store/audit"
	"github.com/merchdesk/merchdesk/internal/app/system/auditlog"
	"github.com/merchdesk/merchdesk/internal/app/system/auth"
	"github.com/merchdesk/merchdesk/internal/app/system/authz"
	"github.com/merchdesk/merchdesk/internal/app/system/gates"
	"github.com/merchdesk/merchdesk/internal/app/system/money"
	"github.com/merchdesk/merchdesk/internal/app/system/timeouts"
	"github.com/merchdesk/merchdesk/internal/app/system/viewdata"
	"github.com/merchdesk/merchdesk/internal/domain/models"
	"github.com/microcosm-cc/bluemonday"
	"go.uber.org/zap"
)

type Handler struct {
	Backend  *backend.Client
	Tokens   *auth.TokenCodec
	Fees     FeeSource
	ErrLog   *uierrors.ErrorLogger
	AuditLog *auditlog.Logger
	Log      *zap.Logger

	sanitizer *bluemonday.Policy
}

func NewHandler(api *backend.Client, tokens *auth.TokenCodec, fees FeeSource, errLog *uierrors.ErrorLogger, auditLog *auditlog.Logger, logger *zap.Logger) *Handler {
	return &Handler{
		Backend:   api,
		Tokens:    tokens,
		Fees:      fees,
		ErrLog:    errLog,
		AuditLog:  auditLog,
		Log:       logger,
		sanitizer: bluemonday.UGCPolicy(),
	}
}

func (h *Handler) api(r *http.Request) *backend.Caller {
	return h.Backend.WithToken(h.Tokens.Get(r))
}

type feeVM struct {
	ID      string
	Region  string
	Carrier string
	Min     string
	Fee     string
}

type viewData struct {
	viewdata.BaseVM
	Settings models.StoreSettings
	Fees     []feeVM
	CanEdit  bool
	Error    string
	Saved    bool
}

func (h *Handler) buildView(ctx context.Context, r *http.Request, errMsg string, saved bool) (viewData, error) {
	data := viewData{
		BaseVM: viewdata.NewBaseVM(r, "Settings", "/dashboard"),
		Error:  errMsg,
		Saved:  saved,
	}
	if role, _, ok := authz.UserCtx(r); ok {
		data.CanEdit = authz.CanUpdate(role, "settings")
	}

	settings, err := backend.Get[models.StoreSettings](ctx, h.api(r), "/settings/store")
	if err != nil {
		return data, err
	}
	data.Settings = settings

	fees, err := h.Fees.List(ctx, h.api(r))
	if err != nil {
		return data, err
	}
	for _, fee := range fees {
		data.Fees = append(data.Fees, feeVM{
			ID:      fee.ID,
			Region:  fee.Region,
			Carrier: fee.Carrier,
			Min:     money.FormatFloat(fee.MinTotal, fee.Currency),
			Fee:     money.FormatFloat(fee.Fee, fee.Currency),
		})
	}
	return data, nil
}

// ServeView handles GET /settings.
func (h *Handler) ServeView(w http.ResponseWriter, r *http.Request) {
	if !gates.CanRead(w, r, "settings") {
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Medium())
	defer cancel()

	saved := r.URL.Query().Get("saved") == "1"
	data, err := h.buildView(ctx, r, "", saved)
	if err != nil {
		h.ErrLog.LogBackendError(w, r, "fetch settings failed", err, "Settings are unavailable right now.", "/dashboard")
		return
	}
	templates.Render(w, r, "settings_view", data)
}

// HandleUpdateStore handles POST /settings/store.
func (h *Handler) HandleUpdateStore(w http.ResponseWriter, r *http.Request) {
	if !gates.CanUpdate(w, r, "settings") {
		return
	}
	if err := r.ParseForm(); err != nil {
		h.ErrLog.LogBadRequest(w, r, "parse settings form failed", err, "The form could not be read.", "/settings")
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Medium())
	defer cancel()

	input := models.StoreSettings{
		StoreName: strings.TrimSpace(r.PostFormValue("storeName")),
		Currency:  strings.ToUpper(strings.TrimSpace(r.PostFormValue("currency"))),
		// Footer HTML is rendered on the storefront; strip anything the
		// UGC policy disallows before it leaves the dashboard.
		FooterHTML: h.sanitizer.Sanitize(r.PostFormValue("footerHtml")),
	}
	if input.StoreName == "" {
		h.renderFormError(w, r, "The store name is required.")
		return
	}
	if len(input.Currency) != 3 {
		h.renderFormError(w, r, "The currency must be a 3-letter code.")
		return
	}

	if _, err := backend.Update[models.StoreSettings](ctx, h.api(r), "/settings/store", input); err != nil {
		h.ErrLog.LogBackendError(w, r, "update settings failed", err, "Saving settings failed.", "/settings")
		return
	}

	if u, ok := auth.CurrentUser(r); ok {
		h.AuditLog.AdminAction(ctx, r, audit.EventSettingsUpdated, u.ID, u.Name, "settings", "store",
			map[string]string{"storeName": input.StoreName})
	}
	http.Redirect(w, r, "/settings?saved=1", http.StatusSeeOther)
}

// HandleAddFee handles POST /settings/fees.
func (h *Handler) HandleAddFee(w http.ResponseWriter, r *http.Request) {
	if !gates.CanUpdate(w, r, "settings") {
		return
	}
	if err := r.ParseForm(); err != nil {
		h.ErrLog.LogBadRequest(w, r, "parse fee form failed", err, "The form could not be read.", "/settings")
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Medium())
	defer cancel()

	fee := models.ShippingFee{
		Region:   strings.TrimSpace(r.PostFormValue("region")),
		Carrier:  strings.TrimSpace(r.PostFormValue("carrier")),
		Currency: strings.ToUpper(strings.TrimSpace(r.PostFormValue("currency"))),
	}
	minTotal, err1 := strconv.ParseFloat(r.PostFormValue("minTotal"), 64)
	amount, err2 := strconv.ParseFloat(r.PostFormValue("fee"), 64)
	switch {
	case fee.Region == "":
		h.renderFormError(w, r, "The region is required.")
		return
	case err1 != nil || minTotal < 0:
		h.renderFormError(w, r, "The minimum order total must be a non-negative number.")
		return
	case err2 != nil || amount < 0:
		h.renderFormError(w, r, "The fee must be a non-negative number.")
		return
	case len(fee.Currency) != 3:
		h.renderFormError(w, r, "The currency must be a 3-letter code.")
		return
	}
	fee.MinTotal = minTotal
	fee.Fee = amount

	created, err := h.Fees.Add(ctx, h.api(r), fee)
	if err != nil {
		h.ErrLog.LogBackendError(w, r, "add shipping fee failed", err, "Adding the fee failed.", "/settings")
		return
	}

	if u, ok := auth.CurrentUser(r); ok {
		h.AuditLog.AdminAction(ctx, r, audit.EventSettingsUpdated, u.ID, u.Name, "settings", created.ID,
			map[string]string{"change": "shipping fee added", "region": created.Region})
	}
	http.Redirect(w, r, "/settings", http.StatusSeeOther)
}

// HandleRemoveFee handles POST /settings/fees/{id}/delete.
func (h *Handler) HandleRemoveFee(w http.ResponseWriter, r *http.Request) {
	if !gates.CanUpdate(w, r, "settings") {
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Medium())
	defer cancel()

	id := chi.URLParam(r, "id")
	if err := h.Fees.Remove(ctx, h.api(r), id); err != nil {
		h.ErrLog.LogBackendError(w, r, "remove shipping fee failed", err, "Removing the fee failed.", "/settings")
		return
	}

	if u, ok := auth.CurrentUser(r); ok {
		h.AuditLog.AdminAction(ctx, r, audit.EventSettingsUpdated, u.ID, u.Name, "settings", id,
			map[string]string{"change": "shipping fee removed"})
	}
	http.Redirect(w, r, "/settings", http.StatusSeeOther)
}

func (h *Handler) renderFormError(w http.ResponseWriter, r *http.Request, msg string) {
	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Medium())
	defer cancel()

	data, err := h.buildView(ctx, r, msg, false)
	if err != nil {
		h.ErrLog.LogBackendError(w, r, "fetch settings failed", err, "Settings are unavailable right now.", "/dashboard")
		return
	}
	w.WriteHeader(http.StatusBadRequest)
	templates.Render(w, r, "settings_view", data)
}
