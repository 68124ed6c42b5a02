// Package refunds lists refunds and creates new ones against a
// payment.
package refunds

import (
	"context"
	"net/http"
	"strconv"
	"strings"

	"github.com/dalemusser/waffle/pantry/query"
	"github.com/dalemusser/waffle/pantry/templates"
	"github.com/go-chi/chi/v5"
	"github.com/merchdesk/merchdesk/internal/app/backend"
	uierrors "github.com/merchdesk/merchdesk/internal/app/features/errors"
	"github.com/merchdesk/merchdesk/internal/app/store/audit"
	"github.com/merchdesk/merchdesk/internal/app/system/auditlog"
	"github.com/merchdesk/merchdesk/internal/app/system/auth"
	"github.com/merchdesk/merchdesk/internal/app/system/datatable"
	"github.com/merchdesk/merchdesk/internal/app/system/gates"
	"github.com/merchdesk/merchdesk/internal/app/system/liststate"
	"github.com/merchdesk/merchdesk/internal/app/system/money"
	"github.com/merchdesk/merchdesk/internal/app/system/timeouts"
	"github.com/merchdesk/merchdesk/internal/app/system/viewdata"
	"github.com/merchdesk/merchdesk/internal/domain/models"
	"go.uber.org/zap"
)

const pageSize = 25

type Handler struct {
	Backend  *backend.Client
	Tokens   *auth.TokenCodec
	ErrLog   *uierrors.ErrorLogger
	AuditLog *auditlog.Logger
	Log      *zap.Logger
}

func NewHandler(api *backend.Client, tokens *auth.TokenCodec, errLog *uierrors.ErrorLogger, audit *auditlog.Logger, logger *zap.Logger) *Handler {
	return &Handler{Backend: api, Tokens: tokens, ErrLog: errLog, AuditLog: audit, Log: logger}
}

func (h *Handler) api(r *http.Request) *backend.Caller {
	return h.Backend.WithToken(h.Tokens.Get(r))
}

type listData struct {
	viewdata.BaseVM
	Toolbar viewdata.ToolbarVM
	Table   datatable.TableVM
	Pager   liststate.PageInfo
}

type formData struct {
	viewdata.BaseVM
	Payment models.Payment
	Amount  string
	Error   string
}

type detailData struct {
	viewdata.BaseVM
	Refund models.Refund
	Amount string
}

func columns() []datatable.Column[models.Refund] {
	return []datatable.Column[models.Refund]{
		{Key: "id", Header: "Refund", Primary: true},
		{Key: "orderId", Header: "Order", HideOnMobile: true},
		{Key: "status", Header: "Status", Class: "status"},
		{Key: "amount", Header: "Amount", Sortable: true, Class: "num", Secondary: true,
			Render: func(rf models.Refund) string { return money.FormatFloat(rf.Amount, rf.Currency) }},
		{Key: "reason", Header: "Reason", HideOnMobile: true},
		{Key: "createdAt", Header: "Date", Sortable: true,
			Render: func(rf models.Refund) string { return rf.CreatedAt.Format("Jan 2, 2006 15:04") }},
	}
}

// ServeList handles GET /refunds.
func (h *Handler) ServeList(w http.ResponseWriter, r *http.Request) {
	if !gates.CanRead(w, r, "refunds") {
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Long())
	defer cancel()

	state := liststate.FromQuery(r, "createdAt", liststate.Desc)
	page, err := backend.List[models.Refund](ctx, h.api(r), "/refunds", backend.ListParams{
		Page:      state.Page,
		Limit:     pageSize,
		SortBy:    state.SortColumn,
		SortOrder: state.SortDirection,
		Search:    state.SearchTerm,
	})
	if err != nil {
		h.ErrLog.LogBackendError(w, r, "fetch refunds failed", err, "Refunds are unavailable right now.", "/dashboard")
		return
	}

	items := liststate.FilterByDate(page.Items, state.DateFilter)
	items = liststate.Sort(items, state.SortColumn, state.SortDirection)
	table, err := datatable.Build(items, columns(), datatable.Options[models.Refund]{
		EmptyIcon:     "rotate-ccw",
		EmptyMessage:  "No refunds match your filters.",
		RowKey:        func(rf models.Refund) string { return rf.ID },
		SortColumn:    state.SortColumn,
		SortDirection: state.SortDirection,
	})
	if err != nil {
		h.ErrLog.LogServerError(w, r, "build refunds table failed", err, "A server error occurred.", "/dashboard")
		return
	}

	pg := page.Pagination
	data := listData{
		BaseVM: viewdata.NewBaseVM(r, "Refunds", "/dashboard"),
		Toolbar: viewdata.ToolbarVM{
			SearchTerm:        state.SearchTerm,
			SearchPlaceholder: "Search refunds…",
			ShowDateFilter:    true,
			DateFilter:        state.DateFilter,
		},
		Table: table,
		Pager: liststate.PageInfo{
			Page: pg.Page, PageSize: pg.Limit, Total: pg.Total, TotalPages: pg.TotalPages,
			HasPrev: pg.Page > 1, HasNext: pg.Page < pg.TotalPages,
			PrevPage: pg.Page - 1, NextPage: pg.Page + 1,
		},
	}
	templates.Render(w, r, "refunds_list", data)
}

// ServeNew handles GET /refunds/new?payment={id}.
func (h *Handler) ServeNew(w http.ResponseWriter, r *http.Request) {
	if !gates.CanCreate(w, r, "refunds") {
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Medium())
	defer cancel()

	paymentID := query.Get(r, "payment")
	payment, err := backend.Get[models.Payment](ctx, h.api(r), "/payments/"+paymentID)
	if err != nil {
		h.ErrLog.LogBackendError(w, r, "fetch payment failed", err, "Payment not found.", "/payments")
		return
	}

	data := formData{
		BaseVM:  viewdata.NewBaseVM(r, "New refund", "/payments"),
		Payment: payment,
		Amount:  money.FormatFloat(payment.Amount, payment.Currency),
	}
	templates.Render(w, r, "refunds_form", data)
}

// HandleCreate handles POST /refunds.
func (h *Handler) HandleCreate(w http.ResponseWriter, r *http.Request) {
	if !gates.CanCreate(w, r, "refunds") {
		return
	}
	if err := r.ParseForm(); err != nil {
		h.ErrLog.LogBadRequest(w, r, "parse refund form failed", err, "Invalid form data.", "/refunds")
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Medium())
	defer cancel()

	paymentID := r.PostFormValue("paymentId")
	payment, err := backend.Get[models.Payment](ctx, h.api(r), "/payments/"+paymentID)
	if err != nil {
		h.ErrLog.LogBackendError(w, r, "fetch payment failed", err, "Payment not found.", "/payments")
		return
	}

	renderErr := func(msg string) {
		w.WriteHeader(http.StatusBadRequest)
		templates.Render(w, r, "refunds_form", formData{
			BaseVM:  viewdata.NewBaseVM(r, "New refund", "/payments"),
			Payment: payment,
			Amount:  money.FormatFloat(payment.Amount, payment.Currency),
			Error:   msg,
		})
	}

	amount, err := strconv.ParseFloat(r.PostFormValue("amount"), 64)
	if err != nil || amount <= 0 || amount > payment.Amount {
		renderErr("Amount must be positive and no more than the payment total.")
		return
	}
	reason := strings.TrimSpace(r.PostFormValue("reason"))
	if reason == "" {
		renderErr("A reason is required.")
		return
	}

	input := models.RefundInput{PaymentID: paymentID, Amount: amount, Reason: reason}
	created, err := backend.Create[models.Refund](ctx, h.api(r), "/refunds", input)
	if err != nil {
		h.ErrLog.LogBackendError(w, r, "create refund failed", err, "Creating the refund failed.", "/payments/"+paymentID)
		return
	}

	if u, ok := auth.CurrentUser(r); ok {
		h.AuditLog.AdminAction(ctx, r, audit.EventRefundCreated, u.ID, u.Name, "refunds", created.ID,
			map[string]string{"payment": paymentID, "amount": strconv.FormatFloat(amount, 'f', 2, 64)})
	}
	http.Redirect(w, r, "/refunds/"+created.ID, http.StatusSeeOther)
}

// ServeView handles GET /refunds/{id}.
func (h *Handler) ServeView(w http.ResponseWriter, r *http.Request) {
	if !gates.CanRead(w, r, "refunds") {
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Medium())
	defer cancel()

	id := chi.URLParam(r, "id")
	refund, err := backend.Get[models.Refund](ctx, h.api(r), "/refunds/"+id)
	if err != nil {
		h.ErrLog.LogBackendError(w, r, "fetch refund failed", err, "Refund not found.", "/refunds")
		return
	}

	data := detailData{
		BaseVM: viewdata.NewBaseVM(r, "Refund", "/refunds"),
		Refund: refund,
		Amount: money.FormatFloat(refund.Amount, refund.Currency),
	}
	templates.Render(w, r, "refunds_detail", data)
}
