// Package payments lists captured charges and shows one payment with a
// link into the refund flow.
package payments

import (
	"context"
	"net/http"

	"github.com/dalemusser/waffle/pantry/templates"
	"github.com/go-chi/chi/v5"
	"github.com/merchdesk/merchdesk/internal/app/backend"
	uierrors "github.com/merchdesk/merchdesk/internal/app/features/errors"
	"github.com/merchdesk/merchdesk/internal/app/system/auditlog"
	"github.com/merchdesk/merchdesk/internal/app/system/auth"
	"github.com/merchdesk/merchdesk/internal/app/system/authz"
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

type detailData struct {
	viewdata.BaseVM
	Payment   models.Payment
	Amount    string
	CanRefund bool
}

func columns() []datatable.Column[models.Payment] {
	return []datatable.Column[models.Payment]{
		{Key: "reference", Header: "Reference", Sortable: true, Primary: true},
		{Key: "orderId", Header: "Order", HideOnMobile: true},
		{Key: "method", Header: "Method"},
		{Key: "status", Header: "Status", Class: "status"},
		{Key: "amount", Header: "Amount", Sortable: true, Class: "num", Secondary: true,
			Render: func(p models.Payment) string { return money.FormatFloat(p.Amount, p.Currency) }},
		{Key: "createdAt", Header: "Date", Sortable: true,
			Render: func(p models.Payment) string { return p.CreatedAt.Format("Jan 2, 2006 15:04") }},
	}
}

// ServeList handles GET /payments.
func (h *Handler) ServeList(w http.ResponseWriter, r *http.Request) {
	if !gates.CanRead(w, r, "payments") {
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Long())
	defer cancel()

	state := liststate.FromQuery(r, "createdAt", liststate.Desc)
	state.SetFilter("status", r.URL.Query().Get("status"))

	page, err := backend.List[models.Payment](ctx, h.api(r), "/payments", backend.ListParams{
		Page:      state.Page,
		Limit:     pageSize,
		SortBy:    state.SortColumn,
		SortOrder: state.SortDirection,
		Search:    state.SearchTerm,
		Filters:   map[string]string{"status": state.Filter("status")},
	})
	if err != nil {
		h.ErrLog.LogBackendError(w, r, "fetch payments failed", err, "Payments are unavailable right now.", "/dashboard")
		return
	}

	items := liststate.FilterByDate(page.Items, state.DateFilter)
	items = liststate.Sort(items, state.SortColumn, state.SortDirection)
	table, err := datatable.Build(items, columns(), datatable.Options[models.Payment]{
		EmptyIcon:     "credit-card",
		EmptyMessage:  "No payments match your filters.",
		RowKey:        func(p models.Payment) string { return p.ID },
		SortColumn:    state.SortColumn,
		SortDirection: state.SortDirection,
	})
	if err != nil {
		h.ErrLog.LogServerError(w, r, "build payments table failed", err, "A server error occurred.", "/dashboard")
		return
	}

	pg := page.Pagination
	data := listData{
		BaseVM: viewdata.NewBaseVM(r, "Payments", "/dashboard"),
		Toolbar: viewdata.ToolbarVM{
			SearchTerm:        state.SearchTerm,
			SearchPlaceholder: "Search payments…",
			ShowDateFilter:    true,
			DateFilter:        state.DateFilter,
			Filters: []viewdata.Filter{{
				Name:     "status",
				Selected: state.Filter("status"),
				Options: []viewdata.FilterOption{
					{Value: "", Label: "All statuses"},
					{Value: "pending", Label: "Pending"},
					{Value: "succeeded", Label: "Succeeded"},
					{Value: "failed", Label: "Failed"},
				},
			}},
		},
		Table: table,
		Pager: liststate.PageInfo{
			Page: pg.Page, PageSize: pg.Limit, Total: pg.Total, TotalPages: pg.TotalPages,
			HasPrev: pg.Page > 1, HasNext: pg.Page < pg.TotalPages,
			PrevPage: pg.Page - 1, NextPage: pg.Page + 1,
		},
	}
	templates.Render(w, r, "payments_list", data)
}

// ServeView handles GET /payments/{id}.
func (h *Handler) ServeView(w http.ResponseWriter, r *http.Request) {
	if !gates.CanRead(w, r, "payments") {
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Medium())
	defer cancel()

	id := chi.URLParam(r, "id")
	payment, err := backend.Get[models.Payment](ctx, h.api(r), "/payments/"+id)
	if err != nil {
		h.ErrLog.LogBackendError(w, r, "fetch payment failed", err, "Payment not found.", "/payments")
		return
	}

	role, _, _ := authz.UserCtx(r)
	data := detailData{
		BaseVM:    viewdata.NewBaseVM(r, "Payment "+payment.Reference, "/payments"),
		Payment:   payment,
		Amount:    money.FormatFloat(payment.Amount, payment.Currency),
		CanRefund: payment.Status == "succeeded" && authz.CanCreate(role, "refunds"),
	}
	templates.Render(w, r, "payments_detail", data)
}
