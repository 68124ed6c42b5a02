// Package transactions shows the payment ledger (charges, refunds,
// payouts, fees) with CSV export.
package transactions

import (
	"context"
	"net/http"

	"github.com/dalemusser/waffle/pantry/templates"
	"github.com/merchdesk/merchdesk/internal/app/backend"
	uierrors "github.com/merchdesk/merchdesk/internal/app/features/errors"
	"github.com/merchdesk/merchdesk/internal/app/system/auditlog"
	"github.com/merchdesk/merchdesk/internal/app/system/auth"
	"github.com/merchdesk/merchdesk/internal/app/system/datatable"
	"github.com/merchdesk/merchdesk/internal/app/system/export"
	"github.com/merchdesk/merchdesk/internal/app/system/gates"
	"github.com/merchdesk/merchdesk/internal/app/system/liststate"
	"github.com/merchdesk/merchdesk/internal/app/system/money"
	"github.com/merchdesk/merchdesk/internal/app/system/timeouts"
	"github.com/merchdesk/merchdesk/internal/app/system/viewdata"
	"github.com/merchdesk/merchdesk/internal/domain/models"
	"go.uber.org/zap"
)

const pageSize = 50

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

func columns() []datatable.Column[models.Transaction] {
	return []datatable.Column[models.Transaction]{
		{Key: "reference", Header: "Reference", Primary: true},
		{Key: "orderId", Header: "Order", HideOnMobile: true,
			Link: func(t models.Transaction) string {
				if t.OrderID == "" {
					return ""
				}
				return "/orders/" + t.OrderID
			}},
		{Key: "type", Header: "Type"},
		{Key: "status", Header: "Status", Class: "status"},
		{Key: "amount", Header: "Amount", Sortable: true, Class: "num", Secondary: true,
			Render: func(t models.Transaction) string { return money.FormatFloat(t.Amount, t.Currency) }},
		{Key: "createdAt", Header: "Date", Sortable: true,
			Render: func(t models.Transaction) string { return t.CreatedAt.Format("Jan 2, 2006 15:04") }},
	}
}

func (h *Handler) listState(r *http.Request) liststate.State {
	state := liststate.FromQuery(r, "createdAt", liststate.Desc)
	state.SetFilter("type", r.URL.Query().Get("type"))
	return state
}

// ServeList handles GET /transactions.
func (h *Handler) ServeList(w http.ResponseWriter, r *http.Request) {
	if !gates.CanRead(w, r, "transactions") {
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Long())
	defer cancel()

	state := h.listState(r)
	page, err := backend.List[models.Transaction](ctx, h.api(r), "/transactions", backend.ListParams{
		Page:      state.Page,
		Limit:     pageSize,
		SortBy:    state.SortColumn,
		SortOrder: state.SortDirection,
		Search:    state.SearchTerm,
		Filters:   map[string]string{"type": state.Filter("type")},
	})
	if err != nil {
		h.ErrLog.LogBackendError(w, r, "fetch transactions failed", err, "Transactions are unavailable right now.", "/dashboard")
		return
	}

	items := liststate.FilterByDate(page.Items, state.DateFilter)
	items = liststate.Sort(items, state.SortColumn, state.SortDirection)
	table, err := datatable.Build(items, columns(), datatable.Options[models.Transaction]{
		EmptyIcon:     "list",
		EmptyMessage:  "No transactions match your filters.",
		RowKey:        func(t models.Transaction) string { return t.ID },
		SortColumn:    state.SortColumn,
		SortDirection: state.SortDirection,
	})
	if err != nil {
		h.ErrLog.LogServerError(w, r, "build transactions table failed", err, "A server error occurred.", "/dashboard")
		return
	}

	query := ""
	if q := state.Query(); q != "" {
		query = "?" + q
	}
	pg := page.Pagination
	data := listData{
		BaseVM: viewdata.NewBaseVM(r, "Transactions", "/dashboard"),
		Toolbar: viewdata.ToolbarVM{
			SearchTerm:        state.SearchTerm,
			SearchPlaceholder: "Search transactions…",
			ShowDateFilter:    true,
			DateFilter:        state.DateFilter,
			Filters: []viewdata.Filter{{
				Name:     "type",
				Selected: state.Filter("type"),
				Options: []viewdata.FilterOption{
					{Value: "", Label: "All types"},
					{Value: "charge", Label: "Charges"},
					{Value: "refund", Label: "Refunds"},
					{Value: "payout", Label: "Payouts"},
					{Value: "fee", Label: "Fees"},
				},
			}},
			ExportBase: "/transactions",
			Query:      query,
		},
		Table: table,
		Pager: liststate.PageInfo{
			Page: pg.Page, PageSize: pg.Limit, Total: pg.Total, TotalPages: pg.TotalPages,
			HasPrev: pg.Page > 1, HasNext: pg.Page < pg.TotalPages,
			PrevPage: pg.Page - 1, NextPage: pg.Page + 1,
		},
	}
	templates.Render(w, r, "transactions_list", data)
}

// ServeExportCSV handles GET /transactions/export.csv.
func (h *Handler) ServeExportCSV(w http.ResponseWriter, r *http.Request) {
	h.serveExport(w, r, "csv")
}

// ServeExportJSON handles GET /transactions/export.json.
func (h *Handler) ServeExportJSON(w http.ResponseWriter, r *http.Request) {
	h.serveExport(w, r, "json")
}

func (h *Handler) serveExport(w http.ResponseWriter, r *http.Request, format string) {
	if !gates.CanRead(w, r, "transactions") {
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Batch())
	defer cancel()

	state := h.listState(r)
	var all []models.Transaction
	for page := 1; ; page++ {
		p, err := backend.List[models.Transaction](ctx, h.api(r), "/transactions", backend.ListParams{
			Page:      page,
			Limit:     100,
			SortBy:    state.SortColumn,
			SortOrder: state.SortDirection,
			Search:    state.SearchTerm,
			Filters:   map[string]string{"type": state.Filter("type")},
		})
		if err != nil {
			h.ErrLog.LogBackendError(w, r, "export transactions failed", err, "Export failed. Please try again.", "/transactions")
			return
		}
		all = append(all, p.Items...)
		if page >= p.Pagination.TotalPages || len(p.Items) == 0 {
			break
		}
	}
	all = liststate.FilterByDate(all, state.DateFilter)
	all = liststate.Sort(all, state.SortColumn, state.SortDirection)

	if format == "json" {
		if err := export.ServeJSON(w, "transactions", all, h.Log); err != nil {
			return
		}
	} else {
		cfg := export.Config[models.Transaction]{
			Filename: "transactions",
			Headers:  []string{"Reference", "Order", "Type", "Status", "Amount", "Date"},
			Row: func(t models.Transaction) []string {
				return []string{
					t.Reference,
					t.OrderID,
					t.Type,
					t.Status,
					money.FormatFloat(t.Amount, t.Currency),
					t.CreatedAt.Format("2006-01-02 15:04:05"),
				}
			},
		}
		if err := export.ServeCSV(w, cfg, all, h.Log); err != nil {
			return
		}
	}

	if u, ok := auth.CurrentUser(r); ok {
		h.AuditLog.Export(ctx, r, u.ID, u.Name, "transactions", format)
	}
}
