// Package customers lists registered buyers and lets managers disable
// or re-enable an account.
package customers

import (
	"context"
	"net/http"

	"github.com/dalemusser/waffle/pantry/templates"
	"github.com/go-chi/chi/v5"
	"github.com/merchdesk/merchdesk/internal/app/backend"
	uierrors "github.com/merchdesk/merchdesk/internal/app/features/errors"
	"github.com/merchdesk/merchdesk/internal/app/store/audit"
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
	Customer  models.Customer
	Spent     string
	CanUpdate bool
}

func columns() []datatable.Column[models.Customer] {
	return []datatable.Column[models.Customer]{
		{Key: "name", Header: "Customer", Sortable: true, Primary: true},
		{Key: "email", Header: "Email", Sortable: true},
		{Key: "status", Header: "Status", Class: "status"},
		{Key: "orderCount", Header: "Orders", Sortable: true, Class: "num"},
		{Key: "totalSpent", Header: "Spent", Sortable: true, Class: "num", Secondary: true,
			Render: func(c models.Customer) string { return money.FormatFloat(c.TotalSpent, c.Currency) }},
		{Key: "createdAt", Header: "Joined", Sortable: true, HideOnMobile: true,
			Render: func(c models.Customer) string { return c.CreatedAt.Format("Jan 2, 2006") }},
	}
}

// ServeList handles GET /customers.
func (h *Handler) ServeList(w http.ResponseWriter, r *http.Request) {
	if !gates.CanRead(w, r, "customers") {
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Long())
	defer cancel()

	state := liststate.FromQuery(r, "name", liststate.Asc)
	state.SetFilter("status", r.URL.Query().Get("status"))

	page, err := backend.List[models.Customer](ctx, h.api(r), "/customers", backend.ListParams{
		Page:      state.Page,
		Limit:     pageSize,
		SortBy:    state.SortColumn,
		SortOrder: state.SortDirection,
		Search:    state.SearchTerm,
		Filters:   map[string]string{"status": state.Filter("status")},
	})
	if err != nil {
		h.ErrLog.LogBackendError(w, r, "fetch customers failed", err, "Customers are unavailable right now.", "/dashboard")
		return
	}

	items := liststate.Sort(page.Items, state.SortColumn, state.SortDirection)
	table, err := datatable.Build(items, columns(), datatable.Options[models.Customer]{
		EmptyIcon:     "users",
		EmptyMessage:  "No customers match your filters.",
		RowKey:        func(c models.Customer) string { return c.ID },
		SortColumn:    state.SortColumn,
		SortDirection: state.SortDirection,
	})
	if err != nil {
		h.ErrLog.LogServerError(w, r, "build customers table failed", err, "A server error occurred.", "/dashboard")
		return
	}

	pg := page.Pagination
	data := listData{
		BaseVM: viewdata.NewBaseVM(r, "Customers", "/dashboard"),
		Toolbar: viewdata.ToolbarVM{
			SearchTerm:        state.SearchTerm,
			SearchPlaceholder: "Search customers…",
			Filters: []viewdata.Filter{{
				Name:     "status",
				Selected: state.Filter("status"),
				Options: []viewdata.FilterOption{
					{Value: "", Label: "All statuses"},
					{Value: "active", Label: "Active"},
					{Value: "disabled", Label: "Disabled"},
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
	templates.Render(w, r, "customers_list", data)
}

// ServeView handles GET /customers/{id}.
func (h *Handler) ServeView(w http.ResponseWriter, r *http.Request) {
	if !gates.CanRead(w, r, "customers") {
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Medium())
	defer cancel()

	id := chi.URLParam(r, "id")
	customer, err := backend.Get[models.Customer](ctx, h.api(r), "/customers/"+id)
	if err != nil {
		h.ErrLog.LogBackendError(w, r, "fetch customer failed", err, "Customer not found.", "/customers")
		return
	}

	role, _, _ := authz.UserCtx(r)
	data := detailData{
		BaseVM:    viewdata.NewBaseVM(r, customer.Name, "/customers"),
		Customer:  customer,
		Spent:     money.FormatFloat(customer.TotalSpent, customer.Currency),
		CanUpdate: authz.CanUpdate(role, "customers"),
	}
	templates.Render(w, r, "customers_detail", data)
}

// HandleSetStatus handles POST /customers/{id}/status with
// status=active|disabled.
func (h *Handler) HandleSetStatus(w http.ResponseWriter, r *http.Request) {
	if !gates.CanUpdate(w, r, "customers") {
		return
	}
	if err := r.ParseForm(); err != nil {
		h.ErrLog.LogBadRequest(w, r, "parse status form failed", err, "Invalid form data.", "/customers")
		return
	}

	status := r.PostFormValue("status")
	if status != "active" && status != "disabled" {
		h.ErrLog.LogBadRequest(w, r, "invalid customer status", nil, "Invalid status.", "/customers")
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Medium())
	defer cancel()

	id := chi.URLParam(r, "id")
	if _, err := backend.Update[models.Customer](ctx, h.api(r), "/customers/"+id+"/status", map[string]string{"status": status}); err != nil {
		h.ErrLog.LogBackendError(w, r, "update customer status failed", err, "Updating the customer failed.", "/customers/"+id)
		return
	}

	event := audit.EventCustomerDisabled
	if status == "active" {
		event = audit.EventCustomerEnabled
	}
	if u, ok := auth.CurrentUser(r); ok {
		h.AuditLog.AdminAction(ctx, r, event, u.ID, u.Name, "customers", id, nil)
	}
	http.Redirect(w, r, "/customers/"+id, http.StatusSeeOther)
}
