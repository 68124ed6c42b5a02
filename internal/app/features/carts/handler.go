// Package carts lists abandoned checkouts and sends recovery
// reminder emails through the backend.
package carts

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
	Toolbar   viewdata.ToolbarVM
	Table     datatable.TableVM
	Pager     liststate.PageInfo
	Items     []models.Cart
	CanRemind bool
}

func columns() []datatable.Column[models.Cart] {
	return []datatable.Column[models.Cart]{
		{Key: "customerEmail", Header: "Customer", Primary: true,
			Link: func(c models.Cart) string { return "/carts/" + c.ID }},
		{Key: "itemCount", Header: "Items", Sortable: true, Class: "num"},
		{Key: "totalAmount", Header: "Value", Sortable: true, Class: "num", Secondary: true,
			Render: func(c models.Cart) string { return money.FormatFloat(c.TotalAmount, c.Currency) }},
		{Key: "reminderSent", Header: "Reminder", Class: "status",
			Render: func(c models.Cart) string {
				if c.ReminderSent {
					return "sent"
				}
				return "not sent"
			}},
		{Key: "updatedAt", Header: "Abandoned", Sortable: true,
			Render: func(c models.Cart) string { return c.UpdatedAt.Format("Jan 2, 2006 15:04") }},
	}
}

// ServeList handles GET /carts.
func (h *Handler) ServeList(w http.ResponseWriter, r *http.Request) {
	if !gates.CanRead(w, r, "carts") {
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Long())
	defer cancel()

	state := liststate.FromQuery(r, "updatedAt", liststate.Desc)
	page, err := backend.List[models.Cart](ctx, h.api(r), "/carts/abandoned", backend.ListParams{
		Page:      state.Page,
		Limit:     pageSize,
		SortBy:    state.SortColumn,
		SortOrder: state.SortDirection,
		Search:    state.SearchTerm,
	})
	if err != nil {
		h.ErrLog.LogBackendError(w, r, "fetch abandoned carts failed", err, "Carts are unavailable right now.", "/dashboard")
		return
	}

	items := liststate.FilterByDate(page.Items, state.DateFilter)
	items = liststate.Sort(items, state.SortColumn, state.SortDirection)
	table, err := datatable.Build(items, columns(), datatable.Options[models.Cart]{
		EmptyIcon:     "shopping-cart",
		EmptyMessage:  "No abandoned carts. Nice.",
		RowKey:        func(c models.Cart) string { return c.ID },
		SortColumn:    state.SortColumn,
		SortDirection: state.SortDirection,
	})
	if err != nil {
		h.ErrLog.LogServerError(w, r, "build carts table failed", err, "A server error occurred.", "/dashboard")
		return
	}

	role, _, _ := authz.UserCtx(r)
	pg := page.Pagination
	data := listData{
		BaseVM: viewdata.NewBaseVM(r, "Abandoned carts", "/dashboard"),
		Toolbar: viewdata.ToolbarVM{
			SearchTerm:        state.SearchTerm,
			SearchPlaceholder: "Search by email…",
			ShowDateFilter:    true,
			DateFilter:        state.DateFilter,
		},
		Table: table,
		Pager: liststate.PageInfo{
			Page: pg.Page, PageSize: pg.Limit, Total: pg.Total, TotalPages: pg.TotalPages,
			HasPrev: pg.Page > 1, HasNext: pg.Page < pg.TotalPages,
			PrevPage: pg.Page - 1, NextPage: pg.Page + 1,
		},
		Items:     items,
		CanRemind: authz.CanUpdate(role, "carts"),
	}
	templates.Render(w, r, "carts_list", data)
}

type viewData struct {
	viewdata.BaseVM
	Cart      models.Cart
	Total     string
	Lines     []lineVM
	CanRemind bool
}

type lineVM struct {
	Name      string
	SKU       string
	Quantity  int
	UnitPrice string
	LineTotal string
}

// ServeView handles GET /carts/{id}.
func (h *Handler) ServeView(w http.ResponseWriter, r *http.Request) {
	if !gates.CanRead(w, r, "carts") {
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Medium())
	defer cancel()

	id := chi.URLParam(r, "id")
	cart, err := backend.Get[models.Cart](ctx, h.api(r), "/carts/"+id)
	if err != nil {
		h.ErrLog.LogBackendError(w, r, "fetch cart failed", err, "That cart could not be loaded.", "/carts")
		return
	}

	lines := make([]lineVM, 0, len(cart.Items))
	for _, it := range cart.Items {
		lines = append(lines, lineVM{
			Name:      it.ProductName,
			SKU:       it.SKU,
			Quantity:  it.Quantity,
			UnitPrice: money.FormatFloat(it.UnitPrice, cart.Currency),
			LineTotal: money.FormatFloat(it.LineTotal, cart.Currency),
		})
	}

	role, _, _ := authz.UserCtx(r)
	data := viewData{
		BaseVM:    viewdata.NewBaseVM(r, "Abandoned cart", "/carts"),
		Cart:      cart,
		Total:     money.FormatFloat(cart.TotalAmount, cart.Currency),
		Lines:     lines,
		CanRemind: authz.CanUpdate(role, "carts"),
	}
	templates.Render(w, r, "carts_view", data)
}

// HandleRemind handles POST /carts/{id}/remind: asks the backend to
// send the recovery email.
func (h *Handler) HandleRemind(w http.ResponseWriter, r *http.Request) {
	if !gates.CanUpdate(w, r, "carts") {
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Medium())
	defer cancel()

	id := chi.URLParam(r, "id")
	if _, err := backend.Create[models.Cart](ctx, h.api(r), "/carts/"+id+"/remind", nil); err != nil {
		h.ErrLog.LogBackendError(w, r, "send cart reminder failed", err, "Sending the reminder failed.", "/carts")
		return
	}

	if u, ok := auth.CurrentUser(r); ok {
		h.AuditLog.AdminAction(ctx, r, audit.EventCartReminderSent, u.ID, u.Name, "carts", id, nil)
	}
	http.Redirect(w, r, "/carts", http.StatusSeeOther)
}
