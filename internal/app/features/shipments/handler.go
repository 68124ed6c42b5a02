// Package shipments tracks parcels: list with status filter, status
// updates, and carrier tracking links.
package shipments

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
	"github.com/merchdesk/merchdesk/internal/app/system/timeouts"
	"github.com/merchdesk/merchdesk/internal/app/system/viewdata"
	"github.com/merchdesk/merchdesk/internal/domain/models"
	"go.uber.org/zap"
)

const pageSize = 25

// shipmentStatuses in display order.
var shipmentStatuses = []string{
	models.ShipmentPreparing,
	models.ShipmentShipped,
	models.ShipmentInTransit,
	models.ShipmentDelivered,
	models.ShipmentReturned,
}

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
	Items     []models.Shipment
	Statuses  []string
	CanUpdate bool
}

func columns() []datatable.Column[models.Shipment] {
	return []datatable.Column[models.Shipment]{
		{Key: "orderId", Header: "Order", Primary: true,
			Link: func(s models.Shipment) string { return "/orders/" + s.OrderID }},
		{Key: "carrier", Header: "Carrier"},
		{Key: "trackingCode", Header: "Tracking", HideOnMobile: true,
			Link: func(s models.Shipment) string { return s.TrackingURL }},
		{Key: "status", Header: "Status", Sortable: true, Class: "status", Secondary: true},
		{Key: "destination", Header: "Destination", HideOnMobile: true},
		{Key: "updatedAt", Header: "Updated", Sortable: true,
			Render: func(s models.Shipment) string { return s.UpdatedAt.Format("Jan 2, 2006 15:04") }},
	}
}

// ServeList handles GET /shipments.
func (h *Handler) ServeList(w http.ResponseWriter, r *http.Request) {
	if !gates.CanRead(w, r, "shipments") {
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Long())
	defer cancel()

	state := liststate.FromQuery(r, "updatedAt", liststate.Desc)
	state.SetFilter("status", r.URL.Query().Get("status"))

	page, err := backend.List[models.Shipment](ctx, h.api(r), "/shipments", backend.ListParams{
		Page:      state.Page,
		Limit:     pageSize,
		SortBy:    state.SortColumn,
		SortOrder: state.SortDirection,
		Search:    state.SearchTerm,
		Filters:   map[string]string{"status": state.Filter("status")},
	})
	if err != nil {
		h.ErrLog.LogBackendError(w, r, "fetch shipments failed", err, "Shipments are unavailable right now.", "/dashboard")
		return
	}

	items := liststate.Sort(page.Items, state.SortColumn, state.SortDirection)
	table, err := datatable.Build(items, columns(), datatable.Options[models.Shipment]{
		EmptyIcon:     "truck",
		EmptyMessage:  "No shipments match your filters.",
		RowKey:        func(s models.Shipment) string { return s.ID },
		SortColumn:    state.SortColumn,
		SortDirection: state.SortDirection,
	})
	if err != nil {
		h.ErrLog.LogServerError(w, r, "build shipments table failed", err, "A server error occurred.", "/dashboard")
		return
	}

	statusOptions := []viewdata.FilterOption{{Value: "", Label: "All statuses"}}
	for _, s := range shipmentStatuses {
		statusOptions = append(statusOptions, viewdata.FilterOption{Value: s, Label: s})
	}

	role, _, _ := authz.UserCtx(r)
	pg := page.Pagination
	data := listData{
		BaseVM: viewdata.NewBaseVM(r, "Shipments", "/dashboard"),
		Toolbar: viewdata.ToolbarVM{
			SearchTerm:        state.SearchTerm,
			SearchPlaceholder: "Search shipments…",
			Filters: []viewdata.Filter{{
				Name:     "status",
				Selected: state.Filter("status"),
				Options:  statusOptions,
			}},
		},
		Table: table,
		Pager: liststate.PageInfo{
			Page: pg.Page, PageSize: pg.Limit, Total: pg.Total, TotalPages: pg.TotalPages,
			HasPrev: pg.Page > 1, HasNext: pg.Page < pg.TotalPages,
			PrevPage: pg.Page - 1, NextPage: pg.Page + 1,
		},
		Items:     items,
		Statuses:  shipmentStatuses,
		CanUpdate: authz.CanUpdate(role, "shipments"),
	}
	templates.Render(w, r, "shipments_list", data)
}

// HandleStatusUpdate handles POST /shipments/{id}/status.
func (h *Handler) HandleStatusUpdate(w http.ResponseWriter, r *http.Request) {
	if !gates.CanUpdate(w, r, "shipments") {
		return
	}
	if err := r.ParseForm(); err != nil {
		h.ErrLog.LogBadRequest(w, r, "parse status form failed", err, "Invalid form data.", "/shipments")
		return
	}

	status := r.PostFormValue("status")
	if !validStatus(status) {
		h.ErrLog.LogBadRequest(w, r, "invalid shipment status", nil, "Invalid status.", "/shipments")
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Medium())
	defer cancel()

	id := chi.URLParam(r, "id")
	if _, err := backend.Update[models.Shipment](ctx, h.api(r), "/shipments/"+id+"/status", map[string]string{"status": status}); err != nil {
		h.ErrLog.LogBackendError(w, r, "update shipment status failed", err, "Status update failed.", "/shipments")
		return
	}

	if u, ok := auth.CurrentUser(r); ok {
		h.AuditLog.AdminAction(ctx, r, audit.EventShipmentUpdated, u.ID, u.Name, "shipments", id,
			map[string]string{"status": status})
	}
	http.Redirect(w, r, "/shipments", http.StatusSeeOther)
}

func validStatus(s string) bool {
	for _, want := range shipmentStatuses {
		if s == want {
			return true
		}
	}
	return false
}
