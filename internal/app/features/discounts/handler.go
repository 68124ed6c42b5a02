// Package discounts manages discount codes: list, create, deactivate,
// delete.
package discounts

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
	CanCreate bool
}

type formData struct {
	viewdata.BaseVM
	Input models.DiscountInput
	Error string
}

func describeValue(d models.Discount) string {
	if d.Type == "percent" {
		return strconv.FormatFloat(d.Value, 'f', -1, 64) + "%"
	}
	return money.FormatFloat(d.Value, d.Currency)
}

func columns() []datatable.Column[models.Discount] {
	return []datatable.Column[models.Discount]{
		{Key: "code", Header: "Code", Sortable: true, Primary: true},
		{Key: "value", Header: "Value", Sortable: true, Class: "num", Secondary: true, Render: describeValue},
		{Key: "usageCount", Header: "Used", Sortable: true, Class: "num",
			Render: func(d models.Discount) string {
				if d.UsageLimit > 0 {
					return strconv.Itoa(d.UsageCount) + "/" + strconv.Itoa(d.UsageLimit)
				}
				return strconv.Itoa(d.UsageCount)
			}},
		{Key: "active", Header: "Active", Class: "status",
			Render: func(d models.Discount) string {
				if d.Active {
					return "active"
				}
				return "inactive"
			}},
		{Key: "expiresAt", Header: "Expires", HideOnMobile: true,
			Render: func(d models.Discount) string {
				if d.ExpiresAt == nil {
					return "never"
				}
				return d.ExpiresAt.Format("Jan 2, 2006")
			}},
		{Key: "createdAt", Header: "Created", Sortable: true, HideOnMobile: true,
			Render: func(d models.Discount) string { return d.CreatedAt.Format("Jan 2, 2006") }},
	}
}

// ServeList handles GET /discounts.
func (h *Handler) ServeList(w http.ResponseWriter, r *http.Request) {
	if !gates.CanRead(w, r, "discounts") {
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Long())
	defer cancel()

	state := liststate.FromQuery(r, "createdAt", liststate.Desc)
	page, err := backend.List[models.Discount](ctx, h.api(r), "/discounts", backend.ListParams{
		Page:      state.Page,
		Limit:     pageSize,
		SortBy:    state.SortColumn,
		SortOrder: state.SortDirection,
		Search:    state.SearchTerm,
	})
	if err != nil {
		h.ErrLog.LogBackendError(w, r, "fetch discounts failed", err, "Discounts are unavailable right now.", "/dashboard")
		return
	}

	items := liststate.Sort(page.Items, state.SortColumn, state.SortDirection)
	table, err := datatable.Build(items, columns(), datatable.Options[models.Discount]{
		EmptyIcon:     "percent",
		EmptyMessage:  "No discount codes yet.",
		RowKey:        func(d models.Discount) string { return d.ID },
		SortColumn:    state.SortColumn,
		SortDirection: state.SortDirection,
	})
	if err != nil {
		h.ErrLog.LogServerError(w, r, "build discounts table failed", err, "A server error occurred.", "/dashboard")
		return
	}

	role, _, _ := authz.UserCtx(r)
	pg := page.Pagination
	data := listData{
		BaseVM: viewdata.NewBaseVM(r, "Discounts", "/dashboard"),
		Toolbar: viewdata.ToolbarVM{
			SearchTerm:        state.SearchTerm,
			SearchPlaceholder: "Search codes…",
		},
		Table: table,
		Pager: liststate.PageInfo{
			Page: pg.Page, PageSize: pg.Limit, Total: pg.Total, TotalPages: pg.TotalPages,
			HasPrev: pg.Page > 1, HasNext: pg.Page < pg.TotalPages,
			PrevPage: pg.Page - 1, NextPage: pg.Page + 1,
		},
		CanCreate: authz.CanCreate(role, "discounts"),
	}
	templates.Render(w, r, "discounts_list", data)
}

// ServeNew handles GET /discounts/new.
func (h *Handler) ServeNew(w http.ResponseWriter, r *http.Request) {
	if !gates.CanCreate(w, r, "discounts") {
		return
	}
	templates.Render(w, r, "discounts_form", formData{
		BaseVM: viewdata.NewBaseVM(r, "New discount", "/discounts"),
	})
}

// HandleCreate handles POST /discounts.
func (h *Handler) HandleCreate(w http.ResponseWriter, r *http.Request) {
	if !gates.CanCreate(w, r, "discounts") {
		return
	}
	if err := r.ParseForm(); err != nil {
		h.ErrLog.LogBadRequest(w, r, "parse discount form failed", err, "Invalid form data.", "/discounts")
		return
	}

	input := models.DiscountInput{
		Code:      strings.ToUpper(strings.TrimSpace(r.PostFormValue("code"))),
		Type:      r.PostFormValue("type"),
		ExpiresAt: strings.TrimSpace(r.PostFormValue("expiresAt")),
	}
	if limit, err := strconv.Atoi(r.PostFormValue("usageLimit")); err == nil && limit > 0 {
		input.UsageLimit = limit
	}

	renderErr := func(msg string) {
		w.WriteHeader(http.StatusBadRequest)
		templates.Render(w, r, "discounts_form", formData{
			BaseVM: viewdata.NewBaseVM(r, "New discount", "/discounts"),
			Input:  input,
			Error:  msg,
		})
	}

	if input.Code == "" {
		renderErr("Code is required.")
		return
	}
	if input.Type != "percent" && input.Type != "fixed" {
		renderErr("Type must be percent or fixed.")
		return
	}
	value, err := strconv.ParseFloat(r.PostFormValue("value"), 64)
	if err != nil || value <= 0 || (input.Type == "percent" && value > 100) {
		renderErr("Value must be positive (and at most 100 for percent).")
		return
	}
	input.Value = value

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Medium())
	defer cancel()

	created, err := backend.Create[models.Discount](ctx, h.api(r), "/discounts", input)
	if err != nil {
		h.ErrLog.LogBackendError(w, r, "create discount failed", err, "Creating the discount failed.", "/discounts/new")
		return
	}

	if u, ok := auth.CurrentUser(r); ok {
		h.AuditLog.AdminAction(ctx, r, audit.EventDiscountCreated, u.ID, u.Name, "discounts", created.ID,
			map[string]string{"code": created.Code})
	}
	http.Redirect(w, r, "/discounts", http.StatusSeeOther)
}

// HandleDeactivate handles POST /discounts/{id}/deactivate.
func (h *Handler) HandleDeactivate(w http.ResponseWriter, r *http.Request) {
	if !gates.CanUpdate(w, r, "discounts") {
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Medium())
	defer cancel()

	id := chi.URLParam(r, "id")
	if _, err := backend.Update[models.Discount](ctx, h.api(r), "/discounts/"+id, map[string]bool{"active": false}); err != nil {
		h.ErrLog.LogBackendError(w, r, "deactivate discount failed", err, "Deactivating the discount failed.", "/discounts")
		return
	}
	http.Redirect(w, r, "/discounts", http.StatusSeeOther)
}

// HandleDelete handles POST /discounts/{id}/delete.
func (h *Handler) HandleDelete(w http.ResponseWriter, r *http.Request) {
	if !gates.CanDelete(w, r, "discounts") {
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Medium())
	defer cancel()

	id := chi.URLParam(r, "id")
	if err := backend.Delete(ctx, h.api(r), "/discounts/"+id); err != nil {
		h.ErrLog.LogBackendError(w, r, "delete discount failed", err, "Deleting the discount failed.", "/discounts")
		return
	}

	if u, ok := auth.CurrentUser(r); ok {
		h.AuditLog.AdminAction(ctx, r, audit.EventDiscountDeleted, u.ID, u.Name, "discounts", id, nil)
	}
	http.Redirect(w, r, "/discounts", http.StatusSeeOther)
}
