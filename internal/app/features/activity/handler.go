// Package activity shows the dashboard's own audit trail: sign-ins,
// admin actions, and exports recorded by the audit log.
package activity

import (
	"context"
	"net/http"
	"time"

	"github.com/dalemusser/waffle/pantry/templates"
	uierrors "github.com/merchdesk/merchdesk/internal/app/features/errors"
	"github.com/merchdesk/merchdesk/internal/app/store/audit"
	"github.com/merchdesk/merchdesk/internal/app/system/auditlog"
	"github.com/merchdesk/merchdesk/internal/app/system/auth"
	"github.com/merchdesk/merchdesk/internal/app/system/datatable"
	"github.com/merchdesk/merchdesk/internal/app/system/export"
	"github.com/merchdesk/merchdesk/internal/app/system/gates"
	"github.com/merchdesk/merchdesk/internal/app/system/liststate"
	"github.com/merchdesk/merchdesk/internal/app/system/timeouts"
	"github.com/merchdesk/merchdesk/internal/app/system/viewdata"
	"go.uber.org/zap"
)

const (
	pageSize    = 50
	exportLimit = 10000
)

type Handler struct {
	Store    *audit.Store
	ErrLog   *uierrors.ErrorLogger
	AuditLog *auditlog.Logger
	Log      *zap.Logger
}

func NewHandler(store *audit.Store, errLog *uierrors.ErrorLogger, auditLog *auditlog.Logger, logger *zap.Logger) *Handler {
	return &Handler{Store: store, ErrLog: errLog, AuditLog: auditLog, Log: logger}
}

type listData struct {
	viewdata.BaseVM
	Toolbar viewdata.ToolbarVM
	Table   datatable.TableVM
	Pager   liststate.PageInfo
}

func columns() []datatable.Column[audit.Event] {
	return []datatable.Column[audit.Event]{
		{Key: "timestamp", Header: "Time", Sortable: true, Primary: true,
			Render: func(e audit.Event) string { return e.Timestamp.Format("Jan 2, 2006 15:04:05") }},
		{Key: "category", Header: "Category",
			Render: func(e audit.Event) string { return e.Category }},
		{Key: "eventType", Header: "Event", Secondary: true,
			Render: func(e audit.Event) string { return e.EventType }},
		{Key: "actor", Header: "Actor",
			Render: func(e audit.Event) string { return e.ActorName }},
		{Key: "resource", Header: "Resource", HideOnMobile: true,
			Render: func(e audit.Event) string {
				if e.ResourceID == "" {
					return e.Resource
				}
				return e.Resource + " " + e.ResourceID
			}},
		{Key: "result", Header: "Result", Class: "status", HideOnMobile: true,
			Render: func(e audit.Event) string {
				if e.Success {
					return "ok"
				}
				return "failed: " + e.FailureReason
			}},
	}
}

// dateRange translates a date-filter bucket into the query window the
// store filters on. The zero window means no restriction.
func dateRange(value string, now time.Time) (lo, hi *time.Time) {
	midnight := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, now.Location())
	switch value {
	case liststate.DateToday:
		a, b := midnight, midnight.AddDate(0, 0, 1)
		return &a, &b
	case liststate.DateYest:
		a, b := midnight.AddDate(0, 0, -1), midnight
		return &a, &b
	case liststate.DateLast7:
		a := midnight.AddDate(0, 0, -7)
		return &a, nil
	case liststate.DateLast30:
		a := midnight.AddDate(0, 0, -30)
		return &a, nil
	}
	return nil, nil
}

func (h *Handler) listState(r *http.Request) liststate.State {
	state := liststate.FromQuery(r, "timestamp", liststate.Desc)
	state.SetFilter("category", r.URL.Query().Get("category"))
	return state
}

func (h *Handler) queryFilter(state liststate.State, limit, offset int64) audit.QueryFilter {
	lo, hi := dateRange(state.DateFilter, time.Now())
	return audit.QueryFilter{
		Category:  state.Filter("category"),
		StartTime: lo,
		EndTime:   hi,
		Limit:     limit,
		Offset:    offset,
	}
}

// ServeList handles GET /activity.
func (h *Handler) ServeList(w http.ResponseWriter, r *http.Request) {
	if !gates.CanRead(w, r, "activity") {
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Medium())
	defer cancel()

	state := h.listState(r)
	filter := h.queryFilter(state, pageSize, int64(state.Page-1)*pageSize)

	events, err := h.Store.List(ctx, filter)
	if err != nil {
		h.ErrLog.LogServerError(w, r, "list audit events failed", err, "Activity is unavailable right now.", "/dashboard")
		return
	}
	total, err := h.Store.Count(ctx, filter)
	if err != nil {
		h.ErrLog.LogServerError(w, r, "count audit events failed", err, "Activity is unavailable right now.", "/dashboard")
		return
	}

	table, err := datatable.Build(events, columns(), datatable.Options[audit.Event]{
		EmptyIcon:     "clock",
		EmptyMessage:  "No activity recorded yet.",
		RowKey:        func(e audit.Event) string { return e.ID.Hex() },
		SortColumn:    state.SortColumn,
		SortDirection: state.SortDirection,
	})
	if err != nil {
		h.ErrLog.LogServerError(w, r, "build activity table failed", err, "A server error occurred.", "/dashboard")
		return
	}

	totalPages := int((total + pageSize - 1) / pageSize)
	if totalPages < 1 {
		totalPages = 1
	}
	query := ""
	if q := state.Query(); q != "" {
		query = "?" + q
	}
	data := listData{
		BaseVM: viewdata.NewBaseVM(r, "Activity", "/dashboard"),
		Toolbar: viewdata.ToolbarVM{
			ShowDateFilter: true,
			DateFilter:     state.DateFilter,
			Filters: []viewdata.Filter{{
				Name:     "category",
				Selected: state.Filter("category"),
				Options: []viewdata.FilterOption{
					{Value: "", Label: "All categories"},
					{Value: audit.CategoryAuth, Label: "Sign-in"},
					{Value: audit.CategoryAdmin, Label: "Admin"},
				},
			}},
			ExportBase: "/activity",
			Query:      query,
		},
		Table: table,
		Pager: liststate.PageInfo{
			Page: state.Page, PageSize: pageSize, Total: int(total), TotalPages: totalPages,
			HasPrev: state.Page > 1, HasNext: state.Page < totalPages,
			PrevPage: state.Page - 1, NextPage: state.Page + 1,
		},
	}
	templates.Render(w, r, "activity_list", data)
}

// ServeExportCSV handles GET /activity/export.csv.
func (h *Handler) ServeExportCSV(w http.ResponseWriter, r *http.Request) {
	h.serveExport(w, r, "csv")
}

// ServeExportJSON handles GET /activity/export.json.
func (h *Handler) ServeExportJSON(w http.ResponseWriter, r *http.Request) {
	h.serveExport(w, r, "json")
}

func (h *Handler) serveExport(w http.ResponseWriter, r *http.Request, format string) {
	if !gates.CanRead(w, r, "activity") {
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Batch())
	defer cancel()

	state := h.listState(r)
	events, err := h.Store.List(ctx, h.queryFilter(state, exportLimit, 0))
	if err != nil {
		h.ErrLog.LogServerError(w, r, "export audit events failed", err, "Export failed. Please try again.", "/activity")
		return
	}

	if format == "json" {
		rows := make([]exportRow, 0, len(events))
		for _, e := range events {
			rows = append(rows, toExportRow(e))
		}
		if err := export.ServeJSON(w, "activity", rows, h.Log); err != nil {
			return
		}
	} else {
		cfg := export.Config[audit.Event]{
			Filename: "activity",
			Headers:  []string{"Time", "Category", "Event", "Actor", "Resource", "Result", "Detail"},
			Row: func(e audit.Event) []string {
				result := "ok"
				if !e.Success {
					result = "failed: " + e.FailureReason
				}
				return []string{
					e.Timestamp.Format("2006-01-02 15:04:05"),
					e.Category,
					e.EventType,
					e.ActorName,
					e.Resource + " " + e.ResourceID,
					result,
					detailSummary(e.Details),
				}
			},
		}
		if err := export.ServeCSV(w, cfg, events, h.Log); err != nil {
			return
		}
	}

	if u, ok := auth.CurrentUser(r); ok {
		h.AuditLog.Export(ctx, r, u.ID, u.Name, "activity", format)
	}
}

// exportRow is the JSON export shape; audit.Event itself only carries
// bson tags.
type exportRow struct {
	Timestamp  time.Time         `json:"timestamp"`
	Category   string            `json:"category"`
	EventType  string            `json:"eventType"`
	ActorID    string            `json:"actorId,omitempty"`
	ActorName  string            `json:"actorName,omitempty"`
	Resource   string            `json:"resource,omitempty"`
	ResourceID string            `json:"resourceId,omitempty"`
	Success    bool              `json:"success"`
	Reason     string            `json:"failureReason,omitempty"`
	Details    map[string]string `json:"details,omitempty"`
}

func toExportRow(e audit.Event) exportRow {
	return exportRow{
		Timestamp:  e.Timestamp,
		Category:   e.Category,
		EventType:  e.EventType,
		ActorID:    e.ActorID,
		ActorName:  e.ActorName,
		Resource:   e.Resource,
		ResourceID: e.ResourceID,
		Success:    e.Success,
		Reason:     e.FailureReason,
		Details:    e.Details,
	}
}

func detailSummary(details map[string]string) string {
	if len(details) == 0 {
		return ""
	}
	out := ""
	for k, v := range details {
		if out != "" {
			out += "; "
		}
		out += k + "=" + v
	}
	return out
}
