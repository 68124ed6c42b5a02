// Package reports renders the date-ranged orders and revenue report.
package reports

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"time"

	"github.com/dalemusser/waffle/pantry/query"
	"github.com/dalemusser/waffle/pantry/templates"
	"github.com/merchdesk/merchdesk/internal/app/backend"
	uierrors "github.com/merchdesk/merchdesk/internal/app/features/errors"
	"github.com/merchdesk/merchdesk/internal/app/system/auditlog"
	"github.com/merchdesk/merchdesk/internal/app/system/auth"
	"github.com/merchdesk/merchdesk/internal/app/system/datatable"
	"github.com/merchdesk/merchdesk/internal/app/system/export"
	"github.com/merchdesk/merchdesk/internal/app/system/gates"
	"github.com/merchdesk/merchdesk/internal/app/system/money"
	"github.com/merchdesk/merchdesk/internal/app/system/timeouts"
	"github.com/merchdesk/merchdesk/internal/app/system/viewdata"
	"github.com/merchdesk/merchdesk/internal/domain/models"
	"go.uber.org/zap"
)

const dateLayout = "2006-01-02"

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

type totalsVM struct {
	Orders  string
	Revenue string
	Refunds string
}

type viewData struct {
	viewdata.BaseVM
	Start   string
	End     string
	Table   datatable.TableVM
	Totals  totalsVM
	HasRows bool
	Query   string
	Error   string
}

func columns() []datatable.Column[models.ReportRow] {
	return []datatable.Column[models.ReportRow]{
		{Key: "date", Header: "Date", Primary: true},
		{Key: "orders", Header: "Orders", Class: "num",
			Render: func(x models.ReportRow) string { return fmt.Sprintf("%d", x.Orders) }},
		{Key: "revenue", Header: "Revenue", Class: "num", Secondary: true,
			Render: func(x models.ReportRow) string { return money.FormatFloat(x.Revenue, x.Currency) }},
		{Key: "refunds", Header: "Refunds", Class: "num",
			Render: func(x models.ReportRow) string { return money.FormatFloat(x.Refunds, x.Currency) }},
	}
}

// window reads start/end from the query, defaulting to the last 30 days.
// Invalid input yields an error message and the default window.
func window(r *http.Request) (start, end time.Time, errMsg string) {
	end = time.Now().Truncate(24*time.Hour).AddDate(0, 0, 1)
	start = end.AddDate(0, 0, -30)

	rawStart := query.Get(r, "start")
	rawEnd := query.Get(r, "end")
	if rawStart == "" && rawEnd == "" {
		return start, end, ""
	}

	s, err1 := time.ParseInLocation(dateLayout, rawStart, time.Local)
	e, err2 := time.ParseInLocation(dateLayout, rawEnd, time.Local)
	if err1 != nil || err2 != nil {
		return start, end, "Dates must be in YYYY-MM-DD form."
	}
	if e.Before(s) {
		return start, end, "The end date must not be before the start date."
	}
	// End is exclusive at the next midnight so the chosen day is included.
	return s, e.AddDate(0, 0, 1), ""
}

func fetch(ctx context.Context, api *backend.Caller, start, end time.Time) ([]models.ReportRow, error) {
	params := url.Values{}
	params.Set("start", start.Format(dateLayout))
	params.Set("end", end.AddDate(0, 0, -1).Format(dateLayout))
	return backend.GetWith[[]models.ReportRow](ctx, api, "/analytics/report", params)
}

func totals(rows []models.ReportRow) totalsVM {
	var orders int
	var revenue, refunds float64
	currency := ""
	for _, row := range rows {
		orders += row.Orders
		revenue += row.Revenue
		refunds += row.Refunds
		if currency == "" {
			currency = row.Currency
		}
	}
	return totalsVM{
		Orders:  fmt.Sprintf("%d", orders),
		Revenue: money.FormatFloat(revenue, currency),
		Refunds: money.FormatFloat(refunds, currency),
	}
}

// ServeView handles GET /reports.
func (h *Handler) ServeView(w http.ResponseWriter, r *http.Request) {
	if !gates.CanRead(w, r, "reports") {
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Long())
	defer cancel()

	start, end, errMsg := window(r)
	data := viewData{
		BaseVM: viewdata.NewBaseVM(r, "Reports", "/dashboard"),
		Start:  start.Format(dateLayout),
		End:    end.AddDate(0, 0, -1).Format(dateLayout),
		Error:  errMsg,
	}

	rows, err := fetch(ctx, h.api(r), start, end)
	if err != nil {
		h.ErrLog.LogBackendError(w, r, "fetch report failed", err, "The report is unavailable right now.", "/dashboard")
		return
	}

	table, err := datatable.Build(rows, columns(), datatable.Options[models.ReportRow]{
		EmptyIcon:    "chart",
		EmptyMessage: "No orders in this date range.",
		RowKey:       func(x models.ReportRow) string { return x.Date },
	})
	if err != nil {
		h.ErrLog.LogServerError(w, r, "build report table failed", err, "A server error occurred.", "/dashboard")
		return
	}
	data.Table = table
	data.HasRows = len(rows) > 0
	data.Totals = totals(rows)
	data.Query = "?start=" + data.Start + "&end=" + data.End

	templates.Render(w, r, "reports_view", data)
}

// ServeExportCSV handles GET /reports/export.csv.
func (h *Handler) ServeExportCSV(w http.ResponseWriter, r *http.Request) {
	if !gates.CanRead(w, r, "reports") {
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Batch())
	defer cancel()

	start, end, _ := window(r)
	rows, err := fetch(ctx, h.api(r), start, end)
	if err != nil {
		h.ErrLog.LogBackendError(w, r, "export report failed", err, "Export failed. Please try again.", "/reports")
		return
	}

	cfg := export.Config[models.ReportRow]{
		Filename: "report",
		Headers:  []string{"Date", "Orders", "Revenue", "Refunds"},
		Row: func(x models.ReportRow) []string {
			return []string{
				x.Date,
				fmt.Sprintf("%d", x.Orders),
				money.FormatFloat(x.Revenue, x.Currency),
				money.FormatFloat(x.Refunds, x.Currency),
			}
		},
	}
	if err := export.ServeCSV(w, cfg, rows, h.Log); err != nil {
		return
	}

	if u, ok := auth.CurrentUser(r); ok {
		h.AuditLog.Export(ctx, r, u.ID, u.Name, "reports", "csv")
	}
}
