package orders

import (
	"context"
	"net/http"
	"strconv"

	"github.com/merchdesk/merchdesk/internal/app/backend"
	"github.com/merchdesk/merchdesk/internal/app/system/auth"
	"github.com/merchdesk/merchdesk/internal/app/system/export"
	"github.com/merchdesk/merchdesk/internal/app/system/gates"
	"github.com/merchdesk/merchdesk/internal/app/system/liststate"
	"github.com/merchdesk/merchdesk/internal/app/system/money"
	"github.com/merchdesk/merchdesk/internal/app/system/timeouts"
	"github.com/merchdesk/merchdesk/internal/domain/models"
)

// exportLimit caps how many orders one export pulls from the backend.
const exportLimit = 10000

// fetchAll pages through the backend until the filter set is exhausted,
// then applies the same local date filter and sort the table shows.
func (h *Handler) fetchAll(ctx context.Context, r *http.Request, state liststate.State) ([]models.Order, error) {
	var all []models.Order
	for page := 1; len(all) < exportLimit; page++ {
		p, err := backend.List[models.Order](ctx, h.api(r), "/orders", backend.ListParams{
			Page:      page,
			Limit:     100,
			SortBy:    state.SortColumn,
			SortOrder: state.SortDirection,
			Search:    state.SearchTerm,
			Filters:   map[string]string{"status": state.Filter("status")},
		})
		if err != nil {
			return nil, err
		}
		all = append(all, p.Items...)
		if page >= p.Pagination.TotalPages || len(p.Items) == 0 {
			break
		}
	}
	// The last page can overshoot the cap.
	if len(all) > exportLimit {
		all = all[:exportLimit]
	}

	all = liststate.FilterByDate(all, state.DateFilter)
	return liststate.Sort(all, state.SortColumn, state.SortDirection), nil
}

func exportConfig() export.Config[models.Order] {
	return export.Config[models.Order]{
		Filename: "orders",
		Headers:  []string{"Order", "Customer", "Email", "Status", "Payment", "Items", "Total", "Placed"},
		Row: func(o models.Order) []string {
			return []string{
				o.Number,
				o.CustomerName,
				o.CustomerEmail,
				o.Status,
				o.PaymentStatus,
				itoa(o.ItemCount),
				money.Format(o.TotalCents(), o.Currency),
				o.CreatedAt.Format("2006-01-02 15:04:05"),
			}
		},
	}
}

// ServeExportCSV handles GET /orders/export.csv with the current filter
// state applied.
func (h *Handler) ServeExportCSV(w http.ResponseWriter, r *http.Request) {
	if !gates.CanRead(w, r, "orders") {
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Batch())
	defer cancel()

	state := liststate.FromQuery(r, "createdAt", liststate.Desc)
	state.SetFilter("status", r.URL.Query().Get("status"))

	items, err := h.fetchAll(ctx, r, state)
	if err != nil {
		h.ErrLog.LogBackendError(w, r, "export orders failed", err, "Export failed. Please try again.", "/orders")
		return
	}

	if err := export.ServeCSV(w, exportConfig(), items, h.Log); err != nil {
		h.Log.Error("write orders csv failed")
		return
	}
	h.auditExport(ctx, r, "csv")
}

// ServeExportJSON handles GET /orders/export.json.
func (h *Handler) ServeExportJSON(w http.ResponseWriter, r *http.Request) {
	if !gates.CanRead(w, r, "orders") {
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Batch())
	defer cancel()

	state := liststate.FromQuery(r, "createdAt", liststate.Desc)
	state.SetFilter("status", r.URL.Query().Get("status"))

	items, err := h.fetchAll(ctx, r, state)
	if err != nil {
		h.ErrLog.LogBackendError(w, r, "export orders failed", err, "Export failed. Please try again.", "/orders")
		return
	}

	if err := export.ServeJSON(w, "orders", items, h.Log); err != nil {
		h.Log.Error("write orders json failed")
		return
	}
	h.auditExport(ctx, r, "json")
}

func (h *Handler) auditExport(ctx context.Context, r *http.Request, format string) {
	if u, ok := auth.CurrentUser(r); ok {
		h.AuditLog.Export(ctx, r, u.ID, u.Name, "orders", format)
	}
}

func itoa(n int) string {
	return strconv.Itoa(n)
}
