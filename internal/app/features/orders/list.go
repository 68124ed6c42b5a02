package orders

import (
	"context"
	"net/http"

	"github.com/dalemusser/waffle/pantry/templates"
	"github.com/merchdesk/merchdesk/internal/app/backend"
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

func columns() []datatable.Column[models.Order] {
	return []datatable.Column[models.Order]{
		{Key: "number", Header: "Order", Sortable: true, Primary: true},
		{Key: "customerName", Header: "Customer", Sortable: true},
		{Key: "status", Header: "Status", Sortable: true, Class: "status"},
		{Key: "paymentStatus", Header: "Payment", HideOnMobile: true},
		{Key: "itemCount", Header: "Items", Sortable: true, Class: "num", HideOnMobile: true},
		{Key: "totalAmount", Header: "Total", Sortable: true, Class: "num", Secondary: true,
			Render: func(o models.Order) string { return money.Format(o.TotalCents(), o.Currency) }},
		{Key: "createdAt", Header: "Placed", Sortable: true, MobileLabel: "Placed",
			Render: func(o models.Order) string { return o.CreatedAt.Format("Jan 2, 2006 15:04") }},
	}
}

// fetchPage pulls one backend page and applies the local date filter
// and re-sort. Sorting covers only the fetched page, matching the
// table's in-browser behavior.
func (h *Handler) fetchPage(ctx context.Context, r *http.Request, state liststate.State) ([]models.Order, backend.Pagination, error) {
	page, err := backend.List[models.Order](ctx, h.api(r), "/orders", backend.ListParams{
		Page:      state.Page,
		Limit:     pageSize,
		SortBy:    state.SortColumn,
		SortOrder: state.SortDirection,
		Search:    state.SearchTerm,
		Filters:   map[string]string{"status": state.Filter("status")},
	})
	if err != nil {
		return nil, backend.Pagination{}, err
	}

	items := liststate.FilterByDate(page.Items, state.DateFilter)
	items = liststate.Sort(items, state.SortColumn, state.SortDirection)
	return items, page.Pagination, nil
}

func (h *Handler) buildList(r *http.Request, state liststate.State, items []models.Order, pg backend.Pagination, stats statsVM) (listData, error) {
	table, err := datatable.Build(items, columns(), datatable.Options[models.Order]{
		EmptyIcon:     "package",
		EmptyMessage:  "No orders match your filters.",
		RowKey:        func(o models.Order) string { return o.ID },
		SortColumn:    state.SortColumn,
		SortDirection: state.SortDirection,
	})
	if err != nil {
		return listData{}, err
	}

	query := ""
	if q := state.Query(); q != "" {
		query = "?" + q
	}

	return listData{
		BaseVM: viewdata.NewBaseVM(r, "Orders", "/dashboard"),
		Stats:  stats,
		Toolbar: viewdata.ToolbarVM{
			SearchTerm:        state.SearchTerm,
			SearchPlaceholder: "Search orders…",
			ShowDateFilter:    true,
			DateFilter:        state.DateFilter,
			Filters: []viewdata.Filter{{
				Name:     "status",
				Selected: state.Filter("status"),
				Options: []viewdata.FilterOption{
					{Value: "", Label: "All statuses"},
					{Value: models.OrderPending, Label: "Pending"},
					{Value: models.OrderPaid, Label: "Paid"},
					{Value: models.OrderShipped, Label: "Shipped"},
					{Value: models.OrderDelivered, Label: "Delivered"},
					{Value: models.OrderCancelled, Label: "Cancelled"},
				},
			}},
			ExportBase: "/orders",
			Query:      query,
		},
		Table: table,
		Pager: liststate.PageInfo{
			Page:       pg.Page,
			PageSize:   pg.Limit,
			Total:      pg.Total,
			TotalPages: pg.TotalPages,
			HasPrev:    pg.Page > 1,
			HasNext:    pg.Page < pg.TotalPages,
			PrevPage:   maxInt(pg.Page-1, 1),
			NextPage:   minInt(pg.Page+1, maxInt(pg.TotalPages, 1)),
		},
		State: state,
	}, nil
}

func (h *Handler) fetchStats(ctx context.Context, r *http.Request) statsVM {
	stats, err := backend.Get[orderStats](ctx, h.api(r), "/orders/stats")
	if err != nil {
		h.Log.Warn("order stats fetch failed", zap.Error(err))
		return statsVM{}
	}
	return statsVM{
		TotalOrders: stats.TotalOrders,
		Revenue:     money.FormatFloat(stats.Revenue, stats.Currency),
		Pending:     stats.Pending,
		Delivered:   stats.Delivered,
	}
}

// ServeList handles GET /orders: the full page with stats, toolbar,
// table, and pager.
func (h *Handler) ServeList(w http.ResponseWriter, r *http.Request) {
	if !gates.CanRead(w, r, "orders") {
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Long())
	defer cancel()

	state := liststate.FromQuery(r, "createdAt", liststate.Desc)
	state.SetFilter("status", r.URL.Query().Get("status"))

	items, pg, err := h.fetchPage(ctx, r, state)
	if err != nil {
		h.ErrLog.LogBackendError(w, r, "fetch orders failed", err, "Orders are unavailable right now.", "/dashboard")
		return
	}

	data, err := h.buildList(r, state, items, pg, h.fetchStats(ctx, r))
	if err != nil {
		h.ErrLog.LogServerError(w, r, "build orders table failed", err, "A server error occurred.", "/dashboard")
		return
	}
	templates.Render(w, r, "orders_list", data)
}

// ServeTable handles GET /orders/table: the HTMX partial the page swaps
// in as the operator types or changes filters. Request ordering is per
// client: htmx aborts the element's in-flight request when it issues a
// new one, so a superseded response never reaches the swap.
func (h *Handler) ServeTable(w http.ResponseWriter, r *http.Request) {
	if !gates.CanRead(w, r, "orders") {
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Long())
	defer cancel()

	state := liststate.FromQuery(r, "createdAt", liststate.Desc)
	state.SetFilter("status", r.URL.Query().Get("status"))

	items, pg, err := h.fetchPage(ctx, r, state)
	if err != nil {
		h.ErrLog.LogBackendError(w, r, "fetch orders failed", err, "Orders are unavailable right now.", "/orders")
		return
	}

	data, err := h.buildList(r, state, items, pg, statsVM{})
	if err != nil {
		h.ErrLog.LogServerError(w, r, "build orders table failed", err, "A server error occurred.", "/orders")
		return
	}
	templates.Render(w, r, "orders_table", data)
}

func minInt(a, b int) int {
	if a < b {
		return a
	}
	return b
}

func maxInt(a, b int) int {
	if a > b {
		return a
	}
	return b
}
