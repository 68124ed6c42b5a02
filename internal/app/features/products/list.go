package products

import (
	"context"
	"net/http"
	"strconv"

	"github.com/dalemusser/waffle/pantry/templates"
	"github.com/merchdesk/merchdesk/internal/app/backend"
	"github.com/merchdesk/merchdesk/internal/app/system/auth"
	"github.com/merchdesk/merchdesk/internal/app/system/authz"
	"github.com/merchdesk/merchdesk/internal/app/system/datatable"
	"github.com/merchdesk/merchdesk/internal/app/system/export"
	"github.com/merchdesk/merchdesk/internal/app/system/gates"
	"github.com/merchdesk/merchdesk/internal/app/system/liststate"
	"github.com/merchdesk/merchdesk/internal/app/system/money"
	"github.com/merchdesk/merchdesk/internal/app/system/timeouts"
	"github.com/merchdesk/merchdesk/internal/app/system/viewdata"
	"github.com/merchdesk/merchdesk/internal/domain/models"
)

const pageSize = 25

func columns() []datatable.Column[models.Product] {
	return []datatable.Column[models.Product]{
		{Key: "name", Header: "Product", Sortable: true, Primary: true},
		{Key: "sku", Header: "SKU", HideOnMobile: true},
		{Key: "category", Header: "Category", Sortable: true},
		{Key: "price", Header: "Price", Sortable: true, Class: "num", Secondary: true,
			Render: func(p models.Product) string { return money.FormatFloat(p.Price, p.Currency) }},
		{Key: "stock", Header: "Stock", Sortable: true, Class: "num"},
		{Key: "stockStatus", Header: "Availability", Class: "status"},
		{Key: "updatedAt", Header: "Updated", Sortable: true, HideOnMobile: true,
			Render: func(p models.Product) string { return p.UpdatedAt.Format("Jan 2, 2006") }},
	}
}

func (h *Handler) listState(r *http.Request) liststate.State {
	state := liststate.FromQuery(r, "name", liststate.Asc)
	state.SetFilter("stockStatus", r.URL.Query().Get("stockStatus"))
	state.SetFilter("category", r.URL.Query().Get("category"))
	return state
}

func (h *Handler) fetchPage(ctx context.Context, r *http.Request, state liststate.State) ([]models.Product, backend.Pagination, error) {
	page, err := backend.List[models.Product](ctx, h.api(r), "/products", backend.ListParams{
		Page:      state.Page,
		Limit:     pageSize,
		SortBy:    state.SortColumn,
		SortOrder: state.SortDirection,
		Search:    state.SearchTerm,
		Filters: map[string]string{
			"stockStatus": state.Filter("stockStatus"),
			"category":    state.Filter("category"),
		},
	})
	if err != nil {
		return nil, backend.Pagination{}, err
	}
	items := liststate.Sort(page.Items, state.SortColumn, state.SortDirection)
	return items, page.Pagination, nil
}

func (h *Handler) buildList(r *http.Request, state liststate.State, items []models.Product, pg backend.Pagination) (listData, error) {
	table, err := datatable.Build(items, columns(), datatable.Options[models.Product]{
		EmptyIcon:     "tag",
		EmptyMessage:  "No products match your filters.",
		RowKey:        func(p models.Product) string { return p.ID },
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

	role, _, _ := authz.UserCtx(r)
	return listData{
		BaseVM: viewdata.NewBaseVM(r, "Products", "/dashboard"),
		Toolbar: viewdata.ToolbarVM{
			SearchTerm:        state.SearchTerm,
			SearchPlaceholder: "Search products…",
			Filters: []viewdata.Filter{{
				Name:     "stockStatus",
				Selected: state.Filter("stockStatus"),
				Options: []viewdata.FilterOption{
					{Value: "", Label: "All stock"},
					{Value: models.StockInStock, Label: "In stock"},
					{Value: models.StockLow, Label: "Low stock"},
					{Value: models.StockOutOfStock, Label: "Out of stock"},
				},
			}},
			ExportBase: "/products",
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
			PrevPage:   pg.Page - 1,
			NextPage:   pg.Page + 1,
		},
		State:     state,
		CanCreate: authz.CanCreate(role, "products"),
	}, nil
}

// ServeList handles GET /products.
func (h *Handler) ServeList(w http.ResponseWriter, r *http.Request) {
	if !gates.CanRead(w, r, "products") {
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Long())
	defer cancel()

	state := h.listState(r)
	items, pg, err := h.fetchPage(ctx, r, state)
	if err != nil {
		h.ErrLog.LogBackendError(w, r, "fetch products failed", err, "Products are unavailable right now.", "/dashboard")
		return
	}

	data, err := h.buildList(r, state, items, pg)
	if err != nil {
		h.ErrLog.LogServerError(w, r, "build products table failed", err, "A server error occurred.", "/dashboard")
		return
	}
	templates.Render(w, r, "products_list", data)
}

// ServeTable handles GET /products/table (HTMX partial).
func (h *Handler) ServeTable(w http.ResponseWriter, r *http.Request) {
	if !gates.CanRead(w, r, "products") {
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Long())
	defer cancel()

	state := h.listState(r)
	items, pg, err := h.fetchPage(ctx, r, state)
	if err != nil {
		h.ErrLog.LogBackendError(w, r, "fetch products failed", err, "Products are unavailable right now.", "/products")
		return
	}

	data, err := h.buildList(r, state, items, pg)
	if err != nil {
		h.ErrLog.LogServerError(w, r, "build products table failed", err, "A server error occurred.", "/products")
		return
	}
	templates.Render(w, r, "products_table", data)
}

// ServeExportCSV handles GET /products/export.csv.
func (h *Handler) ServeExportCSV(w http.ResponseWriter, r *http.Request) {
	if !gates.CanRead(w, r, "products") {
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Batch())
	defer cancel()

	state := h.listState(r)
	items, err := h.fetchAllPages(ctx, r, state)
	if err != nil {
		h.ErrLog.LogBackendError(w, r, "export products failed", err, "Export failed. Please try again.", "/products")
		return
	}

	cfg := export.Config[models.Product]{
		Filename: "products",
		Headers:  []string{"Name", "SKU", "Category", "Price", "Stock", "Availability", "Active"},
		Row: func(p models.Product) []string {
			return []string{
				p.Name,
				p.SKU,
				p.Category,
				money.FormatFloat(p.Price, p.Currency),
				strconv.Itoa(p.Stock),
				p.StockStatus,
				strconv.FormatBool(p.Active),
			}
		},
	}
	if err := export.ServeCSV(w, cfg, items, h.Log); err != nil {
		return
	}
	if u, ok := auth.CurrentUser(r); ok {
		h.AuditLog.Export(ctx, r, u.ID, u.Name, "products", "csv")
	}
}

func (h *Handler) fetchAllPages(ctx context.Context, r *http.Request, state liststate.State) ([]models.Product, error) {
	var all []models.Product
	for page := 1; ; page++ {
		p, err := backend.List[models.Product](ctx, h.api(r), "/products", backend.ListParams{
			Page:      page,
			Limit:     100,
			SortBy:    state.SortColumn,
			SortOrder: state.SortDirection,
			Search:    state.SearchTerm,
			Filters: map[string]string{
				"stockStatus": state.Filter("stockStatus"),
				"category":    state.Filter("category"),
			},
		})
		if err != nil {
			return nil, err
		}
		all = append(all, p.Items...)
		if page >= p.Pagination.TotalPages || len(p.Items) == 0 {
			break
		}
	}
	return liststate.Sort(all, state.SortColumn, state.SortDirection), nil
}
