// Package analytics renders the cached store analytics snapshot: revenue
// and order aggregates plus the top-products and top-customers tables.
package analytics

import (
	"fmt"
	"net/http"
	"time"

	"github.com/dalemusser/waffle/pantry/templates"
	uierrors "github.com/merchdesk/merchdesk/internal/app/features/errors"
	"github.com/merchdesk/merchdesk/internal/app/system/datatable"
	"github.com/merchdesk/merchdesk/internal/app/system/gates"
	"github.com/merchdesk/merchdesk/internal/app/system/money"
	"github.com/merchdesk/merchdesk/internal/app/system/viewdata"
	"github.com/merchdesk/merchdesk/internal/domain/models"
	"go.uber.org/zap"
)

type Handler struct {
	Cache  *Cache
	ErrLog *uierrors.ErrorLogger
	Log    *zap.Logger
}

func NewHandler(cache *Cache, errLog *uierrors.ErrorLogger, logger *zap.Logger) *Handler {
	return &Handler{Cache: cache, ErrLog: errLog, Log: logger}
}

type statVM struct {
	Label string
	Value string
	Note  string
}

type viewData struct {
	viewdata.BaseVM
	Ready        bool
	Stats        []statVM
	TopProducts  datatable.TableVM
	TopCustomers datatable.TableVM
	Window       string
	FetchedAt    string
}

func productColumns() []datatable.Column[models.ProductSales] {
	return []datatable.Column[models.ProductSales]{
		{Key: "name", Header: "Product", Primary: true,
			Link: func(p models.ProductSales) string { return "/products/" + p.ProductID + "/edit" }},
		{Key: "units", Header: "Units sold", Class: "num",
			Render: func(p models.ProductSales) string { return fmt.Sprintf("%d", p.Units) }},
		{Key: "revenue", Header: "Revenue", Class: "num", Secondary: true,
			Render: func(p models.ProductSales) string { return money.FormatFloat(p.Revenue, p.Currency) }},
	}
}

func customerColumns() []datatable.Column[models.CustomerSales] {
	return []datatable.Column[models.CustomerSales]{
		{Key: "name", Header: "Customer", Primary: true,
			Link: func(c models.CustomerSales) string { return "/customers/" + c.CustomerID }},
		{Key: "orders", Header: "Orders", Class: "num",
			Render: func(c models.CustomerSales) string { return fmt.Sprintf("%d", c.Orders) }},
		{Key: "spent", Header: "Spent", Class: "num", Secondary: true,
			Render: func(c models.CustomerSales) string { return money.FormatFloat(c.Spent, c.Currency) }},
	}
}

// ServeView handles GET /analytics.
func (h *Handler) ServeView(w http.ResponseWriter, r *http.Request) {
	if !gates.CanRead(w, r, "analytics") {
		return
	}

	data := viewData{BaseVM: viewdata.NewBaseVM(r, "Analytics", "/dashboard")}

	summary, fetchedAt, ok := h.Cache.Snapshot()
	if !ok {
		// First refresh has not landed yet; render the waiting state.
		templates.Render(w, r, "analytics_view", data)
		return
	}

	trendNote := fmt.Sprintf("%+.1f%% vs previous period", summary.RevenueTrend)
	data.Ready = true
	data.Stats = []statVM{
		{Label: "Revenue", Value: money.FormatFloat(summary.TotalRevenue, summary.Currency), Note: trendNote},
		{Label: "Orders", Value: fmt.Sprintf("%d", summary.TotalOrders)},
		{Label: "Average order", Value: money.FormatFloat(summary.AvgOrderValue, summary.Currency)},
		{Label: "New customers", Value: fmt.Sprintf("%d", summary.NewCustomers)},
		{Label: "Refund rate", Value: fmt.Sprintf("%.1f%%", summary.RefundRate)},
	}
	data.Window = summary.WindowStart.Format("Jan 2") + " – " + summary.WindowEnd.Format("Jan 2, 2006")
	data.FetchedAt = fetchedAt.Format(time.RFC822)

	products, err := datatable.Build(summary.TopProducts, productColumns(), datatable.Options[models.ProductSales]{
		EmptyIcon:    "chart",
		EmptyMessage: "No product sales in this window.",
		RowKey:       func(p models.ProductSales) string { return p.ProductID },
	})
	if err != nil {
		h.ErrLog.LogServerError(w, r, "build top products table failed", err, "A server error occurred.", "/dashboard")
		return
	}
	customers, err := datatable.Build(summary.TopCustomers, customerColumns(), datatable.Options[models.CustomerSales]{
		EmptyIcon:    "chart",
		EmptyMessage: "No customer activity in this window.",
		RowKey:       func(c models.CustomerSales) string { return c.CustomerID },
	})
	if err != nil {
		h.ErrLog.LogServerError(w, r, "build top customers table failed", err, "A server error occurred.", "/dashboard")
		return
	}
	data.TopProducts = products
	data.TopCustomers = customers

	templates.Render(w, r, "analytics_view", data)
}

// HandleRefresh handles POST /analytics/refresh. The fetch runs in the
// background; the redirected page shows the old snapshot until it lands.
func (h *Handler) HandleRefresh(w http.ResponseWriter, r *http.Request) {
	if !gates.CanRead(w, r, "analytics") {
		return
	}
	h.Cache.RequestRefresh()
	http.Redirect(w, r, "/analytics", http.StatusSeeOther)
}
