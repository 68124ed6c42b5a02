// Package dashboard is the landing page after sign-in: a few headline
// numbers, the newest orders, and shortcuts to the sections the signed-in
// role can see.
package dashboard

import (
	"context"
	"fmt"
	"net/http"

	"github.com/dalemusser/waffle/pantry/templates"
	"github.com/merchdesk/merchdesk/internal/app/backend"
	uierrors "github.com/merchdesk/merchdesk/internal/app/features/errors"
	"github.com/merchdesk/merchdesk/internal/app/system/auth"
	"github.com/merchdesk/merchdesk/internal/app/system/datatable"
	"github.com/merchdesk/merchdesk/internal/app/system/money"
	"github.com/merchdesk/merchdesk/internal/app/system/timeouts"
	"github.com/merchdesk/merchdesk/internal/app/system/viewdata"
	"github.com/merchdesk/merchdesk/internal/domain/models"
	"go.uber.org/zap"
)

const recentLimit = 5

type Handler struct {
	Backend *backend.Client
	Tokens  *auth.TokenCodec
	ErrLog  *uierrors.ErrorLogger
	Log     *zap.Logger
}

func NewHandler(api *backend.Client, tokens *auth.TokenCodec, errLog *uierrors.ErrorLogger, logger *zap.Logger) *Handler {
	return &Handler{Backend: api, Tokens: tokens, ErrLog: errLog, Log: logger}
}

func (h *Handler) api(r *http.Request) *backend.Caller {
	return h.Backend.WithToken(h.Tokens.Get(r))
}

type statVM struct {
	Label string
	Value string
}

type viewData struct {
	viewdata.BaseVM
	Stats        []statVM
	RecentOrders datatable.TableVM
	StatsError   bool
}

// orderStats mirrors GET /orders/stats.
type orderStats struct {
	TotalOrders int     `json:"totalOrders"`
	Revenue     float64 `json:"revenue"`
	Currency    string  `json:"currency"`
	Pending     int     `json:"pending"`
	Delivered   int     `json:"delivered"`
}

func recentColumns() []datatable.Column[models.Order] {
	return []datatable.Column[models.Order]{
		{Key: "number", Header: "Order", Primary: true,
			Link: func(o models.Order) string { return "/orders/" + o.ID }},
		{Key: "customerName", Header: "Customer"},
		{Key: "status", Header: "Status", Class: "status"},
		{Key: "totalAmount", Header: "Total", Class: "num", Secondary: true,
			Render: func(o models.Order) string { return money.Format(o.TotalCents(), o.Currency) }},
		{Key: "createdAt", Header: "Placed", HideOnMobile: true,
			Render: func(o models.Order) string { return o.CreatedAt.Format("Jan 2, 15:04") }},
	}
}

// Serve handles GET /dashboard.
func (h *Handler) Serve(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Medium())
	defer cancel()

	data := viewData{BaseVM: viewdata.NewBaseVM(r, "Dashboard", "/dashboard")}

	stats, err := backend.Get[orderStats](ctx, h.api(r), "/orders/stats")
	if err != nil {
		// The landing page still renders without numbers.
		h.Log.Warn("dashboard stats unavailable", zap.Error(err))
		data.StatsError = true
	} else {
		data.Stats = []statVM{
			{Label: "Orders", Value: fmt.Sprintf("%d", stats.TotalOrders)},
			{Label: "Revenue", Value: money.FormatFloat(stats.Revenue, stats.Currency)},
			{Label: "Pending", Value: fmt.Sprintf("%d", stats.Pending)},
			{Label: "Delivered", Value: fmt.Sprintf("%d", stats.Delivered)},
		}
	}

	page, err := backend.List[models.Order](ctx, h.api(r), "/orders", backend.ListParams{
		Page:      1,
		Limit:     recentLimit,
		SortBy:    "createdAt",
		SortOrder: "desc",
	})
	if err != nil {
		h.Log.Warn("dashboard recent orders unavailable", zap.Error(err))
	}
	table, err := datatable.Build(page.Items, recentColumns(), datatable.Options[models.Order]{
		EmptyIcon:    "cart",
		EmptyMessage: "No orders yet.",
		RowKey:       func(o models.Order) string { return o.ID },
	})
	if err != nil {
		h.ErrLog.LogServerError(w, r, "build recent orders table failed", err, "A server error occurred.", "/dashboard")
		return
	}
	data.RecentOrders = table

	templates.Render(w, r, "dashboard_view", data)
}
