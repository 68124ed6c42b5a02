package orders

import (
	"github.com/merchdesk/merchdesk/internal/app/system/datatable"
	"github.com/merchdesk/merchdesk/internal/app/system/liststate"
	"github.com/merchdesk/merchdesk/internal/app/system/viewdata"
	"github.com/merchdesk/merchdesk/internal/domain/models"
)

// statsVM is the stat card row above the orders table.
type statsVM struct {
	TotalOrders int
	Revenue     string // formatted with currency symbol
	Pending     int
	Delivered   int
}

// orderStats mirrors GET /orders/stats.
type orderStats struct {
	TotalOrders int     `json:"totalOrders"`
	Revenue     float64 `json:"revenue"`
	Currency    string  `json:"currency"`
	Pending     int     `json:"pending"`
	Delivered   int     `json:"delivered"`
}

// listData is the view model for the orders list page.
type listData struct {
	viewdata.BaseVM

	Stats   statsVM
	Toolbar viewdata.ToolbarVM
	Table   datatable.TableVM
	Pager   liststate.PageInfo
	State   liststate.State
}

// detailData is the view model for one order.
type detailData struct {
	viewdata.BaseVM

	Order    models.Order
	Total    string // formatted
	Lines    []lineVM
	Statuses []string // statuses the operator may move the order to
	CanEdit  bool
}

type lineVM struct {
	Name      string
	SKU       string
	Quantity  int
	UnitPrice string
	LineTotal string
}
