package models

import "time"

// AnalyticsSummary is the aggregate snapshot the analytics page renders.
// The backend computes it; the dashboard caches one copy and refreshes it
// on a schedule.
type AnalyticsSummary struct {
	TotalOrders   int             `json:"totalOrders"`
	TotalRevenue  float64         `json:"totalRevenue"`
	Currency      string          `json:"currency"`
	AvgOrderValue float64         `json:"avgOrderValue"`
	NewCustomers  int             `json:"newCustomers"`
	RefundRate    float64         `json:"refundRate"`
	RevenueTrend  float64         `json:"revenueTrend"` // percent vs previous window
	TopProducts   []ProductSales  `json:"topProducts"`
	TopCustomers  []CustomerSales `json:"topCustomers"`
	WindowStart   time.Time       `json:"windowStart"`
	WindowEnd     time.Time       `json:"windowEnd"`
	GeneratedAt   time.Time       `json:"generatedAt"`
}

// ProductSales is one row of the top-products table.
type ProductSales struct {
	ProductID string  `json:"productId"`
	Name      string  `json:"name"`
	Units     int     `json:"units"`
	Revenue   float64 `json:"revenue"`
	Currency  string  `json:"currency"`
}

// CustomerSales is one row of the top-customers table.
type CustomerSales struct {
	CustomerID string  `json:"customerId"`
	Name       string  `json:"name"`
	Orders     int     `json:"orders"`
	Spent      float64 `json:"spent"`
	Currency   string  `json:"currency"`
}

// ReportRow is one date bucket of the orders/revenue report.
type ReportRow struct {
	Date     string  `json:"date"`
	Orders   int     `json:"orders"`
	Revenue  float64 `json:"revenue"`
	Refunds  float64 `json:"refunds"`
	Currency string  `json:"currency"`
}
