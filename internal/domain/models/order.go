// Package models holds the commerce records the backend API serves. The
// backend owns every one of these; the dashboard decodes, displays, and
// re-requests them but never persists them. Field names mirror the API's
// JSON.
package models

import "time"

// Order statuses as the backend reports them.
const (
	OrderPending   = "pending"
	OrderPaid      = "paid"
	OrderShipped   = "shipped"
	OrderDelivered = "delivered"
	OrderCancelled = "cancelled"
)

// Order is one customer order.
type Order struct {
	ID            string      `json:"id"`
	Number        string      `json:"number"`
	CustomerID    string      `json:"customerId"`
	CustomerName  string      `json:"customerName"`
	CustomerEmail string      `json:"customerEmail"`
	Status        string      `json:"status"`
	PaymentStatus string      `json:"paymentStatus"`
	TotalAmount   float64     `json:"totalAmount"`
	Currency      string      `json:"currency"`
	ItemCount     int         `json:"itemCount"`
	Items         []OrderItem `json:"items,omitempty"`
	CreatedAt     time.Time   `json:"createdAt"`
	UpdatedAt     time.Time   `json:"updatedAt"`
}

// OrderItem is one line on an order.
type OrderItem struct {
	ProductID   string  `json:"productId"`
	ProductName string  `json:"productName"`
	SKU         string  `json:"sku"`
	Quantity    int     `json:"quantity"`
	UnitPrice   float64 `json:"unitPrice"`
	LineTotal   float64 `json:"lineTotal"`
}

// TotalCents reports the order total in minor units for money formatting.
func (o Order) TotalCents() int64 {
	return int64(o.TotalAmount*100 + 0.5)
}
