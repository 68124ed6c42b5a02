package models

import "time"

// Shipment statuses as the backend reports them.
const (
	ShipmentPreparing = "preparing"
	ShipmentShipped   = "shipped"
	ShipmentInTransit = "in_transit"
	ShipmentDelivered = "delivered"
	ShipmentReturned  = "returned"
)

// Shipment is one parcel for an order.
type Shipment struct {
	ID           string    `json:"id"`
	OrderID      string    `json:"orderId"`
	Carrier      string    `json:"carrier"`
	TrackingCode string    `json:"trackingCode"`
	TrackingURL  string    `json:"trackingUrl"`
	Status       string    `json:"status"`
	Destination  string    `json:"destination"`
	CreatedAt    time.Time `json:"createdAt"`
	UpdatedAt    time.Time `json:"updatedAt"`
}

// Discount is one discount code.
type Discount struct {
	ID         string     `json:"id"`
	Code       string     `json:"code"`
	Type       string     `json:"type"`  // percent, fixed
	Value      float64    `json:"value"` // percent points or fixed amount
	Currency   string     `json:"currency"`
	Active     bool       `json:"active"`
	UsageCount int        `json:"usageCount"`
	UsageLimit int        `json:"usageLimit"`
	ExpiresAt  *time.Time `json:"expiresAt"`
	CreatedAt  time.Time  `json:"createdAt"`
	UpdatedAt  time.Time  `json:"updatedAt"`
}

// DiscountInput is the create payload for a discount code.
type DiscountInput struct {
	Code       string  `json:"code"`
	Type       string  `json:"type"`
	Value      float64 `json:"value"`
	UsageLimit int     `json:"usageLimit"`
	ExpiresAt  string  `json:"expiresAt,omitempty"`
}

// Cart is one abandoned checkout.
type Cart struct {
	ID            string  `json:"id"`
	CustomerEmail string  `json:"customerEmail"`
	ItemCount     int     `json:"itemCount"`
	TotalAmount   float64 `json:"totalAmount"`
	Currency      string  `json:"currency"`
	ReminderSent  bool    `json:"reminderSent"`
	// Items is populated on the single-cart endpoint; list responses
	// carry only ItemCount.
	Items     []OrderItem `json:"items,omitempty"`
	CreatedAt time.Time   `json:"createdAt"`
	UpdatedAt time.Time   `json:"updatedAt"`
}

// ShippingFee is one row of the shipping fee table (settings).
type ShippingFee struct {
	ID        string    `json:"id"`
	Region    string    `json:"region"`
	Carrier   string    `json:"carrier"`
	MinTotal  float64   `json:"minTotal"`
	Fee       float64   `json:"fee"`
	Currency  string    `json:"currency"`
	CreatedAt time.Time `json:"createdAt"`
}

// StoreSettings is the store profile edited on the settings page.
type StoreSettings struct {
	StoreName  string `json:"storeName"`
	Currency   string `json:"currency"`
	FooterHTML string `json:"footerHtml"`
}
