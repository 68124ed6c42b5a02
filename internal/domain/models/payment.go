package models

import "time"

// Payment is one captured or attempted charge.
type Payment struct {
	ID        string    `json:"id"`
	OrderID   string    `json:"orderId"`
	Provider  string    `json:"provider"`
	Method    string    `json:"method"` // card, transfer, wallet
	Status    string    `json:"status"` // pending, succeeded, failed
	Amount    float64   `json:"amount"`
	Currency  string    `json:"currency"`
	Reference string    `json:"reference"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

// Refund is one full or partial refund against a payment.
type Refund struct {
	ID        string    `json:"id"`
	PaymentID string    `json:"paymentId"`
	OrderID   string    `json:"orderId"`
	Status    string    `json:"status"` // pending, completed, rejected
	Amount    float64   `json:"amount"`
	Currency  string    `json:"currency"`
	Reason    string    `json:"reason"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

// RefundInput is the create payload for a refund.
type RefundInput struct {
	PaymentID string  `json:"paymentId"`
	Amount    float64 `json:"amount"`
	Reason    string  `json:"reason"`
}

// Transaction is one ledger entry (charge, refund, payout, fee).
type Transaction struct {
	ID        string    `json:"id"`
	OrderID   string    `json:"orderId"`
	Type      string    `json:"type"` // charge, refund, payout, fee
	Status    string    `json:"status"`
	Amount    float64   `json:"amount"`
	Currency  string    `json:"currency"`
	Reference string    `json:"reference"`
	CreatedAt time.Time `json:"createdAt"`
}
