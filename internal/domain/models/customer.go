package models

import "time"

// Customer is one registered buyer.
type Customer struct {
	ID         string    `json:"id"`
	Name       string    `json:"name"`
	Email      string    `json:"email"`
	Phone      string    `json:"phone"`
	Status     string    `json:"status"` // active, disabled
	OrderCount int       `json:"orderCount"`
	TotalSpent float64   `json:"totalSpent"`
	Currency   string    `json:"currency"`
	CreatedAt  time.Time `json:"createdAt"`
	UpdatedAt  time.Time `json:"updatedAt"`
}
