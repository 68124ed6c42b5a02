package models

// DefaultSiteName is shown until settings load.
const DefaultSiteName = "MerchDesk"

// AuthUser is the operator identity the backend returns on sign-in.
type AuthUser struct {
	ID    string `json:"id"`
	Name  string `json:"name"`
	Email string `json:"email"`
	Role  string `json:"role"` // viewer, agent, manager, admin
}

// LoginResponse is the payload of a successful credential exchange.
type LoginResponse struct {
	Token     string   `json:"token"`
	ExpiresIn int      `json:"expiresIn"` // seconds
	User      AuthUser `json:"user"`
}
