// internal/app/bootstrap/appconfig.go
package bootstrap

import "time"

// AppConfig holds service-specific configuration for this WAFFLE app.
//
// WAFFLE's CoreConfig covers framework-level settings (ports, TLS, log
// level); AppConfig is everything specific to MerchDesk: where the
// commerce backend lives, the dashboard's own Mongo database, session
// cookies, and the background worker schedules.
type AppConfig struct {
	// Commerce backend API
	BackendBaseURL      string        // e.g. https://api.example-store.com/v1
	BackendTimeout      time.Duration // per-request HTTP timeout
	BackendServiceToken string        // service credential for background refresh

	// MongoDB (dashboard-own data: sign-in sessions, audit events)
	MongoURI      string
	MongoDatabase string

	// Session management
	SessionKey    string // signing key for session and token cookies
	SessionName   string // session cookie name
	SessionDomain string // cookie domain (blank means current host)

	// CSRF
	CSRFKey string // 32-byte key for gorilla/csrf

	// Audit logging: "all" (db+log), "db", "log", or "off"
	AuditLogAuth  string
	AuditLogAdmin string

	// Google OAuth sign-in (optional; blank client ID disables it)
	GoogleClientID     string
	GoogleClientSecret string
	GoogleRedirectURL  string

	// Analytics snapshot refresh
	AnalyticsSchedule string        // cron expression
	AnalyticsTimeout  time.Duration // per-refresh timeout

	// Sign-in session cleanup
	SessionCleanupInterval   time.Duration
	SessionInactiveThreshold time.Duration

	// Shipping fee table source: "static" or "api"
	ShippingFeesSource string
}
