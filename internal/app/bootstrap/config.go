// internal/app/bootstrap/config.go
package bootstrap

import (
	"fmt"
	"time"

	"github.com/dalemusser/waffle/config"
	wafflemongo "github.com/dalemusser/waffle/pantry/mongo"
	"go.uber.org/zap"
)

// appConfigKeys defines the configuration keys for MerchDesk.
// These are loaded via WAFFLE's config system with support for:
//   - Config files: backend_base_url, session_name, etc.
//   - Environment variables: MERCHDESK_BACKEND_BASE_URL, etc.
//   - Command-line flags: --backend_base_url, --session_name, etc.
var appConfigKeys = []config.AppKey{
	{Name: "backend_base_url", Default: "http://localhost:8080/v1", Desc: "Commerce backend API base URL"},
	{Name: "backend_timeout", Default: "10s", Desc: "Backend API request timeout"},
	{Name: "backend_service_token", Default: "", Desc: "Service token for background jobs (analytics refresh)"},

	{Name: "mongo_uri", Default: "mongodb://localhost:27017", Desc: "MongoDB connection URI"},
	{Name: "mongo_database", Default: "merchdesk", Desc: "MongoDB database name"},

	{Name: "session_key", Default: "dev-only-change-me-please-0123456789ABCDEF", Desc: "Session signing key (must be strong in production)"},
	{Name: "session_name", Default: "merchdesk-session", Desc: "Session cookie name"},
	{Name: "session_domain", Default: "", Desc: "Session cookie domain (blank means current host)"},

	{Name: "csrf_key", Default: "dev-only-32-byte-csrf-key-0123456", Desc: "32-byte CSRF signing key"},

	// Audit logging settings
	{Name: "audit_log_auth", Default: "all", Desc: "Auth event logging: 'all' (db+log), 'db', 'log', or 'off'"},
	{Name: "audit_log_admin", Default: "all", Desc: "Admin event logging: 'all' (db+log), 'db', 'log', or 'off'"},

	// Google OAuth configuration
	{Name: "google_client_id", Default: "", Desc: "Google OAuth2 client ID (blank disables Google sign-in)"},
	{Name: "google_client_secret", Default: "", Desc: "Google OAuth2 client secret"},
	{Name: "google_redirect_url", Default: "", Desc: "Google OAuth2 callback URL"},

	// Background workers
	{Name: "analytics_schedule", Default: "*/15 * * * *", Desc: "Cron schedule for analytics snapshot refresh"},
	{Name: "analytics_timeout", Default: "60s", Desc: "Timeout per analytics refresh"},
	{Name: "session_cleanup_interval", Default: "10m", Desc: "How often to close inactive sign-in sessions"},
	{Name: "session_inactive_threshold", Default: "12h", Desc: "Idle time after which a sign-in session is closed"},

	// Shipping fees
	{Name: "shipping_fees_source", Default: "static", Desc: "Shipping fee table source: 'static' (in-memory) or 'api' (backend)"},
}

// LoadConfig loads WAFFLE core config and app-specific config.
//
// WAFFLE's config.LoadWithAppConfig handles .env files, config
// files, MERCHDESK_* environment variables, and command-line flags,
// merging with precedence: flags > env > files > defaults.
func LoadConfig(logger *zap.Logger) (*config.CoreConfig, AppConfig, error) {
	coreCfg, appValues, err := config.LoadWithAppConfig(logger, "MERCHDESK", appConfigKeys)
	if err != nil {
		return nil, AppConfig{}, err
	}

	appCfg := AppConfig{
		BackendBaseURL:      appValues.String("backend_base_url"),
		BackendTimeout:      appValues.Duration("backend_timeout", 10*time.Second),
		BackendServiceToken: appValues.String("backend_service_token"),

		MongoURI:      appValues.String("mongo_uri"),
		MongoDatabase: appValues.String("mongo_database"),

		SessionKey:    appValues.String("session_key"),
		SessionName:   appValues.String("session_name"),
		SessionDomain: appValues.String("session_domain"),

		CSRFKey: appValues.String("csrf_key"),

		AuditLogAuth:  appValues.String("audit_log_auth"),
		AuditLogAdmin: appValues.String("audit_log_admin"),

		GoogleClientID:     appValues.String("google_client_id"),
		GoogleClientSecret: appValues.String("google_client_secret"),
		GoogleRedirectURL:  appValues.String("google_redirect_url"),

		AnalyticsSchedule: appValues.String("analytics_schedule"),
		AnalyticsTimeout:  appValues.Duration("analytics_timeout", time.Minute),

		SessionCleanupInterval:   appValues.Duration("session_cleanup_interval", 10*time.Minute),
		SessionInactiveThreshold: appValues.Duration("session_inactive_threshold", 12*time.Hour),

		ShippingFeesSource: appValues.String("shipping_fees_source"),
	}

	return coreCfg, appCfg, nil
}

// ValidateConfig performs app-specific config validation before any
// backends are dialed.
func ValidateConfig(coreCfg *config.CoreConfig, appCfg AppConfig, logger *zap.Logger) error {
	if err := wafflemongo.ValidateURI(appCfg.MongoURI); err != nil {
		logger.Error("invalid MongoDB URI", zap.Error(err))
		return fmt.Errorf("invalid MongoDB URI: %w", err)
	}

	if appCfg.BackendBaseURL == "" {
		return fmt.Errorf("backend_base_url is required")
	}
	if len(appCfg.CSRFKey) != 32 {
		return fmt.Errorf("csrf_key must be exactly 32 bytes, got %d", len(appCfg.CSRFKey))
	}
	if appCfg.ShippingFeesSource != "static" && appCfg.ShippingFeesSource != "api" {
		return fmt.Errorf("shipping_fees_source must be 'static' or 'api', got %q", appCfg.ShippingFeesSource)
	}
	if appCfg.GoogleClientID != "" && appCfg.GoogleRedirectURL == "" {
		return fmt.Errorf("google_redirect_url is required when google_client_id is set")
	}

	if coreCfg.Env == "prod" && appCfg.SessionKey == "dev-only-change-me-please-0123456789ABCDEF" {
		return fmt.Errorf("session_key must be changed from the dev default in production")
	}

	return nil
}
