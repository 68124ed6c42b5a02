// internal/app/bootstrap/routes.go
package bootstrap

import (
	"net/http"

	"github.com/dalemusser/waffle/config"
	"github.com/dalemusser/waffle/pantry/fileserver"
	"github.com/dalemusser/waffle/pantry/templates"
	"github.com/go-chi/chi/v5"
	"github.com/gorilla/csrf"
	activityfeature "github.com/merchdesk/merchdesk/internal/app/features/activity"
	analyticsfeature "github.com/merchdesk/merchdesk/internal/app/features/analytics"
	cartsfeature "github.com/merchdesk/merchdesk/internal/app/features/carts"
	customersfeature "github.com/merchdesk/merchdesk/internal/app/features/customers"
	dashboardfeature "github.com/merchdesk/merchdesk/internal/app/features/dashboard"
	discountsfeature "github.com/merchdesk/merchdesk/internal/app/features/discounts"
	errorsfeature "github.com/merchdesk/merchdesk/internal/app/features/errors"
	healthfeature "github.com/merchdesk/merchdesk/internal/app/features/health"
	homefeature "github.com/merchdesk/merchdesk/internal/app/features/home"
	loginfeature "github.com/merchdesk/merchdesk/internal/app/features/login"
	logoutfeature "github.com/merchdesk/merchdesk/internal/app/features/logout"
	ordersfeature "github.com/merchdesk/merchdesk/internal/app/features/orders"
	paymentsfeature "github.com/merchdesk/merchdesk/internal/app/features/payments"
	productsfeature "github.com/merchdesk/merchdesk/internal/app/features/products"
	refundsfeature "github.com/merchdesk/merchdesk/internal/app/features/refunds"
	reportsfeature "github.com/merchdesk/merchdesk/internal/app/features/reports"
	settingsfeature "github.com/merchdesk/merchdesk/internal/app/features/settings"
	shipmentsfeature "github.com/merchdesk/merchdesk/internal/app/features/shipments"
	transactionsfeature "github.com/merchdesk/merchdesk/internal/app/features/transactions"
	"github.com/merchdesk/merchdesk/internal/app/store/audit"
	sessionstore "github.com/merchdesk/merchdesk/internal/app/store/sessions"
	"github.com/merchdesk/merchdesk/internal/app/system/auditlog"
	"github.com/merchdesk/merchdesk/internal/app/system/auth"
	"go.uber.org/zap"
	"golang.org/x/oauth2"
	"golang.org/x/oauth2/endpoints"
)

// BuildHandler constructs the root HTTP handler (router) for this
// WAFFLE app.
//
// WAFFLE calls this after configuration, DB connections, schema setup,
// and the Startup hook have completed, so the analytics cache and
// background workers already exist.
func BuildHandler(coreCfg *config.CoreConfig, appCfg AppConfig, deps DBDeps, logger *zap.Logger) (http.Handler, error) {
	// Secure cookies are enabled in production mode.
	secure := coreCfg.Env == "prod"
	sessionMgr, err := auth.NewSessionManager(appCfg.SessionKey, appCfg.SessionName, appCfg.SessionDomain, secure, logger)
	if err != nil {
		logger.Error("session manager init failed", zap.Error(err))
		return nil, err
	}

	// The backend bearer token rides in its own securecookie, separate
	// from the session, so it can expire on the backend's schedule.
	tokens := auth.NewTokenCodec(appCfg.SessionKey, secure)

	// Initialize and boot the template engine once at startup.
	// Dev mode enables template reloading for faster iteration.
	eng := templates.New(coreCfg.Env == "dev")
	if err := eng.Boot(logger); err != nil {
		logger.Error("template engine boot failed", zap.Error(err))
		return nil, err
	}
	templates.UseEngine(eng, logger)

	errLog := errorsfeature.NewErrorLogger(logger)

	auditStore := audit.New(deps.MongoDatabase)
	auditLog := auditlog.New(auditStore, logger, auditlog.Config{
		Auth:  appCfg.AuditLogAuth,
		Admin: appCfg.AuditLogAdmin,
	})
	sessStore := sessionstore.New(deps.MongoDatabase)

	var googleOAuth *oauth2.Config
	if appCfg.GoogleClientID != "" {
		googleOAuth = &oauth2.Config{
			ClientID:     appCfg.GoogleClientID,
			ClientSecret: appCfg.GoogleClientSecret,
			RedirectURL:  appCfg.GoogleRedirectURL,
			Scopes:       []string{"openid", "email", "profile"},
			Endpoint:     endpoints.Google,
		}
	}

	r := chi.NewRouter()

	// Every POST form carries a gorilla/csrf token (viewdata.BaseVM).
	r.Use(csrf.Protect([]byte(appCfg.CSRFKey), csrf.Secure(secure), csrf.Path("/")))

	// Global auth middleware: loads SessionUser into context if logged in.
	r.Use(sessionMgr.LoadSessionUser)

	// Health check endpoint for load balancers and orchestrators
	healthHandler := healthfeature.NewHandler(deps.MongoClient, deps.Backend, logger)
	r.Mount("/health", healthfeature.Routes(healthHandler))

	// Static assets with pre-compressed file support (gzip/brotli)
	r.Handle("/static/*", fileserver.Handler("/static", "public"))

	homeHandler := homefeature.NewHandler(logger)
	r.Mount("/", homefeature.Routes(homeHandler))

	// Authentication
	loginHandler := loginfeature.NewHandler(deps.Backend, sessionMgr, tokens, errLog, auditLog, sessStore, googleOAuth, logger)
	r.Mount("/login", loginfeature.Routes(loginHandler))

	logoutHandler := logoutfeature.NewHandler(sessionMgr, tokens, auditLog, sessStore, logger)
	r.Mount("/logout", logoutfeature.Routes(logoutHandler))

	// Error pages
	errorsHandler := errorsfeature.NewHandler()
	r.Get("/forbidden", errorsHandler.Forbidden)
	r.Get("/unauthorized", errorsHandler.Unauthorized)
	r.NotFound(errorsHandler.NotFound)

	dashboardHandler := dashboardfeature.NewHandler(deps.Backend, tokens, errLog, logger)
	r.Mount("/dashboard", dashboardfeature.Routes(dashboardHandler, sessionMgr))

	// Commerce resources
	ordersHandler := ordersfeature.NewHandler(deps.Backend, tokens, errLog, auditLog, logger)
	r.Mount("/orders", ordersfeature.Routes(ordersHandler, sessionMgr))

	productsHandler := productsfeature.NewHandler(deps.Backend, tokens, errLog, auditLog, logger)
	r.Mount("/products", productsfeature.Routes(productsHandler, sessionMgr))

	customersHandler := customersfeature.NewHandler(deps.Backend, tokens, errLog, auditLog, logger)
	r.Mount("/customers", customersfeature.Routes(customersHandler, sessionMgr))

	discountsHandler := discountsfeature.NewHandler(deps.Backend, tokens, errLog, auditLog, logger)
	r.Mount("/discounts", discountsfeature.Routes(discountsHandler, sessionMgr))

	paymentsHandler := paymentsfeature.NewHandler(deps.Backend, tokens, errLog, auditLog, logger)
	r.Mount("/payments", paymentsfeature.Routes(paymentsHandler, sessionMgr))

	refundsHandler := refundsfeature.NewHandler(deps.Backend, tokens, errLog, auditLog, logger)
	r.Mount("/refunds", refundsfeature.Routes(refundsHandler, sessionMgr))

	shipmentsHandler := shipmentsfeature.NewHandler(deps.Backend, tokens, errLog, auditLog, logger)
	r.Mount("/shipments", shipmentsfeature.Routes(shipmentsHandler, sessionMgr))

	cartsHandler := cartsfeature.NewHandler(deps.Backend, tokens, errLog, auditLog, logger)
	r.Mount("/carts", cartsfeature.Routes(cartsHandler, sessionMgr))

	transactionsHandler := transactionsfeature.NewHandler(deps.Backend, tokens, errLog, auditLog, logger)
	r.Mount("/transactions", transactionsfeature.Routes(transactionsHandler, sessionMgr))

	// Dashboard-own data
	activityHandler := activityfeature.NewHandler(auditStore, errLog, auditLog, logger)
	r.Mount("/activity", activityfeature.Routes(activityHandler, sessionMgr))

	analyticsHandler := analyticsfeature.NewHandler(analyticsCache, errLog, logger)
	r.Mount("/analytics", analyticsfeature.Routes(analyticsHandler, sessionMgr))

	reportsHandler := reportsfeature.NewHandler(deps.Backend, tokens, errLog, auditLog, logger)
	r.Mount("/reports", reportsfeature.Routes(reportsHandler, sessionMgr))

	feeSource := settingsfeature.NewFeeSource(appCfg.ShippingFeesSource)
	settingsHandler := settingsfeature.NewHandler(deps.Backend, tokens, feeSource, errLog, auditLog, logger)
	r.Mount("/settings", settingsfeature.Routes(settingsHandler, sessionMgr))

	return r, nil
}
