// internal/app/bootstrap/startup.go
package bootstrap

import (
	"context"

	"github.com/dalemusser/waffle/config"
	analyticsfeature "github.com/merchdesk/merchdesk/internal/app/features/analytics"
	"github.com/merchdesk/merchdesk/internal/app/resources"
	sessionstore "github.com/merchdesk/merchdesk/internal/app/store/sessions"
	"github.com/merchdesk/merchdesk/internal/app/system/workers"
	"go.uber.org/zap"
)

// Background workers and shared state created in Startup and used by
// BuildHandler and Shutdown. WAFFLE's hooks run in sequence on one
// goroutine, so plain package variables are safe here.
var (
	analyticsCache  *analyticsfeature.Cache
	analyticsWorker *workers.AnalyticsRefresh
	sessionCleanup  *workers.SessionCleanup
)

// Startup runs one-time application initialization after DB connections
// and schema setup are complete, but before the HTTP handler is built.
// It registers the shared templates and starts the background workers.
func Startup(ctx context.Context, coreCfg *config.CoreConfig, appCfg AppConfig, deps DBDeps, logger *zap.Logger) error {
	resources.LoadSharedTemplates()

	analyticsCache = analyticsfeature.NewCache(deps.Backend.WithToken(appCfg.BackendServiceToken), logger)
	analyticsWorker = workers.NewAnalyticsRefresh(analyticsCache, logger, appCfg.AnalyticsSchedule, appCfg.AnalyticsTimeout)
	if err := analyticsWorker.Start(); err != nil {
		return err
	}

	sessionCleanup = workers.NewSessionCleanup(sessionstore.New(deps.MongoDatabase), logger,
		appCfg.SessionCleanupInterval, appCfg.SessionInactiveThreshold)
	sessionCleanup.Start()

	return nil
}
