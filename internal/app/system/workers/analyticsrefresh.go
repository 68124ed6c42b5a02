package workers

import (
	"context"
	"time"

	"github.com/robfig/cron/v3"
	"go.uber.org/zap"
)

// Refresher is anything that can rebuild a cached snapshot. The
// analytics feature implements it over the backend API.
type Refresher interface {
	Refresh(ctx context.Context) error
}

// AnalyticsRefresh re-pulls analytics snapshots on a cron schedule so
// the dashboard page serves from cache instead of hammering the
// backend on every view.
type AnalyticsRefresh struct {
	refresher Refresher
	log       *zap.Logger
	spec      string
	timeout   time.Duration
	cron      *cron.Cron
}

// NewAnalyticsRefresh creates the worker. spec is a standard cron
// expression (e.g. "*/15 * * * *").
func NewAnalyticsRefresh(r Refresher, logger *zap.Logger, spec string, timeout time.Duration) *AnalyticsRefresh {
	return &AnalyticsRefresh{
		refresher: r,
		log:       logger,
		spec:      spec,
		timeout:   timeout,
		cron:      cron.New(),
	}
}

// Start schedules the refresh job and runs one refresh immediately so
// the first page view has data.
func (w *AnalyticsRefresh) Start() error {
	if _, err := w.cron.AddFunc(w.spec, w.refresh); err != nil {
		return err
	}
	w.cron.Start()
	go w.refresh()
	w.log.Info("analytics refresh worker started", zap.String("schedule", w.spec))
	return nil
}

// Stop halts the schedule and waits for a running refresh to finish.
func (w *AnalyticsRefresh) Stop() {
	ctx := w.cron.Stop()
	<-ctx.Done()
	w.log.Info("analytics refresh worker stopped")
}

func (w *AnalyticsRefresh) refresh() {
	ctx, cancel := context.WithTimeout(context.Background(), w.timeout)
	defer cancel()

	if err := w.refresher.Refresh(ctx); err != nil {
		w.log.Error("analytics refresh failed", zap.Error(err))
		return
	}
	w.log.Debug("analytics snapshot refreshed")
}
