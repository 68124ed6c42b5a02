package analytics

import (
	"context"
	"sync"
	"time"

	"github.com/merchdesk/merchdesk/internal/app/backend"
	"github.com/merchdesk/merchdesk/internal/app/system/debounce"
	"github.com/merchdesk/merchdesk/internal/app/system/timeouts"
	"github.com/merchdesk/merchdesk/internal/domain/models"
	"go.uber.org/zap"
)

// refreshQuiet coalesces operator refresh clicks: a burst settles into
// one backend fetch after this quiet period.
const refreshQuiet = 2 * time.Second

// Cache holds the most recent analytics snapshot. The refresh worker
// rebuilds it on a schedule with the service token; page views read
// whatever copy is present and never call the backend themselves.
type Cache struct {
	api *backend.Caller
	log *zap.Logger

	mu        sync.RWMutex
	summary   *models.AnalyticsSummary
	fetchedAt time.Time

	seq    backend.Sequencer
	manual *debounce.Value[time.Time]
}

// NewCache creates a cache that refreshes through api. The token on api
// must be a service credential, not a per-request session token.
func NewCache(api *backend.Caller, logger *zap.Logger) *Cache {
	c := &Cache{api: api, log: logger}
	c.manual = debounce.New(refreshQuiet, func(time.Time) {
		ctx, cancel := context.WithTimeout(context.Background(), timeouts.Long())
		defer cancel()
		if err := c.Refresh(ctx); err != nil {
			c.log.Warn("manual analytics refresh failed", zap.Error(err))
		}
	})
	return c
}

// RequestRefresh schedules a refresh outside the worker schedule. Bursts
// of requests settle into a single backend fetch.
func (c *Cache) RequestRefresh() {
	c.manual.Set(time.Now())
}

// Refresh pulls a fresh snapshot from the backend. It satisfies
// workers.Refresher. Scheduled and manual refreshes can overlap; a
// fetch superseded while in flight is discarded so it cannot replace a
// newer snapshot.
func (c *Cache) Refresh(ctx context.Context) error {
	gen := c.seq.Begin()

	summary, err := backend.Get[models.AnalyticsSummary](ctx, c.api, "/analytics/summary")
	if err != nil {
		return err
	}

	if c.seq.Stale(gen) {
		return nil
	}

	c.mu.Lock()
	c.summary = &summary
	c.fetchedAt = time.Now()
	c.mu.Unlock()

	c.log.Debug("analytics snapshot cached",
		zap.Int("totalOrders", summary.TotalOrders),
		zap.Time("generatedAt", summary.GeneratedAt))
	return nil
}

// Snapshot returns the cached summary and when it was fetched. ok is
// false until the first successful refresh.
func (c *Cache) Snapshot() (summary models.AnalyticsSummary, fetchedAt time.Time, ok bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	if c.summary == nil {
		return models.AnalyticsSummary{}, time.Time{}, false
	}
	return *c.summary, c.fetchedAt, true
}
