package analytics_test

import (
	"context"
	"net/http"
	"sync/atomic"
	"testing"
	"time"

	"github.com/merchdesk/merchdesk/internal/app/features/analytics"
	"github.com/merchdesk/merchdesk/internal/domain/models"
	"github.com/merchdesk/merchdesk/internal/testutil"
	"go.uber.org/zap"
)

func TestCacheRefreshAndSnapshot(t *testing.T) {
	fb := testutil.NewFakeBackend(t)
	fb.Handle("GET /analytics/summary", func(w http.ResponseWriter, r *http.Request) {
		fb.RespondData(w, models.AnalyticsSummary{
			TotalOrders:  42,
			TotalRevenue: 1234.56,
			Currency:     "EUR",
			GeneratedAt:  time.Date(2026, 3, 10, 8, 0, 0, 0, time.UTC),
		})
	})

	cache := analytics.NewCache(fb.Client().WithToken("svc-token"), zap.NewNop())

	if _, _, ok := cache.Snapshot(); ok {
		t.Fatal("Snapshot reported ok before any refresh")
	}
	if err := cache.Refresh(context.Background()); err != nil {
		t.Fatalf("Refresh: %v", err)
	}

	summary, fetchedAt, ok := cache.Snapshot()
	if !ok {
		t.Fatal("Snapshot not ok after refresh")
	}
	if summary.TotalOrders != 42 || summary.Currency != "EUR" {
		t.Errorf("summary = %+v", summary)
	}
	if fetchedAt.IsZero() {
		t.Error("fetchedAt not stamped")
	}
}

// A scheduled refresh and a manual one can overlap. If the older fetch
// finishes last, its response must not replace the newer snapshot.
func TestCacheOverlappingRefreshKeepsNewest(t *testing.T) {
	var calls atomic.Int32
	firstStarted := make(chan struct{})
	release := make(chan struct{})

	fb := testutil.NewFakeBackend(t)
	fb.Handle("GET /analytics/summary", func(w http.ResponseWriter, r *http.Request) {
		if calls.Add(1) == 1 {
			close(firstStarted)
			<-release
			fb.RespondData(w, models.AnalyticsSummary{TotalOrders: 1})
			return
		}
		fb.RespondData(w, models.AnalyticsSummary{TotalOrders: 2})
	})

	cache := analytics.NewCache(fb.Client().WithToken("svc-token"), zap.NewNop())

	done := make(chan error, 1)
	go func() {
		done <- cache.Refresh(context.Background())
	}()
	<-firstStarted

	if err := cache.Refresh(context.Background()); err != nil {
		t.Fatalf("second Refresh: %v", err)
	}

	close(release)
	if err := <-done; err != nil {
		t.Fatalf("first Refresh: %v", err)
	}

	summary, _, ok := cache.Snapshot()
	if !ok {
		t.Fatal("Snapshot not ok")
	}
	if summary.TotalOrders != 2 {
		t.Errorf("TotalOrders = %d, want the later fetch's value 2", summary.TotalOrders)
	}
}
