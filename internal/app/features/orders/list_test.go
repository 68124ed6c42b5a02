package orders_test

import (
	"net/http"
	"sync"
	"sync/atomic"
	"testing"

	"github.com/merchdesk/merchdesk/internal/testutil"
)

// Two operators refresh the table at once and the first fetch is slow.
// Both must get their rows back; neither request suppresses the other.
func TestServeTableConcurrentOperators(t *testing.T) {
	var calls atomic.Int32
	firstStarted := make(chan struct{})
	release := make(chan struct{})

	fb := testutil.NewFakeBackend(t)
	fb.Handle("GET /orders", func(w http.ResponseWriter, r *http.Request) {
		if calls.Add(1) == 1 {
			close(firstStarted)
			<-release
		}
		fb.RespondList(w, sampleOrders(), 1, 25, 2)
	})

	h := newHandler(t, fb)

	recFirst := testutil.NewRecorder()
	reqFirst := testutil.NewAuthenticatedRequest(http.MethodGet, "/orders/table", testutil.ViewerUser())

	var wg sync.WaitGroup
	wg.Add(1)
	go func() {
		defer wg.Done()
		defer func() {
			// Template rendering may panic without a booted engine.
			_ = recover()
		}()
		h.ServeTable(recFirst.ResponseRecorder, reqFirst)
	}()

	<-firstStarted

	recSecond := testutil.NewRecorder()
	reqSecond := testutil.NewAuthenticatedRequest(http.MethodGet, "/orders/table", testutil.ManagerUser())
	func() {
		defer func() {
			// Template rendering may panic without a booted engine.
			_ = recover()
		}()
		h.ServeTable(recSecond.ResponseRecorder, reqSecond)
	}()

	close(release)
	wg.Wait()

	if recFirst.Code == http.StatusNoContent {
		t.Error("slow request got 204; its operator's table never updates")
	}
	if recSecond.Code == http.StatusNoContent {
		t.Error("overlapping request got 204; its operator's table never updates")
	}
}
