package debounce_test

import (
	"sync/atomic"
	"testing"
	"time"

	"github.com/merchdesk/merchdesk/internal/app/system/debounce"
)

func TestValue_OnlyLastOfBurstSettles(t *testing.T) {
	var calls atomic.Int32
	var last atomic.Value

	d := debounce.New[string](30*time.Millisecond, func(v string) {
		calls.Add(1)
		last.Store(v)
	})

	// A typing burst: each keystroke restarts the quiet period.
	for _, v := range []string{"m", "mu", "mug"} {
		d.Set(v)
		time.Sleep(5 * time.Millisecond)
	}

	time.Sleep(100 * time.Millisecond)

	if got := calls.Load(); got != 1 {
		t.Errorf("settle callbacks = %d, want 1", got)
	}
	if got, _ := last.Load().(string); got != "mug" {
		t.Errorf("settled value = %q, want mug", got)
	}
	if got := d.Latest(); got != "mug" {
		t.Errorf("Latest = %q, want mug", got)
	}
}

func TestValue_LatestLagsPendingValue(t *testing.T) {
	d := debounce.New[string](50*time.Millisecond, nil)
	d.Set("pending")
	if got := d.Latest(); got != "" {
		t.Errorf("Latest inside the quiet window = %q, want zero value", got)
	}
}

func TestValue_SeparatedSetsBothSettle(t *testing.T) {
	var calls atomic.Int32
	d := debounce.New[int](20*time.Millisecond, func(int) { calls.Add(1) })

	d.Set(1)
	time.Sleep(60 * time.Millisecond)
	d.Set(2)
	time.Sleep(60 * time.Millisecond)

	if got := calls.Load(); got != 2 {
		t.Errorf("settle callbacks = %d, want 2", got)
	}
	if got := d.Latest(); got != 2 {
		t.Errorf("Latest = %d, want 2", got)
	}
}
