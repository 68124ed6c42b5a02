package activity

import (
	"testing"
	"time"

	"github.com/merchdesk/merchdesk/internal/app/system/liststate"
)

func TestDateRange(t *testing.T) {
	now := time.Date(2026, 3, 10, 14, 30, 0, 0, time.Local)
	midnight := time.Date(2026, 3, 10, 0, 0, 0, 0, time.Local)

	t.Run("today", func(t *testing.T) {
		lo, hi := dateRange(liststate.DateToday, now)
		if lo == nil || !lo.Equal(midnight) {
			t.Errorf("lo = %v", lo)
		}
		if hi == nil || !hi.Equal(midnight.AddDate(0, 0, 1)) {
			t.Errorf("hi = %v", hi)
		}
	})

	t.Run("yesterday", func(t *testing.T) {
		lo, hi := dateRange(liststate.DateYest, now)
		if lo == nil || !lo.Equal(midnight.AddDate(0, 0, -1)) {
			t.Errorf("lo = %v", lo)
		}
		if hi == nil || !hi.Equal(midnight) {
			t.Errorf("hi = %v", hi)
		}
	})

	t.Run("last7days open-ended", func(t *testing.T) {
		lo, hi := dateRange(liststate.DateLast7, now)
		if lo == nil || !lo.Equal(midnight.AddDate(0, 0, -7)) {
			t.Errorf("lo = %v", lo)
		}
		if hi != nil {
			t.Errorf("hi = %v, want nil", hi)
		}
	})

	t.Run("last30days open-ended", func(t *testing.T) {
		lo, hi := dateRange(liststate.DateLast30, now)
		if lo == nil || !lo.Equal(midnight.AddDate(0, 0, -30)) {
			t.Errorf("lo = %v", lo)
		}
		if hi != nil {
			t.Errorf("hi = %v, want nil", hi)
		}
	})

	t.Run("all means no restriction", func(t *testing.T) {
		lo, hi := dateRange(liststate.DateAll, now)
		if lo != nil || hi != nil {
			t.Errorf("lo = %v, hi = %v, want nil/nil", lo, hi)
		}
	})
}
