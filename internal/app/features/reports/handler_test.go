package reports

import (
	"net/http/httptest"
	"testing"
	"time"

	"github.com/merchdesk/merchdesk/internal/domain/models"
)

func TestWindowDefaultsToLast30Days(t *testing.T) {
	r := httptest.NewRequest("GET", "/reports", nil)
	start, end, errMsg := window(r)
	if errMsg != "" {
		t.Errorf("errMsg = %q", errMsg)
	}
	if got := end.Sub(start); got != 30*24*time.Hour {
		t.Errorf("window span = %v, want 720h", got)
	}
}

func TestWindowParsesExplicitDates(t *testing.T) {
	r := httptest.NewRequest("GET", "/reports?start=2026-03-01&end=2026-03-07", nil)
	start, end, errMsg := window(r)
	if errMsg != "" {
		t.Fatalf("errMsg = %q", errMsg)
	}
	if start.Format(dateLayout) != "2026-03-01" {
		t.Errorf("start = %v", start)
	}
	// End is exclusive: the chosen end day itself is included.
	if end.Format(dateLayout) != "2026-03-08" {
		t.Errorf("end = %v", end)
	}
}

func TestWindowRejectsBadInput(t *testing.T) {
	cases := []struct {
		name, url string
	}{
		{"malformed date", "/reports?start=march-1&end=2026-03-07"},
		{"missing end", "/reports?start=2026-03-01"},
		{"end before start", "/reports?start=2026-03-07&end=2026-03-01"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			r := httptest.NewRequest("GET", tc.url, nil)
			start, end, errMsg := window(r)
			if errMsg == "" {
				t.Fatal("expected an error message")
			}
			// Falls back to the default window.
			if got := end.Sub(start); got != 30*24*time.Hour {
				t.Errorf("window span = %v, want default", got)
			}
		})
	}
}

func TestTotals(t *testing.T) {
	rows := []models.ReportRow{
		{Date: "2026-03-01", Orders: 3, Revenue: 120.50, Refunds: 0, Currency: "EUR"},
		{Date: "2026-03-02", Orders: 1, Revenue: 19.50, Refunds: 5, Currency: "EUR"},
	}
	got := totals(rows)
	if got.Orders != "4" {
		t.Errorf("Orders = %q", got.Orders)
	}
	if got.Revenue != "€140.00" {
		t.Errorf("Revenue = %q", got.Revenue)
	}
	if got.Refunds != "€5.00" {
		t.Errorf("Refunds = %q", got.Refunds)
	}
}

func TestTotalsEmpty(t *testing.T) {
	got := totals(nil)
	if got.Orders != "0" {
		t.Errorf("Orders = %q", got.Orders)
	}
}
