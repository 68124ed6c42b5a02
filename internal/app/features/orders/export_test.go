package orders_test

import (
	"net/http"
	"strings"
	"testing"
	"time"

	uierrors "github.com/merchdesk/merchdesk/internal/app/features/errors"
	"github.com/merchdesk/merchdesk/internal/app/features/orders"
	"github.com/merchdesk/merchdesk/internal/app/system/auth"
	"github.com/merchdesk/merchdesk/internal/domain/models"
	"github.com/merchdesk/merchdesk/internal/testutil"
	"go.uber.org/zap"
)

func newHandler(t *testing.T, fb *testutil.FakeBackend) *orders.Handler {
	t.Helper()
	tokens := auth.NewTokenCodec("test-session-key-32-bytes-long!!", false)
	return orders.NewHandler(fb.Client(), tokens, uierrors.NewErrorLogger(zap.NewNop()), nil, zap.NewNop())
}

func sampleOrders() []models.Order {
	placed := time.Date(2026, 3, 10, 9, 30, 0, 0, time.UTC)
	return []models.Order{
		{
			ID: "o1", Number: "ORD-1001", CustomerName: "Ada Byron",
			CustomerEmail: "ada@example.com", Status: models.OrderPaid,
			PaymentStatus: "captured", TotalAmount: 5, Currency: "EUR",
			ItemCount: 1, CreatedAt: placed,
		},
		{
			ID: "o2", Number: "ORD-1002", CustomerName: "Grace Hopper",
			CustomerEmail: "grace@example.com", Status: models.OrderPending,
			PaymentStatus: "pending", TotalAmount: 10, Currency: "EUR",
			ItemCount: 3, CreatedAt: placed.Add(time.Hour),
		},
	}
}

func TestServeExportCSV(t *testing.T) {
	fb := testutil.NewFakeBackend(t)
	fb.Handle("GET /orders", func(w http.ResponseWriter, r *http.Request) {
		if got := r.URL.Query().Get("status"); got != "paid" {
			t.Errorf("status filter = %q, want \"paid\"", got)
		}
		fb.RespondList(w, sampleOrders(), 1, 100, 2)
	})

	h := newHandler(t, fb)
	req := testutil.NewAuthenticatedRequest(http.MethodGet, "/orders/export.csv?status=paid", testutil.ViewerUser())
	rec := testutil.NewRecorder()
	h.ServeExportCSV(rec.ResponseRecorder, req)

	rec.AssertStatus(t, http.StatusOK)
	if ct := rec.Header().Get("Content-Type"); !strings.HasPrefix(ct, "text/csv") {
		t.Errorf("Content-Type = %q", ct)
	}
	if cd := rec.Header().Get("Content-Disposition"); !strings.Contains(cd, "orders-") {
		t.Errorf("Content-Disposition = %q", cd)
	}

	body := rec.Body.String()
	if !strings.Contains(body, "Order,Customer,Email,Status") {
		t.Errorf("missing header row in %q", body)
	}
	if !strings.Contains(body, "€5.00") || !strings.Contains(body, "€10.00") {
		t.Errorf("missing formatted totals in %q", body)
	}
	if !strings.Contains(body, "ORD-1001") || !strings.Contains(body, "Ada Byron") {
		t.Errorf("missing order rows in %q", body)
	}
}

func TestServeExportJSON(t *testing.T) {
	fb := testutil.NewFakeBackend(t)
	fb.Handle("GET /orders", func(w http.ResponseWriter, r *http.Request) {
		fb.RespondList(w, sampleOrders(), 1, 100, 2)
	})

	h := newHandler(t, fb)
	req := testutil.NewAuthenticatedRequest(http.MethodGet, "/orders/export.json", testutil.AgentUser())
	rec := testutil.NewRecorder()
	h.ServeExportJSON(rec.ResponseRecorder, req)

	rec.AssertStatus(t, http.StatusOK)
	if ct := rec.Header().Get("Content-Type"); !strings.HasPrefix(ct, "application/json") {
		t.Errorf("Content-Type = %q", ct)
	}
	body := rec.Body.String()
	if !strings.Contains(body, `"ORD-1002"`) || !strings.Contains(body, `"Grace Hopper"`) {
		t.Errorf("missing order data in %q", body)
	}
}

func TestServeExportSortAndDateFilter(t *testing.T) {
	now := time.Now()
	seed := []models.Order{
		{ID: "a", Number: "ORD-A", CustomerName: "A", Status: models.OrderPaid,
			TotalAmount: 10.00, Currency: "EUR", CreatedAt: now},
		{ID: "b", Number: "ORD-B", CustomerName: "B", Status: models.OrderPaid,
			TotalAmount: 25.50, Currency: "EUR", CreatedAt: now.AddDate(0, 0, -1)},
		{ID: "c", Number: "ORD-C", CustomerName: "C", Status: models.OrderPaid,
			TotalAmount: 5.00, Currency: "EUR", CreatedAt: now.AddDate(0, 0, -8)},
	}

	fb := testutil.NewFakeBackend(t)
	fb.Handle("GET /orders", func(w http.ResponseWriter, r *http.Request) {
		fb.RespondList(w, seed, 1, 100, 3)
	})

	h := newHandler(t, fb)
	req := testutil.NewAuthenticatedRequest(http.MethodGet,
		"/orders/export.csv?sort=totalAmount&dir=asc&date=last7days", testutil.ViewerUser())
	rec := testutil.NewRecorder()
	h.ServeExportCSV(rec.ResponseRecorder, req)

	rec.AssertStatus(t, http.StatusOK)
	body := rec.Body.String()
	if strings.Contains(body, "ORD-C") {
		t.Errorf("8-day-old order not filtered out: %q", body)
	}
	ten := strings.Index(body, "€10.00")
	twentyFive := strings.Index(body, "€25.50")
	if ten == -1 || twentyFive == -1 {
		t.Fatalf("missing amounts in %q", body)
	}
	if ten > twentyFive {
		t.Error("rows not sorted ascending by amount")
	}
}

func TestServeExportPagesThroughBackend(t *testing.T) {
	all := sampleOrders()
	fb := testutil.NewFakeBackend(t)
	fb.Handle("GET /orders", func(w http.ResponseWriter, r *http.Request) {
		// Two pages of one order each.
		switch r.URL.Query().Get("page") {
		case "1":
			fb.RespondList(w, all[:1], 1, 1, 2)
		case "2":
			fb.RespondList(w, all[1:], 2, 1, 2)
		default:
			t.Errorf("unexpected page %q", r.URL.Query().Get("page"))
			fb.RespondList(w, nil, 3, 1, 2)
		}
	})

	h := newHandler(t, fb)
	req := testutil.NewAuthenticatedRequest(http.MethodGet, "/orders/export.csv", testutil.ViewerUser())
	rec := testutil.NewRecorder()
	h.ServeExportCSV(rec.ResponseRecorder, req)

	rec.AssertStatus(t, http.StatusOK)
	body := rec.Body.String()
	if !strings.Contains(body, "ORD-1001") || !strings.Contains(body, "ORD-1002") {
		t.Errorf("expected both pages in export, got %q", body)
	}
}
