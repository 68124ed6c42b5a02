package orders

import (
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	uierrors "github.com/merchdesk/merchdesk/internal/app/features/errors"
	"github.com/merchdesk/merchdesk/internal/app/system/auth"
	"github.com/merchdesk/merchdesk/internal/app/system/liststate"
	"github.com/merchdesk/merchdesk/internal/domain/models"
	"github.com/merchdesk/merchdesk/internal/testutil"
	"go.uber.org/zap"
)

// The cap check runs before each page is appended, so a fat page could
// push the result past exportLimit. fetchAll must hand back no more
// than the cap.
func TestFetchAllCapsAtExportLimit(t *testing.T) {
	pageRows := func(page, n int) []models.Order {
		rows := make([]models.Order, n)
		for i := range rows {
			rows[i] = models.Order{ID: fmt.Sprintf("o-%d-%d", page, i), Currency: "EUR"}
		}
		return rows
	}

	// Two pages totalling exportLimit+50 rows.
	fb := testutil.NewFakeBackend(t)
	fb.Handle("GET /orders", func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Query().Get("page") {
		case "1":
			fb.RespondList(w, pageRows(1, exportLimit-50), 1, exportLimit-50, exportLimit+50)
		case "2":
			fb.RespondList(w, pageRows(2, 100), 2, exportLimit-50, exportLimit+50)
		default:
			t.Errorf("unexpected page %q", r.URL.Query().Get("page"))
			fb.RespondList(w, nil, 3, exportLimit-50, exportLimit+50)
		}
	})

	h := NewHandler(fb.Client(), auth.NewTokenCodec("test-session-key-32-bytes-long!!", false),
		uierrors.NewErrorLogger(zap.NewNop()), nil, zap.NewNop())

	req := httptest.NewRequest(http.MethodGet, "/orders/export.csv", nil)
	state := liststate.FromQuery(req, "createdAt", liststate.Desc)

	all, err := h.fetchAll(req.Context(), req, state)
	if err != nil {
		t.Fatalf("fetchAll: %v", err)
	}
	if len(all) != exportLimit {
		t.Errorf("len = %d, want exactly %d", len(all), exportLimit)
	}
}
