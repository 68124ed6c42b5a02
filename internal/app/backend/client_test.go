package backend_test

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/merchdesk/merchdesk/internal/app/backend"
	"go.uber.org/zap"
)

type widget struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}

func newServer(t *testing.T, h http.HandlerFunc) *backend.Client {
	t.Helper()
	srv := httptest.NewServer(h)
	t.Cleanup(srv.Close)
	return backend.New(srv.URL, 5*time.Second, zap.NewNop())
}

func TestList_DecodesEnvelope(t *testing.T) {
	client := newServer(t, func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/widgets" {
			t.Errorf("path = %q", r.URL.Path)
		}
		q := r.URL.Query()
		if q.Get("page") != "2" || q.Get("limit") != "10" || q.Get("sortBy") != "name" ||
			q.Get("sortOrder") != "asc" || q.Get("search") != "mug" || q.Get("status") != "active" {
			t.Errorf("query = %v", q)
		}
		if got := r.Header.Get("Authorization"); got != "Bearer tok-123" {
			t.Errorf("Authorization = %q", got)
		}
		json.NewEncoder(w).Encode(map[string]any{
			"success": true,
			"data": map[string]any{
				"data": []widget{{ID: "w1", Name: "Mug"}, {ID: "w2", Name: "Plate"}},
				"pagination": map[string]int{
					"page": 2, "limit": 10, "total": 12, "totalPages": 2,
				},
			},
		})
	})

	page, err := backend.List[widget](context.Background(), client.WithToken("tok-123"), "/widgets", backend.ListParams{
		Page: 2, Limit: 10, SortBy: "name", SortOrder: "asc", Search: "mug",
		Filters: map[string]string{"status": "active", "empty": ""},
	})
	if err != nil {
		t.Fatal(err)
	}
	if len(page.Items) != 2 || page.Items[0].Name != "Mug" {
		t.Errorf("items = %+v", page.Items)
	}
	if page.Pagination.Total != 12 || page.Pagination.TotalPages != 2 {
		t.Errorf("pagination = %+v", page.Pagination)
	}
}

func TestGet_DecodesData(t *testing.T) {
	client := newServer(t, func(w http.ResponseWriter, r *http.Request) {
		json.NewEncoder(w).Encode(map[string]any{
			"success": true,
			"data":    widget{ID: "w1", Name: "Mug"},
		})
	})
	got, err := backend.Get[widget](context.Background(), client.WithToken(""), "/widgets/w1")
	if err != nil {
		t.Fatal(err)
	}
	if got.ID != "w1" {
		t.Errorf("got = %+v", got)
	}
}

func TestErrorEnvelope_SurfacesServerMessage(t *testing.T) {
	client := newServer(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
		json.NewEncoder(w).Encode(map[string]any{
			"success": false,
			"error":   "order not found",
		})
	})
	_, err := backend.Get[widget](context.Background(), client.WithToken(""), "/widgets/missing")
	if err == nil {
		t.Fatal("expected error")
	}
	if !backend.IsNotFound(err) {
		t.Errorf("IsNotFound = false for %v", err)
	}
	if got := backend.UserMessage(err, "fallback"); got != "order not found" {
		t.Errorf("UserMessage = %q", got)
	}
}

func TestSuccessFalseWith200IsStillAnError(t *testing.T) {
	client := newServer(t, func(w http.ResponseWriter, r *http.Request) {
		json.NewEncoder(w).Encode(map[string]any{"success": false, "error": "quota exceeded"})
	})
	_, err := backend.Get[widget](context.Background(), client.WithToken(""), "/widgets/w1")
	if err == nil {
		t.Fatal("expected error for success=false")
	}
	if got := backend.UserMessage(err, "fallback"); got != "quota exceeded" {
		t.Errorf("UserMessage = %q", got)
	}
}

func TestNonJSONErrorResponse(t *testing.T) {
	client := newServer(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
		w.Write([]byte("<html>bad gateway</html>"))
	})
	_, err := backend.Get[widget](context.Background(), client.WithToken(""), "/widgets/w1")
	if err == nil {
		t.Fatal("expected error")
	}
	// The server sent no usable message, so the fallback wins.
	if got := backend.UserMessage(err, "backend unavailable"); got != "backend unavailable" {
		t.Errorf("UserMessage = %q", got)
	}
}

func TestIsUnauthorized(t *testing.T) {
	client := newServer(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
		json.NewEncoder(w).Encode(map[string]any{"success": false, "error": "token expired"})
	})
	_, err := backend.Get[widget](context.Background(), client.WithToken("stale"), "/widgets/w1")
	if !backend.IsUnauthorized(err) {
		t.Errorf("IsUnauthorized = false for %v", err)
	}
}

func TestDelete(t *testing.T) {
	var method string
	client := newServer(t, func(w http.ResponseWriter, r *http.Request) {
		method = r.Method
		json.NewEncoder(w).Encode(map[string]any{"success": true})
	})
	if err := backend.Delete(context.Background(), client.WithToken(""), "/widgets/w1"); err != nil {
		t.Fatal(err)
	}
	if method != http.MethodDelete {
		t.Errorf("method = %q", method)
	}
}

func TestPing(t *testing.T) {
	client := newServer(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusServiceUnavailable)
	})
	// Any HTTP response counts as reachable.
	if err := client.Ping(context.Background()); err != nil {
		t.Errorf("Ping = %v", err)
	}
}

func TestSequencer(t *testing.T) {
	var seq backend.Sequencer

	g1 := seq.Begin()
	if seq.Stale(g1) {
		t.Error("only fetch reported stale")
	}

	g2 := seq.Begin()
	if !seq.Stale(g1) {
		t.Error("superseded fetch not reported stale")
	}
	if seq.Stale(g2) {
		t.Error("newest fetch reported stale")
	}
}
