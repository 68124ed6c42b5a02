package testutil

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/merchdesk/merchdesk/internal/app/backend"
	"go.uber.org/zap"
)

// WithChiURLParam adds a chi URL parameter to the request context.
// Use this in handler tests that need to access chi.URLParam values.
func WithChiURLParam(r *http.Request, key, value string) *http.Request {
	rctx := chi.NewRouteContext()
	rctx.URLParams.Add(key, value)
	return r.WithContext(context.WithValue(r.Context(), chi.RouteCtxKey, rctx))
}

// FakeBackend is an httptest server that speaks the commerce backend's
// envelope format. Register handlers per path, then build a client
// against it with Client.
type FakeBackend struct {
	t      *testing.T
	mux    *http.ServeMux
	Server *httptest.Server
}

// NewFakeBackend creates a fake backend server. It is shut down when
// the test ends.
func NewFakeBackend(t *testing.T) *FakeBackend {
	t.Helper()
	mux := http.NewServeMux()
	srv := httptest.NewServer(mux)
	t.Cleanup(srv.Close)
	return &FakeBackend{t: t, mux: mux, Server: srv}
}

// Client builds a backend client pointed at the fake server.
func (f *FakeBackend) Client() *backend.Client {
	return backend.New(f.Server.URL, 5*time.Second, zap.NewNop())
}

// Handle registers a handler for pattern (e.g. "GET /orders").
func (f *FakeBackend) Handle(pattern string, h http.HandlerFunc) {
	f.mux.HandleFunc(pattern, h)
}

// RespondList writes a successful list envelope with paging metadata.
// List endpoints nest rows and pagination inside the data field.
func (f *FakeBackend) RespondList(w http.ResponseWriter, items any, page, limit, total int) {
	totalPages := (total + limit - 1) / limit
	if totalPages < 1 {
		totalPages = 1
	}
	writeJSON(f.t, w, map[string]any{
		"success": true,
		"data": map[string]any{
			"data": items,
			"pagination": map[string]any{
				"page":       page,
				"limit":      limit,
				"total":      total,
				"totalPages": totalPages,
			},
		},
	})
}

// RespondData writes a successful single-record envelope.
func (f *FakeBackend) RespondData(w http.ResponseWriter, data any) {
	writeJSON(f.t, w, map[string]any{"success": true, "data": data})
}

// RespondError writes a failure envelope with the given HTTP status.
func (f *FakeBackend) RespondError(w http.ResponseWriter, status int, message string) {
	w.WriteHeader(status)
	writeJSON(f.t, w, map[string]any{"success": false, "error": message})
}

func writeJSON(t *testing.T, w http.ResponseWriter, v any) {
	t.Helper()
	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(v); err != nil {
		t.Fatalf("encode fake backend response: %v", err)
	}
}
