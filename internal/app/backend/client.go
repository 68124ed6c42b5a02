// Package backend is the HTTP client for the commerce API every dashboard
// page reads from and mutates through. The API is consumed as an opaque
// JSON service: list endpoints take page/limit/sortBy/sortOrder/search and
// return an envelope with the rows and pagination; mutation endpoints
// return the changed record or an error message. All commerce data is
// owned by the backend; the dashboard only renders and re-requests it.
package backend

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// Client talks to the commerce backend. It is safe for concurrent use.
type Client struct {
	baseURL string
	http    *http.Client
	log     *zap.Logger
}

// New builds a Client. baseURL must not have a trailing slash; timeout
// bounds each individual request on top of any context deadline.
func New(baseURL string, timeout time.Duration, log *zap.Logger) *Client {
	return &Client{
		baseURL: baseURL,
		http:    &http.Client{Timeout: timeout},
		log:     log,
	}
}

// Ping checks backend reachability without auth. Any HTTP response,
// even an error status, counts as reachable.
func (c *Client) Ping(ctx context.Context) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"/health", nil)
	if err != nil {
		return err
	}
	resp, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("backend: ping: %w", err)
	}
	resp.Body.Close()
	return nil
}

// Caller is a Client bound to one request's bearer token.
type Caller struct {
	c     *Client
	token string
}

// WithToken scopes the client to a bearer token for one request's calls.
func (c *Client) WithToken(token string) *Caller {
	return &Caller{c: c, token: token}
}

// ListParams are the query parameters every list endpoint accepts.
type ListParams struct {
	Page      int
	Limit     int
	SortBy    string
	SortOrder string
	Search    string
	// Filters are extra resource-specific query parameters, e.g.
	// status=pending or category=shoes. Empty values are dropped.
	Filters map[string]string
}

func (p ListParams) values() url.Values {
	v := url.Values{}
	if p.Page > 0 {
		v.Set("page", strconv.Itoa(p.Page))
	}
	if p.Limit > 0 {
		v.Set("limit", strconv.Itoa(p.Limit))
	}
	if p.SortBy != "" {
		v.Set("sortBy", p.SortBy)
	}
	if p.SortOrder != "" {
		v.Set("sortOrder", p.SortOrder)
	}
	if p.Search != "" {
		v.Set("search", p.Search)
	}
	for k, val := range p.Filters {
		if val != "" {
			v.Set(k, val)
		}
	}
	return v
}

// Pagination is the backend's paging metadata.
type Pagination struct {
	Page       int `json:"page"`
	Limit      int `json:"limit"`
	Total      int `json:"total"`
	TotalPages int `json:"totalPages"`
}

// Page is one fetched page of a listed resource.
type Page[T any] struct {
	Items      []T
	Pagination Pagination
}

type envelope struct {
	Success bool            `json:"success"`
	Data    json.RawMessage `json:"data"`
	Error   string          `json:"error"`
}

// List endpoints nest the rows and paging metadata one level deeper
// inside the envelope's data field.
type listPayload struct {
	Data       json.RawMessage `json:"data"`
	Pagination Pagination      `json:"pagination"`
}

// List fetches one page of a resource, e.g. List[models.Order](ctx, api,
// "/orders", params).
func List[T any](ctx context.Context, a *Caller, path string, params ListParams) (Page[T], error) {
	env, err := a.do(ctx, http.MethodGet, path, params.values(), nil)
	if err != nil {
		return Page[T]{}, err
	}
	var payload listPayload
	if err := json.Unmarshal(env.Data, &payload); err != nil {
		return Page[T]{}, fmt.Errorf("backend: decode %s list: %w", path, err)
	}
	var items []T
	if len(payload.Data) > 0 {
		if err := json.Unmarshal(payload.Data, &items); err != nil {
			return Page[T]{}, fmt.Errorf("backend: decode %s rows: %w", path, err)
		}
	}
	return Page[T]{Items: items, Pagination: payload.Pagination}, nil
}

// Get fetches a single record.
func Get[T any](ctx context.Context, a *Caller, path string) (T, error) {
	var out T
	env, err := a.do(ctx, http.MethodGet, path, nil, nil)
	if err != nil {
		return out, err
	}
	if err := json.Unmarshal(env.Data, &out); err != nil {
		return out, fmt.Errorf("backend: decode %s: %w", path, err)
	}
	return out, nil
}

// GetWith is Get with query parameters, for endpoints that take a
// window or options rather than a record id.
func GetWith[T any](ctx context.Context, a *Caller, path string, params url.Values) (T, error) {
	var out T
	env, err := a.do(ctx, http.MethodGet, path, params, nil)
	if err != nil {
		return out, err
	}
	if err := json.Unmarshal(env.Data, &out); err != nil {
		return out, fmt.Errorf("backend: decode %s: %w", path, err)
	}
	return out, nil
}

// Create POSTs body and decodes the created record.
func Create[T any](ctx context.Context, a *Caller, path string, body any) (T, error) {
	var out T
	env, err := a.do(ctx, http.MethodPost, path, nil, body)
	if err != nil {
		return out, err
	}
	if len(env.Data) > 0 && string(env.Data) != "null" {
		if err := json.Unmarshal(env.Data, &out); err != nil {
			return out, fmt.Errorf("backend: decode %s: %w", path, err)
		}
	}
	return out, nil
}

// Update PUTs body and decodes the updated record.
func Update[T any](ctx context.Context, a *Caller, path string, body any) (T, error) {
	var out T
	env, err := a.do(ctx, http.MethodPut, path, nil, body)
	if err != nil {
		return out, err
	}
	if len(env.Data) > 0 && string(env.Data) != "null" {
		if err := json.Unmarshal(env.Data, &out); err != nil {
			return out, fmt.Errorf("backend: decode %s: %w", path, err)
		}
	}
	return out, nil
}

// Delete removes a record.
func Delete(ctx context.Context, a *Caller, path string) error {
	_, err := a.do(ctx, http.MethodDelete, path, nil, nil)
	return err
}

// do performs one request and returns the decoded envelope.
// Non-2xx responses and success=false envelopes surface as *APIError
// carrying the server's message.
func (a *Caller) do(ctx context.Context, method, path string, params url.Values, body any) (envelope, error) {
	u := a.c.baseURL + path
	if len(params) > 0 {
		u += "?" + params.Encode()
	}

	var reader io.Reader
	if body != nil {
		buf, err := json.Marshal(body)
		if err != nil {
			return envelope{}, fmt.Errorf("backend: encode %s body: %w", path, err)
		}
		reader = bytes.NewReader(buf)
	}

	req, err := http.NewRequestWithContext(ctx, method, u, reader)
	if err != nil {
		return envelope{}, err
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("X-Request-ID", uuid.NewString())
	if a.token != "" {
		req.Header.Set("Authorization", "Bearer "+a.token)
	}

	start := time.Now()
	resp, err := a.c.http.Do(req)
	if err != nil {
		return envelope{}, fmt.Errorf("backend: %s %s: %w", method, path, err)
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(io.LimitReader(resp.Body, maxResponseBytes))
	if err != nil {
		return envelope{}, fmt.Errorf("backend: read %s response: %w", path, err)
	}

	if a.c.log != nil {
		a.c.log.Debug("backend call",
			zap.String("method", method),
			zap.String("path", path),
			zap.Int("status", resp.StatusCode),
			zap.Duration("elapsed", time.Since(start)))
	}

	var env envelope
	if err := json.Unmarshal(raw, &env); err != nil {
		if resp.StatusCode < 200 || resp.StatusCode > 299 {
			return envelope{}, &APIError{StatusCode: resp.StatusCode, Message: http.StatusText(resp.StatusCode)}
		}
		return envelope{}, fmt.Errorf("backend: decode %s envelope: %w", path, err)
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 || !env.Success {
		msg := env.Error
		if msg == "" {
			msg = http.StatusText(resp.StatusCode)
		}
		return envelope{}, &APIError{StatusCode: resp.StatusCode, Message: msg}
	}

	return env, nil
}

// maxResponseBytes caps a single response read. The backend pages
// everything, so anything near this size is a bug upstream.
const maxResponseBytes = 16 << 20
