// Package liststate carries the per-request state every CRUD list page
// shares: search term, sort column and direction, per-filter values, date
// filter, and page number. Handlers parse it from the query string, hand it
// to the backend fetch, and thread it back into links so the state survives
// navigation.
package liststate

import (
	"net/http"
	"net/url"
	"strconv"
	"strings"

	"github.com/dalemusser/waffle/pantry/query"
)

// Sort directions. Stored as strings because they round-trip through query
// parameters and backend API calls unchanged.
const (
	Asc  = "asc"
	Desc = "desc"
)

// Date filter values accepted by FilterByDate.
const (
	DateAll    = "all"
	DateToday  = "today"
	DateYest   = "yesterday"
	DateLast7  = "last7days"
	DateLast30 = "last30days"
)

// State is the page-state bundle for one CRUD list request.
type State struct {
	SearchTerm    string
	SortColumn    string
	SortDirection string
	FilterValues  map[string]string
	DateFilter    string
	Page          int
}

// FromQuery builds a State from the request query string.
// Unrecognized sort directions fall back to the default; page floors at 1.
func FromQuery(r *http.Request, defaultSortColumn, defaultSortDirection string) State {
	s := State{
		SearchTerm:    strings.TrimSpace(query.Get(r, "search")),
		SortColumn:    strings.TrimSpace(query.Get(r, "sort")),
		SortDirection: strings.ToLower(strings.TrimSpace(query.Get(r, "dir"))),
		DateFilter:    strings.TrimSpace(query.Get(r, "date")),
		FilterValues:  map[string]string{},
		Page:          1,
	}
	if s.SortColumn == "" {
		s.SortColumn = defaultSortColumn
	}
	if s.SortDirection != Asc && s.SortDirection != Desc {
		s.SortDirection = defaultSortDirection
	}
	if s.DateFilter == "" {
		s.DateFilter = DateAll
	}
	if p, err := strconv.Atoi(query.Get(r, "page")); err == nil && p > 1 {
		s.Page = p
	}
	return s
}

// HandleSort applies a sort request for column: the active column flips
// direction, any other column becomes active ascending.
func (s *State) HandleSort(column string) {
	if column == s.SortColumn {
		if s.SortDirection == Asc {
			s.SortDirection = Desc
		} else {
			s.SortDirection = Asc
		}
		return
	}
	s.SortColumn = column
	s.SortDirection = Asc
}

// SetFilter merges one filter value, preserving the others.
func (s *State) SetFilter(key, value string) {
	if s.FilterValues == nil {
		s.FilterValues = map[string]string{}
	}
	s.FilterValues[key] = value
}

// Filter returns the current value for a filter key ("" when unset).
func (s *State) Filter(key string) string {
	return s.FilterValues[key]
}

// Query re-encodes the state as query parameters, minus defaults, for
// building pagination and sort links. Values are escaped so a search
// term containing "&" or "=" survives the round trip.
func (s State) Query() string {
	vals := url.Values{}
	add := func(k, v string) {
		if v != "" {
			vals.Set(k, v)
		}
	}
	add("search", s.SearchTerm)
	add("sort", s.SortColumn)
	add("dir", s.SortDirection)
	if s.DateFilter != "" && s.DateFilter != DateAll {
		add("date", s.DateFilter)
	}
	for k, v := range s.FilterValues {
		add(k, v)
	}
	if s.Page > 1 {
		add("page", strconv.Itoa(s.Page))
	}
	return vals.Encode()
}
