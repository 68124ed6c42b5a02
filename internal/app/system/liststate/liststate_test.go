package liststate_test

import (
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"

	"github.com/merchdesk/merchdesk/internal/app/system/liststate"
)

func TestFromQuery_Defaults(t *testing.T) {
	req := httptest.NewRequest("GET", "/orders", nil)
	s := liststate.FromQuery(req, "createdAt", liststate.Desc)

	if s.SortColumn != "createdAt" {
		t.Errorf("SortColumn = %q, want createdAt", s.SortColumn)
	}
	if s.SortDirection != liststate.Desc {
		t.Errorf("SortDirection = %q, want desc", s.SortDirection)
	}
	if s.DateFilter != liststate.DateAll {
		t.Errorf("DateFilter = %q, want all", s.DateFilter)
	}
	if s.Page != 1 {
		t.Errorf("Page = %d, want 1", s.Page)
	}
}

func TestFromQuery_ReadsValues(t *testing.T) {
	req := httptest.NewRequest("GET", "/orders?search=%20smith%20&sort=totalAmount&dir=ASC&date=last7days&page=3", nil)
	s := liststate.FromQuery(req, "createdAt", liststate.Desc)

	if s.SearchTerm != "smith" {
		t.Errorf("SearchTerm = %q, want smith (trimmed)", s.SearchTerm)
	}
	if s.SortColumn != "totalAmount" {
		t.Errorf("SortColumn = %q, want totalAmount", s.SortColumn)
	}
	if s.SortDirection != liststate.Asc {
		t.Errorf("SortDirection = %q, want asc (lowercased)", s.SortDirection)
	}
	if s.DateFilter != liststate.DateLast7 {
		t.Errorf("DateFilter = %q, want last7days", s.DateFilter)
	}
	if s.Page != 3 {
		t.Errorf("Page = %d, want 3", s.Page)
	}
}

func TestFromQuery_InvalidDirectionFallsBack(t *testing.T) {
	req := httptest.NewRequest("GET", "/orders?dir=sideways", nil)
	s := liststate.FromQuery(req, "createdAt", liststate.Desc)
	if s.SortDirection != liststate.Desc {
		t.Errorf("SortDirection = %q, want default desc", s.SortDirection)
	}
}

func TestFromQuery_PageFloorsAtOne(t *testing.T) {
	for _, raw := range []string{"0", "-2", "abc"} {
		req := httptest.NewRequest("GET", "/orders?page="+raw, nil)
		s := liststate.FromQuery(req, "createdAt", liststate.Desc)
		if s.Page != 1 {
			t.Errorf("page=%s: Page = %d, want 1", raw, s.Page)
		}
	}
}

func TestHandleSort_TogglesActiveColumn(t *testing.T) {
	s := liststate.State{SortColumn: "name", SortDirection: liststate.Asc}

	s.HandleSort("name")
	if s.SortDirection != liststate.Desc {
		t.Fatalf("first toggle: direction = %q, want desc", s.SortDirection)
	}
	s.HandleSort("name")
	if s.SortDirection != liststate.Asc {
		t.Fatalf("second toggle: direction = %q, want asc", s.SortDirection)
	}
	if s.SortColumn != "name" {
		t.Errorf("SortColumn changed to %q", s.SortColumn)
	}
}

func TestHandleSort_NewColumnStartsAscending(t *testing.T) {
	s := liststate.State{SortColumn: "name", SortDirection: liststate.Desc}
	s.HandleSort("price")
	if s.SortColumn != "price" || s.SortDirection != liststate.Asc {
		t.Errorf("got %s/%s, want price/asc", s.SortColumn, s.SortDirection)
	}
}

func TestQuery_OmitsDefaults(t *testing.T) {
	s := liststate.State{
		SortColumn:    "createdAt",
		SortDirection: liststate.Desc,
		DateFilter:    liststate.DateAll,
		Page:          1,
	}
	q := s.Query()
	if strings.Contains(q, "date=") {
		t.Errorf("query %q should omit date=all", q)
	}
	if strings.Contains(q, "page=") {
		t.Errorf("query %q should omit page=1", q)
	}
}

func TestQuery_CarriesStateAndFilters(t *testing.T) {
	s := liststate.State{
		SearchTerm:    "mug",
		SortColumn:    "price",
		SortDirection: liststate.Asc,
		DateFilter:    liststate.DateToday,
		Page:          2,
	}
	s.SetFilter("status", "active")

	q := s.Query()
	for _, want := range []string{"search=mug", "sort=price", "dir=asc", "date=today", "status=active", "page=2"} {
		if !strings.Contains(q, want) {
			t.Errorf("query %q missing %q", q, want)
		}
	}
}

func TestQuery_EscapesValues(t *testing.T) {
	s := liststate.State{
		SearchTerm:    "red&dir=desc shoes",
		SortColumn:    "createdAt",
		SortDirection: liststate.Asc,
	}

	parsed, err := url.ParseQuery(s.Query())
	if err != nil {
		t.Fatalf("ParseQuery: %v", err)
	}
	if got := parsed.Get("search"); got != "red&dir=desc shoes" {
		t.Errorf("search = %q, term did not survive the round trip", got)
	}
	if got := parsed.Get("dir"); got != liststate.Asc {
		t.Errorf("dir = %q, search term leaked into other parameters", got)
	}
}

func TestSetFilter_PreservesOthers(t *testing.T) {
	var s liststate.State
	s.SetFilter("status", "active")
	s.SetFilter("category", "mugs")
	if s.Filter("status") != "active" || s.Filter("category") != "mugs" {
		t.Errorf("filters = %v", s.FilterValues)
	}
	if s.Filter("missing") != "" {
		t.Errorf("missing filter should be empty, got %q", s.Filter("missing"))
	}
}
