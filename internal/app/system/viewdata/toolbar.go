package viewdata

// FilterOption is one choice in a toolbar filter dropdown.
type FilterOption struct {
	Value string
	Label string
}

// Filter is one dropdown in the list toolbar.
type Filter struct {
	Name     string
	Selected string
	Options  []FilterOption
}

// ToolbarVM drives the shared list toolbar partial: the debounced
// search box, the date-bucket dropdown, any extra filters, and the
// export links.
type ToolbarVM struct {
	SearchTerm        string
	SearchPlaceholder string

	ShowDateFilter bool
	DateFilter     string

	Filters []Filter

	// ExportBase is the feature path ("/orders"); empty hides export.
	// Query is the current list state re-encoded ("?search=...").
	ExportBase string
	Query      string
}
