// Package datatable turns a slice of rows plus a declarative column set
// into the view model the shared list templates render. One column set
// drives both the desktop table and the stacked mobile cards, so a page
// declares how its fields display exactly once.
package datatable

import (
	"fmt"

	"github.com/merchdesk/merchdesk/internal/app/system/rowfield"
)

// Skeleton placeholder counts while a page of data is loading.
const (
	SkeletonRows  = 5
	SkeletonCards = 3
)

// MobileFieldLimit caps how many non-primary, non-secondary columns appear
// in a mobile card's label/value grid.
const MobileFieldLimit = 4

// Column describes one table column. Key addresses a field on the row
// struct (json tag or field name) unless Render is set; without Render the
// cell is the stringified field value.
type Column[T any] struct {
	Key      string
	Header   string
	Sortable bool
	Render   func(T) string
	// Link, when set, wraps the cell value in an anchor to its result.
	// An empty result leaves the cell plain.
	Link         func(T) string
	Class        string
	HideOnMobile bool
	MobileLabel  string
	Primary      bool // mobile card title; at most one per column set
	Secondary    bool // mobile card's prominent right value; at most one
}

// Header is one desktop header cell.
type Header struct {
	Key      string
	Label    string
	Sortable bool
	Class    string
	// Active and Direction describe the sort indicator: a sortable header
	// shows a neutral mark unless it is the active column, then asc/desc.
	Active    bool
	Direction string
}

// Cell is one rendered desktop cell.
type Cell struct {
	Value string
	Class string
	Href  string
}

// Row is one desktop table row.
type Row struct {
	Key   string
	Cells []Cell
}

// CardField is one label/value pair on a mobile card's grid.
type CardField struct {
	Label string
	Value string
}

// Card is one mobile card.
type Card struct {
	Key       string
	Title     string
	Prominent string
	Fields    []CardField
}

// TableVM is everything the shared table template needs.
type TableVM struct {
	Headers []Header
	Rows    []Row
	Cards   []Card

	Loading bool
	// Skeletons and CardSkeletons exist only to be ranged over by the
	// template; their element values are meaningless.
	Skeletons     []struct{}
	CardSkeletons []struct{}

	Empty        bool
	EmptyIcon    string
	EmptyMessage string
}

// Options control the parts of Build that vary per page.
type Options[T any] struct {
	Loading      bool
	EmptyIcon    string
	EmptyMessage string

	// RowKey must return a value unique and stable across renders.
	RowKey func(T) string

	SortColumn    string
	SortDirection string
}

// Build renders data through columns into a TableVM.
//
// Loading wins over everything: skeletons replace rows and cards no matter
// what data holds. An empty, non-loading list renders only the empty block.
// It returns an error when the column set is invalid: more than one Primary
// or Secondary column, or a Key that neither resolves on the row type nor
// has a Render func (checked against the first row).
func Build[T any](data []T, columns []Column[T], opts Options[T]) (TableVM, error) {
	if err := validate(data, columns); err != nil {
		return TableVM{}, err
	}

	vm := TableVM{
		Headers:      buildHeaders(columns, opts.SortColumn, opts.SortDirection),
		EmptyIcon:    opts.EmptyIcon,
		EmptyMessage: opts.EmptyMessage,
	}

	if opts.Loading {
		vm.Loading = true
		vm.Skeletons = make([]struct{}, SkeletonRows)
		vm.CardSkeletons = make([]struct{}, SkeletonCards)
		return vm, nil
	}

	if len(data) == 0 {
		vm.Empty = true
		return vm, nil
	}

	vm.Rows = make([]Row, 0, len(data))
	vm.Cards = make([]Card, 0, len(data))
	for i, item := range data {
		key := fmt.Sprintf("%d", i)
		if opts.RowKey != nil {
			key = opts.RowKey(item)
		}
		vm.Rows = append(vm.Rows, buildRow(item, columns, key))
		vm.Cards = append(vm.Cards, buildCard(item, columns, key))
	}
	return vm, nil
}

func validate[T any](data []T, columns []Column[T]) error {
	primaries, secondaries := 0, 0
	for _, c := range columns {
		if c.Primary {
			primaries++
		}
		if c.Secondary {
			secondaries++
		}
		if c.Render == nil && len(data) > 0 && !rowfield.Has(data[0], c.Key) {
			return fmt.Errorf("datatable: column %q has no render func and no matching row field", c.Key)
		}
	}
	if primaries > 1 {
		return fmt.Errorf("datatable: %d primary columns, want at most 1", primaries)
	}
	if secondaries > 1 {
		return fmt.Errorf("datatable: %d secondary columns, want at most 1", secondaries)
	}
	return nil
}

func buildHeaders[T any](columns []Column[T], sortColumn, sortDirection string) []Header {
	headers := make([]Header, 0, len(columns))
	for _, c := range columns {
		h := Header{
			Key:      c.Key,
			Label:    c.Header,
			Sortable: c.Sortable,
			Class:    c.Class,
		}
		if c.Sortable && c.Key == sortColumn {
			h.Active = true
			h.Direction = sortDirection
		}
		headers = append(headers, h)
	}
	return headers
}

func cellValue[T any](item T, c Column[T]) string {
	if c.Render != nil {
		return c.Render(item)
	}
	return rowfield.String(item, c.Key)
}

func buildRow[T any](item T, columns []Column[T], key string) Row {
	cells := make([]Cell, 0, len(columns))
	for _, c := range columns {
		cell := Cell{Value: cellValue(item, c), Class: c.Class}
		if c.Link != nil {
			cell.Href = c.Link(item)
		}
		cells = append(cells, cell)
	}
	return Row{Key: key, Cells: cells}
}

func buildCard[T any](item T, columns []Column[T], key string) Card {
	card := Card{Key: key, Title: "—"}
	for _, c := range columns {
		switch {
		case c.Primary:
			if v := cellValue(item, c); v != "" {
				card.Title = v
			}
		case c.Secondary:
			card.Prominent = cellValue(item, c)
		case c.HideOnMobile:
			// skipped on mobile
		default:
			if len(card.Fields) >= MobileFieldLimit {
				continue
			}
			label := c.MobileLabel
			if label == "" {
				label = c.Header
			}
			card.Fields = append(card.Fields, CardField{Label: label, Value: cellValue(item, c)})
		}
	}
	return card
}
