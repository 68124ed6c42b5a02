package liststate

import (
	"sort"
	"strings"

	"github.com/merchdesk/merchdesk/internal/app/system/rowfield"
)

// timestampKeys are compared as times rather than lexically.
var timestampKeys = map[string]bool{
	"createdAt": true,
	"updatedAt": true,
}

// Sort returns a new slice ordered by the named column. It never mutates
// data. Timestamp columns compare as times, strings compare
// case-insensitively, numeric values compare numerically. Rows whose key
// does not resolve sort as empty values.
//
// Only the rows passed in are ordered; callers hold one fetched page, so
// sorting reorders the visible page, not the full backend result set. Pages
// rely on that for responsiveness; switch the backend sortBy parameter
// instead if full-result ordering is ever needed.
func Sort[T any](data []T, column, direction string) []T {
	out := make([]T, len(data))
	copy(out, data)
	if column == "" {
		return out
	}

	desc := direction == Desc
	sort.SliceStable(out, func(i, j int) bool {
		c := compare(out[i], out[j], column)
		if desc {
			return c > 0
		}
		return c < 0
	})
	return out
}

func compare[T any](a, b T, column string) int {
	if timestampKeys[column] {
		ta, aok := rowfield.Time(a, column)
		tb, bok := rowfield.Time(b, column)
		if aok && bok {
			switch {
			case ta.Before(tb):
				return -1
			case ta.After(tb):
				return 1
			default:
				return 0
			}
		}
	}

	if fa, aok := rowfield.Float(a, column); aok {
		if fb, bok := rowfield.Float(b, column); bok {
			switch {
			case fa < fb:
				return -1
			case fa > fb:
				return 1
			default:
				return 0
			}
		}
	}

	sa := strings.ToLower(rowfield.String(a, column))
	sb := strings.ToLower(rowfield.String(b, column))
	return strings.Compare(sa, sb)
}
