package liststate_test

import (
	"testing"
	"time"

	"github.com/merchdesk/merchdesk/internal/app/system/liststate"
)

type stamped struct {
	Name      string    `json:"name"`
	CreatedAt time.Time `json:"createdAt"`
}

func TestFilterByDateAt_Buckets(t *testing.T) {
	// Fixed "now": 2026-03-10 14:00 local.
	now := time.Date(2026, 3, 10, 14, 0, 0, 0, time.Local)

	rows := []stamped{
		{Name: "this-morning", CreatedAt: time.Date(2026, 3, 10, 9, 0, 0, 0, time.Local)},
		{Name: "yesterday-eve", CreatedAt: time.Date(2026, 3, 9, 22, 0, 0, 0, time.Local)},
		{Name: "five-days-ago", CreatedAt: time.Date(2026, 3, 5, 12, 0, 0, 0, time.Local)},
		{Name: "three-weeks-ago", CreatedAt: time.Date(2026, 2, 18, 12, 0, 0, 0, time.Local)},
		{Name: "ancient", CreatedAt: time.Date(2025, 11, 1, 12, 0, 0, 0, time.Local)},
	}

	cases := []struct {
		filter string
		want   []string
	}{
		{liststate.DateToday, []string{"this-morning"}},
		{liststate.DateYest, []string{"yesterday-eve"}},
		{liststate.DateLast7, []string{"this-morning", "yesterday-eve", "five-days-ago"}},
		{liststate.DateLast30, []string{"this-morning", "yesterday-eve", "five-days-ago", "three-weeks-ago"}},
		{liststate.DateAll, []string{"this-morning", "yesterday-eve", "five-days-ago", "three-weeks-ago", "ancient"}},
	}

	for _, tc := range cases {
		got := liststate.FilterByDateAt(rows, tc.filter, now)
		if len(got) != len(tc.want) {
			t.Errorf("%s: got %d rows, want %d", tc.filter, len(got), len(tc.want))
			continue
		}
		for i, row := range got {
			if row.Name != tc.want[i] {
				t.Errorf("%s: row %d = %q, want %q", tc.filter, i, row.Name, tc.want[i])
			}
		}
	}
}

func TestFilterByDateAt_TodayExcludesMidnightBoundary(t *testing.T) {
	now := time.Date(2026, 3, 10, 14, 0, 0, 0, time.Local)
	rows := []stamped{
		{Name: "at-midnight", CreatedAt: time.Date(2026, 3, 10, 0, 0, 0, 0, time.Local)},
		{Name: "just-before", CreatedAt: time.Date(2026, 3, 9, 23, 59, 59, 0, time.Local)},
	}

	got := liststate.FilterByDateAt(rows, liststate.DateToday, now)
	if len(got) != 1 || got[0].Name != "at-midnight" {
		t.Errorf("today filter got %v, want only at-midnight", got)
	}

	got = liststate.FilterByDateAt(rows, liststate.DateYest, now)
	if len(got) != 1 || got[0].Name != "just-before" {
		t.Errorf("yesterday filter got %v, want only just-before", got)
	}
}

func TestFilterByDate_UnknownValuePassesThrough(t *testing.T) {
	rows := []stamped{{Name: "a"}, {Name: "b"}}
	got := liststate.FilterByDate(rows, "fortnight")
	if len(got) != 2 {
		t.Errorf("unknown filter dropped rows: got %d, want 2", len(got))
	}
}

func TestFilterByDate_RowsWithoutTimestampAreDropped(t *testing.T) {
	type bare struct {
		Name string `json:"name"`
	}
	rows := []bare{{Name: "a"}}
	got := liststate.FilterByDate(rows, liststate.DateToday)
	if len(got) != 0 {
		t.Errorf("rows without createdAt survived the filter: %v", got)
	}
}
