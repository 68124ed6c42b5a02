package liststate

import (
	"time"

	"github.com/merchdesk/merchdesk/internal/app/system/rowfield"
)

// FilterByDate keeps the rows whose createdAt falls inside the named
// window. Calendar buckets (today, yesterday) and the rolling windows both
// anchor on local midnight: day boundaries follow the server's timezone,
// not UTC. That matches how the date-filter buttons read to an operator
// looking at the dashboard; keep it local unless the product decides
// otherwise.
func FilterByDate[T any](data []T, value string) []T {
	if value == "" || value == DateAll {
		return data
	}
	return FilterByDateAt(data, value, time.Now())
}

// FilterByDateAt is FilterByDate with an explicit "now", for tests.
func FilterByDateAt[T any](data []T, value string, now time.Time) []T {
	midnight := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, now.Location())

	var lo, hi time.Time
	switch value {
	case DateToday:
		lo, hi = midnight, midnight.AddDate(0, 0, 1)
	case DateYest:
		lo, hi = midnight.AddDate(0, 0, -1), midnight
	case DateLast7:
		lo, hi = midnight.AddDate(0, 0, -7), now.Add(time.Nanosecond)
	case DateLast30:
		lo, hi = midnight.AddDate(0, 0, -30), now.Add(time.Nanosecond)
	default:
		return data
	}

	out := make([]T, 0, len(data))
	for _, item := range data {
		created, ok := rowfield.Time(item, "createdAt")
		if !ok {
			continue
		}
		created = created.In(now.Location())
		if !created.Before(lo) && created.Before(hi) {
			out = append(out, item)
		}
	}
	return out
}
