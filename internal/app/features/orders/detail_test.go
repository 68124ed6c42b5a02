package orders

import (
	"testing"

	"github.com/merchdesk/merchdesk/internal/domain/models"
)

func TestAllowedTransition(t *testing.T) {
	cases := []struct {
		from, to string
		want     bool
	}{
		{models.OrderPending, models.OrderPaid, true},
		{models.OrderPending, models.OrderCancelled, true},
		{models.OrderPending, models.OrderDelivered, false},
		{models.OrderPaid, models.OrderShipped, true},
		{models.OrderPaid, models.OrderCancelled, true},
		{models.OrderPaid, models.OrderPending, false},
		{models.OrderShipped, models.OrderDelivered, true},
		{models.OrderShipped, models.OrderCancelled, false},
		{models.OrderDelivered, models.OrderShipped, false},
		{models.OrderCancelled, models.OrderPaid, false},
		{"bogus", models.OrderPaid, false},
	}
	for _, tc := range cases {
		if got := allowedTransition(tc.from, tc.to); got != tc.want {
			t.Errorf("allowedTransition(%q, %q) = %v, want %v", tc.from, tc.to, got, tc.want)
		}
	}
}

func TestTerminalStatusesHaveNoNextStep(t *testing.T) {
	for _, status := range []string{models.OrderDelivered, models.OrderCancelled} {
		if next := nextStatuses[status]; len(next) != 0 {
			t.Errorf("nextStatuses[%q] = %v, want none", status, next)
		}
	}
}
