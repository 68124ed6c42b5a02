package login

import "testing"

func TestSafeReturnURL(t *testing.T) {
	cases := []struct {
		in, want string
	}{
		{"", ""},
		{"/orders", "/orders"},
		{"/orders/o1?tab=items", "/orders/o1?tab=items"},
		{"//evil.example.com", ""},
		{"https://evil.example.com", ""},
		{"orders", ""},
		{"javascript:alert(1)", ""},
	}
	for _, tc := range cases {
		if got := safeReturnURL(tc.in); got != tc.want {
			t.Errorf("safeReturnURL(%q) = %q, want %q", tc.in, got, tc.want)
		}
	}
}

func TestRandomState(t *testing.T) {
	a, b := randomState(), randomState()
	if len(a) != 32 {
		t.Errorf("len = %d, want 32 hex chars", len(a))
	}
	if a == b {
		t.Error("two states were identical")
	}
}
