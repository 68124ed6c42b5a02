package authz_test

import (
	"net/http/httptest"
	"testing"

	"github.com/merchdesk/merchdesk/internal/app/system/auth"
	"github.com/merchdesk/merchdesk/internal/app/system/authz"
)

func TestPriority(t *testing.T) {
	cases := map[string]int{
		"viewer":   authz.PriorityViewer,
		"agent":    authz.PriorityAgent,
		"manager":  authz.PriorityManager,
		"admin":    authz.PriorityAdmin,
		"ADMIN":    authz.PriorityAdmin,
		" viewer ": authz.PriorityViewer,
		"intruder": 0,
		"":         0,
	}
	for role, want := range cases {
		if got := authz.Priority(role); got != want {
			t.Errorf("Priority(%q) = %d, want %d", role, got, want)
		}
	}
}

func TestThresholds(t *testing.T) {
	cases := []struct {
		role, resource string
		read, create   bool
		update, del    bool
	}{
		{"viewer", "orders", true, false, false, false},
		{"agent", "orders", true, false, true, false},
		{"manager", "orders", true, true, true, false},
		{"admin", "orders", true, true, true, true},

		{"viewer", "payments", false, false, false, false},
		{"agent", "payments", true, false, false, false},

		{"agent", "settings", false, false, false, false},
		{"manager", "settings", true, false, false, false},
		{"admin", "settings", true, true, true, true},

		{"viewer", "analytics", true, false, false, false},
		{"agent", "activity", false, false, false, false},
		{"manager", "activity", true, false, false, false},
	}
	for _, tc := range cases {
		if got := authz.CanRead(tc.role, tc.resource); got != tc.read {
			t.Errorf("CanRead(%s, %s) = %v, want %v", tc.role, tc.resource, got, tc.read)
		}
		if got := authz.CanCreate(tc.role, tc.resource); got != tc.create {
			t.Errorf("CanCreate(%s, %s) = %v, want %v", tc.role, tc.resource, got, tc.create)
		}
		if got := authz.CanUpdate(tc.role, tc.resource); got != tc.update {
			t.Errorf("CanUpdate(%s, %s) = %v, want %v", tc.role, tc.resource, got, tc.update)
		}
		if got := authz.CanDelete(tc.role, tc.resource); got != tc.del {
			t.Errorf("CanDelete(%s, %s) = %v, want %v", tc.role, tc.resource, got, tc.del)
		}
	}
}

func TestUnknownResourceDeniesBelowAdmin(t *testing.T) {
	if authz.CanRead("manager", "secrets") {
		t.Error("manager should not read an unlisted resource")
	}
	if !authz.CanRead("admin", "secrets") {
		t.Error("admin should still read an unlisted resource")
	}
}

func TestVisibleResources(t *testing.T) {
	admin := authz.VisibleResources("admin")
	if len(admin) != len(authz.ResourceThresholds) {
		t.Errorf("admin sees %d resources, want %d", len(admin), len(authz.ResourceThresholds))
	}

	viewer := authz.VisibleResources("viewer")
	for _, res := range viewer {
		switch res {
		case "orders", "products", "customers", "shipments", "analytics":
		default:
			t.Errorf("viewer unexpectedly sees %q", res)
		}
	}

	if got := authz.VisibleResources("intruder"); len(got) != 0 {
		t.Errorf("unknown role sees %v", got)
	}
}

func TestUserCtx(t *testing.T) {
	req := httptest.NewRequest("GET", "/", nil)
	role, _, ok := authz.UserCtx(req)
	if ok || role != "visitor" {
		t.Errorf("anonymous = %q/%v, want visitor/false", role, ok)
	}

	req = auth.WithTestUser(req, &auth.SessionUser{Name: "Sam", Role: "Manager"})
	role, name, ok := authz.UserCtx(req)
	if !ok || role != "manager" || name != "Sam" {
		t.Errorf("got %q/%q/%v", role, name, ok)
	}
}
