package authz

import (
	"net/http"
	"strings"

	"github.com/merchdesk/merchdesk/internal/app/system/auth"
)

// Thresholds holds the minimum role priority per CRUD verb for a resource.
type Thresholds struct {
	Create int
	Read   int
	Update int
	Delete int
}

// ResourceThresholds is the per-resource permission table. A missing
// resource denies everything below admin.
var ResourceThresholds = map[string]Thresholds{
	"orders":       {Create: PriorityManager, Read: PriorityViewer, Update: PriorityAgent, Delete: PriorityAdmin},
	"products":     {Create: PriorityManager, Read: PriorityViewer, Update: PriorityManager, Delete: PriorityAdmin},
	"customers":    {Create: PriorityAdmin, Read: PriorityViewer, Update: PriorityManager, Delete: PriorityAdmin},
	"discounts":    {Create: PriorityManager, Read: PriorityAgent, Update: PriorityManager, Delete: PriorityManager},
	"payments":     {Create: PriorityAdmin, Read: PriorityAgent, Update: PriorityAdmin, Delete: PriorityAdmin},
	"refunds":      {Create: PriorityManager, Read: PriorityAgent, Update: PriorityManager, Delete: PriorityAdmin},
	"shipments":    {Create: PriorityAgent, Read: PriorityViewer, Update: PriorityAgent, Delete: PriorityAdmin},
	"carts":        {Create: PriorityAdmin, Read: PriorityAgent, Update: PriorityAgent, Delete: PriorityAdmin},
	"transactions": {Create: PriorityAdmin, Read: PriorityAgent, Update: PriorityAdmin, Delete: PriorityAdmin},
	"activity":     {Create: PriorityAdmin, Read: PriorityManager, Update: PriorityAdmin, Delete: PriorityAdmin},
	"analytics":    {Create: PriorityAdmin, Read: PriorityViewer, Update: PriorityAdmin, Delete: PriorityAdmin},
	"reports":      {Create: PriorityManager, Read: PriorityAgent, Update: PriorityAdmin, Delete: PriorityAdmin},
	"settings":     {Create: PriorityAdmin, Read: PriorityManager, Update: PriorityAdmin, Delete: PriorityAdmin},
}

func allows(role string, min int) bool {
	if min == 0 {
		min = PriorityAdmin
	}
	return Priority(role) >= min
}

// CanRead reports whether role may see the resource's pages.
func CanRead(role, resource string) bool {
	return allows(role, ResourceThresholds[resource].Read)
}

// CanCreate reports whether role may see create affordances for resource.
func CanCreate(role, resource string) bool {
	return allows(role, ResourceThresholds[resource].Create)
}

// CanUpdate reports whether role may see update affordances for resource.
func CanUpdate(role, resource string) bool {
	return allows(role, ResourceThresholds[resource].Update)
}

// CanDelete reports whether role may see delete affordances for resource.
func CanDelete(role, resource string) bool {
	return allows(role, ResourceThresholds[resource].Delete)
}

// VisibleResources returns the resources whose pages role may read, in the
// navigation's display order.
func VisibleResources(role string) []string {
	order := []string{
		"orders", "products", "customers", "discounts", "payments",
		"refunds", "shipments", "carts", "transactions", "activity",
		"analytics", "reports", "settings",
	}
	out := make([]string, 0, len(order))
	for _, res := range order {
		if CanRead(role, res) {
			out = append(out, res)
		}
	}
	return out
}

// UserCtx returns the current user's role (lowercased), name, and a found
// flag. Missing users report as "visitor" so callers can trust ok=true
// means an authenticated user.
func UserCtx(r *http.Request) (role string, name string, ok bool) {
	user, ok := auth.CurrentUser(r)
	if !ok {
		return "visitor", "", false
	}
	return strings.ToLower(user.Role), user.Name, true
}

// IsAdmin reports whether the current request's user is an admin.
func IsAdmin(r *http.Request) bool {
	role, _, ok := UserCtx(r)
	return ok && role == "admin"
}

// HasAnyRole reports whether the current request's user has any of the
// given roles. Returns false when not signed in.
func HasAnyRole(r *http.Request, roles ...string) bool {
	role, _, ok := UserCtx(r)
	if !ok {
		return false
	}
	for _, want := range roles {
		if role == strings.ToLower(strings.TrimSpace(want)) {
			return true
		}
	}
	return false
}
