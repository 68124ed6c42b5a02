// Package authz holds the data-driven permission table that decides which
// navigation links and action buttons a signed-in user sees. It is a
// lookup, not a security boundary: the commerce backend enforces access on
// every API call, and these thresholds only keep the UI honest about what
// a role can do.
package authz

import "strings"

// Role priorities. Higher numbers may do everything lower numbers may.
const (
	PriorityViewer  = 1
	PriorityAgent   = 2
	PriorityManager = 3
	PriorityAdmin   = 4
)

// RolePriority maps role names to their priority. Unknown roles map to 0,
// below every threshold.
var RolePriority = map[string]int{
	"viewer":  PriorityViewer,
	"agent":   PriorityAgent,
	"manager": PriorityManager,
	"admin":   PriorityAdmin,
}

// Priority returns the priority for a role name, 0 when unknown.
func Priority(role string) int {
	return RolePriority[strings.ToLower(strings.TrimSpace(role))]
}
