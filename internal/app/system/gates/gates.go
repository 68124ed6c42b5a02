// Package gates holds the per-operation permission checks handlers call
// before touching a resource. The thresholds live in authz; gates adds
// the render-a-forbidden-page half. These checks shape the UI; the
// backend still enforces its own permissions on every API call.
package gates

import (
	"net/http"

	"github.com/merchdesk/merchdesk/internal/app/features/errors"
	"github.com/merchdesk/merchdesk/internal/app/system/authz"
)

func require(w http.ResponseWriter, r *http.Request, ok bool) bool {
	if !ok {
		errors.RenderForbidden(w, r, "You don't have permission to do that.", "")
		return false
	}
	return true
}

// CanRead allows the request through when the signed-in role may view
// the resource; otherwise it renders the forbidden page and returns false.
func CanRead(w http.ResponseWriter, r *http.Request, resource string) bool {
	role, _, _ := authz.UserCtx(r)
	return require(w, r, authz.CanRead(role, resource))
}

// CanCreate is CanRead for create operations.
func CanCreate(w http.ResponseWriter, r *http.Request, resource string) bool {
	role, _, _ := authz.UserCtx(r)
	return require(w, r, authz.CanCreate(role, resource))
}

// CanUpdate is CanRead for update operations.
func CanUpdate(w http.ResponseWriter, r *http.Request, resource string) bool {
	role, _, _ := authz.UserCtx(r)
	return require(w, r, authz.CanUpdate(role, resource))
}

// CanDelete is CanRead for delete operations.
func CanDelete(w http.ResponseWriter, r *http.Request, resource string) bool {
	role, _, _ := authz.UserCtx(r)
	return require(w, r, authz.CanDelete(role, resource))
}
