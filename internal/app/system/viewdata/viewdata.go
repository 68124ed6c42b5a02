package viewdata

import (
	"net/http"

	"github.com/dalemusser/waffle/pantry/httpnav"
	"github.com/gorilla/csrf"
	"github.com/merchdesk/merchdesk/internal/app/system/authz"
	"github.com/merchdesk/merchdesk/internal/domain/models"
)

// NavItem is one entry in the sidebar.
type NavItem struct {
	Label  string
	Path   string
	Icon   string
	Active bool
}

// BaseVM contains common fields for all view models.
// Embed this struct in your feature-specific view models.
//
// Usage:
//
//	type myPageData struct {
//	    viewdata.BaseVM
//	    // page-specific fields...
//	}
//
//	data := myPageData{
//	    BaseVM: viewdata.NewBaseVM(r, "Page Title", "/default-back"),
//	    // page-specific fields...
//	}
type BaseVM struct {
	SiteName string

	// User context (from auth middleware)
	IsLoggedIn bool
	Role       string
	UserName   string

	// Page context
	Title       string
	BackURL     string
	CurrentPath string

	// Sidebar entries the current role may see.
	Nav []NavItem

	// CSRF protection
	CSRFToken string
}

var navCatalog = []NavItem{
	{Label: "Dashboard", Path: "/dashboard", Icon: "home"},
	{Label: "Orders", Path: "/orders", Icon: "package"},
	{Label: "Products", Path: "/products", Icon: "tag"},
	{Label: "Customers", Path: "/customers", Icon: "users"},
	{Label: "Discounts", Path: "/discounts", Icon: "percent"},
	{Label: "Payments", Path: "/payments", Icon: "credit-card"},
	{Label: "Refunds", Path: "/refunds", Icon: "rotate-ccw"},
	{Label: "Shipments", Path: "/shipments", Icon: "truck"},
	{Label: "Carts", Path: "/carts", Icon: "shopping-cart"},
	{Label: "Transactions", Path: "/transactions", Icon: "list"},
	{Label: "Activity", Path: "/activity", Icon: "clock"},
	{Label: "Analytics", Path: "/analytics", Icon: "bar-chart"},
	{Label: "Reports", Path: "/reports", Icon: "file-text"},
	{Label: "Settings", Path: "/settings", Icon: "settings"},
}

// navResource maps sidebar paths to authz resource names. Paths absent
// here (dashboard) are visible to every signed-in role.
var navResource = map[string]string{
	"/orders":       "orders",
	"/products":     "products",
	"/customers":    "customers",
	"/discounts":    "discounts",
	"/payments":     "payments",
	"/refunds":      "refunds",
	"/shipments":    "shipments",
	"/carts":        "carts",
	"/transactions": "transactions",
	"/activity":     "activity",
	"/analytics":    "analytics",
	"/reports":      "reports",
	"/settings":     "settings",
}

// NewBaseVM creates a fully populated BaseVM for a page.
func NewBaseVM(r *http.Request, title, backDefault string) BaseVM {
	role, name, signedIn := authz.UserCtx(r)
	current := httpnav.CurrentPath(r)

	vm := BaseVM{
		SiteName:    models.DefaultSiteName,
		IsLoggedIn:  signedIn,
		Role:        role,
		UserName:    name,
		Title:       title,
		BackURL:     httpnav.ResolveBackURL(r, backDefault),
		CurrentPath: current,
		CSRFToken:   csrf.Token(r),
	}

	if signedIn {
		for _, item := range navCatalog {
			res, gated := navResource[item.Path]
			if gated && !authz.CanRead(role, res) {
				continue
			}
			item.Active = current == item.Path
			vm.Nav = append(vm.Nav, item)
		}
	}
	return vm
}
