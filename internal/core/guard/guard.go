// Package guard decides, per request, whether a route may be rendered for the
// current session or where the browser should be sent instead.
package guard

import (
	"strings"

	"github.com/smartride/smartride-web/internal/core/domain"
	"github.com/smartride/smartride-web/internal/core/ports"
)

// Redirect reasons, used as metric labels.
const (
	ReasonUnauthenticated = "unauthenticated"
	ReasonWrongRole       = "wrong_role"
	ReasonRoleDispatch    = "role_dispatch"
	ReasonUnknownRoute    = "unknown_route"
)

// Access is the requirement a route places on the session.
type Access int

const (
	Public Access = iota
	Authenticated
	DriverOnly
	PassengerOnly
)

func (a Access) String() string {
	switch a {
	case Public:
		return "public"
	case Authenticated:
		return "authenticated"
	case DriverOnly:
		return "driver"
	case PassengerOnly:
		return "passenger"
	default:
		return "unknown"
	}
}

// Route is one navigable page. Action sub-paths under Path share its access.
type Route struct {
	Path   string
	Access Access
}

// Routes is the navigable route table.
var Routes = []Route{
	{"/", Public},
	{"/home", Public},
	{"/register", Public},
	{"/login", Public},
	{"/forgot-password", Public},
	{"/logout", Public},
	{"/dashboard", Authenticated},
	{"/driver-dashboard", DriverOnly},
	{"/passenger-dashboard", PassengerOnly},
}

// Decision is the outcome of Evaluate. When Allow is false the browser is
// sent to Redirect.
type Decision struct {
	Allow    bool
	Redirect string
	Reason   string
	Route    Route
}

// Lookup finds the route owning path. The root only matches itself.
func Lookup(path string) (Route, bool) {
	path = normalize(path)
	for _, r := range Routes {
		if path == r.Path {
			return r, true
		}
		if r.Path != "/" && strings.HasPrefix(path, r.Path+"/") {
			return r, true
		}
	}
	return Route{}, false
}

// Evaluate checks path against the session snapshot. It holds no state and is
// meant to run on every navigation.
func Evaluate(path string, snap ports.Snapshot) Decision {
	route, ok := Lookup(path)
	if !ok {
		return Decision{Redirect: "/", Reason: ReasonUnknownRoute}
	}

	if route.Access == Public {
		return Decision{Allow: true, Route: route}
	}
	if !snap.Authenticated() {
		return Decision{Redirect: "/login", Reason: ReasonUnauthenticated, Route: route}
	}

	switch route.Access {
	case Authenticated:
		if normalize(path) == "/dashboard" {
			target := "/passenger-dashboard"
			if snap.Role == domain.RoleDriver {
				target = "/driver-dashboard"
			}
			return Decision{Redirect: target, Reason: ReasonRoleDispatch, Route: route}
		}
	case DriverOnly:
		if snap.Role != domain.RoleDriver {
			return Decision{Redirect: "/home", Reason: ReasonWrongRole, Route: route}
		}
	case PassengerOnly:
		if snap.Role != domain.RolePassenger {
			return Decision{Redirect: "/home", Reason: ReasonWrongRole, Route: route}
		}
	}
	return Decision{Allow: true, Route: route}
}

func normalize(path string) string {
	if path == "" {
		return "/"
	}
	if len(path) > 1 {
		path = strings.TrimRight(path, "/")
		if path == "" {
			return "/"
		}
	}
	return path
}
