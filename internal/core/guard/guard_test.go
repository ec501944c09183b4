package guard

import (
	"testing"

	"github.com/smartride/smartride-web/internal/core/domain"
	"github.com/smartride/smartride-web/internal/core/ports"
)

func TestEvaluate(t *testing.T) {
	anon := ports.Snapshot{}
	driver := ports.Snapshot{Token: "t", Role: domain.RoleDriver}
	passenger := ports.Snapshot{Token: "t", Role: domain.RolePassenger}
	unknownRole := ports.Snapshot{Token: "t", Role: "ADMIN"}

	cases := []struct {
		name     string
		path     string
		snap     ports.Snapshot
		allow    bool
		redirect string
		reason   string
	}{
		{"root is public", "/", anon, true, "", ""},
		{"login is public", "/login", anon, true, "", ""},
		{"login action is public", "/login/email", anon, true, "", ""},
		{"forgot password is public", "/forgot-password/", anon, true, "", ""},
		{"home is public", "/home", driver, true, "", ""},
		{"no session on driver board", "/driver-dashboard", anon, false, "/login", ReasonUnauthenticated},
		{"no session on dashboard", "/dashboard", anon, false, "/login", ReasonUnauthenticated},
		{"passenger on driver board", "/driver-dashboard", passenger, false, "/home", ReasonWrongRole},
		{"passenger on driver action", "/driver-dashboard/rides", passenger, false, "/home", ReasonWrongRole},
		{"driver on passenger board", "/passenger-dashboard", driver, false, "/home", ReasonWrongRole},
		{"driver on driver board", "/driver-dashboard", driver, true, "", ""},
		{"passenger books", "/passenger-dashboard/book", passenger, true, "", ""},
		{"dashboard dispatches driver", "/dashboard", driver, false, "/driver-dashboard", ReasonRoleDispatch},
		{"dashboard dispatches passenger", "/dashboard", passenger, false, "/passenger-dashboard", ReasonRoleDispatch},
		{"dashboard dispatches other roles", "/dashboard", unknownRole, false, "/passenger-dashboard", ReasonRoleDispatch},
		{"unknown path", "/nowhere", driver, false, "/", ReasonUnknownRoute},
		{"prefix is not a sub-path", "/loginx", anon, false, "/", ReasonUnknownRoute},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			d := Evaluate(tc.path, tc.snap)
			if d.Allow != tc.allow || d.Redirect != tc.redirect || d.Reason != tc.reason {
				t.Fatalf("Evaluate(%q) = %+v, want allow=%v redirect=%q reason=%q",
					tc.path, d, tc.allow, tc.redirect, tc.reason)
			}
		})
	}
}

func TestEvaluate_IgnoresCachedUserRole(t *testing.T) {
	// Only the role key counts, even when the cached user says otherwise.
	snap := ports.Snapshot{
		Token: "t",
		Role:  domain.RolePassenger,
		User:  &domain.UserRecord{Role: domain.RoleDriver},
	}
	if d := Evaluate("/driver-dashboard", snap); d.Allow {
		t.Fatalf("expected redirect, got %+v", d)
	}
}

func TestLookup(t *testing.T) {
	r, ok := Lookup("/driver-dashboard/bookings/3/accept")
	if !ok || r.Access != DriverOnly {
		t.Fatalf("unexpected route %+v %v", r, ok)
	}
	if r.Access.String() != "driver" {
		t.Fatalf("unexpected access name %q", r.Access.String())
	}
}
