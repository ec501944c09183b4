package domain

import "testing"

func TestInitials(t *testing.T) {
	cases := map[string]string{
		"":              "U",
		"   ":           "U",
		"ann":           "A",
		"Ann Lee":       "AL",
		"  ann   lee  ": "AL",
		"ann marie lee": "AM",
		"élodie dupont": "ÉD",
	}
	for name, want := range cases {
		if got := Initials(name); got != want {
			t.Fatalf("Initials(%q) = %q, want %q", name, got, want)
		}
	}
}

func TestDashboardPath(t *testing.T) {
	cases := map[Role]string{
		RoleDriver:    "/driver-dashboard",
		RolePassenger: "/passenger-dashboard",
		"":            "/home",
		"ADMIN":       "/home",
	}
	for role, want := range cases {
		if got := DashboardPath(role); got != want {
			t.Fatalf("DashboardPath(%q) = %q, want %q", role, got, want)
		}
	}
}

func TestHasTemporaryPassword(t *testing.T) {
	if !(UserRecord{Password: "Temp123"}).HasTemporaryPassword() {
		t.Fatalf("expected Temp123 to be temporary")
	}
	if (UserRecord{Password: "temp123"}).HasTemporaryPassword() {
		t.Fatalf("match is case-sensitive")
	}
	if (UserRecord{}).HasTemporaryPassword() {
		t.Fatalf("empty password is not temporary")
	}
}

func TestMarshalUserDropsPassword(t *testing.T) {
	raw, err := MarshalUser(UserRecord{Name: "Ann", Password: "secret", Role: RolePassenger})
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	u, err := UnmarshalUser(raw)
	if err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if u.Password != "" || u.Name != "Ann" || u.Role != RolePassenger {
		t.Fatalf("unexpected user %+v", u)
	}
}
