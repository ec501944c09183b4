package domain

import "encoding/json"

// Role selects which dashboard and which backend endpoints a user may use.
type Role string

const (
	RoleDriver    Role = "DRIVER"
	RolePassenger Role = "PASSENGER"
)

// Valid reports whether r is one of the two known roles.
func (r Role) Valid() bool {
	return r == RoleDriver || r == RolePassenger
}

// UserRecord is the backend's view of a user. The client keeps a cached copy
// in the session and never treats it as authoritative.
type UserRecord struct {
	ID           int64   `json:"id,omitempty"`
	Name         string  `json:"name"`
	Email        string  `json:"email"`
	Phone        string  `json:"phone"`
	Role         Role    `json:"role"`
	Password     string  `json:"password,omitempty"`
	Rating       float64 `json:"rating,omitempty"`
	Verified     bool    `json:"verified,omitempty"`
	MemberSince  string  `json:"memberSince,omitempty"`
	TotalRides   int     `json:"totalRides,omitempty"`
	VehicleModel string  `json:"vehicleModel,omitempty"`
	LicensePlate string  `json:"licensePlate,omitempty"`
	Capacity     int     `json:"capacity,omitempty"`
}

// HasTemporaryPassword reports whether the backend flagged the account as
// holding a one-time password, in which case OTP verification alone
// completes a login.
func (u UserRecord) HasTemporaryPassword() bool {
	return containsTemp(u.Password)
}

// Sanitized returns a copy without the password field, suitable for caching.
func (u UserRecord) Sanitized() UserRecord {
	u.Password = ""
	return u
}

// MarshalUser serializes a user record for the session store.
func MarshalUser(u UserRecord) (string, error) {
	b, err := json.Marshal(u.Sanitized())
	if err != nil {
		return "", err
	}
	return string(b), nil
}

// UnmarshalUser is the inverse of MarshalUser.
func UnmarshalUser(s string) (UserRecord, error) {
	var u UserRecord
	err := json.Unmarshal([]byte(s), &u)
	return u, err
}

// DashboardPath maps a role to the route of its dashboard. Unknown roles land
// on the home route.
func DashboardPath(r Role) string {
	switch r {
	case RoleDriver:
		return "/driver-dashboard"
	case RolePassenger:
		return "/passenger-dashboard"
	default:
		return "/home"
	}
}
