package domain

import "errors"

var (
	ErrUnauthenticated = errors.New("not authenticated")
	ErrForbidden       = errors.New("access forbidden")
	ErrNotMounted      = errors.New("screen not mounted")
	ErrSessionMissing  = errors.New("session scope missing from context")
	ErrInvalidRideTime = errors.New("invalid ride date or time")
)
