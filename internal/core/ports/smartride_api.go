package ports

import (
	"context"

	"github.com/smartride/smartride-web/internal/core/domain"
)

// AuthResult is returned by the OTP verification and password login calls.
type AuthResult struct {
	Token string            `json:"token"`
	User  domain.UserRecord `json:"user"`
}

// RegisterResult is returned by the sign-up call.
type RegisterResult struct {
	Message string `json:"message"`
	Token   string `json:"token,omitempty"`
}

// AuthAPI covers the /auth endpoints.
type AuthAPI interface {
	SendOTP(ctx context.Context, email string) error
	VerifyOTP(ctx context.Context, email, otp string) (*AuthResult, error)
	Login(ctx context.Context, email, password string) (*AuthResult, error)
	Register(ctx context.Context, form domain.Registration) (*RegisterResult, error)
}

// UserAPI covers the /user endpoints.
type UserAPI interface {
	ForgotPassword(ctx context.Context, email string) error
	// ResetPassword submits the new password. otp is only transmitted when
	// non-empty.
	ResetPassword(ctx context.Context, email, newPassword, otp string) error
	Profile(ctx context.Context) (*domain.UserRecord, error)
}

// DriverAPI covers the /driver endpoints and the driver-facing ride and
// booking calls.
type DriverAPI interface {
	Rides(ctx context.Context) ([]domain.Ride, error)
	PostRide(ctx context.Context, draft domain.RideDraft) error
	Earnings(ctx context.Context) (*domain.EarningsSummary, error)
	Vehicle(ctx context.Context) (*domain.VehicleInfo, error)
	UpdateVehicle(ctx context.Context, v domain.VehicleInfo) error
	MarkNotificationRead(ctx context.Context, id int64) error
	BookingRequests(ctx context.Context) ([]domain.Booking, error)
	RespondToBooking(ctx context.Context, id int64, action domain.BookingAction) (*domain.Booking, error)
}

// PassengerAPI covers ride search, the passenger's bookings and payments.
type PassengerAPI interface {
	SearchRides(ctx context.Context, q domain.RideQuery) ([]domain.Ride, error)
	MyBookings(ctx context.Context) ([]domain.Booking, error)
	Book(ctx context.Context, rideID int64, seats int) error
	CancelBooking(ctx context.Context, id int64) error
	MyPayments(ctx context.Context) ([]domain.PaymentRecord, error)
}

// APIError is implemented by the errors the API ports return. Callers use it
// to tell a rejected request from an unreachable server without depending on
// the transport.
type APIError interface {
	error
	// UserMessage is text that may be shown to the user, possibly empty.
	UserMessage() string
	// HTTPStatus is the response status, or 0 when no response arrived.
	HTTPStatus() int
	// Unreachable reports that no response was received.
	Unreachable() bool
}
