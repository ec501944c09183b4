package service

import (
	"context"
	"sync"

	"github.com/smartride/smartride-web/internal/core/domain"
	"github.com/smartride/smartride-web/internal/core/ports"
)

// ---------------------------------------------------------------------------
// API error stub
// ---------------------------------------------------------------------------

type stubAPIError struct {
	status      int
	msg         string
	unreachable bool
}

func (e *stubAPIError) Error() string       { return e.msg }
func (e *stubAPIError) UserMessage() string { return e.msg }
func (e *stubAPIError) HTTPStatus() int     { return e.status }
func (e *stubAPIError) Unreachable() bool   { return e.unreachable }

func serverErr(status int, msg string) error { return &stubAPIError{status: status, msg: msg} }

func networkErr() error {
	return &stubAPIError{msg: "dial tcp: connection refused", unreachable: true}
}

// ---------------------------------------------------------------------------
// Sessions stub
// ---------------------------------------------------------------------------

type stubSessions struct {
	mu      sync.Mutex
	token   string
	user    *domain.UserRecord
	saveErr error
	saves   int
	clears  int
}

func (s *stubSessions) Snapshot(context.Context) (ports.Snapshot, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	snap := ports.Snapshot{Token: s.token, User: s.user}
	if s.user != nil {
		snap.Role = s.user.Role
	}
	return snap, nil
}

func (s *stubSessions) Save(_ context.Context, token string, user domain.UserRecord) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.saveErr != nil {
		return s.saveErr
	}
	s.saves++
	s.token, s.user = token, &user
	return nil
}

func (s *stubSessions) Clear(context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.clears++
	s.token, s.user = "", nil
	return nil
}

// ---------------------------------------------------------------------------
// Auth / user API stub
// ---------------------------------------------------------------------------

type stubAuthAPI struct {
	mu sync.Mutex

	sendErr    error
	verifyRes  *ports.AuthResult
	verifyErr  error
	loginRes   *ports.AuthResult
	loginErr   error
	registerFn func(domain.Registration) (*ports.RegisterResult, error)

	forgotErr error
	resetErr  error
	profile   *domain.UserRecord
	profErr   error

	sent       []string
	verified   []string
	logins     []string
	registered []domain.Registration
	resets     [][3]string
}

func (a *stubAuthAPI) SendOTP(_ context.Context, email string) error {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.sent = append(a.sent, email)
	return a.sendErr
}

func (a *stubAuthAPI) VerifyOTP(_ context.Context, email, otp string) (*ports.AuthResult, error) {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.verified = append(a.verified, email+":"+otp)
	return a.verifyRes, a.verifyErr
}

func (a *stubAuthAPI) Login(_ context.Context, email, password string) (*ports.AuthResult, error) {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.logins = append(a.logins, email)
	return a.loginRes, a.loginErr
}

func (a *stubAuthAPI) Register(_ context.Context, form domain.Registration) (*ports.RegisterResult, error) {
	a.mu.Lock()
	a.registered = append(a.registered, form)
	fn := a.registerFn
	a.mu.Unlock()
	if fn == nil {
		return &ports.RegisterResult{Message: "Registered"}, nil
	}
	return fn(form)
}

func (a *stubAuthAPI) ForgotPassword(_ context.Context, email string) error {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.sent = append(a.sent, email)
	return a.forgotErr
}

func (a *stubAuthAPI) ResetPassword(_ context.Context, email, newPassword, otp string) error {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.resets = append(a.resets, [3]string{email, newPassword, otp})
	return a.resetErr
}

func (a *stubAuthAPI) Profile(context.Context) (*domain.UserRecord, error) {
	return a.profile, a.profErr
}

// ---------------------------------------------------------------------------
// Driver API stub
// ---------------------------------------------------------------------------

type stubDriverAPI struct {
	mu sync.Mutex

	rides     []domain.Ride
	ridesErr  error
	requests  []domain.Booking
	reqErr    error
	earnings  domain.EarningsSummary
	vehicle   domain.VehicleInfo
	postErr   error
	vehErr    error
	markErr   error
	respondFn func(id int64, action domain.BookingAction) (*domain.Booking, error)

	ridesCalls int
	posted     []domain.RideDraft
	marked     []int64
}

func (d *stubDriverAPI) Rides(context.Context) ([]domain.Ride, error) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.ridesCalls++
	return d.rides, d.ridesErr
}

func (d *stubDriverAPI) PostRide(_ context.Context, draft domain.RideDraft) error {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.posted = append(d.posted, draft)
	return d.postErr
}

func (d *stubDriverAPI) Earnings(context.Context) (*domain.EarningsSummary, error) {
	e := d.earnings
	return &e, nil
}

func (d *stubDriverAPI) Vehicle(context.Context) (*domain.VehicleInfo, error) {
	v := d.vehicle
	return &v, nil
}

func (d *stubDriverAPI) UpdateVehicle(_ context.Context, v domain.VehicleInfo) error {
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.vehErr != nil {
		return d.vehErr
	}
	d.vehicle = v
	return nil
}

func (d *stubDriverAPI) MarkNotificationRead(_ context.Context, id int64) error {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.marked = append(d.marked, id)
	return d.markErr
}

func (d *stubDriverAPI) BookingRequests(context.Context) ([]domain.Booking, error) {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.requests, d.reqErr
}

func (d *stubDriverAPI) RespondToBooking(_ context.Context, id int64, action domain.BookingAction) (*domain.Booking, error) {
	return d.respondFn(id, action)
}

// ---------------------------------------------------------------------------
// Passenger API stub
// ---------------------------------------------------------------------------

type stubPassengerAPI struct {
	mu sync.Mutex

	results     []domain.Ride
	searchErr   error
	bookings    []domain.Booking
	bookingsErr error
	payments    []domain.PaymentRecord
	paymentsErr error
	bookErr     error
	cancelErr   error

	searches     []domain.RideQuery
	booked       [][2]int64
	bookingLoads int
	cancelled    []int64
}

func (p *stubPassengerAPI) SearchRides(_ context.Context, q domain.RideQuery) ([]domain.Ride, error) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.searches = append(p.searches, q)
	return p.results, p.searchErr
}

func (p *stubPassengerAPI) MyBookings(context.Context) ([]domain.Booking, error) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.bookingLoads++
	return p.bookings, p.bookingsErr
}

func (p *stubPassengerAPI) Book(_ context.Context, rideID int64, seats int) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.booked = append(p.booked, [2]int64{rideID, int64(seats)})
	return p.bookErr
}

func (p *stubPassengerAPI) CancelBooking(_ context.Context, id int64) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.cancelled = append(p.cancelled, id)
	return p.cancelErr
}

func (p *stubPassengerAPI) MyPayments(context.Context) ([]domain.PaymentRecord, error) {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.payments, p.paymentsErr
}
