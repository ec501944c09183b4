package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/rs/zerolog"
	"golang.org/x/sync/errgroup"

	"github.com/smartride/smartride-web/internal/core/domain"
	"github.com/smartride/smartride-web/internal/core/ports"
	"github.com/smartride/smartride-web/internal/core/validation"
	"github.com/smartride/smartride-web/internal/pkg/metrics"
)

// DriverBoard is what the driver dashboard shows.
type DriverBoard struct {
	Active    []domain.Ride
	Completed []domain.Ride
	Requests  []domain.Booking
	Earnings  domain.EarningsSummary
	Vehicle   domain.VehicleInfo
	Profile   domain.UserRecord
	Loaded    bool

	// Draft is the last submitted post-ride form and FieldErrors its
	// validation messages.
	Draft       domain.RideDraft
	FieldErrors validation.FieldErrors

	Error  string
	Notice string
	// Redirect is set when the session expired.
	Redirect string
}

// DriverService loads and mutates the driver dashboard.
type DriverService struct {
	driver   ports.DriverAPI
	users    ports.UserAPI
	sessions ports.Sessions
	v        *validation.Validator
	now      func() time.Time
	log      zerolog.Logger
}

func NewDriverService(
	driver ports.DriverAPI,
	users ports.UserAPI,
	sessions ports.Sessions,
	v *validation.Validator,
	now func() time.Time,
	log zerolog.Logger,
) *DriverService {
	if now == nil {
		now = time.Now
	}
	return &DriverService{
		driver:   driver,
		users:    users,
		sessions: sessions,
		v:        v,
		now:      now,
		log:      log,
	}
}

// DriverScreen is one mounted driver dashboard.
type DriverScreen struct {
	svc *DriverService
	*screen[DriverBoard]
}

// Mount creates a dashboard and fetches all of its data.
func (s *DriverService) Mount(ctx context.Context) *DriverScreen {
	d := &DriverScreen{svc: s, screen: newScreen(DriverBoard{})}
	d.Reload(ctx)
	return d
}

func (d *DriverScreen) Board() DriverBoard { return d.get() }

func (d *DriverScreen) Close() { d.close() }

type driverData struct {
	rides    []domain.Ride
	requests []domain.Booking
	earnings *domain.EarningsSummary
	vehicle  *domain.VehicleInfo
	profile  *domain.UserRecord
}

// fetch loads the five data sets in parallel. The first failure cancels the
// others.
func (s *DriverService) fetch(ctx context.Context) (driverData, error) {
	var data driverData
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() (err error) {
		data.rides, err = s.driver.Rides(gctx)
		return err
	})
	g.Go(func() (err error) {
		data.requests, err = s.driver.BookingRequests(gctx)
		return err
	})
	g.Go(func() (err error) {
		data.earnings, err = s.driver.Earnings(gctx)
		return err
	})
	g.Go(func() (err error) {
		data.vehicle, err = s.driver.Vehicle(gctx)
		return err
	})
	g.Go(func() (err error) {
		data.profile, err = s.users.Profile(gctx)
		return err
	})
	if err := g.Wait(); err != nil {
		return driverData{}, err
	}
	return data, nil
}

// Reload refetches everything. On failure the previous data stays and the
// error is shown.
func (d *DriverScreen) Reload(ctx context.Context) DriverBoard {
	data, err := d.svc.fetch(ctx)
	if err != nil {
		d.svc.log.Warn().Err(err).Msg("driver dashboard load failed")
		if d.svc.expired(ctx, err) {
			return d.update(expire)
		}
		return d.update(func(b *DriverBoard) { b.Error = loadFailure(err) })
	}

	active, completed := domain.ClassifyRides(data.rides, d.svc.now())
	return d.update(func(b *DriverBoard) {
		b.Error = ""
		b.Active, b.Completed = active, completed
		b.Requests = data.requests
		if data.earnings != nil {
			b.Earnings = *data.earnings
		}
		if data.vehicle != nil {
			b.Vehicle = *data.vehicle
		}
		if data.profile != nil {
			b.Profile = *data.profile
		}
		b.Loaded = true
	})
}

// PostRide validates and publishes a ride, then refetches the dashboard.
func (d *DriverScreen) PostRide(ctx context.Context, draft domain.RideDraft) DriverBoard {
	if err := d.svc.v.Struct(draft); err != nil {
		return d.update(func(b *DriverBoard) {
			b.Draft = draft
			b.Notice = ""
			b.FieldErrors, b.Error = splitValidation(err)
		})
	}

	if err := d.svc.driver.PostRide(ctx, draft); err != nil {
		d.svc.log.Warn().Err(err).Msg("post ride failed")
		return d.fail(ctx, err, "Failed to post ride", func(b *DriverBoard) { b.Draft = draft })
	}

	d.svc.log.Info().Str("source", draft.Source).Str("destination", draft.Destination).Msg("ride posted")
	d.update(func(b *DriverBoard) {
		b.Draft, b.FieldErrors, b.Error = domain.RideDraft{}, nil, ""
		b.Notice = "Ride posted successfully!"
	})
	return d.Reload(ctx)
}

// Respond accepts or rejects a booking request and patches the lists
// locally instead of refetching.
func (d *DriverScreen) Respond(ctx context.Context, id int64, action domain.BookingAction) DriverBoard {
	if !action.Valid() {
		return d.update(func(b *DriverBoard) { b.Error, b.Notice = "Action failed.", "" })
	}

	booking, err := d.svc.driver.RespondToBooking(ctx, id, action)
	if err != nil {
		d.svc.log.Warn().Err(err).Int64("booking_id", id).Str("action", string(action)).Msg("booking action failed")
		return d.fail(ctx, err, "Action failed.", nil)
	}

	return d.update(func(b *DriverBoard) {
		b.Requests = domain.RemoveBooking(b.Requests, id)
		if booking != nil && booking.Ride != nil {
			b.Active = domain.ReplaceRide(b.Active, *booking.Ride)
		}
		b.Error = ""
		b.Notice = "Booking rejected!"
		if action == domain.ActionAccept {
			b.Notice = "Booking accepted!"
		}
	})
}

// UpdateVehicle saves the vehicle details, then refetches.
func (d *DriverScreen) UpdateVehicle(ctx context.Context, v domain.VehicleInfo) DriverBoard {
	if err := d.svc.driver.UpdateVehicle(ctx, v); err != nil {
		d.svc.log.Warn().Err(err).Msg("update vehicle failed")
		return d.fail(ctx, err, "Update failed", nil)
	}
	d.update(func(b *DriverBoard) { b.Error, b.Notice = "", "Vehicle info updated!" })
	return d.Reload(ctx)
}

// MarkNotificationRead marks a notification read, then refetches. Failures
// are only logged.
func (d *DriverScreen) MarkNotificationRead(ctx context.Context, id int64) DriverBoard {
	if err := d.svc.driver.MarkNotificationRead(ctx, id); err != nil {
		d.svc.log.Warn().Err(err).Int64("notification_id", id).Msg("mark notification read failed")
		if d.svc.expired(ctx, err) {
			return d.update(expire)
		}
		return d.get()
	}
	return d.Reload(ctx)
}

// fail records an action failure. A 401 ends the session instead.
func (d *DriverScreen) fail(ctx context.Context, err error, fallback string, also func(*DriverBoard)) DriverBoard {
	if d.svc.expired(ctx, err) {
		return d.update(expire)
	}
	msg := apiMessage(err, fallback)
	if isForbidden(err) {
		msg = msgNotAuthorized
	}
	return d.update(func(b *DriverBoard) {
		if also != nil {
			also(b)
		}
		b.Error, b.Notice = msg, ""
	})
}

// expired clears the session when err is a 401.
func (s *DriverService) expired(ctx context.Context, err error) bool {
	return clearOnUnauthorized(ctx, s.sessions, err, s.log)
}

func expire(b *DriverBoard) {
	b.Error, b.Notice, b.Redirect = msgSessionExpired, "", "/login"
}

// loadFailure formats a dashboard load error the way each failure class is
// reported.
func loadFailure(err error) string {
	var ae ports.APIError
	switch {
	case errors.As(err, &ae) && ae.Unreachable():
		return msgUnreachable
	case errors.As(err, &ae) && ae.HTTPStatus() != 0:
		return "Backend error: " + ae.UserMessage()
	case errors.As(err, &ae):
		return "Error: " + ae.UserMessage()
	default:
		return fmt.Sprintf("Error: %v", err)
	}
}

// clearOnUnauthorized ends the session after the API rejected the stored
// credential and reports whether it did.
func clearOnUnauthorized(ctx context.Context, sessions ports.Sessions, err error, log zerolog.Logger) bool {
	if !isUnauthorized(err) {
		return false
	}
	metrics.SessionsExpiredTotal.Inc()
	if cerr := sessions.Clear(ctx); cerr != nil {
		log.Error().Err(cerr).Msg("clear expired session failed")
	}
	return true
}

// splitValidation separates per-field messages from any other error.
func splitValidation(err error) (validation.FieldErrors, string) {
	var fe validation.FieldErrors
	if errors.As(err, &fe) {
		return fe, ""
	}
	return nil, err.Error()
}
