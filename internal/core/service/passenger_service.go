package service

import (
	"context"
	"fmt"

	"github.com/rs/zerolog"
	"golang.org/x/sync/errgroup"

	"github.com/smartride/smartride-web/internal/core/domain"
	"github.com/smartride/smartride-web/internal/core/ports"
	"github.com/smartride/smartride-web/internal/core/validation"
)

// PassengerBoard is what the passenger dashboard shows. Bookings and
// payments load independently and each panel keeps its own error.
type PassengerBoard struct {
	Bookings      []domain.Booking
	BookingsError string
	Payments      []domain.PaymentRecord
	PaymentsError string

	Query       domain.RideQuery
	Results     []domain.Ride
	Searched    bool
	SearchError string
	FieldErrors validation.FieldErrors

	Error  string
	Notice string
	// Redirect is set when the session expired.
	Redirect string
}

// PassengerService loads and mutates the passenger dashboard.
type PassengerService struct {
	api      ports.PassengerAPI
	sessions ports.Sessions
	v        *validation.Validator
	log      zerolog.Logger
}

func NewPassengerService(api ports.PassengerAPI, sessions ports.Sessions, v *validation.Validator, log zerolog.Logger) *PassengerService {
	return &PassengerService{api: api, sessions: sessions, v: v, log: log}
}

// PassengerScreen is one mounted passenger dashboard.
type PassengerScreen struct {
	svc *PassengerService
	*screen[PassengerBoard]
}

// Mount creates a dashboard and loads bookings and payments. Ride search is
// deferred until the user submits the search form.
func (s *PassengerService) Mount(ctx context.Context) *PassengerScreen {
	p := &PassengerScreen{svc: s, screen: newScreen(PassengerBoard{Query: domain.RideQuery{Seats: 1}})}

	var g errgroup.Group
	g.Go(func() error {
		p.loadBookings(ctx)
		return nil
	})
	g.Go(func() error {
		p.loadPayments(ctx)
		return nil
	})
	_ = g.Wait()
	return p
}

func (p *PassengerScreen) Board() PassengerBoard { return p.get() }

func (p *PassengerScreen) Close() { p.close() }

func (p *PassengerScreen) loadBookings(ctx context.Context) {
	bookings, err := p.svc.api.MyBookings(ctx)
	if err != nil {
		p.svc.log.Warn().Err(err).Msg("load bookings failed")
		if p.svc.expired(ctx, err) {
			p.update(expirePassenger)
			return
		}
		p.update(func(b *PassengerBoard) { b.BookingsError = "Failed to load bookings" })
		return
	}
	p.update(func(b *PassengerBoard) {
		b.Bookings = bookings
		b.BookingsError = ""
	})
}

func (p *PassengerScreen) loadPayments(ctx context.Context) {
	payments, err := p.svc.api.MyPayments(ctx)
	if err != nil {
		p.svc.log.Warn().Err(err).Msg("load payments failed")
		if p.svc.expired(ctx, err) {
			p.update(expirePassenger)
			return
		}
		p.update(func(b *PassengerBoard) { b.PaymentsError = "Failed to load payments" })
		return
	}
	p.update(func(b *PassengerBoard) {
		b.Payments = payments
		b.PaymentsError = ""
	})
}

// Search runs q and remembers it for re-running after a booking.
func (p *PassengerScreen) Search(ctx context.Context, q domain.RideQuery) PassengerBoard {
	if err := p.svc.v.Struct(q); err != nil {
		return p.update(func(b *PassengerBoard) {
			b.Query = q
			b.FieldErrors, b.SearchError = splitValidation(err)
		})
	}
	p.update(func(b *PassengerBoard) {
		b.Query, b.FieldErrors, b.SearchError = q, nil, ""
	})
	return p.search(ctx, q)
}

func (p *PassengerScreen) search(ctx context.Context, q domain.RideQuery) PassengerBoard {
	rides, err := p.svc.api.SearchRides(ctx, q)
	if err != nil {
		p.svc.log.Warn().Err(err).Str("source", q.Source).Str("destination", q.Destination).Msg("ride search failed")
		if p.svc.expired(ctx, err) {
			return p.update(expirePassenger)
		}
		return p.update(func(b *PassengerBoard) { b.SearchError = "Search failed. Try again." })
	}
	return p.update(func(b *PassengerBoard) {
		b.Results = rides
		b.Searched = true
		b.SearchError = ""
	})
}

// Book reserves seats on a ride. On success bookings are reloaded and the
// last search is re-run when results are on screen.
func (p *PassengerScreen) Book(ctx context.Context, rideID int64, seats int) PassengerBoard {
	if seats < 1 {
		return p.update(func(b *PassengerBoard) {
			b.Error, b.Notice = "Please select at least 1 seat to book.", ""
		})
	}

	if err := p.svc.api.Book(ctx, rideID, seats); err != nil {
		p.svc.log.Warn().Err(err).Int64("ride_id", rideID).Int("seats", seats).Msg("booking failed")
		switch {
		case p.svc.expired(ctx, err):
			return p.update(expirePassenger)
		case isForbidden(err):
			return p.update(func(b *PassengerBoard) {
				b.Error, b.Notice = "You are not authorized to book this ride.", ""
			})
		default:
			msg := apiMessage(err, "Booking failed. Try again.")
			return p.update(func(b *PassengerBoard) { b.Error, b.Notice = msg, "" })
		}
	}

	p.svc.log.Info().Int64("ride_id", rideID).Int("seats", seats).Msg("ride booked")
	p.loadBookings(ctx)
	board := p.update(func(b *PassengerBoard) {
		if b.Redirect != "" {
			return
		}
		b.Error = ""
		b.Notice = fmt.Sprintf("Successfully booked %d seat(s)!", seats)
	})
	if len(board.Results) > 0 && board.Redirect == "" {
		return p.search(ctx, board.Query)
	}
	return board
}

// CancelBooking cancels a booking and reloads the list.
func (p *PassengerScreen) CancelBooking(ctx context.Context, id int64) PassengerBoard {
	if err := p.svc.api.CancelBooking(ctx, id); err != nil {
		p.svc.log.Warn().Err(err).Int64("booking_id", id).Msg("cancel booking failed")
		if p.svc.expired(ctx, err) {
			return p.update(expirePassenger)
		}
		return p.update(func(b *PassengerBoard) { b.Error, b.Notice = "Cancellation failed.", "" })
	}
	p.loadBookings(ctx)
	return p.update(func(b *PassengerBoard) {
		if b.Redirect == "" {
			b.Error, b.Notice = "", "Booking cancelled."
		}
	})
}

func (s *PassengerService) expired(ctx context.Context, err error) bool {
	return clearOnUnauthorized(ctx, s.sessions, err, s.log)
}

func expirePassenger(b *PassengerBoard) {
	b.Error, b.Notice, b.Redirect = msgSessionExpired, "", "/login"
}
