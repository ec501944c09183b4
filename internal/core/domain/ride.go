package domain

import (
	"fmt"
	"time"
)

// endOfDay is used when a ride carries no departure time.
const endOfDay = "23:59"

// Ride is a driver's posted trip.
type Ride struct {
	ID             int64       `json:"id"`
	Source         string      `json:"source"`
	Destination    string      `json:"destination"`
	Date           string      `json:"date"`
	Time           string      `json:"time,omitempty"`
	AvailableSeats int         `json:"availableSeats"`
	BookedSeats    *int        `json:"bookedSeats,omitempty"`
	Price          float64     `json:"price"`
	Distance       string      `json:"distance,omitempty"`
	Rating         *float64    `json:"rating,omitempty"`
	Driver         *UserRecord `json:"driver,omitempty"`
	Bookings       []Booking   `json:"bookings,omitempty"`
}

// Booked returns the number of booked seats, falling back to the bookings
// attached to the ride when the backend omits the counter.
func (r Ride) Booked() int {
	if r.BookedSeats != nil {
		return *r.BookedSeats
	}
	n := 0
	for _, b := range r.Bookings {
		n += b.SeatsBooked
	}
	return n
}

// Departure combines the ride's date and time in loc. A missing time means
// the end of that day.
func (r Ride) Departure(loc *time.Location) (time.Time, error) {
	clock := r.Time
	if clock == "" {
		clock = endOfDay
	}
	for _, layout := range []string{"2006-01-02 15:04", "2006-01-02 15:04:05"} {
		if t, err := time.ParseInLocation(layout, r.Date+" "+clock, loc); err == nil {
			return t, nil
		}
	}
	return time.Time{}, fmt.Errorf("%w: %q %q", ErrInvalidRideTime, r.Date, r.Time)
}

// ClassifyRides splits rides into active (departure at or after now) and
// completed. The split is recomputed on every fetch; a ride whose date cannot
// be parsed counts as completed.
func ClassifyRides(rides []Ride, now time.Time) (active, completed []Ride) {
	active = make([]Ride, 0, len(rides))
	completed = make([]Ride, 0)
	for _, r := range rides {
		dep, err := r.Departure(now.Location())
		if err == nil && !dep.Before(now) {
			active = append(active, r)
			continue
		}
		completed = append(completed, r)
	}
	return active, completed
}

// ReplaceRide swaps the ride with the same id as updated. The slice is
// returned unchanged when no ride matches.
func ReplaceRide(rides []Ride, updated Ride) []Ride {
	out := make([]Ride, len(rides))
	for i, r := range rides {
		if r.ID == updated.ID {
			out[i] = updated
			continue
		}
		out[i] = r
	}
	return out
}

// BookingStatus values as reported by the backend. Comparisons are
// case-insensitive because the backend is not consistent about casing.
const (
	BookingPending   = "PENDING"
	BookingConfirmed = "CONFIRMED"
	BookingRejected  = "REJECTED"
	BookingCompleted = "COMPLETED"
	BookingCancelled = "CANCELLED"
)

// Booking is a passenger's reservation on a ride. A pending booking seen from
// the driver side is a booking request.
type Booking struct {
	ID          int64       `json:"id"`
	Ride        *Ride       `json:"ride,omitempty"`
	Passenger   *UserRecord `json:"passenger,omitempty"`
	Status      string      `json:"status"`
	SeatsBooked int         `json:"seatsBooked"`
}

// Total is the amount owed for the booking.
func (b Booking) Total() float64 {
	if b.Ride == nil {
		return 0
	}
	seats := b.SeatsBooked
	if seats <= 0 {
		seats = 1
	}
	return b.Ride.Price * float64(seats)
}

// RemoveBooking drops the booking with the given id.
func RemoveBooking(bookings []Booking, id int64) []Booking {
	out := make([]Booking, 0, len(bookings))
	for _, b := range bookings {
		if b.ID != id {
			out = append(out, b)
		}
	}
	return out
}

// BookingAction is the driver's decision on a booking request.
type BookingAction string

const (
	ActionAccept BookingAction = "accept"
	ActionReject BookingAction = "reject"
)

// Valid reports whether a is accept or reject.
func (a BookingAction) Valid() bool {
	return a == ActionAccept || a == ActionReject
}
