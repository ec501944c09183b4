package domain

import (
	"testing"
	"time"
)

func TestClassifyRides(t *testing.T) {
	loc := time.FixedZone("IST", 5*3600+1800)
	now := time.Date(2025, 3, 10, 12, 0, 0, 0, loc)

	rides := []Ride{
		{ID: 1, Date: "2025-03-10", Time: "12:00"},    // exactly now
		{ID: 2, Date: "2025-03-10", Time: "11:59"},    // a minute ago
		{ID: 3, Date: "2025-03-10"},                   // no time: end of today
		{ID: 4, Date: "2025-03-09"},                   // no time: end of yesterday
		{ID: 5, Date: "2025-03-11", Time: "08:30:00"}, // seconds layout
		{ID: 6, Date: "not-a-date", Time: "10:00"},
	}

	active, completed := ClassifyRides(rides, now)

	ids := func(rs []Ride) []int64 {
		out := make([]int64, len(rs))
		for i, r := range rs {
			out[i] = r.ID
		}
		return out
	}
	wantActive := []int64{1, 3, 5}
	wantCompleted := []int64{2, 4, 6}
	if got := ids(active); !equalIDs(got, wantActive) {
		t.Fatalf("active: expected %v, got %v", wantActive, got)
	}
	if got := ids(completed); !equalIDs(got, wantCompleted) {
		t.Fatalf("completed: expected %v, got %v", wantCompleted, got)
	}
}

func TestClassifyRides_Empty(t *testing.T) {
	active, completed := ClassifyRides(nil, time.Now())
	if len(active) != 0 || len(completed) != 0 {
		t.Fatalf("expected empty results")
	}
}

func TestDeparture_DefaultsToEndOfDay(t *testing.T) {
	dep, err := Ride{Date: "2025-01-02"}.Departure(time.UTC)
	if err != nil {
		t.Fatalf("departure: %v", err)
	}
	want := time.Date(2025, 1, 2, 23, 59, 0, 0, time.UTC)
	if !dep.Equal(want) {
		t.Fatalf("expected %v, got %v", want, dep)
	}
}

func TestReplaceRideAndRemoveBooking(t *testing.T) {
	rides := []Ride{{ID: 1, AvailableSeats: 3}, {ID: 2, AvailableSeats: 4}}
	out := ReplaceRide(rides, Ride{ID: 2, AvailableSeats: 2})
	if out[1].AvailableSeats != 2 || out[0].AvailableSeats != 3 {
		t.Fatalf("unexpected rides %+v", out)
	}
	if rides[1].AvailableSeats != 4 {
		t.Fatalf("input slice must not be modified")
	}

	bookings := RemoveBooking([]Booking{{ID: 10}, {ID: 11}}, 10)
	if len(bookings) != 1 || bookings[0].ID != 11 {
		t.Fatalf("unexpected bookings %+v", bookings)
	}
}

func TestBookingTotalAndBooked(t *testing.T) {
	b := Booking{SeatsBooked: 2, Ride: &Ride{Price: 150}}
	if b.Total() != 300 {
		t.Fatalf("expected 300, got %v", b.Total())
	}
	if (Booking{}).Total() != 0 {
		t.Fatalf("booking without ride must total 0")
	}

	r := Ride{Bookings: []Booking{{SeatsBooked: 1}, {SeatsBooked: 2}}}
	if r.Booked() != 3 {
		t.Fatalf("expected 3 booked, got %d", r.Booked())
	}
	n := 5
	r.BookedSeats = &n
	if r.Booked() != 5 {
		t.Fatalf("explicit counter must win, got %d", r.Booked())
	}
}

func equalIDs(a, b []int64) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}
