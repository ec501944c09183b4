package gateway

import (
	"context"
	"fmt"
	"net/http"

	"github.com/smartride/smartride-web/internal/core/domain"
	"github.com/smartride/smartride-web/internal/core/ports"
)

var _ ports.PassengerAPI = (*Client)(nil)

type bookRequest struct {
	RideID int64 `json:"rideId"`
	Seats  int   `json:"seats"`
}

// SearchRides finds rides matching q.
func (c *Client) SearchRides(ctx context.Context, q domain.RideQuery) ([]domain.Ride, error) {
	var out []domain.Ride
	if err := c.do(ctx, call{method: http.MethodPost, path: "/ride/search", body: q, out: &out}); err != nil {
		return nil, err
	}
	return out, nil
}

// MyBookings lists the passenger's bookings.
func (c *Client) MyBookings(ctx context.Context) ([]domain.Booking, error) {
	var out []domain.Booking
	if err := c.do(ctx, call{method: http.MethodGet, path: "/booking/my-book", out: &out}); err != nil {
		return nil, err
	}
	return out, nil
}

// Book reserves seats on a ride.
func (c *Client) Book(ctx context.Context, rideID int64, seats int) error {
	return c.do(ctx, call{method: http.MethodPost, path: "/booking/book", body: bookRequest{RideID: rideID, Seats: seats}})
}

func (c *Client) CancelBooking(ctx context.Context, id int64) error {
	return c.do(ctx, call{
		method: http.MethodDelete,
		path:   fmt.Sprintf("/booking/cancel/%d", id),
		route:  "/booking/cancel/:id",
	})
}

// MyPayments lists the passenger's payment history.
func (c *Client) MyPayments(ctx context.Context) ([]domain.PaymentRecord, error) {
	var out []domain.PaymentRecord
	if err := c.do(ctx, call{method: http.MethodGet, path: "/payment/my", out: &out}); err != nil {
		return nil, err
	}
	return out, nil
}
