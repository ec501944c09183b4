package gateway

import (
	"context"
	"fmt"
	"net/http"

	"github.com/smartride/smartride-web/internal/core/domain"
	"github.com/smartride/smartride-web/internal/core/ports"
)

var _ ports.DriverAPI = (*Client)(nil)

// Rides lists the rides the driver has posted.
func (c *Client) Rides(ctx context.Context) ([]domain.Ride, error) {
	var out []domain.Ride
	err := c.do(ctx, call{method: http.MethodGet, path: "/driver/rides", out: &out, timeout: c.driverTimeout})
	if err != nil {
		return nil, err
	}
	return out, nil
}

// PostRide publishes a new ride.
func (c *Client) PostRide(ctx context.Context, draft domain.RideDraft) error {
	return c.do(ctx, call{method: http.MethodPost, path: "/driver/ride", body: draft, timeout: c.driverTimeout})
}

func (c *Client) Earnings(ctx context.Context) (*domain.EarningsSummary, error) {
	var out domain.EarningsSummary
	err := c.do(ctx, call{method: http.MethodGet, path: "/driver/earnings", out: &out, timeout: c.driverTimeout})
	if err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *Client) Vehicle(ctx context.Context) (*domain.VehicleInfo, error) {
	var out domain.VehicleInfo
	err := c.do(ctx, call{method: http.MethodGet, path: "/driver/vehicle", out: &out, timeout: c.driverTimeout})
	if err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *Client) UpdateVehicle(ctx context.Context, v domain.VehicleInfo) error {
	return c.do(ctx, call{method: http.MethodPut, path: "/driver/vehicle", body: v, timeout: c.driverTimeout})
}

func (c *Client) MarkNotificationRead(ctx context.Context, id int64) error {
	return c.do(ctx, call{
		method:  http.MethodPost,
		path:    fmt.Sprintf("/driver/notifications/%d/read", id),
		route:   "/driver/notifications/:id/read",
		timeout: c.driverTimeout,
	})
}

// BookingRequests lists pending requests on the driver's rides.
func (c *Client) BookingRequests(ctx context.Context) ([]domain.Booking, error) {
	var out []domain.Booking
	err := c.do(ctx, call{method: http.MethodGet, path: "/ride/booking-requests", out: &out, timeout: c.driverTimeout})
	if err != nil {
		return nil, err
	}
	return out, nil
}

// RespondToBooking accepts or rejects a booking request and returns the
// updated booking, including its ride.
func (c *Client) RespondToBooking(ctx context.Context, id int64, action domain.BookingAction) (*domain.Booking, error) {
	if !action.Valid() {
		return nil, &Error{Kind: KindRequest, Endpoint: "POST /booking/bookings", Message: "Unknown booking action"}
	}
	var out domain.Booking
	err := c.do(ctx, call{
		method:  http.MethodPost,
		path:    fmt.Sprintf("/booking/bookings/%d/%s", id, action),
		route:   "/booking/bookings/:id/" + string(action),
		body:    struct{}{},
		out:     &out,
		timeout: c.driverTimeout,
	})
	if err != nil {
		return nil, err
	}
	return &out, nil
}
