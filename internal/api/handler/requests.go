package handler

import (
	"net/http"
	"strconv"

	"github.com/labstack/echo/v4"
)

// Form and path payloads checked with c.Validate before they reach a screen.
// Field-level messages shown on the dashboards come from the screens; these
// only reject requests no page of ours would send.

// bookingForm is the passenger "Book" form. Seats stays a string so an
// unreadable count reaches the screen as zero.
type bookingForm struct {
	RideID int64  `form:"ride_id" validate:"required,gt=0"`
	Seats  string `form:"seats"`
}

func (f bookingForm) seats() int {
	n, _ := strconv.Atoi(f.Seats)
	return n
}

// idParam addresses one booking or notification in the URL.
type idParam struct {
	ID int64 `param:"id" validate:"required,gt=0"`
}

// bindValid binds req and validates it, mapping failures to 400 and 422.
func bindValid(c echo.Context, req any, what string) error {
	if err := c.Bind(req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid "+what)
	}
	if err := c.Validate(req); err != nil {
		return echo.NewHTTPError(http.StatusUnprocessableEntity, err.Error())
	}
	return nil
}
