package handler

import (
	"context"
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/smartride/smartride-web/internal/core/domain"
	"github.com/smartride/smartride-web/internal/core/service"
)

// PassengerBoards mounts passenger dashboards.
type PassengerBoards interface {
	Mount(ctx context.Context) *service.PassengerScreen
}

type PassengerHandler struct {
	boards  PassengerBoards
	screens *service.Registry
}

func NewPassengerHandler(boards PassengerBoards, screens *service.Registry) *PassengerHandler {
	return &PassengerHandler{boards: boards, screens: screens}
}

func (h *PassengerHandler) Page(c echo.Context) error {
	scope, err := scopeOf(c)
	if err != nil {
		return err
	}
	screen := h.boards.Mount(c.Request().Context())
	h.screens.Mount(scope, screen)
	return h.render(c, scope, screen.Board())
}

func (h *PassengerHandler) Search(c echo.Context) error {
	screen, scope, err := h.current(c)
	if err != nil {
		return err
	}
	var q domain.RideQuery
	if err := c.Bind(&q); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid form data")
	}
	return h.render(c, scope, screen.Search(c.Request().Context(), q))
}

// Book reserves seats. An unreadable seat count is treated as zero so the
// screen reports it like an empty selection.
func (h *PassengerHandler) Book(c echo.Context) error {
	var form bookingForm
	if err := bindValid(c, &form, "booking form"); err != nil {
		return err
	}
	screen, scope, err := h.current(c)
	if err != nil {
		return err
	}
	return h.render(c, scope, screen.Book(c.Request().Context(), form.RideID, form.seats()))
}

func (h *PassengerHandler) CancelBooking(c echo.Context) error {
	var p idParam
	if err := bindValid(c, &p, "booking id"); err != nil {
		return err
	}
	screen, scope, err := h.current(c)
	if err != nil {
		return err
	}
	return h.render(c, scope, screen.CancelBooking(c.Request().Context(), p.ID))
}

func (h *PassengerHandler) current(c echo.Context) (*service.PassengerScreen, string, error) {
	scope, err := scopeOf(c)
	if err != nil {
		return nil, "", err
	}
	screen, ok := service.Current[*service.PassengerScreen](h.screens, scope)
	if !ok {
		return nil, "", domain.ErrNotMounted
	}
	return screen, scope, nil
}

func (h *PassengerHandler) render(c echo.Context, scope string, b service.PassengerBoard) error {
	if b.Redirect != "" {
		h.screens.Unmount(scope)
		return c.Redirect(http.StatusSeeOther, b.Redirect)
	}
	return render(c, "passenger", "Passenger dashboard", b)
}
