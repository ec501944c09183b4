package handler

import (
	"context"
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/smartride/smartride-web/internal/core/domain"
	"github.com/smartride/smartride-web/internal/core/service"
)

// DriverBoards mounts driver dashboards.
type DriverBoards interface {
	Mount(ctx context.Context) *service.DriverScreen
}

type DriverHandler struct {
	boards  DriverBoards
	screens *service.Registry
}

func NewDriverHandler(boards DriverBoards, screens *service.Registry) *DriverHandler {
	return &DriverHandler{boards: boards, screens: screens}
}

// Page mounts a fresh dashboard and loads everything on it.
func (h *DriverHandler) Page(c echo.Context) error {
	scope, err := scopeOf(c)
	if err != nil {
		return err
	}
	screen := h.boards.Mount(c.Request().Context())
	h.screens.Mount(scope, screen)
	return h.render(c, scope, screen.Board())
}

func (h *DriverHandler) PostRide(c echo.Context) error {
	screen, scope, err := h.current(c)
	if err != nil {
		return err
	}
	var draft domain.RideDraft
	if err := c.Bind(&draft); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid form data")
	}
	return h.render(c, scope, screen.PostRide(c.Request().Context(), draft))
}

func (h *DriverHandler) RespondToBooking(c echo.Context) error {
	var p idParam
	if err := bindValid(c, &p, "booking id"); err != nil {
		return err
	}
	screen, scope, err := h.current(c)
	if err != nil {
		return err
	}
	action := domain.BookingAction(c.Param("action"))
	return h.render(c, scope, screen.Respond(c.Request().Context(), p.ID, action))
}

func (h *DriverHandler) UpdateVehicle(c echo.Context) error {
	screen, scope, err := h.current(c)
	if err != nil {
		return err
	}
	var v domain.VehicleInfo
	if err := c.Bind(&v); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid form data")
	}
	return h.render(c, scope, screen.UpdateVehicle(c.Request().Context(), v))
}

func (h *DriverHandler) MarkNotificationRead(c echo.Context) error {
	var p idParam
	if err := bindValid(c, &p, "notification id"); err != nil {
		return err
	}
	screen, scope, err := h.current(c)
	if err != nil {
		return err
	}
	return h.render(c, scope, screen.MarkNotificationRead(c.Request().Context(), p.ID))
}

func (h *DriverHandler) current(c echo.Context) (*service.DriverScreen, string, error) {
	scope, err := scopeOf(c)
	if err != nil {
		return nil, "", err
	}
	screen, ok := service.Current[*service.DriverScreen](h.screens, scope)
	if !ok {
		return nil, "", domain.ErrNotMounted
	}
	return screen, scope, nil
}

func (h *DriverHandler) render(c echo.Context, scope string, b service.DriverBoard) error {
	if b.Redirect != "" {
		h.screens.Unmount(scope)
		return c.Redirect(http.StatusSeeOther, b.Redirect)
	}
	return render(c, "driver", "Driver dashboard", b)
}
