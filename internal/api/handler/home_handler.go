package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/smartride/smartride-web/internal/core/domain"
	"github.com/smartride/smartride-web/internal/core/ports"
	"github.com/smartride/smartride-web/internal/core/service"
)

// HomeHandler serves the public pages, the role redirect and logout.
type HomeHandler struct {
	sessions ports.Sessions
	screens  *service.Registry
}

func NewHomeHandler(sessions ports.Sessions, screens *service.Registry) *HomeHandler {
	return &HomeHandler{sessions: sessions, screens: screens}
}

func (h *HomeHandler) Landing(c echo.Context) error {
	return render(c, "landing", "", nil)
}

func (h *HomeHandler) Home(c echo.Context) error {
	return render(c, "home", "Home", nil)
}

// Dashboard sends the user to the dashboard of their role.
func (h *HomeHandler) Dashboard(c echo.Context) error {
	snap := snapshotOf(c)
	switch {
	case !snap.Authenticated():
		return c.Redirect(http.StatusSeeOther, "/login")
	case snap.Role == domain.RoleDriver:
		return c.Redirect(http.StatusSeeOther, "/driver-dashboard")
	default:
		return c.Redirect(http.StatusSeeOther, "/passenger-dashboard")
	}
}

// Logout removes the token, user and role and unmounts the current screen.
func (h *HomeHandler) Logout(c echo.Context) error {
	scope, err := scopeOf(c)
	if err != nil {
		return err
	}
	if err := h.sessions.Clear(c.Request().Context()); err != nil {
		return err
	}
	h.screens.Unmount(scope)
	return c.Redirect(http.StatusSeeOther, "/login")
}

// Fallback sends unknown paths to the landing page.
func (h *HomeHandler) Fallback(c echo.Context) error {
	return c.Redirect(http.StatusFound, "/")
}
