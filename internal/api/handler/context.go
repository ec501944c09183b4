package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/smartride/smartride-web/internal/api/middleware"
	"github.com/smartride/smartride-web/internal/api/view"
	"github.com/smartride/smartride-web/internal/core/domain"
	"github.com/smartride/smartride-web/internal/core/ports"
)

// scopeOf returns the browser-profile id set by the Session middleware.
func scopeOf(c echo.Context) (string, error) {
	scope, _ := c.Get(middleware.ScopeKey).(string)
	if scope == "" {
		return "", domain.ErrSessionMissing
	}
	return scope, nil
}

// snapshotOf returns the session read by the Guard middleware, or an empty
// snapshot on routes the guard does not cover.
func snapshotOf(c echo.Context) ports.Snapshot {
	snap, _ := c.Get(middleware.SnapshotKey).(ports.Snapshot)
	return snap
}

func render(c echo.Context, name, title string, body any) error {
	return renderPage(c, name, view.Page{Title: title, Body: body})
}

// renderPage fills in the session user and renders p.
func renderPage(c echo.Context, name string, p view.Page) error {
	p.User = snapshotOf(c).User
	return c.Render(http.StatusOK, name, p)
}
