package api

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog"

	"github.com/smartride/smartride-web/internal/api/view"
	"github.com/smartride/smartride-web/internal/core/domain"
	"github.com/smartride/smartride-web/internal/core/guard"
)

// NewHTTPErrorHandler returns an echo.HTTPErrorHandler that:
//   - Sends the browser back to a page it can use for session and screen errors.
//   - Logs unexpected errors internally without leaking details to the user.
//   - Renders the error page, falling back to plain text.
func NewHTTPErrorHandler(log zerolog.Logger) echo.HTTPErrorHandler {
	return func(err error, c echo.Context) {
		if c.Response().Committed {
			return
		}

		if to, ok := redirectFor(err, c); ok {
			_ = c.Redirect(http.StatusSeeOther, to)
			return
		}

		code, msg := resolveError(err, log, c)
		page := view.Page{Title: http.StatusText(code), Body: view.ErrorBody{Code: code, Message: msg}}
		if rerr := c.Render(code, "error", page); rerr != nil {
			_ = c.String(code, msg)
		}
	}
}

// redirectFor handles errors that mean "go somewhere else" rather than
// "something broke". An action posted to a screen that is no longer mounted
// lands on the screen's page, which mounts it again.
func redirectFor(err error, c echo.Context) (string, bool) {
	switch {
	case errors.Is(err, domain.ErrUnauthenticated):
		return "/login", true
	case errors.Is(err, domain.ErrNotMounted):
		if r, ok := guard.Lookup(c.Request().URL.Path); ok {
			return r.Path, true
		}
		return "/", true
	}
	return "", false
}

func resolveError(err error, log zerolog.Logger, c echo.Context) (int, string) {
	// Echo's own errors (bind failures, 404 from router, etc.)
	var he *echo.HTTPError
	if errors.As(err, &he) {
		return he.Code, fmt.Sprintf("%v", he.Message)
	}

	if errors.Is(err, domain.ErrForbidden) {
		return http.StatusForbidden, "You are not authorized to perform this action."
	}

	// Unexpected error: log the real cause, return a generic message.
	log.Error().
		Err(err).
		Str("method", c.Request().Method).
		Str("path", c.Path()).
		Msg("unhandled error")

	return http.StatusInternalServerError, "Something went wrong. Please try again."
}
