package middleware

import (
	"context"
	"fmt"
	"net/http"

	"github.com/labstack/echo/v4"
	echomiddleware "github.com/labstack/echo/v4/middleware"
	"github.com/rs/zerolog"

	"github.com/smartride/smartride-web/internal/core/guard"
	"github.com/smartride/smartride-web/internal/core/ports"
	"github.com/smartride/smartride-web/internal/pkg/metrics"
)

// SnapshotKey is the echo context key holding the session snapshot read by
// the guard.
const SnapshotKey = "session_snapshot"

// SnapshotReader reads the session of the current request.
type SnapshotReader interface {
	Snapshot(ctx context.Context) (ports.Snapshot, error)
}

type GuardConfig struct {
	Skipper  echomiddleware.Skipper
	Sessions SnapshotReader
	Log      zerolog.Logger
}

// Guard re-reads the session on every request and redirects when the route
// is not open to it.
func Guard(cfg GuardConfig) echo.MiddlewareFunc {
	if cfg.Skipper == nil {
		cfg.Skipper = echomiddleware.DefaultSkipper
	}

	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			if cfg.Skipper(c) {
				return next(c)
			}

			snap, err := cfg.Sessions.Snapshot(c.Request().Context())
			if err != nil {
				return fmt.Errorf("guard: read session: %w", err)
			}
			c.Set(SnapshotKey, snap)

			d := guard.Evaluate(c.Request().URL.Path, snap)
			if d.Allow {
				return next(c)
			}

			metrics.GuardRedirectsTotal.WithLabelValues(d.Reason).Inc()
			cfg.Log.Debug().
				Str("path", c.Request().URL.Path).
				Str("reason", d.Reason).
				Str("to", d.Redirect).
				Msg("route guarded")
			return c.Redirect(http.StatusSeeOther, d.Redirect)
		}
	}
}
