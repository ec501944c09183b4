package middleware

import (
	"net/http"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
	echomiddleware "github.com/labstack/echo/v4/middleware"

	"github.com/smartride/smartride-web/internal/core/session"
)

const (
	// DefaultCookieName names the browser-profile cookie.
	DefaultCookieName = "smartride_sid"
	// ScopeKey is the echo context key holding the browser-profile id.
	ScopeKey = "session_scope"

	cookieMaxAge = 365 * 24 * time.Hour
)

// SessionConfig configures the Session middleware.
type SessionConfig struct {
	Skipper    echomiddleware.Skipper
	CookieName string
	Secure     bool
}

// Session identifies the browser profile by a random id kept in a cookie,
// issuing one on first contact, and puts it on the request context where the
// session manager and the API client look for it.
func Session(cfg SessionConfig) echo.MiddlewareFunc {
	if cfg.Skipper == nil {
		cfg.Skipper = echomiddleware.DefaultSkipper
	}
	if cfg.CookieName == "" {
		cfg.CookieName = DefaultCookieName
	}

	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			if cfg.Skipper(c) {
				return next(c)
			}

			var scope string
			if ck, err := c.Cookie(cfg.CookieName); err == nil {
				if id, err := uuid.Parse(ck.Value); err == nil {
					scope = id.String()
				}
			}
			if scope == "" {
				scope = uuid.NewString()
				c.SetCookie(&http.Cookie{
					Name:     cfg.CookieName,
					Value:    scope,
					Path:     "/",
					MaxAge:   int(cookieMaxAge.Seconds()),
					HttpOnly: true,
					Secure:   cfg.Secure,
					SameSite: http.SameSiteLaxMode,
				})
			}

			c.Set(ScopeKey, scope)
			req := c.Request()
			c.SetRequest(req.WithContext(session.NewContext(req.Context(), scope)))
			return next(c)
		}
	}
}

// SkipInfra skips probe and metrics endpoints.
func SkipInfra(c echo.Context) bool {
	p := c.Request().URL.Path
	return strings.HasPrefix(p, "/health") || p == "/metrics"
}
