package api

import (
	"github.com/labstack/echo-contrib/echoprometheus"
	"github.com/labstack/echo/v4"
	echomiddleware "github.com/labstack/echo/v4/middleware"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/rs/zerolog"

	"github.com/smartride/smartride-web/internal/api/handler"
	"github.com/smartride/smartride-web/internal/api/middleware"
	"github.com/smartride/smartride-web/internal/core/ports"
	"github.com/smartride/smartride-web/internal/core/service"
	"github.com/smartride/smartride-web/internal/infrastructure/http/handlers"
)

// Deps is everything the router wires into handlers.
type Deps struct {
	Auth       handler.AuthFlows
	Drivers    handler.DriverBoards
	Passengers handler.PassengerBoards
	Sessions   ports.Sessions
	Screens    *service.Registry

	Renderer  echo.Renderer
	Validator echo.Validator
	// Ready lists the dependencies checked by /health/ready.
	Ready map[string]handlers.Pinger

	Cookie middleware.SessionConfig
	// Registerer and Gatherer default to the global Prometheus registry.
	Registerer prometheus.Registerer
	Gatherer   prometheus.Gatherer

	Log zerolog.Logger
}

// NewRouter builds and returns the Echo instance with all routes registered.
func NewRouter(d Deps) *echo.Echo {
	if d.Registerer == nil {
		d.Registerer = prometheus.DefaultRegisterer
	}
	if d.Gatherer == nil {
		d.Gatherer = prometheus.DefaultGatherer
	}
	if d.Screens == nil {
		d.Screens = service.NewRegistry()
	}

	e := echo.New()
	e.HideBanner = true
	e.HidePort = true
	e.Renderer = d.Renderer
	e.Validator = d.Validator
	e.HTTPErrorHandler = NewHTTPErrorHandler(d.Log)

	// --- Global middleware ---
	e.Use(echomiddleware.Recover())
	e.Use(echomiddleware.RequestID())
	e.Use(middleware.RequestLogger(d.Log))
	e.Use(echoprometheus.NewMiddlewareWithConfig(echoprometheus.MiddlewareConfig{
		Namespace:  "smartride",
		Subsystem:  "http",
		Registerer: d.Registerer,
		Skipper:    middleware.SkipInfra,
	}))

	cookie := d.Cookie
	cookie.Skipper = middleware.SkipInfra
	e.Use(middleware.Session(cookie))
	e.Use(middleware.Guard(middleware.GuardConfig{
		Skipper:  middleware.SkipInfra,
		Sessions: d.Sessions,
		Log:      d.Log,
	}))

	// --- Dependencies ---
	home := handler.NewHomeHandler(d.Sessions, d.Screens)
	auth := handler.NewAuthHandler(d.Auth, d.Screens)
	driver := handler.NewDriverHandler(d.Drivers, d.Screens)
	passenger := handler.NewPassengerHandler(d.Passengers, d.Screens)

	// --- Public pages ---
	e.GET("/", home.Landing)
	e.GET("/home", home.Home)
	e.POST("/logout", home.Logout)

	e.GET("/register", auth.RegisterPage)
	e.POST("/register", auth.Register)

	e.GET("/login", auth.LoginPage)
	e.GET("/login/otp", auth.LoginOTPPage)
	e.POST("/login/email", auth.LoginEmail)
	e.POST("/login/otp", auth.LoginOTP)
	e.POST("/login/password", auth.LoginPassword)
	e.POST("/login/resend", auth.LoginResend)
	e.POST("/login/start-over", auth.LoginStartOver)

	e.GET("/forgot-password", auth.ResetPage)
	e.GET("/forgot-password/otp", auth.ResetOTPPage)
	e.POST("/forgot-password/email", auth.ResetEmail)
	e.POST("/forgot-password/otp", auth.ResetOTP)
	e.POST("/forgot-password/password", auth.ResetPassword)
	e.POST("/forgot-password/resend", auth.ResetResend)
	e.POST("/forgot-password/start-over", auth.ResetStartOver)

	// --- Guarded pages ---
	e.GET("/dashboard", home.Dashboard)

	drv := e.Group("/driver-dashboard")
	drv.GET("", driver.Page)
	drv.POST("/rides", driver.PostRide)
	drv.POST("/bookings/:id/:action", driver.RespondToBooking)
	drv.POST("/vehicle", driver.UpdateVehicle)
	drv.POST("/notifications/:id/read", driver.MarkNotificationRead)

	pax := e.Group("/passenger-dashboard")
	pax.GET("", passenger.Page)
	pax.POST("/search", passenger.Search)
	pax.POST("/book", passenger.Book)
	pax.POST("/bookings/:id/cancel", passenger.CancelBooking)

	// --- Health probes and metrics ---
	healthHandler := handlers.NewHealthHandler()
	healthDepsHandler := handlers.NewHealthDependenciesHandler(d.Ready)

	e.GET("/health", healthHandler.Liveness)            // liveness  – is the process alive?
	e.GET("/health/ready", healthDepsHandler.Readiness) // readiness – are dependencies up?
	e.GET("/metrics", echoprometheus.NewHandlerWithConfig(echoprometheus.HandlerConfig{Gatherer: d.Gatherer}))

	e.GET("/*", home.Fallback)

	return e
}
