package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"github.com/smartride/smartride-web/internal/api"
	"github.com/smartride/smartride-web/internal/api/middleware"
	"github.com/smartride/smartride-web/internal/api/view"
	"github.com/smartride/smartride-web/internal/core/ports"
	"github.com/smartride/smartride-web/internal/core/service"
	"github.com/smartride/smartride-web/internal/core/session"
	"github.com/smartride/smartride-web/internal/core/validation"
	mongostore "github.com/smartride/smartride-web/internal/infrastructure/db/mongo"
	redisstore "github.com/smartride/smartride-web/internal/infrastructure/db/redis"
	"github.com/smartride/smartride-web/internal/infrastructure/gateway"
	"github.com/smartride/smartride-web/internal/infrastructure/http/handlers"
	"github.com/smartride/smartride-web/internal/pkg/config"
	"github.com/smartride/smartride-web/pkg/logger"
)

const shutdownTimeout = 10 * time.Second

func newServeCmd() *cobra.Command {
	var port string
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Run the web server",
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := config.LoadWith(cmd.Context(), nil)
			if err != nil {
				return err
			}
			if port != "" {
				cfg.Port = port
			}
			return serve(cmd.Context(), cfg)
		},
	}
	cmd.Flags().StringVar(&port, "port", "", "listen port (overrides PORT)")
	return cmd
}

func serve(parent context.Context, cfg *config.Config) error {
	ctx, stop := signal.NotifyContext(parent, syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	log := logger.Init(logger.Options{
		Level:   cfg.LogLevel,
		Pretty:  cfg.IsDevelopment(),
		Version: version,
	})

	store, ready, closeStore, err := openStore(ctx, cfg, log)
	if err != nil {
		return err
	}
	defer closeStore()

	sessions := session.NewManager(store, logger.Component(log, "session"))
	ready["session_store"] = sessions

	client, err := gateway.New(gateway.Config{
		BaseURL:       cfg.API.BaseURL,
		Timeout:       cfg.API.Timeout,
		DriverTimeout: cfg.API.DriverTimeout,
	}, sessions, logger.Component(log, "gateway"))
	if err != nil {
		return err
	}

	renderer, err := view.New()
	if err != nil {
		return err
	}

	v := validation.New()
	screens := service.NewRegistryWithConfig(service.RegistryConfig{
		IdleTimeout: cfg.Screens.IdleTimeout,
		MaxScreens:  cfg.Screens.Max,
	})
	defer screens.CloseAll()
	go screens.Run(ctx)

	e := api.NewRouter(api.Deps{
		Auth: service.NewAuthService(client, client, sessions, v, service.AuthOptions{
			ResetSendsOTP: cfg.API.ResetSendsOTP,
		}, logger.Component(log, "auth")),
		Drivers:    service.NewDriverService(client, client, sessions, v, time.Now, logger.Component(log, "driver")),
		Passengers: service.NewPassengerService(client, sessions, v, logger.Component(log, "passenger")),
		Sessions:   sessions,
		Screens:    screens,
		Renderer:   renderer,
		Validator:  v,
		Ready:      ready,
		Cookie: middleware.SessionConfig{
			CookieName: cfg.Session.CookieName,
			Secure:     cfg.Session.CookieSecure,
		},
		Log: log,
	})

	errCh := make(chan error, 1)
	go func() {
		log.Info().
			Str("port", cfg.Port).
			Str("api", cfg.API.BaseURL).
			Str("session_backend", cfg.Session.Backend).
			Msg("server starting")
		if err := e.Start(":" + cfg.Port); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	log.Info().Msg("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	return e.Shutdown(shutdownCtx)
}

// openStore connects the configured session backend. The returned map holds
// backend connections for the readiness probe.
func openStore(ctx context.Context, cfg *config.Config, log zerolog.Logger) (ports.SessionStore, map[string]handlers.Pinger, func(), error) {
	ready := make(map[string]handlers.Pinger)
	switch cfg.Session.Backend {
	case config.BackendRedis:
		store, err := redisstore.Open(ctx, redisstore.Config{
			Addr:     cfg.Redis.Addr,
			Password: cfg.Redis.Password,
			DB:       cfg.Redis.DB,
		})
		if err != nil {
			return nil, nil, nil, err
		}
		ready["redis"] = store
		log.Info().Str("addr", cfg.Redis.Addr).Msg("redis session store connected")
		return store, ready, func() { _ = store.Close() }, nil

	case config.BackendMongo:
		store, err := mongostore.Open(ctx, mongostore.Config{
			URI:        cfg.Mongo.URI,
			Database:   cfg.Mongo.Database,
			Collection: cfg.Mongo.SessionCollection,
		})
		if err != nil {
			return nil, nil, nil, err
		}
		ready["mongodb"] = store
		log.Info().Str("db", cfg.Mongo.Database).Msg("mongo session store connected")
		return store, ready, func() {
			dctx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
			defer cancel()
			_ = store.Close(dctx)
		}, nil

	case config.BackendMemory:
		log.Warn().Msg("using in-memory session store; sessions are lost on restart")
		return session.NewMemoryStore(), ready, func() {}, nil
	}
	return nil, nil, nil, fmt.Errorf("unknown session backend %q", cfg.Session.Backend)
}
