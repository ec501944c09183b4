package config

import (
	"context"
	"fmt"
	"time"

	"github.com/sethvargo/go-envconfig"
)

// Session store backends.
const (
	BackendMemory = "memory"
	BackendRedis  = "redis"
	BackendMongo  = "mongo"
)

type Config struct {
	Port     string `env:"PORT,      default=3000"`
	Env      string `env:"ENV,       default=development"`
	LogLevel string `env:"LOG_LEVEL, default=info"`

	API     APIConfig
	Session SessionConfig
	Screens ScreenConfig
	Mongo   MongoConfig
	Redis   RedisConfig
}

// APIConfig points at the SmartRide backend.
type APIConfig struct {
	BaseURL       string        `env:"API_BASE_URL,       default=http://localhost:8080/api"`
	Timeout       time.Duration `env:"API_TIMEOUT,        default=10s"`
	DriverTimeout time.Duration `env:"API_DRIVER_TIMEOUT, default=5s"`
	// ResetSendsOTP includes the collected code in the reset-password call.
	ResetSendsOTP bool `env:"API_RESET_SENDS_OTP, default=false"`
}

type SessionConfig struct {
	Backend      string `env:"SESSION_BACKEND,       default=memory"`
	CookieName   string `env:"SESSION_COOKIE_NAME,   default=smartride_sid"`
	CookieSecure bool   `env:"SESSION_COOKIE_SECURE, default=false"`
}

// ScreenConfig bounds the auth flows and dashboards held in memory for
// browser profiles.
type ScreenConfig struct {
	IdleTimeout time.Duration `env:"SCREEN_IDLE_TIMEOUT, default=15m"`
	Max         int           `env:"SCREEN_MAX,          default=10000"`
}

type MongoConfig struct {
	URI               string `env:"MONGO_URI,                default=mongodb://localhost:27017"`
	Database          string `env:"MONGO_DB,                 default=smartride"`
	SessionCollection string `env:"MONGO_SESSION_COLLECTION, default=sessions"`
}

type RedisConfig struct {
	Addr     string `env:"REDIS_ADDR,     default=localhost:6379"`
	Password string `env:"REDIS_PASSWORD"`
	DB       int    `env:"REDIS_DB,       default=0"`
}

// IsDevelopment reports whether human-friendly output should be used.
func (c *Config) IsDevelopment() bool { return c.Env == "development" }

// Validate checks values envconfig cannot express.
func (c *Config) Validate() error {
	switch c.Session.Backend {
	case BackendMemory, BackendRedis, BackendMongo:
	default:
		return fmt.Errorf("config: unknown SESSION_BACKEND %q", c.Session.Backend)
	}
	if c.API.BaseURL == "" {
		return fmt.Errorf("config: API_BASE_URL is required")
	}
	if c.API.Timeout <= 0 || c.API.DriverTimeout <= 0 {
		return fmt.Errorf("config: API timeouts must be positive")
	}
	if c.Screens.IdleTimeout <= 0 || c.Screens.Max <= 0 {
		return fmt.Errorf("config: SCREEN_IDLE_TIMEOUT and SCREEN_MAX must be positive")
	}
	return nil
}

// LoadWith reads configuration from l, which is the process environment
// when nil.
func LoadWith(ctx context.Context, l envconfig.Lookuper) (*Config, error) {
	if l == nil {
		l = envconfig.OsLookuper()
	}
	var cfg Config
	if err := envconfig.ProcessWith(ctx, &envconfig.Config{Target: &cfg, Lookuper: l}); err != nil {
		return nil, fmt.Errorf("config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}
