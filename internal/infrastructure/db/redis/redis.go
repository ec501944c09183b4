package redis

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

const (
	defaultDialTimeout = 5 * time.Second
	// Session reads sit on the request path of every guarded page.
	defaultOpTimeout = 2 * time.Second
)

// Config holds the Redis connection settings of the session backend.
type Config struct {
	Addr     string
	Password string
	DB       int
	// DialTimeout bounds connecting and the startup ping.
	DialTimeout time.Duration
	// OpTimeout bounds each read and write.
	OpTimeout time.Duration
	// KeyPrefix defaults to "session:".
	KeyPrefix string
}

func (c Config) withDefaults() Config {
	if c.DialTimeout <= 0 {
		c.DialTimeout = defaultDialTimeout
	}
	if c.OpTimeout <= 0 {
		c.OpTimeout = defaultOpTimeout
	}
	if c.KeyPrefix == "" {
		c.KeyPrefix = defaultKeyPrefix
	}
	return c
}

// Open connects to Redis, checks the server with a ping and returns a session
// store that owns the connection. Close the store to release it.
func Open(ctx context.Context, cfg Config) (*SessionStore, error) {
	cfg = cfg.withDefaults()

	client := redis.NewClient(&redis.Options{
		Addr:         cfg.Addr,
		Password:     cfg.Password,
		DB:           cfg.DB,
		DialTimeout:  cfg.DialTimeout,
		ReadTimeout:  cfg.OpTimeout,
		WriteTimeout: cfg.OpTimeout,
	})

	pingCtx, cancel := context.WithTimeout(ctx, cfg.DialTimeout)
	defer cancel()
	if err := client.Ping(pingCtx).Err(); err != nil {
		_ = client.Close()
		return nil, fmt.Errorf("redis session backend %s: %w", cfg.Addr, err)
	}

	return &SessionStore{client: client, prefix: cfg.KeyPrefix, closer: client}, nil
}
