package redis

import (
	"context"
	"errors"
	"fmt"
	"io"

	"github.com/redis/go-redis/v9"

	"github.com/smartride/smartride-web/internal/core/ports"
)

const defaultKeyPrefix = "session:"

// hashClient is the subset of *redis.Client the session store uses.
type hashClient interface {
	HGet(ctx context.Context, key, field string) *redis.StringCmd
	HSet(ctx context.Context, key string, values ...any) *redis.IntCmd
	HDel(ctx context.Context, key string, fields ...string) *redis.IntCmd
	Ping(ctx context.Context) *redis.StatusCmd
}

var _ ports.SessionStore = (*SessionStore)(nil)

// SessionStore keeps each browser profile's session in one hash.
// Key format: <prefix><scope>, one field per session key. No TTL is set.
type SessionStore struct {
	client hashClient
	prefix string
	closer io.Closer
}

// Close releases the connection when the store was created by Open.
func (s *SessionStore) Close() error {
	if s.closer == nil {
		return nil
	}
	return s.closer.Close()
}

func (s *SessionStore) Get(ctx context.Context, scope, key string) (string, bool, error) {
	v, err := s.client.HGet(ctx, s.key(scope), key).Result()
	if errors.Is(err, redis.Nil) {
		return "", false, nil
	}
	if err != nil {
		return "", false, fmt.Errorf("session hget: %w", err)
	}
	return v, true, nil
}

func (s *SessionStore) Set(ctx context.Context, scope, key, value string) error {
	if err := s.client.HSet(ctx, s.key(scope), key, value).Err(); err != nil {
		return fmt.Errorf("session hset: %w", err)
	}
	return nil
}

func (s *SessionStore) Remove(ctx context.Context, scope, key string) error {
	if err := s.client.HDel(ctx, s.key(scope), key).Err(); err != nil {
		return fmt.Errorf("session hdel: %w", err)
	}
	return nil
}

func (s *SessionStore) Ping(ctx context.Context) error {
	return s.client.Ping(ctx).Err()
}

func (s *SessionStore) key(scope string) string {
	if s.prefix == "" {
		return defaultKeyPrefix + scope
	}
	return s.prefix + scope
}
