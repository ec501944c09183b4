package ports

import "context"

// SessionStore is key/value persistence scoped to one browser profile. There
// is no locking across writers of the same scope: the last write wins.
type SessionStore interface {
	// Get returns the value for key and whether it was present.
	Get(ctx context.Context, scope, key string) (string, bool, error)
	Set(ctx context.Context, scope, key, value string) error
	Remove(ctx context.Context, scope, key string) error
	// Ping reports whether the backing store is reachable.
	Ping(ctx context.Context) error
}
