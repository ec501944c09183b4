package mongo

import (
	"context"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

const (
	defaultTimeout = 10 * time.Second
	appName        = "smartride-web"
)

// Config holds the MongoDB settings of the session backend.
type Config struct {
	URI        string
	Database   string
	Collection string
	// Timeout bounds connecting, the startup ping and index creation.
	Timeout time.Duration
}

// Open connects to MongoDB, pings the primary, makes sure the session
// collection has its updated_at index and returns a store that owns the
// client. Close the store to disconnect.
func Open(ctx context.Context, cfg Config) (*SessionStore, error) {
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = defaultTimeout
	}
	openCtx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	client, err := mongo.Connect(openCtx, options.Client().
		ApplyURI(cfg.URI).
		SetAppName(appName).
		SetServerSelectionTimeout(timeout))
	if err != nil {
		return nil, fmt.Errorf("mongo session backend: connect: %w", err)
	}
	if err := client.Ping(openCtx, nil); err != nil {
		_ = client.Disconnect(openCtx)
		return nil, fmt.Errorf("mongo session backend: ping: %w", err)
	}

	store := NewSessionStore(client.Database(cfg.Database), cfg.Collection)
	if err := store.ensureIndexes(openCtx); err != nil {
		_ = client.Disconnect(openCtx)
		return nil, err
	}
	store.client = client
	return store, nil
}

// ensureIndexes lets operators find and prune profiles that went idle.
func (s *SessionStore) ensureIndexes(ctx context.Context) error {
	_, err := s.coll.Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys:    bson.D{{Key: "updated_at", Value: 1}},
		Options: options.Index().SetName("updated_at_1"),
	})
	if err != nil {
		return fmt.Errorf("mongo session backend: create index: %w", err)
	}
	return nil
}

// Close disconnects the client when the store was created by Open.
func (s *SessionStore) Close(ctx context.Context) error {
	if s.client == nil {
		return nil
	}
	return s.client.Disconnect(ctx)
}
