package mongo

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/smartride/smartride-web/internal/core/ports"
)

// DefaultSessionCollection is used when no collection name is configured.
const DefaultSessionCollection = "sessions"

var errInvalidKey = errors.New("session key must not contain '.' or start with '$'")

var _ ports.SessionStore = (*SessionStore)(nil)

// SessionStore keeps one document per browser profile:
//
//	{ _id: <scope>, values: { token: ..., user: ..., role: ... }, updated_at: <unix> }
type SessionStore struct {
	db     *mongo.Database
	coll   *mongo.Collection
	client *mongo.Client
}

// NewSessionStore creates a SessionStore on the given collection of db.
func NewSessionStore(db *mongo.Database, collection string) *SessionStore {
	if collection == "" {
		collection = DefaultSessionCollection
	}
	return &SessionStore{db: db, coll: db.Collection(collection)}
}

type sessionDoc struct {
	Scope     string            `bson:"_id"`
	Values    map[string]string `bson:"values"`
	UpdatedAt int64             `bson:"updated_at"`
}

func (s *SessionStore) Get(ctx context.Context, scope, key string) (string, bool, error) {
	field, err := valueField(key)
	if err != nil {
		return "", false, err
	}

	var doc sessionDoc
	opts := options.FindOne().SetProjection(bson.M{field: 1})
	err = s.coll.FindOne(ctx, byScope(scope), opts).Decode(&doc)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return "", false, nil
	}
	if err != nil {
		return "", false, fmt.Errorf("find session: %w", err)
	}
	v, ok := doc.Values[key]
	return v, ok, nil
}

// Set upserts the value; concurrent writers of the same scope race and the
// last one wins.
func (s *SessionStore) Set(ctx context.Context, scope, key, value string) error {
	field, err := valueField(key)
	if err != nil {
		return err
	}

	update := setUpdate(field, value, time.Now())
	_, err = s.coll.UpdateOne(ctx, byScope(scope), update, options.Update().SetUpsert(true))
	if err != nil {
		return fmt.Errorf("update session: %w", err)
	}
	return nil
}

func (s *SessionStore) Remove(ctx context.Context, scope, key string) error {
	field, err := valueField(key)
	if err != nil {
		return err
	}

	update := removeUpdate(field, time.Now())
	if _, err := s.coll.UpdateOne(ctx, byScope(scope), update); err != nil {
		return fmt.Errorf("update session: %w", err)
	}
	return nil
}

func (s *SessionStore) Ping(ctx context.Context) error {
	return s.db.RunCommand(ctx, bson.D{{Key: "ping", Value: 1}}).Err()
}

func valueField(key string) (string, error) {
	if key == "" || strings.Contains(key, ".") || strings.HasPrefix(key, "$") {
		return "", fmt.Errorf("%w: %q", errInvalidKey, key)
	}
	return "values." + key, nil
}

func byScope(scope string) bson.M { return bson.M{"_id": scope} }

// setUpdate writes one value and stamps the document.
func setUpdate(field, value string, now time.Time) bson.M {
	return bson.M{"$set": bson.M{
		field:        value,
		"updated_at": now.Unix(),
	}}
}

// removeUpdate drops one value but keeps the document, so the profile stays
// visible to the updated_at index.
func removeUpdate(field string, now time.Time) bson.M {
	return bson.M{
		"$unset": bson.M{field: ""},
		"$set":   bson.M{"updated_at": now.Unix()},
	}
}
