package redis

import (
	"context"
	"errors"
	"testing"

	"github.com/redis/go-redis/v9"
)

// fakeHash is an in-memory hashClient built on go-redis result constructors.
type fakeHash struct {
	data    map[string]map[string]string
	failErr error
}

func newFakeHash() *fakeHash {
	return &fakeHash{data: map[string]map[string]string{}}
}

func (f *fakeHash) HGet(_ context.Context, key, field string) *redis.StringCmd {
	if f.failErr != nil {
		return redis.NewStringResult("", f.failErr)
	}
	v, ok := f.data[key][field]
	if !ok {
		return redis.NewStringResult("", redis.Nil)
	}
	return redis.NewStringResult(v, nil)
}

func (f *fakeHash) HSet(_ context.Context, key string, values ...any) *redis.IntCmd {
	if f.failErr != nil {
		return redis.NewIntResult(0, f.failErr)
	}
	if f.data[key] == nil {
		f.data[key] = map[string]string{}
	}
	for i := 0; i+1 < len(values); i += 2 {
		f.data[key][values[i].(string)] = values[i+1].(string)
	}
	return redis.NewIntResult(int64(len(values)/2), nil)
}

func (f *fakeHash) HDel(_ context.Context, key string, fields ...string) *redis.IntCmd {
	if f.failErr != nil {
		return redis.NewIntResult(0, f.failErr)
	}
	for _, fl := range fields {
		delete(f.data[key], fl)
	}
	return redis.NewIntResult(int64(len(fields)), nil)
}

func (f *fakeHash) Ping(_ context.Context) *redis.StatusCmd {
	if f.failErr != nil {
		return redis.NewStatusResult("", f.failErr)
	}
	return redis.NewStatusResult("PONG", nil)
}

func TestSessionStore_RoundTrip(t *testing.T) {
	fake := newFakeHash()
	store := &SessionStore{client: fake}
	ctx := context.Background()

	if _, ok, err := store.Get(ctx, "sid-1", "token"); err != nil || ok {
		t.Fatalf("expected missing key, got ok=%v err=%v", ok, err)
	}

	if err := store.Set(ctx, "sid-1", "token", "abc"); err != nil {
		t.Fatalf("set: %v", err)
	}
	if _, ok := fake.data["session:sid-1"]["token"]; !ok {
		t.Fatalf("expected hash session:sid-1 with field token, got %+v", fake.data)
	}

	v, ok, err := store.Get(ctx, "sid-1", "token")
	if err != nil || !ok || v != "abc" {
		t.Fatalf("get: v=%q ok=%v err=%v", v, ok, err)
	}

	if _, ok, _ := store.Get(ctx, "sid-2", "token"); ok {
		t.Fatalf("scopes must be isolated")
	}

	if err := store.Remove(ctx, "sid-1", "token"); err != nil {
		t.Fatalf("remove: %v", err)
	}
	if _, ok, _ := store.Get(ctx, "sid-1", "token"); ok {
		t.Fatalf("expected key removed")
	}
}

func TestSessionStore_BackendErrors(t *testing.T) {
	boom := errors.New("connection refused")
	fake := newFakeHash()
	fake.failErr = boom
	store := &SessionStore{client: fake}
	ctx := context.Background()

	if _, _, err := store.Get(ctx, "s", "token"); !errors.Is(err, boom) {
		t.Fatalf("get: expected wrapped error, got %v", err)
	}
	if err := store.Set(ctx, "s", "token", "v"); !errors.Is(err, boom) {
		t.Fatalf("set: expected wrapped error, got %v", err)
	}
	if err := store.Remove(ctx, "s", "token"); !errors.Is(err, boom) {
		t.Fatalf("remove: expected wrapped error, got %v", err)
	}
	if err := store.Ping(ctx); !errors.Is(err, boom) {
		t.Fatalf("ping: expected error, got %v", err)
	}
}

func TestSessionStore_KeyPrefix(t *testing.T) {
	fake := newFakeHash()
	store := &SessionStore{client: fake, prefix: "smartride:sess:"}

	if err := store.Set(context.Background(), "sid-1", "role", "DRIVER"); err != nil {
		t.Fatalf("set: %v", err)
	}
	if fake.data["smartride:sess:sid-1"]["role"] != "DRIVER" {
		t.Fatalf("expected prefixed key, got %+v", fake.data)
	}
	if err := store.Close(); err != nil {
		t.Fatalf("close without owned connection: %v", err)
	}
}

func TestConfig_Defaults(t *testing.T) {
	cfg := Config{Addr: "localhost:6379"}.withDefaults()
	if cfg.DialTimeout != defaultDialTimeout || cfg.OpTimeout != defaultOpTimeout || cfg.KeyPrefix != defaultKeyPrefix {
		t.Fatalf("unexpected defaults %+v", cfg)
	}
}
