// Package session holds the client-side session: the credential token, the
// cached user record and the role, persisted per browser profile.
package session

import (
	"context"
	"fmt"

	"github.com/rs/zerolog"

	"github.com/smartride/smartride-web/internal/core/domain"
	"github.com/smartride/smartride-web/internal/core/ports"
)

// The three keys a session holds.
const (
	KeyToken = "token"
	KeyUser  = "user"
	KeyRole  = "role"
)

// Manager binds a SessionStore to the scope carried on the request context.
type Manager struct {
	store ports.SessionStore
	log   zerolog.Logger
}

func NewManager(store ports.SessionStore, log zerolog.Logger) *Manager {
	return &Manager{store: store, log: log}
}

func (m *Manager) scope(ctx context.Context) (string, error) {
	s, ok := ScopeFrom(ctx)
	if !ok {
		return "", domain.ErrSessionMissing
	}
	return s, nil
}

// Get reads a single key. A missing key yields "" and no error.
func (m *Manager) Get(ctx context.Context, key string) (string, error) {
	scope, err := m.scope(ctx)
	if err != nil {
		return "", err
	}
	v, _, err := m.store.Get(ctx, scope, key)
	if err != nil {
		return "", fmt.Errorf("session get %s: %w", key, err)
	}
	return v, nil
}

func (m *Manager) Set(ctx context.Context, key, value string) error {
	scope, err := m.scope(ctx)
	if err != nil {
		return err
	}
	if err := m.store.Set(ctx, scope, key, value); err != nil {
		return fmt.Errorf("session set %s: %w", key, err)
	}
	return nil
}

func (m *Manager) Remove(ctx context.Context, key string) error {
	scope, err := m.scope(ctx)
	if err != nil {
		return err
	}
	if err := m.store.Remove(ctx, scope, key); err != nil {
		return fmt.Errorf("session remove %s: %w", key, err)
	}
	return nil
}

// Token returns the stored credential, or "" when there is none. It is the
// token source of the API gateway client.
func (m *Manager) Token(ctx context.Context) (string, error) {
	if _, ok := ScopeFrom(ctx); !ok {
		return "", nil
	}
	return m.Get(ctx, KeyToken)
}

// Snapshot reads all three keys. A user record that no longer decodes is
// dropped rather than failing the request.
func (m *Manager) Snapshot(ctx context.Context) (ports.Snapshot, error) {
	var snap ports.Snapshot
	token, err := m.Get(ctx, KeyToken)
	if err != nil {
		return snap, err
	}
	role, err := m.Get(ctx, KeyRole)
	if err != nil {
		return snap, err
	}
	raw, err := m.Get(ctx, KeyUser)
	if err != nil {
		return snap, err
	}
	snap.Token = token
	snap.Role = domain.Role(role)
	if raw != "" {
		u, err := domain.UnmarshalUser(raw)
		if err != nil {
			m.log.Warn().Err(err).Msg("discarding undecodable cached user")
		} else {
			snap.User = &u
		}
	}
	return snap, nil
}

// Save stores the credential, the user record and the user's role.
func (m *Manager) Save(ctx context.Context, token string, user domain.UserRecord) error {
	raw, err := domain.MarshalUser(user)
	if err != nil {
		return fmt.Errorf("session save: %w", err)
	}
	if err := m.Set(ctx, KeyToken, token); err != nil {
		return err
	}
	if err := m.Set(ctx, KeyUser, raw); err != nil {
		return err
	}
	if err := m.Set(ctx, KeyRole, string(user.Role)); err != nil {
		return err
	}

	info := Inspect(token)
	m.log.Info().
		Str("email", user.Email).
		Str("role", string(user.Role)).
		Str("subject", info.Subject).
		Msg("session stored")
	return nil
}

// Clear removes all three keys.
func (m *Manager) Clear(ctx context.Context) error {
	for _, k := range []string{KeyToken, KeyUser, KeyRole} {
		if err := m.Remove(ctx, k); err != nil {
			return err
		}
	}
	return nil
}

// Ping checks the backing store.
func (m *Manager) Ping(ctx context.Context) error {
	return m.store.Ping(ctx)
}
