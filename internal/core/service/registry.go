package service

import (
	"context"
	"sync"
	"time"

	"github.com/smartride/smartride-web/internal/pkg/metrics"
)

// Screen is a mounted page instance.
type Screen interface {
	Close()
}

// RegistryConfig bounds how many screens stay mounted and for how long.
type RegistryConfig struct {
	// IdleTimeout is how long a screen may go untouched before the janitor
	// closes it. Zero disables idle eviction.
	IdleTimeout time.Duration
	// MaxScreens caps the number of mounted screens. Mounting past the cap
	// closes the least recently used one. Zero means no cap.
	MaxScreens int
	// SweepInterval is how often Run looks for idle screens. Defaults to a
	// quarter of IdleTimeout, at least one second.
	SweepInterval time.Duration
	// Now defaults to time.Now.
	Now func() time.Time
}

type mounted struct {
	screen   Screen
	lastSeen time.Time
}

// Registry tracks the screen currently mounted for each browser profile.
// A profile has at most one mounted screen: mounting another unmounts the
// previous one, which stops its timers. Screens nobody touches for
// IdleTimeout are closed by Run.
type Registry struct {
	cfg RegistryConfig

	mu      sync.Mutex
	screens map[string]*mounted
}

// NewRegistry returns a registry without idle eviction or a cap.
func NewRegistry() *Registry {
	return NewRegistryWithConfig(RegistryConfig{})
}

func NewRegistryWithConfig(cfg RegistryConfig) *Registry {
	if cfg.Now == nil {
		cfg.Now = time.Now
	}
	if cfg.SweepInterval <= 0 {
		cfg.SweepInterval = max(cfg.IdleTimeout/4, time.Second)
	}
	return &Registry{cfg: cfg, screens: make(map[string]*mounted)}
}

// Mount makes s the current screen of scope.
func (r *Registry) Mount(scope string, s Screen) {
	var replaced Screen
	var evicted []Screen

	r.mu.Lock()
	if old, ok := r.screens[scope]; ok && old.screen != s {
		replaced = old.screen
	}
	r.screens[scope] = &mounted{screen: s, lastSeen: r.cfg.Now()}
	if r.cfg.MaxScreens > 0 {
		for len(r.screens) > r.cfg.MaxScreens {
			evicted = append(evicted, r.evictOldestLocked(scope))
		}
	}
	r.mu.Unlock()

	if replaced != nil {
		replaced.Close()
	}
	r.closeEvicted(evicted)
}

// evictOldestLocked removes the least recently used screen other than keep.
func (r *Registry) evictOldestLocked(keep string) Screen {
	var (
		oldestScope string
		oldest      *mounted
	)
	for scope, m := range r.screens {
		if scope == keep {
			continue
		}
		if oldest == nil || m.lastSeen.Before(oldest.lastSeen) {
			oldestScope, oldest = scope, m
		}
	}
	delete(r.screens, oldestScope)
	return oldest.screen
}

// Unmount closes and forgets the current screen of scope.
func (r *Registry) Unmount(scope string) {
	r.mu.Lock()
	old, ok := r.screens[scope]
	delete(r.screens, scope)
	r.mu.Unlock()

	if ok {
		old.screen.Close()
	}
	metrics.MountedScreens.Set(float64(r.Len()))
}

// get returns the screen of scope and marks it as used.
func (r *Registry) get(scope string) (Screen, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	m, ok := r.screens[scope]
	if !ok {
		return nil, false
	}
	m.lastSeen = r.cfg.Now()
	return m.screen, true
}

// Len returns the number of mounted screens.
func (r *Registry) Len() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.screens)
}

// Current returns the screen of scope if it is a T.
func Current[T Screen](r *Registry, scope string) (T, bool) {
	s, ok := r.get(scope)
	if !ok {
		var zero T
		return zero, false
	}
	t, ok := s.(T)
	return t, ok
}

// CurrentOrMount returns the screen of scope if it is a T, and otherwise
// mounts a new one built by mount.
func CurrentOrMount[T Screen](r *Registry, scope string, mount func() T) T {
	if t, ok := Current[T](r, scope); ok {
		return t
	}
	t := mount()
	r.Mount(scope, t)
	return t
}

// Sweep closes every screen idle for longer than IdleTimeout and returns how
// many it closed.
func (r *Registry) Sweep() int {
	if r.cfg.IdleTimeout <= 0 {
		return 0
	}
	cutoff := r.cfg.Now().Add(-r.cfg.IdleTimeout)

	var idle []Screen
	r.mu.Lock()
	for scope, m := range r.screens {
		if m.lastSeen.Before(cutoff) {
			idle = append(idle, m.screen)
			delete(r.screens, scope)
		}
	}
	r.mu.Unlock()

	r.closeEvicted(idle)
	return len(idle)
}

// Run sweeps idle screens every SweepInterval until ctx is done.
func (r *Registry) Run(ctx context.Context) {
	if r.cfg.IdleTimeout <= 0 {
		return
	}
	t := time.NewTicker(r.cfg.SweepInterval)
	defer t.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-t.C:
			r.Sweep()
		}
	}
}

// CloseAll unmounts every screen.
func (r *Registry) CloseAll() {
	r.mu.Lock()
	screens := r.screens
	r.screens = make(map[string]*mounted)
	r.mu.Unlock()

	for _, m := range screens {
		m.screen.Close()
	}
	metrics.MountedScreens.Set(0)
}

// closeEvicted closes screens outside the lock and counts the evictions.
func (r *Registry) closeEvicted(screens []Screen) {
	for _, s := range screens {
		s.Close()
	}
	if len(screens) > 0 {
		metrics.ScreensEvictedTotal.Add(float64(len(screens)))
	}
	metrics.MountedScreens.Set(float64(r.Len()))
}
