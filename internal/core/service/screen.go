package service

import (
	"context"
	"sync"
)

// screen holds the local state of one mounted dashboard. Network calls run
// without the lock; their results are applied afterwards, so overlapping
// actions race and the last completion wins.
type screen[B any] struct {
	mu     sync.Mutex
	state  B
	ctx    context.Context
	cancel context.CancelFunc
}

func newScreen[B any](initial B) *screen[B] {
	ctx, cancel := context.WithCancel(context.Background())
	return &screen[B]{state: initial, ctx: ctx, cancel: cancel}
}

func (s *screen[B]) get() B {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state
}

// update applies fn unless the screen was closed, and returns the result.
func (s *screen[B]) update(fn func(*B)) B {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.ctx.Err() == nil {
		fn(&s.state)
	}
	return s.state
}

func (s *screen[B]) close() { s.cancel() }
