package service

import (
	"context"
	"sync"
	"time"

	"github.com/rs/zerolog"

	"github.com/smartride/smartride-web/internal/core/wizard"
	"github.com/smartride/smartride-web/internal/pkg/metrics"
)

// FlowState is what the runner needs to know about a flow's state.
type FlowState interface {
	StepName() string
	// Countdown is the remaining resend cooldown in seconds.
	Countdown() int
}

// Executor performs a command and returns the event describing its outcome,
// or nil when there is nothing to feed back.
type Executor func(ctx context.Context, cmd wizard.Command) wizard.Event

// Runner owns one mounted instance of an auth flow. It applies events
// through the flow's pure transition function, executes the resulting
// commands and drives the resend cooldown from a background goroutine.
//
// The lock is never held while a command runs, so a tick or a second request
// may interleave with an in-flight call; the completion is applied to
// whatever the state is by then.
type Runner[S FlowState] struct {
	flow     string
	step     func(S, wizard.Event) (S, wizard.Command)
	exec     Executor
	interval time.Duration
	log      zerolog.Logger

	mu      sync.Mutex
	state   S
	ticking bool
	ctx     context.Context
	cancel  context.CancelFunc
}

// NewRunner mounts a flow in its initial state. interval is the length of
// one cooldown tick, one second outside tests.
func NewRunner[S FlowState](
	flow string,
	initial S,
	step func(S, wizard.Event) (S, wizard.Command),
	exec Executor,
	interval time.Duration,
	log zerolog.Logger,
) *Runner[S] {
	if interval <= 0 {
		interval = time.Second
	}
	ctx, cancel := context.WithCancel(context.Background())
	return &Runner[S]{
		flow:     flow,
		step:     step,
		exec:     exec,
		interval: interval,
		log:      log.With().Str("flow", flow).Logger(),
		state:    initial,
		ctx:      ctx,
		cancel:   cancel,
	}
}

// State returns a copy of the current state.
func (r *Runner[S]) State() S {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.state
}

// Dispatch applies ev and runs the command chain it triggers, returning the
// state once no further command is pending. Results arriving after Close are
// dropped.
func (r *Runner[S]) Dispatch(ctx context.Context, ev wizard.Event) S {
	for ev != nil {
		cmd, ok := r.apply(ev)
		if !ok || cmd == nil {
			break
		}
		ev = r.exec(ctx, cmd)
	}
	return r.State()
}

func (r *Runner[S]) apply(ev wizard.Event) (wizard.Command, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.ctx.Err() != nil {
		r.log.Debug().Msgf("dropping %T after unmount", ev)
		return nil, false
	}

	prev := r.state.StepName()
	next, cmd := r.step(r.state, ev)
	r.state = next
	if name := next.StepName(); name != prev {
		metrics.WizardTransitionsTotal.WithLabelValues(r.flow, name).Inc()
		r.log.Debug().Str("from", prev).Str("to", name).Msg("step changed")
	}
	if next.Countdown() > 0 && !r.ticking {
		r.ticking = true
		go r.tick()
	}
	return cmd, true
}

// tick feeds one Tick per interval until the countdown reaches zero or the
// runner is closed.
func (r *Runner[S]) tick() {
	metrics.ActiveCooldowns.Inc()
	defer metrics.ActiveCooldowns.Dec()

	t := time.NewTicker(r.interval)
	defer t.Stop()
	for {
		select {
		case <-r.ctx.Done():
			r.mu.Lock()
			r.ticking = false
			r.mu.Unlock()
			return
		case <-t.C:
			r.mu.Lock()
			r.state, _ = r.step(r.state, wizard.Tick{})
			done := r.state.Countdown() == 0
			if done {
				r.ticking = false
			}
			r.mu.Unlock()
			if done {
				return
			}
		}
	}
}

// Ticking reports whether a cooldown goroutine is running.
func (r *Runner[S]) Ticking() bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.ticking
}

// Close unmounts the flow: the cooldown stops and late results are ignored.
func (r *Runner[S]) Close() {
	r.cancel()
}
