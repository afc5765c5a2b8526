package main

import (
	"context"
	"sync"

	"github.com/google/uuid"
	log "github.com/sirupsen/logrus"
)

type FlowState int

const (
	StateIdle FlowState = iota
	StateSubmitting
	StateAwaitingUserType
	StateRouted
	StateRegistered
	StateFailed
	StateCancelled
)

func (s FlowState) String() string {
	switch s {
	case StateIdle:
		return "idle"
	case StateSubmitting:
		return "submitting"
	case StateAwaitingUserType:
		return "awaiting-user-type"
	case StateRouted:
		return "routed"
	case StateRegistered:
		return "registered"
	case StateFailed:
		return "failed"
	case StateCancelled:
		return "cancelled"
	default:
		return "unknown"
	}
}

// InFlight reports whether a request is outstanding in this state.
func (s FlowState) InFlight() bool {
	return s == StateSubmitting || s == StateAwaitingUserType
}

// Outcome is the single terminal result of one submission.
// State is one of StateRouted, StateRegistered, StateFailed or StateCancelled.
type Outcome struct {
	State FlowState
	Menu  Menu
	Err   error
}

// flow holds the state shared by every screen flow. All transitions and every
// call into the screen happen with mu held.
type flow struct {
	name   string
	screen Screen

	mu     sync.Mutex
	state  FlowState
	closed bool
	cancel context.CancelFunc
}

func (f *flow) State() FlowState {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.state
}

// begin performs Idle → Submitting and disables the submit control.
func (f *flow) begin(ctx context.Context) (context.Context, *log.Entry, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	switch {
	case f.closed:
		return nil, nil, ErrFlowClosed
	case f.state.InFlight():
		return nil, nil, ErrFlowBusy
	case f.state == StateRouted:
		return nil, nil, ErrFlowFinished
	}

	runCtx, cancel := context.WithCancel(ctx)
	f.cancel = cancel
	f.state = StateSubmitting
	f.screen.SetSubmitEnabled(false)

	entry := log.WithFields(log.Fields{
		"flow":    f.name,
		"attempt": uuid.NewString(),
	})
	entry.Debug("Submitting")

	return runCtx, entry, nil
}

// Close cancels any in-flight request. The flow then settles without touching the screen.
func (f *flow) Close() {
	f.mu.Lock()
	defer f.mu.Unlock()

	f.closed = true
	if f.cancel != nil {
		f.cancel()
	}
}

// The helpers below expect mu to be held.

func (f *flow) release() {
	if f.cancel != nil {
		f.cancel()
		f.cancel = nil
	}
}

func (f *flow) fail(entry *log.Entry, message string, err error) Outcome {
	entry.WithError(err).Info("Submission failed")

	f.screen.ClearFields()
	f.screen.ShowMessage(message)
	f.screen.SetSubmitEnabled(true)
	f.state = StateIdle
	f.release()

	return Outcome{State: StateFailed, Err: err}
}

func (f *flow) settleCancelled(entry *log.Entry, err error) Outcome {
	entry.WithError(err).Debug("Submission cancelled")

	f.state = StateCancelled
	f.release()

	return Outcome{State: StateCancelled, Err: err}
}

// deliver runs one submission and publishes its outcome exactly once.
func deliver(run func() Outcome) <-chan Outcome {
	done := make(chan Outcome, 1)
	go func() {
		defer close(done)
		done <- run()
	}()
	return done
}
