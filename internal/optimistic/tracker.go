// Package optimistic tracks a locally initiated action that has been written
// but not yet confirmed by the authoritative mirror. The local view may
// predict the outcome (a contestant's own "buzzing..." indicator) while the
// write is in flight; the tag reconciles against the mirror when the push
// channel delivers, and a prediction that is never confirmed within the
// bounded wait reverts to idle rather than sticking forever.
package optimistic

import (
	"sync"
	"time"

	"github.com/jonboulle/clockwork"
)

// DefaultTimeout bounds how long a pending prediction survives without
// confirmation, matching the join-page bounded wait.
const DefaultTimeout = 2000 * time.Millisecond

// State is the reconciliation tag for one predicted action.
type State int

const (
	// StateIdle means nothing is predicted or in flight.
	StateIdle State = iota
	// StatePending means the action was issued locally but the mirror has
	// not yet reflected it.
	StatePending
	// StateConfirmed means the mirror has caught up with the prediction.
	StateConfirmed
)

func (s State) String() string {
	switch s {
	case StatePending:
		return "pending"
	case StateConfirmed:
		return "confirmed"
	default:
		return "idle"
	}
}

// Tracker holds the tag for one action slot.
type Tracker struct {
	mu        sync.Mutex
	clock     clockwork.Clock
	timeout   time.Duration
	state     State
	pendingAt time.Time
}

// NewTracker creates an idle tracker with the default bounded wait.
func NewTracker() *Tracker {
	return NewTrackerWithClock(clockwork.NewRealClock(), DefaultTimeout)
}

// NewTrackerWithClock is NewTracker with an injectable clock and timeout.
func NewTrackerWithClock(clock clockwork.Clock, timeout time.Duration) *Tracker {
	return &Tracker{clock: clock, timeout: timeout}
}

// MarkPending records that the action was just issued locally.
func (t *Tracker) MarkPending() {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.state = StatePending
	t.pendingAt = t.clock.Now()
}

// Confirm moves a pending prediction to confirmed once the mirror reflects
// it. Confirming an idle tracker is a no-op: the mirror cannot confirm an
// action that was never predicted.
func (t *Tracker) Confirm() {
	t.mu.Lock()
	defer t.mu.Unlock()
	if t.state == StatePending {
		t.state = StateConfirmed
	}
}

// Reset returns the tracker to idle, e.g. when the buzzers are cleared.
func (t *Tracker) Reset() {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.state = StateIdle
}

// State returns the current tag. A prediction that outlived the bounded wait
// without confirmation reverts to idle here, so callers never observe a
// stale pending tag.
func (t *Tracker) State() State {
	t.mu.Lock()
	defer t.mu.Unlock()
	if t.state == StatePending && t.clock.Now().Sub(t.pendingAt) >= t.timeout {
		t.state = StateIdle
	}
	return t.state
}
