// Package timer implements the safety-timer countdown state machine. The
// timer does not own a clock; an external scheduler drives Tick once per
// second.
package timer

import (
	"errors"
	"sync"
)

var (
	// ErrInvalidDuration is returned when Start is given a non-positive duration.
	ErrInvalidDuration = errors.New("timer duration must be positive")
	// ErrNotRunning is returned when CheckIn is called while the timer is idle.
	ErrNotRunning = errors.New("safety timer is not running")
)

// ExpiredFunc is called exactly once when the countdown reaches zero without a
// check-in. It fires the emergency trigger.
type ExpiredFunc func()

// CheckedInFunc is called when the user checks in before expiry. The caller
// composes the outgoing check-in message.
type CheckedInFunc func()

// SafetyTimer counts down from a configured duration and escalates to an
// emergency trigger if not cancelled by a check-in.
type SafetyTimer struct {
	mu              sync.Mutex
	active          bool
	durationSeconds int
	remaining       int

	onExpired   ExpiredFunc
	onCheckedIn CheckedInFunc
}

// New returns an idle timer. Either callback may be nil.
func New(onExpired ExpiredFunc, onCheckedIn CheckedInFunc) *SafetyTimer {
	return &SafetyTimer{onExpired: onExpired, onCheckedIn: onCheckedIn}
}

// Start arms the timer for the given number of minutes. Restarting while
// already running resets the remaining time (overwrite, not additive).
func (t *SafetyTimer) Start(minutes int) error {
	if minutes <= 0 {
		return ErrInvalidDuration
	}
	t.mu.Lock()
	defer t.mu.Unlock()
	t.active = true
	t.durationSeconds = minutes * 60
	t.remaining = t.durationSeconds
	return nil
}

// Tick advances the countdown by one second. When the remaining time reaches
// zero the timer goes idle and the expiry callback fires exactly once. Ticks
// while idle are ignored.
func (t *SafetyTimer) Tick() {
	t.mu.Lock()
	if !t.active {
		t.mu.Unlock()
		return
	}
	t.remaining--
	expired := t.remaining <= 0
	if expired {
		t.active = false
		t.remaining = 0
	}
	fire := t.onExpired
	t.mu.Unlock()

	if expired && fire != nil {
		fire()
	}
}

// CheckIn cancels the pending expiry and returns the timer to idle. It is the
// sole cancellation path for a pending expiry and is only valid while running.
func (t *SafetyTimer) CheckIn() error {
	t.mu.Lock()
	if !t.active {
		t.mu.Unlock()
		return ErrNotRunning
	}
	t.active = false
	fire := t.onCheckedIn
	t.mu.Unlock()

	if fire != nil {
		fire()
	}
	return nil
}

// Active reports whether a countdown is in progress.
func (t *SafetyTimer) Active() bool {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.active
}

// Remaining returns the seconds left on the countdown (0 when idle).
func (t *SafetyTimer) Remaining() int {
	t.mu.Lock()
	defer t.mu.Unlock()
	if !t.active {
		return 0
	}
	return t.remaining
}

// Duration returns the configured countdown length in seconds.
func (t *SafetyTimer) Duration() int {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.durationSeconds
}
