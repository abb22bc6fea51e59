package gesture

import "time"

// State is a Debouncer's position in its Idle → Candidate → Confirmed cycle.
type State int

const (
	StateIdle State = iota
	StateCandidate
	StateConfirmed
)

func (s State) String() string {
	switch s {
	case StateIdle:
		return "idle"
	case StateCandidate:
		return "candidate"
	case StateConfirmed:
		return "confirmed"
	default:
		return "unknown"
	}
}

// Event is a confirmed reading.
type Event[T comparable] struct {
	Value T
	Since time.Time // when the reading first stabilized
	At    time.Time // when it was confirmed
}

// Debouncer turns a noisy per-frame value into one Event per stable interval.
//
// In hold mode a value admitted by the filter becomes a candidate and is
// confirmed once it has stayed unchanged for the hold duration; a change
// restarts the timer with the new value, and a value outside the filter
// returns to idle.
//
// In click mode only the fire value can be confirmed, and only when the arm
// value was seen immediately before it. Any value other than arm or fire
// cancels the candidate.
//
// A confirmed value is never emitted again until the observed value changes.
type Debouncer[T comparable] struct {
	hold  time.Duration
	admit func(T) bool

	click     bool
	arm, fire T

	state     State
	candidate T
	since     time.Time
	confirmed T
}

// NewHold returns a hold-mode Debouncer. A nil admit accepts every value.
func NewHold[T comparable](hold time.Duration, admit func(T) bool) *Debouncer[T] {
	if admit == nil {
		admit = func(T) bool { return true }
	}
	return &Debouncer[T]{hold: hold, admit: admit}
}

// NewClick returns a click-mode Debouncer that confirms fire after arm.
func NewClick[T comparable](arm, fire T, hold time.Duration) *Debouncer[T] {
	return &Debouncer[T]{hold: hold, click: true, arm: arm, fire: fire}
}

// Observe feeds one frame's value and reports a confirmation, if any.
func (d *Debouncer[T]) Observe(v T, now time.Time) (Event[T], bool) {
	switch d.state {
	case StateCandidate:
		if v == d.candidate {
			return d.check(now)
		}
	case StateConfirmed:
		if v == d.confirmed {
			return Event[T]{}, false
		}
	}
	return d.enter(v, now)
}

func (d *Debouncer[T]) enter(v T, now time.Time) (Event[T], bool) {
	if d.click {
		switch {
		case v == d.arm:
			d.become(v, now)
			return Event[T]{}, false
		case v == d.fire && d.state == StateCandidate && d.candidate == d.arm:
			d.become(v, now)
			return d.check(now)
		default:
			d.Reset()
			return Event[T]{}, false
		}
	}

	if !d.admit(v) {
		d.Reset()
		return Event[T]{}, false
	}
	d.become(v, now)
	return d.check(now)
}

func (d *Debouncer[T]) become(v T, now time.Time) {
	d.state = StateCandidate
	d.candidate = v
	d.since = now
}

func (d *Debouncer[T]) check(now time.Time) (Event[T], bool) {
	if d.click && d.candidate != d.fire {
		return Event[T]{}, false
	}
	if now.Sub(d.since) < d.hold {
		return Event[T]{}, false
	}

	d.state = StateConfirmed
	d.confirmed = d.candidate
	return Event[T]{Value: d.candidate, Since: d.since, At: now}, true
}

// Progress reports how much of the hold duration the current candidate has
// covered, in [0,1]. It is 0 unless a confirmable candidate is pending.
func (d *Debouncer[T]) Progress(now time.Time) float64 {
	if d.state != StateCandidate || (d.click && d.candidate != d.fire) {
		return 0
	}
	if d.hold <= 0 {
		return 1
	}
	p := float64(now.Sub(d.since)) / float64(d.hold)
	return min(max(p, 0), 1)
}

// State returns the current state.
func (d *Debouncer[T]) State() State {
	return d.state
}

// Candidate returns the pending value, if any.
func (d *Debouncer[T]) Candidate() (T, bool) {
	return d.candidate, d.state == StateCandidate
}

// Reset returns to idle, forgetting any candidate and confirmation.
func (d *Debouncer[T]) Reset() {
	var zero T
	d.state = StateIdle
	d.candidate = zero
	d.confirmed = zero
	d.since = time.Time{}
}
