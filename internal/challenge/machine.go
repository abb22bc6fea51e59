package challenge

import (
	"math/rand/v2"
	"time"

	"github.com/ayusman/mudra/internal/gesture"
)

// ClockStart selects when a session's elapsed time starts counting.
type ClockStart int

const (
	// ClockAtStart starts the clock when the machine is created.
	ClockAtStart ClockStart = iota
	// ClockAtFirstAttempt starts it on the first judged answer.
	ClockAtFirstAttempt
	// ClockAtFirstCorrect starts it on the first correct answer.
	ClockAtFirstCorrect
)

// State is the lifecycle state of a Machine.
type State string

const (
	StateRunning  State = "running"
	StateFinished State = "finished"
)

// Config configures a Machine.
type Config struct {
	Game string
	// Goal is the correct count that completes the session; zero disables it.
	Goal int
	// Budget ends the session as expired once elapsed; zero disables it.
	Budget time.Duration
	Clock  ClockStart
	// Rand defaults to a PCG source seeded from the start time.
	Rand Rand
}

// Progress is the session's score.
type Progress struct {
	Correct   int       `json:"correct"`
	Incorrect int       `json:"incorrect"`
	Goal      int       `json:"goal"`
	StartedAt time.Time `json:"started_at"`
	EndedAt   time.Time `json:"ended_at"`
}

// Result is the final state of a finished session.
type Result struct {
	Game       string        `json:"game"`
	Outcome    Outcome       `json:"outcome"`
	Correct    int           `json:"correct"`
	Incorrect  int           `json:"incorrect"`
	Goal       int           `json:"goal"`
	Rounds     int           `json:"rounds"`
	Winner     gesture.Side  `json:"winner,omitempty"`
	Elapsed    time.Duration `json:"-"`
	StartedAt  time.Time     `json:"started_at"`
	FinishedAt time.Time     `json:"finished_at"`
}

// Machine drives one game session. It is not safe for concurrent use.
type Machine struct {
	config  Config
	variant Variant

	created  time.Time
	clockOn  bool
	progress Progress
	state    State
	result   Result

	revealing bool
	epoch     int
}

// NewMachine starts a session and generates the first challenge.
func NewMachine(v Variant, config Config, now time.Time) *Machine {
	if config.Rand == nil {
		config.Rand = rand.New(rand.NewPCG(uint64(now.UnixNano()), uint64(now.Unix())))
	}
	m := &Machine{
		config:  config,
		variant: v,
		created: now,
		state:   StateRunning,
	}
	m.progress.Goal = config.Goal
	if config.Clock == ClockAtStart {
		m.startClock(now)
	}
	v.Generate(now, config.Rand)
	m.revealing = v.Challenge(now).Revealing
	return m
}

// Submit feeds one confirmed answer. Answers arriving after the session has
// finished are ignored.
func (m *Machine) Submit(a Answer) Verdict {
	if m.state == StateFinished {
		return Ignored
	}
	m.Tick(a.At)
	if m.state == StateFinished {
		return Ignored
	}

	verdict := m.variant.Evaluate(a)
	switch verdict {
	case Ignored:
		return Ignored
	case Correct:
		m.progress.Correct++
	case Incorrect:
		m.progress.Incorrect++
	case Penalty:
		m.progress.Incorrect++
		m.progress.Correct = max(m.progress.Correct-1, 0)
	case Fatal:
		m.progress.Incorrect++
	}

	if m.config.Clock == ClockAtFirstAttempt || (m.config.Clock == ClockAtFirstCorrect && verdict == Correct) {
		m.startClock(a.At)
	}

	if verdict == Fatal {
		m.finish(OutcomeFailed, a.At)
		return verdict
	}

	m.variant.Advance(a, verdict, m.config.Rand)

	if m.config.Goal > 0 && m.progress.Correct >= m.config.Goal {
		m.finish(OutcomeCompleted, a.At)
		return verdict
	}
	m.Tick(a.At)
	return verdict
}

// Tick evaluates time-based rules: the budget, variant termination, and
// reveal phases. The loop calls it once per frame.
func (m *Machine) Tick(now time.Time) {
	if m.state == StateFinished {
		return
	}

	if m.config.Budget > 0 && now.Sub(m.created) >= m.config.Budget {
		m.finish(OutcomeExpired, now)
		return
	}
	if t, ok := m.variant.(Terminator); ok {
		if outcome, done := t.Done(now); done {
			m.finish(outcome, now)
			return
		}
	}

	revealing := m.variant.Challenge(now).Revealing
	if m.revealing && !revealing {
		m.epoch++
	}
	m.revealing = revealing
}

// Abort ends a running session early.
func (m *Machine) Abort(now time.Time) {
	if m.state == StateRunning {
		m.finish(OutcomeAborted, now)
	}
}

// Epoch increments each time input reopens after a reveal phase. Callers
// reset their gesture debouncers when it changes.
func (m *Machine) Epoch() int {
	return m.epoch
}

// State returns the lifecycle state.
func (m *Machine) State() State {
	return m.state
}

// Finished reports whether the session has ended.
func (m *Machine) Finished() bool {
	return m.state == StateFinished
}

// Progress returns a copy of the session progress.
func (m *Machine) Progress() Progress {
	return m.progress
}

// Result returns the final result once finished.
func (m *Machine) Result() (Result, bool) {
	return m.result, m.state == StateFinished
}

// Challenge returns the active challenge.
func (m *Machine) Challenge(now time.Time) Challenge {
	return m.variant.Challenge(now)
}

// Elapsed returns the time on the session clock at now.
func (m *Machine) Elapsed(now time.Time) time.Duration {
	if !m.clockOn {
		return 0
	}
	if m.state == StateFinished {
		return m.progress.EndedAt.Sub(m.progress.StartedAt)
	}
	return now.Sub(m.progress.StartedAt)
}

func (m *Machine) startClock(now time.Time) {
	if m.clockOn {
		return
	}
	m.clockOn = true
	m.progress.StartedAt = now
}

func (m *Machine) finish(outcome Outcome, now time.Time) {
	m.state = StateFinished
	m.progress.EndedAt = now
	if !m.clockOn {
		// Nothing started the clock; the session took no measurable time.
		m.progress.StartedAt = now
		m.clockOn = true
	}

	c := m.variant.Challenge(now)
	m.result = Result{
		Game:       m.config.Game,
		Outcome:    outcome,
		Correct:    m.progress.Correct,
		Incorrect:  m.progress.Incorrect,
		Goal:       m.progress.Goal,
		Rounds:     c.Rounds,
		Winner:     c.Winner,
		Elapsed:    m.progress.EndedAt.Sub(m.progress.StartedAt),
		StartedAt:  m.progress.StartedAt,
		FinishedAt: now,
	}
}
