// Package challenge implements the game loop that turns confirmed gestures into
// scored answers. A Machine owns the session progress and delegates target
// generation and judging to a Variant.
package challenge

import (
	"time"

	"github.com/ayusman/mudra/internal/gesture"
)

// AnswerKind distinguishes the two kinds of confirmed events a game consumes.
type AnswerKind int

const (
	// AnswerClose is a confirmed open → closed transition of one hand.
	AnswerClose AnswerKind = iota
	// AnswerCount is a confirmed frame total (fingers or hands).
	AnswerCount
)

func (k AnswerKind) String() string {
	if k == AnswerCount {
		return "count"
	}
	return "close"
}

// Answer is one confirmed event offered to a Machine.
type Answer struct {
	Kind  AnswerKind
	Side  gesture.Side
	Value int
	At    time.Time
}

// CloseAnswer converts a confirmed close into an Answer.
func CloseAnswer(ev gesture.CloseEvent) Answer {
	return Answer{Kind: AnswerClose, Side: ev.Reading.Side, At: ev.At}
}

// CountAnswer converts a confirmed frame total into an Answer.
func CountAnswer(ev gesture.Event[int]) Answer {
	return Answer{Kind: AnswerCount, Value: ev.Value, At: ev.At}
}

// Answers extracts the confirmed events of one engine frame, closes first.
func Answers(f gesture.Frame) []Answer {
	out := make([]Answer, 0, len(f.Closes)+1)
	for _, c := range f.Closes {
		out = append(out, CloseAnswer(c))
	}
	if f.Count != nil {
		out = append(out, CountAnswer(*f.Count))
	}
	return out
}

// Verdict is a Variant's judgement of one Answer.
type Verdict int

const (
	// Ignored answers do not touch the progress.
	Ignored Verdict = iota
	// Correct increments the correct count.
	Correct
	// Incorrect increments the incorrect count.
	Incorrect
	// Penalty increments the incorrect count and takes one correct answer back.
	Penalty
	// Fatal ends the session as failed.
	Fatal
)

func (v Verdict) String() string {
	switch v {
	case Ignored:
		return "ignored"
	case Correct:
		return "correct"
	case Incorrect:
		return "incorrect"
	case Penalty:
		return "penalty"
	case Fatal:
		return "fatal"
	default:
		return "unknown"
	}
}

// Outcome is how a session ended.
type Outcome string

const (
	OutcomeCompleted Outcome = "completed"
	OutcomeFailed    Outcome = "failed"
	OutcomeExpired   Outcome = "expired"
	OutcomeAborted   Outcome = "aborted"
)

// Options binds the two choices of a binary game to screen sides.
type Options struct {
	Left  string `json:"left"`
	Right string `json:"right"`
}

// For returns the option shown on side s.
func (o Options) For(s gesture.Side) string {
	if s == gesture.SideLeft {
		return o.Left
	}
	return o.Right
}

// Challenge is the active target as presented to the player.
type Challenge struct {
	Prompt  string
	Target  string
	Options *Options

	// Round is the current round of a multi-round game; Rounds counts the
	// rounds completed so far.
	Round  int
	Rounds int

	// Position is the tug-of-war marker.
	Position int
	// Music is set by games gated on music playback.
	Music *bool

	// Revealing suspends input while a target is being shown.
	Revealing bool
	// Progress is used when the session has no correct-answer goal.
	Progress float64
	// Remaining is a variant-defined time left, zero when not applicable.
	Remaining time.Duration

	Winner    gesture.Side
	CreatedAt time.Time
}

// Variant is the per-game policy a Machine delegates to.
type Variant interface {
	// Generate draws the first challenge.
	Generate(now time.Time, r Rand)
	// Evaluate judges a confirmed answer against the active challenge. It must
	// not change state.
	Evaluate(a Answer) Verdict
	// Advance applies a non-ignored verdict and produces the next challenge.
	Advance(a Answer, v Verdict, r Rand)
	// Challenge describes the active challenge at now.
	Challenge(now time.Time) Challenge
}

// Terminator is implemented by variants that end sessions on their own terms.
type Terminator interface {
	Done(now time.Time) (Outcome, bool)
}

// Rand is the source of randomness for target generation. *rand.Rand from
// math/rand/v2 satisfies it.
type Rand interface {
	IntN(n int) int
}

// Music reports the state of external music playback.
type Music interface {
	Playing() bool
	Played() time.Duration
}

// Draw returns a uniformly drawn value in [lo, hi].
func Draw(r Rand, lo, hi int) int {
	if hi <= lo {
		return lo
	}
	return lo + r.IntN(hi-lo+1)
}

// DrawDistinct draws from [lo, hi], redrawing while the value equals prev.
// A single-value range returns that value.
func DrawDistinct(r Rand, lo, hi, prev int) int {
	if hi <= lo {
		return lo
	}
	for {
		v := Draw(r, lo, hi)
		if v != prev {
			return v
		}
	}
}
