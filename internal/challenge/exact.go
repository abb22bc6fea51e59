package challenge

import (
	"strconv"
	"time"
)

// Exact asks for a single count. A matching answer scores and draws a new
// target distinct from the last one; any other count is ignored.
type Exact struct {
	prompt  string
	lo, hi  int
	target  int
	created time.Time
}

// NewExact returns an exact-match variant over targets in [lo, hi].
func NewExact(prompt string, lo, hi int) *Exact {
	return &Exact{prompt: prompt, lo: lo, hi: hi}
}

func (e *Exact) Generate(now time.Time, r Rand) {
	e.target = Draw(r, e.lo, e.hi)
	e.created = now
}

func (e *Exact) Evaluate(a Answer) Verdict {
	if a.Kind == AnswerCount && a.Value == e.target {
		return Correct
	}
	return Ignored
}

func (e *Exact) Advance(a Answer, v Verdict, r Rand) {
	if v != Correct {
		return
	}
	e.target = DrawDistinct(r, e.lo, e.hi, e.target)
	e.created = a.At
}

func (e *Exact) Challenge(time.Time) Challenge {
	return Challenge{
		Prompt:    e.prompt,
		Target:    strconv.Itoa(e.target),
		CreatedAt: e.created,
	}
}

// Target returns the active target.
func (e *Exact) Target() int {
	return e.target
}

var _ Variant = (*Exact)(nil)
