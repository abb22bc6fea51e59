package challenge

import (
	"fmt"
	"strconv"
	"time"
)

// Sequence is a recall game over a growing list of values. Each round opens
// with a banner, reveals every value in turn, then accepts the values back in
// order. Completing a round appends a value different from the last one; a
// wrong value ends the session.
type Sequence struct {
	lo, hi int
	banner time.Duration
	reveal time.Duration

	values  []int
	index   int
	round   int
	started time.Time
}

// NewSequence returns a sequence-recall variant over values in [lo, hi].
func NewSequence(lo, hi int, banner, reveal time.Duration) *Sequence {
	return &Sequence{lo: lo, hi: hi, banner: banner, reveal: reveal}
}

func (s *Sequence) Generate(now time.Time, r Rand) {
	s.values = []int{Draw(r, s.lo, s.hi)}
	s.index = 0
	s.round = 1
	s.started = now
}

func (s *Sequence) Evaluate(a Answer) Verdict {
	if a.Kind != AnswerCount || s.revealing(a.At) {
		return Ignored
	}
	if a.Value == s.values[s.index] {
		return Correct
	}
	return Fatal
}

func (s *Sequence) Advance(a Answer, v Verdict, r Rand) {
	if v != Correct {
		return
	}
	s.index++
	if s.index < len(s.values) {
		return
	}
	last := s.values[len(s.values)-1]
	s.values = append(s.values, DrawDistinct(r, s.lo, s.hi, last))
	s.index = 0
	s.round++
	s.started = a.At
}

func (s *Sequence) Challenge(now time.Time) Challenge {
	c := Challenge{
		Round:     s.round,
		Rounds:    s.round - 1,
		CreatedAt: s.started,
		Progress:  float64(s.index) / float64(len(s.values)),
	}

	elapsed := now.Sub(s.started)
	switch {
	case elapsed < s.banner:
		c.Revealing = true
		c.Prompt = fmt.Sprintf("Round %d", s.round)
	case elapsed < s.revealEnd():
		c.Revealing = true
		shown := int((elapsed - s.banner) / s.reveal)
		c.Target = strconv.Itoa(s.values[shown])
	default:
		c.Prompt = fmt.Sprintf("%d of %d", s.index+1, len(s.values))
	}
	return c
}

// Values returns a copy of the sequence.
func (s *Sequence) Values() []int {
	return append([]int(nil), s.values...)
}

func (s *Sequence) revealEnd() time.Duration {
	return s.banner + time.Duration(len(s.values))*s.reveal
}

func (s *Sequence) revealing(now time.Time) bool {
	return now.Sub(s.started) < s.revealEnd()
}

var _ Variant = (*Sequence)(nil)
