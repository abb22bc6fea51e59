package challenge

import (
	"strconv"
	"time"

	"github.com/samber/lo"

	"github.com/ayusman/mudra/internal/gesture"
)

// Tug is a two-player tug of war. A close on the left half pushes the marker
// one step towards +limit, a close on the right half towards -limit; the
// side that reaches its end wins.
type Tug struct {
	limit    int
	position int
	pushes   map[gesture.Side]int
}

// DefaultTugLimit is the marker distance from the center that wins.
const DefaultTugLimit = 20

// NewTug returns a tug-of-war variant. A non-positive limit uses DefaultTugLimit.
func NewTug(limit int) *Tug {
	if limit <= 0 {
		limit = DefaultTugLimit
	}
	return &Tug{limit: limit, pushes: make(map[gesture.Side]int)}
}

func (t *Tug) Generate(time.Time, Rand) {
	t.position = 0
	clear(t.pushes)
}

func (t *Tug) Evaluate(a Answer) Verdict {
	if a.Kind != AnswerClose {
		return Ignored
	}
	return Correct
}

func (t *Tug) Advance(a Answer, _ Verdict, _ Rand) {
	t.pushes[a.Side]++
	step := 1
	if a.Side == gesture.SideRight {
		step = -1
	}
	t.position = lo.Clamp(t.position+step, -t.limit, t.limit)
}

func (t *Tug) Challenge(time.Time) Challenge {
	return Challenge{
		Prompt:   "Left vs Right",
		Options:  &Options{Left: strconv.Itoa(t.pushes[gesture.SideLeft]), Right: strconv.Itoa(t.pushes[gesture.SideRight])},
		Position: t.position,
		Progress: float64(t.position+t.limit) / float64(2*t.limit),
		Winner:   t.winner(),
	}
}

// Done ends the session when the marker reaches either end.
func (t *Tug) Done(time.Time) (Outcome, bool) {
	if t.winner() != "" {
		return OutcomeCompleted, true
	}
	return "", false
}

// Position returns the marker position in [-limit, limit].
func (t *Tug) Position() int {
	return t.position
}

func (t *Tug) winner() gesture.Side {
	switch t.position {
	case t.limit:
		return gesture.SideLeft
	case -t.limit:
		return gesture.SideRight
	}
	return ""
}

var (
	_ Variant    = (*Tug)(nil)
	_ Terminator = (*Tug)(nil)
)
