package challenge

import (
	"strconv"
	"time"
)

// TallyMode selects how a Tally judges closes.
type TallyMode int

const (
	// TallyEvery counts every close.
	TallyEvery TallyMode = iota
	// TallyMusic counts closes while music plays and takes one back for each
	// close while it is paused.
	TallyMusic
	// TallyMusicCount counts closes while music plays as correct and closes
	// while paused as incorrect, until the music has played for a set time.
	TallyMusicCount
)

// Tally counts hand closes, optionally gated on music playback.
type Tally struct {
	mode  TallyMode
	music Music
	limit time.Duration
}

// NewTally returns a tally variant. music may be nil for TallyEvery. limit is
// the total play time that ends a TallyMusicCount session.
func NewTally(mode TallyMode, music Music, limit time.Duration) *Tally {
	return &Tally{mode: mode, music: music, limit: limit}
}

func (t *Tally) Generate(time.Time, Rand) {}

func (t *Tally) Evaluate(a Answer) Verdict {
	if a.Kind != AnswerClose {
		return Ignored
	}
	if t.mode == TallyEvery || t.playing() {
		return Correct
	}
	if t.mode == TallyMusic {
		return Penalty
	}
	return Incorrect
}

func (t *Tally) Advance(Answer, Verdict, Rand) {}

func (t *Tally) Challenge(time.Time) Challenge {
	c := Challenge{Prompt: "Open and close your hand"}
	if t.mode == TallyEvery {
		return c
	}

	playing := t.playing()
	c.Music = &playing
	if playing {
		c.Prompt = "Music on: close your hand"
	} else {
		c.Prompt = "Music off: hold still"
	}

	if t.mode == TallyMusicCount && t.limit > 0 {
		played := t.played()
		c.Target = strconv.Itoa(int(t.limit.Seconds())) + "s"
		c.Progress = min(float64(played)/float64(t.limit), 1)
		c.Remaining = max(t.limit-played, 0)
	}
	return c
}

// Done ends a music-count session once the music has played long enough.
func (t *Tally) Done(time.Time) (Outcome, bool) {
	if t.mode == TallyMusicCount && t.limit > 0 && t.played() >= t.limit {
		return OutcomeCompleted, true
	}
	return "", false
}

func (t *Tally) playing() bool {
	return t.music != nil && t.music.Playing()
}

func (t *Tally) played() time.Duration {
	if t.music == nil {
		return 0
	}
	return t.music.Played()
}

var (
	_ Variant    = (*Tally)(nil)
	_ Terminator = (*Tally)(nil)
)
