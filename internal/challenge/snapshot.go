package challenge

import "time"

// Snapshot is the per-frame render state handed to outcome sinks.
type Snapshot struct {
	Game        string          `json:"game"`
	State       State           `json:"state"`
	Prompt      string          `json:"prompt,omitempty"`
	Target      string          `json:"target,omitempty"`
	Options     *Options        `json:"options,omitempty"`
	Progress    float64         `json:"progress"`
	Hold        float64         `json:"hold"`
	Correct     int             `json:"correct"`
	Incorrect   int             `json:"incorrect"`
	Goal        int             `json:"goal,omitempty"`
	Round       int             `json:"round,omitempty"`
	Music       *bool           `json:"music,omitempty"`
	Position    int             `json:"position"`
	ElapsedMS   int64           `json:"elapsed_ms"`
	RemainingMS int64           `json:"remaining_ms,omitempty"`
	Result      *SnapshotResult `json:"result,omitempty"`
}

// SnapshotResult is the terminal part of a Snapshot.
type SnapshotResult struct {
	Outcome   Outcome `json:"outcome"`
	Correct   int     `json:"correct"`
	Incorrect int     `json:"incorrect"`
	ElapsedMS int64   `json:"elapsed_ms"`
	Winner    string  `json:"winner,omitempty"`
	Rounds    int     `json:"rounds,omitempty"`
}

// Snapshot renders the session at now. hold is the fill fraction of the
// gesture dwell timer, supplied by the caller.
func (m *Machine) Snapshot(now time.Time, hold float64) Snapshot {
	c := m.variant.Challenge(now)
	s := Snapshot{
		Game:      m.config.Game,
		State:     m.state,
		Prompt:    c.Prompt,
		Target:    c.Target,
		Options:   c.Options,
		Hold:      hold,
		Correct:   m.progress.Correct,
		Incorrect: m.progress.Incorrect,
		Goal:      m.progress.Goal,
		Round:     c.Round,
		Music:     c.Music,
		Position:  c.Position,
		ElapsedMS: m.Elapsed(now).Milliseconds(),
	}

	if m.progress.Goal > 0 {
		s.Progress = min(float64(m.progress.Correct)/float64(m.progress.Goal), 1)
	} else {
		s.Progress = c.Progress
	}

	remaining := c.Remaining
	if m.config.Budget > 0 {
		left := max(m.config.Budget-now.Sub(m.created), 0)
		if remaining == 0 || left < remaining {
			remaining = left
		}
	}
	s.RemainingMS = remaining.Milliseconds()

	if r, ok := m.Result(); ok {
		s.Hold = 0
		s.RemainingMS = 0
		s.Result = &SnapshotResult{
			Outcome:   r.Outcome,
			Correct:   r.Correct,
			Incorrect: r.Incorrect,
			ElapsedMS: r.Elapsed.Milliseconds(),
			Winner:    string(r.Winner),
			Rounds:    r.Rounds,
		}
	}
	return s
}
