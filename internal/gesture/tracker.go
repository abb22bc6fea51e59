package gesture

import (
	"cmp"
	"slices"

	"github.com/google/uuid"

	"github.com/ayusman/mudra/internal/detector"
)

// TrackLandmark is the landmark used to follow a hand between frames. The
// knuckle barely moves when the fingers curl, unlike the fingertips.
const TrackLandmark = detector.MiddleMCP

// TrackerConfig holds the association parameters for the Tracker.
type TrackerConfig struct {
	// MaxDistance is the largest normalized distance at which an observation
	// may continue an existing track.
	MaxDistance float64 `yaml:"max_distance"`

	// MaxMisses is how many consecutive frames a track may go unmatched
	// before it expires.
	MaxMisses int `yaml:"max_misses"`
}

// DefaultTrackerConfig returns the tracker defaults.
func DefaultTrackerConfig() TrackerConfig {
	return TrackerConfig{
		MaxDistance: 0.2,
		MaxMisses:   5,
	}
}

// Track is one logical hand followed across frames.
type Track struct {
	ID       uuid.UUID
	Position detector.Point3D
	Misses   int
	Frames   int
}

// Assignment binds a frame slot to a logical hand.
type Assignment struct {
	Slot    int
	ID      uuid.UUID
	Spawned bool
}

// Tracker assigns stable logical ids to per-frame hand observations using
// nearest-position matching. Unmatched observations always spawn a new id.
type Tracker struct {
	config TrackerConfig
	tracks []*Track
	newID  func() uuid.UUID
}

// NewTracker creates a Tracker. Zero config fields fall back to defaults.
func NewTracker(config TrackerConfig) *Tracker {
	def := DefaultTrackerConfig()
	if config.MaxDistance <= 0 {
		config.MaxDistance = def.MaxDistance
	}
	if config.MaxMisses <= 0 {
		config.MaxMisses = def.MaxMisses
	}
	return &Tracker{
		config: config,
		newID:  uuid.New,
	}
}

type candidate struct {
	track int
	slot  int
	dist  float64
}

// Update associates the frame's observations with live tracks. It returns one
// assignment per observation, in input order, and the ids that expired.
func (t *Tracker) Update(hands []detector.HandLandmarks) ([]Assignment, []uuid.UUID) {
	positions := make([]detector.Point3D, len(hands))
	for i, h := range hands {
		positions[i] = h.Clamped().Points[TrackLandmark]
	}

	var pairs []candidate
	for ti, tr := range t.tracks {
		for si, p := range positions {
			if d := detector.Distance2D(tr.Position, p); d <= t.config.MaxDistance {
				pairs = append(pairs, candidate{track: ti, slot: si, dist: d})
			}
		}
	}
	slices.SortStableFunc(pairs, func(a, b candidate) int {
		return cmp.Compare(a.dist, b.dist)
	})

	trackUsed := make([]bool, len(t.tracks))
	slotTrack := make([]int, len(hands))
	for i := range slotTrack {
		slotTrack[i] = -1
	}
	for _, c := range pairs {
		if trackUsed[c.track] || slotTrack[c.slot] >= 0 {
			continue
		}
		trackUsed[c.track] = true
		slotTrack[c.slot] = c.track
	}

	assignments := make([]Assignment, len(hands))
	var spawned []*Track
	for si, ti := range slotTrack {
		slot := hands[si].Slot
		if ti >= 0 {
			tr := t.tracks[ti]
			tr.Position = positions[si]
			tr.Misses = 0
			tr.Frames++
			assignments[si] = Assignment{Slot: slot, ID: tr.ID}
			continue
		}
		tr := &Track{ID: t.newID(), Position: positions[si], Frames: 1}
		spawned = append(spawned, tr)
		assignments[si] = Assignment{Slot: slot, ID: tr.ID, Spawned: true}
	}

	var expired []uuid.UUID
	live := t.tracks[:0]
	for ti, tr := range t.tracks {
		if !trackUsed[ti] {
			tr.Misses++
			if tr.Misses > t.config.MaxMisses {
				expired = append(expired, tr.ID)
				continue
			}
		}
		live = append(live, tr)
	}
	t.tracks = append(live, spawned...)

	return assignments, expired
}

// Tracks returns a copy of the live tracks.
func (t *Tracker) Tracks() []Track {
	out := make([]Track, len(t.tracks))
	for i, tr := range t.tracks {
		out[i] = *tr
	}
	return out
}

// Reset drops every track.
func (t *Tracker) Reset() {
	t.tracks = nil
}
