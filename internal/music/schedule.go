// Package music drives the randomized play/pause cycle of the music games and
// the external player that makes it audible.
package music

import "time"

// ScheduleConfig bounds the random time between play/pause toggles.
type ScheduleConfig struct {
	MinInterval time.Duration `yaml:"min_interval"`
	MaxInterval time.Duration `yaml:"max_interval"`
}

// DefaultScheduleConfig toggles every 5 to 10 seconds.
func DefaultScheduleConfig() ScheduleConfig {
	return ScheduleConfig{MinInterval: 5 * time.Second, MaxInterval: 10 * time.Second}
}

// Rand draws toggle intervals. *rand.Rand from math/rand/v2 satisfies it.
type Rand interface {
	Int64N(n int64) int64
}

// Toggle is a change of playback state.
type Toggle int

const (
	Paused Toggle = iota + 1
	Resumed
)

func (t Toggle) String() string {
	switch t {
	case Paused:
		return "paused"
	case Resumed:
		return "resumed"
	default:
		return "none"
	}
}

// Schedule alternates between playing and paused at random intervals and
// accounts for the total time spent playing. Time only advances through
// Start and Update.
type Schedule struct {
	config ScheduleConfig
	rand   Rand

	started bool
	playing bool
	next    time.Time
	since   time.Time
	played  time.Duration
}

// NewSchedule creates a stopped Schedule. Zero intervals use the defaults.
func NewSchedule(config ScheduleConfig, r Rand) *Schedule {
	def := DefaultScheduleConfig()
	if config.MinInterval <= 0 {
		config.MinInterval = def.MinInterval
	}
	if config.MaxInterval < config.MinInterval {
		config.MaxInterval = max(def.MaxInterval, config.MinInterval)
	}
	return &Schedule{config: config, rand: r}
}

// Start begins playing at now.
func (s *Schedule) Start(now time.Time) {
	s.started = true
	s.playing = true
	s.since = now
	s.next = now.Add(s.interval())
}

// Update accounts play time up to now and toggles when the current interval
// has run out.
func (s *Schedule) Update(now time.Time) (Toggle, bool) {
	if !s.started {
		return 0, false
	}
	if s.playing {
		s.played += now.Sub(s.since)
		s.since = now
	}
	if now.Before(s.next) {
		return 0, false
	}

	s.playing = !s.playing
	s.since = now
	s.next = now.Add(s.interval())
	if s.playing {
		return Resumed, true
	}
	return Paused, true
}

// Playing reports whether the music is on.
func (s *Schedule) Playing() bool {
	return s.playing
}

// Played returns the total time spent playing as of the last update.
func (s *Schedule) Played() time.Duration {
	return s.played
}

// Next returns when the next toggle is due.
func (s *Schedule) Next() time.Time {
	return s.next
}

func (s *Schedule) interval() time.Duration {
	span := s.config.MaxInterval - s.config.MinInterval
	if span <= 0 {
		return s.config.MinInterval
	}
	return s.config.MinInterval + time.Duration(s.rand.Int64N(int64(span)+1))
}
