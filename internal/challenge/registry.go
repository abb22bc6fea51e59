package challenge

import (
	"errors"
	"fmt"
	"slices"
	"strings"
	"time"

	"github.com/samber/lo"

	"github.com/ayusman/mudra/internal/gesture"
)

var ErrUnknownGame = errors.New("unknown game")

// InputKind is the gesture a game listens to.
type InputKind string

const (
	InputClose   InputKind = "close"
	InputFingers InputKind = "fingers"
	InputHands   InputKind = "hands"
)

// DefaultHold is the dwell time for count games.
const DefaultHold = 2 * time.Second

// Input declares how the gesture engine is set up for a game.
type Input struct {
	Kind InputKind
	// Hold is the dwell time for count inputs.
	Hold time.Duration
	// Min and Max bound the counts that may become candidates.
	Min, Max int
	// MaxHands is passed to the pose estimator.
	MaxHands int
}

// Engine returns the gesture engine configuration for the input. A positive
// hold overrides the input's own dwell time.
func (in Input) Engine(tracker gesture.TrackerConfig, hold time.Duration) gesture.EngineConfig {
	cfg := gesture.EngineConfig{Tracker: tracker}
	switch in.Kind {
	case InputFingers:
		cfg.Count = gesture.CountFingers
	case InputHands:
		cfg.Count = gesture.CountHands
	default:
		return cfg
	}
	cfg.CountHold = in.Hold
	if hold > 0 {
		cfg.CountHold = hold
	}
	cfg.CountMin, cfg.CountMax = in.Min, in.Max
	return cfg
}

// Settings are per-session overrides and collaborators.
type Settings struct {
	Goal   int
	Budget time.Duration
	Rand   Rand
	Music  Music
}

// Game is a registered mini-game.
type Game struct {
	Name        string
	Title       string
	Input       Input
	Goal        int
	Clock       ClockStart
	Leaderboard bool
	// Music marks games gated on music playback.
	Music bool

	variant func(Settings) Variant
}

// Start creates a session of the game.
func (g Game) Start(s Settings, now time.Time) *Machine {
	goal := g.Goal
	if s.Goal > 0 && g.Goal > 0 {
		goal = s.Goal
	}
	return NewMachine(g.variant(s), Config{
		Game:   g.Name,
		Goal:   goal,
		Budget: s.Budget,
		Clock:  g.Clock,
		Rand:   s.Rand,
	}, now)
}

const (
	sequenceBanner = 1500 * time.Millisecond
	sequenceReveal = time.Second
	musicCountTime = 20 * time.Second
)

var games = []Game{
	{
		Name:        "number-compare",
		Title:       "Bigger Number",
		Input:       Input{Kind: InputClose, MaxHands: 2},
		Goal:        30,
		Leaderboard: true,
		variant:     func(Settings) Variant { return NewBinary(LargerNumber(1, 99)) },
	},
	{
		Name:        "missing-letter",
		Title:       "Missing Letter",
		Input:       Input{Kind: InputClose, MaxHands: 2},
		Goal:        30,
		Clock:       ClockAtFirstAttempt,
		Leaderboard: true,
		variant:     func(Settings) Variant { return NewBinary(MissingLetter(DefaultWords)) },
	},
	{
		Name:        "finger-count",
		Title:       "Show the Number",
		Input:       Input{Kind: InputFingers, Hold: DefaultHold, Min: 1, Max: 10, MaxHands: 2},
		Goal:        10,
		Leaderboard: true,
		variant:     func(Settings) Variant { return NewExact("Raise this many fingers", 1, 10) },
	},
	{
		Name:        "hand-count",
		Title:       "Count the Hands",
		Input:       Input{Kind: InputHands, Hold: DefaultHold, Min: 1, Max: 4, MaxHands: 4},
		Goal:        10,
		Leaderboard: true,
		variant:     func(Settings) Variant { return NewExact("Show this many hands", 1, 4) },
	},
	{
		Name:    "memory-sequence",
		Title:   "Memory Sequence",
		Input:   Input{Kind: InputFingers, Hold: DefaultHold, Min: 1, Max: 5, MaxHands: 2},
		variant: func(Settings) Variant { return NewSequence(1, 5, sequenceBanner, sequenceReveal) },
	},
	{
		Name:    "open-close",
		Title:   "Open and Close",
		Input:   Input{Kind: InputClose, MaxHands: 2},
		Goal:    200,
		variant: func(Settings) Variant { return NewTally(TallyEvery, nil, 0) },
	},
	{
		Name:        "music",
		Title:       "Music Stop",
		Input:       Input{Kind: InputClose, MaxHands: 2},
		Goal:        100,
		Clock:       ClockAtFirstCorrect,
		Leaderboard: true,
		Music:       true,
		variant:     func(s Settings) Variant { return NewTally(TallyMusic, s.Music, 0) },
	},
	{
		Name:    "music-count",
		Title:   "Music Count",
		Input:   Input{Kind: InputClose, MaxHands: 2},
		Music:   true,
		variant: func(s Settings) Variant { return NewTally(TallyMusicCount, s.Music, musicCountTime) },
	},
	{
		Name:    "tug-of-war",
		Title:   "Tug of War",
		Input:   Input{Kind: InputClose, MaxHands: 2},
		variant: func(Settings) Variant { return NewTug(DefaultTugLimit) },
	},
}

var byName = lo.KeyBy(games, func(g Game) string { return g.Name })

// Games returns every registered game, sorted by name.
func Games() []Game {
	out := slices.Clone(games)
	slices.SortFunc(out, func(a, b Game) int { return strings.Compare(a.Name, b.Name) })
	return out
}

// Names returns the sorted game names.
func Names() []string {
	return lo.Map(Games(), func(g Game, _ int) string { return g.Name })
}

// LeaderboardGames returns the games that keep a leaderboard.
func LeaderboardGames() []Game {
	return lo.Filter(Games(), func(g Game, _ int) bool { return g.Leaderboard })
}

// Lookup finds a game by name.
func Lookup(name string) (Game, error) {
	g, ok := byName[name]
	if !ok {
		return Game{}, fmt.Errorf("%w: %q", ErrUnknownGame, name)
	}
	return g, nil
}
