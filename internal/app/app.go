// Package app runs one game session: it pulls hand observations from a
// Source, turns them into confirmed gestures, feeds them to the challenge
// machine and publishes a snapshot per frame.
package app

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"math/rand/v2"
	"time"

	"github.com/ayusman/mudra/internal/challenge"
	"github.com/ayusman/mudra/internal/gesture"
	"github.com/ayusman/mudra/internal/leaderboard"
	"github.com/ayusman/mudra/internal/metrics"
	"github.com/ayusman/mudra/internal/music"
	"github.com/ayusman/mudra/internal/store"
)

// SessionRecorder stores finished sessions. *store.SessionRepository
// implements it.
type SessionRecorder interface {
	Create(s *store.Session) error
}

// Config holds everything one session needs.
type Config struct {
	Game     challenge.Game
	Settings challenge.Settings

	Tracker gesture.TrackerConfig
	// Hold overrides the game's count dwell time when positive.
	Hold time.Duration
	// ClickHold is the close confirmation time.
	ClickHold time.Duration

	Source Source
	Sink   Sink

	// Player plays music for music games. Nil is silent.
	Player   music.Player
	Schedule music.ScheduleConfig
	// MusicRand drives the play/pause schedule. Nil seeds from the clock.
	MusicRand music.Rand

	// Leaderboards is the leaderboard directory. Empty disables
	// leaderboards.
	Leaderboards string
	Sessions     SessionRecorder

	Metrics *metrics.Metrics
	Logger  *slog.Logger
	// Now is the frame clock. It is read once per frame.
	Now func() time.Time
}

// App runs sessions of one game.
type App struct {
	config Config
	logger *slog.Logger
	now    func() time.Time
}

// New creates an App.
func New(config Config) (*App, error) {
	if config.Source == nil {
		return nil, errors.New("app: a pose source is required")
	}
	if config.Game.Name == "" {
		return nil, fmt.Errorf("app: %w", challenge.ErrUnknownGame)
	}

	a := &App{
		config: config,
		logger: config.Logger,
		now:    config.Now,
	}
	if a.logger == nil {
		a.logger = slog.Default()
	}
	a.logger = a.logger.With("game", config.Game.Name)
	if a.now == nil {
		a.now = time.Now
	}
	if a.config.Sink == nil {
		a.config.Sink = MultiSink(nil)
	}
	if a.config.Tracker == (gesture.TrackerConfig{}) {
		a.config.Tracker = gesture.DefaultTrackerConfig()
	}
	return a, nil
}

// Run plays one session until it finishes, ctx is cancelled or the source
// fails. A cancelled session ends Aborted and is not recorded; a source
// failure also ends it Aborted and returns an error wrapping
// ErrSourceUnavailable.
func (a *App) Run(ctx context.Context) (challenge.Result, error) {
	game := a.config.Game
	settings := a.config.Settings
	now := a.now()

	var conductor *music.Conductor
	if game.Music {
		conductor = a.conductor(now)
		conductor.Start(ctx, now)
		settings.Music = conductor
		defer conductor.Stop(context.WithoutCancel(ctx))
	}

	machine := game.Start(settings, now)
	engineCfg := game.Input.Engine(a.config.Tracker, a.config.Hold)
	engineCfg.ClickHold = a.config.ClickHold
	engine := gesture.NewEngine(engineCfg)
	epoch := machine.Epoch()

	a.logger.Info("session started", "goal", machine.Progress().Goal, "input", game.Input.Kind)

	for !machine.Finished() {
		hands, err := a.config.Source.Next(ctx)
		if err != nil {
			now = a.now()
			machine.Abort(now)
			a.config.Sink.Publish(machine.Snapshot(now, 0))
			result, _ := machine.Result()
			if ctx.Err() != nil {
				a.logger.Info("session aborted")
				return result, nil
			}
			a.logger.Error("pose source failed", "err", err)
			return result, fmt.Errorf("%w: %w", ErrSourceUnavailable, err)
		}

		now = a.now()
		if conductor != nil {
			if toggle, ok := conductor.Update(ctx, now); ok {
				a.logger.Debug("music", "toggle", toggle)
			}
		}

		frame := engine.Process(hands, now)
		a.observe(frame)

		for _, answer := range challenge.Answers(frame) {
			verdict := machine.Submit(answer)
			a.config.Metrics.Verdict(game.Name, verdict.String())
			if verdict != challenge.Ignored {
				p := machine.Progress()
				a.logger.Info("answer", "kind", answer.Kind, "side", answer.Side, "value", answer.Value,
					"verdict", verdict, "correct", p.Correct, "incorrect", p.Incorrect)
			}
		}
		machine.Tick(now)

		if e := machine.Epoch(); e != epoch {
			engine.ResetCount()
			epoch = e
		}

		a.config.Sink.Publish(machine.Snapshot(now, frame.Hold))
	}

	result, _ := machine.Result()
	a.logger.Info("session finished", "outcome", result.Outcome, "correct", result.Correct,
		"incorrect", result.Incorrect, "rounds", result.Rounds, "winner", result.Winner,
		"elapsed", result.Elapsed)
	a.config.Metrics.Session(game.Name, string(result.Outcome), result.Elapsed)

	return result, a.record(result)
}

func (a *App) conductor(now time.Time) *music.Conductor {
	r := a.config.MusicRand
	if r == nil {
		r = rand.New(rand.NewPCG(uint64(now.UnixNano()), uint64(now.Unix())))
	}
	player := a.config.Player
	if player == nil {
		player = music.NopPlayer{}
	}
	schedule := a.config.Schedule
	if schedule == (music.ScheduleConfig{}) {
		schedule = music.DefaultScheduleConfig()
	}
	return music.NewConductor(music.NewSchedule(schedule, r), player, a.logger)
}

func (a *App) observe(frame gesture.Frame) {
	for _, c := range frame.Closes {
		a.config.Metrics.Event("close")
		a.logger.Debug("close", "hand", c.Hand, "side", c.Reading.Side)
	}
	if frame.Count != nil {
		a.config.Metrics.Event("count")
		a.logger.Debug("count", "value", frame.Count.Value)
	}
	for _, id := range frame.Expired {
		a.logger.Debug("hand lost", "hand", id)
	}
}

// record persists a finished session: every non-aborted session goes to
// the session history, completed leaderboard games also to their board.
func (a *App) record(result challenge.Result) error {
	if result.Outcome == challenge.OutcomeAborted {
		return nil
	}

	var errs []error
	if a.config.Sessions != nil {
		if err := a.config.Sessions.Create(store.NewSession(result)); err != nil {
			errs = append(errs, fmt.Errorf("failed to record session: %w", err))
		}
	}

	if a.config.Game.Leaderboard && a.config.Leaderboards != "" && result.Outcome == challenge.OutcomeCompleted {
		board := leaderboard.ForGame(a.config.Leaderboards, result.Game)
		times, rank, err := board.Record(result.Elapsed)
		if err != nil {
			errs = append(errs, fmt.Errorf("failed to update leaderboard: %w", err))
		} else {
			a.logger.Info("leaderboard updated", "rank", rank, "times", times, "path", board.Path())
		}
	}

	err := errors.Join(errs...)
	if err != nil {
		a.logger.Error("failed to persist session", "err", err)
	}
	return err
}
