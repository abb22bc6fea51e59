package music

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"time"

	"github.com/ayusman/mudra/internal/plugin"
)

// Player makes the schedule audible.
type Player interface {
	Play(ctx context.Context) error
	Pause(ctx context.Context) error
	Resume(ctx context.Context) error
	Stop(ctx context.Context) error
}

// NopPlayer is a silent Player.
type NopPlayer struct{}

func (NopPlayer) Play(context.Context) error   { return nil }
func (NopPlayer) Pause(context.Context) error  { return nil }
func (NopPlayer) Resume(context.Context) error { return nil }
func (NopPlayer) Stop(context.Context) error   { return nil }

// Runner executes a plugin request. *plugin.Executor satisfies it.
type Runner interface {
	Execute(ctx context.Context, p *plugin.Plugin, req *plugin.Request) (*plugin.Response, error)
}

// PluginPlayer forwards playback actions to an audio plugin.
type PluginPlayer struct {
	runner Runner
	plugin *plugin.Plugin
	game   string
	config json.RawMessage
}

// NewPluginPlayer creates a Player backed by p. config is passed to the
// plugin with every request.
func NewPluginPlayer(runner Runner, p *plugin.Plugin, game string, config json.RawMessage) *PluginPlayer {
	return &PluginPlayer{runner: runner, plugin: p, game: game, config: config}
}

func (p *PluginPlayer) Play(ctx context.Context) error   { return p.do(ctx, "play") }
func (p *PluginPlayer) Pause(ctx context.Context) error  { return p.do(ctx, "pause") }
func (p *PluginPlayer) Resume(ctx context.Context) error { return p.do(ctx, "resume") }
func (p *PluginPlayer) Stop(ctx context.Context) error   { return p.do(ctx, "stop") }

func (p *PluginPlayer) do(ctx context.Context, action string) error {
	resp, err := p.runner.Execute(ctx, p.plugin, &plugin.Request{
		Action: action,
		Game:   p.game,
		Config: p.config,
	})
	if err != nil {
		return fmt.Errorf("audio %s: %w", action, err)
	}
	if !resp.Success {
		return fmt.Errorf("audio %s: %s", action, resp.Error)
	}
	return nil
}

// Conductor keeps a Player in step with a Schedule. Player failures are
// logged and never interrupt the game.
type Conductor struct {
	schedule *Schedule
	player   Player
	logger   *slog.Logger
}

// NewConductor creates a Conductor. A nil player is silent and a nil logger
// uses slog.Default.
func NewConductor(schedule *Schedule, player Player, logger *slog.Logger) *Conductor {
	if player == nil {
		player = NopPlayer{}
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &Conductor{schedule: schedule, player: player, logger: logger}
}

// Start starts the schedule and the music.
func (c *Conductor) Start(ctx context.Context, now time.Time) {
	c.schedule.Start(now)
	c.logger.Info("music started", "next_toggle", c.schedule.Next().Sub(now))
	if err := c.player.Play(ctx); err != nil {
		c.logger.Warn("music player failed", "err", err)
	}
}

// Update advances the schedule and pauses or resumes the player on a toggle.
func (c *Conductor) Update(ctx context.Context, now time.Time) (Toggle, bool) {
	toggle, ok := c.schedule.Update(now)
	if !ok {
		return 0, false
	}

	var err error
	if toggle == Paused {
		err = c.player.Pause(ctx)
	} else {
		err = c.player.Resume(ctx)
	}
	c.logger.Debug("music toggled", "state", toggle, "played", c.schedule.Played())
	if err != nil {
		c.logger.Warn("music player failed", "action", toggle, "err", err)
	}
	return toggle, true
}

// Stop stops the player.
func (c *Conductor) Stop(ctx context.Context) {
	if err := c.player.Stop(ctx); err != nil {
		c.logger.Warn("music player failed to stop", "err", err)
	}
}

// Playing reports whether the music is on.
func (c *Conductor) Playing() bool {
	return c.schedule.Playing()
}

// Played returns the total play time.
func (c *Conductor) Played() time.Duration {
	return c.schedule.Played()
}
