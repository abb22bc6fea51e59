package main

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/spf13/cobra"

	"github.com/ayusman/mudra/internal/app"
	"github.com/ayusman/mudra/internal/capture"
	"github.com/ayusman/mudra/internal/challenge"
	"github.com/ayusman/mudra/internal/config"
	"github.com/ayusman/mudra/internal/detector"
	"github.com/ayusman/mudra/internal/leaderboard"
	"github.com/ayusman/mudra/internal/metrics"
	"github.com/ayusman/mudra/internal/music"
	"github.com/ayusman/mudra/internal/plugin"
	"github.com/ayusman/mudra/internal/server"
	"github.com/ayusman/mudra/internal/store"
)

func newPlayCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "play <game>",
		Short: "Play one game with the webcam",
		Long: `Play opens the webcam, tracks your hands and runs one session of the
named game. Run "mudra games" to list the games.`,
		Args: cobra.ExactArgs(1),
		RunE: runPlay,
	}
	cmd.Flags().Int("camera", -1, "Camera device index (overrides config)")
	cmd.Flags().Int("goal", 0, "Override the game's goal")
	cmd.Flags().Duration("budget", 0, "Time budget for games that have one")
	cmd.Flags().String("listen", "", "Serve snapshots, video and metrics on this address")
	return cmd
}

func runPlay(cmd *cobra.Command, args []string) error {
	game, err := challenge.Lookup(args[0])
	if err != nil {
		return err
	}

	cfg, logger, err := setup(cmd)
	if err != nil {
		return err
	}
	if device, _ := cmd.Flags().GetInt("camera"); device >= 0 {
		cfg.Camera.Device = device
	}

	settings := gameSettings(cmd, cfg, game.Name)

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	st, err := store.New(cfg.DBPath())
	if err != nil {
		return fmt.Errorf("failed to open history: %w", err)
	}
	defer st.Close()

	reg := prometheus.NewRegistry()
	reg.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))
	m := metrics.New(reg)

	detCfg := cfg.Detector
	if game.Input.MaxHands > 0 {
		detCfg.MaxHands = game.Input.MaxHands
	}
	det, err := detector.NewMediaPipeDetector(detCfg, logger)
	if err != nil {
		return fmt.Errorf("failed to start pose estimator: %w", err)
	}

	source, err := app.NewCameraSource(
		capture.NewCamera(cfg.Camera),
		det,
		capture.NewGate(cfg.Gate.Threshold, cfg.Gate.MaxSkip),
		m,
	)
	if err != nil {
		det.Close()
		return err
	}
	defer source.Close()

	sinks := app.MultiSink{app.NewLogSink(logger)}
	if cfg.Listen != "" {
		hub := server.NewHub(logger)
		stream := server.NewStream()
		source.WithFrames(stream)
		sinks = append(sinks, hub)

		srv := server.New(server.Config{
			Store:          st,
			LeaderboardDir: cfg.LeaderboardDir(),
			Hub:            hub,
			Stream:         stream,
			Metrics:        metrics.Handler(reg),
			Logger:         logger,
		})
		srvCtx, cancel := context.WithCancel(ctx)
		defer cancel()
		go func() {
			if err := srv.ListenAndServe(srvCtx, cfg.Listen); err != nil {
				logger.Error("http server failed", "err", err)
			}
		}()
	}

	var player music.Player
	if game.Music {
		player = audioPlayer(cfg, game.Name, logger)
	}

	a, err := app.New(app.Config{
		Game:         game,
		Settings:     settings,
		Tracker:      cfg.Tracker,
		Hold:         cfg.Hold,
		ClickHold:    cfg.ClickHold,
		Source:       source,
		Sink:         sinks,
		Player:       player,
		Schedule:     cfg.Music,
		Leaderboards: cfg.LeaderboardDir(),
		Sessions:     st.Sessions(),
		Metrics:      m,
		Logger:       logger,
	})
	if err != nil {
		return err
	}

	result, err := a.Run(ctx)
	if errors.Is(err, app.ErrSourceUnavailable) {
		return err
	}
	printResult(cmd.OutOrStdout(), game, result)
	if game.Leaderboard && result.Outcome == challenge.OutcomeCompleted {
		printBoard(cmd.OutOrStdout(), game, leaderboard.ForGame(cfg.LeaderboardDir(), game.Name).Load())
	}
	return err
}

// gameSettings merges the configured game overrides with the command flags.
func gameSettings(cmd *cobra.Command, cfg *config.Config, name string) challenge.Settings {
	gc := cfg.Game(name)
	s := challenge.Settings{Goal: gc.Goal, Budget: gc.Budget}
	if goal, _ := cmd.Flags().GetInt("goal"); goal > 0 {
		s.Goal = goal
	}
	if budget, _ := cmd.Flags().GetDuration("budget"); budget > 0 {
		s.Budget = budget
	}
	return s
}

// audioPlayer returns the configured audio plugin as a music player, or nil
// when audio is disabled or the plugin cannot be found.
func audioPlayer(cfg *config.Config, game string, logger *slog.Logger) music.Player {
	if cfg.Plugins.Audio == "" {
		return nil
	}

	mgr := plugin.NewManager(cfg.Plugins.Dir, logger)
	if err := mgr.Discover(); err != nil {
		logger.Warn("failed to discover plugins", "dir", cfg.Plugins.Dir, "err", err)
		return nil
	}
	p, err := mgr.Get(cfg.Plugins.Audio)
	if err != nil {
		logger.Warn("audio plugin unavailable, playing silently", "plugin", cfg.Plugins.Audio, "err", err)
		return nil
	}

	var pluginCfg json.RawMessage
	if cfg.Plugins.Track != "" {
		pluginCfg, _ = json.Marshal(map[string]string{"file": cfg.Plugins.Track})
	}
	return music.NewPluginPlayer(plugin.NewExecutor(cfg.Plugins.Timeout), p, game, pluginCfg)
}

func printResult(w io.Writer, game challenge.Game, r challenge.Result) {
	fmt.Fprintf(w, "%s: %s in %.2fs\n", game.Title, r.Outcome, r.Elapsed.Seconds())
	switch {
	case r.Winner != "":
		fmt.Fprintf(w, "  winner: %s after %d pushes\n", r.Winner, r.Correct)
	case r.Rounds > 0:
		fmt.Fprintf(w, "  %d rounds completed\n", r.Rounds)
	case r.Goal > 0:
		fmt.Fprintf(w, "  %d/%d correct, %d incorrect\n", r.Correct, r.Goal, r.Incorrect)
	default:
		fmt.Fprintf(w, "  %d correct, %d incorrect\n", r.Correct, r.Incorrect)
	}
}
