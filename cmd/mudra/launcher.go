package main

import (
	"context"
	"errors"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/ayusman/mudra/internal/challenge"
	"github.com/ayusman/mudra/internal/leaderboard"
	"github.com/ayusman/mudra/internal/tray"
)

func newLauncherCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "launcher",
		Short: "Run the system tray game launcher",
		Long: `Launcher puts a menu in the system tray. Picking a game starts
"mudra play <game>" as a child process; only one game runs at a time.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, logger, err := setup(cmd)
			if err != nil {
				return err
			}

			exe, err := os.Executable()
			if err != nil {
				return fmt.Errorf("failed to locate mudra binary: %w", err)
			}
			var childArgs []string
			if path, _ := cmd.Flags().GetString("config"); path != "" {
				childArgs = append(childArgs, "--config", path)
			}

			ctx, cancel := context.WithCancel(cmd.Context())
			defer cancel()

			t := tray.New(challenge.Games())
			launcher := tray.NewLauncher(exe, childArgs, logger)
			launcher.OnDone(func(game string, err error) {
				t.SetStatus("")
			})

			t.OnPlay(func(game string) {
				if err := launcher.Start(ctx, game); err != nil {
					if errors.Is(err, tray.ErrGameRunning) {
						logger.Warn("game not started", "game", game, "err", err)
						return
					}
					logger.Error("failed to launch game", "game", game, "err", err)
					return
				}
				t.SetStatus("Playing " + game)
			})
			t.OnLeaderboard(func(game string) {
				g, err := challenge.Lookup(game)
				if err != nil {
					return
				}
				times := leaderboard.ForGame(cfg.LeaderboardDir(), game).Load()
				logger.Info("leaderboard", "game", game, "times", times)
				printBoard(cmd.OutOrStdout(), g, times)
			})
			t.OnQuit(func() {
				if err := launcher.Stop(); err != nil {
					logger.Warn("failed to stop game", "game", launcher.Running(), "err", err)
				}
				cancel()
			})

			logger.Info("launcher started", "games", len(challenge.Games()))
			t.Run()
			return nil
		},
	}
}
