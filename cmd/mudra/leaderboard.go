package main

import (
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/ayusman/mudra/internal/challenge"
	"github.com/ayusman/mudra/internal/leaderboard"
)

func newLeaderboardCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "leaderboard [game]",
		Short: "Show the best times of one or all leaderboard games",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, _, err := setup(cmd)
			if err != nil {
				return err
			}

			games := challenge.LeaderboardGames()
			if len(args) == 1 {
				g, err := challenge.Lookup(args[0])
				if err != nil {
					return err
				}
				if !g.Leaderboard {
					return fmt.Errorf("%s has no leaderboard", g.Name)
				}
				games = []challenge.Game{g}
			}

			for _, g := range games {
				printBoard(cmd.OutOrStdout(), g, leaderboard.ForGame(cfg.LeaderboardDir(), g.Name).Load())
			}
			return nil
		},
	}
}

func printBoard(w io.Writer, g challenge.Game, times []float64) {
	fmt.Fprintf(w, "%s (%s)\n", g.Title, g.Name)
	if len(times) == 0 {
		fmt.Fprintln(w, "  no times yet")
		return
	}
	for i, t := range times {
		fmt.Fprintf(w, "  %d. %.2fs\n", i+1, t)
	}
}
