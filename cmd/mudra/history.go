package main

import (
	"fmt"
	"text/tabwriter"
	"time"

	"github.com/spf13/cobra"

	"github.com/ayusman/mudra/internal/store"
)

func newHistoryCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "history",
		Short: "List finished sessions, newest first",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, _, err := setup(cmd)
			if err != nil {
				return err
			}
			game, _ := cmd.Flags().GetString("game")
			limit, _ := cmd.Flags().GetInt("limit")

			st, err := store.New(cfg.DBPath())
			if err != nil {
				return fmt.Errorf("failed to open history: %w", err)
			}
			defer st.Close()

			sessions, err := st.Sessions().List(game, limit)
			if err != nil {
				return err
			}

			w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
			fmt.Fprintln(w, "FINISHED\tGAME\tOUTCOME\tCORRECT\tINCORRECT\tROUNDS\tWINNER\tTIME")
			for _, s := range sessions {
				fmt.Fprintf(w, "%s\t%s\t%s\t%d\t%d\t%d\t%s\t%.2fs\n",
					s.FinishedAt.Local().Format(time.DateTime), s.Game, s.Outcome,
					s.Correct, s.Incorrect, s.Rounds, s.Winner, s.Elapsed.Seconds())
			}
			return w.Flush()
		},
	}
	cmd.Flags().String("game", "", "Only show sessions of this game")
	cmd.Flags().Int("limit", 20, "Maximum number of sessions (0 for all)")
	return cmd
}
