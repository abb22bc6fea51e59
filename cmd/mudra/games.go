package main

import (
	"fmt"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/ayusman/mudra/internal/challenge"
)

func newGamesCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "games",
		Short: "List the available games",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
			fmt.Fprintln(w, "NAME\tTITLE\tINPUT\tGOAL\tLEADERBOARD")
			for _, g := range challenge.Games() {
				goal := "-"
				if g.Goal > 0 {
					goal = fmt.Sprint(g.Goal)
				}
				board := ""
				if g.Leaderboard {
					board = "yes"
				}
				fmt.Fprintf(w, "%s\t%s\t%s\t%s\t%s\n", g.Name, g.Title, g.Input.Kind, goal, board)
			}
			return w.Flush()
		},
	}
}
