package main

import (
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/spf13/cobra"

	"github.com/ayusman/mudra/internal/metrics"
	"github.com/ayusman/mudra/internal/server"
	"github.com/ayusman/mudra/internal/store"
)

const defaultListen = "127.0.0.1:8420"

func newServeCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve the game catalogue, leaderboards and session history",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, logger, err := setup(cmd)
			if err != nil {
				return err
			}
			addr := cfg.Listen
			if addr == "" {
				addr = defaultListen
			}
			static, _ := cmd.Flags().GetString("static")

			st, err := store.New(cfg.DBPath())
			if err != nil {
				return fmt.Errorf("failed to open history: %w", err)
			}
			defer st.Close()

			reg := prometheus.NewRegistry()
			reg.MustRegister(collectors.NewGoCollector())

			srv := server.New(server.Config{
				StaticDir:      static,
				Store:          st,
				LeaderboardDir: cfg.LeaderboardDir(),
				Metrics:        metrics.Handler(reg),
				Logger:         logger,
			})

			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()
			return srv.ListenAndServe(ctx, addr)
		},
	}
	cmd.Flags().String("listen", "", "Address to listen on (default "+defaultListen+")")
	cmd.Flags().String("static", "", "Directory of static files served at /")
	return cmd
}
