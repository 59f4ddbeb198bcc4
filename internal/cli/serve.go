package cli

import (
	"fmt"
	"log/slog"

	"github.com/spf13/cobra"

	"github.com/tobyward/pace/internal/config"
	"github.com/tobyward/pace/internal/dates"
	"github.com/tobyward/pace/internal/httpapi"
	"github.com/tobyward/pace/internal/remote"
)

// NewServeCommand creates the serve command, which runs the HTTP API over
// the remote store plus the daily streak reminder scan.
func NewServeCommand(opts *RootOptions) *cobra.Command {
	var remindAt string

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Run the sync API server",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load(opts.Config)
			if err != nil {
				return err
			}

			store, err := remote.Open(cfg.Remote.Driver, cfg.Remote.DSN)
			if err != nil {
				return fmt.Errorf("open remote store: %w", err)
			}
			defer store.Close()

			clock := dates.SystemClock{}

			reminder := httpapi.NewStreakReminder(store, clock)
			if err := reminder.Start(remindAt); err != nil {
				return fmt.Errorf("start streak reminder: %w", err)
			}
			defer reminder.Stop()

			srv := httpapi.NewServer(store, clock)
			slog.Info("serving sync API", "addr", cfg.Serve.Addr, "driver", cfg.Remote.Driver)
			return srv.Router().Run(cfg.Serve.Addr)
		},
	}

	cmd.Flags().StringVar(&remindAt, "remind-at", "18:00", "time of day (UTC) for the streak reminder scan")
	return cmd
}
