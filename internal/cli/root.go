// Package cli implements the pace command line interface.
package cli

import (
	"fmt"
	"log/slog"
	"os"

	"github.com/spf13/cobra"
)

// RootOptions holds global flags for all commands.
type RootOptions struct {
	Verbose bool
	Format  string // "text" | "json" | "yaml"
	Config  string // config file path, empty for search paths
}

// ValidFormats defines the allowed output formats.
var ValidFormats = []string{"text", "json", "yaml"}

// NewRootCommand creates the root command for the pace CLI.
func NewRootCommand() *cobra.Command {
	opts := &RootOptions{}

	cmd := &cobra.Command{
		Use:   "pace",
		Short: "pace - learner progress tracker",
		Long:  "Tracks lessons, assessments, XP and streaks locally, and keeps them in sync with your account.",
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			if !isValidFormat(opts.Format) {
				return fmt.Errorf("invalid format %q: must be one of %v", opts.Format, ValidFormats)
			}
			level := slog.LevelWarn
			if opts.Verbose {
				level = slog.LevelDebug
			}
			slog.SetDefault(slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level})))
			return nil
		},
	}

	cmd.PersistentFlags().BoolVarP(&opts.Verbose, "verbose", "v", false, "verbose output")
	cmd.PersistentFlags().StringVar(&opts.Format, "format", "text", "output format (text|json|yaml)")
	cmd.PersistentFlags().StringVar(&opts.Config, "config", "", "config file (default: ./pace.yaml, ~/.config/pace/pace.yaml)")

	cmd.AddCommand(NewLessonCommand(opts))
	cmd.AddCommand(NewPracticeCommand(opts))
	cmd.AddCommand(NewQuizCommand(opts))
	cmd.AddCommand(NewExamCommand(opts))
	cmd.AddCommand(NewStudyCommand(opts))
	cmd.AddCommand(NewReviewCommand(opts))
	cmd.AddCommand(NewStatusCommand(opts))
	cmd.AddCommand(NewLoginCommand(opts))
	cmd.AddCommand(NewLogoutCommand(opts))
	cmd.AddCommand(NewExportCommand(opts))
	cmd.AddCommand(NewServeCommand(opts))

	return cmd
}

func isValidFormat(format string) bool {
	for _, f := range ValidFormats {
		if f == format {
			return true
		}
	}
	return false
}
