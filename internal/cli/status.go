package cli

import (
	"github.com/spf13/cobra"
)

// NewStatusCommand creates the status command.
func NewStatusCommand(opts *RootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "status",
		Short: "Show progress, XP, streak, badges and nudges",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			sess, err := openSession(opts)
			if err != nil {
				return err
			}
			defer sess.Close()

			return sess.buildStatusReport().render(cmd.OutOrStdout(), opts.Format)
		},
	}
}
