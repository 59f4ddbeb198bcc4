package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/tobyward/pace/internal/dates"
	"github.com/tobyward/pace/internal/report"
)

// NewExportCommand creates the export command, which writes the current
// snapshot to an xlsx workbook.
func NewExportCommand(opts *RootOptions) *cobra.Command {
	var out string

	cmd := &cobra.Command{
		Use:   "export",
		Short: "Export progress to a spreadsheet",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			sess, err := openSession(opts)
			if err != nil {
				return err
			}
			defer sess.Close()

			ps := sess.coord.Progress()
			gs := sess.coord.Gamification()
			today := dates.DateOf(sess.coord.Now())

			if err := report.WriteXLSX(out, ps, gs, sess.cat, today); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Wrote %s\n", out)
			return nil
		},
	}

	cmd.Flags().StringVarP(&out, "out", "o", "pace-report.xlsx", "output file path")
	return cmd
}
