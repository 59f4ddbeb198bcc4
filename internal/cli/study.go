package cli

import (
	"fmt"

	"github.com/spf13/cobra"
)

// NewStudyCommand creates the study command, which records today's study
// session for streak purposes.
func NewStudyCommand(opts *RootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "study",
		Short: "Record a study session for today",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			sess, err := openSession(opts)
			if err != nil {
				return err
			}
			defer sess.Close()

			sess.coord.RecordStudySession()

			gs := sess.coord.Gamification()
			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "Streak: %d day(s)", gs.StreakCount)
			if gs.StreakFrozen {
				fmt.Fprint(out, " (a freeze saved it)")
			}
			fmt.Fprintln(out)
			printAwards(out, sess)
			return nil
		},
	}
}
