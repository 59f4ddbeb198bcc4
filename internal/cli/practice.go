package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/tobyward/pace/internal/progress"
)

// NewPracticeCommand creates the practice command.
func NewPracticeCommand(opts *RootOptions) *cobra.Command {
	var correct, total int

	cmd := &cobra.Command{
		Use:   "practice <module>",
		Short: "Record a practice quiz result",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if total <= 0 {
				return fmt.Errorf("--total must be positive")
			}
			if correct < 0 || correct > total {
				return fmt.Errorf("--correct must be between 0 and %d", total)
			}

			sess, err := openSession(opts)
			if err != nil {
				return err
			}
			defer sess.Close()

			moduleID := args[0]
			if err := sess.requireModule(moduleID); err != nil {
				return err
			}

			sess.coord.RecordStudySession()
			sess.coord.RecordPractice(moduleID, correct, total)

			ps := sess.coord.Progress()
			mp := ps.Lookup(moduleID)
			fmt.Fprintf(cmd.OutOrStdout(), "Practice recorded: %d/%d. Best score %d%% after %d attempt(s).\n",
				correct, total, mp.Practice.BestScore, mp.Practice.Attempts)
			if progress.IsAssessmentUnlocked(mp) {
				fmt.Fprintln(cmd.OutOrStdout(), "Assessment unlocked.")
			}
			printAwards(cmd.OutOrStdout(), sess)
			return nil
		},
	}

	cmd.Flags().IntVar(&correct, "correct", 0, "number of correct answers")
	cmd.Flags().IntVar(&total, "total", 0, "number of questions")
	cmd.MarkFlagRequired("total")

	return cmd
}
