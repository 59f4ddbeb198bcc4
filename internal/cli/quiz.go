package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/tobyward/pace/internal/progress"
)

// NewQuizCommand creates the quiz command for graded module assessments.
func NewQuizCommand(opts *RootOptions) *cobra.Command {
	var passed bool
	var score int

	cmd := &cobra.Command{
		Use:   "quiz <module>",
		Short: "Record a graded assessment result",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if score < 0 || score > 100 {
				return fmt.Errorf("--score must be between 0 and 100")
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

			// Gate on the resit cooldown before recording.
			mp := sess.coord.Progress().Lookup(moduleID)
			now := sess.coord.Now()
			if !progress.CanResit(mp, now) {
				return fmt.Errorf("assessment for %s is on cooldown: resit available in %dh",
					moduleID, progress.HoursUntilResit(mp, now))
			}

			sess.coord.RecordStudySession()
			sess.coord.RecordGQA(moduleID, passed, score)

			out := cmd.OutOrStdout()
			if passed {
				fmt.Fprintf(out, "Assessment passed with %d%%. Module %s complete.\n", score, moduleID)
			} else {
				fmt.Fprintf(out, "Assessment failed with %d%%. You can retake it in 24 hours.\n", score)
			}
			printAwards(out, sess)
			return nil
		},
	}

	cmd.Flags().BoolVar(&passed, "passed", false, "whether the assessment was passed")
	cmd.Flags().IntVar(&score, "score", 0, "assessment score (0-100)")
	cmd.MarkFlagRequired("score")

	return cmd
}
