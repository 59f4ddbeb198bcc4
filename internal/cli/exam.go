package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/tobyward/pace/internal/progress"
)

// NewExamCommand creates the final exam command.
func NewExamCommand(opts *RootOptions) *cobra.Command {
	var passed bool
	var score int

	cmd := &cobra.Command{
		Use:   "exam",
		Short: "Record a final exam result",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if score < 0 || score > 100 {
				return fmt.Errorf("--score must be between 0 and 100")
			}

			sess, err := openSession(opts)
			if err != nil {
				return err
			}
			defer sess.Close()

			if !progress.AllModulesComplete(sess.coord.Progress(), sess.cat) {
				return fmt.Errorf("final exam is locked: complete every module first")
			}

			sess.coord.RecordStudySession()
			sess.coord.RecordFinalExam(passed, score)

			out := cmd.OutOrStdout()
			if passed {
				fmt.Fprintf(out, "Final exam passed with %d%%. Congratulations!\n", score)
			} else {
				fmt.Fprintf(out, "Final exam failed with %d%%. Only the latest attempt counts - try again.\n", score)
			}
			printAwards(out, sess)
			return nil
		},
	}

	cmd.Flags().BoolVar(&passed, "passed", false, "whether the exam was passed")
	cmd.Flags().IntVar(&score, "score", 0, "exam score (0-100)")
	cmd.MarkFlagRequired("score")

	return cmd
}
