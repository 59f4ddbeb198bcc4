package cli

import (
	"fmt"

	"github.com/spf13/cobra"
)

// NewReviewCommand creates the review command, which restores a lesson's
// memory strength.
func NewReviewCommand(opts *RootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "review <module> <lesson>",
		Short: "Record a review of a completed lesson",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			sess, err := openSession(opts)
			if err != nil {
				return err
			}
			defer sess.Close()

			moduleID, lessonID := args[0], args[1]
			if err := sess.requireLesson(moduleID, lessonID); err != nil {
				return err
			}

			sess.coord.RecordStudySession()
			sess.coord.RefreshLessonStrength(moduleID, lessonID)

			fmt.Fprintf(cmd.OutOrStdout(), "Lesson %s/%s reviewed: strength back to 100.\n", moduleID, lessonID)
			printAwards(cmd.OutOrStdout(), sess)
			return nil
		},
	}
}
