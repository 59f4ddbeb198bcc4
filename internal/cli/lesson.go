package cli

import (
	"fmt"

	"github.com/spf13/cobra"
)

// NewLessonCommand creates the lesson command group.
func NewLessonCommand(opts *RootOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "lesson",
		Short: "Lesson operations",
	}
	cmd.AddCommand(newLessonCompleteCommand(opts))
	return cmd
}

func newLessonCompleteCommand(opts *RootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "complete <module> <lesson>",
		Short: "Mark a lesson as completed",
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

			// Running a command counts as a foreground event for the
			// streak.
			sess.coord.RecordStudySession()
			sess.coord.CompleteLesson(moduleID, lessonID)

			fmt.Fprintf(cmd.OutOrStdout(), "Lesson %s/%s completed.\n", moduleID, lessonID)
			printAwards(cmd.OutOrStdout(), sess)
			return nil
		},
	}
}
