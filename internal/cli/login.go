package cli

import (
	"fmt"

	"github.com/spf13/cobra"
)

// NewLoginCommand creates the login command. Logging in migrates any
// anonymous local progress into the account, then loads the authoritative
// remote snapshot.
func NewLoginCommand(opts *RootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "login <learner-id>",
		Short: "Authenticate and sync with your account",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			sess, err := openSession(opts)
			if err != nil {
				return err
			}
			defer sess.Close()

			learnerID := args[0]
			if current := sess.coord.LearnerID(); current == learnerID {
				fmt.Fprintf(cmd.OutOrStdout(), "Already logged in as %s.\n", learnerID)
				return nil
			}

			// The provider change notification drives the coordinator's
			// migration + remote load.
			sess.provider.SetIdentity(learnerID)

			// Verify the load landed; an offline login keeps working from
			// the local snapshot and syncs later.
			if err := sess.coord.Refresh(cmd.Context()); err != nil {
				fmt.Fprintf(cmd.OutOrStdout(),
					"Logged in as %s (offline: %v). Local progress stays available and syncs later.\n",
					learnerID, err)
				return nil
			}

			fmt.Fprintf(cmd.OutOrStdout(), "Logged in as %s. Progress synced.\n", learnerID)
			return nil
		},
	}
}

// NewLogoutCommand creates the logout command.
func NewLogoutCommand(opts *RootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "logout",
		Short: "Log out and clear local account state",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			sess, err := openSession(opts)
			if err != nil {
				return err
			}
			defer sess.Close()

			if sess.coord.LearnerID() == "" {
				fmt.Fprintln(cmd.OutOrStdout(), "Not logged in.")
				return nil
			}

			sess.provider.Clear()
			fmt.Fprintln(cmd.OutOrStdout(), "Logged out. Local account state cleared.")
			return nil
		},
	}
}
