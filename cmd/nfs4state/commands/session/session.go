// Package session implements NFSv4.1 session commands.
package session

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/marmos91/nfs4state/cmd/nfs4state/cmdutil"
)

// Cmd is the parent command for session management.
var Cmd = &cobra.Command{
	Use:   "session",
	Short: "NFSv4.1 session management",
	Long: `Manage NFSv4.1 sessions on a running server.

Sessions are listed per client with "nfs4state client sessions".

Examples:
  nfs4state session destroy 0123456789abcdef0123456789abcdef --force`,
}

var forceDestroy bool

var destroyCmd = &cobra.Command{
	Use:   "destroy <session-id>",
	Short: "Destroy a session",
	Long: `Destroy a session by its 32-character hex ID.

When it was the last session of its client, the client record is
removed as well. Requires an admin token.`,
	Args: cobra.ExactArgs(1),
	RunE: runDestroy,
}

func init() {
	destroyCmd.Flags().BoolVarP(&forceDestroy, "force", "f", false, "Skip confirmation prompt")
	Cmd.AddCommand(destroyCmd)
}

func runDestroy(cmd *cobra.Command, args []string) error {
	sessionID := args[0]
	out := cmd.OutOrStdout()

	client, err := cmdutil.GetAuthenticatedClient()
	if err != nil {
		return err
	}

	confirmed, err := cmdutil.ConfirmDestructive(out, fmt.Sprintf("Destroy session %s?", sessionID), forceDestroy)
	if err != nil || !confirmed {
		return err
	}

	if err := client.DestroySession(cmd.Context(), sessionID); err != nil {
		return fmt.Errorf("failed to destroy session: %w", err)
	}

	cmdutil.PrintSuccess(out, fmt.Sprintf("Session %s destroyed", sessionID))
	return nil
}
