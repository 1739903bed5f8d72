package client

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/marmos91/nfs4state/cmd/nfs4state/cmdutil"
	"github.com/marmos91/nfs4state/internal/cli/timeutil"
	"github.com/marmos91/nfs4state/pkg/apiclient"
)

var sessionsCmd = &cobra.Command{
	Use:   "sessions <client-id>",
	Short: "List the sessions of an NFSv4 client",
	Long: `List the sessions a client has created.

Examples:
  nfs4state client sessions 65f1a2b300000001

  # Destroy one of them
  nfs4state session destroy <session-id>`,
	Args: cobra.ExactArgs(1),
	RunE: runSessions,
}

// SessionList is a list of sessions for table rendering.
type SessionList []apiclient.SessionInfo

// Headers implements TableRenderer.
func (sl SessionList) Headers() []string {
	return []string{"SESSION_ID", "CREATED", "LAST_USED"}
}

// Rows implements TableRenderer.
func (sl SessionList) Rows() [][]string {
	now := time.Now()
	rows := make([][]string, 0, len(sl))
	for _, s := range sl {
		rows = append(rows, []string{
			s.SessionID,
			timeutil.FormatTime(s.CreatedAt),
			timeutil.Ago(s.LastUsed, now),
		})
	}
	return rows
}

func runSessions(cmd *cobra.Command, args []string) error {
	sessions, err := cmdutil.GetClient().ListSessions(cmd.Context(), args[0])
	if err != nil {
		return fmt.Errorf("failed to list sessions: %w", err)
	}

	return cmdutil.PrintOutput(cmd.OutOrStdout(), sessions, len(sessions) == 0,
		"Client has no sessions.", SessionList(sessions))
}
