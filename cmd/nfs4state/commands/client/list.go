package client

import (
	"fmt"
	"strconv"
	"time"

	"github.com/spf13/cobra"

	"github.com/marmos91/nfs4state/cmd/nfs4state/cmdutil"
	"github.com/marmos91/nfs4state/internal/cli/timeutil"
	"github.com/marmos91/nfs4state/pkg/apiclient"
)

var listCmd = &cobra.Command{
	Use:   "list",
	Short: "List NFSv4 clients",
	Long: `List every client record with its address, lease status and
session count.

Examples:
  # List as table
  nfs4state client list

  # List as JSON
  nfs4state client list -o json`,
	RunE: runList,
}

// ClientList is a list of clients for table rendering.
type ClientList []apiclient.ClientInfo

// Headers implements TableRenderer.
func (cl ClientList) Headers() []string {
	return []string{"CLIENT_ID", "ADDRESS", "CONFIRMED", "LEASE", "RENEWED", "SESSIONS", "STATES"}
}

// Rows implements TableRenderer.
func (cl ClientList) Rows() [][]string {
	now := time.Now()
	rows := make([][]string, 0, len(cl))
	for _, c := range cl {
		rows = append(rows, []string{
			c.ClientID,
			cmdutil.EmptyOr(c.Address, "-"),
			cmdutil.BoolToYesNo(c.Confirmed),
			c.LeaseStatus,
			timeutil.Ago(c.LastRenewal, now),
			strconv.Itoa(c.Sessions),
			strconv.Itoa(c.States),
		})
	}
	return rows
}

func runList(cmd *cobra.Command, args []string) error {
	clients, err := cmdutil.GetClient().ListClients(cmd.Context())
	if err != nil {
		return fmt.Errorf("failed to list clients: %w", err)
	}

	return cmdutil.PrintOutput(cmd.OutOrStdout(), clients, len(clients) == 0, "No NFSv4 clients.", ClientList(clients))
}
