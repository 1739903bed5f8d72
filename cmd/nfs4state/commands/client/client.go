// Package client implements NFSv4 client record commands.
package client

import (
	"github.com/spf13/cobra"
)

// Cmd is the parent command for client management.
var Cmd = &cobra.Command{
	Use:   "client",
	Short: "NFSv4 client management",
	Long: `Inspect and evict the NFSv4.1 clients known to a running server.

Listing is open to anyone who can reach the admin API. Eviction needs an
admin token (--token or NFS4STATE_TOKEN).

Examples:
  # List clients
  nfs4state client list

  # Show one client and its sessions
  nfs4state client get 65f1a2b300000001
  nfs4state client sessions 65f1a2b300000001

  # Find the client behind a stateid seen on the wire
  nfs4state client resolve 0000000165f1a2b30000000100000003

  # Evict a client by ID
  nfs4state client evict 65f1a2b300000001 --force`,
}

func init() {
	Cmd.AddCommand(listCmd)
	Cmd.AddCommand(getCmd)
	Cmd.AddCommand(sessionsCmd)
	Cmd.AddCommand(resolveCmd)
	Cmd.AddCommand(evictCmd)
}
