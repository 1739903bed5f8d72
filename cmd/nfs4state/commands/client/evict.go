package client

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/marmos91/nfs4state/cmd/nfs4state/cmdutil"
)

var forceEvict bool

var evictCmd = &cobra.Command{
	Use:   "evict <client-id>",
	Short: "Evict an NFSv4 client",
	Long: `Evict a client by its hex-encoded client ID.

All sessions of the client are destroyed and its granted state is
released. The client has to establish a new client ID to continue.

Examples:
  # Evict a client (with confirmation prompt)
  nfs4state client evict 65f1a2b300000001

  # Evict without confirmation
  nfs4state client evict 65f1a2b300000001 --force`,
	Args: cobra.ExactArgs(1),
	RunE: runEvict,
}

func init() {
	evictCmd.Flags().BoolVarP(&forceEvict, "force", "f", false, "Skip confirmation prompt")
}

func runEvict(cmd *cobra.Command, args []string) error {
	clientID := args[0]
	out := cmd.OutOrStdout()

	client, err := cmdutil.GetAuthenticatedClient()
	if err != nil {
		return err
	}

	confirmed, err := cmdutil.ConfirmDestructive(out,
		fmt.Sprintf("Evict client %s? All of its sessions will be destroyed", clientID), forceEvict)
	if err != nil || !confirmed {
		return err
	}

	if err := client.EvictClient(cmd.Context(), clientID); err != nil {
		return fmt.Errorf("failed to evict client: %w", err)
	}

	cmdutil.PrintSuccess(out, fmt.Sprintf("Client %s evicted", clientID))
	return nil
}
