// Package grace implements grace period commands.
package grace

import (
	"fmt"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/marmos91/nfs4state/cmd/nfs4state/cmdutil"
	"github.com/marmos91/nfs4state/internal/cli/output"
	"github.com/marmos91/nfs4state/pkg/apiclient"
)

// Cmd is the parent command for grace period inspection.
var Cmd = &cobra.Command{
	Use:   "grace",
	Short: "NFSv4 grace period",
	Long: `Inspect the NFSv4 grace period of a running server.

Examples:
  nfs4state grace status
  nfs4state grace status -o json`,
}

var statusCmd = &cobra.Command{
	Use:   "status",
	Short: "Show grace period status",
	Long: `Display whether the server is in its grace period and the lease
time clients are held to. This endpoint needs no token.`,
	RunE: runStatus,
}

func init() {
	Cmd.AddCommand(statusCmd)
}

func statusPairs(resp *apiclient.GraceStatusResponse) [][2]string {
	return [][2]string{
		{"Active", strconv.FormatBool(resp.Active)},
		{"Lease time", resp.LeaseTime},
		{"Message", resp.Message},
	}
}

func runStatus(cmd *cobra.Command, args []string) error {
	resp, err := cmdutil.GetClient().GraceStatus(cmd.Context())
	if err != nil {
		return fmt.Errorf("failed to get grace status: %w", err)
	}

	printer, err := cmdutil.NewPrinter(cmd.OutOrStdout())
	if err != nil {
		return err
	}
	if printer.Format() == output.FormatTable {
		return output.PrintKeyValue(cmd.OutOrStdout(), statusPairs(resp))
	}
	return printer.Print(resp)
}
