package client

import (
	"fmt"
	"strconv"
	"time"

	"github.com/spf13/cobra"

	"github.com/marmos91/nfs4state/cmd/nfs4state/cmdutil"
	"github.com/marmos91/nfs4state/internal/cli/output"
	"github.com/marmos91/nfs4state/internal/cli/timeutil"
	"github.com/marmos91/nfs4state/pkg/apiclient"
)

var getCmd = &cobra.Command{
	Use:   "get <client-id>",
	Short: "Show one NFSv4 client",
	Args:  cobra.ExactArgs(1),
	RunE:  runGet,
}

func clientDetail(c *apiclient.ClientInfo) [][2]string {
	now := time.Now()
	return [][2]string{
		{"Client ID", c.ClientID},
		{"Owner ID", c.OwnerID},
		{"Address", cmdutil.EmptyOr(c.Address, "-")},
		{"Local address", cmdutil.EmptyOr(c.LocalAddress, "-")},
		{"Principal", cmdutil.EmptyOr(c.Principal, "-")},
		{"Confirmed", cmdutil.BoolToYesNo(c.Confirmed)},
		{"Callback", cmdutil.BoolToYesNo(c.CallbackNeeded)},
		{"Created", timeutil.FormatTime(c.CreatedAt)},
		{"Last renewal", timeutil.Ago(c.LastRenewal, now)},
		{"Lease", fmt.Sprintf("%s (%s left)", c.LeaseStatus, c.LeaseRemaining)},
		{"Sessions", strconv.Itoa(c.Sessions)},
		{"States", strconv.Itoa(c.States)},
	}
}

func runGet(cmd *cobra.Command, args []string) error {
	c, err := cmdutil.GetClient().GetClient(cmd.Context(), args[0])
	if err != nil {
		return fmt.Errorf("failed to get client: %w", err)
	}

	printer, err := cmdutil.NewPrinter(cmd.OutOrStdout())
	if err != nil {
		return err
	}
	if printer.Format() == output.FormatTable {
		return output.PrintKeyValue(cmd.OutOrStdout(), clientDetail(c))
	}
	return printer.Print(c)
}
