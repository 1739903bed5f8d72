package client

import (
	"fmt"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/marmos91/nfs4state/cmd/nfs4state/cmdutil"
	"github.com/marmos91/nfs4state/internal/cli/output"
)

var resolveCmd = &cobra.Command{
	Use:   "resolve <stateid>",
	Short: "Show the NFSv4 client owning a stateid",
	Long: `Resolve a stateid to the client that owns it.

The stateid is the hex form of its 16-byte XDR encoding (seqid followed by
other), as it appears in a packet capture.

Examples:
  nfs4state client resolve 0000000165f1a2b30000000100000003`,
	Args: cobra.ExactArgs(1),
	RunE: runResolve,
}

func runResolve(cmd *cobra.Command, args []string) error {
	info, err := cmdutil.GetClient().ResolveStateid(cmd.Context(), args[0])
	if err != nil {
		return fmt.Errorf("failed to resolve stateid: %w", err)
	}

	printer, err := cmdutil.NewPrinter(cmd.OutOrStdout())
	if err != nil {
		return err
	}
	if printer.Format() != output.FormatTable {
		return printer.Print(info)
	}

	pairs := [][2]string{
		{"Stateid", info.Stateid},
		{"Seqid", strconv.FormatUint(uint64(info.Seqid), 10)},
		{"Counter", strconv.FormatUint(uint64(info.Counter), 10)},
	}
	return output.PrintKeyValue(cmd.OutOrStdout(), append(pairs, clientDetail(&info.Client)...))
}
