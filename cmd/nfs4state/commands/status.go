package commands

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/marmos91/nfs4state/cmd/nfs4state/cmdutil"
	"github.com/marmos91/nfs4state/internal/cli/output"
	"github.com/marmos91/nfs4state/internal/cli/timeutil"
	"github.com/marmos91/nfs4state/pkg/apiclient"
)

var statusCmd = &cobra.Command{
	Use:   "status",
	Short: "Show server health",
	Long: `Query the liveness and readiness endpoints of a running server.

Examples:
  # Local server
  nfs4state status

  # Remote server as JSON
  nfs4state status --server http://nfs1:8080 -o json`,
	RunE: runStatus,
}

// serverStatus combines the two health endpoints.
type serverStatus struct {
	Server   string                    `json:"server" yaml:"server"`
	Live     *apiclient.HealthResponse `json:"live" yaml:"live"`
	Ready    *apiclient.HealthResponse `json:"ready,omitempty" yaml:"ready,omitempty"`
	NotReady string                    `json:"not_ready,omitempty" yaml:"not_ready,omitempty"`
}

func (s serverStatus) pairs() [][2]string {
	pairs := [][2]string{
		{"Server", s.Server},
		{"Status", s.Live.Status},
	}
	if uptime, ok := s.Live.Data["uptime"].(string); ok {
		pairs = append(pairs, [2]string{"Uptime", timeutil.FormatUptime(uptime)})
	}

	if s.Ready == nil {
		return append(pairs, [2]string{"Ready", "no (" + s.NotReady + ")"})
	}
	pairs = append(pairs,
		[2]string{"Ready", "yes"},
		[2]string{"Clients", fmt.Sprint(s.Ready.Data["clients"])},
		[2]string{"Sessions", fmt.Sprint(s.Ready.Data["sessions"])},
		[2]string{"Lease time", fmt.Sprint(s.Ready.Data["lease_time"])},
	)
	return pairs
}

func runStatus(cmd *cobra.Command, args []string) error {
	client := cmdutil.GetClient()

	live, err := client.Health(cmd.Context())
	if err != nil {
		return fmt.Errorf("server %s is not reachable: %w", cmdutil.Flags.ServerURL, err)
	}

	st := serverStatus{Server: cmdutil.Flags.ServerURL, Live: live}
	if ready, err := client.Ready(cmd.Context()); err != nil {
		st.NotReady = err.Error()
	} else {
		st.Ready = ready
	}

	printer, err := cmdutil.NewPrinter(cmd.OutOrStdout())
	if err != nil {
		return err
	}
	if printer.Format() == output.FormatTable {
		return output.PrintKeyValue(cmd.OutOrStdout(), st.pairs())
	}
	return printer.Print(st)
}
