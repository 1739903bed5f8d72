package commands

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/marmos91/nfs4state/cmd/nfs4state/cmdutil"
	"github.com/marmos91/nfs4state/internal/controlplane/api"
	"github.com/marmos91/nfs4state/internal/controlplane/api/auth"
	"github.com/marmos91/nfs4state/internal/cli/output"
	"github.com/marmos91/nfs4state/pkg/config"
)

var (
	tokenRole    string
	tokenSubject string
)

var tokenCmd = &cobra.Command{
	Use:   "token",
	Short: "Issue an admin API token",
	Long: `Issue a bearer token for the admin API, signed with the configured
secret (controlplane.jwt.secret or NFS4STATE_CONTROLPLANE_SECRET).

Admin tokens may evict clients and destroy sessions; viewer tokens are
accepted by read-only routes only.

Examples:
  # Issue an admin token and use it
  export NFS4STATE_TOKEN=$(nfs4state token --role admin -o json | jq -r .access_token)

  # Issue a viewer token for a dashboard
  nfs4state token --role viewer --subject grafana`,
	RunE: runToken,
}

func init() {
	tokenCmd.Flags().StringVar(&tokenRole, "role", string(auth.RoleAdmin), "Token role (admin|viewer)")
	tokenCmd.Flags().StringVar(&tokenSubject, "subject", "nfs4state-cli", "Token subject")
}

func runToken(cmd *cobra.Command, args []string) error {
	role, err := auth.ParseRole(tokenRole)
	if err != nil {
		return err
	}

	cfg, err := config.Load(GetConfigFile())
	if err != nil {
		return err
	}

	svc, err := api.NewJWTService(cfg.ControlPlane)
	if err != nil {
		return err
	}
	if svc == nil {
		return fmt.Errorf("no JWT secret configured; set controlplane.jwt.secret or %s",
			api.EnvControlPlaneSecret)
	}

	tok, err := svc.GenerateToken(tokenSubject, role)
	if err != nil {
		return fmt.Errorf("failed to issue token: %w", err)
	}

	format, err := cmdutil.GetOutputFormatParsed()
	if err != nil {
		return err
	}
	if format != output.FormatTable {
		return output.NewPrinter(cmd.OutOrStdout(), format, false).Print(tok)
	}

	_, _ = fmt.Fprintln(cmd.OutOrStdout(), tok.AccessToken)
	return nil
}
