package config

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/marmos91/nfs4state/pkg/config"
)

var validateCmd = &cobra.Command{
	Use:   "validate",
	Short: "Validate configuration file",
	Long: `Validate the nfs4state configuration file.

Checks for syntax errors, missing required fields, and invalid values.

Examples:
  # Validate default config
  nfs4state config validate

  # Validate specific config file
  nfs4state config validate --config /etc/nfs4state/config.yaml`,
	RunE: runValidate,
}

func runValidate(cmd *cobra.Command, args []string) error {
	path := configPath(cmd)

	cfg, err := config.MustLoad(path)
	if err != nil {
		return err
	}

	if path == "" {
		path = config.GetDefaultConfigPath()
	}

	var warnings []string
	if !cfg.ControlPlane.HasJWTSecret() {
		warnings = append(warnings, "JWT secret not configured - client eviction and session destruction are disabled")
	}
	if !cfg.Metrics.Enabled {
		warnings = append(warnings, "Metrics disabled")
	}

	out := cmd.OutOrStdout()
	_, _ = fmt.Fprintf(out, "Configuration file: %s\n", path)
	_, _ = fmt.Fprintln(out, "Validation: OK")

	if len(warnings) > 0 {
		_, _ = fmt.Fprintln(out, "\nWarnings:")
		for _, w := range warnings {
			_, _ = fmt.Fprintf(out, "  - %s\n", w)
		}
	}

	_, _ = fmt.Fprintf(out, "\nConfiguration summary:\n")
	_, _ = fmt.Fprintf(out, "  Lease time:      %s\n", cfg.State.LeaseTime)
	_, _ = fmt.Fprintf(out, "  Max sessions:    %d\n", cfg.State.MaxSessions)
	_, _ = fmt.Fprintf(out, "  API port:        %d\n", cfg.ControlPlane.Port)
	_, _ = fmt.Fprintf(out, "  Log level:       %s\n", cfg.Logging.Level)
	if cfg.Telemetry.Enabled {
		_, _ = fmt.Fprintf(out, "  Tracing:         %s (sample rate %.2f)\n", cfg.Telemetry.Endpoint, cfg.Telemetry.SampleRate)
	}

	return nil
}
