// Package commands implements the nfs4state CLI: the state server itself
// and the client commands talking to its admin API.
package commands

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/marmos91/nfs4state/cmd/nfs4state/cmdutil"
	clientcmd "github.com/marmos91/nfs4state/cmd/nfs4state/commands/client"
	configcmd "github.com/marmos91/nfs4state/cmd/nfs4state/commands/config"
	gracecmd "github.com/marmos91/nfs4state/cmd/nfs4state/commands/grace"
	sessioncmd "github.com/marmos91/nfs4state/cmd/nfs4state/commands/session"
	"github.com/marmos91/nfs4state/internal/logger"
	"github.com/marmos91/nfs4state/pkg/config"
)

var (
	// Version information injected at build time.
	Version = "dev"
	Commit  = "none"
	Date    = "unknown"

	// Global flags.
	cfgFile string
)

// rootCmd represents the base command when called without any subcommands.
var rootCmd = &cobra.Command{
	Use:   "nfs4state",
	Short: "nfs4state - NFSv4.1 client and session state server",
	Long: `nfs4state keeps the client, session and stateid records of an NFSv4.1
server: client registration, lease renewal, session lifetime and
stateid validation.

Run "nfs4state serve" to start the state handler with its admin API, then
use the client, session and grace commands to inspect it.

Use "nfs4state [command] --help" for more information about a command.`,
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		return cmdutil.BindFlags(cmd)
	},
}

// Execute adds all child commands to the root command and sets flags appropriately.
func Execute() error {
	return rootCmd.Execute()
}

// GetRootCmd returns the root command for testing purposes.
func GetRootCmd() *cobra.Command {
	return rootCmd
}

func init() {
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default: $XDG_CONFIG_HOME/nfs4state/config.yaml)")
	rootCmd.PersistentFlags().String("server", "", "Admin API URL (env NFS4STATE_SERVER, default "+cmdutil.DefaultServerURL+")")
	rootCmd.PersistentFlags().String("token", "", "Bearer token for mutating commands (env NFS4STATE_TOKEN)")
	rootCmd.PersistentFlags().StringP("output", "o", "table", "Output format (table|json|yaml)")
	rootCmd.PersistentFlags().Bool("no-color", false, "Disable colored output")

	rootCmd.AddCommand(versionCmd)
	rootCmd.AddCommand(serveCmd)
	rootCmd.AddCommand(tokenCmd)
	rootCmd.AddCommand(statusCmd)
	rootCmd.AddCommand(configcmd.Cmd)
	rootCmd.AddCommand(clientcmd.Cmd)
	rootCmd.AddCommand(sessioncmd.Cmd)
	rootCmd.AddCommand(gracecmd.Cmd)

	rootCmd.CompletionOptions.DisableDefaultCmd = true
}

// GetConfigFile returns the config file path from the global flag.
func GetConfigFile() string {
	return cfgFile
}

// InitLogger initializes the structured logger from configuration.
func InitLogger(cfg *config.Config) error {
	loggerCfg := logger.Config{
		Level:  cfg.Logging.Level,
		Format: cfg.Logging.Format,
		Output: cfg.Logging.Output,
	}
	if err := logger.Init(loggerCfg); err != nil {
		return fmt.Errorf("failed to initialize logger: %w", err)
	}
	return nil
}
