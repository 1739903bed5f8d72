package config

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/marmos91/nfs4state/pkg/config"
)

var forceInit bool

var initCmd = &cobra.Command{
	Use:   "init",
	Short: "Write a default configuration file",
	Long: `Write a configuration file populated with the default values.

Without --config the file goes to $XDG_CONFIG_HOME/nfs4state/config.yaml.

Examples:
  nfs4state config init
  nfs4state config init --config ./nfs4state.yaml --force`,
	RunE: runInit,
}

func init() {
	initCmd.Flags().BoolVarP(&forceInit, "force", "f", false, "Overwrite an existing file")
}

func runInit(cmd *cobra.Command, args []string) error {
	path := configPath(cmd)
	if path == "" {
		var err error
		if path, err = config.InitConfig(forceInit); err != nil {
			return err
		}
	} else if err := config.InitConfigToPath(path, forceInit); err != nil {
		return err
	}

	_, _ = fmt.Fprintf(cmd.OutOrStdout(), "Configuration written to %s\n", path)
	return nil
}
