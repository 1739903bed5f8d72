package config

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

const configHeader = `# nfs4state Configuration File
#
# Every value can be overridden with an environment variable:
#   NFS4STATE_<SECTION>_<KEY>, e.g. NFS4STATE_STATE_LEASE_TIME=30s
# The admin API secret can also be set with NFS4STATE_CONTROLPLANE_SECRET.
#
# Generate a JSON schema for editor completion with:
#   nfs4state config schema --file config.schema.json

`

// InitConfig writes a default configuration file to the default location
// and returns its path. An existing file is only replaced when force is set.
func InitConfig(force bool) (string, error) {
	path := GetDefaultConfigPath()
	if err := InitConfigToPath(path, force); err != nil {
		return "", err
	}
	return path, nil
}

// InitConfigToPath writes a default configuration file to path.
func InitConfigToPath(path string, force bool) error {
	if !force {
		if _, err := os.Stat(path); err == nil {
			return fmt.Errorf("configuration file already exists: %s (use --force to overwrite)", path)
		}
	}

	cfg := GetDefaultConfig()
	// A fresh install usually talks to a local collector without TLS.
	cfg.Telemetry.Insecure = true

	data, err := yaml.Marshal(cfg)
	if err != nil {
		return fmt.Errorf("failed to marshal default config: %w", err)
	}

	return writeConfigFile(path, append([]byte(configHeader), data...))
}
