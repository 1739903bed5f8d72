// Package cmdutil provides shared utilities for nfs4state client commands.
package cmdutil

import (
	"errors"
	"fmt"
	"io"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/marmos91/nfs4state/internal/cli/output"
	"github.com/marmos91/nfs4state/internal/cli/prompt"
	"github.com/marmos91/nfs4state/pkg/apiclient"
)

// DefaultServerURL is used when neither --server nor NFS4STATE_SERVER is set.
const DefaultServerURL = "http://localhost:8080"

// Flags stores global flag values accessible by subcommands.
var Flags = &GlobalFlags{}

// GlobalFlags holds the global flag values.
type GlobalFlags struct {
	ServerURL string
	Token     string
	Output    string
	NoColor   bool
}

// BindFlags resolves the global flags of cmd, letting NFS4STATE_SERVER and
// NFS4STATE_TOKEN fill in for flags that were not given.
func BindFlags(cmd *cobra.Command) error {
	v := viper.New()
	v.SetEnvPrefix("NFS4STATE")
	v.SetDefault("server", DefaultServerURL)

	for _, name := range []string{"server", "token", "output", "no-color"} {
		if f := cmd.Flags().Lookup(name); f != nil {
			if err := v.BindPFlag(name, f); err != nil {
				return fmt.Errorf("failed to bind flag %s: %w", name, err)
			}
		}
	}
	if err := v.BindEnv("server"); err != nil {
		return err
	}
	if err := v.BindEnv("token"); err != nil {
		return err
	}

	Flags.ServerURL = v.GetString("server")
	Flags.Token = v.GetString("token")
	Flags.Output = v.GetString("output")
	Flags.NoColor = v.GetBool("no-color")
	return nil
}

// GetClient returns an API client for the configured server. The token is
// attached when one is set; read-only commands work without it.
func GetClient() *apiclient.Client {
	client := apiclient.New(Flags.ServerURL)
	if Flags.Token != "" {
		client = client.WithToken(Flags.Token)
	}
	return client
}

// GetAuthenticatedClient is GetClient for commands that need a token.
func GetAuthenticatedClient() (*apiclient.Client, error) {
	if Flags.Token == "" {
		return nil, fmt.Errorf("no token configured; pass --token or set NFS4STATE_TOKEN " +
			"(issue one with 'nfs4state token --role admin')")
	}
	return GetClient(), nil
}

// GetOutputFormatParsed returns the parsed output format.
func GetOutputFormatParsed() (output.Format, error) {
	return output.ParseFormat(Flags.Output)
}

// NewPrinter returns a printer for the selected output format.
func NewPrinter(w io.Writer) (*output.Printer, error) {
	format, err := GetOutputFormatParsed()
	if err != nil {
		return nil, err
	}
	return output.NewPrinter(w, format, !Flags.NoColor), nil
}

// PrintOutput prints data in the selected format. For table format it
// prints emptyMsg when isEmpty is set, otherwise renders the table.
func PrintOutput(w io.Writer, data any, isEmpty bool, emptyMsg string, table output.TableRenderer) error {
	format, err := GetOutputFormatParsed()
	if err != nil {
		return err
	}

	switch format {
	case output.FormatJSON:
		return output.PrintJSON(w, data)
	case output.FormatYAML:
		return output.PrintYAML(w, data)
	default:
		if isEmpty {
			_, _ = fmt.Fprintln(w, emptyMsg)
			return nil
		}
		return output.PrintTable(w, table)
	}
}

// PrintSuccess prints a success message in table format only.
func PrintSuccess(w io.Writer, msg string) {
	printer, err := NewPrinter(w)
	if err != nil {
		return
	}
	printer.Success(msg)
}

// ConfirmDestructive asks before a mutating call unless force is set.
// It returns false, with "Aborted." already printed, when the user declines.
func ConfirmDestructive(w io.Writer, label string, force bool) (bool, error) {
	confirmed, err := prompt.ConfirmWithForce(label, force)
	if err != nil {
		if errors.Is(err, prompt.ErrAborted) {
			_, _ = fmt.Fprintln(w, "\nAborted.")
			return false, nil
		}
		return false, err
	}
	if !confirmed {
		_, _ = fmt.Fprintln(w, "Aborted.")
	}
	return confirmed, nil
}

// BoolToYesNo converts a boolean to "yes" or "no" string.
func BoolToYesNo(b bool) string {
	if b {
		return "yes"
	}
	return "no"
}

// EmptyOr returns the value if not empty, otherwise returns the fallback.
func EmptyOr(value, fallback string) string {
	if value == "" {
		return fallback
	}
	return value
}
