package config

import (
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
)

// newFlagCommand creates a cobra command with all flags configured.
func newFlagCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:           "arithbench [howmany]",
		Short:         "Measure per-element cost of floating-point arithmetic",
		Args:          cobra.MaximumNArgs(1),
		SilenceErrors: true,
		SilenceUsage:  true,
	}
	cmd.SetOut(os.Stdout)
	configureFlags(cmd.Flags())
	return cmd
}

// configureFlags sets up all CLI flags on the provided flag set.
func configureFlags(flags *pflag.FlagSet) {
	// Output flags
	flags.StringP("format", "f", string(FormatText), "Report format: text, json or yaml")
	flags.StringSlice("threshold", nil, "Assertion on a result (repeatable; replaces config file thresholds, e.g. 'double_add:ns < 2')")
	flags.String("baseline", "", "Previous JSON report to compare ns/element against")
	flags.String("config", "", "Path to configuration file (JSON or YAML)")
	flags.String("log-level", "warn", "Diagnostic log level: debug, info, warn or error")

	// Run control flags
	flags.String("lock-file", "", "Advisory lock file that serialises benchmark runs on this host")

	// Tracing flags
	flags.String("otlp-endpoint", "", "OTLP collector endpoint for measurement spans (host:port)")
	flags.String("otlp-protocol", "grpc", "OTLP protocol: grpc or http")
	flags.Bool("otlp-insecure", false, "Disable TLS for the OTLP exporter")
}

// displayHelp prints the help message for a command.
func displayHelp(cmd *cobra.Command) {
	out := cmd.OutOrStdout()
	fmt.Fprintf(out, "Usage: %s\n\n%s\n\nFlags:\n", cmd.UseLine(), cmd.Short)
	fs := cmd.Flags()
	fs.SetOutput(out)
	fs.PrintDefaults()
}

// applyFlagOverrides applies command-line flag values to the config, overriding
// values from the config file.
func applyFlagOverrides(cfg *Config, fs *pflag.FlagSet) error {
	if fs.Changed("format") {
		val, err := fs.GetString("format")
		if err != nil {
			return err
		}
		cfg.Format = Format(strings.ToLower(strings.TrimSpace(val)))
	}
	if fs.Changed("threshold") {
		val, err := fs.GetStringSlice("threshold")
		if err != nil {
			return err
		}
		cfg.Thresholds = val
	}
	if fs.Changed("baseline") {
		val, err := fs.GetString("baseline")
		if err != nil {
			return err
		}
		cfg.Baseline = strings.TrimSpace(val)
	}
	if fs.Changed("log-level") {
		val, err := fs.GetString("log-level")
		if err != nil {
			return err
		}
		cfg.LogLevel = val
	}
	if fs.Changed("lock-file") {
		val, err := fs.GetString("lock-file")
		if err != nil {
			return err
		}
		cfg.LockFile = strings.TrimSpace(val)
	}
	if fs.Changed("otlp-endpoint") {
		val, err := fs.GetString("otlp-endpoint")
		if err != nil {
			return err
		}
		cfg.Tracing.Endpoint = strings.TrimSpace(val)
	}
	if fs.Changed("otlp-protocol") {
		val, err := fs.GetString("otlp-protocol")
		if err != nil {
			return err
		}
		cfg.Tracing.Protocol = val
	}
	if fs.Changed("otlp-insecure") {
		val, err := fs.GetBool("otlp-insecure")
		if err != nil {
			return err
		}
		cfg.Tracing.Insecure = val
	}
	return nil
}
