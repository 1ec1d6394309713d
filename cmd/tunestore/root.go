package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

// globalOptions holds the persistent flags shared by every command.
type globalOptions struct {
	configPath string
	envFile    string
	output     string
}

// configBytes returns the YAML document to load: the --config file, or the embedded default.
func (o *globalOptions) configBytes() ([]byte, error) {
	if o.configPath == "" {
		return embeddedConfig, nil
	}
	b, err := os.ReadFile(o.configPath)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file '%s': %w", o.configPath, err)
	}
	return b, nil
}

func newRootCmd() *cobra.Command {
	opts := &globalOptions{}

	rootCmd := &cobra.Command{
		Use:   "tunestore",
		Short: "Administer the tuning metadata store",
		Long: `tunestore manages the relational store holding flow definitions, flow
executions, tuning algorithms, tuning parameters and suggested parameter sets.

The schema is never installed implicitly; run "tunestore schema up" first.`,
		Version:       version,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			_, err := parseOutputFormat(opts.output)
			return err
		},
	}

	rootCmd.PersistentFlags().StringVar(&opts.configPath, "config", "", "Path to a YAML configuration file (default: embedded configuration)")
	rootCmd.PersistentFlags().StringVar(&opts.envFile, "env-file", os.Getenv("ENV_FILE_PATH"), "Path to a .env file loaded before the configuration")
	rootCmd.PersistentFlags().StringVarP(&opts.output, "output", "o", "table", "Output format: table, json, yaml")

	rootCmd.AddCommand(newSchemaCmd(opts))
	rootCmd.AddCommand(newPingCmd(opts))
	rootCmd.AddCommand(newStatsCmd(opts))
	rootCmd.AddCommand(newAlgorithmCmd(opts))

	return rootCmd
}
