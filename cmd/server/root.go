package main

import (
	"github.com/spf13/cobra"

	"baseline_academy/internal/platform/config"
)

var configFile string

// NewRootCmd builds the CLI. Running it without a subcommand serves HTTP.
func NewRootCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "server",
		Short: "Baseline Academy API server",
		Long: `Serves the Baseline Academy school-administration API: authentication,
students, fees, homework and the dashboard summary.`,
		SilenceUsage: true,
		RunE:         runServe,
	}

	cmd.PersistentFlags().StringVar(&configFile, "config", "", "config file path (YAML)")
	config.RegisterFlags(cmd.PersistentFlags())

	cmd.AddCommand(NewServeCmd())
	cmd.AddCommand(NewMigrateCmd())

	return cmd
}
