package cmd

import (
	"context"
	"os"

	"lavish/internal/cli"
	"lavish/internal/config"
	"lavish/internal/log"

	"github.com/spf13/cobra"
)

var cfgFile string

var rootCmd = &cobra.Command{
	Use:   "lavish",
	Short: "Personal income and expense tracker",
	Long: `Lavish records income and expense transactions, summarizes the balance,
filters the ledger by month and exports it as CSV.

Run "lavish serve" for the web page, or manage the ledger directly:
  lavish add "Salary" 2000 income
  lavish ls --month 2024-03
  lavish summary
  lavish export -o finance_tracker.csv`,
	SilenceUsage: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		cli.LoadEnvFile()
		if cfgFile != "" {
			return os.Setenv(config.FileEnv, cfgFile)
		}
		return nil
	},
}

// Execute adds all child commands to the root command and sets flags appropriately.
func Execute() error {
	return rootCmd.Execute()
}

func init() {
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "YAML config file (overridden by environment)")
}

// openLedger loads config and opens the ledger for a one-shot command.
func openLedger(ctx context.Context) (*cli.Ledger, *config.Config, *log.Logger, error) {
	cfg, err := cli.LoadAndValidateConfig()
	if err != nil {
		return nil, nil, nil, err
	}
	// Keep stdout for command output.
	logger := cli.SetupLogger(cfg, os.Stderr)
	l, err := cli.OpenLedger(ctx, cfg, logger)
	if err != nil {
		return nil, nil, nil, err
	}
	return l, cfg, logger, nil
}
