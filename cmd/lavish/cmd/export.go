package cmd

import (
	"errors"
	"fmt"

	"lavish/internal/cli"
	"lavish/internal/export"
	"lavish/internal/log"

	"github.com/spf13/cobra"
)

var exportCmd = &cobra.Command{
	Use:   "export",
	Short: "Write the whole ledger to a file",
	Long: `Write every transaction, oldest first, to a file.

CSV columns are Date, Description, Amount and Type. The default file name is
finance_tracker.<format>. An empty ledger writes nothing.`,
	Args: cobra.NoArgs,
	RunE: runExport,
}

var (
	exportFormat string
	exportOutput string
)

func init() {
	rootCmd.AddCommand(exportCmd)
	exportCmd.Flags().StringVarP(&exportFormat, "format", "f", export.FormatCSV, "csv, json or yaml")
	exportCmd.Flags().StringVarP(&exportOutput, "output", "o", "", "output path (default finance_tracker.<format>)")
}

func runExport(cmd *cobra.Command, args []string) error {
	enc, err := export.ForFormat(exportFormat)
	if err != nil {
		return err
	}

	l, cfg, logger, err := openLedger(cmd.Context())
	if err != nil {
		return err
	}
	defer l.Close()

	opts, err := cli.ExportOptions(cfg)
	if err != nil {
		return err
	}

	path := exportOutput
	if path == "" {
		path = export.Filename(enc)
	}

	err = export.ExportFile(l.Store.All(), enc, opts, path)
	if errors.Is(err, export.ErrNothingToExport) {
		fmt.Fprintln(cmd.ErrOrStderr(), "No transactions to export.")
		return nil
	}
	if err != nil {
		return err
	}

	logger.Info("Ledger exported", log.FieldOperation, log.OpExport, "path", path, log.FieldCount, l.Store.Len())
	fmt.Fprintln(cmd.OutOrStdout(), path)
	return nil
}
