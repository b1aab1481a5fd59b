package cmd

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
	"text/tabwriter"

	"lavish/internal/core"

	"github.com/spf13/cobra"
)

var addCmd = &cobra.Command{
	Use:   "add <description> <amount> <income|expense>",
	Short: "Record a transaction",
	Args:  cobra.ExactArgs(3),
	RunE:  runAdd,
}

var rmCmd = &cobra.Command{
	Use:   "rm <id>",
	Short: "Remove a transaction by id",
	Args:  cobra.ExactArgs(1),
	RunE:  runRemove,
}

var lsCmd = &cobra.Command{
	Use:   "ls",
	Short: "List transactions, newest first",
	Args:  cobra.NoArgs,
	RunE:  runList,
}

var summaryCmd = &cobra.Command{
	Use:   "summary",
	Short: "Show total income, expense and balance",
	Args:  cobra.NoArgs,
	RunE:  runSummary,
}

var monthsCmd = &cobra.Command{
	Use:   "months",
	Short: "List the months that have transactions",
	Args:  cobra.NoArgs,
	RunE:  runMonths,
}

var lsMonth string

func init() {
	rootCmd.AddCommand(addCmd, rmCmd, lsCmd, summaryCmd, monthsCmd)
	lsCmd.Flags().StringVarP(&lsMonth, "month", "m", core.AllMonths, "month to show (YYYY-MM or all)")
}

func runAdd(cmd *cobra.Command, args []string) error {
	amount, err := core.ParseAmount(args[1])
	if err != nil {
		return err
	}
	typ, err := core.ParseTxType(args[2])
	if err != nil {
		return err
	}

	l, _, _, err := openLedger(cmd.Context())
	if err != nil {
		return err
	}
	defer l.Close()

	rec, err := l.Store.Add(cmd.Context(), args[0], amount, typ)
	if err != nil {
		return fmt.Errorf("add transaction: %w", err)
	}
	fmt.Fprintln(cmd.OutOrStdout(), rec.ID)
	return nil
}

func runRemove(cmd *cobra.Command, args []string) error {
	id, err := strconv.ParseInt(args[0], 10, 64)
	if err != nil {
		return fmt.Errorf("invalid id %q", args[0])
	}

	l, _, _, err := openLedger(cmd.Context())
	if err != nil {
		return err
	}
	defer l.Close()

	removed, err := l.Store.Remove(cmd.Context(), id)
	if err != nil {
		return fmt.Errorf("remove transaction: %w", err)
	}
	if !removed {
		fmt.Fprintf(cmd.ErrOrStderr(), "no transaction with id %d\n", id)
	}
	return nil
}

func runList(cmd *cobra.Command, args []string) error {
	month := strings.TrimSpace(lsMonth)
	if !core.ValidMonthKey(month) {
		return errors.New("month must be YYYY-MM or all")
	}

	l, cfg, _, err := openLedger(cmd.Context())
	if err != nil {
		return err
	}
	defer l.Close()

	loc := l.Store.Location()
	tw := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "ID\tDATE\tDESCRIPTION\tAMOUNT\tTYPE")
	for _, r := range l.Store.ListFiltered(month) {
		fmt.Fprintf(tw, "%d\t%s\t%s\t%s\t%s\n",
			r.ID, r.Time(loc).Format(cfg.DateLayout), r.Description,
			core.FormatDollars(core.Decimal(r.Amount)), r.Type)
	}
	return tw.Flush()
}

func runSummary(cmd *cobra.Command, args []string) error {
	l, _, _, err := openLedger(cmd.Context())
	if err != nil {
		return err
	}
	defer l.Close()

	s := l.Store.Summarize()
	out := cmd.OutOrStdout()
	fmt.Fprintf(out, "Income:  %s\n", core.FormatDollars(s.Income))
	fmt.Fprintf(out, "Expense: %s\n", core.FormatDollars(s.Expense))
	fmt.Fprintf(out, "Balance: %s\n", core.FormatDollars(s.Balance))
	return nil
}

func runMonths(cmd *cobra.Command, args []string) error {
	l, _, _, err := openLedger(cmd.Context())
	if err != nil {
		return err
	}
	defer l.Close()

	for _, m := range l.Store.DistinctMonths() {
		fmt.Fprintln(cmd.OutOrStdout(), m)
	}
	return nil
}
