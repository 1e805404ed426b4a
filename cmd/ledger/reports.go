package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"finledger/internal/reconcile"
	"finledger/internal/report"
)

func newSummaryCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "summary",
		Short: "Show totals, savings and budget allocation",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			s, err := a.open(cmd)
			if err != nil {
				return err
			}
			sum := s.Reconciler.Summary()
			tw := newTable(cmd.OutOrStdout())
			fmt.Fprintf(tw, "Total income:\t%s\n", sum.Income.TotalIncome)
			fmt.Fprintf(tw, "Total expenses:\t%s\n", sum.Expense.TotalExpense)
			fmt.Fprintf(tw, "Actual savings:\t%s\n", sum.Expense.NetSavings)
			fmt.Fprintf(tw, "Total budget:\t%s\n", sum.Budgets.TotalBudget)
			fmt.Fprintf(tw, "Planned savings:\t%s\n", sum.Budgets.PlannedSavings)
			return tw.Flush()
		},
	}
}

func newReportCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "report",
		Short: "Show spending by category",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			s, err := a.open(cmd)
			if err != nil {
				return err
			}
			sp := report.SpendingOf(s.Ledger.Snapshot())
			out := cmd.OutOrStdout()
			if !sp.HasExpenses {
				_, err := fmt.Fprintln(out, "No expenses recorded.")
				return err
			}

			tw := newTable(out)
			fmt.Fprintln(tw, "CATEGORY\tSPENT")
			for _, c := range sp.Totals {
				fmt.Fprintf(tw, "%s\t%s\n", c.Name, money(c.Amount))
			}
			if err := tw.Flush(); err != nil {
				return err
			}

			fmt.Fprintf(out, "\nTop %d categories:\n", report.TopCount)
			for i, c := range sp.Top {
				fmt.Fprintf(out, "%d. %s %s\n", i+1, c.Name, money(c.Amount))
			}
			b := sp.Biggest
			fmt.Fprintf(out, "\nBiggest expense: %s on %s (%s, %s)\n", money(b.Amount), b.Date, b.Category, b.Description)
			return nil
		},
	}
}

func newImportCmd(a *app) *cobra.Command {
	var format string
	cmd := &cobra.Command{
		Use:   "import PATH",
		Short: "Import transactions from a CSV, JSON or XLS file",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := a.open(cmd)
			if err != nil {
				return err
			}
			var res reconcile.ImportResult
			if format == "" {
				res, err = s.Reconciler.ImportFile(cmd.Context(), args[0])
			} else {
				res, err = importAs(cmd, s.Reconciler, args[0], format)
			}
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Imported %d transaction(s), skipped %d duplicate(s)\n", res.Added, res.Duplicates)
			return nil
		},
	}
	cmd.Flags().StringVarP(&format, "format", "f", "", "csv, json or xls (default from the file extension)")
	return cmd
}

func newExportCmd(a *app) *cobra.Command {
	var format string
	cmd := &cobra.Command{
		Use:   "export",
		Short: "Write the financial summary as CSV, JSON or YAML",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			s, err := a.open(cmd)
			if err != nil {
				return err
			}
			var paths []string
			if format == "all" {
				paths, err = s.Reconciler.ExportAll(cmd.Context())
			} else {
				var f reconcile.Format
				if f, err = reconcile.ParseFormat(format); err != nil {
					return err
				}
				var p string
				p, err = s.Reconciler.Export(cmd.Context(), f)
				paths = []string{p}
			}
			if err != nil {
				return err
			}
			for _, p := range paths {
				fmt.Fprintf(cmd.OutOrStdout(), "Summary exported to %s\n", p)
			}
			return nil
		},
	}
	cmd.Flags().StringVarP(&format, "format", "f", "csv", "csv, json, yaml or all")
	return cmd
}
