package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"finledger/internal/core"
)

func newBudgetCmd(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "budget",
		Short: "Manage category budgets",
	}

	set := &cobra.Command{
		Use:   "set CATEGORY AMOUNT",
		Short: "Set the budget of a category",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			amount, err := core.ParseAmount(args[1])
			if err != nil {
				return err
			}
			s, err := a.open(cmd)
			if err != nil {
				return err
			}
			if err := s.Ledger.SetBudget(cmd.Context(), args[0], amount); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Budget for %s set to %s\n", args[0], money(amount))
			return nil
		},
	}

	list := &cobra.Command{
		Use:   "list",
		Short: "Show budgets with spending and what remains",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			s, err := a.open(cmd)
			if err != nil {
				return err
			}
			lines := s.Ledger.BudgetLines()
			out := cmd.OutOrStdout()
			if len(lines) == 0 {
				_, err := fmt.Fprintln(out, "No budgets set.")
				return err
			}
			tw := newTable(out)
			fmt.Fprintln(tw, "CATEGORY\tBUDGET\tSPENT\tREMAINING")
			for _, l := range lines {
				fmt.Fprintf(tw, "%s\t%s\t%s\t%s\n", l.Category, money(l.Budget), money(l.Spent), money(l.Remaining))
			}
			return tw.Flush()
		},
	}

	cmd.AddCommand(set, list)
	return cmd
}

func newCategoriesCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "categories",
		Short: "List the expense categories",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			for _, c := range core.Categories() {
				fmt.Fprintln(cmd.OutOrStdout(), c)
			}
			return nil
		},
	}
}
