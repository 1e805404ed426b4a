package main

import (
	"fmt"
	"strconv"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"

	"finledger/internal/core"
	"finledger/internal/ledger"
	"finledger/internal/reconcile"
)

type txFlags struct {
	kind        string
	amount      string
	date        string
	category    string
	description string
}

func (f *txFlags) register(fs *pflag.FlagSet) {
	fs.StringVarP(&f.kind, "kind", "k", "", "income or expense")
	fs.StringVarP(&f.amount, "amount", "a", "", "positive amount, e.g. 12.50")
	fs.StringVarP(&f.date, "date", "d", "", "transaction date (default today)")
	fs.StringVarP(&f.category, "category", "c", "", "category (classified from the description when empty)")
	fs.StringVarP(&f.description, "description", "m", "", "free-text description")
}

func newAddCmd(a *app) *cobra.Command {
	var f txFlags
	cmd := &cobra.Command{
		Use:   "add",
		Short: "Record an income or expense",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			kind, err := core.ParseKind(f.kind)
			if err != nil {
				return err
			}
			amount, err := core.ParseAmount(f.amount)
			if err != nil {
				return err
			}
			in := ledger.NewTransaction{
				Kind:        kind,
				Amount:      amount,
				Description: f.description,
				Category:    f.category,
			}
			if f.date != "" {
				d, err := reconcile.ParseDate(f.date)
				if err != nil {
					return err
				}
				in.Date = &d
			}

			s, err := a.open(cmd)
			if err != nil {
				return err
			}
			res, err := s.Ledger.Add(cmd.Context(), in)
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "Added #%d: %s %s %s (%s)\n", displayIndex(res.Index),
				res.Transaction.Kind, money(res.Transaction.Amount),
				res.Transaction.Category, res.Transaction.Date)
			writeWarnings(out, res.Warnings)
			return nil
		},
	}
	f.register(cmd.Flags())
	_ = cmd.MarkFlagRequired("kind")
	_ = cmd.MarkFlagRequired("amount")
	return cmd
}

func newUpdateCmd(a *app) *cobra.Command {
	var f txFlags
	cmd := &cobra.Command{
		Use:   "update INDEX",
		Short: "Change fields of a recorded transaction",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			index, err := parseIndex(args[0])
			if err != nil {
				return err
			}
			p, err := f.patch(cmd.Flags())
			if err != nil {
				return err
			}
			if p.IsEmpty() {
				return fmt.Errorf("nothing to update: pass at least one field flag")
			}

			s, err := a.open(cmd)
			if err != nil {
				return err
			}
			newIndex, err := s.Ledger.Update(cmd.Context(), index, p)
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Updated #%d\n", displayIndex(newIndex))
			return nil
		},
	}
	f.register(cmd.Flags())
	return cmd
}

// patch builds an update from the flags the user actually set.
func (f *txFlags) patch(flags *pflag.FlagSet) (ledger.Patch, error) {
	var p ledger.Patch
	if flags.Changed("kind") {
		k, err := core.ParseKind(f.kind)
		if err != nil {
			return p, err
		}
		p.Kind = &k
	}
	if flags.Changed("amount") {
		amount, err := core.ParseAmount(f.amount)
		if err != nil {
			return p, err
		}
		p.Amount = &amount
	}
	if flags.Changed("date") {
		d, err := reconcile.ParseDate(f.date)
		if err != nil {
			return p, err
		}
		p.Date = &d
	}
	if flags.Changed("category") {
		p.Category = &f.category
	}
	if flags.Changed("description") {
		p.Description = &f.description
	}
	return p, nil
}

func newDeleteCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "delete INDEX...",
		Short: "Remove transactions by index",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			indices := make([]int, 0, len(args))
			for _, arg := range args {
				i, err := parseIndex(arg)
				if err != nil {
					return err
				}
				indices = append(indices, i)
			}

			s, err := a.open(cmd)
			if err != nil {
				return err
			}
			removed, err := s.Ledger.Delete(cmd.Context(), indices)
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Deleted %d transaction(s)\n", len(removed))
			return nil
		},
	}
}

func newListCmd(a *app) *cobra.Command {
	var kind string
	cmd := &cobra.Command{
		Use:   "list",
		Short: "Show recorded transactions",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			s, err := a.open(cmd)
			if err != nil {
				return err
			}
			entries := entriesOf(s.Ledger.Transactions())
			if kind != "" {
				k, err := core.ParseKind(kind)
				if err != nil {
					return err
				}
				filtered := entries[:0]
				for _, e := range entries {
					if e.Transaction.Kind == k {
						filtered = append(filtered, e)
					}
				}
				entries = filtered
			}
			return writeEntries(cmd.OutOrStdout(), entries)
		},
	}
	cmd.Flags().StringVarP(&kind, "kind", "k", "", "only show income or expense")
	return cmd
}

func newSearchCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "search KEYWORD",
		Short: "Find transactions by date, category or description",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := a.open(cmd)
			if err != nil {
				return err
			}
			return writeEntries(cmd.OutOrStdout(), s.Ledger.Search(args[0]))
		},
	}
}

func newBalanceCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "balance",
		Short: "Show income minus expenses",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			s, err := a.open(cmd)
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Balance: %s\n", money(s.Ledger.Balance()))
			return nil
		},
	}
}

func parseIndex(s string) (int, error) {
	n, err := strconv.Atoi(s)
	if err != nil || n < 1 {
		return 0, fmt.Errorf("%w: %q", core.ErrIndexOutOfRange, s)
	}
	return n - 1, nil
}
