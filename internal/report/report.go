// Package report derives read-only spending views from ledger data.
package report

import (
	"sort"

	"finledger/internal/core"
)

// CategoryTotals sums expenses per category, ordered by first appearance.
func CategoryTotals(expenses []core.Transaction) []core.CategoryAmount {
	var totals []core.CategoryAmount
	pos := map[string]int{}
	for _, t := range expenses {
		i, ok := pos[t.Category]
		if !ok {
			pos[t.Category] = len(totals)
			totals = append(totals, core.CategoryAmount{Name: t.Category, Amount: t.Amount})
			continue
		}
		totals[i].Amount = totals[i].Amount.Add(t.Amount)
	}
	return totals
}

// Top returns the n largest totals, largest first. Equal totals keep
// their input order.
func Top(totals []core.CategoryAmount, n int) []core.CategoryAmount {
	sorted := append([]core.CategoryAmount(nil), totals...)
	sort.SliceStable(sorted, func(i, j int) bool {
		return sorted[i].Amount.GreaterThan(sorted[j].Amount)
	})
	if n >= 0 && n < len(sorted) {
		sorted = sorted[:n]
	}
	return sorted
}

// BiggestExpense returns the first expense with the largest amount.
func BiggestExpense(expenses []core.Transaction) (core.Transaction, bool) {
	if len(expenses) == 0 {
		return core.Transaction{}, false
	}
	biggest := expenses[0]
	for _, t := range expenses[1:] {
		if t.Amount.GreaterThan(biggest.Amount) {
			biggest = t
		}
	}
	return biggest, true
}

// TopCount is how many categories Spending ranks.
const TopCount = 3

type Spending struct {
	Totals      []core.CategoryAmount
	Top         []core.CategoryAmount
	Biggest     core.Transaction
	HasExpenses bool
}

// SpendingOf bundles the per-category views of a snapshot's expenses.
func SpendingOf(s core.Snapshot) Spending {
	totals := CategoryTotals(s.Expense)
	biggest, ok := BiggestExpense(s.Expense)
	return Spending{
		Totals:      totals,
		Top:         Top(totals, TopCount),
		Biggest:     biggest,
		HasExpenses: ok,
	}
}
