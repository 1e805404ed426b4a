package core

import (
	"fmt"
	"slices"
	"sort"

	"github.com/shopspring/decimal"
)

// Snapshot is the complete persisted state of one identity.
//
// Every transaction in Income has Kind Income and every transaction in
// Expense has Kind Expense.
type Snapshot struct {
	Income  []Transaction
	Expense []Transaction
	Budgets map[string]decimal.Decimal
}

// NewSnapshot returns an empty snapshot with non-nil collections.
func NewSnapshot() Snapshot {
	return Snapshot{
		Income:  []Transaction{},
		Expense: []Transaction{},
		Budgets: map[string]decimal.Decimal{},
	}
}

// Clone returns a deep copy; the result shares no backing storage with s.
func (s Snapshot) Clone() Snapshot {
	c := Snapshot{
		Income:  append([]Transaction{}, s.Income...),
		Expense: append([]Transaction{}, s.Expense...),
		Budgets: make(map[string]decimal.Decimal, len(s.Budgets)),
	}
	for k, v := range s.Budgets {
		c.Budgets[k] = v
	}
	return c
}

// All is the combined view used for index addressing: income first, then expense.
// It is rebuilt on every call.
func (s Snapshot) All() []Transaction {
	all := make([]Transaction, 0, len(s.Income)+len(s.Expense))
	all = append(all, s.Income...)
	return append(all, s.Expense...)
}

// Len is the size of the combined view.
func (s Snapshot) Len() int {
	return len(s.Income) + len(s.Expense)
}

// Sequence returns the kind-specific sequence.
func (s Snapshot) Sequence(k Kind) []Transaction {
	if k == Income {
		return s.Income
	}
	return s.Expense
}

// Append adds t to the sequence matching its kind.
func (s *Snapshot) Append(t Transaction) {
	if t.Kind == Income {
		s.Income = append(s.Income, t)
		return
	}
	s.Expense = append(s.Expense, t)
}

// Contains reports whether an exact duplicate of t is in its kind sequence.
func (s Snapshot) Contains(t Transaction) bool {
	return slices.ContainsFunc(s.Sequence(t.Kind), t.Equal)
}

// Locate maps a combined index to its kind and position inside that sequence.
func (s Snapshot) Locate(index int) (Kind, int, error) {
	if index < 0 || index >= s.Len() {
		return "", 0, fmt.Errorf("%w: %d not in [0, %d)", ErrIndexOutOfRange, index, s.Len())
	}
	if index < len(s.Income) {
		return Income, index, nil
	}
	return Expense, index - len(s.Income), nil
}

// Remove deletes the record at a combined index.
func (s *Snapshot) Remove(index int) (Transaction, error) {
	kind, pos, err := s.Locate(index)
	if err != nil {
		return Transaction{}, err
	}
	if kind == Income {
		t := s.Income[pos]
		s.Income = slices.Delete(s.Income, pos, pos+1)
		return t, nil
	}
	t := s.Expense[pos]
	s.Expense = slices.Delete(s.Expense, pos, pos+1)
	return t, nil
}

func (s Snapshot) TotalIncome() decimal.Decimal {
	return Sum(s.Income)
}

func (s Snapshot) TotalExpense() decimal.Decimal {
	return Sum(s.Expense)
}

// Balance is total income minus total expense.
func (s Snapshot) Balance() decimal.Decimal {
	return s.TotalIncome().Sub(s.TotalExpense())
}

// Spent sums the expenses recorded under category.
func (s Snapshot) Spent(category string) decimal.Decimal {
	total := decimal.Zero
	for _, t := range s.Expense {
		if t.Category == category {
			total = total.Add(t.Amount)
		}
	}
	return total
}

func (s Snapshot) TotalBudget() decimal.Decimal {
	total := decimal.Zero
	for _, v := range s.Budgets {
		total = total.Add(v)
	}
	return total
}

// BudgetCategories lists budgeted categories: fixed-set members in display order, others alphabetically after.
func (s Snapshot) BudgetCategories() []string {
	names := make([]string, 0, len(s.Budgets))
	for k := range s.Budgets {
		names = append(names, k)
	}
	sort.Slice(names, func(i, j int) bool {
		ri, rj := categoryRank(names[i]), categoryRank(names[j])
		if ri != rj {
			return ri < rj
		}
		return names[i] < names[j]
	})
	return names
}

// BudgetLines reports budget, spent and remaining for every budgeted category.
func (s Snapshot) BudgetLines() []BudgetLine {
	names := s.BudgetCategories()
	lines := make([]BudgetLine, 0, len(names))
	for _, name := range names {
		budget := s.Budgets[name]
		spent := s.Spent(name)
		lines = append(lines, BudgetLine{
			Category:  name,
			Budget:    budget,
			Spent:     spent,
			Remaining: budget.Sub(spent),
		})
	}
	return lines
}

// Validate enforces the per-kind invariant and positive amounts.
func (s Snapshot) Validate() error {
	for i, t := range s.Income {
		if t.Kind != Income {
			return fmt.Errorf("income[%d]: kind %q in income sequence", i, t.Kind)
		}
		if err := t.Validate(); err != nil {
			return fmt.Errorf("income[%d]: %w", i, err)
		}
	}
	for i, t := range s.Expense {
		if t.Kind != Expense {
			return fmt.Errorf("expense[%d]: kind %q in expense sequence", i, t.Kind)
		}
		if err := t.Validate(); err != nil {
			return fmt.Errorf("expense[%d]: %w", i, err)
		}
	}
	for name, amount := range s.Budgets {
		if !amount.IsPositive() {
			return fmt.Errorf("budget %q: %w: %s", name, ErrInvalidAmount, amount)
		}
	}
	return nil
}
