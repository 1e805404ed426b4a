package ledger

import (
	"context"
	"fmt"
	"slices"
	"strings"

	"github.com/shopspring/decimal"

	"finledger/internal/core"
	"finledger/internal/log"
)

// NewTransaction is the input to Add. A nil Date means today; an empty
// Category is resolved by the classifier for expenses and set to Salary
// for income.
type NewTransaction struct {
	Kind        core.Kind
	Amount      decimal.Decimal
	Date        *core.Date
	Description string
	Category    string
}

type AddResult struct {
	Transaction core.Transaction
	Index       int
	Warnings    []Warning
}

// Add validates, stores and persists one transaction.
//
// It fails with core.ErrInvalidAmount, core.ErrInvalidKind,
// core.ErrInsufficientBalance for an expense larger than the balance, or
// core.ErrDuplicateTransaction for an exact copy of a stored record.
func (e *Engine) Add(ctx context.Context, in NewTransaction) (AddResult, error) {
	if !in.Amount.IsPositive() {
		return AddResult{}, fmt.Errorf("%w: %s must be greater than zero", core.ErrInvalidAmount, in.Amount)
	}
	if err := in.Kind.Validate(); err != nil {
		return AddResult{}, err
	}

	var warnings []Warning
	today := e.today()
	date := today
	if in.Date != nil {
		if err := in.Date.Validate(); err != nil {
			return AddResult{}, err
		}
		date = *in.Date
		if date.After(today) {
			warnings = append(warnings, futureDateWarning(date))
		}
	}

	if in.Kind == core.Expense && in.Amount.GreaterThan(e.snap.Balance()) {
		return AddResult{}, fmt.Errorf("%w: expense %s exceeds balance %s",
			core.ErrInsufficientBalance, in.Amount, e.snap.Balance())
	}

	t := core.Transaction{
		Date:        date,
		Amount:      in.Amount,
		Category:    e.resolveCategory(in.Kind, in.Category, in.Description),
		Description: in.Description,
		Kind:        in.Kind,
	}
	if e.snap.Contains(t) {
		return AddResult{}, fmt.Errorf("%w: %s %s %s on %s", core.ErrDuplicateTransaction,
			t.Kind, t.Amount, t.Category, t.Date)
	}

	next := e.snap.Clone()
	next.Append(t)
	if err := e.persist(ctx, log.OpAdd, next); err != nil {
		return AddResult{}, err
	}

	index := len(e.snap.Income) - 1
	if t.Kind == core.Expense {
		index = e.snap.Len() - 1
	}

	if t.Kind == core.Expense {
		if budget, ok := e.snap.Budgets[t.Category]; ok {
			if spent := e.snap.Spent(t.Category); spent.GreaterThan(budget) {
				warnings = append(warnings, overBudgetWarning(t.Category, spent, budget))
			}
		}
	}
	if balance := e.snap.Balance(); balance.LessThan(e.lowBalance) {
		warnings = append(warnings, lowBalanceWarning(balance))
	}

	fields := log.NewFields().
		WithOperation(log.OpAdd).
		WithTransaction(t.Kind.String(), t.Category, t.Amount, t.Date.String())
	e.logger.WithFields(fields).InfoContext(ctx, "Transaction added", log.FieldIndex, index)
	for _, w := range warnings {
		e.logger.WarnContext(ctx, w.Message, log.FieldWarning, w.Code)
	}

	return AddResult{Transaction: t, Index: index, Warnings: warnings}, nil
}

func (e *Engine) resolveCategory(kind core.Kind, category, description string) string {
	if c := strings.TrimSpace(category); c != "" {
		return c
	}
	if kind == core.Income {
		return core.SalaryCategory
	}
	return e.classifier.Classify(description).String()
}

// Patch lists the fields Update changes. Nil fields keep their value.
type Patch struct {
	Date        *core.Date
	Amount      *decimal.Decimal
	Category    *string
	Description *string
	Kind        *core.Kind
}

// IsEmpty reports whether the patch changes nothing.
func (p Patch) IsEmpty() bool {
	return p.Date == nil && p.Amount == nil && p.Category == nil && p.Description == nil && p.Kind == nil
}

// Update rewrites the record at a combined index. When the kind changes the
// record moves to the end of the other sequence, so its index changes; the
// new index is returned.
func (e *Engine) Update(ctx context.Context, index int, p Patch) (int, error) {
	kind, pos, err := e.snap.Locate(index)
	if err != nil {
		return 0, err
	}
	old := e.snap.Sequence(kind)[pos]
	t := old

	if p.Date != nil {
		if err := p.Date.Validate(); err != nil {
			return 0, err
		}
		t.Date = *p.Date
	}
	if p.Amount != nil {
		if !p.Amount.IsPositive() {
			return 0, fmt.Errorf("%w: %s must be greater than zero", core.ErrInvalidAmount, *p.Amount)
		}
		t.Amount = *p.Amount
	}
	if p.Category != nil {
		if c := strings.TrimSpace(*p.Category); c != "" {
			t.Category = c
		}
	}
	if p.Description != nil {
		t.Description = *p.Description
	}
	if p.Kind != nil {
		if err := p.Kind.Validate(); err != nil {
			return 0, err
		}
		t.Kind = *p.Kind
	}

	if t.Equal(old) {
		return index, nil
	}

	next := e.snap.Clone()
	newIndex := index
	if t.Kind == kind {
		seq := next.Sequence(kind)
		for i, other := range seq {
			if i != pos && other.Equal(t) {
				return 0, fmt.Errorf("%w: update would duplicate index %d", core.ErrDuplicateTransaction, e.combinedIndex(kind, i))
			}
		}
		seq[pos] = t
	} else {
		if next.Contains(t) {
			return 0, fmt.Errorf("%w: update would duplicate an existing %s", core.ErrDuplicateTransaction, t.Kind)
		}
		if _, err := next.Remove(index); err != nil {
			return 0, err
		}
		next.Append(t)
		newIndex = len(next.Income) - 1
		if t.Kind == core.Expense {
			newIndex = next.Len() - 1
		}
	}

	if err := e.persist(ctx, log.OpUpdate, next); err != nil {
		return 0, err
	}
	fields := log.NewFields().
		WithOperation(log.OpUpdate).
		WithTransaction(t.Kind.String(), t.Category, t.Amount, t.Date.String())
	e.logger.WithFields(fields).InfoContext(ctx, "Transaction updated", log.FieldIndex, newIndex)
	return newIndex, nil
}

func (e *Engine) combinedIndex(kind core.Kind, pos int) int {
	if kind == core.Income {
		return pos
	}
	return len(e.snap.Income) + pos
}

// Delete removes every record addressed by indices, or none of them if any
// index is out of range. Repeated indices count once. It returns the
// removed transactions in descending index order.
func (e *Engine) Delete(ctx context.Context, indices []int) ([]core.Transaction, error) {
	if len(indices) == 0 {
		return nil, nil
	}
	unique := slices.Clone(indices)
	slices.Sort(unique)
	unique = slices.Compact(unique)

	var bad []int
	for _, i := range unique {
		if i < 0 || i >= e.snap.Len() {
			bad = append(bad, i)
		}
	}
	if len(bad) > 0 {
		return nil, fmt.Errorf("%w: %v not in [0, %d)", core.ErrIndexOutOfRange, bad, e.snap.Len())
	}

	next := e.snap.Clone()
	removed := make([]core.Transaction, 0, len(unique))
	for _, i := range slices.Backward(unique) {
		t, err := next.Remove(i)
		if err != nil {
			return nil, err
		}
		removed = append(removed, t)
	}

	if err := e.persist(ctx, log.OpDelete, next); err != nil {
		return nil, err
	}
	e.logger.InfoContext(ctx, "Transactions deleted",
		log.FieldOperation, log.OpDelete,
		log.FieldCount, len(removed))
	return removed, nil
}

// SetBudget creates or replaces the budget of a fixed-set category.
//
// The sum of the budgets already set plus amount may not exceed total
// income, including when the category already has a budget.
func (e *Engine) SetBudget(ctx context.Context, category string, amount decimal.Decimal) error {
	if !amount.IsPositive() {
		return fmt.Errorf("%w: budget %s must be greater than zero", core.ErrInvalidAmount, amount)
	}
	cat, err := core.ParseCategory(category)
	if err != nil {
		return err
	}
	name := cat.String()

	total := e.snap.TotalBudget().Add(amount)
	if income := e.snap.TotalIncome(); total.GreaterThan(income) {
		return fmt.Errorf("%w: budgets would total %s against income %s",
			core.ErrBudgetExceedsIncome, total, income)
	}

	next := e.snap.Clone()
	next.Budgets[name] = amount
	if err := e.persist(ctx, log.OpBudget, next); err != nil {
		return err
	}
	e.logger.InfoContext(ctx, "Budget set",
		log.FieldOperation, log.OpBudget,
		log.FieldCategory, name,
		log.FieldAmount, amount.String())
	return nil
}

type MergeResult struct {
	Added      int
	Duplicates int
}

// Merge appends transactions that are not exact duplicates of a stored
// record or of an earlier record in the batch. It skips the balance and
// budget checks of Add and persists once. An invalid transaction aborts the
// whole merge.
func (e *Engine) Merge(ctx context.Context, txs []core.Transaction) (MergeResult, error) {
	for i, t := range txs {
		if err := t.Validate(); err != nil {
			return MergeResult{}, fmt.Errorf("merge record %d: %w", i+1, err)
		}
	}

	next := e.snap.Clone()
	var res MergeResult
	for _, t := range txs {
		if next.Contains(t) {
			res.Duplicates++
			continue
		}
		next.Append(t)
		res.Added++
	}

	if res.Added > 0 {
		if err := e.persist(ctx, log.OpMerge, next); err != nil {
			return MergeResult{}, err
		}
	}
	e.logger.InfoContext(ctx, "Transactions merged",
		log.FieldOperation, log.OpMerge,
		log.FieldCount, res.Added,
		log.FieldDuplicates, res.Duplicates)
	return res, nil
}
