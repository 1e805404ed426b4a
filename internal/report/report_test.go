package report

import (
	"testing"

	"github.com/shopspring/decimal"

	"finledger/internal/core"
)

func exp(amount, category, desc string) core.Transaction {
	return core.Transaction{
		Date:        core.NewDate(2024, 1, 1),
		Amount:      decimal.RequireFromString(amount),
		Category:    category,
		Description: desc,
		Kind:        core.Expense,
	}
}

func TestCategoryTotals(t *testing.T) {
	got := CategoryTotals([]core.Transaction{
		exp("10", "Rent", "a"),
		exp("5.5", "Groceries", "b"),
		exp("2.25", "Rent", "c"),
		exp("1", "Other", "d"),
	})
	want := []core.CategoryAmount{
		{Name: "Rent", Amount: decimal.RequireFromString("12.25")},
		{Name: "Groceries", Amount: decimal.RequireFromString("5.5")},
		{Name: "Other", Amount: decimal.RequireFromString("1")},
	}
	if len(got) != len(want) {
		t.Fatalf("CategoryTotals() = %v", got)
	}
	for i := range want {
		if got[i].Name != want[i].Name || !got[i].Amount.Equal(want[i].Amount) {
			t.Errorf("totals[%d] = %v, want %v", i, got[i], want[i])
		}
	}
	if CategoryTotals(nil) != nil {
		t.Error("no expenses should give no totals")
	}
}

func TestTop(t *testing.T) {
	totals := []core.CategoryAmount{
		{Name: "A", Amount: decimal.NewFromInt(5)},
		{Name: "B", Amount: decimal.NewFromInt(9)},
		{Name: "C", Amount: decimal.NewFromInt(5)},
		{Name: "D", Amount: decimal.NewFromInt(7)},
	}
	got := Top(totals, 3)
	names := []string{got[0].Name, got[1].Name, got[2].Name}
	if len(got) != 3 || names[0] != "B" || names[1] != "D" || names[2] != "A" {
		t.Errorf("Top() = %v, want B D A (ties keep first-encountered)", names)
	}
	if totals[0].Name != "A" {
		t.Error("Top must not reorder its input")
	}
	if len(Top(totals, 10)) != 4 {
		t.Error("n larger than input should return everything")
	}
	if len(Top(totals, 0)) != 0 {
		t.Error("n = 0 should return nothing")
	}
}

func TestBiggestExpense(t *testing.T) {
	if _, ok := BiggestExpense(nil); ok {
		t.Error("expected no biggest expense for empty input")
	}
	got, ok := BiggestExpense([]core.Transaction{
		exp("3", "Other", "first"),
		exp("8", "Rent", "tie-a"),
		exp("8", "Health", "tie-b"),
	})
	if !ok || got.Description != "tie-a" {
		t.Errorf("BiggestExpense() = %+v, want first of the ties", got)
	}
}

func TestSpendingOf(t *testing.T) {
	s := core.NewSnapshot()
	s.Append(core.Transaction{Date: core.NewDate(2024, 1, 1), Amount: decimal.NewFromInt(500), Category: "Salary", Kind: core.Income})
	s.Append(exp("40", "Groceries", "food"))
	s.Append(exp("100", "Rent", "rent"))
	s.Append(exp("10", "Other", "misc"))
	s.Append(exp("20", "Health", "pills"))
	s.Append(exp("15", "Groceries", "more food"))

	sp := SpendingOf(s)
	if len(sp.Totals) != 4 || len(sp.Top) != TopCount {
		t.Fatalf("SpendingOf() = %+v", sp)
	}
	if sp.Top[0].Name != "Rent" || sp.Top[1].Name != "Groceries" || sp.Top[2].Name != "Health" {
		t.Errorf("Top = %v", sp.Top)
	}
	if !sp.HasExpenses || sp.Biggest.Description != "rent" {
		t.Errorf("Biggest = %+v", sp.Biggest)
	}

	if empty := SpendingOf(core.NewSnapshot()); empty.HasExpenses || len(empty.Top) != 0 {
		t.Errorf("empty spending = %+v", empty)
	}
}
