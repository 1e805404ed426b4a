package core

import (
	"errors"
	"testing"

	"github.com/shopspring/decimal"
)

func tx(kind Kind, amount, category, desc string, day int) Transaction {
	return Transaction{
		Date:        NewDate(2024, 1, day),
		Amount:      decimal.RequireFromString(amount),
		Category:    category,
		Description: desc,
		Kind:        kind,
	}
}

func sampleSnapshot() Snapshot {
	s := NewSnapshot()
	s.Append(tx(Income, "1000", SalaryCategory, "january pay", 1))
	s.Append(tx(Income, "200", SalaryCategory, "bonus", 2))
	s.Append(tx(Expense, "50", "Groceries", "food", 3))
	s.Append(tx(Expense, "120", "Rent", "rent", 4))
	s.Append(tx(Expense, "30", "Groceries", "supermarket", 5))
	s.Budgets["Groceries"] = decimal.NewFromInt(100)
	s.Budgets["Custom"] = decimal.NewFromInt(10)
	s.Budgets["Rent"] = decimal.NewFromInt(500)
	return s
}

func TestSnapshotTotals(t *testing.T) {
	s := sampleSnapshot()
	checks := []struct {
		name string
		got  decimal.Decimal
		want string
	}{
		{"income", s.TotalIncome(), "1200"},
		{"expense", s.TotalExpense(), "200"},
		{"balance", s.Balance(), "1000"},
		{"spent groceries", s.Spent("Groceries"), "80"},
		{"spent health", s.Spent("Health"), "0"},
		{"total budget", s.TotalBudget(), "610"},
	}
	for _, c := range checks {
		if !c.got.Equal(decimal.RequireFromString(c.want)) {
			t.Errorf("%s = %s, want %s", c.name, c.got, c.want)
		}
	}
}

func TestSnapshotAllAndLocate(t *testing.T) {
	s := sampleSnapshot()
	all := s.All()
	if len(all) != 5 || all[0].Description != "january pay" || all[2].Description != "food" {
		t.Fatalf("unexpected combined view %+v", all)
	}

	kind, pos, err := s.Locate(3)
	if err != nil || kind != Expense || pos != 1 {
		t.Fatalf("Locate(3) = %s %d %v", kind, pos, err)
	}
	for _, bad := range []int{-1, 5, 99} {
		if _, _, err := s.Locate(bad); !errors.Is(err, ErrIndexOutOfRange) {
			t.Fatalf("Locate(%d) expected ErrIndexOutOfRange, got %v", bad, err)
		}
	}
}

func TestSnapshotRemove(t *testing.T) {
	s := sampleSnapshot()
	removed, err := s.Remove(1)
	if err != nil || removed.Description != "bonus" {
		t.Fatalf("Remove(1) = %+v, %v", removed, err)
	}
	if len(s.Income) != 1 || s.Len() != 4 {
		t.Fatalf("unexpected sizes after removal: %d/%d", len(s.Income), s.Len())
	}
	removed, err = s.Remove(3)
	if err != nil || removed.Description != "supermarket" {
		t.Fatalf("Remove(3) = %+v, %v", removed, err)
	}
}

func TestSnapshotCloneIsDeep(t *testing.T) {
	s := sampleSnapshot()
	c := s.Clone()
	c.Income[0].Description = "changed"
	c.Budgets["Groceries"] = decimal.NewFromInt(1)
	c.Append(tx(Expense, "1", "Other", "x", 9))

	if s.Income[0].Description != "january pay" {
		t.Fatal("clone shares income storage")
	}
	if !s.Budgets["Groceries"].Equal(decimal.NewFromInt(100)) {
		t.Fatal("clone shares budget map")
	}
	if len(s.Expense) != 3 {
		t.Fatal("clone shares expense storage")
	}
}

func TestSnapshotContains(t *testing.T) {
	s := sampleSnapshot()
	if !s.Contains(tx(Expense, "50.00", "Groceries", "food", 3)) {
		t.Fatal("expected duplicate to be found")
	}
	if s.Contains(tx(Income, "50", "Groceries", "food", 3)) {
		t.Fatal("duplicates are only searched in the matching kind sequence")
	}
}

func TestSnapshotBudgetLines(t *testing.T) {
	lines := sampleSnapshot().BudgetLines()
	if len(lines) != 3 {
		t.Fatalf("expected 3 lines, got %d", len(lines))
	}
	order := []string{"Groceries", "Rent", "Custom"}
	for i, want := range order {
		if lines[i].Category != want {
			t.Fatalf("line %d = %s, want %s", i, lines[i].Category, want)
		}
	}
	if !lines[0].Spent.Equal(decimal.NewFromInt(80)) || !lines[0].Remaining.Equal(decimal.NewFromInt(20)) {
		t.Fatalf("unexpected groceries line %+v", lines[0])
	}
}

func TestSnapshotValidate(t *testing.T) {
	if err := sampleSnapshot().Validate(); err != nil {
		t.Fatalf("expected valid snapshot, got %v", err)
	}

	wrongKind := sampleSnapshot()
	wrongKind.Income[0].Kind = Expense
	if err := wrongKind.Validate(); err == nil {
		t.Fatal("expense in income sequence must fail")
	}

	badBudget := sampleSnapshot()
	badBudget.Budgets["Rent"] = decimal.Zero
	if err := badBudget.Validate(); !errors.Is(err, ErrInvalidAmount) {
		t.Fatalf("expected ErrInvalidAmount, got %v", err)
	}
}
