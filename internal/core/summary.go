package core

import "github.com/shopspring/decimal"

// CategoryAmount represents an amount aggregated by category name.
type CategoryAmount struct {
	Name   string
	Amount decimal.Decimal
}

// BudgetLine is the budget view of one category.
type BudgetLine struct {
	Category  string
	Budget    decimal.Decimal
	Spent     decimal.Decimal
	Remaining decimal.Decimal
}
