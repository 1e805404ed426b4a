package reconcile

import (
	"github.com/shopspring/decimal"
	"gopkg.in/yaml.v3"

	"finledger/internal/core"
)

// Amount renders as a plain number with two decimals in every encoding.
type Amount struct {
	decimal.Decimal
}

func (a Amount) String() string {
	return a.StringFixed(2)
}

func (a Amount) MarshalJSON() ([]byte, error) {
	return []byte(a.String()), nil
}

func (a Amount) MarshalYAML() (any, error) {
	return &yaml.Node{Kind: yaml.ScalarNode, Value: a.String()}, nil
}

type IncomeRow struct {
	Date        string `json:"date" yaml:"date"`
	Amount      Amount `json:"amount" yaml:"amount"`
	Description string `json:"description" yaml:"description"`
}

type ExpenseRow struct {
	Date        string `json:"date" yaml:"date"`
	Amount      Amount `json:"amount" yaml:"amount"`
	Category    string `json:"category" yaml:"category"`
	Description string `json:"description" yaml:"description"`
}

type BudgetRow struct {
	Category  string `json:"category" yaml:"category"`
	Budgeted  Amount `json:"budgeted_amount" yaml:"budgeted_amount"`
	Spent     Amount `json:"spent" yaml:"spent"`
	Remaining Amount `json:"remaining" yaml:"remaining"`
}

type IncomeSection struct {
	Transactions []IncomeRow `json:"transactions" yaml:"transactions"`
	TotalIncome  Amount      `json:"total_income" yaml:"total_income"`
}

type ExpenseSection struct {
	Breakdown    []ExpenseRow `json:"breakdown" yaml:"breakdown"`
	TotalExpense Amount       `json:"total_expense" yaml:"total_expense"`
	NetSavings   Amount       `json:"net_savings" yaml:"net_savings"`
}

type BudgetSection struct {
	Transactions   []BudgetRow `json:"transactions" yaml:"transactions"`
	TotalBudget    Amount      `json:"total_budget" yaml:"total_budget"`
	PlannedSavings Amount      `json:"planned_savings" yaml:"planned_savings"`
}

// Summary is the financial report of one snapshot.
type Summary struct {
	Income  IncomeSection  `json:"income" yaml:"income"`
	Expense ExpenseSection `json:"expense" yaml:"expense"`
	Budgets BudgetSection  `json:"budgets" yaml:"budgets"`
}

// Summarize computes the report from s. Net savings is income minus
// expenses; planned savings is income minus the total budget.
func Summarize(s core.Snapshot) Summary {
	totalIncome := s.TotalIncome()
	totalExpense := s.TotalExpense()
	totalBudget := s.TotalBudget()

	sum := Summary{
		Income: IncomeSection{
			Transactions: make([]IncomeRow, 0, len(s.Income)),
			TotalIncome:  Amount{totalIncome},
		},
		Expense: ExpenseSection{
			Breakdown:    make([]ExpenseRow, 0, len(s.Expense)),
			TotalExpense: Amount{totalExpense},
			NetSavings:   Amount{totalIncome.Sub(totalExpense)},
		},
		Budgets: BudgetSection{
			Transactions:   []BudgetRow{},
			TotalBudget:    Amount{totalBudget},
			PlannedSavings: Amount{totalIncome.Sub(totalBudget)},
		},
	}
	for _, t := range s.Income {
		sum.Income.Transactions = append(sum.Income.Transactions, IncomeRow{
			Date:        t.Date.String(),
			Amount:      Amount{t.Amount},
			Description: t.Description,
		})
	}
	for _, t := range s.Expense {
		sum.Expense.Breakdown = append(sum.Expense.Breakdown, ExpenseRow{
			Date:        t.Date.String(),
			Amount:      Amount{t.Amount},
			Category:    t.Category,
			Description: t.Description,
		})
	}
	for _, line := range s.BudgetLines() {
		sum.Budgets.Transactions = append(sum.Budgets.Transactions, BudgetRow{
			Category:  line.Category,
			Budgeted:  Amount{line.Budget},
			Spent:     Amount{line.Spent},
			Remaining: Amount{line.Remaining},
		})
	}
	return sum
}
