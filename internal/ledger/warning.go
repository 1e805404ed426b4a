package ledger

import (
	"fmt"

	"github.com/shopspring/decimal"

	"finledger/internal/core"
)

// WarningCode identifies a non-fatal condition reported alongside success.
type WarningCode string

const (
	WarnFutureDate WarningCode = "future_date"
	WarnOverBudget WarningCode = "over_budget"
	WarnLowBalance WarningCode = "low_balance"
)

type Warning struct {
	Code    WarningCode
	Message string
}

func (w Warning) String() string { return w.Message }

func futureDateWarning(d core.Date) Warning {
	return Warning{
		Code:    WarnFutureDate,
		Message: fmt.Sprintf("transaction is dated in the future (%s)", d),
	}
}

func overBudgetWarning(category string, spent, budget decimal.Decimal) Warning {
	return Warning{
		Code:    WarnOverBudget,
		Message: fmt.Sprintf("budget for %s exceeded: spent %s of %s", category, spent.StringFixed(2), budget.StringFixed(2)),
	}
}

func lowBalanceWarning(balance decimal.Decimal) Warning {
	return Warning{
		Code:    WarnLowBalance,
		Message: fmt.Sprintf("balance is low: %s remaining", balance.StringFixed(2)),
	}
}

// HasWarning reports whether ws contains code.
func HasWarning(ws []Warning, code WarningCode) bool {
	for _, w := range ws {
		if w.Code == code {
			return true
		}
	}
	return false
}
