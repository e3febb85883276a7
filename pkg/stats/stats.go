package stats

import (
	"github.com/cashplan/cashplan/pkg/budget"
	"github.com/cashplan/cashplan/pkg/income"
	"github.com/cashplan/cashplan/pkg/planner"
	"github.com/shopspring/decimal"
)

// KindTotals aggregates the projected and realized amounts of one expense
// collection.
type KindTotals struct {
	Projected decimal.Decimal
	Actual    decimal.Decimal
}

// AccountHold reports how much should be sitting in one account to cover
// the transfer statuses of the expenses linked to it.
type AccountHold struct {
	AccountId   int
	AccountName string
	Balance     decimal.Decimal
	Required    decimal.Decimal
}

// Summary is the monthly status view across all collections.
type Summary struct {
	Month             budget.Month
	Monthly           KindTotals
	Annual            KindTotals
	WeeklyIncome      income.WeeklyIncome
	WeeklyExpenses    [budget.WeeksPerMonth]decimal.Decimal
	CashFlow          planner.CashFlow
	RequiredToHold    decimal.Decimal
	RequiredByAccount []AccountHold
}
