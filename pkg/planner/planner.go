package planner

import (
	"github.com/cashplan/cashplan/pkg/budget"
	"github.com/shopspring/decimal"
)

// Entry is the per-expense weekly allocation record. The arrays always hold
// one slot per week of the budget month; a missing database row for a week
// leaves its slot at the zero value.
type Entry struct {
	Weeks       [budget.WeeksPerMonth]decimal.Decimal
	Paid        [budget.WeeksPerMonth]bool
	Transferred [budget.WeeksPerMonth]bool
}

// Total returns the sum of all weekly allocations of the entry.
func (e Entry) Total() decimal.Decimal {
	total := decimal.Zero
	for _, amount := range e.Weeks {
		total = total.Add(amount)
	}
	return total
}

// State maps expense names to their planner entries. Entries are keyed by
// name so that a monthly expense and an amortized annual expense sharing a
// label merge into one allocation row.
type State map[string]Entry

// Entry returns the stored entry for the given name, or a zero-valued entry
// when none exists. The caller always receives a well-formed record.
func (s State) Entry(name string) Entry {
	return s[name]
}

// reservedKeys are names that older persisted documents stored next to the
// planner entries and that must never be counted as expense allocations.
var reservedKeys = map[string]struct{}{
	"weeklyIncome": {},
	"budgetMonth":  {},
	"lastUpdated":  {},
}

func isReservedKey(name string) bool {
	_, ok := reservedKeys[name]
	return ok
}
