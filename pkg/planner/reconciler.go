package planner

import (
	"errors"
	"fmt"

	"github.com/cashplan/cashplan/pkg/budget"
	"github.com/cashplan/cashplan/pkg/expense"
	"github.com/cashplan/cashplan/pkg/income"
	"github.com/shopspring/decimal"
)

var ErrInvalidWeekIndex = errors.New("week index out of range")
var ErrInvalidStatusKind = errors.New("invalid status kind")

// StatusKind selects which per-week flag a status mutation targets. The two
// flags are independent; setting one never touches the other.
type StatusKind string

const (
	StatusPaid        StatusKind = "paid"
	StatusTransferred StatusKind = "transferred"
)

func (k StatusKind) IsValid() bool {
	return k == StatusPaid || k == StatusTransferred
}

// CashFlow is the income-minus-expenses view derived from a reconciled state.
type CashFlow struct {
	Weekly  [budget.WeeksPerMonth]decimal.Decimal
	Monthly decimal.Decimal
}

// Reconciler owns a planner state and rederives all totals from the full
// state on every read. All mutation goes through its setters so the stored
// allocations stay consistent with what the totals report.
type Reconciler struct {
	state State
}

func NewReconciler(state State) *Reconciler {
	if state == nil {
		state = State{}
	}
	return &Reconciler{state: state}
}

// State returns the underlying state map.
func (r *Reconciler) State() State {
	return r.state
}

// Entry returns a well-formed entry for the name, zero-valued when absent.
func (r *Reconciler) Entry(name string) Entry {
	return r.state.Entry(name)
}

// SetWeekAmount replaces a single weekly allocation slot. The week index is
// the one input the engine validates; everything else is absorbed.
func (r *Reconciler) SetWeekAmount(name string, week int, amount decimal.Decimal) error {
	if week < 0 || week >= budget.WeeksPerMonth {
		return fmt.Errorf("%w: %d", ErrInvalidWeekIndex, week)
	}
	entry := r.state.Entry(name)
	entry.Weeks[week] = amount
	r.state[name] = entry
	return nil
}

// SetStatus flips one of the two per-week flags.
func (r *Reconciler) SetStatus(name string, week int, kind StatusKind, value bool) error {
	if week < 0 || week >= budget.WeeksPerMonth {
		return fmt.Errorf("%w: %d", ErrInvalidWeekIndex, week)
	}
	if !kind.IsValid() {
		return fmt.Errorf("%w: %q", ErrInvalidStatusKind, kind)
	}
	entry := r.state.Entry(name)
	switch kind {
	case StatusPaid:
		entry.Paid[week] = value
	case StatusTransferred:
		entry.Transferred[week] = value
	}
	r.state[name] = entry
	return nil
}

// AutoPopulate creates an entry for every normalized expense with a positive
// monthly amount that has none yet. An expense with a parseable due date gets
// its full amount in the due date's week; otherwise the amount is spread
// evenly across all weeks. Existing entries are never overwritten, so calling
// this repeatedly is safe and user edits survive. It returns the names of the
// entries it created.
func (r *Reconciler) AutoPopulate(expenses []expense.Normalized) []string {
	var created []string
	for _, e := range expenses {
		if !e.MonthlyAmount.IsPositive() || isReservedKey(e.Name) {
			continue
		}
		if _, exists := r.state[e.Name]; exists {
			continue
		}
		r.state[e.Name] = populateEntry(e)
		created = append(created, e.Name)
	}
	return created
}

func populateEntry(e expense.Normalized) Entry {
	var entry Entry
	if date, ok := budget.ParseDate(e.DueDate); ok {
		entry.Weeks[budget.WeekOfDay(date.Day())] = e.MonthlyAmount
		return entry
	}
	share := e.MonthlyAmount.Div(decimal.NewFromInt(budget.WeeksPerMonth))
	for week := range entry.Weeks {
		entry.Weeks[week] = share
	}
	return entry
}

// WeeklyExpenseTotals sums the allocations of all entries per week. Reserved
// document keys are skipped so that legacy metadata rows never count as
// expenses.
func (r *Reconciler) WeeklyExpenseTotals() [budget.WeeksPerMonth]decimal.Decimal {
	var totals [budget.WeeksPerMonth]decimal.Decimal
	for name, entry := range r.state {
		if isReservedKey(name) {
			continue
		}
		for week, amount := range entry.Weeks {
			totals[week] = totals[week].Add(amount)
		}
	}
	return totals
}

// RemainingBalance reports how much of a monthly amount is not yet allocated
// to any week. An expense with no entry keeps its full monthly amount.
func (r *Reconciler) RemainingBalance(monthlyAmount decimal.Decimal, name string) decimal.Decimal {
	return monthlyAmount.Sub(r.state.Entry(name).Total())
}

// CashFlow derives income minus expense totals per week and for the month.
func (r *Reconciler) CashFlow(weeklyIncome income.WeeklyIncome) CashFlow {
	totals := r.WeeklyExpenseTotals()
	var flow CashFlow
	for week := range flow.Weekly {
		flow.Weekly[week] = weeklyIncome[week].Sub(totals[week])
		flow.Monthly = flow.Monthly.Add(flow.Weekly[week])
	}
	return flow
}
