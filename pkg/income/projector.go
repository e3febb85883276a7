package income

import (
	"github.com/cashplan/cashplan/internal/utils"
	"github.com/cashplan/cashplan/pkg/budget"
	"github.com/shopspring/decimal"
)

// Project converts all income sources into the weekly income vector for the
// given budget month. It is a pure computation: malformed dates and missing
// amounts reduce a source's contribution to zero, they never fail the call.
func Project(sources []Source, month budget.Month) WeeklyIncome {
	var total WeeklyIncome
	for _, source := range sources {
		contribution := projectSource(source, month)
		for i := range total {
			total[i] = total[i].Add(contribution[i])
		}
	}
	return total
}

// DeriveMonth returns the budget month all weekly calculations anchor to:
// the month of the first parseable explicit pay date, in source order, or
// the clock's current month when no source carries one.
func DeriveMonth(sources []Source, clock utils.Clock) budget.Month {
	for _, source := range sources {
		for _, raw := range source.PayDates {
			if date, ok := budget.ParseDate(raw); ok {
				return budget.MonthOf(date)
			}
		}
	}
	return budget.MonthOf(clock.Now())
}

// projectSource resolves one source per the precedence chain:
//  1. explicit pay dates, with per-date actuals over the projected amount
//  2. a monthly-total actual, spread over the pay-date weeks or the first 4 weeks
//  3. a per-instance actual, placed by frequency pattern
//  4. pure projection: legacy weeks, or the frequency-derived monthly total
//
// A monthly-total actual with pay dates but no per-date actuals wins over the
// per-date projection; otherwise pay dates always take priority.
func projectSource(source Source, month budget.Month) WeeklyIncome {
	var out WeeklyIncome
	actual, hasActual := source.overallActual()
	monthlyTotalWins := source.ActualMode == ActualModeMonthlyTotal && hasActual && !source.hasPerDateActuals()

	if len(source.PayDates) > 0 && !monthlyTotalWins {
		for i, raw := range source.PayDates {
			date, ok := budget.ParseDate(raw)
			if !ok || !month.Contains(date) {
				continue
			}
			amount := source.ProjectedAmount
			if i < len(source.PayActuals) && source.PayActuals[i].Valid {
				amount = source.PayActuals[i].Decimal
			}
			week := budget.WeekOfDay(date.Day())
			out[week] = out[week].Add(amount)
		}
		return out
	}

	if source.ActualMode == ActualModeMonthlyTotal && hasActual {
		weeks := inMonthWeeks(source.PayDates, month)
		if len(weeks) == 0 {
			weeks = []int{0, 1, 2, 3}
		}
		share := actual.Div(decimal.NewFromInt(int64(len(weeks))))
		for _, week := range weeks {
			out[week] = out[week].Add(share)
		}
		return out
	}

	if hasActual {
		return perInstancePattern(source.Frequency, actual)
	}

	if len(source.LegacyWeeks) > 0 {
		for i := 0; i < budget.WeeksPerMonth && i < len(source.LegacyWeeks); i++ {
			out[i] = source.LegacyWeeks[i]
		}
		return out
	}

	return projectedPattern(source.Frequency, source.ProjectedAmount)
}

// inMonthWeeks returns the week slot of every parseable pay date that falls
// within the month, in input order (duplicates preserved).
func inMonthWeeks(payDates []string, month budget.Month) []int {
	var weeks []int
	for _, raw := range payDates {
		date, ok := budget.ParseDate(raw)
		if !ok || !month.Contains(date) {
			continue
		}
		weeks = append(weeks, budget.WeekOfDay(date.Day()))
	}
	return weeks
}

// perInstancePattern places a per-instance amount into the weeks the
// frequency implies when no explicit dates are known.
func perInstancePattern(frequency Frequency, amount decimal.Decimal) WeeklyIncome {
	var out WeeklyIncome
	switch frequency {
	case FrequencyWeekly:
		for week := 0; week < 4; week++ {
			out[week] = amount
		}
	case FrequencyBiWeekly:
		out[0] = amount
		out[2] = amount
	default:
		out[0] = amount
	}
	return out
}

// projectedPattern spreads the frequency-derived monthly total when a source
// has no dates, no actuals, and no legacy weeks.
func projectedPattern(frequency Frequency, perPeriod decimal.Decimal) WeeklyIncome {
	var out WeeklyIncome
	monthlyTotal := frequency.MonthlyEquivalent(perPeriod)
	switch frequency {
	case FrequencyMonthly:
		out[0] = monthlyTotal
	case FrequencyOneTime:
		// no recurring contribution
	case FrequencyBiWeekly:
		// two known paychecks, the long-run excess lands in the tail week
		out[0] = perPeriod
		out[2] = perPeriod
		out[4] = monthlyTotal.Sub(perPeriod.Mul(decimal.NewFromInt(2)))
	default:
		share := monthlyTotal.Div(decimal.NewFromInt(4))
		for week := 0; week < 4; week++ {
			out[week] = share
		}
	}
	return out
}
