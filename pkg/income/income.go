package income

import (
	"github.com/cashplan/cashplan/pkg/budget"
	"github.com/shopspring/decimal"
)

// Frequency is how often an income source pays out.
type Frequency string

const (
	FrequencyWeekly     Frequency = "weekly"
	FrequencyBiWeekly   Frequency = "bi-weekly"
	FrequencyMonthly    Frequency = "monthly"
	FrequencyQuarterly  Frequency = "quarterly"
	FrequencySemiAnnual Frequency = "semi-annual"
	FrequencyAnnual     Frequency = "annual"
	FrequencyOneTime    Frequency = "one-time"
)

// ActualMode controls how an overall actual amount is interpreted.
type ActualMode string

const (
	// ActualModePerPaycheck treats ActualAmount as a per-instance figure.
	ActualModePerPaycheck ActualMode = ""
	// ActualModeMonthlyTotal treats ActualAmount as the whole month's total.
	ActualModeMonthlyTotal ActualMode = "monthly-total"
)

// Source is one row of expected/actual earnings. Pay dates are kept as the
// raw strings the user entered; parsing happens at projection time and a
// malformed date simply contributes nothing.
type Source struct {
	ID              int
	Name            string
	Frequency       Frequency
	ProjectedAmount decimal.Decimal
	// ActualAmount is the optional overall actual for the source. Per-date
	// actuals in PayActuals take precedence over it.
	ActualAmount decimal.NullDecimal
	ActualMode   ActualMode
	// PayDates are the explicit ISO dates this income lands within a month.
	PayDates []string
	// PayActuals is parallel to PayDates: the actual amount received on each
	// specific date, when known.
	PayActuals []decimal.NullDecimal
	// LegacyWeeks is the pre-pay-dates weekly allocation shape. Used directly
	// in pure projection when present.
	LegacyWeeks []decimal.Decimal
	Position    int
}

// WeeklyIncome is the income attributable to weeks 1-5 of a budget month.
type WeeklyIncome [budget.WeeksPerMonth]decimal.Decimal

// Total returns the sum over all five weeks.
func (w WeeklyIncome) Total() decimal.Decimal {
	total := decimal.Zero
	for _, amount := range w {
		total = total.Add(amount)
	}
	return total
}

// IsValid reports whether f is one of the supported frequencies.
func (f Frequency) IsValid() bool {
	switch f {
	case FrequencyWeekly, FrequencyBiWeekly, FrequencyMonthly, FrequencyQuarterly,
		FrequencySemiAnnual, FrequencyAnnual, FrequencyOneTime:
		return true
	}
	return false
}

// MaxPayDates is the number of explicit pay dates a source may carry within
// one month, bounded by its frequency.
func (f Frequency) MaxPayDates() int {
	switch f {
	case FrequencyWeekly:
		return 5
	case FrequencyBiWeekly:
		return 3
	default:
		return 1
	}
}

// MonthlyEquivalent converts a per-pay-period amount into a monthly total
// for the frequency. One-time income has no recurring monthly equivalent.
func (f Frequency) MonthlyEquivalent(perPeriod decimal.Decimal) decimal.Decimal {
	switch f {
	case FrequencyWeekly:
		return perPeriod.Mul(decimal.NewFromInt(52)).Div(decimal.NewFromInt(12))
	case FrequencyBiWeekly:
		return perPeriod.Mul(decimal.NewFromInt(26)).Div(decimal.NewFromInt(12))
	case FrequencyMonthly:
		return perPeriod
	case FrequencyQuarterly:
		return perPeriod.Div(decimal.NewFromInt(3))
	case FrequencySemiAnnual:
		return perPeriod.Div(decimal.NewFromInt(6))
	case FrequencyAnnual:
		return perPeriod.Div(decimal.NewFromInt(12))
	case FrequencyOneTime:
		return decimal.Zero
	default:
		return perPeriod
	}
}

func (s Source) overallActual() (decimal.Decimal, bool) {
	if s.ActualAmount.Valid && s.ActualAmount.Decimal.IsPositive() {
		return s.ActualAmount.Decimal, true
	}
	return decimal.Zero, false
}

func (s Source) hasPerDateActuals() bool {
	for _, a := range s.PayActuals {
		if a.Valid {
			return true
		}
	}
	return false
}
