package income

import (
	"testing"
	"time"

	"github.com/cashplan/cashplan/internal/utils"
	"github.com/cashplan/cashplan/pkg/budget"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
)

var june2025 = budget.Month{Year: 2025, Month: time.June}

func dec(v float64) decimal.Decimal {
	return decimal.NewFromFloat(v)
}

func nullDec(v float64) decimal.NullDecimal {
	return decimal.NullDecimal{Decimal: decimal.NewFromFloat(v), Valid: true}
}

func assertWeekly(t *testing.T, expected [5]float64, got WeeklyIncome) {
	t.Helper()
	for i, want := range expected {
		assert.True(t, dec(want).Equal(got[i]), "week %d: want %v, got %v", i, want, got[i])
	}
}

func TestProject_PayDates(t *testing.T) {
	t.Run("should place projected amount into the week of each pay date", func(t *testing.T) {
		// given
		source := Source{
			Name:            "Salary",
			Frequency:       FrequencyBiWeekly,
			ProjectedAmount: dec(1000),
			PayDates:        []string{"2025-06-03", "2025-06-17"},
		}

		// when
		result := Project([]Source{source}, june2025)

		// then
		assertWeekly(t, [5]float64{1000, 0, 1000, 0, 0}, result)
	})

	t.Run("should prefer a per-date actual over projected and overall actual", func(t *testing.T) {
		// given
		source := Source{
			Name:            "Salary",
			Frequency:       FrequencyBiWeekly,
			ProjectedAmount: dec(1000),
			ActualAmount:    nullDec(5000),
			PayDates:        []string{"2025-06-03", "2025-06-17"},
			PayActuals:      []decimal.NullDecimal{nullDec(1050), {}},
		}

		// when
		result := Project([]Source{source}, june2025)

		// then
		assertWeekly(t, [5]float64{1050, 0, 1000, 0, 0}, result)
	})

	t.Run("should ignore dates outside the budget month", func(t *testing.T) {
		source := Source{
			Frequency:       FrequencyBiWeekly,
			ProjectedAmount: dec(1000),
			PayDates:        []string{"2025-05-27", "2025-06-10"},
		}

		result := Project([]Source{source}, june2025)

		assertWeekly(t, [5]float64{0, 1000, 0, 0, 0}, result)
	})

	t.Run("should treat a malformed date as contributing nothing", func(t *testing.T) {
		source := Source{
			Frequency:       FrequencyWeekly,
			ProjectedAmount: dec(500),
			PayDates:        []string{"garbage", "2025-06-30"},
		}

		result := Project([]Source{source}, june2025)

		assertWeekly(t, [5]float64{0, 0, 0, 0, 500}, result)
	})

	t.Run("should band day 29 and later into the tail week", func(t *testing.T) {
		source := Source{
			Frequency:       FrequencyMonthly,
			ProjectedAmount: dec(3000),
			PayDates:        []string{"2025-06-29"},
		}

		result := Project([]Source{source}, june2025)

		assertWeekly(t, [5]float64{0, 0, 0, 0, 3000}, result)
	})
}

func TestProject_MonthlyTotalActual(t *testing.T) {
	t.Run("should spread a monthly total over the pay date weeks when no per-date actuals exist", func(t *testing.T) {
		// given
		source := Source{
			Frequency:       FrequencyBiWeekly,
			ProjectedAmount: dec(1000),
			ActualAmount:    nullDec(2100),
			ActualMode:      ActualModeMonthlyTotal,
			PayDates:        []string{"2025-06-03", "2025-06-17"},
		}

		// when
		result := Project([]Source{source}, june2025)

		// then
		assertWeekly(t, [5]float64{1050, 0, 1050, 0, 0}, result)
	})

	t.Run("should keep per-date figures authoritative over the monthly total", func(t *testing.T) {
		source := Source{
			Frequency:       FrequencyBiWeekly,
			ProjectedAmount: dec(1000),
			ActualAmount:    nullDec(9999),
			ActualMode:      ActualModeMonthlyTotal,
			PayDates:        []string{"2025-06-03", "2025-06-17"},
			PayActuals:      []decimal.NullDecimal{nullDec(1100), nullDec(1200)},
		}

		result := Project([]Source{source}, june2025)

		assertWeekly(t, [5]float64{1100, 0, 1200, 0, 0}, result)
	})

	t.Run("should spread evenly over the first four weeks without pay dates", func(t *testing.T) {
		source := Source{
			Frequency:    FrequencyMonthly,
			ActualAmount: nullDec(2000),
			ActualMode:   ActualModeMonthlyTotal,
		}

		result := Project([]Source{source}, june2025)

		assertWeekly(t, [5]float64{500, 500, 500, 500, 0}, result)
	})
}

func TestProject_PerInstanceActual(t *testing.T) {
	tests := []struct {
		name      string
		frequency Frequency
		actual    float64
		want      [5]float64
	}{
		{"bi-weekly actual lands in weeks 1 and 3", FrequencyBiWeekly, 900, [5]float64{900, 0, 900, 0, 0}},
		{"weekly actual lands in the first four weeks", FrequencyWeekly, 250, [5]float64{250, 250, 250, 250, 0}},
		{"monthly actual lands in the first week", FrequencyMonthly, 3000, [5]float64{3000, 0, 0, 0, 0}},
		{"quarterly actual lands in the first week", FrequencyQuarterly, 600, [5]float64{600, 0, 0, 0, 0}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			source := Source{Frequency: tt.frequency, ProjectedAmount: dec(1), ActualAmount: nullDec(tt.actual)}
			assertWeekly(t, tt.want, Project([]Source{source}, june2025))
		})
	}
}

func TestProject_PureProjection(t *testing.T) {
	t.Run("should place a monthly projection in the first week", func(t *testing.T) {
		source := Source{Frequency: FrequencyMonthly, ProjectedAmount: dec(3000)}

		result := Project([]Source{source}, june2025)

		assertWeekly(t, [5]float64{3000, 0, 0, 0, 0}, result)
	})

	t.Run("should put the bi-weekly long-run excess into the tail week", func(t *testing.T) {
		source := Source{Frequency: FrequencyBiWeekly, ProjectedAmount: dec(1200)}

		result := Project([]Source{source}, june2025)

		// monthly equivalent is 1200*26/12 = 2600; two paychecks cover 2400
		assertWeekly(t, [5]float64{1200, 0, 1200, 0, 200}, result)
	})

	t.Run("should use the legacy weeks vector directly when present", func(t *testing.T) {
		source := Source{
			Frequency:       FrequencyMonthly,
			ProjectedAmount: dec(3000),
			LegacyWeeks:     []decimal.Decimal{dec(700), dec(800)},
		}

		result := Project([]Source{source}, june2025)

		assertWeekly(t, [5]float64{700, 800, 0, 0, 0}, result)
	})

	t.Run("should contribute nothing for one-time income", func(t *testing.T) {
		source := Source{Frequency: FrequencyOneTime, ProjectedAmount: dec(5000)}

		result := Project([]Source{source}, june2025)

		assertWeekly(t, [5]float64{0, 0, 0, 0, 0}, result)
	})
}

// The projected weekly vector must conserve the frequency-derived monthly
// total for every frequency when no explicit dates constrain it.
func TestProject_ConservesMonthlyEquivalent(t *testing.T) {
	frequencies := []Frequency{
		FrequencyWeekly, FrequencyBiWeekly, FrequencyMonthly,
		FrequencyQuarterly, FrequencySemiAnnual, FrequencyAnnual, FrequencyOneTime,
	}
	for _, frequency := range frequencies {
		t.Run(string(frequency), func(t *testing.T) {
			perPeriod := dec(1200)
			source := Source{Frequency: frequency, ProjectedAmount: perPeriod}

			result := Project([]Source{source}, june2025)

			expected := frequency.MonthlyEquivalent(perPeriod)
			diff := expected.Sub(result.Total()).Abs()
			assert.True(t, diff.LessThan(dec(0.0001)),
				"frequency %s: monthly equivalent %v, weekly sum %v", frequency, expected, result.Total())
		})
	}
}

func TestProject_SumsAcrossSources(t *testing.T) {
	sources := []Source{
		{Frequency: FrequencyMonthly, ProjectedAmount: dec(3000)},
		{Frequency: FrequencyBiWeekly, ProjectedAmount: dec(1000), PayDates: []string{"2025-06-03", "2025-06-17"}},
	}

	result := Project(sources, june2025)

	assertWeekly(t, [5]float64{4000, 0, 1000, 0, 0}, result)
}

func TestDeriveMonth(t *testing.T) {
	clock := &utils.MockClock{FixedNow: time.Date(2025, 9, 12, 10, 0, 0, 0, time.UTC)}

	t.Run("should use the first parseable pay date", func(t *testing.T) {
		sources := []Source{
			{Name: "Side gig", PayDates: []string{"bad-date", "2025-06-15"}},
			{Name: "Salary", PayDates: []string{"2025-07-01"}},
		}

		month := DeriveMonth(sources, clock)

		assert.Equal(t, budget.Month{Year: 2025, Month: time.June}, month)
	})

	t.Run("should fall back to the current month", func(t *testing.T) {
		sources := []Source{{Name: "Salary"}, {Name: "Side gig", PayDates: []string{"oops"}}}

		month := DeriveMonth(sources, clock)

		assert.Equal(t, budget.Month{Year: 2025, Month: time.September}, month)
	})
}

func TestFrequency_MaxPayDates(t *testing.T) {
	assert.Equal(t, 5, FrequencyWeekly.MaxPayDates())
	assert.Equal(t, 3, FrequencyBiWeekly.MaxPayDates())
	assert.Equal(t, 1, FrequencyMonthly.MaxPayDates())
	assert.Equal(t, 1, FrequencyOneTime.MaxPayDates())
}
