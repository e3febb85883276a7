package expense

import (
	"strings"

	"github.com/shopspring/decimal"
)

var twelve = decimal.NewFromInt(12)

// Normalized is the uniform weekly-plannable shape both expense collections
// flatten into: every item carries a canonical monthly-equivalent amount.
type Normalized struct {
	Name          string
	CategoryKey   string
	CategoryName  string
	MonthlyAmount decimal.Decimal
	IsAnnual      bool
	// OriginalAnnualAmount is retained for display on annual items.
	OriginalAnnualAmount decimal.NullDecimal
	DueDate              string
}

// Normalize flattens the monthly and annual collections into a single list.
// Annual amounts are amortized to a twelfth. Items with blank names are
// excluded. Order is input order within category, monthly categories before
// annual, so results are deterministic.
func Normalize(monthly, annual []Category) []Normalized {
	var out []Normalized
	for _, category := range monthly {
		for _, e := range category.Expenses {
			if strings.TrimSpace(e.Name) == "" {
				continue
			}
			out = append(out, Normalized{
				Name:          e.Name,
				CategoryKey:   category.Key,
				CategoryName:  category.Name,
				MonthlyAmount: e.BaseAmount(),
				DueDate:       e.DueDate,
			})
		}
	}
	for _, category := range annual {
		for _, e := range category.Expenses {
			if strings.TrimSpace(e.Name) == "" {
				continue
			}
			annualAmount := e.BaseAmount()
			out = append(out, Normalized{
				Name:                 e.Name,
				CategoryKey:          category.Key,
				CategoryName:         category.Name,
				MonthlyAmount:        annualAmount.Div(twelve),
				IsAnnual:             true,
				OriginalAnnualAmount: decimal.NullDecimal{Decimal: annualAmount, Valid: true},
				DueDate:              e.DueDate,
			})
		}
	}
	return out
}
