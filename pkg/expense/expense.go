package expense

import (
	"github.com/shopspring/decimal"
)

// Kind says which top-level collection a category belongs to.
type Kind string

const (
	KindMonthly Kind = "monthly"
	KindAnnual  Kind = "annual"
)

// TransferStatus is the fraction of an expense's projected amount considered
// "required to hold" in an account. It only feeds status-summary reporting,
// never the weekly planner.
type TransferStatus string

const (
	TransferNone    TransferStatus = "none"
	TransferQuarter TransferStatus = "quarter"
	TransferHalf    TransferStatus = "half"
	TransferFull    TransferStatus = "full"
	TransferActual  TransferStatus = "actual"
)

// Expense is one category member, monthly or annual.
type Expense struct {
	Id        string
	Name      string
	Projected decimal.Decimal
	// Actual is the realized amount. When unset, the legacy Amount alias
	// governs derived figures.
	Actual decimal.NullDecimal
	// Amount is the backward-compatible alias for Actual kept from older
	// documents.
	Amount decimal.NullDecimal
	// DueDate is the raw optional ISO due date; parsed fail-soft where needed.
	DueDate        string
	AccountId      int // 0 means no linked account
	Paid           bool
	Transferred    bool
	TransferStatus TransferStatus
	Position       int
}

// Category groups expenses under a key within one of the two collections.
type Category struct {
	Id       int
	Key      string
	Name     string
	Kind     Kind
	Position int
	Expenses []Expense
}

func (k Kind) IsValid() bool {
	return k == KindMonthly || k == KindAnnual
}

func (ts TransferStatus) IsValid() bool {
	switch ts {
	case TransferNone, TransferQuarter, TransferHalf, TransferFull, TransferActual:
		return true
	}
	return false
}

// RequiredToHold returns the amount that should be sitting in an account for
// the expense given its transfer status.
func (ts TransferStatus) RequiredToHold(projected, actual decimal.Decimal) decimal.Decimal {
	switch ts {
	case TransferQuarter:
		return projected.Div(decimal.NewFromInt(4))
	case TransferHalf:
		return projected.Div(decimal.NewFromInt(2))
	case TransferFull:
		return projected
	case TransferActual:
		return actual
	default:
		return decimal.Zero
	}
}

// BaseAmount resolves the realized figure: actual when set, the legacy
// amount alias otherwise, zero when neither exists.
func (e Expense) BaseAmount() decimal.Decimal {
	if e.Actual.Valid {
		return e.Actual.Decimal
	}
	if e.Amount.Valid {
		return e.Amount.Decimal
	}
	return decimal.Zero
}
