package account

import "github.com/shopspring/decimal"

// Account is a named money pot expenses can be attributed to.
type Account struct {
	Id       int
	Name     string
	Balance  decimal.Decimal
	Position int
}
