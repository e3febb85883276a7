package event_bus

import "github.com/shopspring/decimal"

// ExpenseChanged is published whenever an expense is created or its amounts
// change. The weekly planner listens so new plannable expenses get an
// allocation without the user visiting the planner page first.
type ExpenseChanged struct {
	Name          string
	CategoryKey   string
	CategoryName  string
	MonthlyAmount decimal.Decimal
	IsAnnual      bool
	DueDate       string
}

// ExpenseRemoved is published when an expense is deleted. Planner entries are
// deliberately not garbage-collected on this event; listeners only use it for
// reporting.
type ExpenseRemoved struct {
	Name        string
	CategoryKey string
}
