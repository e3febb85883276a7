package stats

import (
	"context"

	"github.com/cashplan/cashplan/pkg/account"
	"github.com/cashplan/cashplan/pkg/expense"
	"github.com/cashplan/cashplan/pkg/planner"
	"github.com/shopspring/decimal"
)

type Service interface {
	MonthlySummary(ctx context.Context) (Summary, error)
}

// ExpenseReader is the slice of the expense service the summary needs.
type ExpenseReader interface {
	GetCategories(ctx context.Context, kind expense.Kind) ([]expense.Category, error)
}

// PlannerReader supplies the reconciled grid the summary derives from.
type PlannerReader interface {
	Grid(ctx context.Context) (planner.Grid, error)
}

// AccountReader is the slice of the account service the summary needs.
type AccountReader interface {
	GetAll(ctx context.Context) ([]account.Account, error)
}

type ServiceImpl struct {
	expenses ExpenseReader
	planners PlannerReader
	accounts AccountReader
}

func NewStatsService(expenses ExpenseReader, planners PlannerReader, accounts AccountReader) *ServiceImpl {
	return &ServiceImpl{expenses: expenses, planners: planners, accounts: accounts}
}

func (s *ServiceImpl) MonthlySummary(ctx context.Context) (Summary, error) {
	grid, err := s.planners.Grid(ctx)
	if err != nil {
		return Summary{}, err
	}
	monthly, err := s.expenses.GetCategories(ctx, expense.KindMonthly)
	if err != nil {
		return Summary{}, err
	}
	annual, err := s.expenses.GetCategories(ctx, expense.KindAnnual)
	if err != nil {
		return Summary{}, err
	}
	accounts, err := s.accounts.GetAll(ctx)
	if err != nil {
		return Summary{}, err
	}

	summary := Summary{
		Month:          grid.Month,
		Monthly:        kindTotals(monthly),
		Annual:         kindTotals(annual),
		WeeklyIncome:   grid.Income,
		WeeklyExpenses: grid.ExpenseTotals,
		CashFlow:       grid.CashFlow,
	}

	requiredByAccount := map[int]decimal.Decimal{}
	for _, categories := range [][]expense.Category{monthly, annual} {
		for _, category := range categories {
			for _, e := range category.Expenses {
				required := e.TransferStatus.RequiredToHold(e.Projected, e.BaseAmount())
				if required.IsZero() {
					continue
				}
				summary.RequiredToHold = summary.RequiredToHold.Add(required)
				if e.AccountId != 0 {
					requiredByAccount[e.AccountId] = requiredByAccount[e.AccountId].Add(required)
				}
			}
		}
	}
	for _, a := range accounts {
		summary.RequiredByAccount = append(summary.RequiredByAccount, AccountHold{
			AccountId:   a.Id,
			AccountName: a.Name,
			Balance:     a.Balance,
			Required:    requiredByAccount[a.Id],
		})
	}
	return summary, nil
}

func kindTotals(categories []expense.Category) KindTotals {
	var totals KindTotals
	for _, category := range categories {
		for _, e := range category.Expenses {
			totals.Projected = totals.Projected.Add(e.Projected)
			totals.Actual = totals.Actual.Add(e.BaseAmount())
		}
	}
	return totals
}
