package planner

import (
	"context"
	"fmt"

	"github.com/cashplan/cashplan/internal/event_bus"
	"github.com/cashplan/cashplan/pkg/budget"
	"github.com/cashplan/cashplan/pkg/expense"
	"github.com/cashplan/cashplan/pkg/income"
	"github.com/cashplan/cashplan/pkg/profile"
	"github.com/shopspring/decimal"
	log "github.com/sirupsen/logrus"
)

type Service interface {
	GetEntry(ctx context.Context, name string) (Entry, error)
	SetWeekAmount(ctx context.Context, name string, week int, amount decimal.Decimal) (Entry, error)
	SetStatus(ctx context.Context, name string, week int, kind StatusKind, value bool) (Entry, error)
	// AutoPopulate creates entries for all plannable expenses that lack one
	// and returns the names of the created entries.
	AutoPopulate(ctx context.Context) ([]string, error)
	Grid(ctx context.Context) (Grid, error)
}

// ExpenseReader is the slice of the expense service the planner needs.
type ExpenseReader interface {
	NormalizedExpenses(ctx context.Context) ([]expense.Normalized, error)
}

// IncomeReader is the slice of the income service the planner needs.
type IncomeReader interface {
	WeeklyProjection(ctx context.Context) (budget.Month, income.WeeklyIncome, error)
}

// GridRow is one expense line of the planner view.
type GridRow struct {
	Name          string
	CategoryKey   string
	CategoryName  string
	MonthlyAmount decimal.Decimal
	IsAnnual      bool
	Entry         Entry
	Remaining     decimal.Decimal
}

// Grid is the full planner view: the income projection, every expense row
// with its allocations, and the derived totals.
type Grid struct {
	Month         budget.Month
	Income        income.WeeklyIncome
	ExpenseTotals [budget.WeeksPerMonth]decimal.Decimal
	CashFlow      CashFlow
	Rows          []GridRow
}

type ServiceImpl struct {
	repo     Repo
	expenses ExpenseReader
	incomes  IncomeReader
}

func NewPlannerService(repo Repo, expenses ExpenseReader, incomes IncomeReader, eventBus *event_bus.EventBus) Service {
	service := &ServiceImpl{repo: repo, expenses: expenses, incomes: incomes}
	if eventBus != nil {
		event_bus.SubscribeTyped[event_bus.ExpenseChanged](
			eventBus,
			"expense.changed",
			func(e event_bus.EventT[event_bus.ExpenseChanged]) error {
				log.Debugf("received expense changed event: %v", e)
				if err := service.handleExpenseChanged(e.Context(), e.Data); err != nil {
					log.Errorf("failed to handle expense change: %v", err)
					return err
				}
				return nil
			},
		)
	}
	return service
}

func (s *ServiceImpl) GetEntry(ctx context.Context, name string) (Entry, error) {
	profileId, err := profile.CurrentId(ctx)
	if err != nil {
		return Entry{}, fmt.Errorf("failed to get current profile: %w", err)
	}
	entry, _, err := s.repo.GetEntry(ctx, profileId, name)
	if err != nil {
		return Entry{}, err
	}
	return entry, nil
}

func (s *ServiceImpl) SetWeekAmount(ctx context.Context, name string, week int, amount decimal.Decimal) (Entry, error) {
	profileId, err := profile.CurrentId(ctx)
	if err != nil {
		return Entry{}, fmt.Errorf("failed to get current profile: %w", err)
	}
	entry, _, err := s.repo.GetEntry(ctx, profileId, name)
	if err != nil {
		return Entry{}, err
	}

	reconciler := NewReconciler(State{name: entry})
	if err := reconciler.SetWeekAmount(name, week, amount); err != nil {
		return Entry{}, err
	}

	entry = reconciler.Entry(name)
	if err := s.repo.SaveEntry(ctx, profileId, name, entry); err != nil {
		return Entry{}, err
	}
	return entry, nil
}

func (s *ServiceImpl) SetStatus(ctx context.Context, name string, week int, kind StatusKind, value bool) (Entry, error) {
	profileId, err := profile.CurrentId(ctx)
	if err != nil {
		return Entry{}, fmt.Errorf("failed to get current profile: %w", err)
	}
	entry, _, err := s.repo.GetEntry(ctx, profileId, name)
	if err != nil {
		return Entry{}, err
	}

	reconciler := NewReconciler(State{name: entry})
	if err := reconciler.SetStatus(name, week, kind, value); err != nil {
		return Entry{}, err
	}

	entry = reconciler.Entry(name)
	if err := s.repo.SaveEntry(ctx, profileId, name, entry); err != nil {
		return Entry{}, err
	}
	return entry, nil
}

func (s *ServiceImpl) AutoPopulate(ctx context.Context) ([]string, error) {
	profileId, err := profile.CurrentId(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to get current profile: %w", err)
	}
	state, err := s.repo.GetState(ctx, profileId)
	if err != nil {
		return nil, err
	}
	normalized, err := s.expenses.NormalizedExpenses(ctx)
	if err != nil {
		return nil, err
	}

	reconciler := NewReconciler(state)
	created := reconciler.AutoPopulate(normalized)
	for _, name := range created {
		if err := s.repo.SaveEntry(ctx, profileId, name, reconciler.Entry(name)); err != nil {
			return nil, err
		}
	}
	return created, nil
}

func (s *ServiceImpl) Grid(ctx context.Context) (Grid, error) {
	profileId, err := profile.CurrentId(ctx)
	if err != nil {
		return Grid{}, fmt.Errorf("failed to get current profile: %w", err)
	}
	state, err := s.repo.GetState(ctx, profileId)
	if err != nil {
		return Grid{}, err
	}
	normalized, err := s.expenses.NormalizedExpenses(ctx)
	if err != nil {
		return Grid{}, err
	}
	month, weeklyIncome, err := s.incomes.WeeklyProjection(ctx)
	if err != nil {
		return Grid{}, err
	}

	reconciler := NewReconciler(state)
	grid := Grid{
		Month:         month,
		Income:        weeklyIncome,
		ExpenseTotals: reconciler.WeeklyExpenseTotals(),
		CashFlow:      reconciler.CashFlow(weeklyIncome),
		Rows:          make([]GridRow, 0, len(normalized)),
	}
	for _, e := range normalized {
		grid.Rows = append(grid.Rows, GridRow{
			Name:          e.Name,
			CategoryKey:   e.CategoryKey,
			CategoryName:  e.CategoryName,
			MonthlyAmount: e.MonthlyAmount,
			IsAnnual:      e.IsAnnual,
			Entry:         reconciler.Entry(e.Name),
			Remaining:     reconciler.RemainingBalance(e.MonthlyAmount, e.Name),
		})
	}
	return grid, nil
}

// handleExpenseChanged auto-populates a single freshly observed expense.
// Entries that already exist are left untouched so user edits survive
// expense updates.
func (s *ServiceImpl) handleExpenseChanged(ctx context.Context, event event_bus.ExpenseChanged) error {
	profileId, err := profile.CurrentId(ctx)
	if err != nil {
		return fmt.Errorf("failed to get current profile: %w", err)
	}
	if !event.MonthlyAmount.IsPositive() || isReservedKey(event.Name) {
		return nil
	}
	_, found, err := s.repo.GetEntry(ctx, profileId, event.Name)
	if err != nil {
		return err
	}
	if found {
		return nil
	}

	entry := populateEntry(expense.Normalized{
		Name:          event.Name,
		MonthlyAmount: event.MonthlyAmount,
		DueDate:       event.DueDate,
	})
	return s.repo.SaveEntry(ctx, profileId, event.Name, entry)
}
