package planner

import (
	"context"
	"testing"

	"github.com/cashplan/cashplan/internal/event_bus"
	"github.com/cashplan/cashplan/pkg/budget"
	"github.com/cashplan/cashplan/pkg/expense"
	"github.com/cashplan/cashplan/pkg/income"
	"github.com/cashplan/cashplan/pkg/profile"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var ctx = profile.WithProfile(context.Background(), profile.Profile{Id: 1})

var plannerRepoStub = NewStubPlannerRepo()

var eventBus *event_bus.EventBus

var service Service

type stubExpenseReader struct {
	expenses []expense.Normalized
}

func (s *stubExpenseReader) NormalizedExpenses(ctx context.Context) ([]expense.Normalized, error) {
	return s.expenses, nil
}

type stubIncomeReader struct {
	month  budget.Month
	weekly income.WeeklyIncome
}

func (s *stubIncomeReader) WeeklyProjection(ctx context.Context) (budget.Month, income.WeeklyIncome, error) {
	return s.month, s.weekly, nil
}

var expenseReader *stubExpenseReader

var incomeReader *stubIncomeReader

func setup(t *testing.T) func() {
	eventBus = event_bus.NewEventBus()
	expenseReader = &stubExpenseReader{}
	incomeReader = &stubIncomeReader{month: budget.Month{Year: 2025, Month: 6}}
	service = NewPlannerService(plannerRepoStub, expenseReader, incomeReader, eventBus)
	return func() {
		t.Log("Teardown after test")
		plannerRepoStub.Cleanup()
	}
}

func TestServiceImpl_SetWeekAmount(t *testing.T) {
	t.Run("should persist a weekly allocation", func(t *testing.T) {
		teardown := setup(t)
		defer teardown()

		// when
		entry, err := service.SetWeekAmount(ctx, "Rent", 2, dec(300))

		// then
		assert.NoError(t, err)
		assert.True(t, entry.Weeks[2].Equal(dec(300)))

		stored, found, err := plannerRepoStub.GetEntry(ctx, 1, "Rent")
		require.NoError(t, err)
		assert.True(t, found)
		assert.True(t, stored.Weeks[2].Equal(dec(300)))
	})

	t.Run("should reject an out of range week index", func(t *testing.T) {
		teardown := setup(t)
		defer teardown()

		// when
		_, err := service.SetWeekAmount(ctx, "Rent", 5, dec(300))

		// then
		assert.ErrorIs(t, err, ErrInvalidWeekIndex)
	})

	t.Run("should return error when context has no profile", func(t *testing.T) {
		teardown := setup(t)
		defer teardown()

		// when
		_, err := service.SetWeekAmount(context.Background(), "Rent", 0, dec(300))

		// then
		assert.Error(t, err)
		assert.Contains(t, err.Error(), "failed to get current profile")
	})
}

func TestServiceImpl_SetStatus(t *testing.T) {
	t.Run("should persist a paid flag without touching transferred", func(t *testing.T) {
		teardown := setup(t)
		defer teardown()

		// when
		entry, err := service.SetStatus(ctx, "Rent", 1, StatusPaid, true)

		// then
		assert.NoError(t, err)
		assert.True(t, entry.Paid[1])
		assert.False(t, entry.Transferred[1])
	})
}

func TestServiceImpl_AutoPopulate(t *testing.T) {
	t.Run("should create entries for plannable expenses only once", func(t *testing.T) {
		teardown := setup(t)
		defer teardown()

		// given
		expenseReader.expenses = []expense.Normalized{
			{Name: "Rent", MonthlyAmount: dec(1500), DueDate: "2025-06-01"},
			{Name: "Placeholder", MonthlyAmount: decimal.Zero},
		}

		// when
		created, err := service.AutoPopulate(ctx)

		// then
		assert.NoError(t, err)
		assert.Equal(t, []string{"Rent"}, created)

		stored, found, err := plannerRepoStub.GetEntry(ctx, 1, "Rent")
		require.NoError(t, err)
		assert.True(t, found)
		assert.True(t, stored.Weeks[0].Equal(dec(1500)))

		// when populated again
		created, err = service.AutoPopulate(ctx)

		// then nothing new is created
		assert.NoError(t, err)
		assert.Empty(t, created)
	})
}

func TestServiceImpl_Grid(t *testing.T) {
	t.Run("should combine income, allocations and derived totals", func(t *testing.T) {
		teardown := setup(t)
		defer teardown()

		// given
		expenseReader.expenses = []expense.Normalized{
			{Name: "Rent", CategoryKey: "housing", CategoryName: "Housing", MonthlyAmount: dec(1500)},
			{Name: "Groceries", CategoryKey: "food", CategoryName: "Food", MonthlyAmount: dec(500)},
		}
		incomeReader.weekly = income.WeeklyIncome{dec(2000), decimal.Zero, dec(2000), decimal.Zero, decimal.Zero}
		_, err := service.SetWeekAmount(ctx, "Rent", 0, dec(1500))
		require.NoError(t, err)

		// when
		grid, err := service.Grid(ctx)

		// then
		assert.NoError(t, err)
		assert.Equal(t, "2025-06", grid.Month.String())
		require.Len(t, grid.Rows, 2)

		rent := grid.Rows[0]
		assert.Equal(t, "Rent", rent.Name)
		assert.True(t, rent.Entry.Weeks[0].Equal(dec(1500)))
		assert.True(t, rent.Remaining.IsZero())

		groceries := grid.Rows[1]
		assert.True(t, groceries.Remaining.Equal(dec(500)))

		assert.True(t, grid.ExpenseTotals[0].Equal(dec(1500)))
		assert.True(t, grid.CashFlow.Weekly[0].Equal(dec(500)))
		assert.True(t, grid.CashFlow.Monthly.Equal(dec(2500)))
	})
}

func TestServiceImpl_ExpenseChangedEvent(t *testing.T) {
	t.Run("should auto populate a freshly observed expense", func(t *testing.T) {
		teardown := setup(t)
		defer teardown()

		// when
		err := eventBus.Publish(event_bus.NewEvent(ctx, "expense.changed", event_bus.ExpenseChanged{
			Name:          "Rent",
			CategoryKey:   "housing",
			MonthlyAmount: dec(1500),
			DueDate:       "2025-06-16",
		}))

		// then
		assert.NoError(t, err)
		stored, found, err := plannerRepoStub.GetEntry(ctx, 1, "Rent")
		require.NoError(t, err)
		assert.True(t, found)
		assert.True(t, stored.Weeks[2].Equal(dec(1500)))
	})

	t.Run("should not overwrite an existing entry", func(t *testing.T) {
		teardown := setup(t)
		defer teardown()

		// given
		_, err := service.SetWeekAmount(ctx, "Rent", 0, dec(750))
		require.NoError(t, err)

		// when
		err = eventBus.Publish(event_bus.NewEvent(ctx, "expense.changed", event_bus.ExpenseChanged{
			Name:          "Rent",
			MonthlyAmount: dec(1500),
			DueDate:       "2025-06-16",
		}))

		// then
		assert.NoError(t, err)
		stored, _, err := plannerRepoStub.GetEntry(ctx, 1, "Rent")
		require.NoError(t, err)
		assert.True(t, stored.Weeks[0].Equal(dec(750)))
		assert.True(t, stored.Weeks[2].IsZero())
	})
}
