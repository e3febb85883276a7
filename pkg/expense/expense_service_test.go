package expense

import (
	"context"
	"testing"

	"github.com/cashplan/cashplan/internal/event_bus"
	"github.com/cashplan/cashplan/pkg/profile"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var ctx = profile.WithProfile(context.Background(), profile.Profile{Id: 1})

var expenseRepoStub = NewStubExpenseRepo()

var eventBus *event_bus.EventBus

var service Service

func setup(t *testing.T) func() {
	eventBus = event_bus.NewEventBus()
	service = NewExpenseService(expenseRepoStub, eventBus)
	return func() {
		t.Log("Teardown after test")
		expenseRepoStub.Cleanup()
	}
}

func TestServiceImpl_CreateCategory(t *testing.T) {
	t.Run("should create a category with the next position", func(t *testing.T) {
		teardown := setup(t)
		defer teardown()

		// given
		_, err := service.CreateCategory(ctx, Category{Key: "housing", Name: "Housing", Kind: KindMonthly})
		require.NoError(t, err)

		// when
		created, err := service.CreateCategory(ctx, Category{Key: "utilities", Name: "Utilities", Kind: KindMonthly})

		// then
		assert.NoError(t, err)
		assert.NotZero(t, created.Id)
		assert.Equal(t, 200, created.Position)
	})

	t.Run("should reject an unknown collection kind", func(t *testing.T) {
		teardown := setup(t)
		defer teardown()

		// when
		_, err := service.CreateCategory(ctx, Category{Key: "housing", Name: "Housing", Kind: "weekly"})

		// then
		assert.ErrorIs(t, err, ErrInvalidKind)
	})

	t.Run("should return error when context has no profile", func(t *testing.T) {
		teardown := setup(t)
		defer teardown()

		// when
		_, err := service.CreateCategory(context.Background(), Category{Key: "housing", Name: "Housing", Kind: KindMonthly})

		// then
		assert.Error(t, err)
		assert.Contains(t, err.Error(), "failed to get current profile")
	})
}

func TestServiceImpl_AddExpense(t *testing.T) {
	t.Run("should default the realized amount and transfer status", func(t *testing.T) {
		teardown := setup(t)
		defer teardown()

		// given
		category, err := service.CreateCategory(ctx, Category{Key: "housing", Name: "Housing", Kind: KindMonthly})
		require.NoError(t, err)

		// when
		created, err := service.AddExpense(ctx, category.Id, Expense{Name: "Rent", Projected: dec(1500)})

		// then
		assert.NoError(t, err)
		assert.NotEmpty(t, created.Id)
		assert.True(t, created.Actual.Valid)
		assert.True(t, created.Actual.Decimal.IsZero())
		assert.Equal(t, TransferNone, created.TransferStatus)
		assert.Equal(t, 100, created.Position)
	})

	t.Run("should keep a provided realized amount", func(t *testing.T) {
		teardown := setup(t)
		defer teardown()

		// given
		category, err := service.CreateCategory(ctx, Category{Key: "housing", Name: "Housing", Kind: KindMonthly})
		require.NoError(t, err)

		// when
		created, err := service.AddExpense(ctx, category.Id, Expense{Name: "Rent", Projected: dec(1500), Actual: nullDec(1450)})

		// then
		assert.NoError(t, err)
		assert.True(t, created.Actual.Decimal.Equal(dec(1450)))
	})

	t.Run("should reject an unknown transfer status", func(t *testing.T) {
		teardown := setup(t)
		defer teardown()

		// given
		category, err := service.CreateCategory(ctx, Category{Key: "housing", Name: "Housing", Kind: KindMonthly})
		require.NoError(t, err)

		// when
		_, err = service.AddExpense(ctx, category.Id, Expense{Name: "Rent", TransferStatus: "double"})

		// then
		assert.ErrorIs(t, err, ErrInvalidTransferStatus)
	})

	t.Run("should return error when the category does not exist", func(t *testing.T) {
		teardown := setup(t)
		defer teardown()

		// when
		_, err := service.AddExpense(ctx, 999, Expense{Name: "Rent"})

		// then
		assert.ErrorIs(t, err, ErrCategoryNotFound)
	})

	t.Run("should publish a change event with the monthly equivalent amount", func(t *testing.T) {
		teardown := setup(t)
		defer teardown()

		// given
		category, err := service.CreateCategory(ctx, Category{Key: "insurance", Name: "Insurance", Kind: KindAnnual})
		require.NoError(t, err)

		var received []event_bus.ExpenseChanged
		unsubscribe := event_bus.SubscribeTyped[event_bus.ExpenseChanged](eventBus, "expense.changed",
			func(e event_bus.EventT[event_bus.ExpenseChanged]) error {
				received = append(received, e.Data)
				return nil
			})
		defer unsubscribe()

		// when
		_, err = service.AddExpense(ctx, category.Id, Expense{Name: "Car insurance", Projected: dec(600), Actual: nullDec(600)})

		// then
		assert.NoError(t, err)
		require.Len(t, received, 1)
		assert.Equal(t, "Car insurance", received[0].Name)
		assert.Equal(t, "insurance", received[0].CategoryKey)
		assert.True(t, received[0].IsAnnual)
		assert.True(t, received[0].MonthlyAmount.Equal(dec(50)))
	})
}

func TestServiceImpl_DeleteExpense(t *testing.T) {
	t.Run("should delete an expense and publish a removal event", func(t *testing.T) {
		teardown := setup(t)
		defer teardown()

		// given
		category, err := service.CreateCategory(ctx, Category{Key: "housing", Name: "Housing", Kind: KindMonthly})
		require.NoError(t, err)
		created, err := service.AddExpense(ctx, category.Id, Expense{Name: "Rent", Projected: dec(1500)})
		require.NoError(t, err)

		var received []event_bus.ExpenseRemoved
		unsubscribe := event_bus.SubscribeTyped[event_bus.ExpenseRemoved](eventBus, "expense.removed",
			func(e event_bus.EventT[event_bus.ExpenseRemoved]) error {
				received = append(received, e.Data)
				return nil
			})
		defer unsubscribe()

		// when
		deleted, err := service.DeleteExpense(ctx, created.Id)

		// then
		assert.NoError(t, err)
		assert.True(t, deleted)
		require.Len(t, received, 1)
		assert.Equal(t, "Rent", received[0].Name)
		assert.Equal(t, "housing", received[0].CategoryKey)
	})

	t.Run("should report false for an unknown expense", func(t *testing.T) {
		teardown := setup(t)
		defer teardown()

		// when
		deleted, err := service.DeleteExpense(ctx, "missing")

		// then
		assert.NoError(t, err)
		assert.False(t, deleted)
	})
}

func TestServiceImpl_NormalizedExpenses(t *testing.T) {
	t.Run("should combine monthly and amortized annual expenses", func(t *testing.T) {
		teardown := setup(t)
		defer teardown()

		// given
		monthly, err := service.CreateCategory(ctx, Category{Key: "housing", Name: "Housing", Kind: KindMonthly})
		require.NoError(t, err)
		annual, err := service.CreateCategory(ctx, Category{Key: "insurance", Name: "Insurance", Kind: KindAnnual})
		require.NoError(t, err)
		_, err = service.AddExpense(ctx, monthly.Id, Expense{Name: "Rent", Projected: dec(1500), Actual: nullDec(1500)})
		require.NoError(t, err)
		_, err = service.AddExpense(ctx, annual.Id, Expense{Name: "Car insurance", Projected: dec(1200), Actual: nullDec(1200)})
		require.NoError(t, err)

		// when
		normalized, err := service.NormalizedExpenses(ctx)

		// then
		assert.NoError(t, err)
		require.Len(t, normalized, 2)
		assert.Equal(t, "Rent", normalized[0].Name)
		assert.True(t, normalized[0].MonthlyAmount.Equal(dec(1500)))
		assert.Equal(t, "Car insurance", normalized[1].Name)
		assert.True(t, normalized[1].MonthlyAmount.Equal(dec(100)))
		assert.True(t, normalized[1].IsAnnual)
	})
}
