package expense

import (
	"testing"

	"github.com/cashplan/cashplan/internal/test_utils"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func setupTestRepository(t *testing.T) (Repo, int) {
	db := test_utils.SetupTestDB(t)
	profileId := test_utils.SeedProfile(t, db, "test-profile", "Test Profile")
	return NewExpenseRepo(db), profileId
}

func TestRepoImpl_StoreCategory(t *testing.T) {
	// given
	repo, profileId := setupTestRepository(t)

	// when
	id, err := repo.StoreCategory(ctx, profileId, Category{Key: "housing", Name: "Housing", Kind: KindMonthly, Position: 100})

	// then
	require.NoError(t, err)
	assert.NotZero(t, id)

	categories, err := repo.GetCategories(ctx, profileId, KindMonthly)
	require.NoError(t, err)
	require.Len(t, categories, 1)
	assert.Equal(t, "housing", categories[0].Key)
	assert.Empty(t, categories[0].Expenses)
}

func TestRepoImpl_StoreExpense(t *testing.T) {
	// given
	repo, profileId := setupTestRepository(t)
	categoryId, err := repo.StoreCategory(ctx, profileId, Category{Key: "housing", Name: "Housing", Kind: KindMonthly})
	require.NoError(t, err)

	// when
	e := Expense{
		Id:             uuid.NewString(),
		Name:           "Rent",
		Projected:      dec(1500),
		Actual:         nullDec(1450),
		DueDate:        "2025-06-01",
		TransferStatus: TransferNone,
		Position:       100,
	}
	err = repo.StoreExpense(ctx, profileId, categoryId, e)

	// then
	require.NoError(t, err)
	stored, category, err := repo.GetExpense(ctx, profileId, e.Id)
	require.NoError(t, err)
	assert.Equal(t, "Rent", stored.Name)
	assert.True(t, stored.Projected.Equal(dec(1500)))
	assert.True(t, stored.Actual.Decimal.Equal(dec(1450)))
	assert.Equal(t, "2025-06-01", stored.DueDate)
	assert.Equal(t, "housing", category.Key)
}

func TestRepoImpl_StoreExpense_ShouldRejectForeignCategory(t *testing.T) {
	// given a category owned by another profile
	repo, profileId := setupTestRepository(t)
	categoryId, err := repo.StoreCategory(ctx, profileId, Category{Key: "housing", Name: "Housing", Kind: KindMonthly})
	require.NoError(t, err)

	// when storing with a different profile
	err = repo.StoreExpense(ctx, profileId+1, categoryId, Expense{Id: uuid.NewString(), Name: "Rent"})

	// then
	assert.ErrorIs(t, err, ErrCategoryNotFound)
}

func TestRepoImpl_DeleteCategory_ShouldCascadeToExpenses(t *testing.T) {
	// given
	repo, profileId := setupTestRepository(t)
	categoryId, err := repo.StoreCategory(ctx, profileId, Category{Key: "housing", Name: "Housing", Kind: KindMonthly})
	require.NoError(t, err)
	e := Expense{Id: uuid.NewString(), Name: "Rent", TransferStatus: TransferNone}
	require.NoError(t, repo.StoreExpense(ctx, profileId, categoryId, e))

	// when
	deleted, err := repo.DeleteCategory(ctx, profileId, categoryId)

	// then
	require.NoError(t, err)
	assert.True(t, deleted)
	_, _, err = repo.GetExpense(ctx, profileId, e.Id)
	assert.ErrorIs(t, err, ErrExpenseNotFound)
}

func TestRepoImpl_UpdateExpense(t *testing.T) {
	// given
	repo, profileId := setupTestRepository(t)
	categoryId, err := repo.StoreCategory(ctx, profileId, Category{Key: "housing", Name: "Housing", Kind: KindMonthly})
	require.NoError(t, err)
	e := Expense{Id: uuid.NewString(), Name: "Rent", Projected: dec(1500), TransferStatus: TransferNone}
	require.NoError(t, repo.StoreExpense(ctx, profileId, categoryId, e))

	// when
	e.Actual = nullDec(1500)
	e.Paid = true
	e.TransferStatus = TransferFull
	updated, err := repo.UpdateExpense(ctx, profileId, e)

	// then
	require.NoError(t, err)
	assert.True(t, updated)
	stored, _, err := repo.GetExpense(ctx, profileId, e.Id)
	require.NoError(t, err)
	assert.True(t, stored.Paid)
	assert.Equal(t, TransferFull, stored.TransferStatus)
	assert.True(t, stored.Actual.Decimal.Equal(dec(1500)))
}
