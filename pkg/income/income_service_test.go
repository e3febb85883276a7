package income

import (
	"context"
	"testing"
	"time"

	"github.com/cashplan/cashplan/internal/utils"
	"github.com/cashplan/cashplan/pkg/budget"
	"github.com/cashplan/cashplan/pkg/profile"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var ctx = profile.WithProfile(context.Background(), profile.Profile{Id: 1})

var incomeRepoStub = NewStubIncomeRepo()

var service Service

func setup(t *testing.T) func() {
	clock := &utils.MockClock{FixedNow: time.Date(2025, 6, 10, 12, 0, 0, 0, time.UTC)}
	service = NewIncomeService(incomeRepoStub, clock)
	return func() {
		t.Log("Teardown after test")
		incomeRepoStub.Cleanup()
	}
}

func TestServiceImpl_Create(t *testing.T) {
	t.Run("should create an income source successfully", func(t *testing.T) {
		teardown := setup(t)
		defer teardown()

		// when
		created, err := service.Create(ctx, Source{Name: "Salary", Frequency: FrequencyBiWeekly, ProjectedAmount: dec(1000)})

		// then
		assert.NoError(t, err)
		assert.NotZero(t, created.ID)
		assert.Equal(t, 100, created.Position)
	})

	t.Run("should reject an unknown frequency", func(t *testing.T) {
		teardown := setup(t)
		defer teardown()

		// when
		_, err := service.Create(ctx, Source{Name: "Salary", Frequency: "fortnightly"})

		// then
		assert.ErrorIs(t, err, ErrInvalidFrequency)
	})

	t.Run("should reject more pay dates than the frequency allows", func(t *testing.T) {
		teardown := setup(t)
		defer teardown()

		// when
		_, err := service.Create(ctx, Source{
			Name:      "Salary",
			Frequency: FrequencyMonthly,
			PayDates:  []string{"2025-06-01", "2025-06-15"},
		})

		// then
		assert.ErrorIs(t, err, ErrTooManyPayDates)
	})

	t.Run("should return error when context has no profile", func(t *testing.T) {
		teardown := setup(t)
		defer teardown()

		// when
		_, err := service.Create(context.Background(), Source{Name: "Salary", Frequency: FrequencyMonthly})

		// then
		assert.Error(t, err)
		assert.Contains(t, err.Error(), "failed to get current profile")
	})
}

func TestServiceImpl_WeeklyProjection(t *testing.T) {
	t.Run("should derive the month from pay dates and project into it", func(t *testing.T) {
		teardown := setup(t)
		defer teardown()

		// given
		_, err := service.Create(ctx, Source{
			Name:            "Salary",
			Frequency:       FrequencyBiWeekly,
			ProjectedAmount: dec(1000),
			PayDates:        []string{"2025-07-03", "2025-07-17"},
		})
		require.NoError(t, err)

		// when
		month, weekly, err := service.WeeklyProjection(ctx)

		// then
		assert.NoError(t, err)
		assert.Equal(t, budget.Month{Year: 2025, Month: time.July}, month)
		assertWeekly(t, [5]float64{1000, 0, 1000, 0, 0}, weekly)
	})

	t.Run("should fall back to the clock month with no pay dates", func(t *testing.T) {
		teardown := setup(t)
		defer teardown()

		// given
		_, err := service.Create(ctx, Source{Name: "Pension", Frequency: FrequencyMonthly, ProjectedAmount: dec(3000)})
		require.NoError(t, err)

		// when
		month, weekly, err := service.WeeklyProjection(ctx)

		// then
		assert.NoError(t, err)
		assert.Equal(t, budget.Month{Year: 2025, Month: time.June}, month)
		assertWeekly(t, [5]float64{3000, 0, 0, 0, 0}, weekly)
	})
}

func TestServiceImpl_Delete(t *testing.T) {
	t.Run("should delete an existing source", func(t *testing.T) {
		teardown := setup(t)
		defer teardown()

		created, err := service.Create(ctx, Source{Name: "Salary", Frequency: FrequencyMonthly})
		require.NoError(t, err)

		ok, err := service.Delete(ctx, created.ID)

		assert.NoError(t, err)
		assert.True(t, ok)
	})

	t.Run("should report a missing source", func(t *testing.T) {
		teardown := setup(t)
		defer teardown()

		_, err := service.Delete(ctx, 42)

		assert.Error(t, err)
	})
}
