package planner

import (
	"testing"

	"github.com/cashplan/cashplan/internal/test_utils"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func setupTestRepository(t *testing.T) (Repo, int) {
	db := test_utils.SetupTestDB(t)
	profileId := test_utils.SeedProfile(t, db, "test-profile", "Test Profile")
	return NewPlannerRepo(db), profileId
}

func TestRepoImpl_SaveEntry(t *testing.T) {
	// given
	repo, profileId := setupTestRepository(t)
	entry := Entry{}
	entry.Weeks[0] = dec(1500)
	entry.Paid[0] = true

	// when
	err := repo.SaveEntry(ctx, profileId, "Rent", entry)

	// then
	require.NoError(t, err)
	stored, found, err := repo.GetEntry(ctx, profileId, "Rent")
	require.NoError(t, err)
	assert.True(t, found)
	assert.True(t, stored.Weeks[0].Equal(dec(1500)))
	assert.True(t, stored.Paid[0])
	assert.False(t, stored.Transferred[0])
}

func TestRepoImpl_SaveEntry_ShouldReplaceWeeksOnUpdate(t *testing.T) {
	// given
	repo, profileId := setupTestRepository(t)
	entry := Entry{}
	entry.Weeks[0] = dec(1500)
	require.NoError(t, repo.SaveEntry(ctx, profileId, "Rent", entry))

	// when the allocation moves to another week
	entry = Entry{}
	entry.Weeks[2] = dec(1500)
	require.NoError(t, repo.SaveEntry(ctx, profileId, "Rent", entry))

	// then
	stored, _, err := repo.GetEntry(ctx, profileId, "Rent")
	require.NoError(t, err)
	assert.True(t, stored.Weeks[0].IsZero())
	assert.True(t, stored.Weeks[2].Equal(dec(1500)))
}

func TestRepoImpl_GetEntry_ShouldPadMissingWeeks(t *testing.T) {
	// given an entry with a single stored week
	repo, profileId := setupTestRepository(t)
	entry := Entry{}
	entry.Weeks[3] = dec(200)
	require.NoError(t, repo.SaveEntry(ctx, profileId, "Groceries", entry))

	// when
	stored, found, err := repo.GetEntry(ctx, profileId, "Groceries")

	// then the other weeks come back zero-valued
	require.NoError(t, err)
	assert.True(t, found)
	for week := 0; week < 5; week++ {
		if week == 3 {
			continue
		}
		assert.True(t, stored.Weeks[week].IsZero(), "week %d", week)
		assert.False(t, stored.Paid[week])
	}
}

func TestRepoImpl_GetEntry_ShouldReportMissingEntries(t *testing.T) {
	// given
	repo, profileId := setupTestRepository(t)

	// when
	_, found, err := repo.GetEntry(ctx, profileId, "Unknown")

	// then
	require.NoError(t, err)
	assert.False(t, found)
}

func TestRepoImpl_GetState(t *testing.T) {
	// given
	repo, profileId := setupTestRepository(t)
	rent := Entry{}
	rent.Weeks[0] = dec(1500)
	require.NoError(t, repo.SaveEntry(ctx, profileId, "Rent", rent))
	groceries := Entry{}
	groceries.Weeks[1] = dec(125.50)
	groceries.Transferred[1] = true
	require.NoError(t, repo.SaveEntry(ctx, profileId, "Groceries", groceries))

	// when
	state, err := repo.GetState(ctx, profileId)

	// then
	require.NoError(t, err)
	require.Len(t, state, 2)
	assert.True(t, state["Rent"].Weeks[0].Equal(dec(1500)))
	assert.True(t, state["Groceries"].Weeks[1].Equal(dec(125.50)))
	assert.True(t, state["Groceries"].Transferred[1])
}

func TestRepoImpl_GetState_ShouldIsolateProfiles(t *testing.T) {
	// given
	db := test_utils.SetupTestDB(t)
	repo := NewPlannerRepo(db)
	first := test_utils.SeedProfile(t, db, "first", "First")
	second := test_utils.SeedProfile(t, db, "second", "Second")
	entry := Entry{}
	entry.Weeks[0] = dec(100)
	require.NoError(t, repo.SaveEntry(ctx, first, "Rent", entry))

	// when
	state, err := repo.GetState(ctx, second)

	// then
	require.NoError(t, err)
	assert.Empty(t, state)
}
