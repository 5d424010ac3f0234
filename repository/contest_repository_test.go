package repository

import (
	"context"
	"sync"
	"testing"

	"bolao/models"
	"bolao/repository/testutil"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestContestRepository_CreateAndGet(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping integration test in short mode")
	}

	testDB := testutil.SetupTestDatabase(t)
	repo := NewContestRepository(testDB.DB)
	ctx := context.Background()

	contest := testutil.CreateTestContest("Mega da Virada")
	require.NoError(t, repo.Create(ctx, contest))
	require.NotEmpty(t, contest.ID)

	got, err := repo.GetByID(ctx, contest.ID)
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.Equal(t, "Mega da Virada", got.Name)
	assert.Equal(t, int64(0), got.QuotasSold)
	assert.Equal(t, models.ContestStatusOpen, got.Status)

	missing, err := repo.GetByID(ctx, "00000000-0000-0000-0000-000000000000")
	require.NoError(t, err)
	assert.Nil(t, missing)
}

func TestContestRepository_ReserveQuotas(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping integration test in short mode")
	}

	testDB := testutil.SetupTestDatabase(t)
	repo := NewContestRepository(testDB.DB)
	ctx := context.Background()

	contest := testutil.CreateTestContestWithCapacity("Quina", 10)
	require.NoError(t, repo.Create(ctx, contest))

	soldOut, err := repo.ReserveQuotas(ctx, contest.ID, 7)
	require.NoError(t, err)
	assert.False(t, soldOut)

	// Over-capacity request is rejected with the remaining count
	_, err = repo.ReserveQuotas(ctx, contest.ID, 5)
	var capacityErr *models.InsufficientCapacityError
	require.ErrorAs(t, err, &capacityErr)
	assert.Equal(t, int64(3), capacityErr.Available)

	// The rejection left the counter untouched
	got, err := repo.GetByID(ctx, contest.ID)
	require.NoError(t, err)
	assert.Equal(t, int64(7), got.QuotasSold)

	// Taking the last quotas reports sold out
	soldOut, err = repo.ReserveQuotas(ctx, contest.ID, 3)
	require.NoError(t, err)
	assert.True(t, soldOut)
}

func TestContestRepository_ReserveQuotasClosedContest(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping integration test in short mode")
	}

	testDB := testutil.SetupTestDatabase(t)
	repo := NewContestRepository(testDB.DB)
	ctx := context.Background()

	contest := testutil.CreateTestContest("Lotofacil")
	require.NoError(t, repo.Create(ctx, contest))
	require.NoError(t, repo.UpdateStatus(ctx, contest.ID, models.ContestStatusClosed, nil))

	_, err := repo.ReserveQuotas(ctx, contest.ID, 1)
	assert.ErrorIs(t, err, models.ErrContestNotOpen)

	_, err = repo.ReserveQuotas(ctx, "00000000-0000-0000-0000-000000000000", 1)
	assert.ErrorIs(t, err, models.ErrContestNotFound)
}

func TestContestRepository_ConcurrentReservations(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping integration test in short mode")
	}

	testDB := testutil.SetupTestDatabase(t)
	repo := NewContestRepository(testDB.DB)
	ctx := context.Background()

	contest := testutil.CreateTestContestWithCapacity("Dupla Sena", 10)
	require.NoError(t, repo.Create(ctx, contest))

	const attempts = 25
	var wg sync.WaitGroup
	errs := make([]error, attempts)

	for i := 0; i < attempts; i++ {
		wg.Add(1)
		go func(idx int) {
			defer wg.Done()
			_, errs[idx] = repo.ReserveQuotas(ctx, contest.ID, 1)
		}(i)
	}
	wg.Wait()

	var succeeded int
	for _, err := range errs {
		if err == nil {
			succeeded++
		} else {
			var capacityErr *models.InsufficientCapacityError
			assert.ErrorAs(t, err, &capacityErr)
		}
	}
	assert.Equal(t, 10, succeeded, "exactly the capacity must be reserved")

	got, err := repo.GetByID(ctx, contest.ID)
	require.NoError(t, err)
	assert.Equal(t, int64(10), got.QuotasSold, "counter never exceeds capacity")
}

func TestContestRepository_ReleaseQuotas(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping integration test in short mode")
	}

	testDB := testutil.SetupTestDatabase(t)
	repo := NewContestRepository(testDB.DB)
	ctx := context.Background()

	contest := testutil.CreateTestContestWithCapacity("Timemania", 10)
	require.NoError(t, repo.Create(ctx, contest))

	_, err := repo.ReserveQuotas(ctx, contest.ID, 4)
	require.NoError(t, err)

	require.NoError(t, repo.ReleaseQuotas(ctx, contest.ID, 3))
	got, err := repo.GetByID(ctx, contest.ID)
	require.NoError(t, err)
	assert.Equal(t, int64(1), got.QuotasSold)

	// Releasing more than reserved floors at zero instead of going negative
	require.NoError(t, repo.ReleaseQuotas(ctx, contest.ID, 5))
	got, err = repo.GetByID(ctx, contest.ID)
	require.NoError(t, err)
	assert.Equal(t, int64(0), got.QuotasSold)
}

func TestContestRepository_UpdateStatus(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping integration test in short mode")
	}

	testDB := testutil.SetupTestDatabase(t)
	repo := NewContestRepository(testDB.DB)
	ctx := context.Background()

	contest := testutil.CreateTestContest("Mega-Sena")
	require.NoError(t, repo.Create(ctx, contest))

	require.NoError(t, repo.UpdateStatus(ctx, contest.ID, models.ContestStatusClosed, nil))
	drawn := []int32{4, 8, 15, 16, 23, 42}
	require.NoError(t, repo.UpdateStatus(ctx, contest.ID, models.ContestStatusDrawn, drawn))

	got, err := repo.GetByID(ctx, contest.ID)
	require.NoError(t, err)
	assert.Equal(t, models.ContestStatusDrawn, got.Status)
	assert.Equal(t, drawn, got.DrawnNumbers)

	err = repo.UpdateStatus(ctx, "00000000-0000-0000-0000-000000000000", models.ContestStatusClosed, nil)
	assert.ErrorIs(t, err, models.ErrContestNotFound)
}
