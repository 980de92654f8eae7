package library_test

import (
	"testing"

	"Gin_postgres_redis_library/db"
	"Gin_postgres_redis_library/library"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func Test_Stats_Summary(t *testing.T) {
	// setup
	ctx, env := setupTestEnvironment(t)
	fx := setupLending(ctx, t, env)
	donate(ctx, t, env, fx.donor, fx.book)
	req, err := env.borrows.RequestBorrow(ctx, fx.book.ID, fx.reader.ID)
	require.NoError(t, err)
	_, err = env.borrows.AcceptBorrow(ctx, req.ID, library.AcceptBorrowInput{InstanceID: fx.instance.ID})
	require.NoError(t, err)
	_, err = env.borrows.MarkTaken(ctx, req.ID, takenInput())
	require.NoError(t, err)
	stats := library.NewStats(env.repo)

	// act
	got, err := stats.Summary(ctx)

	// assert
	require.NoError(t, err)
	assert.Equal(t, int64(1), got.TotalBooks)
	assert.Equal(t, int64(2), got.TotalDonations)
	assert.Equal(t, int64(2), got.TotalUsers)
	assert.Equal(t, int64(1), got.ActiveBorrows)
}

func Test_Stats_Donors_OnlyRepeatDonors(t *testing.T) {
	// setup
	ctx, env := setupTestEnvironment(t)
	book := seedBook(t, env, "Notes", nil)
	generous := seedUser(t, env, "Ada", "Lovelace")
	once := seedUser(t, env, "Alan", "Turing")
	seedUser(t, env, "Grace", "Hopper")
	for i := 0; i < 3; i++ {
		donate(ctx, t, env, generous, book)
	}
	donate(ctx, t, env, once, book)
	stats := library.NewStats(env.repo)

	// act
	all, err := stats.Donors(ctx, db.DonorQuery{})
	require.NoError(t, err)
	searched, err := stats.Donors(ctx, db.DonorQuery{Q: "turing"})
	require.NoError(t, err)

	// assert
	require.Equal(t, int64(1), all.Total)
	assert.Equal(t, generous.ID, all.Items[0].ID)
	assert.Equal(t, int64(3), all.Items[0].DonatedCount)
	assert.Zero(t, searched.Total)
}
