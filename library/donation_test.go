package library_test

import (
	"testing"
	"time"

	"Gin_postgres_redis_library/db"
	"Gin_postgres_redis_library/library"
	"Gin_postgres_redis_library/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func Test_CreateDonation_FirstCopy(t *testing.T) {
	// setup
	ctx, env := setupTestEnvironment(t)
	donor := seedUser(t, env, "Ada", "Lovelace")
	book := seedBook(t, env, "Notes", int64p(42))
	donated := time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC)

	// act
	inst, err := env.donations.CreateDonation(ctx, library.CreateDonationInput{
		DonorID:     donor.ID,
		BookID:      book.ID,
		Note:        "slightly worn",
		DonatedDate: &donated,
	})

	// assert
	require.NoError(t, err)
	assert.Equal(t, int64(1), inst.InstanceNo)
	assert.Equal(t, "42-1", inst.UID)
	assert.Equal(t, models.InstanceAvailable, inst.Status)
	assert.Equal(t, "Ada Lovelace", inst.DonorName)
	assert.Equal(t, "Notes", inst.BookName)
	assert.Equal(t, book.CoverURL, inst.BookImg)

	b := reloadBook(t, env, book.ID)
	assert.Equal(t, int64(1), b.InstanceCnt)
	assert.Equal(t, int64(1), b.AvailableCnt)

	u, err := env.repo.FindUserByID(ctx, donor.ID)
	require.NoError(t, err)
	assert.Equal(t, int64(1), u.DonatedCount)
}

func Test_CreateDonation_NumbersCopiesAndCountsByStatus(t *testing.T) {
	// setup
	ctx, env := setupTestEnvironment(t)
	donor := seedUser(t, env, "Ada", "Lovelace")
	other := seedUser(t, env, "Alan", "Turing")
	book := seedBook(t, env, "Computing", int64p(7))

	// act
	first := donate(ctx, t, env, donor, book)
	second := donate(ctx, t, env, other, book)
	third, err := env.donations.CreateDonation(ctx, library.CreateDonationInput{
		DonorID: donor.ID,
		BookID:  book.ID,
		Status:  models.InstanceReserved,
	})

	// assert
	require.NoError(t, err)
	assert.Equal(t, int64(1), first.InstanceNo)
	assert.Equal(t, int64(2), second.InstanceNo)
	assert.Equal(t, int64(3), third.InstanceNo)
	assert.Equal(t, "7-3", third.UID)

	b := reloadBook(t, env, book.ID)
	assert.Equal(t, int64(3), b.InstanceCnt)
	assert.Equal(t, int64(2), b.AvailableCnt, "a copy donated as Reserved is not available")
	assertCounterAccurate(t, env, book.ID)

	u, err := env.repo.FindUserByID(ctx, donor.ID)
	require.NoError(t, err)
	assert.Equal(t, int64(2), u.DonatedCount)
}

func Test_CreateDonation_BookWithoutUID(t *testing.T) {
	ctx, env := setupTestEnvironment(t)
	donor := seedUser(t, env, "Ada", "Lovelace")
	book := seedBook(t, env, "Untracked", nil)

	inst := donate(ctx, t, env, donor, book)

	assert.Empty(t, inst.UID)
	assert.Equal(t, int64(1), inst.InstanceNo)
}

func Test_CreateDonation_Error_UnknownDonorOrBook(t *testing.T) {
	// setup
	ctx, env := setupTestEnvironment(t)
	donor := seedUser(t, env, "Ada", "Lovelace")
	book := seedBook(t, env, "Notes", int64p(1))

	// act
	_, errDonor := env.donations.CreateDonation(ctx, library.CreateDonationInput{DonorID: "missing", BookID: book.ID})
	_, errBook := env.donations.CreateDonation(ctx, library.CreateDonationInput{DonorID: donor.ID, BookID: "missing"})

	// assert
	assert.True(t, library.IsKind(errDonor, library.KindNotFound), "unknown donor should be NotFound, got %v", errDonor)
	assert.True(t, library.IsKind(errBook, library.KindNotFound), "unknown book should be NotFound, got %v", errBook)
	assert.Equal(t, 404, library.StatusCode(errDonor))

	page, err := env.repo.ListInstances(ctx, db.InstanceQuery{BookID: book.ID})
	require.NoError(t, err)
	assert.Zero(t, page.Total)
	b := reloadBook(t, env, book.ID)
	assert.Zero(t, b.InstanceCnt)
	assert.Zero(t, b.AvailableCnt)
}

func Test_CreateDonation_Error_InvalidInput(t *testing.T) {
	ctx, env := setupTestEnvironment(t)

	_, err := env.donations.CreateDonation(ctx, library.CreateDonationInput{BookID: "b", Status: "Lost"})

	assert.True(t, library.IsKind(err, library.KindInvalidInput))
	assert.ErrorContains(t, err, "DonorID is required")
	assert.ErrorContains(t, err, "Status must be one of")
}

func Test_ListDonations_Filters(t *testing.T) {
	// setup
	ctx, env := setupTestEnvironment(t)
	donor := seedUser(t, env, "Ada", "Lovelace")
	a := seedBook(t, env, "A", nil)
	b := seedBook(t, env, "B", nil)
	donate(ctx, t, env, donor, a)
	donate(ctx, t, env, donor, a)
	donate(ctx, t, env, donor, b)

	// act
	onlyA, err := env.donations.ListDonations(ctx, db.InstanceQuery{BookID: a.ID})
	require.NoError(t, err)
	_, badStatus := env.donations.ListDonations(ctx, db.InstanceQuery{Status: "Lost"})

	// assert
	assert.Equal(t, int64(2), onlyA.Total)
	assert.Len(t, onlyA.Items, 2)
	assert.Equal(t, int64(1), onlyA.Items[0].InstanceNo)
	assert.True(t, library.IsKind(badStatus, library.KindInvalidInput))
}

func Test_GetDonation(t *testing.T) {
	// setup
	ctx, env := setupTestEnvironment(t)
	donor := seedUser(t, env, "Ada", "Lovelace")
	book := seedBook(t, env, "Notes", nil)
	inst := donate(ctx, t, env, donor, book)

	// act
	got, err := env.donations.GetDonation(ctx, inst.ID)
	_, missingErr := env.donations.GetDonation(ctx, "00000000-0000-0000-0000-000000000000")

	// assert
	require.NoError(t, err)
	assert.Equal(t, inst.ID, got.ID)
	assert.Equal(t, donor.ID, got.DonorID)
	assert.True(t, library.IsKind(missingErr, library.KindNotFound))
}
