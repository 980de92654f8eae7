package db

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"Gin_postgres_redis_library/models"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func tempRepo(t *testing.T) *Repo {
	t.Helper()
	conn, err := OpenSQLite(filepath.Join(t.TempDir(), "repo.db"))
	require.NoError(t, err)
	t.Cleanup(func() {
		if sqlDB, err := conn.DB(); err == nil {
			_ = sqlDB.Close()
		}
	})
	return NewRepo(conn)
}

func Test_PutStage_OverwritesSingleRow(t *testing.T) {
	// setup
	ctx := context.Background()
	repo := tempRepo(t)
	userID, bookID := uuid.NewString(), uuid.NewString()

	// act
	require.NoError(t, repo.PutStage(ctx, &models.UserBookStage{UserID: userID, BookID: bookID, Stage: models.StageRequested, BorrowID: "b1"}))
	require.NoError(t, repo.PutStage(ctx, &models.UserBookStage{UserID: userID, BookID: bookID, Stage: models.StageApproved, BorrowID: "b1"}))

	// assert
	stages, err := repo.ListStages(ctx, userID)
	require.NoError(t, err)
	require.Len(t, stages, 1)
	assert.Equal(t, models.StageApproved, stages[0].Stage)

	requested, err := repo.BookIDsInStage(ctx, userID, models.StageRequested)
	require.NoError(t, err)
	assert.Empty(t, requested)
}

func Test_DeleteStage_OnlyMatchingStage(t *testing.T) {
	// setup
	ctx := context.Background()
	repo := tempRepo(t)
	userID, bookID := uuid.NewString(), uuid.NewString()
	require.NoError(t, repo.PutStage(ctx, &models.UserBookStage{UserID: userID, BookID: bookID, Stage: models.StageApproved}))

	// act
	wrong, err := repo.DeleteStage(ctx, userID, bookID, models.StageRequested)
	require.NoError(t, err)
	right, err := repo.DeleteStage(ctx, userID, bookID, models.StageApproved)
	require.NoError(t, err)

	// assert
	assert.Zero(t, wrong)
	assert.Equal(t, int64(1), right)
	_, err = repo.FindStage(ctx, userID, bookID)
	assert.True(t, IsNotFound(err))
}

func Test_OneOpenBorrowPerInstance(t *testing.T) {
	// setup
	ctx := context.Background()
	repo := tempRepo(t)
	instanceID := uuid.NewString()
	open := func(status models.BorrowStatus) *models.Borrow {
		return &models.Borrow{ID: uuid.NewString(), UserID: uuid.NewString(), BookID: uuid.NewString(), InstanceID: &instanceID, Status: status}
	}
	require.NoError(t, repo.CreateBorrow(ctx, open(models.BorrowAccepted)))

	// act
	dup := repo.CreateBorrow(ctx, open(models.BorrowTaken))
	closed := repo.CreateBorrow(ctx, open(models.BorrowReturned))

	// assert
	assert.Error(t, dup, "a second open borrow of the same copy must be rejected")
	assert.NoError(t, closed)
}

func Test_TransitionBorrow_GuardsSourceStatus(t *testing.T) {
	// setup
	ctx := context.Background()
	repo := tempRepo(t)
	b := &models.Borrow{ID: uuid.NewString(), UserID: uuid.NewString(), BookID: uuid.NewString(), Status: models.BorrowWaitList}
	require.NoError(t, repo.CreateBorrow(ctx, b))

	// act
	n1, err := repo.TransitionBorrow(ctx, b.ID, models.BorrowWaitList, map[string]any{"status": models.BorrowAccepted})
	require.NoError(t, err)
	n2, err := repo.TransitionBorrow(ctx, b.ID, models.BorrowWaitList, map[string]any{"status": models.BorrowAccepted})
	require.NoError(t, err)

	// assert
	assert.Equal(t, int64(1), n1)
	assert.Zero(t, n2)
}

func Test_ListBorrows_Overdue(t *testing.T) {
	// setup
	ctx := context.Background()
	repo := tempRepo(t)
	past := time.Now().UTC().Add(-time.Hour)
	future := time.Now().UTC().Add(time.Hour)
	late := &models.Borrow{ID: uuid.NewString(), UserID: uuid.NewString(), BookID: uuid.NewString(), Status: models.BorrowTaken, DueDate: &past}
	onTime := &models.Borrow{ID: uuid.NewString(), UserID: uuid.NewString(), BookID: uuid.NewString(), Status: models.BorrowTaken, DueDate: &future}
	require.NoError(t, repo.CreateBorrow(ctx, late))
	require.NoError(t, repo.CreateBorrow(ctx, onTime))

	// act
	res, err := repo.ListBorrows(ctx, BorrowQuery{Overdue: true})

	// assert
	require.NoError(t, err)
	require.Equal(t, int64(1), res.Total)
	assert.Equal(t, late.ID, res.Items[0].ID)
}

func Test_InstanceNumber_UniquePerBook(t *testing.T) {
	// setup
	ctx := context.Background()
	repo := tempRepo(t)
	bookID := uuid.NewString()
	copyNo := func(n int64) *models.Instance {
		return &models.Instance{ID: uuid.NewString(), InstanceNo: n, BookID: bookID, DonorID: uuid.NewString(), Status: models.InstanceAvailable}
	}
	require.NoError(t, repo.CreateInstance(ctx, copyNo(1)))

	// act
	dup := repo.CreateInstance(ctx, copyNo(1))
	next := repo.CreateInstance(ctx, copyNo(2))

	// assert
	assert.Error(t, dup, "two copies of one book cannot share a number")
	assert.NoError(t, next)
}
