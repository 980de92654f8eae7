package library_test

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"Gin_postgres_redis_library/db"
	"Gin_postgres_redis_library/library"
	"Gin_postgres_redis_library/models"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

type recordingNotifier struct {
	mu   sync.Mutex
	sent []models.Notification
	fail bool
}

func (n *recordingNotifier) CreateOne(_ context.Context, msg models.Notification) error {
	n.mu.Lock()
	defer n.mu.Unlock()
	if n.fail {
		return errors.New("notification store unavailable")
	}
	n.sent = append(n.sent, msg)
	return nil
}

func (n *recordingNotifier) Sent() []models.Notification {
	n.mu.Lock()
	defer n.mu.Unlock()
	return append([]models.Notification(nil), n.sent...)
}

type testEnv struct {
	conn      *gorm.DB
	repo      *db.Repo
	borrows   *library.BorrowService
	donations *library.DonationService
	tracker   *library.Tracker
	notifier  *recordingNotifier
}

func setupTestEnvironment(t *testing.T) (context.Context, *testEnv) {
	t.Helper()
	conn, err := db.OpenSQLite(filepath.Join(t.TempDir(), "library.db"))
	require.NoError(t, err)
	t.Cleanup(func() {
		if sqlDB, err := conn.DB(); err == nil {
			_ = sqlDB.Close()
		}
	})

	log := slog.New(slog.NewTextHandler(io.Discard, nil))
	repo := db.NewRepo(conn)
	notifier := &recordingNotifier{}
	deps := library.Deps{
		Repo:     repo,
		Tx:       library.NewCoordinator(conn, library.TxOptions{Timeout: 5 * time.Second}, log),
		Notifier: notifier,
		Log:      log,
	}
	return context.Background(), &testEnv{
		conn:      conn,
		repo:      repo,
		borrows:   library.NewBorrowService(deps),
		donations: library.NewDonationService(deps),
		tracker:   library.NewTracker(repo),
		notifier:  notifier,
	}
}

func seedUser(t *testing.T, env *testEnv, first, last string) *models.User {
	t.Helper()
	u := &models.User{ID: uuid.NewString(), Username: uuid.NewString() + "@example.org", FirstName: first, LastName: last}
	require.NoError(t, env.repo.CreateUser(context.Background(), u))
	return u
}

func seedBook(t *testing.T, env *testEnv, title string, uid *int64) *models.Book {
	t.Helper()
	b := &models.Book{ID: uuid.NewString(), UID: uid, Title: title, CoverURL: "https://covers.example.org/" + title + ".jpg"}
	require.NoError(t, env.repo.CreateBook(context.Background(), b))
	return b
}

func donate(ctx context.Context, t *testing.T, env *testEnv, donor *models.User, book *models.Book) *models.Instance {
	t.Helper()
	inst, err := env.donations.CreateDonation(ctx, library.CreateDonationInput{DonorID: donor.ID, BookID: book.ID})
	require.NoError(t, err)
	return inst
}

func reloadBook(t *testing.T, env *testEnv, id string) *models.Book {
	t.Helper()
	b, err := env.repo.FindBookByID(context.Background(), id)
	require.NoError(t, err)
	return b
}

func reloadInstance(t *testing.T, env *testEnv, id string) *models.Instance {
	t.Helper()
	in, err := env.repo.FindInstanceByID(context.Background(), id)
	require.NoError(t, err)
	return in
}

func reloadBorrow(t *testing.T, env *testEnv, id string) *models.Borrow {
	t.Helper()
	b, err := env.repo.FindBorrowByID(context.Background(), id)
	require.NoError(t, err)
	return b
}

func userSets(t *testing.T, env *testEnv, userID string) *library.UserBookSets {
	t.Helper()
	sets, err := env.tracker.Sets(context.Background(), userID)
	require.NoError(t, err)
	return sets
}

// assertCounterAccurate checks availableCnt against a fresh count.
func assertCounterAccurate(t *testing.T, env *testEnv, bookID string) {
	t.Helper()
	n, err := env.repo.CountInstances(context.Background(), bookID, models.InstanceAvailable)
	require.NoError(t, err)
	assert.Equal(t, n, reloadBook(t, env, bookID).AvailableCnt, "availableCnt should equal the live count of Available copies")
}

// assertExclusive checks the book sits in at most one of the user's sets.
func assertExclusive(t *testing.T, sets *library.UserBookSets, bookID string) {
	t.Helper()
	n := 0
	for _, set := range [][]string{sets.RequestedBooks, sets.ApprovedBooks, sets.BorrowedBooks, sets.ReturnedBooks} {
		for _, id := range set {
			if id == bookID {
				n++
			}
		}
	}
	assert.LessOrEqual(t, n, 1, "book should appear in at most one set")
}

func int64p(v int64) *int64 { return &v }
