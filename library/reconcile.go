package library

import (
	"context"

	"Gin_postgres_redis_library/db"
	"Gin_postgres_redis_library/models"
)

// Inventory is the reconciled counter pair of a book.
type Inventory struct {
	InstanceCnt  int64
	AvailableCnt int64
}

// RecomputeAvailable counts the book's Available copies inside the caller's
// transaction and writes that exact number to the book. Counters are never
// adjusted by delta, so concurrent accepts and returns on other copies of the
// same book cannot drift the value.
func RecomputeAvailable(ctx context.Context, repo *db.Repo, bookID string) (int64, error) {
	n, err := repo.CountInstances(ctx, bookID, models.InstanceAvailable)
	if err != nil {
		return 0, err
	}
	if err := repo.SetBookCounts(ctx, bookID, nil, n); err != nil {
		if db.IsNotFound(err) {
			return 0, NotFoundf("book %s not found", bookID)
		}
		return 0, err
	}
	return n, nil
}

// RecomputeInventory reconciles both the total and the available counter.
func RecomputeInventory(ctx context.Context, repo *db.Repo, bookID string) (Inventory, error) {
	total, err := repo.CountInstances(ctx, bookID, "")
	if err != nil {
		return Inventory{}, err
	}
	avail, err := repo.CountInstances(ctx, bookID, models.InstanceAvailable)
	if err != nil {
		return Inventory{}, err
	}
	if err := repo.SetBookCounts(ctx, bookID, &total, avail); err != nil {
		if db.IsNotFound(err) {
			return Inventory{}, NotFoundf("book %s not found", bookID)
		}
		return Inventory{}, err
	}
	return Inventory{InstanceCnt: total, AvailableCnt: avail}, nil
}

// RecomputeDonatedCount reconciles a donor's donation counter.
func RecomputeDonatedCount(ctx context.Context, repo *db.Repo, donorID string) (int64, error) {
	n, err := repo.CountInstancesByDonor(ctx, donorID)
	if err != nil {
		return 0, err
	}
	if err := repo.SetUserDonatedCount(ctx, donorID, n); err != nil {
		if db.IsNotFound(err) {
			return 0, NotFoundf("user %s not found", donorID)
		}
		return 0, err
	}
	return n, nil
}
