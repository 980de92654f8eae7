package library

import (
	"context"

	"Gin_postgres_redis_library/db"
)

// donorThreshold keeps one-off donors off the donors board.
const donorThreshold = 1

// Stats serves read-only totals. Every figure is counted from source rows,
// except the donor ranking which reads the reconciled donatedCount.
type Stats struct {
	repo *db.Repo
}

func NewStats(repo *db.Repo) *Stats { return &Stats{repo: repo} }

func (s *Stats) Summary(ctx context.Context) (*db.LibraryCounts, error) {
	res, err := s.repo.CountLibrary(ctx)
	if err != nil {
		return nil, Internalf(err, "count library")
	}
	return res, nil
}

// Donors lists users with more than one donation, most generous first.
func (s *Stats) Donors(ctx context.Context, q db.DonorQuery) (*db.PagedUsers, error) {
	q.MinDonated = donorThreshold
	res, err := s.repo.ListDonors(ctx, q)
	if err != nil {
		return nil, Internalf(err, "list donors")
	}
	return res, nil
}
