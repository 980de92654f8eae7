package library

import (
	"context"

	"Gin_postgres_redis_library/db"
	"Gin_postgres_redis_library/models"
)

// UserBookSets is the per-user view of where each borrowed book sits. The
// sets are derived from the stage rows, so they are disjoint by construction.
type UserBookSets struct {
	RequestedBooks []string `json:"requestedBooks"`
	ApprovedBooks  []string `json:"approvedBooks"`
	BorrowedBooks  []string `json:"borrowedBooks"`
	ReturnedBooks  []string `json:"returnedBooks"`
}

// Tracker keeps the (user, book) stage in step with the borrow workflow.
type Tracker struct {
	repo *db.Repo
}

func NewTracker(repo *db.Repo) *Tracker { return &Tracker{repo: repo} }

// beginStage opens a new lending cycle. A book already requested, approved or
// borrowed by the same user cannot be requested again until it is returned.
func beginStage(ctx context.Context, repo *db.Repo, userID, bookID, borrowID string) error {
	cur, err := repo.FindStage(ctx, userID, bookID)
	switch {
	case err == nil && cur.Stage.Active():
		return InvalidStatef("book %s is already %s for this user", bookID, cur.Stage)
	case err != nil && !db.IsNotFound(err):
		return err
	}
	return repo.PutStage(ctx, &models.UserBookStage{
		UserID: userID, BookID: bookID, Stage: models.StageRequested, BorrowID: borrowID,
	})
}

// moveStage sets the stage after the borrow row has already been moved; the
// borrow status is authoritative so the stage row is overwritten, not compared.
func moveStage(ctx context.Context, repo *db.Repo, b *models.Borrow, to models.Stage) error {
	return repo.PutStage(ctx, &models.UserBookStage{
		UserID: b.UserID, BookID: b.BookID, Stage: to, BorrowID: b.ID,
	})
}

func dropRequested(ctx context.Context, repo *db.Repo, userID, bookID string) error {
	_, err := repo.DeleteStage(ctx, userID, bookID, models.StageRequested)
	return err
}

// Sets returns the four book-id sets of a user.
func (t *Tracker) Sets(ctx context.Context, userID string) (*UserBookSets, error) {
	if _, err := t.repo.FindUserByID(ctx, userID); err != nil {
		if db.IsNotFound(err) {
			return nil, NotFoundf("user %s not found", userID)
		}
		return nil, Internalf(err, "load user")
	}
	stages, err := t.repo.ListStages(ctx, userID)
	if err != nil {
		return nil, Internalf(err, "load user book stages")
	}
	sets := &UserBookSets{
		RequestedBooks: []string{},
		ApprovedBooks:  []string{},
		BorrowedBooks:  []string{},
		ReturnedBooks:  []string{},
	}
	for _, s := range stages {
		switch s.Stage {
		case models.StageRequested:
			sets.RequestedBooks = append(sets.RequestedBooks, s.BookID)
		case models.StageApproved:
			sets.ApprovedBooks = append(sets.ApprovedBooks, s.BookID)
		case models.StageBorrowed:
			sets.BorrowedBooks = append(sets.BorrowedBooks, s.BookID)
		case models.StageReturned:
			sets.ReturnedBooks = append(sets.ReturnedBooks, s.BookID)
		}
	}
	return sets, nil
}

// Books returns the ids of a user's books in one stage.
func (t *Tracker) Books(ctx context.Context, userID string, stage models.Stage) ([]string, error) {
	if !stage.Valid() {
		return nil, InvalidInputf("unknown stage %q", stage)
	}
	ids, err := t.repo.BookIDsInStage(ctx, userID, stage)
	if err != nil {
		return nil, Internalf(err, "load %s books", stage)
	}
	return ids, nil
}
