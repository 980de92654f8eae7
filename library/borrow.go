package library

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"Gin_postgres_redis_library/db"
	"Gin_postgres_redis_library/models"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Deps are the collaborators shared by the workflow services.
type Deps struct {
	Repo          *db.Repo
	Tx            *Coordinator
	Notifier      Notifier
	NotifyTimeout time.Duration
	Log           *slog.Logger
	Now           func() time.Time
}

func (d *Deps) defaults() {
	if d.Log == nil {
		d.Log = slog.Default()
	}
	if d.Now == nil {
		d.Now = func() time.Time { return time.Now().UTC() }
	}
	if d.NotifyTimeout <= 0 {
		d.NotifyTimeout = 2 * time.Second
	}
}

// BorrowService drives a borrow through
// WAITLIST -> ACCEPTED -> BORROWED -> RETURNED, or deletes it while WAITLIST.
type BorrowService struct {
	Deps
}

func NewBorrowService(d Deps) *BorrowService {
	d.defaults()
	return &BorrowService{Deps: d}
}

// RequestBorrow puts the user on the wait list for a book.
func (s *BorrowService) RequestBorrow(ctx context.Context, bookID, userID string) (*models.Borrow, error) {
	var out *models.Borrow
	err := s.Tx.Run(ctx, "borrow.request", func(tx *gorm.DB) error {
		repo := s.Repo.WithTx(tx)
		u, err := repo.FindUserByID(ctx, userID)
		if err != nil {
			return notFoundOr(err, "user %s not found", userID)
		}
		book, err := repo.FindBookByID(ctx, bookID)
		if err != nil {
			return notFoundOr(err, "book %s not found", bookID)
		}

		b := &models.Borrow{
			ID:       uuid.NewString(),
			UserID:   u.ID,
			UserName: u.FullName(),
			BookID:   book.ID,
			BookName: book.Title,
			ImgURL:   book.CoverURL,
			Status:   models.BorrowWaitList,
		}
		if err := beginStage(ctx, repo, u.ID, book.ID, b.ID); err != nil {
			return err
		}
		if err := repo.CreateBorrow(ctx, b); err != nil {
			return err
		}
		out = b
		return nil
	})
	if err != nil {
		return nil, err
	}
	return out, nil
}

// CancelRequest deletes a request that is still waiting and owned by userID.
// A request that was already accepted, or belongs to someone else, is
// reported as not found.
func (s *BorrowService) CancelRequest(ctx context.Context, borrowID, userID string) (*models.Borrow, error) {
	var out *models.Borrow
	err := s.Tx.Run(ctx, "borrow.cancel", func(tx *gorm.DB) error {
		repo := s.Repo.WithTx(tx)
		b, err := repo.FindOwnedBorrow(ctx, borrowID, userID, models.BorrowWaitList)
		if err != nil {
			return notFoundOr(err, "no waiting request %s for this user", borrowID)
		}
		n, err := repo.DeleteOwnedBorrow(ctx, borrowID, userID, models.BorrowWaitList)
		if err != nil {
			return err
		}
		if n == 0 {
			return NotFoundf("no waiting request %s for this user", borrowID)
		}
		if err := dropRequested(ctx, repo, b.UserID, b.BookID); err != nil {
			return err
		}
		out = b
		return nil
	})
	if err != nil {
		return nil, err
	}
	return out, nil
}

// AcceptBorrow reserves an available copy for a waiting request.
func (s *BorrowService) AcceptBorrow(ctx context.Context, borrowID string, in AcceptBorrowInput) (*models.Borrow, error) {
	if err := in.Validate(); err != nil {
		return nil, err
	}
	var out *models.Borrow
	err := s.Tx.Run(ctx, "borrow.accept", func(tx *gorm.DB) error {
		repo := s.Repo.WithTx(tx)
		b, err := loadBorrow(ctx, repo, borrowID, models.BorrowWaitList)
		if err != nil {
			return err
		}
		inst, err := repo.LockInstance(ctx, in.InstanceID)
		if err != nil {
			return notFoundOr(err, "instance %s not found", in.InstanceID)
		}
		if inst.BookID != b.BookID {
			return InvalidStatef("instance %s is a copy of another book", inst.ID)
		}
		if inst.Status != models.InstanceAvailable {
			return InvalidStatef("instance %s is %s, not %s", inst.ID, inst.Status, models.InstanceAvailable)
		}

		n, err := repo.TransitionInstance(ctx, inst.ID, models.InstanceAvailable, map[string]any{
			"status":        models.InstanceReserved,
			"borrower_id":   b.UserID,
			"borrower_name": b.UserName,
		})
		if err != nil {
			return err
		}
		if n == 0 {
			return InvalidStatef("instance %s is no longer available", inst.ID)
		}

		now := s.Now()
		if err := advance(ctx, repo, b, models.BorrowAccepted, map[string]any{
			"instance_id":   inst.ID,
			"instance_uid":  inst.UID,
			"accepted_date": now,
			"note":          in.Note,
		}); err != nil {
			return err
		}
		if _, err := RecomputeAvailable(ctx, repo, b.BookID); err != nil {
			return err
		}
		if err := moveStage(ctx, repo, b, models.StageApproved); err != nil {
			return err
		}
		out, err = repo.FindBorrowByID(ctx, b.ID)
		return err
	})
	if err != nil {
		return nil, err
	}

	emit(ctx, s.Log, s.Notifier, s.NotifyTimeout, models.Notification{
		Title:  fmt.Sprintf("Your request to borrow %s has been accepted", out.BookName),
		Body:   in.Note,
		Type:   models.NotificationIndividual,
		UserID: out.UserID,
	})
	return out, nil
}

// MarkTaken records that the borrower picked up the reserved copy.
func (s *BorrowService) MarkTaken(ctx context.Context, borrowID string, in MarkTakenInput) (*models.Borrow, error) {
	if err := in.Validate(); err != nil {
		return nil, err
	}
	var out *models.Borrow
	err := s.Tx.Run(ctx, "borrow.taken", func(tx *gorm.DB) error {
		repo := s.Repo.WithTx(tx)
		b, err := loadBorrow(ctx, repo, borrowID, models.BorrowAccepted)
		if err != nil {
			return err
		}
		instID, err := boundInstance(b)
		if err != nil {
			return err
		}

		if err := advance(ctx, repo, b, models.BorrowTaken, map[string]any{
			"taken_date": in.TakenDate.UTC(),
			"due_date":   in.DueDate.UTC(),
			"note":       in.Note,
		}); err != nil {
			return err
		}
		if err := moveInstance(ctx, repo, instID, models.InstanceReserved, map[string]any{
			"status": models.InstanceTaken,
		}); err != nil {
			return err
		}
		if err := moveStage(ctx, repo, b, models.StageBorrowed); err != nil {
			return err
		}
		out, err = repo.FindBorrowByID(ctx, b.ID)
		return err
	})
	if err != nil {
		return nil, err
	}

	emit(ctx, s.Log, s.Notifier, s.NotifyTimeout, models.Notification{
		Title:  fmt.Sprintf("The book %s is marked as taken by you", out.BookName),
		Body:   fmt.Sprintf("You have taken the book %s, due %s. If this is a mistake, contact us.", out.BookName, in.DueDate.Format("2006-01-02")),
		Type:   models.NotificationIndividual,
		UserID: out.UserID,
	})
	return out, nil
}

// MarkReturned puts the copy back on the shelf and closes the borrow.
func (s *BorrowService) MarkReturned(ctx context.Context, borrowID string, in MarkReturnedInput) (*models.Borrow, error) {
	if err := in.Validate(); err != nil {
		return nil, err
	}
	returned := in.ReturnedDate
	if returned.IsZero() {
		returned = s.Now()
	}
	var out *models.Borrow
	err := s.Tx.Run(ctx, "borrow.returned", func(tx *gorm.DB) error {
		repo := s.Repo.WithTx(tx)
		b, err := loadBorrow(ctx, repo, borrowID, models.BorrowTaken)
		if err != nil {
			return err
		}
		if b.TakenDate != nil && returned.Before(*b.TakenDate) {
			return InvalidInputf("ReturnedDate must not be before TakenDate")
		}
		instID, err := boundInstance(b)
		if err != nil {
			return err
		}

		if err := advance(ctx, repo, b, models.BorrowReturned, map[string]any{
			"returned_date": returned.UTC(),
		}); err != nil {
			return err
		}
		if err := moveInstance(ctx, repo, instID, models.InstanceTaken, map[string]any{
			"status":        models.InstanceAvailable,
			"borrower_id":   nil,
			"borrower_name": "",
		}); err != nil {
			return err
		}
		if _, err := RecomputeAvailable(ctx, repo, b.BookID); err != nil {
			return err
		}
		if err := moveStage(ctx, repo, b, models.StageReturned); err != nil {
			return err
		}
		out, err = repo.FindBorrowByID(ctx, b.ID)
		return err
	})
	if err != nil {
		return nil, err
	}

	emit(ctx, s.Log, s.Notifier, s.NotifyTimeout, models.Notification{
		Title:  fmt.Sprintf("The book %s is marked as returned", out.BookName),
		Body:   fmt.Sprintf("You have returned the book %s. If this is a mistake, contact us.", out.BookName),
		Type:   models.NotificationIndividual,
		UserID: out.UserID,
	})
	return out, nil
}

func (s *BorrowService) GetBorrow(ctx context.Context, id string) (*models.Borrow, error) {
	b, err := s.Repo.FindBorrowByID(ctx, id)
	if err != nil {
		if db.IsNotFound(err) {
			return nil, NotFoundf("borrow %s not found", id)
		}
		return nil, Internalf(err, "load borrow")
	}
	return b, nil
}

func (s *BorrowService) ListBorrows(ctx context.Context, q db.BorrowQuery) (*db.PagedBorrows, error) {
	if q.Status != "" && !q.Status.Valid() {
		return nil, InvalidInputf("unknown borrow status %q", q.Status)
	}
	res, err := s.Repo.ListBorrows(ctx, q)
	if err != nil {
		return nil, Internalf(err, "list borrows")
	}
	return res, nil
}

// loadBorrow locks the borrow and checks its source status.
func loadBorrow(ctx context.Context, repo *db.Repo, id string, want models.BorrowStatus) (*models.Borrow, error) {
	b, err := repo.LockBorrow(ctx, id)
	if err != nil {
		return nil, notFoundOr(err, "borrow %s not found", id)
	}
	if b.Status != want {
		return nil, InvalidStatef("borrow %s is %s, expected %s", id, b.Status, want)
	}
	return b, nil
}

// advance moves the borrow forward only if nobody else moved it first.
func advance(ctx context.Context, repo *db.Repo, b *models.Borrow, to models.BorrowStatus, upd map[string]any) error {
	upd["status"] = to
	n, err := repo.TransitionBorrow(ctx, b.ID, b.Status, upd)
	if err != nil {
		return err
	}
	if n == 0 {
		return InvalidStatef("borrow %s is no longer %s", b.ID, b.Status)
	}
	return nil
}

func moveInstance(ctx context.Context, repo *db.Repo, id string, from models.InstanceStatus, upd map[string]any) error {
	n, err := repo.TransitionInstance(ctx, id, from, upd)
	if err != nil {
		return err
	}
	if n == 0 {
		if _, ferr := repo.FindInstanceByID(ctx, id); ferr != nil {
			return notFoundOr(ferr, "instance %s not found", id)
		}
		return InvalidStatef("instance %s is not %s", id, from)
	}
	return nil
}

func boundInstance(b *models.Borrow) (string, error) {
	if b.InstanceID == nil || *b.InstanceID == "" {
		return "", InvalidStatef("borrow %s has no instance bound", b.ID)
	}
	return *b.InstanceID, nil
}

// notFoundOr maps gorm's missing-row error to a NotFound *Error and passes
// anything else through for the coordinator to classify.
func notFoundOr(err error, format string, args ...any) error {
	if db.IsNotFound(err) {
		return NotFoundf(format, args...)
	}
	return err
}
