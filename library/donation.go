package library

import (
	"context"
	"fmt"

	"Gin_postgres_redis_library/db"
	"Gin_postgres_redis_library/models"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// DonationService registers donated copies.
type DonationService struct {
	Deps
}

func NewDonationService(d Deps) *DonationService {
	d.defaults()
	return &DonationService{Deps: d}
}

// CreateDonation adds a numbered copy of a book and reconciles the book's
// counters and the donor's donation count, all in one transaction.
func (s *DonationService) CreateDonation(ctx context.Context, in CreateDonationInput) (*models.Instance, error) {
	if err := in.Validate(); err != nil {
		return nil, err
	}
	var out *models.Instance
	err := s.Tx.Run(ctx, "donation.create", func(tx *gorm.DB) error {
		repo := s.Repo.WithTx(tx)
		donor, err := repo.FindUserByID(ctx, in.DonorID)
		if err != nil {
			return notFoundOr(err, "donor %s not found", in.DonorID)
		}
		book, err := repo.FindBookByID(ctx, in.BookID)
		if err != nil {
			return notFoundOr(err, "book %s not found", in.BookID)
		}

		prev, err := repo.CountInstances(ctx, book.ID, "")
		if err != nil {
			return err
		}
		status := in.Status
		if status == "" {
			status = models.InstanceAvailable
		}
		inst := &models.Instance{
			ID:          uuid.NewString(),
			InstanceNo:  prev + 1,
			BookID:      book.ID,
			BookName:    book.Title,
			BookImg:     book.CoverURL,
			DonorID:     donor.ID,
			DonorName:   donor.FullName(),
			Status:      status,
			Note:        in.Note,
			ImgURL:      in.ImgURL,
			DonatedDate: in.DonatedDate,
		}
		if book.UID != nil {
			inst.UID = fmt.Sprintf("%d-%d", *book.UID, inst.InstanceNo)
		}
		if err := repo.CreateInstance(ctx, inst); err != nil {
			return err
		}

		if _, err := RecomputeInventory(ctx, repo, book.ID); err != nil {
			return err
		}
		if _, err := RecomputeDonatedCount(ctx, repo, donor.ID); err != nil {
			return err
		}
		out = inst
		return nil
	})
	if err != nil {
		return nil, err
	}
	s.Log.Info("donation recorded", "instance", out.ID, "uid", out.UID, "book", out.BookID, "donor", out.DonorID)
	return out, nil
}

func (s *DonationService) GetDonation(ctx context.Context, id string) (*models.Instance, error) {
	inst, err := s.Repo.FindInstanceByID(ctx, id)
	if err != nil {
		if db.IsNotFound(err) {
			return nil, NotFoundf("donation %s not found", id)
		}
		return nil, Internalf(err, "load donation")
	}
	return inst, nil
}

func (s *DonationService) ListDonations(ctx context.Context, q db.InstanceQuery) (*db.PagedInstances, error) {
	if q.Status != "" && !q.Status.Valid() {
		return nil, InvalidInputf("unknown instance status %q", q.Status)
	}
	res, err := s.Repo.ListInstances(ctx, q)
	if err != nil {
		return nil, Internalf(err, "list donations")
	}
	return res, nil
}
