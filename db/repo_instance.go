package db

import (
	"context"

	"Gin_postgres_redis_library/models"
)

func (r *Repo) CreateInstance(ctx context.Context, in *models.Instance) error {
	return r.DB.WithContext(ctx).Create(in).Error
}

func (r *Repo) FindInstanceByID(ctx context.Context, id string) (*models.Instance, error) {
	var in models.Instance
	if err := r.DB.WithContext(ctx).First(&in, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &in, nil
}

// LockInstance reads the row with FOR UPDATE; meant for use inside a transaction.
func (r *Repo) LockInstance(ctx context.Context, id string) (*models.Instance, error) {
	var in models.Instance
	if err := r.DB.WithContext(ctx).Clauses(forUpdate).First(&in, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &in, nil
}

// CountInstances counts copies of a book; status "" counts every copy.
func (r *Repo) CountInstances(ctx context.Context, bookID string, status models.InstanceStatus) (int64, error) {
	q := r.DB.WithContext(ctx).Model(&models.Instance{}).Where("book_id = ?", bookID)
	if status != "" {
		q = q.Where("status = ?", status)
	}
	var n int64
	err := q.Count(&n).Error
	return n, err
}

func (r *Repo) CountInstancesByDonor(ctx context.Context, donorID string) (int64, error) {
	var n int64
	err := r.DB.WithContext(ctx).Model(&models.Instance{}).
		Where("donor_id = ?", donorID).
		Count(&n).Error
	return n, err
}

// TransitionInstance applies upd only if the copy is still in status from.
// It returns the number of rows changed (0 or 1).
func (r *Repo) TransitionInstance(ctx context.Context, id string, from models.InstanceStatus, upd map[string]any) (int64, error) {
	res := r.DB.WithContext(ctx).Model(&models.Instance{}).
		Where("id = ? AND status = ?", id, from).
		Updates(upd)
	return res.RowsAffected, res.Error
}

type InstanceQuery struct {
	BookID  string
	DonorID string
	Status  models.InstanceStatus
	Page    int
	Size    int
}

type PagedInstances struct {
	Total int64             `json:"total"`
	Items []models.Instance `json:"items"`
}

func (r *Repo) ListInstances(ctx context.Context, q InstanceQuery) (*PagedInstances, error) {
	page, size := normalizePage(q.Page, q.Size)

	tx := r.DB.WithContext(ctx).Model(&models.Instance{})
	if q.BookID != "" {
		tx = tx.Where("book_id = ?", q.BookID)
	}
	if q.DonorID != "" {
		tx = tx.Where("donor_id = ?", q.DonorID)
	}
	if q.Status != "" {
		tx = tx.Where("status = ?", q.Status)
	}

	var total int64
	if err := tx.Count(&total).Error; err != nil {
		return nil, err
	}
	var items []models.Instance
	if err := tx.
		Order("book_id, instance_no").
		Offset((page - 1) * size).
		Limit(size).
		Find(&items).Error; err != nil {
		return nil, err
	}
	return &PagedInstances{Total: total, Items: items}, nil
}

func normalizePage(page, size int) (int, int) {
	if page <= 0 {
		page = 1
	}
	if size <= 0 || size > 100 {
		size = 20
	}
	return page, size
}
