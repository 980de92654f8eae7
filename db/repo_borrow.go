package db

import (
	"context"
	"time"

	"Gin_postgres_redis_library/models"
)

func (r *Repo) CreateBorrow(ctx context.Context, b *models.Borrow) error {
	return r.DB.WithContext(ctx).Create(b).Error
}

func (r *Repo) FindBorrowByID(ctx context.Context, id string) (*models.Borrow, error) {
	var b models.Borrow
	if err := r.DB.WithContext(ctx).First(&b, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &b, nil
}

// LockBorrow reads the row with FOR UPDATE; meant for use inside a transaction.
func (r *Repo) LockBorrow(ctx context.Context, id string) (*models.Borrow, error) {
	var b models.Borrow
	if err := r.DB.WithContext(ctx).Clauses(forUpdate).First(&b, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &b, nil
}

// FindOwnedBorrow matches id, owner and status in one filter.
func (r *Repo) FindOwnedBorrow(ctx context.Context, id, userID string, status models.BorrowStatus) (*models.Borrow, error) {
	var b models.Borrow
	if err := r.DB.WithContext(ctx).Clauses(forUpdate).
		First(&b, "id = ? AND user_id = ? AND status = ?", id, userID, status).Error; err != nil {
		return nil, err
	}
	return &b, nil
}

// DeleteOwnedBorrow deletes only while the row still matches owner and status.
func (r *Repo) DeleteOwnedBorrow(ctx context.Context, id, userID string, status models.BorrowStatus) (int64, error) {
	res := r.DB.WithContext(ctx).
		Where("id = ? AND user_id = ? AND status = ?", id, userID, status).
		Delete(&models.Borrow{})
	return res.RowsAffected, res.Error
}

// TransitionBorrow applies upd only if the borrow is still in status from.
func (r *Repo) TransitionBorrow(ctx context.Context, id string, from models.BorrowStatus, upd map[string]any) (int64, error) {
	res := r.DB.WithContext(ctx).Model(&models.Borrow{}).
		Where("id = ? AND status = ?", id, from).
		Updates(upd)
	return res.RowsAffected, res.Error
}

type BorrowQuery struct {
	UserID  string
	BookID  string
	Status  models.BorrowStatus
	Overdue bool // borrowed and past due
	Page    int
	Size    int
}

type PagedBorrows struct {
	Total int64           `json:"total"`
	Items []models.Borrow `json:"items"`
}

func (r *Repo) ListBorrows(ctx context.Context, q BorrowQuery) (*PagedBorrows, error) {
	page, size := normalizePage(q.Page, q.Size)

	tx := r.DB.WithContext(ctx).Model(&models.Borrow{})
	if q.UserID != "" {
		tx = tx.Where("user_id = ?", q.UserID)
	}
	if q.BookID != "" {
		tx = tx.Where("book_id = ?", q.BookID)
	}
	if q.Status != "" {
		tx = tx.Where("status = ?", q.Status)
	}
	if q.Overdue {
		tx = tx.Where("status = ? AND due_date IS NOT NULL AND due_date < ?", models.BorrowTaken, time.Now().UTC())
	}

	var total int64
	if err := tx.Count(&total).Error; err != nil {
		return nil, err
	}
	var items []models.Borrow
	if err := tx.
		Order("created_at DESC").
		Offset((page - 1) * size).
		Limit(size).
		Find(&items).Error; err != nil {
		return nil, err
	}
	return &PagedBorrows{Total: total, Items: items}, nil
}
