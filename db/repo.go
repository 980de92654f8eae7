package db

import (
	"context"
	"errors"
	"time"

	"Gin_postgres_redis_library/models"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// Repo wraps a *gorm.DB that is either the pool or an open transaction.
type Repo struct{ DB *gorm.DB }

func NewRepo(db *gorm.DB) *Repo { return &Repo{DB: db} }

// WithTx returns a Repo whose calls all run inside tx.
func (r *Repo) WithTx(tx *gorm.DB) *Repo { return &Repo{DB: tx} }

// IsNotFound is true for gorm's missing-row error.
func IsNotFound(err error) bool { return errors.Is(err, gorm.ErrRecordNotFound) }

var forUpdate = clause.Locking{Strength: "UPDATE"}

// Users

func (r *Repo) CreateUser(ctx context.Context, u *models.User) error {
	return r.DB.WithContext(ctx).Create(u).Error
}

func (r *Repo) FindUserByID(ctx context.Context, id string) (*models.User, error) {
	var u models.User
	if err := r.DB.WithContext(ctx).First(&u, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &u, nil
}

func (r *Repo) TouchUserSeen(ctx context.Context, userID string) error {
	return r.DB.WithContext(ctx).Model(&models.User{}).
		Where("id = ?", userID).
		Update("last_seen_at", time.Now().UTC()).Error
}

func (r *Repo) SetUserDonatedCount(ctx context.Context, userID string, n int64) error {
	res := r.DB.WithContext(ctx).Model(&models.User{}).
		Where("id = ?", userID).
		Update("donated_count", n)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

// Books

func (r *Repo) CreateBook(ctx context.Context, b *models.Book) error {
	return r.DB.WithContext(ctx).Create(b).Error
}

func (r *Repo) FindBookByID(ctx context.Context, id string) (*models.Book, error) {
	var b models.Book
	if err := r.DB.WithContext(ctx).First(&b, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &b, nil
}

// SetBookCounts writes reconciled counters. A nil instanceCnt leaves the total alone.
func (r *Repo) SetBookCounts(ctx context.Context, bookID string, instanceCnt *int64, availableCnt int64) error {
	upd := map[string]any{"available_cnt": availableCnt}
	if instanceCnt != nil {
		upd["instance_cnt"] = *instanceCnt
	}
	res := r.DB.WithContext(ctx).Model(&models.Book{}).
		Where("id = ?", bookID).
		Updates(upd)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

// Notifications

func (r *Repo) CreateNotification(ctx context.Context, n *models.Notification) error {
	return r.DB.WithContext(ctx).Create(n).Error
}

func (r *Repo) ListNotifications(ctx context.Context, userID string, limit int) ([]models.Notification, error) {
	if limit <= 0 || limit > 100 {
		limit = 20
	}
	var ns []models.Notification
	err := r.DB.WithContext(ctx).
		Where("user_id = ? OR type = ?", userID, models.NotificationGeneral).
		Order("created_at DESC").
		Limit(limit).
		Find(&ns).Error
	return ns, err
}
