package db

import (
	"context"
	"strings"

	"Gin_postgres_redis_library/models"
)

// LibraryCounts are whole-table totals for the dashboard.
type LibraryCounts struct {
	TotalBooks     int64 `json:"totalBooks"`
	TotalDonations int64 `json:"totalDonations"`
	TotalUsers     int64 `json:"totalUsers"`
	ActiveBorrows  int64 `json:"activeBorrows"`
}

func (r *Repo) CountLibrary(ctx context.Context) (*LibraryCounts, error) {
	var out LibraryCounts
	tx := r.DB.WithContext(ctx)
	if err := tx.Model(&models.Book{}).Count(&out.TotalBooks).Error; err != nil {
		return nil, err
	}
	if err := tx.Model(&models.Instance{}).Count(&out.TotalDonations).Error; err != nil {
		return nil, err
	}
	if err := tx.Model(&models.User{}).Count(&out.TotalUsers).Error; err != nil {
		return nil, err
	}
	if err := tx.Model(&models.Borrow{}).
		Where("status = ?", models.BorrowTaken).
		Count(&out.ActiveBorrows).Error; err != nil {
		return nil, err
	}
	return &out, nil
}

type DonorQuery struct {
	Q          string // matches username, first or last name
	MinDonated int64  // strictly greater than
	Page       int
	Size       int
}

type PagedUsers struct {
	Total int64         `json:"total"`
	Items []models.User `json:"items"`
}

func (r *Repo) ListDonors(ctx context.Context, q DonorQuery) (*PagedUsers, error) {
	page, size := normalizePage(q.Page, q.Size)

	tx := r.DB.WithContext(ctx).Model(&models.User{}).
		Where("donated_count > ?", q.MinDonated)
	if s := strings.TrimSpace(q.Q); s != "" {
		like := "%" + strings.ToLower(s) + "%"
		tx = tx.Where("LOWER(username) LIKE ? OR LOWER(first_name) LIKE ? OR LOWER(last_name) LIKE ?", like, like, like)
	}

	var total int64
	if err := tx.Count(&total).Error; err != nil {
		return nil, err
	}
	var items []models.User
	if err := tx.
		Order("donated_count DESC, username").
		Offset((page - 1) * size).
		Limit(size).
		Find(&items).Error; err != nil {
		return nil, err
	}
	return &PagedUsers{Total: total, Items: items}, nil
}
