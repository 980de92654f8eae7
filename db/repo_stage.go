package db

import (
	"context"
	"time"

	"Gin_postgres_redis_library/models"

	"gorm.io/gorm/clause"
)

func (r *Repo) FindStage(ctx context.Context, userID, bookID string) (*models.UserBookStage, error) {
	var s models.UserBookStage
	if err := r.DB.WithContext(ctx).
		First(&s, "user_id = ? AND book_id = ?", userID, bookID).Error; err != nil {
		return nil, err
	}
	return &s, nil
}

// PutStage inserts or overwrites the single stage row of (user, book).
func (r *Repo) PutStage(ctx context.Context, s *models.UserBookStage) error {
	s.UpdatedAt = time.Now().UTC()
	return r.DB.WithContext(ctx).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "user_id"}, {Name: "book_id"}},
		DoUpdates: clause.AssignmentColumns([]string{"stage", "borrow_id", "updated_at"}),
	}).Create(s).Error
}

// DeleteStage removes the row only while it is still in stage.
func (r *Repo) DeleteStage(ctx context.Context, userID, bookID string, stage models.Stage) (int64, error) {
	res := r.DB.WithContext(ctx).
		Where("user_id = ? AND book_id = ? AND stage = ?", userID, bookID, stage).
		Delete(&models.UserBookStage{})
	return res.RowsAffected, res.Error
}

func (r *Repo) ListStages(ctx context.Context, userID string) ([]models.UserBookStage, error) {
	var ss []models.UserBookStage
	err := r.DB.WithContext(ctx).
		Where("user_id = ?", userID).
		Order("updated_at DESC").
		Find(&ss).Error
	return ss, err
}

// BookIDsInStage is the derived "requestedBooks"/"approvedBooks"/... view.
func (r *Repo) BookIDsInStage(ctx context.Context, userID string, stage models.Stage) ([]string, error) {
	var ids []string
	err := r.DB.WithContext(ctx).Model(&models.UserBookStage{}).
		Where("user_id = ? AND stage = ?", userID, stage).
		Order("updated_at").
		Pluck("book_id", &ids).Error
	return ids, err
}
