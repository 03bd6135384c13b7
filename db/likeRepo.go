package db

import (
	"context"

	"github.com/google/uuid"
	"github.com/pkg/errors"
	"github.com/techagentng/ain/models"
	"gorm.io/gorm"
)

// LikeRepository interface
type LikeRepository interface {
	ToggleLike(ctx context.Context, reportID, userID uuid.UUID) (bool, error)
	CountLikes(ctx context.Context, reportID uuid.UUID) (int64, error)
	HasLiked(ctx context.Context, reportID, userID uuid.UUID) (bool, error)
}

// likeRepo struct
type likeRepo struct {
	DB *gorm.DB
}

// NewLikeRepo creates a new instance of LikeRepository
func NewLikeRepo(db *GormDB) LikeRepository {
	return &likeRepo{db.DB}
}

// ToggleLike removes the user's like when present and adds one otherwise.
// It returns true when the report ends up liked.
func (lk *likeRepo) ToggleLike(ctx context.Context, reportID, userID uuid.UUID) (bool, error) {
	tx := lk.DB.WithContext(ctx).Begin()
	if tx.Error != nil {
		return false, errors.Wrap(tx.Error, "begin toggle like")
	}

	var existing models.Like
	err := tx.Where("report_id = ? AND user_id = ?", reportID, userID).First(&existing).Error
	switch {
	case err == nil:
		if err := tx.Delete(&existing).Error; err != nil {
			tx.Rollback()
			return false, errors.Wrap(err, "remove like")
		}
		return false, errors.Wrap(tx.Commit().Error, "commit unlike")
	case !errors.Is(err, gorm.ErrRecordNotFound):
		tx.Rollback()
		return false, errors.Wrap(err, "look up like")
	}

	like := models.Like{ID: uuid.New(), ReportID: reportID, UserID: userID}
	if err := tx.Create(&like).Error; err != nil {
		tx.Rollback()
		return false, translate(err, "create like")
	}
	return true, errors.Wrap(tx.Commit().Error, "commit like")
}

func (lk *likeRepo) CountLikes(ctx context.Context, reportID uuid.UUID) (int64, error) {
	var count int64
	err := lk.DB.WithContext(ctx).Model(&models.Like{}).Where("report_id = ?", reportID).Count(&count).Error
	return count, errors.Wrap(err, "count likes")
}

func (lk *likeRepo) HasLiked(ctx context.Context, reportID, userID uuid.UUID) (bool, error) {
	var count int64
	err := lk.DB.WithContext(ctx).Model(&models.Like{}).
		Where("report_id = ? AND user_id = ?", reportID, userID).
		Count(&count).Error
	return count > 0, errors.Wrap(err, "has liked")
}
