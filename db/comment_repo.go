package db

import (
	"context"

	"github.com/google/uuid"
	"github.com/pkg/errors"
	"github.com/techagentng/ain/models"
	"gorm.io/gorm"
)

// CommentRepository never returns soft-deleted comments.
type CommentRepository interface {
	CreateComment(ctx context.Context, comment *models.Comment) error
	FindCommentByID(ctx context.Context, id uuid.UUID) (*models.Comment, error)
	UpdateComment(ctx context.Context, comment *models.Comment) error
	ListCommentsByReport(ctx context.Context, reportID uuid.UUID, offset, limit int) ([]models.Comment, error)
	CountCommentsByReport(ctx context.Context, reportID uuid.UUID) (int64, error)
}

type commentRepo struct {
	DB *gorm.DB
}

func NewCommentRepo(db *GormDB) CommentRepository {
	return &commentRepo{db.DB}
}

func (c *commentRepo) CreateComment(ctx context.Context, comment *models.Comment) error {
	return translate(c.DB.WithContext(ctx).Create(comment).Error, "create comment")
}

func (c *commentRepo) FindCommentByID(ctx context.Context, id uuid.UUID) (*models.Comment, error) {
	var comment models.Comment
	err := c.DB.WithContext(ctx).Preload("User").
		Where("id = ? AND is_deleted = ?", id, false).
		First(&comment).Error
	if err != nil {
		return nil, translate(err, "find comment")
	}
	return &comment, nil
}

// UpdateComment persists content, updated_at and the deleted flag.
func (c *commentRepo) UpdateComment(ctx context.Context, comment *models.Comment) error {
	err := c.DB.WithContext(ctx).Model(comment).
		Select("Content", "UpdatedAt", "IsDeleted").
		Updates(comment).Error
	return translate(err, "update comment")
}

func (c *commentRepo) ListCommentsByReport(ctx context.Context, reportID uuid.UUID, offset, limit int) ([]models.Comment, error) {
	var comments []models.Comment
	err := c.DB.WithContext(ctx).Preload("User").
		Where("report_id = ? AND is_deleted = ?", reportID, false).
		Order("created_at DESC").
		Offset(offset).
		Limit(limit).
		Find(&comments).Error
	return comments, errors.Wrap(err, "list comments")
}

func (c *commentRepo) CountCommentsByReport(ctx context.Context, reportID uuid.UUID) (int64, error) {
	var count int64
	err := c.DB.WithContext(ctx).Model(&models.Comment{}).
		Where("report_id = ? AND is_deleted = ?", reportID, false).
		Count(&count).Error
	return count, errors.Wrap(err, "count comments")
}
