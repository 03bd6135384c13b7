package db

import (
	"context"

	"github.com/google/uuid"
	"github.com/pkg/errors"
	"github.com/techagentng/ain/models"
	"gorm.io/gorm"
)

type AttachmentRepository interface {
	CreateAttachment(ctx context.Context, attachment *models.Attachment) error
	ListAttachmentsByReport(ctx context.Context, reportID uuid.UUID) ([]models.Attachment, error)
}

type attachmentRepo struct {
	DB *gorm.DB
}

func NewAttachmentRepo(db *GormDB) AttachmentRepository {
	return &attachmentRepo{db.DB}
}

func (a *attachmentRepo) CreateAttachment(ctx context.Context, attachment *models.Attachment) error {
	return translate(a.DB.WithContext(ctx).Create(attachment).Error, "create attachment")
}

func (a *attachmentRepo) ListAttachmentsByReport(ctx context.Context, reportID uuid.UUID) ([]models.Attachment, error) {
	var attachments []models.Attachment
	err := a.DB.WithContext(ctx).Where("report_id = ?", reportID).Order("created_at").Find(&attachments).Error
	return attachments, errors.Wrap(err, "list attachments")
}
