package db

import (
	"context"
	"strings"

	"github.com/google/uuid"
	"github.com/pkg/errors"
	"github.com/techagentng/ain/models"
	"gorm.io/gorm"
)

type ReportRepository interface {
	CreateReport(ctx context.Context, report *models.Report) error
	GetReportByID(ctx context.Context, id uuid.UUID) (*models.Report, error)
	GetReportWithRelations(ctx context.Context, id uuid.UUID) (*models.Report, error)
	UpdateReport(ctx context.Context, report *models.Report) error
	UpdateStatus(ctx context.Context, id uuid.UUID, status models.ReportStatus) error
	DeleteReport(ctx context.Context, id uuid.UUID) error
	ListReports(ctx context.Context, filter models.ReportFilter, offset, limit int) ([]models.Report, error)
	SummarizeReports(ctx context.Context, filter models.ReportFilter) (models.ReportStatusSummary, error)
}

type reportRepo struct {
	DB *gorm.DB
}

func NewReportRepo(db *GormDB) ReportRepository {
	return &reportRepo{db.DB}
}

func (r *reportRepo) CreateReport(ctx context.Context, report *models.Report) error {
	return translate(r.DB.WithContext(ctx).Create(report).Error, "create report")
}

func (r *reportRepo) GetReportByID(ctx context.Context, id uuid.UUID) (*models.Report, error) {
	var report models.Report
	err := r.DB.WithContext(ctx).Preload("Attachments").Where("id = ?", id).First(&report).Error
	if err != nil {
		return nil, translate(err, "get report")
	}
	return &report, nil
}

func (r *reportRepo) GetReportWithRelations(ctx context.Context, id uuid.UUID) (*models.Report, error) {
	var report models.Report
	err := r.DB.WithContext(ctx).
		Preload("Reporter").
		Preload("RoutedAuthority").
		Preload("Attachments").
		Where("id = ?", id).
		First(&report).Error
	if err != nil {
		return nil, translate(err, "get report with relations")
	}
	return &report, nil
}

func (r *reportRepo) UpdateReport(ctx context.Context, report *models.Report) error {
	err := r.DB.WithContext(ctx).Model(report).Select(
		"Title", "Description", "Category", "Visibility", "Latitude", "Longitude",
	).Updates(report).Error
	return translate(err, "update report")
}

func (r *reportRepo) UpdateStatus(ctx context.Context, id uuid.UUID, status models.ReportStatus) error {
	res := r.DB.WithContext(ctx).Model(&models.Report{}).Where("id = ?", id).Update("status", status)
	if res.Error != nil {
		return errors.Wrap(res.Error, "update report status")
	}
	if res.RowsAffected == 0 {
		return errors.Wrap(ErrNotFound, "update report status")
	}
	return nil
}

// DeleteReport removes the report together with its attachments, likes and comments.
func (r *reportRepo) DeleteReport(ctx context.Context, id uuid.UUID) error {
	tx := r.DB.WithContext(ctx).Begin()
	if tx.Error != nil {
		return errors.Wrap(tx.Error, "begin delete report")
	}

	for _, child := range []interface{}{&models.Attachment{}, &models.Like{}, &models.Comment{}} {
		if err := tx.Where("report_id = ?", id).Delete(child).Error; err != nil {
			tx.Rollback()
			return errors.Wrap(err, "delete report children")
		}
	}

	res := tx.Delete(&models.Report{}, "id = ?", id)
	if res.Error != nil {
		tx.Rollback()
		return errors.Wrap(res.Error, "delete report")
	}
	if res.RowsAffected == 0 {
		tx.Rollback()
		return errors.Wrap(ErrNotFound, "delete report")
	}
	return errors.Wrap(tx.Commit().Error, "commit delete report")
}

// filtered applies every set field of f. Search matches the title or the
// reporter's display name, case-insensitively.
func (r *reportRepo) filtered(ctx context.Context, f models.ReportFilter) *gorm.DB {
	query := r.DB.WithContext(ctx).Model(&models.Report{})
	if f.AuthorityID != nil {
		query = query.Where("reports.routed_authority_id = ?", *f.AuthorityID)
	}
	if f.ReporterID != nil {
		query = query.Where("reports.reporter_id = ?", *f.ReporterID)
	}
	if f.Visibility != 0 {
		query = query.Where("reports.visibility = ?", f.Visibility)
	}
	if f.Status != 0 {
		query = query.Where("reports.status = ?", f.Status)
	}
	if f.Category != 0 {
		query = query.Where("reports.category = ?", f.Category)
	}
	if f.From != nil {
		query = query.Where("reports.created_at >= ?", *f.From)
	}
	if f.To != nil {
		query = query.Where("reports.created_at <= ?", *f.To)
	}
	if search := strings.TrimSpace(f.Search); search != "" {
		like := "%" + strings.ToLower(search) + "%"
		reporters := r.DB.Model(&models.User{}).Select("id").Where("LOWER(display_name) LIKE ?", like)
		query = query.Where("LOWER(reports.title) LIKE ? OR reports.reporter_id IN (?)", like, reporters)
	}
	return query
}

func (r *reportRepo) ListReports(ctx context.Context, filter models.ReportFilter, offset, limit int) ([]models.Report, error) {
	var reports []models.Report
	err := r.filtered(ctx, filter).
		Preload("Attachments").
		Order("reports.created_at DESC").
		Offset(offset).
		Limit(limit).
		Find(&reports).Error
	if err != nil {
		return nil, errors.Wrap(err, "list reports")
	}
	return reports, nil
}

func (r *reportRepo) SummarizeReports(ctx context.Context, filter models.ReportFilter) (models.ReportStatusSummary, error) {
	var summary models.ReportStatusSummary
	var rows []struct {
		Status models.ReportStatus
		Count  int64
	}
	err := r.filtered(ctx, filter).
		Select("reports.status AS status, COUNT(*) AS count").
		Group("reports.status").
		Scan(&rows).Error
	if err != nil {
		return summary, errors.Wrap(err, "summarize reports")
	}
	for _, row := range rows {
		summary.Add(row.Status, row.Count)
	}
	return summary, nil
}
