package dbtest

import (
	"context"
	"sort"
	"strings"

	"github.com/google/uuid"
	"github.com/pkg/errors"
	"github.com/techagentng/ain/db"
	"github.com/techagentng/ain/models"
)

type reportRepo struct{ s *Store }

func (r *reportRepo) CreateReport(_ context.Context, report *models.Report) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if report.ID == uuid.Nil {
		report.ID = uuid.New()
	}
	if report.CreatedAt.IsZero() {
		report.CreatedAt = r.s.stamp()
	}
	cp := *report
	cp.Attachments = nil
	r.s.reports[report.ID] = &cp
	return nil
}

func (r *reportRepo) withAttachments(rep *models.Report) *models.Report {
	cp := *rep
	cp.Attachments = nil
	for _, a := range r.s.attachments {
		if a.ReportID == rep.ID {
			cp.Attachments = append(cp.Attachments, *a)
		}
	}
	sort.Slice(cp.Attachments, func(i, j int) bool {
		return cp.Attachments[i].CreatedAt.Before(cp.Attachments[j].CreatedAt)
	})
	return &cp
}

func (r *reportRepo) GetReportByID(_ context.Context, id uuid.UUID) (*models.Report, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	rep, ok := r.s.reports[id]
	if !ok {
		return nil, notFound("get report")
	}
	return r.withAttachments(rep), nil
}

func (r *reportRepo) GetReportWithRelations(_ context.Context, id uuid.UUID) (*models.Report, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	rep, ok := r.s.reports[id]
	if !ok {
		return nil, notFound("get report with relations")
	}
	out := r.withAttachments(rep)
	if out.ReporterID != nil {
		if u, ok := r.s.users[*out.ReporterID]; ok {
			cp := *u
			out.Reporter = &cp
		}
	}
	if out.RoutedAuthorityID != nil {
		if a, ok := r.s.authorities[*out.RoutedAuthorityID]; ok {
			cp := *a
			out.RoutedAuthority = &cp
		}
	}
	return out, nil
}

func (r *reportRepo) UpdateReport(_ context.Context, report *models.Report) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	rep, ok := r.s.reports[report.ID]
	if !ok {
		return notFound("update report")
	}
	rep.Title = report.Title
	rep.Description = report.Description
	rep.Category = report.Category
	rep.Visibility = report.Visibility
	rep.Latitude = report.Latitude
	rep.Longitude = report.Longitude
	return nil
}

func (r *reportRepo) UpdateStatus(_ context.Context, id uuid.UUID, status models.ReportStatus) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	rep, ok := r.s.reports[id]
	if !ok {
		return notFound("update report status")
	}
	rep.Status = status
	return nil
}

func (r *reportRepo) DeleteReport(_ context.Context, id uuid.UUID) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if _, ok := r.s.reports[id]; !ok {
		return notFound("delete report")
	}
	delete(r.s.reports, id)
	for k, a := range r.s.attachments {
		if a.ReportID == id {
			delete(r.s.attachments, k)
		}
	}
	for k, l := range r.s.likes {
		if l.ReportID == id {
			delete(r.s.likes, k)
		}
	}
	for k, c := range r.s.comments {
		if c.ReportID == id {
			delete(r.s.comments, k)
		}
	}
	return nil
}

// matches mirrors the SQL filter of the gorm repository. The caller holds the lock.
func (r *reportRepo) matches(rep *models.Report, f models.ReportFilter) bool {
	switch {
	case f.AuthorityID != nil && (rep.RoutedAuthorityID == nil || *rep.RoutedAuthorityID != *f.AuthorityID):
		return false
	case f.ReporterID != nil && !rep.IsOwnedBy(*f.ReporterID):
		return false
	case f.Visibility != 0 && rep.Visibility != f.Visibility:
		return false
	case f.Status != 0 && rep.Status != f.Status:
		return false
	case f.Category != 0 && rep.Category != f.Category:
		return false
	case f.From != nil && rep.CreatedAt.Before(*f.From):
		return false
	case f.To != nil && rep.CreatedAt.After(*f.To):
		return false
	}
	needle := strings.ToLower(strings.TrimSpace(f.Search))
	if needle == "" || strings.Contains(strings.ToLower(rep.Title), needle) {
		return true
	}
	if rep.ReporterID != nil {
		if u, ok := r.s.users[*rep.ReporterID]; ok && !r.s.deleted[u.ID] {
			return strings.Contains(strings.ToLower(u.DisplayName), needle)
		}
	}
	return false
}

func (r *reportRepo) ListReports(_ context.Context, filter models.ReportFilter, offset, limit int) ([]models.Report, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	var out []models.Report
	for _, rep := range r.s.reports {
		if r.matches(rep, filter) {
			out = append(out, *r.withAttachments(rep))
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.After(out[j].CreatedAt) })
	return page(out, offset, limit), nil
}

func (r *reportRepo) SummarizeReports(_ context.Context, filter models.ReportFilter) (models.ReportStatusSummary, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	var summary models.ReportStatusSummary
	for _, rep := range r.s.reports {
		if r.matches(rep, filter) {
			summary.Add(rep.Status, 1)
		}
	}
	return summary, nil
}

type likeRepo struct{ s *Store }

func (r *likeRepo) ToggleLike(_ context.Context, reportID, userID uuid.UUID) (bool, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	for id, l := range r.s.likes {
		if l.ReportID == reportID && l.UserID == userID {
			delete(r.s.likes, id)
			return false, nil
		}
	}
	like := &models.Like{ID: uuid.New(), ReportID: reportID, UserID: userID, CreatedAt: r.s.stamp()}
	r.s.likes[like.ID] = like
	return true, nil
}

func (r *likeRepo) CountLikes(_ context.Context, reportID uuid.UUID) (int64, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	var n int64
	for _, l := range r.s.likes {
		if l.ReportID == reportID {
			n++
		}
	}
	return n, nil
}

func (r *likeRepo) HasLiked(_ context.Context, reportID, userID uuid.UUID) (bool, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	for _, l := range r.s.likes {
		if l.ReportID == reportID && l.UserID == userID {
			return true, nil
		}
	}
	return false, nil
}

type commentRepo struct{ s *Store }

func (r *commentRepo) withUser(c *models.Comment) models.Comment {
	cp := *c
	if u, ok := r.s.users[c.UserID]; ok {
		uc := *u
		cp.User = &uc
	}
	return cp
}

func (r *commentRepo) CreateComment(_ context.Context, comment *models.Comment) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if comment.ID == uuid.Nil {
		comment.ID = uuid.New()
	}
	now := r.s.stamp()
	comment.CreatedAt, comment.UpdatedAt = now, now
	cp := *comment
	cp.User = nil
	r.s.comments[comment.ID] = &cp
	return nil
}

func (r *commentRepo) FindCommentByID(_ context.Context, id uuid.UUID) (*models.Comment, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	c, ok := r.s.comments[id]
	if !ok || c.IsDeleted {
		return nil, notFound("find comment")
	}
	out := r.withUser(c)
	return &out, nil
}

func (r *commentRepo) UpdateComment(_ context.Context, comment *models.Comment) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	c, ok := r.s.comments[comment.ID]
	if !ok {
		return notFound("update comment")
	}
	c.Content = comment.Content
	c.UpdatedAt = comment.UpdatedAt
	c.IsDeleted = comment.IsDeleted
	return nil
}

func (r *commentRepo) ListCommentsByReport(_ context.Context, reportID uuid.UUID, offset, limit int) ([]models.Comment, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	var out []models.Comment
	for _, c := range r.s.comments {
		if c.ReportID == reportID && !c.IsDeleted {
			out = append(out, r.withUser(c))
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.After(out[j].CreatedAt) })
	return page(out, offset, limit), nil
}

func (r *commentRepo) CountCommentsByReport(_ context.Context, reportID uuid.UUID) (int64, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	var n int64
	for _, c := range r.s.comments {
		if c.ReportID == reportID && !c.IsDeleted {
			n++
		}
	}
	return n, nil
}

type attachmentRepo struct{ s *Store }

func (r *attachmentRepo) CreateAttachment(_ context.Context, attachment *models.Attachment) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if _, ok := r.s.reports[attachment.ReportID]; !ok {
		return errors.Wrap(db.ErrNotFound, "create attachment")
	}
	if attachment.ID == uuid.Nil {
		attachment.ID = uuid.New()
	}
	attachment.CreatedAt = r.s.stamp()
	cp := *attachment
	r.s.attachments[attachment.ID] = &cp
	return nil
}

func (r *attachmentRepo) ListAttachmentsByReport(_ context.Context, reportID uuid.UUID) ([]models.Attachment, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	var out []models.Attachment
	for _, a := range r.s.attachments {
		if a.ReportID == reportID {
			out = append(out, *a)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.Before(out[j].CreatedAt) })
	return out, nil
}
