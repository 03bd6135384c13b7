package services

import (
	"context"
	"errors"
	"net/http"
	"strings"

	"github.com/google/uuid"
	"github.com/techagentng/ain/db"
	apiError "github.com/techagentng/ain/errors"
	"github.com/techagentng/ain/models"
	"go.uber.org/zap"
)

const recentCommentsLimit = 5

type ReportService interface {
	CreateReport(ctx context.Context, user *models.User, req *models.ReportCreateRequest) (*models.Report, *apiError.Error)
	GetReport(ctx context.Context, id uuid.UUID) (*models.ReportResponse, *apiError.Error)
	CanView(ctx context.Context, id uuid.UUID, viewerID *uuid.UUID, role models.Role) *apiError.Error
	GetFeed(ctx context.Context, p models.Pagination) ([]models.ReportResponse, *apiError.Error)
	ListReports(ctx context.Context, filter models.ReportFilter, p models.Pagination) (*models.ReportListResponse, *apiError.Error)
	ListByAuthority(ctx context.Context, caller *models.User, authorityID uuid.UUID, filter models.ReportFilter, p models.Pagination) (*models.ReportListResponse, *apiError.Error)
	AuthorityQueue(ctx context.Context, caller *models.User, filter models.ReportFilter, p models.Pagination) (*models.ReportListResponse, *apiError.Error)
	ListByUser(ctx context.Context, userID uuid.UUID, publicOnly bool, p models.Pagination) ([]models.ReportResponse, *apiError.Error)
	UpdateStatus(ctx context.Context, id uuid.UUID, status models.ReportStatus) *apiError.Error
	UpdateReport(ctx context.Context, id, userID uuid.UUID, req *models.ReportUpdateRequest) *apiError.Error
	DeleteReport(ctx context.Context, id, userID uuid.UUID) *apiError.Error
	GetWithInteractions(ctx context.Context, id uuid.UUID, currentUserID *uuid.UUID) (*models.ReportWithInteractionsResponse, *apiError.Error)
}

type reportService struct {
	reportRepo    db.ReportRepository
	likeRepo      db.LikeRepository
	commentRepo   db.CommentRepository
	authorityRepo db.AuthorityRepository
	routing       RoutingService
	trustPoints   TrustPointsService
	feed          FeedPublisher
	logger        *zap.Logger
}

func NewReportService(reportRepo db.ReportRepository, likeRepo db.LikeRepository, commentRepo db.CommentRepository,
	authorityRepo db.AuthorityRepository, routing RoutingService, trustPoints TrustPointsService,
	feed FeedPublisher, logger *zap.Logger) ReportService {
	if feed == nil {
		feed = noopPublisher{}
	}
	return &reportService{
		reportRepo:    reportRepo,
		likeRepo:      likeRepo,
		commentRepo:   commentRepo,
		authorityRepo: authorityRepo,
		routing:       routing,
		trustPoints:   trustPoints,
		feed:          feed,
		logger:        logger,
	}
}

var (
	errReportNotFound       = apiError.New("report not found", http.StatusNotFound)
	errInvalidReportFilter  = apiError.New("invalid report filter", http.StatusBadRequest)
	errNotLinkedToAuthority = apiError.New("account is not linked to an authority", http.StatusForbidden)
)

func (s *reportService) internal(msg string, err error) *apiError.Error {
	s.logger.Error(msg, zap.Error(err))
	return apiError.ErrInternalServerError
}

func (s *reportService) CreateReport(ctx context.Context, user *models.User, req *models.ReportCreateRequest) (*models.Report, *apiError.Error) {
	report := &models.Report{
		ID:          uuid.New(),
		Visibility:  req.Visibility,
		Category:    req.Category,
		Status:      models.StatusPending,
		Title:       req.Title,
		Description: req.Description,
		Latitude:    req.Latitude,
		Longitude:   req.Longitude,
	}
	if req.Visibility != models.VisibilityAnonymous && user != nil {
		reporterID := user.ID
		report.ReporterID = &reporterID
	}

	authorityID, err := s.routing.Route(ctx, req.Category)
	if err != nil {
		return nil, s.internal("route report", err)
	}
	report.RoutedAuthorityID = authorityID

	if err := s.reportRepo.CreateReport(ctx, report); err != nil {
		return nil, s.internal("create report", err)
	}
	if report.Visibility == models.VisibilityPublic {
		s.feed.Publish(models.FeedEvent{Type: models.FeedEventReportCreated, Report: models.NewReportResponse(report)})
	}
	return report, nil
}

func (s *reportService) GetReport(ctx context.Context, id uuid.UUID) (*models.ReportResponse, *apiError.Error) {
	report, err := s.reportRepo.GetReportByID(ctx, id)
	if err != nil {
		if errors.Is(err, db.ErrNotFound) {
			return nil, errReportNotFound
		}
		return nil, s.internal("get report", err)
	}
	resp := models.NewReportResponse(report)
	return &resp, nil
}

// CanView returns 404 both for missing reports and for reports the viewer
// may not see.
func (s *reportService) CanView(ctx context.Context, id uuid.UUID, viewerID *uuid.UUID, role models.Role) *apiError.Error {
	report, err := s.reportRepo.GetReportByID(ctx, id)
	if err != nil {
		if errors.Is(err, db.ErrNotFound) {
			return errReportNotFound
		}
		return s.internal("get report", err)
	}
	if !report.VisibleTo(viewerID, role) {
		return errReportNotFound
	}
	return nil
}

func (s *reportService) GetFeed(ctx context.Context, p models.Pagination) ([]models.ReportResponse, *apiError.Error) {
	filter := models.ReportFilter{Visibility: models.VisibilityPublic}
	reports, err := s.reportRepo.ListReports(ctx, filter, p.Offset(), p.PageSize)
	if err != nil {
		return nil, s.internal("list feed", err)
	}
	return models.NewReportResponses(reports), nil
}

func validFilter(f models.ReportFilter) bool {
	switch {
	case f.Status != 0 && !f.Status.Valid():
		return false
	case f.Category != 0 && !f.Category.Valid():
		return false
	case f.Visibility != 0 && !f.Visibility.Valid():
		return false
	case f.From != nil && f.To != nil && f.To.Before(*f.From):
		return false
	}
	return true
}

// ListReports returns one page of the reports matching filter and the
// per-status summary of all of them.
func (s *reportService) ListReports(ctx context.Context, filter models.ReportFilter, p models.Pagination) (*models.ReportListResponse, *apiError.Error) {
	if !validFilter(filter) {
		return nil, errInvalidReportFilter
	}
	reports, err := s.reportRepo.ListReports(ctx, filter, p.Offset(), p.PageSize)
	if err != nil {
		return nil, s.internal("list reports", err)
	}
	summary, err := s.reportRepo.SummarizeReports(ctx, filter)
	if err != nil {
		return nil, s.internal("summarize reports", err)
	}
	return &models.ReportListResponse{
		Reports:  models.NewReportResponses(reports),
		Summary:  summary,
		Filter:   filter,
		Page:     p.Page,
		PageSize: p.PageSize,
	}, nil
}

// resolveAuthority finds the authority a staff account works for: the linked
// authority, then one whose contact email is the account email, then one
// named like the account. It returns nil when nothing matches.
func (s *reportService) resolveAuthority(ctx context.Context, user *models.User) (*models.Authority, error) {
	if user.AuthorityID != nil {
		authority, err := s.authorityRepo.FindAuthorityByID(ctx, *user.AuthorityID)
		if err == nil {
			return authority, nil
		}
		if !errors.Is(err, db.ErrNotFound) {
			return nil, err
		}
	}

	authorities, err := s.authorityRepo.ListAuthorities(ctx)
	if err != nil {
		return nil, err
	}
	for i := range authorities {
		if user.Email != "" && strings.EqualFold(authorities[i].ContactEmail, user.Email) {
			return &authorities[i], nil
		}
	}
	for i := range authorities {
		if user.DisplayName != "" && authorities[i].Name == user.DisplayName {
			return &authorities[i], nil
		}
	}
	return nil, nil
}

// ListByAuthority lets admins read any queue and authority staff only their own.
func (s *reportService) ListByAuthority(ctx context.Context, caller *models.User, authorityID uuid.UUID,
	filter models.ReportFilter, p models.Pagination) (*models.ReportListResponse, *apiError.Error) {
	if !caller.Role.CanAdminister() {
		authority, err := s.resolveAuthority(ctx, caller)
		if err != nil {
			return nil, s.internal("resolve authority", err)
		}
		if authority == nil || authority.ID != authorityID {
			return nil, apiError.ErrForbidden
		}
	}
	filter.AuthorityID = &authorityID
	return s.ListReports(ctx, filter, p)
}

// AuthorityQueue lists the caller's own authority queue. Admins without a
// linked authority see every report.
func (s *reportService) AuthorityQueue(ctx context.Context, caller *models.User, filter models.ReportFilter,
	p models.Pagination) (*models.ReportListResponse, *apiError.Error) {
	authority, err := s.resolveAuthority(ctx, caller)
	if err != nil {
		return nil, s.internal("resolve authority", err)
	}
	if authority == nil {
		if !caller.Role.CanAdminister() {
			return nil, errNotLinkedToAuthority
		}
		filter.AuthorityID = nil
		return s.ListReports(ctx, filter, p)
	}

	filter.AuthorityID = &authority.ID
	resp, apiErr := s.ListReports(ctx, filter, p)
	if apiErr != nil {
		return nil, apiErr
	}
	resp.Authority = &models.AuthorityResponse{ID: authority.ID, Name: authority.Name, Department: authority.Department}
	return resp, nil
}

// ListByUser returns the reports filed under userID, public ones only when
// publicOnly is set.
func (s *reportService) ListByUser(ctx context.Context, userID uuid.UUID, publicOnly bool, p models.Pagination) ([]models.ReportResponse, *apiError.Error) {
	filter := models.ReportFilter{ReporterID: &userID}
	if publicOnly {
		filter.Visibility = models.VisibilityPublic
	}
	reports, err := s.reportRepo.ListReports(ctx, filter, p.Offset(), p.PageSize)
	if err != nil {
		return nil, s.internal("list reports by user", err)
	}
	return models.NewReportResponses(reports), nil
}

// UpdateStatus is a no-op for unknown reports. Resolved and Rejected
// adjust the reporter's trust points.
func (s *reportService) UpdateStatus(ctx context.Context, id uuid.UUID, status models.ReportStatus) *apiError.Error {
	report, err := s.reportRepo.GetReportByID(ctx, id)
	if err != nil {
		if errors.Is(err, db.ErrNotFound) {
			return nil
		}
		return s.internal("get report", err)
	}

	if err := s.reportRepo.UpdateStatus(ctx, id, status); err != nil {
		if errors.Is(err, db.ErrNotFound) {
			return nil
		}
		return s.internal("update report status", err)
	}
	report.Status = status

	if delta := models.StatusPointsDelta(status); delta != 0 && report.ReporterID != nil {
		total, err := s.trustPoints.AddPoints(ctx, *report.ReporterID, delta)
		if err != nil {
			return s.internal("add trust points", err)
		}
		s.logger.Info("trust points updated",
			zap.String("user_id", report.ReporterID.String()),
			zap.Int("delta", delta),
			zap.Int("total", total))
	}

	if report.Visibility == models.VisibilityPublic {
		s.feed.Publish(models.FeedEvent{Type: models.FeedEventStatusChanged, Report: models.NewReportResponse(report)})
	}
	return nil
}

// ownedReport hides reports owned by someone else behind a 404.
func (s *reportService) ownedReport(ctx context.Context, id, userID uuid.UUID) (*models.Report, *apiError.Error) {
	report, err := s.reportRepo.GetReportByID(ctx, id)
	if err != nil {
		if errors.Is(err, db.ErrNotFound) {
			return nil, errReportNotFound
		}
		return nil, s.internal("get report", err)
	}
	if !report.IsOwnedBy(userID) {
		return nil, errReportNotFound
	}
	return report, nil
}

func (s *reportService) UpdateReport(ctx context.Context, id, userID uuid.UUID, req *models.ReportUpdateRequest) *apiError.Error {
	report, apiErr := s.ownedReport(ctx, id, userID)
	if apiErr != nil {
		return apiErr
	}

	report.Title = req.Title
	report.Description = req.Description
	report.Category = req.Category
	report.Visibility = req.Visibility
	report.Latitude = req.Latitude
	report.Longitude = req.Longitude
	if err := s.reportRepo.UpdateReport(ctx, report); err != nil {
		return s.internal("update report", err)
	}
	return nil
}

func (s *reportService) DeleteReport(ctx context.Context, id, userID uuid.UUID) *apiError.Error {
	if _, apiErr := s.ownedReport(ctx, id, userID); apiErr != nil {
		return apiErr
	}
	if err := s.reportRepo.DeleteReport(ctx, id); err != nil {
		if errors.Is(err, db.ErrNotFound) {
			return errReportNotFound
		}
		return s.internal("delete report", err)
	}
	return nil
}

func (s *reportService) GetWithInteractions(ctx context.Context, id uuid.UUID, currentUserID *uuid.UUID) (*models.ReportWithInteractionsResponse, *apiError.Error) {
	report, err := s.reportRepo.GetReportWithRelations(ctx, id)
	if err != nil {
		if errors.Is(err, db.ErrNotFound) {
			return nil, errReportNotFound
		}
		return nil, s.internal("get report", err)
	}

	likeCount, err := s.likeRepo.CountLikes(ctx, id)
	if err != nil {
		return nil, s.internal("count likes", err)
	}
	commentCount, err := s.commentRepo.CountCommentsByReport(ctx, id)
	if err != nil {
		return nil, s.internal("count comments", err)
	}
	liked := false
	if currentUserID != nil {
		if liked, err = s.likeRepo.HasLiked(ctx, id, *currentUserID); err != nil {
			return nil, s.internal("has liked", err)
		}
	}
	recent, err := s.commentRepo.ListCommentsByReport(ctx, id, 0, recentCommentsLimit)
	if err != nil {
		return nil, s.internal("recent comments", err)
	}

	resp := &models.ReportWithInteractionsResponse{
		ID:                   report.ID,
		ReporterID:           report.ReporterID,
		Visibility:           report.Visibility,
		Category:             report.Category,
		Status:               report.Status,
		Title:                report.Title,
		Description:          report.Description,
		Latitude:             report.Latitude,
		Longitude:            report.Longitude,
		CreatedAt:            report.CreatedAt,
		RoutedAuthorityID:    report.RoutedAuthorityID,
		Attachments:          models.NewReportResponse(report).Attachments,
		LikeCount:            likeCount,
		CommentCount:         commentCount,
		IsLikedByCurrentUser: liked,
		RecentComments:       models.NewCommentResponses(recent),
	}
	if report.Reporter != nil {
		resp.ReporterDisplayName = &report.Reporter.DisplayName
	}
	if report.RoutedAuthority != nil {
		resp.AuthorityName = &report.RoutedAuthority.Name
	}
	return resp, nil
}
