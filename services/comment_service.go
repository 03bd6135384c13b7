package services

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/google/uuid"
	"github.com/techagentng/ain/db"
	apiError "github.com/techagentng/ain/errors"
	"github.com/techagentng/ain/models"
	"go.uber.org/zap"
)

type CommentService interface {
	AddComment(ctx context.Context, reportID uuid.UUID, user *models.User, content string) (*models.CommentResponse, *apiError.Error)
	ListComments(ctx context.Context, reportID uuid.UUID, p models.Pagination) ([]models.CommentResponse, *apiError.Error)
	GetComment(ctx context.Context, id uuid.UUID) (*models.CommentResponse, *apiError.Error)
	UpdateComment(ctx context.Context, id, userID uuid.UUID, content string) (*models.CommentResponse, *apiError.Error)
	DeleteComment(ctx context.Context, id, userID uuid.UUID) *apiError.Error
}

type commentService struct {
	commentRepo db.CommentRepository
	reportRepo  db.ReportRepository
	logger      *zap.Logger
	now         func() time.Time
}

func NewCommentService(commentRepo db.CommentRepository, reportRepo db.ReportRepository, logger *zap.Logger) CommentService {
	return &commentService{
		commentRepo: commentRepo,
		reportRepo:  reportRepo,
		logger:      logger,
		now:         time.Now,
	}
}

var errCommentNotFound = apiError.New("comment not found", http.StatusNotFound)

func (s *commentService) AddComment(ctx context.Context, reportID uuid.UUID, user *models.User, content string) (*models.CommentResponse, *apiError.Error) {
	if _, err := s.reportRepo.GetReportByID(ctx, reportID); err != nil {
		if errors.Is(err, db.ErrNotFound) {
			return nil, errReportNotFound
		}
		s.logger.Error("get report", zap.Error(err))
		return nil, apiError.ErrInternalServerError
	}

	comment := &models.Comment{
		ID:       uuid.New(),
		ReportID: reportID,
		UserID:   user.ID,
		Content:  content,
	}
	if err := s.commentRepo.CreateComment(ctx, comment); err != nil {
		s.logger.Error("create comment", zap.Error(err))
		return nil, apiError.ErrInternalServerError
	}
	comment.User = user
	resp := models.NewCommentResponse(comment)
	return &resp, nil
}

func (s *commentService) ListComments(ctx context.Context, reportID uuid.UUID, p models.Pagination) ([]models.CommentResponse, *apiError.Error) {
	comments, err := s.commentRepo.ListCommentsByReport(ctx, reportID, p.Offset(), p.PageSize)
	if err != nil {
		s.logger.Error("list comments", zap.Error(err))
		return nil, apiError.ErrInternalServerError
	}
	return models.NewCommentResponses(comments), nil
}

func (s *commentService) GetComment(ctx context.Context, id uuid.UUID) (*models.CommentResponse, *apiError.Error) {
	comment, apiErr := s.find(ctx, id)
	if apiErr != nil {
		return nil, apiErr
	}
	resp := models.NewCommentResponse(comment)
	return &resp, nil
}

func (s *commentService) find(ctx context.Context, id uuid.UUID) (*models.Comment, *apiError.Error) {
	comment, err := s.commentRepo.FindCommentByID(ctx, id)
	if err != nil {
		if errors.Is(err, db.ErrNotFound) {
			return nil, errCommentNotFound
		}
		s.logger.Error("find comment", zap.Error(err))
		return nil, apiError.ErrInternalServerError
	}
	return comment, nil
}

// owned returns 404 for comments written by someone else.
func (s *commentService) owned(ctx context.Context, id, userID uuid.UUID) (*models.Comment, *apiError.Error) {
	comment, apiErr := s.find(ctx, id)
	if apiErr != nil {
		return nil, apiErr
	}
	if comment.UserID != userID {
		return nil, errCommentNotFound
	}
	return comment, nil
}

func (s *commentService) UpdateComment(ctx context.Context, id, userID uuid.UUID, content string) (*models.CommentResponse, *apiError.Error) {
	comment, apiErr := s.owned(ctx, id, userID)
	if apiErr != nil {
		return nil, apiErr
	}
	comment.Content = content
	comment.UpdatedAt = s.now()
	if err := s.commentRepo.UpdateComment(ctx, comment); err != nil {
		s.logger.Error("update comment", zap.Error(err))
		return nil, apiError.ErrInternalServerError
	}
	resp := models.NewCommentResponse(comment)
	return &resp, nil
}

func (s *commentService) DeleteComment(ctx context.Context, id, userID uuid.UUID) *apiError.Error {
	comment, apiErr := s.owned(ctx, id, userID)
	if apiErr != nil {
		return apiErr
	}
	comment.IsDeleted = true
	comment.UpdatedAt = s.now()
	if err := s.commentRepo.UpdateComment(ctx, comment); err != nil {
		s.logger.Error("delete comment", zap.Error(err))
		return apiError.ErrInternalServerError
	}
	return nil
}
