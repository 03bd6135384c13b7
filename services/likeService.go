package services

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"github.com/techagentng/ain/db"
	apiError "github.com/techagentng/ain/errors"
	"github.com/techagentng/ain/models"
	"go.uber.org/zap"
)

// LikeService interface
type LikeService interface {
	ToggleLike(ctx context.Context, reportID, userID uuid.UUID) (*models.LikeResponse, *apiError.Error)
}

// likeService struct
type likeService struct {
	likeRepo   db.LikeRepository
	reportRepo db.ReportRepository
	logger     *zap.Logger
}

// NewLikeService creates a new instance of LikeService
func NewLikeService(likeRepo db.LikeRepository, reportRepo db.ReportRepository, logger *zap.Logger) LikeService {
	return &likeService{
		likeRepo:   likeRepo,
		reportRepo: reportRepo,
		logger:     logger,
	}
}

func (lk *likeService) ToggleLike(ctx context.Context, reportID, userID uuid.UUID) (*models.LikeResponse, *apiError.Error) {
	if _, err := lk.reportRepo.GetReportByID(ctx, reportID); err != nil {
		if errors.Is(err, db.ErrNotFound) {
			return nil, errReportNotFound
		}
		lk.logger.Error("get report", zap.Error(err))
		return nil, apiError.ErrInternalServerError
	}

	liked, err := lk.likeRepo.ToggleLike(ctx, reportID, userID)
	if err != nil {
		// A concurrent toggle inserted the row first.
		if errors.Is(err, db.ErrDuplicate) {
			return &models.LikeResponse{IsLiked: true, Message: "Report liked"}, nil
		}
		lk.logger.Error("toggle like", zap.Error(err))
		return nil, apiError.ErrInternalServerError
	}

	if liked {
		return &models.LikeResponse{IsLiked: true, Message: "Report liked"}, nil
	}
	return &models.LikeResponse{IsLiked: false, Message: "Report unliked"}, nil
}
