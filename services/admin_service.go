package services

import (
	"context"
	"errors"
	"net/http"

	"github.com/google/uuid"
	"github.com/techagentng/ain/db"
	apiError "github.com/techagentng/ain/errors"
	"github.com/techagentng/ain/models"
	"go.uber.org/zap"
)

type AdminService interface {
	ListUsers(ctx context.Context, p models.Pagination, search string) (*models.PagedUsersResponse, *apiError.Error)
	GetUser(ctx context.Context, id uuid.UUID) (*models.AdminUserResponse, *apiError.Error)
	UpdateUser(ctx context.Context, id uuid.UUID, req *models.UserUpdateRequest) (*models.AdminUserResponse, *apiError.Error)
	DeleteUser(ctx context.Context, id uuid.UUID) *apiError.Error
}

type adminService struct {
	userRepo      db.UserRepository
	authorityRepo db.AuthorityRepository
	logger        *zap.Logger
}

func NewAdminService(userRepo db.UserRepository, authorityRepo db.AuthorityRepository, logger *zap.Logger) AdminService {
	return &adminService{userRepo: userRepo, authorityRepo: authorityRepo, logger: logger}
}

var (
	errUserNotFound     = apiError.New("user not found", http.StatusNotFound)
	errUnknownAuthority = apiError.New("unknown authority", http.StatusBadRequest)
)

func toAdminUserResponse(u *models.User, reports int64) models.AdminUserResponse {
	return models.AdminUserResponse{
		ID:               u.ID,
		Email:            u.Email,
		DisplayName:      u.DisplayName,
		TrustPoints:      u.TrustPoints,
		Badge:            u.Badge,
		Role:             u.Role,
		IsEmailConfirmed: u.IsEmailConfirmed,
		AuthorityID:      u.AuthorityID,
		LastLogin:        u.LastLogin,
		ReportsCount:     reports,
		CreatedAt:        u.CreatedAt,
	}
}

func (s *adminService) internal(msg string, err error) *apiError.Error {
	s.logger.Error(msg, zap.Error(err))
	return apiError.ErrInternalServerError
}

func (s *adminService) ListUsers(ctx context.Context, p models.Pagination, search string) (*models.PagedUsersResponse, *apiError.Error) {
	users, total, err := s.userRepo.ListUsers(ctx, search, p.Offset(), p.PageSize)
	if err != nil {
		return nil, s.internal("list users", err)
	}

	ids := make([]uuid.UUID, 0, len(users))
	for _, u := range users {
		ids = append(ids, u.ID)
	}
	counts, err := s.userRepo.CountReportsByReporters(ctx, ids)
	if err != nil {
		return nil, s.internal("count reports", err)
	}

	out := make([]models.AdminUserResponse, 0, len(users))
	for i := range users {
		out = append(out, toAdminUserResponse(&users[i], counts[users[i].ID]))
	}
	return &models.PagedUsersResponse{
		Users:      out,
		TotalCount: total,
		Page:       p.Page,
		PageSize:   p.PageSize,
		TotalPages: p.TotalPages(total),
	}, nil
}

func (s *adminService) load(ctx context.Context, id uuid.UUID) (*models.User, *apiError.Error) {
	user, err := s.userRepo.FindUserByID(ctx, id)
	if err != nil {
		if errors.Is(err, db.ErrNotFound) {
			return nil, errUserNotFound
		}
		return nil, s.internal("find user", err)
	}
	return user, nil
}

func (s *adminService) response(ctx context.Context, user *models.User) (*models.AdminUserResponse, *apiError.Error) {
	counts, err := s.userRepo.CountReportsByReporters(ctx, []uuid.UUID{user.ID})
	if err != nil {
		return nil, s.internal("count reports", err)
	}
	resp := toAdminUserResponse(user, counts[user.ID])
	return &resp, nil
}

func (s *adminService) GetUser(ctx context.Context, id uuid.UUID) (*models.AdminUserResponse, *apiError.Error) {
	user, apiErr := s.load(ctx, id)
	if apiErr != nil {
		return nil, apiErr
	}
	return s.response(ctx, user)
}

// UpdateUser sets badge and points as given; the badge is not re-derived.
func (s *adminService) UpdateUser(ctx context.Context, id uuid.UUID, req *models.UserUpdateRequest) (*models.AdminUserResponse, *apiError.Error) {
	if !req.Role.Valid() || !req.Badge.Valid() || req.TrustPoints < 0 {
		return nil, apiError.ErrBadRequest
	}
	if req.AuthorityID != nil {
		if _, err := s.authorityRepo.FindAuthorityByID(ctx, *req.AuthorityID); err != nil {
			if errors.Is(err, db.ErrNotFound) {
				return nil, errUnknownAuthority
			}
			return nil, s.internal("find authority", err)
		}
	}
	user, apiErr := s.load(ctx, id)
	if apiErr != nil {
		return nil, apiErr
	}

	user.DisplayName = req.DisplayName
	user.AuthorityID = req.AuthorityID
	user.Role = req.Role
	user.Badge = req.Badge
	user.TrustPoints = req.TrustPoints
	if err := s.userRepo.UpdateUser(ctx, user); err != nil {
		return nil, s.internal("update user", err)
	}
	return s.response(ctx, user)
}

func (s *adminService) DeleteUser(ctx context.Context, id uuid.UUID) *apiError.Error {
	if err := s.userRepo.DeleteUser(ctx, id); err != nil {
		if errors.Is(err, db.ErrNotFound) {
			return errUserNotFound
		}
		return s.internal("delete user", err)
	}
	return nil
}
