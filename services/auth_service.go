package services

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/google/uuid"
	"github.com/techagentng/ain/config"
	"github.com/techagentng/ain/db"
	apiError "github.com/techagentng/ain/errors"
	"github.com/techagentng/ain/mailingservices"
	"github.com/techagentng/ain/models"
	"github.com/techagentng/ain/services/jwt"
	"go.uber.org/zap"
)

// AuthService interface
type AuthService interface {
	Register(ctx context.Context, req *models.RegisterRequest) (*models.User, *apiError.Error)
	VerifyOTP(ctx context.Context, req *models.OtpVerificationRequest) *apiError.Error
	LoginUser(ctx context.Context, req *models.LoginRequest) (*models.AuthResponse, *apiError.Error)
	RefreshToken(ctx context.Context, refreshToken string) (*models.RefreshResponse, *apiError.Error)
	ForgetPassword(ctx context.Context, email string) *apiError.Error
	ResetPassword(ctx context.Context, req *models.ResetPasswordRequest) *apiError.Error
	GetCurrentUser(ctx context.Context, userID string) (*models.User, *apiError.Error)
	UpdateProfile(ctx context.Context, userID uuid.UUID, displayName string) (*models.User, *apiError.Error)
	Logout(ctx context.Context, userID uuid.UUID) *apiError.Error
}

// authService struct
type authService struct {
	Config   *config.Config
	userRepo db.UserRepository
	mail     mailingservices.Mailer
	logger   *zap.Logger
	now      func() time.Time
}

// NewAuthService instantiate an authService
func NewAuthService(userRepo db.UserRepository, mail mailingservices.Mailer, conf *config.Config, logger *zap.Logger) AuthService {
	return &authService{
		Config:   conf,
		userRepo: userRepo,
		mail:     mail,
		logger:   logger,
		now:      time.Now,
	}
}

// TokenOptions builds the signing options from config.
func TokenOptions(conf *config.Config) jwt.Options {
	return jwt.Options{
		Secret:   conf.JWTSecret,
		Issuer:   conf.JWTIssuer,
		Audience: conf.JWTAudience,
		Expiry:   time.Duration(conf.JWTExpiryHours) * time.Hour,
	}
}

func (a *authService) otpTTL() time.Duration {
	return time.Duration(a.Config.OTPExpiryMinutes) * time.Minute
}

func (a *authService) refreshTTL() time.Duration {
	return time.Duration(a.Config.RefreshTokenDays) * 24 * time.Hour
}

func (a *authService) Register(ctx context.Context, req *models.RegisterRequest) (*models.User, *apiError.Error) {
	if err := models.ValidatePassword(req.Password); err != nil {
		return nil, apiError.New(err.Error(), http.StatusBadRequest)
	}

	exists, err := a.userRepo.IsEmailExist(ctx, req.Email)
	if err != nil {
		a.logger.Error("check email", zap.Error(err))
		return nil, apiError.ErrInternalServerError
	}
	if exists {
		return nil, apiError.ErrConflict
	}

	code, err := GenerateOTP()
	if err != nil {
		return nil, apiError.ErrInternalServerError
	}

	user := &models.User{
		Model:       models.Model{ID: uuid.New()},
		Email:       req.Email,
		DisplayName: req.DisplayName,
		Role:        models.RoleUser,
		Badge:       models.BadgeNewcomer,
	}
	if err := user.SetPassword(req.Password); err != nil {
		a.logger.Error("hash password", zap.Error(err))
		return nil, apiError.ErrInternalServerError
	}
	user.SetOTP(code, a.now(), a.otpTTL())

	if err := a.userRepo.CreateUser(ctx, user); err != nil {
		if errors.Is(err, db.ErrDuplicate) {
			return nil, apiError.ErrConflict
		}
		a.logger.Error("create user", zap.Error(err))
		return nil, apiError.ErrInternalServerError
	}

	if err := a.mail.SendOTP(ctx, user.Email, user.DisplayName, code); err != nil {
		return nil, apiError.New("unable to send verification email", http.StatusInternalServerError)
	}
	return user, nil
}

func (a *authService) VerifyOTP(ctx context.Context, req *models.OtpVerificationRequest) *apiError.Error {
	user, err := a.userRepo.FindUserByEmail(ctx, req.Email)
	if err != nil {
		return a.notFoundOr500(err, "user not found")
	}
	if !user.OTPMatches(req.Code, a.now()) {
		return apiError.New("Invalid or expired OTP", http.StatusBadRequest)
	}

	user.IsEmailConfirmed = true
	user.ClearOTP()
	if err := a.userRepo.UpdateUser(ctx, user); err != nil {
		a.logger.Error("confirm email", zap.Error(err))
		return apiError.ErrInternalServerError
	}
	return nil
}

// LoginUser logs in a user and returns the login response
func (a *authService) LoginUser(ctx context.Context, req *models.LoginRequest) (*models.AuthResponse, *apiError.Error) {
	user, err := a.userRepo.FindUserByEmail(ctx, req.Email)
	if err != nil {
		if errors.Is(err, db.ErrNotFound) {
			return nil, apiError.ErrInvalidPassword
		}
		a.logger.Error("find user by email", zap.Error(err))
		return nil, apiError.ErrInternalServerError
	}
	if err := user.VerifyPassword(req.Password); err != nil {
		return nil, apiError.ErrInvalidPassword
	}

	now := a.now()
	token, expiry, refreshToken, apiErr := a.issueSession(ctx, user, now, true)
	if apiErr != nil {
		return nil, apiErr
	}
	return &models.AuthResponse{
		Token:        token,
		UserID:       user.ID,
		RefreshToken: refreshToken,
		Expiry:       expiry,
	}, nil
}

func (a *authService) RefreshToken(ctx context.Context, refreshToken string) (*models.RefreshResponse, *apiError.Error) {
	now := a.now()
	user, err := a.userRepo.FindUserByRefreshToken(ctx, refreshToken, now)
	if err != nil {
		if errors.Is(err, db.ErrNotFound) {
			return nil, apiError.ErrInvalidRefreshToken
		}
		a.logger.Error("find user by refresh token", zap.Error(err))
		return nil, apiError.ErrInternalServerError
	}

	token, expiry, rotated, apiErr := a.issueSession(ctx, user, now, false)
	if apiErr != nil {
		return nil, apiErr
	}
	return &models.RefreshResponse{Token: token, RefreshToken: rotated, Expiry: expiry}, nil
}

// issueSession signs an access token and stores a new refresh token on user.
func (a *authService) issueSession(ctx context.Context, user *models.User, now time.Time, login bool) (string, time.Time, string, *apiError.Error) {
	token, expiry, err := jwt.GenerateToken(user, TokenOptions(a.Config), now)
	if err != nil {
		a.logger.Error("generate access token", zap.Error(err))
		return "", time.Time{}, "", apiError.ErrInternalServerError
	}
	refreshToken, err := jwt.GenerateRefreshToken()
	if err != nil {
		a.logger.Error("generate refresh token", zap.Error(err))
		return "", time.Time{}, "", apiError.ErrInternalServerError
	}

	user.SetRefreshToken(refreshToken, now.Add(a.refreshTTL()))
	if login {
		user.LastLogin = &now
	}
	if err := a.userRepo.UpdateUser(ctx, user); err != nil {
		a.logger.Error("store refresh token", zap.Error(err))
		return "", time.Time{}, "", apiError.ErrInternalServerError
	}
	return token, expiry, refreshToken, nil
}

func (a *authService) ForgetPassword(ctx context.Context, email string) *apiError.Error {
	user, err := a.userRepo.FindUserByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, db.ErrNotFound) {
			return apiError.ErrEmailNotFound
		}
		a.logger.Error("find user by email", zap.Error(err))
		return apiError.ErrInternalServerError
	}

	code, err := GenerateOTP()
	if err != nil {
		return apiError.ErrInternalServerError
	}
	user.SetOTP(code, a.now(), a.otpTTL())
	if err := a.userRepo.UpdateUser(ctx, user); err != nil {
		a.logger.Error("store reset otp", zap.Error(err))
		return apiError.ErrInternalServerError
	}

	if err := a.mail.SendResetPassword(ctx, user.Email, code); err != nil {
		return apiError.New("connection to mail service interrupted", http.StatusInternalServerError)
	}
	return nil
}

// ResetPassword requires the OTP value to match, not only to be unexpired.
func (a *authService) ResetPassword(ctx context.Context, req *models.ResetPasswordRequest) *apiError.Error {
	user, err := a.userRepo.FindUserByEmail(ctx, req.Email)
	if err != nil {
		if errors.Is(err, db.ErrNotFound) {
			return apiError.ErrInvalidOTP
		}
		a.logger.Error("find user by email", zap.Error(err))
		return apiError.ErrInternalServerError
	}
	if !user.OTPMatches(req.Otp, a.now()) {
		return apiError.ErrInvalidOTP
	}
	if err := models.ValidatePassword(req.NewPassword); err != nil {
		return apiError.New(err.Error(), http.StatusBadRequest)
	}

	if err := user.SetPassword(req.NewPassword); err != nil {
		return apiError.ErrInternalServerError
	}
	user.ClearOTP()
	user.ClearRefreshToken()
	if err := a.userRepo.UpdateUser(ctx, user); err != nil {
		a.logger.Error("reset password", zap.Error(err))
		return apiError.ErrInternalServerError
	}
	return nil
}

func (a *authService) GetCurrentUser(ctx context.Context, userID string) (*models.User, *apiError.Error) {
	id, err := uuid.Parse(userID)
	if err != nil {
		return nil, apiError.New("invalid user id", http.StatusUnauthorized)
	}
	user, err := a.userRepo.FindUserByID(ctx, id)
	if err != nil {
		return nil, a.notFoundOr500(err, "user not found")
	}
	return user, nil
}

func (a *authService) UpdateProfile(ctx context.Context, userID uuid.UUID, displayName string) (*models.User, *apiError.Error) {
	user, err := a.userRepo.FindUserByID(ctx, userID)
	if err != nil {
		return nil, a.notFoundOr500(err, "user not found")
	}
	user.DisplayName = displayName
	if err := a.userRepo.UpdateUser(ctx, user); err != nil {
		a.logger.Error("update profile", zap.Error(err))
		return nil, apiError.ErrInternalServerError
	}
	return user, nil
}

func (a *authService) Logout(ctx context.Context, userID uuid.UUID) *apiError.Error {
	user, err := a.userRepo.FindUserByID(ctx, userID)
	if err != nil {
		return a.notFoundOr500(err, "user not found")
	}
	user.ClearRefreshToken()
	if err := a.userRepo.UpdateUser(ctx, user); err != nil {
		a.logger.Error("logout", zap.Error(err))
		return apiError.ErrInternalServerError
	}
	return nil
}

func (a *authService) notFoundOr500(err error, message string) *apiError.Error {
	if errors.Is(err, db.ErrNotFound) {
		return apiError.New(message, http.StatusNotFound)
	}
	a.logger.Error(message, zap.Error(err))
	return apiError.ErrInternalServerError
}
