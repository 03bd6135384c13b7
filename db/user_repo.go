package db

import (
	"context"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/pkg/errors"
	"github.com/techagentng/ain/models"
	"gorm.io/gorm"
)

type UserRepository interface {
	CreateUser(ctx context.Context, user *models.User) error
	IsEmailExist(ctx context.Context, email string) (bool, error)
	FindUserByID(ctx context.Context, id uuid.UUID) (*models.User, error)
	FindUserByEmail(ctx context.Context, email string) (*models.User, error)
	FindUserByRefreshToken(ctx context.Context, token string, now time.Time) (*models.User, error)
	UpdateUser(ctx context.Context, user *models.User) error
	ListUsers(ctx context.Context, search string, offset, limit int) ([]models.User, int64, error)
	CountReportsByReporters(ctx context.Context, ids []uuid.UUID) (map[uuid.UUID]int64, error)
	DeleteUser(ctx context.Context, id uuid.UUID) error
	PurgeExpiredCredentials(ctx context.Context, now time.Time) (int64, error)
}

type userRepo struct {
	DB *gorm.DB
}

func NewUserRepo(db *GormDB) UserRepository {
	return &userRepo{db.DB}
}

func (u *userRepo) CreateUser(ctx context.Context, user *models.User) error {
	return translate(u.DB.WithContext(ctx).Create(user).Error, "create user")
}

func (u *userRepo) IsEmailExist(ctx context.Context, email string) (bool, error) {
	var count int64
	err := u.DB.WithContext(ctx).Unscoped().Model(&models.User{}).Where("email = ?", email).Count(&count).Error
	if err != nil {
		return false, errors.Wrap(err, "gorm count error")
	}
	return count > 0, nil
}

func (u *userRepo) FindUserByID(ctx context.Context, id uuid.UUID) (*models.User, error) {
	var user models.User
	err := u.DB.WithContext(ctx).Where("id = ?", id).First(&user).Error
	if err != nil {
		return nil, translate(err, "find user by id")
	}
	return &user, nil
}

func (u *userRepo) FindUserByEmail(ctx context.Context, email string) (*models.User, error) {
	var user models.User
	err := u.DB.WithContext(ctx).Where("email = ?", email).First(&user).Error
	if err != nil {
		return nil, translate(err, "find user by email")
	}
	return &user, nil
}

// FindUserByRefreshToken uses the unique index on refresh_token.
func (u *userRepo) FindUserByRefreshToken(ctx context.Context, token string, now time.Time) (*models.User, error) {
	var user models.User
	err := u.DB.WithContext(ctx).
		Where("refresh_token = ? AND refresh_token_expiry > ?", token, now).
		First(&user).Error
	if err != nil {
		return nil, translate(err, "find user by refresh token")
	}
	return &user, nil
}

func (u *userRepo) UpdateUser(ctx context.Context, user *models.User) error {
	return translate(u.DB.WithContext(ctx).Save(user).Error, "update user")
}

func (u *userRepo) ListUsers(ctx context.Context, search string, offset, limit int) ([]models.User, int64, error) {
	query := u.DB.WithContext(ctx).Model(&models.User{})
	if search != "" {
		like := "%" + strings.ToLower(search) + "%"
		query = query.Where("LOWER(email) LIKE ? OR LOWER(display_name) LIKE ?", like, like)
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, errors.Wrap(err, "count users")
	}

	var users []models.User
	err := query.Order("created_at DESC").Offset(offset).Limit(limit).Find(&users).Error
	if err != nil {
		return nil, 0, errors.Wrap(err, "list users")
	}
	return users, total, nil
}

func (u *userRepo) CountReportsByReporters(ctx context.Context, ids []uuid.UUID) (map[uuid.UUID]int64, error) {
	counts := make(map[uuid.UUID]int64, len(ids))
	if len(ids) == 0 {
		return counts, nil
	}
	var rows []struct {
		ReporterID uuid.UUID
		Count      int64
	}
	err := u.DB.WithContext(ctx).Model(&models.Report{}).
		Select("reporter_id, COUNT(*) AS count").
		Where("reporter_id IN ?", ids).
		Group("reporter_id").
		Scan(&rows).Error
	if err != nil {
		return nil, errors.Wrap(err, "count reports by reporter")
	}
	for _, r := range rows {
		counts[r.ReporterID] = r.Count
	}
	return counts, nil
}

// DeleteUser soft deletes the account and drops its session.
func (u *userRepo) DeleteUser(ctx context.Context, id uuid.UUID) error {
	return u.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		res := tx.Model(&models.User{}).Where("id = ?", id).
			Updates(map[string]interface{}{"refresh_token": nil, "refresh_token_expiry": nil})
		if res.Error != nil {
			return errors.Wrap(res.Error, "clear session")
		}
		if res.RowsAffected == 0 {
			return errors.Wrap(ErrNotFound, "delete user")
		}
		return errors.Wrap(tx.Delete(&models.User{}, "id = ?", id).Error, "delete user")
	})
}

// PurgeExpiredCredentials clears OTPs and refresh tokens whose expiry has passed.
func (u *userRepo) PurgeExpiredCredentials(ctx context.Context, now time.Time) (int64, error) {
	var purged int64
	err := u.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		res := tx.Model(&models.User{}).Where("otp_expiry < ?", now).
			Updates(map[string]interface{}{"otp_code": nil, "otp_expiry": nil})
		if res.Error != nil {
			return res.Error
		}
		purged += res.RowsAffected

		res = tx.Model(&models.User{}).Where("refresh_token_expiry < ?", now).
			Updates(map[string]interface{}{"refresh_token": nil, "refresh_token_expiry": nil})
		if res.Error != nil {
			return res.Error
		}
		purged += res.RowsAffected
		return nil
	})
	if err != nil {
		return 0, errors.Wrap(err, "purge expired credentials")
	}
	return purged, nil
}
