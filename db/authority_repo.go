package db

import (
	"context"

	"github.com/google/uuid"
	"github.com/pkg/errors"
	"github.com/techagentng/ain/models"
	"gorm.io/gorm"
)

type AuthorityRepository interface {
	FindAuthorityByName(ctx context.Context, name string) (*models.Authority, error)
	FindAuthorityByID(ctx context.Context, id uuid.UUID) (*models.Authority, error)
	ListAuthorities(ctx context.Context) ([]models.Authority, error)
}

type authorityRepo struct {
	DB *gorm.DB
}

func NewAuthorityRepo(db *GormDB) AuthorityRepository {
	return &authorityRepo{db.DB}
}

func (a *authorityRepo) FindAuthorityByName(ctx context.Context, name string) (*models.Authority, error) {
	var authority models.Authority
	if err := a.DB.WithContext(ctx).Where("name = ?", name).First(&authority).Error; err != nil {
		return nil, translate(err, "find authority by name")
	}
	return &authority, nil
}

func (a *authorityRepo) FindAuthorityByID(ctx context.Context, id uuid.UUID) (*models.Authority, error) {
	var authority models.Authority
	if err := a.DB.WithContext(ctx).Where("id = ?", id).First(&authority).Error; err != nil {
		return nil, translate(err, "find authority by id")
	}
	return &authority, nil
}

func (a *authorityRepo) ListAuthorities(ctx context.Context) ([]models.Authority, error) {
	var authorities []models.Authority
	if err := a.DB.WithContext(ctx).Order("name").Find(&authorities).Error; err != nil {
		return nil, errors.Wrap(err, "list authorities")
	}
	return authorities, nil
}
