package db

import (
	"context"
	"fmt"
	"log"

	"github.com/google/uuid"
	"github.com/pkg/errors"
	"github.com/techagentng/ain/config"
	"github.com/techagentng/ain/models"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// ErrNotFound is returned by every repository when a row does not exist.
var ErrNotFound = errors.New("record not found")

// ErrDuplicate is returned when a unique constraint rejects a write.
var ErrDuplicate = errors.New("duplicate record")

type GormDB struct {
	DB *gorm.DB
}

func GetDB(c *config.Config) (*GormDB, error) {
	gormDB := &GormDB{}
	if err := gormDB.Init(c); err != nil {
		return nil, err
	}
	return gormDB, nil
}

func (g *GormDB) Init(c *config.Config) error {
	db, err := getPostgresDB(c)
	if err != nil {
		return err
	}
	g.DB = db

	if err := migrate(g.DB); err != nil {
		return errors.Wrap(err, "unable to run migrations")
	}
	return nil
}

func getPostgresDB(c *config.Config) (*gorm.DB, error) {
	log.Printf("Connecting to postgres: host=%s port=%d db=%s", c.PostgresHost, c.PostgresPort, c.PostgresDB)
	postgresDSN := fmt.Sprintf("host=%s user=%s password=%s dbname=%s port=%d TimeZone=%s",
		c.PostgresHost, c.PostgresUser, c.PostgresPassword, c.PostgresDB, c.PostgresPort, c.PostgresTimeZone)

	gormConfig := &gorm.Config{TranslateError: true}
	if !c.IsProduction() {
		gormConfig.Logger = logger.Default.LogMode(logger.Info)
	}
	gormDB, err := gorm.Open(postgres.New(postgres.Config{
		DSN: postgresDSN,
	}), gormConfig)
	if err != nil {
		return nil, errors.Wrap(err, "open postgres")
	}

	return gormDB, nil
}

func migrate(db *gorm.DB) error {
	return db.AutoMigrate(
		&models.User{},
		&models.Authority{},
		&models.Report{},
		&models.Attachment{},
		&models.Like{},
		&models.Comment{},
	)
}

// SeedAuthorities creates the fixed routing targets if they are missing.
func SeedAuthorities(ctx context.Context, db *gorm.DB) error {
	for _, a := range DefaultAuthorities() {
		authority := a
		if err := db.WithContext(ctx).Where(models.Authority{Name: authority.Name}).
			FirstOrCreate(&authority).Error; err != nil {
			return errors.Wrapf(err, "seed authority %s", authority.Name)
		}
	}
	return nil
}

// DefaultAuthorities lists the authorities every installation starts with.
func DefaultAuthorities() []models.Authority {
	return []models.Authority{
		{ID: uuid.New(), Name: "Police", Department: "Security", ContactEmail: "police@example.com", ContactPhone: "+100000000"},
		{ID: uuid.New(), Name: "Ambulance", Department: "Public Safety", ContactEmail: "ambulance@example.com", ContactPhone: "+100000001"},
		{ID: uuid.New(), Name: "Traffic Department", Department: "Traffic", ContactEmail: "traffic@example.com", ContactPhone: "+100000002"},
		{ID: uuid.New(), Name: "Municipality", Department: "Environment", ContactEmail: "municipality@example.com", ContactPhone: "+100000003"},
		{ID: uuid.New(), Name: "General Authority", Department: "General", ContactEmail: "general@example.com", ContactPhone: "+100000004"},
	}
}

// SeedAdmin creates the configured admin account unless the email is taken,
// including by a soft-deleted account.
func SeedAdmin(ctx context.Context, users UserRepository, c *config.Config) (bool, error) {
	exists, err := users.IsEmailExist(ctx, c.AdminEmail)
	if err != nil {
		return false, err
	}
	if exists {
		return false, nil
	}

	admin := NewAdminUser(c)
	if err := admin.SetPassword(c.AdminPassword); err != nil {
		return false, errors.Wrap(err, "hash admin password")
	}
	if err := users.CreateUser(ctx, admin); err != nil {
		return false, err
	}
	return true, nil
}

func NewAdminUser(c *config.Config) *models.User {
	return &models.User{
		Model:            models.Model{ID: uuid.New()},
		Email:            c.AdminEmail,
		DisplayName:      c.AdminDisplayName,
		Role:             models.RoleAdmin,
		IsEmailConfirmed: true,
		TrustPoints:      100,
		Badge:            models.DetermineBadge(100),
	}
}

// translate maps gorm errors to the package sentinels.
func translate(err error, op string) error {
	switch {
	case err == nil:
		return nil
	case errors.Is(err, gorm.ErrRecordNotFound):
		return errors.Wrap(ErrNotFound, op)
	case errors.Is(err, gorm.ErrDuplicatedKey):
		return errors.Wrap(ErrDuplicate, op)
	default:
		return errors.Wrap(err, op)
	}
}
