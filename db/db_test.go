package db

import (
	"context"
	"testing"
	"time"

	"github.com/glebarez/sqlite"
	"github.com/google/uuid"
	"github.com/techagentng/ain/config"
	"github.com/techagentng/ain/models"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// newTestDB opens a migrated in-memory database. A single connection keeps
// every query on the same memory database.
func newTestDB(t *testing.T) *GormDB {
	t.Helper()
	gdb, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		TranslateError: true,
		Logger:         logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		t.Fatalf("open sqlite: %v", err)
	}
	sqlDB, err := gdb.DB()
	if err != nil {
		t.Fatal(err)
	}
	sqlDB.SetMaxOpenConns(1)
	t.Cleanup(func() { _ = sqlDB.Close() })

	if err := migrate(gdb); err != nil {
		t.Fatalf("migrate: %v", err)
	}
	return &GormDB{DB: gdb}
}

func newUser(t *testing.T, users UserRepository, email, name string) *models.User {
	t.Helper()
	u := &models.User{
		Email:       email,
		DisplayName: name,
		Badge:       models.BadgeNewcomer,
	}
	if err := u.SetPassword("Secret123"); err != nil {
		t.Fatal(err)
	}
	if err := users.CreateUser(context.Background(), u); err != nil {
		t.Fatalf("create user %s: %v", email, err)
	}
	return u
}

func newReport(t *testing.T, reports ReportRepository, reporter *models.User, title string, createdAt time.Time) *models.Report {
	t.Helper()
	r := &models.Report{
		ID:          uuid.New(),
		Visibility:  models.VisibilityPublic,
		Category:    models.CategoryTraffic,
		Status:      models.StatusPending,
		Title:       title,
		Description: "details",
		CreatedAt:   createdAt,
	}
	if reporter != nil {
		r.ReporterID = &reporter.ID
	}
	if err := reports.CreateReport(context.Background(), r); err != nil {
		t.Fatalf("create report: %v", err)
	}
	return r
}

func TestSeedAuthoritiesIsIdempotent(t *testing.T) {
	ctx := context.Background()
	gdb := newTestDB(t)
	for i := 0; i < 2; i++ {
		if err := SeedAuthorities(ctx, gdb.DB); err != nil {
			t.Fatalf("seed %d: %v", i, err)
		}
	}
	authorities, err := NewAuthorityRepo(gdb).ListAuthorities(ctx)
	if err != nil {
		t.Fatal(err)
	}
	if len(authorities) != len(DefaultAuthorities()) {
		t.Errorf("authorities = %d, want %d", len(authorities), len(DefaultAuthorities()))
	}
}

func TestSeedAdminSurvivesDeletedAdmin(t *testing.T) {
	ctx := context.Background()
	users := NewUserRepo(newTestDB(t))
	conf := &config.Config{AdminEmail: "admin@ain.local", AdminPassword: "Admin@123", AdminDisplayName: "Admin"}

	created, err := SeedAdmin(ctx, users, conf)
	if err != nil || !created {
		t.Fatalf("first seed = %v, %v", created, err)
	}
	admin, err := users.FindUserByEmail(ctx, conf.AdminEmail)
	if err != nil {
		t.Fatal(err)
	}
	if admin.Role != models.RoleAdmin || admin.VerifyPassword(conf.AdminPassword) != nil {
		t.Errorf("seeded admin = %+v", admin)
	}

	if created, err := SeedAdmin(ctx, users, conf); err != nil || created {
		t.Fatalf("reseed = %v, %v", created, err)
	}

	if err := users.DeleteUser(ctx, admin.ID); err != nil {
		t.Fatal(err)
	}
	if created, err := SeedAdmin(ctx, users, conf); err != nil || created {
		t.Fatalf("seed after delete = %v, %v; want false, nil", created, err)
	}
}
