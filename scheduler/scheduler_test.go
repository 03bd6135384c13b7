package scheduler

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/techagentng/ain/db/dbtest"
	"github.com/techagentng/ain/models"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"
)

func TestPurgeExpired(t *testing.T) {
	ctx := context.Background()
	store := dbtest.NewStore()
	users := store.Users()
	now := time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC)

	stale := &models.User{Model: models.Model{ID: uuid.New()}, Email: "stale@example.com", DisplayName: "Stale"}
	stale.SetOTP("123456", now.Add(-time.Hour), 15*time.Minute)
	stale.SetRefreshToken("old-token", now.Add(-time.Minute))

	fresh := &models.User{Model: models.Model{ID: uuid.New()}, Email: "fresh@example.com", DisplayName: "Fresh"}
	fresh.SetOTP("654321", now, 15*time.Minute)
	fresh.SetRefreshToken("new-token", now.Add(24*time.Hour))

	for _, u := range []*models.User{stale, fresh} {
		if err := users.CreateUser(ctx, u); err != nil {
			t.Fatalf("create user: %v", err)
		}
	}

	core, logs := observer.New(zapcore.InfoLevel)
	s := New(users, zap.New(core))
	s.now = func() time.Time { return now }

	n, err := s.PurgeExpired(ctx)
	if err != nil {
		t.Fatalf("PurgeExpired: %v", err)
	}
	if n != 2 {
		t.Errorf("purged = %d, want 2", n)
	}
	if logs.FilterMessage("purged expired credentials").Len() != 1 {
		t.Errorf("expected one purge log entry")
	}

	got, err := users.FindUserByID(ctx, stale.ID)
	if err != nil {
		t.Fatalf("find stale: %v", err)
	}
	if got.OtpCode != nil || got.RefreshToken != nil {
		t.Errorf("stale credentials not cleared: otp=%v token=%v", got.OtpCode, got.RefreshToken)
	}

	got, err = users.FindUserByID(ctx, fresh.ID)
	if err != nil {
		t.Fatalf("find fresh: %v", err)
	}
	if got.OtpCode == nil || got.RefreshToken == nil {
		t.Errorf("fresh credentials were cleared")
	}

	// A second pass has nothing left to clear.
	if n, _ := s.PurgeExpired(ctx); n != 0 {
		t.Errorf("second purge = %d, want 0", n)
	}
}

func TestStartRejectsBadSpec(t *testing.T) {
	s := New(dbtest.NewStore().Users(), zap.NewNop())
	if err := s.Start("not a cron spec"); err == nil {
		t.Fatal("expected error for invalid spec")
	}
}

func TestStartStop(t *testing.T) {
	s := New(dbtest.NewStore().Users(), zap.NewNop())
	if err := s.Start(PurgeSpec); err != nil {
		t.Fatalf("Start: %v", err)
	}
	ctx, cancel := context.WithTimeout(context.Background(), time.Second)
	defer cancel()
	s.Stop(ctx)
}
