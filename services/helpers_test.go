package services

import (
	"context"
	"errors"
	"sync"
	"testing"

	"github.com/google/uuid"
	"github.com/techagentng/ain/config"
	"github.com/techagentng/ain/db/dbtest"
	"github.com/techagentng/ain/models"
)

type fakeMailer struct {
	mu    sync.Mutex
	codes map[string]string
	fail  bool
}

func newFakeMailer() *fakeMailer {
	return &fakeMailer{codes: map[string]string{}}
}

func (f *fakeMailer) SendOTP(_ context.Context, email, _, code string) error {
	return f.record(email, code)
}

func (f *fakeMailer) SendResetPassword(_ context.Context, email, code string) error {
	return f.record(email, code)
}

func (f *fakeMailer) record(email, code string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.fail {
		return errors.New("mail service down")
	}
	f.codes[email] = code
	return nil
}

func (f *fakeMailer) code(email string) string {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.codes[email]
}

func testConfig() *config.Config {
	return &config.Config{
		JWTSecret:        "test-secret",
		JWTIssuer:        "ain",
		JWTAudience:      "ain-clients",
		JWTExpiryHours:   24,
		RefreshTokenDays: 7,
		OTPExpiryMinutes: 15,
	}
}

type recordingFeed struct {
	events []models.FeedEvent
}

func (r *recordingFeed) Publish(e models.FeedEvent) {
	r.events = append(r.events, e)
}

// createUser stores a confirmed user with the given role.
func createUser(t *testing.T, store *dbtest.Store, email string, role models.Role) *models.User {
	t.Helper()
	u := &models.User{
		Model:            models.Model{ID: uuid.New()},
		Email:            email,
		DisplayName:      email,
		Role:             role,
		Badge:            models.BadgeNewcomer,
		IsEmailConfirmed: true,
	}
	if err := u.SetPassword("Secret123"); err != nil {
		t.Fatalf("set password: %v", err)
	}
	if err := store.Users().CreateUser(context.Background(), u); err != nil {
		t.Fatalf("create user: %v", err)
	}
	return u
}
