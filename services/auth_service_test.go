package services

import (
	"context"
	"net/http"
	"testing"
	"time"

	"github.com/techagentng/ain/db/dbtest"
	apiError "github.com/techagentng/ain/errors"
	"github.com/techagentng/ain/models"
	"github.com/techagentng/ain/services/jwt"
	"go.uber.org/zap"
)

func newTestAuthService(t *testing.T) (*authService, *dbtest.Store, *fakeMailer) {
	t.Helper()
	store := dbtest.NewStore()
	mail := newFakeMailer()
	svc := NewAuthService(store.Users(), mail, testConfig(), zap.NewNop()).(*authService)
	return svc, store, mail
}

func register(t *testing.T, svc *authService, email string) *models.User {
	t.Helper()
	user, apiErr := svc.Register(context.Background(), &models.RegisterRequest{
		Email:       email,
		Password:    "Secret123",
		DisplayName: "Ada",
	})
	if apiErr != nil {
		t.Fatalf("Register: %v", apiErr)
	}
	return user
}

func TestRegister(t *testing.T) {
	svc, _, mail := newTestAuthService(t)
	user := register(t, svc, "ada@example.com")

	if user.Role != models.RoleUser || user.Badge != models.BadgeNewcomer || user.TrustPoints != 0 {
		t.Errorf("unexpected defaults: role=%v badge=%v points=%d", user.Role, user.Badge, user.TrustPoints)
	}
	if user.IsEmailConfirmed {
		t.Error("new user should not be confirmed")
	}
	if code := mail.code("ada@example.com"); len(code) != 6 {
		t.Errorf("otp code = %q, want 6 digits", code)
	}
	if user.PasswordHash == "Secret123" {
		t.Error("password stored in plain text")
	}
}

func TestRegisterErrors(t *testing.T) {
	tests := []struct {
		name     string
		password string
		failMail bool
		wantCode int
	}{
		{name: "short password", password: "abc", wantCode: http.StatusBadRequest},
		{name: "mail failure", password: "Secret123", failMail: true, wantCode: http.StatusInternalServerError},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc, _, mail := newTestAuthService(t)
			mail.fail = tt.failMail
			_, apiErr := svc.Register(context.Background(), &models.RegisterRequest{
				Email: "ada@example.com", Password: tt.password, DisplayName: "Ada",
			})
			if apiErr == nil || apiErr.Status != tt.wantCode {
				t.Fatalf("got %v, want status %d", apiErr, tt.wantCode)
			}
		})
	}
}

func TestRegisterDuplicateEmail(t *testing.T) {
	svc, _, _ := newTestAuthService(t)
	register(t, svc, "ada@example.com")

	_, apiErr := svc.Register(context.Background(), &models.RegisterRequest{
		Email: "ada@example.com", Password: "Secret123", DisplayName: "Other",
	})
	if apiErr != apiError.ErrConflict {
		t.Fatalf("got %v, want conflict", apiErr)
	}
}

func TestVerifyOTP(t *testing.T) {
	ctx := context.Background()
	svc, store, mail := newTestAuthService(t)
	user := register(t, svc, "ada@example.com")
	code := mail.code("ada@example.com")

	wrong := "000000"
	if code == wrong {
		wrong = "111111"
	}
	if apiErr := svc.VerifyOTP(ctx, &models.OtpVerificationRequest{Email: user.Email, Code: wrong}); apiErr == nil || apiErr.Status != http.StatusBadRequest {
		t.Fatalf("wrong code: got %v, want 400", apiErr)
	}
	if apiErr := svc.VerifyOTP(ctx, &models.OtpVerificationRequest{Email: "nobody@example.com", Code: code}); apiErr == nil || apiErr.Status != http.StatusNotFound {
		t.Fatalf("unknown email: got %v, want 404", apiErr)
	}
	if apiErr := svc.VerifyOTP(ctx, &models.OtpVerificationRequest{Email: user.Email, Code: code}); apiErr != nil {
		t.Fatalf("VerifyOTP: %v", apiErr)
	}

	stored, err := store.Users().FindUserByID(ctx, user.ID)
	if err != nil {
		t.Fatal(err)
	}
	if !stored.IsEmailConfirmed || stored.OtpCode != nil || stored.OtpExpiry != nil {
		t.Errorf("after verify: confirmed=%v otp=%v expiry=%v", stored.IsEmailConfirmed, stored.OtpCode, stored.OtpExpiry)
	}

	// The code is single use.
	if apiErr := svc.VerifyOTP(ctx, &models.OtpVerificationRequest{Email: user.Email, Code: code}); apiErr == nil {
		t.Fatal("reusing an OTP should fail")
	}
}

func TestVerifyOTPExpired(t *testing.T) {
	svc, _, mail := newTestAuthService(t)
	user := register(t, svc, "ada@example.com")

	svc.now = func() time.Time { return time.Now().Add(16 * time.Minute) }
	apiErr := svc.VerifyOTP(context.Background(), &models.OtpVerificationRequest{Email: user.Email, Code: mail.code(user.Email)})
	if apiErr == nil || apiErr.Status != http.StatusBadRequest {
		t.Fatalf("got %v, want 400", apiErr)
	}
}

func TestLoginAndRefreshRotation(t *testing.T) {
	ctx := context.Background()
	svc, store, _ := newTestAuthService(t)
	user := register(t, svc, "ada@example.com")

	if _, apiErr := svc.LoginUser(ctx, &models.LoginRequest{Email: user.Email, Password: "wrong-password"}); apiErr != apiError.ErrInvalidPassword {
		t.Fatalf("wrong password: got %v", apiErr)
	}
	if _, apiErr := svc.LoginUser(ctx, &models.LoginRequest{Email: "nobody@example.com", Password: "Secret123"}); apiErr != apiError.ErrInvalidPassword {
		t.Fatalf("unknown email: got %v", apiErr)
	}

	login, apiErr := svc.LoginUser(ctx, &models.LoginRequest{Email: user.Email, Password: "Secret123"})
	if apiErr != nil {
		t.Fatalf("LoginUser: %v", apiErr)
	}
	if login.UserID != user.ID || login.Token == "" || login.RefreshToken == "" {
		t.Fatalf("unexpected login response: %+v", login)
	}
	claims, err := jwt.ValidateAndGetClaims(login.Token, TokenOptions(svc.Config))
	if err != nil {
		t.Fatalf("token does not validate: %v", err)
	}
	if claims.UserID != user.ID || claims.Role != models.RoleUser {
		t.Errorf("claims = %+v", claims)
	}

	stored, _ := store.Users().FindUserByID(ctx, user.ID)
	if stored.LastLogin == nil {
		t.Error("last login not recorded")
	}

	refreshed, apiErr := svc.RefreshToken(ctx, login.RefreshToken)
	if apiErr != nil {
		t.Fatalf("RefreshToken: %v", apiErr)
	}
	if refreshed.RefreshToken == login.RefreshToken {
		t.Error("refresh token was not rotated")
	}
	if _, apiErr := svc.RefreshToken(ctx, login.RefreshToken); apiErr != apiError.ErrInvalidRefreshToken {
		t.Fatalf("old refresh token: got %v, want invalid", apiErr)
	}

	svc.now = func() time.Time { return time.Now().Add(8 * 24 * time.Hour) }
	if _, apiErr := svc.RefreshToken(ctx, refreshed.RefreshToken); apiErr != apiError.ErrInvalidRefreshToken {
		t.Fatalf("expired refresh token: got %v, want invalid", apiErr)
	}
}

func TestForgetAndResetPassword(t *testing.T) {
	ctx := context.Background()
	svc, store, mail := newTestAuthService(t)
	user := register(t, svc, "ada@example.com")
	login, apiErr := svc.LoginUser(ctx, &models.LoginRequest{Email: user.Email, Password: "Secret123"})
	if apiErr != nil {
		t.Fatal(apiErr)
	}

	if apiErr := svc.ForgetPassword(ctx, "nobody@example.com"); apiErr != apiError.ErrEmailNotFound {
		t.Fatalf("unknown email: got %v", apiErr)
	}
	if apiErr := svc.ForgetPassword(ctx, user.Email); apiErr != nil {
		t.Fatalf("ForgetPassword: %v", apiErr)
	}
	code := mail.code(user.Email)

	wrong := "000000"
	if code == wrong {
		wrong = "111111"
	}
	req := &models.ResetPasswordRequest{Email: user.Email, Otp: wrong, NewPassword: "NewSecret1"}
	if apiErr := svc.ResetPassword(ctx, req); apiErr != apiError.ErrInvalidOTP {
		t.Fatalf("wrong otp: got %v", apiErr)
	}

	req.Otp = code
	if apiErr := svc.ResetPassword(ctx, req); apiErr != nil {
		t.Fatalf("ResetPassword: %v", apiErr)
	}

	stored, _ := store.Users().FindUserByID(ctx, user.ID)
	if err := stored.VerifyPassword("NewSecret1"); err != nil {
		t.Error("new password not set")
	}
	if stored.OtpCode != nil || stored.RefreshToken != nil {
		t.Error("otp and refresh token should be cleared after reset")
	}
	if _, apiErr := svc.RefreshToken(ctx, login.RefreshToken); apiErr == nil {
		t.Error("refresh token issued before reset should be rejected")
	}
}

func TestForgetPasswordMailFailure(t *testing.T) {
	svc, _, mail := newTestAuthService(t)
	user := register(t, svc, "ada@example.com")
	mail.fail = true

	apiErr := svc.ForgetPassword(context.Background(), user.Email)
	if apiErr == nil || apiErr.Status != http.StatusInternalServerError {
		t.Fatalf("got %v, want 500", apiErr)
	}
}

func TestProfileAndLogout(t *testing.T) {
	ctx := context.Background()
	svc, _, _ := newTestAuthService(t)
	user := register(t, svc, "ada@example.com")
	login, _ := svc.LoginUser(ctx, &models.LoginRequest{Email: user.Email, Password: "Secret123"})

	updated, apiErr := svc.UpdateProfile(ctx, user.ID, "Ada L.")
	if apiErr != nil {
		t.Fatalf("UpdateProfile: %v", apiErr)
	}
	if updated.DisplayName != "Ada L." {
		t.Errorf("display name = %q", updated.DisplayName)
	}

	current, apiErr := svc.GetCurrentUser(ctx, user.ID.String())
	if apiErr != nil || current.DisplayName != "Ada L." {
		t.Fatalf("GetCurrentUser = %v, %v", current, apiErr)
	}
	if _, apiErr := svc.GetCurrentUser(ctx, "not-a-uuid"); apiErr == nil || apiErr.Status != http.StatusUnauthorized {
		t.Errorf("bad id: got %v", apiErr)
	}

	if apiErr := svc.Logout(ctx, user.ID); apiErr != nil {
		t.Fatalf("Logout: %v", apiErr)
	}
	if _, apiErr := svc.RefreshToken(ctx, login.RefreshToken); apiErr != apiError.ErrInvalidRefreshToken {
		t.Errorf("refresh after logout: got %v", apiErr)
	}
}
