package models

import (
	"testing"
	"time"
)

func TestUserPassword(t *testing.T) {
	u := &User{}
	if err := u.SetPassword("s3cret-pass"); err != nil {
		t.Fatal(err)
	}
	if u.PasswordHash == "s3cret-pass" {
		t.Fatal("password stored in clear text")
	}
	if err := u.VerifyPassword("s3cret-pass"); err != nil {
		t.Errorf("VerifyPassword(correct) = %v", err)
	}
	if err := u.VerifyPassword("wrong"); err == nil {
		t.Error("VerifyPassword(wrong) = nil, want error")
	}
}

func TestUserOTP(t *testing.T) {
	now := time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC)
	u := &User{}
	if !u.OTPExpired(now) {
		t.Fatal("user without otp should count as expired")
	}
	u.SetOTP("123456", now, 15*time.Minute)

	tests := []struct {
		name string
		code string
		at   time.Time
		want bool
	}{
		{name: "match", code: "123456", at: now.Add(time.Minute), want: true},
		{name: "mismatch", code: "654321", at: now.Add(time.Minute), want: false},
		{name: "expired", code: "123456", at: now.Add(16 * time.Minute), want: false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := u.OTPMatches(tt.code, tt.at); got != tt.want {
				t.Errorf("OTPMatches() = %v, want %v", got, tt.want)
			}
		})
	}

	u.ClearOTP()
	if u.OtpCode != nil || u.OtpExpiry != nil {
		t.Error("ClearOTP left fields set")
	}
}

func TestValidatePassword(t *testing.T) {
	tests := []struct {
		password string
		wantErr  bool
	}{
		{"abc", true},
		{"abcdef", false},
		{"a-much-longer-but-still-fine-password", false},
		{string(make([]byte, 65)), true},
	}
	for _, tt := range tests {
		if err := ValidatePassword(tt.password); (err != nil) != tt.wantErr {
			t.Errorf("ValidatePassword(len=%d) err = %v, wantErr %v", len(tt.password), err, tt.wantErr)
		}
	}
}

func TestValidateWhiteSpaces(t *testing.T) {
	req := &RegisterRequest{Email: "  jane@example.com ", DisplayName: "  Jane  ", Password: " keep "}
	if err := ValidateWhiteSpaces(req); err != nil {
		t.Fatal(err)
	}
	if req.Email != "jane@example.com" || req.DisplayName != "Jane" {
		t.Errorf("not trimmed: %+v", req)
	}
	if req.Password != " keep " {
		t.Errorf("password must not be trimmed, got %q", req.Password)
	}
}
