package config

import (
	"reflect"
	"testing"
)

func TestLoad(t *testing.T) {
	t.Setenv("GIN_MODE", "release")
	t.Setenv("AIN_JWT_SECRET", "secret")
	t.Setenv("AIN_POSTGRES_PORT", "6543")
	t.Setenv("AIN_ACCESS_CONTROL_ALLOW_ORIGIN", "http://localhost:3000, https://ain.example.com")

	c, err := Load()
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if c.PostgresPort != 6543 {
		t.Errorf("PostgresPort = %d, want 6543", c.PostgresPort)
	}
	if c.JWTExpiryHours != 24 || c.RefreshTokenDays != 7 || c.OTPExpiryMinutes != 15 {
		t.Errorf("unexpected token defaults: %+v", c)
	}
	if c.UploadsRoot != "wwwroot/uploads" {
		t.Errorf("UploadsRoot = %q", c.UploadsRoot)
	}
	if c.AdminPassword != "Admin@123" || c.AdminDisplayName != "Admin" {
		t.Errorf("unexpected admin defaults: %q %q", c.AdminPassword, c.AdminDisplayName)
	}
	want := []string{"http://localhost:3000", "https://ain.example.com"}
	if got := c.AllowedOrigins(); !reflect.DeepEqual(got, want) {
		t.Errorf("AllowedOrigins() = %v, want %v", got, want)
	}
}

func TestLoadRequiresSecret(t *testing.T) {
	t.Setenv("GIN_MODE", "release")
	t.Setenv("AIN_JWT_SECRET", "")
	if _, err := Load(); err == nil {
		t.Fatal("expected an error without a jwt secret")
	}
}
