package models

import (
	"errors"
	"time"

	goval "github.com/go-passwd/validator"
	"github.com/google/uuid"
	"github.com/leebenson/conform"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

// User is a registered account: citizen, authority staff or admin.
type User struct {
	Model
	Email              string         `json:"email" gorm:"uniqueIndex;size:256;not null"`
	PasswordHash       string         `json:"-" gorm:"not null"`
	DisplayName        string         `json:"displayName" gorm:"size:128;not null"`
	TrustPoints        int            `json:"trustPoints" gorm:"not null;default:0"`
	Badge              Badge          `json:"badge" gorm:"not null;default:1"`
	Role               Role           `json:"role" gorm:"not null;default:0"`
	IsEmailConfirmed   bool           `json:"isEmailConfirmed" gorm:"not null;default:false"`
	AuthorityID        *uuid.UUID     `json:"authorityId" gorm:"type:uuid;index"`
	OtpCode            *string        `json:"-" gorm:"size:6"`
	OtpExpiry          *time.Time     `json:"-"`
	RefreshToken       *string        `json:"-" gorm:"uniqueIndex"`
	RefreshTokenExpiry *time.Time     `json:"-"`
	LastLogin          *time.Time     `json:"lastLogin"`
	DeletedAt          gorm.DeletedAt `json:"-" gorm:"index"`
}

// SetPassword stores the bcrypt hash of password.
func (u *User) SetPassword(password string) error {
	hashed, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return err
	}
	u.PasswordHash = string(hashed)
	return nil
}

// VerifyPassword verifies the collected password with the user's hashed password
func (u *User) VerifyPassword(password string) error {
	return bcrypt.CompareHashAndPassword([]byte(u.PasswordHash), []byte(password))
}

// SetOTP stores a fresh code that stays valid for ttl.
func (u *User) SetOTP(code string, now time.Time, ttl time.Duration) {
	expiry := now.Add(ttl)
	u.OtpCode = &code
	u.OtpExpiry = &expiry
}

func (u *User) ClearOTP() {
	u.OtpCode = nil
	u.OtpExpiry = nil
}

// OTPExpired reports whether there is no live OTP at now.
func (u *User) OTPExpired(now time.Time) bool {
	return u.OtpExpiry == nil || u.OtpExpiry.Before(now)
}

// OTPMatches reports whether code equals the stored, unexpired OTP.
func (u *User) OTPMatches(code string, now time.Time) bool {
	if u.OtpCode == nil || u.OTPExpired(now) {
		return false
	}
	return *u.OtpCode == code
}

func (u *User) SetRefreshToken(token string, expiry time.Time) {
	u.RefreshToken = &token
	u.RefreshTokenExpiry = &expiry
}

func (u *User) ClearRefreshToken() {
	u.RefreshToken = nil
	u.RefreshTokenExpiry = nil
}

// ValidatePassword checks the password length rules applied at registration and reset.
func ValidatePassword(password string) error {
	passwordValidator := goval.New(goval.MinLength(6, errors.New("password cant be less than 6 characters")),
		goval.MaxLength(64, errors.New("password cant be more than 64 characters")))
	return passwordValidator.Validate(password)
}

// ValidateWhiteSpaces trims every string field tagged with conform.
func ValidateWhiteSpaces(data interface{}) error {
	return conform.Strings(data)
}
