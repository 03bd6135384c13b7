package models

import "github.com/google/uuid"

type RegisterRequest struct {
	Email       string `json:"email" binding:"required,email" conform:"trim"`
	Password    string `json:"password" binding:"required"`
	DisplayName string `json:"displayName" binding:"required,max=128" conform:"trim"`
}

type OtpVerificationRequest struct {
	Email string `json:"email" binding:"required,email" conform:"trim"`
	Code  string `json:"code" binding:"required,len=6,numeric" conform:"trim"`
}

type LoginRequest struct {
	Email    string `json:"email" binding:"required,email" conform:"trim"`
	Password string `json:"password" binding:"required"`
}

type RefreshTokenRequest struct {
	RefreshToken string `json:"refreshToken" binding:"required" conform:"trim"`
}

type ForgetPasswordRequest struct {
	Email string `json:"email" binding:"required,email" conform:"trim"`
}

type ResetPasswordRequest struct {
	Email       string `json:"email" binding:"required,email" conform:"trim"`
	Otp         string `json:"otp" binding:"required,len=6,numeric" conform:"trim"`
	NewPassword string `json:"newPassword" binding:"required"`
}

type ProfileUpdateRequest struct {
	DisplayName string `json:"displayName" binding:"required,max=128" conform:"trim"`
}

type ReportCreateRequest struct {
	Title       string         `json:"title" binding:"required,max=200" conform:"trim"`
	Description string         `json:"description" binding:"required,max=4000" conform:"trim"`
	Category    ReportCategory `json:"category" binding:"required,min=1,max=5"`
	Visibility  Visibility     `json:"visibility" binding:"required,min=1,max=3"`
	Latitude    float64        `json:"latitude" binding:"min=-90,max=90"`
	Longitude   float64        `json:"longitude" binding:"min=-180,max=180"`
}

// ReportUpdateRequest carries the same editable fields as creation.
type ReportUpdateRequest ReportCreateRequest

type StatusUpdateRequest struct {
	Status ReportStatus `json:"status" binding:"required,min=1,max=5"`
}

type CommentRequest struct {
	Content string `json:"content" binding:"required,min=1,max=1000" conform:"trim"`
}

// UserUpdateRequest is the admin edit of an account. AuthorityID links an
// Authority account to the queue it works.
type UserUpdateRequest struct {
	DisplayName string     `json:"displayName" binding:"required,max=128" conform:"trim"`
	Role        Role       `json:"role" binding:"min=0,max=2"`
	Badge       Badge      `json:"badge" binding:"required,min=1,max=5"`
	TrustPoints int        `json:"trustPoints" binding:"min=0"`
	AuthorityID *uuid.UUID `json:"authorityId"`
}
