package models

import (
	"path"
	"time"

	"github.com/google/uuid"
)

type UserResponse struct {
	ID          uuid.UUID `json:"id"`
	Email       string    `json:"email"`
	DisplayName string    `json:"displayName"`
	TrustPoints int       `json:"trustPoints"`
	Badge       Badge     `json:"badge"`
}

func NewUserResponse(u *User) UserResponse {
	return UserResponse{
		ID:          u.ID,
		Email:       u.Email,
		DisplayName: u.DisplayName,
		TrustPoints: u.TrustPoints,
		Badge:       u.Badge,
	}
}

type AuthResponse struct {
	Token        string    `json:"token"`
	UserID       uuid.UUID `json:"userId"`
	RefreshToken string    `json:"refreshToken"`
	Expiry       time.Time `json:"expiry"`
}

type RefreshResponse struct {
	Token        string    `json:"token"`
	RefreshToken string    `json:"refreshToken"`
	Expiry       time.Time `json:"expiry"`
}

type AttachmentResponse struct {
	ID           uuid.UUID `json:"id"`
	FileName     string    `json:"fileName"`
	ContentType  string    `json:"contentType"`
	SizeBytes    int64     `json:"sizeBytes"`
	URL          string    `json:"url"`
	ThumbnailURL string    `json:"thumbnailUrl,omitempty"`
}

type ReportResponse struct {
	ID                uuid.UUID            `json:"id"`
	Title             string               `json:"title"`
	Description       string               `json:"description"`
	Category          ReportCategory       `json:"category"`
	Visibility        Visibility           `json:"visibility"`
	Status            ReportStatus         `json:"status"`
	Latitude          float64              `json:"latitude"`
	Longitude         float64              `json:"longitude"`
	CreatedAt         time.Time            `json:"createdAt"`
	ReporterID        *uuid.UUID           `json:"reporterId"`
	RoutedAuthorityID *uuid.UUID           `json:"routedAuthorityId"`
	Attachments       []AttachmentResponse `json:"attachments"`
}

type CommentResponse struct {
	ID              uuid.UUID `json:"id"`
	ReportID        uuid.UUID `json:"reportId"`
	UserID          uuid.UUID `json:"userId"`
	UserDisplayName string    `json:"userDisplayName"`
	Content         string    `json:"content"`
	CreatedAt       time.Time `json:"createdAt"`
	UpdatedAt       time.Time `json:"updatedAt"`
}

type ReportWithInteractionsResponse struct {
	ID                   uuid.UUID            `json:"id"`
	ReporterID           *uuid.UUID           `json:"reporterId"`
	ReporterDisplayName  *string              `json:"reporterDisplayName"`
	Visibility           Visibility           `json:"visibility"`
	Category             ReportCategory       `json:"category"`
	Status               ReportStatus         `json:"status"`
	Title                string               `json:"title"`
	Description          string               `json:"description"`
	Latitude             float64              `json:"latitude"`
	Longitude            float64              `json:"longitude"`
	CreatedAt            time.Time            `json:"createdAt"`
	RoutedAuthorityID    *uuid.UUID           `json:"routedAuthorityId"`
	AuthorityName        *string              `json:"authorityName"`
	Attachments          []AttachmentResponse `json:"attachments"`
	LikeCount            int64                `json:"likeCount"`
	CommentCount         int64                `json:"commentCount"`
	IsLikedByCurrentUser bool                 `json:"isLikedByCurrentUser"`
	RecentComments       []CommentResponse    `json:"recentComments"`
}

type LikeResponse struct {
	IsLiked bool   `json:"isLiked"`
	Message string `json:"message"`
}

type AuthorityResponse struct {
	ID         uuid.UUID `json:"id"`
	Name       string    `json:"name"`
	Department string    `json:"department"`
}

type AdminUserResponse struct {
	ID               uuid.UUID  `json:"id"`
	Email            string     `json:"email"`
	DisplayName      string     `json:"displayName"`
	TrustPoints      int        `json:"trustPoints"`
	Badge            Badge      `json:"badge"`
	Role             Role       `json:"role"`
	IsEmailConfirmed bool       `json:"isEmailConfirmed"`
	AuthorityID      *uuid.UUID `json:"authorityId"`
	LastLogin        *time.Time `json:"lastLogin"`
	ReportsCount     int64      `json:"reportsCount"`
	CreatedAt        time.Time  `json:"createdAt"`
}

// ReportListResponse is a filtered page of reports with per-status totals
// over the whole filter.
type ReportListResponse struct {
	Reports   []ReportResponse    `json:"reports"`
	Summary   ReportStatusSummary `json:"summary"`
	Filter    ReportFilter        `json:"filter"`
	Authority *AuthorityResponse  `json:"authority,omitempty"`
	Page      int                 `json:"page"`
	PageSize  int                 `json:"pageSize"`
}

type PagedUsersResponse struct {
	Users      []AdminUserResponse `json:"users"`
	TotalCount int64               `json:"totalCount"`
	Page       int                 `json:"page"`
	PageSize   int                 `json:"pageSize"`
	TotalPages int                 `json:"totalPages"`
}

type TrustPointsResponse struct {
	UserID uuid.UUID `json:"userId"`
	Total  int       `json:"total"`
}

// FeedEvent is pushed to live feed subscribers.
type FeedEvent struct {
	Type   string         `json:"type"`
	Report ReportResponse `json:"report"`
}

const (
	FeedEventReportCreated = "report.created"
	FeedEventStatusChanged = "report.status"
)

const UploadsURLPrefix = "/uploads/"

func NewAttachmentResponse(a *Attachment) AttachmentResponse {
	resp := AttachmentResponse{
		ID:          a.ID,
		FileName:    a.FileName,
		ContentType: a.ContentType,
		SizeBytes:   a.SizeBytes,
		URL:         UploadsURLPrefix + path.Base(a.StoragePath),
	}
	if a.ThumbnailPath != "" {
		resp.ThumbnailURL = UploadsURLPrefix + path.Base(a.ThumbnailPath)
	}
	return resp
}

func NewReportResponse(r *Report) ReportResponse {
	attachments := make([]AttachmentResponse, 0, len(r.Attachments))
	for i := range r.Attachments {
		attachments = append(attachments, NewAttachmentResponse(&r.Attachments[i]))
	}
	return ReportResponse{
		ID:                r.ID,
		Title:             r.Title,
		Description:       r.Description,
		Category:          r.Category,
		Visibility:        r.Visibility,
		Status:            r.Status,
		Latitude:          r.Latitude,
		Longitude:         r.Longitude,
		CreatedAt:         r.CreatedAt,
		ReporterID:        r.ReporterID,
		RoutedAuthorityID: r.RoutedAuthorityID,
		Attachments:       attachments,
	}
}

func NewReportResponses(reports []Report) []ReportResponse {
	out := make([]ReportResponse, 0, len(reports))
	for i := range reports {
		out = append(out, NewReportResponse(&reports[i]))
	}
	return out
}

const UnknownUserDisplayName = "Unknown User"

func NewCommentResponse(c *Comment) CommentResponse {
	name := UnknownUserDisplayName
	if c.User != nil && c.User.DisplayName != "" {
		name = c.User.DisplayName
	}
	return CommentResponse{
		ID:              c.ID,
		ReportID:        c.ReportID,
		UserID:          c.UserID,
		UserDisplayName: name,
		Content:         c.Content,
		CreatedAt:       c.CreatedAt,
		UpdatedAt:       c.UpdatedAt,
	}
}

func NewCommentResponses(comments []Comment) []CommentResponse {
	out := make([]CommentResponse, 0, len(comments))
	for i := range comments {
		out = append(out, NewCommentResponse(&comments[i]))
	}
	return out
}
