package models

import (
	"time"

	"github.com/google/uuid"
)

// Report is an incident submitted by a citizen.
type Report struct {
	ID                uuid.UUID      `json:"id" gorm:"type:uuid;primaryKey"`
	ReporterID        *uuid.UUID     `json:"reporterId" gorm:"type:uuid;index"`
	Reporter          *User          `json:"-" gorm:"foreignKey:ReporterID;constraint:OnDelete:SET NULL"`
	Visibility        Visibility     `json:"visibility" gorm:"not null;index"`
	Category          ReportCategory `json:"category" gorm:"not null"`
	Status            ReportStatus   `json:"status" gorm:"not null;default:1"`
	Title             string         `json:"title" gorm:"size:200;not null"`
	Description       string         `json:"description" gorm:"size:4000;not null"`
	Latitude          float64        `json:"latitude"`
	Longitude         float64        `json:"longitude"`
	CreatedAt         time.Time      `json:"createdAt" gorm:"index"`
	RoutedAuthorityID *uuid.UUID     `json:"routedAuthorityId" gorm:"type:uuid;index"`
	RoutedAuthority   *Authority     `json:"-" gorm:"foreignKey:RoutedAuthorityID;constraint:OnDelete:SET NULL"`
	Attachments       []Attachment   `json:"attachments" gorm:"foreignKey:ReportID;constraint:OnDelete:CASCADE"`
	Likes             []Like         `json:"-" gorm:"foreignKey:ReportID;constraint:OnDelete:CASCADE"`
	Comments          []Comment      `json:"-" gorm:"foreignKey:ReportID;constraint:OnDelete:CASCADE"`
}

// IsOwnedBy reports whether userID filed this report under their name.
func (r *Report) IsOwnedBy(userID uuid.UUID) bool {
	return r.ReporterID != nil && *r.ReporterID == userID
}

// VisibleTo hides confidential reports from everyone but their reporter and
// the triage roles. viewerID is nil for unauthenticated callers.
func (r *Report) VisibleTo(viewerID *uuid.UUID, role Role) bool {
	if r.Visibility != VisibilityConfidential || role.CanTriage() {
		return true
	}
	return viewerID != nil && r.IsOwnedBy(*viewerID)
}

// ReportFilter narrows a report listing. Zero fields match everything.
type ReportFilter struct {
	AuthorityID *uuid.UUID     `json:"authorityId,omitempty"`
	ReporterID  *uuid.UUID     `json:"-"`
	Visibility  Visibility     `json:"visibility,omitempty"`
	Status      ReportStatus   `json:"status,omitempty"`
	Category    ReportCategory `json:"category,omitempty"`
	Search      string         `json:"search,omitempty"`
	From        *time.Time     `json:"from,omitempty"`
	To          *time.Time     `json:"to,omitempty"`
}

// ReportStatusSummary counts the reports matching a filter per status.
type ReportStatusSummary struct {
	Total      int64 `json:"totalReports"`
	Pending    int64 `json:"pendingCount"`
	InReview   int64 `json:"inReviewCount"`
	Dispatched int64 `json:"dispatchedCount"`
	Resolved   int64 `json:"resolvedCount"`
	Rejected   int64 `json:"rejectedCount"`
}

func (s *ReportStatusSummary) Add(status ReportStatus, n int64) {
	s.Total += n
	switch status {
	case StatusPending:
		s.Pending += n
	case StatusInReview:
		s.InReview += n
	case StatusDispatched:
		s.Dispatched += n
	case StatusResolved:
		s.Resolved += n
	case StatusRejected:
		s.Rejected += n
	}
}

// Authority is a fixed routing target such as the police.
type Authority struct {
	ID           uuid.UUID `json:"id" gorm:"type:uuid;primaryKey"`
	Name         string    `json:"name" gorm:"size:128;uniqueIndex;not null"`
	Department   string    `json:"department" gorm:"size:128"`
	ContactEmail string    `json:"contactEmail" gorm:"size:256"`
	ContactPhone string    `json:"contactPhone" gorm:"size:32"`
}

type Attachment struct {
	ID            uuid.UUID `json:"id" gorm:"type:uuid;primaryKey"`
	ReportID      uuid.UUID `json:"reportId" gorm:"type:uuid;index;not null"`
	FileName      string    `json:"fileName" gorm:"size:256;not null"`
	ContentType   string    `json:"contentType" gorm:"size:128"`
	SizeBytes     int64     `json:"sizeBytes"`
	StoragePath   string    `json:"-" gorm:"not null"`
	ThumbnailPath string    `json:"-"`
	CreatedAt     time.Time `json:"createdAt"`
}
