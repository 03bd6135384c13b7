package models

import (
	"time"

	"github.com/google/uuid"
)

// Like is unique per (user, report).
type Like struct {
	ID        uuid.UUID `json:"id" gorm:"type:uuid;primaryKey"`
	ReportID  uuid.UUID `json:"reportId" gorm:"type:uuid;not null;uniqueIndex:idx_like_user_report"`
	UserID    uuid.UUID `json:"userId" gorm:"type:uuid;not null;uniqueIndex:idx_like_user_report"`
	CreatedAt time.Time `json:"createdAt"`
}
