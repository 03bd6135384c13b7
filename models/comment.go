package models

import (
	"time"

	"github.com/google/uuid"
)

// Comment represents a user's comment on a report. Deleting only sets IsDeleted.
type Comment struct {
	ID        uuid.UUID `json:"id" gorm:"type:uuid;primaryKey"`
	ReportID  uuid.UUID `json:"reportId" gorm:"type:uuid;index;not null"`
	UserID    uuid.UUID `json:"userId" gorm:"type:uuid;index;not null"`
	User      *User     `json:"-" gorm:"foreignKey:UserID"`
	Content   string    `json:"content" gorm:"size:1000;not null"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
	IsDeleted bool      `json:"-" gorm:"not null;default:false;index"`
}
