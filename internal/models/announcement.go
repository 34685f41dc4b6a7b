package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
)

// Announcement is a broadcast entity; it has no owner. VisibleTo holds the
// roles the announcement is shown to.
type Announcement struct {
	ID        uuid.UUID                     `gorm:"type:uuid;default:gen_random_uuid();primaryKey" json:"id"`
	Title     string                        `gorm:"size:255;not null" json:"title"`
	Content   string                        `gorm:"type:text;not null" json:"content"`
	Category  string                        `gorm:"size:30;not null;index" json:"category"`
	VisibleTo datatypes.JSONSlice[string]   `gorm:"type:jsonb" json:"visible_to"`
	CreatedAt time.Time                     `gorm:"index" json:"created_at"`
	UpdatedAt time.Time                     `json:"updated_at"`
}

// AnnouncementRead is the server-side read-set: one row per user per
// acknowledged announcement, so the unread badge survives device changes.
type AnnouncementRead struct {
	ID             uuid.UUID `gorm:"type:uuid;default:gen_random_uuid();primaryKey" json:"id"`
	UserID         uuid.UUID `gorm:"type:uuid;not null;uniqueIndex:idx_announcement_reads_user_ann" json:"user_id"`
	AnnouncementID uuid.UUID `gorm:"type:uuid;not null;uniqueIndex:idx_announcement_reads_user_ann" json:"announcement_id"`
	CreatedAt      time.Time `json:"created_at"`
}

var AnnouncementCategories = []string{"general", "financial", "medical", "government"}
