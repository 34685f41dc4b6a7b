package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Profile is the authenticated identity. One row per account; credentials
// and the dashboard profile live together, matching the profiles table the
// frontend reads.
type Profile struct {
	ID            uuid.UUID      `gorm:"type:uuid;default:gen_random_uuid();primaryKey" json:"id"`
	Email         string         `gorm:"not null;size:255;uniqueIndex" json:"email"`
	Password      string         `gorm:"not null" json:"-"`
	FullName      string         `gorm:"size:255;not null" json:"full_name"`
	AvatarURL     *string        `gorm:"size:500" json:"avatar_url"`
	Phone         *string        `gorm:"size:30" json:"phone"`
	Address       *string        `gorm:"size:500" json:"address"`
	DateOfBirth   *time.Time     `json:"date_of_birth"`
	Role          string         `gorm:"size:20;default:'user'" json:"role"`
	EmailVerified bool           `gorm:"default:false" json:"-"`
	VerifyToken   string         `gorm:"size:64;index" json:"-"`
	CreatedAt     time.Time      `json:"created_at"`
	UpdatedAt     time.Time      `json:"updated_at"`
	DeletedAt     gorm.DeletedAt `gorm:"index" json:"-"`
}

const (
	RoleUser  = "user"
	RoleAdmin = "admin"
)
