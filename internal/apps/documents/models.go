package documents

import (
	"time"

	"github.com/google/uuid"
)

const TableName = "documents"

// Document references a stored object; FileURL is the object key, not local
// data. Verified is flipped by admins after review.
type Document struct {
	ID        uuid.UUID `gorm:"type:uuid;default:gen_random_uuid();primaryKey" json:"id"`
	UserID    uuid.UUID `gorm:"type:uuid;not null;index" json:"user_id"`
	Name      string    `gorm:"size:255;not null" json:"name"`
	FileURL   string    `gorm:"size:500;not null" json:"file_url"`
	FileType  string    `gorm:"size:100" json:"file_type"`
	Category  string    `gorm:"size:20;not null;index" json:"category"`
	Verified  bool      `gorm:"default:false" json:"verified"`
	CreatedAt time.Time `gorm:"index" json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

func (Document) TableName() string { return TableName }

const (
	CategoryFinancial  = "financial"
	CategoryMedical    = "medical"
	CategoryGovernment = "government"
)

var validCategories = map[string]struct{}{
	CategoryFinancial:  {},
	CategoryMedical:    {},
	CategoryGovernment: {},
}
