package government

import (
	"time"

	"github.com/google/uuid"
)

const TableName = "certificate_requests"

// CertificateRequest tracks a request for an official certificate. Only
// pending requests can be processed; approval may attach an issued
// certificate stored as an object key.
type CertificateRequest struct {
	ID                   uuid.UUID  `gorm:"type:uuid;default:gen_random_uuid();primaryKey" json:"id"`
	UserID               uuid.UUID  `gorm:"type:uuid;not null;index" json:"user_id"`
	CertificateType      string     `gorm:"size:100;not null" json:"certificate_type"`
	Purpose              *string    `gorm:"type:text" json:"purpose"`
	Status               string     `gorm:"size:20;default:'pending';index" json:"status"`
	IssuedCertificateURL *string    `gorm:"size:500" json:"issued_certificate_url"`
	RequestedAt          time.Time  `gorm:"not null;index" json:"requested_at"`
	ProcessedAt          *time.Time `json:"processed_at"`
	CreatedAt            time.Time  `json:"created_at"`
	UpdatedAt            time.Time  `json:"updated_at"`
}

func (CertificateRequest) TableName() string { return TableName }

const (
	StatusPending  = "pending"
	StatusApproved = "approved"
	StatusRejected = "rejected"
)

// CertificatePrefix is the object-key prefix for issued certificates.
const CertificatePrefix = "certificates"
