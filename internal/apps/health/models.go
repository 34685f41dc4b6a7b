package health

import (
	"time"

	"github.com/google/uuid"
)

const TableName = "medical_appointments"

// MedicalAppointment is a booked appointment. Status is server-authoritative:
// users only ever move their own pending appointments to cancelled.
type MedicalAppointment struct {
	ID              uuid.UUID `gorm:"type:uuid;default:gen_random_uuid();primaryKey" json:"id"`
	UserID          uuid.UUID `gorm:"type:uuid;not null;index" json:"user_id"`
	DoctorName      string    `gorm:"size:255;not null" json:"doctor_name"`
	Specialization  string    `gorm:"size:100;not null" json:"specialization"`
	AppointmentDate time.Time `gorm:"not null;index" json:"appointment_date"`
	Status          string    `gorm:"size:20;default:'pending';index" json:"status"`
	Notes           *string   `gorm:"type:text" json:"notes"`
	CreatedAt       time.Time `json:"created_at"`
	UpdatedAt       time.Time `json:"updated_at"`
}

func (MedicalAppointment) TableName() string { return TableName }

const (
	StatusPending   = "pending"
	StatusConfirmed = "confirmed"
	StatusCompleted = "completed"
	StatusCancelled = "cancelled"
)

var validStatuses = map[string]struct{}{
	StatusPending:   {},
	StatusConfirmed: {},
	StatusCompleted: {},
	StatusCancelled: {},
}
