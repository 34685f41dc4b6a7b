package health

import (
	"errors"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/techhelp/backend/internal/identity"
	"github.com/techhelp/backend/internal/realtime"
)

var (
	ErrMissingFields  = errors.New("doctor name, specialization and appointment date are required")
	ErrInvalidStatus  = errors.New("invalid appointment status")
	ErrNotFound       = errors.New("appointment not found")
	ErrNotCancellable = errors.New("only pending appointments can be cancelled")
)

type AppointmentService struct {
	db  *gorm.DB
	hub *realtime.Hub
}

func NewAppointmentService(db *gorm.DB, hub *realtime.Hub) *AppointmentService {
	return &AppointmentService{db: db, hub: hub}
}

func (s *AppointmentService) List(userID uuid.UUID, statusFilter string) ([]MedicalAppointment, error) {
	query := s.db.Scopes(identity.OwnedBy(userID)).Order("appointment_date DESC")
	if _, ok := validStatuses[statusFilter]; ok {
		query = query.Where("status = ?", statusFilter)
	}

	var appointments []MedicalAppointment
	if err := query.Find(&appointments).Error; err != nil {
		return nil, err
	}
	return appointments, nil
}

func (s *AppointmentService) Create(userID uuid.UUID, doctorName, specialization string, date time.Time, notes *string) (*MedicalAppointment, error) {
	if doctorName == "" || specialization == "" || date.IsZero() {
		return nil, ErrMissingFields
	}

	appointment := &MedicalAppointment{
		ID:              uuid.New(),
		UserID:          userID,
		DoctorName:      doctorName,
		Specialization:  specialization,
		AppointmentDate: date,
		Status:          StatusPending,
		Notes:           notes,
	}

	if err := s.db.Create(appointment).Error; err != nil {
		return nil, err
	}

	s.hub.Publish(TableName, realtime.ActionInsert, &userID, appointment)
	return appointment, nil
}

// Cancel moves the caller's own pending appointment to cancelled.
func (s *AppointmentService) Cancel(userID, id uuid.UUID) (*MedicalAppointment, error) {
	var appointment MedicalAppointment
	if err := s.db.Scopes(identity.OwnedBy(userID)).First(&appointment, "id = ?", id).Error; err != nil {
		return nil, ErrNotFound
	}

	if appointment.Status != StatusPending {
		return nil, ErrNotCancellable
	}

	if err := s.db.Model(&appointment).Update("status", StatusCancelled).Error; err != nil {
		return nil, err
	}
	appointment.Status = StatusCancelled

	s.hub.Publish(TableName, realtime.ActionUpdate, &userID, &appointment)
	return &appointment, nil
}

func (s *AppointmentService) Delete(userID, id uuid.UUID) error {
	result := s.db.Scopes(identity.OwnedBy(userID)).Delete(&MedicalAppointment{}, "id = ?", id)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return ErrNotFound
	}

	s.hub.Publish(TableName, realtime.ActionDelete, &userID, map[string]interface{}{"id": id})
	return nil
}

// SetStatus is the admin path: any status may be assigned.
func (s *AppointmentService) SetStatus(id uuid.UUID, status string) (*MedicalAppointment, error) {
	if _, ok := validStatuses[status]; !ok {
		return nil, ErrInvalidStatus
	}

	var appointment MedicalAppointment
	if err := s.db.First(&appointment, "id = ?", id).Error; err != nil {
		return nil, ErrNotFound
	}

	if err := s.db.Model(&appointment).Update("status", status).Error; err != nil {
		return nil, err
	}
	appointment.Status = status

	s.hub.Publish(TableName, realtime.ActionUpdate, &appointment.UserID, &appointment)
	return &appointment, nil
}
