package services

import (
	"fmt"
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
	"gorm.io/gorm"

	"github.com/techhelp/backend/internal/models"
)

// DashboardService assembles the single-page overview: a slice of each domain
// scoped to the caller, fetched in one request so the page renders without
// fanning out.
type DashboardService struct {
	db *gorm.DB
}

func NewDashboardService(db *gorm.DB) *DashboardService {
	return &DashboardService{db: db}
}

type DashboardTransaction struct {
	ID              uuid.UUID `json:"id"`
	Title           string    `json:"title"`
	Amount          float64   `json:"amount"`
	TransactionType string    `json:"transaction_type"`
	Category        string    `json:"category"`
	TransactionDate time.Time `json:"transaction_date"`
}

type DashboardAppointment struct {
	ID              uuid.UUID `json:"id"`
	DoctorName      string    `json:"doctor_name"`
	Specialty       string    `json:"specialty"`
	AppointmentDate time.Time `json:"appointment_date"`
	Status          string    `json:"status"`
}

type DashboardAnnouncement struct {
	ID        uuid.UUID      `json:"id"`
	Title     string         `json:"title"`
	Category  string         `json:"category"`
	CreatedAt time.Time      `json:"created_at"`
	VisibleTo datatypes.JSON `json:"visible_to"`
}

type DashboardSummary struct {
	RecentTransactions   []DashboardTransaction  `json:"recent_transactions"`
	UpcomingAppointments []DashboardAppointment  `json:"upcoming_appointments"`
	PendingRequests      int64                   `json:"pending_requests"`
	DocumentCount        int64                   `json:"document_count"`
	Announcements        []DashboardAnnouncement `json:"announcements"`
}

func (s *DashboardService) Summary(userID uuid.UUID, role string) (*DashboardSummary, error) {
	transactions, err := s.recentTransactions(userID, 5)
	if err != nil {
		return nil, err
	}

	appointments, err := s.upcomingAppointments(userID, 5)
	if err != nil {
		return nil, err
	}

	var pending int64
	err = s.db.Table("certificate_requests").
		Where("user_id = ? AND status = ?", userID, "pending").
		Count(&pending).Error
	if err != nil {
		return nil, err
	}

	var documents int64
	err = s.db.Table("documents").
		Where("user_id = ?", userID).
		Count(&documents).Error
	if err != nil {
		return nil, err
	}

	announcements, err := s.latestAnnouncements(role, 5)
	if err != nil {
		return nil, err
	}

	return &DashboardSummary{
		RecentTransactions:   transactions,
		UpcomingAppointments: appointments,
		PendingRequests:      pending,
		DocumentCount:        documents,
		Announcements:        announcements,
	}, nil
}

func (s *DashboardService) recentTransactions(userID uuid.UUID, limit int) ([]DashboardTransaction, error) {
	var rows []DashboardTransaction
	err := s.db.Table("financial_transactions").
		Where("user_id = ?", userID).
		Order("transaction_date DESC").
		Limit(limit).
		Scan(&rows).Error
	return rows, err
}

func (s *DashboardService) upcomingAppointments(userID uuid.UUID, limit int) ([]DashboardAppointment, error) {
	var rows []DashboardAppointment
	err := s.db.Table("medical_appointments").
		Where("user_id = ? AND appointment_date >= ? AND status IN ?", userID, time.Now().UTC(), []string{"pending", "confirmed"}).
		Order("appointment_date ASC").
		Limit(limit).
		Scan(&rows).Error
	return rows, err
}

// latestAnnouncements applies the same role-visibility predicate as the
// announcement feed; the dashboard never shows rows the feed would hide.
func (s *DashboardService) latestAnnouncements(role string, limit int) ([]DashboardAnnouncement, error) {
	if role == "" {
		role = models.RoleUser
	}

	var rows []DashboardAnnouncement
	err := s.db.Table("announcements").
		Where("visible_to @> ?", datatypes.JSON(fmt.Sprintf("[%q]", role))).
		Order("created_at DESC").
		Limit(limit).
		Scan(&rows).Error
	return rows, err
}
