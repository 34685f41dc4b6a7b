package services

import (
	"time"

	"gorm.io/gorm"

	"github.com/techhelp/backend/internal/models"
)

// AnalyticsService computes the four aggregates of the admin analytics page.
type AnalyticsService struct {
	db *gorm.DB
}

func NewAnalyticsService(db *gorm.DB) *AnalyticsService {
	return &AnalyticsService{db: db}
}

type UserGrowthPoint struct {
	Date  string `json:"date"`
	Count int64  `json:"count"`
}

type CategoryCount struct {
	Category string `json:"category"`
	Count    int64  `json:"count"`
}

type StatusCount struct {
	Status string `json:"status"`
	Count  int64  `json:"count"`
}

type MonthlyVolume struct {
	Month   string  `json:"month"`
	Income  float64 `json:"income"`
	Expense float64 `json:"expense"`
}

// Totals are the headline counters at the top of the admin page.
type Totals struct {
	Users           int64 `json:"users"`
	Requests        int64 `json:"requests"`
	Appointments    int64 `json:"appointments"`
	Transactions    int64 `json:"transactions"`
	PendingRequests int64 `json:"pending_requests"`
}

type AnalyticsSummary struct {
	Totals              Totals            `json:"totals"`
	UserGrowth          []UserGrowthPoint `json:"user_growth"`
	RequestDistribution []CategoryCount   `json:"request_distribution"`
	TransactionVolume   []MonthlyVolume   `json:"transaction_volume"`
	AppointmentStatus   []StatusCount     `json:"appointment_status"`
}

func (s *AnalyticsService) Summary() (*AnalyticsSummary, error) {
	totals, err := s.totals()
	if err != nil {
		return nil, err
	}

	growth, err := s.userGrowth(7)
	if err != nil {
		return nil, err
	}

	distribution, err := s.requestDistribution()
	if err != nil {
		return nil, err
	}

	volume, err := s.transactionVolume(6)
	if err != nil {
		return nil, err
	}

	statuses, err := s.appointmentStatus()
	if err != nil {
		return nil, err
	}

	return &AnalyticsSummary{
		Totals:              *totals,
		UserGrowth:          growth,
		RequestDistribution: distribution,
		TransactionVolume:   volume,
		AppointmentStatus:   statuses,
	}, nil
}

func (s *AnalyticsService) totals() (*Totals, error) {
	var t Totals

	if err := s.db.Model(&models.Profile{}).Count(&t.Users).Error; err != nil {
		return nil, err
	}
	if err := s.db.Table("certificate_requests").Count(&t.Requests).Error; err != nil {
		return nil, err
	}
	if err := s.db.Table("medical_appointments").Count(&t.Appointments).Error; err != nil {
		return nil, err
	}
	if err := s.db.Table("financial_transactions").Count(&t.Transactions).Error; err != nil {
		return nil, err
	}
	if err := s.db.Table("certificate_requests").
		Where("status = ?", "pending").
		Count(&t.PendingRequests).Error; err != nil {
		return nil, err
	}

	return &t, nil
}

// userGrowth reports the cumulative registered-user count at the end of each
// of the last n days.
func (s *AnalyticsService) userGrowth(days int) ([]UserGrowthPoint, error) {
	points := make([]UserGrowthPoint, 0, days)
	now := time.Now().UTC()

	for i := days - 1; i >= 0; i-- {
		day := now.AddDate(0, 0, -i)
		dayEnd := time.Date(day.Year(), day.Month(), day.Day(), 23, 59, 59, 0, time.UTC)

		var count int64
		if err := s.db.Model(&models.Profile{}).
			Where("created_at <= ?", dayEnd).
			Count(&count).Error; err != nil {
			return nil, err
		}

		points = append(points, UserGrowthPoint{
			Date:  day.Format("2006-01-02"),
			Count: count,
		})
	}
	return points, nil
}

func (s *AnalyticsService) requestDistribution() ([]CategoryCount, error) {
	var rows []CategoryCount
	err := s.db.Table("certificate_requests").
		Select("certificate_type AS category, COUNT(*) AS count").
		Group("certificate_type").
		Order("count DESC").
		Scan(&rows).Error
	return rows, err
}

func (s *AnalyticsService) transactionVolume(months int) ([]MonthlyVolume, error) {
	volumes := make([]MonthlyVolume, 0, months)
	now := time.Now().UTC()

	for i := months - 1; i >= 0; i-- {
		monthStart := time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, time.UTC).AddDate(0, -i, 0)
		monthEnd := monthStart.AddDate(0, 1, 0)

		var income, expense float64
		if err := s.db.Table("financial_transactions").
			Where("transaction_type = ? AND transaction_date >= ? AND transaction_date < ?", "income", monthStart, monthEnd).
			Select("COALESCE(SUM(amount), 0)").
			Scan(&income).Error; err != nil {
			return nil, err
		}
		if err := s.db.Table("financial_transactions").
			Where("transaction_type = ? AND transaction_date >= ? AND transaction_date < ?", "expense", monthStart, monthEnd).
			Select("COALESCE(SUM(amount), 0)").
			Scan(&expense).Error; err != nil {
			return nil, err
		}

		volumes = append(volumes, MonthlyVolume{
			Month:   monthStart.Format("2006-01"),
			Income:  income,
			Expense: expense,
		})
	}
	return volumes, nil
}

func (s *AnalyticsService) appointmentStatus() ([]StatusCount, error) {
	var rows []StatusCount
	err := s.db.Table("medical_appointments").
		Select("status, COUNT(*) AS count").
		Group("status").
		Order("count DESC").
		Scan(&rows).Error
	return rows, err
}
