package finance

import (
	"errors"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/techhelp/backend/internal/identity"
	"github.com/techhelp/backend/internal/realtime"
)

var (
	ErrAmountRequired   = errors.New("amount must be greater than zero")
	ErrCategoryRequired = errors.New("category is required")
	ErrInvalidType      = errors.New("transaction_type must be income or expense")
	ErrNotFound         = errors.New("transaction not found")
)

// TransactionService handles the finance record manager operations.
type TransactionService struct {
	db  *gorm.DB
	hub *realtime.Hub
}

func NewTransactionService(db *gorm.DB, hub *realtime.Hub) *TransactionService {
	return &TransactionService{db: db, hub: hub}
}

// List returns the caller's transactions, newest transaction first,
// optionally restricted to income or expense.
func (s *TransactionService) List(userID uuid.UUID, typeFilter string) ([]FinancialTransaction, error) {
	query := identity.OwnedBy(userID)(s.db).Order("transaction_date DESC")
	if typeFilter == TypeIncome || typeFilter == TypeExpense {
		query = query.Where("transaction_type = ?", typeFilter)
	}

	var transactions []FinancialTransaction
	if err := query.Find(&transactions).Error; err != nil {
		return nil, err
	}
	return transactions, nil
}

// Create validates before touching the database: a rejected transaction must
// cost zero round trips.
func (s *TransactionService) Create(userID uuid.UUID, amount float64, txType, category, paymentMethod string, date time.Time, description *string) (*FinancialTransaction, error) {
	if amount <= 0 {
		return nil, ErrAmountRequired
	}
	if category == "" {
		return nil, ErrCategoryRequired
	}
	if txType != TypeIncome && txType != TypeExpense {
		return nil, ErrInvalidType
	}
	if date.IsZero() {
		date = time.Now()
	}

	tx := &FinancialTransaction{
		ID:              uuid.New(),
		UserID:          userID,
		Amount:          amount,
		TransactionType: txType,
		Category:        category,
		PaymentMethod:   paymentMethod,
		TransactionDate: date,
		Description:     description,
	}

	if err := s.db.Create(tx).Error; err != nil {
		return nil, err
	}

	s.hub.Publish(TableName, realtime.ActionInsert, &userID, tx)
	return tx, nil
}

func (s *TransactionService) Delete(userID, id uuid.UUID) error {
	result := s.db.Scopes(identity.OwnedBy(userID)).Delete(&FinancialTransaction{}, "id = ?", id)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return ErrNotFound
	}

	s.hub.Publish(TableName, realtime.ActionDelete, &userID, map[string]interface{}{"id": id})
	return nil
}

type Summary struct {
	Income  float64 `json:"income"`
	Expense float64 `json:"expense"`
	Balance float64 `json:"balance"`
}

func (s *TransactionService) Summarize(userID uuid.UUID) (*Summary, error) {
	var summary Summary

	err := s.db.Model(&FinancialTransaction{}).
		Scopes(identity.OwnedBy(userID)).
		Where("transaction_type = ?", TypeIncome).
		Select("COALESCE(SUM(amount), 0)").
		Scan(&summary.Income).Error
	if err != nil {
		return nil, err
	}

	err = s.db.Model(&FinancialTransaction{}).
		Scopes(identity.OwnedBy(userID)).
		Where("transaction_type = ?", TypeExpense).
		Select("COALESCE(SUM(amount), 0)").
		Scan(&summary.Expense).Error
	if err != nil {
		return nil, err
	}

	summary.Balance = summary.Income - summary.Expense
	return &summary, nil
}
