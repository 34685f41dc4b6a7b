package finance

import (
	"time"

	"github.com/google/uuid"
)

const TableName = "financial_transactions"

// FinancialTransaction is a single income or expense record owned by one user.
type FinancialTransaction struct {
	ID              uuid.UUID `gorm:"type:uuid;default:gen_random_uuid();primaryKey" json:"id"`
	UserID          uuid.UUID `gorm:"type:uuid;not null;index" json:"user_id"`
	Amount          float64   `gorm:"type:numeric(12,2);not null" json:"amount"`
	TransactionType string    `gorm:"size:10;not null;index" json:"transaction_type"`
	Category        string    `gorm:"size:50;not null" json:"category"`
	PaymentMethod   string    `gorm:"size:50" json:"payment_method"`
	TransactionDate time.Time `gorm:"not null;index" json:"transaction_date"`
	Description     *string   `gorm:"type:text" json:"description"`
	CreatedAt       time.Time `json:"created_at"`
	UpdatedAt       time.Time `json:"updated_at"`
}

func (FinancialTransaction) TableName() string { return TableName }

const (
	TypeIncome  = "income"
	TypeExpense = "expense"
)
