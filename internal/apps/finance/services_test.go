package finance

import (
	"database/sql"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/techhelp/backend/internal/realtime"
)

func newMockDB(t *testing.T) (*gorm.DB, sqlmock.Sqlmock, *sql.DB) {
	t.Helper()
	sqlDB, mock, err := sqlmock.New()
	require.NoError(t, err)

	gdb, err := gorm.Open(postgres.New(postgres.Config{
		Conn:                 sqlDB,
		PreferSimpleProtocol: true,
	}), &gorm.Config{Logger: logger.Default.LogMode(logger.Silent)})
	require.NoError(t, err)

	return gdb, mock, sqlDB
}

func TestCreateRejectsInvalidInputWithoutTouchingDB(t *testing.T) {
	gdb, mock, sqlDB := newMockDB(t)
	defer sqlDB.Close()

	hub := realtime.NewHub()
	defer hub.Shutdown()
	svc := NewTransactionService(gdb, hub)
	userID := uuid.New()

	tests := []struct {
		name     string
		amount   float64
		txType   string
		category string
		wantErr  error
	}{
		{"zero amount", 0, TypeExpense, "Food", ErrAmountRequired},
		{"negative amount", -5, TypeExpense, "Food", ErrAmountRequired},
		{"empty category", 50, TypeExpense, "", ErrCategoryRequired},
		{"bad type", 50, "transfer", "Food", ErrInvalidType},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := svc.Create(userID, tt.amount, tt.txType, tt.category, "", time.Now(), nil)
			assert.ErrorIs(t, err, tt.wantErr)
		})
	}

	// Validation failures must cost zero round trips.
	assert.NoError(t, mock.ExpectationsWereMet())
	// And nothing may reach the change feed.
	assert.Equal(t, uint64(0), hub.Seq(TableName))
}

func TestListScopesToUserAndOrdersByDateDesc(t *testing.T) {
	gdb, mock, sqlDB := newMockDB(t)
	defer sqlDB.Close()

	hub := realtime.NewHub()
	defer hub.Shutdown()
	svc := NewTransactionService(gdb, hub)
	userID := uuid.New()

	rows := sqlmock.NewRows([]string{"id", "user_id", "amount", "transaction_type", "category"}).
		AddRow(uuid.New().String(), userID.String(), 50.0, "expense", "Food")

	mock.ExpectQuery(`SELECT \* FROM "financial_transactions" WHERE user_id = .+ ORDER BY transaction_date DESC`).
		WithArgs(userID.String()).
		WillReturnRows(rows)

	transactions, err := svc.List(userID, "")
	require.NoError(t, err)
	require.Len(t, transactions, 1)
	assert.Equal(t, "Food", transactions[0].Category)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestListAppliesTypeFilter(t *testing.T) {
	gdb, mock, sqlDB := newMockDB(t)
	defer sqlDB.Close()

	hub := realtime.NewHub()
	defer hub.Shutdown()
	svc := NewTransactionService(gdb, hub)
	userID := uuid.New()

	mock.ExpectQuery(`SELECT \* FROM "financial_transactions" WHERE user_id = .+ AND transaction_type = .+ ORDER BY transaction_date DESC`).
		WithArgs(userID.String(), TypeIncome).
		WillReturnRows(sqlmock.NewRows([]string{"id"}))

	_, err := svc.List(userID, TypeIncome)
	require.NoError(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}
