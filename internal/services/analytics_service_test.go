package services

import (
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func countRow(n int64) *sqlmock.Rows {
	return sqlmock.NewRows([]string{"count"}).AddRow(n)
}

func TestTotalsCountEveryDomainTable(t *testing.T) {
	gdb, mock, sqlDB := newMockDB(t)
	defer sqlDB.Close()

	svc := NewAnalyticsService(gdb)

	mock.ExpectQuery(`SELECT count\(\*\) FROM "profiles"`).
		WillReturnRows(countRow(12))
	mock.ExpectQuery(`SELECT count\(\*\) FROM "certificate_requests"`).
		WillReturnRows(countRow(7))
	mock.ExpectQuery(`SELECT count\(\*\) FROM "medical_appointments"`).
		WillReturnRows(countRow(4))
	mock.ExpectQuery(`SELECT count\(\*\) FROM "financial_transactions"`).
		WillReturnRows(countRow(31))
	mock.ExpectQuery(`SELECT count\(\*\) FROM "certificate_requests" WHERE status = `).
		WillReturnRows(countRow(2))

	totals, err := svc.totals()
	require.NoError(t, err)

	assert.Equal(t, int64(12), totals.Users)
	assert.Equal(t, int64(7), totals.Requests)
	assert.Equal(t, int64(4), totals.Appointments)
	assert.Equal(t, int64(31), totals.Transactions)
	assert.Equal(t, int64(2), totals.PendingRequests)
	assert.NoError(t, mock.ExpectationsWereMet())
}
