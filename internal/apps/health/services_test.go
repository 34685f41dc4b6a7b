package health

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

func appointmentRow(id, userID uuid.UUID, status string) *sqlmock.Rows {
	return sqlmock.NewRows([]string{"id", "user_id", "doctor_name", "specialization", "appointment_date", "status"}).
		AddRow(id.String(), userID.String(), "Dr. Aydin", "cardiology", time.Now().Add(48*time.Hour), status)
}

func TestCreateRejectsMissingFieldsWithoutTouchingDB(t *testing.T) {
	gdb, mock, sqlDB := newMockDB(t)
	defer sqlDB.Close()

	hub := realtime.NewHub()
	defer hub.Shutdown()
	svc := NewAppointmentService(gdb, hub)

	_, err := svc.Create(uuid.New(), "", "cardiology", time.Now(), nil)
	assert.ErrorIs(t, err, ErrMissingFields)

	_, err = svc.Create(uuid.New(), "Dr. Aydin", "cardiology", time.Time{}, nil)
	assert.ErrorIs(t, err, ErrMissingFields)

	assert.NoError(t, mock.ExpectationsWereMet())
	assert.Equal(t, uint64(0), hub.Seq(TableName))
}

func TestCancelPendingAppointment(t *testing.T) {
	gdb, mock, sqlDB := newMockDB(t)
	defer sqlDB.Close()

	hub := realtime.NewHub()
	defer hub.Shutdown()
	svc := NewAppointmentService(gdb, hub)
	userID := uuid.New()
	id := uuid.New()

	mock.ExpectQuery(`SELECT \* FROM "medical_appointments"`).
		WillReturnRows(appointmentRow(id, userID, StatusPending))
	mock.ExpectBegin()
	mock.ExpectExec(`UPDATE "medical_appointments" SET`).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectCommit()

	appointment, err := svc.Cancel(userID, id)
	require.NoError(t, err)
	assert.Equal(t, StatusCancelled, appointment.Status)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestCancelRejectsNonPendingStatuses(t *testing.T) {
	for _, status := range []string{StatusConfirmed, StatusCompleted, StatusCancelled} {
		t.Run(status, func(t *testing.T) {
			gdb, mock, sqlDB := newMockDB(t)
			defer sqlDB.Close()

			hub := realtime.NewHub()
			defer hub.Shutdown()
			svc := NewAppointmentService(gdb, hub)
			userID := uuid.New()
			id := uuid.New()

			mock.ExpectQuery(`SELECT \* FROM "medical_appointments"`).
				WillReturnRows(appointmentRow(id, userID, status))

			_, err := svc.Cancel(userID, id)
			assert.ErrorIs(t, err, ErrNotCancellable)

			// No UPDATE reached the database and nothing hit the feed.
			assert.NoError(t, mock.ExpectationsWereMet())
			assert.Equal(t, uint64(0), hub.Seq(TableName))
		})
	}
}

func TestSetStatusRejectsUnknownStatus(t *testing.T) {
	gdb, mock, sqlDB := newMockDB(t)
	defer sqlDB.Close()

	hub := realtime.NewHub()
	defer hub.Shutdown()
	svc := NewAppointmentService(gdb, hub)

	_, err := svc.SetStatus(uuid.New(), "rescheduled")
	assert.ErrorIs(t, err, ErrInvalidStatus)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestDeleteOfForeignAppointmentReportsNotFound(t *testing.T) {
	gdb, mock, sqlDB := newMockDB(t)
	defer sqlDB.Close()

	hub := realtime.NewHub()
	defer hub.Shutdown()
	svc := NewAppointmentService(gdb, hub)

	mock.ExpectBegin()
	mock.ExpectExec(`DELETE FROM "medical_appointments"`).
		WillReturnResult(sqlmock.NewResult(0, 0))
	mock.ExpectCommit()

	err := svc.Delete(uuid.New(), uuid.New())
	assert.ErrorIs(t, err, ErrNotFound)
	assert.Equal(t, uint64(0), hub.Seq(TableName))
}
