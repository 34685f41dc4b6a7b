package announcements

import (
	"database/sql"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/techhelp/backend/internal/models"
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

func announcements(ids ...uuid.UUID) []models.Announcement {
	anns := make([]models.Announcement, 0, len(ids))
	for _, id := range ids {
		anns = append(anns, models.Announcement{ID: id, Title: "t", Content: "c", Category: "general"})
	}
	return anns
}

func readSet(ids ...uuid.UUID) map[uuid.UUID]struct{} {
	set := make(map[uuid.UUID]struct{}, len(ids))
	for _, id := range ids {
		set[id] = struct{}{}
	}
	return set
}

func TestCountUnread(t *testing.T) {
	a, b, c := uuid.New(), uuid.New(), uuid.New()

	tests := []struct {
		name string
		anns []models.Announcement
		read map[uuid.UUID]struct{}
		want int
	}{
		{"all unseen", announcements(a, b, c), readSet(), 3},
		{"partially read", announcements(a, b, c), readSet(a, b), 1},
		{"all read", announcements(a, b), readSet(a, b), 0},
		{"read-set larger than feed", announcements(a), readSet(a, b, c), 0},
		{"empty feed", nil, readSet(a), 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, CountUnread(tt.anns, tt.read))
		})
	}
}

func TestMarkReadDeduplicatesBeforeInsert(t *testing.T) {
	gdb, mock, sqlDB := newMockDB(t)
	defer sqlDB.Close()

	hub := realtime.NewHub()
	defer hub.Shutdown()
	svc := NewAnnouncementService(gdb, hub, 5)
	userID := uuid.New()
	a, b := uuid.New(), uuid.New()

	// Three incoming IDs with one duplicate insert exactly two rows, with
	// conflicting pairs ignored.
	mock.ExpectBegin()
	mock.ExpectQuery(`INSERT INTO "announcement_reads" .+ ON CONFLICT DO NOTHING`).
		WillReturnRows(sqlmock.NewRows([]string{"id"}).
			AddRow(uuid.New().String()).
			AddRow(uuid.New().String()))
	mock.ExpectCommit()

	err := svc.MarkRead(userID, []uuid.UUID{a, b, a})
	require.NoError(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestMarkReadWithNoIDsIsANoOp(t *testing.T) {
	gdb, mock, sqlDB := newMockDB(t)
	defer sqlDB.Close()

	hub := realtime.NewHub()
	defer hub.Shutdown()
	svc := NewAnnouncementService(gdb, hub, 5)

	require.NoError(t, svc.MarkRead(uuid.New(), nil))
	require.NoError(t, svc.MarkRead(uuid.New(), []uuid.UUID{uuid.Nil}))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestCreateValidatesInput(t *testing.T) {
	gdb, mock, sqlDB := newMockDB(t)
	defer sqlDB.Close()

	hub := realtime.NewHub()
	defer hub.Shutdown()
	svc := NewAnnouncementService(gdb, hub, 5)

	_, err := svc.Create("", "content", "general", []string{"user"})
	assert.ErrorIs(t, err, ErrMissingFields)

	_, err = svc.Create("title", "content", "urgent", []string{"user"})
	assert.ErrorIs(t, err, ErrInvalidCategory)

	_, err = svc.Create("title", "content", "general", nil)
	assert.ErrorIs(t, err, ErrNoVisibility)

	assert.NoError(t, mock.ExpectationsWereMet())
	assert.Equal(t, uint64(0), hub.Seq(TableName))
}

func TestCreateBroadcastsWithoutOwner(t *testing.T) {
	gdb, mock, sqlDB := newMockDB(t)
	defer sqlDB.Close()

	hub := realtime.NewHub()
	defer hub.Shutdown()
	sub := hub.Subscribe(uuid.New(), false, []string{TableName})
	defer sub.Close()

	svc := NewAnnouncementService(gdb, hub, 5)

	mock.ExpectBegin()
	mock.ExpectQuery(`INSERT INTO "announcements"`).
		WillReturnRows(sqlmock.NewRows([]string{"id"}).AddRow(uuid.New().String()))
	mock.ExpectCommit()

	ann, err := svc.Create("maintenance", "tonight", "general", []string{"user", "admin"})
	require.NoError(t, err)

	ev := <-sub.C
	assert.Equal(t, TableName, ev.Table)
	assert.Equal(t, realtime.ActionInsert, ev.Action)
	assert.Nil(t, ev.OwnerID)
	assert.Equal(t, ann, ev.Payload)
	assert.NoError(t, mock.ExpectationsWereMet())
}
