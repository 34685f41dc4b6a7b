package services

import (
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/techhelp/backend/internal/models"
)

func TestLatestAnnouncementsFiltersByRoleVisibility(t *testing.T) {
	gdb, mock, sqlDB := newMockDB(t)
	defer sqlDB.Close()

	svc := NewDashboardService(gdb)

	// The dashboard applies the same jsonb containment predicate as the feed.
	mock.ExpectQuery(`SELECT \* FROM "announcements" WHERE visible_to @>`).
		WillReturnRows(sqlmock.NewRows([]string{"id", "title", "category"}))

	rows, err := svc.latestAnnouncements(models.RoleUser, 5)
	require.NoError(t, err)
	assert.Empty(t, rows)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestLatestAnnouncementsDefaultsToUserRole(t *testing.T) {
	gdb, mock, sqlDB := newMockDB(t)
	defer sqlDB.Close()

	svc := NewDashboardService(gdb)

	mock.ExpectQuery(`SELECT \* FROM "announcements" WHERE visible_to @>`).
		WithArgs(`["user"]`, 5).
		WillReturnRows(sqlmock.NewRows([]string{"id", "title", "category"}))

	_, err := svc.latestAnnouncements("", 5)
	require.NoError(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}
