package documents

import (
	"context"
	"database/sql"
	"errors"
	"io"
	"strings"
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

type fakeStore struct {
	uploaded  []string
	deleted   []string
	uploadErr error
	deleteErr error
}

func (f *fakeStore) Upload(_ context.Context, key, _ string, _ io.Reader) error {
	if f.uploadErr != nil {
		return f.uploadErr
	}
	f.uploaded = append(f.uploaded, key)
	return nil
}

func (f *fakeStore) Delete(_ context.Context, key string) error {
	if f.deleteErr != nil {
		return f.deleteErr
	}
	f.deleted = append(f.deleted, key)
	return nil
}

func (f *fakeStore) PresignedGetURL(_ context.Context, key string) (string, error) {
	return "https://storage.example/" + key, nil
}

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

func documentRow(id, userID uuid.UUID, key string) *sqlmock.Rows {
	return sqlmock.NewRows([]string{"id", "user_id", "name", "file_url", "category", "created_at"}).
		AddRow(id.String(), userID.String(), "tax return", key, CategoryFinancial, time.Now())
}

func TestUploadValidatesBeforeStorage(t *testing.T) {
	gdb, mock, sqlDB := newMockDB(t)
	defer sqlDB.Close()

	hub := realtime.NewHub()
	defer hub.Shutdown()
	store := &fakeStore{}
	svc := NewDocumentService(gdb, hub, store)

	_, err := svc.Upload(context.Background(), uuid.New(), "", CategoryFinancial, "a.pdf", "application/pdf", strings.NewReader("x"))
	assert.ErrorIs(t, err, ErrNameRequired)

	_, err = svc.Upload(context.Background(), uuid.New(), "doc", "personal", "a.pdf", "application/pdf", strings.NewReader("x"))
	assert.ErrorIs(t, err, ErrInvalidCategory)

	assert.Empty(t, store.uploaded)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestUploadStoresObjectThenRow(t *testing.T) {
	gdb, mock, sqlDB := newMockDB(t)
	defer sqlDB.Close()

	hub := realtime.NewHub()
	defer hub.Shutdown()
	store := &fakeStore{}
	svc := NewDocumentService(gdb, hub, store)
	userID := uuid.New()

	mock.ExpectBegin()
	mock.ExpectQuery(`INSERT INTO "documents"`).
		WillReturnRows(sqlmock.NewRows([]string{"id"}).AddRow(uuid.New().String()))
	mock.ExpectCommit()

	doc, err := svc.Upload(context.Background(), userID, "tax return", CategoryFinancial, "tax.pdf", "application/pdf", strings.NewReader("x"))
	require.NoError(t, err)

	require.Len(t, store.uploaded, 1)
	assert.Equal(t, store.uploaded[0], doc.FileURL)
	assert.True(t, strings.HasPrefix(doc.FileURL, CategoryFinancial+"/"+userID.String()+"/"))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestDeleteRemovesObjectBeforeRow(t *testing.T) {
	gdb, mock, sqlDB := newMockDB(t)
	defer sqlDB.Close()

	hub := realtime.NewHub()
	defer hub.Shutdown()
	store := &fakeStore{}
	svc := NewDocumentService(gdb, hub, store)
	userID := uuid.New()
	id := uuid.New()

	mock.ExpectQuery(`SELECT \* FROM "documents"`).
		WillReturnRows(documentRow(id, userID, "financial/key.pdf"))
	mock.ExpectBegin()
	mock.ExpectExec(`DELETE FROM "documents"`).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectCommit()

	require.NoError(t, svc.Delete(context.Background(), userID, id))
	assert.Equal(t, []string{"financial/key.pdf"}, store.deleted)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestDeleteSurfacesStorageFailureAndKeepsRow(t *testing.T) {
	gdb, mock, sqlDB := newMockDB(t)
	defer sqlDB.Close()

	hub := realtime.NewHub()
	defer hub.Shutdown()
	store := &fakeStore{deleteErr: errors.New("object locked")}
	svc := NewDocumentService(gdb, hub, store)
	userID := uuid.New()
	id := uuid.New()

	mock.ExpectQuery(`SELECT \* FROM "documents"`).
		WillReturnRows(documentRow(id, userID, "financial/key.pdf"))

	err := svc.Delete(context.Background(), userID, id)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "storage delete failed")

	// The row must survive a failed storage delete; no DELETE was issued.
	assert.NoError(t, mock.ExpectationsWereMet())
	assert.Equal(t, uint64(0), hub.Seq(TableName))
}
