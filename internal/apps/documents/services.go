package documents

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/techhelp/backend/internal/identity"
	"github.com/techhelp/backend/internal/realtime"
	"github.com/techhelp/backend/internal/services"
)

var (
	ErrNameRequired    = errors.New("document name is required")
	ErrInvalidCategory = errors.New("category must be financial, medical or government")
	ErrNotFound        = errors.New("document not found")
)

type DocumentService struct {
	db    *gorm.DB
	hub   *realtime.Hub
	store services.ObjectStore
}

func NewDocumentService(db *gorm.DB, hub *realtime.Hub, store services.ObjectStore) *DocumentService {
	return &DocumentService{db: db, hub: hub, store: store}
}

func (s *DocumentService) List(userID uuid.UUID, categoryFilter string) ([]Document, error) {
	query := s.db.Scopes(identity.OwnedBy(userID)).Order("created_at DESC")
	if _, ok := validCategories[categoryFilter]; ok {
		query = query.Where("category = ?", categoryFilter)
	}

	var docs []Document
	if err := query.Find(&docs).Error; err != nil {
		return nil, err
	}
	return docs, nil
}

// Upload stores the object first, then the row. If the insert fails the
// object key is logged so the orphan can be swept; the caller never gets a
// row pointing at a missing object.
func (s *DocumentService) Upload(ctx context.Context, userID uuid.UUID, name, category, filename, contentType string, file io.Reader) (*Document, error) {
	if name == "" {
		return nil, ErrNameRequired
	}
	if _, ok := validCategories[category]; !ok {
		return nil, ErrInvalidCategory
	}

	key := services.BuildObjectKey(category, userID, filename)
	if err := s.store.Upload(ctx, key, contentType, file); err != nil {
		return nil, fmt.Errorf("document upload failed: %w", err)
	}

	doc := &Document{
		ID:       uuid.New(),
		UserID:   userID,
		Name:     name,
		FileURL:  key,
		FileType: contentType,
		Category: category,
	}

	if err := s.db.Create(doc).Error; err != nil {
		slog.Error("document row insert failed after upload",
			"module", "documents", "user_id", userID.String(), "key", key, "error", err)
		return nil, fmt.Errorf("document record insert failed: %w", err)
	}

	s.hub.Publish(TableName, realtime.ActionInsert, &userID, doc)
	return doc, nil
}

func (s *DocumentService) DownloadURL(ctx context.Context, userID, id uuid.UUID) (string, error) {
	var doc Document
	if err := s.db.Scopes(identity.OwnedBy(userID)).First(&doc, "id = ?", id).Error; err != nil {
		return "", ErrNotFound
	}

	return s.store.PresignedGetURL(ctx, doc.FileURL)
}

// Delete removes the storage object first and the row only once storage has
// confirmed. A storage failure aborts the whole operation: the caller sees
// the error instead of a silently orphaned object.
func (s *DocumentService) Delete(ctx context.Context, userID, id uuid.UUID) error {
	var doc Document
	if err := s.db.Scopes(identity.OwnedBy(userID)).First(&doc, "id = ?", id).Error; err != nil {
		return ErrNotFound
	}

	if err := s.store.Delete(ctx, doc.FileURL); err != nil {
		return fmt.Errorf("storage delete failed, document kept: %w", err)
	}

	if err := s.db.Delete(&doc).Error; err != nil {
		return fmt.Errorf("document row delete failed (object %s already removed): %w", doc.FileURL, err)
	}

	s.hub.Publish(TableName, realtime.ActionDelete, &userID, map[string]interface{}{"id": id})
	return nil
}

// SetVerified is the admin review toggle.
func (s *DocumentService) SetVerified(id uuid.UUID, verified bool) (*Document, error) {
	var doc Document
	if err := s.db.First(&doc, "id = ?", id).Error; err != nil {
		return nil, ErrNotFound
	}

	if err := s.db.Model(&doc).Update("verified", verified).Error; err != nil {
		return nil, err
	}
	doc.Verified = verified

	s.hub.Publish(TableName, realtime.ActionUpdate, &doc.UserID, &doc)
	return &doc, nil
}
