package government

import (
	"context"
	"errors"
	"fmt"
	"io"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/techhelp/backend/internal/identity"
	"github.com/techhelp/backend/internal/realtime"
	"github.com/techhelp/backend/internal/services"
)

var (
	ErrTypeRequired     = errors.New("certificate_type is required")
	ErrInvalidStatus    = errors.New("status must be approved or rejected")
	ErrNotFound         = errors.New("certificate request not found")
	ErrAlreadyProcessed = errors.New("request has already been processed")
	ErrNotIssued        = errors.New("no certificate has been issued for this request")
)

type RequestService struct {
	db    *gorm.DB
	hub   *realtime.Hub
	store services.ObjectStore
}

func NewRequestService(db *gorm.DB, hub *realtime.Hub, store services.ObjectStore) *RequestService {
	return &RequestService{db: db, hub: hub, store: store}
}

func (s *RequestService) List(userID uuid.UUID, statusFilter string) ([]CertificateRequest, error) {
	query := s.db.Scopes(identity.OwnedBy(userID)).Order("requested_at DESC")
	if statusFilter == StatusPending || statusFilter == StatusApproved || statusFilter == StatusRejected {
		query = query.Where("status = ?", statusFilter)
	}

	var requests []CertificateRequest
	if err := query.Find(&requests).Error; err != nil {
		return nil, err
	}
	return requests, nil
}

// Create accepts an empty purpose; only the certificate type is mandatory.
func (s *RequestService) Create(userID uuid.UUID, certificateType string, purpose *string) (*CertificateRequest, error) {
	if certificateType == "" {
		return nil, ErrTypeRequired
	}

	request := &CertificateRequest{
		ID:              uuid.New(),
		UserID:          userID,
		CertificateType: certificateType,
		Purpose:         purpose,
		Status:          StatusPending,
		RequestedAt:     time.Now(),
	}

	if err := s.db.Create(request).Error; err != nil {
		return nil, err
	}

	s.hub.Publish(TableName, realtime.ActionInsert, &userID, request)
	return request, nil
}

// CertificateURL returns a short-lived download URL for the issued file.
func (s *RequestService) CertificateURL(ctx context.Context, userID, id uuid.UUID) (string, error) {
	var request CertificateRequest
	if err := s.db.Scopes(identity.OwnedBy(userID)).First(&request, "id = ?", id).Error; err != nil {
		return "", ErrNotFound
	}

	if request.Status != StatusApproved || request.IssuedCertificateURL == nil {
		return "", ErrNotIssued
	}

	return s.store.PresignedGetURL(ctx, *request.IssuedCertificateURL)
}

// --- admin operations ---

func (s *RequestService) ListAll(statusFilter string) ([]CertificateRequest, error) {
	query := s.db.Order("requested_at DESC")
	if statusFilter == StatusPending || statusFilter == StatusApproved || statusFilter == StatusRejected {
		query = query.Where("status = ?", statusFilter)
	}

	var requests []CertificateRequest
	if err := query.Find(&requests).Error; err != nil {
		return nil, err
	}
	return requests, nil
}

// SetStatus processes a pending request. Transitions are one-way: a processed
// request cannot be re-processed.
func (s *RequestService) SetStatus(id uuid.UUID, status string) (*CertificateRequest, error) {
	if status != StatusApproved && status != StatusRejected {
		return nil, ErrInvalidStatus
	}

	var request CertificateRequest
	if err := s.db.First(&request, "id = ?", id).Error; err != nil {
		return nil, ErrNotFound
	}

	if request.Status != StatusPending {
		return nil, ErrAlreadyProcessed
	}

	now := time.Now()
	if err := s.db.Model(&request).Updates(map[string]interface{}{
		"status":       status,
		"processed_at": now,
	}).Error; err != nil {
		return nil, err
	}
	request.Status = status
	request.ProcessedAt = &now

	s.hub.Publish(TableName, realtime.ActionUpdate, &request.UserID, &request)
	return &request, nil
}

// IssueCertificate uploads the certificate file and approves the request in
// one step. The object is stored before the row is updated; an update failure
// leaves an orphaned object, which is logged by the caller for cleanup, never
// a dangling reference.
func (s *RequestService) IssueCertificate(ctx context.Context, id uuid.UUID, filename, contentType string, file io.Reader) (*CertificateRequest, error) {
	var request CertificateRequest
	if err := s.db.First(&request, "id = ?", id).Error; err != nil {
		return nil, ErrNotFound
	}

	if request.Status != StatusPending {
		return nil, ErrAlreadyProcessed
	}

	key := services.BuildObjectKey(CertificatePrefix, request.UserID, filename)
	if err := s.store.Upload(ctx, key, contentType, file); err != nil {
		return nil, fmt.Errorf("certificate upload failed: %w", err)
	}

	now := time.Now()
	if err := s.db.Model(&request).Updates(map[string]interface{}{
		"status":                 StatusApproved,
		"issued_certificate_url": key,
		"processed_at":           now,
	}).Error; err != nil {
		return nil, fmt.Errorf("certificate record update failed (orphaned object %s): %w", key, err)
	}
	request.Status = StatusApproved
	request.IssuedCertificateURL = &key
	request.ProcessedAt = &now

	s.hub.Publish(TableName, realtime.ActionUpdate, &request.UserID, &request)
	return &request, nil
}
