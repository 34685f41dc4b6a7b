package services

import (
	"context"
	"errors"
	"log/slog"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/techhelp/backend/internal/models"
)

var ErrInvalidRole = errors.New("role must be user or admin")

// UserService backs the admin users console.
type UserService struct {
	db    *gorm.DB
	store ObjectStore
}

func NewUserService(db *gorm.DB, store ObjectStore) *UserService {
	return &UserService{db: db, store: store}
}

func (s *UserService) List(role string) ([]models.Profile, error) {
	query := s.db.Model(&models.Profile{}).Order("created_at DESC")
	if role != "" && role != "all" {
		query = query.Where("role = ?", role)
	}

	var profiles []models.Profile
	if err := query.Find(&profiles).Error; err != nil {
		return nil, err
	}
	return profiles, nil
}

func (s *UserService) UpdateRole(userID uuid.UUID, role string) (*models.Profile, error) {
	if role != models.RoleUser && role != models.RoleAdmin {
		return nil, ErrInvalidRole
	}

	var profile models.Profile
	if err := s.db.First(&profile, "id = ?", userID).Error; err != nil {
		return nil, ErrUserNotFound
	}

	if err := s.db.Model(&profile).Update("role", role).Error; err != nil {
		return nil, err
	}
	profile.Role = role
	return &profile, nil
}

// Delete removes the account and every row it owns. Storage objects behind
// the user's documents are deleted best-effort before the transaction; a
// stray object is preferable to a dangling row.
func (s *UserService) Delete(ctx context.Context, userID uuid.UUID) error {
	var profile models.Profile
	if err := s.db.First(&profile, "id = ?", userID).Error; err != nil {
		return ErrUserNotFound
	}

	var keys []string
	s.db.Table("documents").Where("user_id = ?", userID).Pluck("file_url", &keys)
	for _, key := range keys {
		if err := s.store.Delete(ctx, key); err != nil {
			slog.Error("failed to delete storage object during account removal",
				"module", "users", "user_id", userID.String(), "key", key, "error", err)
		}
	}

	return s.db.Transaction(func(tx *gorm.DB) error {
		for _, table := range []string{
			"refresh_tokens",
			"announcement_reads",
			"financial_transactions",
			"medical_appointments",
			"certificate_requests",
			"documents",
		} {
			if err := tx.Exec("DELETE FROM "+table+" WHERE user_id = ?", userID).Error; err != nil {
				return err
			}
		}
		return tx.Delete(&profile).Error
	})
}
