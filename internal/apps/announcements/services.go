package announcements

import (
	"errors"
	"fmt"

	"github.com/google/uuid"
	"gorm.io/datatypes"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/techhelp/backend/internal/models"
	"github.com/techhelp/backend/internal/realtime"
)

const TableName = "announcements"

var (
	ErrMissingFields   = errors.New("title, content and category are required")
	ErrInvalidCategory = errors.New("invalid announcement category")
	ErrNoVisibility    = errors.New("visible_to must list at least one role")
	ErrNotFound        = errors.New("announcement not found")
)

type AnnouncementService struct {
	db     *gorm.DB
	hub    *realtime.Hub
	recent int
}

// NewAnnouncementService builds the feed service; recent is how many
// newest-first announcements the badge window covers.
func NewAnnouncementService(db *gorm.DB, hub *realtime.Hub, recent int) *AnnouncementService {
	if recent < 1 {
		recent = 5
	}
	return &AnnouncementService{db: db, hub: hub, recent: recent}
}

type Feed struct {
	Announcements []models.Announcement `json:"announcements"`
	UnreadCount   int                   `json:"unread_count"`
	Seq           uint64                `json:"seq"`
}

// Recent returns the newest announcements visible to the caller's role along
// with how many of them the caller has not acknowledged. Seq lets the client
// discard change-feed events older than this snapshot.
func (s *AnnouncementService) Recent(userID uuid.UUID, role string, limit int) (*Feed, error) {
	if limit < 1 || limit > 50 {
		limit = s.recent
	}

	var anns []models.Announcement
	err := s.visibleTo(role).
		Order("created_at DESC").
		Limit(limit).
		Find(&anns).Error
	if err != nil {
		return nil, err
	}

	readSet, err := s.readSet(userID)
	if err != nil {
		return nil, err
	}

	return &Feed{
		Announcements: anns,
		UnreadCount:   CountUnread(anns, readSet),
		Seq:           s.hub.Seq(TableName),
	}, nil
}

// MarkRead merges the given IDs into the caller's read-set. Duplicates are
// ignored, so re-opening the panel is idempotent.
func (s *AnnouncementService) MarkRead(userID uuid.UUID, ids []uuid.UUID) error {
	if len(ids) == 0 {
		return nil
	}

	seen := make(map[uuid.UUID]struct{}, len(ids))
	reads := make([]models.AnnouncementRead, 0, len(ids))
	for _, id := range ids {
		if _, dup := seen[id]; dup || id == uuid.Nil {
			continue
		}
		seen[id] = struct{}{}
		reads = append(reads, models.AnnouncementRead{
			ID:             uuid.New(),
			UserID:         userID,
			AnnouncementID: id,
		})
	}
	if len(reads) == 0 {
		return nil
	}

	return s.db.Clauses(clause.OnConflict{DoNothing: true}).Create(&reads).Error
}

// UnreadCount reports unread among the badge window.
func (s *AnnouncementService) UnreadCount(userID uuid.UUID, role string) (int, error) {
	feed, err := s.Recent(userID, role, s.recent)
	if err != nil {
		return 0, err
	}
	return feed.UnreadCount, nil
}

// CountUnread is the badge arithmetic: announcements not present in the
// read-set.
func CountUnread(anns []models.Announcement, readSet map[uuid.UUID]struct{}) int {
	unread := 0
	for _, a := range anns {
		if _, ok := readSet[a.ID]; !ok {
			unread++
		}
	}
	return unread
}

func (s *AnnouncementService) readSet(userID uuid.UUID) (map[uuid.UUID]struct{}, error) {
	var ids []uuid.UUID
	err := s.db.Model(&models.AnnouncementRead{}).
		Where("user_id = ?", userID).
		Pluck("announcement_id", &ids).Error
	if err != nil {
		return nil, err
	}

	set := make(map[uuid.UUID]struct{}, len(ids))
	for _, id := range ids {
		set[id] = struct{}{}
	}
	return set, nil
}

func (s *AnnouncementService) visibleTo(role string) *gorm.DB {
	if role == "" {
		role = models.RoleUser
	}
	return s.db.Model(&models.Announcement{}).
		Where("visible_to @> ?", datatypes.JSON(fmt.Sprintf("[%q]", role)))
}

// --- admin operations ---

func (s *AnnouncementService) ListAll(categoryFilter string) ([]models.Announcement, error) {
	query := s.db.Order("created_at DESC")
	if categoryFilter != "" && categoryFilter != "all" {
		query = query.Where("category = ?", categoryFilter)
	}

	var anns []models.Announcement
	if err := query.Find(&anns).Error; err != nil {
		return nil, err
	}
	return anns, nil
}

// Create broadcasts the new announcement on the change feed; it has no owner,
// so every connected dashboard sees it and bumps its unread badge.
func (s *AnnouncementService) Create(title, content, category string, visibleTo []string) (*models.Announcement, error) {
	if title == "" || content == "" || category == "" {
		return nil, ErrMissingFields
	}
	if !validCategory(category) {
		return nil, ErrInvalidCategory
	}
	if len(visibleTo) == 0 {
		return nil, ErrNoVisibility
	}

	ann := &models.Announcement{
		ID:        uuid.New(),
		Title:     title,
		Content:   content,
		Category:  category,
		VisibleTo: datatypes.NewJSONSlice(visibleTo),
	}

	if err := s.db.Create(ann).Error; err != nil {
		return nil, err
	}

	s.hub.Publish(TableName, realtime.ActionInsert, nil, ann)
	return ann, nil
}

func (s *AnnouncementService) Delete(id uuid.UUID) error {
	result := s.db.Delete(&models.Announcement{}, "id = ?", id)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return ErrNotFound
	}

	s.hub.Publish(TableName, realtime.ActionDelete, nil, map[string]interface{}{"id": id})
	return nil
}

func validCategory(category string) bool {
	for _, c := range models.AnnouncementCategories {
		if c == category {
			return true
		}
	}
	return false
}
