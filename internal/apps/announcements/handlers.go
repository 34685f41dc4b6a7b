package announcements

import (
	"errors"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"

	"github.com/techhelp/backend/internal/identity"
)

type AnnouncementHandler struct {
	service *AnnouncementService
}

func NewAnnouncementHandler(service *AnnouncementService) *AnnouncementHandler {
	return &AnnouncementHandler{service: service}
}

type MarkReadRequest struct {
	IDs []uuid.UUID `json:"ids"`
}

type CreateAnnouncementRequest struct {
	Title     string   `json:"title"`
	Content   string   `json:"content"`
	Category  string   `json:"category"`
	VisibleTo []string `json:"visible_to"`
}

func (h *AnnouncementHandler) Recent(c *fiber.Ctx) error {
	userID, err := identity.GetUserID(c)
	if err != nil {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"error": true, "message": "Unauthorized"})
	}

	feed, err := h.service.Recent(userID, identity.GetRole(c), c.QueryInt("limit", 0))
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": true, "message": "Failed to load announcements"})
	}

	return c.JSON(feed)
}

func (h *AnnouncementHandler) MarkRead(c *fiber.Ctx) error {
	userID, err := identity.GetUserID(c)
	if err != nil {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"error": true, "message": "Unauthorized"})
	}

	var req MarkReadRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": true, "message": "Invalid request body"})
	}

	if err := h.service.MarkRead(userID, req.IDs); err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": true, "message": "Failed to mark announcements read"})
	}

	return c.JSON(fiber.Map{"message": "Marked read", "count": len(req.IDs)})
}

func (h *AnnouncementHandler) UnreadCount(c *fiber.Ctx) error {
	userID, err := identity.GetUserID(c)
	if err != nil {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"error": true, "message": "Unauthorized"})
	}

	count, err := h.service.UnreadCount(userID, identity.GetRole(c))
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": true, "message": "Failed to load unread count"})
	}

	return c.JSON(fiber.Map{"unread_count": count})
}

// --- admin handlers ---

func (h *AnnouncementHandler) ListAll(c *fiber.Ctx) error {
	anns, err := h.service.ListAll(c.Query("category"))
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": true, "message": "Failed to load announcements"})
	}

	return c.JSON(fiber.Map{"data": anns})
}

func (h *AnnouncementHandler) Create(c *fiber.Ctx) error {
	var req CreateAnnouncementRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": true, "message": "Invalid request body"})
	}

	ann, err := h.service.Create(req.Title, req.Content, req.Category, req.VisibleTo)
	if err != nil {
		if errors.Is(err, ErrMissingFields) || errors.Is(err, ErrInvalidCategory) || errors.Is(err, ErrNoVisibility) {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": true, "message": err.Error()})
		}
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": true, "message": "Failed to create announcement"})
	}

	return c.Status(fiber.StatusCreated).JSON(ann)
}

func (h *AnnouncementHandler) Delete(c *fiber.Ctx) error {
	id, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": true, "message": "Invalid announcement id"})
	}

	if err := h.service.Delete(id); err != nil {
		if errors.Is(err, ErrNotFound) {
			return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": true, "message": err.Error()})
		}
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": true, "message": "Failed to delete announcement"})
	}

	return c.JSON(fiber.Map{"message": "Announcement deleted"})
}
