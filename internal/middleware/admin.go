package middleware

import (
	"strings"

	"github.com/techhelp/backend/internal/config"
	"github.com/techhelp/backend/internal/dto"
	"github.com/techhelp/backend/internal/identity"
	"github.com/techhelp/backend/internal/models"
	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"
)

// AdminRequired gates the admin console. It accepts, in order:
// 1. the static X-Admin-Token header (ops escape hatch)
// 2. config-listed admin emails / user IDs
// 3. a profile whose role column is admin
func AdminRequired(db *gorm.DB, cfg *config.Config) fiber.Handler {
	adminEmails := parseCSV(cfg.AdminEmails)
	adminUserIDs := parseCSV(cfg.AdminUserIDs)

	return func(c *fiber.Ctx) error {
		if cfg.AdminToken != "" && c.Get("X-Admin-Token") == cfg.AdminToken {
			return c.Next()
		}

		userID, err := identity.GetUserID(c)
		if err != nil {
			return c.Status(fiber.StatusUnauthorized).JSON(dto.ErrorResponse{
				Error: true, Message: "Unauthorized",
			})
		}

		if contains(adminEmails, identity.GetEmail(c)) || contains(adminUserIDs, userID.String()) {
			return c.Next()
		}

		// Role is checked against the DB, not the token, so a demotion takes
		// effect without waiting for the access token to expire.
		var profile models.Profile
		if err := db.First(&profile, "id = ?", userID).Error; err == nil {
			if profile.Role == models.RoleAdmin {
				return c.Next()
			}
		}

		return c.Status(fiber.StatusForbidden).JSON(dto.ErrorResponse{
			Error: true, Message: "Admin access required",
		})
	}
}

func parseCSV(s string) []string {
	if s == "" {
		return nil
	}
	parts := strings.Split(s, ",")
	result := make([]string, 0, len(parts))
	for _, p := range parts {
		trimmed := strings.TrimSpace(p)
		if trimmed != "" {
			result = append(result, trimmed)
		}
	}
	return result
}

func contains(list []string, val string) bool {
	for _, item := range list {
		if item == val {
			return true
		}
	}
	return false
}
