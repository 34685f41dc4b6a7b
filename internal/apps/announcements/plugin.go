package announcements

import (
	"github.com/gofiber/fiber/v2"

	"github.com/techhelp/backend/internal/apps"
)

type AnnouncementsPlugin struct{}

func New() *AnnouncementsPlugin {
	return &AnnouncementsPlugin{}
}

func (p *AnnouncementsPlugin) ID() string { return "announcements" }

// Models returns nothing: Announcement and AnnouncementRead are shared models
// migrated with the platform (the admin console and auth cascade touch them).
func (p *AnnouncementsPlugin) Models() []interface{} {
	return nil
}

func (p *AnnouncementsPlugin) RegisterRoutes(router fiber.Router, deps apps.Deps) {
	svc := NewAnnouncementService(deps.DB, deps.Hub, deps.Cfg.RecentAnnouncements)
	h := NewAnnouncementHandler(svc)

	router.Get("/announcements/recent", h.Recent)
	router.Post("/announcements/read", h.MarkRead)
	router.Get("/announcements/unread-count", h.UnreadCount)
}

// RegisterAdminRoutes mounts announcement broadcasting.
func (p *AnnouncementsPlugin) RegisterAdminRoutes(router fiber.Router, deps apps.Deps) {
	svc := NewAnnouncementService(deps.DB, deps.Hub, deps.Cfg.RecentAnnouncements)
	h := NewAnnouncementHandler(svc)

	router.Get("/announcements", h.ListAll)
	router.Post("/announcements", h.Create)
	router.Delete("/announcements/:id", h.Delete)
}
