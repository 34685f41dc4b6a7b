package documents

import (
	"github.com/gofiber/fiber/v2"

	"github.com/techhelp/backend/internal/apps"
)

type DocumentsPlugin struct{}

func New() *DocumentsPlugin {
	return &DocumentsPlugin{}
}

func (p *DocumentsPlugin) ID() string { return "documents" }

func (p *DocumentsPlugin) Models() []interface{} {
	return []interface{}{&Document{}}
}

func (p *DocumentsPlugin) RegisterRoutes(router fiber.Router, deps apps.Deps) {
	svc := NewDocumentService(deps.DB, deps.Hub, deps.Storage)
	h := NewDocumentHandler(svc)

	router.Get("/documents", h.List)
	router.Post("/documents", h.Upload)
	router.Get("/documents/:id/url", h.DownloadURL)
	router.Delete("/documents/:id", h.Delete)
}

// RegisterAdminRoutes exposes the verification toggle.
func (p *DocumentsPlugin) RegisterAdminRoutes(router fiber.Router, deps apps.Deps) {
	svc := NewDocumentService(deps.DB, deps.Hub, deps.Storage)
	h := NewDocumentHandler(svc)

	router.Put("/documents/:id/verified", h.SetVerified)
}
