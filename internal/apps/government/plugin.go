package government

import (
	"github.com/gofiber/fiber/v2"

	"github.com/techhelp/backend/internal/apps"
)

type GovernmentPlugin struct{}

func New() *GovernmentPlugin {
	return &GovernmentPlugin{}
}

func (p *GovernmentPlugin) ID() string { return "government" }

func (p *GovernmentPlugin) Models() []interface{} {
	return []interface{}{&CertificateRequest{}}
}

func (p *GovernmentPlugin) RegisterRoutes(router fiber.Router, deps apps.Deps) {
	svc := NewRequestService(deps.DB, deps.Hub, deps.Storage)
	h := NewRequestHandler(svc)

	router.Get("/government/requests", h.List)
	router.Post("/government/requests", h.Create)
	router.Get("/government/requests/:id/certificate-url", h.CertificateURL)
}

// RegisterAdminRoutes mounts the requests-management console.
func (p *GovernmentPlugin) RegisterAdminRoutes(router fiber.Router, deps apps.Deps) {
	svc := NewRequestService(deps.DB, deps.Hub, deps.Storage)
	h := NewRequestHandler(svc)

	router.Get("/requests", h.ListAll)
	router.Put("/requests/:id/status", h.SetStatus)
	router.Post("/requests/:id/certificate", h.IssueCertificate)
}
