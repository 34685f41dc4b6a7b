package health

import (
	"github.com/gofiber/fiber/v2"

	"github.com/techhelp/backend/internal/apps"
)

type HealthPlugin struct{}

func New() *HealthPlugin {
	return &HealthPlugin{}
}

func (p *HealthPlugin) ID() string { return "health" }

func (p *HealthPlugin) Models() []interface{} {
	return []interface{}{&MedicalAppointment{}}
}

func (p *HealthPlugin) RegisterRoutes(router fiber.Router, deps apps.Deps) {
	svc := NewAppointmentService(deps.DB, deps.Hub)
	h := NewAppointmentHandler(svc)

	router.Get("/health/appointments", h.List)
	router.Post("/health/appointments", h.Create)
	router.Put("/health/appointments/:id/cancel", h.Cancel)
	router.Delete("/health/appointments/:id", h.Delete)
}

// RegisterAdminRoutes exposes server-authoritative status management.
func (p *HealthPlugin) RegisterAdminRoutes(router fiber.Router, deps apps.Deps) {
	svc := NewAppointmentService(deps.DB, deps.Hub)
	h := NewAppointmentHandler(svc)

	router.Put("/appointments/:id/status", h.SetStatus)
}
