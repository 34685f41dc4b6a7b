package apps

import (
	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"

	"github.com/techhelp/backend/internal/config"
	"github.com/techhelp/backend/internal/realtime"
	"github.com/techhelp/backend/internal/services"
)

// Deps carries the shared infrastructure every domain plugin wires against.
type Deps struct {
	DB      *gorm.DB
	Cfg     *config.Config
	Hub     *realtime.Hub
	Storage services.ObjectStore
}

// Plugin defines the interface every service domain must implement.
type Plugin interface {
	// ID returns the unique domain identifier.
	ID() string

	// Models returns the list of GORM model pointers for AutoMigrate.
	Models() []interface{}

	// RegisterRoutes mounts domain routes on the given Fiber group.
	// The group is already prefixed with /api and has JWT middleware applied.
	RegisterRoutes(router fiber.Router, deps Deps)
}

// AdminPlugin extends Plugin with admin-console route registration.
type AdminPlugin interface {
	Plugin

	// RegisterAdminRoutes mounts admin-only routes on the given Fiber group.
	// The group has both JWT and Admin middleware applied.
	RegisterAdminRoutes(router fiber.Router, deps Deps)
}
