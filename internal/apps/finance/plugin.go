package finance

import (
	"github.com/gofiber/fiber/v2"

	"github.com/techhelp/backend/internal/apps"
)

type FinancePlugin struct{}

func New() *FinancePlugin {
	return &FinancePlugin{}
}

func (p *FinancePlugin) ID() string { return "finance" }

func (p *FinancePlugin) Models() []interface{} {
	return []interface{}{&FinancialTransaction{}}
}

func (p *FinancePlugin) RegisterRoutes(router fiber.Router, deps apps.Deps) {
	svc := NewTransactionService(deps.DB, deps.Hub)
	h := NewTransactionHandler(svc)

	router.Get("/finance/transactions", h.List)
	router.Post("/finance/transactions", h.Create)
	router.Delete("/finance/transactions/:id", h.Delete)
	router.Get("/finance/summary", h.Summary)
}
