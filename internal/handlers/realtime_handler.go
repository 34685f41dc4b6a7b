package handlers

import (
	"bufio"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/valyala/fasthttp"

	"github.com/techhelp/backend/internal/dto"
	"github.com/techhelp/backend/internal/identity"
	"github.com/techhelp/backend/internal/models"
	"github.com/techhelp/backend/internal/realtime"
)

const heartbeatInterval = 25 * time.Second

// streamableTables is the closed set of tables a client may subscribe to.
var streamableTables = map[string]struct{}{
	"financial_transactions": {},
	"medical_appointments":   {},
	"certificate_requests":   {},
	"documents":              {},
	"announcements":          {},
}

type RealtimeHandler struct {
	hub *realtime.Hub
}

func NewRealtimeHandler(hub *realtime.Hub) *RealtimeHandler {
	return &RealtimeHandler{hub: hub}
}

// Stream serves the change feed over SSE. EventSource cannot set headers, so
// the JWT arrives via the token query parameter; the JWT middleware already
// accepts it there.
func (h *RealtimeHandler) Stream(c *fiber.Ctx) error {
	userID, err := identity.GetUserID(c)
	if err != nil {
		return c.Status(fiber.StatusUnauthorized).JSON(dto.ErrorResponse{
			Error: true, Message: "Unauthorized",
		})
	}

	tables, err := parseTables(c.Query("tables"))
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{
			Error: true, Message: err.Error(),
		})
	}

	admin := identity.GetRole(c) == models.RoleAdmin
	sub := h.hub.Subscribe(userID, admin, tables)

	c.Set(fiber.HeaderContentType, "text/event-stream")
	c.Set(fiber.HeaderCacheControl, "no-cache")
	c.Set(fiber.HeaderConnection, "keep-alive")
	c.Set("X-Accel-Buffering", "no")

	c.Context().SetBodyStreamWriter(fasthttp.StreamWriter(func(w *bufio.Writer) {
		defer sub.Close()

		heartbeat := time.NewTicker(heartbeatInterval)
		defer heartbeat.Stop()

		// Opening comment so the client fires its open handler immediately.
		fmt.Fprintf(w, ": connected\n\n")
		if err := w.Flush(); err != nil {
			return
		}

		for {
			select {
			case event, ok := <-sub.C:
				if !ok {
					return
				}
				data, err := json.Marshal(event)
				if err != nil {
					continue
				}
				fmt.Fprintf(w, "id: %d\nevent: change\ndata: %s\n\n", event.Seq, data)
				if err := w.Flush(); err != nil {
					return
				}
			case <-heartbeat.C:
				fmt.Fprintf(w, ": ping\n\n")
				if err := w.Flush(); err != nil {
					return
				}
			}
		}
	}))

	return nil
}

func parseTables(raw string) ([]string, error) {
	if raw == "" {
		tables := make([]string, 0, len(streamableTables))
		for t := range streamableTables {
			tables = append(tables, t)
		}
		return tables, nil
	}

	var tables []string
	for _, t := range strings.Split(raw, ",") {
		t = strings.TrimSpace(t)
		if t == "" {
			continue
		}
		if _, ok := streamableTables[t]; !ok {
			return nil, fmt.Errorf("unknown table: %s", t)
		}
		tables = append(tables, t)
	}
	if len(tables) == 0 {
		return nil, fmt.Errorf("tables parameter is empty")
	}
	return tables, nil
}
