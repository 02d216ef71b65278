package handlers

import (
	"os"

	"github.com/gofiber/fiber/v2"
	"github.com/lebonmot/reviews-backend/internal/services"
	"github.com/lebonmot/reviews-backend/internal/storage"
)

// HealthHandler reports service liveness and a small operational snapshot.
type HealthHandler struct {
	store    storage.Store
	sessions *services.SessionStore
	bridge   *services.NotificationBridge
}

// NewHealthHandler creates a new health handler
func NewHealthHandler(store storage.Store, sessions *services.SessionStore, bridge *services.NotificationBridge) *HealthHandler {
	return &HealthHandler{
		store:    store,
		sessions: sessions,
		bridge:   bridge,
	}
}

// HandleHealth is the monitoring probe.
func (h *HealthHandler) HandleHealth(c *fiber.Ctx) error {
	return c.JSON(fiber.Map{
		"status": "healthy",
		"services": fiber.Map{
			"storage": storageType(),
			"twilio":  os.Getenv("TWILIO_ACCOUNT_SID") != "",
		},
	})
}

// HandleRoot describes the service and its operational state.
func (h *HealthHandler) HandleRoot(c *fiber.Ctx) error {
	response := fiber.Map{
		"service": "Le Bon Mot Backend API",
		"version": "1.0.0",
		"status":  "healthy",
		"storage": storageType(),
		"runtime": fiber.Map{
			"active_sessions":       h.sessions.ActiveCount(),
			"pending_notifications": h.bridge.Len(),
		},
	}

	if stats, err := h.store.GetStats(); err == nil {
		response["stats"] = stats
	}

	return c.JSON(response)
}

func storageType() string {
	if os.Getenv("USE_MEMORY_STORE") == "true" {
		return "memory"
	}
	return "postgres"
}
