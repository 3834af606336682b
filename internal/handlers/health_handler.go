package handlers

import (
	"context"
	"time"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"
)

// Pinger reports whether a dependency is reachable.
type Pinger interface {
	Ping(ctx context.Context) error
}

// HealthHandler serves liveness and readiness endpoints.
type HealthHandler struct {
	store Pinger
}

// NewHealthHandler creates a new HealthHandler.
func NewHealthHandler(store Pinger) *HealthHandler {
	return &HealthHandler{store: store}
}

// RegisterRoutes registers the health routes.
func (h *HealthHandler) RegisterRoutes(router fiber.Router) {
	router.Get("/", h.HandleRoot)
	router.Get("/health", h.HandleHealth)
}

// HandleRoot is the plain-text liveness probe.
func (h *HealthHandler) HandleRoot(c *fiber.Ctx) error {
	return c.SendString("ProductHub is Running")
}

// HandleHealth pings the store.
func (h *HealthHandler) HandleHealth(c *fiber.Ctx) error {
	ctx, cancel := context.WithTimeout(c.UserContext(), 2*time.Second)
	defer cancel()

	status, store, code := "healthy", "connected", fiber.StatusOK
	if err := h.store.Ping(ctx); err != nil {
		zap.L().Warn("Store health check failed", zap.Error(err))
		status, store, code = "unhealthy", "unreachable", fiber.StatusServiceUnavailable
	}
	return c.Status(code).JSON(fiber.Map{
		"status": status,
		"time":   time.Now().Format(time.RFC3339),
		"store":  store,
	})
}
