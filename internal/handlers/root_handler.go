package handlers

import (
	"context"
	"time"

	"pitwall/internal/logging"

	"github.com/gofiber/fiber/v2"
)

// HealthCheck is one dependency probed by GET /health.
type HealthCheck struct {
	Name  string
	Check func(ctx context.Context) error
}

// RootHandler serves the welcome and health endpoints.
type RootHandler struct {
	checks []HealthCheck
}

// NewRootHandler creates a new RootHandler.
func NewRootHandler(checks ...HealthCheck) *RootHandler {
	return &RootHandler{checks: checks}
}

// RegisterRoutes registers / and /health.
func (h *RootHandler) RegisterRoutes(router fiber.Router) {
	router.Get("/", h.Welcome)
	router.Get("/health", h.Health)
}

// Welcome greets API clients.
func (h *RootHandler) Welcome(c *fiber.Ctx) error {
	return c.JSON(fiber.Map{"message": "Welcome to the pitwall F1 API"})
}

// Health probes every dependency and answers 503 if any is down.
func (h *RootHandler) Health(c *fiber.Ctx) error {
	status := fiber.StatusOK
	results := make(fiber.Map, len(h.checks))
	for _, check := range h.checks {
		ctx, cancel := context.WithTimeout(c.UserContext(), 3*time.Second)
		err := check.Check(ctx)
		cancel()
		if err != nil {
			logging.Warn().Err(err).Str("dependency", check.Name).Msg("health check failed")
			results[check.Name] = err.Error()
			status = fiber.StatusServiceUnavailable
			continue
		}
		results[check.Name] = "ok"
	}

	state := "healthy"
	if status != fiber.StatusOK {
		state = "degraded"
	}
	return c.Status(status).JSON(fiber.Map{
		"status": state,
		"time":   time.Now().Format(time.RFC3339),
		"checks": results,
	})
}
