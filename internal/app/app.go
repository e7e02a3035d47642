// Package app assembles the Fiber application from its services.
package app

import (
	"errors"

	"pitwall/internal/handlers"
	"pitwall/internal/logging"
	"pitwall/internal/middleware"
	"pitwall/internal/services"

	"github.com/goccy/go-json"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/adaptor"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/gofiber/fiber/v2/utils"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Deps are the services the routes delegate to.
type Deps struct {
	AuthService    *services.AuthService
	UserService    *services.UserService
	CircuitService *services.CircuitService
	SessionService *services.SessionService
	LapItemService *services.LapItemService

	HealthChecks     []handlers.HealthCheck
	CORSAllowOrigins string
	// AccessLog enables Fiber's request logger.
	AccessLog bool
}

// New builds the Fiber app with every route registered.
func New(d Deps) *fiber.App {
	app := fiber.New(fiber.Config{
		AppName:      "pitwall",
		JSONEncoder:  json.Marshal,
		JSONDecoder:  json.Unmarshal,
		UnescapePath: true,
		ErrorHandler: errorHandler,
	})

	// --- Middleware ---
	app.Use(recover.New())
	if d.AccessLog {
		app.Use(logger.New())
	}
	origins := d.CORSAllowOrigins
	if origins == "" {
		origins = "*"
	}
	app.Use(cors.New(cors.Config{AllowOrigins: origins}))
	app.Use(middleware.Metrics())

	app.Get("/metrics", adaptor.HTTPHandler(promhttp.Handler()))

	// --- Routes ---
	handlers.NewRootHandler(d.HealthChecks...).RegisterRoutes(app)
	handlers.NewAuthHandler(d.AuthService).RegisterRoutes(app)
	handlers.NewUserHandler(d.UserService, d.AuthService).RegisterRoutes(app)
	handlers.NewCircuitHandler(d.CircuitService, d.AuthService).RegisterRoutes(app)
	handlers.NewSessionHandler(d.SessionService).RegisterRoutes(app)
	handlers.NewLapItemHandler(d.LapItemService, d.AuthService).RegisterRoutes(app)

	return app
}

// errorHandler answers errors that escaped the handlers, such as unmatched
// routes and recovered panics.
func errorHandler(c *fiber.Ctx, err error) error {
	code := fiber.StatusInternalServerError
	var fe *fiber.Error
	if errors.As(err, &fe) {
		code = fe.Code
	}
	if code >= fiber.StatusInternalServerError {
		logging.Error().Err(err).Str("method", c.Method()).Str("path", c.Path()).Msg("unhandled error")
	}
	return c.Status(code).JSON(fiber.Map{
		"message": utils.StatusMessage(code),
		"error":   err.Error(),
	})
}
