package handlers

import (
	"errors"
	"fmt"

	"pitwall/internal/logging"
	"pitwall/internal/repositories"
	"pitwall/internal/services"
	"pitwall/internal/telemetry"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
)

// statusFor maps a service or repository error onto an HTTP status.
func statusFor(err error) int {
	switch {
	case errors.Is(err, repositories.ErrUserNotFound),
		errors.Is(err, repositories.ErrCircuitNotFound),
		errors.Is(err, repositories.ErrLapItemNotFound),
		errors.Is(err, telemetry.ErrSessionNotFound),
		errors.Is(err, services.ErrNoLapData),
		errors.Is(err, services.ErrDriversNotFound):
		return fiber.StatusNotFound
	case errors.Is(err, services.ErrDuplicateNick),
		errors.Is(err, services.ErrDuplicateEmail),
		errors.Is(err, services.ErrDuplicateCircuit):
		return fiber.StatusConflict
	case errors.Is(err, services.ErrEmptyUpdate),
		errors.Is(err, services.ErrUnknownField),
		errors.Is(err, services.ErrIncorrectPassword):
		return fiber.StatusBadRequest
	case errors.Is(err, services.ErrInvalidCredentials),
		errors.Is(err, services.ErrInvalidToken):
		return fiber.StatusUnauthorized
	case errors.Is(err, services.ErrForbidden):
		return fiber.StatusForbidden
	case errors.Is(err, telemetry.ErrUpstream):
		return fiber.StatusBadGateway
	default:
		return fiber.StatusInternalServerError
	}
}

// respondError writes {"message", "error"} with the status err maps to.
func respondError(c *fiber.Ctx, err error, message string) error {
	status := statusFor(err)
	if status >= fiber.StatusInternalServerError {
		logging.Error().Err(err).Str("method", c.Method()).Str("path", c.Path()).Msg(message)
	} else {
		logging.Debug().Err(err).Str("path", c.Path()).Int("status", status).Msg(message)
	}
	return c.Status(status).JSON(fiber.Map{
		"message": message,
		"error":   err.Error(),
	})
}

func invalidBody(c *fiber.Ctx, err error) error {
	logging.Debug().Err(err).Str("path", c.Path()).Msg("invalid request body")
	return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
		"message": "Invalid request body",
		"error":   err.Error(),
	})
}

func validationFailed(c *fiber.Ctx, err error) error {
	var validationErrors validator.ValidationErrors
	if !errors.As(err, &validationErrors) {
		return invalidBody(c, err)
	}
	errorMessages := make(map[string]string, len(validationErrors))
	for _, e := range validationErrors {
		errorMessages[e.Field()] = fmt.Sprintf("Field '%s' failed on the '%s' tag", e.Field(), e.Tag())
	}
	return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
		"message": "Validation failed",
		"errors":  errorMessages,
	})
}
