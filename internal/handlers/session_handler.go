package handlers

import (
	"pitwall/internal/models"
	"pitwall/internal/services"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
)

// SessionHandler serves F1 session lap exports.
type SessionHandler struct {
	sessionService *services.SessionService
	validate       *validator.Validate
}

// NewSessionHandler creates a new SessionHandler.
func NewSessionHandler(sessionService *services.SessionService) *SessionHandler {
	return &SessionHandler{
		sessionService: sessionService,
		validate:       validator.New(),
	}
}

// RegisterRoutes registers the session route.
func (h *SessionHandler) RegisterRoutes(router fiber.Router) {
	router.Get("/f1/session", h.GetSession)
}

// GetSession loads the session named by ?year&circuit&session, keeps the laps
// of ?drivers and returns them after writing the lap file.
func (h *SessionHandler) GetSession(c *fiber.Ctx) error {
	req := models.SessionRequest{
		Year:    c.QueryInt("year"),
		Circuit: c.Query("circuit"),
		Session: c.Query("session"),
		Drivers: splitQueryList(c, "drivers"),
	}
	if err := h.validate.Struct(req); err != nil {
		return validationFailed(c, err)
	}

	laps, err := h.sessionService.ExportSession(c.UserContext(), req)
	if err != nil {
		return respondError(c, err, "Could not load session data")
	}
	return c.JSON(laps)
}
