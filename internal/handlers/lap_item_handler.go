package handlers

import (
	"pitwall/internal/middleware"
	"pitwall/internal/models"
	"pitwall/internal/services"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
)

// LapItemHandler exposes the exported lap file as a small item store.
type LapItemHandler struct {
	lapService  *services.LapItemService
	authService *services.AuthService
	validate    *validator.Validate
}

// NewLapItemHandler creates a new LapItemHandler.
func NewLapItemHandler(lapService *services.LapItemService, authService *services.AuthService) *LapItemHandler {
	return &LapItemHandler{
		lapService:  lapService,
		authService: authService,
		validate:    validator.New(),
	}
}

// RegisterRoutes registers the lap item routes. Reads are public, writes need
// an admin token.
func (h *LapItemHandler) RegisterRoutes(router fiber.Router) {
	laps := router.Group("/f1/laps")
	laps.Get("", h.ListItems)
	laps.Get("/:id", h.GetItem)

	admin := []fiber.Handler{middleware.AuthRequired(h.authService), middleware.AdminRequired()}
	laps.Post("", append(admin, h.CreateItem)...)
	laps.Put("/:id", append(admin, h.UpdateItem)...)
	laps.Delete("/:id", append(admin, h.DeleteItem)...)
}

// ListItems returns every lap item.
func (h *LapItemHandler) ListItems(c *fiber.Ctx) error {
	items, err := h.lapService.GetAllItems()
	if err != nil {
		return respondError(c, err, "Could not read lap items")
	}
	return c.JSON(items)
}

// GetItem returns one lap item.
func (h *LapItemHandler) GetItem(c *fiber.Ctx) error {
	id, err := c.ParamsInt("id")
	if err != nil {
		return invalidID(c, err)
	}
	item, err := h.lapService.GetItem(id)
	if err != nil {
		return respondError(c, err, "Could not read lap item")
	}
	return c.JSON(item)
}

// CreateItem appends a lap item.
func (h *LapItemHandler) CreateItem(c *fiber.Ctx) error {
	in, err := h.parseItem(c)
	if in == nil {
		return err
	}
	item, err := h.lapService.CreateItem(*in)
	if err != nil {
		return respondError(c, err, "Could not create lap item")
	}
	return c.Status(fiber.StatusCreated).JSON(item)
}

// UpdateItem replaces a lap item.
func (h *LapItemHandler) UpdateItem(c *fiber.Ctx) error {
	id, err := c.ParamsInt("id")
	if err != nil {
		return invalidID(c, err)
	}
	in, err := h.parseItem(c)
	if in == nil {
		return err
	}
	item, err := h.lapService.UpdateItem(id, *in)
	if err != nil {
		return respondError(c, err, "Could not update lap item")
	}
	return c.JSON(item)
}

// DeleteItem removes a lap item.
func (h *LapItemHandler) DeleteItem(c *fiber.Ctx) error {
	id, err := c.ParamsInt("id")
	if err != nil {
		return invalidID(c, err)
	}
	if err := h.lapService.DeleteItem(id); err != nil {
		return respondError(c, err, "Could not delete lap item")
	}
	return c.JSON(fiber.Map{"message": "Lap item deleted successfully"})
}

// parseItem decodes and validates the request body. A nil item means the
// error response has already been written.
func (h *LapItemHandler) parseItem(c *fiber.Ctx) (*models.LapItemCreate, error) {
	var in models.LapItemCreate
	if err := c.BodyParser(&in); err != nil {
		return nil, invalidBody(c, err)
	}
	if err := h.validate.Struct(in); err != nil {
		return nil, validationFailed(c, err)
	}
	return &in, nil
}

func invalidID(c *fiber.Ctx, err error) error {
	return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
		"message": "Item id must be an integer",
		"error":   err.Error(),
	})
}
