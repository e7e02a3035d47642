package handlers

import (
	"strings"

	"pitwall/internal/middleware"
	"pitwall/internal/models"
	"pitwall/internal/services"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
)

// CircuitHandler handles HTTP requests for circuit records.
type CircuitHandler struct {
	circuitService *services.CircuitService
	authService    *services.AuthService
	validate       *validator.Validate
}

// NewCircuitHandler creates a new CircuitHandler.
func NewCircuitHandler(circuitService *services.CircuitService, authService *services.AuthService) *CircuitHandler {
	return &CircuitHandler{
		circuitService: circuitService,
		authService:    authService,
		validate:       validator.New(),
	}
}

// RegisterRoutes registers the circuit routes. Reads are public, writes need
// an admin token.
func (h *CircuitHandler) RegisterRoutes(router fiber.Router) {
	f1 := router.Group("/f1")
	f1.Get("/circuitos/campos", h.GetCircuits)

	calendar := f1.Group("/calendar", middleware.AuthRequired(h.authService), middleware.AdminRequired())
	calendar.Post("/new", h.CreateCircuit)
	calendar.Put("/update/:circuit", h.UpdateCircuit)
	calendar.Delete("/delete/:race_name", h.DeleteCircuit)
}

// GetCircuits lists every circuit. ?fields=circuit,laps limits the columns.
func (h *CircuitHandler) GetCircuits(c *fiber.Ctx) error {
	fields := splitQueryList(c, "fields")
	if len(fields) == 0 {
		circuits, err := h.circuitService.GetAllCircuits()
		if err != nil {
			return respondError(c, err, "Could not retrieve circuits")
		}
		return c.JSON(circuits)
	}

	rows, err := h.circuitService.GetCircuitFields(fields)
	if err != nil {
		return respondError(c, err, "Could not retrieve circuits")
	}
	return c.JSON(rows)
}

// CreateCircuit stores a new circuit record.
func (h *CircuitHandler) CreateCircuit(c *fiber.Ctx) error {
	var circuit models.Circuit
	if err := c.BodyParser(&circuit); err != nil {
		return invalidBody(c, err)
	}
	circuit.ID = ""
	if err := h.validate.Struct(circuit); err != nil {
		return validationFailed(c, err)
	}

	if err := h.circuitService.CreateCircuit(&circuit); err != nil {
		return respondError(c, err, "Could not create circuit")
	}
	return c.Status(fiber.StatusCreated).JSON(circuit)
}

// UpdateCircuit changes the supplied fields of the named circuit.
func (h *CircuitHandler) UpdateCircuit(c *fiber.Ctx) error {
	var update models.CircuitUpdate
	if err := c.BodyParser(&update); err != nil {
		return invalidBody(c, err)
	}
	if err := h.validate.Struct(update); err != nil {
		return validationFailed(c, err)
	}

	circuit, err := h.circuitService.UpdateCircuit(c.Params("circuit"), update)
	if err != nil {
		return respondError(c, err, "Could not update circuit")
	}
	return c.JSON(circuit)
}

// DeleteCircuit removes the named circuit.
func (h *CircuitHandler) DeleteCircuit(c *fiber.Ctx) error {
	name := c.Params("race_name")
	if err := h.circuitService.DeleteCircuit(name); err != nil {
		return respondError(c, err, "Could not delete circuit")
	}
	return c.JSON(fiber.Map{"message": "Circuit '" + name + "' deleted successfully"})
}

// splitQueryList collects a query parameter given repeated and/or comma
// separated: ?d=VER,HAM&d=LEC yields [VER HAM LEC].
func splitQueryList(c *fiber.Ctx, key string) []string {
	var out []string
	for _, raw := range c.Context().QueryArgs().PeekMulti(key) {
		for _, part := range strings.Split(string(raw), ",") {
			if part = strings.TrimSpace(part); part != "" {
				out = append(out, part)
			}
		}
	}
	return out
}
