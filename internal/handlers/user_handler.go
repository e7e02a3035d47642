package handlers

import (
	"pitwall/internal/middleware"
	"pitwall/internal/models"
	"pitwall/internal/services"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
)

// UserHandler handles HTTP requests for user accounts.
type UserHandler struct {
	userService *services.UserService
	authService *services.AuthService
	validate    *validator.Validate
}

// NewUserHandler creates a new UserHandler.
func NewUserHandler(userService *services.UserService, authService *services.AuthService) *UserHandler {
	return &UserHandler{
		userService: userService,
		authService: authService,
		validate:    validator.New(),
	}
}

// RegisterRoutes registers the user routes. Every route needs a bearer token.
func (h *UserHandler) RegisterRoutes(router fiber.Router) {
	users := router.Group("/users", middleware.AuthRequired(h.authService))
	users.Get("/me", h.GetMe)
	users.Get("/supabase", middleware.AdminRequired(), h.ListUsers)
	// Registered before /:nick so the literal segment wins.
	users.Put("/change-password", h.ChangePassword)
	users.Put("/:nick", h.UpdateUser)
	users.Delete("/:nick", h.DeleteUser)
}

// GetMe returns the account of the token bearer.
func (h *UserHandler) GetMe(c *fiber.Ctx) error {
	claims, _ := middleware.Claims(c)
	user, err := h.userService.GetCurrentUser(claims.Email)
	if err != nil {
		return respondError(c, err, "Could not load current user")
	}
	return c.JSON(user)
}

// ListUsers returns every account.
func (h *UserHandler) ListUsers(c *fiber.Ctx) error {
	users, err := h.userService.GetAllUsers()
	if err != nil {
		return respondError(c, err, "Could not retrieve users")
	}
	return c.JSON(users)
}

// UpdateUser changes the supplied profile fields of the named account.
func (h *UserHandler) UpdateUser(c *fiber.Ctx) error {
	var update models.UserUpdate
	if err := c.BodyParser(&update); err != nil {
		return invalidBody(c, err)
	}
	if err := h.validate.Struct(update); err != nil {
		return validationFailed(c, err)
	}

	claims, _ := middleware.Claims(c)
	user, err := h.userService.UpdateUser(*claims, c.Params("nick"), update)
	if err != nil {
		return respondError(c, err, "Could not update user")
	}
	return c.JSON(fiber.Map{
		"message": "User updated successfully",
		"user":    user,
	})
}

// ChangePassword replaces the bearer's password.
func (h *UserHandler) ChangePassword(c *fiber.Ctx) error {
	var req models.PasswordChange
	if err := c.BodyParser(&req); err != nil {
		return invalidBody(c, err)
	}
	if err := h.validate.Struct(req); err != nil {
		return validationFailed(c, err)
	}

	claims, _ := middleware.Claims(c)
	if err := h.authService.ChangePassword(claims.Email, req.CurrentPassword, req.NewPassword); err != nil {
		return respondError(c, err, "Could not change password")
	}
	return c.JSON(fiber.Map{"message": "Password updated successfully"})
}

// DeleteUser removes the named account.
func (h *UserHandler) DeleteUser(c *fiber.Ctx) error {
	claims, _ := middleware.Claims(c)
	nick := c.Params("nick")
	if err := h.userService.DeleteUser(*claims, nick); err != nil {
		return respondError(c, err, "Could not delete user")
	}
	return c.JSON(fiber.Map{"message": "User '" + nick + "' deleted successfully"})
}
