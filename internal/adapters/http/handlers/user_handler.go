package handlers

import (
	"errors"

	"hackco-expensehub/internal/core/domain"
	"hackco-expensehub/internal/core/services"
	"hackco-expensehub/internal/pkg/response"

	"github.com/gofiber/fiber/v2"
)

// UserHandler handles user management endpoints
type UserHandler struct {
	userService *services.UserService
}

// NewUserHandler creates a new user handler
func NewUserHandler(userService *services.UserService) *UserHandler {
	return &UserHandler{userService: userService}
}

// List returns all users
// @Summary List users
// @Description List all users in the organization
// @Tags Users
// @Produce json
// @Success 200 {object} response.Response
// @Security BearerAuth
// @Router /users [get]
func (h *UserHandler) List(c *fiber.Ctx) error {
	users, err := h.userService.List(c.Context())
	if err != nil {
		return response.InternalServerError(c, "Failed to list users")
	}

	return response.Success(c, "Users retrieved successfully", users)
}

// InviteRequest represents user invite request body
type InviteRequest struct {
	Name      string `json:"name"`
	Email     string `json:"email"`
	Role      string `json:"role"`
	ManagerID *uint  `json:"manager_id"`
}

// Invite creates a user with a mailed temporary password
// @Summary Invite user
// @Description Create an employee or manager account and mail a temporary password
// @Tags Users
// @Accept json
// @Produce json
// @Param body body InviteRequest true "Invite data"
// @Success 201 {object} response.Response
// @Failure 400 {object} response.Response
// @Failure 409 {object} response.Response
// @Security BearerAuth
// @Router /users [post]
func (h *UserHandler) Invite(c *fiber.Ctx) error {
	var req InviteRequest
	if err := c.BodyParser(&req); err != nil {
		return response.BadRequest(c, "Invalid request body")
	}

	if req.Name == "" {
		return response.BadRequest(c, "Name is required")
	}
	if req.Email == "" {
		return response.BadRequest(c, "Email is required")
	}
	if req.Role == "" {
		return response.BadRequest(c, "Role is required")
	}

	result, err := h.userService.Invite(c.Context(), services.InviteInput{
		Name:      req.Name,
		Email:     req.Email,
		Role:      req.Role,
		ManagerID: req.ManagerID,
	})
	if err != nil {
		switch {
		case errors.Is(err, domain.ErrEmailAlreadyExists):
			return response.Conflict(c, "Email already registered")
		case errors.Is(err, domain.ErrUserNotFound):
			return response.BadRequest(c, "Manager does not exist")
		case errors.Is(err, domain.ErrInvalidInput):
			return response.BadRequest(c, "Invalid invite data")
		default:
			return response.InternalServerError(c, "Failed to invite user")
		}
	}

	message := "User invited successfully"
	if !result.EmailSent {
		message = "User invited, but the invite email could not be sent"
	}

	return response.Created(c, message, result)
}

// SetRoleRequest represents role change request body
type SetRoleRequest struct {
	Role string `json:"role"`
}

// SetRole changes a user's role
// @Summary Change user role
// @Tags Users
// @Accept json
// @Produce json
// @Param id path int true "User ID"
// @Param body body SetRoleRequest true "New role"
// @Success 200 {object} response.Response
// @Failure 400 {object} response.Response
// @Failure 404 {object} response.Response
// @Security BearerAuth
// @Router /users/{id}/role [patch]
func (h *UserHandler) SetRole(c *fiber.Ctx) error {
	id, err := c.ParamsInt("id")
	if err != nil || id < 1 {
		return response.BadRequest(c, "Invalid user ID")
	}

	var req SetRoleRequest
	if err := c.BodyParser(&req); err != nil {
		return response.BadRequest(c, "Invalid request body")
	}

	user, err := h.userService.SetRole(c.Context(), uint(id), req.Role)
	if err != nil {
		switch {
		case errors.Is(err, domain.ErrUserNotFound):
			return response.NotFound(c, "User not found")
		case errors.Is(err, domain.ErrInvalidInput):
			return response.BadRequest(c, "Invalid role")
		default:
			return response.InternalServerError(c, "Failed to change role")
		}
	}

	return response.Success(c, "Role updated successfully", user)
}

// SetManagerRequest represents manager assignment request body
type SetManagerRequest struct {
	ManagerID *uint `json:"manager_id"`
}

// SetManager assigns or clears a user's manager
// @Summary Assign manager
// @Tags Users
// @Accept json
// @Produce json
// @Param id path int true "User ID"
// @Param body body SetManagerRequest true "Manager assignment (null clears)"
// @Success 200 {object} response.Response
// @Failure 400 {object} response.Response
// @Failure 404 {object} response.Response
// @Security BearerAuth
// @Router /users/{id}/manager [patch]
func (h *UserHandler) SetManager(c *fiber.Ctx) error {
	id, err := c.ParamsInt("id")
	if err != nil || id < 1 {
		return response.BadRequest(c, "Invalid user ID")
	}

	var req SetManagerRequest
	if err := c.BodyParser(&req); err != nil {
		return response.BadRequest(c, "Invalid request body")
	}

	user, err := h.userService.SetManager(c.Context(), uint(id), req.ManagerID)
	if err != nil {
		switch {
		case errors.Is(err, domain.ErrUserNotFound):
			return response.NotFound(c, "User or manager not found")
		case errors.Is(err, domain.ErrInvalidInput):
			return response.BadRequest(c, "A user cannot be their own manager")
		default:
			return response.InternalServerError(c, "Failed to assign manager")
		}
	}

	return response.Success(c, "Manager updated successfully", user)
}

// ResendInvite regenerates and re-mails a temporary password
// @Summary Resend invite
// @Description Regenerate the temporary password and mail it again
// @Tags Users
// @Produce json
// @Param id path int true "User ID"
// @Success 200 {object} response.Response
// @Failure 404 {object} response.Response
// @Security BearerAuth
// @Router /users/{id}/resend-invite [post]
func (h *UserHandler) ResendInvite(c *fiber.Ctx) error {
	id, err := c.ParamsInt("id")
	if err != nil || id < 1 {
		return response.BadRequest(c, "Invalid user ID")
	}

	result, err := h.userService.ResendInvite(c.Context(), uint(id))
	if err != nil {
		switch {
		case errors.Is(err, domain.ErrUserNotFound):
			return response.NotFound(c, "User not found")
		default:
			return response.InternalServerError(c, "Failed to resend invite")
		}
	}

	message := "Invite resent successfully"
	if !result.EmailSent {
		message = "Password regenerated, but the invite email could not be sent"
	}

	return response.Success(c, message, result)
}
