package handlers

import (
	"errors"

	"hackco-expensehub/internal/adapters/http/middleware"
	"hackco-expensehub/internal/core/domain"
	"hackco-expensehub/internal/core/services"
	"hackco-expensehub/internal/pkg/response"

	"github.com/gofiber/fiber/v2"
)

// ApprovalHandler handles the approval queue endpoints
type ApprovalHandler struct {
	approvalService *services.ApprovalService
}

// NewApprovalHandler creates a new approval handler
func NewApprovalHandler(approvalService *services.ApprovalService) *ApprovalHandler {
	return &ApprovalHandler{approvalService: approvalService}
}

// Queue returns the open approval tasks
// @Summary Approval queue
// @Description List open approval tasks; non-approvers always get an empty list
// @Tags Approvals
// @Produce json
// @Success 200 {object} response.Response
// @Security BearerAuth
// @Router /approvals/queue [get]
func (h *ApprovalHandler) Queue(c *fiber.Ctx) error {
	actor := middleware.GetActor(c)

	tasks, err := h.approvalService.Queue(c.Context(), actor)
	if err != nil {
		return response.InternalServerError(c, "Failed to load approval queue")
	}

	return response.Success(c, "Approval queue retrieved successfully", tasks)
}

// DecideRequest represents a decision request body
type DecideRequest struct {
	Decision string `json:"decision"`
	Comment  string `json:"comment"`
}

// Decide applies a decision to a task
// @Summary Decide approval task
// @Description Approve or reject a pending expense; the task is consumed atomically
// @Tags Approvals
// @Accept json
// @Produce json
// @Param id path int true "Task ID"
// @Param body body DecideRequest true "Decision"
// @Success 200 {object} response.Response
// @Failure 400 {object} response.Response
// @Failure 403 {object} response.Response
// @Failure 404 {object} response.Response
// @Security BearerAuth
// @Router /approvals/{id}/decide [post]
func (h *ApprovalHandler) Decide(c *fiber.Ctx) error {
	actor := middleware.GetActor(c)

	id, err := c.ParamsInt("id")
	if err != nil || id < 1 {
		return response.BadRequest(c, "Invalid task ID")
	}

	var req DecideRequest
	if err := c.BodyParser(&req); err != nil {
		return response.BadRequest(c, "Invalid request body")
	}

	expense, err := h.approvalService.Decide(c.Context(), actor, uint(id), domain.Decision(req.Decision), req.Comment)
	if err != nil {
		switch {
		case errors.Is(err, domain.ErrForbidden):
			return response.Forbidden(c, "Only managers and admins can decide")
		case errors.Is(err, domain.ErrInvalidDecision):
			return response.BadRequest(c, "Decision must be 'approved' or 'rejected'")
		case errors.Is(err, domain.ErrTaskNotFound):
			return response.NotFound(c, "Approval task not found or already decided")
		case errors.Is(err, domain.ErrExpenseNotFound):
			return response.NotFound(c, "Expense behind this task no longer exists")
		default:
			return response.InternalServerError(c, "Failed to apply decision")
		}
	}

	return response.Success(c, "Decision applied successfully", expense)
}
