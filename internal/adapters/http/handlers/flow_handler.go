package handlers

import (
	"errors"

	"hackco-expensehub/internal/core/domain"
	"hackco-expensehub/internal/core/services"
	"hackco-expensehub/internal/pkg/response"

	"github.com/gofiber/fiber/v2"
)

// FlowHandler handles approval flow policy endpoints
type FlowHandler struct {
	flowService *services.FlowService
}

// NewFlowHandler creates a new flow handler
func NewFlowHandler(flowService *services.FlowService) *FlowHandler {
	return &FlowHandler{flowService: flowService}
}

// Get returns the approval flow policy
// @Summary Get approval flow
// @Description Return the organization flow policy, creating defaults on first read
// @Tags Flows
// @Produce json
// @Success 200 {object} response.Response
// @Security BearerAuth
// @Router /flows [get]
func (h *FlowHandler) Get(c *fiber.Ctx) error {
	flow, err := h.flowService.GetOrCreateDefault(c.Context())
	if err != nil {
		return response.InternalServerError(c, "Failed to load approval flow")
	}

	return response.Success(c, "Approval flow retrieved successfully", flow)
}

// UpdateRequest represents flow update request body
type UpdateRequest struct {
	IsManagerFirst     bool                         `json:"is_manager_first"`
	SequenceEnabled    bool                         `json:"sequence_enabled"`
	PercentThreshold   *int                         `json:"percent_threshold"`
	SpecificApproverID *uint                        `json:"specific_approver_id"`
	Approvers          []services.FlowApproverInput `json:"approvers"`
}

// Update overwrites the approval flow policy
// @Summary Update approval flow
// @Description Replace the organization flow policy in full
// @Tags Flows
// @Accept json
// @Produce json
// @Param body body UpdateRequest true "Flow policy"
// @Success 200 {object} response.Response
// @Failure 400 {object} response.Response
// @Security BearerAuth
// @Router /flows [put]
func (h *FlowHandler) Update(c *fiber.Ctx) error {
	var req UpdateRequest
	if err := c.BodyParser(&req); err != nil {
		return response.BadRequest(c, "Invalid request body")
	}

	flow, err := h.flowService.Update(c.Context(), services.UpdateFlowInput{
		IsManagerFirst:     req.IsManagerFirst,
		SequenceEnabled:    req.SequenceEnabled,
		PercentThreshold:   req.PercentThreshold,
		SpecificApproverID: req.SpecificApproverID,
		Approvers:          req.Approvers,
	})
	if err != nil {
		switch {
		case errors.Is(err, domain.ErrInvalidThreshold):
			return response.BadRequest(c, "Percent threshold must be between 1 and 100")
		case errors.Is(err, domain.ErrUserNotFound):
			return response.BadRequest(c, "One of the configured approvers does not exist")
		default:
			return response.InternalServerError(c, "Failed to update approval flow")
		}
	}

	return response.Success(c, "Approval flow updated successfully", flow)
}
