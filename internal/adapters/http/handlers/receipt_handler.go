package handlers

import (
	"strings"

	"hackco-expensehub/internal/core/services"
	"hackco-expensehub/internal/pkg/response"

	"github.com/gofiber/fiber/v2"
)

// ReceiptHandler handles the receipt text parsing endpoint
type ReceiptHandler struct {
	receiptService *services.ReceiptService
}

// NewReceiptHandler creates a new receipt handler
func NewReceiptHandler(receiptService *services.ReceiptService) *ReceiptHandler {
	return &ReceiptHandler{receiptService: receiptService}
}

// ParseRequest represents receipt parse request body
type ParseRequest struct {
	Text string `json:"text"`
}

// Parse extracts expense fields from receipt text
// @Summary Parse receipt text
// @Description Best-effort extraction of amount, currency, date and description from OCR text
// @Tags Receipts
// @Accept json
// @Produce json
// @Param body body ParseRequest true "Extracted receipt text"
// @Success 200 {object} response.Response
// @Failure 400 {object} response.Response
// @Security BearerAuth
// @Router /ocr [post]
func (h *ReceiptHandler) Parse(c *fiber.Ctx) error {
	var req ParseRequest
	if err := c.BodyParser(&req); err != nil {
		return response.BadRequest(c, "Invalid request body")
	}

	if strings.TrimSpace(req.Text) == "" {
		return response.BadRequest(c, "Receipt text is required")
	}

	parsed := h.receiptService.Parse(req.Text)

	return response.Success(c, "Receipt parsed successfully", parsed)
}
