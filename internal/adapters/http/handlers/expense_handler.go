package handlers

import (
	"errors"

	"hackco-expensehub/internal/adapters/http/middleware"
	"hackco-expensehub/internal/core/domain"
	"hackco-expensehub/internal/core/services"
	"hackco-expensehub/internal/pkg/pagination"
	"hackco-expensehub/internal/pkg/response"

	"github.com/gofiber/fiber/v2"
)

// ExpenseHandler handles expense endpoints
type ExpenseHandler struct {
	expenseService *services.ExpenseService
}

// NewExpenseHandler creates a new expense handler
func NewExpenseHandler(expenseService *services.ExpenseService) *ExpenseHandler {
	return &ExpenseHandler{expenseService: expenseService}
}

// SubmitRequest represents expense submission request body
type SubmitRequest struct {
	SpendDate   string  `json:"spend_date"`
	Category    string  `json:"category"`
	Amount      float64 `json:"amount"`
	Currency    string  `json:"currency"`
	Description string  `json:"description"`
	Remarks     string  `json:"remarks"`
}

// Submit files a new expense claim
// @Summary Submit expense
// @Description File an expense claim; it is converted to company currency and routed for approval
// @Tags Expenses
// @Accept json
// @Produce json
// @Param body body SubmitRequest true "Expense data"
// @Success 201 {object} response.Response
// @Failure 400 {object} response.Response
// @Security BearerAuth
// @Router /expenses [post]
func (h *ExpenseHandler) Submit(c *fiber.Ctx) error {
	actor := middleware.GetActor(c)

	var req SubmitRequest
	if err := c.BodyParser(&req); err != nil {
		return response.BadRequest(c, "Invalid request body")
	}

	expense, err := h.expenseService.Submit(c.Context(), actor, services.SubmitExpenseInput{
		SpendDate:   req.SpendDate,
		Category:    req.Category,
		Amount:      req.Amount,
		Currency:    req.Currency,
		Description: req.Description,
		Remarks:     req.Remarks,
	})
	if err != nil {
		switch {
		case errors.Is(err, domain.ErrInvalidAmount):
			return response.BadRequest(c, "Amount must be greater than zero")
		case errors.Is(err, domain.ErrInvalidInput):
			return response.BadRequest(c, "Spend date, category, currency and description are required")
		case errors.Is(err, domain.ErrUserNotFound):
			return response.NotFound(c, "Employee not found")
		default:
			return response.InternalServerError(c, "Failed to submit expense")
		}
	}

	return response.Created(c, "Expense submitted successfully", expense)
}

// List returns expenses visible to the caller
// @Summary List expenses
// @Description Employees see their own claims; managers and admins see all
// @Tags Expenses
// @Produce json
// @Param page query int false "Page number"
// @Param limit query int false "Items per page"
// @Success 200 {object} response.Response
// @Security BearerAuth
// @Router /expenses [get]
func (h *ExpenseHandler) List(c *fiber.Ctx) error {
	actor := middleware.GetActor(c)
	params := pagination.GetParams(c)

	rows, total, err := h.expenseService.List(c.Context(), actor, params)
	if err != nil {
		return response.InternalServerError(c, "Failed to list expenses")
	}

	return response.Paginated(c, "Expenses retrieved successfully", rows, params, total)
}

// GetByID returns one expense with its timeline
// @Summary Get expense
// @Description Return one expense with its full decision timeline
// @Tags Expenses
// @Produce json
// @Param id path int true "Expense ID"
// @Success 200 {object} response.Response
// @Failure 403 {object} response.Response
// @Failure 404 {object} response.Response
// @Security BearerAuth
// @Router /expenses/{id} [get]
func (h *ExpenseHandler) GetByID(c *fiber.Ctx) error {
	actor := middleware.GetActor(c)

	id, err := c.ParamsInt("id")
	if err != nil || id < 1 {
		return response.BadRequest(c, "Invalid expense ID")
	}

	expense, err := h.expenseService.GetByID(c.Context(), actor, uint(id))
	if err != nil {
		switch {
		case errors.Is(err, domain.ErrExpenseNotFound):
			return response.NotFound(c, "Expense not found")
		case errors.Is(err, domain.ErrForbidden):
			return response.Forbidden(c, "You can only view your own expenses")
		default:
			return response.InternalServerError(c, "Failed to load expense")
		}
	}

	return response.Success(c, "Expense retrieved successfully", expense)
}
