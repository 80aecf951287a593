package services

import (
	"context"
	"errors"
	"strings"
	"time"

	"gorm.io/gorm"

	"hackco-expensehub/internal/adapters/persistence/models"
	"hackco-expensehub/internal/adapters/persistence/repositories"
	"hackco-expensehub/internal/core/domain"
	"hackco-expensehub/internal/pkg/currency"
	"hackco-expensehub/internal/pkg/pagination"
)

// ExpenseService handles the expense claim lifecycle
type ExpenseService struct {
	expenseRepo     repositories.ExpenseRepository
	userRepo        repositories.UserRepository
	counterRepo     repositories.CounterRepository
	approvalService *ApprovalService
	converter       *currency.Converter
}

// NewExpenseService creates a new expense service
func NewExpenseService(
	expenseRepo repositories.ExpenseRepository,
	userRepo repositories.UserRepository,
	counterRepo repositories.CounterRepository,
	approvalService *ApprovalService,
	converter *currency.Converter,
) *ExpenseService {
	return &ExpenseService{
		expenseRepo:     expenseRepo,
		userRepo:        userRepo,
		counterRepo:     counterRepo,
		approvalService: approvalService,
		converter:       converter,
	}
}

// SubmitExpenseInput represents expense submission input
type SubmitExpenseInput struct {
	SpendDate   string  `json:"spend_date" validate:"required"`
	Category    string  `json:"category" validate:"required"`
	Amount      float64 `json:"amount" validate:"required,gt=0"`
	Currency    string  `json:"currency" validate:"required"`
	Description string  `json:"description" validate:"required"`
	Remarks     string  `json:"remarks"`
}

// Submit files a new expense claim for the acting employee. The claim is
// persisted in waiting state with its first timeline event, then routed to
// the approval queue; a routing failure fails the whole submission.
func (s *ExpenseService) Submit(ctx context.Context, actor *domain.Actor, input SubmitExpenseInput) (*models.ExpenseResponse, error) {
	if input.Amount <= 0 {
		return nil, domain.ErrInvalidAmount
	}

	input.SpendDate = strings.TrimSpace(input.SpendDate)
	input.Category = strings.TrimSpace(input.Category)
	input.Description = strings.TrimSpace(input.Description)
	input.Currency = strings.ToUpper(strings.TrimSpace(input.Currency))
	if input.SpendDate == "" || input.Category == "" || input.Description == "" || input.Currency == "" {
		return nil, domain.ErrInvalidInput
	}

	employee, err := s.userRepo.GetByPublicID(ctx, actor.ID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, domain.ErrUserNotFound
		}
		return nil, err
	}

	id, err := s.counterRepo.Next(ctx, domain.SeqExpenses)
	if err != nil {
		return nil, err
	}

	companyCcy := s.converter.Reference()
	converted := s.converter.Convert(input.Amount, input.Currency, companyCcy)

	expense := &models.Expense{
		PublicID:         id,
		EmployeeID:       employee.PublicID,
		EmployeeName:     employee.Name,
		SpendDate:        input.SpendDate,
		Category:         input.Category,
		Amount:           input.Amount,
		Currency:         input.Currency,
		AmountCompanyCcy: converted,
		CompanyCurrency:  companyCcy,
		Status:           string(domain.StatusWaiting),
		Description:      input.Description,
		Remarks:          input.Remarks,
		Timeline: []models.TimelineEvent{
			{
				At:       time.Now().UTC(),
				ByUserID: &employee.PublicID,
				Decision: domain.TimelineSubmitted,
				Comment:  input.Remarks,
			},
		},
	}

	if err := s.expenseRepo.Create(ctx, expense); err != nil {
		return nil, err
	}

	if err := s.approvalService.Route(ctx, expense, employee); err != nil {
		return nil, err
	}

	return expense.ToResponse(), nil
}

// List returns expenses visible to the actor: employees see their own,
// managers and admins see everything. Ordered by spend date descending.
func (s *ExpenseService) List(ctx context.Context, actor *domain.Actor, params *pagination.Params) ([]*models.ExpenseRow, int64, error) {
	var (
		expenses []*models.Expense
		total    int64
		err      error
	)

	if actor.Role.CanApprove() {
		expenses, total, err = s.expenseRepo.ListAll(ctx, params.Offset, params.Limit)
	} else {
		expenses, total, err = s.expenseRepo.ListByEmployee(ctx, actor.ID, params.Offset, params.Limit)
	}
	if err != nil {
		return nil, 0, err
	}

	rows := make([]*models.ExpenseRow, 0, len(expenses))
	for _, e := range expenses {
		rows = append(rows, e.ToRow())
	}
	return rows, total, nil
}

// GetByID returns one expense with its full timeline. Employees may only
// read their own claims.
func (s *ExpenseService) GetByID(ctx context.Context, actor *domain.Actor, id uint) (*models.ExpenseResponse, error) {
	expense, err := s.expenseRepo.GetByPublicID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, domain.ErrExpenseNotFound
		}
		return nil, err
	}

	if !actor.Role.CanApprove() && expense.EmployeeID != actor.ID {
		return nil, domain.ErrForbidden
	}

	return expense.ToResponse(), nil
}
