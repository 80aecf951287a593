package services

import (
	"context"
	"errors"
	"log"
	"time"

	"gorm.io/gorm"

	"hackco-expensehub/internal/adapters/persistence/models"
	"hackco-expensehub/internal/adapters/persistence/repositories"
	"hackco-expensehub/internal/core/domain"
)

// ApprovalService routes submitted expenses into the approval queue and
// applies approver decisions.
type ApprovalService struct {
	db          *gorm.DB
	taskRepo    repositories.ApprovalTaskRepository
	userRepo    repositories.UserRepository
	counterRepo repositories.CounterRepository
	flowService *FlowService
}

// NewApprovalService creates a new approval service
func NewApprovalService(
	db *gorm.DB,
	taskRepo repositories.ApprovalTaskRepository,
	userRepo repositories.UserRepository,
	counterRepo repositories.CounterRepository,
	flowService *FlowService,
) *ApprovalService {
	return &ApprovalService{
		db:          db,
		taskRepo:    taskRepo,
		userRepo:    userRepo,
		counterRepo: counterRepo,
		flowService: flowService,
	}
}

// Route inspects the flow policy and creates at most one approval task for
// a freshly submitted expense. An unroutable expense (no manager configured,
// approver id pointing nowhere) is a logged no-op; store failures propagate
// and fail the submission.
func (s *ApprovalService) Route(ctx context.Context, expense *models.Expense, employee *models.User) error {
	flow, err := s.flowService.GetOrCreateDefault(ctx)
	if err != nil {
		return err
	}

	if flow.IsManagerFirst {
		if employee.ManagerID == nil {
			log.Printf("⚠️ Expense #%d not routed: %s has no manager assigned", expense.PublicID, employee.Email)
			return nil
		}
		manager, err := s.userRepo.GetByPublicID(ctx, *employee.ManagerID)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				log.Printf("⚠️ Expense #%d not routed: manager %d of %s does not exist", expense.PublicID, *employee.ManagerID, employee.Email)
				return nil
			}
			return err
		}
		return s.createTask(ctx, expense, employee, manager.PublicID)
	}

	// The designated approver always reviews when the percent rule is
	// configured; the threshold itself only matters to percent voting.
	if flow.PercentThreshold != nil && flow.SpecificApproverID != nil {
		approver, err := s.userRepo.GetByPublicID(ctx, *flow.SpecificApproverID)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				log.Printf("⚠️ Expense #%d not routed: configured approver %d does not exist", expense.PublicID, *flow.SpecificApproverID)
				return nil
			}
			return err
		}
		return s.createTask(ctx, expense, employee, approver.PublicID)
	}

	log.Printf("⚠️ Expense #%d not routed: no applicable flow branch", expense.PublicID)
	return nil
}

func (s *ApprovalService) createTask(ctx context.Context, expense *models.Expense, employee *models.User, approverID uint) error {
	id, err := s.counterRepo.Next(ctx, domain.SeqApprovalTasks)
	if err != nil {
		return err
	}

	ownerName := employee.Name
	if ownerName == "" {
		ownerName = employee.Email
	}

	task := &models.ApprovalTask{
		PublicID:          id,
		ExpenseID:         expense.PublicID,
		OwnerName:         ownerName,
		Category:          expense.Category,
		AmountCompanyCcy:  expense.AmountCompanyCcy,
		CompanyCurrency:   expense.CompanyCurrency,
		SubmittedCurrency: expense.Currency,
	}
	if err := s.taskRepo.Create(ctx, task); err != nil {
		return err
	}

	log.Printf("✅ Expense #%d routed to approver %d (task #%d)", expense.PublicID, approverID, task.PublicID)
	return nil
}

// Queue returns all open approval tasks for managers and admins, ordered by
// id ascending. Every other role gets an empty list, never an error.
func (s *ApprovalService) Queue(ctx context.Context, actor *domain.Actor) ([]*models.ApprovalTaskResponse, error) {
	if !actor.Role.CanApprove() {
		return []*models.ApprovalTaskResponse{}, nil
	}

	tasks, err := s.taskRepo.List(ctx)
	if err != nil {
		return nil, err
	}

	out := make([]*models.ApprovalTaskResponse, 0, len(tasks))
	for _, t := range tasks {
		out = append(out, t.ToResponse())
	}
	return out, nil
}

// Decide applies an approver's decision to a task. The task delete, the
// expense status change and the timeline append happen in one transaction;
// the delete is id-guarded so concurrent decisions on the same task resolve
// to exactly one winner and the losers see not-found with nothing mutated.
func (s *ApprovalService) Decide(ctx context.Context, actor *domain.Actor, taskID uint, decision domain.Decision, comment string) (*models.ExpenseResponse, error) {
	if !actor.Role.CanApprove() {
		return nil, domain.ErrForbidden
	}
	if !decision.IsValid() {
		return nil, domain.ErrInvalidDecision
	}

	var expense models.Expense

	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var task models.ApprovalTask
		if err := tx.Where("public_id = ?", taskID).First(&task).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return domain.ErrTaskNotFound
			}
			return err
		}

		res := tx.Where("id = ?", task.ID).Delete(&models.ApprovalTask{})
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return domain.ErrTaskNotFound
		}

		if err := tx.Preload("Timeline", func(db *gorm.DB) *gorm.DB {
			return db.Order("timeline_events.id ASC")
		}).Where("public_id = ?", task.ExpenseID).First(&expense).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				// Orphaned task: the expense it pointed at is gone.
				return domain.ErrExpenseNotFound
			}
			return err
		}

		expense.Status = string(domain.StatusApproved)
		if decision == domain.DecisionRejected {
			expense.Status = string(domain.StatusRejected)
		}
		if err := tx.Model(&models.Expense{}).Where("id = ?", expense.ID).Update("status", expense.Status).Error; err != nil {
			return err
		}

		event := models.TimelineEvent{
			ExpenseID: expense.ID,
			At:        time.Now().UTC(),
			ByUserID:  &actor.ID,
			Decision:  string(decision),
			Comment:   comment,
		}
		if err := tx.Create(&event).Error; err != nil {
			return err
		}

		expense.Timeline = append(expense.Timeline, event)
		return nil
	})
	if err != nil {
		return nil, err
	}

	log.Printf("✅ Task #%d resolved as %s by user %d (expense #%d)", taskID, decision, actor.ID, expense.PublicID)
	return expense.ToResponse(), nil
}
