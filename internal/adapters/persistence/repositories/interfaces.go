package repositories

import (
	"context"

	"hackco-expensehub/internal/adapters/persistence/models"
)

// UserRepository defines user repository interface
type UserRepository interface {
	Create(ctx context.Context, user *models.User) error
	GetByPublicID(ctx context.Context, id uint) (*models.User, error)
	GetByEmail(ctx context.Context, email string) (*models.User, error)
	Update(ctx context.Context, user *models.User) error
	List(ctx context.Context) ([]*models.User, error)
	ListByRoles(ctx context.Context, roles ...string) ([]*models.User, error)
	Count(ctx context.Context) (int64, error)
	ExistsByEmail(ctx context.Context, email string) (bool, error)
}

// ExpenseRepository defines expense repository interface
type ExpenseRepository interface {
	Create(ctx context.Context, expense *models.Expense) error
	GetByPublicID(ctx context.Context, id uint) (*models.Expense, error)
	ListAll(ctx context.Context, offset, limit int) ([]*models.Expense, int64, error)
	ListByEmployee(ctx context.Context, employeeID uint, offset, limit int) ([]*models.Expense, int64, error)
}

// ApprovalTaskRepository defines approval task repository interface
type ApprovalTaskRepository interface {
	Create(ctx context.Context, task *models.ApprovalTask) error
	List(ctx context.Context) ([]*models.ApprovalTask, error)
}

// FlowConfigRepository defines flow config repository interface
type FlowConfigRepository interface {
	GetByKey(ctx context.Context, key string) (*models.FlowConfig, error)
	Create(ctx context.Context, cfg *models.FlowConfig) error
	Replace(ctx context.Context, cfg *models.FlowConfig) (*models.FlowConfig, error)
}

// CounterRepository allocates monotonically increasing public ids.
// Next is an atomic increment-and-read; ids are never reused, gaps from
// failed operations are acceptable.
type CounterRepository interface {
	Next(ctx context.Context, name string) (uint, error)
}
