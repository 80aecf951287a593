package repositories

import (
	"context"

	"hackco-expensehub/internal/adapters/persistence/models"

	"gorm.io/gorm"
)

// approvalTaskRepository implements ApprovalTaskRepository interface
type approvalTaskRepository struct {
	db *gorm.DB
}

// NewApprovalTaskRepository creates a new approval task repository
func NewApprovalTaskRepository(db *gorm.DB) ApprovalTaskRepository {
	return &approvalTaskRepository{db: db}
}

// Create creates a new approval task
func (r *approvalTaskRepository) Create(ctx context.Context, task *models.ApprovalTask) error {
	return r.db.WithContext(ctx).Create(task).Error
}

// List lists all open tasks in creation order
func (r *approvalTaskRepository) List(ctx context.Context) ([]*models.ApprovalTask, error) {
	var tasks []*models.ApprovalTask
	err := r.db.WithContext(ctx).Order("public_id ASC").Find(&tasks).Error
	return tasks, err
}

