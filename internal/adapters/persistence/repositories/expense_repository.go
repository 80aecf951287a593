package repositories

import (
	"context"

	"hackco-expensehub/internal/adapters/persistence/models"

	"gorm.io/gorm"
)

// expenseRepository implements ExpenseRepository interface
type expenseRepository struct {
	db *gorm.DB
}

// NewExpenseRepository creates a new expense repository
func NewExpenseRepository(db *gorm.DB) ExpenseRepository {
	return &expenseRepository{db: db}
}

// Create creates a new expense with its timeline events
func (r *expenseRepository) Create(ctx context.Context, expense *models.Expense) error {
	return r.db.WithContext(ctx).Create(expense).Error
}

// GetByPublicID gets an expense by its public numeric id, timeline included
func (r *expenseRepository) GetByPublicID(ctx context.Context, id uint) (*models.Expense, error) {
	var expense models.Expense
	err := r.db.WithContext(ctx).
		Preload("Timeline", func(db *gorm.DB) *gorm.DB {
			return db.Order("timeline_events.id ASC")
		}).
		Where("public_id = ?", id).
		First(&expense).Error
	if err != nil {
		return nil, err
	}
	return &expense, nil
}

// ListAll lists all expenses ordered by spend date descending
func (r *expenseRepository) ListAll(ctx context.Context, offset, limit int) ([]*models.Expense, int64, error) {
	var expenses []*models.Expense
	var total int64

	if err := r.db.WithContext(ctx).Model(&models.Expense{}).Count(&total).Error; err != nil {
		return nil, 0, err
	}

	err := r.db.WithContext(ctx).
		Order("spend_date DESC").
		Offset(offset).
		Limit(limit).
		Find(&expenses).Error

	return expenses, total, err
}

// ListByEmployee lists one employee's expenses ordered by spend date descending
func (r *expenseRepository) ListByEmployee(ctx context.Context, employeeID uint, offset, limit int) ([]*models.Expense, int64, error) {
	var expenses []*models.Expense
	var total int64

	if err := r.db.WithContext(ctx).Model(&models.Expense{}).
		Where("employee_id = ?", employeeID).
		Count(&total).Error; err != nil {
		return nil, 0, err
	}

	err := r.db.WithContext(ctx).
		Where("employee_id = ?", employeeID).
		Order("spend_date DESC").
		Offset(offset).
		Limit(limit).
		Find(&expenses).Error

	return expenses, total, err
}
