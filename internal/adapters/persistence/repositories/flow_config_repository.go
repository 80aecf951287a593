package repositories

import (
	"context"
	"errors"

	"hackco-expensehub/internal/adapters/persistence/models"

	"gorm.io/gorm"
)

// flowConfigRepository implements FlowConfigRepository interface
type flowConfigRepository struct {
	db *gorm.DB
}

// NewFlowConfigRepository creates a new flow config repository
func NewFlowConfigRepository(db *gorm.DB) FlowConfigRepository {
	return &flowConfigRepository{db: db}
}

// GetByKey gets a flow config by key, approver list included
func (r *flowConfigRepository) GetByKey(ctx context.Context, key string) (*models.FlowConfig, error) {
	var cfg models.FlowConfig
	err := r.db.WithContext(ctx).
		Preload("Approvers", func(db *gorm.DB) *gorm.DB {
			return db.Order("flow_approvers.position ASC")
		}).
		Where("`key` = ?", key).
		First(&cfg).Error
	if err != nil {
		return nil, err
	}
	return &cfg, nil
}

// Create creates a new flow config
func (r *flowConfigRepository) Create(ctx context.Context, cfg *models.FlowConfig) error {
	return r.db.WithContext(ctx).Create(cfg).Error
}

// Replace overwrites the config row for cfg.Key in place, replacing the
// approver list wholesale. Prior approval tasks are not affected.
func (r *flowConfigRepository) Replace(ctx context.Context, cfg *models.FlowConfig) (*models.FlowConfig, error) {
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var existing models.FlowConfig
		err := tx.Where("`key` = ?", cfg.Key).First(&existing).Error
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return tx.Create(cfg).Error
		}
		if err != nil {
			return err
		}

		if err := tx.Model(&models.FlowConfig{}).
			Where("id = ?", existing.ID).
			Updates(map[string]interface{}{
				"is_manager_first":     cfg.IsManagerFirst,
				"sequence_enabled":     cfg.SequenceEnabled,
				"percent_threshold":    cfg.PercentThreshold,
				"specific_approver_id": cfg.SpecificApproverID,
			}).Error; err != nil {
			return err
		}

		if err := tx.Where("flow_config_id = ?", existing.ID).
			Delete(&models.FlowApprover{}).Error; err != nil {
			return err
		}
		for i := range cfg.Approvers {
			cfg.Approvers[i].ID = 0
			cfg.Approvers[i].FlowConfigID = existing.ID
			cfg.Approvers[i].Position = i
		}
		if len(cfg.Approvers) > 0 {
			if err := tx.Create(&cfg.Approvers).Error; err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return r.GetByKey(ctx, cfg.Key)
}
