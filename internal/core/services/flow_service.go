package services

import (
	"context"
	"errors"
	"log"

	"gorm.io/gorm"

	"hackco-expensehub/internal/adapters/persistence/models"
	"hackco-expensehub/internal/adapters/persistence/repositories"
	"hackco-expensehub/internal/core/domain"
)

// FlowService manages the single organization-wide approval flow policy
type FlowService struct {
	flowRepo repositories.FlowConfigRepository
	userRepo repositories.UserRepository
}

// NewFlowService creates a new flow service
func NewFlowService(flowRepo repositories.FlowConfigRepository, userRepo repositories.UserRepository) *FlowService {
	return &FlowService{
		flowRepo: flowRepo,
		userRepo: userRepo,
	}
}

// GetOrCreateDefault returns the singleton flow config, creating it with
// manager-first defaults on first access.
func (s *FlowService) GetOrCreateDefault(ctx context.Context) (*models.FlowConfig, error) {
	flow, err := s.flowRepo.GetByKey(ctx, models.DefaultFlowKey)
	if err == nil {
		return flow, nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, err
	}

	flow = &models.FlowConfig{
		Key:             models.DefaultFlowKey,
		IsManagerFirst:  true,
		SequenceEnabled: false,
		Approvers:       []models.FlowApprover{},
	}
	if err := s.flowRepo.Create(ctx, flow); err != nil {
		return nil, err
	}

	log.Println("✅ Default approval flow created")
	return flow, nil
}

// FlowApproverInput is one configured approver, in evaluation order
type FlowApproverInput struct {
	UserID   uint `json:"user_id" validate:"required"`
	Required bool `json:"required"`
}

// UpdateFlowInput represents flow config update input
type UpdateFlowInput struct {
	IsManagerFirst     bool                `json:"is_manager_first"`
	SequenceEnabled    bool                `json:"sequence_enabled"`
	PercentThreshold   *int                `json:"percent_threshold"`
	SpecificApproverID *uint               `json:"specific_approver_id"`
	Approvers          []FlowApproverInput `json:"approvers"`
}

// Update overwrites the singleton policy in full. A percent threshold, when
// present, must lie in [1,100].
func (s *FlowService) Update(ctx context.Context, input UpdateFlowInput) (*models.FlowConfig, error) {
	if input.PercentThreshold != nil {
		if *input.PercentThreshold < 1 || *input.PercentThreshold > 100 {
			return nil, domain.ErrInvalidThreshold
		}
	}

	approvers := make([]models.FlowApprover, 0, len(input.Approvers))
	for i, a := range input.Approvers {
		if _, err := s.userRepo.GetByPublicID(ctx, a.UserID); err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return nil, domain.ErrUserNotFound
			}
			return nil, err
		}
		approvers = append(approvers, models.FlowApprover{
			UserID:   a.UserID,
			Required: a.Required,
			Position: i,
		})
	}

	cfg := &models.FlowConfig{
		Key:                models.DefaultFlowKey,
		IsManagerFirst:     input.IsManagerFirst,
		SequenceEnabled:    input.SequenceEnabled,
		PercentThreshold:   input.PercentThreshold,
		SpecificApproverID: input.SpecificApproverID,
		Approvers:          approvers,
	}

	updated, err := s.flowRepo.Replace(ctx, cfg)
	if err != nil {
		return nil, err
	}

	log.Println("✅ Approval flow updated")
	return updated, nil
}
