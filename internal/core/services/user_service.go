package services

import (
	"context"
	"errors"
	"log"
	"strings"

	"gorm.io/gorm"

	"hackco-expensehub/internal/adapters/persistence/models"
	"hackco-expensehub/internal/adapters/persistence/repositories"
	"hackco-expensehub/internal/core/domain"
	"hackco-expensehub/internal/pkg/password"
)

// TempPasswordLength is the length of generated invite passwords
const TempPasswordLength = 12

// UserService handles user management business logic
type UserService struct {
	userRepo     repositories.UserRepository
	counterRepo  repositories.CounterRepository
	notification *NotificationService
}

// NewUserService creates a new user service
func NewUserService(userRepo repositories.UserRepository, counterRepo repositories.CounterRepository, notification *NotificationService) *UserService {
	return &UserService{
		userRepo:     userRepo,
		counterRepo:  counterRepo,
		notification: notification,
	}
}

// List returns all users ordered by id
func (s *UserService) List(ctx context.Context) ([]*models.UserResponse, error) {
	users, err := s.userRepo.List(ctx)
	if err != nil {
		return nil, err
	}

	out := make([]*models.UserResponse, 0, len(users))
	for _, u := range users {
		out = append(out, u.ToResponse())
	}
	return out, nil
}

// InviteInput represents user invite input
type InviteInput struct {
	Name      string `json:"name" validate:"required"`
	Email     string `json:"email" validate:"required,email"`
	Role      string `json:"role" validate:"required"`
	ManagerID *uint  `json:"manager_id"`
}

// InviteResult carries the created user and whether the invite mail went out
type InviteResult struct {
	User      *models.UserResponse `json:"user"`
	EmailSent bool                 `json:"email_sent"`
}

// Invite creates a user with a generated temporary password and mails it.
// Mail delivery is best-effort: a send failure still creates the account and
// is reported through EmailSent so the admin can hand over the password
// another way (or resend).
func (s *UserService) Invite(ctx context.Context, input InviteInput) (*InviteResult, error) {
	input.Name = strings.TrimSpace(input.Name)
	input.Email = strings.ToLower(strings.TrimSpace(input.Email))
	role := domain.Role(strings.TrimSpace(input.Role))

	if input.Name == "" || input.Email == "" {
		return nil, domain.ErrInvalidInput
	}
	if role != domain.RoleEmployee && role != domain.RoleManager {
		return nil, domain.ErrInvalidInput
	}

	exists, err := s.userRepo.ExistsByEmail(ctx, input.Email)
	if err != nil {
		return nil, err
	}
	if exists {
		return nil, domain.ErrEmailAlreadyExists
	}

	if input.ManagerID != nil {
		if _, err := s.userRepo.GetByPublicID(ctx, *input.ManagerID); err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return nil, domain.ErrUserNotFound
			}
			return nil, err
		}
	}

	tempPassword, err := password.GenerateTemp(TempPasswordLength)
	if err != nil {
		return nil, err
	}
	hash, err := password.Hash(tempPassword)
	if err != nil {
		return nil, err
	}

	id, err := s.counterRepo.Next(ctx, domain.SeqUsers)
	if err != nil {
		return nil, err
	}

	user := &models.User{
		PublicID:      id,
		Name:          input.Name,
		Email:         input.Email,
		Role:          string(role),
		ManagerID:     input.ManagerID,
		PasswordHash:  hash,
		ResetRequired: true,
	}
	if err := s.userRepo.Create(ctx, user); err != nil {
		return nil, err
	}

	sent := true
	if err := s.notification.SendInvite(user.Name, user.Email, tempPassword); err != nil {
		sent = false
		log.Printf("⚠️ Invite mail to %s failed: %v", user.Email, err)
	}

	log.Printf("✅ User invited: %s (%s)", user.Email, user.Role)
	return &InviteResult{User: user.ToResponse(), EmailSent: sent}, nil
}

// SetRole changes a user's role
func (s *UserService) SetRole(ctx context.Context, userID uint, role string) (*models.UserResponse, error) {
	r := domain.Role(strings.TrimSpace(role))
	if !r.IsValid() {
		return nil, domain.ErrInvalidInput
	}

	user, err := s.userRepo.GetByPublicID(ctx, userID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, domain.ErrUserNotFound
		}
		return nil, err
	}

	user.Role = string(r)
	if err := s.userRepo.Update(ctx, user); err != nil {
		return nil, err
	}
	return user.ToResponse(), nil
}

// SetManager assigns or clears a user's manager
func (s *UserService) SetManager(ctx context.Context, userID uint, managerID *uint) (*models.UserResponse, error) {
	user, err := s.userRepo.GetByPublicID(ctx, userID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, domain.ErrUserNotFound
		}
		return nil, err
	}

	if managerID != nil {
		if *managerID == user.PublicID {
			return nil, domain.ErrInvalidInput
		}
		if _, err := s.userRepo.GetByPublicID(ctx, *managerID); err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return nil, domain.ErrUserNotFound
			}
			return nil, err
		}
	}

	user.ManagerID = managerID
	if err := s.userRepo.Update(ctx, user); err != nil {
		return nil, err
	}
	return user.ToResponse(), nil
}

// ResendInvite regenerates the temporary password for an invited user and
// re-sends the invite mail. The reset-required flag goes back up.
func (s *UserService) ResendInvite(ctx context.Context, userID uint) (*InviteResult, error) {
	user, err := s.userRepo.GetByPublicID(ctx, userID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, domain.ErrUserNotFound
		}
		return nil, err
	}

	tempPassword, err := password.GenerateTemp(TempPasswordLength)
	if err != nil {
		return nil, err
	}
	hash, err := password.Hash(tempPassword)
	if err != nil {
		return nil, err
	}

	user.PasswordHash = hash
	user.ResetRequired = true
	if err := s.userRepo.Update(ctx, user); err != nil {
		return nil, err
	}

	sent := true
	if err := s.notification.SendInvite(user.Name, user.Email, tempPassword); err != nil {
		sent = false
		log.Printf("⚠️ Invite mail to %s failed: %v", user.Email, err)
	}

	return &InviteResult{User: user.ToResponse(), EmailSent: sent}, nil
}
