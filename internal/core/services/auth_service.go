package services

import (
	"context"
	"errors"
	"log"
	"strings"

	"gorm.io/gorm"

	"hackco-expensehub/internal/adapters/persistence/models"
	"hackco-expensehub/internal/adapters/persistence/repositories"
	"hackco-expensehub/internal/config"
	"hackco-expensehub/internal/core/domain"
	"hackco-expensehub/internal/pkg/jwt"
	"hackco-expensehub/internal/pkg/password"
)

// AuthService handles authentication business logic
type AuthService struct {
	userRepo    repositories.UserRepository
	counterRepo repositories.CounterRepository
	cfg         *config.Config
}

// NewAuthService creates a new auth service
func NewAuthService(userRepo repositories.UserRepository, counterRepo repositories.CounterRepository, cfg *config.Config) *AuthService {
	return &AuthService{
		userRepo:    userRepo,
		counterRepo: counterRepo,
		cfg:         cfg,
	}
}

// LoginInput represents login input
type LoginInput struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

// SignupInput represents bootstrap signup input
type SignupInput struct {
	Name     string `json:"name" validate:"required"`
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required,min=8"`
}

// AuthResponse represents authentication response
type AuthResponse struct {
	User  *models.UserResponse `json:"user"`
	Token string               `json:"token"`
}

// Login authenticates a user by email (case-insensitive) and password
func (s *AuthService) Login(ctx context.Context, input LoginInput) (*AuthResponse, error) {
	user, err := s.userRepo.GetByEmail(ctx, input.Email)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, domain.ErrInvalidCredentials
		}
		return nil, err
	}

	if !password.Verify(input.Password, user.PasswordHash) {
		return nil, domain.ErrInvalidCredentials
	}

	token, err := jwt.GenerateToken(user.PublicID, user.Email, user.Role, s.cfg.JWT.Secret, s.cfg.JWT.TokenHours)
	if err != nil {
		return nil, err
	}

	log.Printf("✅ User logged in: %s (%s)", user.Email, user.Role)
	return &AuthResponse{User: user.ToResponse(), Token: token}, nil
}

// Signup bootstraps the very first account, which becomes the admin. Once
// any user exists the endpoint is closed; new accounts come via invites.
func (s *AuthService) Signup(ctx context.Context, input SignupInput) (*AuthResponse, error) {
	count, err := s.userRepo.Count(ctx)
	if err != nil {
		return nil, err
	}
	if count > 0 {
		return nil, domain.ErrSignupClosed
	}

	input.Name = strings.TrimSpace(input.Name)
	if input.Name == "" || strings.TrimSpace(input.Email) == "" {
		return nil, domain.ErrInvalidInput
	}
	if !password.Validate(input.Password) {
		return nil, domain.ErrInvalidInput
	}

	hash, err := password.Hash(input.Password)
	if err != nil {
		return nil, err
	}

	id, err := s.counterRepo.Next(ctx, domain.SeqUsers)
	if err != nil {
		return nil, err
	}

	user := &models.User{
		PublicID:     id,
		Name:         input.Name,
		Email:        strings.ToLower(strings.TrimSpace(input.Email)),
		Role:         string(domain.RoleAdmin),
		PasswordHash: hash,
	}
	if err := s.userRepo.Create(ctx, user); err != nil {
		return nil, err
	}

	token, err := jwt.GenerateToken(user.PublicID, user.Email, user.Role, s.cfg.JWT.Secret, s.cfg.JWT.TokenHours)
	if err != nil {
		return nil, err
	}

	log.Printf("✅ Bootstrap admin created: %s", user.Email)
	return &AuthResponse{User: user.ToResponse(), Token: token}, nil
}

// Me returns the authenticated user's profile
func (s *AuthService) Me(ctx context.Context, userID uint) (*models.UserResponse, error) {
	user, err := s.userRepo.GetByPublicID(ctx, userID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, domain.ErrUserNotFound
		}
		return nil, err
	}
	return user.ToResponse(), nil
}

// ChangePasswordInput represents password change input
type ChangePasswordInput struct {
	OldPassword string `json:"old_password" validate:"required"`
	NewPassword string `json:"new_password" validate:"required,min=8"`
}

// ChangePassword verifies the current password and installs the new one,
// clearing the reset-required flag set by invites.
func (s *AuthService) ChangePassword(ctx context.Context, userID uint, input ChangePasswordInput) error {
	user, err := s.userRepo.GetByPublicID(ctx, userID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return domain.ErrUserNotFound
		}
		return err
	}

	if !password.Verify(input.OldPassword, user.PasswordHash) {
		return domain.ErrWrongPassword
	}
	if !password.Validate(input.NewPassword) {
		return domain.ErrInvalidInput
	}

	hash, err := password.Hash(input.NewPassword)
	if err != nil {
		return err
	}

	user.PasswordHash = hash
	user.ResetRequired = false
	if err := s.userRepo.Update(ctx, user); err != nil {
		return err
	}

	log.Printf("✅ Password changed for user %d", user.PublicID)
	return nil
}

// Forgot acknowledges a reset request without revealing whether the account
// exists. Actual reset delivery goes through an admin re-invite.
func (s *AuthService) Forgot(ctx context.Context, email string) {
	if _, err := s.userRepo.GetByEmail(ctx, email); err != nil {
		return
	}
	log.Printf("⚠️ Password reset requested for %s; ask an admin to resend the invite", strings.ToLower(strings.TrimSpace(email)))
}
