package services

import (
	"context"
	"errors"
	"testing"

	"hackco-expensehub/internal/adapters/persistence/repositories"
	"hackco-expensehub/internal/config"
	"hackco-expensehub/internal/core/domain"
	"hackco-expensehub/internal/pkg/password"
)

func newAuthTestServices(t *testing.T) (*AuthService, *UserService, repositories.UserRepository) {
	t.Helper()

	db := newTestDB(t)
	users := repositories.NewUserRepository(db)
	counters := repositories.NewCounterRepository(db)

	cfg := &config.Config{
		AppMode: "dev",
		JWT:     config.JWTConfig{Secret: "test-secret", TokenHours: 1},
	}

	// No SMTP host configured: every send reports failure, which is the
	// path the invite flow has to survive.
	notify := NewNotificationService(config.SMTPConfig{})

	return NewAuthService(users, counters, cfg), NewUserService(users, counters, notify), users
}

func TestSignupBootstrapOnly(t *testing.T) {
	auth, _, _ := newAuthTestServices(t)
	ctx := context.Background()

	first, err := auth.Signup(ctx, SignupInput{
		Name:     "Founder",
		Email:    "Founder@Example.com",
		Password: "Password123!",
	})
	if err != nil {
		t.Fatalf("Bootstrap signup failed: %v", err)
	}
	if first.User.Role != string(domain.RoleAdmin) {
		t.Errorf("First user must be admin, got %q", first.User.Role)
	}
	if first.User.Email != "founder@example.com" {
		t.Errorf("Email must be stored lower-case, got %q", first.User.Email)
	}
	if first.Token == "" {
		t.Error("Expected a session token")
	}

	if _, err := auth.Signup(ctx, SignupInput{
		Name:     "Second",
		Email:    "second@example.com",
		Password: "Password123!",
	}); !errors.Is(err, domain.ErrSignupClosed) {
		t.Errorf("Expected ErrSignupClosed once a user exists, got %v", err)
	}
}

func TestLoginCaseInsensitiveEmail(t *testing.T) {
	auth, _, _ := newAuthTestServices(t)
	ctx := context.Background()

	if _, err := auth.Signup(ctx, SignupInput{
		Name:     "Founder",
		Email:    "founder@example.com",
		Password: "Password123!",
	}); err != nil {
		t.Fatalf("Signup failed: %v", err)
	}

	if _, err := auth.Login(ctx, LoginInput{Email: "FOUNDER@example.com", Password: "Password123!"}); err != nil {
		t.Errorf("Login with different email casing failed: %v", err)
	}
	if _, err := auth.Login(ctx, LoginInput{Email: "founder@example.com", Password: "wrong"}); !errors.Is(err, domain.ErrInvalidCredentials) {
		t.Errorf("Expected ErrInvalidCredentials, got %v", err)
	}
	if _, err := auth.Login(ctx, LoginInput{Email: "ghost@example.com", Password: "Password123!"}); !errors.Is(err, domain.ErrInvalidCredentials) {
		t.Errorf("Expected ErrInvalidCredentials for unknown account, got %v", err)
	}
}

func TestInviteCreatesResetRequiredUser(t *testing.T) {
	_, userSvc, _ := newAuthTestServices(t)
	ctx := context.Background()

	result, err := userSvc.Invite(ctx, InviteInput{
		Name:  "New Hire",
		Email: "Hire@Example.com",
		Role:  "employee",
	})
	if err != nil {
		t.Fatalf("Invite failed: %v", err)
	}

	if result.EmailSent {
		t.Error("EmailSent must be false without SMTP configured")
	}
	if !result.User.ResetRequired {
		t.Error("Invited user must be flagged reset-required")
	}
	if result.User.Email != "hire@example.com" {
		t.Errorf("Email must be stored lower-case, got %q", result.User.Email)
	}

	// account still exists despite the failed mail
	if _, err := userSvc.Invite(ctx, InviteInput{
		Name:  "Dup",
		Email: "hire@example.com",
		Role:  "employee",
	}); !errors.Is(err, domain.ErrEmailAlreadyExists) {
		t.Errorf("Expected ErrEmailAlreadyExists, got %v", err)
	}

	if _, err := userSvc.Invite(ctx, InviteInput{
		Name:  "Root",
		Email: "root@example.com",
		Role:  "admin",
	}); !errors.Is(err, domain.ErrInvalidInput) {
		t.Errorf("Invites are employee/manager only, got %v", err)
	}
}

func TestChangePasswordClearsResetFlag(t *testing.T) {
	auth, userSvc, users := newAuthTestServices(t)
	ctx := context.Background()

	invited, err := userSvc.Invite(ctx, InviteInput{
		Name:  "New Hire",
		Email: "hire@example.com",
		Role:  "employee",
	})
	if err != nil {
		t.Fatalf("Invite failed: %v", err)
	}

	// The temp password only goes out by mail; install a known one directly.
	user, err := users.GetByPublicID(ctx, invited.User.ID)
	if err != nil {
		t.Fatalf("GetByPublicID failed: %v", err)
	}
	hash, err := password.Hash("KnownTemp123")
	if err != nil {
		t.Fatalf("Hash failed: %v", err)
	}
	user.PasswordHash = hash
	if err := users.Update(ctx, user); err != nil {
		t.Fatalf("Update failed: %v", err)
	}

	if err := auth.ChangePassword(ctx, user.PublicID, ChangePasswordInput{
		OldPassword: "definitely-wrong",
		NewPassword: "FreshPass123",
	}); !errors.Is(err, domain.ErrWrongPassword) {
		t.Fatalf("Expected ErrWrongPassword, got %v", err)
	}

	if err := auth.ChangePassword(ctx, user.PublicID, ChangePasswordInput{
		OldPassword: "KnownTemp123",
		NewPassword: "FreshPass123",
	}); err != nil {
		t.Fatalf("ChangePassword failed: %v", err)
	}

	updated, err := users.GetByPublicID(ctx, user.PublicID)
	if err != nil {
		t.Fatalf("GetByPublicID failed: %v", err)
	}
	if updated.ResetRequired {
		t.Error("ChangePassword must clear the reset-required flag")
	}

	if _, err := auth.Login(ctx, LoginInput{Email: "hire@example.com", Password: "FreshPass123"}); err != nil {
		t.Errorf("Login with new password failed: %v", err)
	}
}

func TestResendInviteRotatesPassword(t *testing.T) {
	_, userSvc, _ := newAuthTestServices(t)
	ctx := context.Background()

	invited, err := userSvc.Invite(ctx, InviteInput{
		Name:  "New Hire",
		Email: "hire@example.com",
		Role:  "employee",
	})
	if err != nil {
		t.Fatalf("Invite failed: %v", err)
	}

	result, err := userSvc.ResendInvite(ctx, invited.User.ID)
	if err != nil {
		t.Fatalf("ResendInvite failed: %v", err)
	}
	if !result.User.ResetRequired {
		t.Error("Resend must set reset-required again")
	}
	if result.EmailSent {
		t.Error("EmailSent must be false without SMTP configured")
	}

	if _, err := userSvc.ResendInvite(ctx, 999); !errors.Is(err, domain.ErrUserNotFound) {
		t.Errorf("Expected ErrUserNotFound, got %v", err)
	}
}

func TestSetManagerRejectsSelf(t *testing.T) {
	_, userSvc, _ := newAuthTestServices(t)
	ctx := context.Background()

	invited, err := userSvc.Invite(ctx, InviteInput{
		Name:  "Loop",
		Email: "loop@example.com",
		Role:  "employee",
	})
	if err != nil {
		t.Fatalf("Invite failed: %v", err)
	}

	if _, err := userSvc.SetManager(ctx, invited.User.ID, &invited.User.ID); !errors.Is(err, domain.ErrInvalidInput) {
		t.Errorf("Expected ErrInvalidInput for self-management, got %v", err)
	}
}
