package services

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/glebarez/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"hackco-expensehub/internal/adapters/persistence/models"
	"hackco-expensehub/internal/adapters/persistence/repositories"
	"hackco-expensehub/internal/core/domain"
	"hackco-expensehub/internal/pkg/currency"
	"hackco-expensehub/internal/pkg/pagination"
)

func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	tempDir, err := os.MkdirTemp("", "expensehub-test-*")
	if err != nil {
		t.Fatalf("Failed to create temp dir: %v", err)
	}
	t.Cleanup(func() { os.RemoveAll(tempDir) })

	db, err := gorm.Open(sqlite.Open(filepath.Join(tempDir, "test.db")), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		t.Fatalf("Failed to open database: %v", err)
	}

	sqlDB, err := db.DB()
	if err != nil {
		t.Fatalf("Failed to get database instance: %v", err)
	}
	sqlDB.SetMaxOpenConns(1)

	if err := models.AutoMigrate(db); err != nil {
		t.Fatalf("Failed to migrate: %v", err)
	}
	return db
}

type testEnv struct {
	db       *gorm.DB
	users    repositories.UserRepository
	counters repositories.CounterRepository
	tasks    repositories.ApprovalTaskRepository
	flow     *FlowService
	approval *ApprovalService
	expense  *ExpenseService
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()

	db := newTestDB(t)
	users := repositories.NewUserRepository(db)
	expenses := repositories.NewExpenseRepository(db)
	tasks := repositories.NewApprovalTaskRepository(db)
	flows := repositories.NewFlowConfigRepository(db)
	counters := repositories.NewCounterRepository(db)

	converter := currency.NewConverter("INR", map[string]float64{
		"USD": 85,
		"EUR": 90,
		"INR": 1,
	})

	flowService := NewFlowService(flows, users)
	approvalService := NewApprovalService(db, tasks, users, counters, flowService)
	expenseService := NewExpenseService(expenses, users, counters, approvalService, converter)

	return &testEnv{
		db:       db,
		users:    users,
		counters: counters,
		tasks:    tasks,
		flow:     flowService,
		approval: approvalService,
		expense:  expenseService,
	}
}

func (e *testEnv) createUser(t *testing.T, name, email string, role domain.Role, managerID *uint) *models.User {
	t.Helper()

	ctx := context.Background()
	id, err := e.counters.Next(ctx, domain.SeqUsers)
	if err != nil {
		t.Fatalf("Failed to allocate user id: %v", err)
	}

	user := &models.User{
		PublicID:     id,
		Name:         name,
		Email:        email,
		Role:         string(role),
		ManagerID:    managerID,
		PasswordHash: "x",
	}
	if err := e.users.Create(ctx, user); err != nil {
		t.Fatalf("Failed to create user %s: %v", email, err)
	}
	return user
}

func actorFor(u *models.User) *domain.Actor {
	return &domain.Actor{
		ID:        u.PublicID,
		Name:      u.Name,
		Email:     u.Email,
		Role:      domain.Role(u.Role),
		ManagerID: u.ManagerID,
	}
}

func TestSubmitConvertsAndRoutesToManager(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	manager := env.createUser(t, "Mohan Manager", "manager@example.com", domain.RoleManager, nil)
	employee := env.createUser(t, "Eli Employee", "eli@example.com", domain.RoleEmployee, &manager.PublicID)

	got, err := env.expense.Submit(ctx, actorFor(employee), SubmitExpenseInput{
		SpendDate:   "2025-11-02",
		Category:    "Travel",
		Amount:      450,
		Currency:    "EUR",
		Description: "Conference travel",
	})
	if err != nil {
		t.Fatalf("Submit failed: %v", err)
	}

	if got.AmountCompanyCcy != 40500 {
		t.Errorf("Expected 450 EUR to convert to 40500 INR, got %v", got.AmountCompanyCcy)
	}
	if got.CompanyCurrency != "INR" {
		t.Errorf("Expected company currency INR, got %s", got.CompanyCurrency)
	}
	if got.Status != string(domain.StatusWaiting) {
		t.Errorf("Expected status %q, got %q", domain.StatusWaiting, got.Status)
	}
	if len(got.Timeline) != 1 {
		t.Fatalf("Expected 1 timeline event, got %d", len(got.Timeline))
	}
	if got.Timeline[0].Decision != domain.TimelineSubmitted {
		t.Errorf("Expected first timeline event to be %q, got %q", domain.TimelineSubmitted, got.Timeline[0].Decision)
	}

	queue, err := env.approval.Queue(ctx, actorFor(manager))
	if err != nil {
		t.Fatalf("Queue failed: %v", err)
	}
	if len(queue) != 1 {
		t.Fatalf("Expected 1 task in queue, got %d", len(queue))
	}
	task := queue[0]
	if task.ExpenseID != got.ID {
		t.Errorf("Task expense id %d does not match expense %d", task.ExpenseID, got.ID)
	}
	if task.OwnerName != "Eli Employee" {
		t.Errorf("Expected owner name snapshot, got %q", task.OwnerName)
	}
	if task.AmountCompanyCcy != 40500 || task.SubmittedCurrency != "EUR" {
		t.Errorf("Task snapshot wrong: %+v", task)
	}
}

func TestSubmitIdentityConversion(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	manager := env.createUser(t, "Mgr", "mgr@example.com", domain.RoleManager, nil)
	employee := env.createUser(t, "Emp", "emp@example.com", domain.RoleEmployee, &manager.PublicID)

	got, err := env.expense.Submit(ctx, actorFor(employee), SubmitExpenseInput{
		SpendDate:   "2025-11-03",
		Category:    "Meals",
		Amount:      1234.56,
		Currency:    "INR",
		Description: "Team lunch",
	})
	if err != nil {
		t.Fatalf("Submit failed: %v", err)
	}
	if got.AmountCompanyCcy != 1234.56 {
		t.Errorf("Identity conversion changed the amount: %v", got.AmountCompanyCcy)
	}
}

func TestSubmitWithoutManagerCreatesNoTask(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	admin := env.createUser(t, "Asha Admin", "admin@example.com", domain.RoleAdmin, nil)
	employee := env.createUser(t, "Solo", "solo@example.com", domain.RoleEmployee, nil)

	got, err := env.expense.Submit(ctx, actorFor(employee), SubmitExpenseInput{
		SpendDate:   "2025-11-04",
		Category:    "Supplies",
		Amount:      50,
		Currency:    "USD",
		Description: "Desk supplies",
	})
	if err != nil {
		t.Fatalf("Submit failed: %v", err)
	}
	if got.Status != string(domain.StatusWaiting) {
		t.Errorf("Expense without route should still be waiting, got %q", got.Status)
	}

	queue, err := env.approval.Queue(ctx, actorFor(admin))
	if err != nil {
		t.Fatalf("Queue failed: %v", err)
	}
	if len(queue) != 0 {
		t.Errorf("Expected no tasks for employee without manager, got %d", len(queue))
	}
}

func TestSubmitValidation(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	employee := env.createUser(t, "Emp", "emp@example.com", domain.RoleEmployee, nil)

	if _, err := env.expense.Submit(ctx, actorFor(employee), SubmitExpenseInput{
		SpendDate:   "2025-11-04",
		Category:    "Meals",
		Amount:      0,
		Currency:    "INR",
		Description: "Free lunch",
	}); err != domain.ErrInvalidAmount {
		t.Errorf("Expected ErrInvalidAmount for zero amount, got %v", err)
	}

	if _, err := env.expense.Submit(ctx, actorFor(employee), SubmitExpenseInput{
		SpendDate:   "",
		Category:    "Meals",
		Amount:      10,
		Currency:    "INR",
		Description: "No date",
	}); err != domain.ErrInvalidInput {
		t.Errorf("Expected ErrInvalidInput for missing date, got %v", err)
	}
}

func TestListScopedByRole(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	manager := env.createUser(t, "Mgr", "mgr@example.com", domain.RoleManager, nil)
	alice := env.createUser(t, "Alice", "alice@example.com", domain.RoleEmployee, &manager.PublicID)
	bob := env.createUser(t, "Bob", "bob@example.com", domain.RoleEmployee, &manager.PublicID)

	for _, u := range []*models.User{alice, bob} {
		if _, err := env.expense.Submit(ctx, actorFor(u), SubmitExpenseInput{
			SpendDate:   "2025-11-05",
			Category:    "Travel",
			Amount:      10,
			Currency:    "INR",
			Description: "Bus fare",
		}); err != nil {
			t.Fatalf("Submit for %s failed: %v", u.Email, err)
		}
	}

	params := &pagination.Params{Page: 1, Limit: 20}

	own, total, err := env.expense.List(ctx, actorFor(alice), params)
	if err != nil {
		t.Fatalf("List failed: %v", err)
	}
	if total != 1 || len(own) != 1 {
		t.Errorf("Employee should only see own expenses, got %d (total %d)", len(own), total)
	}

	all, total, err := env.expense.List(ctx, actorFor(manager), params)
	if err != nil {
		t.Fatalf("List failed: %v", err)
	}
	if total != 2 || len(all) != 2 {
		t.Errorf("Manager should see all expenses, got %d (total %d)", len(all), total)
	}
}

func TestGetByIDOwnership(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	alice := env.createUser(t, "Alice", "alice@example.com", domain.RoleEmployee, nil)
	bob := env.createUser(t, "Bob", "bob@example.com", domain.RoleEmployee, nil)

	got, err := env.expense.Submit(ctx, actorFor(alice), SubmitExpenseInput{
		SpendDate:   "2025-11-06",
		Category:    "Meals",
		Amount:      20,
		Currency:    "INR",
		Description: "Lunch",
	})
	if err != nil {
		t.Fatalf("Submit failed: %v", err)
	}

	if _, err := env.expense.GetByID(ctx, actorFor(bob), got.ID); err != domain.ErrForbidden {
		t.Errorf("Expected ErrForbidden for foreign expense, got %v", err)
	}
	if _, err := env.expense.GetByID(ctx, actorFor(alice), got.ID); err != nil {
		t.Errorf("Owner should read own expense: %v", err)
	}
	if _, err := env.expense.GetByID(ctx, actorFor(alice), 9999); err != domain.ErrExpenseNotFound {
		t.Errorf("Expected ErrExpenseNotFound, got %v", err)
	}
}
