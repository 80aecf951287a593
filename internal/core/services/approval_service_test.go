package services

import (
	"context"
	"testing"

	"hackco-expensehub/internal/adapters/persistence/models"
	"hackco-expensehub/internal/core/domain"
)

func TestDecideApproveResolvesTask(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	manager := env.createUser(t, "Mgr", "mgr@example.com", domain.RoleManager, nil)
	employee := env.createUser(t, "Emp", "emp@example.com", domain.RoleEmployee, &manager.PublicID)

	_, err := env.expense.Submit(ctx, actorFor(employee), SubmitExpenseInput{
		SpendDate:   "2025-11-07",
		Category:    "Travel",
		Amount:      100,
		Currency:    "USD",
		Description: "Taxi",
	})
	if err != nil {
		t.Fatalf("Submit failed: %v", err)
	}

	queue, err := env.approval.Queue(ctx, actorFor(manager))
	if err != nil || len(queue) != 1 {
		t.Fatalf("Expected 1 queued task, got %d (err %v)", len(queue), err)
	}
	taskID := queue[0].ID

	decided, err := env.approval.Decide(ctx, actorFor(manager), taskID, domain.DecisionApproved, "Looks fine")
	if err != nil {
		t.Fatalf("Decide failed: %v", err)
	}

	if decided.Status != string(domain.StatusApproved) {
		t.Errorf("Expected approved status, got %q", decided.Status)
	}
	if len(decided.Timeline) != 2 {
		t.Fatalf("Expected 2 timeline events, got %d", len(decided.Timeline))
	}
	last := decided.Timeline[len(decided.Timeline)-1]
	if last.Decision != string(domain.DecisionApproved) {
		t.Errorf("Expected last timeline event approved, got %q", last.Decision)
	}
	if last.ByUserID == nil || *last.ByUserID != manager.PublicID {
		t.Errorf("Expected decision attributed to manager %d, got %v", manager.PublicID, last.ByUserID)
	}
	if last.Comment != "Looks fine" {
		t.Errorf("Expected comment carried over, got %q", last.Comment)
	}

	queue, err = env.approval.Queue(ctx, actorFor(manager))
	if err != nil {
		t.Fatalf("Queue failed: %v", err)
	}
	if len(queue) != 0 {
		t.Errorf("Expected task consumed after decision, %d left", len(queue))
	}
}

func TestDecideTwiceFailsWithoutMutation(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	manager := env.createUser(t, "Mgr", "mgr@example.com", domain.RoleManager, nil)
	employee := env.createUser(t, "Emp", "emp@example.com", domain.RoleEmployee, &manager.PublicID)

	submitted, err := env.expense.Submit(ctx, actorFor(employee), SubmitExpenseInput{
		SpendDate:   "2025-11-08",
		Category:    "Meals",
		Amount:      30,
		Currency:    "INR",
		Description: "Dinner",
	})
	if err != nil {
		t.Fatalf("Submit failed: %v", err)
	}

	queue, _ := env.approval.Queue(ctx, actorFor(manager))
	if len(queue) != 1 {
		t.Fatalf("Expected 1 queued task, got %d", len(queue))
	}
	taskID := queue[0].ID

	if _, err := env.approval.Decide(ctx, actorFor(manager), taskID, domain.DecisionApproved, ""); err != nil {
		t.Fatalf("First decide failed: %v", err)
	}

	// Second decision on the same task must fail and leave the expense alone.
	if _, err := env.approval.Decide(ctx, actorFor(manager), taskID, domain.DecisionRejected, "changed my mind"); err != domain.ErrTaskNotFound {
		t.Fatalf("Expected ErrTaskNotFound on re-decide, got %v", err)
	}

	got, err := env.expense.GetByID(ctx, actorFor(manager), submitted.ID)
	if err != nil {
		t.Fatalf("GetByID failed: %v", err)
	}
	if got.Status != string(domain.StatusApproved) {
		t.Errorf("Re-decide mutated status to %q", got.Status)
	}
	if len(got.Timeline) != 2 {
		t.Errorf("Re-decide mutated timeline, %d events", len(got.Timeline))
	}
}

func TestDecideRejectedSetsStatus(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	manager := env.createUser(t, "Mgr", "mgr@example.com", domain.RoleManager, nil)
	employee := env.createUser(t, "Emp", "emp@example.com", domain.RoleEmployee, &manager.PublicID)

	if _, err := env.expense.Submit(ctx, actorFor(employee), SubmitExpenseInput{
		SpendDate:   "2025-11-09",
		Category:    "Travel",
		Amount:      500,
		Currency:    "EUR",
		Description: "Flight upgrade",
	}); err != nil {
		t.Fatalf("Submit failed: %v", err)
	}

	queue, _ := env.approval.Queue(ctx, actorFor(manager))
	decided, err := env.approval.Decide(ctx, actorFor(manager), queue[0].ID, domain.DecisionRejected, "No upgrades")
	if err != nil {
		t.Fatalf("Decide failed: %v", err)
	}
	if decided.Status != string(domain.StatusRejected) {
		t.Errorf("Expected rejected status, got %q", decided.Status)
	}
}

func TestDecideAuthorization(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	manager := env.createUser(t, "Mgr", "mgr@example.com", domain.RoleManager, nil)
	employee := env.createUser(t, "Emp", "emp@example.com", domain.RoleEmployee, &manager.PublicID)

	if _, err := env.approval.Decide(ctx, actorFor(employee), 1, domain.DecisionApproved, ""); err != domain.ErrForbidden {
		t.Errorf("Expected ErrForbidden for employee, got %v", err)
	}
	if _, err := env.approval.Decide(ctx, actorFor(manager), 1, "maybe", ""); err != domain.ErrInvalidDecision {
		t.Errorf("Expected ErrInvalidDecision, got %v", err)
	}
	if _, err := env.approval.Decide(ctx, actorFor(manager), 404, domain.DecisionApproved, ""); err != domain.ErrTaskNotFound {
		t.Errorf("Expected ErrTaskNotFound for missing task, got %v", err)
	}
}

func TestQueueEmptyForEmployee(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	manager := env.createUser(t, "Mgr", "mgr@example.com", domain.RoleManager, nil)
	employee := env.createUser(t, "Emp", "emp@example.com", domain.RoleEmployee, &manager.PublicID)

	if _, err := env.expense.Submit(ctx, actorFor(employee), SubmitExpenseInput{
		SpendDate:   "2025-11-10",
		Category:    "Meals",
		Amount:      15,
		Currency:    "INR",
		Description: "Snacks",
	}); err != nil {
		t.Fatalf("Submit failed: %v", err)
	}

	queue, err := env.approval.Queue(ctx, actorFor(employee))
	if err != nil {
		t.Fatalf("Queue failed: %v", err)
	}
	if queue == nil {
		t.Fatal("Employee queue must be an empty slice, not nil")
	}
	if len(queue) != 0 {
		t.Errorf("Employee queue must be empty, got %d tasks", len(queue))
	}
}

func TestRouteSpecificApproverBranch(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	admin := env.createUser(t, "Admin", "admin@example.com", domain.RoleAdmin, nil)
	employee := env.createUser(t, "Emp", "emp@example.com", domain.RoleEmployee, nil)

	threshold := 60
	if _, err := env.flow.Update(ctx, UpdateFlowInput{
		IsManagerFirst:     false,
		SequenceEnabled:    false,
		PercentThreshold:   &threshold,
		SpecificApproverID: &admin.PublicID,
	}); err != nil {
		t.Fatalf("Flow update failed: %v", err)
	}

	// Small amount still routes: the specific approver always reviews.
	if _, err := env.expense.Submit(ctx, actorFor(employee), SubmitExpenseInput{
		SpendDate:   "2025-11-11",
		Category:    "Supplies",
		Amount:      5,
		Currency:    "INR",
		Description: "Pens",
	}); err != nil {
		t.Fatalf("Submit failed: %v", err)
	}

	queue, err := env.approval.Queue(ctx, actorFor(admin))
	if err != nil {
		t.Fatalf("Queue failed: %v", err)
	}
	if len(queue) != 1 {
		t.Errorf("Expected routing via specific approver, got %d tasks", len(queue))
	}
}

func TestRouteMissingSpecificApproverIsNoOp(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	admin := env.createUser(t, "Admin", "admin@example.com", domain.RoleAdmin, nil)
	employee := env.createUser(t, "Emp", "emp@example.com", domain.RoleEmployee, nil)

	threshold := 60
	ghost := uint(999)
	if _, err := env.flow.Update(ctx, UpdateFlowInput{
		IsManagerFirst:     false,
		PercentThreshold:   &threshold,
		SpecificApproverID: &ghost,
	}); err != nil {
		t.Fatalf("Flow update failed: %v", err)
	}

	if _, err := env.expense.Submit(ctx, actorFor(employee), SubmitExpenseInput{
		SpendDate:   "2025-11-12",
		Category:    "Supplies",
		Amount:      5,
		Currency:    "INR",
		Description: "Pens",
	}); err != nil {
		t.Fatalf("Submit should not fail on unroutable approver: %v", err)
	}

	queue, _ := env.approval.Queue(ctx, actorFor(admin))
	if len(queue) != 0 {
		t.Errorf("Expected no task for dangling approver id, got %d", len(queue))
	}
}

func TestRouteManagerFirstNeverFallsBackToApprover(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	admin := env.createUser(t, "Admin", "admin@example.com", domain.RoleAdmin, nil)
	orphan := env.createUser(t, "Orphan", "orphan@example.com", domain.RoleEmployee, nil)
	ghostManager := uint(999)
	dangling := env.createUser(t, "Dangling", "dangling@example.com", domain.RoleEmployee, &ghostManager)

	// Manager-first stays in force even with the approver rule configured.
	threshold := 60
	if _, err := env.flow.Update(ctx, UpdateFlowInput{
		IsManagerFirst:     true,
		PercentThreshold:   &threshold,
		SpecificApproverID: &admin.PublicID,
	}); err != nil {
		t.Fatalf("Flow update failed: %v", err)
	}

	for _, employee := range []*models.User{orphan, dangling} {
		if _, err := env.expense.Submit(ctx, actorFor(employee), SubmitExpenseInput{
			SpendDate:   "2025-11-13",
			Category:    "Supplies",
			Amount:      5,
			Currency:    "INR",
			Description: "Pens",
		}); err != nil {
			t.Fatalf("Submit for %s should not fail: %v", employee.Email, err)
		}
	}

	queue, err := env.approval.Queue(ctx, actorFor(admin))
	if err != nil {
		t.Fatalf("Queue failed: %v", err)
	}
	if len(queue) != 0 {
		t.Errorf("Manager-first without a resolvable manager must not route, got %d tasks", len(queue))
	}
}

func TestDecideOrphanedTaskReportsMissingExpense(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	manager := env.createUser(t, "Mgr", "mgr@example.com", domain.RoleManager, nil)
	employee := env.createUser(t, "Emp", "emp@example.com", domain.RoleEmployee, &manager.PublicID)

	submitted, err := env.expense.Submit(ctx, actorFor(employee), SubmitExpenseInput{
		SpendDate:   "2025-11-14",
		Category:    "Travel",
		Amount:      80,
		Currency:    "USD",
		Description: "Train",
	})
	if err != nil {
		t.Fatalf("Submit failed: %v", err)
	}

	queue, _ := env.approval.Queue(ctx, actorFor(manager))
	if len(queue) != 1 {
		t.Fatalf("Expected 1 queued task, got %d", len(queue))
	}
	taskID := queue[0].ID

	if err := env.db.Where("public_id = ?", submitted.ID).Delete(&models.Expense{}).Error; err != nil {
		t.Fatalf("Failed to remove expense row: %v", err)
	}

	if _, err := env.approval.Decide(ctx, actorFor(manager), taskID, domain.DecisionApproved, ""); err != domain.ErrExpenseNotFound {
		t.Fatalf("Expected ErrExpenseNotFound for orphaned task, got %v", err)
	}

	// The failed decision rolls back, the task stays claimable.
	queue, err = env.approval.Queue(ctx, actorFor(manager))
	if err != nil {
		t.Fatalf("Queue failed: %v", err)
	}
	if len(queue) != 1 {
		t.Errorf("Expected task to survive the rolled-back decision, got %d", len(queue))
	}
}
