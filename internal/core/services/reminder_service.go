package services

import (
	"context"
	"fmt"
	"log"

	"github.com/robfig/cron/v3"

	"hackco-expensehub/internal/adapters/persistence/repositories"
	"hackco-expensehub/internal/core/domain"
)

// ReminderService mails approvers a morning digest of tasks still waiting
// for a decision.
type ReminderService struct {
	taskRepo     repositories.ApprovalTaskRepository
	userRepo     repositories.UserRepository
	notification *NotificationService
	cron         *cron.Cron
}

// NewReminderService creates a new reminder service
func NewReminderService(
	taskRepo repositories.ApprovalTaskRepository,
	userRepo repositories.UserRepository,
	notification *NotificationService,
) *ReminderService {
	return &ReminderService{
		taskRepo:     taskRepo,
		userRepo:     userRepo,
		notification: notification,
		cron:         cron.New(),
	}
}

// Start schedules the daily digest at 08:30 server time
func (s *ReminderService) Start() error {
	if _, err := s.cron.AddFunc("30 8 * * *", s.SendDigest); err != nil {
		return err
	}
	s.cron.Start()
	log.Println("🚀 ReminderService started (daily 08:30)")
	return nil
}

// Stop halts the scheduler, waiting for a running job to finish
func (s *ReminderService) Stop() {
	<-s.cron.Stop().Done()
	log.Println("🛑 ReminderService stopped")
}

// SendDigest mails every manager and admin the current approval queue.
// No tasks means no mail.
func (s *ReminderService) SendDigest() {
	ctx := context.Background()

	tasks, err := s.taskRepo.List(ctx)
	if err != nil {
		log.Printf("❌ Reminder digest query error: %v", err)
		return
	}
	if len(tasks) == 0 {
		return
	}

	lines := make([]string, 0, len(tasks))
	for _, t := range tasks {
		lines = append(lines, fmt.Sprintf("  - #%d %s / %s: %.2f %s",
			t.PublicID, t.OwnerName, t.Category, t.AmountCompanyCcy, t.CompanyCurrency))
	}

	approvers, err := s.userRepo.ListByRoles(ctx, string(domain.RoleManager), string(domain.RoleAdmin))
	if err != nil {
		log.Printf("❌ Reminder digest approver lookup error: %v", err)
		return
	}

	for _, approver := range approvers {
		if err := s.notification.SendPendingDigest(approver.Email, lines); err != nil {
			log.Printf("⚠️ Reminder digest to %s failed: %v", approver.Email, err)
		}
	}
}
