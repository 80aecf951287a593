package config

import (
	"context"
	"log"
	"time"

	"gorm.io/gorm"

	"hackco-expensehub/internal/adapters/persistence/models"
	"hackco-expensehub/internal/adapters/persistence/repositories"
	"hackco-expensehub/internal/core/domain"
	"hackco-expensehub/internal/pkg/password"
)

// SeedDatabase populates an empty database with a demo organization:
// one admin, one manager, one employee, and a couple of expenses in
// different lifecycle states. Runs only when the users table is empty.
func SeedDatabase(db *gorm.DB) error {
	var count int64
	if err := db.Model(&models.User{}).Count(&count).Error; err != nil {
		return err
	}
	if count > 0 {
		log.Println("⚠️ Database already seeded, skipping")
		return nil
	}

	log.Println("🌱 Seeding database...")

	ctx := context.Background()
	counters := repositories.NewCounterRepository(db)

	hash, err := password.Hash("Password123!")
	if err != nil {
		return err
	}

	adminID, err := counters.Next(ctx, domain.SeqUsers)
	if err != nil {
		return err
	}
	admin := models.User{
		PublicID:     adminID,
		Name:         "Asha Admin",
		Email:        "admin@example.com",
		Role:         string(domain.RoleAdmin),
		PasswordHash: hash,
	}
	if err := db.Create(&admin).Error; err != nil {
		return err
	}

	managerID, err := counters.Next(ctx, domain.SeqUsers)
	if err != nil {
		return err
	}
	manager := models.User{
		PublicID:     managerID,
		Name:         "Mohan Manager",
		Email:        "manager@example.com",
		Role:         string(domain.RoleManager),
		PasswordHash: hash,
	}
	if err := db.Create(&manager).Error; err != nil {
		return err
	}

	employeeID, err := counters.Next(ctx, domain.SeqUsers)
	if err != nil {
		return err
	}
	employee := models.User{
		PublicID:     employeeID,
		Name:         "Eli Employee",
		Email:        "employee@example.com",
		Role:         string(domain.RoleEmployee),
		ManagerID:    &manager.PublicID,
		PasswordHash: hash,
	}
	if err := db.Create(&employee).Error; err != nil {
		return err
	}

	// One expense waiting on the manager, one already approved.
	waitingID, err := counters.Next(ctx, domain.SeqExpenses)
	if err != nil {
		return err
	}
	waiting := models.Expense{
		PublicID:         waitingID,
		EmployeeID:       employee.PublicID,
		EmployeeName:     employee.Name,
		SpendDate:        "2025-11-02",
		Category:         "Travel",
		Amount:           120,
		Currency:         "USD",
		AmountCompanyCcy: 10200,
		CompanyCurrency:  "INR",
		Status:           string(domain.StatusWaiting),
		Description:      "Client visit cab fare",
		Timeline: []models.TimelineEvent{
			{At: time.Now().UTC(), Decision: domain.TimelineSubmitted},
		},
	}
	if err := db.Create(&waiting).Error; err != nil {
		return err
	}

	taskID, err := counters.Next(ctx, domain.SeqApprovalTasks)
	if err != nil {
		return err
	}
	task := models.ApprovalTask{
		PublicID:          taskID,
		ExpenseID:         waiting.PublicID,
		OwnerName:         employee.Name,
		Category:          waiting.Category,
		AmountCompanyCcy:  waiting.AmountCompanyCcy,
		CompanyCurrency:   waiting.CompanyCurrency,
		SubmittedCurrency: waiting.Currency,
	}
	if err := db.Create(&task).Error; err != nil {
		return err
	}

	approvedID, err := counters.Next(ctx, domain.SeqExpenses)
	if err != nil {
		return err
	}
	approvedAt := time.Now().UTC()
	approved := models.Expense{
		PublicID:         approvedID,
		EmployeeID:       employee.PublicID,
		EmployeeName:     employee.Name,
		SpendDate:        "2025-10-20",
		Category:         "Meals",
		Amount:           1500,
		Currency:         "INR",
		AmountCompanyCcy: 1500,
		CompanyCurrency:  "INR",
		Status:           string(domain.StatusApproved),
		Description:      "Team lunch",
		Timeline: []models.TimelineEvent{
			{At: approvedAt.Add(-48 * time.Hour), Decision: domain.TimelineSubmitted},
			{At: approvedAt, Decision: string(domain.DecisionApproved), ByUserID: &manager.PublicID, Comment: "Looks good"},
		},
	}
	if err := db.Create(&approved).Error; err != nil {
		return err
	}

	log.Println("✅ Database seeded successfully")
	return nil
}
