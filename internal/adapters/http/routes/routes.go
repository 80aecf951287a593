package routes

import (
	"time"

	"hackco-expensehub/internal/adapters/http/handlers"
	"hackco-expensehub/internal/adapters/http/middleware"
	"hackco-expensehub/internal/adapters/persistence/repositories"
	"hackco-expensehub/internal/config"
	"hackco-expensehub/internal/core/services"
	"hackco-expensehub/internal/pkg/currency"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/swagger"
	"gorm.io/gorm"
)

// Setup configures all routes for the application and returns the reminder
// service so main can control its scheduler.
func Setup(app *fiber.App, db *gorm.DB, cfg *config.Config) *services.ReminderService {
	// Initialize repositories
	userRepo := repositories.NewUserRepository(db)
	expenseRepo := repositories.NewExpenseRepository(db)
	taskRepo := repositories.NewApprovalTaskRepository(db)
	flowRepo := repositories.NewFlowConfigRepository(db)
	counterRepo := repositories.NewCounterRepository(db)

	// Initialize services
	converter := currency.NewConverter(cfg.Company.Currency, cfg.Company.FXRates)
	notifyService := services.NewNotificationService(cfg.SMTP)

	authService := services.NewAuthService(userRepo, counterRepo, cfg)
	userService := services.NewUserService(userRepo, counterRepo, notifyService)
	flowService := services.NewFlowService(flowRepo, userRepo)
	approvalService := services.NewApprovalService(db, taskRepo, userRepo, counterRepo, flowService)
	expenseService := services.NewExpenseService(expenseRepo, userRepo, counterRepo, approvalService, converter)
	receiptService := services.NewReceiptService()
	reminderService := services.NewReminderService(taskRepo, userRepo, notifyService)

	// Initialize handlers
	healthHandler := handlers.NewHealthHandler()
	authHandler := handlers.NewAuthHandler(authService, cfg)
	userHandler := handlers.NewUserHandler(userService)
	expenseHandler := handlers.NewExpenseHandler(expenseService)
	approvalHandler := handlers.NewApprovalHandler(approvalService)
	flowHandler := handlers.NewFlowHandler(flowService)
	receiptHandler := handlers.NewReceiptHandler(receiptService)

	// Health check & root routes
	app.Get("/", healthHandler.Root)
	app.Get("/health", healthHandler.HealthCheck)

	// Swagger documentation
	app.Get("/swagger/*", swagger.HandlerDefault)

	requireAuth := middleware.AuthMiddleware(cfg, userRepo)

	api := app.Group("/api")

	// Auth routes
	auth := api.Group("/auth")
	auth.Post("/signup", middleware.AuthRateLimiter(), authHandler.Signup)
	auth.Post("/login", middleware.AuthRateLimiter(), authHandler.Login)
	auth.Post("/forgot", middleware.StrictRateLimiter(), authHandler.Forgot)
	auth.Post("/logout", authHandler.Logout)
	auth.Get("/me", requireAuth, middleware.NoCacheHeaders(), authHandler.Me)
	auth.Post("/change-password", requireAuth, authHandler.ChangePassword)

	// User management routes (manager/admin)
	users := api.Group("/users", requireAuth, middleware.ManagerOrAdmin())
	users.Get("/", userHandler.List)
	users.Post("/", middleware.StrictRateLimiter(), userHandler.Invite)
	users.Patch("/:id/role", userHandler.SetRole)
	users.Patch("/:id/manager", userHandler.SetManager)
	users.Post("/:id/resend-invite", middleware.StrictRateLimiter(), userHandler.ResendInvite)

	// Expense routes
	expenses := api.Group("/expenses", requireAuth)
	expenses.Get("/", middleware.PrivateCacheHeaders(30*time.Second), expenseHandler.List)
	expenses.Post("/", expenseHandler.Submit)
	expenses.Get("/:id", middleware.PrivateCacheHeaders(30*time.Second), expenseHandler.GetByID)

	// Approval routes
	approvals := api.Group("/approvals", requireAuth)
	approvals.Get("/queue", middleware.NoCacheHeaders(), approvalHandler.Queue)
	approvals.Post("/:id/decide", middleware.ManagerOrAdmin(), approvalHandler.Decide)

	// Flow policy routes (manager/admin)
	flows := api.Group("/flows", requireAuth, middleware.ManagerOrAdmin())
	flows.Get("/", flowHandler.Get)
	flows.Put("/", flowHandler.Update)

	// Receipt parsing
	api.Post("/ocr", requireAuth, receiptHandler.Parse)

	return reminderService
}
