package models

import (
	"time"

	"gorm.io/gorm"
)

// ============================================================
// Sequence counter
// ============================================================

// Counter backs the per-entity auto-increment sequences. Public numeric
// ids (users, expenses, approval tasks) come from here, not from the
// database primary keys, so they survive re-imports and stay small.
type Counter struct {
	Name string `gorm:"primaryKey;size:50" json:"name"`
	Seq  uint   `gorm:"not null;default:0" json:"seq"`
}

func (Counter) TableName() string {
	return "counters"
}

// ============================================================
// Users
// ============================================================

// User represents users table
type User struct {
	ID            uint      `gorm:"primaryKey" json:"-"`
	PublicID      uint      `gorm:"uniqueIndex;not null" json:"id"`
	Name          string    `gorm:"size:100;not null" json:"name"`
	Email         string    `gorm:"uniqueIndex;size:100;not null" json:"email"`
	Role          string    `gorm:"size:20;not null" json:"role"`
	ManagerID     *uint     `gorm:"index" json:"manager_id"`
	PasswordHash  string    `gorm:"size:255;not null" json:"-"`
	ResetRequired bool      `gorm:"default:false" json:"reset_required"`
	CreatedAt     time.Time `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt     time.Time `gorm:"autoUpdateTime" json:"updated_at"`
}

func (User) TableName() string {
	return "users"
}

// UserResponse DTO
type UserResponse struct {
	ID            uint      `json:"id"`
	Name          string    `json:"name"`
	Email         string    `json:"email"`
	Role          string    `json:"role"`
	ManagerID     *uint     `json:"manager_id"`
	ResetRequired bool      `json:"reset_required"`
	CreatedAt     time.Time `json:"created_at"`
}

func (u *User) ToResponse() *UserResponse {
	return &UserResponse{
		ID:            u.PublicID,
		Name:          u.Name,
		Email:         u.Email,
		Role:          u.Role,
		ManagerID:     u.ManagerID,
		ResetRequired: u.ResetRequired,
		CreatedAt:     u.CreatedAt,
	}
}

// ============================================================
// Expenses
// ============================================================

// Expense represents expenses table
type Expense struct {
	ID               uint      `gorm:"primaryKey" json:"-"`
	PublicID         uint      `gorm:"uniqueIndex;not null" json:"id"`
	EmployeeID       uint      `gorm:"not null;index" json:"employee_id"`
	EmployeeName     string    `gorm:"size:100;not null" json:"employee_name"`
	SpendDate        string    `gorm:"size:30;not null" json:"spend_date"`
	Category         string    `gorm:"size:50;not null" json:"category"`
	Amount           float64   `gorm:"type:decimal(15,2);not null" json:"amount"`
	Currency         string    `gorm:"size:10;not null" json:"currency"`
	AmountCompanyCcy float64   `gorm:"type:decimal(15,2);not null" json:"amount_company_ccy"`
	CompanyCurrency  string    `gorm:"size:10;not null" json:"company_currency"`
	Status           string    `gorm:"size:20;not null;index" json:"status"`
	Description      string    `gorm:"type:text;not null" json:"description"`
	Remarks          string    `gorm:"type:text" json:"remarks"`
	CreatedAt        time.Time `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt        time.Time `gorm:"autoUpdateTime" json:"updated_at"`

	// Relations
	Timeline []TimelineEvent `gorm:"foreignKey:ExpenseID;references:ID" json:"timeline,omitempty"`
}

func (Expense) TableName() string {
	return "expenses"
}

// TimelineEvent is one append-only audit entry of an expense.
// EmployeeName/ownerName-style snapshots elsewhere never update when
// the source user changes; the same holds for ByUserID here.
type TimelineEvent struct {
	ID        uint      `gorm:"primaryKey" json:"-"`
	ExpenseID uint      `gorm:"not null;index" json:"-"`
	At        time.Time `gorm:"not null" json:"at"`
	ByUserID  *uint     `json:"by_user_id"`
	Decision  string    `gorm:"size:20;not null" json:"decision"`
	Comment   string    `gorm:"type:text" json:"comment"`
}

func (TimelineEvent) TableName() string {
	return "timeline_events"
}

// ExpenseRow DTO for the expense table view
type ExpenseRow struct {
	ID               uint    `json:"id"`
	SpendDate        string  `json:"spend_date"`
	Description      string  `json:"description"`
	Category         string  `json:"category"`
	Amount           float64 `json:"amount"`
	Currency         string  `json:"currency"`
	AmountCompanyCcy float64 `json:"amount_company_ccy"`
	CompanyCurrency  string  `json:"company_currency"`
	Status           string  `json:"status"`
}

func (e *Expense) ToRow() *ExpenseRow {
	return &ExpenseRow{
		ID:               e.PublicID,
		SpendDate:        e.SpendDate,
		Description:      e.Description,
		Category:         e.Category,
		Amount:           e.Amount,
		Currency:         e.Currency,
		AmountCompanyCcy: e.AmountCompanyCcy,
		CompanyCurrency:  e.CompanyCurrency,
		Status:           e.Status,
	}
}

// ExpenseResponse DTO with the full timeline
type ExpenseResponse struct {
	ID               uint            `json:"id"`
	EmployeeID       uint            `json:"employee_id"`
	EmployeeName     string          `json:"employee_name"`
	SpendDate        string          `json:"spend_date"`
	Category         string          `json:"category"`
	Amount           float64         `json:"amount"`
	Currency         string          `json:"currency"`
	AmountCompanyCcy float64         `json:"amount_company_ccy"`
	CompanyCurrency  string          `json:"company_currency"`
	Status           string          `json:"status"`
	Description      string          `json:"description"`
	Remarks          string          `json:"remarks,omitempty"`
	Timeline         []TimelineEvent `json:"timeline"`
	CreatedAt        time.Time       `json:"created_at"`
}

func (e *Expense) ToResponse() *ExpenseResponse {
	timeline := e.Timeline
	if timeline == nil {
		timeline = []TimelineEvent{}
	}
	return &ExpenseResponse{
		ID:               e.PublicID,
		EmployeeID:       e.EmployeeID,
		EmployeeName:     e.EmployeeName,
		SpendDate:        e.SpendDate,
		Category:         e.Category,
		Amount:           e.Amount,
		Currency:         e.Currency,
		AmountCompanyCcy: e.AmountCompanyCcy,
		CompanyCurrency:  e.CompanyCurrency,
		Status:           e.Status,
		Description:      e.Description,
		Remarks:          e.Remarks,
		Timeline:         timeline,
		CreatedAt:        e.CreatedAt,
	}
}

// ============================================================
// Approval tasks
// ============================================================

// ApprovalTask is a transient work item: created when a submitted expense
// needs a decision, deleted atomically with the decision that resolves it.
// OwnerName and the amount fields are point-in-time copies of the expense.
type ApprovalTask struct {
	ID                uint      `gorm:"primaryKey" json:"-"`
	PublicID          uint      `gorm:"uniqueIndex;not null" json:"id"`
	ExpenseID         uint      `gorm:"not null;index" json:"expense_id"`
	OwnerName         string    `gorm:"size:100;not null" json:"owner_name"`
	Category          string    `gorm:"size:50;not null" json:"category"`
	AmountCompanyCcy  float64   `gorm:"type:decimal(15,2);not null" json:"amount_company_ccy"`
	CompanyCurrency   string    `gorm:"size:10;not null" json:"company_currency"`
	SubmittedCurrency string    `gorm:"size:10;not null" json:"submitted_currency"`
	CreatedAt         time.Time `gorm:"autoCreateTime" json:"created_at"`
}

func (ApprovalTask) TableName() string {
	return "approval_tasks"
}

// ApprovalTaskResponse DTO
type ApprovalTaskResponse struct {
	ID                uint    `json:"id"`
	ExpenseID         uint    `json:"expense_id"`
	OwnerName         string  `json:"owner_name"`
	Category          string  `json:"category"`
	AmountCompanyCcy  float64 `json:"amount_company_ccy"`
	CompanyCurrency   string  `json:"company_currency"`
	SubmittedCurrency string  `json:"submitted_currency"`
}

func (t *ApprovalTask) ToResponse() *ApprovalTaskResponse {
	return &ApprovalTaskResponse{
		ID:                t.PublicID,
		ExpenseID:         t.ExpenseID,
		OwnerName:         t.OwnerName,
		Category:          t.Category,
		AmountCompanyCcy:  t.AmountCompanyCcy,
		CompanyCurrency:   t.CompanyCurrency,
		SubmittedCurrency: t.SubmittedCurrency,
	}
}

// ============================================================
// Flow config (singleton)
// ============================================================

// FlowConfig is the organization-wide approval routing policy.
// Exactly one row with Key "default" exists; it is created lazily on
// first read and overwritten in place on update.
type FlowConfig struct {
	ID                 uint      `gorm:"primaryKey" json:"-"`
	Key                string    `gorm:"uniqueIndex;size:50;not null" json:"key"`
	IsManagerFirst     bool      `gorm:"default:true" json:"is_manager_first"`
	SequenceEnabled    bool      `gorm:"default:false" json:"sequence_enabled"`
	PercentThreshold   *int      `json:"percent_threshold"`
	SpecificApproverID *uint     `json:"specific_approver_id"`
	CreatedAt          time.Time `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt          time.Time `gorm:"autoUpdateTime" json:"updated_at"`

	// Relations
	Approvers []FlowApprover `gorm:"foreignKey:FlowConfigID;references:ID" json:"approvers"`
}

func (FlowConfig) TableName() string {
	return "flow_configs"
}

// DefaultFlowKey is the key of the singleton config (single-tenant)
const DefaultFlowKey = "default"

// FlowApprover is one configured approver of the flow, ordered by Position
type FlowApprover struct {
	ID           uint `gorm:"primaryKey" json:"-"`
	FlowConfigID uint `gorm:"not null;index" json:"-"`
	UserID       uint `gorm:"not null" json:"user_id"`
	Required     bool `gorm:"default:true" json:"required"`
	Position     int  `gorm:"not null" json:"-"`
}

func (FlowApprover) TableName() string {
	return "flow_approvers"
}

// ============================================================
// Auto Migration
// ============================================================

// AutoMigrate creates or updates all tables
func AutoMigrate(db *gorm.DB) error {
	return db.AutoMigrate(
		&Counter{},
		&User{},
		&Expense{},
		&TimelineEvent{},
		&ApprovalTask{},
		&FlowConfig{},
		&FlowApprover{},
	)
}
