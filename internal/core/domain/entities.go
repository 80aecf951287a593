package domain

// Role represents user role in the system
type Role string

const (
	RoleEmployee Role = "employee"
	RoleManager  Role = "manager"
	RoleAdmin    Role = "admin"
)

// IsValid reports whether the role is one of the known roles.
func (r Role) IsValid() bool {
	return r == RoleEmployee || r == RoleManager || r == RoleAdmin
}

// CanApprove reports whether the role may see the approval queue and decide tasks.
func (r Role) CanApprove() bool {
	return r == RoleManager || r == RoleAdmin
}

// ExpenseStatus represents the lifecycle status of an expense claim
type ExpenseStatus string

const (
	StatusDraft     ExpenseStatus = "draft"
	StatusSubmitted ExpenseStatus = "submitted"
	StatusWaiting   ExpenseStatus = "waiting"
	StatusApproved  ExpenseStatus = "approved"
	StatusRejected  ExpenseStatus = "rejected"
)

// Decision is the outcome an approver applies to a task
type Decision string

const (
	DecisionApproved Decision = "approved"
	DecisionRejected Decision = "rejected"
)

// IsValid reports whether the decision is approve or reject.
func (d Decision) IsValid() bool {
	return d == DecisionApproved || d == DecisionRejected
}

// TimelineSubmitted is the decision marker of the first timeline event
const TimelineSubmitted = "submitted"

// Actor is the verified identity attached to an authenticated request.
// It is passed explicitly through every component boundary.
type Actor struct {
	ID        uint
	Name      string
	Email     string
	Role      Role
	ManagerID *uint
}

// Counter sequence names
const (
	SeqUsers         = "users"
	SeqExpenses      = "expenses"
	SeqApprovalTasks = "approval_tasks"
)
