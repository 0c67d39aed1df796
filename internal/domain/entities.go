package domain

import (
	"time"
)

// CategoryType distinguishes money coming in from money going out.
type CategoryType string

const (
	CategoryIncome  CategoryType = "income"
	CategoryExpense CategoryType = "expense"
)

// BillType distinguishes bills the user pays from bills the user collects.
type BillType string

const (
	BillPayable    BillType = "payable"
	BillReceivable BillType = "receivable"
)

// BillStatus is the lifecycle state of a bill.
type BillStatus string

const (
	BillPending   BillStatus = "pending"
	BillPaid      BillStatus = "paid"
	BillOverdue   BillStatus = "overdue"
	BillCancelled BillStatus = "cancelled"
)

// GoalStatus is the lifecycle state of a savings goal.
type GoalStatus string

const (
	GoalActive    GoalStatus = "active"
	GoalCompleted GoalStatus = "completed"
	GoalCancelled GoalStatus = "cancelled"
)

// User is the owner of all financial records. Authentication itself is out of
// scope; the user id is trusted input from the caller.
type User struct {
	ID        string
	Name      string
	CreatedAt time.Time
}

// Category groups transactions. Categories are created on demand by handlers
// when a referenced category does not exist yet.
type Category struct {
	ID        string
	UserID    string
	Name      string
	Type      CategoryType
	Budget    float64
	Color     string
	Icon      string
	CreatedAt time.Time
}

// Transaction is a single committed money movement. Expenses are stored with a
// negative amount, income with a positive one.
type Transaction struct {
	ID          string
	UserID      string
	CategoryID  string
	Description string
	Amount      float64
	Type        CategoryType
	Date        time.Time
}

// Goal is a savings target with accumulated progress.
type Goal struct {
	ID            string
	UserID        string
	Title         string
	TargetAmount  float64
	CurrentAmount float64
	TargetDate    *time.Time
	Status        GoalStatus
}

// Bill is a payable or receivable obligation with a due date.
type Bill struct {
	ID                string
	UserID            string
	Title             string
	Amount            float64
	Type              BillType
	DueDate           time.Time
	Status            BillStatus
	IsRecurring       bool
	RecurringInterval string
}

// Open reports whether the bill still awaits settlement.
func (b Bill) Open() bool {
	return b.Status != BillPaid && b.Status != BillCancelled
}
