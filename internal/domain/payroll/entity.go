package payroll

import (
	"time"

	"github.com/shopspring/decimal"
)

type PaymentStatus string

const (
	StatusPending       PaymentStatus = "pending"
	StatusPartiallyPaid PaymentStatus = "partially_paid"
	StatusPaid          PaymentStatus = "paid"
)

// LineItem is one itemized allowance or deduction on a payroll.
type LineItem struct {
	Reason string          `json:"reason"`
	Amount decimal.Decimal `json:"amount"`
}

// Payroll is one settlement for (user, project, period). At most one may
// exist per exact period. Financial fields are frozen once the record
// leaves pending.
type Payroll struct {
	ID                string
	UserID            string
	ProjectID         string
	SalaryStructureID string
	PeriodStart       time.Time
	PeriodEnd         time.Time

	// Attendance summary
	TotalWorkingDays int
	PresentDays      int
	AbsentDays       int
	OvertimeHours    decimal.Decimal

	// Computed amounts
	BasicSalary     decimal.Decimal
	OvertimePay     decimal.Decimal
	Allowances      []LineItem
	Deductions      []LineItem
	TotalAllowances decimal.Decimal
	TotalDeductions decimal.Decimal
	GrossSalary     decimal.Decimal
	NetSalary       decimal.Decimal

	// Advance bookkeeping
	AdvancePaid      decimal.Decimal
	AdvanceRecovered decimal.Decimal

	// Payment
	Status           PaymentStatus
	PaymentMethod    *string
	PaymentReference *string
	PaidAt           *time.Time
	PaidBy           *string

	Notes     *string
	CreatedAt time.Time
	UpdatedAt time.Time
}
