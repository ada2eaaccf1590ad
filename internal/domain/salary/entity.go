package salary

import (
	"time"

	"github.com/shopspring/decimal"
)

type SalaryType string

const (
	TypeDaily   SalaryType = "daily"
	TypeMonthly SalaryType = "monthly"
	TypeHourly  SalaryType = "hourly"
)

// SalaryStructure describes how a (user, project) is paid. Structures
// are never mutated in place: changing pay terms supersedes the active
// structure, closing its effective range.
type SalaryStructure struct {
	ID            string
	UserID        string
	ProjectID     string
	SalaryType    SalaryType
	BaseRate      decimal.Decimal
	OvertimeRate  decimal.Decimal
	EffectiveFrom time.Time
	EffectiveTo   *time.Time
	IsActive      bool
	CreatedAt     time.Time
	UpdatedAt     time.Time
}
