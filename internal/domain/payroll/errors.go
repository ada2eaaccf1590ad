package payroll

import (
	"errors"
	"fmt"

	"github.com/shopspring/decimal"
)

var (
	ErrDuplicatePeriod  = errors.New("payroll already exists for this user, project and period")
	ErrPayrollNotFound  = errors.New("payroll not found")
	ErrAlreadyPaid      = errors.New("payroll is already paid and can no longer be modified")
	ErrNotPending       = errors.New("payroll has left pending status and cannot be deleted")
	ErrInvalidPeriod    = errors.New("period end must not be before period start")
)

// RecoveryExceedsEarningsError reports an advance-recovery deduction
// larger than the net earnings of the period.
type RecoveryExceedsEarningsError struct {
	Requested         decimal.Decimal
	NetBeforeRecovery decimal.Decimal
}

func (e *RecoveryExceedsEarningsError) Error() string {
	return fmt.Sprintf("advance recovery %s exceeds net earnings %s for this period", e.Requested, e.NetBeforeRecovery)
}

// RecoveryExceedsOutstandingError reports an advance-recovery deduction
// larger than the user's total outstanding advance balance.
type RecoveryExceedsOutstandingError struct {
	Requested   decimal.Decimal
	Outstanding decimal.Decimal
}

func (e *RecoveryExceedsOutstandingError) Error() string {
	return fmt.Sprintf("advance recovery %s exceeds outstanding advance balance %s", e.Requested, e.Outstanding)
}
