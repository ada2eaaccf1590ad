package advance

import (
	"errors"
	"fmt"

	"github.com/shopspring/decimal"
)

var (
	ErrAdvanceNotFound  = errors.New("advance not found")
	ErrAlreadyRecovered = errors.New("advance is already fully recovered")
	// Edits and deletes are allowed only before any recovery has applied.
	ErrNotPending           = errors.New("advance has recovery applied and can no longer be modified")
	ErrNoRecoverableBalance = errors.New("latest payroll has no recoverable balance")
)

// ExceedsRemainingError reports a recovery request larger than the
// advance's unrecovered balance.
type ExceedsRemainingError struct {
	Requested decimal.Decimal
	Remaining decimal.Decimal
}

func (e *ExceedsRemainingError) Error() string {
	return fmt.Sprintf("recovery %s exceeds remaining advance balance %s", e.Requested, e.Remaining)
}

// ExceedsPayrollCapacityError reports a recovery request larger than the
// latest payroll's remaining net-salary capacity.
type ExceedsPayrollCapacityError struct {
	Requested decimal.Decimal
	Capacity  decimal.Decimal
}

func (e *ExceedsPayrollCapacityError) Error() string {
	return fmt.Sprintf("recovery %s exceeds payroll capacity %s", e.Requested, e.Capacity)
}
