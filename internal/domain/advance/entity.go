package advance

import (
	"time"

	"github.com/shopspring/decimal"
)

type RecoveryStatus string

const (
	StatusPending            RecoveryStatus = "pending"
	StatusPartiallyRecovered RecoveryStatus = "partially_recovered"
	StatusRecovered          RecoveryStatus = "recovered"
)

// RecoveryReason is the deduction reason that marks a payroll deduction
// line as an advance recovery.
const RecoveryReason = "advance_recovery"

// Advance is cash handed to a worker on a project, recovered later from
// payroll. AmountRecovered never exceeds Amount; the status is derived
// from that relationship.
type Advance struct {
	ID              string
	UserID          string
	ProjectID       string
	Amount          decimal.Decimal
	Reason          string
	GivenDate       time.Time
	AmountRecovered decimal.Decimal
	RecoveryStatus  RecoveryStatus
	CreatedAt       time.Time
	UpdatedAt       time.Time
}

// Remaining returns the unrecovered balance.
func (a Advance) Remaining() decimal.Decimal {
	return a.Amount.Sub(a.AmountRecovered)
}

// DeriveStatus recomputes the recovery status from the amounts.
func (a Advance) DeriveStatus() RecoveryStatus {
	switch {
	case a.AmountRecovered.GreaterThanOrEqual(a.Amount):
		return StatusRecovered
	case a.AmountRecovered.IsPositive():
		return StatusPartiallyRecovered
	default:
		return StatusPending
	}
}
