package payroll

import (
	"context"
	"time"
)

type PayrollRepository interface {
	Create(ctx context.Context, p Payroll) (Payroll, error)
	GetByID(ctx context.Context, id string) (Payroll, error)

	// ExistsForPeriod reports whether a payroll exists for the exact
	// (userID, projectID, periodStart, periodEnd) tuple.
	ExistsForPeriod(ctx context.Context, userID, projectID string, periodStart, periodEnd time.Time) (bool, error)

	// GetLatestByUserAndProject returns the newest payroll by period end;
	// ErrPayrollNotFound if the user has none on this project.
	GetLatestByUserAndProject(ctx context.Context, userID, projectID string) (Payroll, error)

	List(ctx context.Context, filter PayrollFilter) ([]Payroll, int64, error)
	Update(ctx context.Context, p Payroll) error
	Delete(ctx context.Context, id string) error
}
