package payroll

import "context"

type PayrollService interface {
	// Generate computes and persists one settlement for a (user, project,
	// period), including advance-recovery validation and FIFO application.
	Generate(ctx context.Context, req GeneratePayrollRequest) (PayrollResponse, error)

	// GenerateBulk settles every active salary structure on a project,
	// applying the same allowance and deduction lines to each worker.
	// Advance-recovery lines are skipped; recovery only happens through
	// individual generation. Per-worker failures are collected, not fatal.
	GenerateBulk(ctx context.Context, req BulkGeneratePayrollRequest) (BulkGenerateResponse, error)

	Get(ctx context.Context, id string) (PayrollResponse, error)
	List(ctx context.Context, filter PayrollFilter) ([]PayrollResponse, int64, error)

	// MarkPaid records payment. The transition to paid is one-way;
	// financial fields are immutable afterwards.
	MarkPaid(ctx context.Context, req MarkPaidRequest) (PayrollResponse, error)

	// Delete removes a settlement; only pending payrolls may be deleted.
	Delete(ctx context.Context, id string) error
}
