package advance

import "context"

type AdvanceService interface {
	Create(ctx context.Context, req CreateAdvanceRequest) (AdvanceResponse, error)
	Get(ctx context.Context, id string) (AdvanceResponse, error)
	List(ctx context.Context, userID, projectID string) ([]AdvanceResponse, error)

	// Update and Delete are allowed only while no recovery has applied.
	Update(ctx context.Context, req UpdateAdvanceRequest) (AdvanceResponse, error)
	Delete(ctx context.Context, id string) error

	// Recover applies a standalone recovery outside payroll generation,
	// double-gated by the advance's remaining balance and the latest
	// payroll's remaining net-salary capacity.
	Recover(ctx context.Context, req RecoverAdvanceRequest) (AdvanceResponse, error)
}
