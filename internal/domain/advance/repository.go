package advance

import "context"

type AdvanceRepository interface {
	Create(ctx context.Context, a Advance) (Advance, error)
	GetByID(ctx context.Context, id string) (Advance, error)
	ListByUserAndProject(ctx context.Context, userID, projectID string) ([]Advance, error)

	// ListOutstanding returns advances with recovery_status != recovered
	// for (userID, projectID), ordered by given_date ascending. FIFO
	// recovery depends on this ordering.
	ListOutstanding(ctx context.Context, userID, projectID string) ([]Advance, error)

	Update(ctx context.Context, a Advance) error
	Delete(ctx context.Context, id string) error
}
