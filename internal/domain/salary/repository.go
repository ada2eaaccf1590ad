package salary

import (
	"context"
	"time"
)

type SalaryStructureRepository interface {
	Create(ctx context.Context, s SalaryStructure) (SalaryStructure, error)

	// GetActive returns the single active structure for (userID,
	// projectID); ErrNoActiveStructure if none.
	GetActive(ctx context.Context, userID, projectID string) (SalaryStructure, error)

	// ListActiveByProject returns all active structures on a project,
	// one per user.
	ListActiveByProject(ctx context.Context, projectID string) ([]SalaryStructure, error)

	// ListByUserAndProject returns full structure history, newest first.
	ListByUserAndProject(ctx context.Context, userID, projectID string) ([]SalaryStructure, error)

	// DeactivateActive closes the active structure's effective range at
	// closedAt and clears its flag. No-op when none is active.
	DeactivateActive(ctx context.Context, userID, projectID string, closedAt time.Time) error
}
