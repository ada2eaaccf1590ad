package salary

import "context"

type SalaryService interface {
	// Create registers a new active structure, superseding any prior
	// active one for the same (user, project).
	Create(ctx context.Context, req CreateStructureRequest) (StructureResponse, error)

	GetActive(ctx context.Context, userID, projectID string) (StructureResponse, error)
	History(ctx context.Context, userID, projectID string) ([]StructureResponse, error)
}
