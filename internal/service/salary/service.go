package salary

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/sitecrew/siteworks-backend-go/internal/domain/salary"
	"github.com/sitecrew/siteworks-backend-go/internal/domain/user"
	"github.com/sitecrew/siteworks-backend-go/internal/pkg/database"
)

type SalaryServiceImpl struct {
	db       database.TxManager
	repo     salary.SalaryStructureRepository
	userRepo user.UserRepository
	logger   *slog.Logger
}

func NewSalaryService(
	db database.TxManager,
	repo salary.SalaryStructureRepository,
	userRepo user.UserRepository,
	logger *slog.Logger,
) salary.SalaryService {
	return &SalaryServiceImpl{
		db:       db,
		repo:     repo,
		userRepo: userRepo,
		logger:   logger,
	}
}

// Create implements salary.SalaryService. The new structure supersedes
// any prior active one inside a single transaction, so exactly one
// structure is active per (user, project) at any point.
func (s *SalaryServiceImpl) Create(ctx context.Context, req salary.CreateStructureRequest) (salary.StructureResponse, error) {
	if err := req.Validate(); err != nil {
		return salary.StructureResponse{}, err
	}

	if _, err := s.userRepo.GetByID(ctx, req.UserID); err != nil {
		if errors.Is(err, user.ErrUserNotFound) {
			return salary.StructureResponse{}, user.ErrUserNotFound
		}
		return salary.StructureResponse{}, fmt.Errorf("failed to get user: %w", err)
	}

	effectiveFrom := time.Now().UTC().Truncate(24 * time.Hour)
	if req.EffectiveFrom != nil {
		parsed, err := time.Parse("2006-01-02", *req.EffectiveFrom)
		if err != nil {
			return salary.StructureResponse{}, fmt.Errorf("failed to parse effective_from: %w", err)
		}
		effectiveFrom = parsed.UTC()
	}

	var created salary.SalaryStructure
	err := s.db.WithTx(ctx, func(ctx context.Context) error {
		if err := s.repo.DeactivateActive(ctx, req.UserID, req.ProjectID, effectiveFrom); err != nil {
			return fmt.Errorf("failed to supersede active structure: %w", err)
		}

		var err error
		created, err = s.repo.Create(ctx, salary.SalaryStructure{
			UserID:        req.UserID,
			ProjectID:     req.ProjectID,
			SalaryType:    salary.SalaryType(req.SalaryType),
			BaseRate:      req.BaseRate,
			OvertimeRate:  req.OvertimeRate,
			EffectiveFrom: effectiveFrom,
			IsActive:      true,
		})
		if err != nil {
			return fmt.Errorf("failed to create salary structure: %w", err)
		}
		return nil
	})
	if err != nil {
		return salary.StructureResponse{}, err
	}

	s.logger.Info("salary structure created",
		slog.String("user_id", req.UserID),
		slog.String("project_id", req.ProjectID),
		slog.String("salary_type", req.SalaryType),
	)

	return mapStructure(created), nil
}

// GetActive implements salary.SalaryService.
func (s *SalaryServiceImpl) GetActive(ctx context.Context, userID, projectID string) (salary.StructureResponse, error) {
	structure, err := s.repo.GetActive(ctx, userID, projectID)
	if err != nil {
		if errors.Is(err, salary.ErrNoActiveStructure) {
			return salary.StructureResponse{}, salary.ErrNoActiveStructure
		}
		return salary.StructureResponse{}, fmt.Errorf("failed to get active structure: %w", err)
	}
	return mapStructure(structure), nil
}

// History implements salary.SalaryService.
func (s *SalaryServiceImpl) History(ctx context.Context, userID, projectID string) ([]salary.StructureResponse, error) {
	structures, err := s.repo.ListByUserAndProject(ctx, userID, projectID)
	if err != nil {
		return nil, fmt.Errorf("failed to list salary structures: %w", err)
	}

	result := make([]salary.StructureResponse, 0, len(structures))
	for _, st := range structures {
		result = append(result, mapStructure(st))
	}
	return result, nil
}

func mapStructure(st salary.SalaryStructure) salary.StructureResponse {
	var effectiveTo *string
	if st.EffectiveTo != nil {
		str := st.EffectiveTo.Format("2006-01-02")
		effectiveTo = &str
	}

	return salary.StructureResponse{
		ID:            st.ID,
		UserID:        st.UserID,
		ProjectID:     st.ProjectID,
		SalaryType:    string(st.SalaryType),
		BaseRate:      st.BaseRate,
		OvertimeRate:  st.OvertimeRate,
		EffectiveFrom: st.EffectiveFrom.Format("2006-01-02"),
		EffectiveTo:   effectiveTo,
		IsActive:      st.IsActive,
	}
}
