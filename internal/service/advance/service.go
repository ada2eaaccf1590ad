package advance

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/shopspring/decimal"

	"github.com/sitecrew/siteworks-backend-go/internal/domain/advance"
	"github.com/sitecrew/siteworks-backend-go/internal/domain/payroll"
	"github.com/sitecrew/siteworks-backend-go/internal/domain/user"
	"github.com/sitecrew/siteworks-backend-go/internal/pkg/database"
)

type AdvanceServiceImpl struct {
	db          database.TxManager
	repo        advance.AdvanceRepository
	payrollRepo payroll.PayrollRepository
	userRepo    user.UserRepository
	logger      *slog.Logger
}

func NewAdvanceService(
	db database.TxManager,
	repo advance.AdvanceRepository,
	payrollRepo payroll.PayrollRepository,
	userRepo user.UserRepository,
	logger *slog.Logger,
) advance.AdvanceService {
	return &AdvanceServiceImpl{
		db:          db,
		repo:        repo,
		payrollRepo: payrollRepo,
		userRepo:    userRepo,
		logger:      logger,
	}
}

// Create implements advance.AdvanceService.
func (s *AdvanceServiceImpl) Create(ctx context.Context, req advance.CreateAdvanceRequest) (advance.AdvanceResponse, error) {
	if err := req.Validate(); err != nil {
		return advance.AdvanceResponse{}, err
	}

	if _, err := s.userRepo.GetByID(ctx, req.UserID); err != nil {
		if errors.Is(err, user.ErrUserNotFound) {
			return advance.AdvanceResponse{}, user.ErrUserNotFound
		}
		return advance.AdvanceResponse{}, fmt.Errorf("failed to get user: %w", err)
	}

	givenDate := time.Now().UTC().Truncate(24 * time.Hour)
	if req.GivenDate != nil {
		parsed, err := time.Parse("2006-01-02", *req.GivenDate)
		if err != nil {
			return advance.AdvanceResponse{}, fmt.Errorf("failed to parse given_date: %w", err)
		}
		givenDate = parsed.UTC()
	}

	created, err := s.repo.Create(ctx, advance.Advance{
		UserID:          req.UserID,
		ProjectID:       req.ProjectID,
		Amount:          req.Amount,
		Reason:          req.Reason,
		GivenDate:       givenDate,
		AmountRecovered: decimal.Zero,
		RecoveryStatus:  advance.StatusPending,
	})
	if err != nil {
		return advance.AdvanceResponse{}, fmt.Errorf("failed to create advance: %w", err)
	}

	s.logger.Info("advance created",
		slog.String("advance_id", created.ID),
		slog.String("user_id", req.UserID),
		slog.String("amount", req.Amount.String()),
	)

	return mapAdvance(created), nil
}

// Get implements advance.AdvanceService.
func (s *AdvanceServiceImpl) Get(ctx context.Context, id string) (advance.AdvanceResponse, error) {
	a, err := s.repo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, advance.ErrAdvanceNotFound) {
			return advance.AdvanceResponse{}, advance.ErrAdvanceNotFound
		}
		return advance.AdvanceResponse{}, fmt.Errorf("failed to get advance: %w", err)
	}
	return mapAdvance(a), nil
}

// List implements advance.AdvanceService.
func (s *AdvanceServiceImpl) List(ctx context.Context, userID, projectID string) ([]advance.AdvanceResponse, error) {
	advances, err := s.repo.ListByUserAndProject(ctx, userID, projectID)
	if err != nil {
		return nil, fmt.Errorf("failed to list advances: %w", err)
	}

	result := make([]advance.AdvanceResponse, 0, len(advances))
	for _, a := range advances {
		result = append(result, mapAdvance(a))
	}
	return result, nil
}

// Update implements advance.AdvanceService. Only untouched advances may
// change: once any recovery has applied, the amounts are part of the
// payroll audit trail.
func (s *AdvanceServiceImpl) Update(ctx context.Context, req advance.UpdateAdvanceRequest) (advance.AdvanceResponse, error) {
	if err := req.Validate(); err != nil {
		return advance.AdvanceResponse{}, err
	}

	a, err := s.repo.GetByID(ctx, req.ID)
	if err != nil {
		if errors.Is(err, advance.ErrAdvanceNotFound) {
			return advance.AdvanceResponse{}, advance.ErrAdvanceNotFound
		}
		return advance.AdvanceResponse{}, fmt.Errorf("failed to get advance: %w", err)
	}

	if a.RecoveryStatus != advance.StatusPending {
		return advance.AdvanceResponse{}, advance.ErrNotPending
	}

	if req.Amount != nil {
		a.Amount = *req.Amount
	}
	if req.Reason != nil {
		a.Reason = *req.Reason
	}

	if err := s.repo.Update(ctx, a); err != nil {
		return advance.AdvanceResponse{}, fmt.Errorf("failed to update advance: %w", err)
	}

	return mapAdvance(a), nil
}

// Delete implements advance.AdvanceService.
func (s *AdvanceServiceImpl) Delete(ctx context.Context, id string) error {
	a, err := s.repo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, advance.ErrAdvanceNotFound) {
			return advance.ErrAdvanceNotFound
		}
		return fmt.Errorf("failed to get advance: %w", err)
	}

	if a.RecoveryStatus != advance.StatusPending {
		return advance.ErrNotPending
	}

	if err := s.repo.Delete(ctx, id); err != nil {
		return fmt.Errorf("failed to delete advance: %w", err)
	}

	s.logger.Info("advance deleted", slog.String("advance_id", id))
	return nil
}

// Recover implements advance.AdvanceService. The recovery is gated
// twice: against the advance's remaining balance and against the latest
// payroll's remaining net-salary capacity. Both the advance and that
// payroll's recovered total move in one transaction.
func (s *AdvanceServiceImpl) Recover(ctx context.Context, req advance.RecoverAdvanceRequest) (advance.AdvanceResponse, error) {
	if err := req.Validate(); err != nil {
		return advance.AdvanceResponse{}, err
	}

	var updated advance.Advance
	err := s.db.WithTx(ctx, func(ctx context.Context) error {
		a, err := s.repo.GetByID(ctx, req.AdvanceID)
		if err != nil {
			if errors.Is(err, advance.ErrAdvanceNotFound) {
				return advance.ErrAdvanceNotFound
			}
			return fmt.Errorf("failed to get advance: %w", err)
		}

		if a.RecoveryStatus == advance.StatusRecovered {
			return advance.ErrAlreadyRecovered
		}

		remaining := a.Remaining()
		if req.Amount.GreaterThan(remaining) {
			return &advance.ExceedsRemainingError{
				Requested: req.Amount,
				Remaining: remaining,
			}
		}

		latest, err := s.payrollRepo.GetLatestByUserAndProject(ctx, a.UserID, a.ProjectID)
		if err != nil {
			if errors.Is(err, payroll.ErrPayrollNotFound) {
				return advance.ErrNoRecoverableBalance
			}
			return fmt.Errorf("failed to get latest payroll: %w", err)
		}

		capacity := latest.NetSalary.Sub(latest.AdvanceRecovered)
		if !capacity.IsPositive() {
			return advance.ErrNoRecoverableBalance
		}
		if req.Amount.GreaterThan(capacity) {
			return &advance.ExceedsPayrollCapacityError{
				Requested: req.Amount,
				Capacity:  capacity,
			}
		}

		a.AmountRecovered = a.AmountRecovered.Add(req.Amount)
		a.RecoveryStatus = a.DeriveStatus()
		if err := s.repo.Update(ctx, a); err != nil {
			return fmt.Errorf("failed to update advance: %w", err)
		}

		latest.AdvanceRecovered = latest.AdvanceRecovered.Add(req.Amount)
		if err := s.payrollRepo.Update(ctx, latest); err != nil {
			return fmt.Errorf("failed to update payroll: %w", err)
		}

		updated = a
		return nil
	})
	if err != nil {
		return advance.AdvanceResponse{}, err
	}

	s.logger.Info("advance recovery applied",
		slog.String("advance_id", updated.ID),
		slog.String("amount", req.Amount.String()),
		slog.String("status", string(updated.RecoveryStatus)),
	)

	return mapAdvance(updated), nil
}

func mapAdvance(a advance.Advance) advance.AdvanceResponse {
	return advance.AdvanceResponse{
		ID:              a.ID,
		UserID:          a.UserID,
		ProjectID:       a.ProjectID,
		Amount:          a.Amount,
		Reason:          a.Reason,
		GivenDate:       a.GivenDate.Format("2006-01-02"),
		AmountRecovered: a.AmountRecovered,
		Remaining:       a.Remaining(),
		RecoveryStatus:  string(a.RecoveryStatus),
	}
}
