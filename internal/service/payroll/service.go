package payroll

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/go-chi/jwtauth/v5"
	"github.com/shopspring/decimal"

	"github.com/sitecrew/siteworks-backend-go/internal/domain/advance"
	"github.com/sitecrew/siteworks-backend-go/internal/domain/attendance"
	"github.com/sitecrew/siteworks-backend-go/internal/domain/payroll"
	"github.com/sitecrew/siteworks-backend-go/internal/domain/salary"
	"github.com/sitecrew/siteworks-backend-go/internal/pkg/database"
)

// AttendanceSummarizer is the slice of the attendance surface a
// settlement needs.
type AttendanceSummarizer interface {
	GetAttendanceSummary(ctx context.Context, userID, projectID string, periodStart, periodEnd time.Time) (attendance.Summary, error)
}

type PayrollServiceImpl struct {
	db          database.TxManager
	repo        payroll.PayrollRepository
	salaryRepo  salary.SalaryStructureRepository
	advanceRepo advance.AdvanceRepository
	summarizer  AttendanceSummarizer
	logger      *slog.Logger
}

func NewPayrollService(
	db database.TxManager,
	repo payroll.PayrollRepository,
	salaryRepo salary.SalaryStructureRepository,
	advanceRepo advance.AdvanceRepository,
	summarizer AttendanceSummarizer,
	logger *slog.Logger,
) payroll.PayrollService {
	return &PayrollServiceImpl{
		db:          db,
		repo:        repo,
		salaryRepo:  salaryRepo,
		advanceRepo: advanceRepo,
		summarizer:  summarizer,
		logger:      logger,
	}
}

func actorFromContext(ctx context.Context) (string, error) {
	_, claims, err := jwtauth.FromContext(ctx)
	if err != nil {
		return "", fmt.Errorf("failed to extract claims from context: %w", err)
	}
	userID, ok := claims["user_id"].(string)
	if !ok || userID == "" {
		return "", fmt.Errorf("user_id claim is missing or invalid")
	}
	return userID, nil
}

func parsePeriod(startStr, endStr string) (time.Time, time.Time, error) {
	start, err := time.Parse("2006-01-02", startStr)
	if err != nil {
		return time.Time{}, time.Time{}, fmt.Errorf("failed to parse period_start: %w", err)
	}
	end, err := time.Parse("2006-01-02", endStr)
	if err != nil {
		return time.Time{}, time.Time{}, fmt.Errorf("failed to parse period_end: %w", err)
	}
	if end.Before(start) {
		return time.Time{}, time.Time{}, payroll.ErrInvalidPeriod
	}
	return start.UTC(), end.UTC(), nil
}

// Generate implements payroll.PayrollService. The settlement runs as a
// single transaction: the duplicate-period check, FIFO advance recovery
// and the insert either all commit or none do. A unique index on
// (user_id, project_id, period_start, period_end) backstops the check
// against concurrent generation.
func (s *PayrollServiceImpl) Generate(ctx context.Context, req payroll.GeneratePayrollRequest) (payroll.PayrollResponse, error) {
	if err := req.Validate(); err != nil {
		return payroll.PayrollResponse{}, err
	}

	periodStart, periodEnd, err := parsePeriod(req.PeriodStart, req.PeriodEnd)
	if err != nil {
		return payroll.PayrollResponse{}, err
	}

	var created payroll.Payroll
	err = s.db.WithTx(ctx, func(ctx context.Context) error {
		var err error
		created, err = s.settle(ctx, req, periodStart, periodEnd)
		return err
	})
	if err != nil {
		return payroll.PayrollResponse{}, err
	}

	s.logger.Info("payroll generated",
		slog.String("payroll_id", created.ID),
		slog.String("user_id", created.UserID),
		slog.String("project_id", created.ProjectID),
		slog.String("net_salary", created.NetSalary.String()),
		slog.String("advance_recovered", created.AdvanceRecovered.String()),
	)

	return mapPayroll(created), nil
}

// settle performs the full settlement for one worker. It must run
// inside a transaction started by the caller.
func (s *PayrollServiceImpl) settle(ctx context.Context, req payroll.GeneratePayrollRequest, periodStart, periodEnd time.Time) (payroll.Payroll, error) {
	exists, err := s.repo.ExistsForPeriod(ctx, req.UserID, req.ProjectID, periodStart, periodEnd)
	if err != nil {
		return payroll.Payroll{}, fmt.Errorf("failed to check for existing payroll: %w", err)
	}
	if exists {
		return payroll.Payroll{}, payroll.ErrDuplicatePeriod
	}

	structure, err := s.salaryRepo.GetActive(ctx, req.UserID, req.ProjectID)
	if err != nil {
		if errors.Is(err, salary.ErrNoActiveStructure) {
			return payroll.Payroll{}, salary.ErrNoActiveStructure
		}
		return payroll.Payroll{}, fmt.Errorf("failed to resolve salary structure: %w", err)
	}

	// The summary range covers the whole last day of the period.
	summaryEnd := periodEnd.Add(24*time.Hour - time.Second)
	summary, err := s.summarizer.GetAttendanceSummary(ctx, req.UserID, req.ProjectID, periodStart, summaryEnd)
	if err != nil {
		return payroll.Payroll{}, fmt.Errorf("failed to build attendance summary: %w", err)
	}

	basic := basicSalary(structure, summary)
	overtimePay := structure.OvertimeRate.Mul(req.OvertimeHours)

	allowances := make([]payroll.LineItem, 0, len(req.Allowances))
	totalAllowances := decimal.Zero
	for _, a := range req.Allowances {
		allowances = append(allowances, payroll.LineItem{Reason: a.Reason, Amount: a.Amount})
		totalAllowances = totalAllowances.Add(a.Amount)
	}

	deductions := make([]payroll.LineItem, 0, len(req.Deductions))
	otherDeductions := decimal.Zero
	recoveryRequested := decimal.Zero
	for _, d := range req.Deductions {
		deductions = append(deductions, payroll.LineItem{Reason: d.Reason, Amount: d.Amount})
		if d.Reason == advance.RecoveryReason {
			recoveryRequested = recoveryRequested.Add(d.Amount)
		} else {
			otherDeductions = otherDeductions.Add(d.Amount)
		}
	}
	totalDeductions := otherDeductions.Add(recoveryRequested)

	gross := basic.Add(overtimePay).Add(totalAllowances)
	netBeforeRecovery := gross.Sub(otherDeductions)

	outstanding, err := s.advanceRepo.ListOutstanding(ctx, req.UserID, req.ProjectID)
	if err != nil {
		return payroll.Payroll{}, fmt.Errorf("failed to list outstanding advances: %w", err)
	}
	// AdvancePaid records the original sums given, regardless of how much
	// has been recovered; the balance caps what a recovery line may take.
	advancePaid := decimal.Zero
	outstandingBalance := decimal.Zero
	for _, a := range outstanding {
		advancePaid = advancePaid.Add(a.Amount)
		outstandingBalance = outstandingBalance.Add(a.Remaining())
	}

	// Recovery is double-gated: it may exceed neither what the period
	// earned nor what is actually owed.
	if recoveryRequested.IsPositive() {
		if recoveryRequested.GreaterThan(netBeforeRecovery) {
			return payroll.Payroll{}, &payroll.RecoveryExceedsEarningsError{
				Requested:         recoveryRequested,
				NetBeforeRecovery: netBeforeRecovery,
			}
		}
		if recoveryRequested.GreaterThan(outstandingBalance) {
			return payroll.Payroll{}, &payroll.RecoveryExceedsOutstandingError{
				Requested:   recoveryRequested,
				Outstanding: outstandingBalance,
			}
		}
		if err := s.applyRecoveryFIFO(ctx, outstanding, recoveryRequested); err != nil {
			return payroll.Payroll{}, err
		}
	}

	net := gross.Sub(totalDeductions)
	if net.IsNegative() {
		net = decimal.Zero
	}

	created, err := s.repo.Create(ctx, payroll.Payroll{
		UserID:            req.UserID,
		ProjectID:         req.ProjectID,
		SalaryStructureID: structure.ID,
		PeriodStart:       periodStart,
		PeriodEnd:         periodEnd,
		TotalWorkingDays:  summary.TotalWorkingDays,
		PresentDays:       summary.PresentDays,
		AbsentDays:        summary.AbsentDays,
		OvertimeHours:     req.OvertimeHours,
		BasicSalary:       basic,
		OvertimePay:       overtimePay,
		Allowances:        allowances,
		Deductions:        deductions,
		TotalAllowances:   totalAllowances,
		TotalDeductions:   totalDeductions,
		GrossSalary:       gross,
		NetSalary:         net,
		AdvancePaid:       advancePaid,
		AdvanceRecovered:  recoveryRequested,
		Status:            payroll.StatusPending,
		Notes:             req.Notes,
	})
	if err != nil {
		return payroll.Payroll{}, fmt.Errorf("failed to create payroll: %w", err)
	}
	return created, nil
}

// basicSalary computes the period's base pay from the structure type.
func basicSalary(structure salary.SalaryStructure, summary attendance.Summary) decimal.Decimal {
	switch structure.SalaryType {
	case salary.TypeDaily:
		return structure.BaseRate.Mul(decimal.NewFromInt(int64(summary.PresentDays)))
	case salary.TypeMonthly:
		// Monthly pay is the flat base rate; attendance affects the
		// recorded days, not the amount.
		return structure.BaseRate
	case salary.TypeHourly:
		return structure.BaseRate.Mul(decimal.NewFromFloat(summary.TotalHours)).Round(2)
	default:
		return decimal.Zero
	}
}

// applyRecoveryFIFO spreads amount across outstanding advances oldest
// given_date first. The caller has already verified amount does not
// exceed the total outstanding balance.
func (s *PayrollServiceImpl) applyRecoveryFIFO(ctx context.Context, outstanding []advance.Advance, amount decimal.Decimal) error {
	remaining := amount
	for _, a := range outstanding {
		if !remaining.IsPositive() {
			break
		}
		take := decimal.Min(remaining, a.Remaining())
		a.AmountRecovered = a.AmountRecovered.Add(take)
		a.RecoveryStatus = a.DeriveStatus()
		if err := s.advanceRepo.Update(ctx, a); err != nil {
			return fmt.Errorf("failed to apply advance recovery: %w", err)
		}
		remaining = remaining.Sub(take)
	}
	return nil
}

// GenerateBulk implements payroll.PayrollService. Each worker settles
// in its own transaction so one failure does not roll back the rest.
func (s *PayrollServiceImpl) GenerateBulk(ctx context.Context, req payroll.BulkGeneratePayrollRequest) (payroll.BulkGenerateResponse, error) {
	if err := req.Validate(); err != nil {
		return payroll.BulkGenerateResponse{}, err
	}

	periodStart, periodEnd, err := parsePeriod(req.PeriodStart, req.PeriodEnd)
	if err != nil {
		return payroll.BulkGenerateResponse{}, err
	}

	structures, err := s.salaryRepo.ListActiveByProject(ctx, req.ProjectID)
	if err != nil {
		return payroll.BulkGenerateResponse{}, fmt.Errorf("failed to list active structures: %w", err)
	}

	// Shared lines apply to everyone, but advance recovery is per worker
	// and only happens through individual generation.
	deductions := make([]payroll.LineItemInput, 0, len(req.Deductions))
	for _, d := range req.Deductions {
		if d.Reason == advance.RecoveryReason {
			continue
		}
		deductions = append(deductions, d)
	}

	resp := payroll.BulkGenerateResponse{
		Generated: []payroll.PayrollResponse{},
		Failures:  []payroll.BulkFailure{},
	}

	for _, structure := range structures {
		workerReq := payroll.GeneratePayrollRequest{
			UserID:      structure.UserID,
			ProjectID:   req.ProjectID,
			PeriodStart: req.PeriodStart,
			PeriodEnd:   req.PeriodEnd,
			Allowances:  req.Allowances,
			Deductions:  deductions,
		}

		var created payroll.Payroll
		err := s.db.WithTx(ctx, func(ctx context.Context) error {
			var err error
			created, err = s.settle(ctx, workerReq, periodStart, periodEnd)
			return err
		})
		if err != nil {
			resp.Failures = append(resp.Failures, payroll.BulkFailure{
				UserID: structure.UserID,
				Reason: err.Error(),
			})
			continue
		}
		resp.Generated = append(resp.Generated, mapPayroll(created))
	}

	s.logger.Info("bulk payroll generation finished",
		slog.String("project_id", req.ProjectID),
		slog.Int("generated", len(resp.Generated)),
		slog.Int("failed", len(resp.Failures)),
	)

	return resp, nil
}

// Get implements payroll.PayrollService.
func (s *PayrollServiceImpl) Get(ctx context.Context, id string) (payroll.PayrollResponse, error) {
	p, err := s.repo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, payroll.ErrPayrollNotFound) {
			return payroll.PayrollResponse{}, payroll.ErrPayrollNotFound
		}
		return payroll.PayrollResponse{}, fmt.Errorf("failed to get payroll: %w", err)
	}
	return mapPayroll(p), nil
}

// List implements payroll.PayrollService.
func (s *PayrollServiceImpl) List(ctx context.Context, filter payroll.PayrollFilter) ([]payroll.PayrollResponse, int64, error) {
	if err := filter.Validate(); err != nil {
		return nil, 0, err
	}

	payrolls, total, err := s.repo.List(ctx, filter)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to list payrolls: %w", err)
	}

	result := make([]payroll.PayrollResponse, 0, len(payrolls))
	for _, p := range payrolls {
		result = append(result, mapPayroll(p))
	}
	return result, total, nil
}

// MarkPaid implements payroll.PayrollService.
func (s *PayrollServiceImpl) MarkPaid(ctx context.Context, req payroll.MarkPaidRequest) (payroll.PayrollResponse, error) {
	if err := req.Validate(); err != nil {
		return payroll.PayrollResponse{}, err
	}

	actorID, err := actorFromContext(ctx)
	if err != nil {
		return payroll.PayrollResponse{}, err
	}

	p, err := s.repo.GetByID(ctx, req.ID)
	if err != nil {
		if errors.Is(err, payroll.ErrPayrollNotFound) {
			return payroll.PayrollResponse{}, payroll.ErrPayrollNotFound
		}
		return payroll.PayrollResponse{}, fmt.Errorf("failed to get payroll: %w", err)
	}

	if p.Status == payroll.StatusPaid {
		return payroll.PayrollResponse{}, payroll.ErrAlreadyPaid
	}

	now := time.Now().UTC()
	p.Status = payroll.StatusPaid
	if req.Partial {
		p.Status = payroll.StatusPartiallyPaid
	}
	p.PaymentMethod = &req.PaymentMethod
	p.PaymentReference = req.PaymentReference
	p.PaidAt = &now
	p.PaidBy = &actorID

	if err := s.repo.Update(ctx, p); err != nil {
		return payroll.PayrollResponse{}, fmt.Errorf("failed to update payroll: %w", err)
	}

	s.logger.Info("payroll marked paid",
		slog.String("payroll_id", p.ID),
		slog.String("status", string(p.Status)),
		slog.String("paid_by", actorID),
	)

	return mapPayroll(p), nil
}

// Delete implements payroll.PayrollService.
func (s *PayrollServiceImpl) Delete(ctx context.Context, id string) error {
	p, err := s.repo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, payroll.ErrPayrollNotFound) {
			return payroll.ErrPayrollNotFound
		}
		return fmt.Errorf("failed to get payroll: %w", err)
	}

	if p.Status != payroll.StatusPending {
		return payroll.ErrNotPending
	}

	if err := s.repo.Delete(ctx, id); err != nil {
		return fmt.Errorf("failed to delete payroll: %w", err)
	}

	s.logger.Info("payroll deleted", slog.String("payroll_id", id))
	return nil
}

func mapPayroll(p payroll.Payroll) payroll.PayrollResponse {
	var paidAt *string
	if p.PaidAt != nil {
		str := p.PaidAt.Format(time.RFC3339)
		paidAt = &str
	}

	return payroll.PayrollResponse{
		ID:                p.ID,
		UserID:            p.UserID,
		ProjectID:         p.ProjectID,
		SalaryStructureID: p.SalaryStructureID,
		PeriodStart:       p.PeriodStart.Format("2006-01-02"),
		PeriodEnd:         p.PeriodEnd.Format("2006-01-02"),
		TotalWorkingDays:  p.TotalWorkingDays,
		PresentDays:       p.PresentDays,
		AbsentDays:        p.AbsentDays,
		OvertimeHours:     p.OvertimeHours,
		BasicSalary:       p.BasicSalary,
		OvertimePay:       p.OvertimePay,
		Allowances:        p.Allowances,
		Deductions:        p.Deductions,
		TotalAllowances:   p.TotalAllowances,
		TotalDeductions:   p.TotalDeductions,
		GrossSalary:       p.GrossSalary,
		NetSalary:         p.NetSalary,
		AdvancePaid:       p.AdvancePaid,
		AdvanceRecovered:  p.AdvanceRecovered,
		Status:            string(p.Status),
		PaymentMethod:     p.PaymentMethod,
		PaymentReference:  p.PaymentReference,
		PaidAt:            paidAt,
		Notes:             p.Notes,
	}
}
