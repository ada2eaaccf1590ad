package payroll

import (
	"context"
	"io"
	"log/slog"
	"sort"
	"testing"
	"time"

	"github.com/go-chi/jwtauth/v5"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sitecrew/siteworks-backend-go/internal/domain/advance"
	"github.com/sitecrew/siteworks-backend-go/internal/domain/attendance"
	"github.com/sitecrew/siteworks-backend-go/internal/domain/payroll"
	"github.com/sitecrew/siteworks-backend-go/internal/domain/salary"
)

type fakeTxManager struct{}

func (fakeTxManager) WithTx(ctx context.Context, fn func(ctx context.Context) error) error {
	return fn(ctx)
}

type memPayrollRepo struct {
	payrolls map[string]payroll.Payroll
}

func newMemPayrollRepo() *memPayrollRepo {
	return &memPayrollRepo{payrolls: make(map[string]payroll.Payroll)}
}

func (m *memPayrollRepo) Create(_ context.Context, p payroll.Payroll) (payroll.Payroll, error) {
	p.ID = uuid.NewString()
	p.CreatedAt = time.Now().UTC()
	m.payrolls[p.ID] = p
	return p, nil
}

func (m *memPayrollRepo) GetByID(_ context.Context, id string) (payroll.Payroll, error) {
	if p, ok := m.payrolls[id]; ok {
		return p, nil
	}
	return payroll.Payroll{}, payroll.ErrPayrollNotFound
}

func (m *memPayrollRepo) ExistsForPeriod(_ context.Context, userID, projectID string, periodStart, periodEnd time.Time) (bool, error) {
	for _, p := range m.payrolls {
		if p.UserID == userID && p.ProjectID == projectID &&
			p.PeriodStart.Equal(periodStart) && p.PeriodEnd.Equal(periodEnd) {
			return true, nil
		}
	}
	return false, nil
}

func (m *memPayrollRepo) GetLatestByUserAndProject(_ context.Context, userID, projectID string) (payroll.Payroll, error) {
	var latest *payroll.Payroll
	for _, p := range m.payrolls {
		if p.UserID != userID || p.ProjectID != projectID {
			continue
		}
		if latest == nil || p.PeriodEnd.After(latest.PeriodEnd) {
			cp := p
			latest = &cp
		}
	}
	if latest == nil {
		return payroll.Payroll{}, payroll.ErrPayrollNotFound
	}
	return *latest, nil
}

func (m *memPayrollRepo) List(_ context.Context, filter payroll.PayrollFilter) ([]payroll.Payroll, int64, error) {
	var out []payroll.Payroll
	for _, p := range m.payrolls {
		if filter.UserID != nil && p.UserID != *filter.UserID {
			continue
		}
		if filter.ProjectID != nil && p.ProjectID != *filter.ProjectID {
			continue
		}
		if filter.Status != nil && string(p.Status) != *filter.Status {
			continue
		}
		out = append(out, p)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.After(out[j].CreatedAt) })
	return out, int64(len(out)), nil
}

func (m *memPayrollRepo) Update(_ context.Context, p payroll.Payroll) error {
	if _, ok := m.payrolls[p.ID]; !ok {
		return payroll.ErrPayrollNotFound
	}
	m.payrolls[p.ID] = p
	return nil
}

func (m *memPayrollRepo) Delete(_ context.Context, id string) error {
	if _, ok := m.payrolls[id]; !ok {
		return payroll.ErrPayrollNotFound
	}
	delete(m.payrolls, id)
	return nil
}

type memSalaryRepo struct {
	structures map[string]salary.SalaryStructure
}

func newMemSalaryRepo() *memSalaryRepo {
	return &memSalaryRepo{structures: make(map[string]salary.SalaryStructure)}
}

func (m *memSalaryRepo) Create(_ context.Context, s salary.SalaryStructure) (salary.SalaryStructure, error) {
	s.ID = uuid.NewString()
	m.structures[s.ID] = s
	return s, nil
}

func (m *memSalaryRepo) GetActive(_ context.Context, userID, projectID string) (salary.SalaryStructure, error) {
	for _, s := range m.structures {
		if s.UserID == userID && s.ProjectID == projectID && s.IsActive {
			return s, nil
		}
	}
	return salary.SalaryStructure{}, salary.ErrNoActiveStructure
}

func (m *memSalaryRepo) ListActiveByProject(_ context.Context, projectID string) ([]salary.SalaryStructure, error) {
	var out []salary.SalaryStructure
	for _, s := range m.structures {
		if s.ProjectID == projectID && s.IsActive {
			out = append(out, s)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].UserID < out[j].UserID })
	return out, nil
}

func (m *memSalaryRepo) ListByUserAndProject(_ context.Context, userID, projectID string) ([]salary.SalaryStructure, error) {
	var out []salary.SalaryStructure
	for _, s := range m.structures {
		if s.UserID == userID && s.ProjectID == projectID {
			out = append(out, s)
		}
	}
	return out, nil
}

func (m *memSalaryRepo) DeactivateActive(_ context.Context, userID, projectID string, closedAt time.Time) error {
	for id, s := range m.structures {
		if s.UserID == userID && s.ProjectID == projectID && s.IsActive {
			s.IsActive = false
			s.EffectiveTo = &closedAt
			m.structures[id] = s
		}
	}
	return nil
}

type memAdvanceRepo struct {
	advances map[string]advance.Advance
}

func newMemAdvanceRepo() *memAdvanceRepo {
	return &memAdvanceRepo{advances: make(map[string]advance.Advance)}
}

func (m *memAdvanceRepo) Create(_ context.Context, a advance.Advance) (advance.Advance, error) {
	a.ID = uuid.NewString()
	m.advances[a.ID] = a
	return a, nil
}

func (m *memAdvanceRepo) GetByID(_ context.Context, id string) (advance.Advance, error) {
	if a, ok := m.advances[id]; ok {
		return a, nil
	}
	return advance.Advance{}, advance.ErrAdvanceNotFound
}

func (m *memAdvanceRepo) ListByUserAndProject(_ context.Context, userID, projectID string) ([]advance.Advance, error) {
	var out []advance.Advance
	for _, a := range m.advances {
		if a.UserID == userID && a.ProjectID == projectID {
			out = append(out, a)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].GivenDate.Before(out[j].GivenDate) })
	return out, nil
}

func (m *memAdvanceRepo) ListOutstanding(_ context.Context, userID, projectID string) ([]advance.Advance, error) {
	var out []advance.Advance
	for _, a := range m.advances {
		if a.UserID == userID && a.ProjectID == projectID && a.RecoveryStatus != advance.StatusRecovered {
			out = append(out, a)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].GivenDate.Before(out[j].GivenDate) })
	return out, nil
}

func (m *memAdvanceRepo) Update(_ context.Context, a advance.Advance) error {
	if _, ok := m.advances[a.ID]; !ok {
		return advance.ErrAdvanceNotFound
	}
	m.advances[a.ID] = a
	return nil
}

func (m *memAdvanceRepo) Delete(_ context.Context, id string) error {
	if _, ok := m.advances[id]; !ok {
		return advance.ErrAdvanceNotFound
	}
	delete(m.advances, id)
	return nil
}

// stubSummarizer returns a canned summary per user id.
type stubSummarizer struct {
	summaries map[string]attendance.Summary
}

func (s *stubSummarizer) GetAttendanceSummary(_ context.Context, userID, projectID string, periodStart, periodEnd time.Time) (attendance.Summary, error) {
	if sum, ok := s.summaries[userID]; ok {
		return sum, nil
	}
	return attendance.Summary{
		UserID:           userID,
		ProjectID:        projectID,
		PeriodStart:      periodStart,
		PeriodEnd:        periodEnd,
		TotalWorkingDays: 26,
		AbsentDays:       26,
	}, nil
}

type fixture struct {
	svc         payroll.PayrollService
	payrollRepo *memPayrollRepo
	salaryRepo  *memSalaryRepo
	advanceRepo *memAdvanceRepo
	summarizer  *stubSummarizer
}

func newFixture() *fixture {
	f := &fixture{
		payrollRepo: newMemPayrollRepo(),
		salaryRepo:  newMemSalaryRepo(),
		advanceRepo: newMemAdvanceRepo(),
		summarizer:  &stubSummarizer{summaries: make(map[string]attendance.Summary)},
	}
	f.svc = NewPayrollService(
		fakeTxManager{},
		f.payrollRepo,
		f.salaryRepo,
		f.advanceRepo,
		f.summarizer,
		slog.New(slog.NewTextHandler(io.Discard, nil)),
	)
	return f
}

func (f *fixture) addStructure(userID, projectID string, salaryType salary.SalaryType, baseRate, overtimeRate int64) {
	_, _ = f.salaryRepo.Create(context.Background(), salary.SalaryStructure{
		UserID:       userID,
		ProjectID:    projectID,
		SalaryType:   salaryType,
		BaseRate:     decimal.NewFromInt(baseRate),
		OvertimeRate: decimal.NewFromInt(overtimeRate),
		IsActive:     true,
	})
}

func (f *fixture) addSummary(userID string, present, totalWorking int, totalHours float64) {
	f.summarizer.summaries[userID] = attendance.Summary{
		UserID:           userID,
		TotalWorkingDays: totalWorking,
		PresentDays:      present,
		AbsentDays:       totalWorking - present,
		TotalHours:       totalHours,
	}
}

func (f *fixture) addAdvance(userID, projectID string, amount int64, givenDate time.Time) advance.Advance {
	a, _ := f.advanceRepo.Create(context.Background(), advance.Advance{
		UserID:          userID,
		ProjectID:       projectID,
		Amount:          decimal.NewFromInt(amount),
		Reason:          "cash advance",
		GivenDate:       givenDate,
		AmountRecovered: decimal.Zero,
		RecoveryStatus:  advance.StatusPending,
	})
	return a
}

var testAuth = jwtauth.New("HS256", []byte("test-secret"), nil)

func adminContext(t *testing.T) context.Context {
	t.Helper()
	token, _, err := testAuth.Encode(map[string]interface{}{
		"user_id": uuid.NewString(),
		"email":   "admin@example.com",
		"role":    "super_admin",
		"type":    "access",
	})
	require.NoError(t, err)
	return jwtauth.NewContext(context.Background(), token, nil)
}

func baseRequest(userID, projectID string) payroll.GeneratePayrollRequest {
	return payroll.GeneratePayrollRequest{
		UserID:      userID,
		ProjectID:   projectID,
		PeriodStart: "2026-03-01",
		PeriodEnd:   "2026-03-31",
	}
}

func amount(v int64) decimal.Decimal { return decimal.NewFromInt(v) }

func TestGenerate_DailyWithOvertimeAndLineItems(t *testing.T) {
	f := newFixture()
	userID, projectID := uuid.NewString(), uuid.NewString()
	f.addStructure(userID, projectID, salary.TypeDaily, 500, 50)
	f.addSummary(userID, 20, 26, 160)

	req := baseRequest(userID, projectID)
	req.OvertimeHours = decimal.NewFromInt(3)
	req.Allowances = []payroll.LineItemInput{{Reason: "site bonus", Amount: amount(200)}}
	req.Deductions = []payroll.LineItemInput{{Reason: "late penalty", Amount: amount(100)}}

	resp, err := f.svc.Generate(context.Background(), req)
	require.NoError(t, err)

	assert.True(t, resp.BasicSalary.Equal(amount(10000)), "basic = 500 x 20, got %s", resp.BasicSalary)
	assert.True(t, resp.OvertimePay.Equal(amount(150)), "overtime = 50 x 3, got %s", resp.OvertimePay)
	assert.True(t, resp.GrossSalary.Equal(amount(10350)), "gross, got %s", resp.GrossSalary)
	assert.True(t, resp.NetSalary.Equal(amount(10250)), "net, got %s", resp.NetSalary)
	assert.Equal(t, 20, resp.PresentDays)
	assert.Equal(t, 6, resp.AbsentDays)
	assert.Equal(t, string(payroll.StatusPending), resp.Status)
}

func TestGenerate_DuplicatePeriod(t *testing.T) {
	f := newFixture()
	userID, projectID := uuid.NewString(), uuid.NewString()
	f.addStructure(userID, projectID, salary.TypeDaily, 500, 0)
	f.addSummary(userID, 20, 26, 160)

	_, err := f.svc.Generate(context.Background(), baseRequest(userID, projectID))
	require.NoError(t, err)

	_, err = f.svc.Generate(context.Background(), baseRequest(userID, projectID))
	assert.ErrorIs(t, err, payroll.ErrDuplicatePeriod)

	// A different period for the same pair is fine.
	req := baseRequest(userID, projectID)
	req.PeriodStart = "2026-04-01"
	req.PeriodEnd = "2026-04-30"
	_, err = f.svc.Generate(context.Background(), req)
	assert.NoError(t, err)
}

func TestGenerate_NoActiveStructure(t *testing.T) {
	f := newFixture()
	_, err := f.svc.Generate(context.Background(), baseRequest(uuid.NewString(), uuid.NewString()))
	assert.ErrorIs(t, err, salary.ErrNoActiveStructure)
}

func TestGenerate_MonthlyFlatRate(t *testing.T) {
	f := newFixture()
	userID, projectID := uuid.NewString(), uuid.NewString()
	f.addStructure(userID, projectID, salary.TypeMonthly, 13000, 0)
	f.addSummary(userID, 13, 26, 104)

	resp, err := f.svc.Generate(context.Background(), baseRequest(userID, projectID))
	require.NoError(t, err)

	// Monthly pay is the full base rate even with absences; the days are
	// only recorded on the payroll.
	assert.True(t, resp.BasicSalary.Equal(amount(13000)), "got %s", resp.BasicSalary)
	assert.Equal(t, 13, resp.PresentDays)
	assert.Equal(t, 13, resp.AbsentDays)
}

func TestGenerate_HourlyRate(t *testing.T) {
	f := newFixture()
	userID, projectID := uuid.NewString(), uuid.NewString()
	f.addStructure(userID, projectID, salary.TypeHourly, 60, 0)
	f.addSummary(userID, 20, 26, 162.5)

	resp, err := f.svc.Generate(context.Background(), baseRequest(userID, projectID))
	require.NoError(t, err)

	assert.True(t, resp.BasicSalary.Equal(amount(9750)), "basic = 60 x 162.5, got %s", resp.BasicSalary)
}

func TestGenerate_RecoveryExceedsEarnings(t *testing.T) {
	f := newFixture()
	userID, projectID := uuid.NewString(), uuid.NewString()
	f.addStructure(userID, projectID, salary.TypeDaily, 500, 0)
	f.addSummary(userID, 2, 26, 16) // earned only 1000
	f.addAdvance(userID, projectID, 5000, time.Date(2026, 2, 1, 0, 0, 0, 0, time.UTC))

	req := baseRequest(userID, projectID)
	req.Deductions = []payroll.LineItemInput{{Reason: advance.RecoveryReason, Amount: amount(2000)}}

	_, err := f.svc.Generate(context.Background(), req)
	var exceedsEarnings *payroll.RecoveryExceedsEarningsError
	require.ErrorAs(t, err, &exceedsEarnings)
	assert.True(t, exceedsEarnings.Requested.Equal(amount(2000)))
	assert.True(t, exceedsEarnings.NetBeforeRecovery.Equal(amount(1000)))

	// The failed settlement must not have touched the advances.
	outstanding, _ := f.advanceRepo.ListOutstanding(context.Background(), userID, projectID)
	require.Len(t, outstanding, 1)
	assert.True(t, outstanding[0].AmountRecovered.IsZero())
}

func TestGenerate_RecoveryExceedsOutstanding(t *testing.T) {
	f := newFixture()
	userID, projectID := uuid.NewString(), uuid.NewString()
	f.addStructure(userID, projectID, salary.TypeDaily, 500, 0)
	f.addSummary(userID, 20, 26, 160) // earned 10000
	f.addAdvance(userID, projectID, 1000, time.Date(2026, 2, 1, 0, 0, 0, 0, time.UTC))

	req := baseRequest(userID, projectID)
	req.Deductions = []payroll.LineItemInput{{Reason: advance.RecoveryReason, Amount: amount(1500)}}

	_, err := f.svc.Generate(context.Background(), req)
	var exceedsOutstanding *payroll.RecoveryExceedsOutstandingError
	require.ErrorAs(t, err, &exceedsOutstanding)
	assert.True(t, exceedsOutstanding.Requested.Equal(amount(1500)))
	assert.True(t, exceedsOutstanding.Outstanding.Equal(amount(1000)))
}

func TestGenerate_RecoveryAppliesFIFO(t *testing.T) {
	f := newFixture()
	userID, projectID := uuid.NewString(), uuid.NewString()
	f.addStructure(userID, projectID, salary.TypeDaily, 500, 0)
	f.addSummary(userID, 20, 26, 160)

	older := f.addAdvance(userID, projectID, 1000, time.Date(2026, 1, 15, 0, 0, 0, 0, time.UTC))
	newer := f.addAdvance(userID, projectID, 2000, time.Date(2026, 2, 20, 0, 0, 0, 0, time.UTC))

	req := baseRequest(userID, projectID)
	req.Deductions = []payroll.LineItemInput{{Reason: advance.RecoveryReason, Amount: amount(1500)}}

	resp, err := f.svc.Generate(context.Background(), req)
	require.NoError(t, err)

	assert.True(t, resp.AdvanceRecovered.Equal(amount(1500)))
	assert.True(t, resp.NetSalary.Equal(amount(8500)))

	// The oldest advance drains first.
	got, _ := f.advanceRepo.GetByID(context.Background(), older.ID)
	assert.True(t, got.AmountRecovered.Equal(amount(1000)))
	assert.Equal(t, advance.StatusRecovered, got.RecoveryStatus)

	got, _ = f.advanceRepo.GetByID(context.Background(), newer.ID)
	assert.True(t, got.AmountRecovered.Equal(amount(500)))
	assert.Equal(t, advance.StatusPartiallyRecovered, got.RecoveryStatus)
}

func TestGenerate_AdvancePaidRecordsOriginalAmounts(t *testing.T) {
	f := newFixture()
	userID, projectID := uuid.NewString(), uuid.NewString()
	f.addStructure(userID, projectID, salary.TypeDaily, 500, 0)
	f.addSummary(userID, 20, 26, 160)

	adv := f.addAdvance(userID, projectID, 2000, time.Date(2026, 1, 15, 0, 0, 0, 0, time.UTC))
	adv.AmountRecovered = amount(500)
	adv.RecoveryStatus = advance.StatusPartiallyRecovered
	require.NoError(t, f.advanceRepo.Update(context.Background(), adv))

	resp, err := f.svc.Generate(context.Background(), baseRequest(userID, projectID))
	require.NoError(t, err)

	// The payroll records the sum originally given, not the 1500 still owed.
	assert.True(t, resp.AdvancePaid.Equal(amount(2000)), "got %s", resp.AdvancePaid)
	assert.True(t, resp.AdvanceRecovered.IsZero())
}

func TestGenerate_NetFlooredAtZero(t *testing.T) {
	f := newFixture()
	userID, projectID := uuid.NewString(), uuid.NewString()
	f.addStructure(userID, projectID, salary.TypeDaily, 500, 0)
	f.addSummary(userID, 2, 26, 16) // earned 1000

	req := baseRequest(userID, projectID)
	req.Deductions = []payroll.LineItemInput{{Reason: "equipment damage", Amount: amount(1500)}}

	resp, err := f.svc.Generate(context.Background(), req)
	require.NoError(t, err)
	assert.True(t, resp.NetSalary.IsZero(), "net floors at zero, got %s", resp.NetSalary)
	assert.True(t, resp.GrossSalary.Equal(amount(1000)))
	assert.True(t, resp.TotalDeductions.Equal(amount(1500)))
}

func TestGenerate_InvalidPeriod(t *testing.T) {
	f := newFixture()
	req := baseRequest(uuid.NewString(), uuid.NewString())
	req.PeriodStart = "2026-03-31"
	req.PeriodEnd = "2026-03-01"

	_, err := f.svc.Generate(context.Background(), req)
	assert.Error(t, err)
}

func TestGenerateBulk_PartialFailure(t *testing.T) {
	f := newFixture()
	projectID := uuid.NewString()
	worker1, worker2, worker3 := uuid.NewString(), uuid.NewString(), uuid.NewString()

	f.addStructure(worker1, projectID, salary.TypeDaily, 500, 0)
	f.addStructure(worker2, projectID, salary.TypeDaily, 600, 0)
	f.addStructure(worker3, projectID, salary.TypeDaily, 700, 0)
	f.addSummary(worker1, 20, 26, 160)
	f.addSummary(worker2, 22, 26, 176)
	f.addSummary(worker3, 18, 26, 144)

	// worker2 already has a settlement for the period.
	_, err := f.svc.Generate(context.Background(), baseRequest(worker2, projectID))
	require.NoError(t, err)

	resp, err := f.svc.GenerateBulk(context.Background(), payroll.BulkGeneratePayrollRequest{
		ProjectID:   projectID,
		PeriodStart: "2026-03-01",
		PeriodEnd:   "2026-03-31",
	})
	require.NoError(t, err)

	assert.Len(t, resp.Generated, 2)
	require.Len(t, resp.Failures, 1)
	assert.Equal(t, worker2, resp.Failures[0].UserID)
	assert.Contains(t, resp.Failures[0].Reason, "already exists")
}

func TestGenerateBulk_IgnoresRecoveryLines(t *testing.T) {
	f := newFixture()
	projectID := uuid.NewString()
	userID := uuid.NewString()

	f.addStructure(userID, projectID, salary.TypeDaily, 500, 0)
	f.addSummary(userID, 20, 26, 160)
	adv := f.addAdvance(userID, projectID, 3000, time.Date(2026, time.January, 5, 0, 0, 0, 0, time.UTC))

	resp, err := f.svc.GenerateBulk(context.Background(), payroll.BulkGeneratePayrollRequest{
		ProjectID:   projectID,
		PeriodStart: "2026-03-01",
		PeriodEnd:   "2026-03-31",
		Deductions: []payroll.LineItemInput{
			{Reason: advance.RecoveryReason, Amount: amount(1000)},
			{Reason: "late penalty", Amount: amount(100)},
		},
	})
	require.NoError(t, err)
	require.Len(t, resp.Generated, 1)
	assert.Empty(t, resp.Failures)

	generated := resp.Generated[0]
	assert.True(t, generated.AdvanceRecovered.IsZero())
	assert.True(t, generated.NetSalary.Equal(amount(9900)))

	// The advance itself is untouched.
	a, err := f.advanceRepo.GetByID(context.Background(), adv.ID)
	require.NoError(t, err)
	assert.True(t, a.AmountRecovered.IsZero())
}

func TestMarkPaid(t *testing.T) {
	f := newFixture()
	userID, projectID := uuid.NewString(), uuid.NewString()
	f.addStructure(userID, projectID, salary.TypeDaily, 500, 0)
	f.addSummary(userID, 20, 26, 160)

	generated, err := f.svc.Generate(context.Background(), baseRequest(userID, projectID))
	require.NoError(t, err)

	ctx := adminContext(t)
	resp, err := f.svc.MarkPaid(ctx, payroll.MarkPaidRequest{
		ID:            generated.ID,
		PaymentMethod: "bank_transfer",
	})
	require.NoError(t, err)
	assert.Equal(t, string(payroll.StatusPaid), resp.Status)
	require.NotNil(t, resp.PaidAt)
	require.NotNil(t, resp.PaymentMethod)
	assert.Equal(t, "bank_transfer", *resp.PaymentMethod)

	// Paid is terminal.
	_, err = f.svc.MarkPaid(ctx, payroll.MarkPaidRequest{ID: generated.ID, PaymentMethod: "cash"})
	assert.ErrorIs(t, err, payroll.ErrAlreadyPaid)
}

func TestMarkPaid_Partial(t *testing.T) {
	f := newFixture()
	userID, projectID := uuid.NewString(), uuid.NewString()
	f.addStructure(userID, projectID, salary.TypeDaily, 500, 0)
	f.addSummary(userID, 20, 26, 160)

	generated, err := f.svc.Generate(context.Background(), baseRequest(userID, projectID))
	require.NoError(t, err)

	ctx := adminContext(t)
	resp, err := f.svc.MarkPaid(ctx, payroll.MarkPaidRequest{
		ID:            generated.ID,
		PaymentMethod: "cash",
		Partial:       true,
	})
	require.NoError(t, err)
	assert.Equal(t, string(payroll.StatusPartiallyPaid), resp.Status)

	// A partially paid settlement can still complete.
	resp, err = f.svc.MarkPaid(ctx, payroll.MarkPaidRequest{
		ID:            generated.ID,
		PaymentMethod: "cash",
	})
	require.NoError(t, err)
	assert.Equal(t, string(payroll.StatusPaid), resp.Status)
}

func TestDelete_OnlyPending(t *testing.T) {
	f := newFixture()
	userID, projectID := uuid.NewString(), uuid.NewString()
	f.addStructure(userID, projectID, salary.TypeDaily, 500, 0)
	f.addSummary(userID, 20, 26, 160)

	generated, err := f.svc.Generate(context.Background(), baseRequest(userID, projectID))
	require.NoError(t, err)

	ctx := adminContext(t)
	_, err = f.svc.MarkPaid(ctx, payroll.MarkPaidRequest{ID: generated.ID, PaymentMethod: "cash"})
	require.NoError(t, err)

	assert.ErrorIs(t, f.svc.Delete(context.Background(), generated.ID), payroll.ErrNotPending)

	// A pending one deletes fine.
	req := baseRequest(userID, projectID)
	req.PeriodStart = "2026-04-01"
	req.PeriodEnd = "2026-04-30"
	second, err := f.svc.Generate(context.Background(), req)
	require.NoError(t, err)
	assert.NoError(t, f.svc.Delete(context.Background(), second.ID))
}

func TestList_Filters(t *testing.T) {
	f := newFixture()
	projectID := uuid.NewString()
	worker1, worker2 := uuid.NewString(), uuid.NewString()
	f.addStructure(worker1, projectID, salary.TypeDaily, 500, 0)
	f.addStructure(worker2, projectID, salary.TypeDaily, 600, 0)
	f.addSummary(worker1, 20, 26, 160)
	f.addSummary(worker2, 22, 26, 176)

	_, err := f.svc.Generate(context.Background(), baseRequest(worker1, projectID))
	require.NoError(t, err)
	_, err = f.svc.Generate(context.Background(), baseRequest(worker2, projectID))
	require.NoError(t, err)

	all, total, err := f.svc.List(context.Background(), payroll.PayrollFilter{ProjectID: &projectID})
	require.NoError(t, err)
	assert.Len(t, all, 2)
	assert.EqualValues(t, 2, total)

	mine, total, err := f.svc.List(context.Background(), payroll.PayrollFilter{UserID: &worker1})
	require.NoError(t, err)
	require.Len(t, mine, 1)
	assert.EqualValues(t, 1, total)
	assert.Equal(t, worker1, mine[0].UserID)
}
