package advance

import (
	"context"
	"io"
	"log/slog"
	"sort"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sitecrew/siteworks-backend-go/internal/domain/advance"
	"github.com/sitecrew/siteworks-backend-go/internal/domain/payroll"
	"github.com/sitecrew/siteworks-backend-go/internal/domain/user"
)

type fakeTxManager struct{}

func (fakeTxManager) WithTx(ctx context.Context, fn func(ctx context.Context) error) error {
	return fn(ctx)
}

type memAdvanceRepo struct {
	advances map[string]advance.Advance
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

type memPayrollRepo struct {
	payrolls map[string]payroll.Payroll
}

func (m *memPayrollRepo) Create(_ context.Context, p payroll.Payroll) (payroll.Payroll, error) {
	p.ID = uuid.NewString()
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

func (m *memPayrollRepo) List(_ context.Context, _ payroll.PayrollFilter) ([]payroll.Payroll, int64, error) {
	return nil, 0, nil
}

func (m *memPayrollRepo) Update(_ context.Context, p payroll.Payroll) error {
	if _, ok := m.payrolls[p.ID]; !ok {
		return payroll.ErrPayrollNotFound
	}
	m.payrolls[p.ID] = p
	return nil
}

func (m *memPayrollRepo) Delete(_ context.Context, id string) error {
	delete(m.payrolls, id)
	return nil
}

type memUserRepo struct {
	users map[string]user.User
}

func (m *memUserRepo) Create(_ context.Context, u user.User) (user.User, error) {
	m.users[u.ID] = u
	return u, nil
}

func (m *memUserRepo) GetByID(_ context.Context, id string) (user.User, error) {
	if u, ok := m.users[id]; ok {
		return u, nil
	}
	return user.User{}, user.ErrUserNotFound
}

func (m *memUserRepo) GetByEmail(_ context.Context, email string) (user.User, error) {
	for _, u := range m.users {
		if u.Email == email {
			return u, nil
		}
	}
	return user.User{}, user.ErrUserNotFound
}

func (m *memUserRepo) GetByGoogleID(_ context.Context, googleID string) (user.User, error) {
	for _, u := range m.users {
		if u.GoogleID != nil && *u.GoogleID == googleID {
			return u, nil
		}
	}
	return user.User{}, user.ErrUserNotFound
}

func (m *memUserRepo) List(_ context.Context) ([]user.User, error) { return nil, nil }

func (m *memUserRepo) Update(_ context.Context, u user.User) error {
	m.users[u.ID] = u
	return nil
}

type fixture struct {
	svc         advance.AdvanceService
	repo        *memAdvanceRepo
	payrollRepo *memPayrollRepo
	userRepo    *memUserRepo
}

func newFixture() *fixture {
	f := &fixture{
		repo:        &memAdvanceRepo{advances: make(map[string]advance.Advance)},
		payrollRepo: &memPayrollRepo{payrolls: make(map[string]payroll.Payroll)},
		userRepo:    &memUserRepo{users: make(map[string]user.User)},
	}
	f.svc = NewAdvanceService(
		fakeTxManager{},
		f.repo,
		f.payrollRepo,
		f.userRepo,
		slog.New(slog.NewTextHandler(io.Discard, nil)),
	)
	return f
}

func (f *fixture) addWorker() string {
	id := uuid.NewString()
	f.userRepo.users[id] = user.User{ID: id, Email: id + "@example.com", Role: user.RoleSiteWorker}
	return id
}

func (f *fixture) addPayroll(userID, projectID string, net, recovered int64, periodEnd time.Time) payroll.Payroll {
	p, _ := f.payrollRepo.Create(context.Background(), payroll.Payroll{
		UserID:           userID,
		ProjectID:        projectID,
		PeriodEnd:        periodEnd,
		NetSalary:        decimal.NewFromInt(net),
		AdvanceRecovered: decimal.NewFromInt(recovered),
		Status:           payroll.StatusPending,
	})
	return p
}

func amount(v int64) decimal.Decimal { return decimal.NewFromInt(v) }

func TestCreate(t *testing.T) {
	f := newFixture()
	userID := f.addWorker()
	projectID := uuid.NewString()

	resp, err := f.svc.Create(context.Background(), advance.CreateAdvanceRequest{
		UserID:    userID,
		ProjectID: projectID,
		Amount:    amount(2000),
		Reason:    "tool purchase",
	})
	require.NoError(t, err)
	assert.True(t, resp.Amount.Equal(amount(2000)))
	assert.True(t, resp.Remaining.Equal(amount(2000)))
	assert.Equal(t, string(advance.StatusPending), resp.RecoveryStatus)
}

func TestCreate_UnknownUser(t *testing.T) {
	f := newFixture()
	_, err := f.svc.Create(context.Background(), advance.CreateAdvanceRequest{
		UserID:    uuid.NewString(),
		ProjectID: uuid.NewString(),
		Amount:    amount(2000),
		Reason:    "tool purchase",
	})
	assert.ErrorIs(t, err, user.ErrUserNotFound)
}

func TestUpdateAndDelete_OnlyBeforeRecovery(t *testing.T) {
	f := newFixture()
	userID := f.addWorker()
	projectID := uuid.NewString()

	created, err := f.svc.Create(context.Background(), advance.CreateAdvanceRequest{
		UserID:    userID,
		ProjectID: projectID,
		Amount:    amount(2000),
		Reason:    "tool purchase",
	})
	require.NoError(t, err)

	newAmount := amount(2500)
	updated, err := f.svc.Update(context.Background(), advance.UpdateAdvanceRequest{
		ID:     created.ID,
		Amount: &newAmount,
	})
	require.NoError(t, err)
	assert.True(t, updated.Amount.Equal(amount(2500)))

	// Simulate a partial recovery; edits and deletes now refuse.
	a, _ := f.repo.GetByID(context.Background(), created.ID)
	a.AmountRecovered = amount(500)
	a.RecoveryStatus = a.DeriveStatus()
	require.NoError(t, f.repo.Update(context.Background(), a))

	_, err = f.svc.Update(context.Background(), advance.UpdateAdvanceRequest{
		ID:     created.ID,
		Amount: &newAmount,
	})
	assert.ErrorIs(t, err, advance.ErrNotPending)
	assert.ErrorIs(t, f.svc.Delete(context.Background(), created.ID), advance.ErrNotPending)
}

func TestRecover_HappyPath(t *testing.T) {
	f := newFixture()
	userID := f.addWorker()
	projectID := uuid.NewString()
	f.addPayroll(userID, projectID, 8000, 0, time.Date(2026, 3, 31, 0, 0, 0, 0, time.UTC))

	created, err := f.svc.Create(context.Background(), advance.CreateAdvanceRequest{
		UserID:    userID,
		ProjectID: projectID,
		Amount:    amount(2000),
		Reason:    "tool purchase",
	})
	require.NoError(t, err)

	resp, err := f.svc.Recover(context.Background(), advance.RecoverAdvanceRequest{
		AdvanceID: created.ID,
		Amount:    amount(500),
	})
	require.NoError(t, err)
	assert.True(t, resp.AmountRecovered.Equal(amount(500)))
	assert.True(t, resp.Remaining.Equal(amount(1500)))
	assert.Equal(t, string(advance.StatusPartiallyRecovered), resp.RecoveryStatus)

	// The payroll's recovered total moved with it.
	latest, err := f.payrollRepo.GetLatestByUserAndProject(context.Background(), userID, projectID)
	require.NoError(t, err)
	assert.True(t, latest.AdvanceRecovered.Equal(amount(500)))

	// Recovering the rest fully closes the advance.
	resp, err = f.svc.Recover(context.Background(), advance.RecoverAdvanceRequest{
		AdvanceID: created.ID,
		Amount:    amount(1500),
	})
	require.NoError(t, err)
	assert.Equal(t, string(advance.StatusRecovered), resp.RecoveryStatus)

	_, err = f.svc.Recover(context.Background(), advance.RecoverAdvanceRequest{
		AdvanceID: created.ID,
		Amount:    amount(1),
	})
	assert.ErrorIs(t, err, advance.ErrAlreadyRecovered)
}

func TestRecover_ExceedsRemaining(t *testing.T) {
	f := newFixture()
	userID := f.addWorker()
	projectID := uuid.NewString()
	f.addPayroll(userID, projectID, 8000, 0, time.Date(2026, 3, 31, 0, 0, 0, 0, time.UTC))

	created, err := f.svc.Create(context.Background(), advance.CreateAdvanceRequest{
		UserID:    userID,
		ProjectID: projectID,
		Amount:    amount(1000),
		Reason:    "tool purchase",
	})
	require.NoError(t, err)

	_, err = f.svc.Recover(context.Background(), advance.RecoverAdvanceRequest{
		AdvanceID: created.ID,
		Amount:    amount(1200),
	})
	var exceedsRemaining *advance.ExceedsRemainingError
	require.ErrorAs(t, err, &exceedsRemaining)
	assert.True(t, exceedsRemaining.Requested.Equal(amount(1200)))
	assert.True(t, exceedsRemaining.Remaining.Equal(amount(1000)))
}

func TestRecover_ExceedsPayrollCapacity(t *testing.T) {
	f := newFixture()
	userID := f.addWorker()
	projectID := uuid.NewString()
	// Net 1000 with 400 already recovered leaves 600 of capacity.
	f.addPayroll(userID, projectID, 1000, 400, time.Date(2026, 3, 31, 0, 0, 0, 0, time.UTC))

	created, err := f.svc.Create(context.Background(), advance.CreateAdvanceRequest{
		UserID:    userID,
		ProjectID: projectID,
		Amount:    amount(5000),
		Reason:    "tool purchase",
	})
	require.NoError(t, err)

	_, err = f.svc.Recover(context.Background(), advance.RecoverAdvanceRequest{
		AdvanceID: created.ID,
		Amount:    amount(700),
	})
	var exceedsCapacity *advance.ExceedsPayrollCapacityError
	require.ErrorAs(t, err, &exceedsCapacity)
	assert.True(t, exceedsCapacity.Requested.Equal(amount(700)))
	assert.True(t, exceedsCapacity.Capacity.Equal(amount(600)))
}

func TestRecover_NoPayroll(t *testing.T) {
	f := newFixture()
	userID := f.addWorker()
	projectID := uuid.NewString()

	created, err := f.svc.Create(context.Background(), advance.CreateAdvanceRequest{
		UserID:    userID,
		ProjectID: projectID,
		Amount:    amount(1000),
		Reason:    "tool purchase",
	})
	require.NoError(t, err)

	_, err = f.svc.Recover(context.Background(), advance.RecoverAdvanceRequest{
		AdvanceID: created.ID,
		Amount:    amount(100),
	})
	assert.ErrorIs(t, err, advance.ErrNoRecoverableBalance)
}

func TestRecover_NoCapacityLeft(t *testing.T) {
	f := newFixture()
	userID := f.addWorker()
	projectID := uuid.NewString()
	// The whole net salary is already spoken for.
	f.addPayroll(userID, projectID, 1000, 1000, time.Date(2026, 3, 31, 0, 0, 0, 0, time.UTC))

	created, err := f.svc.Create(context.Background(), advance.CreateAdvanceRequest{
		UserID:    userID,
		ProjectID: projectID,
		Amount:    amount(1000),
		Reason:    "tool purchase",
	})
	require.NoError(t, err)

	_, err = f.svc.Recover(context.Background(), advance.RecoverAdvanceRequest{
		AdvanceID: created.ID,
		Amount:    amount(100),
	})
	assert.ErrorIs(t, err, advance.ErrNoRecoverableBalance)
}

func TestRecover_UsesLatestPayroll(t *testing.T) {
	f := newFixture()
	userID := f.addWorker()
	projectID := uuid.NewString()
	f.addPayroll(userID, projectID, 500, 0, time.Date(2026, 2, 28, 0, 0, 0, 0, time.UTC))
	newer := f.addPayroll(userID, projectID, 9000, 0, time.Date(2026, 3, 31, 0, 0, 0, 0, time.UTC))

	created, err := f.svc.Create(context.Background(), advance.CreateAdvanceRequest{
		UserID:    userID,
		ProjectID: projectID,
		Amount:    amount(3000),
		Reason:    "tool purchase",
	})
	require.NoError(t, err)

	// 3000 exceeds the old payroll's capacity but not the latest one's.
	_, err = f.svc.Recover(context.Background(), advance.RecoverAdvanceRequest{
		AdvanceID: created.ID,
		Amount:    amount(3000),
	})
	require.NoError(t, err)

	got, err := f.payrollRepo.GetByID(context.Background(), newer.ID)
	require.NoError(t, err)
	assert.True(t, got.AdvanceRecovered.Equal(amount(3000)))
}
