package postgresql

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"

	"github.com/sitecrew/siteworks-backend-go/internal/domain/payroll"
	"github.com/sitecrew/siteworks-backend-go/internal/pkg/database"
)

type payrollRepositoryImpl struct {
	db *database.DB
}

func NewPayrollRepository(db *database.DB) payroll.PayrollRepository {
	return &payrollRepositoryImpl{db: db}
}

const payrollColumns = `id, user_id, project_id, salary_structure_id, period_start, period_end,
		total_working_days, present_days, absent_days, overtime_hours,
		basic_salary, overtime_pay, allowances, deductions, total_allowances, total_deductions,
		gross_salary, net_salary, advance_paid, advance_recovered,
		status, payment_method, payment_reference, paid_at, paid_by, notes, created_at, updated_at`

func scanPayroll(row pgx.Row) (payroll.Payroll, error) {
	var p payroll.Payroll
	var allowances, deductions []byte
	err := row.Scan(
		&p.ID,
		&p.UserID,
		&p.ProjectID,
		&p.SalaryStructureID,
		&p.PeriodStart,
		&p.PeriodEnd,
		&p.TotalWorkingDays,
		&p.PresentDays,
		&p.AbsentDays,
		&p.OvertimeHours,
		&p.BasicSalary,
		&p.OvertimePay,
		&allowances,
		&deductions,
		&p.TotalAllowances,
		&p.TotalDeductions,
		&p.GrossSalary,
		&p.NetSalary,
		&p.AdvancePaid,
		&p.AdvanceRecovered,
		&p.Status,
		&p.PaymentMethod,
		&p.PaymentReference,
		&p.PaidAt,
		&p.PaidBy,
		&p.Notes,
		&p.CreatedAt,
		&p.UpdatedAt,
	)
	if err != nil {
		return payroll.Payroll{}, err
	}

	if err := json.Unmarshal(allowances, &p.Allowances); err != nil {
		return payroll.Payroll{}, fmt.Errorf("decode allowances: %w", err)
	}
	if err := json.Unmarshal(deductions, &p.Deductions); err != nil {
		return payroll.Payroll{}, fmt.Errorf("decode deductions: %w", err)
	}
	return p, nil
}

func encodeLineItems(items []payroll.LineItem) ([]byte, error) {
	if items == nil {
		items = []payroll.LineItem{}
	}
	return json.Marshal(items)
}

// Create implements payroll.PayrollRepository. The unique index on
// (user_id, project_id, period_start, period_end) turns a concurrent
// duplicate into ErrDuplicatePeriod.
func (r *payrollRepositoryImpl) Create(ctx context.Context, p payroll.Payroll) (payroll.Payroll, error) {
	q := database.QuerierFromContext(ctx, r.db)

	allowances, err := encodeLineItems(p.Allowances)
	if err != nil {
		return payroll.Payroll{}, fmt.Errorf("encode allowances: %w", err)
	}
	deductions, err := encodeLineItems(p.Deductions)
	if err != nil {
		return payroll.Payroll{}, fmt.Errorf("encode deductions: %w", err)
	}

	query := `
		INSERT INTO payrolls (
			user_id, project_id, salary_structure_id, period_start, period_end,
			total_working_days, present_days, absent_days, overtime_hours,
			basic_salary, overtime_pay, allowances, deductions, total_allowances, total_deductions,
			gross_salary, net_salary, advance_paid, advance_recovered, status, notes
		)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16, $17, $18, $19, $20, $21)
		RETURNING ` + payrollColumns

	created, err := scanPayroll(q.QueryRow(ctx, query,
		p.UserID, p.ProjectID, p.SalaryStructureID, p.PeriodStart, p.PeriodEnd,
		p.TotalWorkingDays, p.PresentDays, p.AbsentDays, p.OvertimeHours,
		p.BasicSalary, p.OvertimePay, allowances, deductions, p.TotalAllowances, p.TotalDeductions,
		p.GrossSalary, p.NetSalary, p.AdvancePaid, p.AdvanceRecovered, p.Status, p.Notes,
	))
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23505" {
			return payroll.Payroll{}, payroll.ErrDuplicatePeriod
		}
		return payroll.Payroll{}, err
	}
	return created, nil
}

// GetByID implements payroll.PayrollRepository.
func (r *payrollRepositoryImpl) GetByID(ctx context.Context, id string) (payroll.Payroll, error) {
	q := database.QuerierFromContext(ctx, r.db)

	query := `SELECT ` + payrollColumns + ` FROM payrolls WHERE id = $1`

	p, err := scanPayroll(q.QueryRow(ctx, query, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return payroll.Payroll{}, payroll.ErrPayrollNotFound
		}
		return payroll.Payroll{}, err
	}
	return p, nil
}

// ExistsForPeriod implements payroll.PayrollRepository.
func (r *payrollRepositoryImpl) ExistsForPeriod(ctx context.Context, userID, projectID string, periodStart, periodEnd time.Time) (bool, error) {
	q := database.QuerierFromContext(ctx, r.db)

	query := `
		SELECT EXISTS(
			SELECT 1 FROM payrolls
			WHERE user_id = $1 AND project_id = $2 AND period_start = $3 AND period_end = $4
		)`

	var exists bool
	if err := q.QueryRow(ctx, query, userID, projectID, periodStart, periodEnd).Scan(&exists); err != nil {
		return false, err
	}
	return exists, nil
}

// GetLatestByUserAndProject implements payroll.PayrollRepository.
func (r *payrollRepositoryImpl) GetLatestByUserAndProject(ctx context.Context, userID, projectID string) (payroll.Payroll, error) {
	q := database.QuerierFromContext(ctx, r.db)

	query := `
		SELECT ` + payrollColumns + `
		FROM payrolls
		WHERE user_id = $1 AND project_id = $2
		ORDER BY period_end DESC
		LIMIT 1`

	p, err := scanPayroll(q.QueryRow(ctx, query, userID, projectID))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return payroll.Payroll{}, payroll.ErrPayrollNotFound
		}
		return payroll.Payroll{}, err
	}
	return p, nil
}

// List implements payroll.PayrollRepository.
func (r *payrollRepositoryImpl) List(ctx context.Context, filter payroll.PayrollFilter) ([]payroll.Payroll, int64, error) {
	q := database.QuerierFromContext(ctx, r.db)

	where := ` WHERE 1=1`
	args := []interface{}{}
	argPos := 1

	if filter.UserID != nil {
		where += fmt.Sprintf(" AND user_id = $%d", argPos)
		args = append(args, *filter.UserID)
		argPos++
	}
	if filter.ProjectID != nil {
		where += fmt.Sprintf(" AND project_id = $%d", argPos)
		args = append(args, *filter.ProjectID)
		argPos++
	}
	if filter.Status != nil {
		where += fmt.Sprintf(" AND status = $%d", argPos)
		args = append(args, *filter.Status)
		argPos++
	}

	var total int64
	if err := q.QueryRow(ctx, `SELECT COUNT(*) FROM payrolls`+where, args...).Scan(&total); err != nil {
		return nil, 0, err
	}

	query := `SELECT ` + payrollColumns + ` FROM payrolls` + where +
		fmt.Sprintf(" ORDER BY period_end DESC, created_at DESC LIMIT $%d OFFSET $%d", argPos, argPos+1)
	args = append(args, filter.Limit, (filter.Page-1)*filter.Limit)

	rows, err := q.Query(ctx, query, args...)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()

	var payrolls []payroll.Payroll
	for rows.Next() {
		p, err := scanPayroll(rows)
		if err != nil {
			return nil, 0, err
		}
		payrolls = append(payrolls, p)
	}
	return payrolls, total, rows.Err()
}

// Update implements payroll.PayrollRepository.
func (r *payrollRepositoryImpl) Update(ctx context.Context, p payroll.Payroll) error {
	q := database.QuerierFromContext(ctx, r.db)

	allowances, err := encodeLineItems(p.Allowances)
	if err != nil {
		return fmt.Errorf("encode allowances: %w", err)
	}
	deductions, err := encodeLineItems(p.Deductions)
	if err != nil {
		return fmt.Errorf("encode deductions: %w", err)
	}

	query := `
		UPDATE payrolls
		SET allowances = $1, deductions = $2, total_allowances = $3, total_deductions = $4,
		    gross_salary = $5, net_salary = $6, advance_paid = $7, advance_recovered = $8,
		    status = $9, payment_method = $10, payment_reference = $11, paid_at = $12, paid_by = $13,
		    notes = $14, updated_at = NOW()
		WHERE id = $15`

	tag, err := q.Exec(ctx, query,
		allowances, deductions, p.TotalAllowances, p.TotalDeductions,
		p.GrossSalary, p.NetSalary, p.AdvancePaid, p.AdvanceRecovered,
		p.Status, p.PaymentMethod, p.PaymentReference, p.PaidAt, p.PaidBy,
		p.Notes, p.ID,
	)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return payroll.ErrPayrollNotFound
	}
	return nil
}

// Delete implements payroll.PayrollRepository.
func (r *payrollRepositoryImpl) Delete(ctx context.Context, id string) error {
	q := database.QuerierFromContext(ctx, r.db)

	tag, err := q.Exec(ctx, `DELETE FROM payrolls WHERE id = $1`, id)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return payroll.ErrPayrollNotFound
	}
	return nil
}
