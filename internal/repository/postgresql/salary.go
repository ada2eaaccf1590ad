package postgresql

import (
	"context"
	"errors"
	"time"

	"github.com/jackc/pgx/v5"

	"github.com/sitecrew/siteworks-backend-go/internal/domain/salary"
	"github.com/sitecrew/siteworks-backend-go/internal/pkg/database"
)

type salaryStructureRepositoryImpl struct {
	db *database.DB
}

func NewSalaryStructureRepository(db *database.DB) salary.SalaryStructureRepository {
	return &salaryStructureRepositoryImpl{db: db}
}

const structureColumns = `id, user_id, project_id, salary_type, base_rate, overtime_rate, effective_from, effective_to, is_active, created_at, updated_at`

func scanStructure(row pgx.Row) (salary.SalaryStructure, error) {
	var s salary.SalaryStructure
	err := row.Scan(
		&s.ID,
		&s.UserID,
		&s.ProjectID,
		&s.SalaryType,
		&s.BaseRate,
		&s.OvertimeRate,
		&s.EffectiveFrom,
		&s.EffectiveTo,
		&s.IsActive,
		&s.CreatedAt,
		&s.UpdatedAt,
	)
	return s, err
}

// Create implements salary.SalaryStructureRepository.
func (r *salaryStructureRepositoryImpl) Create(ctx context.Context, s salary.SalaryStructure) (salary.SalaryStructure, error) {
	q := database.QuerierFromContext(ctx, r.db)

	query := `
		INSERT INTO salary_structures (user_id, project_id, salary_type, base_rate, overtime_rate, effective_from, is_active)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		RETURNING ` + structureColumns

	created, err := scanStructure(q.QueryRow(ctx, query,
		s.UserID, s.ProjectID, s.SalaryType, s.BaseRate, s.OvertimeRate, s.EffectiveFrom, s.IsActive,
	))
	if err != nil {
		return salary.SalaryStructure{}, err
	}
	return created, nil
}

// GetActive implements salary.SalaryStructureRepository.
func (r *salaryStructureRepositoryImpl) GetActive(ctx context.Context, userID, projectID string) (salary.SalaryStructure, error) {
	q := database.QuerierFromContext(ctx, r.db)

	query := `
		SELECT ` + structureColumns + `
		FROM salary_structures
		WHERE user_id = $1 AND project_id = $2 AND is_active`

	s, err := scanStructure(q.QueryRow(ctx, query, userID, projectID))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return salary.SalaryStructure{}, salary.ErrNoActiveStructure
		}
		return salary.SalaryStructure{}, err
	}
	return s, nil
}

func (r *salaryStructureRepositoryImpl) listStructures(ctx context.Context, query string, args ...interface{}) ([]salary.SalaryStructure, error) {
	q := database.QuerierFromContext(ctx, r.db)

	rows, err := q.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var structures []salary.SalaryStructure
	for rows.Next() {
		s, err := scanStructure(rows)
		if err != nil {
			return nil, err
		}
		structures = append(structures, s)
	}
	return structures, rows.Err()
}

// ListActiveByProject implements salary.SalaryStructureRepository.
func (r *salaryStructureRepositoryImpl) ListActiveByProject(ctx context.Context, projectID string) ([]salary.SalaryStructure, error) {
	query := `
		SELECT ` + structureColumns + `
		FROM salary_structures
		WHERE project_id = $1 AND is_active
		ORDER BY created_at`
	return r.listStructures(ctx, query, projectID)
}

// ListByUserAndProject implements salary.SalaryStructureRepository.
func (r *salaryStructureRepositoryImpl) ListByUserAndProject(ctx context.Context, userID, projectID string) ([]salary.SalaryStructure, error) {
	query := `
		SELECT ` + structureColumns + `
		FROM salary_structures
		WHERE user_id = $1 AND project_id = $2
		ORDER BY effective_from DESC`
	return r.listStructures(ctx, query, userID, projectID)
}

// DeactivateActive implements salary.SalaryStructureRepository.
func (r *salaryStructureRepositoryImpl) DeactivateActive(ctx context.Context, userID, projectID string, closedAt time.Time) error {
	q := database.QuerierFromContext(ctx, r.db)

	query := `
		UPDATE salary_structures
		SET is_active = FALSE, effective_to = $1, updated_at = NOW()
		WHERE user_id = $2 AND project_id = $3 AND is_active`

	_, err := q.Exec(ctx, query, closedAt, userID, projectID)
	return err
}
