package postgresql

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"

	"github.com/sitecrew/siteworks-backend-go/internal/domain/advance"
	"github.com/sitecrew/siteworks-backend-go/internal/pkg/database"
)

type advanceRepositoryImpl struct {
	db *database.DB
}

func NewAdvanceRepository(db *database.DB) advance.AdvanceRepository {
	return &advanceRepositoryImpl{db: db}
}

const advanceColumns = `id, user_id, project_id, amount, reason, given_date, amount_recovered, recovery_status, created_at, updated_at`

func scanAdvance(row pgx.Row) (advance.Advance, error) {
	var a advance.Advance
	err := row.Scan(
		&a.ID,
		&a.UserID,
		&a.ProjectID,
		&a.Amount,
		&a.Reason,
		&a.GivenDate,
		&a.AmountRecovered,
		&a.RecoveryStatus,
		&a.CreatedAt,
		&a.UpdatedAt,
	)
	return a, err
}

// Create implements advance.AdvanceRepository.
func (r *advanceRepositoryImpl) Create(ctx context.Context, a advance.Advance) (advance.Advance, error) {
	q := database.QuerierFromContext(ctx, r.db)

	query := `
		INSERT INTO advances (user_id, project_id, amount, reason, given_date, amount_recovered, recovery_status)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		RETURNING ` + advanceColumns

	created, err := scanAdvance(q.QueryRow(ctx, query,
		a.UserID, a.ProjectID, a.Amount, a.Reason, a.GivenDate, a.AmountRecovered, a.RecoveryStatus,
	))
	if err != nil {
		return advance.Advance{}, err
	}
	return created, nil
}

// GetByID implements advance.AdvanceRepository.
func (r *advanceRepositoryImpl) GetByID(ctx context.Context, id string) (advance.Advance, error) {
	q := database.QuerierFromContext(ctx, r.db)

	query := `SELECT ` + advanceColumns + ` FROM advances WHERE id = $1`

	a, err := scanAdvance(q.QueryRow(ctx, query, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return advance.Advance{}, advance.ErrAdvanceNotFound
		}
		return advance.Advance{}, err
	}
	return a, nil
}

func (r *advanceRepositoryImpl) listAdvances(ctx context.Context, query string, args ...interface{}) ([]advance.Advance, error) {
	q := database.QuerierFromContext(ctx, r.db)

	rows, err := q.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var advances []advance.Advance
	for rows.Next() {
		a, err := scanAdvance(rows)
		if err != nil {
			return nil, err
		}
		advances = append(advances, a)
	}
	return advances, rows.Err()
}

// ListByUserAndProject implements advance.AdvanceRepository.
func (r *advanceRepositoryImpl) ListByUserAndProject(ctx context.Context, userID, projectID string) ([]advance.Advance, error) {
	query := `
		SELECT ` + advanceColumns + `
		FROM advances
		WHERE user_id = $1 AND project_id = $2
		ORDER BY given_date`
	return r.listAdvances(ctx, query, userID, projectID)
}

// ListOutstanding implements advance.AdvanceRepository. The given_date
// ordering drives FIFO recovery.
func (r *advanceRepositoryImpl) ListOutstanding(ctx context.Context, userID, projectID string) ([]advance.Advance, error) {
	query := `
		SELECT ` + advanceColumns + `
		FROM advances
		WHERE user_id = $1 AND project_id = $2 AND recovery_status <> 'recovered'
		ORDER BY given_date, created_at`
	return r.listAdvances(ctx, query, userID, projectID)
}

// Update implements advance.AdvanceRepository.
func (r *advanceRepositoryImpl) Update(ctx context.Context, a advance.Advance) error {
	q := database.QuerierFromContext(ctx, r.db)

	query := `
		UPDATE advances
		SET amount = $1, reason = $2, amount_recovered = $3, recovery_status = $4, updated_at = NOW()
		WHERE id = $5`

	tag, err := q.Exec(ctx, query, a.Amount, a.Reason, a.AmountRecovered, a.RecoveryStatus, a.ID)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return advance.ErrAdvanceNotFound
	}
	return nil
}

// Delete implements advance.AdvanceRepository.
func (r *advanceRepositoryImpl) Delete(ctx context.Context, id string) error {
	q := database.QuerierFromContext(ctx, r.db)

	tag, err := q.Exec(ctx, `DELETE FROM advances WHERE id = $1`, id)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return advance.ErrAdvanceNotFound
	}
	return nil
}
