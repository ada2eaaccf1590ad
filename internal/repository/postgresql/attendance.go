package postgresql

import (
	"context"
	"errors"
	"time"

	"github.com/jackc/pgx/v5"

	"github.com/sitecrew/siteworks-backend-go/internal/domain/attendance"
	"github.com/sitecrew/siteworks-backend-go/internal/pkg/database"
)

type attendanceRepositoryImpl struct {
	db *database.DB
}

func NewAttendanceRepository(db *database.DB) attendance.AttendanceRepository {
	return &attendanceRepositoryImpl{db: db}
}

const entryColumns = `id, record_id, kind, latitude, longitude, photo_url, occurred_at, edited_by, edited_at, created_at`

func scanEntry(row pgx.Row) (attendance.HistoryEntry, error) {
	var e attendance.HistoryEntry
	err := row.Scan(
		&e.ID,
		&e.RecordID,
		&e.Kind,
		&e.Latitude,
		&e.Longitude,
		&e.PhotoURL,
		&e.OccurredAt,
		&e.EditedBy,
		&e.EditedAt,
		&e.CreatedAt,
	)
	return e, err
}

// GetOrCreateRecord implements attendance.AttendanceRepository. The
// upsert keeps concurrent first submissions from racing to two records.
func (r *attendanceRepositoryImpl) GetOrCreateRecord(ctx context.Context, userID, projectID string) (attendance.AttendanceRecord, error) {
	q := database.QuerierFromContext(ctx, r.db)

	query := `
		INSERT INTO attendance_records (user_id, project_id)
		VALUES ($1, $2)
		ON CONFLICT (user_id, project_id) DO UPDATE SET updated_at = NOW()
		RETURNING id, user_id, project_id, created_at, updated_at`

	var record attendance.AttendanceRecord
	err := q.QueryRow(ctx, query, userID, projectID).Scan(
		&record.ID,
		&record.UserID,
		&record.ProjectID,
		&record.CreatedAt,
		&record.UpdatedAt,
	)
	if err != nil {
		return attendance.AttendanceRecord{}, err
	}
	return record, nil
}

// GetRecord implements attendance.AttendanceRepository.
func (r *attendanceRepositoryImpl) GetRecord(ctx context.Context, userID, projectID string) (attendance.AttendanceRecord, error) {
	q := database.QuerierFromContext(ctx, r.db)

	query := `
		SELECT id, user_id, project_id, created_at, updated_at
		FROM attendance_records
		WHERE user_id = $1 AND project_id = $2`

	var record attendance.AttendanceRecord
	err := q.QueryRow(ctx, query, userID, projectID).Scan(
		&record.ID,
		&record.UserID,
		&record.ProjectID,
		&record.CreatedAt,
		&record.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return attendance.AttendanceRecord{}, attendance.ErrRecordNotFound
		}
		return attendance.AttendanceRecord{}, err
	}
	return record, nil
}

// AppendEntry implements attendance.AttendanceRepository.
func (r *attendanceRepositoryImpl) AppendEntry(ctx context.Context, entry attendance.HistoryEntry) (attendance.HistoryEntry, error) {
	q := database.QuerierFromContext(ctx, r.db)

	query := `
		INSERT INTO attendance_entries (record_id, kind, latitude, longitude, photo_url, occurred_at, edited_by, edited_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		RETURNING ` + entryColumns

	created, err := scanEntry(q.QueryRow(ctx, query,
		entry.RecordID, entry.Kind, entry.Latitude, entry.Longitude,
		entry.PhotoURL, entry.OccurredAt, entry.EditedBy, entry.EditedAt,
	))
	if err != nil {
		return attendance.HistoryEntry{}, err
	}
	return created, nil
}

func (r *attendanceRepositoryImpl) listEntries(ctx context.Context, query string, args ...interface{}) ([]attendance.HistoryEntry, error) {
	q := database.QuerierFromContext(ctx, r.db)

	rows, err := q.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var entries []attendance.HistoryEntry
	for rows.Next() {
		e, err := scanEntry(rows)
		if err != nil {
			return nil, err
		}
		entries = append(entries, e)
	}
	return entries, rows.Err()
}

// ListEntries implements attendance.AttendanceRepository.
func (r *attendanceRepositoryImpl) ListEntries(ctx context.Context, recordID string) ([]attendance.HistoryEntry, error) {
	query := `
		SELECT ` + entryColumns + `
		FROM attendance_entries
		WHERE record_id = $1
		ORDER BY occurred_at`
	return r.listEntries(ctx, query, recordID)
}

// ListEntriesInRange implements attendance.AttendanceRepository.
func (r *attendanceRepositoryImpl) ListEntriesInRange(ctx context.Context, recordID string, from, to time.Time) ([]attendance.HistoryEntry, error) {
	query := `
		SELECT ` + entryColumns + `
		FROM attendance_entries
		WHERE record_id = $1 AND occurred_at >= $2 AND occurred_at <= $3
		ORDER BY occurred_at`
	return r.listEntries(ctx, query, recordID, from, to)
}

// LastEntry implements attendance.AttendanceRepository.
func (r *attendanceRepositoryImpl) LastEntry(ctx context.Context, recordID string) (attendance.HistoryEntry, error) {
	q := database.QuerierFromContext(ctx, r.db)

	query := `
		SELECT ` + entryColumns + `
		FROM attendance_entries
		WHERE record_id = $1
		ORDER BY occurred_at DESC
		LIMIT 1`

	e, err := scanEntry(q.QueryRow(ctx, query, recordID))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return attendance.HistoryEntry{}, attendance.ErrEntryNotFound
		}
		return attendance.HistoryEntry{}, err
	}
	return e, nil
}

// LastEntryOfDay implements attendance.AttendanceRepository. Days are
// UTC calendar days.
func (r *attendanceRepositoryImpl) LastEntryOfDay(ctx context.Context, recordID string, day time.Time) (attendance.HistoryEntry, error) {
	q := database.QuerierFromContext(ctx, r.db)

	dayStart := time.Date(day.UTC().Year(), day.UTC().Month(), day.UTC().Day(), 0, 0, 0, 0, time.UTC)
	dayEnd := dayStart.Add(24 * time.Hour)

	query := `
		SELECT ` + entryColumns + `
		FROM attendance_entries
		WHERE record_id = $1 AND occurred_at >= $2 AND occurred_at < $3
		ORDER BY occurred_at DESC
		LIMIT 1`

	e, err := scanEntry(q.QueryRow(ctx, query, recordID, dayStart, dayEnd))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return attendance.HistoryEntry{}, attendance.ErrEntryNotFound
		}
		return attendance.HistoryEntry{}, err
	}
	return e, nil
}

// GetEntryByID implements attendance.AttendanceRepository.
func (r *attendanceRepositoryImpl) GetEntryByID(ctx context.Context, entryID string) (attendance.HistoryEntry, error) {
	q := database.QuerierFromContext(ctx, r.db)

	query := `SELECT ` + entryColumns + ` FROM attendance_entries WHERE id = $1`

	e, err := scanEntry(q.QueryRow(ctx, query, entryID))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return attendance.HistoryEntry{}, attendance.ErrEntryNotFound
		}
		return attendance.HistoryEntry{}, err
	}
	return e, nil
}

// UpdateEntry implements attendance.AttendanceRepository.
func (r *attendanceRepositoryImpl) UpdateEntry(ctx context.Context, entry attendance.HistoryEntry) error {
	q := database.QuerierFromContext(ctx, r.db)

	query := `
		UPDATE attendance_entries
		SET kind = $1, occurred_at = $2, edited_by = $3, edited_at = $4
		WHERE id = $5`

	tag, err := q.Exec(ctx, query, entry.Kind, entry.OccurredAt, entry.EditedBy, entry.EditedAt, entry.ID)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return attendance.ErrEntryNotFound
	}
	return nil
}

// DeleteEntry implements attendance.AttendanceRepository.
func (r *attendanceRepositoryImpl) DeleteEntry(ctx context.Context, entryID string) error {
	q := database.QuerierFromContext(ctx, r.db)

	tag, err := q.Exec(ctx, `DELETE FROM attendance_entries WHERE id = $1`, entryID)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return attendance.ErrEntryNotFound
	}
	return nil
}
