package attendance

import (
	"context"
	"time"
)

// AttendanceService is the ledger's business surface.
type AttendanceService interface {
	// SubmitEntry is the sole normal-path mutation: geofence-checked,
	// strictly alternating check-in/check-out append.
	SubmitEntry(ctx context.Context, req SubmitEntryRequest) (SubmitEntryResponse, error)

	// GetMyEntries returns the caller's ledger for a project.
	GetMyEntries(ctx context.Context, projectID string) ([]EntryResponse, error)

	// GetEntries returns any user's ledger for a project; the repair and
	// review surfaces read through it.
	GetEntries(ctx context.Context, userID, projectID string) ([]EntryResponse, error)

	// GetWorkingTime folds a user's entries over a period into total
	// minutes/hours.
	GetWorkingTime(ctx context.Context, userID, projectID string, from, to time.Time) (WorkingTimeResponse, error)

	// GetAttendanceSummary derives present/absent days and hours for a
	// settlement period.
	GetAttendanceSummary(ctx context.Context, userID, projectID string, periodStart, periodEnd time.Time) (Summary, error)

	// InsertEntry is the audited admin repair path (per-day ordering
	// rules, no geofence).
	InsertEntry(ctx context.Context, req InsertEntryRequest) (EntryResponse, error)

	// UpdateEntry edits one entry by id, bypassing sequencing checks.
	UpdateEntry(ctx context.Context, req UpdateEntryRequest) (EntryResponse, error)

	// DeleteEntry removes one entry by id.
	DeleteEntry(ctx context.Context, entryID string) error
}
