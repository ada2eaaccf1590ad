package attendance

import (
	"context"
	"time"
)

// AttendanceRepository persists the append-only per user×project ledger.
type AttendanceRepository interface {
	// GetOrCreateRecord returns the ledger head for (userID, projectID),
	// creating it lazily on first use.
	GetOrCreateRecord(ctx context.Context, userID, projectID string) (AttendanceRecord, error)

	// GetRecord returns the ledger head; ErrRecordNotFound if absent.
	GetRecord(ctx context.Context, userID, projectID string) (AttendanceRecord, error)

	// AppendEntry appends one entry to a record.
	AppendEntry(ctx context.Context, entry HistoryEntry) (HistoryEntry, error)

	// ListEntries returns all entries of a record ordered by occurred_at.
	ListEntries(ctx context.Context, recordID string) ([]HistoryEntry, error)

	// ListEntriesInRange returns entries with occurred_at in [from, to],
	// ordered by occurred_at.
	ListEntriesInRange(ctx context.Context, recordID string, from, to time.Time) ([]HistoryEntry, error)

	// LastEntry returns the newest entry of a record; ErrEntryNotFound
	// when the ledger is empty.
	LastEntry(ctx context.Context, recordID string) (HistoryEntry, error)

	// LastEntryOfDay returns the newest entry whose occurred_at falls on
	// the given UTC calendar day; ErrEntryNotFound when that day is empty.
	LastEntryOfDay(ctx context.Context, recordID string, day time.Time) (HistoryEntry, error)

	// GetEntryByID returns one entry by id.
	GetEntryByID(ctx context.Context, entryID string) (HistoryEntry, error)

	// UpdateEntry rewrites kind/occurred_at/edit audit fields of an entry.
	UpdateEntry(ctx context.Context, entry HistoryEntry) error

	// DeleteEntry removes a single entry.
	DeleteEntry(ctx context.Context, entryID string) error
}
