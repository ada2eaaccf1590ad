package attendance

import "time"

type EntryKind string

const (
	KindCheckIn  EntryKind = "check_in"
	KindCheckOut EntryKind = "check_out"
)

// AttendanceRecord is the per user×project ledger head. It is created
// lazily on the first submission and only ever grows (admin repairs
// excepted).
type AttendanceRecord struct {
	ID        string
	UserID    string
	ProjectID string
	CreatedAt time.Time
	UpdatedAt time.Time
}

// HistoryEntry is one check-in or check-out event. EditedBy/EditedAt are
// set only when an admin has repaired the entry; insertion order is the
// intended chronological order.
type HistoryEntry struct {
	ID         string
	RecordID   string
	Kind       EntryKind
	Latitude   float64
	Longitude  float64
	PhotoURL   *string
	OccurredAt time.Time
	EditedBy   *string
	EditedAt   *time.Time
	CreatedAt  time.Time
}

// Policy carries the deployment policy the ledger depends on: the
// default geofence radius and which weekdays are rest days. Rest days
// are excluded from the working-day denominator.
type Policy struct {
	GeofenceRadiusMeters float64
	RestDays             map[time.Weekday]bool
}

// IsRestDay reports whether d (evaluated in UTC) is a rest day.
func (p Policy) IsRestDay(d time.Time) bool {
	return p.RestDays[d.UTC().Weekday()]
}

// DaySummary is one present calendar day within a summary period.
type DaySummary struct {
	Date     time.Time
	CheckIn  time.Time
	CheckOut time.Time
	Minutes  int
	Hours    float64
}

// Summary is the derived attendance aggregate a payroll settlement
// consumes.
type Summary struct {
	UserID           string
	ProjectID        string
	PeriodStart      time.Time
	PeriodEnd        time.Time
	TotalWorkingDays int
	PresentDays      int
	AbsentDays       int
	TotalMinutes     int
	TotalHours       float64
	Days             []DaySummary
}
