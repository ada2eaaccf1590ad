package attendance

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func entry(kind EntryKind, at time.Time) HistoryEntry {
	return HistoryEntry{Kind: kind, OccurredAt: at}
}

func day(y int, m time.Month, d, hour, min int) time.Time {
	return time.Date(y, m, d, hour, min, 0, 0, time.UTC)
}

func TestComputeWorkingTime_SingleShift(t *testing.T) {
	entries := []HistoryEntry{
		entry(KindCheckIn, day(2026, time.March, 2, 8, 0)),
		entry(KindCheckOut, day(2026, time.March, 2, 16, 0)),
	}

	minutes, hours := ComputeWorkingTime(entries)

	assert.Equal(t, 480, minutes)
	assert.Equal(t, 8.0, hours)
}

func TestComputeWorkingTime_SplitShift(t *testing.T) {
	entries := []HistoryEntry{
		entry(KindCheckIn, day(2026, time.March, 2, 8, 0)),
		entry(KindCheckOut, day(2026, time.March, 2, 12, 0)),
		entry(KindCheckIn, day(2026, time.March, 2, 13, 0)),
		entry(KindCheckOut, day(2026, time.March, 2, 16, 30)),
	}

	minutes, hours := ComputeWorkingTime(entries)

	assert.Equal(t, 450, minutes)
	assert.Equal(t, 7.5, hours)
}

func TestComputeWorkingTime_DuplicateCheckInLastWins(t *testing.T) {
	// An admin repair can leave two consecutive check-ins behind. The
	// fold pairs the check-out with the most recent check-in.
	entries := []HistoryEntry{
		entry(KindCheckIn, day(2026, time.March, 2, 8, 0)),
		entry(KindCheckIn, day(2026, time.March, 2, 9, 0)),
		entry(KindCheckOut, day(2026, time.March, 2, 16, 0)),
	}

	minutes, _ := ComputeWorkingTime(entries)

	assert.Equal(t, 420, minutes)
}

func TestComputeWorkingTime_TrailingCheckInIgnored(t *testing.T) {
	entries := []HistoryEntry{
		entry(KindCheckIn, day(2026, time.March, 2, 8, 0)),
		entry(KindCheckOut, day(2026, time.March, 2, 12, 0)),
		entry(KindCheckIn, day(2026, time.March, 2, 13, 0)),
	}

	minutes, _ := ComputeWorkingTime(entries)

	assert.Equal(t, 240, minutes)
}

func TestComputeWorkingTime_OrphanCheckOutIgnored(t *testing.T) {
	entries := []HistoryEntry{
		entry(KindCheckOut, day(2026, time.March, 2, 12, 0)),
		entry(KindCheckIn, day(2026, time.March, 2, 13, 0)),
		entry(KindCheckOut, day(2026, time.March, 2, 17, 0)),
	}

	minutes, _ := ComputeWorkingTime(entries)

	assert.Equal(t, 240, minutes)
}

func TestComputeWorkingTime_UnsortedInput(t *testing.T) {
	entries := []HistoryEntry{
		entry(KindCheckOut, day(2026, time.March, 2, 16, 0)),
		entry(KindCheckIn, day(2026, time.March, 2, 8, 0)),
	}

	minutes, _ := ComputeWorkingTime(entries)

	assert.Equal(t, 480, minutes)
}

func sundayRestPolicy() Policy {
	return Policy{
		GeofenceRadiusMeters: 10,
		RestDays:             map[time.Weekday]bool{time.Sunday: true},
	}
}

func TestBuildSummary_CountsPresentAndAbsentDays(t *testing.T) {
	periodStart := day(2026, time.March, 1, 0, 0)
	periodEnd := day(2026, time.March, 31, 23, 59)

	// Two full days worked, one day with only a check-in.
	entries := []HistoryEntry{
		entry(KindCheckIn, day(2026, time.March, 2, 8, 0)),
		entry(KindCheckOut, day(2026, time.March, 2, 16, 0)),
		entry(KindCheckIn, day(2026, time.March, 3, 8, 0)),
		entry(KindCheckOut, day(2026, time.March, 3, 17, 0)),
		entry(KindCheckIn, day(2026, time.March, 4, 8, 0)),
	}

	s := BuildSummary("u1", "p1", entries, periodStart, periodEnd, sundayRestPolicy())

	// March 2026 has 31 days and 5 Sundays.
	assert.Equal(t, 26, s.TotalWorkingDays)
	assert.Equal(t, 2, s.PresentDays)
	assert.Equal(t, 24, s.AbsentDays)
	assert.Equal(t, 480+540, s.TotalMinutes)
	assert.Equal(t, 17.0, s.TotalHours)
	assert.Len(t, s.Days, 2)
	assert.Equal(t, day(2026, time.March, 2, 8, 0), s.Days[0].CheckIn)
	assert.Equal(t, day(2026, time.March, 2, 16, 0), s.Days[0].CheckOut)
}

func TestBuildSummary_EntriesOutsidePeriodIgnored(t *testing.T) {
	periodStart := day(2026, time.March, 1, 0, 0)
	periodEnd := day(2026, time.March, 31, 23, 59)

	entries := []HistoryEntry{
		entry(KindCheckIn, day(2026, time.February, 27, 8, 0)),
		entry(KindCheckOut, day(2026, time.February, 27, 16, 0)),
		entry(KindCheckIn, day(2026, time.April, 1, 8, 0)),
		entry(KindCheckOut, day(2026, time.April, 1, 16, 0)),
	}

	s := BuildSummary("u1", "p1", entries, periodStart, periodEnd, sundayRestPolicy())

	assert.Equal(t, 0, s.PresentDays)
	assert.Equal(t, 26, s.AbsentDays)
	assert.Empty(t, s.Days)
}

func TestBuildSummary_RestDayPresenceNeverGoesNegative(t *testing.T) {
	// A one-day period on a Sunday with work on it. The denominator is
	// zero, so absent days floor at zero rather than going negative.
	periodStart := day(2026, time.March, 1, 0, 0)
	periodEnd := day(2026, time.March, 1, 23, 59)

	entries := []HistoryEntry{
		entry(KindCheckIn, day(2026, time.March, 1, 8, 0)),
		entry(KindCheckOut, day(2026, time.March, 1, 12, 0)),
	}

	s := BuildSummary("u1", "p1", entries, periodStart, periodEnd, sundayRestPolicy())

	assert.Equal(t, 0, s.TotalWorkingDays)
	assert.Equal(t, 1, s.PresentDays)
	assert.Equal(t, 0, s.AbsentDays)
}

func TestBuildSummary_NoEntries(t *testing.T) {
	periodStart := day(2026, time.March, 1, 0, 0)
	periodEnd := day(2026, time.March, 31, 23, 59)

	s := BuildSummary("u1", "p1", nil, periodStart, periodEnd, sundayRestPolicy())

	assert.Equal(t, "u1", s.UserID)
	assert.Equal(t, 26, s.TotalWorkingDays)
	assert.Equal(t, 26, s.AbsentDays)
	assert.Zero(t, s.TotalMinutes)
}
