package attendance

import (
	"math"
	"sort"
	"time"
)

// ComputeWorkingTime folds a chronological entry sequence into worked
// minutes. The fold is deliberately lenient: a duplicate check-in
// overwrites the open interval (last check-in wins) instead of erroring,
// so summaries stay readable even after admin repairs leave anomalies
// behind. Submission-time validation is the strict counterpart.
// An unmatched trailing check-in contributes nothing.
func ComputeWorkingTime(entries []HistoryEntry) (totalMinutes int, totalHours float64) {
	sorted := sortedByTime(entries)

	var lastCheckIn *time.Time
	for _, e := range sorted {
		switch e.Kind {
		case KindCheckIn:
			t := e.OccurredAt
			lastCheckIn = &t
		case KindCheckOut:
			if lastCheckIn != nil {
				mins := int(e.OccurredAt.Sub(*lastCheckIn).Minutes())
				if mins > 0 {
					totalMinutes += mins
				}
				lastCheckIn = nil
			}
		}
	}

	return totalMinutes, roundHours(totalMinutes)
}

// BuildSummary derives the attendance aggregate for a settlement period.
// Entries outside [periodStart, periodEnd] (inclusive) are ignored; days
// are grouped on the UTC calendar. A day is present when it has at least
// one check-in and one check-out. The working-day denominator excludes
// rest days per policy; absent days are floored at zero so accidental
// rest-day presence never yields a negative count.
func BuildSummary(userID, projectID string, entries []HistoryEntry, periodStart, periodEnd time.Time, policy Policy) Summary {
	sorted := sortedByTime(entries)

	byDay := make(map[string][]HistoryEntry)
	var dayKeys []string
	for _, e := range sorted {
		if e.OccurredAt.Before(periodStart) || e.OccurredAt.After(periodEnd) {
			continue
		}
		key := e.OccurredAt.UTC().Format("2006-01-02")
		if _, seen := byDay[key]; !seen {
			dayKeys = append(dayKeys, key)
		}
		byDay[key] = append(byDay[key], e)
	}
	sort.Strings(dayKeys)

	summary := Summary{
		UserID:      userID,
		ProjectID:   projectID,
		PeriodStart: periodStart,
		PeriodEnd:   periodEnd,
	}

	for _, key := range dayKeys {
		dayEntries := byDay[key]

		var firstIn, lastOut *time.Time
		for _, e := range dayEntries {
			switch e.Kind {
			case KindCheckIn:
				if firstIn == nil {
					t := e.OccurredAt
					firstIn = &t
				}
			case KindCheckOut:
				t := e.OccurredAt
				lastOut = &t
			}
		}
		if firstIn == nil || lastOut == nil {
			continue
		}

		minutes, _ := ComputeWorkingTime(dayEntries)
		date, _ := time.Parse("2006-01-02", key)

		summary.PresentDays++
		summary.TotalMinutes += minutes
		summary.Days = append(summary.Days, DaySummary{
			Date:     date,
			CheckIn:  *firstIn,
			CheckOut: *lastOut,
			Minutes:  minutes,
			Hours:    roundHours(minutes),
		})
	}

	summary.TotalWorkingDays = countWorkingDays(periodStart, periodEnd, policy)
	summary.AbsentDays = summary.TotalWorkingDays - summary.PresentDays
	if summary.AbsentDays < 0 {
		summary.AbsentDays = 0
	}
	summary.TotalHours = roundHours(summary.TotalMinutes)

	return summary
}

// countWorkingDays counts the non-rest calendar days in [start, end] on
// the UTC calendar.
func countWorkingDays(start, end time.Time, policy Policy) int {
	day := time.Date(start.UTC().Year(), start.UTC().Month(), start.UTC().Day(), 0, 0, 0, 0, time.UTC)
	last := time.Date(end.UTC().Year(), end.UTC().Month(), end.UTC().Day(), 0, 0, 0, 0, time.UTC)

	count := 0
	for !day.After(last) {
		if !policy.IsRestDay(day) {
			count++
		}
		day = day.AddDate(0, 0, 1)
	}
	return count
}

func sortedByTime(entries []HistoryEntry) []HistoryEntry {
	sorted := make([]HistoryEntry, len(entries))
	copy(sorted, entries)
	sort.SliceStable(sorted, func(i, j int) bool {
		return sorted[i].OccurredAt.Before(sorted[j].OccurredAt)
	})
	return sorted
}

func roundHours(minutes int) float64 {
	return math.Round(float64(minutes)/60.0*100) / 100
}
