package attendance

import (
	"errors"
	"fmt"
)

// Attendance domain errors
var (
	// Submission sequencing
	ErrAlreadyCheckedIn = errors.New("already checked in, check out first")
	ErrNoOpenCheckIn    = errors.New("no open check-in to check out from")

	// Admin repair ordering
	ErrEntryNotAfterDayLast = errors.New("entry timestamp must be later than the last entry of that day")
	ErrSameKindAsDayLast    = errors.New("entry kind must differ from the last entry of that day")
	ErrCheckOutOpensDay     = errors.New("a check-out cannot be the first entry of a day")

	// General
	ErrRecordNotFound = errors.New("attendance record not found")
	ErrEntryNotFound  = errors.New("attendance entry not found")
)

// OutOfRangeError is a geofence rejection. It carries the computed
// distance and the enforced radius so the caller can see by how much the
// submission missed.
type OutOfRangeError struct {
	DistanceMeters float64
	RadiusMeters   float64
}

func (e *OutOfRangeError) Error() string {
	return fmt.Sprintf("location is out of range: %.2fm from site, allowed %.2fm", e.DistanceMeters, e.RadiusMeters)
}
