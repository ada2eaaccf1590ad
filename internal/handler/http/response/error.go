package response

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/sitecrew/siteworks-backend-go/internal/domain/advance"
	"github.com/sitecrew/siteworks-backend-go/internal/domain/attendance"
	"github.com/sitecrew/siteworks-backend-go/internal/domain/auth"
	"github.com/sitecrew/siteworks-backend-go/internal/domain/payroll"
	"github.com/sitecrew/siteworks-backend-go/internal/domain/project"
	"github.com/sitecrew/siteworks-backend-go/internal/domain/salary"
	"github.com/sitecrew/siteworks-backend-go/internal/domain/user"
	"github.com/sitecrew/siteworks-backend-go/internal/pkg/validator"
)

// HandleError maps domain errors to HTTP responses
func HandleError(w http.ResponseWriter, err error) {
	var validationErrs validator.ValidationErrors
	if errors.As(err, &validationErrs) {
		ValidationError(w, validationErrs.ToMap())
		return
	}

	// Detail-carrying errors report the offending amounts back to the
	// caller.
	var outOfRange *attendance.OutOfRangeError
	if errors.As(err, &outOfRange) {
		BadRequest(w, "Location is outside the project geofence", map[string]string{
			"distance_meters": strconv.FormatFloat(outOfRange.DistanceMeters, 'f', 2, 64),
			"radius_meters":   strconv.FormatFloat(outOfRange.RadiusMeters, 'f', 2, 64),
		})
		return
	}

	var exceedsEarnings *payroll.RecoveryExceedsEarningsError
	if errors.As(err, &exceedsEarnings) {
		BadRequest(w, "Advance recovery exceeds net earnings for this period", map[string]string{
			"requested":           exceedsEarnings.Requested.String(),
			"net_before_recovery": exceedsEarnings.NetBeforeRecovery.String(),
		})
		return
	}

	var exceedsOutstanding *payroll.RecoveryExceedsOutstandingError
	if errors.As(err, &exceedsOutstanding) {
		BadRequest(w, "Advance recovery exceeds outstanding advance balance", map[string]string{
			"requested":   exceedsOutstanding.Requested.String(),
			"outstanding": exceedsOutstanding.Outstanding.String(),
		})
		return
	}

	var exceedsRemaining *advance.ExceedsRemainingError
	if errors.As(err, &exceedsRemaining) {
		BadRequest(w, "Recovery exceeds remaining advance balance", map[string]string{
			"requested": exceedsRemaining.Requested.String(),
			"remaining": exceedsRemaining.Remaining.String(),
		})
		return
	}

	var exceedsCapacity *advance.ExceedsPayrollCapacityError
	if errors.As(err, &exceedsCapacity) {
		BadRequest(w, "Recovery exceeds latest payroll capacity", map[string]string{
			"requested": exceedsCapacity.Requested.String(),
			"capacity":  exceedsCapacity.Capacity.String(),
		})
		return
	}

	switch {
	// Auth domain errors
	case errors.Is(err, auth.ErrInvalidCredentials):
		Unauthorized(w, "Invalid email or password")
	case errors.Is(err, auth.ErrInvalidToken):
		Unauthorized(w, "Invalid token")
	case errors.Is(err, auth.ErrTokenExpired):
		Unauthorized(w, "Token expired")
	case errors.Is(err, auth.ErrRefreshTokenRevoked):
		Unauthorized(w, "Refresh token revoked")
	case errors.Is(err, auth.ErrEmailNotVerified):
		Forbidden(w, "Email not verified")
	case errors.Is(err, auth.ErrInvalidOAuthState):
		BadRequest(w, "Invalid OAuth state", nil)

	// User domain errors
	case errors.Is(err, user.ErrUserNotFound):
		NotFound(w, "User not found")
	case errors.Is(err, user.ErrEmailExists):
		Conflict(w, "Email already registered")
	case errors.Is(err, user.ErrWorkerRoleRequired),
		errors.Is(err, user.ErrManagerAccessRequired),
		errors.Is(err, user.ErrRepairAccessRequired),
		errors.Is(err, user.ErrAdminAccessRequired),
		errors.Is(err, user.ErrInsufficientPermissions):
		Forbidden(w, err.Error())

	// Project domain errors
	case errors.Is(err, project.ErrProjectNotFound):
		NotFound(w, "Project not found")
	case errors.Is(err, project.ErrProjectCodeExists):
		Conflict(w, "Project code already exists")
	case errors.Is(err, project.ErrProjectNotActive):
		BadRequest(w, "Project is not active", nil)
	case errors.Is(err, project.ErrNoSiteLocation):
		BadRequest(w, "Project has no site location configured", nil)
	case errors.Is(err, project.ErrProjectHasPayrolls):
		Conflict(w, "Project has payrolls and cannot be deleted")

	// Attendance domain errors
	case errors.Is(err, attendance.ErrAlreadyCheckedIn):
		BadRequest(w, "Already checked in, check out first", nil)
	case errors.Is(err, attendance.ErrNoOpenCheckIn):
		BadRequest(w, "No open check-in to check out from", nil)
	case errors.Is(err, attendance.ErrEntryNotAfterDayLast):
		BadRequest(w, "Entry must be after the day's last entry", nil)
	case errors.Is(err, attendance.ErrSameKindAsDayLast):
		BadRequest(w, "Entry kind must alternate with the day's last entry", nil)
	case errors.Is(err, attendance.ErrCheckOutOpensDay):
		BadRequest(w, "A day cannot open with a check-out", nil)
	case errors.Is(err, attendance.ErrRecordNotFound):
		NotFound(w, "Attendance record not found")
	case errors.Is(err, attendance.ErrEntryNotFound):
		NotFound(w, "Attendance entry not found")

	// Salary domain errors
	case errors.Is(err, salary.ErrStructureNotFound):
		NotFound(w, "Salary structure not found")
	case errors.Is(err, salary.ErrNoActiveStructure):
		NotFound(w, "No active salary structure for this user and project")
	case errors.Is(err, salary.ErrInvalidSalaryType):
		BadRequest(w, "Invalid salary type", nil)

	// Payroll domain errors
	case errors.Is(err, payroll.ErrDuplicatePeriod):
		Conflict(w, "Payroll already exists for this period")
	case errors.Is(err, payroll.ErrPayrollNotFound):
		NotFound(w, "Payroll not found")
	case errors.Is(err, payroll.ErrAlreadyPaid):
		Conflict(w, "Payroll is already paid")
	case errors.Is(err, payroll.ErrNotPending):
		Conflict(w, "Payroll has left pending status")
	case errors.Is(err, payroll.ErrInvalidPeriod):
		BadRequest(w, "Period end must not be before period start", nil)

	// Advance domain errors
	case errors.Is(err, advance.ErrAdvanceNotFound):
		NotFound(w, "Advance not found")
	case errors.Is(err, advance.ErrAlreadyRecovered):
		Conflict(w, "Advance is already fully recovered")
	case errors.Is(err, advance.ErrNotPending):
		Conflict(w, "Advance has recovery applied and cannot be modified")
	case errors.Is(err, advance.ErrNoRecoverableBalance):
		BadRequest(w, "Latest payroll has no recoverable balance", nil)

	// Default
	default:
		InternalServerError(w, "An unexpected error occurred")
	}
}
