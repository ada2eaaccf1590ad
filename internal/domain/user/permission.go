package user

type Permission string

const (
	// Attendance
	PermissionAttendanceSubmit  Permission = "attendance.submit"
	PermissionAttendanceViewOwn Permission = "attendance.view_own"
	PermissionAttendanceViewAll Permission = "attendance.view_all"
	PermissionAttendanceRepair  Permission = "attendance.repair"

	// Projects
	PermissionProjectView   Permission = "project.view"
	PermissionProjectManage Permission = "project.manage"

	// Salary structures
	PermissionSalaryView   Permission = "salary.view"
	PermissionSalaryManage Permission = "salary.manage"

	// Payroll
	PermissionPayrollView     Permission = "payroll.view"
	PermissionPayrollGenerate Permission = "payroll.generate"

	// Advances
	PermissionAdvanceView   Permission = "advance.view"
	PermissionAdvanceManage Permission = "advance.manage"

	// User administration
	PermissionUserManage Permission = "user.manage"
)

// RolePermissions maps roles to their permissions
var RolePermissions = map[Role][]Permission{
	RoleSiteWorker: {
		// Submitting attendance is restricted to the on-site worker role.
		PermissionAttendanceSubmit,
		PermissionAttendanceViewOwn,
		PermissionProjectView,
	},
	RoleSiteManager: {
		PermissionAttendanceViewOwn,
		PermissionAttendanceViewAll,
		PermissionProjectView,
		PermissionProjectManage,
		PermissionSalaryView,
		PermissionSalaryManage,
		PermissionPayrollView,
		PermissionPayrollGenerate,
		PermissionAdvanceView,
		PermissionAdvanceManage,
	},
	RoleSuperAdmin: {
		PermissionAttendanceViewOwn,
		PermissionAttendanceViewAll,
		PermissionAttendanceRepair,
		PermissionProjectView,
		PermissionProjectManage,
		PermissionSalaryView,
		PermissionSalaryManage,
		PermissionPayrollView,
		PermissionPayrollGenerate,
		PermissionAdvanceView,
		PermissionAdvanceManage,
	},
	RoleGlobalAdmin: {
		PermissionAttendanceViewOwn,
		PermissionAttendanceViewAll,
		PermissionAttendanceRepair,
		PermissionProjectView,
		PermissionProjectManage,
		PermissionSalaryView,
		PermissionSalaryManage,
		PermissionPayrollView,
		PermissionPayrollGenerate,
		PermissionAdvanceView,
		PermissionAdvanceManage,
		PermissionUserManage,
	},
}

// HasPermission checks if a role has a specific permission
func HasPermission(role Role, permission Permission) bool {
	permissions, exists := RolePermissions[role]
	if !exists {
		return false
	}

	for _, p := range permissions {
		if p == permission {
			return true
		}
	}

	return false
}
