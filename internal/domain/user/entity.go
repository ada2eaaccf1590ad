package user

import "time"

type Role string

const (
	RoleSiteWorker  Role = "site_worker"  // On-site labour, submits attendance
	RoleSiteManager Role = "site_manager" // Runs projects, payroll, advances
	RoleSuperAdmin  Role = "super_admin"  // May repair attendance history
	RoleGlobalAdmin Role = "global_admin" // Full access including user administration
)

// IsValid reports whether r is one of the known roles.
func (r Role) IsValid() bool {
	switch r {
	case RoleSiteWorker, RoleSiteManager, RoleSuperAdmin, RoleGlobalAdmin:
		return true
	}
	return false
}

type User struct {
	ID           string
	Email        string
	PasswordHash string
	Name         string
	Role         Role
	GoogleID     *string
	CreatedAt    time.Time
	UpdatedAt    time.Time
}
