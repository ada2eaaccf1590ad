package user

import "errors"

var (
	ErrUserNotFound            = errors.New("user not found")
	ErrEmailExists             = errors.New("email already registered")
	ErrWorkerRoleRequired      = errors.New("only site workers may perform this action")
	ErrManagerAccessRequired   = errors.New("site manager access required")
	ErrRepairAccessRequired    = errors.New("attendance repair access required")
	ErrAdminAccessRequired     = errors.New("global admin access required")
	ErrInsufficientPermissions = errors.New("insufficient permissions")
)
