package project

import "errors"

var (
	ErrProjectNotFound    = errors.New("project not found")
	ErrProjectCodeExists  = errors.New("project code already exists")
	ErrProjectNotActive   = errors.New("project is not active")
	ErrNoSiteLocation     = errors.New("project has no configured site location")
	ErrProjectHasPayrolls = errors.New("project has payroll records and cannot be deleted")
)
