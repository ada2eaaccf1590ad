package salary

import "errors"

var (
	ErrStructureNotFound = errors.New("salary structure not found")
	ErrNoActiveStructure = errors.New("no active salary structure for this user and project")
	ErrInvalidSalaryType = errors.New("invalid salary type")
)
