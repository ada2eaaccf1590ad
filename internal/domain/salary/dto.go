package salary

import (
	"github.com/shopspring/decimal"
	"github.com/sitecrew/siteworks-backend-go/internal/pkg/validator"
)

type CreateStructureRequest struct {
	UserID        string          `json:"user_id"`
	ProjectID     string          `json:"project_id"`
	SalaryType    string          `json:"salary_type"`
	BaseRate      decimal.Decimal `json:"base_rate"`
	OvertimeRate  decimal.Decimal `json:"overtime_rate"`
	EffectiveFrom *string         `json:"effective_from"` // YYYY-MM-DD, defaults to today
}

func (r *CreateStructureRequest) Validate() error {
	var errs validator.ValidationErrors

	if validator.IsEmpty(r.UserID) {
		errs = append(errs, validator.ValidationError{
			Field:   "user_id",
			Message: "user_id is required",
		})
	}

	if validator.IsEmpty(r.ProjectID) {
		errs = append(errs, validator.ValidationError{
			Field:   "project_id",
			Message: "project_id is required",
		})
	}

	if !validator.IsInSlice(r.SalaryType, []string{
		string(TypeDaily), string(TypeMonthly), string(TypeHourly),
	}) {
		errs = append(errs, validator.ValidationError{
			Field:   "salary_type",
			Message: "salary_type must be one of daily, monthly, hourly",
		})
	}

	if !validator.IsPositiveAmount(r.BaseRate) {
		errs = append(errs, validator.ValidationError{
			Field:   "base_rate",
			Message: "base_rate must be positive",
		})
	}

	if !validator.IsNonNegativeAmount(r.OvertimeRate) {
		errs = append(errs, validator.ValidationError{
			Field:   "overtime_rate",
			Message: "overtime_rate must not be negative",
		})
	}

	if r.EffectiveFrom != nil {
		if _, ok := validator.IsValidDate(*r.EffectiveFrom); !ok {
			errs = append(errs, validator.ValidationError{
				Field:   "effective_from",
				Message: "effective_from must be a YYYY-MM-DD date",
			})
		}
	}

	if len(errs) > 0 {
		return errs
	}
	return nil
}

type StructureResponse struct {
	ID            string          `json:"id"`
	UserID        string          `json:"user_id"`
	ProjectID     string          `json:"project_id"`
	SalaryType    string          `json:"salary_type"`
	BaseRate      decimal.Decimal `json:"base_rate"`
	OvertimeRate  decimal.Decimal `json:"overtime_rate"`
	EffectiveFrom string          `json:"effective_from"`
	EffectiveTo   *string         `json:"effective_to,omitempty"`
	IsActive      bool            `json:"is_active"`
}
