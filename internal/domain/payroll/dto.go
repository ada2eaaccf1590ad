package payroll

import (
	"github.com/shopspring/decimal"
	"github.com/sitecrew/siteworks-backend-go/internal/pkg/validator"
)

type LineItemInput struct {
	Reason string          `json:"reason"`
	Amount decimal.Decimal `json:"amount"`
}

func validateLineItems(field string, items []LineItemInput, errs validator.ValidationErrors) validator.ValidationErrors {
	for i, item := range items {
		if validator.IsEmpty(item.Reason) {
			errs = append(errs, validator.ValidationError{
				Field:   field,
				Message: "reason is required on every item",
			})
		}
		if !validator.IsPositiveAmount(item.Amount) {
			errs = append(errs, validator.ValidationError{
				Field:   field,
				Message: "amount must be positive on every item",
			})
		}
		_ = i
	}
	return errs
}

type GeneratePayrollRequest struct {
	UserID        string          `json:"user_id"`
	ProjectID     string          `json:"project_id"`
	PeriodStart   string          `json:"period_start"` // YYYY-MM-DD
	PeriodEnd     string          `json:"period_end"`   // YYYY-MM-DD
	OvertimeHours decimal.Decimal `json:"overtime_hours"`
	Allowances    []LineItemInput `json:"allowances"`
	Deductions    []LineItemInput `json:"deductions"`
	Notes         *string         `json:"notes"`
}

func (r *GeneratePayrollRequest) Validate() error {
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

	start, okStart := validator.IsValidDate(r.PeriodStart)
	if !okStart {
		errs = append(errs, validator.ValidationError{
			Field:   "period_start",
			Message: "period_start must be a YYYY-MM-DD date",
		})
	}

	end, okEnd := validator.IsValidDate(r.PeriodEnd)
	if !okEnd {
		errs = append(errs, validator.ValidationError{
			Field:   "period_end",
			Message: "period_end must be a YYYY-MM-DD date",
		})
	}

	if okStart && okEnd && end.Before(start) {
		errs = append(errs, validator.ValidationError{
			Field:   "period_end",
			Message: "period_end must not be before period_start",
		})
	}

	if r.OvertimeHours.IsNegative() {
		errs = append(errs, validator.ValidationError{
			Field:   "overtime_hours",
			Message: "overtime_hours must not be negative",
		})
	}

	errs = validateLineItems("allowances", r.Allowances, errs)
	errs = validateLineItems("deductions", r.Deductions, errs)

	if len(errs) > 0 {
		return errs
	}
	return nil
}

type BulkGeneratePayrollRequest struct {
	ProjectID   string          `json:"project_id"`
	PeriodStart string          `json:"period_start"`
	PeriodEnd   string          `json:"period_end"`
	Allowances  []LineItemInput `json:"allowances"`
	Deductions  []LineItemInput `json:"deductions"`
}

func (r *BulkGeneratePayrollRequest) Validate() error {
	var errs validator.ValidationErrors

	if validator.IsEmpty(r.ProjectID) {
		errs = append(errs, validator.ValidationError{
			Field:   "project_id",
			Message: "project_id is required",
		})
	}

	start, okStart := validator.IsValidDate(r.PeriodStart)
	if !okStart {
		errs = append(errs, validator.ValidationError{
			Field:   "period_start",
			Message: "period_start must be a YYYY-MM-DD date",
		})
	}

	end, okEnd := validator.IsValidDate(r.PeriodEnd)
	if !okEnd {
		errs = append(errs, validator.ValidationError{
			Field:   "period_end",
			Message: "period_end must be a YYYY-MM-DD date",
		})
	}

	if okStart && okEnd && end.Before(start) {
		errs = append(errs, validator.ValidationError{
			Field:   "period_end",
			Message: "period_end must not be before period_start",
		})
	}

	errs = validateLineItems("allowances", r.Allowances, errs)
	errs = validateLineItems("deductions", r.Deductions, errs)

	if len(errs) > 0 {
		return errs
	}
	return nil
}

type MarkPaidRequest struct {
	ID               string  `json:"-"`
	PaymentMethod    string  `json:"payment_method"`
	PaymentReference *string `json:"payment_reference"`
	Partial          bool    `json:"partial"`
}

func (r *MarkPaidRequest) Validate() error {
	var errs validator.ValidationErrors

	if validator.IsEmpty(r.PaymentMethod) {
		errs = append(errs, validator.ValidationError{
			Field:   "payment_method",
			Message: "payment_method is required",
		})
	}

	if len(errs) > 0 {
		return errs
	}
	return nil
}

type PayrollResponse struct {
	ID                string          `json:"id"`
	UserID            string          `json:"user_id"`
	ProjectID         string          `json:"project_id"`
	SalaryStructureID string          `json:"salary_structure_id"`
	PeriodStart       string          `json:"period_start"`
	PeriodEnd         string          `json:"period_end"`
	TotalWorkingDays  int             `json:"total_working_days"`
	PresentDays       int             `json:"present_days"`
	AbsentDays        int             `json:"absent_days"`
	OvertimeHours     decimal.Decimal `json:"overtime_hours"`
	BasicSalary       decimal.Decimal `json:"basic_salary"`
	OvertimePay       decimal.Decimal `json:"overtime_pay"`
	Allowances        []LineItem      `json:"allowances"`
	Deductions        []LineItem      `json:"deductions"`
	TotalAllowances   decimal.Decimal `json:"total_allowances"`
	TotalDeductions   decimal.Decimal `json:"total_deductions"`
	GrossSalary       decimal.Decimal `json:"gross_salary"`
	NetSalary         decimal.Decimal `json:"net_salary"`
	AdvancePaid       decimal.Decimal `json:"advance_paid"`
	AdvanceRecovered  decimal.Decimal `json:"advance_recovered"`
	Status            string          `json:"status"`
	PaymentMethod     *string         `json:"payment_method,omitempty"`
	PaymentReference  *string         `json:"payment_reference,omitempty"`
	PaidAt            *string         `json:"paid_at,omitempty"`
	Notes             *string         `json:"notes,omitempty"`
}

type BulkFailure struct {
	UserID string `json:"user_id"`
	Reason string `json:"reason"`
}

type BulkGenerateResponse struct {
	Generated []PayrollResponse `json:"generated"`
	Failures  []BulkFailure     `json:"failures"`
}

type PayrollFilter struct {
	UserID    *string
	ProjectID *string
	Status    *string
	Page      int
	Limit     int
}

func (f *PayrollFilter) Validate() error {
	if f.Page <= 0 {
		f.Page = 1
	}
	if f.Limit <= 0 {
		f.Limit = 20
	}
	if f.Limit > 100 {
		f.Limit = 100
	}
	return nil
}
