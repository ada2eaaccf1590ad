package advance

import (
	"github.com/shopspring/decimal"
	"github.com/sitecrew/siteworks-backend-go/internal/pkg/validator"
)

type CreateAdvanceRequest struct {
	UserID    string          `json:"user_id"`
	ProjectID string          `json:"project_id"`
	Amount    decimal.Decimal `json:"amount"`
	Reason    string          `json:"reason"`
	GivenDate *string         `json:"given_date"` // YYYY-MM-DD, defaults to today
}

func (r *CreateAdvanceRequest) Validate() error {
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

	if !validator.IsPositiveAmount(r.Amount) {
		errs = append(errs, validator.ValidationError{
			Field:   "amount",
			Message: "amount must be positive",
		})
	}

	if validator.IsEmpty(r.Reason) {
		errs = append(errs, validator.ValidationError{
			Field:   "reason",
			Message: "reason is required",
		})
	}

	if r.GivenDate != nil {
		if _, ok := validator.IsValidDate(*r.GivenDate); !ok {
			errs = append(errs, validator.ValidationError{
				Field:   "given_date",
				Message: "given_date must be a YYYY-MM-DD date",
			})
		}
	}

	if len(errs) > 0 {
		return errs
	}
	return nil
}

type UpdateAdvanceRequest struct {
	ID     string           `json:"-"`
	Amount *decimal.Decimal `json:"amount"`
	Reason *string          `json:"reason"`
}

func (r *UpdateAdvanceRequest) Validate() error {
	var errs validator.ValidationErrors

	if r.Amount != nil && !validator.IsPositiveAmount(*r.Amount) {
		errs = append(errs, validator.ValidationError{
			Field:   "amount",
			Message: "amount must be positive",
		})
	}

	if r.Reason != nil && validator.IsEmpty(*r.Reason) {
		errs = append(errs, validator.ValidationError{
			Field:   "reason",
			Message: "reason must not be empty",
		})
	}

	if r.Amount == nil && r.Reason == nil {
		errs = append(errs, validator.ValidationError{
			Field:   "body",
			Message: "nothing to update",
		})
	}

	if len(errs) > 0 {
		return errs
	}
	return nil
}

type RecoverAdvanceRequest struct {
	AdvanceID string          `json:"-"`
	Amount    decimal.Decimal `json:"amount"`
}

func (r *RecoverAdvanceRequest) Validate() error {
	var errs validator.ValidationErrors

	if validator.IsEmpty(r.AdvanceID) {
		errs = append(errs, validator.ValidationError{
			Field:   "advance_id",
			Message: "advance_id is required",
		})
	}

	if !validator.IsPositiveAmount(r.Amount) {
		errs = append(errs, validator.ValidationError{
			Field:   "amount",
			Message: "amount must be positive",
		})
	}

	if len(errs) > 0 {
		return errs
	}
	return nil
}

type AdvanceResponse struct {
	ID              string          `json:"id"`
	UserID          string          `json:"user_id"`
	ProjectID       string          `json:"project_id"`
	Amount          decimal.Decimal `json:"amount"`
	Reason          string          `json:"reason"`
	GivenDate       string          `json:"given_date"`
	AmountRecovered decimal.Decimal `json:"amount_recovered"`
	Remaining       decimal.Decimal `json:"remaining"`
	RecoveryStatus  string          `json:"recovery_status"`
}
