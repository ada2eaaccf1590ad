package attendance

import (
	"mime/multipart"
	"strings"

	"github.com/sitecrew/siteworks-backend-go/internal/pkg/validator"
)

// SubmitEntryRequest is a worker check-in or check-out. Location comes
// as a [longitude, latitude] pair, matching the GeoJSON convention the
// mobile client uses.
type SubmitEntryRequest struct {
	ProjectID  string                `json:"project_id"`
	Kind       string                `json:"kind"`
	Location   []float64             `json:"location"`
	File       multipart.File        `json:"-"`
	FileHeader *multipart.FileHeader `json:"-"`
}

// Longitude returns the first element of the location pair.
func (r *SubmitEntryRequest) Longitude() float64 { return r.Location[0] }

// Latitude returns the second element of the location pair.
func (r *SubmitEntryRequest) Latitude() float64 { return r.Location[1] }

func (r *SubmitEntryRequest) Validate() error {
	var errs validator.ValidationErrors

	if validator.IsEmpty(r.ProjectID) {
		errs = append(errs, validator.ValidationError{
			Field:   "project_id",
			Message: "project_id is required",
		})
	}

	if !validator.IsInSlice(r.Kind, []string{string(KindCheckIn), string(KindCheckOut)}) {
		errs = append(errs, validator.ValidationError{
			Field:   "kind",
			Message: "kind must be check_in or check_out",
		})
	}

	if len(r.Location) != 2 {
		errs = append(errs, validator.ValidationError{
			Field:   "location",
			Message: "location must be a [longitude, latitude] pair",
		})
	} else {
		if !validator.IsValidLongitude(r.Location[0]) {
			errs = append(errs, validator.ValidationError{
				Field:   "location",
				Message: "longitude must be between -180 and 180",
			})
		}
		if !validator.IsValidLatitude(r.Location[1]) {
			errs = append(errs, validator.ValidationError{
				Field:   "location",
				Message: "latitude must be between -90 and 90",
			})
		}
	}

	if r.FileHeader == nil {
		errs = append(errs, validator.ValidationError{
			Field:   "photo",
			Message: "attendance proof photo is required",
		})
	} else {
		filename := r.FileHeader.Filename
		idx := strings.LastIndex(filename, ".")
		ext := ""
		if idx >= 0 {
			ext = strings.ToLower(filename[idx:])
		}
		if ext != ".jpg" && ext != ".jpeg" && ext != ".png" {
			errs = append(errs, validator.ValidationError{
				Field:   "photo",
				Message: "invalid file type: only jpg, jpeg, png allowed",
			})
		} else if r.FileHeader.Size > 10<<20 { // 10MB
			errs = append(errs, validator.ValidationError{
				Field:   "photo",
				Message: "attendance proof photo size must not exceed 10MB",
			})
		}
	}

	if len(errs) > 0 {
		return errs
	}
	return nil
}

// InsertEntryRequest is the audited super-admin repair path: a backdated
// or forward-dated entry placed directly into the ledger.
type InsertEntryRequest struct {
	UserID     string    `json:"user_id"`
	ProjectID  string    `json:"project_id"`
	Kind       string    `json:"kind"`
	Location   []float64 `json:"location"`
	OccurredAt string    `json:"occurred_at"` // RFC3339
}

func (r *InsertEntryRequest) Validate() error {
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

	if !validator.IsInSlice(r.Kind, []string{string(KindCheckIn), string(KindCheckOut)}) {
		errs = append(errs, validator.ValidationError{
			Field:   "kind",
			Message: "kind must be check_in or check_out",
		})
	}

	if len(r.Location) != 2 {
		errs = append(errs, validator.ValidationError{
			Field:   "location",
			Message: "location must be a [longitude, latitude] pair",
		})
	}

	if _, ok := validator.IsValidDateTime(r.OccurredAt); !ok {
		errs = append(errs, validator.ValidationError{
			Field:   "occurred_at",
			Message: "occurred_at must be an RFC3339 timestamp",
		})
	}

	if len(errs) > 0 {
		return errs
	}
	return nil
}

// UpdateEntryRequest edits a single entry by id. Bypasses sequencing
// checks; the edit is recorded on the entry.
type UpdateEntryRequest struct {
	EntryID    string  `json:"-"`
	Kind       *string `json:"kind"`
	OccurredAt *string `json:"occurred_at"` // RFC3339
}

func (r *UpdateEntryRequest) Validate() error {
	var errs validator.ValidationErrors

	if validator.IsEmpty(r.EntryID) {
		errs = append(errs, validator.ValidationError{
			Field:   "entry_id",
			Message: "entry_id is required",
		})
	}

	if r.Kind != nil && !validator.IsInSlice(*r.Kind, []string{string(KindCheckIn), string(KindCheckOut)}) {
		errs = append(errs, validator.ValidationError{
			Field:   "kind",
			Message: "kind must be check_in or check_out",
		})
	}

	if r.OccurredAt != nil {
		if _, ok := validator.IsValidDateTime(*r.OccurredAt); !ok {
			errs = append(errs, validator.ValidationError{
				Field:   "occurred_at",
				Message: "occurred_at must be an RFC3339 timestamp",
			})
		}
	}

	if r.Kind == nil && r.OccurredAt == nil {
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

type EntryResponse struct {
	ID         string  `json:"id"`
	Kind       string  `json:"kind"`
	Latitude   float64 `json:"latitude"`
	Longitude  float64 `json:"longitude"`
	PhotoURL   *string `json:"photo_url,omitempty"`
	OccurredAt string  `json:"occurred_at"`
	EditedBy   *string `json:"edited_by,omitempty"`
	EditedAt   *string `json:"edited_at,omitempty"`
}

type SubmitEntryResponse struct {
	DistanceMeters float64         `json:"distance_meters"`
	Entries        []EntryResponse `json:"entries"`
}

type DaySummaryResponse struct {
	Date     string  `json:"date"`
	CheckIn  string  `json:"check_in"`
	CheckOut string  `json:"check_out"`
	Minutes  int     `json:"minutes"`
	Hours    float64 `json:"hours"`
}

type SummaryResponse struct {
	UserID           string               `json:"user_id"`
	ProjectID        string               `json:"project_id"`
	PeriodStart      string               `json:"period_start"`
	PeriodEnd        string               `json:"period_end"`
	TotalWorkingDays int                  `json:"total_working_days"`
	PresentDays      int                  `json:"present_days"`
	AbsentDays       int                  `json:"absent_days"`
	TotalMinutes     int                  `json:"total_minutes"`
	TotalHours       float64              `json:"total_hours"`
	Days             []DaySummaryResponse `json:"days"`
}

type WorkingTimeResponse struct {
	TotalMinutes int     `json:"total_minutes"`
	TotalHours   float64 `json:"total_hours"`
}
