package project

import (
	"github.com/sitecrew/siteworks-backend-go/internal/pkg/validator"
)

type CreateProjectRequest struct {
	Name                 string   `json:"name"`
	Code                 string   `json:"code"`
	SiteLatitude         *float64 `json:"site_latitude"`
	SiteLongitude        *float64 `json:"site_longitude"`
	GeofenceRadiusMeters *float64 `json:"geofence_radius_meters"`
}

func (r *CreateProjectRequest) Validate() error {
	var errs validator.ValidationErrors

	if validator.IsEmpty(r.Name) {
		errs = append(errs, validator.ValidationError{
			Field:   "name",
			Message: "name is required",
		})
	}

	if !validator.IsValidProjectCode(r.Code) {
		errs = append(errs, validator.ValidationError{
			Field:   "code",
			Message: "code must be 2-20 uppercase letters, digits or dashes",
		})
	}

	// Coordinates are optional at creation but must come as a pair.
	if (r.SiteLatitude == nil) != (r.SiteLongitude == nil) {
		errs = append(errs, validator.ValidationError{
			Field:   "site_location",
			Message: "site_latitude and site_longitude must be provided together",
		})
	}

	if r.SiteLatitude != nil && !validator.IsValidLatitude(*r.SiteLatitude) {
		errs = append(errs, validator.ValidationError{
			Field:   "site_latitude",
			Message: "site_latitude must be between -90 and 90",
		})
	}

	if r.SiteLongitude != nil && !validator.IsValidLongitude(*r.SiteLongitude) {
		errs = append(errs, validator.ValidationError{
			Field:   "site_longitude",
			Message: "site_longitude must be between -180 and 180",
		})
	}

	if r.GeofenceRadiusMeters != nil && *r.GeofenceRadiusMeters <= 0 {
		errs = append(errs, validator.ValidationError{
			Field:   "geofence_radius_meters",
			Message: "geofence_radius_meters must be positive",
		})
	}

	if len(errs) > 0 {
		return errs
	}
	return nil
}

type UpdateProjectRequest struct {
	ID                   string   `json:"-"`
	Name                 *string  `json:"name"`
	SiteLatitude         *float64 `json:"site_latitude"`
	SiteLongitude        *float64 `json:"site_longitude"`
	GeofenceRadiusMeters *float64 `json:"geofence_radius_meters"`
	Status               *string  `json:"status"`
}

func (r *UpdateProjectRequest) Validate() error {
	var errs validator.ValidationErrors

	if r.Name != nil && validator.IsEmpty(*r.Name) {
		errs = append(errs, validator.ValidationError{
			Field:   "name",
			Message: "name must not be empty",
		})
	}

	if r.SiteLatitude != nil && !validator.IsValidLatitude(*r.SiteLatitude) {
		errs = append(errs, validator.ValidationError{
			Field:   "site_latitude",
			Message: "site_latitude must be between -90 and 90",
		})
	}

	if r.SiteLongitude != nil && !validator.IsValidLongitude(*r.SiteLongitude) {
		errs = append(errs, validator.ValidationError{
			Field:   "site_longitude",
			Message: "site_longitude must be between -180 and 180",
		})
	}

	if r.GeofenceRadiusMeters != nil && *r.GeofenceRadiusMeters <= 0 {
		errs = append(errs, validator.ValidationError{
			Field:   "geofence_radius_meters",
			Message: "geofence_radius_meters must be positive",
		})
	}

	if r.Status != nil && !validator.IsInSlice(*r.Status, []string{
		string(StatusActive), string(StatusOnHold), string(StatusCompleted),
	}) {
		errs = append(errs, validator.ValidationError{
			Field:   "status",
			Message: "status must be one of active, on_hold, completed",
		})
	}

	if len(errs) > 0 {
		return errs
	}
	return nil
}

type ProjectResponse struct {
	ID                   string   `json:"id"`
	Name                 string   `json:"name"`
	Code                 string   `json:"code"`
	SiteLatitude         *float64 `json:"site_latitude,omitempty"`
	SiteLongitude        *float64 `json:"site_longitude,omitempty"`
	GeofenceRadiusMeters *float64 `json:"geofence_radius_meters,omitempty"`
	Status               string   `json:"status"`
	CreatedAt            string   `json:"created_at"`
	UpdatedAt            string   `json:"updated_at"`
}
