package project

import "time"

type Status string

const (
	StatusActive    Status = "active"
	StatusOnHold    Status = "on_hold"
	StatusCompleted Status = "completed"
)

// Project is a construction site. The site coordinates are the geofence
// reference point for attendance submission; a project without them
// cannot accept attendance.
type Project struct {
	ID                   string
	Name                 string
	Code                 string
	SiteLatitude         *float64
	SiteLongitude        *float64
	GeofenceRadiusMeters *float64 // overrides the configured default when set
	Status               Status
	CreatedAt            time.Time
	UpdatedAt            time.Time
}

// HasSiteLocation reports whether the geofence reference point is configured.
func (p Project) HasSiteLocation() bool {
	return p.SiteLatitude != nil && p.SiteLongitude != nil
}
