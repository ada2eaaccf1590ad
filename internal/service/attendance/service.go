package attendance

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/go-chi/jwtauth/v5"
	"github.com/sitecrew/siteworks-backend-go/internal/domain/attendance"
	"github.com/sitecrew/siteworks-backend-go/internal/domain/project"
	"github.com/sitecrew/siteworks-backend-go/internal/domain/user"
	"github.com/sitecrew/siteworks-backend-go/internal/pkg/database"
	"github.com/sitecrew/siteworks-backend-go/internal/pkg/geo"
	"github.com/sitecrew/siteworks-backend-go/internal/service/file"
)

type AttendanceServiceImpl struct {
	db          database.TxManager
	repo        attendance.AttendanceRepository
	projectRepo project.ProjectRepository
	fileService file.FileService
	policy      attendance.Policy
	logger      *slog.Logger
}

func NewAttendanceService(
	db database.TxManager,
	repo attendance.AttendanceRepository,
	projectRepo project.ProjectRepository,
	fileService file.FileService,
	policy attendance.Policy,
	logger *slog.Logger,
) attendance.AttendanceService {
	return &AttendanceServiceImpl{
		db:          db,
		repo:        repo,
		projectRepo: projectRepo,
		fileService: fileService,
		policy:      policy,
		logger:      logger,
	}
}

func claimsFromContext(ctx context.Context) (userID string, role user.Role, err error) {
	_, claims, err := jwtauth.FromContext(ctx)
	if err != nil {
		return "", "", fmt.Errorf("failed to extract claims from context: %w", err)
	}

	userID, ok := claims["user_id"].(string)
	if !ok || userID == "" {
		return "", "", fmt.Errorf("user_id claim is missing or invalid")
	}

	roleStr, ok := claims["role"].(string)
	if !ok || roleStr == "" {
		return "", "", fmt.Errorf("role claim is missing or invalid")
	}

	return userID, user.Role(roleStr), nil
}

// SubmitEntry implements attendance.AttendanceService.
func (a *AttendanceServiceImpl) SubmitEntry(ctx context.Context, req attendance.SubmitEntryRequest) (attendance.SubmitEntryResponse, error) {
	if err := req.Validate(); err != nil {
		return attendance.SubmitEntryResponse{}, err
	}

	userID, role, err := claimsFromContext(ctx)
	if err != nil {
		return attendance.SubmitEntryResponse{}, err
	}

	// Only the on-site worker role submits attendance.
	if role != user.RoleSiteWorker {
		return attendance.SubmitEntryResponse{}, user.ErrWorkerRoleRequired
	}

	proj, err := a.projectRepo.GetByID(ctx, req.ProjectID)
	if err != nil {
		if errors.Is(err, project.ErrProjectNotFound) {
			return attendance.SubmitEntryResponse{}, project.ErrProjectNotFound
		}
		return attendance.SubmitEntryResponse{}, fmt.Errorf("failed to get project: %w", err)
	}

	if !proj.HasSiteLocation() {
		return attendance.SubmitEntryResponse{}, project.ErrNoSiteLocation
	}

	radius := a.policy.GeofenceRadiusMeters
	if proj.GeofenceRadiusMeters != nil {
		radius = *proj.GeofenceRadiusMeters
	}

	distance := geo.HaversineDistance(
		req.Latitude(), req.Longitude(),
		*proj.SiteLatitude, *proj.SiteLongitude,
	)

	// The boundary is inclusive: standing exactly on the fence is in.
	if distance > radius {
		return attendance.SubmitEntryResponse{}, &attendance.OutOfRangeError{
			DistanceMeters: distance,
			RadiusMeters:   radius,
		}
	}

	nowUTC := time.Now().UTC()

	photoURL, err := a.fileService.UploadAttendanceProof(ctx, userID, nowUTC, req.File, req.FileHeader.Filename, req.Kind)
	if err != nil {
		return attendance.SubmitEntryResponse{}, fmt.Errorf("failed to upload attendance proof: %w", err)
	}

	var entries []attendance.HistoryEntry
	err = a.db.WithTx(ctx, func(ctx context.Context) error {
		record, err := a.repo.GetOrCreateRecord(ctx, userID, req.ProjectID)
		if err != nil {
			return fmt.Errorf("failed to get attendance record: %w", err)
		}

		// Sequencing is checked against the last entry overall, not per
		// day: an open check-in from yesterday still blocks a new one.
		last, err := a.repo.LastEntry(ctx, record.ID)
		switch {
		case errors.Is(err, attendance.ErrEntryNotFound):
			if attendance.EntryKind(req.Kind) == attendance.KindCheckOut {
				return attendance.ErrNoOpenCheckIn
			}
		case err != nil:
			return fmt.Errorf("failed to get last entry: %w", err)
		default:
			if attendance.EntryKind(req.Kind) == attendance.KindCheckIn && last.Kind == attendance.KindCheckIn {
				return attendance.ErrAlreadyCheckedIn
			}
			if attendance.EntryKind(req.Kind) == attendance.KindCheckOut && last.Kind != attendance.KindCheckIn {
				return attendance.ErrNoOpenCheckIn
			}
		}

		entry := attendance.HistoryEntry{
			RecordID:   record.ID,
			Kind:       attendance.EntryKind(req.Kind),
			Latitude:   req.Latitude(),
			Longitude:  req.Longitude(),
			PhotoURL:   &photoURL,
			OccurredAt: nowUTC,
		}

		if _, err := a.repo.AppendEntry(ctx, entry); err != nil {
			return fmt.Errorf("failed to append entry: %w", err)
		}

		entries, err = a.repo.ListEntries(ctx, record.ID)
		if err != nil {
			return fmt.Errorf("failed to list entries: %w", err)
		}
		return nil
	})
	if err != nil {
		// The proof was stored before the sequencing checks ran; do not
		// leave it behind when the submission is rejected.
		if delErr := a.fileService.DeleteFile(ctx, photoURL); delErr != nil {
			a.logger.Warn("failed to delete proof for rejected submission",
				slog.String("photo_url", photoURL),
				slog.String("error", delErr.Error()),
			)
		}
		return attendance.SubmitEntryResponse{}, err
	}

	a.logger.Info("attendance entry submitted",
		slog.String("user_id", userID),
		slog.String("project_id", req.ProjectID),
		slog.String("kind", req.Kind),
		slog.Float64("distance_meters", distance),
	)

	return attendance.SubmitEntryResponse{
		DistanceMeters: distance,
		Entries:        mapEntries(entries),
	}, nil
}

// GetMyEntries implements attendance.AttendanceService.
func (a *AttendanceServiceImpl) GetMyEntries(ctx context.Context, projectID string) ([]attendance.EntryResponse, error) {
	userID, _, err := claimsFromContext(ctx)
	if err != nil {
		return nil, err
	}

	return a.GetEntries(ctx, userID, projectID)
}

// GetEntries implements attendance.AttendanceService. A user with no
// ledger on the project reads as an empty history, not an error.
func (a *AttendanceServiceImpl) GetEntries(ctx context.Context, userID, projectID string) ([]attendance.EntryResponse, error) {
	record, err := a.repo.GetRecord(ctx, userID, projectID)
	if err != nil {
		if errors.Is(err, attendance.ErrRecordNotFound) {
			return []attendance.EntryResponse{}, nil
		}
		return nil, fmt.Errorf("failed to get attendance record: %w", err)
	}

	entries, err := a.repo.ListEntries(ctx, record.ID)
	if err != nil {
		return nil, fmt.Errorf("failed to list entries: %w", err)
	}

	return mapEntries(entries), nil
}

// GetWorkingTime implements attendance.AttendanceService.
func (a *AttendanceServiceImpl) GetWorkingTime(ctx context.Context, userID, projectID string, from, to time.Time) (attendance.WorkingTimeResponse, error) {
	record, err := a.repo.GetRecord(ctx, userID, projectID)
	if err != nil {
		if errors.Is(err, attendance.ErrRecordNotFound) {
			return attendance.WorkingTimeResponse{}, nil
		}
		return attendance.WorkingTimeResponse{}, fmt.Errorf("failed to get attendance record: %w", err)
	}

	entries, err := a.repo.ListEntriesInRange(ctx, record.ID, from, to)
	if err != nil {
		return attendance.WorkingTimeResponse{}, fmt.Errorf("failed to list entries: %w", err)
	}

	minutes, hours := attendance.ComputeWorkingTime(entries)
	return attendance.WorkingTimeResponse{
		TotalMinutes: minutes,
		TotalHours:   hours,
	}, nil
}

// GetAttendanceSummary implements attendance.AttendanceService.
func (a *AttendanceServiceImpl) GetAttendanceSummary(ctx context.Context, userID, projectID string, periodStart, periodEnd time.Time) (attendance.Summary, error) {
	record, err := a.repo.GetRecord(ctx, userID, projectID)
	if err != nil {
		if errors.Is(err, attendance.ErrRecordNotFound) {
			// No ledger yet: the whole period is absence.
			return attendance.BuildSummary(userID, projectID, nil, periodStart, periodEnd, a.policy), nil
		}
		return attendance.Summary{}, fmt.Errorf("failed to get attendance record: %w", err)
	}

	entries, err := a.repo.ListEntriesInRange(ctx, record.ID, periodStart, periodEnd)
	if err != nil {
		return attendance.Summary{}, fmt.Errorf("failed to list entries: %w", err)
	}

	return attendance.BuildSummary(userID, projectID, entries, periodStart, periodEnd, a.policy), nil
}

// InsertEntry implements attendance.AttendanceService. This is the
// audited repair path: sequencing is checked per calendar day, not
// against the global ledger tail, and no geofence applies.
func (a *AttendanceServiceImpl) InsertEntry(ctx context.Context, req attendance.InsertEntryRequest) (attendance.EntryResponse, error) {
	if err := req.Validate(); err != nil {
		return attendance.EntryResponse{}, err
	}

	editorID, _, err := claimsFromContext(ctx)
	if err != nil {
		return attendance.EntryResponse{}, err
	}

	occurredAt, err := time.Parse(time.RFC3339, req.OccurredAt)
	if err != nil {
		return attendance.EntryResponse{}, fmt.Errorf("failed to parse occurred_at: %w", err)
	}
	occurredAt = occurredAt.UTC()

	var created attendance.HistoryEntry
	err = a.db.WithTx(ctx, func(ctx context.Context) error {
		record, err := a.repo.GetOrCreateRecord(ctx, req.UserID, req.ProjectID)
		if err != nil {
			return fmt.Errorf("failed to get attendance record: %w", err)
		}

		dayLast, err := a.repo.LastEntryOfDay(ctx, record.ID, occurredAt)
		switch {
		case errors.Is(err, attendance.ErrEntryNotFound):
			if attendance.EntryKind(req.Kind) == attendance.KindCheckOut {
				return attendance.ErrCheckOutOpensDay
			}
		case err != nil:
			return fmt.Errorf("failed to get last entry of day: %w", err)
		default:
			if !occurredAt.After(dayLast.OccurredAt) {
				return attendance.ErrEntryNotAfterDayLast
			}
			if dayLast.Kind == attendance.EntryKind(req.Kind) {
				return attendance.ErrSameKindAsDayLast
			}
		}

		now := time.Now().UTC()
		entry := attendance.HistoryEntry{
			RecordID:   record.ID,
			Kind:       attendance.EntryKind(req.Kind),
			Latitude:   req.Location[1],
			Longitude:  req.Location[0],
			OccurredAt: occurredAt,
			EditedBy:   &editorID,
			EditedAt:   &now,
		}

		created, err = a.repo.AppendEntry(ctx, entry)
		if err != nil {
			return fmt.Errorf("failed to append entry: %w", err)
		}
		return nil
	})
	if err != nil {
		return attendance.EntryResponse{}, err
	}

	a.logger.Info("attendance entry inserted by admin",
		slog.String("editor_id", editorID),
		slog.String("user_id", req.UserID),
		slog.String("project_id", req.ProjectID),
		slog.String("kind", req.Kind),
		slog.Time("occurred_at", occurredAt),
	)

	return mapEntry(created), nil
}

// UpdateEntry implements attendance.AttendanceService. Bypasses all
// sequencing checks; the edit is recorded on the entry.
func (a *AttendanceServiceImpl) UpdateEntry(ctx context.Context, req attendance.UpdateEntryRequest) (attendance.EntryResponse, error) {
	if err := req.Validate(); err != nil {
		return attendance.EntryResponse{}, err
	}

	editorID, _, err := claimsFromContext(ctx)
	if err != nil {
		return attendance.EntryResponse{}, err
	}

	entry, err := a.repo.GetEntryByID(ctx, req.EntryID)
	if err != nil {
		if errors.Is(err, attendance.ErrEntryNotFound) {
			return attendance.EntryResponse{}, attendance.ErrEntryNotFound
		}
		return attendance.EntryResponse{}, fmt.Errorf("failed to get entry: %w", err)
	}

	if req.Kind != nil {
		entry.Kind = attendance.EntryKind(*req.Kind)
	}
	if req.OccurredAt != nil {
		occurredAt, err := time.Parse(time.RFC3339, *req.OccurredAt)
		if err != nil {
			return attendance.EntryResponse{}, fmt.Errorf("failed to parse occurred_at: %w", err)
		}
		entry.OccurredAt = occurredAt.UTC()
	}

	now := time.Now().UTC()
	entry.EditedBy = &editorID
	entry.EditedAt = &now

	if err := a.repo.UpdateEntry(ctx, entry); err != nil {
		return attendance.EntryResponse{}, fmt.Errorf("failed to update entry: %w", err)
	}

	a.logger.Info("attendance entry edited by admin",
		slog.String("editor_id", editorID),
		slog.String("entry_id", entry.ID),
	)

	return mapEntry(entry), nil
}

// DeleteEntry implements attendance.AttendanceService.
func (a *AttendanceServiceImpl) DeleteEntry(ctx context.Context, entryID string) error {
	editorID, _, err := claimsFromContext(ctx)
	if err != nil {
		return err
	}

	if err := a.repo.DeleteEntry(ctx, entryID); err != nil {
		if errors.Is(err, attendance.ErrEntryNotFound) {
			return attendance.ErrEntryNotFound
		}
		return fmt.Errorf("failed to delete entry: %w", err)
	}

	a.logger.Info("attendance entry deleted by admin",
		slog.String("editor_id", editorID),
		slog.String("entry_id", entryID),
	)

	return nil
}

func mapEntry(e attendance.HistoryEntry) attendance.EntryResponse {
	var editedAt *string
	if e.EditedAt != nil {
		str := e.EditedAt.Format(time.RFC3339)
		editedAt = &str
	}

	return attendance.EntryResponse{
		ID:         e.ID,
		Kind:       string(e.Kind),
		Latitude:   e.Latitude,
		Longitude:  e.Longitude,
		PhotoURL:   e.PhotoURL,
		OccurredAt: e.OccurredAt.Format(time.RFC3339),
		EditedBy:   e.EditedBy,
		EditedAt:   editedAt,
	}
}

func mapEntries(entries []attendance.HistoryEntry) []attendance.EntryResponse {
	result := make([]attendance.EntryResponse, 0, len(entries))
	for _, e := range entries {
		result = append(result, mapEntry(e))
	}
	return result
}
