package project

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/sitecrew/siteworks-backend-go/internal/domain/project"
)

type ProjectServiceImpl struct {
	repo   project.ProjectRepository
	logger *slog.Logger
}

func NewProjectService(repo project.ProjectRepository, logger *slog.Logger) project.ProjectService {
	return &ProjectServiceImpl{repo: repo, logger: logger}
}

// Create implements project.ProjectService.
func (s *ProjectServiceImpl) Create(ctx context.Context, req project.CreateProjectRequest) (project.ProjectResponse, error) {
	if err := req.Validate(); err != nil {
		return project.ProjectResponse{}, err
	}

	if _, err := s.repo.GetByCode(ctx, req.Code); err == nil {
		return project.ProjectResponse{}, project.ErrProjectCodeExists
	} else if !errors.Is(err, project.ErrProjectNotFound) {
		return project.ProjectResponse{}, fmt.Errorf("failed to check project code: %w", err)
	}

	created, err := s.repo.Create(ctx, project.Project{
		Name:                 req.Name,
		Code:                 req.Code,
		SiteLatitude:         req.SiteLatitude,
		SiteLongitude:        req.SiteLongitude,
		GeofenceRadiusMeters: req.GeofenceRadiusMeters,
		Status:               project.StatusActive,
	})
	if err != nil {
		return project.ProjectResponse{}, fmt.Errorf("failed to create project: %w", err)
	}

	s.logger.Info("project created",
		slog.String("project_id", created.ID),
		slog.String("code", created.Code),
	)

	return mapProject(created), nil
}

// Get implements project.ProjectService.
func (s *ProjectServiceImpl) Get(ctx context.Context, id string) (project.ProjectResponse, error) {
	p, err := s.repo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, project.ErrProjectNotFound) {
			return project.ProjectResponse{}, project.ErrProjectNotFound
		}
		return project.ProjectResponse{}, fmt.Errorf("failed to get project: %w", err)
	}
	return mapProject(p), nil
}

// List implements project.ProjectService.
func (s *ProjectServiceImpl) List(ctx context.Context) ([]project.ProjectResponse, error) {
	projects, err := s.repo.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list projects: %w", err)
	}

	result := make([]project.ProjectResponse, 0, len(projects))
	for _, p := range projects {
		result = append(result, mapProject(p))
	}
	return result, nil
}

// Update implements project.ProjectService.
func (s *ProjectServiceImpl) Update(ctx context.Context, req project.UpdateProjectRequest) (project.ProjectResponse, error) {
	if err := req.Validate(); err != nil {
		return project.ProjectResponse{}, err
	}

	p, err := s.repo.GetByID(ctx, req.ID)
	if err != nil {
		if errors.Is(err, project.ErrProjectNotFound) {
			return project.ProjectResponse{}, project.ErrProjectNotFound
		}
		return project.ProjectResponse{}, fmt.Errorf("failed to get project: %w", err)
	}

	if req.Name != nil {
		p.Name = *req.Name
	}
	if req.SiteLatitude != nil {
		p.SiteLatitude = req.SiteLatitude
	}
	if req.SiteLongitude != nil {
		p.SiteLongitude = req.SiteLongitude
	}
	if req.GeofenceRadiusMeters != nil {
		p.GeofenceRadiusMeters = req.GeofenceRadiusMeters
	}
	if req.Status != nil {
		p.Status = project.Status(*req.Status)
	}

	if err := s.repo.Update(ctx, p); err != nil {
		return project.ProjectResponse{}, fmt.Errorf("failed to update project: %w", err)
	}

	return mapProject(p), nil
}

// Delete implements project.ProjectService.
func (s *ProjectServiceImpl) Delete(ctx context.Context, id string) error {
	if _, err := s.repo.GetByID(ctx, id); err != nil {
		if errors.Is(err, project.ErrProjectNotFound) {
			return project.ErrProjectNotFound
		}
		return fmt.Errorf("failed to get project: %w", err)
	}

	if err := s.repo.Delete(ctx, id); err != nil {
		if errors.Is(err, project.ErrProjectHasPayrolls) {
			return project.ErrProjectHasPayrolls
		}
		return fmt.Errorf("failed to delete project: %w", err)
	}

	s.logger.Info("project deleted", slog.String("project_id", id))
	return nil
}

func mapProject(p project.Project) project.ProjectResponse {
	return project.ProjectResponse{
		ID:                   p.ID,
		Name:                 p.Name,
		Code:                 p.Code,
		SiteLatitude:         p.SiteLatitude,
		SiteLongitude:        p.SiteLongitude,
		GeofenceRadiusMeters: p.GeofenceRadiusMeters,
		Status:               string(p.Status),
		CreatedAt:            p.CreatedAt.Format(time.RFC3339),
		UpdatedAt:            p.UpdatedAt.Format(time.RFC3339),
	}
}
