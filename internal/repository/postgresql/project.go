package postgresql

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"

	"github.com/sitecrew/siteworks-backend-go/internal/domain/project"
	"github.com/sitecrew/siteworks-backend-go/internal/pkg/database"
)

type projectRepositoryImpl struct {
	db *database.DB
}

func NewProjectRepository(db *database.DB) project.ProjectRepository {
	return &projectRepositoryImpl{db: db}
}

const projectColumns = `id, name, code, site_latitude, site_longitude, geofence_radius_meters, status, created_at, updated_at`

func scanProject(row pgx.Row) (project.Project, error) {
	var p project.Project
	err := row.Scan(
		&p.ID,
		&p.Name,
		&p.Code,
		&p.SiteLatitude,
		&p.SiteLongitude,
		&p.GeofenceRadiusMeters,
		&p.Status,
		&p.CreatedAt,
		&p.UpdatedAt,
	)
	return p, err
}

// Create implements project.ProjectRepository.
func (r *projectRepositoryImpl) Create(ctx context.Context, p project.Project) (project.Project, error) {
	q := database.QuerierFromContext(ctx, r.db)

	query := `
		INSERT INTO projects (name, code, site_latitude, site_longitude, geofence_radius_meters, status)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING ` + projectColumns

	created, err := scanProject(q.QueryRow(ctx, query,
		p.Name, p.Code, p.SiteLatitude, p.SiteLongitude, p.GeofenceRadiusMeters, p.Status,
	))
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23505" {
			return project.Project{}, project.ErrProjectCodeExists
		}
		return project.Project{}, err
	}
	return created, nil
}

// GetByID implements project.ProjectRepository.
func (r *projectRepositoryImpl) GetByID(ctx context.Context, id string) (project.Project, error) {
	q := database.QuerierFromContext(ctx, r.db)

	query := `SELECT ` + projectColumns + ` FROM projects WHERE id = $1`

	p, err := scanProject(q.QueryRow(ctx, query, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return project.Project{}, project.ErrProjectNotFound
		}
		return project.Project{}, err
	}
	return p, nil
}

// GetByCode implements project.ProjectRepository.
func (r *projectRepositoryImpl) GetByCode(ctx context.Context, code string) (project.Project, error) {
	q := database.QuerierFromContext(ctx, r.db)

	query := `SELECT ` + projectColumns + ` FROM projects WHERE code = $1`

	p, err := scanProject(q.QueryRow(ctx, query, code))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return project.Project{}, project.ErrProjectNotFound
		}
		return project.Project{}, err
	}
	return p, nil
}

// List implements project.ProjectRepository.
func (r *projectRepositoryImpl) List(ctx context.Context) ([]project.Project, error) {
	q := database.QuerierFromContext(ctx, r.db)

	query := `SELECT ` + projectColumns + ` FROM projects ORDER BY created_at`

	rows, err := q.Query(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var projects []project.Project
	for rows.Next() {
		p, err := scanProject(rows)
		if err != nil {
			return nil, err
		}
		projects = append(projects, p)
	}
	return projects, rows.Err()
}

// Update implements project.ProjectRepository.
func (r *projectRepositoryImpl) Update(ctx context.Context, p project.Project) error {
	q := database.QuerierFromContext(ctx, r.db)

	query := `
		UPDATE projects
		SET name = $1, site_latitude = $2, site_longitude = $3,
		    geofence_radius_meters = $4, status = $5, updated_at = NOW()
		WHERE id = $6`

	tag, err := q.Exec(ctx, query,
		p.Name, p.SiteLatitude, p.SiteLongitude, p.GeofenceRadiusMeters, p.Status, p.ID,
	)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return project.ErrProjectNotFound
	}
	return nil
}

// Delete implements project.ProjectRepository. A project referenced by
// payrolls refuses deletion through the foreign key.
func (r *projectRepositoryImpl) Delete(ctx context.Context, id string) error {
	q := database.QuerierFromContext(ctx, r.db)

	tag, err := q.Exec(ctx, `DELETE FROM projects WHERE id = $1`, id)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23503" {
			return project.ErrProjectHasPayrolls
		}
		return err
	}
	if tag.RowsAffected() == 0 {
		return project.ErrProjectNotFound
	}
	return nil
}
