package repositories

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/huyhoangtran00/portfolio/internal/models"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

const projectColumns = `id, name, demo_url, repository_url, description, owner_id, created_at, updated_at`

type PostgresProjectRepository struct {
	pool *pgxpool.Pool
}

func NewPostgresProjectRepository(pool *pgxpool.Pool) *PostgresProjectRepository {
	return &PostgresProjectRepository{pool: pool}
}

func (r *PostgresProjectRepository) Create(ctx context.Context, project *models.Project) error {
	query := `INSERT INTO projects (name, demo_url, repository_url, description, owner_id)
	          VALUES ($1, $2, $3, $4, $5)
	          RETURNING id, created_at, updated_at`

	err := r.pool.QueryRow(ctx, query,
		project.Name,
		project.DemoURL,
		project.RepositoryURL,
		project.Description,
		project.OwnerID,
	).Scan(&project.ID, &project.CreatedAt, &project.UpdatedAt)

	if err != nil {
		return fmt.Errorf("failed to create project: %w", err)
	}
	return nil
}

func (r *PostgresProjectRepository) ListByOwner(ctx context.Context, ownerID uuid.UUID) ([]*models.Project, error) {
	query := `SELECT ` + projectColumns + `
	          FROM projects
	          WHERE owner_id = $1
	          ORDER BY created_at ASC`

	rows, err := r.pool.Query(ctx, query, ownerID)
	if err != nil {
		return nil, fmt.Errorf("failed to query projects: %w", err)
	}
	defer rows.Close()

	projects := []*models.Project{}
	for rows.Next() {
		project, err := scanProject(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan project: %w", err)
		}
		projects = append(projects, project)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating projects: %w", err)
	}

	return projects, nil
}

// Update sets the name and whichever optional fields are present in input.
func (r *PostgresProjectRepository) Update(ctx context.Context, id, ownerID uuid.UUID, input models.ProjectInput) (*models.Project, error) {
	// Ownership is part of the WHERE clause, so a foreign project looks exactly like a missing one.
	query := `UPDATE projects
	          SET name = $1,
	              demo_url = CASE WHEN $2 THEN $3 ELSE demo_url END,
	              repository_url = CASE WHEN $4 THEN $5 ELSE repository_url END,
	              description = CASE WHEN $6 THEN $7 ELSE description END,
	              updated_at = NOW()
	          WHERE id = $8 AND owner_id = $9
	          RETURNING ` + projectColumns

	project, err := scanProject(r.pool.QueryRow(ctx, query,
		input.Name,
		input.DemoURL.Set, input.DemoURL.Value,
		input.RepositoryURL.Set, input.RepositoryURL.Value,
		input.Description.Set, input.Description.Value,
		id,
		ownerID,
	))
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to update project: %w", err)
	}
	return project, nil
}

func (r *PostgresProjectRepository) Delete(ctx context.Context, id, ownerID uuid.UUID) error {
	query := `DELETE FROM projects WHERE id = $1 AND owner_id = $2`

	result, err := r.pool.Exec(ctx, query, id, ownerID)
	if err != nil {
		return fmt.Errorf("failed to delete project: %w", err)
	}

	if result.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

func scanProject(row pgx.Row) (*models.Project, error) {
	var project models.Project
	err := row.Scan(
		&project.ID,
		&project.Name,
		&project.DemoURL,
		&project.RepositoryURL,
		&project.Description,
		&project.OwnerID,
		&project.CreatedAt,
		&project.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &project, nil
}
