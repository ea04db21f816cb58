package db

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
)

const jobColumns = `id, title, description, skills, min_experience_years, education_level,
	open_from, open_until, created_at, updated_at`

func scanJob(row pgx.Row) (*Job, error) {
	var j Job
	err := row.Scan(
		&j.ID, &j.Title, &j.Description, &j.Skills, &j.MinExperienceYears, &j.EducationLevel,
		&j.OpenFrom, &j.OpenUntil, &j.CreatedAt, &j.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &j, nil
}

// CreateJob inserts a new job posting and returns it
func (db *DB) CreateJob(ctx context.Context, j *Job) (*Job, error) {
	skills := j.Skills
	if skills == nil {
		skills = []string{}
	}
	row := db.pool.QueryRow(ctx,
		`INSERT INTO jobs (title, description, skills, min_experience_years, education_level, open_from, open_until)
		 VALUES ($1, $2, $3, $4, $5, $6, $7)
		 RETURNING `+jobColumns,
		j.Title, j.Description, skills, j.MinExperienceYears, j.EducationLevel, j.OpenFrom, j.OpenUntil,
	)
	created, err := scanJob(row)
	if err != nil {
		return nil, fmt.Errorf("failed to create job: %w", err)
	}
	return created, nil
}

// GetJob retrieves a job by ID. Returns nil if not found.
func (db *DB) GetJob(ctx context.Context, id uuid.UUID) (*Job, error) {
	row := db.pool.QueryRow(ctx, `SELECT `+jobColumns+` FROM jobs WHERE id = $1`, id)
	j, err := scanJob(row)
	if err != nil {
		if err == pgx.ErrNoRows {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get job: %w", err)
	}
	return j, nil
}

// ListJobs retrieves jobs ordered by creation time with pagination
func (db *DB) ListJobs(ctx context.Context, limit, offset int) ([]Job, error) {
	if limit == 0 {
		limit = 50
	}
	rows, err := db.pool.Query(ctx,
		`SELECT `+jobColumns+` FROM jobs ORDER BY created_at DESC LIMIT $1 OFFSET $2`,
		limit, offset,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to list jobs: %w", err)
	}
	defer rows.Close()

	var jobs []Job
	for rows.Next() {
		j, err := scanJob(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan job: %w", err)
		}
		jobs = append(jobs, *j)
	}
	return jobs, nil
}

// ListOpenJobs retrieves up to limit jobs to score an applicant against.
// The cap bounds external API cost per matching request.
func (db *DB) ListOpenJobs(ctx context.Context, limit int) ([]Job, error) {
	rows, err := db.pool.Query(ctx,
		`SELECT `+jobColumns+` FROM jobs
		 WHERE (open_until IS NULL OR open_until > NOW())
		 ORDER BY created_at ASC LIMIT $1`,
		limit,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to list open jobs: %w", err)
	}
	defer rows.Close()

	var jobs []Job
	for rows.Next() {
		j, err := scanJob(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan job: %w", err)
		}
		jobs = append(jobs, *j)
	}
	return jobs, nil
}

// UpdateJob updates a job posting. Returns nil if not found.
func (db *DB) UpdateJob(ctx context.Context, id uuid.UUID, j *Job) (*Job, error) {
	skills := j.Skills
	if skills == nil {
		skills = []string{}
	}
	row := db.pool.QueryRow(ctx,
		`UPDATE jobs
		 SET title = $1, description = $2, skills = $3, min_experience_years = $4,
		     education_level = $5, open_from = $6, open_until = $7, updated_at = NOW()
		 WHERE id = $8
		 RETURNING `+jobColumns,
		j.Title, j.Description, skills, j.MinExperienceYears, j.EducationLevel,
		j.OpenFrom, j.OpenUntil, id,
	)
	updated, err := scanJob(row)
	if err != nil {
		if err == pgx.ErrNoRows {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to update job: %w", err)
	}
	return updated, nil
}

// DeleteJob removes a job posting. Applicant rows referencing it keep their
// data with job_id set to NULL.
func (db *DB) DeleteJob(ctx context.Context, id uuid.UUID) error {
	result, err := db.pool.Exec(ctx, `DELETE FROM jobs WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("failed to delete job: %w", err)
	}
	if result.RowsAffected() == 0 {
		return fmt.Errorf("job not found: %s", id)
	}
	return nil
}
