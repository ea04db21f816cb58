package db

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
)

const applicantColumns = `id, first_name, last_name, email, phone, job_id, cv_url, status,
	matching_score, ai_summary, overview, strengths, potential_gaps,
	potential_prediction, personality_inference, created_at, updated_at`

func scanApplicant(row pgx.Row) (*Applicant, error) {
	var a Applicant
	err := row.Scan(
		&a.ID, &a.FirstName, &a.LastName, &a.Email, &a.Phone, &a.JobID, &a.CVURL, &a.Status,
		&a.MatchingScore, &a.AISummary, &a.Overview, &a.Strengths, &a.PotentialGaps,
		&a.PotentialPrediction, &a.PersonalityInference, &a.CreatedAt, &a.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &a, nil
}

// CreateApplicant inserts a new applicant row and returns it
func (db *DB) CreateApplicant(ctx context.Context, a *Applicant) (*Applicant, error) {
	status := a.Status
	if status == "" {
		status = StatusApplied
	}
	row := db.pool.QueryRow(ctx,
		`INSERT INTO applicants (first_name, last_name, email, phone, job_id, cv_url, status)
		 VALUES ($1, $2, $3, $4, $5, $6, $7)
		 RETURNING `+applicantColumns,
		a.FirstName, a.LastName, a.Email, a.Phone, a.JobID, a.CVURL, status,
	)
	created, err := scanApplicant(row)
	if err != nil {
		return nil, fmt.Errorf("failed to create applicant: %w", err)
	}
	return created, nil
}

// GetApplicant retrieves an applicant by ID. Returns nil if not found.
func (db *DB) GetApplicant(ctx context.Context, id uuid.UUID) (*Applicant, error) {
	row := db.pool.QueryRow(ctx,
		`SELECT `+applicantColumns+` FROM applicants WHERE id = $1`, id)
	a, err := scanApplicant(row)
	if err != nil {
		if err == pgx.ErrNoRows {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get applicant: %w", err)
	}
	return a, nil
}

// ListApplicantsOptions holds optional filters for listing applicants
type ListApplicantsOptions struct {
	JobID  *uuid.UUID
	Status *Status
	Limit  int
	Offset int
}

// ListApplicants retrieves applicants with optional filters and pagination
func (db *DB) ListApplicants(ctx context.Context, opts ListApplicantsOptions) ([]Applicant, error) {
	if opts.Limit == 0 {
		opts.Limit = 50
	}

	query := `SELECT ` + applicantColumns + ` FROM applicants WHERE 1=1`
	args := []any{}
	argNum := 1

	if opts.JobID != nil {
		query += fmt.Sprintf(" AND job_id = $%d", argNum)
		args = append(args, *opts.JobID)
		argNum++
	}
	if opts.Status != nil {
		query += fmt.Sprintf(" AND status = $%d", argNum)
		args = append(args, *opts.Status)
		argNum++
	}

	query += fmt.Sprintf(" ORDER BY created_at DESC LIMIT $%d OFFSET $%d", argNum, argNum+1)
	args = append(args, opts.Limit, opts.Offset)

	rows, err := db.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to list applicants: %w", err)
	}
	defer rows.Close()

	var applicants []Applicant
	for rows.Next() {
		a, err := scanApplicant(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan applicant: %w", err)
		}
		applicants = append(applicants, *a)
	}
	return applicants, nil
}

// ListApplicantsForJob retrieves applicants eligible for scoring against a
// job: applied to that job and with an attached CV. The cap bounds external
// API cost per matching request; larger pools are silently truncated.
func (db *DB) ListApplicantsForJob(ctx context.Context, jobID uuid.UUID, limit int) ([]Applicant, error) {
	rows, err := db.pool.Query(ctx,
		`SELECT `+applicantColumns+` FROM applicants
		 WHERE job_id = $1 AND cv_url IS NOT NULL
		 ORDER BY created_at ASC LIMIT $2`,
		jobID, limit,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to list applicants for job: %w", err)
	}
	defer rows.Close()

	var applicants []Applicant
	for rows.Next() {
		a, err := scanApplicant(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan applicant: %w", err)
		}
		applicants = append(applicants, *a)
	}
	return applicants, nil
}

// UpdateApplicant updates identity and contact fields of an applicant.
// AI-derived fields and status are written only through UpdateApplicantAnalysis
// and UpdateApplicantStatus.
func (db *DB) UpdateApplicant(ctx context.Context, id uuid.UUID, a *Applicant) (*Applicant, error) {
	row := db.pool.QueryRow(ctx,
		`UPDATE applicants
		 SET first_name = $1, last_name = $2, email = $3, phone = $4, job_id = $5,
		     cv_url = $6, updated_at = NOW()
		 WHERE id = $7
		 RETURNING `+applicantColumns,
		a.FirstName, a.LastName, a.Email, a.Phone, a.JobID, a.CVURL, id,
	)
	updated, err := scanApplicant(row)
	if err != nil {
		if err == pgx.ErrNoRows {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to update applicant: %w", err)
	}
	return updated, nil
}

// UpdateApplicantAnalysis overwrites the AI-derived fields on an applicant
// row. Called after every analyzer attempt, successful or degraded, so the
// row always reflects the latest attempt. No history is kept.
func (db *DB) UpdateApplicantAnalysis(ctx context.Context, id uuid.UUID, u AnalysisUpdate) error {
	strengths := u.Strengths
	if strengths == nil {
		strengths = []string{}
	}
	gaps := u.PotentialGaps
	if gaps == nil {
		gaps = []string{}
	}
	_, err := db.pool.Exec(ctx,
		`UPDATE applicants
		 SET matching_score = $1, ai_summary = $2, overview = $3, strengths = $4,
		     potential_gaps = $5, potential_prediction = $6, personality_inference = $7,
		     updated_at = NOW()
		 WHERE id = $8`,
		u.MatchingScore, u.AISummary, u.Overview, strengths, gaps,
		u.PotentialPrediction, u.PersonalityInference, id,
	)
	if err != nil {
		return fmt.Errorf("failed to update applicant analysis: %w", err)
	}
	return nil
}

// UpdateApplicantStatus sets the lifecycle status of an applicant
func (db *DB) UpdateApplicantStatus(ctx context.Context, id uuid.UUID, status Status) error {
	result, err := db.pool.Exec(ctx,
		`UPDATE applicants SET status = $1, updated_at = NOW() WHERE id = $2`,
		status, id,
	)
	if err != nil {
		return fmt.Errorf("failed to update applicant status: %w", err)
	}
	if result.RowsAffected() == 0 {
		return fmt.Errorf("applicant not found: %s", id)
	}
	return nil
}

// DeleteApplicant removes an applicant row
func (db *DB) DeleteApplicant(ctx context.Context, id uuid.UUID) error {
	result, err := db.pool.Exec(ctx, `DELETE FROM applicants WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("failed to delete applicant: %w", err)
	}
	if result.RowsAffected() == 0 {
		return fmt.Errorf("applicant not found: %s", id)
	}
	return nil
}
