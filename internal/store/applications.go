package store

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
	"time"
)

// appliedAtFormat matches the date-only stamps the materials step has
// always written.
const appliedAtFormat = "2006-01-02"

// RecordApplication creates the single application row for a job. A
// job gets at most one application; a second call for the same job_id
// is a constraint violation, not an update. The paths reference
// generated material files external to the store.
func (s *Store) RecordApplication(ctx context.Context, jobID, resumePath, coverPath, notes string) (*Application, error) {
	if jobID == "" {
		return nil, &ValidationError{Field: "job_id", Message: "is required"}
	}

	tx, err := s.begin(ctx)
	if err != nil {
		return nil, err
	}
	committed := false
	defer func() {
		if !committed {
			_ = tx.Rollback()
		}
	}()

	var exists string
	row := tx.QueryRowContext(ctx, `SELECT id FROM jobs WHERE id = ?`, jobID)
	if err := row.Scan(&exists); err != nil {
		if err == sql.ErrNoRows {
			return nil, &ErrJobNotFound{ID: jobID}
		}
		return nil, fmt.Errorf("failed to check job %s: %w", jobID, err)
	}

	var dup string
	row = tx.QueryRowContext(ctx, `SELECT job_id FROM applications WHERE job_id = ?`, jobID)
	switch err := row.Scan(&dup); err {
	case sql.ErrNoRows:
		// first application for this job
	case nil:
		return nil, &ErrDuplicateApplication{JobID: jobID}
	default:
		return nil, fmt.Errorf("failed to check application for %s: %w", jobID, err)
	}

	app := &Application{
		JobID:      jobID,
		AppliedAt:  time.Now().UTC().Format(appliedAtFormat),
		ResumePath: resumePath,
		CoverPath:  coverPath,
		Notes:      notes,
	}

	_, err = tx.ExecContext(ctx, `
		INSERT INTO applications (job_id, applied_at, resume_path, cover_path, notes)
		VALUES (?, ?, ?, ?, ?)`,
		app.JobID, app.AppliedAt,
		nullIfEmpty(app.ResumePath), nullIfEmpty(app.CoverPath), nullIfEmpty(app.Notes),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to record application for %s: %w", jobID, err)
	}

	committed = true
	if err := tx.Commit(); err != nil {
		return nil, err
	}
	return app, nil
}

// GetApplication retrieves the application row for a job.
func (s *Store) GetApplication(ctx context.Context, jobID string) (*Application, error) {
	var app Application
	var appliedAt, resumePath, coverPath, notes sql.NullString

	row := s.db.QueryRowContext(ctx, `
		SELECT job_id, applied_at, resume_path, cover_path, notes
		FROM applications WHERE job_id = ?`, jobID)
	err := row.Scan(&app.JobID, &appliedAt, &resumePath, &coverPath, &notes)
	if err == sql.ErrNoRows {
		return nil, &ErrApplicationNotFound{JobID: jobID}
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get application for %s: %w", jobID, err)
	}

	app.AppliedAt = appliedAt.String
	app.ResumePath = resumePath.String
	app.CoverPath = coverPath.String
	app.Notes = notes.String
	return &app, nil
}

// AppendNote adds a line to an application's notes. Applications are
// append-only after creation; notes are the one field that grows.
func (s *Store) AppendNote(ctx context.Context, jobID, note string) error {
	note = strings.TrimSpace(note)
	if note == "" {
		return &ValidationError{Field: "notes", Message: "is required"}
	}

	tx, err := s.begin(ctx)
	if err != nil {
		return err
	}
	committed := false
	defer func() {
		if !committed {
			_ = tx.Rollback()
		}
	}()

	var existing sql.NullString
	row := tx.QueryRowContext(ctx,
		`SELECT notes FROM applications WHERE job_id = ?`, jobID)
	if err := row.Scan(&existing); err != nil {
		if err == sql.ErrNoRows {
			return &ErrApplicationNotFound{JobID: jobID}
		}
		return fmt.Errorf("failed to read notes for %s: %w", jobID, err)
	}

	merged := note
	if existing.Valid && existing.String != "" {
		merged = existing.String + "\n" + note
	}

	if _, err := tx.ExecContext(ctx,
		`UPDATE applications SET notes = ? WHERE job_id = ?`, merged, jobID); err != nil {
		return fmt.Errorf("failed to append note for %s: %w", jobID, err)
	}

	committed = true
	return tx.Commit()
}
