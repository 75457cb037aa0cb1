package store

import (
	"context"
	"database/sql"
	"fmt"
)

// UpsertJob inserts a new job or updates an existing one matched by
// id. Only the descriptive fields travel with an upsert: score and
// status belong to the scoring and triage steps, so a re-ingested job
// keeps both. A url that already belongs to a different id is a
// conflict the caller must resolve; the store never reconciles it.
func (s *Store) UpsertJob(ctx context.Context, job *Job) error {
	if err := validateJob(job); err != nil {
		return err
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

	if job.URL != "" {
		var existingID string
		row := tx.QueryRowContext(ctx,
			`SELECT id FROM jobs WHERE url = ? AND id <> ?`, job.URL, job.ID)
		switch err := row.Scan(&existingID); err {
		case sql.ErrNoRows:
			// url is free or already ours
		case nil:
			return &ErrURLConflict{URL: job.URL, ExistingID: existingID, IncomingID: job.ID}
		default:
			return fmt.Errorf("failed to check url uniqueness: %w", err)
		}
	}

	_, err = tx.ExecContext(ctx, `
		INSERT INTO jobs (id, source, company, title, location, url, posted_at, raw_json)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(id) DO UPDATE SET
			source = excluded.source,
			company = excluded.company,
			title = excluded.title,
			location = excluded.location,
			url = excluded.url,
			posted_at = excluded.posted_at,
			raw_json = excluded.raw_json`,
		job.ID,
		string(job.Source),
		nullIfEmpty(job.Company),
		nullIfEmpty(job.Title),
		nullIfEmpty(job.Location),
		nullIfEmpty(job.URL),
		nullIfEmpty(job.PostedAt),
		nullIfEmpty(string(job.RawJSON)),
	)
	if err != nil {
		return fmt.Errorf("failed to upsert job %s: %w", job.ID, err)
	}

	committed = true
	return tx.Commit()
}

// GetJob retrieves a job by id.
func (s *Store) GetJob(ctx context.Context, id string) (*Job, error) {
	row := s.db.QueryRowContext(ctx, `
		SELECT id, source, company, title, location, url, posted_at, raw_json, score, status
		FROM jobs WHERE id = ?`, id)

	job, err := scanJob(row)
	if err == sql.ErrNoRows {
		return nil, &ErrJobNotFound{ID: id}
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get job %s: %w", id, err)
	}
	return job, nil
}

// ListJobs retrieves jobs matching the filters, ordered by score
// descending (the triage order).
func (s *Store) ListJobs(ctx context.Context, filters JobFilters) ([]Job, error) {
	if filters.Limit <= 0 {
		filters.Limit = 50
	}

	query := `SELECT id, source, company, title, location, url, posted_at, raw_json, score, status
		FROM jobs WHERE 1=1`
	args := []any{}

	if filters.Source != "" {
		query += " AND source = ?"
		args = append(args, string(filters.Source))
	}
	if filters.Status != "" {
		query += " AND status = ?"
		args = append(args, string(filters.Status))
	}
	if filters.MinScore != nil {
		query += " AND score >= ?"
		args = append(args, *filters.MinScore)
	}
	if filters.Company != "" {
		query += " AND company LIKE ?"
		args = append(args, "%"+filters.Company+"%")
	}
	if filters.Title != "" {
		query += " AND title LIKE ?"
		args = append(args, "%"+filters.Title+"%")
	}

	query += " ORDER BY score DESC, id ASC LIMIT ?"
	args = append(args, filters.Limit)

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to list jobs: %w", err)
	}
	defer rows.Close()

	var jobs []Job
	for rows.Next() {
		job, err := scanJob(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan job: %w", err)
		}
		jobs = append(jobs, *job)
	}
	return jobs, rows.Err()
}

// ForEachJob streams jobs matching the filters to fn in triage order,
// without the default list limit (Limit 0 means every match). fn
// returning an error stops the iteration.
func (s *Store) ForEachJob(ctx context.Context, filters JobFilters, fn func(*Job) error) error {
	query := `SELECT id, source, company, title, location, url, posted_at, raw_json, score, status
		FROM jobs WHERE 1=1`
	args := []any{}

	if filters.Source != "" {
		query += " AND source = ?"
		args = append(args, string(filters.Source))
	}
	if filters.Status != "" {
		query += " AND status = ?"
		args = append(args, string(filters.Status))
	}
	if filters.MinScore != nil {
		query += " AND score >= ?"
		args = append(args, *filters.MinScore)
	}
	query += " ORDER BY score DESC, id ASC"
	if filters.Limit > 0 {
		query += " LIMIT ?"
		args = append(args, filters.Limit)
	}

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("failed to iterate jobs: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		job, err := scanJob(rows)
		if err != nil {
			return fmt.Errorf("failed to scan job: %w", err)
		}
		if err := fn(job); err != nil {
			return err
		}
	}
	return rows.Err()
}

// SetStatus updates a job's status. When enforce is true the lifecycle
// chain is consulted and an off-chain move is rejected; otherwise any
// known status is accepted (the chain is a soft convention).
func (s *Store) SetStatus(ctx context.Context, id string, status Status, enforce bool) error {
	if !status.Valid() {
		return &ValidationError{Field: "status", Message: "unknown status: " + string(status)}
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

	var current Status
	row := tx.QueryRowContext(ctx, `SELECT status FROM jobs WHERE id = ?`, id)
	if err := row.Scan(&current); err != nil {
		if err == sql.ErrNoRows {
			return &ErrJobNotFound{ID: id}
		}
		return fmt.Errorf("failed to read status of %s: %w", id, err)
	}

	if enforce && !CanTransition(current, status) {
		return &ErrIllegalTransition{ID: id, From: current, To: status}
	}

	if _, err := tx.ExecContext(ctx,
		`UPDATE jobs SET status = ? WHERE id = ?`, string(status), id); err != nil {
		return fmt.Errorf("failed to set status of %s: %w", id, err)
	}

	committed = true
	return tx.Commit()
}

// SetScore writes the ranking an external scorer assigned to a job.
func (s *Store) SetScore(ctx context.Context, id string, score float64) error {
	res, err := s.db.ExecContext(ctx,
		`UPDATE jobs SET score = ? WHERE id = ?`, score, id)
	if err != nil {
		return fmt.Errorf("failed to set score of %s: %w", id, err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to set score of %s: %w", id, err)
	}
	if n == 0 {
		return &ErrJobNotFound{ID: id}
	}
	return nil
}

// rowScanner is satisfied by both *sql.Row and *sql.Rows.
type rowScanner interface {
	Scan(dest ...any) error
}

func scanJob(row rowScanner) (*Job, error) {
	var job Job
	var source string
	var company, title, location, url, postedAt, rawJSON sql.NullString
	var score sql.NullFloat64
	var status sql.NullString

	err := row.Scan(&job.ID, &source, &company, &title, &location,
		&url, &postedAt, &rawJSON, &score, &status)
	if err != nil {
		return nil, err
	}

	job.Source = Source(source)
	job.Company = company.String
	job.Title = title.String
	job.Location = location.String
	job.URL = url.String
	job.PostedAt = postedAt.String
	if rawJSON.Valid && rawJSON.String != "" {
		job.RawJSON = []byte(rawJSON.String)
	}
	job.Score = score.Float64
	job.Status = Status(status.String)
	return &job, nil
}

func nullIfEmpty(s string) any {
	if s == "" {
		return nil
	}
	return s
}
