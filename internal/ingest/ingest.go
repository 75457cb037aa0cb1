// Package ingest turns raw source payloads into job records and
// upserts them into the store. Fetching the payloads (board APIs,
// feeds) is the ingestion collaborator's job; this package begins
// where a payload has already been obtained.
package ingest

import (
	"context"
	"fmt"
	"log"

	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"

	"github.com/jordan/jobtrack/internal/store"
)

// Normalizer converts one source's raw payload into job records. Each
// returned job carries the verbatim per-posting payload in RawJSON.
type Normalizer interface {
	Source() store.Source
	Normalize(payload []byte) ([]store.Job, error)
}

// Input pairs a payload with the normalizer that understands it.
type Input struct {
	Normalizer Normalizer
	Payload    []byte
}

// Result summarizes one ingestion run.
type Result struct {
	RunID    uuid.UUID
	Upserted int
	// Conflicts holds the url collisions the store surfaced. They do
	// not abort the run; the caller owns the reconciliation decision.
	Conflicts []error
	BySource  map[store.Source]int
}

// Runner normalizes batches concurrently and writes them serially;
// the store is a single-writer resource.
type Runner struct {
	store *store.Store
}

// NewRunner creates a Runner backed by the given store.
func NewRunner(st *store.Store) *Runner {
	return &Runner{store: st}
}

// Run processes the given inputs as one ingestion run.
func (r *Runner) Run(ctx context.Context, inputs []Input) (*Result, error) {
	result := &Result{
		RunID:    uuid.New(),
		BySource: make(map[store.Source]int),
	}

	normalized := make([][]store.Job, len(inputs))
	g, gctx := errgroup.WithContext(ctx)
	for i, in := range inputs {
		g.Go(func() error {
			if gctx.Err() != nil {
				return gctx.Err()
			}
			jobs, err := in.Normalizer.Normalize(in.Payload)
			if err != nil {
				return fmt.Errorf("failed to normalize %s payload: %w", in.Normalizer.Source(), err)
			}
			normalized[i] = jobs
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	for _, jobs := range normalized {
		for i := range jobs {
			job := &jobs[i]
			err := r.store.UpsertJob(ctx, job)
			switch {
			case err == nil:
				result.Upserted++
				result.BySource[job.Source]++
			case store.IsConstraintViolation(err):
				log.Printf("[ingest %s] url conflict: %v", result.RunID, err)
				result.Conflicts = append(result.Conflicts, err)
			default:
				return nil, fmt.Errorf("failed to upsert %s: %w", job.ID, err)
			}
		}
	}

	log.Printf("[ingest %s] upserted %d job(s), %d conflict(s)",
		result.RunID, result.Upserted, len(result.Conflicts))
	return result, nil
}
