package scoring

import (
	"context"
	"fmt"
	"log"
	"math"
	"strings"

	"github.com/jordan/jobtrack/internal/store"
)

// Score rates a text blob against the profile: 100 times the weighted
// share of profile skills found in the text, rounded to one decimal.
func Score(profile *Profile, text string) float64 {
	text = strings.ToLower(text)

	var hits, total float64
	for _, bucket := range profile.Buckets {
		weight := bucket.Weight
		if weight == 0 {
			weight = 1.0
		}
		for _, skill := range bucket.Skills {
			skill = strings.ToLower(strings.TrimSpace(skill))
			if skill == "" {
				continue
			}
			total += weight
			if strings.Contains(text, skill) {
				hits += weight
			}
		}
	}

	if total == 0 {
		return 0
	}
	return math.Round(100.0*hits/total*10) / 10
}

// ScoreJob rates one job record.
func ScoreJob(profile *Profile, job *store.Job) float64 {
	return Score(profile, ExtractText(job.Source, job.RawJSON))
}

// ScoreAll walks every stored job, scores its payload text and writes
// the score back. Returns the number of jobs scored.
func ScoreAll(ctx context.Context, st *store.Store, profile *Profile) (int, error) {
	type scored struct {
		id    string
		score float64
	}

	// Collect first, write after: the store is a single-writer
	// resource and the iteration holds a read cursor.
	var results []scored
	err := st.ForEachJob(ctx, store.JobFilters{}, func(job *store.Job) error {
		results = append(results, scored{id: job.ID, score: ScoreJob(profile, job)})
		return nil
	})
	if err != nil {
		return 0, fmt.Errorf("failed to walk jobs: %w", err)
	}

	for _, r := range results {
		if err := st.SetScore(ctx, r.id, r.score); err != nil {
			return 0, fmt.Errorf("failed to store score for %s: %w", r.id, err)
		}
	}

	log.Printf("[scoring] scored %d job(s)", len(results))
	return len(results), nil
}
