package ingest

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/jordan/jobtrack/internal/store"
)

// Lever normalizes responses from the Lever postings API
// (GET https://api.lever.co/v0/postings/<board>?mode=json).
type Lever struct {
	Board string
}

// NewLever creates a normalizer for one Lever board slug.
func NewLever(board string) *Lever {
	return &Lever{Board: board}
}

// Source returns the source tag for Lever payloads.
func (l *Lever) Source() store.Source { return store.SourceLever }

type leverPosting struct {
	ID         string            `json:"id"`
	Text       string            `json:"text"`
	HostedURL  string            `json:"hostedUrl"`
	CreatedAt  any               `json:"createdAt"` // ms epoch
	Categories map[string]string `json:"categories"`
}

// Normalize converts a postings API response (a JSON array) into job
// records.
func (l *Lever) Normalize(payload []byte) ([]store.Job, error) {
	var rawPostings []json.RawMessage
	if err := json.Unmarshal(payload, &rawPostings); err != nil {
		return nil, &PayloadError{Source: l.Source(), Message: "decoding postings response", Cause: err}
	}

	jobs := make([]store.Job, 0, len(rawPostings))
	for _, raw := range rawPostings {
		var p leverPosting
		if err := json.Unmarshal(raw, &p); err != nil {
			return nil, &PayloadError{Source: l.Source(), Message: "decoding posting", Cause: err}
		}
		if p.ID == "" {
			return nil, &PayloadError{Source: l.Source(), Message: "posting has no id"}
		}

		jobs = append(jobs, store.Job{
			ID:       fmt.Sprintf("lever:%s:%s", l.Board, p.ID),
			Source:   store.SourceLever,
			Company:  l.Board,
			Title:    p.Text,
			Location: leverLocation(p.Categories),
			URL:      p.HostedURL,
			PostedAt: NormalizeTimestamp(p.CreatedAt),
			RawJSON:  raw,
		})
	}
	return jobs, nil
}

// leverLocation prefers the explicit location category and falls back
// to joining whatever categories are set.
func leverLocation(categories map[string]string) string {
	if loc := categories["location"]; loc != "" {
		return loc
	}
	// Stable fallback order so repeated ingests agree.
	var parts []string
	for _, key := range []string{"team", "department", "commitment"} {
		if v := categories[key]; v != "" {
			parts = append(parts, v)
		}
	}
	return strings.Join(parts, ", ")
}
