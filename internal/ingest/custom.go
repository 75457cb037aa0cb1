package ingest

import (
	"encoding/json"
	"fmt"

	"github.com/jordan/jobtrack/internal/store"
)

// Custom normalizes caller-supplied postings that already follow the
// job document shape. It exists so one-off boards without an API
// client can still flow through the same ingestion path.
type Custom struct {
	Board string
}

// NewCustom creates a normalizer for one custom board slug.
func NewCustom(board string) *Custom {
	return &Custom{Board: board}
}

// Source returns the source tag for custom payloads.
func (c *Custom) Source() store.Source { return store.SourceCustom }

type customPosting struct {
	NativeID string `json:"native_id"`
	Company  string `json:"company"`
	Title    string `json:"title"`
	Location string `json:"location"`
	URL      string `json:"url"`
	PostedAt any    `json:"posted_at"`
}

// Normalize converts a JSON array of pre-normalized postings into job
// records.
func (c *Custom) Normalize(payload []byte) ([]store.Job, error) {
	var rawPostings []json.RawMessage
	if err := json.Unmarshal(payload, &rawPostings); err != nil {
		return nil, &PayloadError{Source: c.Source(), Message: "decoding postings", Cause: err}
	}

	jobs := make([]store.Job, 0, len(rawPostings))
	for _, raw := range rawPostings {
		var p customPosting
		if err := json.Unmarshal(raw, &p); err != nil {
			return nil, &PayloadError{Source: c.Source(), Message: "decoding posting", Cause: err}
		}
		if p.NativeID == "" {
			return nil, &PayloadError{Source: c.Source(), Message: "posting has no native_id"}
		}

		company := p.Company
		if company == "" {
			company = c.Board
		}

		jobs = append(jobs, store.Job{
			ID:       fmt.Sprintf("custom:%s:%s", c.Board, p.NativeID),
			Source:   store.SourceCustom,
			Company:  company,
			Title:    p.Title,
			Location: p.Location,
			URL:      p.URL,
			PostedAt: NormalizeTimestamp(p.PostedAt),
			RawJSON:  raw,
		})
	}
	return jobs, nil
}
