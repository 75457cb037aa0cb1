package ingest

import (
	"encoding/json"
	"fmt"

	"github.com/jordan/jobtrack/internal/store"
)

// Greenhouse normalizes responses from the Greenhouse boards API
// (GET https://boards-api.greenhouse.io/v1/boards/<board>/jobs).
type Greenhouse struct {
	Board string
}

// NewGreenhouse creates a normalizer for one Greenhouse board slug.
func NewGreenhouse(board string) *Greenhouse {
	return &Greenhouse{Board: board}
}

// Source returns the source tag for Greenhouse payloads.
func (g *Greenhouse) Source() store.Source { return store.SourceGreenhouse }

type greenhouseResponse struct {
	Jobs []json.RawMessage `json:"jobs"`
}

type greenhousePosting struct {
	ID          json.Number `json:"id"`
	Title       string      `json:"title"`
	AbsoluteURL string      `json:"absolute_url"`
	UpdatedAt   any         `json:"updated_at"`
	CreatedAt   any         `json:"created_at"`
	Location    struct {
		Name string `json:"name"`
	} `json:"location"`
}

// Normalize converts a boards API response into job records. Each job
// keeps its own posting object as the opaque payload.
func (g *Greenhouse) Normalize(payload []byte) ([]store.Job, error) {
	var resp greenhouseResponse
	if err := json.Unmarshal(payload, &resp); err != nil {
		return nil, &PayloadError{Source: g.Source(), Message: "decoding boards response", Cause: err}
	}

	jobs := make([]store.Job, 0, len(resp.Jobs))
	for _, raw := range resp.Jobs {
		var p greenhousePosting
		if err := json.Unmarshal(raw, &p); err != nil {
			return nil, &PayloadError{Source: g.Source(), Message: "decoding posting", Cause: err}
		}
		if p.ID.String() == "" {
			return nil, &PayloadError{Source: g.Source(), Message: "posting has no id"}
		}

		postedAt := p.UpdatedAt
		if postedAt == nil {
			postedAt = p.CreatedAt
		}

		jobs = append(jobs, store.Job{
			ID:       fmt.Sprintf("greenhouse:%s:%s", g.Board, p.ID.String()),
			Source:   store.SourceGreenhouse,
			Company:  g.Board,
			Title:    p.Title,
			Location: p.Location.Name,
			URL:      p.AbsoluteURL,
			PostedAt: NormalizeTimestamp(postedAt),
			RawJSON:  raw,
		})
	}
	return jobs, nil
}
