package server

import (
	"io"
	"net/http"

	"github.com/jordan/jobtrack/internal/ingest"
	"github.com/jordan/jobtrack/internal/store"
)

// maxPayloadBytes caps ingestion request bodies. Board APIs return a
// few hundred KB at most; anything larger is a caller mistake.
const maxPayloadBytes = 16 << 20

// handleIngest accepts one raw source payload and runs it through the
// matching normalizer into the store.
func (s *Server) handleIngest(w http.ResponseWriter, r *http.Request) {
	source := store.Source(r.PathValue("source"))
	board := r.PathValue("board")

	var normalizer ingest.Normalizer
	switch source {
	case store.SourceGreenhouse:
		normalizer = ingest.NewGreenhouse(board)
	case store.SourceLever:
		normalizer = ingest.NewLever(board)
	case store.SourceRSS:
		normalizer = ingest.NewRSS(board)
	case store.SourceCustom:
		normalizer = ingest.NewCustom(board)
	default:
		s.errorResponse(w, http.StatusBadRequest, "Unknown source: "+string(source))
		return
	}

	payload, err := io.ReadAll(io.LimitReader(r.Body, maxPayloadBytes))
	if err != nil {
		s.errorResponse(w, http.StatusBadRequest, "Failed to read request body")
		return
	}
	if len(payload) == 0 {
		s.errorResponse(w, http.StatusBadRequest, "Request body is required")
		return
	}

	result, err := s.runner.Run(r.Context(), []ingest.Input{
		{Normalizer: normalizer, Payload: payload},
	})
	if err != nil {
		s.storeError(w, err)
		return
	}

	conflicts := make([]string, 0, len(result.Conflicts))
	for _, c := range result.Conflicts {
		conflicts = append(conflicts, c.Error())
	}
	s.jsonResponse(w, http.StatusOK, map[string]any{
		"run_id":    result.RunID.String(),
		"upserted":  result.Upserted,
		"conflicts": conflicts,
	})
}
