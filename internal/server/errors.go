package server

import (
	"errors"
	"net/http"

	"github.com/jordan/jobtrack/internal/ingest"
	"github.com/jordan/jobtrack/internal/store"
)

// httpStatus maps a store or ingest error to the status code it should
// be served with.
func httpStatus(err error) int {
	var payloadErr *ingest.PayloadError
	switch {
	case store.IsNotFound(err):
		return http.StatusNotFound
	case store.IsConstraintViolation(err):
		return http.StatusConflict
	case store.IsValidation(err):
		return http.StatusBadRequest
	case errors.As(err, &payloadErr):
		return http.StatusBadRequest
	default:
		return http.StatusInternalServerError
	}
}

// storeError writes err with the status httpStatus assigns it.
func (s *Server) storeError(w http.ResponseWriter, err error) {
	s.errorResponse(w, httpStatus(err), err.Error())
}
