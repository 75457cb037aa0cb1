package ingest

import (
	"fmt"

	"github.com/jordan/jobtrack/internal/store"
)

// PayloadError represents a payload that could not be decoded for a
// given source.
type PayloadError struct {
	Source  store.Source
	Message string
	Cause   error
}

func (e *PayloadError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("bad %s payload: %s: %v", e.Source, e.Message, e.Cause)
	}
	return fmt.Sprintf("bad %s payload: %s", e.Source, e.Message)
}

func (e *PayloadError) Unwrap() error {
	return e.Cause
}
