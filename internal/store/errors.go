package store

import (
	"errors"
	"fmt"
)

// ErrJobNotFound indicates a lookup miss on the jobs table
type ErrJobNotFound struct {
	ID string
}

func (e *ErrJobNotFound) Error() string {
	return fmt.Sprintf("job not found: %s", e.ID)
}

// ErrApplicationNotFound indicates a lookup miss on the applications table
type ErrApplicationNotFound struct {
	JobID string
}

func (e *ErrApplicationNotFound) Error() string {
	return fmt.Sprintf("application not found for job: %s", e.JobID)
}

// ErrURLConflict indicates an upsert whose url already belongs to a
// different job id. The schema cannot reconcile a re-listed posting,
// so the conflict is surfaced and the caller decides.
type ErrURLConflict struct {
	URL        string
	ExistingID string
	IncomingID string
}

func (e *ErrURLConflict) Error() string {
	return fmt.Sprintf("url %s already belongs to job %s (incoming id %s)",
		e.URL, e.ExistingID, e.IncomingID)
}

// ErrDuplicateApplication indicates a second application for a job
// that already has one.
type ErrDuplicateApplication struct {
	JobID string
}

func (e *ErrDuplicateApplication) Error() string {
	return fmt.Sprintf("application already recorded for job: %s", e.JobID)
}

// ErrIllegalTransition indicates a status change that violates the
// lifecycle chain while transition enforcement is enabled.
type ErrIllegalTransition struct {
	ID   string
	From Status
	To   Status
}

func (e *ErrIllegalTransition) Error() string {
	return fmt.Sprintf("illegal status transition for %s: %s -> %s", e.ID, e.From, e.To)
}

// ValidationError indicates a record missing a required field or
// carrying an unknown enum value.
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	if e.Field != "" {
		return fmt.Sprintf("validation error: %s %s", e.Field, e.Message)
	}
	return fmt.Sprintf("validation error: %s", e.Message)
}

// IsNotFound reports whether err is a lookup miss.
func IsNotFound(err error) bool {
	var jnf *ErrJobNotFound
	var anf *ErrApplicationNotFound
	return errors.As(err, &jnf) || errors.As(err, &anf)
}

// IsConstraintViolation reports whether err is a uniqueness conflict
// (duplicate url on upsert, duplicate application for a job).
func IsConstraintViolation(err error) bool {
	var uc *ErrURLConflict
	var da *ErrDuplicateApplication
	return errors.As(err, &uc) || errors.As(err, &da)
}

// IsValidation reports whether err is a validation failure, including
// an enforced illegal status transition.
func IsValidation(err error) bool {
	var ve *ValidationError
	var it *ErrIllegalTransition
	return errors.As(err, &ve) || errors.As(err, &it)
}
