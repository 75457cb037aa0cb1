package store

import (
	"encoding/json"

	"github.com/go-playground/validator/v10"
)

// Source identifies where a job posting was ingested from.
type Source string

const (
	// SourceGreenhouse is the Greenhouse boards API
	SourceGreenhouse Source = "greenhouse"
	// SourceLever is the Lever postings API
	SourceLever Source = "lever"
	// SourceRSS is a job feed consumed as RSS/Atom
	SourceRSS Source = "rss"
	// SourceCustom is a caller-supplied, pre-normalized posting
	SourceCustom Source = "custom"
)

// KnownSources lists every accepted source tag.
var KnownSources = []Source{SourceGreenhouse, SourceLever, SourceRSS, SourceCustom}

// Valid reports whether s is a known source tag.
func (s Source) Valid() bool {
	for _, k := range KnownSources {
		if s == k {
			return true
		}
	}
	return false
}

// Status is the application lifecycle tag of a job.
type Status string

const (
	// StatusNew is the initial status of an ingested job
	StatusNew Status = "new"
	// StatusShortlisted marks a job selected during triage
	StatusShortlisted Status = "shortlisted"
	// StatusApplied marks a job with a submitted application
	StatusApplied Status = "applied"
	// StatusInterview marks a job in the interview stage
	StatusInterview Status = "interview"
	// StatusRejected is a terminal outcome
	StatusRejected Status = "rejected"
	// StatusOffer is a terminal outcome
	StatusOffer Status = "offer"
)

// KnownStatuses lists every accepted lifecycle tag.
var KnownStatuses = []Status{
	StatusNew, StatusShortlisted, StatusApplied,
	StatusInterview, StatusRejected, StatusOffer,
}

// Valid reports whether s is a known lifecycle tag.
func (s Status) Valid() bool {
	for _, k := range KnownStatuses {
		if s == k {
			return true
		}
	}
	return false
}

// transitions encodes the lifecycle chain
// new -> shortlisted -> applied -> interview -> {rejected|offer}.
// The chain is a soft convention; SetStatus only consults it when the
// caller opts in.
var transitions = map[Status][]Status{
	StatusNew:         {StatusShortlisted},
	StatusShortlisted: {StatusApplied},
	StatusApplied:     {StatusInterview},
	StatusInterview:   {StatusRejected, StatusOffer},
	StatusRejected:    {},
	StatusOffer:       {},
}

// CanTransition reports whether moving from one status to another
// follows the lifecycle chain. Setting the same status again is allowed.
func CanTransition(from, to Status) bool {
	if from == to {
		return true
	}
	for _, next := range transitions[from] {
		if next == to {
			return true
		}
	}
	return false
}

// Job is one posting from one source. IDs follow the convention
// <source>:<board>:<native_id>, e.g. "greenhouse:stripe:5922987".
type Job struct {
	ID       string `json:"id" validate:"required"`
	Source   Source `json:"source" validate:"required"`
	Company  string `json:"company,omitempty"`
	Title    string `json:"title,omitempty"`
	Location string `json:"location,omitempty"`
	URL      string `json:"url,omitempty"`
	// PostedAt is the source-supplied timestamp; its format is not
	// normalized by the store.
	PostedAt string `json:"posted_at,omitempty"`
	// RawJSON is the verbatim source payload. The store persists it
	// untouched and never parses it; only ingestion collaborators
	// interpret its shape.
	RawJSON json.RawMessage `json:"raw_json,omitempty"`
	Score   float64         `json:"score"`
	Status  Status          `json:"status"`
}

// Application is the single application record for a job (1:1 via
// the job_id primary key).
type Application struct {
	JobID      string `json:"job_id" validate:"required"`
	AppliedAt  string `json:"applied_at,omitempty"`
	ResumePath string `json:"resume_path,omitempty"`
	CoverPath  string `json:"cover_path,omitempty"`
	Notes      string `json:"notes,omitempty"`
}

// JobFilters holds optional filters for listing jobs.
type JobFilters struct {
	Source   Source
	Status   Status
	MinScore *float64
	Company  string // substring match
	Title    string // substring match
	Limit    int
}

var validate = validator.New()

// validateJob checks structural requirements before a job touches the
// database. Enum membership is checked separately so the error can
// name the offending field.
func validateJob(job *Job) error {
	if err := validate.Struct(job); err != nil {
		if errs, ok := err.(validator.ValidationErrors); ok && len(errs) > 0 {
			field := errs[0].Field()
			return &ValidationError{Field: field, Message: "is required"}
		}
		return &ValidationError{Message: err.Error()}
	}
	if !job.Source.Valid() {
		return &ValidationError{Field: "source", Message: "unknown source: " + string(job.Source)}
	}
	if job.Status != "" && !job.Status.Valid() {
		return &ValidationError{Field: "status", Message: "unknown status: " + string(job.Status)}
	}
	return nil
}
