// Package materials manages the tailored application documents for a
// job: file naming, assembly around a base resume, and recording the
// application row. The actual tailored content comes from an external
// ContentProvider; this package never generates prose itself.
package materials

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/jordan/jobtrack/internal/store"
)

// ContentProvider supplies the tailored content for a job: resume
// bullet points and a cover letter body, both as Markdown.
type ContentProvider interface {
	Materials(ctx context.Context, job *store.Job) (bullets, cover string, err error)
}

// Writer assembles and records application materials.
type Writer struct {
	store      *store.Store
	provider   ContentProvider
	docsDir    string
	baseResume string // path to the base resume markdown, may be empty
}

// NewWriter creates a Writer that places documents under docsDir.
func NewWriter(st *store.Store, provider ContentProvider, docsDir, baseResume string) *Writer {
	return &Writer{store: st, provider: provider, docsDir: docsDir, baseResume: baseResume}
}

// MaterialPaths returns the resume and cover file paths for a job id,
// following the <source>_<board>_<native_id>_{resume,cover}.md naming.
func MaterialPaths(docsDir, jobID string) (resumePath, coverPath string) {
	base := strings.ReplaceAll(jobID, ":", "_")
	return filepath.Join(docsDir, base+"_resume.md"),
		filepath.Join(docsDir, base+"_cover.md")
}

// Generate writes the tailored resume and cover letter files for a
// job and records its application. A job that already has an
// application is a constraint violation; its existing files are left
// untouched.
func (w *Writer) Generate(ctx context.Context, jobID string) (*store.Application, error) {
	job, err := w.store.GetJob(ctx, jobID)
	if err != nil {
		return nil, err
	}

	// A recorded application already points at its files; refusing
	// before any write keeps them intact.
	switch _, err := w.store.GetApplication(ctx, jobID); {
	case err == nil:
		return nil, &store.ErrDuplicateApplication{JobID: jobID}
	case !store.IsNotFound(err):
		return nil, err
	}

	bullets, cover, err := w.provider.Materials(ctx, job)
	if err != nil {
		return nil, fmt.Errorf("content provider failed for %s: %w", jobID, err)
	}

	if err := os.MkdirAll(w.docsDir, 0o755); err != nil {
		return nil, fmt.Errorf("failed to create docs dir %s: %w", w.docsDir, err)
	}

	company := orDefault(job.Company, "Company")
	title := orDefault(job.Title, "Role")
	resumePath, coverPath := MaterialPaths(w.docsDir, jobID)

	resume := w.loadBaseResume() + fmt.Sprintf(
		"\n\n## Role-specific Highlights (%s — %s)\n\n%s\n", company, title, bullets)
	if err := os.WriteFile(resumePath, []byte(resume), 0o644); err != nil {
		return nil, fmt.Errorf("failed to write resume: %w", err)
	}

	coverDoc := fmt.Sprintf("# Cover Letter — %s — %s\n\n%s\n", company, title, cover)
	if err := os.WriteFile(coverPath, []byte(coverDoc), 0o644); err != nil {
		return nil, fmt.Errorf("failed to write cover letter: %w", err)
	}

	return w.store.RecordApplication(ctx, jobID, resumePath, coverPath, "generated")
}

// Attach records an application whose documents were produced outside
// this writer, e.g. hand-edited files or exported PDFs.
func (w *Writer) Attach(ctx context.Context, jobID, resumePath, coverPath, notes string) (*store.Application, error) {
	if _, err := w.store.GetJob(ctx, jobID); err != nil {
		return nil, err
	}
	return w.store.RecordApplication(ctx, jobID, resumePath, coverPath, notes)
}

// loadBaseResume reads the shared base resume; a missing file yields
// the minimal header, matching how a first run works before the base
// resume exists.
func (w *Writer) loadBaseResume() string {
	if w.baseResume != "" {
		if data, err := os.ReadFile(w.baseResume); err == nil {
			return strings.TrimRight(string(data), "\n")
		}
	}
	return "# Resume"
}

func orDefault(s, fallback string) string {
	if s == "" {
		return fallback
	}
	return s
}
