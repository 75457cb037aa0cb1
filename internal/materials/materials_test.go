package materials

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jordan/jobtrack/internal/store"
)

type fakeProvider struct {
	bullets string
	cover   string
	err     error
}

func (f *fakeProvider) Materials(_ context.Context, _ *store.Job) (string, string, error) {
	return f.bullets, f.cover, f.err
}

func newTestStore(t *testing.T) *store.Store {
	t.Helper()
	s, err := store.Open(filepath.Join(t.TempDir(), "jobs.db"))
	require.NoError(t, err)
	t.Cleanup(func() { _ = s.Close() })
	require.NoError(t, s.Migrate(context.Background()))
	return s
}

func seedJob(t *testing.T, s *store.Store) {
	t.Helper()
	require.NoError(t, s.UpsertJob(context.Background(), &store.Job{
		ID:      "greenhouse:stripe:5922987",
		Source:  store.SourceGreenhouse,
		Company: "stripe",
		Title:   "Data Governance Lead",
		URL:     "https://boards.greenhouse.io/stripe/jobs/5922987",
	}))
}

func TestMaterialPaths(t *testing.T) {
	resume, cover := MaterialPaths("docs", "greenhouse:stripe:5922987")
	assert.Equal(t, filepath.Join("docs", "greenhouse_stripe_5922987_resume.md"), resume)
	assert.Equal(t, filepath.Join("docs", "greenhouse_stripe_5922987_cover.md"), cover)
}

func TestGenerate(t *testing.T) {
	s := newTestStore(t)
	seedJob(t, s)
	ctx := context.Background()

	docsDir := filepath.Join(t.TempDir(), "docs")
	basePath := filepath.Join(t.TempDir(), "resume_base.md")
	require.NoError(t, os.WriteFile(basePath, []byte("# Resume\n\nJordan Miller\n"), 0o644))

	provider := &fakeProvider{
		bullets: "- Led data governance rollout",
		cover:   "Dear team,",
	}
	w := NewWriter(s, provider, docsDir, basePath)

	app, err := w.Generate(ctx, "greenhouse:stripe:5922987")
	require.NoError(t, err)

	resumePath, coverPath := MaterialPaths(docsDir, "greenhouse:stripe:5922987")
	assert.Equal(t, resumePath, app.ResumePath)
	assert.Equal(t, coverPath, app.CoverPath)
	assert.Equal(t, "generated", app.Notes)

	resume, err := os.ReadFile(resumePath)
	require.NoError(t, err)
	assert.Contains(t, string(resume), "Jordan Miller")
	assert.Contains(t, string(resume), "## Role-specific Highlights (stripe — Data Governance Lead)")
	assert.Contains(t, string(resume), "- Led data governance rollout")

	cover, err := os.ReadFile(coverPath)
	require.NoError(t, err)
	assert.Contains(t, string(cover), "# Cover Letter — stripe — Data Governance Lead")
	assert.Contains(t, string(cover), "Dear team")
}

func TestGenerate_NoBaseResume(t *testing.T) {
	s := newTestStore(t)
	seedJob(t, s)

	docsDir := filepath.Join(t.TempDir(), "docs")
	w := NewWriter(s, &fakeProvider{bullets: "- b", cover: "c"}, docsDir, "")

	_, err := w.Generate(context.Background(), "greenhouse:stripe:5922987")
	require.NoError(t, err)

	resumePath, _ := MaterialPaths(docsDir, "greenhouse:stripe:5922987")
	resume, err := os.ReadFile(resumePath)
	require.NoError(t, err)
	assert.Contains(t, string(resume), "# Resume")
}

func TestGenerate_SecondCallIsConflict(t *testing.T) {
	s := newTestStore(t)
	seedJob(t, s)
	ctx := context.Background()
	docsDir := t.TempDir()

	w := NewWriter(s, &fakeProvider{bullets: "- original bullets", cover: "original cover"}, docsDir, "")
	_, err := w.Generate(ctx, "greenhouse:stripe:5922987")
	require.NoError(t, err)

	resumePath, coverPath := MaterialPaths(docsDir, "greenhouse:stripe:5922987")
	resumeBefore, err := os.ReadFile(resumePath)
	require.NoError(t, err)
	coverBefore, err := os.ReadFile(coverPath)
	require.NoError(t, err)

	// Regenerating with different content must fail before touching
	// the files the recorded application points at.
	w = NewWriter(s, &fakeProvider{bullets: "- different bullets", cover: "different cover"}, docsDir, "")
	_, err = w.Generate(ctx, "greenhouse:stripe:5922987")
	require.Error(t, err)
	assert.True(t, store.IsConstraintViolation(err))

	resumeAfter, err := os.ReadFile(resumePath)
	require.NoError(t, err)
	assert.Equal(t, string(resumeBefore), string(resumeAfter))

	coverAfter, err := os.ReadFile(coverPath)
	require.NoError(t, err)
	assert.Equal(t, string(coverBefore), string(coverAfter))
}

func TestGenerate_UnknownJobAndProviderFailure(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	w := NewWriter(s, &fakeProvider{err: errors.New("model unavailable")}, t.TempDir(), "")
	_, err := w.Generate(ctx, "lever:acme:404")
	assert.True(t, store.IsNotFound(err))

	seedJob(t, s)
	_, err = w.Generate(ctx, "greenhouse:stripe:5922987")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "model unavailable")
}

func TestAttach(t *testing.T) {
	s := newTestStore(t)
	seedJob(t, s)
	ctx := context.Background()

	w := NewWriter(s, nil, t.TempDir(), "")
	app, err := w.Attach(ctx, "greenhouse:stripe:5922987", "docs/final_resume.pdf", "docs/final_cover.pdf", "submitted via portal")
	require.NoError(t, err)
	assert.Equal(t, "docs/final_resume.pdf", app.ResumePath)
	assert.Equal(t, "submitted via portal", app.Notes)

	_, err = w.Attach(ctx, "lever:acme:404", "r.pdf", "c.pdf", "")
	assert.True(t, store.IsNotFound(err))
}
