package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "jobtrack.json")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestLoadConfig(t *testing.T) {
	path := writeConfig(t, `{
		"db_path": "data/jobs.db",
		"docs_dir": "out",
		"port": 9090,
		"enforce_transitions": true
	}`)

	cfg, err := LoadConfig(path)
	require.NoError(t, err)
	assert.Equal(t, "data/jobs.db", cfg.DBPath)
	assert.Equal(t, "out", cfg.DocsDir)
	assert.Equal(t, 9090, cfg.Port)
	assert.True(t, cfg.EnforceTransitions)
}

func TestLoadConfig_Errors(t *testing.T) {
	_, err := LoadConfig("")
	assert.Error(t, err)

	_, err = LoadConfig(filepath.Join(t.TempDir(), "missing.json"))
	assert.Error(t, err)

	_, err = LoadConfig(writeConfig(t, `not json`))
	assert.Error(t, err)
}

func TestMergeWithDefaults(t *testing.T) {
	cfg := Config{Port: 9090}
	merged := cfg.MergeWithDefaults(Defaults())

	assert.Equal(t, "jobs.db", merged.DBPath)
	assert.Equal(t, "docs", merged.DocsDir)
	assert.Equal(t, 9090, merged.Port)
}

func TestFromEnv(t *testing.T) {
	t.Setenv("JOBTRACK_DB", "/tmp/env.db")
	t.Setenv("PORT", "7070")

	cfg := Defaults()
	cfg.FromEnv()
	assert.Equal(t, "/tmp/env.db", cfg.DBPath)
	assert.Equal(t, 7070, cfg.Port)
}

func TestFromEnv_BadPortIgnored(t *testing.T) {
	t.Setenv("PORT", "not-a-port")

	cfg := Defaults()
	cfg.FromEnv()
	assert.Equal(t, 8080, cfg.Port)
}

func TestValidate(t *testing.T) {
	cfg := Defaults()
	assert.NoError(t, cfg.Validate())

	cfg.Port = -1
	assert.Error(t, cfg.Validate())

	cfg = Defaults()
	cfg.Profile = filepath.Join(t.TempDir(), "missing-profile.json")
	assert.Error(t, cfg.Validate())
}
