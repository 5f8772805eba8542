package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"resume-builder/internal/pdf"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadDefaults(t *testing.T) {
	cfg, err := Load(filepath.Join(t.TempDir(), "missing.yaml"))
	require.NoError(t, err)
	assert.Equal(t, "3000", cfg.Server.Port)
	assert.Equal(t, "none", cfg.Store.Driver)
	assert.Equal(t, time.Second, cfg.Render.SettleDelay)
	assert.Equal(t, 3, cfg.Render.Attempts)
	assert.Equal(t, "raster", cfg.PDF.Mode)
	assert.Equal(t, pdf.FormatA4, cfg.PDF.Options.Format)
	assert.Equal(t, 2.0, cfg.PDF.Options.Quality)
}

func TestLoadFileAndEnv(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(`
store:
  driver: sqlite
render:
  settle: paint
  settle_delay: 250ms
pdf:
  mode: vector
  format: letter
  orientation: landscape
`), 0o644))
	t.Setenv("PORT", "8080")
	t.Setenv("RESUME_LOG_LEVEL", "debug")

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, "8080", cfg.Server.Port)
	assert.Equal(t, "debug", cfg.Log.Level)
	assert.Equal(t, "sqlite", cfg.Store.Driver)
	assert.Equal(t, "paint", cfg.Render.Settle)
	assert.Equal(t, 250*time.Millisecond, cfg.Render.SettleDelay)
	assert.Equal(t, "vector", cfg.PDF.Mode)
	assert.Equal(t, pdf.FormatLetter, cfg.PDF.Options.Format)
	assert.Equal(t, pdf.Landscape, cfg.PDF.Options.Orientation)
}

func TestLoadRejectsBadValues(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte("pdf:\n  format: a3\n"), 0o644))
	_, err := Load(path)
	assert.ErrorIs(t, err, pdf.ErrInvalidOptions)
}
