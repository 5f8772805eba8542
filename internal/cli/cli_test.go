package cli

import (
	"bytes"
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"regexp"
	"testing"

	"resume-builder/internal/model/modeltest"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func run(t *testing.T, args ...string) (string, error) {
	t.Helper()
	cmd := NewRootCommand()
	var out, errOut bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetErr(&errOut)
	cmd.SetArgs(append([]string{"--config", filepath.Join(t.TempDir(), "missing.yaml"), "--log-level", "error"}, args...))
	err := cmd.ExecuteContext(context.Background())
	return out.String(), err
}

func writeSample(t *testing.T) string {
	t.Helper()
	raw, err := json.Marshal(modeltest.Sample())
	require.NoError(t, err)
	path := filepath.Join(t.TempDir(), "jane.json")
	require.NoError(t, os.WriteFile(path, raw, 0o644))
	return path
}

func TestTemplatesCommand(t *testing.T) {
	out, err := run(t, "templates")
	require.NoError(t, err)
	assert.Contains(t, out, "Professional (default)")
	assert.Contains(t, out, "consultant")
}

func TestExportVectorFromFile(t *testing.T) {
	dir := t.TempDir()
	out, err := run(t, "export", "--file", writeSample(t), "--mode", "vector", "--out", dir, "--filename", "cv.pdf", "-q")
	require.NoError(t, err)
	assert.Contains(t, out, "Saved")

	data, err := os.ReadFile(filepath.Join(dir, "cv.pdf"))
	require.NoError(t, err)
	assert.True(t, bytes.HasPrefix(data, []byte("%PDF")))
}

func TestExportNeedsInput(t *testing.T) {
	_, err := run(t, "export", "--mode", "vector")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "--file")

	_, err = run(t, "export", "--url", "http://localhost/preview", "--mode", "vector")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "raster")
}

func TestPreviewMarkdown(t *testing.T) {
	out, err := run(t, "preview", "--file", writeSample(t), "--format", "markdown", "--template", "modern")
	require.NoError(t, err)
	assert.Contains(t, out, "Jane Doe")
	assert.Contains(t, out, "Executive Summary")
}

func TestImportExportHistory(t *testing.T) {
	t.Setenv("RESUME_STORE_DRIVER", "sqlite")
	t.Setenv("RESUME_STORE_SQLITE_PATH", filepath.Join(t.TempDir(), "cli.db"))

	_, err := run(t, "history", "--id", "not-a-uuid")
	require.Error(t, err)

	out, err := run(t, "import", "--file", writeSample(t), "--template", "tech")
	require.NoError(t, err)
	id := regexp.MustCompile(`[0-9a-f-]{36}`).FindString(out)
	require.NotEmpty(t, id, out)

	dir := t.TempDir()
	_, err = run(t, "export", "--id", id, "--mode", "vector", "--out", dir, "-q")
	require.NoError(t, err)
	entries, err := os.ReadDir(dir)
	require.NoError(t, err)
	require.Len(t, entries, 1)
	assert.Regexp(t, `^Jane_Doe_\d{4}-\d{2}-\d{2}\.pdf$`, entries[0].Name())

	out, err = run(t, "history", "--id", id)
	require.NoError(t, err)
	assert.Contains(t, out, "completed")
	assert.Contains(t, out, "tech")
}

func TestImportWithoutStore(t *testing.T) {
	_, err := run(t, "import", "--file", writeSample(t))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "store")
}
