package catalog

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/docmentor/docmentor-mcp/pkg/types"
)

func TestWriteDirLoadDir_RoundTrip(t *testing.T) {
	dir := t.TempDir()

	apis, examples := sampleEntries()
	kb, _, err := Build(apis, examples, types.LibraryOverview{
		Name:      "lancedb",
		Version:   "0.4.0",
		Languages: []string{"python", "typescript"},
	})
	require.NoError(t, err)
	require.NoError(t, WriteDir(dir, kb))

	loaded, report, err := LoadDir(dir)
	require.NoError(t, err)
	assert.Empty(t, report.Skipped)
	assert.Empty(t, report.Warnings)

	assert.Equal(t, "lancedb", loaded.Overview.Name)
	assert.Equal(t, kb.Metadata.TotalAPIs, loaded.Metadata.TotalAPIs)
	assert.Equal(t, kb.Metadata.TotalExamples, loaded.Metadata.TotalExamples)

	api, ok := loaded.API("python", "db.connect")
	require.True(t, ok)
	assert.Equal(t, "Open a connection", api.Description)

	ex, ok := loaded.Example("python", "connect_ex1")
	require.True(t, ok)
	assert.Equal(t, "conn = db.connect('demo')", ex.Code)
}

func TestLoadDir_MissingIndex(t *testing.T) {
	_, _, err := LoadDir(t.TempDir())
	assert.Error(t, err)
}

func TestLoadDir_MalformedEntrySkipped(t *testing.T) {
	dir := t.TempDir()

	apis, examples := sampleEntries()
	kb, _, err := Build(apis, examples, types.LibraryOverview{Name: "demo"})
	require.NoError(t, err)
	require.NoError(t, WriteDir(dir, kb))

	// Corrupt one API file; the rest of the catalog must survive.
	bad := filepath.Join(dir, "api_catalog", "python", "db.connect.json")
	require.NoError(t, os.WriteFile(bad, []byte("{not json"), 0o644))

	loaded, report, err := LoadDir(dir)
	require.NoError(t, err)
	require.NotEmpty(t, report.Warnings)
	assert.Contains(t, report.Warnings[0], "db.connect")

	_, ok := loaded.API("python", "db.connect")
	assert.False(t, ok)
	_, ok = loaded.API("typescript", "db.connect")
	assert.True(t, ok)
}
