package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"vitiscli/pkg/contracts/domain"
)

func TestResolvePaths(t *testing.T) {
	base := t.TempDir()
	abs := filepath.Join(t.TempDir(), "elsewhere")

	paths, err := PathsConfig{
		BaseDir:      base,
		RawDir:       "data/raw",
		ProcessedDir: "data/processed",
		ReportsDir:   abs,
		LogsDir:      "logs",
	}.Resolve()
	require.NoError(t, err)

	assert.Equal(t, filepath.Join(base, "data", "raw"), paths.RawDir)
	assert.Equal(t, abs, paths.ReportsDir)
	assert.Equal(t, filepath.Join(base, "data", "processed", "export_processed.csv"), paths.ProcessedFile(domain.FlowExport))
	assert.Equal(t, filepath.Join(base, "data", "processed", "import_processed.csv"), paths.ProcessedFile(domain.FlowImport))
	assert.Equal(t, filepath.Join(base, "data", "raw", "Exportacao.csv"), paths.RawFile("Exportacao.csv"))
	assert.Equal(t, filepath.Join(abs, "growing_markets.csv"), paths.ReportPath("growing_markets.csv"))
	assert.Equal(t, filepath.Join(base, "logs", "vitis.log"), paths.LogPath(LogFileName))
}

func TestResolvePathsDefaultsToWorkingDir(t *testing.T) {
	wd, err := os.Getwd()
	require.NoError(t, err)

	paths, err := Default().Paths.Resolve()
	require.NoError(t, err)
	assert.Equal(t, wd, paths.BaseDir)
}

func TestEnsureDirectories(t *testing.T) {
	paths, err := PathsConfig{
		BaseDir:      t.TempDir(),
		RawDir:       "raw",
		ProcessedDir: "out/processed",
		ReportsDir:   "out/reports",
		LogsDir:      "logs",
	}.Resolve()
	require.NoError(t, err)

	require.NoError(t, paths.EnsureDirectories())
	assert.True(t, FileExists(paths.ProcessedDir))
	assert.True(t, FileExists(paths.ReportsDir))
	assert.True(t, FileExists(paths.LogsDir))
	assert.False(t, FileExists(paths.RawDir))

	paths.LogPathResolution(nil)
}
