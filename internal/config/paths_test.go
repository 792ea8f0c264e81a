package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGetPaths(t *testing.T) {
	paths, err := GetPaths()
	require.NoError(t, err)

	assert.True(t, filepath.IsAbs(paths.ExecutableDir), "ExecutableDir should be absolute")
	assert.Equal(t, filepath.Join(paths.ExecutableDir, "data"), paths.DataDir)
	assert.Equal(t, filepath.Join(paths.DataDir, "reports"), paths.ReportsDir)
	assert.Equal(t, filepath.Join(paths.ExecutableDir, "logs"), paths.LogsDir)
}

func TestEnsureDirectories(t *testing.T) {
	paths := PathsFrom(t.TempDir())

	require.NoError(t, paths.EnsureDirectories())
	assert.DirExists(t, paths.DataDir)
	assert.DirExists(t, paths.ReportsDir)
	assert.DirExists(t, paths.LogsDir)

	// idempotent
	require.NoError(t, paths.EnsureDirectories())
}

func TestEnsureDirectoriesFailsOnFile(t *testing.T) {
	base := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(base, "data"), []byte("x"), 0644))

	assert.Error(t, PathsFrom(base).EnsureDirectories())
}

func TestPathHelperMethods(t *testing.T) {
	base := t.TempDir()
	paths := PathsFrom(base)

	assert.Equal(t, filepath.Join(base, "data", "reports", "gaps.csv"), paths.GetReportPath("gaps.csv"))
}
