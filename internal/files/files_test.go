package files

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func touch(t *testing.T, path string, mod time.Time) {
	t.Helper()
	require.NoError(t, os.WriteFile(path, []byte("x"), 0o644))
	require.NoError(t, os.Chtimes(path, mod, mod))
}

func TestIsWorkbookName(t *testing.T) {
	tests := []struct {
		name string
		want bool
	}{
		{"staff.xlsx", true},
		{"STAFF.XLSX", true},
		{"dir/الموظفون.xlsx", true},
		{"~$staff.xlsx", false},
		{"staff.xls", false},
		{"staff.csv", false},
		{"staff", false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, IsWorkbookName(tt.name))
		})
	}
}

func TestDiscovery_FindWorkbooks(t *testing.T) {
	base := t.TempDir()
	dir := filepath.Join(base, "imports")
	require.NoError(t, os.MkdirAll(filepath.Join(dir, "nested.xlsx"), 0o755))

	now := time.Now()
	touch(t, filepath.Join(dir, "march.xlsx"), now.Add(-time.Hour))
	touch(t, filepath.Join(dir, "january.xlsx"), now.Add(-3*time.Hour))
	touch(t, filepath.Join(dir, "~$march.xlsx"), now)
	touch(t, filepath.Join(dir, "notes.txt"), now)

	found, err := NewDiscovery(base).FindWorkbooks("imports")
	require.NoError(t, err)
	require.Len(t, found, 2)
	assert.Equal(t, "january.xlsx", found[0].Name)
	assert.Equal(t, "march.xlsx", found[1].Name)
	assert.Equal(t, filepath.Join(dir, "march.xlsx"), found[1].Path)
	assert.Equal(t, int64(1), found[1].Size)

	abs, err := NewDiscovery("/elsewhere").FindWorkbooks(dir)
	require.NoError(t, err)
	assert.Len(t, abs, 2)

	_, err = NewDiscovery(base).FindWorkbooks("missing")
	assert.Error(t, err)
}

func TestDiscovery_FindReports(t *testing.T) {
	dir := t.TempDir()
	now := time.Now()
	touch(t, filepath.Join(dir, "gender.csv"), now.Add(-time.Hour))
	touch(t, filepath.Join(dir, "nationality.CSV"), now)
	touch(t, filepath.Join(dir, "staff.xlsx"), now)

	found, err := NewDiscovery("").FindReports(dir)
	require.NoError(t, err)
	require.Len(t, found, 2)
	assert.Equal(t, "nationality.CSV", found[0].Name)

	latest, ok := GetLatestFile(found)
	require.True(t, ok)
	assert.Equal(t, "nationality.CSV", latest.Name)

	_, ok = GetLatestFile(nil)
	assert.False(t, ok)
}

func TestValidateWorkbookFile(t *testing.T) {
	dir := t.TempDir()
	good := filepath.Join(dir, "staff.xlsx")
	touch(t, good, time.Now())
	require.NoError(t, os.Mkdir(filepath.Join(dir, "folder.xlsx"), 0o755))

	assert.NoError(t, ValidateWorkbookFile(good))
	assert.ErrorIs(t, ValidateWorkbookFile(filepath.Join(dir, "~$staff.xlsx")), ErrLockFile)
	assert.ErrorIs(t, ValidateWorkbookFile(filepath.Join(dir, "staff.csv")), ErrNotWorkbook)
	assert.ErrorIs(t, ValidateWorkbookFile(filepath.Join(dir, "absent.xlsx")), os.ErrNotExist)
	assert.Error(t, ValidateWorkbookFile(filepath.Join(dir, "folder.xlsx")))
}

func TestValidateOutputDirectory(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "a", "b")
	require.NoError(t, ValidateOutputDirectory(dir))

	entries, err := os.ReadDir(dir)
	require.NoError(t, err)
	assert.Empty(t, entries)

	file := filepath.Join(t.TempDir(), "file")
	touch(t, file, time.Now())
	assert.Error(t, ValidateOutputDirectory(file))
}
