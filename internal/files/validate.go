package files

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"hrpulse/internal/config"
)

// Errors returned by the file checks.
var (
	ErrNotWorkbook = errors.New("not an xlsx workbook")
	ErrLockFile    = errors.New("office lock file")
)

// lockPrefix marks the owner files Office leaves next to an open workbook.
const lockPrefix = "~$"

// IsWorkbookName reports whether name looks like a loadable workbook.
func IsWorkbookName(name string) bool {
	base := filepath.Base(name)
	return strings.EqualFold(filepath.Ext(base), config.WorkbookExtension) &&
		!strings.HasPrefix(base, lockPrefix)
}

// ValidateWorkbookFile checks that path is a readable xlsx file.
func ValidateWorkbookFile(path string) error {
	base := filepath.Base(path)
	if strings.HasPrefix(base, lockPrefix) {
		return fmt.Errorf("%w: %s", ErrLockFile, path)
	}
	if !strings.EqualFold(filepath.Ext(base), config.WorkbookExtension) {
		return fmt.Errorf("%w: %s", ErrNotWorkbook, path)
	}

	info, err := os.Stat(path)
	if err != nil {
		return fmt.Errorf("failed to stat file %s: %w", path, err)
	}
	if info.IsDir() {
		return fmt.Errorf("%s is a directory, not a file", path)
	}

	f, err := os.Open(path)
	if err != nil {
		return fmt.Errorf("file %s is not readable: %w", path, err)
	}
	return f.Close()
}

// ValidateOutputDirectory creates dir if needed and checks that it is writable.
func ValidateOutputDirectory(dir string) error {
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("failed to create output directory %s: %w", dir, err)
	}

	probe, err := os.CreateTemp(dir, ".write_test_*")
	if err != nil {
		return fmt.Errorf("output directory %s is not writable: %w", dir, err)
	}
	name := probe.Name()
	probe.Close()
	return os.Remove(name)
}
