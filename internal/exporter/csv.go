package exporter

import (
	"encoding/csv"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"hrpulse/internal/config"
	"hrpulse/pkg/contracts/domain"
)

// bom makes Excel open the file as UTF-8.
var bom = []byte{0xEF, 0xBB, 0xBF}

// Default download names for the cohort gap exports.
const (
	DefaultTertiaryGapsFilename  = "موظفون_بدون_درجة_مؤهل.csv"
	DefaultSecondaryGapsFilename = "ثانوي_بدون_درجة_مؤهل.csv"
)

// WriteTable writes t as BOM-prefixed UTF-8 CSV: header row, then one record per row.
// An empty table produces the BOM and the header only.
func WriteTable(w io.Writer, t *domain.Table) error {
	if _, err := w.Write(bom); err != nil {
		return fmt.Errorf("failed to write BOM: %w", err)
	}

	writer := csv.NewWriter(w)
	if err := writer.Write(t.Columns()); err != nil {
		return fmt.Errorf("failed to write headers: %w", err)
	}

	for i := 0; i < t.Len(); i++ {
		if err := writer.Write(rowRecord(t.Row(i))); err != nil {
			return fmt.Errorf("failed to write record %d: %w", i, err)
		}
	}

	writer.Flush()
	return writer.Error()
}

// CSVWriter provides CSV export functionality
type CSVWriter struct {
	paths *config.Paths
}

// NewCSVWriter creates a new CSV writer instance
func NewCSVWriter(paths *config.Paths) *CSVWriter {
	return &CSVWriter{paths: paths}
}

// WriteOptions configures CSV writing behavior
type WriteOptions struct {
	Headers   []string
	Records   [][]string
	BOMPrefix bool // Add UTF-8 BOM for Excel compatibility
}

// WriteTableFile writes t to filePath and returns the resolved location.
func (w *CSVWriter) WriteTableFile(filePath string, t *domain.Table) (string, error) {
	fullPath := w.resolvePath(filePath)

	slog.Info("Writing table CSV",
		slog.String("file_path", filePath),
		slog.String("full_path", fullPath),
		slog.Int("record_count", t.Len()))

	file, err := createFile(fullPath)
	if err != nil {
		return "", err
	}
	defer file.Close()

	if err := WriteTable(file, t); err != nil {
		return "", err
	}
	return fullPath, file.Close()
}

// WriteBreakdownFile writes a breakdown as CSV and returns the resolved location.
func (w *CSVWriter) WriteBreakdownFile(filePath string, b *domain.Breakdown) (string, error) {
	headers, records := BreakdownRecords(b)
	fullPath := w.resolvePath(filePath)
	return fullPath, w.WriteCSV(fullPath, WriteOptions{
		Headers:   headers,
		Records:   records,
		BOMPrefix: true,
	})
}

// WriteCSV writes data to a CSV file with the given options
func (w *CSVWriter) WriteCSV(filePath string, options WriteOptions) error {
	fullPath := w.resolvePath(filePath)

	slog.Info("Writing CSV file",
		slog.String("file_path", filePath),
		slog.String("full_path", fullPath),
		slog.Int("record_count", len(options.Records)))

	file, err := createFile(fullPath)
	if err != nil {
		return err
	}
	defer file.Close()

	if options.BOMPrefix {
		if _, err := file.Write(bom); err != nil {
			return fmt.Errorf("failed to write BOM: %w", err)
		}
	}

	writer := csv.NewWriter(file)
	if len(options.Headers) > 0 {
		if err := writer.Write(options.Headers); err != nil {
			return fmt.Errorf("failed to write headers: %w", err)
		}
	}

	for i, record := range options.Records {
		if err := writer.Write(record); err != nil {
			return fmt.Errorf("failed to write record %d: %w", i, err)
		}
	}

	writer.Flush()
	if err := writer.Error(); err != nil {
		return err
	}
	return file.Close()
}

func createFile(fullPath string) (*os.File, error) {
	if err := os.MkdirAll(filepath.Dir(fullPath), 0755); err != nil {
		return nil, fmt.Errorf("failed to create directory: %w", err)
	}
	file, err := os.Create(fullPath)
	if err != nil {
		return nil, fmt.Errorf("failed to create file: %w", err)
	}
	return file, nil
}

// resolvePath places relative paths under the reports directory
func (w *CSVWriter) resolvePath(filePath string) string {
	if filepath.IsAbs(filePath) {
		return filePath
	}
	return w.paths.GetReportPath(filePath)
}

// SafeFilename reduces a caller-supplied download name to a bare .csv file name.
// An empty or unusable name falls back to def.
func SafeFilename(name, def string) string {
	name = strings.TrimSpace(filepath.Base(strings.ReplaceAll(name, "\\", "/")))
	name = strings.Map(func(r rune) rune {
		if r < 0x20 || r == '"' || r == 0x7f {
			return -1
		}
		return r
	}, name)
	if name == "" || name == "." || name == "/" || name == ".." {
		return def
	}
	if !strings.EqualFold(filepath.Ext(name), config.ExportExtension) {
		name += config.ExportExtension
	}
	return name
}
