package dataprocessing

import (
	"context"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/xuri/excelize/v2"

	"hrpulse/pkg/contracts/domain"
)

// readOptions keeps number formats out of cell values so numbers keep the file's typing.
var readOptions = excelize.Options{RawCellValue: true}

// LoadWorkbook reads every sheet of an xlsx stream into a table per sheet.
// The first row of a sheet is its header.
func LoadWorkbook(ctx context.Context, r io.Reader) (*domain.Workbook, error) {
	f, err := excelize.OpenReader(r, readOptions)
	if err != nil {
		return nil, &LoadError{Reason: "not a valid spreadsheet container", Err: err}
	}
	defer f.Close()

	names := f.GetSheetList()
	if len(names) == 0 {
		return nil, &LoadError{Reason: "workbook contains no sheets"}
	}

	wb := domain.NewWorkbook()
	for _, name := range names {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		t, err := readSheet(f, name)
		if err != nil {
			return nil, &LoadError{Reason: fmt.Sprintf("read sheet %q", name), Err: err}
		}
		wb.AddSheet(name, t)
	}
	return wb, nil
}

// LoadFile opens an xlsx file from disk and loads it.
func LoadFile(ctx context.Context, path string) (*domain.Workbook, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open file: %w", err)
	}
	defer file.Close()
	return LoadWorkbook(ctx, file)
}

// SelectSheet returns the normalized table of one sheet.
func SelectSheet(wb *domain.Workbook, name string) (*domain.Table, error) {
	t, ok := wb.Sheet(name)
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrSheetNotFound, name)
	}
	return Normalize(t), nil
}

func readSheet(f *excelize.File, sheet string) (*domain.Table, error) {
	rows, err := f.Rows(sheet)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var (
		header  []string
		keep    []int
		records []domain.Row
		rowNum  int
	)
	for rows.Next() {
		rowNum++
		cells, err := rows.Columns(readOptions)
		if err != nil {
			return nil, err
		}
		if header == nil {
			if !blankRow(cells, nil) {
				header, keep = headerColumns(cells)
			}
			continue
		}
		if blankRow(cells, keep) {
			continue
		}
		rec := make(domain.Row, len(keep))
		for i, col := range keep {
			if col >= len(cells) || cells[col] == "" {
				rec[i] = domain.Null()
				continue
			}
			rec[i] = typedValue(f, sheet, col+1, rowNum, cells[col])
		}
		records = append(records, rec)
	}
	if err := rows.Error(); err != nil {
		return nil, err
	}
	return domain.NewTable(header, records), nil
}

// blankRow reports whether a row has no text in the given columns, or in any
// column when cols is nil. Styled but empty rows come back this way.
func blankRow(cells []string, cols []int) bool {
	if cols == nil {
		for _, c := range cells {
			if c != "" {
				return false
			}
		}
		return true
	}
	for _, col := range cols {
		if col < len(cells) && cells[col] != "" {
			return false
		}
	}
	return true
}

// headerColumns trims header names and keeps only the first occurrence of each.
// It returns the kept names and their source column positions.
func headerColumns(cells []string) ([]string, []int) {
	names := make([]string, 0, len(cells))
	keep := make([]int, 0, len(cells))
	seen := make(map[string]struct{}, len(cells))
	for i, c := range cells {
		name := strings.TrimSpace(c)
		if name == "" {
			name = fmt.Sprintf("Unnamed: %d", i)
		}
		if _, dup := seen[name]; dup {
			continue
		}
		seen[name] = struct{}{}
		names = append(names, name)
		keep = append(keep, i)
	}
	return names, keep
}

// typedValue keeps numeric cells numeric and everything else as text.
func typedValue(f *excelize.File, sheet string, col, row int, raw string) domain.Value {
	ref, err := excelize.CoordinatesToCellName(col, row)
	if err != nil {
		return domain.String(raw)
	}
	kind, err := f.GetCellType(sheet, ref)
	if err != nil {
		return domain.String(raw)
	}
	switch kind {
	case excelize.CellTypeUnset, excelize.CellTypeNumber:
		if n, err := strconv.ParseFloat(raw, 64); err == nil {
			return domain.Number(n)
		}
	}
	return domain.String(raw)
}
