package testutil

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"

	"hrpulse/pkg/contracts/domain"
)

// Sheet is one worksheet of a generated workbook. The first row is the header.
type Sheet struct {
	Name string
	Rows [][]interface{}
}

// StaffHeader is the full personnel header row.
func StaffHeader() []interface{} {
	return []interface{}{
		domain.ColumnDepartment, domain.ColumnJobTitle, domain.ColumnNationality,
		domain.ColumnGender, domain.ColumnContractType,
		domain.ColumnEducationLevel, domain.ColumnQualificationGrade,
	}
}

// StaffSheet is a personnel sheet: the full header followed by rows.
func StaffSheet(name string, rows ...[]interface{}) Sheet {
	return Sheet{Name: name, Rows: append([][]interface{}{StaffHeader()}, rows...)}
}

func build(t *testing.T, sheets []Sheet) *excelize.File {
	t.Helper()
	require.NotEmpty(t, sheets, "a workbook needs at least one sheet")

	f := excelize.NewFile()
	require.NoError(t, f.SetSheetName(f.GetSheetName(0), sheets[0].Name))
	for i, s := range sheets {
		if i > 0 {
			_, err := f.NewSheet(s.Name)
			require.NoError(t, err)
		}
		for r, row := range s.Rows {
			cell, err := excelize.CoordinatesToCellName(1, r+1)
			require.NoError(t, err)
			require.NoError(t, f.SetSheetRow(s.Name, cell, &row))
		}
	}
	return f
}

// WorkbookBytes renders sheets as an xlsx file in memory.
func WorkbookBytes(t *testing.T, sheets ...Sheet) []byte {
	t.Helper()
	f := build(t, sheets)
	defer f.Close()

	buf, err := f.WriteToBuffer()
	require.NoError(t, err)
	return buf.Bytes()
}

// SaveWorkbook writes sheets to dir/name and returns the path.
func SaveWorkbook(t *testing.T, dir, name string, sheets ...Sheet) string {
	t.Helper()
	f := build(t, sheets)
	defer f.Close()

	path := filepath.Join(dir, name)
	require.NoError(t, f.SaveAs(path))
	return path
}
