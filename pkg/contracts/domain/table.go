package domain

import (
	"encoding/json"
	"strconv"
)

// ValueKind identifies what a cell holds.
type ValueKind uint8

const (
	KindNull ValueKind = iota
	KindString
	KindNumber
)

// Value is a single spreadsheet cell: absent, text or number.
type Value struct {
	Kind ValueKind
	Str  string
	Num  float64
}

// Null returns the absent value.
func Null() Value { return Value{Kind: KindNull} }

// String returns a text value.
func String(s string) Value { return Value{Kind: KindString, Str: s} }

// Number returns a numeric value.
func Number(f float64) Value { return Value{Kind: KindNumber, Num: f} }

// IsNull reports whether the cell is absent.
func (v Value) IsNull() bool { return v.Kind == KindNull }

// Text coerces the value to its textual representation.
// Numbers use the shortest decimal that round-trips (3 -> "3", 2.5 -> "2.5").
// Null coerces to the empty string; callers that care must check IsNull first.
func (v Value) Text() string {
	switch v.Kind {
	case KindString:
		return v.Str
	case KindNumber:
		return strconv.FormatFloat(v.Num, 'f', -1, 64)
	default:
		return ""
	}
}

// MarshalJSON renders null, a JSON string or a JSON number.
func (v Value) MarshalJSON() ([]byte, error) {
	switch v.Kind {
	case KindString:
		return json.Marshal(v.Str)
	case KindNumber:
		return json.Marshal(v.Num)
	default:
		return []byte("null"), nil
	}
}

// Row is one record, aligned with its table's columns.
type Row []Value

// Table is an ordered, read-only sequence of rows sharing one header.
// Every transform over a table produces a new Table; rows are never edited in place.
type Table struct {
	columns []string
	rows    []Row
	index   map[string]int
}

// NewTable builds a table. Rows shorter than the header are padded with Null,
// longer rows are cut to the header width.
func NewTable(columns []string, rows []Row) *Table {
	t := &Table{
		columns: append([]string(nil), columns...),
		rows:    make([]Row, 0, len(rows)),
		index:   make(map[string]int, len(columns)),
	}
	for i, c := range t.columns {
		if _, dup := t.index[c]; !dup {
			t.index[c] = i
		}
	}
	for _, r := range rows {
		t.rows = append(t.rows, fitRow(r, len(t.columns)))
	}
	return t
}

func fitRow(r Row, width int) Row {
	if len(r) == width {
		return r
	}
	out := make(Row, width)
	n := copy(out, r)
	for i := n; i < width; i++ {
		out[i] = Null()
	}
	return out
}

// Columns returns a copy of the header.
func (t *Table) Columns() []string {
	return append([]string(nil), t.columns...)
}

// Len returns the row count.
func (t *Table) Len() int { return len(t.rows) }

// Row returns the i-th row. The returned slice must not be modified.
func (t *Table) Row(i int) Row { return t.rows[i] }

// ColumnIndex returns the position of a column.
func (t *Table) ColumnIndex(name string) (int, bool) {
	i, ok := t.index[name]
	return i, ok
}

// HasColumns is the schema capability query used before running a view.
func (t *Table) HasColumns(names ...string) bool {
	return len(t.MissingColumns(names...)) == 0
}

// MissingColumns lists the requested names that the table does not carry.
func (t *Table) MissingColumns(names ...string) []string {
	var missing []string
	for _, n := range names {
		if _, ok := t.index[n]; !ok {
			missing = append(missing, n)
		}
	}
	return missing
}

// Value returns the cell at row i in the named column, Null if the column is unknown.
func (t *Table) Value(i int, column string) Value {
	c, ok := t.index[column]
	if !ok {
		return Null()
	}
	return t.rows[i][c]
}

// Filter returns a new table with the rows for which keep returns true, in order.
func (t *Table) Filter(keep func(Row) bool) *Table {
	out := &Table{columns: t.columns, index: t.index}
	for _, r := range t.rows {
		if keep(r) {
			out.rows = append(out.rows, r)
		}
	}
	return out
}

// MapColumn returns a new table where the named column is rewritten by fn.
// Other columns share storage with t. Unknown columns return t unchanged.
func (t *Table) MapColumn(column string, fn func(Value) Value) *Table {
	c, ok := t.index[column]
	if !ok {
		return t
	}
	out := &Table{columns: t.columns, index: t.index, rows: make([]Row, len(t.rows))}
	for i, r := range t.rows {
		nr := make(Row, len(r))
		copy(nr, r)
		nr[c] = fn(r[c])
		out.rows[i] = nr
	}
	return out
}

// Slice returns rows [offset, offset+limit) as a new table. limit <= 0 means to the end.
func (t *Table) Slice(offset, limit int) *Table {
	if offset < 0 {
		offset = 0
	}
	if offset > len(t.rows) {
		offset = len(t.rows)
	}
	end := len(t.rows)
	if limit > 0 && offset+limit < end {
		end = offset + limit
	}
	return &Table{columns: t.columns, index: t.index, rows: t.rows[offset:end]}
}

// MarshalJSON renders {"columns": [...], "rows": [[...], ...]}.
func (t *Table) MarshalJSON() ([]byte, error) {
	rows := t.rows
	if rows == nil {
		rows = []Row{}
	}
	return json.Marshal(struct {
		Columns []string `json:"columns"`
		Rows    []Row    `json:"rows"`
	}{Columns: t.columns, Rows: rows})
}

// Workbook is the collection of sheets read from one upload.
type Workbook struct {
	sheetNames []string
	sheets     map[string]*Table
}

// NewWorkbook creates an empty workbook.
func NewWorkbook() *Workbook {
	return &Workbook{sheets: make(map[string]*Table)}
}

// AddSheet appends a sheet, keeping file order.
func (w *Workbook) AddSheet(name string, t *Table) {
	if _, exists := w.sheets[name]; !exists {
		w.sheetNames = append(w.sheetNames, name)
	}
	w.sheets[name] = t
}

// SheetNames returns the sheet names in file order.
func (w *Workbook) SheetNames() []string {
	return append([]string(nil), w.sheetNames...)
}

// Sheet returns the named sheet.
func (w *Workbook) Sheet(name string) (*Table, bool) {
	t, ok := w.sheets[name]
	return t, ok
}
