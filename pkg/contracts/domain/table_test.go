package domain

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestValueText(t *testing.T) {
	assert.Equal(t, "", Null().Text())
	assert.Equal(t, "نص", String("نص").Text())
	assert.Equal(t, "3", Number(3).Text())
	assert.Equal(t, "2.5", Number(2.5).Text())
	assert.Equal(t, "-0.125", Number(-0.125).Text())
}

func TestNewTable_FitsRows(t *testing.T) {
	tbl := NewTable([]string{"a", "b"}, []Row{
		{String("x")},
		{String("1"), String("2"), String("3")},
	})

	require.Equal(t, 2, tbl.Len())
	assert.True(t, tbl.Value(0, "b").IsNull())
	assert.Len(t, tbl.Row(1), 2)
	assert.True(t, tbl.Value(0, "zzz").IsNull())
}

func TestTable_ColumnQueries(t *testing.T) {
	tbl := NewTable([]string{"a", "b"}, nil)

	assert.True(t, tbl.HasColumns("a", "b"))
	assert.False(t, tbl.HasColumns("a", "c"))
	assert.Equal(t, []string{"c", "d"}, tbl.MissingColumns("a", "c", "d"))

	cols := tbl.Columns()
	cols[0] = "changed"
	assert.Equal(t, []string{"a", "b"}, tbl.Columns())
}

func TestTable_MapColumnLeavesSourceIntact(t *testing.T) {
	tbl := NewTable([]string{"a"}, []Row{{String(" x ")}})

	mapped := tbl.MapColumn("a", func(Value) Value { return String("y") })
	assert.Equal(t, "y", mapped.Value(0, "a").Text())
	assert.Equal(t, " x ", tbl.Value(0, "a").Text())

	assert.Same(t, tbl, tbl.MapColumn("missing", func(v Value) Value { return v }))
}

func TestTable_Slice(t *testing.T) {
	tbl := NewTable([]string{"n"}, []Row{{Number(0)}, {Number(1)}, {Number(2)}, {Number(3)}})

	tests := []struct {
		name          string
		offset, limit int
		want          []string
	}{
		{"window", 1, 2, []string{"1", "2"}},
		{"to end", 2, 0, []string{"2", "3"}},
		{"limit past end", 3, 10, []string{"3"}},
		{"offset past end", 9, 2, nil},
		{"negative offset", -4, 1, []string{"0"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := tbl.Slice(tt.offset, tt.limit)
			var got []string
			for i := 0; i < s.Len(); i++ {
				got = append(got, s.Value(i, "n").Text())
			}
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestTable_MarshalJSON(t *testing.T) {
	tbl := NewTable([]string{"a", "b", "c"}, []Row{{String("x"), Number(1.5), Null()}})

	data, err := json.Marshal(tbl)
	require.NoError(t, err)
	assert.JSONEq(t, `{"columns":["a","b","c"],"rows":[["x",1.5,null]]}`, string(data))

	empty, err := json.Marshal(tbl.Filter(func(Row) bool { return false }))
	require.NoError(t, err)
	assert.JSONEq(t, `{"columns":["a","b","c"],"rows":[]}`, string(empty))
}

func TestWorkbook(t *testing.T) {
	wb := NewWorkbook()
	wb.AddSheet("b", NewTable(nil, nil))
	wb.AddSheet("a", NewTable(nil, nil))
	wb.AddSheet("b", NewTable([]string{"x"}, nil))

	assert.Equal(t, []string{"b", "a"}, wb.SheetNames())
	s, ok := wb.Sheet("b")
	require.True(t, ok)
	assert.Equal(t, []string{"x"}, s.Columns())

	_, ok = wb.Sheet("c")
	assert.False(t, ok)
}

func TestGapReportSummary(t *testing.T) {
	rep := GapReport{Cohort: "tertiary", CohortSize: 4, GapCount: 3, Percent: 75}
	s := rep.Summary()
	assert.Equal(t, "tertiary", s.Cohort)
	assert.Equal(t, 3, s.GapCount)
	assert.Equal(t, 75.0, s.Percent)
}
