package dataprocessing

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"hrpulse/pkg/contracts/domain"
)

func fullStaffTable() *domain.Table {
	return staffTable([]string{
		domain.ColumnDepartment, domain.ColumnJobTitle, domain.ColumnNationality,
		domain.ColumnGender, domain.ColumnContractType,
		domain.ColumnEducationLevel, domain.ColumnQualificationGrade,
	},
		[]interface{}{"D1", "مهندس", "A", "ذكر", "دائم", "بكالوريوس", "جيد"},
		[]interface{}{"D1", "مهندس", "A", "أنثى", "دائم", "ماجستير", "-"},
		[]interface{}{"D1", "محاسب", "B", "ذكر", "مؤقت", "ثانوي", nil},
		[]interface{}{"D2", "سائق", "A", "ذكر", "مؤقت", "ثانوي", "مقبول"},
	)
}

func TestBuildDashboard(t *testing.T) {
	d, err := BuildDashboard("S", fullStaffTable())
	require.NoError(t, err)

	assert.Equal(t, "S", d.Sheet)
	assert.Empty(t, d.SkippedViews)
	require.Len(t, d.Views, len(Views()))
	for i, v := range Views() {
		assert.Equal(t, v.Name, d.Views[i].View)
	}

	require.Len(t, d.Gaps, 2)
	assert.Equal(t, CohortTertiary, d.Gaps[0].Cohort)
	assert.Equal(t, 1, d.Gaps[0].GapCount)
	assert.Equal(t, 50.0, d.Gaps[0].Percent)
	assert.Equal(t, CohortSecondary, d.Gaps[1].Cohort)
	assert.Equal(t, 1, d.Gaps[1].GapCount)
}

func TestBuildDashboard_SkipsViewsWithMissingColumns(t *testing.T) {
	table := staffTable([]string{domain.ColumnNationality}, []interface{}{"A"})

	d, err := BuildDashboard("S", table)
	require.NoError(t, err)

	require.Len(t, d.Views, 1)
	assert.Equal(t, ViewNationality, d.Views[0].View)

	skipped := map[string][]string{}
	for _, s := range d.SkippedViews {
		skipped[s.View] = s.MissingColumns
	}
	assert.Equal(t, []string{domain.ColumnGender}, skipped[ViewGender])
	assert.Equal(t, []string{domain.ColumnDepartment, domain.ColumnContractType}, skipped[ViewContractsByDepartment])
	assert.Contains(t, skipped, "gaps/"+CohortTertiary)
	assert.Contains(t, skipped, "gaps/"+CohortSecondary)
	assert.Empty(t, d.Gaps)
}

func TestViewRun(t *testing.T) {
	v, ok := FindView(ViewContractsByDepartment)
	require.True(t, ok)

	res, err := v.Run(fullStaffTable())
	require.NoError(t, err)
	assert.Equal(t, v.Title, res.Title)
	assert.Equal(t, domain.SharePerParent, res.Breakdown.Share)

	_, err = v.Run(staffTable([]string{domain.ColumnDepartment}))
	mce, ok := AsMissingColumn(err)
	require.True(t, ok)
	assert.Equal(t, ViewContractsByDepartment, mce.View)

	_, ok = FindView("salary")
	assert.False(t, ok)
}

func TestBuildOverview(t *testing.T) {
	o := BuildOverview(fullStaffTable())

	assert.Equal(t, 4, o.Employees)
	assert.Equal(t, 2, o.Departments)
	assert.Equal(t, "D1", o.LargestDepartment)
	assert.Equal(t, 3, o.LargestHeadcount)
	assert.Equal(t, 2.0, o.MeanHeadcount)
	assert.Equal(t, 2.0, o.MedianHeadcount)
	assert.Len(t, o.Completeness, 7)
}

func TestBuildOverview_NoDepartmentColumn(t *testing.T) {
	o := BuildOverview(staffTable([]string{"a"}, []interface{}{"x"}))

	assert.Equal(t, 1, o.Employees)
	assert.Zero(t, o.Departments)
	assert.Empty(t, o.LargestDepartment)
}

func TestNormalizeThenScope(t *testing.T) {
	table := staffTable([]string{domain.ColumnDepartment, domain.ColumnJobTitle, domain.ColumnQualificationGrade},
		[]interface{}{"AM.دائرة البلدية والتخطيط", "عامل", " جيد "},
		[]interface{}{"X", "عامل", " جيد "},
	)

	got := ApplyScope(Normalize(table), DefaultScope())
	assert.Equal(t, [][]string{{"X", "عامل", "جيد"}}, tableRows(got))
	assert.Equal(t, " جيد ", table.Value(1, domain.ColumnQualificationGrade).Text())
}
