package domain

// Personnel sheet column labels. Names must match the trimmed header verbatim.
const (
	ColumnDepartment         = "الدائرة"
	ColumnJobTitle           = "الوظيفة"
	ColumnNationality        = "الجنسية"
	ColumnGender             = "الجنس"
	ColumnContractType       = "نوع العقد"
	ColumnEducationLevel     = "المستوى التعليمي"
	ColumnQualificationGrade = "درجة المؤهل"
)

// ShareScope selects the denominator of a breakdown percentage.
type ShareScope string

const (
	ShareNone      ShareScope = "none"
	ShareGlobal    ShareScope = "global"
	SharePerParent ShareScope = "per_parent"
)

// Group is one bucket of a breakdown.
type Group struct {
	Keys    []string `json:"keys"`
	Count   int      `json:"count"`
	Percent *float64 `json:"percent,omitempty"`
}

// Breakdown is the grouped count of a table along one or two columns.
// Total counts the rows that entered a group; Excluded counts rows whose
// grouping key was absent.
type Breakdown struct {
	GroupBy  []string   `json:"group_by"`
	Share    ShareScope `json:"share"`
	Groups   []Group    `json:"groups"`
	Total    int        `json:"total"`
	Excluded int        `json:"excluded"`
}

// MissingAudit is the presence count of one column.
type MissingAudit struct {
	Column  string `json:"column"`
	Present int    `json:"present"`
	Missing int    `json:"missing"`
	Total   int    `json:"total"`
}

// GapReport describes the cohort rows whose qualification grade is unusable.
type GapReport struct {
	Cohort     string  `json:"cohort"`
	CohortSize int     `json:"cohort_size"`
	GapCount   int     `json:"gap_count"`
	Percent    float64 `json:"percent"`
	Rows       *Table  `json:"rows"`
}

// GapSummary is a GapReport without its rows.
type GapSummary struct {
	Cohort     string  `json:"cohort"`
	CohortSize int     `json:"cohort_size"`
	GapCount   int     `json:"gap_count"`
	Percent    float64 `json:"percent"`
}

// Summary drops the row payload.
func (g *GapReport) Summary() GapSummary {
	return GapSummary{
		Cohort:     g.Cohort,
		CohortSize: g.CohortSize,
		GapCount:   g.GapCount,
		Percent:    g.Percent,
	}
}

// SkippedView records a view that could not run on the active sheet.
type SkippedView struct {
	View           string   `json:"view"`
	MissingColumns []string `json:"missing_columns"`
}

// ViewResult is a named breakdown.
type ViewResult struct {
	View      string     `json:"view"`
	Title     string     `json:"title"`
	Breakdown *Breakdown `json:"breakdown"`
}

// Overview summarises the scoped sheet.
type Overview struct {
	Employees         int            `json:"employees"`
	Columns           []string       `json:"columns"`
	Departments       int            `json:"departments"`
	LargestDepartment string         `json:"largest_department,omitempty"`
	LargestHeadcount  int            `json:"largest_headcount,omitempty"`
	MeanHeadcount     float64        `json:"mean_headcount"`
	MedianHeadcount   float64        `json:"median_headcount"`
	Completeness      []MissingAudit `json:"completeness"`
}

// Dashboard is every derived result for one sheet.
type Dashboard struct {
	Sheet        string        `json:"sheet"`
	Overview     Overview      `json:"overview"`
	Views        []ViewResult  `json:"views"`
	Gaps         []GapSummary  `json:"gaps"`
	SkippedViews []SkippedView `json:"skipped_views"`
}
