package dataprocessing

import (
	"fmt"
	"strings"

	"hrpulse/pkg/contracts/domain"
)

// Cohort labels.
const (
	CohortTertiary  = "tertiary"
	CohortSecondary = "secondary"
)

// gradePlaceholders are the grade entries that carry no information.
// Matching is exact and case-sensitive on the trimmed text.
var gradePlaceholders = map[string]struct{}{
	"-":       {},
	"لا يوجد": {},
	"/":       {},
	"nan":     {},
	"NaN":     {},
	"None":    {},
	"":        {},
}

// GapDetector finds cohort members whose qualification grade is unusable.
// The cohort is every row whose academic level is one of Levels.
type GapDetector struct {
	Label       string
	Levels      []string
	LevelColumn string
	GradeColumn string
}

// TertiaryCohort selects diploma holders and above.
func TertiaryCohort() GapDetector {
	return GapDetector{
		Label:       CohortTertiary,
		Levels:      []string{"دبلوم", "دبلوم عالي", "بكالوريوس", "ماجستير", "دكتوراه", "إنجاز"},
		LevelColumn: domain.ColumnEducationLevel,
		GradeColumn: domain.ColumnQualificationGrade,
	}
}

// SecondaryCohort selects secondary-school leavers.
func SecondaryCohort() GapDetector {
	return GapDetector{
		Label:       CohortSecondary,
		Levels:      []string{"ثانوي", "ثانوية عامة"},
		LevelColumn: domain.ColumnEducationLevel,
		GradeColumn: domain.ColumnQualificationGrade,
	}
}

func init() {
	if err := ValidateDisjoint(Cohorts()...); err != nil {
		panic(err)
	}
}

// Cohorts returns the detectors run on every dashboard, in display order.
func Cohorts() []GapDetector {
	return []GapDetector{TertiaryCohort(), SecondaryCohort()}
}

// FindCohort looks a detector up by label.
func FindCohort(label string) (GapDetector, bool) {
	for _, d := range Cohorts() {
		if d.Label == label {
			return d, true
		}
	}
	return GapDetector{}, false
}

// ValidateDisjoint fails if two detectors share an academic level,
// which would let one row count in two cohorts.
func ValidateDisjoint(detectors ...GapDetector) error {
	owner := make(map[string]string)
	for _, d := range detectors {
		for _, lvl := range d.Levels {
			if prev, taken := owner[lvl]; taken && prev != d.Label {
				return fmt.Errorf("academic level %q belongs to cohorts %s and %s", lvl, prev, d.Label)
			}
			owner[lvl] = d.Label
		}
	}
	return nil
}

// IsGradeGap reports whether a grade value is absent or a placeholder.
func IsGradeGap(v domain.Value) bool {
	if v.IsNull() {
		return true
	}
	_, placeholder := gradePlaceholders[strings.TrimSpace(v.Text())]
	return placeholder
}

// Detect returns the cohort's gap rows with all input columns, and the gap share.
// An empty cohort yields a 0% share.
func (d GapDetector) Detect(t *domain.Table) (*domain.GapReport, error) {
	if missing := t.MissingColumns(d.LevelColumn, d.GradeColumn); len(missing) > 0 {
		return nil, &MissingColumnError{View: "gaps/" + d.Label, Columns: missing}
	}
	levelIdx, _ := t.ColumnIndex(d.LevelColumn)
	gradeIdx, _ := t.ColumnIndex(d.GradeColumn)

	levels := make(map[string]struct{}, len(d.Levels))
	for _, l := range d.Levels {
		levels[l] = struct{}{}
	}

	cohort := 0
	gaps := t.Filter(func(r domain.Row) bool {
		lvl := r[levelIdx]
		if lvl.Kind != domain.KindString {
			return false
		}
		if _, member := levels[lvl.Str]; !member {
			return false
		}
		cohort++
		return IsGradeGap(r[gradeIdx])
	})

	return &domain.GapReport{
		Cohort:     d.Label,
		CohortSize: cohort,
		GapCount:   gaps.Len(),
		Percent:    Percent(gaps.Len(), cohort),
		Rows:       gaps,
	}, nil
}
