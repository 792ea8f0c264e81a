package dataprocessing

import (
	"strings"

	"hrpulse/pkg/contracts/domain"
)

// Normalize applies the one-time cleanup every analysis reads from:
// text values of the qualification-grade column lose surrounding whitespace.
// The input table is left untouched and trimming is idempotent, so every
// detector works on the same normalized view.
func Normalize(t *domain.Table) *domain.Table {
	return t.MapColumn(domain.ColumnQualificationGrade, trimText)
}

func trimText(v domain.Value) domain.Value {
	if v.Kind != domain.KindString {
		return v
	}
	return domain.String(strings.TrimSpace(v.Str))
}
