package dataprocessing

import (
	"hrpulse/pkg/contracts/domain"
)

// AuditMissing counts absent and present values of one column.
// Only absent cells are missing; a blank string is present.
// The column must exist; callers check with Table.HasColumns.
func AuditMissing(t *domain.Table, column string) domain.MissingAudit {
	audit := domain.MissingAudit{Column: column, Total: t.Len()}
	c, ok := t.ColumnIndex(column)
	if !ok {
		audit.Missing = t.Len()
		return audit
	}
	for i := 0; i < t.Len(); i++ {
		if t.Row(i)[c].IsNull() {
			audit.Missing++
		}
	}
	audit.Present = audit.Total - audit.Missing
	return audit
}

// AuditAll audits every column in header order.
func AuditAll(t *domain.Table) []domain.MissingAudit {
	cols := t.Columns()
	out := make([]domain.MissingAudit, 0, len(cols))
	for _, c := range cols {
		out = append(out, AuditMissing(t, c))
	}
	return out
}
