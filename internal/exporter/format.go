package exporter

import (
	"strconv"

	"hrpulse/pkg/contracts/domain"
)

// Breakdown CSV headers.
const (
	headerCount   = "العدد"
	headerPercent = "النسبة المئوية"
)

// formatValue renders a cell: absent is empty, numbers use the shortest decimal
func formatValue(v domain.Value) string {
	return v.Text()
}

// formatPercent formats a share with exactly 1 decimal place
func formatPercent(p float64) string {
	return strconv.FormatFloat(p, 'f', 1, 64)
}

func rowRecord(r domain.Row) []string {
	rec := make([]string, len(r))
	for i, v := range r {
		rec[i] = formatValue(v)
	}
	return rec
}

// BreakdownRecords flattens a breakdown into a header and one record per group:
// the grouping keys, the count and, when shares were computed, the percentage.
func BreakdownRecords(b *domain.Breakdown) ([]string, [][]string) {
	withShare := b.Share == domain.ShareGlobal || b.Share == domain.SharePerParent
	headers := append([]string(nil), b.GroupBy...)
	headers = append(headers, headerCount)
	if withShare {
		headers = append(headers, headerPercent)
	}

	records := make([][]string, 0, len(b.Groups))
	for _, g := range b.Groups {
		rec := append([]string(nil), g.Keys...)
		rec = append(rec, strconv.Itoa(g.Count))
		if withShare && g.Percent != nil {
			rec = append(rec, formatPercent(*g.Percent))
		}
		records = append(records, rec)
	}
	return headers, records
}
