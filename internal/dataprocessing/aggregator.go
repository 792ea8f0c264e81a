package dataprocessing

import (
	"math"
	"sort"
	"strings"

	"hrpulse/pkg/contracts/domain"
)

// AggregateRequest describes one breakdown.
type AggregateRequest struct {
	GroupBy []string
	Share   domain.ShareScope
}

// Aggregate counts rows per distinct key tuple of the grouping columns.
//
// Rows with an absent value in any grouping column are left out of every group
// and reported in Breakdown.Excluded. Groups are ordered lexicographically by key
// tuple. Percentages are rounded to one decimal, half to even; a zero denominator
// yields 0. A SharePerParent request with a single column behaves like ShareGlobal.
func Aggregate(t *domain.Table, req AggregateRequest) (*domain.Breakdown, error) {
	if len(req.GroupBy) == 0 || len(req.GroupBy) > 2 {
		return nil, ErrInvalidGrouping
	}
	if missing := t.MissingColumns(req.GroupBy...); len(missing) > 0 {
		return nil, &MissingColumnError{Columns: missing}
	}
	share := req.Share
	if share == "" {
		share = domain.ShareNone
	}

	idx := make([]int, len(req.GroupBy))
	for i, c := range req.GroupBy {
		idx[i], _ = t.ColumnIndex(c)
	}

	out := &domain.Breakdown{
		GroupBy: append([]string(nil), req.GroupBy...),
		Share:   share,
		Groups:  []domain.Group{},
	}
	// a number and a string with the same text are different groups
	var groups []keyedGroup
	position := make(map[string]int)
	for i := 0; i < t.Len(); i++ {
		keys, ids, ok := groupKeys(t.Row(i), idx)
		if !ok {
			out.Excluded++
			continue
		}
		id := strings.Join(ids, "\x00")
		p, seen := position[id]
		if !seen {
			p = len(groups)
			position[id] = p
			groups = append(groups, keyedGroup{Group: domain.Group{Keys: keys}, parent: ids[0]})
		}
		groups[p].Count++
		out.Total++
	}

	sort.SliceStable(groups, func(i, j int) bool {
		return lessKeys(groups[i].Keys, groups[j].Keys)
	})
	applyShares(out, groups)
	for _, g := range groups {
		out.Groups = append(out.Groups, g.Group)
	}
	return out, nil
}

// keyedGroup is a group plus the typed identity of its first key.
type keyedGroup struct {
	domain.Group
	parent string
}

// groupKeys returns the display text of each key and a kind-qualified identity.
func groupKeys(row domain.Row, idx []int) (keys, ids []string, ok bool) {
	keys = make([]string, len(idx))
	ids = make([]string, len(idx))
	for i, c := range idx {
		v := row[c]
		if v.IsNull() {
			return nil, nil, false
		}
		keys[i] = v.Text()
		ids[i] = string(rune('0'+v.Kind)) + keys[i]
	}
	return keys, ids, true
}

func lessKeys(a, b []string) bool {
	for i := range a {
		if a[i] != b[i] {
			return a[i] < b[i]
		}
	}
	return false
}

func applyShares(b *domain.Breakdown, groups []keyedGroup) {
	switch b.Share {
	case domain.ShareGlobal:
		for i := range groups {
			p := Percent(groups[i].Count, b.Total)
			groups[i].Percent = &p
		}
	case domain.SharePerParent:
		if len(b.GroupBy) == 1 {
			b.Share = domain.ShareGlobal
			applyShares(b, groups)
			return
		}
		parents := make(map[string]int)
		for _, g := range groups {
			parents[g.parent] += g.Count
		}
		for i := range groups {
			p := Percent(groups[i].Count, parents[groups[i].parent])
			groups[i].Percent = &p
		}
	}
}

// Percent returns part/whole as a percentage rounded to one decimal, half to even.
// An empty whole is defined as 0%.
func Percent(part, whole int) float64 {
	if whole == 0 {
		return 0
	}
	return roundTenth(float64(part) / float64(whole) * 100)
}

// roundTenth rounds to one decimal place, half to even.
func roundTenth(x float64) float64 {
	return math.RoundToEven(x*10) / 10
}
