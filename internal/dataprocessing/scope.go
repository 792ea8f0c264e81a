package dataprocessing

import (
	"hrpulse/pkg/contracts/domain"
)

// UnitRole is one (organizational unit, job title) pair.
type UnitRole struct {
	Unit string
	Role string
}

// ScopeRules decide which rows are outside the analysed organization.
type ScopeRules struct {
	UnitColumn    string
	RoleColumn    string
	ExcludedUnits []string
	ExcludedRoles []UnitRole
}

// DefaultScope returns the fixed exclusion rules. They are not configurable at runtime.
func DefaultScope() ScopeRules {
	return ScopeRules{
		UnitColumn: domain.ColumnDepartment,
		RoleColumn: domain.ColumnJobTitle,
		ExcludedUnits: []string{
			"HC.نادي عجمان للفروسية",
			"PD.الشرطة المحلية لإمارة عجمان",
			"RC.الديوان الأميري",
		},
		ExcludedRoles: []UnitRole{
			{Unit: "AM.دائرة البلدية والتخطيط", Role: "عامل"},
		},
	}
}

// ApplyScope returns a new table without excluded rows.
// A rule whose column is absent does nothing. Applying it twice equals applying it once.
func ApplyScope(t *domain.Table, rules ScopeRules) *domain.Table {
	unitIdx, hasUnit := t.ColumnIndex(rules.UnitColumn)
	roleIdx, hasRole := t.ColumnIndex(rules.RoleColumn)
	if !hasUnit {
		return t
	}

	units := make(map[string]struct{}, len(rules.ExcludedUnits))
	for _, u := range rules.ExcludedUnits {
		units[u] = struct{}{}
	}
	pairs := make(map[UnitRole]struct{}, len(rules.ExcludedRoles))
	for _, p := range rules.ExcludedRoles {
		pairs[p] = struct{}{}
	}

	return t.Filter(func(r domain.Row) bool {
		unit := r[unitIdx]
		if unit.Kind != domain.KindString {
			return true
		}
		if _, excluded := units[unit.Str]; excluded {
			return false
		}
		if hasRole {
			role := r[roleIdx]
			if role.Kind == domain.KindString {
				if _, excluded := pairs[UnitRole{Unit: unit.Str, Role: role.Str}]; excluded {
					return false
				}
			}
		}
		return true
	})
}
