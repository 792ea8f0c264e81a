package dataprocessing

import (
	"github.com/montanaflynn/stats"

	"hrpulse/pkg/contracts/domain"
)

// View names.
const (
	ViewNationality           = "nationality"
	ViewGender                = "gender"
	ViewJobsByDepartment      = "jobs_by_department"
	ViewContractsByDepartment = "contracts_by_department"
	ViewJobShareByDepartment  = "job_share_by_department"
)

// View is one categorical breakdown shown on the dashboard.
type View struct {
	Name    string
	Title   string
	Request AggregateRequest
}

var views = []View{
	{
		Name:    ViewNationality,
		Title:   "عدد الموظفين حسب الجنسية",
		Request: AggregateRequest{GroupBy: []string{domain.ColumnNationality}, Share: domain.ShareGlobal},
	},
	{
		Name:    ViewGender,
		Title:   "عدد الموظفين حسب الجنس",
		Request: AggregateRequest{GroupBy: []string{domain.ColumnGender}, Share: domain.ShareNone},
	},
	{
		Name:    ViewJobsByDepartment,
		Title:   "عدد الموظفين حسب الوظيفة لكل دائرة",
		Request: AggregateRequest{GroupBy: []string{domain.ColumnDepartment, domain.ColumnJobTitle}, Share: domain.ShareNone},
	},
	{
		Name:    ViewContractsByDepartment,
		Title:   "توزيع أنواع العقود لكل دائرة",
		Request: AggregateRequest{GroupBy: []string{domain.ColumnDepartment, domain.ColumnContractType}, Share: domain.SharePerParent},
	},
	{
		Name:    ViewJobShareByDepartment,
		Title:   "توزيع الوظائف داخل كل جهة",
		Request: AggregateRequest{GroupBy: []string{domain.ColumnDepartment, domain.ColumnJobTitle}, Share: domain.SharePerParent},
	},
}

// Views returns the view catalogue in display order.
func Views() []View {
	return append([]View(nil), views...)
}

// FindView looks a view up by name.
func FindView(name string) (View, bool) {
	for _, v := range views {
		if v.Name == name {
			return v, true
		}
	}
	return View{}, false
}

// Run computes the view. A missing column comes back as a MissingColumnError naming the view.
func (v View) Run(t *domain.Table) (*domain.ViewResult, error) {
	b, err := Aggregate(t, v.Request)
	if err != nil {
		if mce, ok := AsMissingColumn(err); ok {
			return nil, &MissingColumnError{View: v.Name, Columns: mce.Columns}
		}
		return nil, err
	}
	return &domain.ViewResult{View: v.Name, Title: v.Title, Breakdown: b}, nil
}

// BuildDashboard runs every view and every cohort detector over a prepared table.
// Views whose columns are absent are listed as skipped instead of failing the dashboard.
func BuildDashboard(sheet string, t *domain.Table) (*domain.Dashboard, error) {
	d := &domain.Dashboard{
		Sheet:        sheet,
		Overview:     BuildOverview(t),
		Views:        []domain.ViewResult{},
		Gaps:         []domain.GapSummary{},
		SkippedViews: []domain.SkippedView{},
	}
	for _, v := range views {
		res, err := v.Run(t)
		if err != nil {
			if mce, ok := AsMissingColumn(err); ok {
				d.SkippedViews = append(d.SkippedViews, domain.SkippedView{View: mce.View, MissingColumns: mce.Columns})
				continue
			}
			return nil, err
		}
		d.Views = append(d.Views, *res)
	}
	for _, det := range Cohorts() {
		rep, err := det.Detect(t)
		if err != nil {
			if mce, ok := AsMissingColumn(err); ok {
				d.SkippedViews = append(d.SkippedViews, domain.SkippedView{View: mce.View, MissingColumns: mce.Columns})
				continue
			}
			return nil, err
		}
		d.Gaps = append(d.Gaps, rep.Summary())
	}
	return d, nil
}

// BuildOverview computes headline figures and per-column completeness.
func BuildOverview(t *domain.Table) domain.Overview {
	o := domain.Overview{
		Employees:    t.Len(),
		Columns:      t.Columns(),
		Completeness: AuditAll(t),
	}
	b, err := Aggregate(t, AggregateRequest{GroupBy: []string{domain.ColumnDepartment}})
	if err != nil || len(b.Groups) == 0 {
		return o
	}

	o.Departments = len(b.Groups)
	headcounts := make(stats.Float64Data, 0, len(b.Groups))
	for _, g := range b.Groups {
		headcounts = append(headcounts, float64(g.Count))
		if g.Count > o.LargestHeadcount {
			o.LargestHeadcount = g.Count
			o.LargestDepartment = g.Keys[0]
		}
	}
	if mean, err := headcounts.Mean(); err == nil {
		o.MeanHeadcount = roundTenth(mean)
	}
	if median, err := headcounts.Median(); err == nil {
		o.MedianHeadcount = roundTenth(median)
	}
	return o
}
