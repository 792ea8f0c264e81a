// Package dataprocessing is the workforce analytics engine. It turns an uploaded
// personnel workbook into categorical breakdowns and a qualification data-quality audit.
//
// # Architecture
//
// The package is organized into these components:
//
// 1. Parser: reads every sheet of an xlsx stream into a domain.Table
// 2. Normalize and scope: trims the grade column once and drops out-of-scope units
// 3. Aggregate: grouped counts and percentage shares over one or two columns
// 4. AuditMissing: present/absent counts of a column
// 5. GapDetector: cohort rows with a known academic level but no usable grade
//
// # Data Flow
//
//	xlsx → LoadWorkbook → SelectSheet (Normalize) → ApplyScope → Aggregate | AuditMissing | Detect
//
// # Usage
//
//	wb, err := dataprocessing.LoadWorkbook(ctx, upload)
//	if err != nil {
//	    return err // *LoadError
//	}
//	sheet, err := dataprocessing.SelectSheet(wb, name)
//	if err != nil {
//	    return err
//	}
//	dash, err := dataprocessing.BuildDashboard(name, dataprocessing.ApplyScope(sheet, dataprocessing.DefaultScope()))
//
// # Error Handling
//
//   - LoadError: the upload is not a spreadsheet; abort the interaction
//   - MissingColumnError: skip the view, keep the others
//   - empty denominators: the percentage is 0, no error
//
// Every function is a pure function of its input table. Tables are never modified;
// each step returns a new table, so results can be recomputed freely.
package dataprocessing
