// Package exporter writes analysis results as CSV for download and for the
// report command.
//
// Every file starts with a UTF-8 byte order mark so Excel opens Arabic text
// correctly.
//
// WriteTable streams any domain.Table to a writer (HTTP responses).
//
// CSVWriter writes tables and breakdowns to files under the reports directory.
//
// Example usage:
//
//	// Stream gap rows to a client
//	err := exporter.WriteTable(w, report.Rows)
//
//	// Write a breakdown next to the other reports
//	csvWriter := exporter.NewCSVWriter(paths)
//	path, err := csvWriter.WriteBreakdownFile("nationality.csv", breakdown)
package exporter
