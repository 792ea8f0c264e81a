// Package shared holds helpers used across HR Pulse packages that belong to
// no single layer.
//
// testutil builds personnel workbooks with excelize and captures slog output
// so tests can assert on what was logged. It is imported by _test.go files
// only.
package shared
