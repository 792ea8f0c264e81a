package main

import (
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"path/filepath"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"hrpulse/internal/config"
	"hrpulse/internal/dataprocessing"
	"hrpulse/internal/exporter"
	"hrpulse/internal/files"
	"hrpulse/internal/infrastructure"
	"hrpulse/internal/services"
	"hrpulse/pkg/contracts/domain"
)

func newSheetsCmd(root *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "sheets FILE",
		Short: "List the sheets of a workbook",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := files.ValidateWorkbookFile(args[0]); err != nil {
				return err
			}
			wb, err := dataprocessing.LoadFile(cmd.Context(), args[0])
			if err != nil {
				return err
			}
			for _, name := range wb.SheetNames() {
				fmt.Fprintln(cmd.OutOrStdout(), name)
			}
			return nil
		},
	}
}

func newScanCmd(root *rootOptions) *cobra.Command {
	var latest bool

	cmd := &cobra.Command{
		Use:   "scan DIR",
		Short: "List the workbooks in a directory with their sheets",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			logger := root.logger(cmd)
			found, err := files.NewDiscovery("").FindWorkbooks(args[0])
			if err != nil {
				return err
			}
			if latest {
				f, ok := files.GetLatestFile(found)
				if !ok {
					return fmt.Errorf("no workbooks in %s", args[0])
				}
				found = []files.FileInfo{f}
			}

			out := cmd.OutOrStdout()
			for _, f := range found {
				wb, err := dataprocessing.LoadFile(cmd.Context(), f.Path)
				if err != nil {
					logger.WarnContext(cmd.Context(), "workbook skipped",
						slog.String("file", f.Path),
						slog.String("error", err.Error()))
					fmt.Fprintf(out, "%s\t%d\tunreadable\n", f.Name, f.Size)
					continue
				}
				fmt.Fprintf(out, "%s\t%d\t%s\n", f.Name, f.Size, strings.Join(wb.SheetNames(), ", "))
			}
			return nil
		},
	}

	cmd.Flags().BoolVar(&latest, "latest", false, "only the most recently modified workbook")
	return cmd
}

func newReportsCmd(root *rootOptions) *cobra.Command {
	var outDir string

	cmd := &cobra.Command{
		Use:   "reports",
		Short: "List the CSV reports written so far, newest first",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			paths, err := reportPaths(outDir)
			if err != nil {
				return err
			}
			found, err := files.NewDiscovery(paths.ExecutableDir).FindReports(paths.ReportsDir)
			if err != nil {
				return err
			}
			for _, f := range found {
				fmt.Fprintf(cmd.OutOrStdout(), "%s\t%d\t%s\n", f.Name, f.Size, f.ModTime.Format(time.RFC3339))
			}
			return nil
		},
	}
	cmd.Flags().StringVar(&outDir, "out", "", "Reports directory (default: data/reports)")
	return cmd
}

type analyzeOptions struct {
	sheet  string
	outDir string
	json   bool
}

func newAnalyzeCmd(root *rootOptions) *cobra.Command {
	var opts analyzeOptions

	cmd := &cobra.Command{
		Use:   "analyze FILE",
		Short: "Print the dashboard of one sheet and write its CSV reports",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runAnalyze(cmd, root.logger(cmd), args[0], opts)
		},
	}

	cmd.Flags().StringVar(&opts.sheet, "sheet", "", "Sheet to analyze (required)")
	cmd.Flags().StringVar(&opts.outDir, "out", "", "Output directory for CSV reports (default: data/reports)")
	cmd.Flags().BoolVar(&opts.json, "json", false, "Print the dashboard as JSON")
	_ = cmd.MarkFlagRequired("sheet")

	return cmd
}

func runAnalyze(cmd *cobra.Command, logger *slog.Logger, file string, opts analyzeOptions) error {
	ctx := infrastructure.EnsureTraceID(cmd.Context())

	if err := files.ValidateWorkbookFile(file); err != nil {
		return err
	}
	paths, err := reportPaths(opts.outDir)
	if err != nil {
		return err
	}
	if err := files.ValidateOutputDirectory(paths.ReportsDir); err != nil {
		return err
	}

	wb, err := dataprocessing.LoadFile(ctx, file)
	if err != nil {
		return err
	}
	raw, err := dataprocessing.SelectSheet(wb, opts.sheet)
	if err != nil {
		return err
	}
	t := dataprocessing.ApplyScope(raw, dataprocessing.DefaultScope())
	logger.InfoContext(ctx, "sheet loaded",
		slog.String("file", file),
		slog.String("sheet", opts.sheet),
		slog.Int("rows", raw.Len()),
		slog.Int("scoped_rows", t.Len()))

	dash, err := dataprocessing.BuildDashboard(opts.sheet, t)
	if err != nil {
		return err
	}

	written, err := writeReports(paths, t, dash)
	if err != nil {
		return err
	}
	for _, p := range written {
		logger.InfoContext(ctx, "report written", slog.String("path", p))
	}

	out := cmd.OutOrStdout()
	if opts.json {
		enc := json.NewEncoder(out)
		enc.SetIndent("", "  ")
		return enc.Encode(dash)
	}
	printDashboard(out, dash, written)
	return nil
}

// reportPaths uses the executable's layout unless an output directory is given.
func reportPaths(outDir string) (*config.Paths, error) {
	if outDir == "" {
		return config.GetPaths()
	}
	abs, err := filepath.Abs(outDir)
	if err != nil {
		return nil, fmt.Errorf("invalid --out: %w", err)
	}
	return &config.Paths{ExecutableDir: abs, ReportsDir: abs}, nil
}

// writeReports writes one CSV per rendered view and per non-empty cohort gap list.
func writeReports(paths *config.Paths, t *domain.Table, dash *domain.Dashboard) ([]string, error) {
	w := exporter.NewCSVWriter(paths)
	var written []string

	for _, v := range dash.Views {
		p, err := w.WriteBreakdownFile(v.View+".csv", v.Breakdown)
		if err != nil {
			return written, err
		}
		written = append(written, p)
	}

	for _, det := range dataprocessing.Cohorts() {
		rep, err := det.Detect(t)
		if err != nil {
			if _, ok := dataprocessing.AsMissingColumn(err); ok {
				continue
			}
			return written, err
		}
		if rep.GapCount == 0 {
			continue
		}
		p, err := w.WriteTableFile(services.DefaultGapsFilename(det.Label), rep.Rows)
		if err != nil {
			return written, err
		}
		written = append(written, p)
	}
	return written, nil
}

func printDashboard(w io.Writer, d *domain.Dashboard, written []string) {
	o := d.Overview
	fmt.Fprintf(w, "Sheet: %s\n", d.Sheet)
	fmt.Fprintf(w, "Employees: %d  Departments: %d\n", o.Employees, o.Departments)
	if o.LargestDepartment != "" {
		fmt.Fprintf(w, "Largest department: %s (%d)\n", o.LargestDepartment, o.LargestHeadcount)
	}
	fmt.Fprintf(w, "Headcount per department: mean %.1f, median %.1f\n", o.MeanHeadcount, o.MedianHeadcount)

	for _, v := range d.Views {
		fmt.Fprintf(w, "\n%s\n", v.Title)
		for _, g := range v.Breakdown.Groups {
			fmt.Fprintf(w, "  %v  %d", g.Keys, g.Count)
			if g.Percent != nil {
				fmt.Fprintf(w, "  %.1f%%", *g.Percent)
			}
			fmt.Fprintln(w)
		}
	}

	if len(d.Gaps) > 0 {
		fmt.Fprintln(w, "\nQualification gaps")
		for _, g := range d.Gaps {
			fmt.Fprintf(w, "  %s: %d of %d (%.1f%%)\n", g.Cohort, g.GapCount, g.CohortSize, g.Percent)
		}
	}
	for _, s := range d.SkippedViews {
		fmt.Fprintf(w, "skipped %s: missing %v\n", s.View, s.MissingColumns)
	}

	if len(written) > 0 {
		fmt.Fprintln(w, "\nReports")
		for _, p := range written {
			fmt.Fprintf(w, "  %s\n", p)
		}
	}
}
