// Command hrpulse-report runs the workforce dashboard on a local workbook
// and writes the breakdowns and qualification gaps as CSV reports.
package main

import (
	"context"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"hrpulse/internal/infrastructure"
	"hrpulse/pkg/contracts"
)

type rootOptions struct {
	logLevel string
}

func newRootCmd() *cobra.Command {
	var opts rootOptions

	cmd := &cobra.Command{
		Use:           "hrpulse-report",
		Short:         "Workforce analytics for personnel workbooks",
		Version:       contracts.GetFullVersionString(),
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	cmd.PersistentFlags().StringVar(&opts.logLevel, "log-level", "warn", "Log level: debug, info, warn, error")

	cmd.AddCommand(newSheetsCmd(&opts))
	cmd.AddCommand(newAnalyzeCmd(&opts))
	cmd.AddCommand(newScanCmd(&opts))
	cmd.AddCommand(newReportsCmd(&opts))
	return cmd
}

func (o *rootOptions) logger(cmd *cobra.Command) *slog.Logger {
	return infrastructure.NewLogger(cmd.ErrOrStderr(), o.logLevel)
}

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := newRootCmd().ExecuteContext(ctx); err != nil {
		slog.Error("hrpulse-report failed", slog.String("error", err.Error()))
		os.Exit(1)
	}
}
