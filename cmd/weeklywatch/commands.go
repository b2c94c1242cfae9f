package main

import (
	"context"
	"fmt"
	"io"
	"strings"
	"text/tabwriter"
	"time"

	"github.com/spf13/cobra"

	"WeeklyWatch/internal/app"
	"WeeklyWatch/internal/config"
	"WeeklyWatch/internal/domain"
	"WeeklyWatch/internal/logging"
)

func newRootCmd() *cobra.Command {
	var configPath string

	rootCmd := &cobra.Command{
		Use:           "weeklywatch",
		Short:         "Weekly AI watch: literature, competitors and public tenders in one report",
		Version:       Version,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runLoop(cmd.Context(), configPath)
		},
	}
	rootCmd.PersistentFlags().StringVarP(&configPath, "config", "c", "", "path to YAML config (default $WEEKLY_WATCH_CONFIG)")

	rootCmd.AddCommand(runCmd(&configPath))
	rootCmd.AddCommand(onceCmd(&configPath))
	rootCmd.AddCommand(historyCmd(&configPath))

	return rootCmd
}

func runCmd(configPath *string) *cobra.Command {
	return &cobra.Command{
		Use:   "run",
		Short: "Run the weekly scheduler until interrupted",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runLoop(cmd.Context(), *configPath)
		},
	}
}

func onceCmd(configPath *string) *cobra.Command {
	return &cobra.Command{
		Use:   "once",
		Short: "Collect, compile and dispatch one report now",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			application, err := bootstrap(cmd.Context(), *configPath, true)
			if err != nil {
				return err
			}
			defer application.Close()

			summary, err := application.RunOnce(cmd.Context())
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "report: %s\nstatus: %s\n", summary.Report.Path, summary.Record.Status)
			return nil
		},
	}
}

func historyCmd(configPath *string) *cobra.Command {
	var limit int

	cmd := &cobra.Command{
		Use:   "history",
		Short: "List recent runs from the history store",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			application, err := bootstrap(cmd.Context(), *configPath, false)
			if err != nil {
				return err
			}
			defer application.Close()

			runs, err := application.History(cmd.Context(), limit)
			if err != nil {
				return err
			}
			return printRuns(cmd.OutOrStdout(), runs)
		},
	}
	cmd.Flags().IntVarP(&limit, "limit", "n", 10, "maximum runs to show")

	return cmd
}

func runLoop(ctx context.Context, configPath string) error {
	application, err := bootstrap(ctx, configPath, true)
	if err != nil {
		return err
	}
	defer application.Close()

	return application.Run(ctx)
}

// bootstrap loads configuration and builds the application. Validation is
// skipped for read-only commands that never dispatch.
func bootstrap(ctx context.Context, configPath string, validate bool) (*app.Application, error) {
	cfg, err := config.Load(configPath)
	if err != nil {
		return nil, err
	}
	if validate {
		if err := cfg.Validate(); err != nil {
			return nil, fmt.Errorf("invalid configuration:\n%w", err)
		}
	}

	logger := logging.New(cfg.Logging.Level, cfg.Logging.Format)
	return app.New(ctx, cfg, logger)
}

func printRuns(w io.Writer, runs []domain.RunRecord) error {
	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	fmt.Fprintln(tw, "STARTED\tSTATUS\tTECH\tMARKET\tPUBLIC\tDELIVERED\tFAILED\tREPORT")
	for _, run := range runs {
		fmt.Fprintf(tw, "%s\t%s\t%d\t%d\t%d\t%s\t%s\t%s\n",
			run.StartedAt.Local().Format(time.DateTime),
			run.Status,
			run.TechCount, run.MarketCount, run.PublicCount,
			orDash(strings.Join(run.Delivered, ",")),
			orDash(strings.Join(run.Failed, ",")),
			orDash(run.ReportPath),
		)
	}
	return tw.Flush()
}

func orDash(s string) string {
	if s == "" {
		return "-"
	}
	return s
}
