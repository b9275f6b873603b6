package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/jonathan/reader2pinboard/internal/config"
	"github.com/jonathan/reader2pinboard/internal/importer"
	"github.com/jonathan/reader2pinboard/internal/report"
	"github.com/jonathan/reader2pinboard/internal/schedule"
)

var watchCmd = &cobra.Command{
	Use:   "watch",
	Short: "Run the sync on a cron schedule until interrupted",
	Long:  "Run the sync job repeatedly on a five-field cron schedule. A tick is skipped while the previous run is still in progress. Stops cleanly on SIGINT or SIGTERM.",
	RunE:  runWatch,
}

var (
	watchSchedule      string
	watchDryRun        bool
	watchStateFile     string
	watchTags          []string
	watchResolveTitles bool
	watchVerbose       bool
)

func init() {
	watchCmd.Flags().StringVar(&watchSchedule, "schedule", "*/30 * * * *", "Cron schedule for sync runs")
	watchCmd.Flags().BoolVar(&watchDryRun, "dry-run", false, "Print what would be added without writing anything")
	watchCmd.Flags().StringVar(&watchStateFile, "state-file", "", "Path to the last-run timestamp file (overrides "+config.EnvLastRunFile+")")
	watchCmd.Flags().StringSliceVar(&watchTags, "tag", []string{defaultSourceTag}, "Tag added to every imported bookmark (repeatable)")
	watchCmd.Flags().BoolVar(&watchResolveTitles, "resolve-titles", false, "Fetch page titles for documents that arrive without one")
	watchCmd.Flags().BoolVarP(&watchVerbose, "verbose", "v", false, "Print detailed run information")

	rootCmd.AddCommand(watchCmd)
}

// syncJob adapts a configured sync run to the scheduler's Job interface.
type syncJob struct {
	imp     *importer.Importer
	opts    importer.Options
	printer *report.Printer
}

func (j *syncJob) Name() string { return "sync" }

func (j *syncJob) Run(ctx context.Context) error {
	summary, err := j.imp.Run(ctx, j.opts)
	j.printer.PrintSummary(summary)
	return err
}

func runWatch(cmd *cobra.Command, _ []string) error {
	cfg := config.FromEnv()
	if cmd.Flags().Changed("state-file") {
		cfg.LastRunFile = watchStateFile
	}
	if err := cfg.Validate(); err != nil {
		return err
	}

	imp, err := buildImporter(cfg, watchResolveTitles)
	if err != nil {
		return err
	}

	printer := report.NewPrinter(os.Stdout, watchVerbose)
	job := &syncJob{
		imp: imp,
		opts: importer.Options{
			DryRun:        watchDryRun,
			SourceTags:    watchTags,
			ResolveTitles: watchResolveTitles,
			OnItem:        printer.PrintItem,
		},
		printer: printer,
	}

	scheduler := schedule.NewCronScheduler(os.Stdout)
	if err := scheduler.AddJob(job, watchSchedule); err != nil {
		return err
	}

	// Graceful shutdown
	stop := make(chan os.Signal, 1)
	signal.Notify(stop, os.Interrupt, syscall.SIGTERM)

	scheduler.Start(context.Background())
	<-stop

	fmt.Fprintf(os.Stdout, "Shutting down...\n")
	scheduler.Stop()
	return nil
}
