package main

import (
	"context"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/jonathan/reader2pinboard/internal/config"
	"github.com/jonathan/reader2pinboard/internal/fetch"
	"github.com/jonathan/reader2pinboard/internal/importer"
	"github.com/jonathan/reader2pinboard/internal/lastrun"
	"github.com/jonathan/reader2pinboard/internal/pinboard"
	"github.com/jonathan/reader2pinboard/internal/readwise"
	"github.com/jonathan/reader2pinboard/internal/report"
)

// defaultSourceTag marks every imported bookmark with where it came from.
const defaultSourceTag = ".from:Reader"

var syncCmd = &cobra.Command{
	Use:   "sync",
	Short: "Import newly saved Reader documents into Pinboard",
	Long: `Fetch documents saved or updated in Readwise Reader since the last successful run and add them to Pinboard as bookmarks.

Highlights, feed entries, documents without a source URL, and URLs already present in Pinboard are left alone. The last-run timestamp advances only when the whole run succeeds; per-document failures are reported but do not stop the run.`,
	RunE: runSync,
}

var (
	syncDryRun        bool
	syncAll           bool
	syncStateFile     string
	syncTags          []string
	syncResolveTitles bool
	syncVerbose       bool
)

func init() {
	syncCmd.Flags().BoolVar(&syncDryRun, "dry-run", false, "Print what would be added without writing anything")
	syncCmd.Flags().BoolVar(&syncAll, "all", false, "Fetch every document, ignoring the last-run timestamp")
	syncCmd.Flags().StringVar(&syncStateFile, "state-file", "", "Path to the last-run timestamp file (overrides "+config.EnvLastRunFile+")")
	syncCmd.Flags().StringSliceVar(&syncTags, "tag", []string{defaultSourceTag}, "Tag added to every imported bookmark (repeatable)")
	syncCmd.Flags().BoolVar(&syncResolveTitles, "resolve-titles", false, "Fetch page titles for documents that arrive without one")
	syncCmd.Flags().BoolVarP(&syncVerbose, "verbose", "v", false, "Print detailed run information")

	rootCmd.AddCommand(syncCmd)
}

func runSync(cmd *cobra.Command, _ []string) error {
	cfg := config.FromEnv()
	if cmd.Flags().Changed("state-file") {
		cfg.LastRunFile = syncStateFile
	}
	if err := cfg.Validate(); err != nil {
		return err
	}

	imp, err := buildImporter(cfg, syncResolveTitles)
	if err != nil {
		return err
	}

	printer := report.NewPrinter(os.Stdout, syncVerbose)
	opts := importer.Options{
		DryRun:        syncDryRun,
		FetchAll:      syncAll,
		SourceTags:    syncTags,
		ResolveTitles: syncResolveTitles,
		OnStart: func(since time.Time) {
			printer.PrintRunStart(since, syncDryRun, syncAll)
		},
		OnItem: printer.PrintItem,
	}

	summary, err := imp.Run(context.Background(), opts)

	// A fatal error mid-run still gets a summary of what happened before it.
	printer.PrintSummary(summary)
	return err
}

// buildImporter wires the API clients and the state store for a run.
func buildImporter(cfg *config.Config, resolveTitles bool) (*importer.Importer, error) {
	source, err := readwise.NewClient(cfg.ReadwiseToken, readwise.DefaultOptions())
	if err != nil {
		return nil, err
	}

	dest, err := pinboard.NewClient(cfg.PinboardToken, pinboard.DefaultOptions())
	if err != nil {
		return nil, err
	}

	imp := importer.New(source, dest, lastrun.NewStore(cfg.LastRunFile))
	if resolveTitles {
		imp = imp.WithTitleResolver(fetch.NewResolver(nil))
	}
	return imp, nil
}
