package main

import (
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/jonathan/reader2pinboard/internal/config"
	"github.com/jonathan/reader2pinboard/internal/lastrun"
)

var statusCmd = &cobra.Command{
	Use:   "status",
	Short: "Show when the last successful sync ran",
	RunE:  runStatus,
}

var statusStateFile string

func init() {
	statusCmd.Flags().StringVar(&statusStateFile, "state-file", "", "Path to the last-run timestamp file (overrides "+config.EnvLastRunFile+")")

	rootCmd.AddCommand(statusCmd)
}

// runStatus needs no credentials; it only inspects the state file.
func runStatus(cmd *cobra.Command, _ []string) error {
	cfg := config.FromEnv()
	if cmd.Flags().Changed("state-file") {
		cfg.LastRunFile = statusStateFile
	}

	store := lastrun.NewStore(cfg.LastRunFile)
	last, ok, err := store.Read()
	if err != nil {
		return err
	}

	fmt.Fprintf(os.Stdout, "State file: %s\n", store.Path())
	if !ok {
		fmt.Fprintf(os.Stdout, "No previous run recorded\n")
		return nil
	}
	fmt.Fprintf(os.Stdout, "Last run:   %s (%s ago)\n", last.Format(time.RFC3339), time.Since(last).Round(time.Second))
	return nil
}
