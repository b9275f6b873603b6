// Package main provides the entry point for the reader2pinboard CLI.
package main

import (
	"os"

	"github.com/gookit/color"
	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
)

var rootCmd = &cobra.Command{
	Use:   "reader2pinboard",
	Short: "Sync saved articles from Readwise Reader to Pinboard",
	Long:  "reader2pinboard copies documents saved in Readwise Reader into Pinboard bookmarks. It fetches only what changed since the previous successful run, skips URLs that are already bookmarked, and records when it ran so the next invocation picks up where it left off.",
}

func main() {
	// Load .env file if it exists
	_ = godotenv.Load()

	if err := rootCmd.Execute(); err != nil {
		color.Fprintf(os.Stderr, "<red>Error:</> %v\n", err)
		os.Exit(1)
	}
}
