// Package report renders sync progress and results for the terminal.
package report

import (
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/gookit/color"

	"github.com/jonathan/reader2pinboard/internal/importer"
	"github.com/jonathan/reader2pinboard/internal/readwise"
)

const (
	// boxWidth is the default width for formatted output boxes
	boxWidth = 60
	// maxDetailLen is the longest detail value shown on an item line
	maxDetailLen = 70
)

// Printer handles formatted output for sync runs
type Printer struct {
	out     io.Writer
	verbose bool
}

// NewPrinter creates a new Printer that writes to the given writer
func NewPrinter(out io.Writer, verbose bool) *Printer {
	return &Printer{out: out, verbose: verbose}
}

// PrintRunStart announces the effective window before fetching begins.
//
//nolint:errcheck // writing to stdout; errors are not recoverable
func (p *Printer) PrintRunStart(since time.Time, dryRun, fetchAll bool) {
	switch {
	case fetchAll:
		fmt.Fprintf(p.out, "Fetching all documents\n")
	case since.IsZero():
		fmt.Fprintf(p.out, "No previous run recorded, fetching all documents\n")
	default:
		fmt.Fprintf(p.out, "Fetching documents updated since %s\n", since.Format(time.RFC3339))
	}
	if dryRun {
		fmt.Fprintf(p.out, "Dry run: nothing will be written\n")
	}
}

// PrintItem writes one progress line per processed document.
//
//nolint:errcheck // writing to stdout; errors are not recoverable
func (p *Printer) PrintItem(res importer.ItemResult) {
	switch res.Outcome {
	case importer.OutcomeImported:
		color.Fprintf(p.out, "<green>added</>    %s\n", res.Bookmark.URL)
	case importer.OutcomeWouldAdd:
		color.Fprintf(p.out, "<cyan>would add</> %s\n", res.Bookmark.URL)
		fmt.Fprintf(p.out, "    title:    %s\n", clip(res.Bookmark.Title))
		if res.Bookmark.Extended != "" {
			fmt.Fprintf(p.out, "    extended: %s\n", clip(res.Bookmark.Extended))
		}
		if len(res.Bookmark.Tags) > 0 {
			fmt.Fprintf(p.out, "    tags:     %s\n", clip(strings.Join(res.Bookmark.Tags, " ")))
		}
		fmt.Fprintf(p.out, "    date:     %s\n", res.Bookmark.CreatedAt.Format(time.RFC3339))
	case importer.OutcomeSkipped:
		color.Fprintf(p.out, "<gray>skipped</>  %s (%s)\n", documentLabel(res.Document), res.Reason)
	case importer.OutcomeIgnored:
		color.Fprintf(p.out, "<gray>ignored</>  %s (%s)\n", documentLabel(res.Document), res.Reason)
	case importer.OutcomeFailed:
		color.Fprintf(p.out, "<red>failed</>   %s: %v\n", documentLabel(res.Document), res.Err)
	}
}

// PrintSummary renders the final counts after a run.
func (p *Printer) PrintSummary(s *importer.Summary) {
	if s == nil {
		return
	}

	var sb strings.Builder

	if p.verbose {
		sb.WriteString(fmt.Sprintf("Run:       %s\n", s.RunID))
		if s.Since.IsZero() {
			sb.WriteString("Since:     (all documents)\n")
		} else {
			sb.WriteString(fmt.Sprintf("Since:     %s\n", s.Since.Format(time.RFC3339)))
		}
		sb.WriteString("\n")
	}

	sb.WriteString(fmt.Sprintf("Fetched:   %d\n", s.Fetched))
	sb.WriteString(fmt.Sprintf("Imported:  %d\n", s.Imported))
	sb.WriteString(fmt.Sprintf("Skipped:   %d\n", s.Skipped))
	sb.WriteString(fmt.Sprintf("Ignored:   %d\n", s.Ignored))
	sb.WriteString(fmt.Sprintf("Failed:    %d\n", s.Failed))
	sb.WriteString("\n")
	sb.WriteString(fmt.Sprintf("Duration:  %s", s.Duration.Round(time.Millisecond)))

	p.printBox("SYNC SUMMARY", sb.String())
}

// printBox prints a formatted box with a title and content
//
//nolint:errcheck // writing to stdout; errors are not recoverable
func (p *Printer) printBox(title string, content string) {
	border := strings.Repeat("─", boxWidth-2)
	fmt.Fprintf(p.out, "┌%s┐\n", border)
	fmt.Fprintf(p.out, "│ %-*s │\n", boxWidth-4, title)
	fmt.Fprintf(p.out, "├%s┤\n", border)

	lines := strings.Split(content, "\n")
	for _, line := range lines {
		// Truncate long lines
		if len(line) > boxWidth-4 {
			line = line[:boxWidth-7] + "..."
		}
		fmt.Fprintf(p.out, "│ %-*s │\n", boxWidth-4, line)
	}

	fmt.Fprintf(p.out, "└%s┘\n", border)
}

// documentLabel picks the most useful identifier a document still has.
// Ignored documents may have no source URL at all.
func documentLabel(d readwise.Document) string {
	if d.SourceURL != "" {
		return d.SourceURL
	}
	if d.Title != "" {
		return d.Title
	}
	return d.ID
}

// clip collapses whitespace and truncates detail values for single-line display.
func clip(s string) string {
	s = strings.Join(strings.Fields(s), " ")
	if len(s) > maxDetailLen {
		s = s[:maxDetailLen-3] + "..."
	}
	return s
}
