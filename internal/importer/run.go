package importer

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/jonathan/reader2pinboard/internal/pinboard"
	"github.com/jonathan/reader2pinboard/internal/readwise"
)

// Run executes one sync pass. Per-item destination failures are recorded in
// the summary and do not abort the run; configuration, state, fetch, and
// destination authentication failures do. On a fatal error the stored
// timestamp is left untouched, and the partial summary is returned alongside
// the error when any documents were already processed.
func (imp *Importer) Run(ctx context.Context, opts Options) (*Summary, error) {
	summary := &Summary{RunID: uuid.New()}

	// Fetch-all never consults stored state, so a broken timestamp file
	// cannot block it.
	var since time.Time
	if !opts.FetchAll {
		stored, ok, err := imp.store.Read()
		if err != nil {
			return nil, err
		}
		if ok {
			since = stored
		}
	}
	summary.Since = since
	if opts.OnStart != nil {
		opts.OnStart(since)
	}

	// The instant persisted at the end is when the fetch began, not the
	// newest document timestamp: documents written on the source while the
	// fetch runs fall into the next window instead of being lost.
	startedAt := time.Now().UTC()
	summary.StartedAt = startedAt

	docs, err := imp.source.ListDocuments(ctx, since)
	if err != nil {
		return nil, err
	}
	summary.Fetched = len(docs)

	for _, doc := range docs {
		res := imp.processDocument(ctx, doc, opts, startedAt)
		summary.record(res)
		if opts.OnItem != nil {
			opts.OnItem(res)
		}
		if res.Err != nil && pinboard.IsAuth(res.Err) {
			summary.Duration = time.Since(startedAt)
			return summary, res.Err
		}
	}

	if !opts.DryRun && !opts.FetchAll {
		if err := imp.store.Write(startedAt); err != nil {
			summary.Duration = time.Since(startedAt)
			return summary, err
		}
	}

	summary.Duration = time.Since(startedAt)
	return summary, nil
}

func (imp *Importer) processDocument(ctx context.Context, doc readwise.Document, opts Options, fetchedAt time.Time) ItemResult {
	res := ItemResult{Document: doc}

	if reason, ignore := ignoreReason(doc); ignore {
		res.Outcome = OutcomeIgnored
		res.Reason = reason
		return res
	}

	exists, err := imp.dest.Exists(ctx, doc.SourceURL)
	if err != nil {
		res.Outcome = OutcomeFailed
		res.Err = err
		return res
	}
	if exists {
		res.Outcome = OutcomeSkipped
		res.Reason = "already bookmarked"
		return res
	}

	res.Bookmark = imp.deriveBookmark(ctx, doc, opts, fetchedAt)

	if opts.DryRun {
		res.Outcome = OutcomeWouldAdd
		return res
	}

	if err := imp.dest.Add(ctx, res.Bookmark); err != nil {
		res.Outcome = OutcomeFailed
		res.Err = err
		return res
	}
	res.Outcome = OutcomeImported
	return res
}

// ignoreReason filters out source records that are not importable articles:
// highlights, feed entries, and documents without a source URL.
func ignoreReason(doc readwise.Document) (string, bool) {
	switch {
	case doc.Category == "highlight":
		return "highlight", true
	case doc.Location == "feed":
		return "feed entry", true
	case doc.SourceURL == "":
		return "no source URL", true
	}
	return "", false
}

// deriveBookmark maps a document to the bookmark to create. The title falls
// back to a resolved page title and then to the URL itself; a missing saved
// time falls back to the fetch instant.
func (imp *Importer) deriveBookmark(ctx context.Context, doc readwise.Document, opts Options, fetchedAt time.Time) pinboard.Bookmark {
	title := doc.Title
	if title == "" && opts.ResolveTitles && imp.titles != nil {
		if resolved, err := imp.titles.Title(ctx, doc.SourceURL); err == nil && resolved != "" {
			title = resolved
		}
	}
	if title == "" {
		title = doc.SourceURL
	}

	createdAt := doc.CreatedAt
	if createdAt.IsZero() {
		createdAt = fetchedAt
	}

	tags := make([]string, 0, len(opts.SourceTags)+len(doc.Tags))
	tags = append(tags, opts.SourceTags...)
	tags = append(tags, doc.Tags...)

	return pinboard.Bookmark{
		URL:       doc.SourceURL,
		Title:     title,
		Extended:  fmt.Sprintf("%s\nby %s, %s", doc.Summary, doc.Author, doc.SiteName),
		Tags:      tags,
		CreatedAt: createdAt,
	}
}
