// Package importer provides the high-level orchestration for one sync run:
// fetch documents saved since the last successful run, bookmark the ones the
// destination does not have yet, and advance the stored timestamp.
package importer

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/jonathan/reader2pinboard/internal/pinboard"
	"github.com/jonathan/reader2pinboard/internal/readwise"
)

// Source lists saved documents. A zero since means the complete list; a
// non-zero since bounds the fetch to documents updated at or after it.
type Source interface {
	ListDocuments(ctx context.Context, since time.Time) ([]readwise.Document, error)
}

// Destination answers whether a URL is already bookmarked and creates new
// bookmarks.
type Destination interface {
	Exists(ctx context.Context, url string) (bool, error)
	Add(ctx context.Context, b pinboard.Bookmark) error
}

// StateStore persists the instant of the last successful run.
type StateStore interface {
	Read() (time.Time, bool, error)
	Write(t time.Time) error
}

// TitleResolver looks up a display title for a URL.
type TitleResolver interface {
	Title(ctx context.Context, url string) (string, error)
}

// Options controls a single run.
type Options struct {
	// DryRun reports intended bookmarks without writing to the destination
	// or advancing the stored timestamp.
	DryRun bool
	// FetchAll requests the complete document list. The stored timestamp is
	// neither read nor written.
	FetchAll bool
	// SourceTags are prepended to every imported bookmark's tags.
	SourceTags []string
	// ResolveTitles looks up the page title for documents that arrive
	// without one.
	ResolveTitles bool
	// OnStart, if set, is called with the effective lower bound once it is
	// known, before any documents are fetched.
	OnStart func(since time.Time)
	// OnItem, if set, is called once per processed document.
	OnItem func(ItemResult)
}

// Outcome classifies what happened to one fetched document.
type Outcome string

const (
	// OutcomeImported means a bookmark was created.
	OutcomeImported Outcome = "imported"
	// OutcomeWouldAdd means a dry run reported an intended bookmark.
	OutcomeWouldAdd Outcome = "would-add"
	// OutcomeSkipped means the destination already had the URL.
	OutcomeSkipped Outcome = "skipped"
	// OutcomeIgnored means the document is not an importable article.
	OutcomeIgnored Outcome = "ignored"
	// OutcomeFailed means a destination call failed for this document.
	OutcomeFailed Outcome = "failed"
)

// ItemResult describes the outcome for one document. Bookmark is the derived
// record; it is zero when the document was ignored or failed the existence
// check.
type ItemResult struct {
	Document readwise.Document
	Bookmark pinboard.Bookmark
	Outcome  Outcome
	Reason   string
	Err      error
}

// Summary reports one completed run. Imported includes dry-run would-adds.
type Summary struct {
	RunID     uuid.UUID
	Since     time.Time
	StartedAt time.Time
	Duration  time.Duration
	Fetched   int
	Imported  int
	Skipped   int
	Ignored   int
	Failed    int
	Items     []ItemResult
}

func (s *Summary) record(res ItemResult) {
	s.Items = append(s.Items, res)
	switch res.Outcome {
	case OutcomeImported, OutcomeWouldAdd:
		s.Imported++
	case OutcomeSkipped:
		s.Skipped++
	case OutcomeIgnored:
		s.Ignored++
	case OutcomeFailed:
		s.Failed++
	}
}

// Importer composes a source, a destination, and a state store into sync
// runs.
type Importer struct {
	source Source
	dest   Destination
	store  StateStore
	titles TitleResolver
}

// New builds an Importer over the given collaborators.
func New(source Source, dest Destination, store StateStore) *Importer {
	return &Importer{source: source, dest: dest, store: store}
}

// WithTitleResolver sets the resolver used for untitled documents. Without
// one, untitled documents are bookmarked under their URL.
func (imp *Importer) WithTitleResolver(r TitleResolver) *Importer {
	imp.titles = r
	return imp
}
