// Package lastrun persists the instant of the last successful sync run.
// The store holds exactly one RFC 3339 timestamp in a single file; a missing
// file means no prior run has completed.
package lastrun

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strings"
	"time"
)

// Error represents a failure reading or writing the timestamp file.
type Error struct {
	Path    string
	Message string
	Cause   error
}

func (e *Error) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("lastrun error for %s: %s: %v", e.Path, e.Message, e.Cause)
	}
	return fmt.Sprintf("lastrun error for %s: %s", e.Path, e.Message)
}

func (e *Error) Unwrap() error {
	return e.Cause
}

// Store reads and writes the last-run instant at a fixed file path.
type Store struct {
	path string
}

// NewStore creates a store backed by the file at path.
func NewStore(path string) *Store {
	return &Store{path: path}
}

// Path returns the file path backing the store.
func (s *Store) Path() string {
	return s.path
}

// Read returns the stored instant and whether one exists. A missing file is
// not an error; unreadable or unparsable content is.
func (s *Store) Read() (time.Time, bool, error) {
	data, err := os.ReadFile(s.path)
	if errors.Is(err, fs.ErrNotExist) {
		return time.Time{}, false, nil
	}
	if err != nil {
		return time.Time{}, false, &Error{Path: s.path, Message: "failed to read timestamp file", Cause: err}
	}

	raw := strings.TrimSpace(string(data))
	if raw == "" {
		return time.Time{}, false, &Error{Path: s.path, Message: "timestamp file is empty"}
	}

	t, err := time.Parse(time.RFC3339, raw)
	if err != nil {
		return time.Time{}, false, &Error{Path: s.path, Message: "failed to parse stored timestamp", Cause: err}
	}
	return t, true, nil
}

// Write persists the instant, replacing any prior value. The value is written
// to a temporary file and renamed into place, so a crash mid-write leaves the
// previous timestamp intact.
func (s *Store) Write(t time.Time) error {
	tmp := s.path + ".tmp"
	value := t.UTC().Format(time.RFC3339)

	if err := os.WriteFile(tmp, []byte(value), 0o644); err != nil {
		return &Error{Path: s.path, Message: "failed to write timestamp file", Cause: err}
	}
	if err := os.Rename(tmp, s.path); err != nil {
		_ = os.Remove(tmp)
		return &Error{Path: s.path, Message: "failed to replace timestamp file", Cause: err}
	}
	return nil
}
