// Package readwise provides a read-only client for the Readwise Reader
// document list API.
package readwise

import "fmt"

// Error represents a failure talking to the Reader API.
type Error struct {
	StatusCode int
	Message    string
	Cause      error
}

func (e *Error) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("readwise error: %s: %v", e.Message, e.Cause)
	}
	return fmt.Sprintf("readwise error: %s", e.Message)
}

func (e *Error) Unwrap() error {
	return e.Cause
}
