// Package pinboard provides a minimal client for the Pinboard v1 posts API.
package pinboard

import (
	"errors"
	"fmt"
	"net/http"
)

// Error represents a failure talking to the Pinboard API. Op records which
// call failed ("query" for existence checks, "add" for bookmark creation).
type Error struct {
	Op         string
	StatusCode int
	Message    string
	Cause      error
}

func (e *Error) Error() string {
	prefix := "pinboard error"
	if e.Op != "" {
		prefix = fmt.Sprintf("pinboard %s error", e.Op)
	}
	if e.Cause != nil {
		return fmt.Sprintf("%s: %s: %v", prefix, e.Message, e.Cause)
	}
	return fmt.Sprintf("%s: %s", prefix, e.Message)
}

func (e *Error) Unwrap() error {
	return e.Cause
}

// IsAuth reports whether err is a Pinboard authentication failure.
func IsAuth(err error) bool {
	var apiErr *Error
	if !errors.As(err, &apiErr) {
		return false
	}
	return apiErr.StatusCode == http.StatusUnauthorized || apiErr.StatusCode == http.StatusForbidden
}
