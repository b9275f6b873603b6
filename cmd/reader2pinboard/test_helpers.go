package main

import (
	"os"
	"path/filepath"
	"testing"
)

// getBinaryPath returns the path to the reader2pinboard binary for testing
func getBinaryPath(t *testing.T) string {
	binaryName := "reader2pinboard"
	if testing.Short() {
		t.Skip("Skipping CLI tests in short mode")
	}

	binaryPath := filepath.Join("..", "..", "bin", binaryName)
	if _, err := os.Stat(binaryPath); os.IsNotExist(err) {
		t.Skipf("Binary not found at %s, build it first with 'make build'", binaryPath)
	}

	// Tests set the child's working directory, so the path must survive that.
	abs, err := filepath.Abs(binaryPath)
	if err != nil {
		t.Fatalf("failed to resolve binary path: %v", err)
	}
	return abs
}

// cleanEnv returns a minimal environment so values from the developer's
// shell or .env never leak into command behavior under test.
func cleanEnv(extra ...string) []string {
	env := []string{"PATH=" + os.Getenv("PATH")}
	return append(env, extra...)
}
