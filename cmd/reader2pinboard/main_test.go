package main

import (
	"os/exec"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestRootCommand_ListsSubcommands(t *testing.T) {
	binaryPath := getBinaryPath(t)

	cmd := exec.Command(binaryPath)
	cmd.Env = cleanEnv()
	output, err := cmd.CombinedOutput()

	assert.NoError(t, err)
	assert.Contains(t, string(output), "sync")
	assert.Contains(t, string(output), "status")
	assert.Contains(t, string(output), "watch")
}

func TestRootCommand_UnknownSubcommand(t *testing.T) {
	binaryPath := getBinaryPath(t)

	cmd := exec.Command(binaryPath, "frobnicate")
	cmd.Env = cleanEnv()
	output, err := cmd.CombinedOutput()

	assert.Error(t, err)
	assert.Contains(t, string(output), "unknown command")
}
