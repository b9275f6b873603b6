package main

import (
	"os/exec"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSyncCommand_MissingReadwiseToken(t *testing.T) {
	binaryPath := getBinaryPath(t)

	cmd := exec.Command(binaryPath, "sync")
	cmd.Env = cleanEnv("PINBOARD_API_TOKEN=user:0123456789ABCDEF")
	output, err := cmd.CombinedOutput()

	assert.Error(t, err)
	assert.Contains(t, string(output), "READWISE_API_KEY")
}

func TestSyncCommand_MissingPinboardToken(t *testing.T) {
	binaryPath := getBinaryPath(t)

	cmd := exec.Command(binaryPath, "sync")
	cmd.Env = cleanEnv("READWISE_API_KEY=rw-test")
	output, err := cmd.CombinedOutput()

	assert.Error(t, err)
	assert.Contains(t, string(output), "PINBOARD_API_TOKEN")
}

func TestSyncCommand_Help(t *testing.T) {
	binaryPath := getBinaryPath(t)

	cmd := exec.Command(binaryPath, "sync", "--help")
	output, err := cmd.CombinedOutput()

	assert.NoError(t, err)
	assert.Contains(t, string(output), "--dry-run")
	assert.Contains(t, string(output), "--all")
	assert.Contains(t, string(output), "--state-file")
	assert.Contains(t, string(output), "--tag")
	assert.Contains(t, string(output), "--resolve-titles")
}

func TestSyncCommand_ExitCode(t *testing.T) {
	binaryPath := getBinaryPath(t)

	// Failure case - no credentials configured
	cmd := exec.Command(binaryPath, "sync")
	cmd.Env = cleanEnv()
	err := cmd.Run()
	if exitError, ok := err.(*exec.ExitError); ok {
		assert.NotEqual(t, 0, exitError.ExitCode())
	} else {
		assert.Error(t, err)
	}
}
