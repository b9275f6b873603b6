// Package config provides configuration loading and validation for the CLI.
package config

import (
	"errors"
	"fmt"
	"os"

	"github.com/go-playground/validator/v10"
)

// Environment variable names read by FromEnv.
const (
	EnvReadwiseToken = "READWISE_API_KEY"
	EnvPinboardToken = "PINBOARD_API_TOKEN"
	EnvLastRunFile   = "READER2PINB_LAST_RUN"
)

// DefaultLastRunFile is the state file path used when READER2PINB_LAST_RUN is not set.
const DefaultLastRunFile = "lastrun"

// Config holds the credentials and paths a sync run needs.
// Values come from the environment; flags may override LastRunFile.
type Config struct {
	ReadwiseToken string `validate:"required"`
	PinboardToken string `validate:"required"`
	LastRunFile   string `validate:"required"`
}

// envForField maps Config fields to the environment variables that set them.
var envForField = map[string]string{
	"ReadwiseToken": EnvReadwiseToken,
	"PinboardToken": EnvPinboardToken,
	"LastRunFile":   EnvLastRunFile,
}

// FromEnv collects configuration from the environment, applying defaults
// for optional values.
func FromEnv() *Config {
	cfg := &Config{
		ReadwiseToken: os.Getenv(EnvReadwiseToken),
		PinboardToken: os.Getenv(EnvPinboardToken),
		LastRunFile:   os.Getenv(EnvLastRunFile),
	}
	if cfg.LastRunFile == "" {
		cfg.LastRunFile = DefaultLastRunFile
	}
	return cfg
}

// Validate checks the configuration using the validator, naming the
// environment variable behind the first missing value.
func (c *Config) Validate() error {
	validate := validator.New()
	err := validate.Struct(c)
	if err == nil {
		return nil
	}

	var verrs validator.ValidationErrors
	if errors.As(err, &verrs) && len(verrs) > 0 {
		if env, ok := envForField[verrs[0].StructField()]; ok {
			return fmt.Errorf("config error: %s is not set", env)
		}
	}
	return err
}
