// Package app wires configuration, logging, extraction and file output for
// the command line tool.
package app

import (
	"log/slog"
	"time"
)

// Option is a functional option for configuring the application.
type Option func(*application)

type application struct {
	config *Config
	input  string
	logger *slog.Logger
	now    func() time.Time
	hook   func(*Result, error)
}

// WithConfig sets the application configuration.
func WithConfig(cfg *Config) Option {
	return func(a *application) {
		a.config = cfg
	}
}

// WithInput sets the workbook to extract.
func WithInput(path string) Option {
	return func(a *application) {
		a.input = path
	}
}

// WithLogger sets the logger. Without one a logger is built from the
// configuration and written to stderr.
func WithLogger(logger *slog.Logger) Option {
	return func(a *application) {
		a.logger = logger
	}
}

// WithClock overrides the timestamp source.
func WithClock(now func() time.Time) Option {
	return func(a *application) {
		a.now = now
	}
}

// WithRunHook registers a callback invoked after every extraction in
// watch mode.
func WithRunHook(hook func(*Result, error)) Option {
	return func(a *application) {
		a.hook = hook
	}
}
