// Package logging constructs the application's slog loggers and provides the
// standardized attribute helpers and context plumbing used across stages.
package logging
