// Package logging provides the SDK's slog setup: a JSON logger for embedding
// and a colorized single-line handler for the CLI.
package logging
