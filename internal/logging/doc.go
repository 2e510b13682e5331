// Package logging builds the slog loggers used across the CLI: a compact
// console handler for interactive use and a JSON handler for machine
// consumption, with optional file fan-out under the data directory.
package logging
