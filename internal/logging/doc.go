// Package logging configures the process-wide slog logger: a human-oriented
// console handler for terminals and a JSON handler for machine consumption,
// plus attribute helpers and context-derived correlation fields.
package logging
