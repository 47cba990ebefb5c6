// Package logging builds the slog loggers used across celinker and defines
// the standardized field names for correlation.
//
// Loggers are constructed from config (level, console or JSON format,
// optional log directory) and every pipeline stage logs through attrs
// helpers so field names stay consistent. ContextFields extracts the trace
// identifier and stage stamped by internal/services so one logger call site
// produces correlated output without threading fields manually.
package logging
