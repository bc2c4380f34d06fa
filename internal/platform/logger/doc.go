// Package logger provides structured logging functionality for the application.
//
// It builds on Go's standard library log/slog package. ECSHandler renders each
// record as one JSON line with fixed ECS-style metadata (timestamp, level,
// logger name, process id, call site) and merges structured payloads, error
// details and attributes at the top level. A Registry owns the console and
// rotating file sinks and hands out one logger per name, so repeated lookups
// never duplicate output.
package logger
