// Package logger provides structured logging for envbase tools and the
// services built on them.
//
// It wraps Go's standard library log/slog package. A Registry is an explicit,
// passed-down logging context: it owns the output handler, the default level,
// and a table of per-name level overrides. Named loggers resolve their level
// through the registry on every call, so changing an override affects loggers
// that were handed out earlier. Attributes with sensitive keys are masked
// before they reach the output.
package logger
