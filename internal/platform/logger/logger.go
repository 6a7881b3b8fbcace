package logger

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"math"
	"os"
	"strings"
	"sync"

	"github.com/phrazzld/envbase/internal/redact"
)

// NameKey is the attribute that carries a named logger's name.
const NameKey = "logger"

// handlerFloor lets every record through the output handler. Filtering is
// done per logger by levelHandler.
const handlerFloor = slog.Level(math.MinInt32)

// ParseLevel parses debug, info, warn (or warning) and error, ignoring case.
func ParseLevel(s string) (slog.Level, bool) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "debug":
		return slog.LevelDebug, true
	case "info":
		return slog.LevelInfo, true
	case "warn", "warning":
		return slog.LevelWarn, true
	case "error":
		return slog.LevelError, true
	}
	return slog.LevelInfo, false
}

// Registry owns the output handler, the default level and the per-name level
// overrides. Its methods are safe for concurrent use.
type Registry struct {
	handler slog.Handler
	level   slog.LevelVar

	mu        sync.RWMutex
	overrides map[string]slog.Level
}

// New builds a Registry writing to out. An unknown level falls back to info
// and is reported through the new registry; an unknown format or a malformed
// override is an error.
func New(cfg Config, out io.Writer) (*Registry, error) {
	overrides, err := parseOverrides(cfg.Levels)
	if err != nil {
		return nil, err
	}

	opts := &slog.HandlerOptions{
		Level:       handlerFloor,
		AddSource:   cfg.AddSource,
		ReplaceAttr: redactAttr,
	}

	var handler slog.Handler
	switch strings.ToLower(cfg.Format) {
	case "", FormatJSON:
		handler = slog.NewJSONHandler(out, opts)
	case FormatText:
		handler = slog.NewTextHandler(out, opts)
	default:
		return nil, fmt.Errorf("unknown log format %q", cfg.Format)
	}

	r := &Registry{handler: handler, overrides: overrides}

	level, ok := ParseLevel(cfg.Level)
	r.level.Set(level)
	if !ok && cfg.Level != "" {
		r.Default().Warn("invalid log level configured, using default level",
			"configured_level", cfg.Level,
			"default_level", "info")
	}
	return r, nil
}

// Setup builds a Registry writing JSON or text to stdout and installs its
// default logger as slog's default, so the package-level slog functions use
// it too.
func Setup(cfg Config) (*Registry, error) {
	r, err := New(cfg, os.Stdout)
	if err != nil {
		return nil, fmt.Errorf("failed to set up logger: %w", err)
	}
	slog.SetDefault(r.Default())
	return r, nil
}

// Default returns the unnamed logger, which follows the default level.
func (r *Registry) Default() *slog.Logger {
	return r.Logger("")
}

// Logger returns a logger tagged with name. Its level is the override for
// name, or for the closest dotted parent ("db" for "db.pool"), or the
// default level.
func (r *Registry) Logger(name string) *slog.Logger {
	h := r.handler
	if name != "" {
		h = h.WithAttrs([]slog.Attr{slog.String(NameKey, name)})
	}
	return slog.New(&levelHandler{inner: h, level: namedLevel{r: r, name: name}})
}

// Level returns the effective level for name.
func (r *Registry) Level(name string) slog.Level {
	r.mu.RLock()
	defer r.mu.RUnlock()

	for n := name; n != ""; {
		if l, ok := r.overrides[n]; ok {
			return l
		}
		i := strings.LastIndexByte(n, '.')
		if i < 0 {
			break
		}
		n = n[:i]
	}
	return r.level.Level()
}

// SetLevel overrides the level for name and its dotted children. An empty
// name sets the default level.
func (r *Registry) SetLevel(name string, level slog.Level) {
	if name == "" {
		r.level.Set(level)
		return
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	r.overrides[name] = level
}

// ClearLevel removes the override for name.
func (r *Registry) ClearLevel(name string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.overrides, name)
}

type namedLevel struct {
	r    *Registry
	name string
}

func (l namedLevel) Level() slog.Level {
	return l.r.Level(l.name)
}

// levelHandler filters records below a dynamically resolved level.
type levelHandler struct {
	inner slog.Handler
	level slog.Leveler
}

func (h *levelHandler) Enabled(ctx context.Context, level slog.Level) bool {
	return level >= h.level.Level() && h.inner.Enabled(ctx, level)
}

func (h *levelHandler) Handle(ctx context.Context, record slog.Record) error {
	return h.inner.Handle(ctx, record)
}

func (h *levelHandler) WithAttrs(attrs []slog.Attr) slog.Handler {
	return &levelHandler{inner: h.inner.WithAttrs(attrs), level: h.level}
}

func (h *levelHandler) WithGroup(name string) slog.Handler {
	return &levelHandler{inner: h.inner.WithGroup(name), level: h.level}
}

// redactAttr masks attributes with sensitive keys and scrubs error text.
func redactAttr(_ []string, a slog.Attr) slog.Attr {
	if redact.IsSensitiveKey(a.Key) {
		return slog.String(a.Key, redact.Value(a.Value.Resolve().Any()))
	}
	if a.Value.Kind() == slog.KindAny {
		if err, ok := a.Value.Any().(error); ok {
			return slog.String(a.Key, redact.Error(err))
		}
	}
	return a
}
