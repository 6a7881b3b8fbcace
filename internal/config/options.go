package config

import "log/slog"

const (
	// DefaultSeparator joins the words of a multi-word field name.
	DefaultSeparator = "_"

	// DefaultMaxDepth is how many levels of nested sections are expanded.
	DefaultMaxDepth = 3
)

type options struct {
	prefix    string
	separator string
	maxDepth  int
	env       Environ
	logger    *slog.Logger
}

// Option configures how variables are collected and loaded.
type Option func(*options)

// WithPrefix restricts loading to variables whose name starts with the
// upper-cased prefix. The prefix is stripped before the field name is derived.
func WithPrefix(prefix string) Option {
	return func(o *options) {
		o.prefix = prefix
	}
}

// WithSeparator sets the word separator used in variable names. Any separator
// other than "_" is folded to "_" in field names. Doubling it marks nesting.
// An empty separator selects DefaultSeparator.
func WithSeparator(separator string) Option {
	return func(o *options) {
		o.separator = separator
	}
}

// WithMaxDepth limits how many nested sections a variable name may descend
// into. Zero disables nesting. Negative values select DefaultMaxDepth.
func WithMaxDepth(depth int) Option {
	return func(o *options) {
		o.maxDepth = depth
	}
}

// WithEnviron replaces the process environment as the variable source.
func WithEnviron(env Environ) Option {
	return func(o *options) {
		o.env = env
	}
}

// WithLogger sets the logger that receives collision and nesting warnings.
// The default is slog.Default().
func WithLogger(logger *slog.Logger) Option {
	return func(o *options) {
		o.logger = logger
	}
}

func newOptions(opts []Option) options {
	o := options{
		separator: DefaultSeparator,
		maxDepth:  DefaultMaxDepth,
	}
	for _, opt := range opts {
		opt(&o)
	}

	if o.separator == "" {
		o.separator = DefaultSeparator
	}
	if o.maxDepth < 0 {
		o.maxDepth = DefaultMaxDepth
	}
	if o.env == nil {
		o.env = OSEnviron{}
	}
	if o.logger == nil {
		o.logger = slog.Default()
	}
	return o
}
