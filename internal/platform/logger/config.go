package logger

import (
	"fmt"
	"log/slog"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/phrazzld/envbase/internal/config"
)

// EnvPrefix namespaces the logging variables: LOG_LEVEL, LOG_FORMAT,
// LOG_ADD_SOURCE and LOG_LEVELS.
const EnvPrefix = "LOG_"

// Output formats.
const (
	FormatJSON = "json"
	FormatText = "text"
)

// Config holds the logging settings.
type Config struct {
	Level     string `mapstructure:"level" validate:"omitempty,loglevel"`
	Format    string `mapstructure:"format" validate:"omitempty,logformat"`
	AddSource bool   `mapstructure:"add_source"`
	// Levels holds per-name overrides as "name=level" items, for example
	// LOG_LEVELS=db=debug,http=warn.
	Levels []string `mapstructure:"levels"`
}

func init() {
	// Both checks ignore case, the same way New reads the values.
	if err := config.RegisterValidation("loglevel", func(fl validator.FieldLevel) bool {
		_, ok := ParseLevel(fl.Field().String())
		return ok
	}); err != nil {
		panic(err)
	}
	if err := config.RegisterValidation("logformat", func(fl validator.FieldLevel) bool {
		switch strings.ToLower(fl.Field().String()) {
		case FormatJSON, FormatText:
			return true
		}
		return false
	}); err != nil {
		panic(err)
	}
}

// SetDefaults implements config.Defaulter.
func (c *Config) SetDefaults() {
	c.Level = "info"
	c.Format = FormatJSON
}

// LoadConfig reads the logging settings from LOG_* variables.
func LoadConfig(opts ...config.Option) (*Config, error) {
	cfg, err := config.FromEnv[Config](append([]config.Option{config.WithPrefix(EnvPrefix)}, opts...)...)
	if err != nil {
		return nil, fmt.Errorf("failed to load logging configuration: %w", err)
	}
	return cfg, nil
}

func parseOverrides(items []string) (map[string]slog.Level, error) {
	overrides := make(map[string]slog.Level, len(items))
	for _, item := range items {
		name, raw, ok := strings.Cut(item, "=")
		name = strings.TrimSpace(name)
		if !ok || name == "" {
			return nil, fmt.Errorf("invalid level override %q: want name=level", item)
		}
		level, ok := ParseLevel(raw)
		if !ok {
			return nil, fmt.Errorf("invalid level override %q: unknown level %q", item, raw)
		}
		overrides[name] = level
	}
	return overrides, nil
}
