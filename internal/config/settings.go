package config

import (
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"strings"
	"sync"

	"github.com/spf13/viper"
)

// DefaultEnvFile is read by DefaultSettings.
const DefaultEnvFile = ".env"

// Settings loads configuration sections from an env file layered under the
// process environment. Process variables win over file entries.
type Settings struct {
	// EnvFile is a dotenv file to read. Empty disables it and a missing file
	// is ignored.
	EnvFile string
	// Environ replaces the process environment, mainly for tests.
	Environ Environ
	// Logger receives loader warnings. Nil means slog.Default().
	Logger *slog.Logger
}

// DefaultSettings returns settings that read DefaultEnvFile from the working
// directory.
func DefaultSettings() *Settings {
	return &Settings{EnvFile: DefaultEnvFile}
}

// Source returns the merged variable source.
func (s *Settings) Source() (Environ, error) {
	var base Environ = OSEnviron{}
	if s.Environ != nil {
		base = s.Environ
	}
	if s.EnvFile == "" {
		return base, nil
	}

	file, err := ReadEnvFile(s.EnvFile)
	if errors.Is(err, fs.ErrNotExist) {
		return base, nil
	}
	if err != nil {
		return nil, err
	}
	return Layered{file, base}, nil
}

// Load populates dst from the variables under prefix. opts are applied after
// the settings' own, so they may override the source or logger.
func (s *Settings) Load(dst any, prefix string, opts ...Option) error {
	src, err := s.Source()
	if err != nil {
		return fmt.Errorf("failed to prepare configuration source: %w", err)
	}

	base := []Option{WithEnviron(src), WithPrefix(prefix)}
	if s.Logger != nil {
		base = append(base, WithLogger(s.Logger))
	}
	return Load(dst, append(base, opts...)...)
}

// ReadEnvFile parses a dotenv file. Names are upper-cased, because viper
// folds them to lower case while reading.
func ReadEnvFile(path string) (MapEnviron, error) {
	if _, err := os.Stat(path); err != nil {
		return nil, err
	}

	v := viper.New()
	v.SetConfigFile(path)
	v.SetConfigType("env")
	if err := v.ReadInConfig(); err != nil {
		return nil, fmt.Errorf("failed to read env file %s: %w", path, err)
	}

	out := make(MapEnviron)
	for _, key := range v.AllKeys() {
		out[strings.ToUpper(key)] = v.GetString(key)
	}
	return out, nil
}

// Section loads a configuration section on first use and caches the result,
// including a failure, for every later call.
type Section[T any] struct {
	get func() (*T, error)
}

// NewSection returns a Section that loads T under prefix with s. When T
// implements Defaulter its defaults are applied first.
func NewSection[T any](s *Settings, prefix string, opts ...Option) *Section[T] {
	return &Section[T]{
		get: sync.OnceValues(func() (*T, error) {
			cfg := new(T)
			if d, ok := any(cfg).(Defaulter); ok {
				d.SetDefaults()
			}
			if err := s.Load(cfg, prefix, opts...); err != nil {
				return nil, err
			}
			return cfg, nil
		}),
	}
}

// Get returns the loaded section. It is safe for concurrent use.
func (s *Section[T]) Get() (*T, error) {
	return s.get()
}
