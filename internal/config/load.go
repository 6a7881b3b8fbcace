package config

import (
	"fmt"
	"reflect"

	"github.com/phrazzld/envbase/internal/redact"
)

// Defaulter is implemented by sections that fill in their own defaults.
// FromEnv calls SetDefaults before applying the environment.
type Defaulter interface {
	SetDefaults()
}

// Load populates dst, a pointer to a configuration struct, from the
// environment and validates the result.
//
// Only fields present in the environment are written, so values already held
// by dst act as defaults. A *ValidationError is returned when a value cannot
// be coerced to its field type or a `validate` constraint fails.
func Load(dst any, opts ...Option) error {
	rv := reflect.ValueOf(dst)
	if rv.Kind() != reflect.Pointer || rv.IsNil() || rv.Elem().Kind() != reflect.Struct {
		return fmt.Errorf("%w: got %T", ErrInvalidTarget, dst)
	}
	section := rv.Elem().Type().Name()
	schema := schemaFor(rv.Elem().Type())

	o := newOptions(opts)
	fields := collect(&o)
	tree := buildTree(fields, schema.isScalar, &o)

	if err := decode(tree, dst); err != nil {
		return newDecodeError(section, o.prefix, err)
	}
	if err := validate.Struct(dst); err != nil {
		return newValidationError(section, o.prefix, err)
	}

	o.logger.Debug("configuration section loaded",
		"section", section,
		"prefix", o.prefix,
		"fields", len(fields))
	return nil
}

// FromEnv allocates a T, applies its defaults when it implements Defaulter,
// and loads it with Load. It returns nil on error.
func FromEnv[T any](opts ...Option) (*T, error) {
	cfg := new(T)
	if d, ok := any(cfg).(Defaulter); ok {
		d.SetDefaults()
	}
	if err := Load(cfg, opts...); err != nil {
		return nil, err
	}
	return cfg, nil
}

// MustFromEnv is like FromEnv but panics on error. It is meant for package
// initialization where a broken configuration cannot be recovered from.
func MustFromEnv[T any](opts ...Option) *T {
	cfg, err := FromEnv[T](opts...)
	if err != nil {
		panic(err)
	}
	return cfg
}

// Printable returns a copy of a parsed configuration that is safe to display.
// v is a configuration struct (or pointer to one) or a field map. Values of
// sensitive top-level keys are masked; nested sections pass through as they
// are.
func Printable(v any) map[string]any {
	return redact.Map(Fields(v))
}
