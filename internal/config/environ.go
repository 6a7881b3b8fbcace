package config

import (
	"os"
	"slices"
	"strings"
)

// Environ is a source of environment variables in os.Environ form
// ("NAME=value").
type Environ interface {
	Environ() []string
}

// OSEnviron reads the process environment on every call.
type OSEnviron struct{}

// Environ implements the Environ interface.
func (OSEnviron) Environ() []string {
	return os.Environ()
}

// MapEnviron is a fixed set of variables, used for env files and tests.
type MapEnviron map[string]string

// Environ implements the Environ interface. Entries are sorted by name.
func (m MapEnviron) Environ() []string {
	out := make([]string, 0, len(m))
	for name, value := range m {
		out = append(out, name+"="+value)
	}
	slices.Sort(out)
	return out
}

// Layered merges several sources. A variable defined by a later source
// replaces the same variable from an earlier one.
type Layered []Environ

// Environ implements the Environ interface.
func (l Layered) Environ() []string {
	merged := make(MapEnviron)
	for _, src := range l {
		if src == nil {
			continue
		}
		for _, v := range variables(src) {
			merged[v.name] = v.value
		}
	}
	return merged.Environ()
}

type variable struct {
	name  string
	value string
}

// variables parses src into name/value pairs in ascending name order.
// Entries without a name (such as the "=C:" drive entries on Windows) are
// skipped. Duplicate names keep their relative order.
func variables(src Environ) []variable {
	raw := src.Environ()
	out := make([]variable, 0, len(raw))
	for _, kv := range raw {
		name, value, _ := strings.Cut(kv, "=")
		if name == "" {
			continue
		}
		out = append(out, variable{name: name, value: value})
	}
	slices.SortStableFunc(out, func(a, b variable) int {
		return strings.Compare(a.name, b.name)
	})
	return out
}
