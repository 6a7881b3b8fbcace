package config

import (
	"log/slog"
	"slices"
	"strings"
)

// Collect returns the raw candidate fields: every variable that starts with
// the upper-cased prefix, keyed by its derived field name.
//
// Variables are visited in ascending name order. When two variables derive
// the same field name the later one wins and a warning naming both is logged.
// Values are never logged.
func Collect(opts ...Option) map[string]string {
	o := newOptions(opts)
	candidates := collect(&o)

	fields := make(map[string]string, len(candidates))
	for field, c := range candidates {
		fields[field] = c.value
	}
	return fields
}

// candidate is a collected variable. path holds the nested section keys,
// split on the doubled separator before the name was folded.
type candidate struct {
	path  []string
	value string
}

func collect(o *options) map[string]candidate {
	prefix := strings.ToUpper(o.prefix)
	nest := o.separator + o.separator
	fields := make(map[string]candidate)
	sources := make(map[string]string)

	for _, v := range variables(o.env) {
		if !strings.HasPrefix(v.name, prefix) {
			continue
		}
		rest := v.name[len(prefix):]
		if rest == "" {
			continue
		}

		field := FieldName(rest, o.separator)
		if prev, ok := sources[field]; ok && prev != v.name {
			o.logger.Warn("environment variables map to the same field",
				"field", field,
				"ignored", prev,
				"used", v.name)
		}

		segments := strings.Split(rest, nest)
		path := make([]string, len(segments))
		for i, seg := range segments {
			path[i] = FieldName(seg, o.separator)
		}
		sources[field] = v.name
		fields[field] = candidate{path: path, value: v.value}
	}

	return fields
}

// buildTree expands nested fields into nested maps:
// {"pool__max_size": "5"} becomes {"pool": {"max_size": "5"}}.
//
// scalar reports whether a key path addresses a declared single-value field.
// Sections nested under such a field are dropped so the field keeps its
// value. A nil scalar declares nothing.
func buildTree(fields map[string]candidate, scalar func(path []string) bool, o *options) map[string]any {
	tree := make(map[string]any, len(fields))

	keys := make([]string, 0, len(fields))
	for k := range fields {
		keys = append(keys, k)
	}
	slices.Sort(keys)

	for _, key := range keys {
		c := fields[key]
		parts := c.path
		if slices.Contains(parts, "") {
			o.logger.Warn("skipping field with an empty nested key", "field", key)
			continue
		}
		if len(parts)-1 > o.maxDepth {
			o.logger.Warn("field nests deeper than the maximum depth, keeping the remainder as one key",
				"field", key,
				"max_depth", o.maxDepth)
			kept := slices.Clone(parts[:o.maxDepth])
			parts = append(kept, strings.Join(parts[o.maxDepth:], nestSeparator))
		}
		if len(parts) > 1 && scalar != nil {
			if n := scalarPrefix(parts[:len(parts)-1], scalar); n > 0 {
				o.logger.Warn("field nests under a plain value, dropping it",
					"field", key,
					"value_field", strings.Join(parts[:n], "."))
				continue
			}
		}
		insert(tree, key, parts, c.value, o.logger)
	}

	return tree
}

// scalarPrefix returns the length of the shortest prefix of sections that
// addresses a scalar field, or 0 when there is none.
func scalarPrefix(sections []string, scalar func(path []string) bool) int {
	for n := 1; n <= len(sections); n++ {
		if scalar(sections[:n]) {
			return n
		}
	}
	return 0
}

func insert(tree map[string]any, field string, parts []string, value string, logger *slog.Logger) {
	node := tree
	for _, part := range parts[:len(parts)-1] {
		switch child := node[part].(type) {
		case map[string]any:
			node = child
		case string:
			logger.Warn("field is both a value and a nested section, dropping the value",
				"field", field,
				"section", part)
			next := make(map[string]any)
			node[part] = next
			node = next
		default:
			next := make(map[string]any)
			node[part] = next
			node = next
		}
	}

	leaf := parts[len(parts)-1]
	if _, isSection := node[leaf].(map[string]any); isSection {
		logger.Warn("field is both a value and a nested section, dropping the value",
			"field", field,
			"section", leaf)
		return
	}
	node[leaf] = value
}
