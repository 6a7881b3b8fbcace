package config

import (
	"fmt"
	"maps"
	"reflect"
	"slices"
	"strings"
	"sync"
)

// Schema describes the fields a configuration struct declares.
type Schema struct {
	name     string
	fields   []schemaField
	declared map[string]struct{}
	// remain is the index path of the pass-through map, nil when the struct
	// does not keep undeclared fields.
	remain      []int
	passThrough bool
}

type schemaField struct {
	key   string
	index []int
	typ   reflect.Type
}

var schemas sync.Map // reflect.Type -> *Schema

// SchemaOf returns the schema of a struct value, a pointer to one, or a
// reflect.Type of either.
func SchemaOf(v any) (*Schema, error) {
	t, ok := v.(reflect.Type)
	if !ok {
		t = reflect.TypeOf(v)
	}
	for t != nil && t.Kind() == reflect.Pointer {
		t = t.Elem()
	}
	if t == nil || t.Kind() != reflect.Struct {
		return nil, fmt.Errorf("%w: got %v", ErrInvalidTarget, t)
	}
	return schemaFor(t), nil
}

// DeclaredSchema builds a pass-through schema from a list of field names,
// for sections whose shape is only known at run time.
func DeclaredSchema(keys ...string) *Schema {
	s := &Schema{declared: make(map[string]struct{}, len(keys)), passThrough: true}
	for _, k := range keys {
		s.declared[strings.ToLower(k)] = struct{}{}
	}
	return s
}

func schemaFor(t reflect.Type) *Schema {
	if s, ok := schemas.Load(t); ok {
		return s.(*Schema)
	}
	s := &Schema{name: t.Name(), declared: make(map[string]struct{})}
	s.walk(t, nil)
	actual, _ := schemas.LoadOrStore(t, s)
	return actual.(*Schema)
}

func (s *Schema) walk(t reflect.Type, index []int) {
	for i := 0; i < t.NumField(); i++ {
		f := t.Field(i)
		if !f.IsExported() {
			continue
		}
		tag := parseTag(f)
		if tag.name == "-" {
			continue
		}
		path := append(slices.Clone(index), i)

		if tag.remain {
			if f.Type.Kind() == reflect.Map && f.Type.Key().Kind() == reflect.String {
				s.remain = path
				s.passThrough = true
			}
			continue
		}
		if f.Type.Kind() == reflect.Struct && (tag.squash || (f.Anonymous && !tag.named)) {
			s.walk(f.Type, path)
			continue
		}

		s.fields = append(s.fields, schemaField{key: tag.name, index: path, typ: f.Type})
		s.declared[tag.name] = struct{}{}
	}
}

type fieldTag struct {
	name   string
	named  bool
	remain bool
	squash bool
}

func parseTag(f reflect.StructField) fieldTag {
	name, rest, _ := strings.Cut(f.Tag.Get("mapstructure"), ",")
	tag := fieldTag{name: name, named: name != ""}
	for _, opt := range strings.Split(rest, ",") {
		switch opt {
		case "remain":
			tag.remain = true
		case "squash":
			tag.squash = true
		}
	}
	if !tag.named {
		tag.name = snakeCase(f.Name)
	}
	return tag
}

// tagName is the field name validator reports in its errors.
func tagName(f reflect.StructField) string {
	tag := parseTag(f)
	if tag.remain {
		return ""
	}
	return tag.name
}

// isScalar reports whether path addresses a declared field that holds a
// single value rather than a nested section or a map.
func (s *Schema) isScalar(path []string) bool {
	if len(path) == 0 {
		return false
	}
	for _, f := range s.fields {
		if !strings.EqualFold(f.key, path[0]) {
			continue
		}
		t := f.typ
		for t.Kind() == reflect.Pointer {
			t = t.Elem()
		}
		switch t.Kind() {
		case reflect.Struct:
			return schemaFor(t).isScalar(path[1:])
		case reflect.Map, reflect.Interface:
			return false
		}
		return len(path) == 1
	}
	return false
}

// Declared returns the declared top-level field names in sorted order.
func (s *Schema) Declared() []string {
	return slices.Sorted(maps.Keys(s.declared))
}

// PassThrough reports whether the schema keeps undeclared fields.
func (s *Schema) PassThrough() bool {
	return s.passThrough
}

// Extras returns the entries of fields whose key the schema does not declare.
// Values are copied unchanged. The result is never nil.
func (s *Schema) Extras(fields map[string]any) map[string]any {
	out := make(map[string]any)
	for k, v := range fields {
		if _, ok := s.declared[k]; !ok {
			out[k] = v
		}
	}
	return out
}

// values flattens a struct value into its field view.
func (s *Schema) values(rv reflect.Value) map[string]any {
	out := make(map[string]any, len(s.fields))
	if s.remain != nil {
		if m := rv.FieldByIndex(s.remain); !m.IsNil() {
			iter := m.MapRange()
			for iter.Next() {
				out[iter.Key().String()] = iter.Value().Interface()
			}
		}
	}
	for _, f := range s.fields {
		out[f.key] = plain(rv.FieldByIndex(f.index))
	}
	return out
}

func plain(v reflect.Value) any {
	switch v.Kind() {
	case reflect.Pointer, reflect.Interface:
		if v.IsNil() {
			return nil
		}
		return plain(v.Elem())
	case reflect.Struct:
		s := schemaFor(v.Type())
		if len(s.fields) == 0 && s.remain == nil {
			return v.Interface()
		}
		return s.values(v)
	default:
		return v.Interface()
	}
}

// Fields returns the flat view of a parsed configuration: declared fields by
// key with their typed values, nested sections as nested maps, and any
// pass-through entries. A map[string]any is returned as a copy. Anything else
// yields an empty map.
func Fields(v any) map[string]any {
	if m, ok := v.(map[string]any); ok {
		return maps.Clone(m)
	}
	rv := reflect.ValueOf(v)
	for rv.Kind() == reflect.Pointer {
		if rv.IsNil() {
			return map[string]any{}
		}
		rv = rv.Elem()
	}
	if rv.Kind() != reflect.Struct {
		return map[string]any{}
	}
	return schemaFor(rv.Type()).values(rv)
}

// Extras returns the fields of a parsed configuration struct that its type
// does not declare. Only structs with a pass-through field can have any.
func Extras(cfg any) map[string]any {
	s, err := SchemaOf(cfg)
	if err != nil {
		return map[string]any{}
	}
	return s.Extras(Fields(cfg))
}
