package config

import (
	"strings"
	"unicode"
)

// nestSeparator joins nested section keys that are kept as one key, such as
// the segments past the maximum depth.
const nestSeparator = "__"

// FieldName derives a field name from a variable name with its prefix
// already removed. With the default separator the name is only lower-cased;
// with any other separator each occurrence is first replaced by "_".
func FieldName(name, separator string) string {
	if separator == "" || separator == DefaultSeparator {
		return strings.ToLower(name)
	}
	return strings.ToLower(strings.ReplaceAll(name, separator, DefaultSeparator))
}

// snakeCase converts a Go identifier to its field-name form: MaxConnections
// becomes max_connections and APIKey becomes api_key.
func snakeCase(name string) string {
	runes := []rune(name)
	var b strings.Builder
	b.Grow(len(name) + 4)

	for i, r := range runes {
		if unicode.IsUpper(r) && i > 0 {
			prev := runes[i-1]
			nextLower := i+1 < len(runes) && unicode.IsLower(runes[i+1])
			if unicode.IsLower(prev) || unicode.IsDigit(prev) || (unicode.IsUpper(prev) && nextLower) {
				b.WriteByte('_')
			}
		}
		b.WriteRune(unicode.ToLower(r))
	}
	return b.String()
}

// matchName reports whether a candidate key addresses a struct field. The
// field name is either its tag name or its Go name.
func matchName(key, fieldName string) bool {
	return strings.EqualFold(key, fieldName) || strings.EqualFold(key, snakeCase(fieldName))
}
