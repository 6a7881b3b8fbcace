// Package redact masks sensitive configuration values before they are printed
// or logged. It offers two tools: key-based masking for structured data (a
// field named "*password" or "*key" is masked regardless of its content) and
// pattern-based redaction for free text such as error messages, which may
// embed a credential the caller never labelled.
package redact

import (
	"reflect"
	"regexp"
	"strings"
)

// Placeholders produced by Value.
const (
	NotSetPlaceholder = "<not set>"
	MaskPlaceholder   = "****"
	MaskSeparator     = "..."
)

// Placeholders produced by String.
const (
	RedactedCredentialPlaceholder = "[REDACTED_CREDENTIAL]"
	RedactedKeyPlaceholder        = "[REDACTED_KEY]"
	RedactedJWTPlaceholder        = "[REDACTED_JWT]"
)

// maskPreserve is the number of runes kept at each end of a partially masked value.
const maskPreserve = 2

// sensitiveSuffixes are matched against the lower-cased key.
var sensitiveSuffixes = []string{"password", "pw", "key", "secret", "credentials"}

// IsSensitiveKey reports whether key names a sensitive field. Matching is by
// suffix and ignores case, so "API_KEY", "db_password" and "aws_credentials"
// are all sensitive.
func IsSensitiveKey(key string) bool {
	lower := strings.ToLower(key)
	for _, suffix := range sensitiveSuffixes {
		if strings.HasSuffix(lower, suffix) {
			return true
		}
	}
	return false
}

// Value returns the display-safe form of a sensitive value.
//
// nil and "" become NotSetPlaceholder; anything that is not a string, and
// strings of four runes or fewer, become MaskPlaceholder; longer strings keep
// their first and last two runes around MaskSeparator ("se...23").
func Value(v any) string {
	if isUnset(v) {
		return NotSetPlaceholder
	}
	s, ok := v.(string)
	if !ok {
		return MaskPlaceholder
	}
	runes := []rune(s)
	if len(runes) <= 2*maskPreserve {
		return MaskPlaceholder
	}
	return string(runes[:maskPreserve]) + MaskSeparator + string(runes[len(runes)-maskPreserve:])
}

func isUnset(v any) bool {
	if v == nil {
		return true
	}
	if s, ok := v.(string); ok {
		return s == ""
	}
	rv := reflect.ValueOf(v)
	switch rv.Kind() {
	case reflect.Pointer, reflect.Interface, reflect.Map, reflect.Slice:
		return rv.IsNil()
	}
	return false
}

// Map returns a copy of m with the values of sensitive keys replaced by
// Value. Only top-level keys are inspected; nested maps are copied by
// reference. m is never modified.
func Map(m map[string]any) map[string]any {
	out := make(map[string]any, len(m))
	for k, v := range m {
		if IsSensitiveKey(k) {
			out[k] = Value(v)
			continue
		}
		out[k] = v
	}
	return out
}

// Precompiled free-text patterns.
var (
	// scheme://user:pass@ prefixes in connection strings
	connCredRegex = regexp.MustCompile(`(?i)\b[a-z][a-z0-9+.-]*://[^/\s:@]+:[^@\s]+@`)

	// password=..., pwd: ...
	passwordRegex = regexp.MustCompile(`(?i)(password|passwd|pwd)([=:\s]?['"]?)[^'"&\s]{3,}`)

	// api_key=..., secret: ..., token ...
	apiKeyRegex = regexp.MustCompile(
		`(?i)(api[_-]?key|token|secret|key|access|auth)(['"\s:=]+)[A-Za-z0-9_\-.~+/]{8,}`,
	)

	// three-part base64url JWT
	jwtTokenRegex = regexp.MustCompile(`eyJ[a-zA-Z0-9_-]+\.eyJ[a-zA-Z0-9_-]+\.[a-zA-Z0-9_-]+`)

	// Order matters: JWTs are caught before the generic key pattern eats them.
	patterns = []struct {
		re          *regexp.Regexp
		placeholder string
	}{
		{connCredRegex, RedactedCredentialPlaceholder},
		{jwtTokenRegex, RedactedJWTPlaceholder},
		{passwordRegex, RedactedCredentialPlaceholder},
		{apiKeyRegex, RedactedKeyPlaceholder},
	}
)

// String redacts credentials, keys and tokens embedded in free text.
func String(input string) string {
	if input == "" {
		return input
	}

	result := input
	for _, p := range patterns {
		result = p.re.ReplaceAllString(result, p.placeholder)
	}
	return result
}

// Error redacts sensitive information from an error's Error() output.
func Error(err error) string {
	if err == nil {
		return ""
	}

	return String(err.Error())
}
