package config

import (
	"errors"
	"fmt"
	"regexp"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/phrazzld/envbase/internal/redact"
)

var (
	// ErrValidation is matched by every *ValidationError.
	ErrValidation = errors.New("configuration validation failed")

	// ErrInvalidTarget is returned when a destination is not a non-nil
	// pointer to a struct.
	ErrInvalidTarget = errors.New("configuration target must be a non-nil pointer to a struct")
)

// Violation is one reason a section was rejected.
type Violation struct {
	// Field is the dotted key path of the offending field, empty when the
	// failure could not be attributed to one.
	Field  string
	Reason string
}

func (v Violation) String() string {
	if v.Field == "" {
		return v.Reason
	}
	return v.Field + ": " + v.Reason
}

// ValidationError reports that candidate fields could not be coerced to the
// declared types or failed the declared constraints.
type ValidationError struct {
	Section    string
	Prefix     string
	Violations []Violation
	cause      error
}

func (e *ValidationError) Error() string {
	var b strings.Builder
	b.WriteString(ErrValidation.Error())
	if e.Section != "" {
		fmt.Fprintf(&b, " for %s", e.Section)
	}
	if e.Prefix != "" {
		fmt.Fprintf(&b, " (prefix %q)", e.Prefix)
	}
	for i, v := range e.Violations {
		if i == 0 {
			b.WriteString(": ")
		} else {
			b.WriteString("; ")
		}
		b.WriteString(v.String())
	}
	return b.String()
}

// Is makes errors.Is(err, ErrValidation) true for any ValidationError.
func (e *ValidationError) Is(target error) bool {
	return target == ErrValidation
}

// Unwrap returns the underlying decoder or validator error.
func (e *ValidationError) Unwrap() error {
	return e.cause
}

// quotedName picks the field name out of decoder messages such as
// "'port' cannot parse 'abc' as int" or "cannot parse 'port' as int".
var quotedName = regexp.MustCompile(`'([^']*)'`)

func newDecodeError(section, prefix string, err error) *ValidationError {
	ve := &ValidationError{Section: section, Prefix: prefix, cause: err}

	causes := []error{err}
	var multi interface{ WrappedErrors() []error }
	var joined interface{ Unwrap() []error }
	switch {
	case errors.As(err, &multi):
		causes = multi.WrappedErrors()
	case errors.As(err, &joined):
		causes = joined.Unwrap()
	}
	for _, c := range causes {
		msg := c.Error()
		v := Violation{Reason: redact.String(msg)}
		if m := quotedName.FindStringSubmatch(msg); m != nil {
			v.Field = m[1]
		}
		ve.Violations = append(ve.Violations, v)
	}
	return ve
}

func newValidationError(section, prefix string, err error) *ValidationError {
	ve := &ValidationError{Section: section, Prefix: prefix, cause: err}

	var fieldErrs validator.ValidationErrors
	if !errors.As(err, &fieldErrs) {
		ve.Violations = []Violation{{Reason: redact.Error(err)}}
		return ve
	}
	for _, fe := range fieldErrs {
		ve.Violations = append(ve.Violations, Violation{
			Field:  fieldPath(fe.Namespace()),
			Reason: describe(fe),
		})
	}
	return ve
}

// fieldPath drops the struct type from a validator namespace:
// "RedisConfig.pool.max_size" becomes "pool.max_size".
func fieldPath(namespace string) string {
	_, path, found := strings.Cut(namespace, ".")
	if !found {
		return namespace
	}
	return path
}

func describe(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required":
		return "is required"
	case "oneof":
		return "must be one of: " + fe.Param()
	case "min", "gte":
		return "must be at least " + fe.Param()
	case "max", "lte":
		return "must be at most " + fe.Param()
	case "gt":
		return "must be greater than " + fe.Param()
	case "lt":
		return "must be less than " + fe.Param()
	}
	if fe.Param() != "" {
		return fmt.Sprintf("failed the %q check (%s)", fe.Tag(), fe.Param())
	}
	return fmt.Sprintf("failed the %q check", fe.Tag())
}
