package config

import (
	"fmt"
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/go-viper/mapstructure/v2"
)

// truthy lists the tokens that decode to true. Every other token is false.
var truthy = map[string]struct{}{
	"true": {},
	"1":    {},
	"yes":  {},
	"on":   {},
}

// ParseBool applies the truthy token set, ignoring case and surrounding space.
func ParseBool(s string) bool {
	_, ok := truthy[strings.ToLower(strings.TrimSpace(s))]
	return ok
}

func stringToBoolHook(from, to reflect.Type, data any) (any, error) {
	if from.Kind() != reflect.String || to.Kind() != reflect.Bool {
		return data, nil
	}
	s, ok := data.(string)
	if !ok {
		return data, nil
	}
	return ParseBool(s), nil
}

// emptyToNumberHook rejects an empty value for a numeric field. Weak typing
// would otherwise decode it as zero and overwrite the field's default.
func emptyToNumberHook(from, to reflect.Type, data any) (any, error) {
	if from.Kind() != reflect.String {
		return data, nil
	}
	switch to.Kind() {
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64,
		reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64,
		reflect.Float32, reflect.Float64:
	default:
		return data, nil
	}
	if s, ok := data.(string); ok && strings.TrimSpace(s) == "" {
		return nil, fmt.Errorf("cannot parse an empty value as %s", to.Kind())
	}
	return data, nil
}

// stringToListHook splits comma-separated values for slice fields, trimming
// items and dropping empty ones. Byte slices are left alone.
func stringToListHook(from, to reflect.Type, data any) (any, error) {
	if from.Kind() != reflect.String || to.Kind() != reflect.Slice || to.Elem().Kind() == reflect.Uint8 {
		return data, nil
	}
	s, ok := data.(string)
	if !ok {
		return data, nil
	}
	items := []string{}
	for _, item := range strings.Split(s, ",") {
		if item = strings.TrimSpace(item); item != "" {
			items = append(items, item)
		}
	}
	return items, nil
}

func decode(input map[string]any, dst any) error {
	dec, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
		DecodeHook: mapstructure.ComposeDecodeHookFunc(
			mapstructure.DecodeHookFuncType(emptyToNumberHook),
			mapstructure.DecodeHookFuncType(stringToBoolHook),
			mapstructure.DecodeHookFuncType(stringToListHook),
			mapstructure.StringToTimeDurationHookFunc(),
		),
		WeaklyTypedInput: true,
		Squash:           true,
		MatchName:        matchName,
		Result:           dst,
	})
	if err != nil {
		return err
	}
	return dec.Decode(input)
}

var validate = newValidator()

// RegisterValidation adds a custom `validate` tag to the validator used by
// Load. Call it during package initialization, before any section is loaded.
func RegisterValidation(tag string, fn validator.Func) error {
	return validate.RegisterValidation(tag, fn)
}

func newValidator() *validator.Validate {
	v := validator.New()
	v.RegisterTagNameFunc(tagName)
	return v
}
