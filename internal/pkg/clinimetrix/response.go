package clinimetrix

import (
	"errors"
	"fmt"
	"math"
	"reflect"
	"strings"
)

var (
	ErrValueNotAnOption   = errors.New("value is not one of the item options")
	ErrValueNotANumber    = errors.New("value is not a number")
	ErrValueOutOfRange    = errors.New("value is outside the allowed range")
	ErrValueNotText       = errors.New("value is not text")
	ErrValueNotAnObject   = errors.New("value is not an object")
	ErrFactorUnanswered   = errors.New("factor has no answer")
	ErrDuplicateSelection = errors.New("option selected more than once")
)

// InvalidResponseError reports why a value was rejected for an item.
type InvalidResponseError struct {
	ItemID string
	Err    error
}

func (e *InvalidResponseError) Error() string {
	return fmt.Sprintf("invalid response for item %s: %v", e.ItemID, e.Err)
}

func (e *InvalidResponseError) Unwrap() error {
	return e.Err
}

// IsEmptyResponse treats nil, blank strings and empty collections as "no
// answer". Zero and false are real answers.
func IsEmptyResponse(value any) bool {
	if value == nil {
		return true
	}
	if s, ok := value.(string); ok {
		return strings.TrimSpace(s) == ""
	}

	rv := reflect.ValueOf(value)
	switch rv.Kind() {
	case reflect.Slice, reflect.Array, reflect.Map:
		return rv.Len() == 0
	case reflect.Pointer, reflect.Interface:
		return rv.IsNil()
	}
	return false
}

// ValidateResponse checks a value against the item's response type. A nil
// value is always accepted since it clears the answer.
func ValidateResponse(t *Template, item Item, value any) error {
	if value == nil {
		return nil
	}

	var err error
	switch item.ResponseType {
	case ResponseTypeLikert, ResponseTypeBinary:
		err = validateOption(t.ResolveOptions(item), value)
	case ResponseTypeMultipleChoice:
		err = validateChoices(t.ResolveOptions(item), value)
	case ResponseTypeNumeric:
		err = validateNumber(item, value)
	case ResponseTypeText:
		if _, ok := value.(string); !ok {
			err = ErrValueNotText
		}
	case ResponseTypeInteractive:
		if reflect.ValueOf(value).Kind() != reflect.Map {
			err = ErrValueNotAnObject
		}
	case ResponseTypeMultiFactor:
		err = validateFactors(t, item, value)
	default:
		err = fmt.Errorf("unknown response type %q", item.ResponseType)
	}

	if err != nil {
		return &InvalidResponseError{ItemID: item.ID, Err: err}
	}
	return nil
}

// ScoreFor returns the score of the option matching value, if any.
func ScoreFor(options []Option, value any) (float64, bool) {
	for _, option := range options {
		if ValuesEqual(option.Value, value) && option.Score != nil {
			return *option.Score, true
		}
	}
	return 0, false
}

func validateOption(options []Option, value any) error {
	for _, option := range options {
		if ValuesEqual(option.Value, value) {
			return nil
		}
	}
	return ErrValueNotAnOption
}

// validateChoices accepts a single option value or a list of distinct ones.
func validateChoices(options []Option, value any) error {
	rv := reflect.ValueOf(value)
	if rv.Kind() != reflect.Slice && rv.Kind() != reflect.Array {
		return validateOption(options, value)
	}

	seen := make([]any, 0, rv.Len())
	for i := 0; i < rv.Len(); i++ {
		choice := rv.Index(i).Interface()
		if err := validateOption(options, choice); err != nil {
			return err
		}
		for _, prev := range seen {
			if ValuesEqual(prev, choice) {
				return ErrDuplicateSelection
			}
		}
		seen = append(seen, choice)
	}
	return nil
}

func validateNumber(item Item, value any) error {
	number, ok := toFloat(value)
	if !ok || math.IsNaN(number) || math.IsInf(number, 0) {
		return ErrValueNotANumber
	}
	if item.Min != nil && number < *item.Min {
		return ErrValueOutOfRange
	}
	if item.Max != nil && number > *item.Max {
		return ErrValueOutOfRange
	}
	return nil
}

func validateFactors(t *Template, item Item, value any) error {
	rv := reflect.ValueOf(value)
	if rv.Kind() != reflect.Map || rv.Type().Key().Kind() != reflect.String {
		return ErrValueNotAnObject
	}

	for _, factor := range item.Factors {
		answer := rv.MapIndex(reflect.ValueOf(factor.ID).Convert(rv.Type().Key()))
		if !answer.IsValid() || IsEmptyResponse(answer.Interface()) {
			return fmt.Errorf("%w: %s", ErrFactorUnanswered, factor.ID)
		}
		if err := validateOption(t.ResolveFactorOptions(factor), answer.Interface()); err != nil {
			return fmt.Errorf("factor %s: %w", factor.ID, err)
		}
	}
	return nil
}

// ValuesEqual compares option values loosely: numbers compare by value no
// matter their Go type, so 1 (from a YAML template) equals 1.0 (from JSON).
func ValuesEqual(a, b any) bool {
	if af, ok := toFloat(a); ok {
		bf, ok := toFloat(b)
		return ok && af == bf
	}
	switch av := a.(type) {
	case string:
		bv, ok := b.(string)
		return ok && av == bv
	case bool:
		bv, ok := b.(bool)
		return ok && av == bv
	case nil:
		return b == nil
	}
	return reflect.DeepEqual(a, b)
}

func toFloat(value any) (float64, bool) {
	switch v := value.(type) {
	case float64:
		return v, true
	case float32:
		return float64(v), true
	case int:
		return float64(v), true
	case int8:
		return float64(v), true
	case int16:
		return float64(v), true
	case int32:
		return float64(v), true
	case int64:
		return float64(v), true
	case uint:
		return float64(v), true
	case uint8:
		return float64(v), true
	case uint16:
		return float64(v), true
	case uint32:
		return float64(v), true
	case uint64:
		return float64(v), true
	case interface{ Float64() (float64, error) }:
		f, err := v.Float64()
		return f, err == nil
	}
	return 0, false
}
