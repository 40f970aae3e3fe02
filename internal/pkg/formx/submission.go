package formx

import (
	"fmt"
	"reflect"
	"regexp"
	"sort"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/go-playground/validator/v10"
)

const DateLayout = "2006-01-02"

var (
	phoneRegexp    = regexp.MustCompile(`^\+?[0-9][0-9 \-]{6,18}[0-9]$`)
	valueValidator = validator.New()
)

// Client-facing reasons attached to each rejected field.
const (
	ReasonRequired     = "es obligatorio"
	ReasonUnknownField = "no pertenece al formulario"
	ReasonNotText      = "debe ser texto"
	ReasonNotNumber    = "debe ser un número"
	ReasonNotEmail     = "debe ser un correo electrónico válido"
	ReasonNotPhone     = "debe ser un teléfono válido"
	ReasonNotDate      = "debe tener el formato AAAA-MM-DD"
	ReasonNotOption    = "contiene una opción no válida"
	ReasonNotList      = "debe ser una lista de opciones"
	ReasonTooShort     = "debe tener al menos %d caracteres"
	ReasonTooLong      = "debe tener como máximo %d caracteres"
	ReasonBelowMin     = "debe ser mayor o igual a %v"
	ReasonAboveMax     = "debe ser menor o igual a %v"
	ReasonNoPattern    = "no tiene el formato esperado"
	ReasonNotFileKey   = "debe ser la referencia de un archivo cargado"
)

type FieldError struct {
	FieldID string `json:"field_id"`
	Reason  string `json:"reason"`
}

type SubmissionError struct {
	Fields []FieldError
}

func (e *SubmissionError) Error() string {
	parts := make([]string, 0, len(e.Fields))
	for _, field := range e.Fields {
		parts = append(parts, field.FieldID+": "+field.Reason)
	}
	return "invalid form submission: " + strings.Join(parts, "; ")
}

// ValidateSubmission checks submitted values against the field definitions.
// Errors are reported in field order, unknown keys last.
func ValidateSubmission(fields []FieldDefinition, values map[string]any) error {
	var fieldErrors []FieldError
	known := make(map[string]bool, len(fields))

	for _, field := range fields {
		known[field.ID] = true
		value, present := values[field.ID]
		if !present || isBlank(value) {
			if field.Required {
				fieldErrors = append(fieldErrors, FieldError{FieldID: field.ID, Reason: ReasonRequired})
			}
			continue
		}
		if reason := validateValue(field, value); reason != "" {
			fieldErrors = append(fieldErrors, FieldError{FieldID: field.ID, Reason: reason})
		}
	}

	var unknown []string
	for key := range values {
		if !known[key] {
			unknown = append(unknown, key)
		}
	}
	sort.Strings(unknown)
	for _, key := range unknown {
		fieldErrors = append(fieldErrors, FieldError{FieldID: key, Reason: ReasonUnknownField})
	}

	if len(fieldErrors) > 0 {
		return &SubmissionError{Fields: fieldErrors}
	}
	return nil
}

func validateValue(field FieldDefinition, value any) string {
	rules := field.Validation

	switch field.Type {
	case FieldTypeNumber:
		number, ok := toFloat(value)
		if !ok {
			return ReasonNotNumber
		}
		if rules.Min != nil && number < *rules.Min {
			return fmt.Sprintf(ReasonBelowMin, *rules.Min)
		}
		if rules.Max != nil && number > *rules.Max {
			return fmt.Sprintf(ReasonAboveMax, *rules.Max)
		}
		return ""

	case FieldTypeSelect, FieldTypeRadio:
		text, ok := value.(string)
		if !ok || !hasOption(field.Options, text) {
			return ReasonNotOption
		}
		return ""

	case FieldTypeCheckbox, FieldTypeMultiselect:
		choices, ok := toStrings(value)
		if !ok {
			return ReasonNotList
		}
		for _, choice := range choices {
			if !hasOption(field.Options, choice) {
				return ReasonNotOption
			}
		}
		return ""

	case FieldTypeDate:
		text, ok := value.(string)
		if !ok {
			return ReasonNotDate
		}
		if _, err := time.Parse(DateLayout, text); err != nil {
			return ReasonNotDate
		}
		return ""

	case FieldTypeFile:
		text, ok := value.(string)
		if !ok || strings.TrimSpace(text) == "" {
			return ReasonNotFileKey
		}
		return ""
	}

	text, ok := value.(string)
	if !ok {
		return ReasonNotText
	}

	switch field.Type {
	case FieldTypeEmail:
		if valueValidator.Var(text, "email") != nil {
			return ReasonNotEmail
		}
	case FieldTypePhone:
		if !phoneRegexp.MatchString(text) {
			return ReasonNotPhone
		}
	}

	length := utf8.RuneCountInString(text)
	if rules.MinLength != nil && length < *rules.MinLength {
		return fmt.Sprintf(ReasonTooShort, *rules.MinLength)
	}
	if rules.MaxLength != nil && length > *rules.MaxLength {
		return fmt.Sprintf(ReasonTooLong, *rules.MaxLength)
	}
	if rules.Pattern != "" {
		re, err := regexp.Compile(rules.Pattern)
		if err != nil || !re.MatchString(text) {
			return ReasonNoPattern
		}
	}
	return ""
}

func hasOption(options []FieldOption, value string) bool {
	for _, option := range options {
		if option.Value == value {
			return true
		}
	}
	return false
}

func isBlank(value any) bool {
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
	}
	return false
}

func toStrings(value any) ([]string, bool) {
	rv := reflect.ValueOf(value)
	if rv.Kind() != reflect.Slice && rv.Kind() != reflect.Array {
		return nil, false
	}
	result := make([]string, 0, rv.Len())
	for i := 0; i < rv.Len(); i++ {
		s, ok := rv.Index(i).Interface().(string)
		if !ok {
			return nil, false
		}
		result = append(result, s)
	}
	return result, true
}

func toFloat(value any) (float64, bool) {
	switch v := value.(type) {
	case float64:
		return v, true
	case float32:
		return float64(v), true
	case int:
		return float64(v), true
	case int32:
		return float64(v), true
	case int64:
		return float64(v), true
	case interface{ Float64() (float64, error) }:
		f, err := v.Float64()
		return f, err == nil
	}
	return 0, false
}
