package formx

import (
	"fmt"
	"regexp"
	"strings"
)

// DefinitionError lists every structural problem found in a form definition.
type DefinitionError struct {
	Problems []string
}

func (e *DefinitionError) Error() string {
	return "invalid form definition: " + strings.Join(e.Problems, "; ")
}

func ValidateDefinition(def Definition) error {
	var problems []string
	add := func(format string, args ...any) {
		problems = append(problems, fmt.Sprintf(format, args...))
	}

	if strings.TrimSpace(def.Title) == "" {
		add("title is empty")
	}
	if len(def.Fields) == 0 {
		add("form has no fields")
	}

	seen := make(map[string]bool, len(def.Fields))
	for i, field := range def.Fields {
		where := fmt.Sprintf("field %d", i)
		if strings.TrimSpace(field.ID) == "" {
			add("%s has an empty id", where)
		} else {
			if seen[field.ID] {
				add("duplicate field id %q", field.ID)
			}
			seen[field.ID] = true
			where = fmt.Sprintf("field %q", field.ID)
		}

		if strings.TrimSpace(field.Label) == "" {
			add("%s has an empty label", where)
		}
		if !field.Type.IsKnown() {
			add("%s has unknown type %q", where, field.Type)
			continue
		}

		if field.Type.HasOptions() {
			if len(field.Options) == 0 {
				add("%s has no options", where)
			}
			values := make(map[string]bool, len(field.Options))
			for _, option := range field.Options {
				if strings.TrimSpace(option.Value) == "" {
					add("%s has an option with an empty value", where)
					continue
				}
				if values[option.Value] {
					add("%s has duplicate option value %q", where, option.Value)
				}
				values[option.Value] = true
			}
		}

		rules := field.Validation
		if rules.MinLength != nil && *rules.MinLength < 0 {
			add("%s has a negative min length", where)
		}
		if rules.MinLength != nil && rules.MaxLength != nil && *rules.MinLength > *rules.MaxLength {
			add("%s has min length greater than max length", where)
		}
		if rules.Min != nil && rules.Max != nil && *rules.Min > *rules.Max {
			add("%s has min greater than max", where)
		}
		if rules.Pattern != "" {
			if _, err := regexp.Compile(rules.Pattern); err != nil {
				add("%s has an invalid pattern: %v", where, err)
			}
		}
	}

	if len(problems) > 0 {
		return &DefinitionError{Problems: problems}
	}
	return nil
}
