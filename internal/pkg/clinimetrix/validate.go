package clinimetrix

import (
	"fmt"
	"strings"
)

// TemplateError lists every structural problem found in a template.
type TemplateError struct {
	TemplateID string
	Problems   []string
}

func (e *TemplateError) Error() string {
	return fmt.Sprintf("template %q is invalid: %s", e.TemplateID, strings.Join(e.Problems, "; "))
}

// ValidateTemplate checks that a template can be administered. It never
// mutates the template.
func ValidateTemplate(t *Template) error {
	if t == nil {
		return &TemplateError{Problems: []string{"template is nil"}}
	}

	var problems []string
	add := func(format string, args ...any) {
		problems = append(problems, fmt.Sprintf(format, args...))
	}

	if strings.TrimSpace(t.ID) == "" {
		add("template id is empty")
	}
	if t.TotalItems() == 0 {
		add("template has no items")
	}

	sectionIDs := make(map[string]bool, len(t.Sections))
	itemIDs := make(map[string]bool)
	for sectionIndex, section := range t.Sections {
		if section.ID != "" {
			if sectionIDs[section.ID] {
				add("duplicate section id %q", section.ID)
			}
			sectionIDs[section.ID] = true
		}

		for itemIndex, item := range section.Items {
			where := fmt.Sprintf("section %d item %d", sectionIndex, itemIndex)
			if strings.TrimSpace(item.ID) == "" {
				add("%s has an empty id", where)
			} else {
				if itemIDs[item.ID] {
					add("duplicate item id %q", item.ID)
				}
				itemIDs[item.ID] = true
				where = fmt.Sprintf("item %q", item.ID)
			}

			if !knownResponseTypes[item.ResponseType] {
				add("%s has unknown response type %q", where, item.ResponseType)
				continue
			}

			switch {
			case item.ResponseType.IsOptionBased():
				if item.ResponseGroup != "" && len(item.Options) == 0 {
					if _, ok := t.ResponseGroups[item.ResponseGroup]; !ok {
						add("%s references unknown response group %q", where, item.ResponseGroup)
						continue
					}
				}
				if len(t.ResolveOptions(item)) == 0 {
					add("%s has no options", where)
				}
			case item.ResponseType == ResponseTypeNumeric:
				if item.Min != nil && item.Max != nil && *item.Min > *item.Max {
					add("%s has min greater than max", where)
				}
			case item.ResponseType == ResponseTypeMultiFactor:
				if len(item.Factors) == 0 {
					add("%s has no factors", where)
				}
				factorIDs := make(map[string]bool, len(item.Factors))
				for factorIndex, factor := range item.Factors {
					if strings.TrimSpace(factor.ID) == "" {
						add("%s factor %d has an empty id", where, factorIndex)
					} else if factorIDs[factor.ID] {
						add("%s has duplicate factor id %q", where, factor.ID)
					}
					factorIDs[factor.ID] = true
					if len(t.ResolveFactorOptions(factor)) == 0 {
						add("%s factor %q has no options", where, factor.ID)
					}
				}
			}
		}
	}

	if len(problems) > 0 {
		return &TemplateError{TemplateID: t.ID, Problems: problems}
	}
	return nil
}
