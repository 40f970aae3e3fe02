package clinimetrix

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestValidateTemplate(t *testing.T) {
	t.Run("valid template", func(t *testing.T) {
		assert.NoError(t, ValidateTemplate(phqTemplate()))
	})

	tests := []struct {
		name    string
		mutate  func(*Template)
		problem string
	}{
		{
			name:    "empty id",
			mutate:  func(tpl *Template) { tpl.ID = " " },
			problem: "template id is empty",
		},
		{
			name:    "no items",
			mutate:  func(tpl *Template) { tpl.Sections = []Section{{ID: "s1"}} },
			problem: "template has no items",
		},
		{
			name: "duplicate section id",
			mutate: func(tpl *Template) {
				tpl.Sections[2].ID = "s1"
			},
			problem: `duplicate section id "s1"`,
		},
		{
			name: "duplicate item id across sections",
			mutate: func(tpl *Template) {
				tpl.Sections[2].Items[0].ID = "q1"
			},
			problem: `duplicate item id "q1"`,
		},
		{
			name: "unknown response type",
			mutate: func(tpl *Template) {
				tpl.Sections[0].Items[0].ResponseType = "slider"
			},
			problem: `item "q1" has unknown response type "slider"`,
		},
		{
			name: "unknown response group",
			mutate: func(tpl *Template) {
				tpl.Sections[0].Items[0].ResponseGroup = "missing"
			},
			problem: `item "q1" references unknown response group "missing"`,
		},
		{
			name: "numeric min greater than max",
			mutate: func(tpl *Template) {
				tpl.Sections[2].Items[0].Min = floatPtr(30)
			},
			problem: `item "q3" has min greater than max`,
		},
		{
			name: "multi factor without factors",
			mutate: func(tpl *Template) {
				tpl.Sections[2].Items[1].ResponseType = ResponseTypeMultiFactor
			},
			problem: `item "q4" has no factors`,
		},
		{
			name: "multi factor with an empty factor id",
			mutate: func(tpl *Template) {
				tpl.Sections[2].Items[1].ResponseType = ResponseTypeMultiFactor
				tpl.Sections[2].Items[1].Factors = []Factor{
					{ID: "frecuencia", ResponseGroup: "frequency"},
					{ID: " ", ResponseGroup: "frequency"},
				}
			},
			problem: `item "q4" factor 1 has an empty id`,
		},
		{
			name: "multi factor with duplicate factor ids",
			mutate: func(tpl *Template) {
				tpl.Sections[2].Items[1].ResponseType = ResponseTypeMultiFactor
				tpl.Sections[2].Items[1].Factors = []Factor{
					{ID: "frecuencia", ResponseGroup: "frequency"},
					{ID: "frecuencia", ResponseGroup: "frequency"},
				}
			},
			problem: `item "q4" has duplicate factor id "frecuencia"`,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			template := phqTemplate()
			tt.mutate(template)

			err := ValidateTemplate(template)

			var templateErr *TemplateError
			require.ErrorAs(t, err, &templateErr)
			assert.Contains(t, templateErr.Problems, tt.problem)
		})
	}
}

func TestResolveOptions(t *testing.T) {
	template := phqTemplate()

	t.Run("falls back to response group", func(t *testing.T) {
		options := template.ResolveOptions(template.Sections[0].Items[0])
		assert.Len(t, options, 4)
	})

	t.Run("inline options win", func(t *testing.T) {
		item := template.Sections[0].Items[0]
		item.Options = []Option{{Value: "si", Label: "Sí"}, {Value: "no", Label: "No"}}

		options := template.ResolveOptions(item)

		require.Len(t, options, 2)
		assert.Equal(t, "si", options[0].Value)
	})
}
