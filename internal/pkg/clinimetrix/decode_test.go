package clinimetrix

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const gadYAML = `
id: gad-2
name: Escala breve de ansiedad
version: "1.0"
response_groups:
  frequency:
    - {value: 0, label: Nunca, score: 0}
    - {value: 1, label: Varios días, score: 1}
    - {value: 2, label: Más de la mitad de los días, score: 2}
    - {value: 3, label: Casi todos los días, score: 3}
sections:
  - id: s1
    title: Ansiedad
    items:
      - {id: q1, number: 1, text: Nerviosismo, response_type: likert, response_group: frequency, required: true}
      - {id: q2, number: 2, text: Preocupación, response_type: likert, response_group: frequency, required: true}
`

func TestDecodeTemplate(t *testing.T) {
	template, err := DecodeTemplate(strings.NewReader(gadYAML))
	require.NoError(t, err)

	assert.Equal(t, "gad-2", template.ID)
	assert.Equal(t, 2, template.TotalItems())
	require.Len(t, template.ResponseGroups["frequency"], 4)
	assert.Equal(t, 3.0, *template.ResponseGroups["frequency"][3].Score)
	assert.NoError(t, ValidateTemplate(template))
}

func TestDecodeTemplateAcceptsJSON(t *testing.T) {
	doc := `{"id":"t1","name":"x","sections":[{"id":"s","title":"s","items":[{"id":"q","number":1,"text":"q","response_type":"text","required":false}]}]}`
	template, err := DecodeTemplate(strings.NewReader(doc))
	require.NoError(t, err)
	assert.Equal(t, ResponseTypeText, template.Sections[0].Items[0].ResponseType)
}

func TestDecodeTemplateRejects(t *testing.T) {
	tests := []struct {
		name string
		doc  string
	}{
		{"empty document", ""},
		{"unknown field", "id: t1\nnmae: typo\n"},
		{"malformed", "id: [unterminated\n"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := DecodeTemplate(strings.NewReader(tt.doc))
			assert.Error(t, err)
		})
	}
}
