package clinimetrix

import (
	"errors"
	"fmt"
	"io"

	"gopkg.in/yaml.v3"
)

// DecodeTemplate reads a template written as YAML (JSON is accepted too)
// and rejects unknown keys so typos in field names are caught early.
func DecodeTemplate(r io.Reader) (*Template, error) {
	decoder := yaml.NewDecoder(r)
	decoder.KnownFields(true)

	template := new(Template)
	if err := decoder.Decode(template); err != nil {
		if errors.Is(err, io.EOF) {
			return nil, errors.New("template document is empty")
		}
		return nil, fmt.Errorf("decode template: %w", err)
	}
	return template, nil
}
