// Package formx models form-builder definitions: the field list edited by
// drag and drop, its structural validation and the validation of submitted
// values against it.
package formx

type FieldType string

const (
	FieldTypeText        FieldType = "text"
	FieldTypeTextarea    FieldType = "textarea"
	FieldTypeNumber      FieldType = "number"
	FieldTypeEmail       FieldType = "email"
	FieldTypePhone       FieldType = "phone"
	FieldTypeDate        FieldType = "date"
	FieldTypeSelect      FieldType = "select"
	FieldTypeRadio       FieldType = "radio"
	FieldTypeCheckbox    FieldType = "checkbox"
	FieldTypeMultiselect FieldType = "multiselect"
	FieldTypeFile        FieldType = "file"
)

var knownFieldTypes = map[FieldType]bool{
	FieldTypeText:        true,
	FieldTypeTextarea:    true,
	FieldTypeNumber:      true,
	FieldTypeEmail:       true,
	FieldTypePhone:       true,
	FieldTypeDate:        true,
	FieldTypeSelect:      true,
	FieldTypeRadio:       true,
	FieldTypeCheckbox:    true,
	FieldTypeMultiselect: true,
	FieldTypeFile:        true,
}

func (ft FieldType) IsKnown() bool {
	return knownFieldTypes[ft]
}

// HasOptions reports whether values are picked from the field's options.
func (ft FieldType) HasOptions() bool {
	switch ft {
	case FieldTypeSelect, FieldTypeRadio, FieldTypeCheckbox, FieldTypeMultiselect:
		return true
	}
	return false
}

// IsMultiValue reports whether the field accepts a list of option values.
func (ft FieldType) IsMultiValue() bool {
	return ft == FieldTypeCheckbox || ft == FieldTypeMultiselect
}

type FieldOption struct {
	Label string `json:"label" bson:"label"`
	Value string `json:"value" bson:"value"`
}

type Validation struct {
	MinLength *int     `json:"min_length,omitempty" bson:"min_length,omitempty"`
	MaxLength *int     `json:"max_length,omitempty" bson:"max_length,omitempty"`
	Min       *float64 `json:"min,omitempty" bson:"min,omitempty"`
	Max       *float64 `json:"max,omitempty" bson:"max,omitempty"`
	Pattern   string   `json:"pattern,omitempty" bson:"pattern,omitempty"`
}

type FieldDefinition struct {
	ID          string        `json:"id" bson:"id"`
	Label       string        `json:"label" bson:"label"`
	Type        FieldType     `json:"type" bson:"type"`
	Required    bool          `json:"required" bson:"required"`
	Placeholder string        `json:"placeholder,omitempty" bson:"placeholder,omitempty"`
	HelpText    string        `json:"help_text,omitempty" bson:"help_text,omitempty"`
	Options     []FieldOption `json:"options,omitempty" bson:"options,omitempty"`
	Validation  Validation    `json:"validation" bson:"validation"`
}

// Definition is the publishable shape of a form.
type Definition struct {
	Title       string            `json:"title"`
	Description string            `json:"description,omitempty"`
	Category    string            `json:"category,omitempty"`
	Fields      []FieldDefinition `json:"fields"`
}
