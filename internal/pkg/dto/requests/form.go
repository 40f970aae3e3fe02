package requests

type CreateFormDraft struct {
	Title       string `json:"title" validate:"required,max=200"`
	Description string `json:"description" validate:"max=2000"`
	Category    string `json:"category" validate:"max=100"`
}

type UpdateFormDraft struct {
	Title       *string `json:"title" validate:"omitempty,min=1,max=200"`
	Description *string `json:"description" validate:"omitempty,max=2000"`
	Category    *string `json:"category" validate:"omitempty,max=100"`
}

type FormFieldOption struct {
	Label string `json:"label" validate:"required"`
	Value string `json:"value" validate:"required"`
}

type FormFieldValidation struct {
	MinLength *int     `json:"min_length" validate:"omitempty,gte=0"`
	MaxLength *int     `json:"max_length" validate:"omitempty,gte=0"`
	Min       *float64 `json:"min"`
	Max       *float64 `json:"max"`
	Pattern   string   `json:"pattern"`
}

type FormField struct {
	Label       string              `json:"label" validate:"required,max=200"`
	Type        string              `json:"type" validate:"required,oneof=text textarea number email phone date select radio checkbox multiselect file"`
	Required    bool                `json:"required"`
	Placeholder string              `json:"placeholder" validate:"max=200"`
	HelpText    string              `json:"help_text" validate:"max=500"`
	Options     []FormFieldOption   `json:"options" validate:"omitempty,dive"`
	Validation  FormFieldValidation `json:"validation"`
}

type AddFormField struct {
	Field    FormField `json:"field" validate:"required"`
	Position *int      `json:"position" validate:"omitempty,gte=0"`
}

type MoveFormField struct {
	From int `json:"from" validate:"gte=0"`
	To   int `json:"to" validate:"gte=0"`
}

type SubmitForm struct {
	PatientID string                 `json:"patient_id" validate:"required"`
	Values    map[string]interface{} `json:"values" validate:"required"`
}

type UploadAttachment struct {
	TemplateID  string
	FileName    string
	ContentType string
	Size        int64
	Content     []byte
}

// Backend payloads

type FormXTemplate struct {
	Title       string      `json:"title"`
	Description string      `json:"description,omitempty"`
	Category    string      `json:"category,omitempty"`
	Fields      interface{} `json:"fields"`
	Status      string      `json:"status"`
}

type FormXSubmission struct {
	TemplateID  string                 `json:"template_id"`
	PatientID   string                 `json:"patient_id"`
	Values      map[string]interface{} `json:"values"`
	SubmittedBy string                 `json:"submitted_by,omitempty"`
}
