package responses

import (
	"mindhub-service/internal/pkg/formx"
	"time"
)

type FormDraft struct {
	ID               string                  `json:"id"`
	Title            string                  `json:"title"`
	Description      string                  `json:"description,omitempty"`
	Category         string                  `json:"category,omitempty"`
	Fields           []formx.FieldDefinition `json:"fields"`
	Status           string                  `json:"status"`
	RemoteTemplateID string                  `json:"remote_template_id,omitempty"`
	CreatedBy        string                  `json:"created_by,omitempty"`
	CreatedAt        time.Time               `json:"created_at"`
	UpdatedAt        time.Time               `json:"updated_at"`
	PublishedAt      *time.Time              `json:"published_at,omitempty"`
}

type FormTemplate struct {
	ID          string                  `json:"id"`
	Title       string                  `json:"title"`
	Description string                  `json:"description,omitempty"`
	Category    string                  `json:"category,omitempty"`
	Fields      []formx.FieldDefinition `json:"fields"`
	Status      string                  `json:"status,omitempty"`
	CreatedAt   string                  `json:"created_at,omitempty"`
	UpdatedAt   string                  `json:"updated_at,omitempty"`
}

type FormSubmission struct {
	ID          string                 `json:"id"`
	TemplateID  string                 `json:"template_id"`
	PatientID   string                 `json:"patient_id"`
	Values      map[string]interface{} `json:"values"`
	SubmittedBy string                 `json:"submitted_by,omitempty"`
	SubmittedAt string                 `json:"submitted_at,omitempty"`
}

type Attachment struct {
	ObjectKey   string    `json:"object_key"`
	URL         string    `json:"url"`
	ContentType string    `json:"content_type"`
	Size        int64     `json:"size"`
	ExpiresAt   time.Time `json:"expires_at"`
}
