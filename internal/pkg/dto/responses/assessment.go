package responses

import (
	"mindhub-service/internal/pkg/clinimetrix"
	"time"
)

type Assessment struct {
	ID                 string                 `json:"id"`
	TemplateID         string                 `json:"template_id"`
	TemplateName       string                 `json:"template_name,omitempty"`
	PatientID          string                 `json:"patient_id"`
	RemoteAssessmentID string                 `json:"remote_assessment_id,omitempty"`
	Status             string                 `json:"status"`
	State              clinimetrix.State      `json:"state"`
	CurrentSection     *AssessmentSection     `json:"current_section,omitempty"`
	CurrentItem        *clinimetrix.Item      `json:"current_item,omitempty"`
	CurrentOptions     []clinimetrix.Option   `json:"current_options,omitempty"`
	Progress           clinimetrix.Progress   `json:"progress"`
	CanNavigateNext    bool                   `json:"can_navigate_next"`
	IsLastItem         bool                   `json:"is_last_item"`
	Revision           int64                  `json:"revision"`
	SavedRevision      int64                  `json:"saved_revision"`
	LastSavedAt        *time.Time             `json:"last_saved_at,omitempty"`
	Results            map[string]interface{} `json:"results,omitempty"`
	CompletedAt        *time.Time             `json:"completed_at,omitempty"`
}

type AssessmentSection struct {
	Index        int    `json:"index"`
	ID           string `json:"id"`
	Title        string `json:"title"`
	Instructions string `json:"instructions,omitempty"`
}

type AssessmentSummary struct {
	ID          string     `json:"id"`
	TemplateID  string     `json:"template_id"`
	PatientID   string     `json:"patient_id"`
	Status      string     `json:"status"`
	Percentage  int        `json:"percentage"`
	UpdatedAt   time.Time  `json:"updated_at"`
	CompletedAt *time.Time `json:"completed_at,omitempty"`
}

type SaveAssessment struct {
	Saved         bool       `json:"saved"`
	Skipped       bool       `json:"skipped"`
	Reason        string     `json:"reason,omitempty"`
	SavedRevision int64      `json:"saved_revision"`
	LastSavedAt   *time.Time `json:"last_saved_at,omitempty"`
}

// AssessmentResults is what the clinical backend returns after scoring.
type AssessmentResults struct {
	AssessmentID   string                 `json:"assessment_id"`
	TotalScore     *float64               `json:"total_score,omitempty"`
	Severity       string                 `json:"severity,omitempty"`
	Interpretation string                 `json:"interpretation,omitempty"`
	Subscales      map[string]float64     `json:"subscales,omitempty"`
	Extra          map[string]interface{} `json:"extra,omitempty"`
}

type RemoteAssessment struct {
	ID         string `json:"id"`
	TemplateID string `json:"template_id"`
	PatientID  string `json:"patient_id"`
	Status     string `json:"status"`
}
