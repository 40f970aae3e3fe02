package requests

type StartAssessment struct {
	TemplateID string `json:"template_id" validate:"required"`
	PatientID  string `json:"patient_id" validate:"required"`
}

type AnswerItem struct {
	ItemID string      `json:"item_id" validate:"required"`
	Value  interface{} `json:"value"`
}

type JumpTo struct {
	SectionIndex int `json:"section_index" validate:"gte=0"`
	ItemIndex    int `json:"item_index" validate:"gte=0"`
}

type FindAllAssessments struct {
	PatientID string `validate:"omitempty"`
	Status    string `validate:"omitempty,oneof=in_progress submitting pending_submission submission_failed completed abandoned"`
	Page      int
	PageSize  int
	// Scope is filled by the usecase from the caller, never from the query.
	Scope RecordScope `validate:"-"`
}

// Backend payloads

type CreateRemoteAssessment struct {
	TemplateID      string `json:"template_id"`
	TemplateVersion string `json:"template_version,omitempty"`
	PatientID       string `json:"patient_id"`
	ClinicianID     string `json:"clinician_id,omitempty"`
}

type SaveAssessmentProgress struct {
	Responses           map[string]interface{} `json:"responses"`
	CurrentSectionIndex int                    `json:"current_section_index"`
	CurrentItemIndex    int                    `json:"current_item_index"`
	Revision            int64                  `json:"revision"`
}

type SubmitAssessment struct {
	Responses   map[string]interface{} `json:"responses"`
	CompletedAt string                 `json:"completed_at"`
}
