package constvars

const (
	URLParamAssessmentID  = "assessment_id"
	URLParamTemplateID    = "template_id"
	URLParamDraftID       = "draft_id"
	URLParamFieldID       = "field_id"
	URLParamPatientID     = "patient_id"
	URLParamTagID         = "tag_id"
	URLParamAppointmentID = "appointment_id"
)

const (
	URLQueryParamSearch   = "search"
	URLQueryParamPage     = "page"
	URLQueryParamPageSize = "page_size"
	URLQueryParamDate     = "date"
	URLQueryParamStatus   = "status"
)
