package constvars

// Clinical backend resource paths, relative to Backend.BaseUrl.
const (
	ResourceExpedixPatients        = "/expedix/patients"
	ResourcePatientTagsFormat      = "/expedix/patients/%s/tags"
	ResourcePatientTimelineFormat  = "/expedix/patients/%s/timeline"
	ResourceClinimetrixTemplates   = "/clinimetrix-pro/templates"
	ResourceClinimetrixAssessments = "/clinimetrix-pro/assessments"
	ResourceFormXTemplates         = "/formx/templates"
	ResourceFormXSubmissions       = "/formx/submissions"
	ResourceFrontDeskAppointments  = "/frontdesk/appointments"
	ResourceFrontDeskStats         = "/frontdesk/stats"
)

// Paths of the backend's JSON error body that may carry a human message.
var BackendErrorMessagePaths = []string{
	"message",
	"detail",
	"error.message",
	"error",
	"errors.0.message",
}
