package models

import (
	"mindhub-service/internal/pkg/clinimetrix"
	"time"
)

type AssessmentStatus string

const (
	AssessmentStatusInProgress        AssessmentStatus = "in_progress"
	AssessmentStatusSubmitting        AssessmentStatus = "submitting"
	AssessmentStatusPendingSubmission AssessmentStatus = "pending_submission"
	AssessmentStatusSubmissionFailed  AssessmentStatus = "submission_failed"
	AssessmentStatusCompleted         AssessmentStatus = "completed"
	AssessmentStatusAbandoned         AssessmentStatus = "abandoned"
)

// AssessmentSession is the server-side copy of an in-flight scale
// administration. Revision counts local mutations; SavedRevision is the last
// revision acknowledged by the clinical backend. Template is the template as
// it was when the session started; navigation always runs against it.
type AssessmentSession struct {
	ID                 string                 `bson:"_id"`
	TemplateID         string                 `bson:"template_id"`
	TemplateVersion    string                 `bson:"template_version,omitempty"`
	Template           *clinimetrix.Template  `bson:"template,omitempty"`
	PatientID          string                 `bson:"patient_id"`
	ClinicID           string                 `bson:"clinic_id"`
	ClinicianID        string                 `bson:"clinician_id"`
	RemoteAssessmentID string                 `bson:"remote_assessment_id,omitempty"`
	State              clinimetrix.State      `bson:"state"`
	Status             AssessmentStatus       `bson:"status"`
	Revision           int64                  `bson:"revision"`
	SavedRevision      int64                  `bson:"saved_revision"`
	LastSavedAt        *time.Time             `bson:"last_saved_at,omitempty"`
	LastAutoSaveAt     *time.Time             `bson:"last_auto_save_at,omitempty"`
	Results            map[string]interface{} `bson:"results,omitempty"`
	ReportObjectKey    string                 `bson:"report_object_key,omitempty"`
	CompletedAt        *time.Time             `bson:"completed_at,omitempty"`
	TimeModel          `bson:",inline"`
}

// IsActive reports whether the session still autosaves.
func (s *AssessmentSession) IsActive() bool {
	return s.Status == AssessmentStatusInProgress
}

// IsEditable reports whether answers and navigation are accepted. A session
// whose queued submission was dead-lettered goes back to being editable.
func (s *AssessmentSession) IsEditable() bool {
	return s.Status == AssessmentStatusInProgress || s.Status == AssessmentStatusSubmissionFailed
}

func (s *AssessmentSession) HasUnsavedWork() bool {
	return s.Revision > s.SavedRevision
}

// Touch records a local mutation.
func (s *AssessmentSession) Touch() {
	s.Revision++
	s.SetUpdatedAt()
}
