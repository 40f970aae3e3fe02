package contracts

import (
	"context"
	"mindhub-service/internal/pkg/clinimetrix"
	"mindhub-service/internal/pkg/dto/requests"
	"mindhub-service/internal/pkg/dto/responses"
)

type ExpedixClient interface {
	ListPatients(ctx context.Context, request *requests.FindAllPatients) (*responses.BackendList[responses.Patient], error)
	GetPatient(ctx context.Context, patientID string) (*responses.Patient, error)
	CreatePatient(ctx context.Context, request *requests.CreatePatient) (*responses.Patient, error)
	UpdatePatient(ctx context.Context, patientID string, request *requests.UpdatePatient) (*responses.Patient, error)
}

type ClinimetrixClient interface {
	ListTemplates(ctx context.Context) ([]clinimetrix.TemplateSummary, error)
	GetTemplate(ctx context.Context, templateID string) (*clinimetrix.Template, error)
	CreateAssessment(ctx context.Context, request *requests.CreateRemoteAssessment) (*responses.RemoteAssessment, error)
	SaveProgress(ctx context.Context, remoteAssessmentID string, request *requests.SaveAssessmentProgress) error
	SubmitAssessment(ctx context.Context, remoteAssessmentID string, request *requests.SubmitAssessment) (*responses.AssessmentResults, error)
}

type FormXClient interface {
	ListTemplates(ctx context.Context) ([]responses.FormTemplate, error)
	GetTemplate(ctx context.Context, templateID string) (*responses.FormTemplate, error)
	CreateTemplate(ctx context.Context, request *requests.FormXTemplate) (*responses.FormTemplate, error)
	UpdateTemplate(ctx context.Context, templateID string, request *requests.FormXTemplate) (*responses.FormTemplate, error)
	CreateSubmission(ctx context.Context, request *requests.FormXSubmission) (*responses.FormSubmission, error)
	ListSubmissions(ctx context.Context, templateID string) ([]responses.FormSubmission, error)
}

type FrontDeskClient interface {
	TodayAppointments(ctx context.Context, date string) ([]responses.Appointment, error)
	CheckIn(ctx context.Context, appointmentID string, request *requests.CheckIn) (*responses.Appointment, error)
	DailyStats(ctx context.Context, date string) (*responses.DailyStats, error)
}

type PatientTagClient interface {
	ListTags(ctx context.Context, patientID string) ([]responses.PatientTag, error)
	AssignTag(ctx context.Context, patientID string, request *requests.AssignPatientTag) (*responses.PatientTag, error)
	RemoveTag(ctx context.Context, patientID, tagID string) error
}

type TimelineClient interface {
	ListEvents(ctx context.Context, patientID string) ([]responses.TimelineEvent, error)
	AddEvent(ctx context.Context, patientID string, request *requests.CreateTimelineEvent) (*responses.TimelineEvent, error)
}
