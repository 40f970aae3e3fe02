package contracts

import (
	"context"
	"mindhub-service/internal/pkg/dto/requests"
	"mindhub-service/internal/pkg/dto/responses"
)

type PatientUsecase interface {
	FindAll(ctx context.Context, request *requests.FindAllPatients) ([]responses.Patient, int, error)
	FindByID(ctx context.Context, patientID string) (*responses.Patient, error)
	Create(ctx context.Context, request *requests.CreatePatient) (*responses.Patient, error)
	Update(ctx context.Context, patientID string, request *requests.UpdatePatient) (*responses.Patient, error)
	ListTags(ctx context.Context, patientID string) ([]responses.PatientTag, error)
	AssignTag(ctx context.Context, patientID string, request *requests.AssignPatientTag) (*responses.PatientTag, error)
	RemoveTag(ctx context.Context, patientID, tagID string) error
	ListTimeline(ctx context.Context, patientID string) ([]responses.TimelineEvent, error)
	AddTimelineEvent(ctx context.Context, patientID string, request *requests.CreateTimelineEvent) (*responses.TimelineEvent, error)
}
