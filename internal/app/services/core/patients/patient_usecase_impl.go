package patients

import (
	"context"
	"mindhub-service/internal/app/config"
	"mindhub-service/internal/app/contracts"
	"mindhub-service/internal/pkg/constvars"
	"mindhub-service/internal/pkg/dto/requests"
	"mindhub-service/internal/pkg/dto/responses"
	"mindhub-service/internal/pkg/utils"
	"sort"
	"strings"
	"sync"
	"time"

	"go.uber.org/zap"
)

var (
	patientUsecaseInstance contracts.PatientUsecase
	oncePatientUsecase     sync.Once
)

type patientUsecase struct {
	ExpedixClient    contracts.ExpedixClient
	PatientTagClient contracts.PatientTagClient
	TimelineClient   contracts.TimelineClient
	InternalConfig   *config.InternalConfig
	Log              *zap.Logger
	now              func() time.Time
}

func NewPatientUsecase(
	expedixClient contracts.ExpedixClient,
	patientTagClient contracts.PatientTagClient,
	timelineClient contracts.TimelineClient,
	internalConfig *config.InternalConfig,
	logger *zap.Logger,
) contracts.PatientUsecase {
	oncePatientUsecase.Do(func() {
		patientUsecaseInstance = &patientUsecase{
			ExpedixClient:    expedixClient,
			PatientTagClient: patientTagClient,
			TimelineClient:   timelineClient,
			InternalConfig:   internalConfig,
			Log:              logger,
			now:              time.Now,
		}
	})
	return patientUsecaseInstance
}

func (uc *patientUsecase) FindAll(ctx context.Context, request *requests.FindAllPatients) ([]responses.Patient, int, error) {
	requestID := utils.GetRequestID(ctx)
	uc.Log.Info("patientUsecase.FindAll called",
		zap.String(constvars.LoggingRequestIDKey, requestID),
	)

	request.Search = strings.TrimSpace(request.Search)
	if request.Page < 1 {
		request.Page = 1
	}
	if request.PageSize < 1 {
		request.PageSize = constvars.AppDefaultPageSize
	}
	if request.PageSize > constvars.AppMaxPageSize {
		request.PageSize = constvars.AppMaxPageSize
	}

	result, err := uc.ExpedixClient.ListPatients(ctx, request)
	if err != nil {
		uc.Log.Error("patientUsecase.FindAll error listing patients",
			zap.String(constvars.LoggingRequestIDKey, requestID),
			zap.Error(err),
		)
		return nil, 0, err
	}

	patients := result.Data
	if patients == nil {
		patients = []responses.Patient{}
	}
	for i := range patients {
		uc.fillAge(&patients[i])
	}

	uc.Log.Info("patientUsecase.FindAll succeeded",
		zap.String(constvars.LoggingRequestIDKey, requestID),
		zap.Int("patient_count", len(patients)),
	)
	return patients, result.Total, nil
}

func (uc *patientUsecase) FindByID(ctx context.Context, patientID string) (*responses.Patient, error) {
	requestID := utils.GetRequestID(ctx)
	uc.Log.Info("patientUsecase.FindByID called",
		zap.String(constvars.LoggingRequestIDKey, requestID),
		zap.String(constvars.LoggingPatientIDKey, patientID),
	)

	patient, err := uc.ExpedixClient.GetPatient(ctx, patientID)
	if err != nil {
		uc.Log.Error("patientUsecase.FindByID error fetching patient",
			zap.String(constvars.LoggingRequestIDKey, requestID),
			zap.String(constvars.LoggingPatientIDKey, patientID),
			zap.Error(err),
		)
		return nil, err
	}
	uc.fillAge(patient)
	return patient, nil
}

func (uc *patientUsecase) Create(ctx context.Context, request *requests.CreatePatient) (*responses.Patient, error) {
	requestID := utils.GetRequestID(ctx)
	uc.Log.Info("patientUsecase.Create called",
		zap.String(constvars.LoggingRequestIDKey, requestID),
	)

	request.FirstName = strings.TrimSpace(request.FirstName)
	request.PaternalLastName = strings.TrimSpace(request.PaternalLastName)
	request.MaternalLastName = strings.TrimSpace(request.MaternalLastName)
	request.CURP = strings.ToUpper(strings.TrimSpace(request.CURP))
	request.Email = strings.ToLower(strings.TrimSpace(request.Email))

	patient, err := uc.ExpedixClient.CreatePatient(ctx, request)
	if err != nil {
		uc.Log.Error("patientUsecase.Create error creating patient",
			zap.String(constvars.LoggingRequestIDKey, requestID),
			zap.Error(err),
		)
		return nil, err
	}
	uc.fillAge(patient)

	uc.Log.Info("patientUsecase.Create succeeded",
		zap.String(constvars.LoggingRequestIDKey, requestID),
		zap.String(constvars.LoggingPatientIDKey, patient.ID),
	)
	return patient, nil
}

func (uc *patientUsecase) Update(ctx context.Context, patientID string, request *requests.UpdatePatient) (*responses.Patient, error) {
	requestID := utils.GetRequestID(ctx)
	uc.Log.Info("patientUsecase.Update called",
		zap.String(constvars.LoggingRequestIDKey, requestID),
		zap.String(constvars.LoggingPatientIDKey, patientID),
	)

	if request.Email != nil {
		email := strings.ToLower(strings.TrimSpace(*request.Email))
		request.Email = &email
	}

	patient, err := uc.ExpedixClient.UpdatePatient(ctx, patientID, request)
	if err != nil {
		uc.Log.Error("patientUsecase.Update error updating patient",
			zap.String(constvars.LoggingRequestIDKey, requestID),
			zap.String(constvars.LoggingPatientIDKey, patientID),
			zap.Error(err),
		)
		return nil, err
	}
	uc.fillAge(patient)
	return patient, nil
}

func (uc *patientUsecase) ListTags(ctx context.Context, patientID string) ([]responses.PatientTag, error) {
	tags, err := uc.PatientTagClient.ListTags(ctx, patientID)
	if err != nil {
		return nil, err
	}
	if tags == nil {
		tags = []responses.PatientTag{}
	}
	return tags, nil
}

func (uc *patientUsecase) AssignTag(ctx context.Context, patientID string, request *requests.AssignPatientTag) (*responses.PatientTag, error) {
	requestID := utils.GetRequestID(ctx)
	uc.Log.Info("patientUsecase.AssignTag called",
		zap.String(constvars.LoggingRequestIDKey, requestID),
		zap.String(constvars.LoggingPatientIDKey, patientID),
		zap.String(constvars.LoggingTagIDKey, request.TagID),
	)

	tag, err := uc.PatientTagClient.AssignTag(ctx, patientID, request)
	if err != nil {
		uc.Log.Error("patientUsecase.AssignTag error assigning tag",
			zap.String(constvars.LoggingRequestIDKey, requestID),
			zap.Error(err),
		)
		return nil, err
	}
	return tag, nil
}

func (uc *patientUsecase) RemoveTag(ctx context.Context, patientID, tagID string) error {
	requestID := utils.GetRequestID(ctx)
	uc.Log.Info("patientUsecase.RemoveTag called",
		zap.String(constvars.LoggingRequestIDKey, requestID),
		zap.String(constvars.LoggingPatientIDKey, patientID),
		zap.String(constvars.LoggingTagIDKey, tagID),
	)
	return uc.PatientTagClient.RemoveTag(ctx, patientID, tagID)
}

// ListTimeline returns the patient's events newest first.
func (uc *patientUsecase) ListTimeline(ctx context.Context, patientID string) ([]responses.TimelineEvent, error) {
	events, err := uc.TimelineClient.ListEvents(ctx, patientID)
	if err != nil {
		return nil, err
	}
	if events == nil {
		return []responses.TimelineEvent{}, nil
	}

	sort.SliceStable(events, func(i, j int) bool {
		return parseTimestamp(events[i].OccurredAt).After(parseTimestamp(events[j].OccurredAt))
	})
	return events, nil
}

func (uc *patientUsecase) AddTimelineEvent(ctx context.Context, patientID string, request *requests.CreateTimelineEvent) (*responses.TimelineEvent, error) {
	requestID := utils.GetRequestID(ctx)
	uc.Log.Info("patientUsecase.AddTimelineEvent called",
		zap.String(constvars.LoggingRequestIDKey, requestID),
		zap.String(constvars.LoggingPatientIDKey, patientID),
	)

	if request.OccurredAt == "" {
		request.OccurredAt = uc.now().UTC().Format(time.RFC3339)
	}
	if userID := utils.GetUserID(ctx); userID != "" {
		if request.Metadata == nil {
			request.Metadata = make(map[string]interface{})
		}
		request.Metadata["recorded_by"] = userID
	}

	event, err := uc.TimelineClient.AddEvent(ctx, patientID, request)
	if err != nil {
		uc.Log.Error("patientUsecase.AddTimelineEvent error adding event",
			zap.String(constvars.LoggingRequestIDKey, requestID),
			zap.Error(err),
		)
		return nil, err
	}
	return event, nil
}

// fillAge derives the age from the birth date when the backend leaves it out.
func (uc *patientUsecase) fillAge(patient *responses.Patient) {
	if patient == nil || patient.Age > 0 || patient.BirthDate == "" {
		return
	}
	birth, err := time.Parse("2006-01-02", patient.BirthDate)
	if err != nil {
		return
	}
	patient.Age = ageOn(birth, uc.now())
}

func ageOn(birth, at time.Time) int {
	age := at.Year() - birth.Year()
	if at.Month() < birth.Month() || (at.Month() == birth.Month() && at.Day() < birth.Day()) {
		age--
	}
	if age < 0 {
		return 0
	}
	return age
}

func parseTimestamp(value string) time.Time {
	t, err := time.Parse(time.RFC3339, value)
	if err != nil {
		return time.Time{}
	}
	return t
}
