package assessments

import (
	"context"
	"errors"
	"mindhub-service/internal/app/config"
	"mindhub-service/internal/app/contracts"
	"mindhub-service/internal/app/models"
	"mindhub-service/internal/app/services/shared/ratelimiter"
	"mindhub-service/internal/pkg/clinimetrix"
	"mindhub-service/internal/pkg/constvars"
	"mindhub-service/internal/pkg/dto/requests"
	"mindhub-service/internal/pkg/dto/responses"
	"mindhub-service/internal/pkg/exceptions"
	"mindhub-service/internal/pkg/utils"
	"sync"
	"time"

	"go.uber.org/zap"
)

var (
	assessmentUsecaseInstance contracts.AssessmentUsecase
	onceAssessmentUsecase     sync.Once
)

type assessmentUsecase struct {
	AssessmentRepository contracts.AssessmentRepository
	TemplateUsecase      contracts.TemplateUsecase
	ClinimetrixClient    contracts.ClinimetrixClient
	LockerService        contracts.LockerService
	ResourceLimiter      *ratelimiter.ResourceLimiter
	SubmissionQueue      contracts.SubmissionQueue
	Storage              contracts.Storage
	InternalConfig       *config.InternalConfig
	Log                  *zap.Logger
	now                  func() time.Time
}

func NewAssessmentUsecase(
	assessmentRepository contracts.AssessmentRepository,
	templateUsecase contracts.TemplateUsecase,
	clinimetrixClient contracts.ClinimetrixClient,
	lockerService contracts.LockerService,
	resourceLimiter *ratelimiter.ResourceLimiter,
	submissionQueue contracts.SubmissionQueue,
	storage contracts.Storage,
	internalConfig *config.InternalConfig,
	logger *zap.Logger,
) contracts.AssessmentUsecase {
	onceAssessmentUsecase.Do(func() {
		assessmentUsecaseInstance = &assessmentUsecase{
			AssessmentRepository: assessmentRepository,
			TemplateUsecase:      templateUsecase,
			ClinimetrixClient:    clinimetrixClient,
			LockerService:        lockerService,
			ResourceLimiter:      resourceLimiter,
			SubmissionQueue:      submissionQueue,
			Storage:              storage,
			InternalConfig:       internalConfig,
			Log:                  logger,
			now:                  func() time.Time { return time.Now().UTC() },
		}
	})
	return assessmentUsecaseInstance
}

func (uc *assessmentUsecase) StartAssessment(ctx context.Context, request *requests.StartAssessment) (*responses.Assessment, error) {
	requestID := utils.GetRequestID(ctx)
	uc.Log.Info("assessmentUsecase.StartAssessment called",
		zap.String(constvars.LoggingRequestIDKey, requestID),
		zap.String(constvars.LoggingTemplateIDKey, request.TemplateID),
		zap.String(constvars.LoggingPatientIDKey, request.PatientID),
	)

	template, err := uc.TemplateUsecase.GetTemplate(ctx, request.TemplateID)
	if err != nil {
		return nil, err
	}

	state, err := clinimetrix.NewState(template)
	if err != nil {
		uc.Log.Error("assessmentUsecase.StartAssessment template has no items",
			zap.String(constvars.LoggingRequestIDKey, requestID),
			zap.String(constvars.LoggingTemplateIDKey, request.TemplateID),
		)
		return nil, exceptions.ErrTemplateInvalid(err)
	}

	clinicianID := utils.GetUserID(ctx)
	remote, err := uc.ClinimetrixClient.CreateAssessment(ctx, &requests.CreateRemoteAssessment{
		TemplateID:      template.ID,
		TemplateVersion: template.Version,
		PatientID:       request.PatientID,
		ClinicianID:     clinicianID,
	})
	if err != nil {
		uc.Log.Error("assessmentUsecase.StartAssessment error creating remote assessment",
			zap.String(constvars.LoggingRequestIDKey, requestID),
			zap.Error(err),
		)
		return nil, err
	}

	session := &models.AssessmentSession{
		ID:                 utils.GenerateID(),
		TemplateID:         template.ID,
		TemplateVersion:    template.Version,
		Template:           template,
		PatientID:          request.PatientID,
		ClinicID:           utils.GetClinicID(ctx),
		ClinicianID:        clinicianID,
		RemoteAssessmentID: remote.ID,
		State:              state,
		Status:             models.AssessmentStatusInProgress,
	}
	session.SetCreatedAtUpdatedAt()

	if err := uc.AssessmentRepository.Create(ctx, session); err != nil {
		uc.Log.Error("assessmentUsecase.StartAssessment error creating session",
			zap.String(constvars.LoggingRequestIDKey, requestID),
			zap.Error(err),
		)
		return nil, err
	}

	uc.Log.Info("assessmentUsecase.StartAssessment succeeded",
		zap.String(constvars.LoggingRequestIDKey, requestID),
		zap.String(constvars.LoggingAssessmentIDKey, session.ID),
	)
	return buildAssessmentResponse(template, session), nil
}

// FindAll lists the caller's sessions newest first. A session whose template
// cannot be resolved reports 0%.
func (uc *assessmentUsecase) FindAll(ctx context.Context, request *requests.FindAllAssessments) ([]responses.AssessmentSummary, int, error) {
	requestID := utils.GetRequestID(ctx)
	uc.Log.Info("assessmentUsecase.FindAll called",
		zap.String(constvars.LoggingRequestIDKey, requestID),
		zap.String(constvars.LoggingPatientIDKey, request.PatientID),
	)

	request.Scope = utils.GetRecordScope(ctx)
	sessions, total, err := uc.AssessmentRepository.FindAll(ctx, request)
	if err != nil {
		uc.Log.Error("assessmentUsecase.FindAll error listing sessions",
			zap.String(constvars.LoggingRequestIDKey, requestID),
			zap.Error(err),
		)
		return nil, 0, err
	}

	summaries := make([]responses.AssessmentSummary, 0, len(sessions))
	for i := range sessions {
		session := &sessions[i]
		summary := responses.AssessmentSummary{
			ID:          session.ID,
			TemplateID:  session.TemplateID,
			PatientID:   session.PatientID,
			Status:      string(session.Status),
			UpdatedAt:   session.UpdatedAt,
			CompletedAt: session.CompletedAt,
		}

		template, err := uc.sessionTemplate(ctx, session)
		if err != nil {
			uc.Log.Warn("assessmentUsecase.FindAll template unavailable",
				zap.String(constvars.LoggingRequestIDKey, requestID),
				zap.String(constvars.LoggingTemplateIDKey, session.TemplateID),
				zap.Error(err),
			)
		} else {
			state := session.State
			summary.Percentage = clinimetrix.NewNavigator(template, &state).Progress().Percentage
		}
		summaries = append(summaries, summary)
	}

	uc.Log.Info("assessmentUsecase.FindAll succeeded",
		zap.String(constvars.LoggingRequestIDKey, requestID),
		zap.Int(constvars.LoggingSessionCountKey, len(summaries)),
	)
	return summaries, total, nil
}

func (uc *assessmentUsecase) GetAssessment(ctx context.Context, assessmentID string) (*responses.Assessment, error) {
	requestID := utils.GetRequestID(ctx)
	uc.Log.Info("assessmentUsecase.GetAssessment called",
		zap.String(constvars.LoggingRequestIDKey, requestID),
		zap.String(constvars.LoggingAssessmentIDKey, assessmentID),
	)

	session, template, err := uc.load(ctx, assessmentID)
	if err != nil {
		return nil, err
	}
	return buildAssessmentResponse(template, session), nil
}

func (uc *assessmentUsecase) AnswerItem(ctx context.Context, assessmentID string, request *requests.AnswerItem) (*responses.Assessment, error) {
	requestID := utils.GetRequestID(ctx)
	uc.Log.Info("assessmentUsecase.AnswerItem called",
		zap.String(constvars.LoggingRequestIDKey, requestID),
		zap.String(constvars.LoggingAssessmentIDKey, assessmentID),
		zap.String(constvars.LoggingItemIDKey, request.ItemID),
	)

	return uc.mutate(ctx, assessmentID, func(nav *clinimetrix.Navigator) error {
		if err := nav.Answer(request.ItemID, request.Value); err != nil {
			return mapNavigationError(err, request.ItemID)
		}
		return nil
	})
}

// Next on the last item is a completion attempt.
func (uc *assessmentUsecase) Next(ctx context.Context, assessmentID string) (*responses.Assessment, bool, error) {
	requestID := utils.GetRequestID(ctx)
	uc.Log.Info("assessmentUsecase.Next called",
		zap.String(constvars.LoggingRequestIDKey, requestID),
		zap.String(constvars.LoggingAssessmentIDKey, assessmentID),
	)

	session, template, err := uc.loadActive(ctx, assessmentID)
	if err != nil {
		return nil, false, err
	}

	state := session.State
	nav := clinimetrix.NewNavigator(template, &state)
	if nav.IsLastItem() {
		if !nav.CanNavigateNext() {
			item, _ := nav.CurrentItem()
			return nil, false, mapNavigationError(&clinimetrix.RequiredItemError{ItemID: item.ID}, item.ID)
		}
		return uc.CompleteAssessment(ctx, assessmentID)
	}

	response, err := uc.mutate(ctx, assessmentID, func(nav *clinimetrix.Navigator) error {
		if _, err := nav.Next(); err != nil {
			return mapNavigationError(err, "")
		}
		return nil
	})
	return response, false, err
}

func (uc *assessmentUsecase) Previous(ctx context.Context, assessmentID string) (*responses.Assessment, error) {
	requestID := utils.GetRequestID(ctx)
	uc.Log.Info("assessmentUsecase.Previous called",
		zap.String(constvars.LoggingRequestIDKey, requestID),
		zap.String(constvars.LoggingAssessmentIDKey, assessmentID),
	)

	return uc.mutate(ctx, assessmentID, func(nav *clinimetrix.Navigator) error {
		if err := nav.Previous(); err != nil {
			return mapNavigationError(err, "")
		}
		return nil
	})
}

func (uc *assessmentUsecase) JumpTo(ctx context.Context, assessmentID string, request *requests.JumpTo) (*responses.Assessment, error) {
	requestID := utils.GetRequestID(ctx)
	uc.Log.Info("assessmentUsecase.JumpTo called",
		zap.String(constvars.LoggingRequestIDKey, requestID),
		zap.String(constvars.LoggingAssessmentIDKey, assessmentID),
		zap.Int(constvars.LoggingSectionIndexKey, request.SectionIndex),
		zap.Int(constvars.LoggingItemIndexKey, request.ItemIndex),
	)

	return uc.mutate(ctx, assessmentID, func(nav *clinimetrix.Navigator) error {
		if err := nav.JumpTo(request.SectionIndex, request.ItemIndex); err != nil {
			return mapNavigationError(err, "")
		}
		return nil
	})
}

// AbandonAssessment takes the session out of in_progress, which is what
// every autosave path checks before saving.
func (uc *assessmentUsecase) AbandonAssessment(ctx context.Context, assessmentID string) (*responses.Assessment, error) {
	requestID := utils.GetRequestID(ctx)
	uc.Log.Info("assessmentUsecase.AbandonAssessment called",
		zap.String(constvars.LoggingRequestIDKey, requestID),
		zap.String(constvars.LoggingAssessmentIDKey, assessmentID),
	)

	session, template, err := uc.loadActive(ctx, assessmentID)
	if err != nil {
		return nil, err
	}

	expected := session.Revision
	session.Status = models.AssessmentStatusAbandoned
	session.Touch()
	if err := uc.AssessmentRepository.UpdateState(ctx, session, expected); err != nil {
		uc.Log.Error("assessmentUsecase.AbandonAssessment error updating session",
			zap.String(constvars.LoggingRequestIDKey, requestID),
			zap.Error(err),
		)
		return nil, err
	}

	uc.Log.Info("assessmentUsecase.AbandonAssessment succeeded",
		zap.String(constvars.LoggingRequestIDKey, requestID),
		zap.String(constvars.LoggingAssessmentIDKey, assessmentID),
	)
	return buildAssessmentResponse(template, session), nil
}

// mutate applies fn to the navigation state of an in-progress session and
// persists it under the revision it was read at.
func (uc *assessmentUsecase) mutate(ctx context.Context, assessmentID string, fn func(nav *clinimetrix.Navigator) error) (*responses.Assessment, error) {
	requestID := utils.GetRequestID(ctx)

	session, template, err := uc.loadActive(ctx, assessmentID)
	if err != nil {
		return nil, err
	}

	expected := session.Revision
	nav := clinimetrix.NewNavigator(template, &session.State)
	if err := fn(nav); err != nil {
		uc.Log.Info("assessmentUsecase.mutate rejected",
			zap.String(constvars.LoggingRequestIDKey, requestID),
			zap.String(constvars.LoggingAssessmentIDKey, assessmentID),
			zap.Error(err),
		)
		return nil, err
	}

	if session.Status == models.AssessmentStatusSubmissionFailed {
		session.Status = models.AssessmentStatusInProgress
	}
	session.Touch()
	if err := uc.AssessmentRepository.UpdateState(ctx, session, expected); err != nil {
		uc.Log.Error("assessmentUsecase.mutate error updating session",
			zap.String(constvars.LoggingRequestIDKey, requestID),
			zap.String(constvars.LoggingAssessmentIDKey, assessmentID),
			zap.Int64(constvars.LoggingRevisionKey, expected),
			zap.Error(err),
		)
		return nil, err
	}

	return buildAssessmentResponse(template, session), nil
}

// findSession loads a session the caller is allowed to see. Sessions of
// another clinic or clinician look missing.
func (uc *assessmentUsecase) findSession(ctx context.Context, assessmentID string) (*models.AssessmentSession, error) {
	session, err := uc.AssessmentRepository.FindByID(ctx, assessmentID)
	if err != nil {
		return nil, err
	}
	if !utils.GetRecordScope(ctx).Allows(session.ClinicID, session.ClinicianID) {
		uc.Log.Warn("assessmentUsecase.findSession session outside caller scope",
			zap.String(constvars.LoggingRequestIDKey, utils.GetRequestID(ctx)),
			zap.String(constvars.LoggingAssessmentIDKey, assessmentID),
			zap.String(constvars.LoggingUserIDKey, utils.GetUserID(ctx)),
		)
		return nil, exceptions.ErrRecordOutOfScope(nil, assessmentID)
	}
	return session, nil
}

func (uc *assessmentUsecase) load(ctx context.Context, assessmentID string) (*models.AssessmentSession, *clinimetrix.Template, error) {
	session, err := uc.findSession(ctx, assessmentID)
	if err != nil {
		return nil, nil, err
	}
	template, err := uc.sessionTemplate(ctx, session)
	if err != nil {
		return nil, nil, err
	}
	return session, template, nil
}

// sessionTemplate returns the template the session started on. Sessions
// stored without a snapshot use the served template only while its version
// is unchanged, since state pointers index into its sections.
func (uc *assessmentUsecase) sessionTemplate(ctx context.Context, session *models.AssessmentSession) (*clinimetrix.Template, error) {
	if session.Template != nil {
		return session.Template, nil
	}
	template, err := uc.TemplateUsecase.GetTemplate(ctx, session.TemplateID)
	if err != nil {
		return nil, err
	}
	if session.TemplateVersion != "" && template.Version != session.TemplateVersion {
		return nil, exceptions.ErrTemplateVersionChanged(nil, session.TemplateID, template.Version, session.TemplateVersion)
	}
	return template, nil
}

func (uc *assessmentUsecase) loadActive(ctx context.Context, assessmentID string) (*models.AssessmentSession, *clinimetrix.Template, error) {
	session, template, err := uc.load(ctx, assessmentID)
	if err != nil {
		return nil, nil, err
	}
	if err := checkActive(session); err != nil {
		return nil, nil, err
	}
	return session, template, nil
}

func checkActive(session *models.AssessmentSession) error {
	switch {
	case session.IsEditable():
		return nil
	case session.Status == models.AssessmentStatusSubmitting:
		return exceptions.ErrAssessmentSubmitting(nil, session.ID)
	case session.Status == models.AssessmentStatusCompleted, session.Status == models.AssessmentStatusPendingSubmission:
		return exceptions.ErrAssessmentCompleted(nil)
	default:
		return exceptions.ErrAssessmentNotActive(nil)
	}
}

// mapNavigationError turns navigator errors into client errors. itemID is
// used when the error itself does not name the item.
func mapNavigationError(err error, itemID string) error {
	var requiredErr *clinimetrix.RequiredItemError
	var missingErr *clinimetrix.MissingRequiredError
	var invalidErr *clinimetrix.InvalidResponseError

	switch {
	case errors.As(err, &requiredErr):
		return exceptions.ErrRequiredItemUnanswered(err, requiredErr.ItemID).
			WithDetails(map[string]any{"item_id": requiredErr.ItemID})
	case errors.As(err, &missingErr):
		return exceptions.ErrRequiredItemsMissing(err).
			WithDetails(map[string]any{"missing_item_ids": missingErr.ItemIDs})
	case errors.As(err, &invalidErr):
		return exceptions.ErrInvalidResponse(err, invalidErr.ItemID).
			WithDetails(map[string]any{"item_id": invalidErr.ItemID, "reason": invalidErr.Err.Error()})
	case errors.Is(err, clinimetrix.ErrAlreadyCompleted):
		return exceptions.ErrAssessmentCompleted(err)
	case errors.Is(err, clinimetrix.ErrAtFirstItem):
		return exceptions.ErrAlreadyAtFirstItem(err)
	case errors.Is(err, clinimetrix.ErrPositionOutOfRange), errors.Is(err, clinimetrix.ErrInvalidStatePointer):
		return exceptions.ErrPositionOutOfRange(err)
	case errors.Is(err, clinimetrix.ErrUnknownItem):
		return exceptions.ErrUnknownItem(err, itemID)
	default:
		return exceptions.ErrServerProcess(err)
	}
}

func buildAssessmentResponse(template *clinimetrix.Template, session *models.AssessmentSession) *responses.Assessment {
	state := session.State
	nav := clinimetrix.NewNavigator(template, &state)

	response := &responses.Assessment{
		ID:                 session.ID,
		TemplateID:         session.TemplateID,
		TemplateName:       template.Name,
		PatientID:          session.PatientID,
		RemoteAssessmentID: session.RemoteAssessmentID,
		Status:             string(session.Status),
		State:              state,
		Progress:           nav.Progress(),
		Revision:           session.Revision,
		SavedRevision:      session.SavedRevision,
		LastSavedAt:        session.LastSavedAt,
		Results:            session.Results,
		CompletedAt:        session.CompletedAt,
	}

	if !state.Completed {
		if item, err := nav.CurrentItem(); err == nil {
			section := template.Sections[state.CurrentSectionIndex]
			response.CurrentSection = &responses.AssessmentSection{
				Index:        state.CurrentSectionIndex,
				ID:           section.ID,
				Title:        section.Title,
				Instructions: section.Instructions,
			}
			response.CurrentItem = &item
			response.CurrentOptions = template.ResolveOptions(item)
			response.CanNavigateNext = nav.CanNavigateNext()
			response.IsLastItem = nav.IsLastItem()
		}
	}
	return response
}
