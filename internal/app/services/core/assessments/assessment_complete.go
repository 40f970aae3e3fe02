package assessments

import (
	"bytes"
	"context"
	"fmt"
	"mindhub-service/internal/app/models"
	"mindhub-service/internal/app/services/backend"
	"mindhub-service/internal/app/services/shared/submissionqueue"
	"mindhub-service/internal/pkg/clinimetrix"
	"mindhub-service/internal/pkg/constvars"
	"mindhub-service/internal/pkg/dto/requests"
	"mindhub-service/internal/pkg/dto/responses"
	"mindhub-service/internal/pkg/exceptions"
	"mindhub-service/internal/pkg/utils"
	"time"

	"github.com/goccy/go-json"
	"go.uber.org/zap"
)

// CompleteAssessment submits every response for scoring. The bool result is
// true when the backend was unreachable and the submission was queued.
func (uc *assessmentUsecase) CompleteAssessment(ctx context.Context, assessmentID string) (*responses.Assessment, bool, error) {
	requestID := utils.GetRequestID(ctx)
	uc.Log.Info("assessmentUsecase.CompleteAssessment called",
		zap.String(constvars.LoggingRequestIDKey, requestID),
		zap.String(constvars.LoggingAssessmentIDKey, assessmentID),
	)

	lockKey := fmt.Sprintf(constvars.RedisKeyAssessmentSaveFormat, assessmentID)
	lockTTL := time.Duration(uc.InternalConfig.Assessment.SaveLockTTLInSeconds) * time.Second
	acquired, lockValue, err := uc.LockerService.TryLock(ctx, lockKey, lockTTL)
	if err != nil {
		return nil, false, err
	}
	if !acquired {
		return nil, false, exceptions.ErrSaveInProgress(nil, assessmentID)
	}
	defer func() {
		if err := uc.LockerService.Unlock(context.WithoutCancel(ctx), lockKey, lockValue); err != nil {
			uc.Log.Warn("assessmentUsecase.CompleteAssessment error releasing lock",
				zap.String(constvars.LoggingRequestIDKey, requestID),
				zap.String(constvars.LoggingRedisKey, lockKey),
				zap.Error(err),
			)
		}
	}()

	session, template, err := uc.load(ctx, assessmentID)
	if err != nil {
		return nil, false, err
	}

	switch session.Status {
	case models.AssessmentStatusPendingSubmission:
		return buildAssessmentResponse(template, session), true, nil
	case models.AssessmentStatusSubmitting:
		// An earlier attempt claimed the session and never finished; the
		// claimed responses are final so submit them again.
		uc.Log.Warn("assessmentUsecase.CompleteAssessment resuming interrupted submission",
			zap.String(constvars.LoggingRequestIDKey, requestID),
			zap.String(constvars.LoggingAssessmentIDKey, assessmentID),
		)
	default:
		if err := checkActive(session); err != nil {
			return nil, false, err
		}
		if err := uc.claimForSubmission(ctx, session, template); err != nil {
			return nil, false, err
		}
	}

	expected := session.Revision
	completedAt := uc.now()
	if session.CompletedAt != nil {
		completedAt = *session.CompletedAt
	}
	results, err := uc.ClinimetrixClient.SubmitAssessment(ctx, session.RemoteAssessmentID, &requests.SubmitAssessment{
		Responses:   session.State.Responses,
		CompletedAt: completedAt.Format(time.RFC3339),
	})
	if err != nil {
		if !backend.IsNetworkError(err) {
			uc.Log.Error("assessmentUsecase.CompleteAssessment backend rejected submission",
				zap.String(constvars.LoggingRequestIDKey, requestID),
				zap.String(constvars.LoggingAssessmentIDKey, assessmentID),
				zap.Error(err),
			)
			uc.reopen(ctx, session, expected)
			return nil, false, err
		}
		return uc.queueSubmission(ctx, session, template, expected, completedAt, err)
	}

	session.Status = models.AssessmentStatusCompleted
	session.CompletedAt = &completedAt
	session.Results = resultsToMap(results)
	session.ReportObjectKey = uc.exportReport(ctx, template, session)
	session.Touch()
	if err := uc.AssessmentRepository.UpdateState(ctx, session, expected); err != nil {
		uc.Log.Error("assessmentUsecase.CompleteAssessment error updating session",
			zap.String(constvars.LoggingRequestIDKey, requestID),
			zap.Error(err),
		)
		return nil, false, err
	}
	uc.markSubmitted(ctx, session)

	uc.Log.Info("assessmentUsecase.CompleteAssessment succeeded",
		zap.String(constvars.LoggingRequestIDKey, requestID),
		zap.String(constvars.LoggingAssessmentIDKey, assessmentID),
	)
	return buildAssessmentResponse(template, session), false, nil
}

// claimForSubmission checks every required item and persists the session as
// submitting. From then on answers and navigation are refused, and any edit
// that read the session earlier loses its revision check.
func (uc *assessmentUsecase) claimForSubmission(ctx context.Context, session *models.AssessmentSession, template *clinimetrix.Template) error {
	requestID := utils.GetRequestID(ctx)

	expected := session.Revision
	nav := clinimetrix.NewNavigator(template, &session.State)
	if err := nav.Complete(); err != nil {
		uc.Log.Info("assessmentUsecase.CompleteAssessment required items missing",
			zap.String(constvars.LoggingRequestIDKey, requestID),
			zap.String(constvars.LoggingAssessmentIDKey, session.ID),
			zap.Error(err),
		)
		return mapNavigationError(err, "")
	}

	completedAt := uc.now()
	session.Status = models.AssessmentStatusSubmitting
	session.CompletedAt = &completedAt
	session.Touch()
	if err := uc.AssessmentRepository.UpdateState(ctx, session, expected); err != nil {
		uc.Log.Info("assessmentUsecase.CompleteAssessment session changed before submission",
			zap.String(constvars.LoggingRequestIDKey, requestID),
			zap.String(constvars.LoggingAssessmentIDKey, session.ID),
			zap.Error(err),
		)
		return err
	}
	return nil
}

// reopen hands a claimed session back to the clinician when its submission
// will not be retried.
func (uc *assessmentUsecase) reopen(ctx context.Context, session *models.AssessmentSession, expected int64) {
	session.Status = models.AssessmentStatusInProgress
	session.State.Completed = false
	session.CompletedAt = nil
	session.Touch()
	if err := uc.AssessmentRepository.UpdateState(ctx, session, expected); err != nil {
		uc.Log.Error("assessmentUsecase.reopen error updating session",
			zap.String(constvars.LoggingRequestIDKey, utils.GetRequestID(ctx)),
			zap.String(constvars.LoggingAssessmentIDKey, session.ID),
			zap.Error(err),
		)
	}
}

// queueSubmission parks a claimed session on the submission queue. If the
// queue is also down the caller gets the original backend error and the
// session is reopened.
func (uc *assessmentUsecase) queueSubmission(
	ctx context.Context,
	session *models.AssessmentSession,
	template *clinimetrix.Template,
	expected int64,
	completedAt time.Time,
	cause error,
) (*responses.Assessment, bool, error) {
	requestID := utils.GetRequestID(ctx)

	_, err := uc.SubmissionQueue.Enqueue(ctx, &submissionqueue.EnqueueInput{
		Message: submissionqueue.SubmissionMessage{
			ID:                 utils.GenerateID(),
			AssessmentID:       session.ID,
			RemoteAssessmentID: session.RemoteAssessmentID,
			Responses:          session.State.Responses,
			CompletedAt:        completedAt.Format(time.RFC3339),
			RequestID:          requestID,
		},
	})
	if err != nil {
		uc.Log.Error("assessmentUsecase.queueSubmission error enqueueing",
			zap.String(constvars.LoggingRequestIDKey, requestID),
			zap.String(constvars.LoggingAssessmentIDKey, session.ID),
			zap.Error(err),
		)
		uc.reopen(ctx, session, expected)
		return nil, false, cause
	}

	session.Status = models.AssessmentStatusPendingSubmission
	session.CompletedAt = &completedAt
	session.Touch()
	if err := uc.AssessmentRepository.UpdateState(ctx, session, expected); err != nil {
		return nil, false, err
	}

	uc.Log.Warn("assessmentUsecase.queueSubmission backend unreachable, submission queued",
		zap.String(constvars.LoggingRequestIDKey, requestID),
		zap.String(constvars.LoggingAssessmentIDKey, session.ID),
		zap.Error(cause),
	)
	return buildAssessmentResponse(template, session), true, nil
}

// ApplySubmissionResults finishes a queued completion once the backend has
// scored it. Sessions no longer pending are left alone.
func (uc *assessmentUsecase) ApplySubmissionResults(ctx context.Context, assessmentID string, results *responses.AssessmentResults) error {
	requestID := utils.GetRequestID(ctx)
	uc.Log.Info("assessmentUsecase.ApplySubmissionResults called",
		zap.String(constvars.LoggingRequestIDKey, requestID),
		zap.String(constvars.LoggingAssessmentIDKey, assessmentID),
	)

	session, err := uc.AssessmentRepository.FindByID(ctx, assessmentID)
	if err != nil {
		return err
	}
	if session.Status != models.AssessmentStatusPendingSubmission {
		uc.Log.Info("assessmentUsecase.ApplySubmissionResults session not pending, ignoring",
			zap.String(constvars.LoggingRequestIDKey, requestID),
			zap.String(constvars.LoggingAssessmentIDKey, assessmentID),
		)
		return nil
	}

	expected := session.Revision
	session.Status = models.AssessmentStatusCompleted
	session.Results = resultsToMap(results)
	if session.CompletedAt == nil {
		completedAt := uc.now()
		session.CompletedAt = &completedAt
	}
	if template, err := uc.sessionTemplate(ctx, session); err == nil {
		session.ReportObjectKey = uc.exportReport(ctx, template, session)
	}
	session.Touch()
	if err := uc.AssessmentRepository.UpdateState(ctx, session, expected); err != nil {
		uc.Log.Error("assessmentUsecase.ApplySubmissionResults error updating session",
			zap.String(constvars.LoggingRequestIDKey, requestID),
			zap.Error(err),
		)
		return err
	}
	uc.markSubmitted(ctx, session)
	return nil
}

// MarkSubmissionFailed reopens a queued session whose submission was given
// up on, so the clinician can review it and complete it again.
func (uc *assessmentUsecase) MarkSubmissionFailed(ctx context.Context, assessmentID string) error {
	requestID := utils.GetRequestID(ctx)
	uc.Log.Info("assessmentUsecase.MarkSubmissionFailed called",
		zap.String(constvars.LoggingRequestIDKey, requestID),
		zap.String(constvars.LoggingAssessmentIDKey, assessmentID),
	)

	session, err := uc.AssessmentRepository.FindByID(ctx, assessmentID)
	if err != nil {
		return err
	}
	if session.Status != models.AssessmentStatusPendingSubmission {
		uc.Log.Info("assessmentUsecase.MarkSubmissionFailed session not pending, ignoring",
			zap.String(constvars.LoggingRequestIDKey, requestID),
			zap.String(constvars.LoggingAssessmentIDKey, assessmentID),
		)
		return nil
	}

	expected := session.Revision
	session.Status = models.AssessmentStatusSubmissionFailed
	session.State.Completed = false
	session.CompletedAt = nil
	session.Touch()
	if err := uc.AssessmentRepository.UpdateState(ctx, session, expected); err != nil {
		uc.Log.Error("assessmentUsecase.MarkSubmissionFailed error updating session",
			zap.String(constvars.LoggingRequestIDKey, requestID),
			zap.Error(err),
		)
		return err
	}

	uc.Log.Warn("assessmentUsecase.MarkSubmissionFailed session reopened after dead-lettered submission",
		zap.String(constvars.LoggingRequestIDKey, requestID),
		zap.String(constvars.LoggingAssessmentIDKey, assessmentID),
	)
	return nil
}

// GetReport returns a presigned link to the exported report. The export is
// retried here when it failed at completion time.
func (uc *assessmentUsecase) GetReport(ctx context.Context, assessmentID string) (*responses.Attachment, error) {
	requestID := utils.GetRequestID(ctx)
	uc.Log.Info("assessmentUsecase.GetReport called",
		zap.String(constvars.LoggingRequestIDKey, requestID),
		zap.String(constvars.LoggingAssessmentIDKey, assessmentID),
	)

	session, template, err := uc.load(ctx, assessmentID)
	if err != nil {
		return nil, err
	}
	if session.Status != models.AssessmentStatusCompleted {
		return nil, exceptions.ErrReportNotAvailable(nil, assessmentID)
	}

	if session.ReportObjectKey == "" {
		session.ReportObjectKey = uc.exportReport(ctx, template, session)
		if session.ReportObjectKey == "" {
			return nil, exceptions.ErrReportNotAvailable(nil, assessmentID)
		}
		expected := session.Revision
		session.Touch()
		if err := uc.AssessmentRepository.UpdateState(ctx, session, expected); err != nil {
			return nil, err
		}
	}

	expiry := time.Duration(uc.InternalConfig.Minio.MinioPreSignedUrlObjectExpiryTimeInHours) * time.Hour
	url, err := uc.Storage.PresignedGetURL(ctx, uc.InternalConfig.Minio.BucketName, session.ReportObjectKey, expiry)
	if err != nil {
		return nil, err
	}

	return &responses.Attachment{
		ObjectKey:   session.ReportObjectKey,
		URL:         url,
		ContentType: constvars.MIMEApplicationJSON,
		ExpiresAt:   uc.now().Add(expiry),
	}, nil
}

type assessmentReport struct {
	AssessmentID    string                 `json:"assessment_id"`
	TemplateID      string                 `json:"template_id"`
	TemplateName    string                 `json:"template_name"`
	TemplateVersion string                 `json:"template_version,omitempty"`
	PatientID       string                 `json:"patient_id"`
	ClinicianID     string                 `json:"clinician_id,omitempty"`
	Responses       map[string]interface{} `json:"responses"`
	Results         map[string]interface{} `json:"results,omitempty"`
	CompletedAt     *time.Time             `json:"completed_at,omitempty"`
}

// exportReport uploads the JSON report and returns its object key, or ""
// when the upload failed. A missing report never fails a completion.
func (uc *assessmentUsecase) exportReport(ctx context.Context, template *clinimetrix.Template, session *models.AssessmentSession) string {
	requestID := utils.GetRequestID(ctx)

	body, err := json.Marshal(assessmentReport{
		AssessmentID:    session.ID,
		TemplateID:      session.TemplateID,
		TemplateName:    template.Name,
		TemplateVersion: session.TemplateVersion,
		PatientID:       session.PatientID,
		ClinicianID:     session.ClinicianID,
		Responses:       session.State.Responses,
		Results:         session.Results,
		CompletedAt:     session.CompletedAt,
	})
	if err != nil {
		uc.Log.Warn("assessmentUsecase.exportReport error encoding report",
			zap.String(constvars.LoggingRequestIDKey, requestID),
			zap.Error(err),
		)
		return ""
	}

	objectKey := fmt.Sprintf(constvars.MinioAssessmentReportFormat, session.ID)
	_, err = uc.Storage.UploadObject(ctx, uc.InternalConfig.Minio.BucketName, objectKey, bytes.NewReader(body), int64(len(body)), constvars.MIMEApplicationJSON)
	if err != nil {
		uc.Log.Warn("assessmentUsecase.exportReport error uploading report",
			zap.String(constvars.LoggingRequestIDKey, requestID),
			zap.String(constvars.LoggingObjectNameKey, objectKey),
			zap.Error(err),
		)
		return ""
	}
	return objectKey
}

// markSubmitted records the final revision as saved, since the submission
// carried every response.
func (uc *assessmentUsecase) markSubmitted(ctx context.Context, session *models.AssessmentSession) {
	if _, err := uc.AssessmentRepository.MarkSaved(ctx, session.ID, session.Revision, uc.now(), false); err != nil {
		uc.Log.Warn("assessmentUsecase.markSubmitted error marking saved",
			zap.String(constvars.LoggingRequestIDKey, utils.GetRequestID(ctx)),
			zap.String(constvars.LoggingAssessmentIDKey, session.ID),
			zap.Error(err),
		)
	}
}

func resultsToMap(results *responses.AssessmentResults) map[string]interface{} {
	if results == nil {
		return nil
	}
	raw, err := json.Marshal(results)
	if err != nil {
		return nil
	}
	out := make(map[string]interface{})
	if err := json.Unmarshal(raw, &out); err != nil {
		return nil
	}
	return out
}
