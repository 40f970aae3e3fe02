package assessments

import (
	"context"
	"fmt"
	"mindhub-service/internal/app/services/backend"
	"mindhub-service/internal/app/services/shared/ratelimiter"
	"mindhub-service/internal/pkg/constvars"
	"mindhub-service/internal/pkg/dto/requests"
	"mindhub-service/internal/pkg/dto/responses"
	"mindhub-service/internal/pkg/exceptions"
	"mindhub-service/internal/pkg/utils"
	"time"

	"go.uber.org/zap"
)

const (
	saveTriggerManual = "manual"
	saveTriggerAuto   = "auto"
	saveTriggerWorker = "worker"

	autosaveLimiterGroup = "AUTOSAVE"

	SkipReasonSaveInProgress = "save_in_progress"
	SkipReasonUpToDate       = "up_to_date"
	SkipReasonNoResponses    = "no_responses"
	SkipReasonThrottled      = "throttled"
	SkipReasonNotActive      = "not_active"
)

func (uc *assessmentUsecase) SaveAssessment(ctx context.Context, assessmentID string) (*responses.SaveAssessment, error) {
	return uc.saveSession(ctx, assessmentID, saveTriggerManual)
}

func (uc *assessmentUsecase) AutoSaveAssessment(ctx context.Context, assessmentID string) (*responses.SaveAssessment, error) {
	return uc.saveSession(ctx, assessmentID, saveTriggerAuto)
}

// FlushIdleSessions saves sessions with unsaved work that nobody touched for
// IdleAfterInSeconds, typically because the tab was closed.
func (uc *assessmentUsecase) FlushIdleSessions(ctx context.Context) (int, error) {
	requestID := utils.GetRequestID(ctx)
	cfg := uc.InternalConfig.Assessment

	idleBefore := uc.now().Add(-time.Duration(cfg.IdleAfterInSeconds) * time.Second)
	sessions, err := uc.AssessmentRepository.FindIdleDirty(ctx, idleBefore, cfg.AutosaveWorkerBatchSize)
	if err != nil {
		uc.Log.Error("assessmentUsecase.FlushIdleSessions error finding idle sessions",
			zap.String(constvars.LoggingRequestIDKey, requestID),
			zap.Error(err),
		)
		return 0, err
	}

	serviceCtx := backend.WithServiceAccount(ctx)
	saved := 0
	for _, session := range sessions {
		if ctx.Err() != nil {
			break
		}
		result, err := uc.saveSession(serviceCtx, session.ID, saveTriggerWorker)
		if err != nil {
			uc.Log.Warn("assessmentUsecase.FlushIdleSessions save failed",
				zap.String(constvars.LoggingRequestIDKey, requestID),
				zap.String(constvars.LoggingAssessmentIDKey, session.ID),
				zap.Error(err),
			)
			continue
		}
		if result.Saved {
			saved++
		}
	}

	uc.Log.Info("assessmentUsecase.FlushIdleSessions finished",
		zap.String(constvars.LoggingRequestIDKey, requestID),
		zap.Int(constvars.LoggingSessionCountKey, saved),
	)
	return saved, nil
}

// saveSession pushes the current state to the clinical backend under the
// per-session save lock. Only the manual trigger reports contention and
// inactive sessions as errors; the automatic triggers skip instead.
func (uc *assessmentUsecase) saveSession(ctx context.Context, assessmentID, trigger string) (*responses.SaveAssessment, error) {
	requestID := utils.GetRequestID(ctx)
	manual := trigger == saveTriggerManual
	uc.Log.Info("assessmentUsecase.saveSession called",
		zap.String(constvars.LoggingRequestIDKey, requestID),
		zap.String(constvars.LoggingAssessmentIDKey, assessmentID),
		zap.String(constvars.LoggingSaveTriggerKey, trigger),
	)

	lockKey := fmt.Sprintf(constvars.RedisKeyAssessmentSaveFormat, assessmentID)
	lockTTL := time.Duration(uc.InternalConfig.Assessment.SaveLockTTLInSeconds) * time.Second
	acquired, lockValue, err := uc.LockerService.TryLock(ctx, lockKey, lockTTL)
	if err != nil {
		return nil, err
	}
	if !acquired {
		if manual {
			return nil, exceptions.ErrSaveInProgress(nil, assessmentID)
		}
		return skipped(SkipReasonSaveInProgress, 0, nil), nil
	}
	defer func() {
		if err := uc.LockerService.Unlock(context.WithoutCancel(ctx), lockKey, lockValue); err != nil {
			uc.Log.Warn("assessmentUsecase.saveSession error releasing lock",
				zap.String(constvars.LoggingRequestIDKey, requestID),
				zap.String(constvars.LoggingRedisKey, lockKey),
				zap.Error(err),
			)
		}
	}()

	session, err := uc.findSession(ctx, assessmentID)
	if err != nil {
		return nil, err
	}

	if !session.IsActive() {
		if manual {
			if err := checkActive(session); err != nil {
				return nil, err
			}
			return nil, exceptions.ErrAssessmentNotActive(nil)
		}
		return skipped(SkipReasonNotActive, session.SavedRevision, session.LastSavedAt), nil
	}
	if !session.HasUnsavedWork() {
		return skipped(SkipReasonUpToDate, session.SavedRevision, session.LastSavedAt), nil
	}

	if !manual {
		if len(session.State.Responses) == 0 {
			return skipped(SkipReasonNoResponses, session.SavedRevision, session.LastSavedAt), nil
		}
		cooldown, err := uc.ResourceLimiter.ApplyCooldown(ctx, &ratelimiter.ApplyCooldownInput{
			ResourceName:     assessmentID,
			LimiterGroupName: autosaveLimiterGroup,
			Cooldown:         time.Duration(uc.InternalConfig.Assessment.AutoSaveIntervalInSeconds) * time.Second,
		})
		if err != nil {
			return nil, err
		}
		if !cooldown.Allowed {
			return skipped(SkipReasonThrottled, session.SavedRevision, session.LastSavedAt), nil
		}
	}

	revision := session.Revision
	err = uc.ClinimetrixClient.SaveProgress(ctx, session.RemoteAssessmentID, &requests.SaveAssessmentProgress{
		Responses:           session.State.Responses,
		CurrentSectionIndex: session.State.CurrentSectionIndex,
		CurrentItemIndex:    session.State.CurrentItemIndex,
		Revision:            revision,
	})
	if err != nil {
		uc.Log.Error("assessmentUsecase.saveSession error pushing progress",
			zap.String(constvars.LoggingRequestIDKey, requestID),
			zap.String(constvars.LoggingAssessmentIDKey, assessmentID),
			zap.Error(err),
		)
		return nil, err
	}

	savedAt := uc.now()
	advanced, err := uc.AssessmentRepository.MarkSaved(ctx, assessmentID, revision, savedAt, !manual)
	if err != nil {
		return nil, err
	}
	if !advanced {
		uc.Log.Info("assessmentUsecase.saveSession newer revision already saved",
			zap.String(constvars.LoggingRequestIDKey, requestID),
			zap.String(constvars.LoggingAssessmentIDKey, assessmentID),
			zap.Int64(constvars.LoggingRevisionKey, revision),
		)
	}

	uc.Log.Info("assessmentUsecase.saveSession succeeded",
		zap.String(constvars.LoggingRequestIDKey, requestID),
		zap.String(constvars.LoggingAssessmentIDKey, assessmentID),
		zap.String(constvars.LoggingSaveTriggerKey, trigger),
		zap.Int64(constvars.LoggingSavedRevisionKey, revision),
	)
	return &responses.SaveAssessment{
		Saved:         true,
		SavedRevision: revision,
		LastSavedAt:   &savedAt,
	}, nil
}

func skipped(reason string, savedRevision int64, lastSavedAt *time.Time) *responses.SaveAssessment {
	return &responses.SaveAssessment{
		Skipped:       true,
		Reason:        reason,
		SavedRevision: savedRevision,
		LastSavedAt:   lastSavedAt,
	}
}
