package assessments

import (
	"context"
	"errors"
	"mindhub-service/internal/app/config"
	"mindhub-service/internal/app/contracts"
	"mindhub-service/internal/app/services/backend"
	"mindhub-service/internal/app/services/shared/submissionqueue"
	"mindhub-service/internal/pkg/constvars"
	"mindhub-service/internal/pkg/dto/requests"
	"mindhub-service/internal/pkg/exceptions"
	"mindhub-service/internal/pkg/utils"
	"time"

	"github.com/robfig/cron/v3"
	"go.uber.org/zap"
)

const (
	defaultAutosaveCronSpec   = "@every 1m"
	defaultSubmissionCronSpec = "@every 1m"
	leaderLockTTL             = 2 * time.Minute
)

// scheduler wraps the cron lifecycle shared by both workers.
type scheduler struct {
	log    *zap.Logger
	name   string
	cron   *cron.Cron
	runCtx context.Context
	cancel context.CancelFunc
}

func (s *scheduler) start(ctx context.Context, spec, fallback string, job func(ctx context.Context)) {
	s.runCtx, s.cancel = context.WithCancel(ctx)
	c := cron.New()
	if spec == "" {
		spec = fallback
	}
	_, err := c.AddFunc(spec, func() { job(s.runCtx) })
	if err != nil {
		s.log.Warn(s.name+": failed to schedule with provided cron spec; falling back",
			zap.String("spec", spec),
			zap.String("fallback", fallback),
			zap.Error(err),
		)
		c = cron.New()
		_, _ = c.AddFunc(fallback, func() { job(s.runCtx) })
	}
	c.Start()
	s.cron = c
}

// stop cancels in-flight runs and waits for them to return.
func (s *scheduler) stop() {
	if s.cancel != nil {
		s.cancel()
	}
	if s.cron != nil {
		<-s.cron.Stop().Done()
	}
}

// runAsLeader runs fn only on the replica holding key, refreshing the lock
// at half its TTL until fn returns.
func runAsLeader(ctx context.Context, log *zap.Logger, locker contracts.LockerService, key string, fn func(ctx context.Context)) {
	acquired, token, err := locker.TryLock(ctx, key, leaderLockTTL)
	if err != nil {
		log.Warn("leader lock attempt failed", zap.String(constvars.LoggingRedisKey, key), zap.Error(err))
		return
	}
	if !acquired {
		log.Debug("leader lock held by another instance", zap.String(constvars.LoggingRedisKey, key))
		return
	}
	defer locker.Unlock(context.WithoutCancel(ctx), key, token)

	refreshCtx, cancelRefresh := context.WithCancel(ctx)
	done := make(chan struct{})
	defer func() {
		cancelRefresh()
		<-done
	}()
	go func() {
		defer close(done)
		tick := time.NewTicker(leaderLockTTL / 2)
		defer tick.Stop()
		for {
			select {
			case <-refreshCtx.Done():
				return
			case <-tick.C:
				if err := locker.Refresh(refreshCtx, key, token, leaderLockTTL); err != nil {
					log.Warn("failed to refresh leader lock TTL", zap.String(constvars.LoggingRedisKey, key), zap.Error(err))
				}
			}
		}
	}()

	fn(ctx)
}

// AutosaveWorker saves sessions whose browser tab went away with unsaved
// answers.
type AutosaveWorker struct {
	scheduler
	cfg     *config.InternalConfig
	locker  contracts.LockerService
	usecase contracts.AssessmentUsecase
}

func NewAutosaveWorker(log *zap.Logger, cfg *config.InternalConfig, locker contracts.LockerService, usecase contracts.AssessmentUsecase) *AutosaveWorker {
	return &AutosaveWorker{
		scheduler: scheduler{log: log, name: "assessments.autosaveWorker"},
		cfg:       cfg,
		locker:    locker,
		usecase:   usecase,
	}
}

func (w *AutosaveWorker) Start(ctx context.Context) {
	w.start(ctx, w.cfg.Assessment.AutosaveWorkerCronSpec, defaultAutosaveCronSpec, w.RunOnce)
}

func (w *AutosaveWorker) Stop() {
	w.stop()
}

func (w *AutosaveWorker) RunOnce(ctx context.Context) {
	ctx = context.WithValue(ctx, constvars.CONTEXT_REQUEST_ID_KEY, utils.GenerateRequestID())
	runAsLeader(ctx, w.log, w.locker, constvars.RedisKeyAutosaveWorkerLeader, func(ctx context.Context) {
		saved, err := w.usecase.FlushIdleSessions(ctx)
		if err != nil {
			w.log.Warn("assessments.autosaveWorker: flush failed",
				zap.String(constvars.LoggingRequestIDKey, utils.GetRequestID(ctx)),
				zap.Error(err),
			)
			return
		}
		if saved > 0 {
			w.log.Info("assessments.autosaveWorker: flushed idle sessions",
				zap.String(constvars.LoggingRequestIDKey, utils.GetRequestID(ctx)),
				zap.Int(constvars.LoggingSessionCountKey, saved),
			)
		}
	})
}

// SubmissionWorker drains completions that could not reach the clinical
// backend when the clinician finished them.
type SubmissionWorker struct {
	scheduler
	cfg     *config.InternalConfig
	locker  contracts.LockerService
	queue   contracts.SubmissionQueue
	client  contracts.ClinimetrixClient
	usecase contracts.AssessmentUsecase
}

func NewSubmissionWorker(
	log *zap.Logger,
	cfg *config.InternalConfig,
	locker contracts.LockerService,
	queue contracts.SubmissionQueue,
	client contracts.ClinimetrixClient,
	usecase contracts.AssessmentUsecase,
) *SubmissionWorker {
	return &SubmissionWorker{
		scheduler: scheduler{log: log, name: "assessments.submissionWorker"},
		cfg:       cfg,
		locker:    locker,
		queue:     queue,
		client:    client,
		usecase:   usecase,
	}
}

func (w *SubmissionWorker) Start(ctx context.Context) {
	w.start(ctx, w.cfg.Queue.SubmissionWorkerCronSpec, defaultSubmissionCronSpec, w.RunOnce)
}

func (w *SubmissionWorker) Stop() {
	w.stop()
}

func (w *SubmissionWorker) RunOnce(ctx context.Context) {
	ctx = context.WithValue(ctx, constvars.CONTEXT_REQUEST_ID_KEY, utils.GenerateRequestID())
	runAsLeader(ctx, w.log, w.locker, constvars.RedisKeySubmissionWorkerLock, w.drain)
}

func (w *SubmissionWorker) drain(ctx context.Context) {
	requestID := utils.GetRequestID(ctx)

	fetched, err := w.queue.FetchN(ctx, &submissionqueue.FetchNInput{Max: w.cfg.Queue.MaxQueue})
	if err != nil {
		w.log.Error("assessments.submissionWorker: fetch failed",
			zap.String(constvars.LoggingRequestIDKey, requestID),
			zap.Error(err),
		)
		return
	}

	for _, item := range fetched.Items {
		w.process(ctx, item)
	}
}

func (w *SubmissionWorker) process(ctx context.Context, item submissionqueue.QueuedItem) {
	requestID := utils.GetRequestID(ctx)
	msg := item.Message
	logFields := []zap.Field{
		zap.String(constvars.LoggingRequestIDKey, requestID),
		zap.String(constvars.LoggingMessageIDKey, msg.ID),
		zap.String(constvars.LoggingAssessmentIDKey, msg.AssessmentID),
	}

	results := msg.Results
	if results == nil {
		var err error
		results, err = w.client.SubmitAssessment(backend.WithServiceAccount(ctx), msg.RemoteAssessmentID, &requests.SubmitAssessment{
			Responses:   msg.Responses,
			CompletedAt: msg.CompletedAt,
		})
		if err != nil {
			w.retry(ctx, item, err, logFields)
			return
		}
	}

	if err := w.usecase.ApplySubmissionResults(ctx, msg.AssessmentID, results); err != nil {
		if isNotFound(err) {
			w.log.Warn("assessments.submissionWorker: session gone, dropping results", append(logFields, zap.Error(err))...)
			w.ack(ctx, item.DeliveryTag, logFields)
			return
		}
		// The backend already scored it; keep the scores and only retry the
		// local update.
		w.log.Error("assessments.submissionWorker: storing results failed, requeue with results", append(logFields, zap.Error(err))...)
		msg.Results = results
		w.requeue(ctx, item.DeliveryTag, msg, logFields)
		return
	}
	w.ack(ctx, item.DeliveryTag, logFields)
}

// retry handles a submission the backend did not accept.
func (w *SubmissionWorker) retry(ctx context.Context, item submissionqueue.QueuedItem, cause error, logFields []zap.Field) {
	msg := item.Message

	if backend.IsAuthError(cause) {
		// Credentials problem on our side; the submission itself is fine.
		w.log.Warn("assessments.submissionWorker: auth rejected, requeue without counting", append(logFields, zap.Error(cause))...)
		w.requeue(ctx, item.DeliveryTag, msg, logFields)
		return
	}

	msg.FailedCount++
	logFields = append(logFields, zap.Int(constvars.LoggingFailedCountKey, msg.FailedCount))
	if msg.FailedCount < w.cfg.Queue.ThrottleRetry {
		w.log.Warn("assessments.submissionWorker: submission failed, requeue", append(logFields, zap.Error(cause))...)
		w.requeue(ctx, item.DeliveryTag, msg, logFields)
		return
	}

	w.log.Error("assessments.submissionWorker: retries exhausted, moving to DLQ", append(logFields, zap.Error(cause))...)
	if _, err := w.queue.EnqueueToDeadQueue(ctx, &submissionqueue.EnqueueToDLQInput{Message: msg}); err != nil {
		w.log.Error("assessments.submissionWorker: DLQ publish failed", append(logFields, zap.Error(err))...)
		return
	}
	if err := w.usecase.MarkSubmissionFailed(ctx, msg.AssessmentID); err != nil {
		w.log.Error("assessments.submissionWorker: reopening session failed", append(logFields, zap.Error(err))...)
	}
	w.ack(ctx, item.DeliveryTag, logFields)
}

// requeue publishes msg to the tail of the queue and acks the original
// delivery. A failed publish leaves the delivery unacked for redelivery.
func (w *SubmissionWorker) requeue(ctx context.Context, tag uint64, msg submissionqueue.SubmissionMessage, logFields []zap.Field) {
	if _, err := w.queue.Reenqueue(ctx, &submissionqueue.ReenqueueInput{Message: msg}); err != nil {
		w.log.Error("assessments.submissionWorker: requeue failed", append(logFields, zap.Error(err))...)
		return
	}
	w.ack(ctx, tag, logFields)
}

func (w *SubmissionWorker) ack(ctx context.Context, tag uint64, logFields []zap.Field) {
	if _, err := w.queue.AckMessage(ctx, &submissionqueue.AckMessageInput{DeliveryTag: tag}); err != nil {
		w.log.Error("assessments.submissionWorker: ack failed", append(logFields, zap.Error(err))...)
	}
}

func isNotFound(err error) bool {
	var customErr *exceptions.CustomError
	return errors.As(err, &customErr) && customErr.StatusCode == constvars.StatusNotFound
}
