package assessments

import (
	"context"
	"fmt"
	"mindhub-service/internal/app/contracts"
	"mindhub-service/internal/app/services/shared/submissionqueue"
	"mindhub-service/internal/pkg/constvars"
	"mindhub-service/internal/pkg/dto/responses"
	"mindhub-service/internal/pkg/exceptions"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"
	"go.uber.org/zap"
)

// stubAssessmentUsecase records what the workers hand back to the usecase.
// Methods the workers never call are left to the nil embedded interface.
type stubAssessmentUsecase struct {
	contracts.AssessmentUsecase
	applied  []string
	failed   []string
	applyErr error
}

func (m *stubAssessmentUsecase) ApplySubmissionResults(ctx context.Context, assessmentID string, results *responses.AssessmentResults) error {
	if m.applyErr != nil {
		return m.applyErr
	}
	m.applied = append(m.applied, assessmentID)
	return nil
}

func (m *stubAssessmentUsecase) MarkSubmissionFailed(ctx context.Context, assessmentID string) error {
	m.failed = append(m.failed, assessmentID)
	return nil
}

func (m *stubAssessmentUsecase) FlushIdleSessions(ctx context.Context) (int, error) {
	return 0, nil
}

func queuedItem(tag uint64, failedCount int) submissionqueue.QueuedItem {
	return submissionqueue.QueuedItem{
		DeliveryTag: tag,
		Message: submissionqueue.SubmissionMessage{
			ID:                 fmt.Sprintf("msg-%d", tag),
			AssessmentID:       "a1",
			RemoteAssessmentID: "remote-a1",
			Responses:          map[string]interface{}{"q1": 1},
			CompletedAt:        "2026-03-02T10:00:00Z",
			FailedCount:        failedCount,
		},
	}
}

func newTestSubmissionWorker(client *MockClinimetrixClient, queue *MockSubmissionQueue, usecase *stubAssessmentUsecase) (*SubmissionWorker, *fakeLocker) {
	locker := newFakeLocker()
	return NewSubmissionWorker(zap.NewNop(), testConfig(), locker, queue, client, usecase), locker
}

func TestSubmissionWorker_Process(t *testing.T) {
	ctx := testContext()
	serviceAccount := mock.MatchedBy(func(ctx context.Context) bool {
		service, _ := ctx.Value(constvars.CONTEXT_SERVICE_ACCOUNT_KEY).(bool)
		return service
	})

	t.Run("success stores results and acks", func(t *testing.T) {
		client := new(MockClinimetrixClient)
		queue := new(MockSubmissionQueue)
		usecase := &stubAssessmentUsecase{}
		client.On("SubmitAssessment", serviceAccount, "remote-a1", mock.Anything).
			Return(&responses.AssessmentResults{Severity: "mild"}, nil)
		queue.On("AckMessage", mock.Anything, &submissionqueue.AckMessageInput{DeliveryTag: 7}).
			Return(&submissionqueue.AckMessageOutput{}, nil)

		w, _ := newTestSubmissionWorker(client, queue, usecase)
		w.process(ctx, queuedItem(7, 0))

		assert.Equal(t, []string{"a1"}, usecase.applied)
		queue.AssertExpectations(t)
		queue.AssertNotCalled(t, "Reenqueue", mock.Anything, mock.Anything)
	})

	t.Run("auth failure requeues without counting", func(t *testing.T) {
		client := new(MockClinimetrixClient)
		queue := new(MockSubmissionQueue)
		client.On("SubmitAssessment", mock.Anything, "remote-a1", mock.Anything).
			Return(nil, exceptions.ErrBackendUnauthorized(fmt.Errorf("401"), "clinimetrix"))
		queue.On("Reenqueue", mock.Anything, mock.MatchedBy(func(in *submissionqueue.ReenqueueInput) bool {
			return in.Message.FailedCount == 1
		})).Return(&submissionqueue.ReenqueueOutput{}, nil)
		queue.On("AckMessage", mock.Anything, mock.Anything).Return(&submissionqueue.AckMessageOutput{}, nil)

		w, _ := newTestSubmissionWorker(client, queue, &stubAssessmentUsecase{})
		w.process(ctx, queuedItem(1, 1))

		queue.AssertExpectations(t)
	})

	t.Run("network failure counts and requeues", func(t *testing.T) {
		client := new(MockClinimetrixClient)
		queue := new(MockSubmissionQueue)
		client.On("SubmitAssessment", mock.Anything, "remote-a1", mock.Anything).
			Return(nil, exceptions.ErrBackendUnavailable(fmt.Errorf("connection refused"), "clinimetrix"))
		queue.On("Reenqueue", mock.Anything, mock.MatchedBy(func(in *submissionqueue.ReenqueueInput) bool {
			return in.Message.FailedCount == 2
		})).Return(&submissionqueue.ReenqueueOutput{}, nil)
		queue.On("AckMessage", mock.Anything, mock.Anything).Return(&submissionqueue.AckMessageOutput{}, nil)

		w, _ := newTestSubmissionWorker(client, queue, &stubAssessmentUsecase{})
		w.process(ctx, queuedItem(1, 1))

		queue.AssertExpectations(t)
		queue.AssertNotCalled(t, "EnqueueToDeadQueue", mock.Anything, mock.Anything)
	})

	t.Run("exhausted retries go to the dead letter queue and reopen the session", func(t *testing.T) {
		client := new(MockClinimetrixClient)
		queue := new(MockSubmissionQueue)
		usecase := &stubAssessmentUsecase{}
		client.On("SubmitAssessment", mock.Anything, "remote-a1", mock.Anything).
			Return(nil, exceptions.ErrBackendUnavailable(fmt.Errorf("connection refused"), "clinimetrix"))
		queue.On("EnqueueToDeadQueue", mock.Anything, mock.MatchedBy(func(in *submissionqueue.EnqueueToDLQInput) bool {
			return in.Message.FailedCount == 3
		})).Return(&submissionqueue.EnqueueToDLQOutput{}, nil)
		queue.On("AckMessage", mock.Anything, mock.Anything).Return(&submissionqueue.AckMessageOutput{}, nil)

		w, _ := newTestSubmissionWorker(client, queue, usecase)
		w.process(ctx, queuedItem(1, 2))

		queue.AssertExpectations(t)
		queue.AssertNotCalled(t, "Reenqueue", mock.Anything, mock.Anything)
		assert.Equal(t, []string{"a1"}, usecase.failed)
	})

	t.Run("failed DLQ publish keeps the session pending", func(t *testing.T) {
		client := new(MockClinimetrixClient)
		queue := new(MockSubmissionQueue)
		usecase := &stubAssessmentUsecase{}
		client.On("SubmitAssessment", mock.Anything, "remote-a1", mock.Anything).
			Return(nil, exceptions.ErrBackendUnavailable(fmt.Errorf("connection refused"), "clinimetrix"))
		queue.On("EnqueueToDeadQueue", mock.Anything, mock.Anything).
			Return(nil, exceptions.ErrRabbitMQPublishMessage(fmt.Errorf("channel closed"), "assessment_submission_dlq"))

		w, _ := newTestSubmissionWorker(client, queue, usecase)
		w.process(ctx, queuedItem(1, 2))

		assert.Empty(t, usecase.failed)
		queue.AssertNotCalled(t, "AckMessage", mock.Anything, mock.Anything)
	})

	t.Run("results that cannot be stored are requeued with the scores", func(t *testing.T) {
		client := new(MockClinimetrixClient)
		queue := new(MockSubmissionQueue)
		usecase := &stubAssessmentUsecase{applyErr: exceptions.ErrMongoDBUpdateDocument(fmt.Errorf("primary stepped down"))}
		client.On("SubmitAssessment", mock.Anything, "remote-a1", mock.Anything).
			Return(&responses.AssessmentResults{Severity: "mild"}, nil).Once()
		var requeued submissionqueue.SubmissionMessage
		queue.On("Reenqueue", mock.Anything, mock.Anything).
			Run(func(args mock.Arguments) {
				requeued = args.Get(1).(*submissionqueue.ReenqueueInput).Message
			}).
			Return(&submissionqueue.ReenqueueOutput{}, nil)
		queue.On("AckMessage", mock.Anything, mock.Anything).Return(&submissionqueue.AckMessageOutput{}, nil)

		w, _ := newTestSubmissionWorker(client, queue, usecase)
		w.process(ctx, queuedItem(4, 1))

		require.NotNil(t, requeued.Results)
		assert.Equal(t, "mild", requeued.Results.Severity)
		assert.Equal(t, 1, requeued.FailedCount, "a local failure is not counted")
		queue.AssertCalled(t, "AckMessage", mock.Anything, &submissionqueue.AckMessageInput{DeliveryTag: 4})

		// the retry stores the carried scores without scoring again
		usecase.applyErr = nil
		w.process(ctx, submissionqueue.QueuedItem{DeliveryTag: 5, Message: requeued})
		assert.Equal(t, []string{"a1"}, usecase.applied)
		client.AssertNumberOfCalls(t, "SubmitAssessment", 1)
	})

	t.Run("results for a deleted session are dropped", func(t *testing.T) {
		client := new(MockClinimetrixClient)
		queue := new(MockSubmissionQueue)
		usecase := &stubAssessmentUsecase{applyErr: exceptions.ErrMongoDBNotDocument(fmt.Errorf("no documents"), "a1")}
		client.On("SubmitAssessment", mock.Anything, "remote-a1", mock.Anything).
			Return(&responses.AssessmentResults{Severity: "mild"}, nil)
		queue.On("AckMessage", mock.Anything, &submissionqueue.AckMessageInput{DeliveryTag: 6}).
			Return(&submissionqueue.AckMessageOutput{}, nil)

		w, _ := newTestSubmissionWorker(client, queue, usecase)
		w.process(ctx, queuedItem(6, 0))

		queue.AssertExpectations(t)
		queue.AssertNotCalled(t, "Reenqueue", mock.Anything, mock.Anything)
	})

	t.Run("failed requeue leaves the delivery unacked", func(t *testing.T) {
		client := new(MockClinimetrixClient)
		queue := new(MockSubmissionQueue)
		client.On("SubmitAssessment", mock.Anything, "remote-a1", mock.Anything).
			Return(nil, exceptions.ErrBackendUnavailable(fmt.Errorf("connection refused"), "clinimetrix"))
		queue.On("Reenqueue", mock.Anything, mock.Anything).
			Return(nil, exceptions.ErrRabbitMQPublishMessage(fmt.Errorf("channel closed"), "assessment_submission_queue"))

		w, _ := newTestSubmissionWorker(client, queue, &stubAssessmentUsecase{})
		w.process(ctx, queuedItem(1, 0))

		queue.AssertNotCalled(t, "AckMessage", mock.Anything, mock.Anything)
	})
}

func TestSubmissionWorker_RunOnceRespectsLeader(t *testing.T) {
	defer goleak.VerifyNone(t)

	client := new(MockClinimetrixClient)
	queue := new(MockSubmissionQueue)
	queue.On("FetchN", mock.Anything, &submissionqueue.FetchNInput{Max: 5}).
		Return(&submissionqueue.FetchNOutput{}, nil)

	w, locker := newTestSubmissionWorker(client, queue, &stubAssessmentUsecase{})

	locker.held[constvars.RedisKeySubmissionWorkerLock] = "other-replica"
	w.RunOnce(context.Background())
	queue.AssertNotCalled(t, "FetchN", mock.Anything, mock.Anything)

	delete(locker.held, constvars.RedisKeySubmissionWorkerLock)
	w.RunOnce(context.Background())
	queue.AssertNumberOfCalls(t, "FetchN", 1)
	assert.False(t, locker.isHeld(constvars.RedisKeySubmissionWorkerLock), "leader lock released after the run")
}

func TestWorkers_StartStopDoNotLeak(t *testing.T) {
	defer goleak.VerifyNone(t)

	cfg := testConfig()
	cfg.Assessment.AutosaveWorkerCronSpec = "not a cron spec"
	cfg.Queue.SubmissionWorkerCronSpec = "@every 1h"

	locker := newFakeLocker()
	autosave := NewAutosaveWorker(zap.NewNop(), cfg, locker, &stubAssessmentUsecase{})
	submission := NewSubmissionWorker(zap.NewNop(), cfg, locker, new(MockSubmissionQueue), new(MockClinimetrixClient), &stubAssessmentUsecase{})

	autosave.Start(context.Background())
	submission.Start(context.Background())

	autosave.Stop()
	submission.Stop()
}

func TestAutosaveWorker_RunOnce(t *testing.T) {
	defer goleak.VerifyNone(t)

	dirty := activeSession("a1")
	dirty.State.Responses["q1"] = 1
	dirty.Revision = 1
	f := newUsecaseFixture(dirty)
	f.client.On("SaveProgress", mock.Anything, "remote-a1", mock.Anything).Return(nil)

	w := NewAutosaveWorker(zap.NewNop(), testConfig(), f.locker, f.uc)
	w.RunOnce(context.Background())

	assert.Equal(t, int64(1), f.repo.get("a1").SavedRevision)
	assert.False(t, f.locker.isHeld(constvars.RedisKeyAutosaveWorkerLeader))
}
