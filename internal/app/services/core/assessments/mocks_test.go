package assessments

import (
	"context"
	"fmt"
	"io"
	"mindhub-service/internal/app/config"
	"mindhub-service/internal/app/models"
	"mindhub-service/internal/app/services/shared/ratelimiter"
	"mindhub-service/internal/app/services/shared/submissionqueue"
	"mindhub-service/internal/pkg/clinimetrix"
	"mindhub-service/internal/pkg/dto/requests"
	"mindhub-service/internal/pkg/dto/responses"
	"mindhub-service/internal/pkg/exceptions"
	"sync"
	"time"

	"github.com/stretchr/testify/mock"
	"go.uber.org/zap"
)

type MockClinimetrixClient struct {
	mock.Mock
}

func (m *MockClinimetrixClient) ListTemplates(ctx context.Context) ([]clinimetrix.TemplateSummary, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]clinimetrix.TemplateSummary), args.Error(1)
}

func (m *MockClinimetrixClient) GetTemplate(ctx context.Context, templateID string) (*clinimetrix.Template, error) {
	args := m.Called(ctx, templateID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*clinimetrix.Template), args.Error(1)
}

func (m *MockClinimetrixClient) CreateAssessment(ctx context.Context, request *requests.CreateRemoteAssessment) (*responses.RemoteAssessment, error) {
	args := m.Called(ctx, request)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*responses.RemoteAssessment), args.Error(1)
}

func (m *MockClinimetrixClient) SaveProgress(ctx context.Context, remoteAssessmentID string, request *requests.SaveAssessmentProgress) error {
	args := m.Called(ctx, remoteAssessmentID, request)
	return args.Error(0)
}

func (m *MockClinimetrixClient) SubmitAssessment(ctx context.Context, remoteAssessmentID string, request *requests.SubmitAssessment) (*responses.AssessmentResults, error) {
	args := m.Called(ctx, remoteAssessmentID, request)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*responses.AssessmentResults), args.Error(1)
}

type MockTemplateUsecase struct {
	mock.Mock
}

func (m *MockTemplateUsecase) ListTemplates(ctx context.Context) ([]clinimetrix.TemplateSummary, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]clinimetrix.TemplateSummary), args.Error(1)
}

func (m *MockTemplateUsecase) GetTemplate(ctx context.Context, templateID string) (*clinimetrix.Template, error) {
	args := m.Called(ctx, templateID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*clinimetrix.Template), args.Error(1)
}

func (m *MockTemplateUsecase) InvalidateTemplate(ctx context.Context, templateID string) error {
	args := m.Called(ctx, templateID)
	return args.Error(0)
}

type MockSubmissionQueue struct {
	mock.Mock
}

func (m *MockSubmissionQueue) Enqueue(ctx context.Context, in *submissionqueue.EnqueueInput) (*submissionqueue.EnqueueOutput, error) {
	args := m.Called(ctx, in)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*submissionqueue.EnqueueOutput), args.Error(1)
}

func (m *MockSubmissionQueue) Reenqueue(ctx context.Context, in *submissionqueue.ReenqueueInput) (*submissionqueue.ReenqueueOutput, error) {
	args := m.Called(ctx, in)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*submissionqueue.ReenqueueOutput), args.Error(1)
}

func (m *MockSubmissionQueue) EnqueueToDeadQueue(ctx context.Context, in *submissionqueue.EnqueueToDLQInput) (*submissionqueue.EnqueueToDLQOutput, error) {
	args := m.Called(ctx, in)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*submissionqueue.EnqueueToDLQOutput), args.Error(1)
}

func (m *MockSubmissionQueue) FetchN(ctx context.Context, in *submissionqueue.FetchNInput) (*submissionqueue.FetchNOutput, error) {
	args := m.Called(ctx, in)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*submissionqueue.FetchNOutput), args.Error(1)
}

func (m *MockSubmissionQueue) AckMessage(ctx context.Context, in *submissionqueue.AckMessageInput) (*submissionqueue.AckMessageOutput, error) {
	args := m.Called(ctx, in)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*submissionqueue.AckMessageOutput), args.Error(1)
}

type MockStorage struct {
	mock.Mock
}

func (m *MockStorage) UploadObject(ctx context.Context, bucketName, objectName string, content io.Reader, size int64, contentType string) (string, error) {
	args := m.Called(ctx, bucketName, objectName, content, size, contentType)
	return args.String(0), args.Error(1)
}

func (m *MockStorage) PresignedGetURL(ctx context.Context, bucketName, objectName string, expiry time.Duration) (string, error) {
	args := m.Called(ctx, bucketName, objectName, expiry)
	return args.String(0), args.Error(1)
}

// fakeAssessmentRepository keeps the revision guards of the Mongo
// implementation so save races can be exercised without a database.
type fakeAssessmentRepository struct {
	mu       sync.Mutex
	sessions map[string]models.AssessmentSession
}

func newFakeAssessmentRepository(sessions ...models.AssessmentSession) *fakeAssessmentRepository {
	repo := &fakeAssessmentRepository{sessions: make(map[string]models.AssessmentSession)}
	for _, s := range sessions {
		repo.sessions[s.ID] = cloneSession(s)
	}
	return repo
}

func cloneSession(s models.AssessmentSession) models.AssessmentSession {
	responses := make(map[string]any, len(s.State.Responses))
	for k, v := range s.State.Responses {
		responses[k] = v
	}
	s.State.Responses = responses
	return s
}

func (r *fakeAssessmentRepository) get(id string) models.AssessmentSession {
	r.mu.Lock()
	defer r.mu.Unlock()
	return cloneSession(r.sessions[id])
}

func (r *fakeAssessmentRepository) Create(ctx context.Context, session *models.AssessmentSession) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.sessions[session.ID] = cloneSession(*session)
	return nil
}

func (r *fakeAssessmentRepository) FindByID(ctx context.Context, assessmentID string) (*models.AssessmentSession, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	s, ok := r.sessions[assessmentID]
	if !ok {
		return nil, exceptions.ErrMongoDBNotDocument(fmt.Errorf("not found"), assessmentID)
	}
	clone := cloneSession(s)
	return &clone, nil
}

func (r *fakeAssessmentRepository) FindAll(ctx context.Context, request *requests.FindAllAssessments) ([]models.AssessmentSession, int, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []models.AssessmentSession
	for _, s := range r.sessions {
		if request.PatientID != "" && s.PatientID != request.PatientID {
			continue
		}
		if !request.Scope.Allows(s.ClinicID, s.ClinicianID) {
			continue
		}
		out = append(out, cloneSession(s))
	}
	return out, len(out), nil
}

func (r *fakeAssessmentRepository) UpdateState(ctx context.Context, session *models.AssessmentSession, expectedRevision int64) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	stored, ok := r.sessions[session.ID]
	if !ok || stored.Revision != expectedRevision {
		return exceptions.ErrAssessmentModified(nil, session.ID, expectedRevision)
	}
	updated := cloneSession(*session)
	updated.SavedRevision = stored.SavedRevision
	updated.LastSavedAt = stored.LastSavedAt
	updated.LastAutoSaveAt = stored.LastAutoSaveAt
	r.sessions[session.ID] = updated
	return nil
}

func (r *fakeAssessmentRepository) MarkSaved(ctx context.Context, assessmentID string, revision int64, savedAt time.Time, auto bool) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	stored, ok := r.sessions[assessmentID]
	if !ok || stored.SavedRevision >= revision {
		return false, nil
	}
	stored.SavedRevision = revision
	stored.LastSavedAt = &savedAt
	if auto {
		stored.LastAutoSaveAt = &savedAt
	}
	r.sessions[assessmentID] = stored
	return true, nil
}

func (r *fakeAssessmentRepository) FindIdleDirty(ctx context.Context, idleBefore time.Time, limit int) ([]models.AssessmentSession, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []models.AssessmentSession
	for _, s := range r.sessions {
		if s.IsActive() && s.HasUnsavedWork() && s.UpdatedAt.Before(idleBefore) {
			out = append(out, cloneSession(s))
		}
		if len(out) == limit {
			break
		}
	}
	return out, nil
}

type fakeLocker struct {
	mu       sync.Mutex
	held     map[string]string
	refreshN int
}

func newFakeLocker() *fakeLocker {
	return &fakeLocker{held: make(map[string]string)}
}

func (l *fakeLocker) TryLock(ctx context.Context, key string, expiration time.Duration) (bool, string, error) {
	l.mu.Lock()
	defer l.mu.Unlock()
	if _, ok := l.held[key]; ok {
		return false, "", nil
	}
	token := fmt.Sprintf("token-%d", len(l.held)+1)
	l.held[key] = token
	return true, token, nil
}

func (l *fakeLocker) Unlock(ctx context.Context, key, lockValue string) error {
	l.mu.Lock()
	defer l.mu.Unlock()
	if l.held[key] == lockValue {
		delete(l.held, key)
	}
	return nil
}

func (l *fakeLocker) Refresh(ctx context.Context, key, lockValue string, expiration time.Duration) error {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.refreshN++
	return nil
}

func (l *fakeLocker) isHeld(key string) bool {
	l.mu.Lock()
	defer l.mu.Unlock()
	_, ok := l.held[key]
	return ok
}

// fakeRedis only implements what the cooldown limiter needs.
type fakeRedis struct {
	mu   sync.Mutex
	keys map[string]string
}

func newFakeRedis() *fakeRedis {
	return &fakeRedis{keys: make(map[string]string)}
}

func (f *fakeRedis) Delete(ctx context.Context, key string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	delete(f.keys, key)
	return nil
}

func (f *fakeRedis) Set(ctx context.Context, key string, value interface{}, exp time.Duration) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.keys[key] = fmt.Sprint(value)
	return nil
}

func (f *fakeRedis) Get(ctx context.Context, key string) (string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.keys[key], nil
}

func (f *fakeRedis) Increment(ctx context.Context, key string) (int64, error) {
	return 0, nil
}

func (f *fakeRedis) Expire(ctx context.Context, key string, exp time.Duration) error {
	return nil
}

func (f *fakeRedis) TrySetNX(ctx context.Context, key string, value interface{}, exp time.Duration) (bool, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if _, ok := f.keys[key]; ok {
		return false, nil
	}
	f.keys[key] = fmt.Sprint(value)
	return true, nil
}

func floatPtr(v float64) *float64 {
	return &v
}

func testTemplate() *clinimetrix.Template {
	return &clinimetrix.Template{
		ID:      "phq-mini",
		Name:    "Cuestionario breve",
		Version: "1.0",
		ResponseGroups: map[string][]clinimetrix.Option{
			"frequency": {
				{Value: 0, Label: "Nunca", Score: floatPtr(0)},
				{Value: 1, Label: "Varios días", Score: floatPtr(1)},
				{Value: 2, Label: "Más de la mitad de los días", Score: floatPtr(2)},
				{Value: 3, Label: "Casi todos los días", Score: floatPtr(3)},
			},
		},
		Sections: []clinimetrix.Section{
			{
				ID:    "s1",
				Title: "Estado de ánimo",
				Items: []clinimetrix.Item{
					{ID: "q1", Number: 1, Text: "Poco interés", ResponseType: clinimetrix.ResponseTypeLikert, ResponseGroup: "frequency", Required: true},
					{ID: "q2", Number: 2, Text: "Desánimo", ResponseType: clinimetrix.ResponseTypeLikert, ResponseGroup: "frequency", Required: true},
				},
			},
			{ID: "s-empty", Title: "Sin reactivos"},
			{
				ID:    "s2",
				Title: "Datos adicionales",
				Items: []clinimetrix.Item{
					{ID: "q3", Number: 3, Text: "Horas de sueño", ResponseType: clinimetrix.ResponseTypeNumeric, Min: floatPtr(0), Max: floatPtr(24)},
				},
			},
		},
	}
}

var testNow = time.Date(2026, 3, 2, 10, 0, 0, 0, time.UTC)

func testConfig() *config.InternalConfig {
	return &config.InternalConfig{
		Assessment: config.AppAssessment{
			AutoSaveIntervalInSeconds: 30,
			SaveLockTTLInSeconds:      10,
			AutosaveWorkerBatchSize:   10,
			IdleAfterInSeconds:        60,
		},
		Queue: config.AppQueue{
			MaxQueue:      5,
			ThrottleRetry: 3,
		},
		Minio: config.AppMinio{
			BucketName:                               "mindhub",
			MinioPreSignedUrlObjectExpiryTimeInHours: 1,
		},
	}
}

type usecaseFixture struct {
	uc       *assessmentUsecase
	repo     *fakeAssessmentRepository
	locker   *fakeLocker
	client   *MockClinimetrixClient
	queue    *MockSubmissionQueue
	storage  *MockStorage
	template *clinimetrix.Template
}

func newUsecaseFixture(sessions ...models.AssessmentSession) *usecaseFixture {
	logger := zap.NewNop()
	template := testTemplate()

	templates := new(MockTemplateUsecase)
	templates.On("GetTemplate", mock.Anything, template.ID).Return(template, nil)

	f := &usecaseFixture{
		repo:     newFakeAssessmentRepository(sessions...),
		locker:   newFakeLocker(),
		client:   new(MockClinimetrixClient),
		queue:    new(MockSubmissionQueue),
		storage:  new(MockStorage),
		template: template,
	}
	f.uc = &assessmentUsecase{
		AssessmentRepository: f.repo,
		TemplateUsecase:      templates,
		ClinimetrixClient:    f.client,
		LockerService:        f.locker,
		ResourceLimiter:      ratelimiter.NewResourceLimiter(newFakeRedis(), logger),
		SubmissionQueue:      f.queue,
		Storage:              f.storage,
		InternalConfig:       testConfig(),
		Log:                  logger,
		now:                  func() time.Time { return testNow },
	}
	return f
}

// activeSession is positioned on q1 with nothing answered.
func activeSession(id string) models.AssessmentSession {
	s := models.AssessmentSession{
		ID:                 id,
		TemplateID:         "phq-mini",
		PatientID:          "patient-1",
		RemoteAssessmentID: "remote-" + id,
		State: clinimetrix.State{
			Responses: map[string]any{},
		},
		Status: models.AssessmentStatusInProgress,
	}
	s.CreatedAt = testNow.Add(-time.Hour)
	s.UpdatedAt = testNow.Add(-time.Hour)
	return s
}
