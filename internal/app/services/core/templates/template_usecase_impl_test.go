package templates

import (
	"context"
	"errors"
	"fmt"
	"mindhub-service/internal/app/config"
	"mindhub-service/internal/pkg/clinimetrix"
	"mindhub-service/internal/pkg/constvars"
	"mindhub-service/internal/pkg/dto/requests"
	"mindhub-service/internal/pkg/dto/responses"
	"mindhub-service/internal/pkg/exceptions"
	"testing"
	"time"

	"github.com/goccy/go-json"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
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

type MockRedisRepository struct {
	mock.Mock
}

func (m *MockRedisRepository) Delete(ctx context.Context, key string) error {
	args := m.Called(ctx, key)
	return args.Error(0)
}

func (m *MockRedisRepository) Set(ctx context.Context, key string, value interface{}, exp time.Duration) error {
	args := m.Called(ctx, key, value, exp)
	return args.Error(0)
}

func (m *MockRedisRepository) Get(ctx context.Context, key string) (string, error) {
	args := m.Called(ctx, key)
	return args.String(0), args.Error(1)
}

func (m *MockRedisRepository) Increment(ctx context.Context, key string) (int64, error) {
	args := m.Called(ctx, key)
	return args.Get(0).(int64), args.Error(1)
}

func (m *MockRedisRepository) Expire(ctx context.Context, key string, exp time.Duration) error {
	args := m.Called(ctx, key, exp)
	return args.Error(0)
}

func (m *MockRedisRepository) TrySetNX(ctx context.Context, key string, value interface{}, exp time.Duration) (bool, error) {
	args := m.Called(ctx, key, value, exp)
	return args.Bool(0), args.Error(1)
}

func gadTemplate() *clinimetrix.Template {
	return &clinimetrix.Template{
		ID:   "gad-2",
		Name: "GAD-2",
		Sections: []clinimetrix.Section{
			{
				ID: "main",
				Items: []clinimetrix.Item{
					{ID: "g1", Number: 1, Text: "Nerviosismo", ResponseType: clinimetrix.ResponseTypeBinary, Required: true,
						Options: []clinimetrix.Option{{Value: 0, Label: "No"}, {Value: 1, Label: "Sí"}}},
				},
			},
		},
	}
}

func newTestTemplateUsecase(client *MockClinimetrixClient, redis *MockRedisRepository) *templateUsecase {
	return &templateUsecase{
		ClinimetrixClient: client,
		RedisRepository:   redis,
		InternalConfig: &config.InternalConfig{
			Assessment: config.AppAssessment{TemplateCacheTTLInMinutes: 15},
		},
		Log: zap.NewNop(),
	}
}

func TestGetTemplate(t *testing.T) {
	ctx := context.WithValue(context.Background(), constvars.CONTEXT_REQUEST_ID_KEY, "MINDHUB_SVC_test")
	cacheKey := "clinimetrix:template:gad-2"

	t.Run("cache miss fetches, validates and caches", func(t *testing.T) {
		client := new(MockClinimetrixClient)
		redis := new(MockRedisRepository)
		redis.On("Get", mock.Anything, cacheKey).Return("", nil)
		client.On("GetTemplate", mock.Anything, "gad-2").Return(gadTemplate(), nil)
		redis.On("Set", mock.Anything, cacheKey, mock.AnythingOfType("*clinimetrix.Template"), 15*time.Minute).Return(nil)

		uc := newTestTemplateUsecase(client, redis)
		template, err := uc.GetTemplate(ctx, "gad-2")
		require.NoError(t, err)
		assert.Equal(t, "GAD-2", template.Name)
		redis.AssertExpectations(t)
	})

	t.Run("cache hit skips the backend", func(t *testing.T) {
		client := new(MockClinimetrixClient)
		redis := new(MockRedisRepository)
		cached, err := json.Marshal(gadTemplate())
		require.NoError(t, err)
		redis.On("Get", mock.Anything, cacheKey).Return(string(cached), nil)

		uc := newTestTemplateUsecase(client, redis)
		template, err := uc.GetTemplate(ctx, "gad-2")
		require.NoError(t, err)
		assert.Equal(t, 1, template.TotalItems())
		client.AssertNotCalled(t, "GetTemplate", mock.Anything, mock.Anything)
	})

	t.Run("a broken cache falls back to the backend", func(t *testing.T) {
		client := new(MockClinimetrixClient)
		redis := new(MockRedisRepository)
		redis.On("Get", mock.Anything, cacheKey).Return("", exceptions.ErrRedisGet(fmt.Errorf("connection reset")))
		client.On("GetTemplate", mock.Anything, "gad-2").Return(gadTemplate(), nil)
		redis.On("Set", mock.Anything, cacheKey, mock.Anything, mock.Anything).Return(exceptions.ErrRedisSet(fmt.Errorf("connection reset")))

		uc := newTestTemplateUsecase(client, redis)
		_, err := uc.GetTemplate(ctx, "gad-2")
		assert.NoError(t, err)
	})

	t.Run("invalid templates are rejected and never cached", func(t *testing.T) {
		client := new(MockClinimetrixClient)
		redis := new(MockRedisRepository)
		broken := gadTemplate()
		broken.Sections[0].Items[0].Options = nil
		redis.On("Get", mock.Anything, cacheKey).Return("", nil)
		client.On("GetTemplate", mock.Anything, "gad-2").Return(broken, nil)

		uc := newTestTemplateUsecase(client, redis)
		_, err := uc.GetTemplate(ctx, "gad-2")

		var customErr *exceptions.CustomError
		require.True(t, errors.As(err, &customErr))
		assert.Equal(t, constvars.StatusUnprocessableEntity, customErr.StatusCode)
		assert.NotEmpty(t, customErr.Details)
		redis.AssertNotCalled(t, "Set", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
	})
}

func TestInvalidateTemplate(t *testing.T) {
	redis := new(MockRedisRepository)
	redis.On("Delete", mock.Anything, "clinimetrix:template:gad-2").Return(nil)

	uc := newTestTemplateUsecase(new(MockClinimetrixClient), redis)
	require.NoError(t, uc.InvalidateTemplate(context.Background(), "gad-2"))
	redis.AssertExpectations(t)
}
