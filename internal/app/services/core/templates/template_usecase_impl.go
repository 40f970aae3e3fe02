package templates

import (
	"context"
	"errors"
	"fmt"
	"mindhub-service/internal/app/config"
	"mindhub-service/internal/app/contracts"
	"mindhub-service/internal/pkg/clinimetrix"
	"mindhub-service/internal/pkg/constvars"
	"mindhub-service/internal/pkg/exceptions"
	"sync"
	"time"

	"github.com/goccy/go-json"
	"go.uber.org/zap"
)

var (
	templateUsecaseInstance contracts.TemplateUsecase
	onceTemplateUsecase     sync.Once
)

type templateUsecase struct {
	ClinimetrixClient contracts.ClinimetrixClient
	RedisRepository   contracts.RedisRepository
	InternalConfig    *config.InternalConfig
	Log               *zap.Logger
}

func NewTemplateUsecase(
	clinimetrixClient contracts.ClinimetrixClient,
	redisRepository contracts.RedisRepository,
	internalConfig *config.InternalConfig,
	logger *zap.Logger,
) contracts.TemplateUsecase {
	onceTemplateUsecase.Do(func() {
		templateUsecaseInstance = &templateUsecase{
			ClinimetrixClient: clinimetrixClient,
			RedisRepository:   redisRepository,
			InternalConfig:    internalConfig,
			Log:               logger,
		}
	})
	return templateUsecaseInstance
}

func (uc *templateUsecase) ListTemplates(ctx context.Context) ([]clinimetrix.TemplateSummary, error) {
	return uc.ClinimetrixClient.ListTemplates(ctx)
}

// GetTemplate serves from the Redis cache when possible. Templates are
// validated before they are cached, so a cached template is always usable.
func (uc *templateUsecase) GetTemplate(ctx context.Context, templateID string) (*clinimetrix.Template, error) {
	requestID, _ := ctx.Value(constvars.CONTEXT_REQUEST_ID_KEY).(string)
	uc.Log.Info("templateUsecase.GetTemplate called",
		zap.String(constvars.LoggingRequestIDKey, requestID),
		zap.String(constvars.LoggingTemplateIDKey, templateID),
	)

	cacheKey := fmt.Sprintf(constvars.RedisKeyTemplateCacheFormat, templateID)
	cached, err := uc.RedisRepository.Get(ctx, cacheKey)
	if err != nil {
		// A broken cache should not block assessments.
		uc.Log.Warn("templateUsecase.GetTemplate error reading cache",
			zap.String(constvars.LoggingRequestIDKey, requestID),
			zap.Error(err),
		)
	}
	if cached != "" {
		template := new(clinimetrix.Template)
		if err := json.Unmarshal([]byte(cached), template); err == nil {
			uc.Log.Info("templateUsecase.GetTemplate served from cache",
				zap.String(constvars.LoggingRequestIDKey, requestID),
				zap.String(constvars.LoggingTemplateIDKey, templateID),
			)
			return template, nil
		}
		uc.Log.Warn("templateUsecase.GetTemplate dropping undecodable cache entry",
			zap.String(constvars.LoggingRequestIDKey, requestID),
			zap.String(constvars.LoggingRedisKey, cacheKey),
		)
	}

	template, err := uc.ClinimetrixClient.GetTemplate(ctx, templateID)
	if err != nil {
		uc.Log.Error("templateUsecase.GetTemplate error fetching template",
			zap.String(constvars.LoggingRequestIDKey, requestID),
			zap.Error(err),
		)
		return nil, err
	}

	if err := clinimetrix.ValidateTemplate(template); err != nil {
		uc.Log.Error("templateUsecase.GetTemplate template failed validation",
			zap.String(constvars.LoggingRequestIDKey, requestID),
			zap.String(constvars.LoggingTemplateIDKey, templateID),
			zap.Error(err),
		)
		customErr := exceptions.ErrTemplateInvalid(err)
		var templateErr *clinimetrix.TemplateError
		if errors.As(err, &templateErr) {
			customErr = customErr.WithDetails(templateErr.Problems)
		}
		return nil, customErr
	}

	ttl := time.Duration(uc.InternalConfig.Assessment.TemplateCacheTTLInMinutes) * time.Minute
	if err := uc.RedisRepository.Set(ctx, cacheKey, template, ttl); err != nil {
		uc.Log.Warn("templateUsecase.GetTemplate error writing cache",
			zap.String(constvars.LoggingRequestIDKey, requestID),
			zap.Error(err),
		)
	}

	uc.Log.Info("templateUsecase.GetTemplate succeeded",
		zap.String(constvars.LoggingRequestIDKey, requestID),
		zap.String(constvars.LoggingTemplateIDKey, templateID),
		zap.Int(constvars.LoggingItemCountKey, template.TotalItems()),
	)
	return template, nil
}

func (uc *templateUsecase) InvalidateTemplate(ctx context.Context, templateID string) error {
	return uc.RedisRepository.Delete(ctx, fmt.Sprintf(constvars.RedisKeyTemplateCacheFormat, templateID))
}
