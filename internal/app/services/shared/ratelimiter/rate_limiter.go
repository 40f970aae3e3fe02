package ratelimiter

import (
	"context"
	"fmt"
	"mindhub-service/internal/app/contracts"
	"mindhub-service/internal/pkg/constvars"
	"strings"
	"time"

	"go.uber.org/zap"
)

// ResourceLimiter lets an action on a resource happen at most once per
// cooldown window, across every replica sharing the Redis instance.
type ResourceLimiter struct {
	redis contracts.RedisRepository
	log   *zap.Logger
}

func NewResourceLimiter(redis contracts.RedisRepository, log *zap.Logger) *ResourceLimiter {
	return &ResourceLimiter{redis: redis, log: log}
}

type ApplyCooldownInput struct {
	// ResourceName is the entity being limited, e.g. an assessment id.
	ResourceName string
	// LimiterGroupName namespaces the key, e.g. AUTOSAVE.
	LimiterGroupName string
	Cooldown         time.Duration
}

type ApplyCooldownOutput struct {
	Allowed        bool
	RetryAfterSecs int
}

// ApplyCooldown claims the window for the resource. The first caller in a
// window is allowed; everyone else gets Allowed=false until the key expires.
func (l *ResourceLimiter) ApplyCooldown(ctx context.Context, in *ApplyCooldownInput) (*ApplyCooldownOutput, error) {
	if in == nil {
		return nil, fmt.Errorf("nil input")
	}
	if in.Cooldown <= 0 {
		return &ApplyCooldownOutput{Allowed: true}, nil
	}

	resource := strings.TrimSpace(in.ResourceName)
	group := strings.ToUpper(strings.TrimSpace(in.LimiterGroupName))
	retryAfter := int(in.Cooldown / time.Second)
	if resource == "" || group == "" {
		return &ApplyCooldownOutput{Allowed: false, RetryAfterSecs: retryAfter}, nil
	}

	key := fmt.Sprintf("%s:%s", group, resource)
	acquired, err := l.redis.TrySetNX(ctx, key, time.Now().UTC().Unix(), in.Cooldown)
	if err != nil {
		requestID, _ := ctx.Value(constvars.CONTEXT_REQUEST_ID_KEY).(string)
		l.log.Error("ResourceLimiter.ApplyCooldown setnx failed",
			zap.String(constvars.LoggingRequestIDKey, requestID),
			zap.String(constvars.LoggingRedisKey, key),
			zap.Error(err))
		return nil, err
	}
	if !acquired {
		return &ApplyCooldownOutput{Allowed: false, RetryAfterSecs: retryAfter}, nil
	}
	return &ApplyCooldownOutput{Allowed: true}, nil
}
