package middlewares

import (
	"context"
	"mindhub-service/internal/app/config"
	"mindhub-service/internal/app/services/shared/jwtmanager"

	"github.com/casbin/casbin/v2"
	"go.uber.org/zap"
)

type TokenVerifier interface {
	VerifyUserToken(ctx context.Context, token string) (*jwtmanager.UserClaims, error)
}

type Middlewares struct {
	Log            *zap.Logger
	InternalConfig *config.InternalConfig
	TokenVerifier  TokenVerifier
	Enforcer       *casbin.Enforcer
}

func NewMiddlewares(logger *zap.Logger, internalConfig *config.InternalConfig, tokenVerifier TokenVerifier, enforcer *casbin.Enforcer) *Middlewares {
	return &Middlewares{
		Log:            logger,
		InternalConfig: internalConfig,
		TokenVerifier:  tokenVerifier,
		Enforcer:       enforcer,
	}
}
