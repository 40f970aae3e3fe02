package monitoring

import (
	"fmt"
	"mindhub-service/internal/app/config"

	"github.com/getsentry/sentry-go"
	"go.uber.org/zap"
)

// InitSentry enables error reporting when a DSN is configured. Without a DSN
// the sentry hub stays a no-op.
func InitSentry(driverConfig *config.DriverConfig, internalConfig *config.InternalConfig, log *zap.Logger) error {
	if driverConfig.Sentry.DSN == "" {
		log.Info("Sentry DSN not set, error reporting disabled")
		return nil
	}

	err := sentry.Init(sentry.ClientOptions{
		Dsn:              driverConfig.Sentry.DSN,
		Environment:      internalConfig.App.Env,
		Release:          "mindhub-service@" + internalConfig.App.Version,
		EnableTracing:    false,
		TracesSampleRate: driverConfig.Sentry.TracesSampleRate,
		AttachStacktrace: true,
	})
	if err != nil {
		return fmt.Errorf("sentry init: %w", err)
	}

	log.Info("Successfully initialized sentry")
	return nil
}
