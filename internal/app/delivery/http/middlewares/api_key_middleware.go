package middlewares

import (
	"context"
	"mindhub-service/internal/pkg/constvars"
	"mindhub-service/internal/pkg/exceptions"
	"mindhub-service/internal/pkg/utils"
	"net/http"

	"go.uber.org/zap"
)

// RequireOpsAPIKey guards the internal ops routes. The key is compared
// against Security.OpsAPIKeyHash; an unset hash disables the routes.
func (m *Middlewares) RequireOpsAPIKey(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		apiKey := r.Header.Get(constvars.HeaderXAPIKey)
		hash := m.InternalConfig.Security.OpsAPIKeyHash

		if apiKey == "" || hash == "" {
			utils.BuildErrorResponse(m.Log, w, exceptions.ErrInvalidAPIKey(nil))
			return
		}

		if !utils.CheckSecretHash(apiKey, hash) {
			m.Log.Warn("RequireOpsAPIKey rejected key",
				zap.String(constvars.LoggingRequestIDKey, utils.GetRequestID(r.Context())),
				zap.String(constvars.LoggingRemoteAddrKey, r.RemoteAddr),
				zap.String(constvars.LoggingEndpointKey, r.URL.Path),
			)
			utils.BuildErrorResponse(m.Log, w, exceptions.ErrInvalidAPIKey(nil))
			return
		}

		ctx := context.WithValue(r.Context(), constvars.CONTEXT_API_KEY_AUTH, true)
		ctx = context.WithValue(ctx, constvars.CONTEXT_USER_ROLE_KEY, constvars.MindhubRoleService)

		m.Log.Info("API Key authentication successful",
			zap.String("ip", r.RemoteAddr),
			zap.String("endpoint", r.URL.Path),
			zap.String("method", r.Method),
		)

		next.ServeHTTP(w, r.WithContext(ctx))
	})
}
