package middlewares

import (
	"context"
	"mindhub-service/internal/pkg/constvars"
	"mindhub-service/internal/pkg/exceptions"
	"mindhub-service/internal/pkg/utils"
	"net/http"
	"strings"

	"go.uber.org/zap"
)

const bearerPrefix = "Bearer "

// Authenticate verifies the caller's bearer token and puts the user id, role,
// clinic and the raw token on the context. The raw token is forwarded to the
// clinical backend on the caller's behalf.
func (m *Middlewares) Authenticate(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		requestID := utils.GetRequestID(r.Context())

		authHeader := r.Header.Get(constvars.HeaderAuthorization)
		if authHeader == "" || !strings.HasPrefix(authHeader, bearerPrefix) {
			utils.BuildErrorResponse(m.Log, w, exceptions.ErrTokenMissing(nil))
			return
		}

		token := strings.TrimSpace(strings.TrimPrefix(authHeader, bearerPrefix))
		if token == "" {
			utils.BuildErrorResponse(m.Log, w, exceptions.ErrTokenMissing(nil))
			return
		}

		claims, err := m.TokenVerifier.VerifyUserToken(r.Context(), token)
		if err != nil {
			m.Log.Info("Authenticate rejected token",
				zap.String(constvars.LoggingRequestIDKey, requestID),
				zap.Error(err),
			)
			utils.BuildErrorResponse(m.Log, w, exceptions.ErrTokenInvalidOrExpired(err))
			return
		}

		ctx := context.WithValue(r.Context(), constvars.CONTEXT_USER_ID_KEY, claims.Subject)
		ctx = context.WithValue(ctx, constvars.CONTEXT_USER_ROLE_KEY, claims.Role)
		ctx = context.WithValue(ctx, constvars.CONTEXT_CLINIC_ID_KEY, claims.ClinicID)
		ctx = context.WithValue(ctx, constvars.CONTEXT_BEARER_TOKEN_KEY, token)

		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

// Authorize checks the authenticated role against the casbin policy for the
// request path relative to the API prefix.
func (m *Middlewares) Authorize(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		requestID := utils.GetRequestID(r.Context())
		role, _ := r.Context().Value(constvars.CONTEXT_USER_ROLE_KEY).(string)
		path := m.resourcePath(r.URL.Path)

		allowed, err := m.Enforcer.Enforce(role, path, r.Method)
		if err != nil {
			m.Log.Error("Authorize casbin enforce error",
				zap.String(constvars.LoggingRequestIDKey, requestID),
				zap.Error(err),
			)
			utils.BuildErrorResponse(m.Log, w, exceptions.ErrServerProcess(err))
			return
		}
		if !allowed {
			m.Log.Info("Authorize denied",
				zap.String(constvars.LoggingRequestIDKey, requestID),
				zap.String("role", role),
				zap.String(constvars.LoggingMethodKey, r.Method),
				zap.String(constvars.LoggingEndpointKey, path),
			)
			utils.BuildErrorResponse(m.Log, w, exceptions.ErrPermissionDenied(nil))
			return
		}

		next.ServeHTTP(w, r)
	})
}

func (m *Middlewares) resourcePath(path string) string {
	prefix := "/" + m.InternalConfig.App.EndpointPrefix + "/" + m.InternalConfig.App.Version
	trimmed := strings.TrimPrefix(path, prefix)
	if trimmed == "" {
		return "/"
	}
	return trimmed
}
