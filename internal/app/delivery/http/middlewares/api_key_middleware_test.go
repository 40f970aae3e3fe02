package middlewares

import (
	"mindhub-service/internal/app/config"
	"mindhub-service/internal/pkg/constvars"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"
)

func TestRequireOpsAPIKey(t *testing.T) {
	testAPIKey := "ops-key-12345"
	hash, err := bcrypt.GenerateFromPassword([]byte(testAPIKey), bcrypt.MinCost)
	require.NoError(t, err)

	middlewares := &Middlewares{
		Log: zap.NewNop(),
		InternalConfig: &config.InternalConfig{
			Security: config.AppSecurity{OpsAPIKeyHash: string(hash)},
		},
	}

	testHandler := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		apiKeyAuth, ok := r.Context().Value(constvars.CONTEXT_API_KEY_AUTH).(bool)
		assert.True(t, ok, "api key flag should be set")
		assert.True(t, apiKeyAuth)

		role, _ := r.Context().Value(constvars.CONTEXT_USER_ROLE_KEY).(string)
		assert.Equal(t, constvars.MindhubRoleService, role)

		w.WriteHeader(http.StatusOK)
		w.Write([]byte("success"))
	})

	t.Run("Valid API Key", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodPost, "/api/v1/ops/autosave/flush", nil)
		req.Header.Set(constvars.HeaderXAPIKey, testAPIKey)

		rr := httptest.NewRecorder()
		middlewares.RequireOpsAPIKey(testHandler).ServeHTTP(rr, req)

		assert.Equal(t, http.StatusOK, rr.Code)
		assert.Equal(t, "success", rr.Body.String())
	})

	t.Run("Invalid API Key", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodPost, "/api/v1/ops/autosave/flush", nil)
		req.Header.Set(constvars.HeaderXAPIKey, "wrong-key")

		rr := httptest.NewRecorder()
		middlewares.RequireOpsAPIKey(testHandler).ServeHTTP(rr, req)

		assert.Equal(t, http.StatusUnauthorized, rr.Code)
	})

	t.Run("Missing API Key", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodPost, "/api/v1/ops/autosave/flush", nil)

		rr := httptest.NewRecorder()
		middlewares.RequireOpsAPIKey(testHandler).ServeHTTP(rr, req)

		assert.Equal(t, http.StatusUnauthorized, rr.Code)
	})

	t.Run("Unset hash rejects every key", func(t *testing.T) {
		unset := &Middlewares{
			Log:            zap.NewNop(),
			InternalConfig: &config.InternalConfig{},
		}
		req := httptest.NewRequest(http.MethodPost, "/api/v1/ops/autosave/flush", nil)
		req.Header.Set(constvars.HeaderXAPIKey, testAPIKey)

		rr := httptest.NewRecorder()
		unset.RequireOpsAPIKey(testHandler).ServeHTTP(rr, req)

		assert.Equal(t, http.StatusUnauthorized, rr.Code)
	})
}
