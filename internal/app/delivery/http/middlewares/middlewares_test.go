package middlewares

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"mindhub-service/internal/app/config"
	"mindhub-service/internal/app/services/shared/jwtmanager"
	"mindhub-service/internal/pkg/constvars"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/andybalholm/brotli"
	"github.com/casbin/casbin/v2"
	"github.com/goccy/go-json"
	"github.com/golang-jwt/jwt/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

type fakeVerifier struct {
	claims *jwtmanager.UserClaims
	err    error
}

func (f *fakeVerifier) VerifyUserToken(ctx context.Context, token string) (*jwtmanager.UserClaims, error) {
	if f.err != nil {
		return nil, f.err
	}
	return f.claims, nil
}

func newTestMiddlewares(t *testing.T, verifier TokenVerifier) *Middlewares {
	t.Helper()
	enforcer, err := casbin.NewEnforcer("../../../../../resources/rbac_model.conf", "../../../../../resources/rbac_policy.csv")
	require.NoError(t, err)

	return NewMiddlewares(zap.NewNop(), &config.InternalConfig{
		App: config.App{
			EndpointPrefix: "api",
			Version:        "v1",
		},
		Backend: config.AppBackend{HTTPTimeoutInSeconds: 2},
	}, verifier, enforcer)
}

type errorBody struct {
	Success bool   `json:"success"`
	Error   string `json:"error"`
	Message string `json:"message"`
}

func decodeErrorBody(t *testing.T, rr *httptest.ResponseRecorder) errorBody {
	t.Helper()
	var body errorBody
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &body))
	return body
}

func TestAuthenticate(t *testing.T) {
	verifier := &fakeVerifier{claims: &jwtmanager.UserClaims{
		Role:             constvars.MindhubRoleClinician,
		ClinicID:         "clinic-7",
		RegisteredClaims: jwt.RegisteredClaims{Subject: "user-1"},
	}}
	m := newTestMiddlewares(t, verifier)

	var seen context.Context
	next := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		seen = r.Context()
		w.WriteHeader(http.StatusNoContent)
	})

	t.Run("missing header", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/api/v1/scales", nil)
		rr := httptest.NewRecorder()
		m.Authenticate(next).ServeHTTP(rr, req)

		assert.Equal(t, http.StatusUnauthorized, rr.Code)
		assert.Equal(t, "Bearer", rr.Header().Get("WWW-Authenticate"))
	})

	t.Run("not a bearer token", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/api/v1/scales", nil)
		req.Header.Set(constvars.HeaderAuthorization, "Basic abc")
		rr := httptest.NewRecorder()
		m.Authenticate(next).ServeHTTP(rr, req)

		assert.Equal(t, http.StatusUnauthorized, rr.Code)
	})

	t.Run("rejected token", func(t *testing.T) {
		bad := newTestMiddlewares(t, &fakeVerifier{err: errors.New("token expired")})
		req := httptest.NewRequest(http.MethodGet, "/api/v1/scales", nil)
		req.Header.Set(constvars.HeaderAuthorization, "Bearer stale")
		rr := httptest.NewRecorder()
		bad.Authenticate(next).ServeHTTP(rr, req)

		assert.Equal(t, http.StatusUnauthorized, rr.Code)
	})

	t.Run("valid token populates context", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/api/v1/scales", nil)
		req.Header.Set(constvars.HeaderAuthorization, "Bearer good-token")
		rr := httptest.NewRecorder()
		m.Authenticate(next).ServeHTTP(rr, req)

		require.Equal(t, http.StatusNoContent, rr.Code)
		assert.Equal(t, "user-1", seen.Value(constvars.CONTEXT_USER_ID_KEY))
		assert.Equal(t, constvars.MindhubRoleClinician, seen.Value(constvars.CONTEXT_USER_ROLE_KEY))
		assert.Equal(t, "clinic-7", seen.Value(constvars.CONTEXT_CLINIC_ID_KEY))
		assert.Equal(t, "good-token", seen.Value(constvars.CONTEXT_BEARER_TOKEN_KEY))
	})
}

func TestAuthorize(t *testing.T) {
	m := newTestMiddlewares(t, &fakeVerifier{})
	next := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	})

	tests := []struct {
		name   string
		role   string
		method string
		path   string
		want   int
	}{
		{"clinician reads a session", constvars.MindhubRoleClinician, http.MethodGet, "/api/v1/assessments/abc", http.StatusOK},
		{"clinician answers an item", constvars.MindhubRoleClinician, http.MethodPost, "/api/v1/assessments/abc/answer", http.StatusOK},
		{"clinician cannot use the front desk", constvars.MindhubRoleClinician, http.MethodGet, "/api/v1/frontdesk/stats", http.StatusForbidden},
		{"receptionist cannot start assessments", constvars.MindhubRoleReceptionist, http.MethodPost, "/api/v1/assessments", http.StatusForbidden},
		{"receptionist reaches finance", constvars.MindhubRoleReceptionist, http.MethodPatch, "/api/v1/finance/invoices/9", http.StatusOK},
		{"clinician cannot drop the scale cache", constvars.MindhubRoleClinician, http.MethodDelete, "/api/v1/scales/phq-9/cache", http.StatusForbidden},
		{"admin drops the scale cache", constvars.MindhubRoleAdmin, http.MethodDelete, "/api/v1/scales/phq-9/cache", http.StatusOK},
		{"admin inherits clinician", constvars.MindhubRoleAdmin, http.MethodGet, "/api/v1/scales", http.StatusOK},
		{"no role", "", http.MethodGet, "/api/v1/scales", http.StatusForbidden},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(tt.method, tt.path, nil)
			req = req.WithContext(context.WithValue(req.Context(), constvars.CONTEXT_USER_ROLE_KEY, tt.role))
			rr := httptest.NewRecorder()

			m.Authorize(next).ServeHTTP(rr, req)

			assert.Equal(t, tt.want, rr.Code)
		})
	}
}

func TestRateLimiter(t *testing.T) {
	limiter := NewRateLimiter(zap.NewNop(), 1, 2, 30*time.Second)
	now := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	limiter.now = func() time.Time { return now }

	handler := limiter.Limit(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	}))

	do := func(addr string) *httptest.ResponseRecorder {
		req := httptest.NewRequest(http.MethodGet, "/api/v1/finance/invoices", nil)
		req.RemoteAddr = addr
		rr := httptest.NewRecorder()
		handler.ServeHTTP(rr, req)
		return rr
	}

	assert.Equal(t, http.StatusOK, do("10.0.0.1:5000").Code)
	assert.Equal(t, http.StatusOK, do("10.0.0.1:5001").Code)

	blocked := do("10.0.0.1:5002")
	assert.Equal(t, http.StatusTooManyRequests, blocked.Code)
	assert.Equal(t, "30", blocked.Header().Get(constvars.HeaderRetryAfter))

	// other clients keep their own bucket
	assert.Equal(t, http.StatusOK, do("10.0.0.2:5000").Code)

	// tokens refill but the block still holds
	now = now.Add(10 * time.Second)
	assert.Equal(t, http.StatusTooManyRequests, do("10.0.0.1:5003").Code)

	now = now.Add(21 * time.Second)
	assert.Equal(t, http.StatusOK, do("10.0.0.1:5004").Code)
}

func TestRateLimiterEvictsIdleClients(t *testing.T) {
	limiter := NewRateLimiter(zap.NewNop(), 1, 1, 30*time.Second)
	now := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	limiter.now = func() time.Time { return now }

	for i := 0; i < 500; i++ {
		assert.True(t, limiter.allow(fmt.Sprintf("10.1.%d.%d", i/256, i%256)))
	}
	assert.False(t, limiter.allow("10.1.0.0"), "second request empties the bucket")
	assert.Equal(t, 501, limiter.size(), "500 buckets plus one block")

	now = now.Add(limiterIdleTTL - time.Second)
	assert.True(t, limiter.allow("10.9.9.9"))
	assert.Equal(t, 502, limiter.size(), "nothing is idle long enough yet")

	now = now.Add(2 * time.Second)
	assert.True(t, limiter.allow("10.9.9.10"))
	assert.Equal(t, 2, limiter.size(), "only the recent clients survive the sweep")
}

func TestFinanceProxy(t *testing.T) {
	upstream := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/invoices":
			assert.Equal(t, "status=open", r.URL.RawQuery)
			assert.Equal(t, "Bearer caller", r.Header.Get(constvars.HeaderAuthorization))
			assert.Equal(t, "req-42", r.Header.Get(constvars.HeaderXRequestID))
			w.Header().Set("Content-Type", "application/json")
			w.WriteHeader(http.StatusOK)
			w.Write([]byte(`{"data":[{"id":"inv-1"}]}`))
		case "/invoices/bad":
			var buf bytes.Buffer
			bw := brotli.NewWriter(&buf)
			bw.Write([]byte(`{"detail":"invoice already paid"}`))
			bw.Close()
			w.Header().Set(constvars.HeaderContentEncoding, "br")
			w.WriteHeader(http.StatusUnprocessableEntity)
			w.Write(buf.Bytes())
		default:
			w.WriteHeader(http.StatusInternalServerError)
		}
	}))
	defer upstream.Close()

	m := newTestMiddlewares(t, &fakeVerifier{})
	proxy := m.FinanceProxy("/api/v1/finance", upstream.URL)

	newRequest := func(method, target string) *http.Request {
		req := httptest.NewRequest(method, target, nil)
		req.Header.Set(constvars.HeaderAuthorization, "Bearer caller")
		return req.WithContext(context.WithValue(req.Context(), constvars.CONTEXT_REQUEST_ID_KEY, "req-42"))
	}

	t.Run("passes success through", func(t *testing.T) {
		rr := httptest.NewRecorder()
		proxy.ServeHTTP(rr, newRequest(http.MethodGet, "/api/v1/finance/invoices?status=open"))

		assert.Equal(t, http.StatusOK, rr.Code)
		assert.JSONEq(t, `{"data":[{"id":"inv-1"}]}`, rr.Body.String())
	})

	t.Run("normalizes a compressed error", func(t *testing.T) {
		rr := httptest.NewRecorder()
		proxy.ServeHTTP(rr, newRequest(http.MethodPost, "/api/v1/finance/invoices/bad"))

		assert.Equal(t, http.StatusUnprocessableEntity, rr.Code)
		body := decodeErrorBody(t, rr)
		assert.False(t, body.Success)
		assert.Equal(t, constvars.ErrCategoryUpstream, body.Error)
		assert.Equal(t, "invoice already paid", body.Message)
	})

	t.Run("upstream 5xx becomes bad gateway", func(t *testing.T) {
		rr := httptest.NewRecorder()
		proxy.ServeHTTP(rr, newRequest(http.MethodGet, "/api/v1/finance/broken"))

		assert.Equal(t, http.StatusBadGateway, rr.Code)
	})

	t.Run("unreachable upstream", func(t *testing.T) {
		dead := m.FinanceProxy("/api/v1/finance", "http://127.0.0.1:1")
		rr := httptest.NewRecorder()
		dead.ServeHTTP(rr, newRequest(http.MethodGet, "/api/v1/finance/invoices"))

		assert.Equal(t, http.StatusBadGateway, rr.Code)
		assert.Equal(t, constvars.ErrCategoryNetwork, decodeErrorBody(t, rr).Error)
	})
}

func TestDecodeBodySniffsWithoutHeader(t *testing.T) {
	var buf bytes.Buffer
	bw := brotli.NewWriter(&buf)
	bw.Write([]byte(`{"message":"nope"}`))
	bw.Close()

	assert.JSONEq(t, `{"message":"nope"}`, string(decodeBody("", buf.Bytes())))
	assert.Equal(t, `{"message":"plain"}`, string(decodeBody("", []byte(`{"message":"plain"}`))))
}

func TestErrorHandlerRecoversPanic(t *testing.T) {
	m := newTestMiddlewares(t, &fakeVerifier{})
	handler := m.ErrorHandler(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		panic("boom")
	}))

	rr := httptest.NewRecorder()
	assert.NotPanics(t, func() {
		handler.ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/api/v1/scales", nil))
	})
	assert.Equal(t, http.StatusInternalServerError, rr.Code)
	assert.Equal(t, constvars.ErrClientSomethingWrongWithApplication, decodeErrorBody(t, rr).Message)
}

func TestRequestIDMiddleware(t *testing.T) {
	m := newTestMiddlewares(t, &fakeVerifier{})
	var got any
	handler := m.RequestIDMiddleware(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		got = r.Context().Value(constvars.CONTEXT_REQUEST_ID_KEY)
	}))

	req := httptest.NewRequest(http.MethodGet, "/health", nil)
	req.Header.Set(constvars.HeaderXRequestID, "client-id")
	rr := httptest.NewRecorder()
	handler.ServeHTTP(rr, req)

	assert.Equal(t, "client-id", got)
	assert.Equal(t, "client-id", rr.Header().Get(constvars.HeaderXRequestID))

	rr = httptest.NewRecorder()
	handler.ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/health", nil))
	assert.NotEmpty(t, got)
	assert.NotEqual(t, "client-id", got)
}
