package backend

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"mindhub-service/internal/app/config"
	"mindhub-service/internal/pkg/constvars"
	"mindhub-service/internal/pkg/exceptions"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/goccy/go-json"
	"github.com/tidwall/gjson"
	"go.uber.org/zap"
	"golang.org/x/time/rate"
)

// ServiceTokenSource mints bearer tokens for work that has no user behind it.
type ServiceTokenSource interface {
	ServiceToken(ctx context.Context) (string, error)
	Invalidate()
}

// WithServiceAccount marks ctx so outbound calls authenticate with a service
// token instead of the caller's bearer token.
func WithServiceAccount(ctx context.Context) context.Context {
	return context.WithValue(ctx, constvars.CONTEXT_SERVICE_ACCOUNT_KEY, true)
}

func isServiceAccount(ctx context.Context) bool {
	v, _ := ctx.Value(constvars.CONTEXT_SERVICE_ACCOUNT_KEY).(bool)
	return v
}

// Transport is the single HTTP path to the clinical backend. Every domain
// client goes through Do, so auth, throttling, retry and error mapping are
// the same for all of them.
type Transport struct {
	BaseUrl    string
	HTTPClient *http.Client
	Limiter    *rate.Limiter
	Tokens     ServiceTokenSource
	MaxRetries int
	BaseDelay  time.Duration
	Log        *zap.Logger

	sleep func(ctx context.Context, d time.Duration) error
}

func NewTransport(cfg *config.InternalConfig, tokens ServiceTokenSource, logger *zap.Logger) *Transport {
	limit := rate.Inf
	if cfg.Backend.RateLimitPerSecond > 0 {
		limit = rate.Limit(cfg.Backend.RateLimitPerSecond)
	}
	burst := cfg.Backend.RateLimitBurst
	if burst <= 0 {
		burst = 1
	}

	return &Transport{
		BaseUrl: strings.TrimRight(cfg.Backend.BaseUrl, "/"),
		HTTPClient: &http.Client{
			Timeout: time.Duration(cfg.Backend.HTTPTimeoutInSeconds) * time.Second,
		},
		Limiter:    rate.NewLimiter(limit, burst),
		Tokens:     tokens,
		MaxRetries: cfg.Backend.MaxRetries,
		BaseDelay:  time.Duration(cfg.Backend.RetryBaseDelayInMilliseconds) * time.Millisecond,
		Log:        logger,
		sleep:      sleepContext,
	}
}

// Call describes one request to the backend.
type Call struct {
	Method string
	// Resource names the backend resource in logs and errors.
	Resource string
	Path     string
	Query    url.Values
	Body     interface{}
	Out      interface{}
}

func (t *Transport) Do(ctx context.Context, call Call) error {
	requestID, _ := ctx.Value(constvars.CONTEXT_REQUEST_ID_KEY).(string)

	var payload []byte
	if call.Body != nil {
		var err error
		payload, err = json.Marshal(call.Body)
		if err != nil {
			return exceptions.ErrCannotMarshalJSON(err)
		}
	}

	target := t.BaseUrl + call.Path
	if len(call.Query) > 0 {
		target += "?" + call.Query.Encode()
	}

	service := isServiceAccount(ctx) && bearerFromContext(ctx) == ""
	idempotent := isIdempotent(call.Method)

	var lastErr error
	for attempt := 0; ; attempt++ {
		if attempt > 0 {
			if err := t.backoff(ctx, attempt-1); err != nil {
				return exceptions.ErrServerDeadlineExceeded(err)
			}
		}
		canRetry := attempt < t.MaxRetries

		if err := t.Limiter.Wait(ctx); err != nil {
			return exceptions.ErrServerDeadlineExceeded(err)
		}

		token, err := t.resolveToken(ctx, service)
		if err != nil {
			return err
		}

		var body io.Reader
		if payload != nil {
			body = bytes.NewReader(payload)
		}
		req, err := http.NewRequestWithContext(ctx, call.Method, target, body)
		if err != nil {
			return exceptions.ErrCreateHTTPRequest(err)
		}
		req.Header.Set(constvars.HeaderAccept, constvars.MIMEApplicationJSON)
		req.Header.Set(constvars.HeaderAuthorization, constvars.AuthorizationBearerPrefix+token)
		if payload != nil {
			req.Header.Set(constvars.HeaderContentType, constvars.MIMEApplicationJSON)
		}
		if requestID != "" {
			req.Header.Set(constvars.HeaderXRequestID, requestID)
		}

		t.Log.Debug("backendTransport.Do sending request",
			zap.String(constvars.LoggingRequestIDKey, requestID),
			zap.String(constvars.LoggingMethodKey, call.Method),
			zap.String(constvars.LoggingURLKey, target),
			zap.Int(constvars.LoggingAttemptKey, attempt),
		)

		resp, err := t.HTTPClient.Do(req)
		if err != nil {
			if ctx.Err() != nil {
				return exceptions.ErrServerDeadlineExceeded(ctx.Err())
			}
			lastErr = exceptions.ErrBackendUnavailable(err, call.Resource)
			if idempotent && canRetry {
				t.logRetry(requestID, call, attempt, err)
				continue
			}
			return lastErr
		}

		respBody, readErr := io.ReadAll(resp.Body)
		resp.Body.Close()
		if readErr != nil {
			return exceptions.ErrReadBody(readErr)
		}

		switch {
		case resp.StatusCode == constvars.StatusUnauthorized && service && t.Tokens != nil && canRetry:
			t.Tokens.Invalidate()
			t.logRetry(requestID, call, attempt, errors.New("service token rejected"))
			continue
		case isRetryableStatus(resp.StatusCode) && idempotent && canRetry:
			t.logRetry(requestID, call, attempt, fmt.Errorf("status %d", resp.StatusCode))
			continue
		case resp.StatusCode >= constvars.StatusBadRequest:
			mapped := MapError(resp.StatusCode, respBody, call.Resource)
			t.Log.Error("backendTransport.Do backend returned error",
				zap.String(constvars.LoggingRequestIDKey, requestID),
				zap.String(constvars.LoggingMethodKey, call.Method),
				zap.String(constvars.LoggingURLKey, target),
				zap.Int(constvars.LoggingStatusCodeKey, resp.StatusCode),
				zap.Error(mapped),
			)
			return mapped
		}

		if call.Out == nil || len(bytes.TrimSpace(respBody)) == 0 {
			return nil
		}
		if err := json.Unmarshal(unwrapEnvelope(respBody), call.Out); err != nil {
			return exceptions.ErrBackendDecode(err, call.Resource)
		}
		return nil
	}
}

func (t *Transport) resolveToken(ctx context.Context, service bool) (string, error) {
	if !service {
		token := bearerFromContext(ctx)
		if token == "" {
			return "", exceptions.ErrTokenMissing(errors.New("no bearer token for clinical backend call"))
		}
		return token, nil
	}
	if t.Tokens == nil {
		return "", exceptions.ErrTokenGenerate(errors.New("no service token source configured"))
	}
	return t.Tokens.ServiceToken(ctx)
}

func (t *Transport) backoff(ctx context.Context, attempt int) error {
	delay := t.BaseDelay * time.Duration(1<<attempt)
	if delay <= 0 {
		return ctx.Err()
	}
	sleep := t.sleep
	if sleep == nil {
		sleep = sleepContext
	}
	return sleep(ctx, delay)
}

func (t *Transport) logRetry(requestID string, call Call, attempt int, cause error) {
	t.Log.Warn("backendTransport.Do retrying request",
		zap.String(constvars.LoggingRequestIDKey, requestID),
		zap.String(constvars.LoggingMethodKey, call.Method),
		zap.String(constvars.LoggingEndpointKey, call.Path),
		zap.Int(constvars.LoggingAttemptKey, attempt+1),
		zap.Error(cause),
	)
}

func sleepContext(ctx context.Context, d time.Duration) error {
	timer := time.NewTimer(d)
	defer timer.Stop()
	select {
	case <-timer.C:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

func bearerFromContext(ctx context.Context) string {
	token, _ := ctx.Value(constvars.CONTEXT_BEARER_TOKEN_KEY).(string)
	return token
}

func isIdempotent(method string) bool {
	switch method {
	case constvars.MethodGet, constvars.MethodPut, constvars.MethodDelete, constvars.MethodHead:
		return true
	}
	return false
}

func isRetryableStatus(status int) bool {
	return status == constvars.StatusBadGateway ||
		status == constvars.StatusServiceUnavailable ||
		status == constvars.StatusGatewayTimeout
}

// unwrapEnvelope strips a {success, data} wrapper when the backend uses one.
func unwrapEnvelope(body []byte) []byte {
	if !gjson.ValidBytes(body) {
		return body
	}
	if gjson.GetBytes(body, "success").Exists() {
		if data := gjson.GetBytes(body, "data"); data.IsObject() {
			return []byte(data.Raw)
		}
	}
	return body
}
