package middlewares

import (
	"bytes"
	"compress/gzip"
	"io"
	"mindhub-service/internal/app/services/backend"
	"mindhub-service/internal/pkg/constvars"
	"mindhub-service/internal/pkg/exceptions"
	"mindhub-service/internal/pkg/utils"
	"net/http"
	"strings"
	"time"

	"github.com/andybalholm/brotli"
	"github.com/tidwall/gjson"
	"go.uber.org/zap"
)

const financeResource = "finance"

var hopByHopHeaders = []string{
	"Connection",
	"Keep-Alive",
	"Proxy-Authenticate",
	"Proxy-Authorization",
	"Te",
	"Trailer",
	"Transfer-Encoding",
	"Upgrade",
}

// FinanceProxy forwards everything under mountPath to target with the
// caller's headers. Successful responses stream through untouched; upstream
// errors are normalized to the service's error envelope.
func (m *Middlewares) FinanceProxy(mountPath, target string) http.Handler {
	timeout := time.Duration(m.InternalConfig.Backend.HTTPTimeoutInSeconds) * time.Second
	if timeout <= 0 {
		timeout = 15 * time.Second
	}
	client := &http.Client{
		Timeout:   timeout,
		Transport: &http.Transport{MaxIdleConnsPerHost: 100},
	}
	target = strings.TrimSuffix(target, "/")

	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		requestID := utils.GetRequestID(r.Context())

		path := strings.TrimPrefix(r.URL.Path, mountPath)
		if !strings.HasPrefix(path, "/") {
			path = "/" + path
		}
		fullURL := target + path
		if r.URL.RawQuery != "" {
			fullURL += "?" + r.URL.RawQuery
		}

		req, err := http.NewRequestWithContext(r.Context(), r.Method, fullURL, r.Body)
		if err != nil {
			utils.BuildErrorResponse(m.Log, w, exceptions.ErrServerProcess(err))
			return
		}
		req.Header = r.Header.Clone()
		for _, h := range hopByHopHeaders {
			req.Header.Del(h)
		}
		req.Header.Set(constvars.HeaderXRequestID, requestID)

		resp, err := client.Do(req)
		if err != nil {
			m.Log.Error("FinanceProxy upstream unreachable",
				zap.String(constvars.LoggingRequestIDKey, requestID),
				zap.String(constvars.LoggingURLKey, fullURL),
				zap.Error(err),
			)
			utils.BuildErrorResponse(m.Log, w, exceptions.ErrFinanceProxyUnavailable(err))
			return
		}
		defer resp.Body.Close()

		if resp.StatusCode >= http.StatusBadRequest {
			raw, readErr := io.ReadAll(resp.Body)
			if readErr != nil {
				utils.BuildErrorResponse(m.Log, w, exceptions.ErrFinanceProxyUnavailable(readErr))
				return
			}
			body := decodeBody(resp.Header.Get(constvars.HeaderContentEncoding), raw)

			m.Log.Info("FinanceProxy upstream error",
				zap.String(constvars.LoggingRequestIDKey, requestID),
				zap.Int(constvars.LoggingStatusCodeKey, resp.StatusCode),
			)
			utils.BuildErrorResponse(m.Log, w, backend.MapError(resp.StatusCode, body, financeResource))
			return
		}

		for k, v := range resp.Header {
			w.Header()[k] = v
		}
		for _, h := range hopByHopHeaders {
			w.Header().Del(h)
		}
		w.WriteHeader(resp.StatusCode)
		if _, err := io.Copy(w, resp.Body); err != nil {
			m.Log.Warn("FinanceProxy failed writing response body",
				zap.String(constvars.LoggingRequestIDKey, requestID),
				zap.Error(err),
			)
		}
	})
}

// decodeBody undoes br or gzip content encoding. Without a header it sniffs:
// a body that is not JSON is tried as brotli, then gzip.
func decodeBody(encoding string, body []byte) []byte {
	switch strings.ToLower(strings.TrimSpace(encoding)) {
	case "br":
		if decoded, err := decodeBrotli(body); err == nil {
			return decoded
		}
		return body
	case "gzip":
		if decoded, err := decodeGzip(body); err == nil {
			return decoded
		}
		return body
	}

	if len(body) == 0 || gjson.ValidBytes(body) {
		return body
	}
	if decoded, err := decodeBrotli(body); err == nil && gjson.ValidBytes(decoded) {
		return decoded
	}
	if decoded, err := decodeGzip(body); err == nil && gjson.ValidBytes(decoded) {
		return decoded
	}
	return body
}

func decodeBrotli(body []byte) ([]byte, error) {
	return io.ReadAll(brotli.NewReader(bytes.NewReader(body)))
}

func decodeGzip(body []byte) ([]byte, error) {
	gr, err := gzip.NewReader(bytes.NewReader(body))
	if err != nil {
		return nil, err
	}
	defer gr.Close()
	return io.ReadAll(gr)
}
