package backend

import (
	"errors"
	"fmt"
	"mindhub-service/internal/pkg/constvars"
	"mindhub-service/internal/pkg/exceptions"
	"strings"

	"github.com/tidwall/gjson"
)

// MapError turns a backend error response into the service's error taxonomy.
func MapError(status int, body []byte, resource string) error {
	message := ExtractMessage(body)
	cause := fmt.Errorf("backend status %d", status)
	if message != "" {
		cause = fmt.Errorf("backend status %d: %s", status, message)
	}

	switch {
	case status == constvars.StatusUnauthorized:
		return exceptions.ErrBackendUnauthorized(cause, resource)
	case status == constvars.StatusForbidden:
		return exceptions.ErrBackendForbidden(cause, resource)
	case status == constvars.StatusNotFound:
		return exceptions.ErrBackendNotFound(cause, resource)
	case status == constvars.StatusTooManyRequests:
		return exceptions.ErrTooManyRequests(cause)
	case status >= constvars.StatusBadRequest && status < constvars.StatusInternalServerError:
		if message == "" {
			message = constvars.ErrClientBackendRejectedRequest
		}
		return exceptions.ErrBackendRejected(cause, message, resource, status)
	default:
		return exceptions.ErrBackendUnavailable(cause, resource)
	}
}

// ExtractMessage reads the first non-empty message the backend put in a JSON
// error body. Plain text bodies are returned trimmed.
func ExtractMessage(body []byte) string {
	trimmed := strings.TrimSpace(string(body))
	if trimmed == "" {
		return ""
	}
	if !gjson.Valid(trimmed) {
		if len(trimmed) > 300 {
			return ""
		}
		return trimmed
	}
	for _, path := range constvars.BackendErrorMessagePaths {
		result := gjson.Get(trimmed, path)
		if result.Type == gjson.String && strings.TrimSpace(result.Str) != "" {
			return strings.TrimSpace(result.Str)
		}
	}
	return ""
}

// IsNetworkError reports whether err means the backend could not be reached
// or failed on its side, so the work is worth retrying later.
func IsNetworkError(err error) bool {
	var customErr *exceptions.CustomError
	if !errors.As(err, &customErr) {
		return false
	}
	return customErr.Category == constvars.ErrCategoryNetwork
}

// IsAuthError reports a 401/403 from the backend.
func IsAuthError(err error) bool {
	var customErr *exceptions.CustomError
	if !errors.As(err, &customErr) {
		return false
	}
	return customErr.StatusCode == constvars.StatusUnauthorized ||
		customErr.StatusCode == constvars.StatusForbidden
}
