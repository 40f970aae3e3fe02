package exceptions

import (
	"errors"
	"fmt"
	"testing"

	"mindhub-service/internal/pkg/constvars"

	"github.com/go-playground/validator/v10"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBuildNewCustomError(t *testing.T) {
	t.Run("wraps plain error", func(t *testing.T) {
		customErr := ErrMongoDBFindDocument(errors.New("connection reset"))

		assert.Equal(t, constvars.StatusInternalServerError, customErr.StatusCode)
		assert.Equal(t, constvars.ErrCategoryInternal, customErr.Category)
		assert.Equal(t, constvars.ErrClientSomethingWrongWithApplication, customErr.ClientMessage)
		assert.Contains(t, customErr.DevMessage, "connection reset")
		require.Len(t, customErr.Locations, 1)
		assert.Contains(t, customErr.Locations[0].FunctionName, "TestBuildNewCustomError")
	})

	t.Run("keeps original custom error and appends location", func(t *testing.T) {
		original := ErrAssessmentCompleted(nil)
		wrapped := ErrServerProcess(fmt.Errorf("usecase: %w", original))

		assert.Same(t, original, wrapped)
		assert.Equal(t, constvars.StatusConflict, wrapped.StatusCode)
		assert.Len(t, wrapped.Locations, 2)
	})

	t.Run("nil error keeps dev message as is", func(t *testing.T) {
		customErr := ErrTokenMissing(nil)

		assert.Equal(t, constvars.ErrDevAuthTokenMissing, customErr.DevMessage)
		assert.Equal(t, constvars.ErrCategoryAuthentication, customErr.Category)
	})

	t.Run("explicit category wins over status", func(t *testing.T) {
		customErr := ErrBackendUnavailable(errors.New("dial tcp"), "/patients")

		assert.Equal(t, constvars.StatusBadGateway, customErr.StatusCode)
		assert.Equal(t, constvars.ErrCategoryNetwork, customErr.Category)
		assert.Equal(t, constvars.ErrClientNetworkFailure, customErr.ClientMessage)
	})
}

func TestCategoryForStatus(t *testing.T) {
	tests := []struct {
		status   int
		expected string
	}{
		{constvars.StatusUnauthorized, constvars.ErrCategoryAuthentication},
		{constvars.StatusForbidden, constvars.ErrCategoryForbidden},
		{constvars.StatusNotFound, constvars.ErrCategoryNotFound},
		{constvars.StatusConflict, constvars.ErrCategoryConflict},
		{constvars.StatusTooManyRequests, constvars.ErrCategoryRateLimited},
		{constvars.StatusGatewayTimeout, constvars.ErrCategoryTimeout},
		{constvars.StatusServiceUnavailable, constvars.ErrCategoryNetwork},
		{constvars.StatusUnprocessableEntity, constvars.ErrCategoryValidation},
		{constvars.StatusInternalServerError, constvars.ErrCategoryInternal},
	}

	for _, tt := range tests {
		t.Run(fmt.Sprintf("status %d", tt.status), func(t *testing.T) {
			assert.Equal(t, tt.expected, CategoryForStatus(tt.status))
		})
	}
}

func TestFormatFirstValidationError(t *testing.T) {
	type payload struct {
		PatientID string `validate:"required"`
		Title     string `validate:"min=3"`
		Kind      string `validate:"oneof=draft published"`
	}

	v := validator.New()

	t.Run("required field", func(t *testing.T) {
		err := v.Struct(payload{Title: "abc", Kind: "draft"})
		assert.Equal(t, "patientid es obligatorio", FormatFirstValidationError(err))
	})

	t.Run("param tag", func(t *testing.T) {
		err := v.Struct(payload{PatientID: "p1", Title: "a", Kind: "draft"})
		assert.Equal(t, "title debe tener al menos 3 caracteres", FormatFirstValidationError(err))
	})

	t.Run("oneof joins params", func(t *testing.T) {
		err := v.Struct(payload{PatientID: "p1", Title: "abc", Kind: "x"})
		assert.Equal(t, "kind debe ser uno de: draft, published", FormatFirstValidationError(err))
	})

	t.Run("non validation error", func(t *testing.T) {
		assert.Equal(t, constvars.ErrClientCannotProcessRequest, FormatFirstValidationError(errors.New("boom")))
	})
}

func TestWrapHelpers(t *testing.T) {
	withErr := WrapWithError(errors.New("quota exhausted"), constvars.StatusTooManyRequests, "intenta más tarde", "upstream quota")
	assert.Equal(t, constvars.ErrCategoryRateLimited, withErr.Category)
	assert.Equal(t, "upstream quota: quota exhausted", withErr.DevMessage)
	require.Len(t, withErr.Locations, 1)
	assert.Contains(t, withErr.Locations[0].FunctionName, "TestWrapHelpers")

	withoutErr := WrapWithoutError(constvars.StatusNotFound, "no encontrado", "missing draft")
	assert.Equal(t, constvars.ErrCategoryNotFound, withoutErr.Category)
	assert.Equal(t, "missing draft", withoutErr.DevMessage)
	assert.False(t, withoutErr.Success)
}
