package errorutil

import (
	"errors"
	"fmt"
	"net/http"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestToDomainError(t *testing.T) {
	t.Run("nil stays nil", func(t *testing.T) {
		assert.Nil(t, ToDomainError(nil))
	})

	t.Run("wrapped domain error is unwrapped", func(t *testing.T) {
		err := fmt.Errorf("login: %w", NewUnauthorized("invalid credentials"))
		de := ToDomainError(err)
		require.NotNil(t, de)
		assert.Equal(t, CodeUnauthorized, de.Code)
		assert.Equal(t, http.StatusUnauthorized, de.HTTPStatus)
	})

	t.Run("fiber error keeps status", func(t *testing.T) {
		de := ToDomainError(fiber.NewError(http.StatusForbidden, "end-user required"))
		assert.Equal(t, CodeForbidden, de.Code)
		assert.Equal(t, "end-user required", de.Message)
		assert.Equal(t, http.StatusForbidden, de.HTTPStatus)
	})

	t.Run("unknown error hides cause", func(t *testing.T) {
		cause := errors.New("pq: connection refused")
		de := ToDomainError(cause)
		assert.Equal(t, CodeInternal, de.Code)
		assert.Equal(t, "internal server error", de.Message)
		assert.ErrorIs(t, de, cause)
	})
}

func TestConfigurationError(t *testing.T) {
	err := fmt.Errorf("load: %w", &ConfigurationError{Key: "AUTH_JWT_SECRET", Reason: "is required"})
	assert.True(t, IsConfigurationError(err))
	assert.Contains(t, err.Error(), "AUTH_JWT_SECRET is required")
	assert.False(t, IsConfigurationError(errors.New("other")))
}
