// internal/util/errors_test.go
package util

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestErrorHelpers(t *testing.T) {
	wrapped := fmt.Errorf("deposit: %w: 42", ErrUserNotFound)

	assert.True(t, IsError(wrapped, ErrUserNotFound))
	assert.True(t, IsNotFound(wrapped))
	assert.True(t, IsNotFound(ErrAccountNotFound))
	assert.False(t, IsNotFound(ErrInsufficientFunds))

	assert.True(t, IsRetryable(fmt.Errorf("x: %w", ErrConcurrencyConflict)))
	assert.True(t, IsRetryable(fmt.Errorf("x: %w: %w", ErrPersistenceFailure, errors.New("io"))))
	assert.False(t, IsRetryable(ErrInsufficientFunds))
}

func TestInitLogger(t *testing.T) {
	logger, err := InitLogger("debug", "development")
	assert.NoError(t, err)
	assert.NotNil(t, logger)

	_, err = InitLogger("loud", "production")
	assert.Error(t, err)
}
