package simulation

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/lifecast/retirement-engine/internal/domain"
)

func TestInfrastructureErrorsAreRetryable(t *testing.T) {
	cause := errors.New("worker pool exhausted")
	err := &InfrastructureError{Op: "run scenarios", Err: cause}

	assert.EqualError(t, err, "simulation infrastructure: run scenarios: worker pool exhausted")
	assert.ErrorIs(t, err, cause)
	assert.True(t, IsRetryable(err))
	assert.True(t, IsRetryable(fmt.Errorf("request failed: %w", err)))
}

func TestValidationErrorsAreNotRetryable(t *testing.T) {
	err := &domain.InvalidParameterError{Field: "iterations", Reason: "must be positive"}
	assert.False(t, IsRetryable(err))
	assert.False(t, IsRetryable(nil))
	assert.True(t, IsRetryable(ErrRunAborted))
}
