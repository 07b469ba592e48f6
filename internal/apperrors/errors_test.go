package apperrors

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestDomainError_Error(t *testing.T) {
	tests := []struct {
		name     string
		err      *DomainError
		expected string
	}{
		{
			name: "with wrapped error",
			err: &DomainError{
				Code:    "debit_failed",
				Message: "debit failed",
				Err:     errors.New("connection reset"),
			},
			expected: "debit failed: connection reset",
		},
		{
			name: "without wrapped error",
			err: &DomainError{
				Code:    "invalid_state",
				Message: "cannot transition order in current state",
				Err:     nil,
			},
			expected: "cannot transition order in current state",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, tt.err.Error())
		})
	}
}

func TestDomainError_Unwrap(t *testing.T) {
	originalErr := errors.New("original error")
	domainErr := &DomainError{Code: "test", Message: "test message", Err: originalErr}

	assert.Equal(t, originalErr, domainErr.Unwrap())
}

func TestNewDomainError(t *testing.T) {
	originalErr := errors.New("underlying error")
	err := NewDomainError("test_code", "test message", originalErr)

	assert.Equal(t, "test_code", err.Code)
	assert.Equal(t, "test message", err.Message)
	assert.Equal(t, originalErr, err.Err)
}

func TestValidationError_Error(t *testing.T) {
	err := &ValidationError{Field: "amount", Message: "must be greater than 0"}
	assert.Equal(t, "validation failed for field amount: must be greater than 0", err.Error())
}

func TestNewValidationError(t *testing.T) {
	err := NewValidationError("user_id", "cannot be empty")
	assert.Equal(t, "user_id", err.Field)
	assert.Equal(t, "cannot be empty", err.Message)
}

func TestErrorConstants(t *testing.T) {
	assert.NotNil(t, ErrAccountNotFound)
	assert.NotNil(t, ErrAccountExists)
	assert.NotNil(t, ErrInsufficientFunds)
	assert.NotNil(t, ErrOptimisticLockFailed)
	assert.NotNil(t, ErrOrderNotFound)
	assert.NotNil(t, ErrIllegalTransition)
	assert.NotNil(t, ErrInvalidAmount)
	assert.NotNil(t, ErrDuplicateEvent)
	assert.NotNil(t, ErrValidationFailed)
}

func TestErrorUnwrapping(t *testing.T) {
	wrapped := NewDomainError("ledger_error", "debit call failed", ErrInsufficientFunds)

	assert.True(t, errors.Is(wrapped, ErrInsufficientFunds))
	assert.ErrorIs(t, wrapped, ErrInsufficientFunds)
}
