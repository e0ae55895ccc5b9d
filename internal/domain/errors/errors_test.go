package errors

import (
	"net/http"
	"testing"

	"cycletrack/internal/errors"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBaseError_WithDetailsKeepsIdentity(t *testing.T) {
	detailed := ErrValidationFailed.WithDetails("at least 3 preferences are required")

	assert.True(t, errors.Is(detailed, ErrValidationFailed))
	assert.False(t, errors.Is(detailed, ErrUnauthorized))
	assert.Equal(t, "at least 3 preferences are required", detailed.Details())
	assert.Empty(t, ErrValidationFailed.Details())
	assert.Equal(t, "Input validation failed: at least 3 preferences are required", detailed.Error())
}

func TestBaseError_WrapMessageIsRecoverable(t *testing.T) {
	err := ErrEmailAlreadyRegistered.WrapMessage("registration rejected")

	var appErr AppError
	require.True(t, errors.As(err, &appErr))
	assert.Equal(t, http.StatusConflict, appErr.HTTPCode())
	assert.Equal(t, CodeEmailAlreadyRegistered, appErr.ErrorCode())
	assert.Equal(t, "Email is already registered", appErr.Message())
	assert.Contains(t, err.Error(), "registration rejected")
}

func TestTaxonomyStatusCodes(t *testing.T) {
	tests := []struct {
		err  *BaseError
		code string
		http int
	}{
		{ErrEmailAlreadyRegistered, CodeEmailAlreadyRegistered, http.StatusConflict},
		{ErrInvalidCredentialFormat, CodeInvalidCredentialFormat, http.StatusBadRequest},
		{ErrCredentialMismatch, CodeCredentialMismatch, http.StatusBadRequest},
		{ErrAccountNotFound, CodeAccountNotFound, http.StatusNotFound},
		{ErrInvalidCredential, CodeInvalidCredential, http.StatusUnauthorized},
		{ErrUnauthorized, CodeUnauthorized, http.StatusUnauthorized},
		{ErrValidationFailed, CodeValidationFailed, http.StatusBadRequest},
	}

	for _, tt := range tests {
		t.Run(tt.code, func(t *testing.T) {
			assert.Equal(t, tt.code, tt.err.ErrorCode())
			assert.Equal(t, tt.http, tt.err.HTTPCode())
		})
	}
}

func TestDatabaseExecuteError(t *testing.T) {
	cause := errors.New("connection reset")
	err := NewDatabaseExecuteError(cause, "failed to update account")

	assert.True(t, errors.Is(err, cause))
	assert.Equal(t, http.StatusInternalServerError, err.HTTPCode())
	assert.Equal(t, CodeDatabaseExecuteFailed, err.ErrorCode())
	assert.Equal(t, "failed to update account: connection reset", err.Error())
}
