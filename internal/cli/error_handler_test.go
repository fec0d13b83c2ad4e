package cli

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"

	apperrors "zenflow/internal/errors"
	"zenflow/internal/validation"
)

func fieldFailure() error {
	ve := validation.NewValidationError()
	ve.AddInvalidFormatError("color", "orange", "#rrggbb")
	return apperrors.NewValidationError("invalid project", ve)
}

func TestErrorHandler_Handle(t *testing.T) {
	eh := NewErrorHandler()

	tests := []struct {
		name      string
		operation string
		err       error
		expected  string
	}{
		{
			name:      "should keep the validation summary",
			operation: "add task",
			err:       apperrors.NewValidationError("invalid task", nil),
			expected:  "failed to add task: invalid task",
		},
		{
			name:      "should prefer field detail over the summary",
			operation: "add project",
			err:       fieldFailure(),
			expected:  "failed to add project: color has invalid format, expected: #rrggbb",
		},
		{
			name:      "should name the missing resource",
			operation: "complete task",
			err:       apperrors.NewNotFoundError("task", "123"),
			expected:  "failed to complete task: task not found: 123",
		},
		{
			name:      "should hide storage detail",
			operation: "save task",
			err:       apperrors.NewStorageError("write", errors.New("disk full")),
			expected:  "failed to save task: Your data could not be saved. Changes may be lost on restart.",
		},
		{
			name:      "should show the balance on a refused purchase",
			operation: "redeem reward",
			err:       apperrors.NewInsufficientFundsError(50, 20),
			expected:  "failed to redeem reward: not enough gold: need 50, have 20",
		},
		{
			name:      "should pass plain errors through",
			operation: "process",
			err:       errors.New("regular error"),
			expected:  "failed to process: regular error",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.EqualError(t, eh.Handle(tt.operation, tt.err), tt.expected)
		})
	}

	t.Run("should return nil for nil", func(t *testing.T) {
		assert.NoError(t, eh.Handle("anything", nil))
		assert.NoError(t, eh.HandleSimple(nil))
	})
}

func TestErrorHandler_HandleSimple(t *testing.T) {
	eh := NewErrorHandler()

	tests := []struct {
		name     string
		err      error
		expected string
	}{
		{name: "should use the not found message", err: apperrors.NewNotFoundError("habit", "h1"), expected: "habit not found: h1"},
		{name: "should mask import detail", err: apperrors.NewImportError(errors.New("unexpected EOF")), expected: "Invalid file"},
		{name: "should pass plain errors through", err: errors.New("regular error"), expected: "regular error"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.EqualError(t, eh.HandleSimple(tt.err), tt.expected)
		})
	}
}

func TestErrorHandler_Classification(t *testing.T) {
	eh := NewErrorHandler()

	tests := []struct {
		name         string
		err          error
		validation   bool
		notFound     bool
		insufficient bool
		code         string
	}{
		{name: "should classify validation", err: fieldFailure(), validation: true, code: "VALIDATION_FAILED"},
		{name: "should classify a bare field failure", err: validation.NewValidationError(), validation: true, code: "UNKNOWN_ERROR"},
		{name: "should classify not found", err: apperrors.NewNotFoundError("task", "1"), notFound: true, code: "NOT_FOUND"},
		{name: "should classify insufficient funds", err: apperrors.NewInsufficientFundsError(10, 0), insufficient: true, code: "INSUFFICIENT_FUNDS"},
		{name: "should classify plain errors as unknown", err: errors.New("x"), code: "UNKNOWN_ERROR"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.validation, eh.IsValidationError(tt.err))
			assert.Equal(t, tt.notFound, eh.IsNotFoundError(tt.err))
			assert.Equal(t, tt.insufficient, eh.IsInsufficientFundsError(tt.err))
			assert.Equal(t, tt.code, eh.GetErrorCode(tt.err))
		})
	}
}
