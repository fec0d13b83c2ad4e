package errors

import (
	"errors"
	"fmt"
)

// NewValidationError reports input that failed validation rules
func NewValidationError(message string, cause error) *AppError {
	return &AppError{
		Type:    ErrorTypeValidation,
		Message: message,
		Code:    "VALIDATION_FAILED",
		Cause:   cause,
	}
}

// NewNotFoundError reports a lookup that must surface absence to the caller
func NewNotFoundError(resource string, identifier string) *AppError {
	return &AppError{
		Type:    ErrorTypeNotFound,
		Message: fmt.Sprintf("%s not found: %s", resource, identifier),
		Code:    "NOT_FOUND",
		Context: map[string]any{
			"resource":   resource,
			"identifier": identifier,
		},
	}
}

// NewStorageError reports a failed read or write against the record store
func NewStorageError(operation string, cause error) *AppError {
	return &AppError{
		Type:    ErrorTypeStorage,
		Message: fmt.Sprintf("storage operation failed: %s", operation),
		Code:    "STORAGE_ERROR",
		Cause:   cause,
		Context: map[string]any{
			"operation": operation,
		},
	}
}

// NewInvalidInputError reports a malformed argument
func NewInvalidInputError(field string, value any, reason string) *AppError {
	return &AppError{
		Type:    ErrorTypeInvalidInput,
		Message: fmt.Sprintf("invalid input for %s: %s", field, reason),
		Code:    "INVALID_INPUT",
		Context: map[string]any{
			"field":  field,
			"value":  value,
			"reason": reason,
		},
	}
}

// NewImportError reports an import payload that could not be parsed
func NewImportError(cause error) *AppError {
	return &AppError{
		Type:    ErrorTypeImport,
		Message: "import payload is not a valid backup",
		Code:    "IMPORT_INVALID",
		Cause:   cause,
	}
}

// NewInsufficientFundsError reports a purchase the gold balance cannot cover
func NewInsufficientFundsError(cost, balance int) *AppError {
	return &AppError{
		Type:    ErrorTypeInsufficientFunds,
		Message: fmt.Sprintf("not enough gold: need %d, have %d", cost, balance),
		Code:    "INSUFFICIENT_FUNDS",
		Context: map[string]any{
			"cost":    cost,
			"balance": balance,
		},
	}
}

// WrapError wraps err in an AppError of the given type
func WrapError(err error, errorType ErrorType, message string) *AppError {
	return &AppError{
		Type:    errorType,
		Message: message,
		Code:    errorType.String(),
		Cause:   err,
	}
}

// IsAppError reports whether err wraps an AppError
func IsAppError(err error) bool {
	var appErr *AppError
	return errors.As(err, &appErr)
}

// AsAppError extracts the first AppError in err's chain
func AsAppError(err error) (*AppError, bool) {
	var appErr *AppError
	if errors.As(err, &appErr) {
		return appErr, true
	}
	return nil, false
}

// IsErrorType reports whether err wraps an AppError of errorType
func IsErrorType(err error, errorType ErrorType) bool {
	if appErr, ok := AsAppError(err); ok {
		return appErr.IsType(errorType)
	}
	return false
}

// GetUserMessage returns text safe to show to the user
func GetUserMessage(err error) string {
	if appErr, ok := AsAppError(err); ok {
		switch appErr.Type {
		case ErrorTypeValidation, ErrorTypeNotFound, ErrorTypeInvalidInput, ErrorTypeInsufficientFunds:
			return appErr.Message
		case ErrorTypeImport:
			return "Invalid file"
		case ErrorTypeStorage:
			return "Your data could not be saved. Changes may be lost on restart."
		default:
			return "An unexpected error occurred. Please try again."
		}
	}
	return err.Error()
}

// GetErrorCode returns the stable code of err, or UNKNOWN_ERROR
func GetErrorCode(err error) string {
	if appErr, ok := AsAppError(err); ok {
		return appErr.Code
	}
	return "UNKNOWN_ERROR"
}

// ShouldLogError reports whether err indicates a system fault rather than a user mistake
func ShouldLogError(err error) bool {
	if appErr, ok := AsAppError(err); ok {
		switch appErr.Type {
		case ErrorTypeValidation, ErrorTypeNotFound, ErrorTypeInvalidInput, ErrorTypeInsufficientFunds, ErrorTypeImport:
			return false
		default:
			return true
		}
	}
	return err != nil
}
