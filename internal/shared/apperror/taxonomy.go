package apperror

import "net/http"

const internalMessage = "Internal server error"

// Validation is a missing or malformed field. The message is shown as-is.
func Validation(field, message string) *AppError {
	e := New(CodeInvalidInput, message, http.StatusBadRequest)
	if field != "" {
		e.Details = map[string]string{"field": field}
	}
	return e
}

// Duplicate is a unique constraint conflict on a code or email.
func Duplicate(message string, cause error) *AppError {
	if cause == nil {
		return New(CodeConflict, message, http.StatusConflict)
	}
	return Wrap(cause, CodeConflict, message, http.StatusConflict)
}

// Store wraps a connectivity or query failure. The cause stays in logs only.
func Store(cause error) *AppError {
	if cause == nil {
		return nil
	}
	return Wrap(cause, CodeInternalError, internalMessage, http.StatusInternalServerError)
}

func RequiredField(field string) *AppError {
	return Validation(field, field+" is required.")
}

func InvalidField(field string) *AppError {
	return Validation(field, field+" is invalid.")
}
