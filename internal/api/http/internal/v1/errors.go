package v1

import (
	"errors"
	"net/http"

	"github.com/agro-export/backend/internal/service"
)

// Errors
const (
	InternalErrorCode   ErrorCode = "INTERNAL_ERROR"
	InvalidRequestCode  ErrorCode = "INVALID_REQUEST"
	InvalidEmailCode    ErrorCode = "INVALID_EMAIL"
	DeliveryFailedCode  ErrorCode = "DELIVERY_FAILED"
	InvalidCodeCode     ErrorCode = "INVALID_CODE"
	CodeExpiredCode     ErrorCode = "CODE_EXPIRED"
	CodeAlreadyUsedCode ErrorCode = "CODE_ALREADY_USED"
	WeakPasswordCode    ErrorCode = "WEAK_PASSWORD"
	UserNotFoundCode    ErrorCode = "USER_NOT_FOUND"
	TooManyAttemptsCode ErrorCode = "TOO_MANY_ATTEMPTS"
	ResendTooSoonCode   ErrorCode = "RESEND_TOO_SOON"
)

type ErrorCode string

type ErrorStruct struct {
	Ok        bool `json:"ok"`
	ErrorCode `json:"error"`
} // @name ErrorStruct

type ValidationErrorStruct struct {
	Ok        bool              `json:"ok"`
	ErrorCode ErrorCode         `json:"error"`
	Errors    []ValidationError `json:"validation_errors"`
} // @name ValidationErrorStruct

type ValidationError struct {
	FieldKey  string    `json:"field_key"`
	ErrorCode ErrorCode `json:"error"`
}

var serviceErrors = []struct {
	err    error
	code   ErrorCode
	status int
}{
	{service.ErrInvalidEmail, InvalidEmailCode, http.StatusBadRequest},
	{service.ErrWeakPassword, WeakPasswordCode, http.StatusBadRequest},
	{service.ErrInvalidCode, InvalidCodeCode, http.StatusBadRequest},
	{service.ErrCodeExpired, CodeExpiredCode, http.StatusBadRequest},
	{service.ErrCodeAlreadyUsed, CodeAlreadyUsedCode, http.StatusBadRequest},
	{service.ErrUserNotFound, UserNotFoundCode, http.StatusNotFound},
	{service.ErrTooManyAttempts, TooManyAttemptsCode, http.StatusTooManyRequests},
	{service.ErrResendTooSoon, ResendTooSoonCode, http.StatusTooManyRequests},
	{service.ErrDeliveryFailed, DeliveryFailedCode, http.StatusBadGateway},
}

func getErrorStruct(code ErrorCode) *ErrorStruct {
	return &ErrorStruct{ErrorCode: code}
}

// errorCodeOf maps a service error to its identifier and HTTP status.
// Anything unknown is reported as INTERNAL_ERROR.
func errorCodeOf(err error) (ErrorCode, int) {
	for _, e := range serviceErrors {
		if errors.Is(err, e.err) {
			return e.code, e.status
		}
	}

	return InternalErrorCode, http.StatusInternalServerError
}

func statusOf(code ErrorCode) int {
	for _, e := range serviceErrors {
		if e.code == code {
			return e.status
		}
	}
	if code == InvalidRequestCode {
		return http.StatusBadRequest
	}

	return http.StatusInternalServerError
}
