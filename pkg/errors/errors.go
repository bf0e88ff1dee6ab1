package errors

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
)

const (
	CodeNotFound     = "NOT_FOUND"
	CodeValidation   = "VALIDATION_ERROR"
	CodeConflict     = "CONFLICT"
	CodeInternal     = "INTERNAL_ERROR"
	CodeBadRequest   = "BAD_REQUEST"
	CodeUnavailable  = "SERVICE_UNAVAILABLE"
	CodeInvalidInput = "INVALID_INPUT"

	CodeSaturated                    = "SATURATED"
	CodeInsufficientInventory        = "INSUFFICIENT_INVENTORY"
	CodeDownstreamUnavailable        = "DOWNSTREAM_UNAVAILABLE"
	CodeDownstreamTimeout            = "DOWNSTREAM_TIMEOUT"
	CodeDownstreamError              = "DOWNSTREAM_ERROR"
	CodeTransientPersistenceFailure  = "TRANSIENT_PERSISTENCE_FAILURE"
	CodePersistentPersistenceFailure = "PERSISTENT_PERSISTENCE_FAILURE"
	CodeCompensationFailed           = "COMPENSATION_FAILED"
	CodeNonCriticalFailure           = "NON_CRITICAL_FAILURE"
)

type AppError struct {
	Code       string         `json:"code"`
	Message    string         `json:"message"`
	HTTPStatus int            `json:"-"`
	Details    map[string]any `json:"details,omitempty"`
	Err        error          `json:"-"`
}

func (e *AppError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %s (caused by: %v)", e.Code, e.Message, e.Err)
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

func (e *AppError) Unwrap() error {
	return e.Err
}

func (e *AppError) StatusCode() int {
	return e.HTTPStatus
}

func (e *AppError) ToJSON() []byte {
	response := ErrorResponse{
		Code:    e.Code,
		Message: e.Message,
		Details: e.Details,
	}
	data, _ := json.Marshal(response)
	return data
}

type ErrorResponse struct {
	Code    string         `json:"code"`
	Message string         `json:"message"`
	Details map[string]any `json:"details,omitempty"`
}

func New(code, message string, httpStatus int) *AppError {
	return &AppError{
		Code:       code,
		Message:    message,
		HTTPStatus: httpStatus,
	}
}

func Wrap(err error, code, message string, httpStatus int) *AppError {
	return &AppError{
		Code:       code,
		Message:    message,
		HTTPStatus: httpStatus,
		Err:        err,
	}
}

// WithDetails merges details into the error, keeping keys already present.
func (e *AppError) WithDetails(details map[string]any) *AppError {
	if e.Details == nil {
		e.Details = make(map[string]any, len(details))
	}
	for k, v := range details {
		if _, exists := e.Details[k]; !exists {
			e.Details[k] = v
		}
	}
	return e
}

func NotFound(resource string) *AppError {
	return &AppError{
		Code:       CodeNotFound,
		Message:    fmt.Sprintf("%s not found", resource),
		HTTPStatus: http.StatusNotFound,
	}
}

func NotFoundWithID(resource, id string) *AppError {
	return &AppError{
		Code:       CodeNotFound,
		Message:    fmt.Sprintf("%s not found", resource),
		HTTPStatus: http.StatusNotFound,
		Details: map[string]any{
			"resource": resource,
			"id":       id,
		},
	}
}

func Validation(message string, details map[string]any) *AppError {
	return &AppError{
		Code:       CodeValidation,
		Message:    message,
		HTTPStatus: http.StatusUnprocessableEntity,
		Details:    details,
	}
}

func InvalidInput(message string) *AppError {
	return &AppError{
		Code:       CodeInvalidInput,
		Message:    message,
		HTTPStatus: http.StatusBadRequest,
	}
}

func Conflict(message string) *AppError {
	return &AppError{
		Code:       CodeConflict,
		Message:    message,
		HTTPStatus: http.StatusConflict,
	}
}

func Internal(message string, err error) *AppError {
	return &AppError{
		Code:       CodeInternal,
		Message:    message,
		HTTPStatus: http.StatusInternalServerError,
		Err:        err,
	}
}

func Unavailable(service string) *AppError {
	return &AppError{
		Code:       CodeUnavailable,
		Message:    fmt.Sprintf("%s is temporarily unavailable", service),
		HTTPStatus: http.StatusServiceUnavailable,
	}
}

// Saturated is returned by the admission gate when every slot is held.
func Saturated(message string) *AppError {
	return &AppError{
		Code:       CodeSaturated,
		Message:    message,
		HTTPStatus: http.StatusTooManyRequests,
	}
}

func InsufficientInventory(message string, err error) *AppError {
	return &AppError{
		Code:       CodeInsufficientInventory,
		Message:    message,
		HTTPStatus: http.StatusConflict,
		Err:        err,
	}
}

func DownstreamUnavailable(service string, err error) *AppError {
	return &AppError{
		Code:       CodeDownstreamUnavailable,
		Message:    fmt.Sprintf("%s is unavailable", service),
		HTTPStatus: http.StatusBadGateway,
		Err:        err,
	}
}

func DownstreamTimeout(service string, err error) *AppError {
	return &AppError{
		Code:       CodeDownstreamTimeout,
		Message:    fmt.Sprintf("%s did not respond in time", service),
		HTTPStatus: http.StatusGatewayTimeout,
		Err:        err,
	}
}

// DownstreamError is the generic answer for faults that were not classified.
func DownstreamError(message string, err error) *AppError {
	return &AppError{
		Code:       CodeDownstreamError,
		Message:    message,
		HTTPStatus: http.StatusBadGateway,
		Err:        err,
	}
}

func PersistenceFailure(transient bool, err error) *AppError {
	if transient {
		return &AppError{
			Code:       CodeTransientPersistenceFailure,
			Message:    "reservation could not be saved after retries",
			HTTPStatus: http.StatusBadGateway,
			Err:        err,
		}
	}
	return &AppError{
		Code:       CodePersistentPersistenceFailure,
		Message:    "reservation was rejected by the store",
		HTTPStatus: http.StatusBadGateway,
		Err:        err,
	}
}

// CompensationFailed marks a saga whose rollback itself failed. The cause is
// the failure that triggered compensation; inventory may be stranded.
func CompensationFailed(cause *AppError, err error) *AppError {
	appErr := &AppError{
		Code:       CodeCompensationFailed,
		Message:    "reservation failed and inventory could not be released; manual reconciliation required",
		HTTPStatus: http.StatusBadGateway,
		Err:        err,
		Details:    map[string]any{"reconcile": true},
	}
	if cause != nil {
		appErr.Details["cause_code"] = cause.Code
		appErr.Details["cause"] = cause.Message
	}
	return appErr
}

func NonCritical(message string, err error) *AppError {
	return &AppError{
		Code:    CodeNonCriticalFailure,
		Message: message,
		Err:     err,
	}
}

func IsAppError(err error) bool {
	var appErr *AppError
	return errors.As(err, &appErr)
}

func AsAppError(err error) *AppError {
	var appErr *AppError
	if errors.As(err, &appErr) {
		return appErr
	}
	return Internal("An unexpected error occurred", err)
}

// HasCode reports whether err is an AppError carrying code.
func HasCode(err error, code string) bool {
	var appErr *AppError
	return errors.As(err, &appErr) && appErr.Code == code
}
