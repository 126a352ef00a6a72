package shared

import (
	"errors"
	"fmt"
	"net/http"
)

// AppError is the error type every service returns across the HTTP boundary.
// StatusCode drives the response code, Message is safe to show to the caller,
// Err keeps the underlying cause for logs.
type AppError struct {
	StatusCode int         `json:"code"`
	Message    string      `json:"message"`
	Data       interface{} `json:"data,omitempty"`
	Err        error       `json:"-"`
}

func (e *AppError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Err)
	}
	return e.Message
}

func (e *AppError) Unwrap() error {
	return e.Err
}

func newAppError(statusCode int, err error, message string) *AppError {
	return &AppError{
		StatusCode: statusCode,
		Message:    message,
		Err:        err,
	}
}

// NewBadRequestError covers malformed input: future-dated activity dates,
// missing required scores, validation failures.
func NewBadRequestError(err error, message string) *AppError {
	return newAppError(http.StatusBadRequest, err, message)
}

func NewUnauthorizedError(err error, message string) *AppError {
	return newAppError(http.StatusUnauthorized, err, message)
}

// NewForbiddenError covers authorization failures, e.g. a guardian acting on
// an account that is not linked to them.
func NewForbiddenError(err error, message string) *AppError {
	return newAppError(http.StatusForbidden, err, message)
}

// NewNotFoundError covers both missing records and already-processed
// activities. Callers rely on the 404 to tell a duplicate click apart from a
// validation mistake.
func NewNotFoundError(err error, message string) *AppError {
	return newAppError(http.StatusNotFound, err, message)
}

func NewConflictError(err error, message string) *AppError {
	return newAppError(http.StatusConflict, err, message)
}

func NewInternalError(err error, message string) *AppError {
	return newAppError(http.StatusInternalServerError, err, message)
}

// NewServiceUnavailableError covers an unreachable backing store. The caller
// may retry; nothing has committed.
func NewServiceUnavailableError(err error, message string) *AppError {
	return newAppError(http.StatusServiceUnavailable, err, message)
}

func GetAppError(err error) (*AppError, bool) {
	var appErr *AppError
	if errors.As(err, &appErr) {
		return appErr, true
	}
	return nil, false
}

// PartialApplyError records a stepwise approval that committed the status
// transition but failed a later sub-step. The activity is no longer
// re-processable, so this is never returned to the caller as a failure; it is
// logged with enough detail for manual reconciliation.
type PartialApplyError struct {
	ActivityID string
	AccountID  string
	Step       string
	Err        error
}

func (e *PartialApplyError) Error() string {
	return fmt.Sprintf("partial apply: activity=%s account=%s step=%s: %v",
		e.ActivityID, e.AccountID, e.Step, e.Err)
}

func (e *PartialApplyError) Unwrap() error {
	return e.Err
}
