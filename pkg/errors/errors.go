package errors

import (
	"errors"
	"fmt"
	"net/http"
)

const (
	CodeUnauthorized        = "UNAUTHORIZED"
	CodeForbidden           = "FORBIDDEN"
	CodeNotFound            = "NOT_FOUND"
	CodeUserNotFound        = "USER_NOT_FOUND"
	CodeTaskNotFound        = "TASK_NOT_FOUND"
	CodeSubmissionNotFound  = "SUBMISSION_NOT_FOUND"
	CodeWithdrawalNotFound  = "WITHDRAWAL_NOT_FOUND"
	CodeInsufficientFunds   = "INSUFFICIENT_FUNDS"
	CodeNoSlotsAvailable    = "NO_SLOTS_AVAILABLE"
	CodeInvalidTransition   = "INVALID_TRANSITION"
	CodePaymentNotSucceeded = "PAYMENT_NOT_SUCCEEDED"
	CodeBadRequest          = "BAD_REQUEST"
	CodeConflict            = "CONFLICT"
	CodeInternal            = "INTERNAL_ERROR"
)

// ErrNotFound is returned by repositories when a document does not exist.
// Use cases translate it into the resource specific AppError.
var ErrNotFound = errors.New("document not found")

type AppError struct {
	Code    string
	Message string
	Status  int
	Err     error
}

func (e *AppError) Error() string {
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

func (e *AppError) Unwrap() error {
	return e.Err
}

func New(code string, message string, status int, err error) *AppError {
	return &AppError{
		Code:    code,
		Message: message,
		Status:  status,
		Err:     err,
	}
}

func NotFound(resource string, err error) *AppError {
	return &AppError{
		Code:    CodeNotFound,
		Message: fmt.Sprintf("%s not found", resource),
		Status:  http.StatusNotFound,
		Err:     err,
	}
}

func UserNotFound(err error) *AppError {
	return New(CodeUserNotFound, "User not found!", http.StatusNotFound, err)
}

func TaskNotFound(err error) *AppError {
	return New(CodeTaskNotFound, "Task not found", http.StatusNotFound, err)
}

func SubmissionNotFound(err error) *AppError {
	return New(CodeSubmissionNotFound, "Submission not found", http.StatusNotFound, err)
}

func WithdrawalNotFound(err error) *AppError {
	return New(CodeWithdrawalNotFound, "Withdrawal not found", http.StatusNotFound, err)
}

func InsufficientFunds(message string) *AppError {
	if message == "" {
		message = "Insufficient coins!"
	}
	return New(CodeInsufficientFunds, message, http.StatusBadRequest, nil)
}

func NoSlotsAvailable() *AppError {
	return New(CodeNoSlotsAvailable, "Task has no open worker slots", http.StatusConflict, nil)
}

func InvalidTransition(from, to string) *AppError {
	return New(CodeInvalidTransition, fmt.Sprintf("Cannot move from %s to %s", from, to), http.StatusConflict, nil)
}

func PaymentNotSucceeded(status string) *AppError {
	return New(CodePaymentNotSucceeded, fmt.Sprintf("Payment has not succeeded (status: %s)", status), http.StatusPaymentRequired, nil)
}

func BadRequest(message string, err error) *AppError {
	return &AppError{
		Code:    CodeBadRequest,
		Message: message,
		Status:  http.StatusBadRequest,
		Err:     err,
	}
}

func Unauthorized(message string, err error) *AppError {
	return &AppError{
		Code:    CodeUnauthorized,
		Message: message,
		Status:  http.StatusUnauthorized,
		Err:     err,
	}
}

func Forbidden(message string, err error) *AppError {
	return &AppError{
		Code:    CodeForbidden,
		Message: message,
		Status:  http.StatusForbidden,
		Err:     err,
	}
}

func Conflict(message string) *AppError {
	return &AppError{
		Code:    CodeConflict,
		Message: message,
		Status:  http.StatusConflict,
		Err:     nil,
	}
}

func Internal(message string, err error) *AppError {
	return &AppError{
		Code:    CodeInternal,
		Message: message,
		Status:  http.StatusInternalServerError,
		Err:     err,
	}
}

func TooManyRequests(message string) *AppError {
	return &AppError{
		Code:    "TOO_MANY_REQUESTS",
		Message: message,
		Status:  http.StatusTooManyRequests,
		Err:     nil,
	}
}

func Is(err error, code string) bool {
	var appErr *AppError
	if errors.As(err, &appErr) {
		return appErr.Code == code
	}
	return false
}

// IsNotFound reports whether err is, or wraps, ErrNotFound.
func IsNotFound(err error) bool {
	return errors.Is(err, ErrNotFound)
}

// AsAppError passes AppErrors through unchanged and wraps anything else
// as an internal error with the given message.
func AsAppError(err error, message string) error {
	if err == nil {
		return nil
	}
	var appErr *AppError
	if errors.As(err, &appErr) {
		return err
	}
	return Internal(message, err)
}

// IsAppError reports whether err carries an AppError.
func IsAppError(err error) bool {
	var appErr *AppError
	return errors.As(err, &appErr)
}
