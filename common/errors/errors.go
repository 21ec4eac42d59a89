package errors

import (
	"encoding/json"
	"fmt"
	"net/http"
	"runtime"
	"strings"
)

// ErrorCode represents application-specific error codes
type ErrorCode string

const (
	// Authentication errors (1xxx)
	ErrCodeUnauthorized       ErrorCode = "E1001"
	ErrCodeInvalidCredentials ErrorCode = "E1002"
	ErrCodeForbidden          ErrorCode = "E1003"
	ErrCodeUserDisabled       ErrorCode = "E1004"

	// Validation errors (2xxx)
	ErrCodeValidation   ErrorCode = "E2001"
	ErrCodeMissingField ErrorCode = "E2002"

	// Resource errors (3xxx)
	ErrCodeNotFound ErrorCode = "E3001"
	ErrCodeConflict ErrorCode = "E3002"

	// Business logic errors (4xxx)
	ErrCodeOTPInvalidOrExpired ErrorCode = "E4001"

	// External service errors (5xxx)
	ErrCodeTransport ErrorCode = "E5001"

	// Internal errors (9xxx)
	ErrCodeInternal ErrorCode = "E9001"
	ErrCodeStorage  ErrorCode = "E9002"
)

// AppError represents an application error with context
type AppError struct {
	Code       ErrorCode `json:"code"`
	Message    string    `json:"message"`
	HTTPStatus int       `json:"-"`
	Cause      error     `json:"-"`
	Stack      string    `json:"-"`
}

// Error implements the error interface
func (e *AppError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("[%s] %s: %v", e.Code, e.Message, e.Cause)
	}
	return fmt.Sprintf("[%s] %s", e.Code, e.Message)
}

// Unwrap returns the underlying error
func (e *AppError) Unwrap() error {
	return e.Cause
}

// WithCause wraps an underlying error
func (e *AppError) WithCause(err error) *AppError {
	e.Cause = err
	return e
}

// ToJSON converts error to JSON response format
func (e *AppError) ToJSON() map[string]interface{} {
	return map[string]interface{}{
		"success": false,
		"code":    e.Code,
		"error":   e.Message,
	}
}

// WriteJSON writes error as JSON response
func (e *AppError) WriteJSON(w http.ResponseWriter) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(e.HTTPStatus)
	json.NewEncoder(w).Encode(e.ToJSON())
}

// ============================================================
// Error constructors
// ============================================================

// New creates a new AppError
func New(code ErrorCode, message string) *AppError {
	return &AppError{
		Code:       code,
		Message:    message,
		HTTPStatus: getHTTPStatus(code),
		Stack:      captureStack(2),
	}
}

// Wrap wraps an existing error with AppError
func Wrap(err error, code ErrorCode, message string) *AppError {
	return &AppError{
		Code:       code,
		Message:    message,
		HTTPStatus: getHTTPStatus(code),
		Cause:      err,
		Stack:      captureStack(2),
	}
}

// ============================================================
// Predefined error constructors
// ============================================================

// Unauthorized covers every token failure: bad signature, expired, malformed.
// One generic message so the response does not act as a validation oracle.
func Unauthorized() *AppError {
	return New(ErrCodeUnauthorized, "Could not validate credentials")
}

// InvalidCredentials is returned on any login mismatch. The message never
// reveals whether the username exists.
func InvalidCredentials() *AppError {
	return New(ErrCodeInvalidCredentials, "Incorrect username or password")
}

func Forbidden() *AppError {
	return New(ErrCodeForbidden, "Not enough permissions")
}

func UserDisabled() *AppError {
	return New(ErrCodeUserDisabled, "User account is disabled")
}

// Validation errors
func ValidationError(message string) *AppError {
	return New(ErrCodeValidation, message)
}

func MissingField(field string) *AppError {
	return New(ErrCodeMissingField, fmt.Sprintf("%s must not be empty", field))
}

// Resource errors
func NotFound(resource string) *AppError {
	return New(ErrCodeNotFound, fmt.Sprintf("%s does not exist", resource))
}

func Conflict(message string) *AppError {
	return New(ErrCodeConflict, message)
}

// InvalidOrExpiredOTP covers wrong code, expired code and already-consumed
// requests without distinguishing them.
func InvalidOrExpiredOTP() *AppError {
	return New(ErrCodeOTPInvalidOrExpired, "OTP code is invalid or has expired")
}

// External service errors
func TransportError(err error) *AppError {
	return Wrap(err, ErrCodeTransport, "Notification could not be delivered")
}

// Internal errors
func Internal(message string) *AppError {
	return New(ErrCodeInternal, message)
}

func StorageError(err error) *AppError {
	return Wrap(err, ErrCodeStorage, "Storage operation failed")
}

// ============================================================
// Helper functions
// ============================================================

func getHTTPStatus(code ErrorCode) int {
	switch code {
	case ErrCodeUnauthorized:
		return http.StatusUnauthorized
	case ErrCodeForbidden, ErrCodeUserDisabled:
		return http.StatusForbidden
	case ErrCodeInvalidCredentials, ErrCodeValidation, ErrCodeMissingField,
		ErrCodeOTPInvalidOrExpired:
		return http.StatusBadRequest
	case ErrCodeNotFound:
		return http.StatusNotFound
	case ErrCodeConflict:
		return http.StatusConflict
	case ErrCodeTransport:
		return http.StatusBadGateway
	default:
		return http.StatusInternalServerError
	}
}

func captureStack(skip int) string {
	var pcs [32]uintptr
	n := runtime.Callers(skip+1, pcs[:])
	frames := runtime.CallersFrames(pcs[:n])

	var sb strings.Builder
	for {
		frame, more := frames.Next()
		if strings.Contains(frame.File, "runtime/") {
			if !more {
				break
			}
			continue
		}
		sb.WriteString(fmt.Sprintf("%s\n\t%s:%d\n", frame.Function, frame.File, frame.Line))
		if !more {
			break
		}
	}
	return sb.String()
}

// IsAppError checks if an error is an AppError
func IsAppError(err error) bool {
	_, ok := err.(*AppError)
	return ok
}

// AsAppError converts an error to AppError if possible
func AsAppError(err error) (*AppError, bool) {
	appErr, ok := err.(*AppError)
	return appErr, ok
}

// ToAppError converts any error to AppError
func ToAppError(err error) *AppError {
	if appErr, ok := err.(*AppError); ok {
		return appErr
	}
	return Wrap(err, ErrCodeInternal, err.Error())
}
