package errors

import (
	"errors"
	"fmt"
	"strings"

	"gorm.io/gorm"
)

// ErrorCode identifies an error kind
type ErrorCode string

const (
	// Auth errors
	ErrCodeUnauthorized    ErrorCode = "UNAUTHORIZED"
	ErrCodeInvalidToken    ErrorCode = "INVALID_TOKEN"
	ErrCodeMissingToken    ErrorCode = "MISSING_TOKEN"
	ErrCodeInvalidPassword ErrorCode = "INVALID_PASSWORD"
	ErrCodeUserNotFound    ErrorCode = "USER_NOT_FOUND"
	ErrCodeUserExists      ErrorCode = "USER_EXISTS"
	ErrCodeInvalidEmail    ErrorCode = "INVALID_EMAIL"
	ErrCodeInvalidRole     ErrorCode = "INVALID_ROLE"

	// Tenant errors
	ErrCodeTenantIsolation ErrorCode = "TENANT_ISOLATION"

	// Attendance errors
	ErrCodeInvalidCoordinate   ErrorCode = "INVALID_COORDINATE"
	ErrCodeLocationRequired    ErrorCode = "LOCATION_REQUIRED"
	ErrCodeOutOfRange          ErrorCode = "OUT_OF_RANGE"
	ErrCodeAlreadyClockedIn    ErrorCode = "ALREADY_CLOCKED_IN"
	ErrCodeNotClockedIn        ErrorCode = "NOT_CLOCKED_IN"
	ErrCodeInvalidClockOutTime ErrorCode = "INVALID_CLOCK_OUT_TIME"
	ErrCodeInvalidQRCode       ErrorCode = "INVALID_QR_CODE"
	ErrCodeEmployeeInactive    ErrorCode = "EMPLOYEE_INACTIVE"

	// Employee errors
	ErrCodeInvalidDepartment ErrorCode = "INVALID_DEPARTMENT"
	ErrCodeInvalidAmount     ErrorCode = "INVALID_AMOUNT"

	// Database errors
	ErrCodeDBError     ErrorCode = "DB_ERROR"
	ErrCodeDBNotFound  ErrorCode = "DB_NOT_FOUND"
	ErrCodeDBDuplicate ErrorCode = "DB_DUPLICATE"

	// Validation errors
	ErrCodeValidation    ErrorCode = "VALIDATION_ERROR"
	ErrCodeRequiredField ErrorCode = "REQUIRED_FIELD"
	ErrCodeInvalidFormat ErrorCode = "INVALID_FORMAT"

	// External services
	ErrCodeUpstream ErrorCode = "UPSTREAM_ERROR"
)

// AppError is the error type returned by every service of the application
type AppError struct {
	Code    ErrorCode
	Message string
	Err     error
}

func (e *AppError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("[%s] %s: %v", e.Code, e.Message, e.Err)
	}
	return fmt.Sprintf("[%s] %s", e.Code, e.Message)
}

func (e *AppError) Unwrap() error {
	return e.Err
}

// Is matches any AppError carrying the same code, so sentinels below work with errors.Is.
func (e *AppError) Is(target error) bool {
	t, ok := target.(*AppError)
	if !ok {
		return false
	}
	return t.Code == e.Code
}

// NewAppError creates a new AppError
func NewAppError(code ErrorCode, message string, err error) *AppError {
	return &AppError{
		Code:    code,
		Message: message,
		Err:     err,
	}
}

// Validation is a shorthand for a VALIDATION_ERROR
func Validation(format string, args ...interface{}) *AppError {
	return NewAppError(ErrCodeValidation, fmt.Sprintf(format, args...), nil)
}

// IsAppError reports whether err is (or wraps) an AppError
func IsAppError(err error) bool {
	var appErr *AppError
	return errors.As(err, &appErr)
}

// GetAppError extracts the AppError from err, nil when there is none
func GetAppError(err error) *AppError {
	var appErr *AppError
	if errors.As(err, &appErr) {
		return appErr
	}
	return nil
}

// CodeOf returns the code of the AppError in err, or DB_ERROR for foreign errors
func CodeOf(err error) ErrorCode {
	if appErr := GetAppError(err); appErr != nil {
		return appErr.Code
	}
	return ErrCodeDBError
}

var (
	ErrValidation          = NewAppError(ErrCodeValidation, "invalid input", nil)
	ErrInvalidCoordinate   = NewAppError(ErrCodeInvalidCoordinate, "invalid coordinate", nil)
	ErrLocationRequired    = NewAppError(ErrCodeLocationRequired, "location is required", nil)
	ErrOutOfRange          = NewAppError(ErrCodeOutOfRange, "outside the allowed clock-in radius", nil)
	ErrAlreadyClockedIn    = NewAppError(ErrCodeAlreadyClockedIn, "already clocked in for this day", nil)
	ErrNotClockedIn        = NewAppError(ErrCodeNotClockedIn, "no open clock-in for this day", nil)
	ErrInvalidClockOutTime = NewAppError(ErrCodeInvalidClockOutTime, "clock-out time is before clock-in time", nil)
	ErrTenantIsolation     = NewAppError(ErrCodeTenantIsolation, "cross-employer access", nil)
	ErrInvalidQRCode       = NewAppError(ErrCodeInvalidQRCode, "invalid or expired QR code", nil)
	ErrEmployeeInactive    = NewAppError(ErrCodeEmployeeInactive, "employee is deactivated", nil)
	ErrNotFound            = NewAppError(ErrCodeDBNotFound, "record not found", nil)
	ErrDuplicate           = NewAppError(ErrCodeDBDuplicate, "record already exists", nil)
	ErrUnauthorized        = NewAppError(ErrCodeUnauthorized, "unauthorized", nil)
	ErrInvalidPassword     = NewAppError(ErrCodeInvalidPassword, "invalid credentials", nil)
	ErrUserExists          = NewAppError(ErrCodeUserExists, "email already in use", nil)
)

// Is reports whether any error in err's chain matches target
func Is(err, target error) bool {
	return errors.Is(err, target)
}

// As finds the first error in err's chain that matches target
func As(err error, target interface{}) bool {
	return errors.As(err, target)
}

// Database wraps a persistence error, classifying not-found and unique violations
func Database(err error, message string) error {
	if err == nil {
		return nil
	}
	if IsAppError(err) {
		return err
	}
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return NewAppError(ErrCodeDBNotFound, message, err)
	}
	if IsDuplicateKey(err) {
		return NewAppError(ErrCodeDBDuplicate, message, err)
	}
	return NewAppError(ErrCodeDBError, message, err)
}

// IsDuplicateKey detects unique-constraint violations, translated or raw
func IsDuplicateKey(err error) bool {
	if err == nil {
		return false
	}
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return true
	}
	msg := err.Error()
	return strings.Contains(msg, "duplicate key value") || strings.Contains(msg, "UNIQUE constraint failed")
}
