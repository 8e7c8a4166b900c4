package errors

import (
	"errors"
	"fmt"
	"net/http"
	"strings"

	"github.com/jasonamaral/mba.modulo4-sub001/domain/student"
)

// ErrorCode application-level error code
type ErrorCode string

const (
	// generic codes
	CodeInternal       ErrorCode = "INTERNAL_ERROR"
	CodeBadRequest     ErrorCode = "BAD_REQUEST"
	CodeUnauthorized   ErrorCode = "UNAUTHORIZED"
	CodeForbidden      ErrorCode = "FORBIDDEN"
	CodeNotFound       ErrorCode = "NOT_FOUND"
	CodeConflict       ErrorCode = "CONFLICT"
	CodeTooManyRequest ErrorCode = "TOO_MANY_REQUESTS"
	CodeValidation     ErrorCode = "VALIDATION_ERROR"

	// business codes
	CodeStudentNotFound        ErrorCode = "STUDENT_NOT_FOUND"
	CodeStudentNotActive       ErrorCode = "STUDENT_NOT_ACTIVE"
	CodeStudentExists          ErrorCode = "STUDENT_EXISTS"
	CodeEnrollmentNotFound     ErrorCode = "ENROLLMENT_NOT_FOUND"
	CodeInvalidEnrollmentState ErrorCode = "INVALID_ENROLLMENT_STATE"
)

// AppError application error carried across the API boundary
type AppError struct {
	Code    ErrorCode `json:"code"`
	Message string    `json:"message"`
	Err     error     `json:"-"`
}

func (e *AppError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %s (%v)", e.Code, e.Message, e.Err)
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

func (e *AppError) Unwrap() error {
	return e.Err
}

// HTTPStatusCode maps the code to an HTTP status
func (e *AppError) HTTPStatusCode() int {
	switch e.Code {
	case CodeBadRequest, CodeValidation:
		return http.StatusBadRequest
	case CodeUnauthorized:
		return http.StatusUnauthorized
	case CodeForbidden:
		return http.StatusForbidden
	case CodeNotFound, CodeStudentNotFound, CodeEnrollmentNotFound:
		return http.StatusNotFound
	case CodeConflict, CodeStudentExists:
		return http.StatusConflict
	case CodeTooManyRequest:
		return http.StatusTooManyRequests
	case CodeStudentNotActive, CodeInvalidEnrollmentState:
		return http.StatusUnprocessableEntity
	default:
		return http.StatusInternalServerError
	}
}

// New creates a new AppError
func New(code ErrorCode, message string) *AppError {
	return &AppError{
		Code:    code,
		Message: message,
	}
}

// Wrap wraps an underlying error
func Wrap(err error, code ErrorCode, message string) *AppError {
	return &AppError{
		Code:    code,
		Message: message,
		Err:     err,
	}
}

func BadRequest(message string) *AppError {
	return New(CodeBadRequest, message)
}

func NotFound(message string) *AppError {
	return New(CodeNotFound, message)
}

func Internal(message string) *AppError {
	return New(CodeInternal, message)
}

func Unauthorized(message string) *AppError {
	return New(CodeUnauthorized, message)
}

func Forbidden(message string) *AppError {
	return New(CodeForbidden, message)
}

func Conflict(message string) *AppError {
	return New(CodeConflict, message)
}

func TooManyRequests(message string) *AppError {
	return New(CodeTooManyRequest, message)
}

func Validation(message string) *AppError {
	return New(CodeValidation, message)
}

// business errors

func StudentNotFound(message string) *AppError {
	return New(CodeStudentNotFound, message)
}

func StudentNotActive(message string) *AppError {
	return New(CodeStudentNotActive, message)
}

func StudentExists(message string) *AppError {
	return New(CodeStudentExists, message)
}

func EnrollmentNotFound(message string) *AppError {
	return New(CodeEnrollmentNotFound, message)
}

func InvalidEnrollmentState(message string) *AppError {
	return New(CodeInvalidEnrollmentState, message)
}

// Is checks for a specific error code
func Is(err error, code ErrorCode) bool {
	var appErr *AppError
	if errors.As(err, &appErr) {
		return appErr.Code == code
	}
	return false
}

// AsAppError converts any error to an AppError
func AsAppError(err error) *AppError {
	var appErr *AppError
	if errors.As(err, &appErr) {
		return appErr
	}
	return Wrap(err, CodeInternal, "internal server error")
}

// MapDomainError maps a domain rejection to the matching application error.
func MapDomainError(err error) *AppError {
	if err == nil {
		return nil
	}

	var appErr *AppError
	if errors.As(err, &appErr) {
		return appErr
	}

	msg := err.Error()
	switch {
	case errors.Is(err, student.ErrStudentNotFound):
		return StudentNotFound(msg)
	case errors.Is(err, student.ErrEnrollmentNotFound):
		return EnrollmentNotFound(msg)
	case errors.Is(err, student.ErrStudentInactive):
		return StudentNotActive(msg)
	case errors.Is(err, student.ErrDuplicateStudent),
		errors.Is(err, student.ErrAlreadyEnrolled),
		errors.Is(err, student.ErrCertificateAlreadyIssued):
		return StudentExists(msg)
	case errors.Is(err, student.ErrEnrollmentNotActive),
		errors.Is(err, student.ErrEnrollmentNotSuspended),
		errors.Is(err, student.ErrEnrollmentNotCompleted),
		errors.Is(err, student.ErrEnrollmentAlreadyCompleted),
		errors.Is(err, student.ErrLessonsIncomplete),
		errors.Is(err, student.ErrPaymentAlreadyConfirmed):
		return InvalidEnrollmentState(msg)
	case errors.Is(err, student.ErrRequiredField),
		errors.Is(err, student.ErrInvalidBirthDate),
		errors.Is(err, student.ErrLessonNotInCourse):
		return BadRequest(msg)
	}

	if strings.Contains(msg, "not found") {
		return NotFound(msg)
	}
	if strings.Contains(msg, "invalid") {
		return BadRequest(msg)
	}
	if strings.Contains(msg, "already") {
		return Conflict(msg)
	}
	return Wrap(err, CodeInternal, msg)
}
