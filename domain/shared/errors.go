/*
Package shared holds the building blocks every subdomain uses: aggregate and
event contracts, the command envelope, validation outcomes, and the
request-scoped domain notification channel.

Error design:
1. Sentinel errors support errors.Is() checks without string matching.
2. DomainError captures its stack at construction but formats it lazily.
3. Domain errors carry no transport concepts (no HTTP status codes).
4. Recoverable business-rule violations do NOT travel as errors at all; they
   are published as DomainNotifications. Only unexpected failures use the
   error channel.
*/
package shared

import (
	"errors"
	"fmt"
	"runtime"
	"strings"
)

var (
	// ErrNotFound marks a missing aggregate or sub-entity.
	ErrNotFound = errors.New("not found")

	// ErrConflict marks a uniqueness or concurrent-modification conflict.
	ErrConflict = errors.New("conflict")

	// ErrInvalidInput marks failed input validation.
	ErrInvalidInput = errors.New("invalid input")

	// ErrBusinessRule marks an aggregate invariant rejecting an operation.
	ErrBusinessRule = errors.New("business rule violated")
)

// DomainError is a structured error carrying business context and the stack
// of its construction site.
type DomainError struct {
	// Err is the underlying sentinel, for errors.Is().
	Err error

	// Entity names the aggregate or entity involved (e.g. "student").
	Entity string

	// Message is the human-readable description.
	Message string

	// Field optionally names the offending field for validation errors.
	Field string

	stack []uintptr
}

func (e *DomainError) Error() string { return e.Message }

func (e *DomainError) Unwrap() error { return e.Err }

// Stack formats the captured frames on demand (only done when logging).
func (e *DomainError) Stack() []string { return FormatStack(e.stack) }

// CaptureStack records the current call stack. skip is the number of frames
// to drop (typically 3: Callers, CaptureStack, the constructor).
func CaptureStack(skip int) []uintptr {
	var pcs [32]uintptr
	n := runtime.Callers(skip, pcs[:])
	return pcs[:n]
}

// FormatStack renders frames as "file:line func" strings, filtering runtime
// internals and capping at 10 frames.
func FormatStack(stack []uintptr) []string {
	if len(stack) == 0 {
		return nil
	}

	frames := runtime.CallersFrames(stack)
	var result []string
	for {
		frame, more := frames.Next()
		if !strings.Contains(frame.File, "runtime/") {
			result = append(result, fmt.Sprintf("%s:%d %s", frame.File, frame.Line, frame.Function))
		}
		if !more || len(result) > 10 {
			break
		}
	}
	return result
}

// NewNotFoundError creates a "not found" domain error with stack.
func NewNotFoundError(entity string) error {
	return &DomainError{
		Err:     ErrNotFound,
		Entity:  entity,
		Message: entity + " not found",
		stack:   CaptureStack(3),
	}
}

// NewConflictError creates a "conflict" domain error with stack.
func NewConflictError(entity, message string) error {
	return &DomainError{
		Err:     ErrConflict,
		Entity:  entity,
		Message: message,
		stack:   CaptureStack(3),
	}
}

// NewValidationError creates a field-level validation error with stack.
func NewValidationError(entity, field, reason string) error {
	return &DomainError{
		Err:     ErrInvalidInput,
		Entity:  entity,
		Field:   field,
		Message: reason,
		stack:   CaptureStack(3),
	}
}

// NewBusinessRuleError creates a business-rule violation error with stack.
func NewBusinessRuleError(entity, reason string) error {
	return &DomainError{
		Err:     ErrBusinessRule,
		Entity:  entity,
		Message: reason,
		stack:   CaptureStack(3),
	}
}

// Stacker is implemented by errors that can provide their origin stack; the
// API layer uses it to log the point where the error was created.
type Stacker interface {
	Stack() []string
}
