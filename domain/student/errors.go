/*
Student domain errors.

These never reach a caller as thrown faults: the command handlers translate
each one into a DomainNotification and a failed CommandResult. They exist as
errors so the aggregate can reject an operation with errors.Is-checkable
semantics and a construction-site stack.
*/
package student

import (
	"errors"
	"fmt"
	"time"

	"github.com/jasonamaral/mba.modulo4-sub001/domain/shared"
)

var (
	// ErrStudentNotFound marks a missing Student aggregate.
	ErrStudentNotFound = errors.New("student not found")

	// ErrStudentInactive rejects operations that require an active student.
	ErrStudentInactive = errors.New("student is not active")

	// ErrStudentAlreadyActive rejects a second activation.
	ErrStudentAlreadyActive = errors.New("student is already active")

	// ErrDuplicateStudent marks a uniqueness conflict on email or
	// identity-provider reference.
	ErrDuplicateStudent = errors.New("student already registered")

	// ErrRequiredField marks a blank required text field.
	ErrRequiredField = errors.New("required field is empty")

	// ErrInvalidBirthDate rejects birth dates not in the past.
	ErrInvalidBirthDate = errors.New("birth date must be in the past")

	// ErrAlreadyEnrolled rejects a second enrollment for the same course.
	ErrAlreadyEnrolled = errors.New("student is already enrolled in this course")

	// ErrEnrollmentNotFound marks a missing enrollment within the aggregate.
	ErrEnrollmentNotFound = errors.New("enrollment not found")

	// ErrEnrollmentNotActive rejects operations that need an active enrollment.
	ErrEnrollmentNotActive = errors.New("enrollment is not active")

	// ErrEnrollmentNotSuspended rejects reactivation of a non-suspended enrollment.
	ErrEnrollmentNotSuspended = errors.New("enrollment is not suspended")

	// ErrEnrollmentNotCompleted gates certificate issuance.
	ErrEnrollmentNotCompleted = errors.New("enrollment is not completed")

	// ErrEnrollmentAlreadyCompleted rejects concluding a course twice.
	ErrEnrollmentAlreadyCompleted = errors.New("enrollment is already completed")

	// ErrLessonsIncomplete rejects conclusion before every lesson is done.
	ErrLessonsIncomplete = errors.New("not all lessons are completed")

	// ErrPaymentAlreadyConfirmed rejects a duplicate payment confirmation.
	ErrPaymentAlreadyConfirmed = errors.New("payment already confirmed")

	// ErrCertificateAlreadyIssued rejects a second certificate request.
	ErrCertificateAlreadyIssued = errors.New("certificate already issued for this enrollment")

	// ErrLessonNotInCourse rejects a lesson absent from the supplied course
	// snapshot. The legacy behavior was to proceed with placeholder values;
	// here the command is rejected explicitly.
	ErrLessonNotInCourse = errors.New("lesson not found in course snapshot")
)

// studentDomainError carries the sentinel, context and construction stack.
type studentDomainError struct {
	sentinel error
	entity   string
	field    string
	message  string
	stack    []uintptr
}

func (e *studentDomainError) Error() string   { return e.message }
func (e *studentDomainError) Unwrap() error   { return e.sentinel }
func (e *studentDomainError) Stack() []string { return shared.FormatStack(e.stack) }

func newError(sentinel error, message string) error {
	return &studentDomainError{
		sentinel: sentinel,
		entity:   "student",
		message:  message,
		stack:    shared.CaptureStack(4),
	}
}

func NewStudentNotFoundError(key string) error {
	return newError(ErrStudentNotFound, "student not found: "+key)
}

func NewStudentInactiveError(studentID string) error {
	return newError(ErrStudentInactive, "student "+studentID+" is not active")
}

func NewStudentAlreadyActiveError(studentID string) error {
	return newError(ErrStudentAlreadyActive, "student "+studentID+" is already active")
}

func NewDuplicateStudentError(field, value string) error {
	return &studentDomainError{
		sentinel: ErrDuplicateStudent,
		entity:   "student",
		field:    field,
		message:  "student already registered with " + field + " " + value,
		stack:    shared.CaptureStack(3),
	}
}

func NewRequiredFieldError(field string) error {
	return &studentDomainError{
		sentinel: ErrRequiredField,
		entity:   "student",
		field:    field,
		message:  field + " is required",
		stack:    shared.CaptureStack(3),
	}
}

func NewBirthDateError(birthDate time.Time) error {
	return &studentDomainError{
		sentinel: ErrInvalidBirthDate,
		entity:   "student",
		field:    "birth_date",
		message:  fmt.Sprintf("birth date %s must be in the past", birthDate.Format("2006-01-02")),
		stack:    shared.CaptureStack(3),
	}
}

func NewAlreadyEnrolledError(studentID, courseID string) error {
	return newError(ErrAlreadyEnrolled, "student "+studentID+" is already enrolled in course "+courseID)
}

func NewEnrollmentNotFoundError(studentID, key string) error {
	return newError(ErrEnrollmentNotFound, "enrollment "+key+" not found for student "+studentID)
}

func NewEnrollmentNotActiveError(enrollmentID string, status EnrollmentStatus) error {
	return newError(ErrEnrollmentNotActive, "enrollment "+enrollmentID+" is "+string(status)+", not active")
}

func NewEnrollmentNotSuspendedError(enrollmentID string, status EnrollmentStatus) error {
	return newError(ErrEnrollmentNotSuspended, "enrollment "+enrollmentID+" is "+string(status)+", not suspended")
}

func NewEnrollmentNotCompletedError(enrollmentID string, status EnrollmentStatus) error {
	return newError(ErrEnrollmentNotCompleted, "enrollment "+enrollmentID+" is "+string(status)+", certificate requires completion")
}

func NewEnrollmentAlreadyCompletedError(enrollmentID string) error {
	return newError(ErrEnrollmentAlreadyCompleted, "enrollment "+enrollmentID+" is already completed")
}

func NewLessonsIncompleteError(enrollmentID string, completed, total int) error {
	return newError(ErrLessonsIncomplete,
		fmt.Sprintf("enrollment %s has %d of %d lessons completed", enrollmentID, completed, total))
}

func NewPaymentAlreadyConfirmedError(enrollmentID string) error {
	return newError(ErrPaymentAlreadyConfirmed, "payment already confirmed for enrollment "+enrollmentID)
}

func NewCertificateAlreadyIssuedError(enrollmentID string) error {
	return newError(ErrCertificateAlreadyIssued, "certificate already issued for enrollment "+enrollmentID)
}

func NewLessonNotInCourseError(lessonID, courseID string) error {
	return newError(ErrLessonNotInCourse, "lesson "+lessonID+" not found in course "+courseID)
}

// IsDomainRejection reports whether err is a recoverable business-rule
// violation of this subdomain, the class the handlers convert into
// notifications instead of propagating.
func IsDomainRejection(err error) bool {
	var de *studentDomainError
	return errors.As(err, &de)
}
